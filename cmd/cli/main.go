// bifinder finds bottleneck candidates in monitor logs.
package main

import (
	"os"

	"github.com/ccollicutt/bifinder/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
