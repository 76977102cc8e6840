// Package commands implements the bifinder sub-commands.
package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// GlobalOptions holds settings shared by every command.
// The root command fills them from persistent flags before a command runs.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool

	Logger *zap.Logger
}

func (g *GlobalOptions) logger() *zap.Logger {
	if g == nil || g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *GlobalOptions) configPath() string {
	if g == nil {
		return ""
	}
	return g.ConfigPath
}

// UsageError reports a command invoked with the wrong arguments or flags.
// Err is the underlying flag error, if any.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "usage: " + e.Usage
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// FlagError wraps a cobra flag parsing error as a UsageError.
func FlagError(cmd *cobra.Command, err error) error {
	return &UsageError{Usage: cmd.UseLine(), Err: err}
}

// fileArg requires exactly one positional argument, the log file.
func fileArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &UsageError{Usage: cmd.CommandPath() + " <file>"}
	}
	return nil
}
