package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// eventLine builds a secondary verification line as the percentile verifier
// logs it. The event id field keeps the anomaly prefix punctuation: "(id,".
func eventLine(id, p, p2, ri, onset string) string {
	return "2015-06-01 10:00:01,123 [bi-finder-1] INFO PercentileBasedVerifier " +
		anomalyPrefix(id) + "Secondary verification result; percentiles: " + p +
		" percentiles2: " + p2 + " ri: " + ri + " match: " + strconv.FormatBool(p2 == ri) +
		" ri_onset: " + onset + " ri_top: 0 data_points: 120"
}

func anomalyPrefix(id string) string {
	return "Anomaly (" + id + ", test-app, GET /): "
}

func sectionLine(id string) string {
	return "2015-06-01 10:00:00,900 [bi-finder-1] INFO RelativeImportanceBasedFinder " +
		anomalyPrefix(id) + "Relative importance metrics for path: datastore_v3:RunQuery, memcache:Get"
}

var apiCalls = []string{"datastore_v3:RunQuery", "memcache:Get", "LOCAL"}

// rankLine builds one row of a relative importance table for the api call at index.
func rankLine(rank, index int) string {
	return fmt.Sprintf("[%2d] %s %f", rank, apiCalls[index%len(apiCalls)], 1/float64(rank+1))
}

const startupLine = "2015-06-01 10:00:00,100 [main] INFO AnomalyLogger Initializing AnomalyLogger"

func writeFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// execute runs a command tree shaped like the real root and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	g := &GlobalOptions{}
	root := &cobra.Command{
		Use:           "bifinder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "")
	root.SetFlagErrorFunc(FlagError)
	root.AddCommand(
		NewScoreCommand(g),
		NewRankCommand(g),
		NewDiagnoseCommand(g),
		NewValidateCommand(g),
		NewVersionCommand(),
	)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

// monitorLog is a small log with two scorable events, one rank section
// and a line for an event that has no section.
func monitorLog(t *testing.T) string {
	t.Helper()
	return writeFile(t, "monitor.log",
		startupLine,
		sectionLine("evt-1"),
		rankLine(2, 0),
		rankLine(1, 1),
		rankLine(3, 2),
		eventLine("evt-1", "3", "1", "5", "true"),
		eventLine("evt-2", "2", "2", "2", "false"),
	)
}
