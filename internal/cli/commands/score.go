package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
	"github.com/ccollicutt/bifinder/pkg/config"
)

// NewScoreCommand creates the score command.
func NewScoreCommand(g *GlobalOptions) *cobra.Command {
	opts := &ScoreOptions{}

	cmd := &cobra.Command{
		Use:   "score <file>",
		Short: "Score event lines from their own fields",
		Long: `Score every event line in a log file using the event's own fields.

Candidates and weights:
  ri     4, plus 4 more at onset
  p      3
  p2     3

Each output line is:
  date time id [matches] ri==p ri==p2 p==p2 p p2 ri onset bottleneck score

Lines that cannot be parsed are logged and skipped unless --strict is set.

Exit codes:
  0 - Success
  1 - Usage error
  2 - Configuration or runtime error`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoring(cmd, g, opts, args[0], newWeightedScorer)
		},
	}

	addScoreFlags(cmd, opts)

	return cmd
}

func newWeightedScorer(context.Context, string, *config.Config) (analyzer.Scorer, error) {
	return analyzer.NewWeightedScorer(), nil
}
