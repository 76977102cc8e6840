package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
	"github.com/ccollicutt/bifinder/pkg/config"
	"github.com/ccollicutt/bifinder/pkg/parser"
)

// NewRankCommand creates the rank command.
func NewRankCommand(g *GlobalOptions) *cobra.Command {
	opts := &ScoreOptions{}

	cmd := &cobra.Command{
		Use:   "rank <file>",
		Short: "Score event lines against their relative importance ranking",
		Long: `Score every event line in a log file, adding the rank-1 entry of the
event's "Relative importance metrics" section as a candidate.

ri_top is the number of lines between the first section line naming the
event id and the next "[ 1]" line. Events without such a section are
skipped, or abort the run with --strict.

Candidates and weights:
  ri_top 4
  ri     3, at onset only
  p      3
  p2     3

Output starts with a header line:
  Date Time ID RI_Top RI_Inc P1 P2 Onset Bottleneck Score

Exit codes:
  0 - Success
  1 - Usage error
  2 - Configuration or runtime error`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoring(cmd, g, opts, args[0], newRankedScorer)
		},
	}

	addScoreFlags(cmd, opts)

	return cmd
}

// newRankedScorer indexes every rank section in path before scoring starts.
func newRankedScorer(ctx context.Context, path string, cfg *config.Config) (analyzer.Scorer, error) {
	source := parser.NewFileSource(path)
	defer source.Close()

	index, err := analyzer.BuildRankIndex(ctx, source, cfg.Rank)
	if err != nil {
		return nil, fmt.Errorf("building rank index: %w", err)
	}

	return analyzer.NewRankedScorer(index)
}
