package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/bifinder/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(g *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long: `Validate a bifinder configuration file and print the effective settings.

Without an argument the --config file is checked, or the built-in defaults
when no config file is given. Environment overrides are applied.

Checks:
  - YAML syntax
  - Non-empty markers
  - Field indices
  - Webhook URLs and triggers`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.configPath()
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(cmd, path)
		},
	}
}

func runValidate(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	name := path
	if name == "" {
		name = "built-in defaults"
	}
	fmt.Fprintf(w, "Validating %s...\n", name)

	cfg, err := config.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Marker:         %q\n", cfg.Marker)
	fmt.Fprintf(w, "  Strict:         %t\n", cfg.Strict)
	fmt.Fprintf(w, "  Section marker: %q\n", cfg.Rank.SectionMarker)
	fmt.Fprintf(w, "  Top marker:     %q\n", cfg.Rank.TopMarker)

	f := cfg.Fields
	fmt.Fprintf(w, "\nFields (token index):\n")
	fmt.Fprintf(w, "  date=%d time=%d id=%d p=%d p2=%d ri=%d onset=%d\n",
		f.Date, f.Time, f.ID, f.P, f.P2, f.RI, f.Onset)
	fmt.Fprintf(w, "  Event lines need at least %d tokens\n", f.MinFields())

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(w, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(w, "  %d. %s [%s, timeout %s]\n", i+1, name, wh.Trigger, wh.Timeout)
		}
	}

	return nil
}
