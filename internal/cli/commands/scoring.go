package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
	"github.com/ccollicutt/bifinder/pkg/config"
	"github.com/ccollicutt/bifinder/pkg/output"
	"github.com/ccollicutt/bifinder/pkg/parser"
	"github.com/ccollicutt/bifinder/pkg/webhook"
)

// ScoreOptions holds command-line options shared by score and rank.
type ScoreOptions struct {
	Output string
	Quiet  bool
	Strict bool

	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

func addScoreFlags(cmd *cobra.Command, opts *ScoreOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no per-event lines")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Abort on the first event line that cannot be scored")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerAlways),
		"When to fire webhook (always|on_skipped|never)")
}

// scorerFactory builds the scorer for one run over path.
type scorerFactory func(ctx context.Context, path string, cfg *config.Config) (analyzer.Scorer, error)

func runScoring(cmd *cobra.Command, g *GlobalOptions, opts *ScoreOptions, path string, newScorer scorerFactory) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := g.logger().With(zap.String("command", cmd.Name()))

	cfg, err := config.Load(ctx, g.configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	if err := config.ValidateTrigger(config.WebhookTrigger(opts.WebhookTrigger)); err != nil {
		return fmt.Errorf("--webhook-trigger: %w", err)
	}

	scorer, err := newScorer(ctx, path, cfg)
	if err != nil {
		return err
	}

	a, err := analyzer.NewAnalyzer(scorer,
		analyzer.WithMarker(cfg.Marker),
		analyzer.WithFieldLayout(cfg.Fields),
		analyzer.WithStrict(cfg.Strict || opts.Strict),
		analyzer.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("creating analyzer: %w", err)
	}

	source := parser.NewFileSource(path)
	defer source.Close()

	result, err := a.Analyze(ctx, source)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(result)

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	sendWebhooks(ctx, logger, cfg, opts, report)

	return nil
}

func createFormatter(opts *ScoreOptions) (output.Formatter, error) {
	formatOpts := output.FormatOptions{
		Quiet: opts.Quiet,
	}

	switch opts.Output {
	case "text":
		return output.NewTextFormatter(formatOpts), nil
	case "json":
		return output.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}
}

// sendWebhooks posts the report to every configured webhook.
// Failures are logged and never fail the run.
func sendWebhooks(ctx context.Context, logger *zap.Logger, cfg *config.Config, opts *ScoreOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasSkipped()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger.Info("webhook sent",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", resp.Duration))
		} else {
			logger.Warn("webhook failed",
				zap.String("webhook", name),
				zap.Int("status", resp.StatusCode),
				zap.Error(resp.Error))
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ScoreOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerAlways
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   config.ExpandEnvVar(opts.WebhookToken),
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

func shouldFireWebhook(trigger config.WebhookTrigger, hasSkipped bool) bool {
	switch trigger {
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnSkipped:
		return hasSkipped
	default:
		return true
	}
}
