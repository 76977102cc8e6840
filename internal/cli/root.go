// Package cli provides the command-line interface for bifinder.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ccollicutt/bifinder/internal/cli/commands"
	"github.com/ccollicutt/bifinder/internal/cli/plugins"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitUsage   = 1
	ExitFailure = 2
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes bifinder with args, writing command output to stdout and
// errors and logs to stderr. It returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	g := &commands.GlobalOptions{}
	rootCmd := NewRootCommand(g, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// An unknown first word may be a plugin.
	if name := firstCommand(args); name != "" && !isBuiltinCommand(rootCmd, name) {
		if pluginPath, err := plugins.FindPlugin(name); err == nil {
			return plugins.Execute(pluginPath, args[1:], stdout, stderr)
		}
		_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(name))
		return ExitUsage
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return reportError(stderr, err)
	}
	return ExitOK
}

// reportError prints err and maps it to an exit code.
func reportError(w io.Writer, err error) int {
	var usageErr *commands.UsageError
	if errors.As(err, &usageErr) {
		if usageErr.Err != nil {
			_, _ = fmt.Fprintf(w, "Error: %v\n", usageErr.Err)
		}
		_, _ = fmt.Fprintf(w, "Usage: %s\n", usageErr.Usage)
		return ExitUsage
	}

	// Print error to stderr (SilenceErrors prevents Cobra from doing this)
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return ExitFailure
}

func firstCommand(args []string) string {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return ""
	}
	return args[0]
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command. Logs go to logOut.
func NewRootCommand(g *commands.GlobalOptions, logOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bifinder",
		Short: "Find bottleneck candidates in monitor logs",
		Long: `bifinder scans a monitor log for event lines and scores which
identifier is the most likely bottleneck for each event.

  score  weighs the relative-importance, primary and secondary candidates
  rank   also weighs the rank-1 entry of the event's importance section

Output goes to stdout. Logs go to stderr as JSON.

PLUGINS:
  Unknown commands run bifinder-<command> if found in:
    1. Same directory as the bifinder binary
    2. ~/.bifinder/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logOut, g.Verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			g.Logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if g.Logger != nil {
				_ = g.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.ConfigPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.SetFlagErrorFunc(commands.FlagError)

	rootCmd.AddCommand(commands.NewScoreCommand(g))
	rootCmd.AddCommand(commands.NewRankCommand(g))
	rootCmd.AddCommand(commands.NewDiagnoseCommand(g))
	rootCmd.AddCommand(commands.NewValidateCommand(g))
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}

// newLogger builds a production JSON logger writing to w.
// The level is Warn, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zap.DebugLevel)
	}
	if w == nil {
		return cfg.Build()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(cfg.EncoderConfig),
		zapcore.Lock(zapcore.AddSync(w)),
		cfg.Level,
	)
	return zap.New(core, zap.AddCaller()), nil
}
