package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
	"github.com/ccollicutt/bifinder/pkg/config"
	"github.com/ccollicutt/bifinder/pkg/parser"
)

// Diagnostic statuses.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// maxExamples bounds how many failing lines a check lists.
const maxExamples = 5

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string
	Message  string
	Details  []string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand(g *GlobalOptions) *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose <file>",
		Short: "Check a log file before scoring it",
		Long: `Check a log file for problems that would make events unscorable.

This command reports:
- File existence and size
- How many lines contain the event marker
- How many event lines parse into fields
- Relative importance sections and their rank-1 entries
- Event ids that 'bifinder rank' would skip

Example:
  bifinder diagnose monitor.log
  bifinder diagnose -d monitor.log  # list every passing detail`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), g, args[0], opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "details", "d", false, "Show details for passing checks")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, g *GlobalOptions, path string, opts *DiagnoseOptions) error {
	results := []DiagnosticResult{}

	cfg, result := checkConfig(ctx, g.configPath())
	results = append(results, result)
	if result.Status == StatusError {
		printDiagnostics(w, results, opts)
		return nil
	}

	result = checkLogFile(path)
	results = append(results, result)
	if result.Status == StatusError {
		printDiagnostics(w, results, opts)
		return nil
	}

	scan, err := scanLogFile(ctx, path, cfg)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		results = append(results, DiagnosticResult{
			Check:    "Log Scan",
			Status:   StatusError,
			Message:  fmt.Sprintf("Cannot read log file: %v", err),
			Suggests: []string{"Check file permissions and line lengths (max 1MB per line)"},
		})
		printDiagnostics(w, results, opts)
		return nil
	}
	g.logger().Debug("log file scanned",
		zap.String("path", path),
		zap.Int("lines", scan.lines),
		zap.Int("events", scan.events))

	results = append(results,
		checkEventLines(scan, cfg),
		checkEventFields(scan, cfg),
		checkRankSections(scan, cfg),
		checkRankLookups(scan),
	)

	printDiagnostics(w, results, opts)
	return nil
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{
		Check: "Config",
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Failed to load config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{
				"Check YAML syntax - ensure proper indentation (use spaces, not tabs)",
			}
		}
		return nil, result
	}

	result.Status = StatusOK
	if path == "" {
		result.Message = "Using built-in defaults"
	} else {
		result.Message = fmt.Sprintf("Loaded %s", path)
	}
	result.Details = []string{
		fmt.Sprintf("Marker: %q", cfg.Marker),
		fmt.Sprintf("Event lines need %d tokens", cfg.Fields.MinFields()),
	}
	return cfg, result
}

func checkLogFile(path string) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Log File",
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		result.Status = StatusError
		result.Message = fmt.Sprintf("File not found: %s", path)
		result.Suggests = []string{"Check the file path is correct"}
		return result
	}
	if err != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf("Cannot access file: %v", err)
		result.Suggests = []string{"Check file permissions"}
		return result
	}
	if info.IsDir() {
		result.Status = StatusError
		result.Message = "Path is a directory, not a file"
		return result
	}
	if info.Size() == 0 {
		result.Status = StatusError
		result.Message = "File is empty"
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("Found: %s (%s)", path, humanize.Bytes(uint64(info.Size())))
	return result
}

// logScan is everything diagnose learns from one pass over the file.
type logScan struct {
	lines  int
	events int

	parsed        []*parser.Event
	parseFailures int
	parseExamples []string

	index *analyzer.RankIndex
}

func scanLogFile(ctx context.Context, path string, cfg *config.Config) (*logScan, error) {
	source := parser.NewFileSource(path)
	defer source.Close()

	scan := &logScan{index: analyzer.NewRankIndex(cfg.Rank)}
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			return scan, nil
		}
		if err != nil {
			return nil, err
		}

		scan.lines++
		scan.index.Add(line)

		if !strings.Contains(line.Content, cfg.Marker) {
			continue
		}
		scan.events++

		ev, err := parser.ParseEvent(line, cfg.Fields)
		if err != nil {
			scan.parseFailures++
			if len(scan.parseExamples) < maxExamples {
				scan.parseExamples = append(scan.parseExamples, fmt.Sprintf("line %d: %v", line.LineNum, err))
			}
			continue
		}
		scan.parsed = append(scan.parsed, ev)
	}
}

func checkEventLines(scan *logScan, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Event Lines",
	}

	if scan.events == 0 {
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("No line contains %q (%s lines read)", cfg.Marker, humanize.Comma(int64(scan.lines)))
		result.Suggests = []string{
			"Check this is a monitor log",
			fmt.Sprintf("Set marker in the config file or %s if events use another marker", config.EnvMarker),
		}
		return result
	}

	result.Status = StatusOK
	result.Message = fmt.Sprintf("%s of %s lines contain %q",
		humanize.Comma(int64(scan.events)), humanize.Comma(int64(scan.lines)), cfg.Marker)
	return result
}

func checkEventFields(scan *logScan, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Event Fields",
	}

	if scan.events == 0 {
		result.Status = StatusOK
		result.Message = "No event lines to parse"
		return result
	}

	result.Details = scan.parseExamples
	switch {
	case scan.parseFailures == 0:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("All %s event lines parse", humanize.Comma(int64(scan.events)))
	case scan.parseFailures == scan.events:
		result.Status = StatusError
		result.Message = "No event line parses"
		result.Suggests = []string{
			fmt.Sprintf("Event lines need at least %d whitespace-separated tokens", cfg.Fields.MinFields()),
			"Adjust the fields section of the config file to match the log format",
		}
	default:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("%s of %s event lines will be skipped",
			humanize.Comma(int64(scan.parseFailures)), humanize.Comma(int64(scan.events)))
		result.Suggests = []string{"Run with --strict to stop at the first bad line instead"}
	}
	return result
}

func checkRankSections(scan *logScan, cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Rank Sections",
	}

	sections := scan.index.Sections()
	resolved := scan.index.Resolved()

	switch {
	case sections == 0:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("No %q sections found", cfg.Rank.SectionMarker)
		result.Suggests = []string{"'bifinder rank' will skip every event; use 'bifinder score' instead"}
	case resolved < sections:
		result.Status = StatusWarning
		result.Message = fmt.Sprintf("%d of %d sections have no %q entry after them",
			sections-resolved, sections, cfg.Rank.TopMarker)
	default:
		result.Status = StatusOK
		result.Message = fmt.Sprintf("%d sections, all with a %q entry", sections, cfg.Rank.TopMarker)
	}
	return result
}

func checkRankLookups(scan *logScan) DiagnosticResult {
	result := DiagnosticResult{
		Check: "Rank Lookup",
	}

	ids := make(map[string]bool)
	var missingSection, missingTop int
	for _, ev := range scan.parsed {
		if ids[ev.ID] {
			continue
		}
		ids[ev.ID] = true

		_, err := scan.index.Lookup(ev.ID)
		switch {
		case errors.Is(err, analyzer.ErrSectionNotFound):
			missingSection++
		case errors.Is(err, analyzer.ErrRankOneNotFound):
			missingTop++
		default:
			continue
		}
		if len(result.Details) < maxExamples {
			result.Details = append(result.Details, err.Error())
		}
	}

	failed := missingSection + missingTop
	if failed == 0 {
		result.Status = StatusOK
		result.Message = fmt.Sprintf("All %d event ids resolve to a rank-1 entry", len(ids))
		return result
	}

	result.Status = StatusWarning
	result.Message = fmt.Sprintf("%d of %d event ids will be skipped by 'bifinder rank' (%d without a section, %d without a rank-1 entry)",
		failed, len(ids), missingSection, missingTop)
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== bifinder Log Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0
	errCount := 0

	for _, r := range results {
		var icon string
		switch r.Status {
		case StatusOK:
			icon = "PASS"
			okCount++
		case StatusWarning:
			icon = "WARN"
			warnCount++
		case StatusError:
			icon = "FAIL"
			errCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != StatusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

	switch {
	case errCount > 0:
		fmt.Fprintln(w, "\nFix the errors above before scoring.")
	case warnCount > 0:
		fmt.Fprintln(w, "\nLog is usable but some events will be skipped.")
	default:
		fmt.Fprintln(w, "\nLog looks good!")
	}
}
