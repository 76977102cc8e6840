package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ccollicutt/bifinder/pkg/config"
	"github.com/ccollicutt/bifinder/pkg/parser"
)

// LineError is a per-line failure with its position in the source.
type LineError struct {
	Source  string
	LineNum int
	Err     error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.LineNum, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Analyzer filters event lines out of a log source and scores each one.
type Analyzer struct {
	scorer Scorer

	marker string
	layout config.FieldLayout
	strict bool
	logger *zap.Logger
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithMarker sets the substring that selects event lines.
func WithMarker(marker string) AnalyzerOption {
	return func(a *Analyzer) {
		a.marker = marker
	}
}

// WithFieldLayout sets the token positions used to parse event lines.
func WithFieldLayout(layout config.FieldLayout) AnalyzerOption {
	return func(a *Analyzer) {
		a.layout = layout
	}
}

// WithStrict makes the first unscorable event line abort the run.
func WithStrict(strict bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.strict = strict
	}
}

// WithLogger sets the logger used for skipped lines and run summaries.
func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer that scores events with scorer.
func NewAnalyzer(scorer Scorer, opts ...AnalyzerOption) (*Analyzer, error) {
	if scorer == nil {
		return nil, errors.New("analyzer requires a scorer")
	}

	a := &Analyzer{
		scorer: scorer,
		marker: config.DefaultMarker,
		layout: config.DefaultFields,
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.marker == "" {
		return nil, errors.New("event marker must not be empty")
	}

	return a, nil
}

// Analyze reads source to the end and scores every line containing the
// event marker. Other lines are counted and dropped.
func (a *Analyzer) Analyze(ctx context.Context, source parser.LogSource) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Scorer: a.scorer.Type(),
		Metadata: AnalysisMetadata{
			StartTime: time.Now(),
		},
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}

		if result.Metadata.Source == "" {
			result.Metadata.Source = line.Source
		}
		result.Metadata.LinesRead++

		if !strings.Contains(line.Content, a.marker) {
			continue
		}
		result.Metadata.EventsMatched++

		res, err := a.scoreLine(ctx, line)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			lineErr := &LineError{Source: line.Source, LineNum: line.LineNum, Err: err}
			if a.strict {
				return nil, lineErr
			}

			a.logger.Warn("skipping event line",
				zap.String("source", line.Source),
				zap.Int("line", line.LineNum),
				zap.Error(err))
			result.Skipped = append(result.Skipped, SkippedLine{
				Source:  line.Source,
				LineNum: line.LineNum,
				Reason:  err.Error(),
			})
			continue
		}

		a.logger.Debug("scored event",
			zap.String("id", res.Event.ID),
			zap.Int("line", line.LineNum),
			zap.Int("bottleneck", res.Bottleneck),
			zap.Int("score", res.Score))
		result.Results = append(result.Results, res)
	}

	result.Metadata.EndTime = time.Now()

	a.logger.Info("analysis complete",
		zap.String("scorer", string(result.Scorer)),
		zap.String("source", result.Metadata.Source),
		zap.Int("lines", result.Metadata.LinesRead),
		zap.Int("events", result.Metadata.EventsMatched),
		zap.Int("scored", len(result.Results)),
		zap.Int("skipped", len(result.Skipped)))

	return result, nil
}

func (a *Analyzer) scoreLine(ctx context.Context, line *parser.LogLine) (*EventResult, error) {
	ev, err := parser.ParseEvent(line, a.layout)
	if err != nil {
		return nil, err
	}
	return a.scorer.Score(ctx, ev)
}
