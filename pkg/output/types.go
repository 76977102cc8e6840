// Package output provides formatting for scoring reports.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
)

// Report is the complete output of one scoring run.
type Report struct {
	Scorer analyzer.ScorerType `json:"scorer"`

	Summary Summary `json:"summary"`

	// Results contains one entry per scored event, in file order.
	Results []*analyzer.EventResult `json:"results"`

	Skipped []analyzer.SkippedLine `json:"skipped,omitempty"`

	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate counters.
type Summary struct {
	LinesRead     int `json:"lines_read"`
	EventsMatched int `json:"events_matched"`
	EventsScored  int `json:"events_scored"`
	EventsSkipped int `json:"events_skipped"`
}

// Metadata provides context about the run.
type Metadata struct {
	// RunID identifies this run in webhook payloads and logs.
	RunID string `json:"run_id"`

	Source     string        `json:"source"`
	AnalyzedAt time.Time     `json:"analyzed_at"`
	Duration   time.Duration `json:"duration"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.AnalysisResult) *Report {
	results := result.Results
	if results == nil {
		results = []*analyzer.EventResult{}
	}

	return &Report{
		Scorer:  result.Scorer,
		Results: results,
		Skipped: result.Skipped,
		Summary: Summary{
			LinesRead:     result.Metadata.LinesRead,
			EventsMatched: result.Metadata.EventsMatched,
			EventsScored:  len(result.Results),
			EventsSkipped: len(result.Skipped),
		},
		Metadata: Metadata{
			RunID:      uuid.NewString(),
			Source:     result.Metadata.Source,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
	}
}

// HasSkipped returns true if any event line could not be scored.
func (r *Report) HasSkipped() bool {
	return r.Summary.EventsSkipped > 0
}
