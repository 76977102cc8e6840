package output

import (
	"context"
	"fmt"
	"io"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
)

// RankedHeader is the column header written before ranked results.
const RankedHeader = "Date Time ID RI_Top RI_Inc P1 P2 Onset Bottleneck Score"

// TextFormatter writes one whitespace-separated line per scored event.
// Booleans are written as True/False to stay compatible with existing
// consumers of this output.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(_ context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		_, err := fmt.Fprintf(w, "bifinder: %d lines read, %d events, %d scored, %d skipped\n",
			report.Summary.LinesRead,
			report.Summary.EventsMatched,
			report.Summary.EventsScored,
			report.Summary.EventsSkipped)
		return err
	}

	switch report.Scorer {
	case analyzer.ScorerTypeWeighted:
		for _, r := range report.Results {
			if err := writeWeighted(w, r); err != nil {
				return err
			}
		}
	case analyzer.ScorerTypeRanked:
		if _, err := fmt.Fprintln(w, RankedHeader); err != nil {
			return err
		}
		for _, r := range report.Results {
			if err := writeRanked(w, r); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown scorer %q", report.Scorer)
	}

	return nil
}

func writeWeighted(w io.Writer, r *analyzer.EventResult) error {
	ev, m := r.Event, r.Matches
	if m == nil {
		return fmt.Errorf("event %s at line %d has no pair matches", ev.ID, ev.LineNum)
	}
	_, err := fmt.Fprintf(w, "%s %s %s [%d] %s %s %s %d %d %d %s %d %d\n",
		ev.Date, ev.Time, ev.ID,
		m.Count, titleBool(m.RIEqualsP), titleBool(m.RIEqualsP2), titleBool(m.PEqualsP2),
		ev.P, ev.P2, ev.RI, titleBool(ev.Onset),
		r.Bottleneck, r.Score)
	return err
}

func writeRanked(w io.Writer, r *analyzer.EventResult) error {
	ev := r.Event
	if r.RankTop == nil {
		return fmt.Errorf("event %s at line %d has no rank-top value", ev.ID, ev.LineNum)
	}
	_, err := fmt.Fprintf(w, "%s %s %s %d %d %d %d %s %d %d\n",
		ev.Date, ev.Time, ev.ID,
		*r.RankTop, ev.RI, ev.P, ev.P2, titleBool(ev.Onset),
		r.Bottleneck, r.Score)
	return err
}

func titleBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
