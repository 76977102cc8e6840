// Package analyzer scores monitor events to pick the most likely bottleneck.
package analyzer

import (
	"time"

	"github.com/ccollicutt/bifinder/pkg/parser"
)

// ScorerType enumerates scoring strategies.
type ScorerType string

const (
	// ScorerTypeWeighted scores an event from its own fields.
	ScorerTypeWeighted ScorerType = "weighted"

	// ScorerTypeRanked adds the rank-1 entry of the event's relative
	// importance section to the candidates.
	ScorerTypeRanked ScorerType = "ranked"
)

// Weight is one entry of a WeightTable.
type Weight struct {
	ID     int `json:"id"`
	Weight int `json:"weight"`
}

// PairMatches records which of the event's candidate fields agree.
type PairMatches struct {
	// Count is the number of true comparisons below.
	Count int `json:"count"`

	RIEqualsP  bool `json:"ri_eq_p"`
	RIEqualsP2 bool `json:"ri_eq_p2"`
	PEqualsP2  bool `json:"p_eq_p2"`
}

// EventResult is the scored outcome for a single event.
type EventResult struct {
	Event *parser.Event `json:"event"`

	// Matches is set by the weighted scorer.
	Matches *PairMatches `json:"matches,omitempty"`

	// RankTop is set by the ranked scorer.
	RankTop *int `json:"ri_top,omitempty"`

	// Weights lists the candidates in insertion order.
	Weights []Weight `json:"weights"`

	// Bottleneck is the candidate with the highest weight; Score is its weight.
	Bottleneck int `json:"bottleneck"`
	Score      int `json:"score"`
}

// SkippedLine records an event line that could not be scored.
type SkippedLine struct {
	Source  string `json:"source"`
	LineNum int    `json:"line"`
	Reason  string `json:"reason"`
}

// AnalysisResult contains the complete scoring output for one source.
type AnalysisResult struct {
	Scorer ScorerType

	// Results holds one entry per scored event, in file order.
	Results []*EventResult

	// Skipped holds event lines that failed to parse or score.
	Skipped []SkippedLine

	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// Source is the log file that was analyzed.
	Source string

	StartTime time.Time
	EndTime   time.Time

	// LinesRead counts every line read from the source.
	LinesRead int

	// EventsMatched counts lines that contained the event marker.
	EventsMatched int
}
