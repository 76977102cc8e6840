package analyzer

import (
	"context"
	"errors"

	"github.com/ccollicutt/bifinder/pkg/parser"
)

// Weights used by RankedScorer.
const (
	RankedTopWeight   = 4
	RankedOnsetWeight = 3
	RankedPWeight     = 3
	RankedP2Weight    = 3
)

// RankedScorer picks the bottleneck from the event's p and p2 fields and
// the rank-1 entry of its relative importance section. ri only counts at
// onset.
type RankedScorer struct {
	index *RankIndex
}

// NewRankedScorer creates a ranked scorer backed by a prebuilt index.
func NewRankedScorer(index *RankIndex) (*RankedScorer, error) {
	if index == nil {
		return nil, errors.New("ranked scorer requires a rank index")
	}
	return &RankedScorer{index: index}, nil
}

// Type returns the scorer type.
func (s *RankedScorer) Type() ScorerType {
	return ScorerTypeRanked
}

// Score weighs ri_top, ri, p and p2 for a single event.
// It fails when the event has no resolvable rank-1 entry.
func (s *RankedScorer) Score(_ context.Context, ev *parser.Event) (*EventResult, error) {
	top, err := s.index.Lookup(ev.ID)
	if err != nil {
		return nil, err
	}

	table := NewWeightTable()
	table.Add(top, RankedTopWeight)
	if ev.Onset {
		table.Add(ev.RI, RankedOnsetWeight)
	}
	table.Add(ev.P, RankedPWeight)
	table.Add(ev.P2, RankedP2Weight)

	id, score := WeightedArgmax(table)

	return &EventResult{
		Event:      ev,
		RankTop:    &top,
		Weights:    table.Entries(),
		Bottleneck: id,
		Score:      score,
	}, nil
}
