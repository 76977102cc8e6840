package analyzer

import (
	"context"

	"github.com/ccollicutt/bifinder/pkg/parser"
)

// Weights used by WeightedScorer.
const (
	WeightedRIWeight    = 4
	WeightedOnsetWeight = 4
	WeightedPWeight     = 3
	WeightedP2Weight    = 3
)

// WeightedScorer picks the bottleneck from the event's own ri, p and p2
// fields. ri is favored, doubly so at onset.
type WeightedScorer struct{}

// NewWeightedScorer creates a weighted scorer.
func NewWeightedScorer() *WeightedScorer {
	return &WeightedScorer{}
}

// Type returns the scorer type.
func (s *WeightedScorer) Type() ScorerType {
	return ScorerTypeWeighted
}

// Score weighs ri, p and p2 for a single event.
func (s *WeightedScorer) Score(_ context.Context, ev *parser.Event) (*EventResult, error) {
	table := NewWeightTable()
	table.Add(ev.RI, WeightedRIWeight)
	if ev.Onset {
		table.Add(ev.RI, WeightedOnsetWeight)
	}
	table.Add(ev.P, WeightedPWeight)
	table.Add(ev.P2, WeightedP2Weight)

	id, score := WeightedArgmax(table)

	return &EventResult{
		Event:      ev,
		Matches:    comparePairs(ev),
		Weights:    table.Entries(),
		Bottleneck: id,
		Score:      score,
	}, nil
}

func comparePairs(ev *parser.Event) *PairMatches {
	m := &PairMatches{
		RIEqualsP:  ev.RI == ev.P,
		RIEqualsP2: ev.RI == ev.P2,
		PEqualsP2:  ev.P == ev.P2,
	}
	for _, eq := range []bool{m.RIEqualsP, m.RIEqualsP2, m.PEqualsP2} {
		if eq {
			m.Count++
		}
	}
	return m
}
