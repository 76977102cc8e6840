package analyzer

import (
	"context"

	"github.com/ccollicutt/bifinder/pkg/parser"
)

// Scorer turns one parsed event into a scored result.
// Implementations hold no per-event state, so scoring the same event twice
// yields the same result.
type Scorer interface {
	// Type returns the scoring strategy.
	Type() ScorerType

	// Score weighs the event's candidates and picks the bottleneck.
	// Errors are per-event; the caller decides whether they are fatal.
	Score(ctx context.Context, ev *parser.Event) (*EventResult, error)
}
