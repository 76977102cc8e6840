package webhook

import (
	"sort"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
	"github.com/ccollicutt/bifinder/pkg/output"
)

// EventReport names the payload sent after every scoring run.
const EventReport = "bifinder.report"

// Payload is the JSON body posted to a webhook. The top-level fields let a
// receiver route or alert on a run without walking the nested report.
type Payload struct {
	Event  string              `json:"event"`
	RunID  string              `json:"run_id"`
	Scorer analyzer.ScorerType `json:"scorer"`
	Source string              `json:"source"`

	Summary output.Summary `json:"summary"`

	// Bottlenecks tallies the chosen candidate over all scored events,
	// most frequent first.
	Bottlenecks []BottleneckTally `json:"bottlenecks"`

	Report *output.Report `json:"report"`
}

// BottleneckTally counts the events that picked one candidate index.
type BottleneckTally struct {
	Index  int `json:"index"`
	Events int `json:"events"`

	// MaxScore and TopEvent describe the highest-scoring event for this
	// candidate. The earliest event wins a tie.
	MaxScore int    `json:"max_score"`
	TopEvent string `json:"top_event"`
}

// NewPayload wraps report in a webhook payload.
func NewPayload(report *output.Report) *Payload {
	return &Payload{
		Event:       EventReport,
		RunID:       report.Metadata.RunID,
		Scorer:      report.Scorer,
		Source:      report.Metadata.Source,
		Summary:     report.Summary,
		Bottlenecks: tallyBottlenecks(report.Results),
		Report:      report,
	}
}

func tallyBottlenecks(results []*analyzer.EventResult) []BottleneckTally {
	byIndex := make(map[int]*BottleneckTally)
	for _, r := range results {
		t, ok := byIndex[r.Bottleneck]
		if !ok {
			t = &BottleneckTally{Index: r.Bottleneck, MaxScore: -1}
			byIndex[r.Bottleneck] = t
		}
		t.Events++
		if r.Score > t.MaxScore {
			t.MaxScore = r.Score
			t.TopEvent = r.Event.ID
		}
	}

	tallies := make([]BottleneckTally, 0, len(byIndex))
	for _, t := range byIndex {
		tallies = append(tallies, *t)
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Events != tallies[j].Events {
			return tallies[i].Events > tallies[j].Events
		}
		return tallies[i].Index < tallies[j].Index
	})
	return tallies
}
