package output

import (
	"time"

	"github.com/ccollicutt/bifinder/pkg/analyzer"
	"github.com/ccollicutt/bifinder/pkg/parser"
)

func intPtr(v int) *int { return &v }

func createWeightedReport() *Report {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	return NewReport(&analyzer.AnalysisResult{
		Scorer: analyzer.ScorerTypeWeighted,
		Results: []*analyzer.EventResult{
			{
				Event: &parser.Event{
					Date: "2015-06-01", Time: "10:00:01,123", ID: "evt-1",
					P: 5, P2: 5, RI: 5, Onset: true, LineNum: 1,
				},
				Matches:    &analyzer.PairMatches{Count: 3, RIEqualsP: true, RIEqualsP2: true, PEqualsP2: true},
				Weights:    []analyzer.Weight{{ID: 5, Weight: 14}},
				Bottleneck: 5,
				Score:      14,
			},
			{
				Event: &parser.Event{
					Date: "2015-06-01", Time: "10:00:02,456", ID: "evt-2",
					P: 1, P2: 2, RI: 3, Onset: false, LineNum: 2,
				},
				Matches:    &analyzer.PairMatches{},
				Weights:    []analyzer.Weight{{ID: 3, Weight: 4}, {ID: 1, Weight: 3}, {ID: 2, Weight: 3}},
				Bottleneck: 3,
				Score:      4,
			},
		},
		Skipped: []analyzer.SkippedLine{
			{Source: "monitor.log", LineNum: 3, Reason: "too few fields: got 4 (need 23)"},
		},
		Metadata: analyzer.AnalysisMetadata{
			Source:        "monitor.log",
			StartTime:     start,
			EndTime:       start.Add(250 * time.Millisecond),
			LinesRead:     10,
			EventsMatched: 3,
		},
	})
}

func createRankedReport() *Report {
	return NewReport(&analyzer.AnalysisResult{
		Scorer: analyzer.ScorerTypeRanked,
		Results: []*analyzer.EventResult{
			{
				Event: &parser.Event{
					Date: "2015-06-01", Time: "10:00:01,123", ID: "evt-1",
					P: 5, P2: 6, RI: 7, Onset: false,
				},
				RankTop:    intPtr(2),
				Weights:    []analyzer.Weight{{ID: 2, Weight: 4}, {ID: 5, Weight: 3}, {ID: 6, Weight: 3}},
				Bottleneck: 2,
				Score:      4,
			},
		},
		Metadata: analyzer.AnalysisMetadata{Source: "monitor.log", LinesRead: 5, EventsMatched: 1},
	})
}
