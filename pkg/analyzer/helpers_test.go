package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ccollicutt/bifinder/pkg/config"
	"github.com/ccollicutt/bifinder/pkg/parser"
)

// eventLine builds a secondary verification line as the percentile verifier
// logs it. The event id field keeps the anomaly prefix punctuation: "(id,".
func eventLine(id, p, p2, ri, onset string) string {
	return "2015-06-01 10:00:01,123 [bi-finder-1] INFO PercentileBasedVerifier " +
		anomalyPrefix(id) + "Secondary verification result; percentiles: " + p +
		" percentiles2: " + p2 + " ri: " + ri + " match: " + strconv.FormatBool(p2 == ri) +
		" ri_onset: " + onset + " ri_top: 0 data_points: 120"
}

func anomalyPrefix(id string) string {
	return "Anomaly (" + id + ", test-app, GET /): "
}

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "monitor.log")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatalf("Failed to write log: %v", err)
	}
	return path
}

func newEvent(id string, p, p2, ri int, onset bool) *parser.Event {
	return &parser.Event{
		Date:  "2015-06-01",
		Time:  "10:00:01,123",
		ID:    id,
		P:     p,
		P2:    p2,
		RI:    ri,
		Onset: onset,
	}
}

func indexLines(lines ...string) *RankIndex {
	ix := NewRankIndex(rankConfig())
	for i, content := range lines {
		ix.Add(&parser.LogLine{Content: content, LineNum: i + 1})
	}
	return ix
}

func rankConfig() config.RankConfig {
	return config.RankConfig{
		SectionMarker: config.DefaultSectionMarker,
		TopMarker:     config.DefaultTopMarker,
	}
}

func sectionLine(id string) string {
	return "2015-06-01 10:00:00,900 [bi-finder-1] INFO RelativeImportanceBasedFinder " +
		anomalyPrefix(id) + "Relative importance metrics for path: datastore_v3:RunQuery, memcache:Get"
}

var apiCalls = []string{"datastore_v3:RunQuery", "memcache:Get", "urlfetch:Fetch", "LOCAL"}

// rankLine builds one row of a relative importance table.
func rankLine(rank int) string {
	return fmt.Sprintf("[%2d] %s %f", rank, apiCalls[rank%len(apiCalls)], 1/float64(rank+1))
}
