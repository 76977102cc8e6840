package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/bifinder/pkg/config"
	"github.com/ccollicutt/bifinder/pkg/parser"
)

// Rank lookup errors.
var (
	// ErrSectionNotFound means no relative importance section names the event.
	ErrSectionNotFound = errors.New("relative importance section not found")

	// ErrRankOneNotFound means the section has no rank-1 entry after it.
	ErrRankOneNotFound = errors.New("rank-1 entry not found after relative importance section")
)

type rankSection struct {
	content  string
	lineNum  int
	rankTop  int
	resolved bool
}

type rankLookup struct {
	rankTop int
	err     error
}

// RankIndex maps event ids to the position of their rank-1 entry.
//
// A section starts at any line containing the section marker. Its rank-top
// value is the number of lines strictly between the section line and the
// first later line containing the top marker. An event id resolves to the
// first section line that contains the id as a substring.
type RankIndex struct {
	sectionMarker string
	topMarker     string

	sections []rankSection
	open     []int
	cache    map[string]rankLookup
}

// NewRankIndex creates an empty index. Feed it lines in file order with Add.
func NewRankIndex(cfg config.RankConfig) *RankIndex {
	return &RankIndex{
		sectionMarker: cfg.SectionMarker,
		topMarker:     cfg.TopMarker,
		cache:         make(map[string]rankLookup),
	}
}

// BuildRankIndex reads source to the end and indexes every section.
func BuildRankIndex(ctx context.Context, source parser.LogSource, cfg config.RankConfig) (*RankIndex, error) {
	ix := NewRankIndex(cfg)
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			return ix, nil
		}
		if err != nil {
			return nil, fmt.Errorf("indexing rank sections: %w", err)
		}
		ix.Add(line)
	}
}

// Add indexes one line. A line that opens a section does not close it.
func (ix *RankIndex) Add(line *parser.LogLine) {
	if len(ix.open) > 0 && strings.Contains(line.Content, ix.topMarker) {
		for _, i := range ix.open {
			s := &ix.sections[i]
			s.rankTop = line.LineNum - s.lineNum - 1
			s.resolved = true
		}
		ix.open = ix.open[:0]
	}

	if strings.Contains(line.Content, ix.sectionMarker) {
		ix.sections = append(ix.sections, rankSection{
			content: line.Content,
			lineNum: line.LineNum,
		})
		ix.open = append(ix.open, len(ix.sections)-1)
	}
}

// Sections returns the number of indexed sections.
func (ix *RankIndex) Sections() int {
	return len(ix.sections)
}

// Resolved returns the number of sections followed by a rank-1 entry.
func (ix *RankIndex) Resolved() int {
	n := 0
	for _, s := range ix.sections {
		if s.resolved {
			n++
		}
	}
	return n
}

// Lookup returns the rank-top value for an event id.
func (ix *RankIndex) Lookup(id string) (int, error) {
	if r, ok := ix.cache[id]; ok {
		return r.rankTop, r.err
	}

	r := ix.lookup(id)
	ix.cache[id] = r
	return r.rankTop, r.err
}

func (ix *RankIndex) lookup(id string) rankLookup {
	for _, s := range ix.sections {
		if !strings.Contains(s.content, id) {
			continue
		}
		if !s.resolved {
			return rankLookup{err: fmt.Errorf("event %s (section at line %d): %w", id, s.lineNum, ErrRankOneNotFound)}
		}
		return rankLookup{rankTop: s.rankTop}
	}
	return rankLookup{err: fmt.Errorf("event %s: %w", id, ErrSectionNotFound)}
}
