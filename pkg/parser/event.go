package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ccollicutt/bifinder/pkg/config"
)

// Sentinel errors wrapped by ParseError.
var (
	ErrTooFewFields   = errors.New("too few fields")
	ErrInvalidInteger = errors.New("invalid integer")
	ErrLineTooLong    = errors.New("line too long")
)

// Event is a monitor event decoded from one log line.
type Event struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	ID    string `json:"id"`
	P     int    `json:"p"`
	P2    int    `json:"p2"`
	RI    int    `json:"ri"`
	Onset bool   `json:"onset"`

	Source  string `json:"source"`
	LineNum int    `json:"line"`
}

// ParseError describes why a line could not be decoded into an Event.
// The message omits the position; callers report Source and LineNum.
type ParseError struct {
	Source  string
	LineNum int

	// Field is the name of the offending field, empty for ErrTooFewFields
	// and ErrLineTooLong.
	Field string
	Index int
	Value string

	Err error
}

func (e *ParseError) Error() string {
	switch {
	case e.Field != "":
		return fmt.Sprintf("field %s (token %d) %q: %v", e.Field, e.Index, e.Value, e.Err)
	case errors.Is(e.Err, ErrTooFewFields):
		return fmt.Sprintf("%v (need %d)", e.Err, e.Index+1)
	default:
		return e.Err.Error()
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseEvent splits a line on whitespace and reads each field from its
// position in layout. A truncated line is rejected with ErrLineTooLong.
func ParseEvent(line *LogLine, layout config.FieldLayout) (*Event, error) {
	if line.Truncated {
		return nil, &ParseError{
			Source:  line.Source,
			LineNum: line.LineNum,
			Err:     fmt.Errorf("%w: over %d bytes", ErrLineTooLong, MaxLineSize),
		}
	}

	tokens := strings.Fields(line.Content)

	if need := layout.MinFields(); len(tokens) < need {
		return nil, &ParseError{
			Source:  line.Source,
			LineNum: line.LineNum,
			Index:   need - 1,
			Err:     fmt.Errorf("%w: got %d", ErrTooFewFields, len(tokens)),
		}
	}

	ev := &Event{
		Date:    tokens[layout.Date],
		Time:    tokens[layout.Time],
		ID:      tokens[layout.ID],
		Onset:   tokens[layout.Onset] == "true",
		Source:  line.Source,
		LineNum: line.LineNum,
	}

	ints := []struct {
		name string
		idx  int
		dst  *int
	}{
		{"p", layout.P, &ev.P},
		{"p2", layout.P2, &ev.P2},
		{"ri", layout.RI, &ev.RI},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(tokens[f.idx])
		if err != nil {
			return nil, &ParseError{
				Source:  line.Source,
				LineNum: line.LineNum,
				Field:   f.name,
				Index:   f.idx,
				Value:   tokens[f.idx],
				Err:     ErrInvalidInteger,
			}
		}
		*f.dst = v
	}

	return ev, nil
}
