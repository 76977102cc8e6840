package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
)

// MaxLineSize is the longest line FileSource keeps. Longer lines are cut to
// this size and marked Truncated.
const MaxLineSize = 1024 * 1024

const readBufferSize = 64 * 1024

// FileSource implements LogSource for reading a log file line by line.
type FileSource struct {
	path string

	file    *os.File
	reader  *bufio.Reader
	lineNum int
	done    bool
}

// NewFileSource creates a LogSource that streams the file at path.
// The file is opened lazily on the first call to Next.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file this source reads from.
func (s *FileSource) Path() string {
	return s.path
}

// Next returns the next line. Every line is returned, including empty ones.
// Returns io.EOF once the file is exhausted.
func (s *FileSource) Next(ctx context.Context) (*LogLine, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	if s.reader == nil {
		if err := s.open(); err != nil {
			return nil, err
		}
	}

	content, truncated, err := s.readLine()
	if err == nil {
		s.lineNum++
		return &LogLine{
			Content:   string(content),
			Source:    s.path,
			LineNum:   s.lineNum,
			Truncated: truncated,
		}, nil
	}

	if err != io.EOF {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	s.done = true
	if err := s.Close(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// readLine returns the next line without its terminator. At most MaxLineSize
// bytes are kept; the rest of an over-long line is read and dropped.
func (s *FileSource) readLine() ([]byte, bool, error) {
	var line []byte
	n := 0
	for {
		frag, err := s.reader.ReadSlice('\n')
		n += len(frag)
		if keep := MaxLineSize + 1 - len(line); keep > 0 {
			line = append(line, frag[:min(keep, len(frag))]...)
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err == io.EOF && n > 0 {
			break
		}
		if err != nil {
			return nil, false, err
		}
		n-- // newline
		break
	}

	if n > MaxLineSize {
		return line[:MaxLineSize], true, nil
	}
	line = line[:n]
	return bytes.TrimSuffix(line, []byte("\r")), false, nil
}

// Close releases resources.
func (s *FileSource) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.reader = nil
	return err
}

func (s *FileSource) open() error {
	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", s.path, err)
	}

	s.file = f
	s.reader = bufio.NewReaderSize(f, readBufferSize)
	s.lineNum = 0

	return nil
}
