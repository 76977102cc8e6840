// Package parser provides log file reading and event line parsing.
package parser

// LogLine is a single raw line read from a log file.
type LogLine struct {
	// Content is the raw line text without the trailing newline.
	Content string

	// Source is the file path this line came from.
	Source string

	// LineNum is the 1-based line number in the source file.
	LineNum int

	// Truncated is set when the line was longer than MaxLineSize. Content
	// then holds only its first MaxLineSize bytes.
	Truncated bool
}
