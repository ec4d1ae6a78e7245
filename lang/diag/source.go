package diag

import "strings"

// Source holds the lines of a compiled file so that errors raised after
// parsing can still point into the text.
type Source struct {
	Filename string
	lines    []string
}

// NewSource splits text into lines.
func NewSource(filename, text string) *Source {
	return &Source{Filename: filename, lines: strings.SplitAfter(text, "\n")}
}

// Trace returns a trace at the 1-based line and column. A nil Source yields
// a trace without source text.
func (s *Source) Trace(line, column int) Trace {
	t := Trace{Line: line, Column: column}
	if s == nil {
		return t
	}

	t.Filename = s.Filename
	if line >= 1 && line <= len(s.lines) {
		t.Source = s.lines[line-1]
	}

	return t
}
