package diag

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Trace locates a diagnostic in its source: the 1-based line number, the
// 1-based column in runes and the text of the offending line.
type Trace struct {
	Filename string
	Source   string
	Line     int
	Column   int
}

// Position formats the location as "file:line:column", omitting the file
// when unknown.
func (t Trace) Position() string {
	loc := "line " + strconv.Itoa(t.Line) + ", column " + strconv.Itoa(t.Column)
	if t.Filename == "" {
		return loc
	}

	return t.Filename + ": " + loc
}

// String renders the offending source line prefixed by its line number, and
// a caret under the failing column:
//
//	  12 | сигнал входной аналог @x {
//	                             ^
func (t Trace) String() string {
	var sb strings.Builder

	gutter, caret := t.Lines()
	sb.WriteString(gutter)
	sb.WriteByte('\n')
	sb.WriteString(caret)

	return sb.String()
}

// Lines returns the numbered source line and the caret line separately so
// that callers can style them independently.
func (t Trace) Lines() (source, caret string) {
	line := strings.TrimRight(t.Source, "\r\n")
	num := strconv.Itoa(t.Line)

	source = "  " + num + " | " + strings.ReplaceAll(line, "\t", " ")

	// 2 leading spaces + " | "
	pad := len(num) + 5
	if t.Column > 1 {
		pad += min(t.Column-1, utf8.RuneCountInString(line))
	}

	return source, strings.Repeat(" ", pad) + "^"
}
