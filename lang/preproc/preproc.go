// Package preproc expands include macros before the source is tokenized.
//
// A macro line starts with '#':
//
//	#загрузить "formula.txt" ФОРМУЛА
//
// loads the file into the symbol ФОРМУЛА. A later variable declaration whose
// initializer is exactly that symbol,
//
//	$ф: str = ФОРМУЛА;
//
// has the symbol replaced by the loaded text with line breaks removed. Macro
// lines are blanked so that line numbers of the remaining source do not
// change. Comments and quoted strings are never expanded.
package preproc

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/source"
	"github.com/Omarmeks89/edl-src/log"
)

// LoadMacro is the keyword of the include macro.
const LoadMacro = "загрузить"

// Loader reads the file named by an include macro.
type Loader interface {
	Load(path string) (string, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(path string) (string, error)

func (f LoaderFunc) Load(path string) (string, error) { return f(path) }

// FileLoader reads UTF-8 files from disk.
var FileLoader = LoaderFunc(func(path string) (string, error) {
	return source.ReadFile(path)
})

// Preprocessor expands macros. Loaded files are cached by path for the
// lifetime of the Preprocessor; symbols are scoped to one [Preprocessor.Process]
// call.
type Preprocessor struct {
	loader Loader
	dir    string
	log    log.Logger

	symbols map[string]string
	cache   map[string]uint64
	texts   map[uint64]string
}

// Option configures a [Preprocessor].
type Option func(*Preprocessor)

// WithLoader replaces [FileLoader].
func WithLoader(l Loader) Option {
	return func(p *Preprocessor) { p.loader = l }
}

// WithDir sets the directory relative include paths are resolved against.
// By default it is the directory of the processed file.
func WithDir(dir string) Option {
	return func(p *Preprocessor) { p.dir = dir }
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(p *Preprocessor) { p.log = l }
}

// New returns a Preprocessor.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{
		loader: FileLoader,
		cache:  make(map[string]uint64),
		texts:  make(map[uint64]string),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process expands text with a new Preprocessor.
func Process(filename, text string, opts ...Option) (string, error) {
	return New(opts...).Process(filename, text)
}

// Symbol returns the text loaded into name by the last Process call.
func (p *Preprocessor) Symbol(name string) (string, bool) {
	text, ok := p.symbols[name]

	return text, ok
}

// Process expands the macros of text. Errors are *[diag.Error] values
// carrying a trace into text.
func (p *Preprocessor) Process(filename, text string) (string, error) {
	p.symbols = make(map[string]string)

	src := diag.NewSource(filename, text)
	self := xxh3.HashString(text)

	dir := p.dir
	if dir == "" {
		dir = filepath.Dir(filename)
	}

	lines := strings.SplitAfter(text, "\n")

	var spans []byte

	for i, line := range lines {
		if len(spans) == 0 && isMacro(line) {
			tail, err := p.macro(src, i+1, line, dir, self)
			if err != nil {
				return "", err
			}

			lines[i] = tail
			spans = scan(spans, tail)

			continue
		}

		spans = scan(spans, line)
	}

	if len(p.symbols) == 0 {
		return strings.Join(lines, ""), nil
	}

	spans = spans[:0]

	for i, line := range lines {
		lines[i], spans = p.substitute(i+1, line, spans)
	}

	return strings.Join(lines, ""), nil
}

func isMacro(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t\ufeff"), "#")
}

// macro executes the macro on line and returns what is left of the line: a
// trailing comment, or just the line break.
func (p *Preprocessor) macro(src *diag.Source, n int, line, dir string, self uint64) (string, error) {
	m := macroScanner{src: src, n: n, line: line}
	m.pos = strings.IndexByte(line, '#') + 1

	name, ok := m.word()
	if !ok {
		return "", m.errorf("expected macro name after '#'")
	}

	if name != LoadMacro {
		return "", m.errorf("unknown macro %q", name)
	}

	at := m.pos

	path, err := m.quoted()
	if err != nil {
		return "", err
	}

	sym, ok := m.word()
	if !ok {
		return "", m.errorf("macro %s expects a symbol name after the path", name)
	}

	tail, err := m.end()
	if err != nil {
		return "", err
	}

	if _, dup := p.symbols[sym]; dup {
		return "", diag.Runtimef("symbol %q already loaded", sym).
			WithTrace(src.Trace(n, column(line, at)))
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	text, err := p.load(path, self)
	if err != nil {
		return "", diag.Runtimef("cannot include %q", path).Wrap(err).
			WithTrace(src.Trace(n, column(line, at)))
	}

	p.symbols[sym] = text

	return tail, nil
}

// load returns the text of path, reading it once per Preprocessor. Files
// with identical content share one copy.
func (p *Preprocessor) load(path string, self uint64) (string, error) {
	if h, ok := p.cache[path]; ok {
		return p.texts[h], nil
	}

	text, err := p.loader.Load(path)
	if err != nil {
		return "", err
	}

	h := xxh3.HashString(text)
	if h == self {
		return "", diag.Runtimef("file includes itself")
	}

	if _, seen := p.texts[h]; !seen {
		p.texts[h] = text
	}

	p.cache[path] = h

	p.log.Debug("include loaded",
		slog.String("path", path),
		slog.Int("bytes", len(text)),
		slog.String("hash", strconv.FormatUint(h, 16)),
	)

	return p.texts[h], nil
}

// substitute replaces loaded symbols used as variable initializers on line.
func (p *Preprocessor) substitute(n int, line string, spans []byte) (string, []byte) {
	var sb strings.Builder

	for i := 0; i < len(line); {
		c := line[i]

		if len(spans) == 0 && c == '$' {
			if start, end, ok := initializer(line, i); ok {
				if text, found := p.symbols[line[start:end]]; found {
					p.log.Trace("symbol substituted",
						slog.Int("line", n),
						slog.String("symbol", line[start:end]),
					)

					sb.WriteString(line[i:start])
					sb.WriteString(flatten(text))
					i = end

					continue
				}
			}
		}

		spans = step(spans, c)
		sb.WriteByte(c)
		i++
	}

	return sb.String(), spans
}

// initializer locates the initializer of the declaration starting with the
// '$' at line[at]. It reports the bounds of the initializer when it is a
// bare symbol followed by ';'.
func initializer(line string, at int) (start, end int, ok bool) {
	rest := line[at+1:]

	semi := strings.IndexByte(rest, ';')
	if semi < 0 {
		return 0, 0, false
	}

	eq := strings.IndexByte(rest[:semi], '=')
	if eq < 0 {
		return 0, 0, false
	}

	val := rest[eq+1 : semi]

	name := strings.TrimSpace(val)
	if !isSymbol(name) {
		return 0, 0, false
	}

	start = at + 1 + eq + 1 + strings.Index(val, name)

	return start, start + len(name), true
}

func isSymbol(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_':
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}

	return true
}

func flatten(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "")

	return strings.TrimSpace(strings.ReplaceAll(text, "\n", ""))
}

// step advances the open delimiter stack over c. Comments are delimited by
// '/', strings by either quote; a quote inside a span opens a nested span.
func step(spans []byte, c byte) []byte {
	if len(spans) == 0 {
		if c == '/' || c == '\'' || c == '"' {
			return append(spans, c)
		}

		return spans
	}

	switch top := spans[len(spans)-1]; {
	case c == top:
		return spans[:len(spans)-1]
	case c == '\'' || c == '"':
		return append(spans, c)
	default:
		return spans
	}
}

func scan(spans []byte, line string) []byte {
	for i := 0; i < len(line); i++ {
		spans = step(spans, line[i])
	}

	return spans
}

func column(line string, pos int) int {
	return utf8.RuneCountInString(line[:min(pos, len(line))]) + 1
}

type macroScanner struct {
	src  *diag.Source
	n    int
	line string
	pos  int
}

func (m *macroScanner) skipSpace() {
	for m.pos < len(m.line) && (m.line[m.pos] == ' ' || m.line[m.pos] == '\t') {
		m.pos++
	}
}

func (m *macroScanner) word() (string, bool) {
	m.skipSpace()

	start := m.pos

	for m.pos < len(m.line) {
		r, size := utf8.DecodeRuneInString(m.line[m.pos:])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}

		m.pos += size
	}

	return m.line[start:m.pos], m.pos > start
}

func (m *macroScanner) quoted() (string, error) {
	m.skipSpace()

	if m.pos >= len(m.line) || (m.line[m.pos] != '\'' && m.line[m.pos] != '"') {
		return "", m.errorf("macro %s expects a quoted path", LoadMacro)
	}

	q := m.line[m.pos]
	start := m.pos + 1

	end := strings.IndexByte(m.line[start:], q)
	if end < 0 {
		return "", m.errorf("symbol %q is not closed", q)
	}

	m.pos = start + end + 1

	return m.line[start : start+end], nil
}

// end checks that only blanks or a comment follow the macro and returns the
// comment with the line break.
func (m *macroScanner) end() (string, error) {
	m.skipSpace()

	rest := m.line[m.pos:]

	switch {
	case strings.TrimRight(rest, "\r\n") == "":
		return rest, nil
	case rest[0] == '/':
		return rest, nil
	default:
		return "", m.errorf("unexpected %q after macro", strings.TrimRight(rest, "\r\n"))
	}
}

func (m *macroScanner) errorf(format string, args ...any) error {
	return diag.Syntaxf(format, args...).WithTrace(m.src.Trace(m.n, column(m.line, m.pos)))
}
