// Package lexer converts equipment description source text into a stream of
// tokens.
//
// Source is pulled line by line from an [io.Reader] as tokens are requested,
// so a [Lexer] never holds more than the lines it has already scanned. The
// stream always ends with exactly one [token.EOF]; once an error has been
// returned, every later call returns the same error.
package lexer

import (
	"bufio"
	"errors"
	"io"
	"iter"
	"strings"
	"unicode"

	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// Lexer is a pull-based tokenizer over line-oriented source.
type Lexer struct {
	src      *bufio.Reader
	err      error
	filename string
	lines    []string
	line     []rune
	pos      int
	done     bool

	// pending holds lines read ahead by a trial parse; peeked counts those
	// consumed by the running trial.
	pending []string
	peeked  int
}

// Option configures a [Lexer].
type Option func(*Lexer)

// WithFilename sets the file name reported in token positions and traces.
func WithFilename(name string) Option {
	return func(l *Lexer) { l.filename = name }
}

// New returns a Lexer reading from r.
func New(r io.Reader, opts ...Option) *Lexer {
	l := &Lexer{src: bufio.NewReader(r)}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewString returns a Lexer over an in-memory source.
func NewString(src string, opts ...Option) *Lexer {
	return New(strings.NewReader(src), opts...)
}

// Filename returns the configured file name.
func (l *Lexer) Filename() string { return l.filename }

// Line returns the text of the 1-based line n if it has been read.
func (l *Lexer) Line(n int) string {
	if n < 1 || n > len(l.lines) {
		return ""
	}

	return l.lines[n-1]
}

// Trace builds a diagnostic trace pointing at p.
func (l *Lexer) Trace(p token.Pos) diag.Trace {
	return diag.Trace{
		Filename: l.filename,
		Source:   l.Line(p.Line),
		Line:     p.Line,
		Column:   p.Column,
	}
}

// here returns the position of the cursor.
func (l *Lexer) here() token.Pos {
	return token.Pos{
		Filename: l.filename,
		Line:     len(l.lines),
		Column:   l.pos + 1,
	}
}

// advance pulls the next source line. It reports false once the source is
// exhausted or a read error occurred.
func (l *Lexer) advance() bool {
	var text string

	if len(l.pending) > 0 {
		text, l.pending = l.pending[0], l.pending[1:]
	} else {
		var ok bool
		if text, ok = l.read(len(l.lines) + 1); !ok {
			return false
		}
	}

	l.lines = append(l.lines, text)
	l.line = []rune(text)
	l.pos = 0

	return true
}

// read pulls one line from the source; n is its line number.
func (l *Lexer) read(n int) (string, bool) {
	text, err := l.src.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		l.err = diag.Syntaxf("read source line %d", n).Wrap(err)

		return "", false
	}

	return text, text != ""
}

// Next returns the next token.
func (l *Lexer) Next() (token.Token, error) {
	if l.err != nil {
		return token.Token{}, l.err
	}

	tok, err := l.scan()
	if err != nil {
		l.err = err

		return token.Token{}, err
	}

	return tok, nil
}

// Tokenize scans the remaining source and returns every token including the
// trailing EOF.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	var toks []token.Token

	for tok, err := range l.All() {
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
	}

	return toks, nil
}

// All returns an iterator over the remaining tokens. Iteration stops after
// the EOF token or the first error.
func (l *Lexer) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		for {
			tok, err := l.Next()
			if !yield(tok, err) || err != nil || tok.Kind == token.EOF {
				return
			}
		}
	}
}

func (l *Lexer) scan() (token.Token, error) {
	for {
		if l.pos >= len(l.line) {
			if l.done {
				return token.Token{Kind: token.EOF, Lexeme: "EOF", Pos: l.here()}, nil
			}

			if !l.advance() {
				if l.err != nil {
					return token.Token{}, l.err
				}

				l.done = true
			}

			continue
		}

		r := l.line[l.pos]
		at := l.here()

		if kind, ok := single[r]; ok {
			l.pos++

			return token.Token{Kind: kind, Lexeme: string(r), Pos: at}, nil
		}

		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\uFEFF':
			l.pos++

		case r == '.':
			if l.peek(1) == '.' {
				l.pos += 2

				return token.Token{Kind: token.Ellipsis, Lexeme: "..", Pos: at}, nil
			}

			l.pos++

			return token.Token{Kind: token.Point, Lexeme: ".", Pos: at}, nil

		case r == '<':
			if l.peek(1) != '-' {
				return token.Token{}, l.unexpected(at)
			}

			l.pos += 2

			return token.Token{Kind: token.Junction, Lexeme: "<-", Pos: at}, nil

		case r == '/':
			if _, err := l.span(r, at); err != nil {
				return token.Token{}, err
			}

		case r == '\'' || r == '"':
			text, err := l.span(r, at)
			if err != nil {
				return token.Token{}, err
			}

			return token.Token{Kind: token.String, Lexeme: text, Pos: at}, nil

		case unicode.IsLetter(r):
			return l.word(at), nil

		case isDigit(r):
			return l.number(at), nil

		default:
			return token.Token{}, l.unexpected(at)
		}
	}
}

// single maps one-character punctuation to its kind.
var single = map[rune]token.Kind{
	'$': token.VarSigil,
	'~': token.Tilde,
	';': token.Semicolon,
	':': token.Colon,
	',': token.Comma,
	'+': token.Concat,
	'-': token.Minus,
	'=': token.Assign,
	'{': token.LBrace,
	'}': token.RBrace,
	'[': token.LBracket,
	']': token.RBracket,
	'(': token.LParen,
	')': token.RParen,
}

func (l *Lexer) peek(n int) rune {
	if l.pos+n < len(l.line) {
		return l.line[l.pos+n]
	}

	return 0
}

func (l *Lexer) unexpected(at token.Pos) error {
	return diag.Syntaxf("unexpected symbol %q", l.line[l.pos]).WithTrace(l.Trace(at))
}

// span consumes a delimited run starting at the opening delimiter and
// returns its content without the outer delimiters. The run may cover
// several lines. A quote of the other kind opens a nested run that must be
// closed before the outer one.
func (l *Lexer) span(delim rune, at token.Pos) (string, error) {
	var sb strings.Builder

	l.pos++

	for {
		if l.pos >= len(l.line) {
			if !l.advance() {
				if l.err != nil {
					return "", l.err
				}

				return "", diag.Syntaxf("symbol %q is not closed", delim).WithTrace(l.Trace(at))
			}

			continue
		}

		r := l.line[l.pos]

		switch {
		case r == delim:
			l.pos++

			return sb.String(), nil

		case r == '\'' || r == '"':
			inner, err := l.span(r, l.here())
			if err != nil {
				return "", err
			}

			sb.WriteRune(r)
			sb.WriteString(inner)
			sb.WriteRune(r)

		default:
			sb.WriteRune(r)
			l.pos++
		}
	}
}

func (l *Lexer) word(at token.Pos) token.Token {
	start := l.pos
	for l.pos < len(l.line) && isWordRune(l.line[l.pos]) {
		l.pos++
	}

	kind, lexeme := token.Lookup(string(l.line[start:l.pos]))

	return token.Token{Kind: kind, Lexeme: lexeme, Pos: at}
}

// number scans an integer, or a float when the digits are followed by a
// single point. A following ".." is left for the ellipsis token.
func (l *Lexer) number(at token.Pos) token.Token {
	start := l.pos
	l.skipDigits()

	kind := token.Int
	if l.pos < len(l.line) && l.line[l.pos] == '.' && l.peek(1) != '.' {
		kind = token.Float
		l.pos++
		l.skipDigits()
	}

	return token.Token{Kind: kind, Lexeme: string(l.line[start:l.pos]), Pos: at}
}

func (l *Lexer) skipDigits() {
	for l.pos < len(l.line) && isDigit(l.line[l.pos]) {
		l.pos++
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
