package lexer

import (
	"slices"

	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// MaxArrayDepth limits the bracket nesting accepted by [Lexer.MatchArray].
const MaxArrayDepth = 100

// MatchArray performs a trial parse of the text following the cursor and
// reports whether it is a bracketed array type specification such as
// "[int, str]", "[float..]", "[int:4]" or "[[int, bool]..]". The
// specification may start on a following line and span several lines;
// lines read for the attempt are kept for the scanner.
//
// It is meant to be called right after an "arr" keyword was returned. The
// cursor is rewound to its position before the attempt whether or not the
// match succeeds, so the caller then consumes the specification token by
// token. Any unrecognized symbol fails the match without error; only
// exceeding [MaxArrayDepth] is reported as a syntax error.
func (l *Lexer) MatchArray() (bool, error) {
	if l.err != nil {
		return false, l.err
	}

	line, start := l.line, l.pos
	l.line, l.peeked = slices.Clone(line), 0

	defer func() { l.line, l.pos = line, start }()

	for l.ahead() && isBlank(l.line[l.pos]) {
		l.pos++
	}

	if l.pos >= len(l.line) || l.line[l.pos] != '[' {
		return false, l.err
	}

	return l.matchArray(1)
}

// ahead reports whether the cursor is on a rune, appending the following
// source lines to the trial buffer while it is not.
func (l *Lexer) ahead() bool {
	for l.pos >= len(l.line) {
		if l.peeked == len(l.pending) {
			text, ok := l.read(len(l.lines) + len(l.pending) + 1)
			if !ok {
				return false
			}

			l.pending = append(l.pending, text)
		}

		l.line = append(l.line, []rune(l.pending[l.peeked])...)
		l.peeked++
	}

	return true
}

func isBlank(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

// matchArray expects the cursor on an opening bracket and leaves it on the
// matching closing bracket when the match succeeds.
func (l *Lexer) matchArray(depth int) (bool, error) {
	if depth > MaxArrayDepth {
		return false, diag.Syntaxf("array type nesting deeper than %d", MaxArrayDepth).
			WithTrace(l.Trace(l.here()))
	}

	l.pos++

	commaOK := true

	for l.ahead() {
		r := l.line[l.pos]

		switch {
		case r == '[':
			ok, err := l.matchArray(depth + 1)
			if err != nil || !ok {
				return false, err
			}

			l.pos++

		case r == ']':
			return true, nil

		case isWordRune(r) && !isDigit(r):
			if !l.matchElemType() {
				return false, nil
			}

		case r == '.':
			prev := l.line[l.pos-1]
			if isBlank(prev) || prev == ',' || l.peek(1) != '.' {
				return false, nil
			}

			commaOK = false
			l.pos += 2

		case r == ',' && commaOK:
			l.pos++

		case r == ':' && commaOK:
			l.pos++
			for l.pos < len(l.line) && l.line[l.pos] == ' ' {
				l.pos++
			}

			digits := l.pos
			l.skipDigits()

			if l.pos == digits {
				return false, nil
			}

			commaOK = false

		case isBlank(r):
			l.pos++

		default:
			return false, nil
		}
	}

	return false, l.err
}

func (l *Lexer) matchElemType() bool {
	start := l.pos
	for l.pos < len(l.line) && isWordRune(l.line[l.pos]) {
		l.pos++
	}

	kind, _ := token.Lookup(string(l.line[start:l.pos]))

	return kind.IsScalarType()
}
