package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
)

func kinds(t *testing.T, src string) []token.Kind {
	t.Helper()

	toks, err := NewString(src).Tokenize()
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}

	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}

	return out
}

func TestTokenizeKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "empty",
			src:  "",
			want: []token.Kind{token.EOF},
		},
		{
			name: "blank lines",
			src:  "\n\t \n\r\n",
			want: []token.Kind{token.EOF},
		},
		{
			name: "var declaration",
			src:  "$a, $b: int = -5;",
			want: []token.Kind{
				token.VarSigil, token.Ident, token.Comma, token.VarSigil, token.Ident,
				token.Colon, token.IntType, token.Assign, token.Minus, token.Int,
				token.Semicolon, token.EOF,
			},
		},
		{
			name: "punctuation",
			src:  "{}[]()~+.. . <-",
			want: []token.Kind{
				token.LBrace, token.RBrace, token.LBracket, token.RBracket,
				token.LParen, token.RParen, token.Tilde, token.Concat,
				token.Ellipsis, token.Point, token.Junction, token.EOF,
			},
		},
		{
			name: "object header",
			src:  "оборудование класс_а насос + $n {",
			want: []token.Kind{
				token.ObjectClass, token.ObjectType, token.Ident, token.Concat,
				token.VarSigil, token.Ident, token.LBrace, token.EOF,
			},
		},
		{
			name: "numbers",
			src:  "12 3.5 7. 1..",
			want: []token.Kind{
				token.Int, token.Float, token.Float, token.Int, token.Ellipsis,
				token.EOF,
			},
		},
		{
			name: "comment spans lines",
			src:  "$a / first\n 'quoted/path' \n end / ;",
			want: []token.Kind{token.VarSigil, token.Ident, token.Semicolon, token.EOF},
		},
		{
			name: "put directive",
			src:  ".подстановка в ctx из $rows правило [0:2] <- [i];",
			want: []token.Kind{
				token.Point, token.PutKw, token.InKw, token.Ident, token.FromKw,
				token.VarSigil, token.Ident, token.RuleKw, token.LBracket,
				token.Int, token.Colon, token.Int, token.RBracket, token.Junction,
				token.LBracket, token.It, token.RBracket, token.Semicolon, token.EOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, kinds(t, tt.src)); diff != "" {
				t.Errorf("kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeEndsWithSingleEOF(t *testing.T) {
	sources := []string{
		"",
		"$a: int;",
		"сигнал входной аналог s {\n Идентификатор: str = \"x\";\n};\n",
		"/ only a comment /",
		"no_newline_at_end",
	}

	for _, src := range sources {
		toks, err := NewString(src).Tokenize()
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", src, err)
		}

		eofs := 0
		for _, tok := range toks {
			if tok.Kind == token.EOF {
				eofs++
			}
		}

		if eofs != 1 || toks[len(toks)-1].Kind != token.EOF {
			t.Errorf("Tokenize(%q): %d EOF tokens, last %v", src, eofs, toks[len(toks)-1])
		}
	}
}

func TestNextAfterEOF(t *testing.T) {
	l := NewString("$")

	for range 2 {
		if _, err := l.Next(); err != nil {
			t.Fatal(err)
		}
	}

	tok, err := l.Next()
	if err != nil || tok.Kind != token.EOF {
		t.Errorf("Next() after EOF = %v, %v; want EOF", tok, err)
	}
}

func TestLexemes(t *testing.T) {
	toks, err := NewString(`класс_ц arr i "он сказал 'да'" 'x' Да 3.25`).Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	got := make([]string, 0, len(toks))
	for _, tok := range toks[:len(toks)-1] {
		got = append(got, tok.Lexeme)
	}

	want := []string{"цифра", "ARR", "<i>", "он сказал 'да'", "x", "Да", "3.25"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lexemes mismatch (-want +got):\n%s", diff)
	}
}

func TestMultilineString(t *testing.T) {
	toks, err := NewString("\"a\nb\";").Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	if toks[0].Lexeme != "a\nb" {
		t.Errorf("lexeme = %q, want %q", toks[0].Lexeme, "a\nb")
	}

	if toks[1].Pos.Line != 2 || toks[1].Pos.Column != 3 {
		t.Errorf("semicolon at %v, want 2:3", toks[1].Pos)
	}
}

func TestPositions(t *testing.T) {
	toks, err := NewString("$a;\n  щит = 1;").Tokenize()
	if err != nil {
		t.Fatal(err)
	}

	want := []token.Pos{
		{Line: 1, Column: 1},
		{Line: 1, Column: 2},
		{Line: 1, Column: 3},
		{Line: 2, Column: 3},
		{Line: 2, Column: 7},
		{Line: 2, Column: 9},
		{Line: 2, Column: 10},
	}

	for i, p := range want {
		if toks[i].Pos != p {
			t.Errorf("token %d (%v) at %v, want %v", i, toks[i], toks[i].Pos, p)
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		line   int
		column int
		msg    string
	}{
		{"unexpected symbol", "$a: int;\n  @", 2, 3, "unexpected symbol"},
		{"lone angle", "a < b", 1, 3, "unexpected symbol"},
		{"unterminated string", "$a = \"abc\n\n", 1, 6, "is not closed"},
		{"unterminated comment", "/ abc", 1, 1, "is not closed"},
		{"unbalanced nested quote", `"it's"`, 1, 6, "is not closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewString(tt.src).Tokenize()
			if !errors.Is(err, diag.ErrSyntax) {
				t.Fatalf("error = %v, want syntax error", err)
			}

			e, _ := diag.As(err)
			if !strings.Contains(e.Message(), tt.msg) {
				t.Errorf("message = %q, want it to contain %q", e.Message(), tt.msg)
			}

			tr := e.Trace()
			if tr == nil {
				t.Fatal("missing trace")
			}

			if tr.Line != tt.line || tr.Column != tt.column {
				t.Errorf("trace at %d:%d, want %d:%d", tr.Line, tr.Column, tt.line, tt.column)
			}
		})
	}
}

func TestErrorIsSticky(t *testing.T) {
	l := NewString("@ $")

	_, first := l.Next()
	_, second := l.Next()

	if first == nil || first != second {
		t.Errorf("errors differ: %v / %v", first, second)
	}
}

func TestMatchArray(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"list", "arr[int, str]", true},
		{"variadic", "arr[float..]", true},
		{"sized", "arr[int:4]", true},
		{"sized with space", "arr[bool: 2]", true},
		{"nested", "arr[[int, bool]..]", true},
		{"deep nested", "arr[[[str]]]", true},
		{"spaced open", "arr [int]", true},
		{"no bracket", "arr = [1, 2]", false},
		{"value literal", "arr[1, 2]", false},
		{"identifier", "arr[pump]", false},
		{"array keyword inside", "arr[arr]", false},
		{"comma after ellipsis", "arr[int.., str]", false},
		{"ellipsis after space", "arr[int ..]", false},
		{"comma after size", "arr[int:2, str]", false},
		{"size without digits", "arr[int:]", false},
		{"unclosed", "arr[int, str", false},
		{"string inside", `arr["a"]`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewString(tt.src)

			tok, err := l.Next()
			if err != nil || tok.Kind != token.ArrayType {
				t.Fatalf("first token = %v, %v", tok, err)
			}

			got, err := l.MatchArray()
			if err != nil {
				t.Fatalf("MatchArray() error: %v", err)
			}

			if got != tt.want {
				t.Errorf("MatchArray() = %v, want %v", got, tt.want)
			}

			next, err := l.Next()
			if err != nil {
				t.Fatalf("Next() after MatchArray error: %v", err)
			}

			if next.Pos.Column <= tok.Pos.Column+2 {
				t.Errorf("cursor moved backwards: next token at %v", next.Pos)
			}

			if next.Pos.Column > 6 {
				t.Errorf("cursor not rewound: next token %v at %v", next, next.Pos)
			}
		})
	}
}

func TestMatchArrayAcrossLines(t *testing.T) {
	l := NewString("$x: arr\n  [int,\n   str] = Да;\n")

	for range 4 {
		if _, err := l.Next(); err != nil {
			t.Fatal(err)
		}
	}

	got, err := l.MatchArray()
	if err != nil || !got {
		t.Fatalf("MatchArray() = %v, %v; want true", got, err)
	}

	var kinds []token.Kind
	var lines []int

	for tok, err := range l.All() {
		if err != nil {
			t.Fatal(err)
		}

		kinds = append(kinds, tok.Kind)
		lines = append(lines, tok.Pos.Line)
	}

	wantKinds := []token.Kind{
		token.LBracket, token.IntType, token.Comma, token.StrType, token.RBracket,
		token.Assign, token.Bool, token.Semicolon, token.EOF,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}

	wantLines := []int{2, 2, 2, 3, 3, 3, 3, 3, 3}
	if diff := cmp.Diff(wantLines, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchArrayDepthLimit(t *testing.T) {
	src := "arr" + strings.Repeat("[", MaxArrayDepth+1) + "int" +
		strings.Repeat("]", MaxArrayDepth+1)
	l := NewString(src)

	if _, err := l.Next(); err != nil {
		t.Fatal(err)
	}

	_, err := l.MatchArray()
	if !errors.Is(err, diag.ErrSyntax) {
		t.Errorf("MatchArray() error = %v, want syntax error", err)
	}
}
