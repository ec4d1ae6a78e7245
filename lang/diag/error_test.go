package diag

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"syntax", Syntaxf("unexpected %q", "@"), ErrSyntax, true},
		{"runtime", Runtimef("duplicate"), ErrRuntime, true},
		{"type mismatch kind", Typef("bad"), ErrRuntime, false},
		{"parameter", Parameterf("bad"), ErrParameter, true},
		{"directive", Directivef("bad"), ErrDirective, true},
		{"wrapped", Runtimef("x").Wrap(io.EOF), io.EOF, true},
		{"with attrs", Typef("x").With(slog.String("k", "v")), ErrType, true},
		{"sentinel is itself", ErrSyntax, ErrSyntax, true},
		{"not an error value", Typef("x"), Typef("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := Runtimef("symbol %q already declared", "a")
	if got, want := err.Error(), `runtime error: symbol "a" already declared`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = err.WithTrace(Trace{Line: 3, Column: 5, Source: "$a: int;\n"})

	got := err.Error()
	if !strings.Contains(got, "(line 3, column 5)") {
		t.Errorf("Error() missing position: %q", got)
	}

	if !strings.Contains(got, "  3 | $a: int;") {
		t.Errorf("Error() missing source line: %q", got)
	}
}

func TestWithTraceKeepsFirst(t *testing.T) {
	err := Syntaxf("x").
		WithTrace(Trace{Line: 1, Column: 1}).
		WithTrace(Trace{Line: 9, Column: 9})

	if err.Trace().Line != 1 {
		t.Errorf("Trace().Line = %d, want 1", err.Trace().Line)
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := Typef("base")
	a := base.With(slog.Int("a", 1))
	b := base.With(slog.Int("b", 2))

	if len(base.Attrs()) != 0 {
		t.Errorf("base attrs mutated: %v", base.Attrs())
	}

	if len(a.Attrs()) != 1 || len(b.Attrs()) != 1 {
		t.Errorf("unexpected attrs a=%v b=%v", a.Attrs(), b.Attrs())
	}
}

func TestLogValue(t *testing.T) {
	err := Directivef("arity").
		WithTrace(Trace{Line: 2, Column: 4}).
		With(slog.String("context", "ctx"))

	v := err.LogValue()
	if v.Kind() != slog.KindGroup {
		t.Fatalf("LogValue().Kind() = %v, want group", v.Kind())
	}

	keys := map[string]bool{}
	for _, a := range v.Group() {
		keys[a.Key] = true
	}

	for _, k := range []string{"kind", "error", "line", "column", "context"} {
		if !keys[k] {
			t.Errorf("LogValue() missing key %q", k)
		}
	}
}

func TestTraceLines(t *testing.T) {
	tests := []struct {
		name   string
		trace  Trace
		source string
		caret  string
	}{
		{
			name:   "first column",
			trace:  Trace{Line: 1, Column: 1, Source: "abc\n"},
			source: "  1 | abc",
			caret:  "      ^",
		},
		{
			name:   "cyrillic column",
			trace:  Trace{Line: 12, Column: 4, Source: "щит @"},
			source: "  12 | щит @",
			caret:  "          ^",
		},
		{
			name:   "column past end",
			trace:  Trace{Line: 2, Column: 40, Source: "ab"},
			source: "  2 | ab",
			caret:  "        ^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, caret := tt.trace.Lines()
			if source != tt.source {
				t.Errorf("source = %q, want %q", source, tt.source)
			}

			if caret != tt.caret {
				t.Errorf("caret = %q, want %q", caret, tt.caret)
			}
		})
	}
}
