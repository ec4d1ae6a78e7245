package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/pkg"
)

func TestReport(t *testing.T) {
	src := diag.NewSource("a.edl", "шаблон т {\n  $x: int = \"s\";\n};\n")
	err := diag.Typef("variable $x declared int, got str").
		With(slog.String("scope", "т")).
		WithTrace(src.Trace(2, 3))

	var buf bytes.Buffer

	Report(&buf, pkg.ErrPreprocess.Wrap(err))

	want := "type error: variable $x declared int, got str\n" +
		"  --> a.edl: line 2, column 3\n" +
		"  2 |   $x: int = \"s\";\n" +
		"        ^\n" +
		"  = scope=т\n"

	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestReportCause(t *testing.T) {
	err := diag.Runtimef("cannot include %q", "f.txt").
		Wrap(errors.New("no such file")).
		WithTrace(diag.Trace{Line: 1, Column: 1, Source: "#загрузить \"f.txt\" А\n"})

	var buf bytes.Buffer

	Report(&buf, err)

	want := "runtime error: cannot include \"f.txt\": no such file\n" +
		"  --> line 1, column 1\n" +
		"  1 | #загрузить \"f.txt\" А\n" +
		"      ^\n"

	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
