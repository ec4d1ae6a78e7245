package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"

	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/pkg"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "edl-cli-test-*")
	if err != nil {
		panic(err)
	}

	os.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	os.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	code := m.Run()

	os.RemoveAll(dir)
	os.Exit(code)
}

const bus = `
соединение шина {
	Идентификатор: str = "bus";
	Адрес: str = "10.0.0.1";
};
`

const pumps = `
шаблон насосы {
	контекст номер {
		$n: int;
	};
	.подстановка в номер из $rows;

	сигнал входной аналог давление + $n {
		.использовать номер линейно значения все;
		Идентификатор: str = "p";
	};
};
`

func write(t *testing.T, name, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	exit := func(code int) { t.Fatalf("exit(%d) called", code) }
	args = append([]string{"--log-level=error"}, args...)

	err := Run(context.Background(), exit, args, kong.Writers(&out, io.Discard))

	return out.String(), err
}

type instance struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func decode(t *testing.T, out string) []instance {
	t.Helper()

	var got []instance
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	return got
}

func TestCompileJSON(t *testing.T) {
	path := write(t, "bus.edl", bus)

	out, err := run(t, "compile", "-f", "json", path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	want := []instance{
		{Kind: "module", Name: path},
		{Kind: "connection", Name: "шина"},
	}

	if diff := cmp.Diff(want, decode(t, out)); diff != "" {
		t.Errorf("instances mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileIsDefault(t *testing.T) {
	path := write(t, "bus.edl", bus)

	out, err := run(t, path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.Contains(out, "kind: connection") {
		t.Errorf("output is not YAML instances:\n%s", out)
	}
}

func TestCompileData(t *testing.T) {
	path := write(t, "pumps.edl", pumps)
	data := write(t, "rows.yaml", "rows: [[1], [2], [3]]\n")

	out, err := run(t, "compile", "--format=json", "--data", data, path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var names []string

	for _, in := range decode(t, out) {
		if in.Kind == "signal" {
			names = append(names, in.Name)
		}
	}

	if diff := cmp.Diff([]string{"давление1", "давление2", "давление3"}, names); diff != "" {
		t.Errorf("signals mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileOut(t *testing.T) {
	path := write(t, "bus.edl", bus)
	dest := filepath.Join(t.TempDir(), "out.json")

	out, err := run(t, "compile", "-f", "json", "-o", dest, path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if out != "" {
		t.Errorf("stdout not empty: %q", out)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}

	if got := decode(t, string(data)); len(got) != 2 {
		t.Errorf("instances = %d, want 2", len(got))
	}
}

func TestCheck(t *testing.T) {
	path := write(t, "bus.edl", bus)

	out, err := run(t, "check", path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if want := path + ": ok, 2 instances\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestCheckReportsDiagnostic(t *testing.T) {
	path := write(t, "bad.edl", `
соединение шина {
	Адрес: int = "10.0.0.1";
};
`)

	_, err := run(t, "check", path)
	if !errors.Is(err, diag.ErrType) {
		t.Fatalf("error = %v, want a type error", err)
	}

	e, _ := diag.As(err)
	if e.Trace() == nil || e.Trace().Line != 3 {
		t.Errorf("trace = %+v, want line 3", e.Trace())
	}
}

func TestMissingFile(t *testing.T) {
	_, err := run(t, "check", filepath.Join(t.TempDir(), "none.edl"))
	if !errors.Is(err, pkg.ErrReadSource) {
		t.Errorf("error = %v, want %v", err, pkg.ErrReadSource)
	}
}

func TestTokens(t *testing.T) {
	path := write(t, "bus.edl", bus)

	out, err := run(t, "tokens", path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.Contains(out, `"bus"`) || !strings.Contains(out, ":3:") {
		t.Errorf("unexpected token stream:\n%s", out)
	}
}

func TestAST(t *testing.T) {
	path := write(t, "bus.edl", bus)

	out, err := run(t, "ast", path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if !strings.Contains(out, "шина") {
		t.Errorf("syntax tree does not name the connection:\n%s", out)
	}
}

func TestASTKinds(t *testing.T) {
	path := write(t, "bus.edl", bus)

	out, err := run(t, "ast", "--kind=param", path)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	var nodes []map[string]any
	if err := yaml.Unmarshal([]byte(out), &nodes); err != nil {
		t.Fatalf("output is not a YAML sequence: %v\n%s", err, out)
	}

	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2:\n%s", len(nodes), out)
	}

	for _, n := range nodes {
		if n["kind"] != "param" {
			t.Errorf("node kind = %v, want param", n["kind"])
		}
	}

	if _, err := run(t, "ast", "--kind=сигнал", path); err == nil {
		t.Error("unknown node kind accepted")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if want := pkg.Name + " " + pkg.Version() + "\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}
