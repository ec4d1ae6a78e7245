package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/parser"
)

// snapshot is what the recorder keeps of each finalized scope.
type snapshot struct {
	Kind string
	Name string
	Ctx  map[string]any
	Link string
}

type recorder struct {
	got []snapshot
}

func (r *recorder) FinalizeModule(s *adt.Scope) error     { return r.add(s) }
func (r *recorder) FinalizeTemplate(s *adt.Scope) error   { return r.add(s) }
func (r *recorder) FinalizeEquipment(s *adt.Scope) error  { return r.add(s) }
func (r *recorder) FinalizeSignal(s *adt.Scope) error     { return r.add(s) }
func (r *recorder) FinalizeConnection(s *adt.Scope) error { return r.add(s) }
func (*recorder) FinalizeContext(*adt.ContextScope) error { return nil }
func (*recorder) FinalizeParam(*adt.ParamSymbol) error    { return nil }
func (*recorder) FinalizeOption(*adt.Option) error        { return nil }
func (*recorder) FinalizeVar(*adt.VarSymbol) error        { return nil }

func (r *recorder) add(s *adt.Scope) error {
	name, err := s.ResolveName()
	if err != nil {
		return err
	}

	snap := snapshot{Kind: s.Kind().String(), Name: name}

	if ctx := s.Context(); ctx != nil {
		snap.Ctx = make(map[string]any)

		for _, v := range ctx.Vars() {
			if val := v.Value(); val != nil {
				snap.Ctx[v.Name()] = val.Native()
			} else {
				snap.Ctx[v.Name()] = nil
			}
		}
	}

	if l := s.Link(); l != nil {
		snap.Link = l.Name
	}

	r.got = append(r.got, snap)

	return nil
}

func (r *recorder) kind(k string) []snapshot {
	var out []snapshot

	for _, s := range r.got {
		if s.Kind == k {
			out = append(out, s)
		}
	}

	return out
}

func compile(t *testing.T, src string, opts ...Option) (*recorder, *adt.Registry, error) {
	t.Helper()

	mod, err := parser.ParseString("test.edl", src)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	opts = append([]Option{WithSource(diag.NewSource("test.edl", src))}, opts...)
	rec := &recorder{}
	reg, err := Compile(mod, rec, opts...)

	return rec, reg, err
}

func build(t *testing.T, src string, opts ...Option) *Compiler {
	t.Helper()

	mod, err := parser.ParseString("test.edl", src)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}

	c := New(opts...)
	if err := c.Build(mod); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	return c
}

const station = `
$rows: arr[[int, int]..] = [[1, 10], [2, 20]];

соединение шина {
	Идентификатор: str = "bus";
	Адрес: str = "10.0.0.1" обработчик = "modbus";
};

шаблон насосы {
	контекст номер {
		$n: int;
		$k: int;
	};
	.подстановка в номер из $rows правило [0:1] <- [i];

	сигнал входной аналог давление + $n {
		.использовать номер линейно значения все;
		.привязать шина;
		Идентификатор: str = "p";
		Значение: float = диапазон[~, $k] статус = норма метка;
	};
};

оборудование класс_а щит {
	Идентификатор: str = "panel";
	сигнал выходной дискрет сброс {
		.привязать (шина);
		Квитируемый: bool = Да;
	};
};
`

func TestCompileStation(t *testing.T) {
	rec, reg, err := compile(t, station)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	want := []snapshot{
		{Kind: "signal", Name: "давление1", Ctx: map[string]any{"n": int64(1), "k": int64(10)}, Link: "шина"},
		{Kind: "signal", Name: "давление2", Ctx: map[string]any{"n": int64(2), "k": int64(20)}, Link: "шина"},
		{Kind: "module", Name: "test.edl"},
		{Kind: "connection", Name: "шина"},
		{Kind: "template", Name: "насосы"},
		{Kind: "equipment", Name: "щит"},
		{Kind: "signal", Name: "сброс", Link: "шина"},
	}

	if diff := cmp.Diff(want, rec.got); diff != "" {
		t.Errorf("finalized scopes mismatch (-want +got):\n%s", diff)
	}

	var keys []string
	for _, s := range reg.Active() {
		keys = append(keys, s.Key())
	}

	wantKeys := []string{
		"test.edl",
		"test.edl/шина",
		"test.edl/насосы",
		"test.edl/щит",
		"test.edl/щит/сброс",
	}

	if diff := cmp.Diff(wantKeys, keys); diff != "" {
		t.Errorf("active scopes mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverAdvancesPerRow(t *testing.T) {
	c := build(t, `
$data: arr = [[1, 2], [3, 4], [5, 6]];
шаблон т {
	контекст к {
		$k1: int;
		$k2: int;
	};
	.подстановка в к из $data;
};
`)

	r := c.Resolvers()[0]
	ctx := r.Context()

	var rows [][2]any

	for {
		ok, err := r.Next()
		if err != nil {
			t.Fatalf("Next() error: %v", err)
		}

		if !ok {
			break
		}

		rows = append(rows, [2]any{
			ctx.Lookup("k1").Value().Native(),
			ctx.Lookup("k2").Value().Native(),
		})
	}

	want := [][2]any{
		{int64(1), int64(2)},
		{int64(3), int64(4)},
		{int64(5), int64(6)},
	}

	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	if ok, err := r.Next(); ok || err != nil {
		t.Errorf("Next() after end = %v, %v", ok, err)
	}
}

// Arity is checked before anything is stored, so a short row leaves the
// previous row in place. A type error stores the elements before it.
func TestResolverPartialAssignment(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		err    error
		k1, k2 any
	}{
		{"short row", `[[1, 2], [3]]`, diag.ErrDirective, int64(1), int64(2)},
		{"long row", `[[1, 2], [3, 4, 5]]`, diag.ErrDirective, int64(1), int64(2)},
		{"type error on second element", `[[1, 2], [3, "x"]]`, diag.ErrType, int64(3), int64(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := build(t, `
$data: arr = `+tt.data+`;
шаблон т {
	контекст к {
		$k1: int;
		$k2: int;
	};
	.подстановка в к из $data;
};
`)

			r := c.Resolvers()[0]
			if ok, err := r.Next(); !ok || err != nil {
				t.Fatalf("first Next() = %v, %v", ok, err)
			}

			if _, err := r.Next(); !errors.Is(err, tt.err) {
				t.Fatalf("second Next() error = %v, want %v", err, tt.err)
			}

			ctx := r.Context()
			if got := ctx.Lookup("k1").Value().Native(); got != tt.k1 {
				t.Errorf("k1 = %v, want %v", got, tt.k1)
			}

			if got := ctx.Lookup("k2").Value().Native(); got != tt.k2 {
				t.Errorf("k2 = %v, want %v", got, tt.k2)
			}
		})
	}
}

func TestBindSameConnection(t *testing.T) {
	_, reg, err := compile(t, `
соединение C {
	Идентификатор: str = "c";
	Адрес: str = "1";
};
оборудование класс_ц шкаф {
	сигнал входной дискрет а {
		.привязать C;
	};
	сигнал входной дискрет б {
		.привязать C;
	};
};
`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	var linked []*adt.Scope

	for _, s := range reg.Active() {
		if s.Kind() == adt.KindSignal {
			if s.Link() == nil || s.Link().Name != "C" {
				t.Fatalf("signal %s link = %+v", s.Name(), s.Link())
			}

			linked = append(linked, s.Linked())
		}
	}

	if len(linked) != 2 {
		t.Fatalf("signals = %d, want 2", len(linked))
	}

	if linked[0] != linked[1] || linked[0].Kind() != adt.KindConnection {
		t.Errorf("signals bound to %v and %v, want the same connection", linked[0], linked[1])
	}
}

func TestTemplateInstances(t *testing.T) {
	rec, _, err := compile(t, `
$data: arr = [[1, 2], [3, 4]];
шаблон т {
	контекст к {
		$a: int;
		$b: int;
	};
	.подстановка в к из $data;
	сигнал входной аналог с + $a {
		.использовать к линейно значения все;
		Формат: int = $b;
	};
};
`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	want := []snapshot{
		{Kind: "signal", Name: "с1", Ctx: map[string]any{"a": int64(1), "b": int64(2)}},
		{Kind: "signal", Name: "с3", Ctx: map[string]any{"a": int64(3), "b": int64(4)}},
	}

	if diff := cmp.Diff(want, rec.kind("signal")); diff != "" {
		t.Errorf("signal instances mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedListenersReplayOncePerRow(t *testing.T) {
	rec, _, err := compile(t, `
$data: arr = [[1], [2]];
шаблон т {
	контекст к {
		$a: int;
	};
	.подстановка в к из $data;
	.использовать к линейно значения все;
	сигнал входной аналог с + $a {
		.использовать к линейно значения все;
	};
};
`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	want := []snapshot{
		{Kind: "signal", Name: "с1", Ctx: map[string]any{"a": int64(1)}},
		{Kind: "signal", Name: "с2", Ctx: map[string]any{"a": int64(2)}},
	}

	if diff := cmp.Diff(want, rec.kind("signal")); diff != "" {
		t.Errorf("signal instances mismatch (-want +got):\n%s", diff)
	}

	if got := len(rec.kind("template")); got != 2 {
		t.Errorf("template instances = %d, want 2", got)
	}
}

func TestSameBaseDifferentExtensions(t *testing.T) {
	rec, reg, err := compile(t, `
$data: arr = [[1, 2], [3, 4]];
шаблон т {
	контекст к {
		$a: int;
		$b: int;
	};
	.подстановка в к из $data;
	сигнал входной аналог с + $a {
		.использовать к линейно значения все;
		Формат: int = $b;
	};
	сигнал выходной аналог с + $b {
		.использовать к линейно значения все;
	};
};
`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	ctx1 := map[string]any{"a": int64(1), "b": int64(2)}
	ctx2 := map[string]any{"a": int64(3), "b": int64(4)}

	want := []snapshot{
		{Kind: "signal", Name: "с1", Ctx: ctx1},
		{Kind: "signal", Name: "с2", Ctx: ctx1},
		{Kind: "signal", Name: "с3", Ctx: ctx2},
		{Kind: "signal", Name: "с4", Ctx: ctx2},
	}

	if diff := cmp.Diff(want, rec.kind("signal")); diff != "" {
		t.Errorf("signal instances mismatch (-want +got):\n%s", diff)
	}

	mod, ok := reg.Get("test.edl")
	if !ok {
		t.Fatal("module scope not active")
	}

	var keys []string
	for _, tpl := range mod.Children() {
		for _, s := range tpl.Children() {
			keys = append(keys, s.Key())
		}
	}

	wantKeys := []string{"test.edl/т/с+$a", "test.edl/т/с+$b"}
	if diff := cmp.Diff(wantKeys, keys); diff != "" {
		t.Errorf("signal scopes mismatch (-want +got):\n%s", diff)
	}
}

func TestUseFilter(t *testing.T) {
	rec, _, err := compile(t, `
$data: arr = [[1], [3], [5]];
$skip: int = 3;
шаблон т {
	контекст к {
		$n: int;
	};
	.подстановка в к из $data;
};
сигнал входной аналог вне {
	.использовать к линейно значения кроме $skip;
};
`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	want := []snapshot{
		{Kind: "signal", Name: "вне", Ctx: map[string]any{"n": int64(1)}},
		{Kind: "signal", Name: "вне", Ctx: map[string]any{"n": int64(5)}},
	}

	if diff := cmp.Diff(want, rec.kind("signal")); diff != "" {
		t.Errorf("signal instances mismatch (-want +got):\n%s", diff)
	}
}

func TestLateBindingBeforeContext(t *testing.T) {
	rec, _, err := compile(t, `
$data: arr = [[7]];
сигнал входной аналог ранний {
	.использовать к линейно значения все;
};
шаблон т {
	контекст к {
		$n: int;
	};
	.подстановка в к из $data;
};
`)
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	want := []snapshot{{Kind: "signal", Name: "ранний", Ctx: map[string]any{"n": int64(7)}}}
	if diff := cmp.Diff(want, rec.kind("signal")); diff != "" {
		t.Errorf("signal instances mismatch (-want +got):\n%s", diff)
	}
}

func TestPutRules(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want []any
		err  error
	}{
		{"all rows", "", []any{int64(10), int64(20), int64(30), int64(40)}, nil},
		{"window", "правило [1:2] <- [i]", []any{int64(20), int64(30)}, nil},
		{"row list", "правило $idx", []any{int64(40), int64(10)}, nil},
		{"window out of range", "правило [2:9] <- [i]", nil, diag.ErrDirective},
		{"empty window", "правило [2:1] <- [i]", nil, diag.ErrDirective},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, err := compile(t, `
$data: arr = [[10], [20], [30], [40]];
$idx: arr = [3, 0];
шаблон т {
	контекст к {
		$v: int;
	};
	.подстановка в к из $data `+tt.rule+`;
	сигнал входной аналог с {
		.использовать к линейно значения все;
	};
};
`)
			if !errors.Is(err, tt.err) || (tt.err == nil && err != nil) {
				t.Fatalf("Compile() error = %v, want %v", err, tt.err)
			}

			if tt.err != nil {
				return
			}

			var got []any
			for _, s := range rec.kind("signal") {
				got = append(got, s.Ctx["v"])
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefinitions(t *testing.T) {
	data := adt.Array{adt.Array{adt.Int(4)}, adt.Array{adt.Int(8)}}

	rec, _, err := compile(t, `
$data: arr;
шаблон т {
	контекст к {
		$v: int;
	};
	.подстановка в к из $data;
	сигнал входной аналог с + $v {
		.использовать к линейно значения все;
	};
};
`, WithDefinitions(map[string]adt.Value{"data": data, "extra": adt.String("x")}))
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}

	var names []string
	for _, s := range rec.kind("signal") {
		names = append(names, s.Name)
	}

	if diff := cmp.Diff([]string{"с4", "с8"}, names); diff != "" {
		t.Errorf("instances mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		line int
		want string
	}{
		{
			name: "redeclared variable",
			src:  "$a: int;\n$a: int;",
			err:  diag.ErrRuntime, line: 2, want: "already declared",
		},
		{
			name: "variable visible from enclosing scope",
			src:  "$a: int;\nоборудование класс_а о {\n\t$a: str;\n};",
			err:  diag.ErrRuntime, line: 3, want: "already declared",
		},
		{
			name: "type mismatch",
			src:  `$a: int = "x";`,
			err:  diag.ErrType, line: 1, want: "declared int, got str",
		},
		{
			name: "float does not take int",
			src:  `$a: float = 1;`,
			err:  diag.ErrType, line: 1, want: "declared float",
		},
		{
			name: "undeclared reference",
			src:  "$давление: int = 1;\n$b: int = $давлние;",
			err:  diag.ErrRuntime, line: 2, want: "did you mean давление",
		},
		{
			name: "parameter not allowed",
			src:  "сигнал входной аналог с {\n\tАдрес: str = \"x\";\n};",
			err:  diag.ErrParameter, line: 2, want: "not allowed for signal",
		},
		{
			name: "option of wrong family",
			src:  "сигнал входной аналог с {\n\tЗначение: int = 1 обработчик = \"x\";\n};",
			err:  diag.ErrParameter, line: 2, want: "invalid option",
		},
		{
			name: "option registered twice",
			src:  "сигнал входной аналог с {\n\tЗначение: int = 1 метка метка;\n};",
			err:  diag.ErrRuntime, line: 2, want: "registered twice",
		},
		{
			name: "range outside value parameter",
			src:  "сигнал входной аналог с {\n\tФормат: int = диапазон[1, 2];\n};",
			err:  diag.ErrType, line: 2, want: "range is not supported",
		},
		{
			name: "bind unknown connection",
			src:  "соединение шина {};\nсигнал входной аналог с {\n\t.привязать шин;\n};",
			err:  diag.ErrRuntime, line: 3, want: "did you mean шина",
		},
		{
			name: "bind to a variable",
			src:  "$шина: int = 1;\nсигнал входной аналог с {\n\t.привязать шина;\n};",
			err:  diag.ErrDirective, line: 3, want: "not a connection",
		},
		{
			name: "second bind",
			src:  "соединение а {};\nсоединение б {};\nсигнал входной аналог с {\n\t.привязать а;\n\t.привязать б;\n};",
			err:  diag.ErrRuntime, line: 5, want: "already bound",
		},
		{
			name: "duplicate context",
			src:  "шаблон а {\n\tконтекст к {};\n};\nшаблон б {\n\tконтекст к {};\n};",
			err:  diag.ErrRuntime, line: 5, want: "redeclared",
		},
		{
			name: "put from undeclared source",
			src:  "шаблон а {\n\tконтекст к {};\n\t.подстановка в к из $нет;\n};",
			err:  diag.ErrDirective, line: 3, want: "not declared",
		},
		{
			name: "second put into a context",
			src:  "$d: arr = [];\nшаблон а {\n\tконтекст к {};\n\t.подстановка в к из $d;\n\t.подстановка в к из $d;\n};",
			err:  diag.ErrDirective, line: 5, want: "already has a data source",
		},
		{
			name: "use of undeclared context",
			src:  "сигнал входной аналог с {\n\t.использовать нет линейно значения все;\n};",
			err:  diag.ErrDirective, line: 2, want: "context \"нет\" is not declared",
		},
		{
			name: "connection named from context",
			src:  "шаблон а {\n\tконтекст к {\n\t\t$n: int;\n\t};\n\tсоединение ш + $n {};\n};",
			err:  diag.ErrRuntime, line: 5, want: "cannot be resolved from a context",
		},
		{
			name: "data source is not an array",
			src:  "$d: int = 1;\nшаблон а {\n\tконтекст к {};\n\t.подстановка в к из $d;\n};",
			err:  diag.ErrDirective, line: 4, want: "not an array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, reg, err := compile(t, tt.src)
			if !errors.Is(err, tt.err) {
				t.Fatalf("Compile() error = %v, want %v", err, tt.err)
			}

			if reg != nil {
				t.Error("registry returned on failure")
			}

			e, _ := diag.As(err)
			if !strings.Contains(e.Message(), tt.want) {
				t.Errorf("message = %q, want it to contain %q", e.Message(), tt.want)
			}

			if tr := e.Trace(); tr == nil || tr.Line != tt.line {
				t.Errorf("trace = %+v, want line %d", tr, tt.line)
			}
		})
	}
}

func TestStrictEquipmentOptions(t *testing.T) {
	src := "оборудование класс_а о {\n\tИдентификатор: str = \"x\" обработчик = \"a\" обработчик = \"b\";\n};"

	if _, _, err := compile(t, src); err != nil {
		t.Fatalf("lenient Compile() error: %v", err)
	}

	_, _, err := compile(t, src, WithStrictEquipmentOptions(true))
	if !errors.Is(err, diag.ErrRuntime) {
		t.Fatalf("strict Compile() error = %v, want runtime error", err)
	}
}

func TestBuildTwice(t *testing.T) {
	c := build(t, "$a: int;")

	mod, err := parser.ParseString("test.edl", "$a: int;")
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Build(mod); !errors.Is(err, diag.ErrRuntime) {
		t.Errorf("second Build() error = %v, want runtime error", err)
	}
}
