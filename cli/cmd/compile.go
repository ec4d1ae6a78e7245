package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/Omarmeks89/edl-src/emit"
	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/lang/compiler"
	"github.com/Omarmeks89/edl-src/log"
	"github.com/Omarmeks89/edl-src/pkg"
)

// Engine holds the flags that change how a module is elaborated.
type Engine struct {
	Data                   string `help:"YAML file of put sources, e.g. 'rows: [[1, 2], [3, 4]]'." type:"existingfile"`
	StrictEquipmentOptions bool   `help:"Reject options registered twice on an equipment parameter."`
	StrictFormulas         bool   `help:"Fail on signal formulas that do not parse."`
}

// compile elaborates the module of in and returns the emitted instances.
func (e *Engine) compile(ctx context.Context, in *Input) ([]emit.Instance, error) {
	mod, src, err := in.parse(ctx)
	if err != nil {
		return nil, err
	}

	defs, err := LoadData(e.Data)
	if err != nil {
		return nil, err
	}

	logger := log.Default().With(slog.String("file", in.name()))

	em := emit.New(
		emit.WithLogger(logger),
		emit.WithStrictFormulas(e.StrictFormulas),
	)

	_, err = compiler.Compile(mod, em,
		compiler.WithSource(src),
		compiler.WithLogger(logger),
		compiler.WithStrictEquipmentOptions(e.StrictEquipmentOptions),
		compiler.WithDefinitions(defs),
	)
	if err != nil {
		return nil, err
	}

	return em.Instances(), nil
}

// LoadData decodes a YAML mapping of variable names to values. An empty
// path yields no definitions.
func LoadData(path string) (map[string]adt.Value, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkg.ErrDataFile.Wrap(err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, pkg.ErrDataFile.Wrapf("%s: %w", path, err)
	}

	defs := make(map[string]adt.Value, len(raw))

	for _, name := range slices.Sorted(maps.Keys(raw)) {
		v, err := adt.FromNative(raw[name])
		if err != nil {
			return nil, pkg.ErrDataFile.Wrapf("%s: %s: %w", path, name, err)
		}

		defs[name] = v
	}

	return defs, nil
}

// Compile compiles a source file and writes the emitted instances.
type Compile struct {
	Input  `embed:""`
	Engine `embed:""`

	Format string `default:"yaml" enum:"yaml,json" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                     help:"Indent width; 0 selects the compact form." short:"i"`
	Out    string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

// Run executes the compile command.
func (c *Compile) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	format, err := emit.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	instances, err := c.compile(ctx, &c.Input)
	if err != nil {
		return err
	}

	w := stdout(ctx)

	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return pkg.ErrWriteOutput.Wrap(err)
		}

		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = pkg.ErrWriteOutput.Wrap(cerr)
			}
		}()

		w = f
	}

	if err := emit.Encode(ctx, w, format, c.Indent, instances); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	log.InfoContext(ctx, "compiled",
		slog.String("file", c.name()),
		slog.Int("instances", len(instances)),
	)

	return nil
}

// Check compiles a source file and reports the outcome without emitting.
type Check struct {
	Input  `embed:""`
	Engine `embed:""`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	instances, err := c.compile(ctx, &c.Input)
	if err != nil {
		return err
	}

	return report(stdout(ctx), "%s: ok, %d instances\n", c.name(), len(instances))
}

func report(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}
