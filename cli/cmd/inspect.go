package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/lexer"
	"github.com/Omarmeks89/edl-src/lang/token"
	"github.com/Omarmeks89/edl-src/pkg"
)

// Tokens prints the token stream of a source file, one token per line.
type Tokens struct {
	Input `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	text, err := t.read(ctx)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(stdout(ctx))

	for tok, err := range lexer.NewString(text, lexer.WithFilename(t.name())).All() {
		if err != nil {
			return err
		}

		if tok.Kind == token.EOF {
			break
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\n", tok.Pos, tok); err != nil {
			return pkg.ErrWriteOutput.Wrap(err)
		}
	}

	if err := w.Flush(); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// AST prints the syntax tree of a source file as YAML.
type AST struct {
	Input `embed:""`

	Indent int      `default:"2" help:"Indent width; 0 selects the flow form."         short:"i"`
	Kind   []string `help:"Print only nodes of these kinds (${nodeKinds})." sep:","    short:"k"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	mod, _, err := a.parse(ctx)
	if err != nil {
		return err
	}

	var tree any = ast.Dump(mod)

	if len(a.Kind) > 0 {
		if tree, err = a.filter(mod); err != nil {
			return err
		}
	}

	var opts []yaml.EncodeOption
	if a.Indent > 0 {
		opts = append(opts, yaml.Indent(a.Indent), yaml.IndentSequence(true))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, tree, opts...)
	if err != nil {
		return err
	}

	if _, err := stdout(ctx).Write(data); err != nil {
		return pkg.ErrWriteOutput.Wrap(err)
	}

	return nil
}

// filter dumps every node of the selected kinds in source order.
func (a *AST) filter(mod *ast.Module) ([]yaml.MapSlice, error) {
	kinds := make(map[ast.NodeKind]bool, len(a.Kind))

	for _, name := range a.Kind {
		k, ok := ast.ParseNodeKind(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown node kind %q (want one of %s)",
				name, strings.Join(ast.NodeKinds(), ", "))
		}

		kinds[k] = true
	}

	out := []yaml.MapSlice{}

	ast.Inspect(mod, func(n ast.Node) bool {
		if kinds[n.Kind()] {
			out = append(out, ast.Dump(n))
		}

		return true
	})

	return out, nil
}

// Version prints the tool name and version.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	return report(stdout(ctx), "%s %s\n", pkg.Name, pkg.Version())
}
