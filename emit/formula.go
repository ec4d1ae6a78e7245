package emit

import (
	"log/slog"
	"slices"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/parser"

	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/lang/diag"
)

// Formula is the expression of a signal Формула parameter and the names it
// reads. Error holds the parse error when the expression is invalid.
type Formula struct {
	Expr        string   `json:"expr"                  yaml:"expr"`
	Identifiers []string `json:"identifiers,omitempty" yaml:"identifiers,omitempty"`
	Error       string   `json:"error,omitempty"       yaml:"error,omitempty"`
}

// ParseFormula parses src and lists the identifiers it reads, sorted and
// without duplicates. Builtin functions, called functions and names bound by
// let are not listed.
func ParseFormula(src string) (*Formula, error) {
	f := &Formula{Expr: src}

	tree, err := parser.Parse(src)
	if err != nil {
		return f, err
	}

	c := &identCollector{}
	ast.Walk(&tree.Node, c)

	f.Identifiers = c.names()

	return f, nil
}

// identCollector visits an expression tree bottom up.
type identCollector struct {
	idents  []*ast.IdentifierNode
	callees map[*ast.IdentifierNode]bool
	locals  map[string]bool
}

func (c *identCollector) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		c.idents = append(c.idents, n)

	case *ast.CallNode:
		if id, ok := n.Callee.(*ast.IdentifierNode); ok {
			if c.callees == nil {
				c.callees = make(map[*ast.IdentifierNode]bool)
			}

			c.callees[id] = true
		}

	case *ast.VariableDeclaratorNode:
		if c.locals == nil {
			c.locals = make(map[string]bool)
		}

		c.locals[n.Name] = true
	}
}

func (c *identCollector) names() []string {
	var out []string

	for _, id := range c.idents {
		if c.callees[id] || c.locals[id.Value] {
			continue
		}

		if _, ok := builtin.Index[id.Value]; ok {
			continue
		}

		out = append(out, id.Value)
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// formula records the formula of the current signal. v is the resolved
// parameter value.
func (e *Emitter) formula(p *adt.ParamSymbol, v any) error {
	src, ok := v.(string)
	if !ok {
		return nil
	}

	f, err := ParseFormula(src)
	if err != nil {
		if e.strict {
			return diag.Parameterf("invalid formula of %s %q", e.cur.Kind, e.cur.Name).
				Wrap(err).
				With(slog.String("param", p.Name()))
		}

		f.Error = err.Error()

		e.log.Warn("invalid formula",
			slog.String("scope", e.scope.Key()),
			slog.String("error", f.Error),
		)
	}

	e.cur.Formula = f

	return nil
}
