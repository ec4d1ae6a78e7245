package compiler

import (
	"strings"

	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/diag"
)

// assign evaluates e and stores it in v after a type check. The sign of a
// numeric literal is kept apart from its magnitude.
func (c *Compiler) assign(v *adt.VarSymbol, e ast.Expr) error {
	if l, ok := e.(*ast.Literal); ok {
		val, err := adt.FromLiteral(l)
		if err != nil {
			return diag.Typef("variable $%s", v.Name()).Wrap(err)
		}

		if !adt.TypeMatch(v.Type(), val.Type()) {
			return diag.Typef("variable $%s declared %s, got %s", v.Name(), v.Type(), val.Type())
		}

		v.SetSigned(val, l.Negative)

		return nil
	}

	val, err := c.value(e)
	if err != nil {
		return err
	}

	if !adt.TypeMatch(v.Type(), val.Type()) {
		return diag.Typef("variable $%s declared %s, got %s", v.Name(), v.Type(), val.Type())
	}

	v.Set(val)

	return nil
}

// paramValue evaluates a parameter or option value. A variable without a
// value yet becomes a placeholder resolved on replay.
func (c *Compiler) paramValue(e ast.Expr) (adt.Value, error) {
	ref, ok := e.(*ast.VarRef)
	if !ok {
		return c.value(e)
	}

	sym, err := c.variable(ref)
	if err != nil {
		return nil, err
	}

	if !sym.IsSet() {
		return adt.NotInit{Name: sym.Name(), Declared: sym.Type()}, nil
	}

	return adt.Ref{Sym: sym}, nil
}

// option specializes an option node.
func (c *Compiler) option(o *ast.Option) (*adt.Option, error) {
	if o.Value == nil {
		return adt.NewOption(o.Ident, o.Token, nil), nil
	}

	v, err := c.paramValue(o.Value)
	if err != nil {
		return nil, err
	}

	return adt.NewOption(o.Ident, o.Token, v), nil
}

// value converts a value node. Variable references become [adt.Ref] and
// are read on use.
func (c *Compiler) value(e ast.Expr) (adt.Value, error) {
	switch e := e.(type) {
	case *ast.Literal:
		v, err := adt.FromLiteral(e)
		if err != nil {
			return nil, diag.Typef("invalid literal").Wrap(err)
		}

		if e.Negative {
			v = adt.Negate(v)
		}

		return v, nil

	case *ast.VarRef:
		sym, err := c.variable(e)
		if err != nil {
			return nil, err
		}

		return adt.Ref{Sym: sym}, nil

	case *ast.ArrayLit:
		arr := make(adt.Array, 0, len(e.Items))

		for _, item := range e.Items {
			v, err := c.value(item)
			if err != nil {
				return nil, err
			}

			arr = append(arr, v)
		}

		return arr, nil

	case *ast.Range:
		lo, err := c.bound(e.Min)
		if err != nil {
			return nil, err
		}

		hi, err := c.bound(e.Max)
		if err != nil {
			return nil, err
		}

		return adt.Range{Min: lo, Max: hi}, nil

	case *ast.SysConst:
		return adt.SysConst(e.Ident), nil

	case *ast.DynamicName:
		name, err := c.staticName(e.Header)
		if err != nil {
			return nil, err
		}

		return adt.String(name), nil

	default:
		return nil, diag.Typef("unexpected %s where a value is expected", e.Kind())
	}
}

// bound converts a range bound.
func (c *Compiler) bound(e ast.Expr) (adt.Value, error) {
	switch e := e.(type) {
	case *ast.Tilde:
		return adt.Infinity{Upper: e.Upper}, nil

	case *ast.VarRef:
		return c.paramValue(e)

	default:
		v, err := c.value(e)
		if err != nil {
			return nil, err
		}

		if t := v.Type(); t != adt.TypeInt && t != adt.TypeFloat {
			return nil, diag.Typef("range bound must be numeric, got %s", t)
		}

		return v, nil
	}
}

// variable looks up a variable referenced from the current scope.
func (c *Compiler) variable(ref *ast.VarRef) (*adt.VarSymbol, error) {
	sym := c.cur.Lookup(ref.Ident, false)
	if sym == nil {
		return nil, diag.Runtimef("variable $%s is not declared%s",
			ref.Ident, adt.DidYouMean(ref.Ident, c.cur.Visible()))
	}

	v, ok := sym.(*adt.VarSymbol)
	if !ok {
		return nil, diag.Typef("$%s is not a variable", ref.Ident)
	}

	return v, nil
}

// dynamicName appends the values of the extension variables that already
// hold one to the base name. From the first variable without a value on,
// names are returned to be appended on read.
func (c *Compiler) dynamicName(h ast.Header) (string, []string, error) {
	var (
		sb  strings.Builder
		ext []string
	)

	sb.WriteString(h.Base)

	for _, ref := range h.Ext {
		sym, err := c.variable(ref)
		if err != nil {
			return "", nil, err
		}

		if !sym.IsSet() || len(ext) > 0 {
			ext = append(ext, sym.Name())

			continue
		}

		sb.WriteString(c.cur.Resolve(sym.Value()).String())
	}

	return sb.String(), ext, nil
}

// staticName resolves a name whose extensions must all hold a value now.
func (c *Compiler) staticName(h ast.Header) (string, error) {
	var sb strings.Builder

	sb.WriteString(h.Base)

	for _, ref := range h.Ext {
		sym, err := c.variable(ref)
		if err != nil {
			return "", err
		}

		if !sym.IsSet() {
			return "", diag.Runtimef(
				"name extension $%s cannot be resolved from a context", sym.Name())
		}

		sb.WriteString(c.cur.Resolve(sym.Value()).String())
	}

	return sb.String(), nil
}
