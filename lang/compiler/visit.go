package compiler

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
)

var _ ast.Visitor = (*Compiler)(nil)

// VisitModule creates the module scope and elaborates its contents.
func (c *Compiler) VisitModule(m *ast.Module) error {
	s, ok := c.reg.Find(nil, m.Name())
	if !ok {
		s = c.create(adt.KindModule, m.Name(), m.Name(), nil, m.Pos())
	}

	c.cur = s

	if err := visitAll(c, m.Vars); err != nil {
		return err
	}

	if err := c.define(); err != nil {
		return err
	}

	if err := visitAll(c, m.Directives); err != nil {
		return err
	}

	if err := visitAll(c, m.Connections); err != nil {
		return err
	}

	return visitAll(c, m.Blocks)
}

// VisitTemplate creates a template scope. Contexts are declared first.
func (c *Compiler) VisitTemplate(t *ast.Template) error {
	return c.enter(adt.KindTemplate, t.Header, func(*adt.Scope) error {
		if err := visitAll(c, t.Contexts); err != nil {
			return err
		}

		if err := visitAll(c, t.Vars); err != nil {
			return err
		}

		if err := visitAll(c, t.Directives); err != nil {
			return err
		}

		if err := visitAll(c, t.Connections); err != nil {
			return err
		}

		return visitAll(c, t.Blocks)
	})
}

// VisitContext declares a context owned by the current template. Context
// names are global.
func (c *Compiler) VisitContext(x *ast.Context) error {
	if _, ok := c.contexts[x.Ident]; ok {
		return c.fail(diag.Runtimef("context %q redeclared", x.Ident), x.At)
	}

	ctx := adt.NewContext(x.Ident)

	for _, d := range x.Vars {
		for _, name := range d.Names {
			v := adt.NewVar(name, d.Type)

			if d.Value != nil {
				if err := c.assign(v, d.Value); err != nil {
					return c.fail(err, d.At)
				}
			}

			if err := ctx.Declare(v); err != nil {
				return c.fail(err, d.At)
			}
		}
	}

	if err := c.cur.AddContext(ctx); err != nil {
		return c.fail(err, x.At)
	}

	c.contexts[x.Ident] = ctx

	return nil
}

// VisitObject creates an equipment scope.
func (c *Compiler) VisitObject(o *ast.Object) error {
	return c.enter(adt.KindEquipment, o.Header, func(s *adt.Scope) error {
		s.SetObject(o.Class, o.Type)

		if err := visitAll(c, o.Vars); err != nil {
			return err
		}

		if err := visitAll(c, o.Directives); err != nil {
			return err
		}

		if err := visitAll(c, o.Params); err != nil {
			return err
		}

		if err := visitAll(c, o.Connections); err != nil {
			return err
		}

		return visitAll(c, o.Blocks)
	})
}

// VisitSignal creates a signal scope.
func (c *Compiler) VisitSignal(sig *ast.Signal) error {
	return c.enter(adt.KindSignal, sig.Header, func(s *adt.Scope) error {
		s.SetSignal(sig.Type, sig.Direction)

		if err := visitAll(c, sig.Vars); err != nil {
			return err
		}

		if err := visitAll(c, sig.Directives); err != nil {
			return err
		}

		if err := visitAll(c, sig.Params); err != nil {
			return err
		}

		return visitAll(c, sig.Connections)
	})
}

// VisitConnection creates a connection scope under its fully resolved name
// and declares it in the current scope.
func (c *Compiler) VisitConnection(x *ast.Connection) error {
	name, err := c.staticName(x.Header)
	if err != nil {
		return c.fail(err, x.Header.At)
	}

	parent := c.cur
	s := c.create(adt.KindConnection, x.Header.Base, name, nil, x.Header.At)

	if err := parent.Declare(adt.NewScopeSymbol(name, s.ID())); err != nil {
		return c.fail(err, x.Header.At)
	}

	c.cur = s
	defer func() { c.cur = parent }()

	if err := visitAll(c, x.Directives); err != nil {
		return err
	}

	return visitAll(c, x.Params)
}

// VisitVarDecl declares variables in the current scope. A name visible
// anywhere in the scope chain cannot be declared again.
func (c *Compiler) VisitVarDecl(d *ast.VarDecl) error {
	for _, name := range d.Names {
		if c.cur.Lookup(name, false) != nil {
			return c.fail(diag.Runtimef("variable $%s already declared", name), d.At)
		}

		v := adt.NewVar(name, d.Type)
		if v.Type() == adt.TypeInvalid {
			return c.fail(diag.Typef("variable $%s has no valid type", name), d.Type.Pos())
		}

		if d.Value != nil {
			if err := c.assign(v, d.Value); err != nil {
				return c.fail(err, d.Value.Pos())
			}
		}

		if err := c.cur.Declare(v); err != nil {
			return c.fail(err, d.At)
		}
	}

	return nil
}

// VisitParam declares a parameter, assigns its value and registers its
// options. Parameters already holding a value are left unchanged.
func (c *Compiler) VisitParam(p *ast.ParamAssign) error {
	if _, err := c.cur.DeclareParameter(p.Param, p.Type); err != nil {
		return c.fail(err, p.At)
	}

	value, err := c.paramValue(p.Value)
	if err != nil {
		return c.fail(err, p.Value.Pos())
	}

	for _, sym := range c.cur.Param(p.Param) {
		if sym.IsSet() {
			continue
		}

		if err := sym.Assign(value); err != nil {
			return c.fail(err, p.Value.Pos())
		}

		for _, o := range p.Options {
			opt, err := c.option(o)
			if err != nil {
				return c.fail(err, o.At)
			}

			if err := sym.Register(opt); err != nil {
				return c.fail(err, o.At)
			}
		}
	}

	return nil
}

// VisitOption does nothing: options are registered with their parameter by
// VisitParam.
func (c *Compiler) VisitOption(*ast.Option) error { return nil }

// VisitUse registers the current scope as a listener of a context and binds
// the context when it is already visible.
func (c *Compiler) VisitUse(d *ast.UseDirective) error {
	l := &listener{scope: c.cur, pos: d.At}

	if d.Filter.Exclude != nil {
		v, err := c.paramValue(d.Filter.Exclude)
		if err != nil {
			return c.fail(err, d.Filter.Exclude.Pos())
		}

		l.exclude = v
	}

	c.listeners[d.Dest] = append(c.listeners[d.Dest], l)

	ctx := c.cur.LookupContext(d.Dest)
	if ctx == nil {
		return nil
	}

	if err := c.cur.SetContext(ctx); err != nil {
		return c.fail(err, d.At)
	}

	return nil
}

// VisitPut creates the resolver driving a context from a data source.
func (c *Compiler) VisitPut(d *ast.PutDirective) error {
	src, ok := c.cur.LookupVar(d.Source.Ident)
	if !ok {
		return c.fail(diag.Directivef("data source $%s is not declared%s",
			d.Source.Ident, adt.DidYouMean(d.Source.Ident, c.cur.Visible())), d.Source.At)
	}

	ctx := c.cur.LookupContext(d.Dest)
	if ctx == nil {
		ctx = c.contexts[d.Dest]
	}

	if ctx == nil {
		return c.fail(diag.Directivef("context %q is not declared%s",
			d.Dest, adt.DidYouMean(d.Dest, slices.Sorted(maps.Keys(c.contexts)))), d.At)
	}

	for _, r := range c.resolvers {
		if r.Context() == ctx {
			return c.fail(diag.Directivef("context %q already has a data source", d.Dest), d.At)
		}
	}

	r := &Resolver{
		ctx:   ctx,
		src:   src,
		scope: c.cur,
		pos:   d.At,
		log:   c.log,
	}

	if d.Rule != nil {
		r.window = d.Rule.Window
		r.from, r.to = d.Rule.From, d.Rule.To

		if d.Rule.Rows != nil {
			rows, ok := c.cur.LookupVar(d.Rule.Rows.Ident)
			if !ok {
				return c.fail(diag.Directivef("row list $%s is not declared", d.Rule.Rows.Ident), d.Rule.Rows.At)
			}

			r.rows = rows
		}
	}

	c.resolvers = append(c.resolvers, r)

	return nil
}

// VisitBind links the current signal to a connection by resolved name.
func (c *Compiler) VisitBind(d *ast.BindDirective) error {
	name, err := c.staticName(d.Target)
	if err != nil {
		return c.fail(err, d.Target.At)
	}

	sym := c.cur.Lookup(name, false)
	if sym == nil {
		return c.fail(diag.Runtimef("connection %q is not declared%s",
			name, adt.DidYouMean(name, c.cur.Visible())), d.Target.At)
	}

	ref, ok := sym.(*adt.ScopeSymbol)
	if !ok {
		if c.cur.Kind() == adt.KindSignal {
			return c.fail(diag.Directivef("%q is not a connection", name), d.Target.At)
		}

		return nil
	}

	if err := c.cur.Bind(c.reg.Scope(ref.ID)); err != nil {
		return c.fail(err, d.At)
	}

	return nil
}

// enter creates or reuses the scope for a block header, runs body with it
// as the current scope and restores the enclosing scope.
func (c *Compiler) enter(kind adt.Kind, h ast.Header, body func(*adt.Scope) error) error {
	name, ext, err := c.dynamicName(h)
	if err != nil {
		return c.fail(err, h.At)
	}

	parent := c.cur

	s, ok := c.reg.Find(parent, adt.PendingName(name, ext))
	if !ok || s.Kind() != kind {
		s = c.create(kind, h.Base, name, ext, h.At)
	}

	c.cur = s
	defer func() { c.cur = parent }()

	return body(s)
}

// create registers a new scope inside the current one.
func (c *Compiler) create(kind adt.Kind, base, name string, ext []string, pos token.Pos) *adt.Scope {
	s := c.reg.CreateDynamic(c.cur, kind, base, name, ext, pos)
	c.log.Trace("scope created",
		slog.String("kind", kind.String()),
		slog.String("scope", s.Key()),
	)

	return s
}

// define applies the definitions to the module scope in name order.
func (c *Compiler) define() error {
	for _, name := range slices.Sorted(maps.Keys(c.defs)) {
		value := c.defs[name]

		sym, ok := c.cur.Lookup(name, true).(*adt.VarSymbol)
		if !ok {
			if c.cur.Lookup(name, true) != nil {
				return diag.Runtimef("definition $%s conflicts with a builtin", name)
			}

			sym = adt.NewVar(name, specOf(value))
			if err := c.cur.Declare(sym); err != nil {
				return err
			}
		}

		if !adt.TypeMatch(sym.Type(), value.Type()) {
			return diag.Typef("definition $%s: declared %s, got %s", name, sym.Type(), value.Type())
		}

		sym.Set(value)
	}

	return nil
}

// specOf returns a type node matching v.
func specOf(v adt.Value) ast.Expr {
	k := token.ArrayType

	switch v.Type() {
	case adt.TypeInt:
		k = token.IntType
	case adt.TypeFloat:
		k = token.FloatType
	case adt.TypeString:
		k = token.StrType
	case adt.TypeBool:
		k = token.BoolType
	}

	return &ast.BuiltinType{Type: k}
}

func visitAll[T ast.Node](c *Compiler, nodes []T) error {
	for _, n := range nodes {
		if err := n.Accept(c); err != nil {
			return err
		}
	}

	return nil
}
