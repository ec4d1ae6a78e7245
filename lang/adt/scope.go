package adt

import (
	"strings"

	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// Kind is the kind of a [Scope].
type Kind uint8

const (
	KindModule Kind = iota + 1
	KindTemplate
	KindEquipment
	KindSignal
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindTemplate:
		return "template"
	case KindEquipment:
		return "equipment"
	case KindSignal:
		return "signal"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// Link is a non-owning reference from a signal to a connection scope.
type Link struct {
	Name   string
	Target ID
}

// Scope is an abstract data table: a symbol table, a parameter table, an
// optional bound context and, for templates, the contexts it owns.
//
// Scopes live in a [Registry]; the enclosing scope, bound connection and
// children are held as [ID] handles.
type Scope struct {
	reg    *Registry
	id     ID
	parent ID
	kind   Kind
	key    string
	pos    token.Pos

	base string
	name string
	ext  []string

	class     string
	typ       string
	direction string

	symbols    map[string]Symbol
	symOrder   []string
	params     map[string][]*ParamSymbol
	paramOrder []string

	ctx      *ContextScope
	contexts map[string]*ContextScope
	ctxOrder []string

	link     *Link
	children []ID
	deleted  bool
}

func (s *Scope) ID() ID            { return s.id }
func (s *Scope) Kind() Kind        { return s.kind }
func (s *Scope) Key() string       { return s.key }
func (s *Scope) Pos() token.Pos    { return s.pos }
func (s *Scope) Base() string      { return s.base }
func (s *Scope) Name() string      { return s.name }
func (s *Scope) Deleted() bool     { return s.deleted }
func (s *Scope) Link() *Link       { return s.link }
func (s *Scope) Class() string     { return s.class }
func (s *Scope) Type() string      { return s.typ }
func (s *Scope) Direction() string { return s.direction }

// Extensions returns the names of variables appended to the name on read.
func (s *Scope) Extensions() []string { return s.ext }

// SetObject records the class and type of an equipment scope.
func (s *Scope) SetObject(class, typ string) {
	s.class, s.typ = class, typ
}

// SetSignal records the type and direction of a signal scope.
func (s *Scope) SetSignal(typ, direction string) {
	s.typ, s.direction = typ, direction
}

// Parent returns the enclosing scope or nil for the module.
func (s *Scope) Parent() *Scope { return s.reg.Scope(s.parent) }

// Children returns the scopes created directly inside s.
func (s *Scope) Children() []*Scope {
	out := make([]*Scope, 0, len(s.children))
	for _, id := range s.children {
		out = append(out, s.reg.Scope(id))
	}

	return out
}

// Context returns the bound context, if any.
func (s *Scope) Context() *ContextScope { return s.ctx }

// Contexts returns the contexts owned by a template in declaration order.
func (s *Scope) Contexts() []*ContextScope {
	out := make([]*ContextScope, 0, len(s.ctxOrder))
	for _, name := range s.ctxOrder {
		out = append(out, s.contexts[name])
	}

	return out
}

// Declare adds sym to the scope's own table.
func (s *Scope) Declare(sym Symbol) error {
	name := sym.Name()
	if _, ok := s.symbols[name]; ok {
		return diag.Runtimef("symbol %q redeclared in %s %q", name, s.kind, s.name)
	}

	if s.symbols == nil {
		s.symbols = make(map[string]Symbol)
	}

	s.symbols[name] = sym
	s.symOrder = append(s.symOrder, name)

	return nil
}

// Symbols returns the own table in declaration order.
func (s *Scope) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s.symOrder))
	for _, name := range s.symOrder {
		out = append(out, s.symbols[name])
	}

	return out
}

// Vars returns the variables of the own table in declaration order.
func (s *Scope) Vars() []*VarSymbol {
	var out []*VarSymbol

	for _, name := range s.symOrder {
		if v, ok := s.symbols[name].(*VarSymbol); ok {
			out = append(out, v)
		}
	}

	return out
}

// DeclareParameter adds a new parameter symbol typed by spec. The name must
// belong to the parameter set of the scope kind.
func (s *Scope) DeclareParameter(name string, spec ast.Expr) (*ParamSymbol, error) {
	role, ok := ParamRoleOf(s.kind, name)
	if !ok {
		return nil, diag.Parameterf("parameter %q is not allowed for %s", name, s.kind)
	}

	p := &ParamSymbol{
		name:   name,
		role:   role,
		spec:   spec,
		typ:    TypeOf(spec),
		strict: s.reg.strict,
	}

	if s.params == nil {
		s.params = make(map[string][]*ParamSymbol)
	}

	if _, ok := s.params[name]; !ok {
		s.paramOrder = append(s.paramOrder, name)
	}

	s.params[name] = append(s.params[name], p)

	return p, nil
}

// Param returns the parameter symbols declared under name.
func (s *Scope) Param(name string) []*ParamSymbol { return s.params[name] }

// Params returns every parameter symbol in declaration order.
func (s *Scope) Params() []*ParamSymbol {
	var out []*ParamSymbol
	for _, name := range s.paramOrder {
		out = append(out, s.params[name]...)
	}

	return out
}

// Lookup finds a symbol by name in the own table, then the bound context,
// then, for templates, the owned contexts. Unless onlyCurrent is set the
// search continues through the enclosing scopes.
func (s *Scope) Lookup(name string, onlyCurrent bool) Symbol {
	for sc := s; sc != nil; sc = sc.Parent() {
		if sym := sc.lookupLocal(name); sym != nil {
			return sym
		}

		if onlyCurrent {
			break
		}
	}

	return nil
}

func (s *Scope) lookupLocal(name string) Symbol {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}

	if s.ctx != nil {
		if v := s.ctx.Lookup(name); v != nil {
			return v
		}
	}

	for _, ctx := range s.ctxOrder {
		if v := s.contexts[ctx].Lookup(name); v != nil {
			return v
		}
	}

	return nil
}

// LookupVar is Lookup restricted to variables.
func (s *Scope) LookupVar(name string) (*VarSymbol, bool) {
	v, ok := s.Lookup(name, false).(*VarSymbol)

	return v, ok
}

// LookupContext walks the enclosing chain for a bound or owned context
// named name.
func (s *Scope) LookupContext(name string) *ContextScope {
	for sc := s; sc != nil; sc = sc.Parent() {
		if sc.ctx != nil && sc.ctx.name == name {
			return sc.ctx
		}

		if ctx, ok := sc.contexts[name]; ok {
			return ctx
		}
	}

	return nil
}

// Visible returns the names of every symbol reachable from s.
func (s *Scope) Visible() []string {
	seen := make(map[string]bool)

	var out []string

	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	for sc := s; sc != nil; sc = sc.Parent() {
		for _, name := range sc.symOrder {
			add(name)
		}

		if sc.ctx != nil {
			for _, name := range sc.ctx.keys {
				add(name)
			}
		}

		for _, ctx := range sc.Contexts() {
			for _, name := range ctx.keys {
				add(name)
			}
		}
	}

	return out
}

// SetContext binds ctx to the scope. A scope is bound at most once.
func (s *Scope) SetContext(ctx *ContextScope) error {
	if s.ctx != nil {
		return diag.Runtimef("%s %q already bound to context %q, cannot bind %q",
			s.kind, s.name, s.ctx.name, ctx.name)
	}

	s.ctx = ctx

	return nil
}

// AddContext makes a template the owner of ctx.
func (s *Scope) AddContext(ctx *ContextScope) error {
	if s.kind != KindTemplate {
		return diag.Typef("context %q declared in %s %q", ctx.name, s.kind, s.name)
	}

	if _, ok := s.contexts[ctx.name]; ok {
		return diag.Runtimef("context %q redeclared in template %q", ctx.name, s.name)
	}

	if s.contexts == nil {
		s.contexts = make(map[string]*ContextScope)
	}

	ctx.owner = s.id
	s.contexts[ctx.name] = ctx
	s.ctxOrder = append(s.ctxOrder, ctx.name)

	return nil
}

// Bind links a signal to a connection scope. Binding a scope to itself is
// ignored.
func (s *Scope) Bind(target *Scope) error {
	if s.kind != KindSignal {
		return nil
	}

	if target.id == s.id {
		return nil
	}

	if target.kind != KindConnection {
		return diag.Directivef("signal %q cannot bind to %s %q",
			s.name, target.kind, target.name)
	}

	if s.link != nil {
		return diag.Runtimef("signal %q already bound to %q", s.name, s.link.Name)
	}

	s.link = &Link{Name: target.name, Target: target.id}

	return nil
}

// Linked returns the scope the signal is bound to, or nil.
func (s *Scope) Linked() *Scope {
	if s.link == nil {
		return nil
	}

	return s.reg.Scope(s.link.Target)
}

// Resolve follows references and unresolved placeholders to the value they
// currently stand for. Placeholders that still have no value are returned
// as is.
func (s *Scope) Resolve(v Value) Value {
	switch v := v.(type) {
	case Ref:
		if val := v.Sym.Value(); val != nil {
			return s.Resolve(val)
		}

		return NotInit{Name: v.Sym.Name(), Declared: v.Sym.Type()}

	case NotInit:
		if sym, ok := s.LookupVar(v.Name); ok && sym.IsSet() {
			return s.Resolve(sym.Value())
		}

		return v

	case Array:
		out := make(Array, len(v))
		for i, item := range v {
			out[i] = s.Resolve(item)
		}

		return out

	case Range:
		return Range{Min: s.Resolve(v.Min), Max: s.Resolve(v.Max)}

	default:
		return v
	}
}

// ResolveName returns the name with the current values of its extension
// variables appended.
func (s *Scope) ResolveName() (string, error) {
	if len(s.ext) == 0 {
		return s.name, nil
	}

	var sb strings.Builder

	sb.WriteString(s.name)

	for _, ext := range s.ext {
		sym, ok := s.LookupVar(ext)
		if !ok || !sym.IsSet() {
			return "", diag.Runtimef("name extension $%s of %s %q is not resolved",
				ext, s.kind, s.name)
		}

		sb.WriteString(s.Resolve(sym.Value()).String())
	}

	return sb.String(), nil
}

// Accept calls the method of f for the scope kind.
func (s *Scope) Accept(f Finalizer) error {
	switch s.kind {
	case KindModule:
		return f.FinalizeModule(s)
	case KindTemplate:
		return f.FinalizeTemplate(s)
	case KindEquipment:
		return f.FinalizeEquipment(s)
	case KindSignal:
		return f.FinalizeSignal(s)
	case KindConnection:
		return f.FinalizeConnection(s)
	default:
		return diag.Runtimef("unknown scope kind %d", s.kind)
	}
}

// ContextScope is a named flat table of variables filled once per data row.
type ContextScope struct {
	name  string
	owner ID
	keys  []string
	vars  map[string]*VarSymbol
}

// NewContext returns an empty context.
func NewContext(name string) *ContextScope {
	return &ContextScope{name: name, vars: make(map[string]*VarSymbol)}
}

func (c *ContextScope) Name() string { return c.name }
func (c *ContextScope) Owner() ID    { return c.owner }

// Keys returns the variable names in declaration order.
func (c *ContextScope) Keys() []string { return c.keys }

// Declare adds an empty variable.
func (c *ContextScope) Declare(v *VarSymbol) error {
	if _, ok := c.vars[v.name]; ok {
		return diag.Runtimef("symbol %q redeclared in context %q", v.name, c.name)
	}

	c.vars[v.name] = v
	c.keys = append(c.keys, v.name)

	return nil
}

// Lookup returns the variable named name or nil.
func (c *ContextScope) Lookup(name string) *VarSymbol { return c.vars[name] }

// Vars returns the variables in declaration order.
func (c *ContextScope) Vars() []*VarSymbol {
	out := make([]*VarSymbol, len(c.keys))
	for i, k := range c.keys {
		out[i] = c.vars[k]
	}

	return out
}

// Set stores v in the variable named name.
func (c *ContextScope) Set(name string, v Value) error {
	sym, ok := c.vars[name]
	if !ok {
		return diag.Runtimef("symbol %q is not declared in context %q", name, c.name)
	}

	sym.Set(v)

	return nil
}

// Accept calls f.FinalizeContext.
func (c *ContextScope) Accept(f Finalizer) error { return f.FinalizeContext(c) }
