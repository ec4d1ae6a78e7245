// Package emit turns elaborated scopes into plain instance snapshots.
//
// An [Emitter] is an [adt.Finalizer]: pass it to [compiler.Compile] and read
// the result with [Emitter.Instances]. Every replay of a scope produces one
// [Instance], so a template signal driven by a context of three rows yields
// three instances carrying the row values that were current when it was
// replayed.
//
// [compiler.Compile]: github.com/Omarmeks89/edl-src/lang/compiler.Compile
package emit

import (
	"log/slog"
	"slices"

	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/log"
)

// Instance is the snapshot of one replayed scope.
type Instance struct {
	Kind      string    `json:"kind"                yaml:"kind"`
	Name      string    `json:"name"                yaml:"name"`
	Base      string    `json:"base,omitempty"      yaml:"base,omitempty"`
	Key       string    `json:"key"                 yaml:"key"`
	Class     string    `json:"class,omitempty"     yaml:"class,omitempty"`
	Type      string    `json:"type,omitempty"      yaml:"type,omitempty"`
	Direction string    `json:"direction,omitempty" yaml:"direction,omitempty"`
	Params    []Param   `json:"params,omitempty"    yaml:"params,omitempty"`
	Vars      []Var     `json:"vars,omitempty"      yaml:"vars,omitempty"`
	Context   *Context  `json:"context,omitempty"   yaml:"context,omitempty"`
	Contexts  []Context `json:"contexts,omitempty"  yaml:"contexts,omitempty"`
	Link      *Link     `json:"link,omitempty"      yaml:"link,omitempty"`
	Formula   *Formula  `json:"formula,omitempty"   yaml:"formula,omitempty"`
}

// Param is an assigned parameter.
type Param struct {
	Name    string   `json:"name"              yaml:"name"`
	Role    string   `json:"role"              yaml:"role"`
	Type    string   `json:"type"              yaml:"type"`
	Value   any      `json:"value"             yaml:"value"`
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option is a parameter option. Value is nil for a bare keyword.
type Option struct {
	Name  string `json:"name"            yaml:"name"`
	Role  string `json:"role"            yaml:"role"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// Var is a variable with its value at the time of the snapshot.
type Var struct {
	Name  string `json:"name"  yaml:"name"`
	Type  string `json:"type"  yaml:"type"`
	Value any    `json:"value" yaml:"value"`
}

// Context is a context and the values of its current row.
type Context struct {
	Name   string `json:"name"   yaml:"name"`
	Values []Var  `json:"values" yaml:"values"`
}

// Link names the connection a signal is bound to.
type Link struct {
	Name string `json:"name"          yaml:"name"`
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
}

// Emitter collects instances. It is not safe for concurrent use.
type Emitter struct {
	log    log.Logger
	strict bool

	instances []Instance

	scope *adt.Scope
	cur   *Instance
	vars  *[]Var
	opts  *[]Option
	ctxs  *[]Context
}

// EmitterOption configures an [Emitter].
type EmitterOption func(*Emitter)

// WithLogger sets the logger. The zero [log.Logger] discards everything.
func WithLogger(l log.Logger) EmitterOption {
	return func(e *Emitter) { e.log = l }
}

// WithStrictFormulas turns a formula that does not parse into an error.
// Otherwise the parse error is recorded in [Formula.Error].
func WithStrictFormulas(strict bool) EmitterOption {
	return func(e *Emitter) { e.strict = strict }
}

// New returns an Emitter.
func New(opts ...EmitterOption) *Emitter {
	e := &Emitter{}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Instances returns the instances in replay order.
func (e *Emitter) Instances() []Instance { return e.instances }

// Reset drops the collected instances.
func (e *Emitter) Reset() { e.instances = nil }

func (e *Emitter) FinalizeModule(s *adt.Scope) error { return e.emit(s, nil) }

func (e *Emitter) FinalizeTemplate(s *adt.Scope) error {
	return e.emit(s, func(in *Instance) error {
		e.ctxs = &in.Contexts

		for _, ctx := range s.Contexts() {
			if err := ctx.Accept(e); err != nil {
				return err
			}
		}

		return nil
	})
}

func (e *Emitter) FinalizeEquipment(s *adt.Scope) error { return e.emit(s, nil) }

func (e *Emitter) FinalizeSignal(s *adt.Scope) error {
	return e.emit(s, func(in *Instance) error {
		l := s.Link()
		if l == nil {
			return nil
		}

		in.Link = &Link{Name: l.Name}
		if target := s.Linked(); target != nil {
			in.Link.Key = target.Key()
		}

		return nil
	})
}

func (e *Emitter) FinalizeConnection(s *adt.Scope) error { return e.emit(s, nil) }

// FinalizeContext records the context with the current values of its
// variables.
func (e *Emitter) FinalizeContext(c *adt.ContextScope) error {
	snap := Context{Name: c.Name(), Values: []Var{}}

	saved := e.vars
	e.vars = &snap.Values

	defer func() { e.vars = saved }()

	for _, v := range c.Vars() {
		if err := v.Accept(e); err != nil {
			return err
		}
	}

	*e.ctxs = append(*e.ctxs, snap)

	return nil
}

// FinalizeParam records an assigned parameter and its options.
func (e *Emitter) FinalizeParam(p *adt.ParamSymbol) error {
	if !p.IsSet() {
		return nil
	}

	param := Param{
		Name:  p.Name(),
		Role:  p.Role().String(),
		Type:  p.Type().String(),
		Value: e.value(p.Name(), p.Value()),
	}

	e.opts = &param.Options

	for _, o := range p.Options() {
		if err := o.Accept(e); err != nil {
			return err
		}
	}

	e.opts = nil

	if p.Role() == adt.RoleSignalFormula {
		if err := e.formula(p, param.Value); err != nil {
			return err
		}
	}

	e.cur.Params = append(e.cur.Params, param)

	return nil
}

func (e *Emitter) FinalizeOption(o *adt.Option) error {
	*e.opts = append(*e.opts, Option{
		Name:  o.Name(),
		Role:  o.Role().String(),
		Value: e.value(o.Name(), o.Value()),
	})

	return nil
}

func (e *Emitter) FinalizeVar(v *adt.VarSymbol) error {
	*e.vars = append(*e.vars, Var{
		Name:  v.Name(),
		Type:  v.Type().String(),
		Value: e.value(v.Name(), v.Value()),
	})

	return nil
}

// emit snapshots the common part of s, then lets extra add what is
// specific to its kind.
func (e *Emitter) emit(s *adt.Scope, extra func(*Instance) error) error {
	name, err := s.ResolveName()
	if err != nil {
		return err
	}

	in := Instance{
		Kind:      s.Kind().String(),
		Name:      name,
		Key:       s.Key(),
		Class:     s.Class(),
		Type:      s.Type(),
		Direction: s.Direction(),
	}

	if len(s.Extensions()) > 0 {
		in.Base = s.Base()
	}

	e.scope, e.cur = s, &in
	e.vars = &in.Vars

	defer func() { e.scope, e.cur, e.vars, e.ctxs = nil, nil, nil, nil }()

	for _, v := range s.Vars() {
		if err := v.Accept(e); err != nil {
			return err
		}
	}

	for _, p := range s.Params() {
		if err := p.Accept(e); err != nil {
			return err
		}
	}

	if ctx := s.Context(); ctx != nil {
		var bound []Context

		e.ctxs = &bound
		if err := ctx.Accept(e); err != nil {
			return err
		}

		in.Context = &bound[0]
	}

	if extra != nil {
		if err := extra(&in); err != nil {
			return err
		}
	}

	e.instances = append(e.instances, in)

	e.log.Trace("instance emitted",
		slog.String("kind", in.Kind),
		slog.String("name", in.Name),
	)

	return nil
}

// value resolves v against the current scope and converts it to a plain Go
// value. Placeholders that are still unresolved become nil.
func (e *Emitter) value(name string, v adt.Value) any {
	if v == nil {
		return nil
	}

	v = e.scope.Resolve(v)

	if unresolved(v) {
		e.log.Warn("unresolved value emitted as null",
			slog.String("scope", e.scope.Key()),
			slog.String("symbol", name),
			slog.String("value", v.String()),
		)
	}

	return v.Native()
}

func unresolved(v adt.Value) bool {
	switch v := v.(type) {
	case adt.NotInit:
		return true
	case adt.Array:
		return slices.ContainsFunc(v, unresolved)
	case adt.Range:
		return unresolved(v.Min) || unresolved(v.Max)
	default:
		return false
	}
}
