// Package compiler elaborates a parsed module into scopes and replays them
// through an [adt.Finalizer].
//
// Elaboration runs in two passes. The build pass walks the AST, creating a
// scope per block, declaring variables and parameters, binding signals to
// connections and recording use and put directives. The replay pass then
// advances every [Resolver] row by row, replaying the scopes that use its
// context after each row, and finally replays every scope that was not
// replayed by a resolver.
package compiler

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
	"github.com/Omarmeks89/edl-src/log"
)

// Compiler holds the state of one elaboration. A Compiler is not reusable
// and not safe for concurrent use.
type Compiler struct {
	log    log.Logger
	src    *diag.Source
	strict bool
	defs   map[string]adt.Value

	reg *adt.Registry
	cur *adt.Scope

	contexts  map[string]*adt.ContextScope
	listeners map[string][]*listener
	resolvers []*Resolver
	built     bool
}

// Option configures a [Compiler].
type Option func(*Compiler)

// WithLogger sets the logger. The zero [log.Logger] discards everything.
func WithLogger(l log.Logger) Option {
	return func(c *Compiler) { c.log = l }
}

// WithStrictEquipmentOptions rejects options registered twice on an
// equipment parameter.
func WithStrictEquipmentOptions(strict bool) Option {
	return func(c *Compiler) { c.strict = strict }
}

// WithDefinitions supplies module level variables, typically put sources
// decoded from a data file. A definition sets the value of a module variable
// of the same name, or declares one when the source has none.
func WithDefinitions(defs map[string]adt.Value) Option {
	return func(c *Compiler) { c.defs = defs }
}

// WithSource attaches the source text so that errors carry a trace.
func WithSource(src *diag.Source) Option {
	return func(c *Compiler) { c.src = src }
}

// New returns a Compiler.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		contexts:  make(map[string]*adt.ContextScope),
		listeners: make(map[string][]*listener),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.reg = adt.NewRegistry(adt.StrictEquipmentOptions(c.strict))

	return c
}

// Compile runs both passes over m with a new Compiler.
func Compile(m *ast.Module, f adt.Finalizer, opts ...Option) (*adt.Registry, error) {
	return New(opts...).Run(m, f)
}

// Registry returns the scope registry.
func (c *Compiler) Registry() *adt.Registry { return c.reg }

// Resolvers returns the resolvers created by put directives, in source
// order.
func (c *Compiler) Resolvers() []*Resolver { return c.resolvers }

// Run elaborates m and replays every scope through f. It returns the
// registry of scopes left active after the replay.
//
// The first error aborts the run; no registry is returned.
func (c *Compiler) Run(m *ast.Module, f adt.Finalizer) (*adt.Registry, error) {
	if err := c.Build(m); err != nil {
		return nil, err
	}

	if err := c.Replay(f); err != nil {
		return nil, err
	}

	return c.reg, nil
}

// Build runs the build pass.
func (c *Compiler) Build(m *ast.Module) error {
	if c.built {
		return diag.Runtimef("module %q already built", m.Name())
	}

	c.built = true

	return m.Accept(c)
}

// Replay runs the replay pass. Build must have succeeded before.
func (c *Compiler) Replay(f adt.Finalizer) error {
	if err := c.bindLate(); err != nil {
		return err
	}

	var replayed []*adt.Scope

	for _, r := range c.resolvers {
		name := r.Context().Name()
		ls := c.listeners[name]

		for {
			ok, err := r.Next()
			if err != nil {
				return c.fail(err, r.pos)
			}

			if !ok {
				break
			}

			c.log.Debug("context row",
				slog.String("context", name),
				slog.Int("row", r.Row()),
			)

			seen := make(map[adt.ID]bool)

			for _, l := range ls {
				if l.skip(r.Context()) {
					continue
				}

				if err := c.replay(f, l.scope, seen); err != nil {
					return err
				}

				c.log.Debug("listener replayed",
					slog.String("context", name),
					slog.String("scope", l.scope.Key()),
				)
			}
		}

		for _, l := range ls {
			replayed = append(replayed, c.reg.Subtree(l.scope)...)
		}

		delete(c.listeners, name)
	}

	for _, s := range replayed {
		if !s.Deleted() {
			c.reg.Delete(s.ID())
			c.log.Trace("scope deleted", slog.String("scope", s.Key()))
		}
	}

	for _, s := range c.reg.Active() {
		if err := c.finalize(f, s); err != nil {
			return err
		}
	}

	return nil
}

// replay finalizes s and every scope nested in it that is not in seen yet.
// A listener nested in another listener of the same context is finalized
// once per row.
func (c *Compiler) replay(f adt.Finalizer, s *adt.Scope, seen map[adt.ID]bool) error {
	for _, sc := range c.reg.Subtree(s) {
		if seen[sc.ID()] {
			continue
		}

		seen[sc.ID()] = true

		if err := c.finalize(f, sc); err != nil {
			return err
		}
	}

	return nil
}

func (c *Compiler) finalize(f adt.Finalizer, s *adt.Scope) error {
	if err := s.Accept(f); err != nil {
		return c.fail(err, s.Pos())
	}

	return nil
}

// bindLate binds listeners whose context was declared after their use
// directive.
func (c *Compiler) bindLate() error {
	for _, name := range slices.Sorted(maps.Keys(c.listeners)) {
		for _, l := range c.listeners[name] {
			if l.scope.Context() != nil {
				continue
			}

			ctx, ok := c.contexts[name]
			if !ok {
				return c.fail(diag.Directivef("context %q is not declared%s",
					name, adt.DidYouMean(name, slices.Sorted(maps.Keys(c.contexts)))), l.pos)
			}

			if err := l.scope.SetContext(ctx); err != nil {
				return c.fail(err, l.pos)
			}
		}
	}

	return nil
}

// fail attaches a trace at pos to engine errors.
func (c *Compiler) fail(err error, pos token.Pos) error {
	e, ok := diag.As(err)
	if !ok {
		return err
	}

	if e.Trace() != nil || !pos.IsValid() {
		return err
	}

	return e.WithTrace(c.src.Trace(pos.Line, pos.Column))
}

// listener is a scope replayed for each row of a context.
type listener struct {
	scope   *adt.Scope
	exclude adt.Value
	pos     token.Pos
}

// skip reports whether any context value equals an excluded value.
func (l *listener) skip(ctx *adt.ContextScope) bool {
	if l.exclude == nil {
		return false
	}

	excluded := l.scope.Resolve(l.exclude)

	candidates := adt.Array{excluded}
	if arr, ok := excluded.(adt.Array); ok {
		candidates = arr
	}

	for _, v := range ctx.Vars() {
		if !v.IsSet() {
			continue
		}

		val := l.scope.Resolve(v.Value())
		for _, x := range candidates {
			if x.Type() == val.Type() && x.String() == val.String() {
				return true
			}
		}
	}

	return false
}
