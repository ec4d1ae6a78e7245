package compiler

import (
	"log/slog"

	"github.com/Omarmeks89/edl-src/lang/adt"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/token"
	"github.com/Omarmeks89/edl-src/log"
)

// Resolver is a cursor over the rows of a put data source. Each call to
// [Resolver.Next] stores the next row into the context.
//
// The data source is read on the first call, so values assigned to it after
// the put directive are seen.
type Resolver struct {
	ctx   *adt.ContextScope
	src   *adt.VarSymbol
	scope *adt.Scope
	pos   token.Pos
	log   log.Logger

	window   bool
	from, to int
	rows     *adt.VarSymbol

	data    adt.Array
	order   []int
	cursor  int
	started bool
}

// NewResolver returns a resolver filling ctx from the array held by src.
// References in the data are resolved from scope.
func NewResolver(ctx *adt.ContextScope, src *adt.VarSymbol, scope *adt.Scope) *Resolver {
	return &Resolver{ctx: ctx, src: src, scope: scope}
}

// Context returns the context filled by the resolver.
func (r *Resolver) Context() *adt.ContextScope { return r.ctx }

// Row returns the index in the data source of the row stored last, or -1.
func (r *Resolver) Row() int {
	if r.cursor == 0 {
		return -1
	}

	return r.order[r.cursor-1]
}

// Next stores the next row into the context. It reports false once the rows
// are exhausted.
//
// The row length is checked against the context keys before anything is
// stored. Elements are then type checked and stored one by one, so a type
// error on an element leaves the elements before it stored.
func (r *Resolver) Next() (bool, error) {
	if !r.started {
		r.started = true

		if err := r.load(); err != nil {
			return false, err
		}
	}

	if r.cursor >= len(r.order) {
		return false, nil
	}

	idx := r.order[r.cursor]
	r.cursor++

	row, ok := r.data[idx].(adt.Array)
	if !ok {
		return false, diag.Directivef("row %d of $%s is %s, not an array",
			idx, r.src.Name(), r.data[idx].Type())
	}

	keys := r.ctx.Keys()
	if len(row) != len(keys) {
		return false, diag.Directivef("row %d of $%s has %d values, context %q has %d",
			idx, r.src.Name(), len(row), r.ctx.Name(), len(keys))
	}

	for i, key := range keys {
		declared := r.ctx.Lookup(key)
		if declared == nil {
			return false, diag.Runtimef("context symbol %q is not declared", key)
		}

		if !adt.TypeMatch(declared.Type(), row[i].Type()) {
			return false, diag.Typef("context %q: $%s declared %s, got %s in row %d",
				r.ctx.Name(), key, declared.Type(), row[i].Type(), idx)
		}

		if err := r.ctx.Set(key, row[i]); err != nil {
			return false, err
		}
	}

	r.log.Debug("resolver advanced",
		slog.String("context", r.ctx.Name()),
		slog.Int("row", idx),
	)

	return true, nil
}

// load reads the data source and computes the row order.
func (r *Resolver) load() error {
	if !r.src.IsSet() {
		return diag.Directivef("data source $%s has no value", r.src.Name())
	}

	data, ok := r.scope.Resolve(r.src.Value()).(adt.Array)
	if !ok {
		return diag.Directivef("data source $%s is %s, not an array of rows",
			r.src.Name(), r.src.Type())
	}

	r.data = data

	switch {
	case r.rows != nil:
		list, ok := r.scope.Resolve(r.rows.Value()).(adt.Array)
		if !ok {
			return diag.Directivef("row list $%s is not an array", r.rows.Name())
		}

		for _, v := range list {
			n, ok := v.(adt.Int)
			if !ok {
				return diag.Typef("row list $%s holds %s, want int", r.rows.Name(), v.Type())
			}

			if err := r.checkRow(int(n)); err != nil {
				return err
			}

			r.order = append(r.order, int(n))
		}

	case r.window:
		if r.from > r.to {
			return diag.Directivef("row window [%d:%d] is empty", r.from, r.to)
		}

		if err := r.checkRow(r.from); err != nil {
			return err
		}

		if err := r.checkRow(r.to); err != nil {
			return err
		}

		for i := r.from; i <= r.to; i++ {
			r.order = append(r.order, i)
		}

	default:
		for i := range data {
			r.order = append(r.order, i)
		}
	}

	return nil
}

func (r *Resolver) checkRow(n int) error {
	if n < 0 || n >= len(r.data) {
		return diag.Directivef("row %d out of range for $%s with %d rows",
			n, r.src.Name(), len(r.data))
	}

	return nil
}
