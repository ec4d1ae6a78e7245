package adt

import (
	"strings"

	"github.com/Omarmeks89/edl-src/lang/token"
)

// ID is a handle to a scope in a [Registry]. The zero ID refers to no scope.
type ID int

// Registry owns every scope created during elaboration.
//
// Scopes are stored in an arena and addressed by [ID]; the registry index
// maps the qualified resolved name of each active scope to its handle.
// Deleting a scope removes it from the index only, so handles held by
// other scopes stay valid.
type Registry struct {
	arena  []*Scope
	active map[string]ID
	strict bool
}

// RegistryOption configures a [Registry].
type RegistryOption func(*Registry)

// StrictEquipmentOptions makes equipment parameters reject options that are
// registered twice, as signal and connection parameters always do.
func StrictEquipmentOptions(strict bool) RegistryOption {
	return func(r *Registry) { r.strict = strict }
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		arena:  []*Scope{nil},
		active: make(map[string]ID),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// QualifiedName joins the key of parent and name.
func QualifiedName(parent *Scope, name string) string {
	if parent == nil {
		return name
	}

	return parent.key + "/" + name
}

// PendingName returns name followed by the extension variables that are
// appended on read: "давление+$n". Blocks sharing a base name but not their
// pending extensions get distinct registry keys.
func PendingName(name string, ext []string) string {
	if len(ext) == 0 {
		return name
	}

	return name + "+$" + strings.Join(ext, "+$")
}

// Create registers a new scope named name inside parent. A module scope
// gets the builtin type and directive symbols.
//
// A scope already registered under the same qualified name is replaced in
// the index but stays reachable through its handle.
func (r *Registry) Create(parent *Scope, kind Kind, base, name string, pos token.Pos) *Scope {
	return r.CreateDynamic(parent, kind, base, name, nil, pos)
}

// CreateDynamic is [Registry.Create] for a scope whose name is completed on
// read by the values of the variables ext. Its key is the qualified
// [PendingName].
func (r *Registry) CreateDynamic(parent *Scope, kind Kind, base, name string, ext []string, pos token.Pos) *Scope {
	s := &Scope{
		reg:  r,
		id:   ID(len(r.arena)),
		kind: kind,
		key:  QualifiedName(parent, PendingName(name, ext)),
		pos:  pos,
		base: base,
		name: name,
		ext:  ext,
	}

	if parent != nil {
		s.parent = parent.id
		parent.children = append(parent.children, s.id)
	}

	if kind == KindModule {
		for _, sym := range builtinSymbols {
			_ = s.Declare(sym)
		}

		for _, sym := range directiveSymbols {
			_ = s.Declare(sym)
		}
	}

	r.arena = append(r.arena, s)
	r.active[s.key] = s.id

	return s
}

// Scope returns the scope with handle id, deleted or not. It returns nil
// for an unknown handle.
func (r *Registry) Scope(id ID) *Scope {
	if id <= 0 || int(id) >= len(r.arena) {
		return nil
	}

	return r.arena[id]
}

// Get returns the active scope registered under the qualified name key.
func (r *Registry) Get(key string) (*Scope, bool) {
	id, ok := r.active[key]
	if !ok {
		return nil, false
	}

	return r.arena[id], true
}

// Find returns the active scope named name inside parent.
func (r *Registry) Find(parent *Scope, name string) (*Scope, bool) {
	return r.Get(QualifiedName(parent, name))
}

// Delete removes the scope from the active index.
func (r *Registry) Delete(id ID) {
	s := r.Scope(id)
	if s == nil || s.deleted {
		return
	}

	s.deleted = true

	if r.active[s.key] == id {
		delete(r.active, s.key)
	}
}

// Active returns the active scopes in creation order.
func (r *Registry) Active() []*Scope {
	out := make([]*Scope, 0, len(r.active))

	for _, s := range r.arena[1:] {
		if !s.deleted && r.active[s.key] == s.id {
			out = append(out, s)
		}
	}

	return out
}

// Len returns the number of active scopes.
func (r *Registry) Len() int { return len(r.active) }

// Subtree returns s followed by every scope created inside it, depth first.
func (r *Registry) Subtree(s *Scope) []*Scope {
	out := []*Scope{s}
	for _, id := range s.children {
		out = append(out, r.Subtree(r.arena[id])...)
	}

	return out
}
