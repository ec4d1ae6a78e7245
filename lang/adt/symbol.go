package adt

import "github.com/Omarmeks89/edl-src/lang/ast"

// Symbol is the closed set of entries in a scope's symbol table:
// [*BuiltinSymbol], [*DirectiveSymbol], [*VarSymbol] and [*ScopeSymbol].
type Symbol interface {
	Name() string
	Type() ValueType

	symbol()
}

// BuiltinSymbol names a builtin type.
type BuiltinSymbol struct {
	name string
	typ  ValueType
}

// DirectiveSymbol names a directive keyword.
type DirectiveSymbol struct {
	name string
}

// ScopeSymbol makes a connection scope visible by its resolved name in the
// scope that declared it.
type ScopeSymbol struct {
	name string
	ID   ID
}

// NewScopeSymbol returns a symbol naming the scope id.
func NewScopeSymbol(name string, id ID) *ScopeSymbol {
	return &ScopeSymbol{name: name, ID: id}
}

func (s *BuiltinSymbol) Name() string    { return s.name }
func (s *BuiltinSymbol) Type() ValueType { return s.typ }
func (*BuiltinSymbol) symbol()           {}
func (s *DirectiveSymbol) Name() string  { return s.name }
func (*DirectiveSymbol) Type() ValueType { return TypeInvalid }
func (*DirectiveSymbol) symbol()         {}
func (s *ScopeSymbol) Name() string      { return s.name }
func (*ScopeSymbol) Type() ValueType     { return TypeInvalid }
func (*ScopeSymbol) symbol()             {}

// VarSymbol is a typed variable. Its value is optional; context variables
// are declared empty and filled once per data row.
type VarSymbol struct {
	name     string
	spec     ast.Expr
	typ      ValueType
	value    Value
	negative bool
}

// NewVar returns an empty variable declared with the type node spec.
func NewVar(name string, spec ast.Expr) *VarSymbol {
	return &VarSymbol{name: name, spec: spec, typ: TypeOf(spec)}
}

func (s *VarSymbol) Name() string    { return s.name }
func (s *VarSymbol) Type() ValueType { return s.typ }
func (*VarSymbol) symbol()           {}

// Spec returns the declared type node.
func (s *VarSymbol) Spec() ast.Expr { return s.spec }

// IsSet reports whether the variable holds a value.
func (s *VarSymbol) IsSet() bool { return s.value != nil }

// Value returns the held value with its sign applied, or nil.
func (s *VarSymbol) Value() Value {
	if s.value != nil && s.negative {
		return Negate(s.value)
	}

	return s.value
}

// Set replaces the held value.
func (s *VarSymbol) Set(v Value) {
	s.value = v
	s.negative = false
}

// SetSigned stores the magnitude v and applies the sign on every read.
func (s *VarSymbol) SetSigned(v Value, negative bool) {
	s.value = v
	s.negative = negative
}

// Accept calls f.FinalizeVar.
func (s *VarSymbol) Accept(f Finalizer) error { return f.FinalizeVar(s) }

var builtinSymbols = []*BuiltinSymbol{
	{name: "str", typ: TypeString},
	{name: "int", typ: TypeInt},
	{name: "float", typ: TypeFloat},
	{name: "bool", typ: TypeBool},
	{name: "arr", typ: TypeArray},
}

var directiveSymbols = []*DirectiveSymbol{
	{name: "использовать"},
	{name: "подстановка"},
	{name: "привязать"},
}
