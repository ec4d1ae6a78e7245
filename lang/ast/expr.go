package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/Omarmeks89/edl-src/lang/token"
)

// BuiltinType is a scalar type name or an unshaped "arr".
type BuiltinType struct {
	Type token.Kind
	At   token.Pos
}

func (*BuiltinType) Kind() NodeKind   { return KindBuiltinType }
func (t *BuiltinType) Pos() token.Pos { return t.At }
func (*BuiltinType) expr()            {}

func (t *BuiltinType) String() string {
	switch t.Type {
	case token.StrType:
		return "str"
	case token.IntType:
		return "int"
	case token.FloatType:
		return "float"
	case token.BoolType:
		return "bool"
	case token.ArrayType:
		return "arr"
	default:
		return t.Type.String()
	}
}

// ArrayType is a shaped array specification. Elems holds [BuiltinType] and
// nested [ArrayType] elements (a nested element is written "[...]" without
// the "arr" prefix). Variadic marks a trailing "..", Size a ":N" suffix.
type ArrayType struct {
	Elems    []Expr
	Size     int
	Variadic bool
	Nested   bool
	At       token.Pos
}

func (*ArrayType) Kind() NodeKind   { return KindArrayType }
func (t *ArrayType) Pos() token.Pos { return t.At }
func (*ArrayType) expr()            {}

func (t *ArrayType) String() string {
	var sb strings.Builder

	if !t.Nested {
		sb.WriteString("arr")
	}

	sb.WriteByte('[')

	for i, e := range t.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(e.String())
	}

	switch {
	case t.Variadic:
		sb.WriteString("..")
	case t.Size > 0:
		sb.WriteByte(':')
		sb.WriteString(strconv.Itoa(t.Size))
	}

	sb.WriteByte(']')

	return sb.String()
}

// Literal is a scalar constant. Type is one of [token.Int], [token.Float],
// [token.String] or [token.Bool]. Negative records a leading minus that is
// applied when the value is read.
type Literal struct {
	Raw      string
	Type     token.Kind
	Negative bool
	At       token.Pos
}

func (*Literal) Kind() NodeKind   { return KindLiteral }
func (l *Literal) Pos() token.Pos { return l.At }
func (*Literal) expr()            {}

func (l *Literal) String() string {
	switch l.Type {
	case token.String:
		return strconv.Quote(l.Raw)
	case token.Int, token.Float:
		if l.Negative {
			return "-" + l.Raw
		}
	}

	return l.Raw
}

// Int returns the value of an int literal with its sign applied.
func (l *Literal) Int() (int64, error) {
	n, err := strconv.ParseInt(l.Raw, 10, 64)
	if l.Negative {
		n = -n
	}

	return n, err
}

// Float returns the numeric value of an int or float literal with its sign
// applied.
func (l *Literal) Float() (float64, error) {
	f, err := strconv.ParseFloat(l.Raw, 64)
	if l.Negative {
		f = -f
	}

	return f, err
}

// Bool returns the value of a boolean literal.
func (l *Literal) Bool() bool { return l.Raw == token.BoolTrue }

// Native returns the Go value of the literal: int64, float64, string or bool.
// Malformed numbers yield NaN or zero.
func (l *Literal) Native() any {
	switch l.Type {
	case token.Int:
		n, err := l.Int()
		if err != nil {
			return l.Raw
		}

		return n

	case token.Float:
		f, err := l.Float()
		if err != nil {
			return math.NaN()
		}

		return f

	case token.Bool:
		return l.Bool()

	default:
		return l.Raw
	}
}

// ArrayLit is a bracketed list of values.
type ArrayLit struct {
	Items []Expr
	At    token.Pos
}

func (*ArrayLit) Kind() NodeKind   { return KindArray }
func (a *ArrayLit) Pos() token.Pos { return a.At }
func (*ArrayLit) expr()            {}

func (a *ArrayLit) String() string {
	parts := make([]string, len(a.Items))
	for i, item := range a.Items {
		parts[i] = item.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// VarRef references a variable by name (without the "$" sigil).
type VarRef struct {
	Ident string
	At    token.Pos
}

func (*VarRef) Kind() NodeKind   { return KindVarRef }
func (r *VarRef) Pos() token.Pos { return r.At }
func (r *VarRef) String() string { return "$" + r.Ident }
func (*VarRef) expr()            {}

// Range is "диапазон[min, max]". Each bound is a [Literal], a [VarRef] or
// a [Tilde].
type Range struct {
	Min Expr
	Max Expr
	At  token.Pos
}

func (*Range) Kind() NodeKind   { return KindRange }
func (r *Range) Pos() token.Pos { return r.At }
func (*Range) expr()            {}

func (r *Range) String() string {
	return "диапазон[" + r.Min.String() + ", " + r.Max.String() + "]"
}

// Tilde is an open range bound: -Inf as minimum, +Inf as maximum.
type Tilde struct {
	Upper bool
	At    token.Pos
}

func (*Tilde) Kind() NodeKind   { return KindTilde }
func (t *Tilde) Pos() token.Pos { return t.At }
func (*Tilde) String() string   { return "~" }
func (*Tilde) expr()            {}

// Value returns the infinite bound the tilde stands for.
func (t *Tilde) Value() float64 {
	if t.Upper {
		return math.Inf(1)
	}

	return math.Inf(-1)
}

// SysConst is a system status constant such as "норма".
type SysConst struct {
	Ident string
	At    token.Pos
}

func (*SysConst) Kind() NodeKind   { return KindSysConst }
func (c *SysConst) Pos() token.Pos { return c.At }
func (c *SysConst) String() string { return c.Ident }
func (*SysConst) expr()            {}

// DynamicName is a variable initializer "(base + $a + $b)" whose value is
// the resolved name.
type DynamicName struct {
	Header Header
}

func (*DynamicName) Kind() NodeKind   { return KindDynamicName }
func (d *DynamicName) Pos() token.Pos { return d.Header.At }
func (d *DynamicName) String() string { return "(" + d.Header.String() + ")" }
func (*DynamicName) expr()            {}
