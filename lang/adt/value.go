package adt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// ValueType classifies declared types and values for type matching.
type ValueType uint8

const (
	TypeInvalid ValueType = iota
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeArray
	TypeRange
	TypeSysConst
)

var valueTypeNames = [...]string{
	TypeInvalid:  "invalid",
	TypeInt:      "int",
	TypeFloat:    "float",
	TypeString:   "str",
	TypeBool:     "bool",
	TypeArray:    "arr",
	TypeRange:    "range",
	TypeSysConst: "const",
}

func (t ValueType) String() string {
	if int(t) < len(valueTypeNames) {
		return valueTypeNames[t]
	}

	return valueTypeNames[TypeInvalid]
}

// TypeOf returns the value type named by a declared type node.
func TypeOf(spec ast.Expr) ValueType {
	switch spec := spec.(type) {
	case *ast.BuiltinType:
		switch spec.Type {
		case token.IntType:
			return TypeInt
		case token.FloatType:
			return TypeFloat
		case token.StrType:
			return TypeString
		case token.BoolType:
			return TypeBool
		case token.ArrayType:
			return TypeArray
		}

	case *ast.ArrayType:
		return TypeArray
	}

	return TypeInvalid
}

// TypeMatch reports whether a value of type v may be stored in a symbol
// declared as d.
//
// Numeric declarations accept ranges without checking the bounds. Array
// declarations accept any value regardless of their shape.
func TypeMatch(d, v ValueType) bool {
	switch d {
	case TypeFloat:
		return v == TypeFloat || v == TypeRange
	case TypeInt:
		return v == TypeInt || v == TypeRange
	case TypeString:
		return v == TypeString
	case TypeBool:
		return v == TypeBool
	case TypeArray:
		return true
	default:
		return false
	}
}

// Value is the closed set of values held by variables, parameters and
// options: [Int], [Float], [String], [Bool], [Array], [Range], [Infinity],
// [SysConst], [Ref] and [NotInit].
type Value interface {
	Type() ValueType
	String() string
	// Native returns the Go value: int64, float64, string, bool, []any,
	// or nil when unresolved.
	Native() any

	value()
}

type (
	Int      int64
	Float    float64
	String   string
	Bool     bool
	SysConst string
	Array    []Value
)

// Range is a numeric interval. Bounds are numeric values, [Infinity] or
// references.
type Range struct {
	Min Value
	Max Value
}

// Infinity is an open range bound.
type Infinity struct {
	Upper bool
}

// Ref is a reference to a variable whose value is read when resolved.
type Ref struct {
	Sym *VarSymbol
}

// NotInit marks a value taken from a variable that had no value when it was
// assigned. It is resolved by name against the scope chain on read.
type NotInit struct {
	Name     string
	Declared ValueType
}

func (Int) Type() ValueType       { return TypeInt }
func (Float) Type() ValueType     { return TypeFloat }
func (String) Type() ValueType    { return TypeString }
func (Bool) Type() ValueType      { return TypeBool }
func (SysConst) Type() ValueType  { return TypeSysConst }
func (Array) Type() ValueType     { return TypeArray }
func (Range) Type() ValueType     { return TypeRange }
func (Infinity) Type() ValueType  { return TypeFloat }
func (r Ref) Type() ValueType     { return r.Sym.Type() }
func (n NotInit) Type() ValueType { return n.Declared }

func (v Int) String() string      { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string    { return strconv.FormatFloat(float64(v), 'f', -1, 64) }
func (v String) String() string   { return string(v) }
func (v SysConst) String() string { return string(v) }
func (r Ref) String() string      { return "$" + r.Sym.Name() }
func (n NotInit) String() string  { return "$" + n.Name }

func (v Bool) String() string {
	if v {
		return token.BoolTrue
	}

	return token.BoolFalse
}

func (v Array) String() string {
	parts := make([]string, len(v))
	for i, item := range v {
		parts[i] = item.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

func (r Range) String() string {
	return "диапазон[" + r.Min.String() + ", " + r.Max.String() + "]"
}

func (Infinity) String() string { return "~" }

func (v Int) Native() any      { return int64(v) }
func (v Float) Native() any    { return float64(v) }
func (v String) Native() any   { return string(v) }
func (v Bool) Native() any     { return bool(v) }
func (v SysConst) Native() any { return string(v) }
func (NotInit) Native() any    { return nil }

func (v Array) Native() any {
	out := make([]any, len(v))
	for i, item := range v {
		out[i] = item.Native()
	}

	return out
}

func (r Range) Native() any { return []any{r.Min.Native(), r.Max.Native()} }

func (i Infinity) Native() any {
	if i.Upper {
		return math.Inf(1)
	}

	return math.Inf(-1)
}

func (r Ref) Native() any {
	v := r.Sym.Value()
	if v == nil {
		return nil
	}

	return v.Native()
}

func (Int) value()      {}
func (Float) value()    {}
func (String) value()   {}
func (Bool) value()     {}
func (SysConst) value() {}
func (Array) value()    {}
func (Range) value()    {}
func (Infinity) value() {}
func (Ref) value()      {}
func (NotInit) value()  {}

// Negate returns -v for numeric values and v otherwise.
func Negate(v Value) Value {
	switch v := v.(type) {
	case Int:
		return -v
	case Float:
		return -v
	default:
		return v
	}
}

// FromLiteral converts a literal node, ignoring its sign.
func FromLiteral(l *ast.Literal) (Value, error) {
	switch l.Type {
	case token.Int:
		n, err := strconv.ParseInt(l.Raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("int literal %q: %w", l.Raw, err)
		}

		return Int(n), nil

	case token.Float:
		f, err := strconv.ParseFloat(l.Raw, 64)
		if err != nil {
			return nil, fmt.Errorf("float literal %q: %w", l.Raw, err)
		}

		return Float(f), nil

	case token.Bool:
		return Bool(l.Raw == token.BoolTrue), nil

	case token.String:
		return String(l.Raw), nil

	default:
		return nil, fmt.Errorf("unsupported literal %s", l.Type)
	}
}

// FromNative converts decoded data (YAML or JSON) into a value. Integral
// numbers become [Int], other numbers [Float]; slices become [Array].
func FromNative(v any) (Value, error) {
	switch v := v.(type) {
	case int:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", v)
		}

		return Int(v), nil
	case float64:
		return Float(v), nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case []any:
		arr := make(Array, len(v))

		for i, item := range v {
			val, err := FromNative(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}

			arr[i] = val
		}

		return arr, nil
	default:
		return nil, fmt.Errorf("unsupported data value %v (%T)", v, v)
	}
}
