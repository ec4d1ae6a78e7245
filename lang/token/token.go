// Package token defines the lexical vocabulary of the equipment description
// language: token kinds, the keyword table and source positions.
package token

import (
	"fmt"
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind uint8

const (
	Illegal Kind = iota
	EOF

	// Punctuation.
	VarSigil  // $
	Point     // .
	Ellipsis  // ..
	Semicolon // ;
	Colon     // :
	Comma     // ,
	Concat    // +
	Minus     // -
	Assign    // =
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	LParen    // (
	RParen    // )
	Junction  // <-
	Tilde     // ~

	// Literals and names.
	Ident
	Int
	Float
	String
	Bool

	// Structural keywords.
	ObjectClass
	ObjectType
	TemplateKw
	ContextKw
	ConnectionKw
	ConnectionOpt
	SignalKw
	SignalOpt
	SignalDirection
	SignalType
	UseKw
	UseMethod
	ValuesKw
	ExcludeKw
	AllKw
	PutKw
	RuleKw
	InKw
	FromKw
	RangeKw
	It
	SysConst
	BindKw

	// Builtin type names.
	StrType
	IntType
	FloatType
	BoolType
	ArrayType

	numKinds
)

var kindNames = [numKinds]string{
	Illegal:         "ILLEGAL",
	EOF:             "EOF",
	VarSigil:        "$",
	Point:           ".",
	Ellipsis:        "..",
	Semicolon:       ";",
	Colon:           ":",
	Comma:           ",",
	Concat:          "+",
	Minus:           "-",
	Assign:          "=",
	LBrace:          "{",
	RBrace:          "}",
	LBracket:        "[",
	RBracket:        "]",
	LParen:          "(",
	RParen:          ")",
	Junction:        "<-",
	Tilde:           "~",
	Ident:           "IDENT",
	Int:             "INT",
	Float:           "FLOAT",
	String:          "STRING",
	Bool:            "BOOL",
	ObjectClass:     "OBJ_CLASS",
	ObjectType:      "OBJ_TYPE",
	TemplateKw:      "TEMPLATE",
	ContextKw:       "CONTEXT",
	ConnectionKw:    "CONNECTION",
	ConnectionOpt:   "CONN_OPT",
	SignalKw:        "SIGNAL",
	SignalOpt:       "SIGN_OPT",
	SignalDirection: "SIGN_DIRECT",
	SignalType:      "SIGN_TYPE",
	UseKw:           "USE",
	UseMethod:       "USE_METHOD",
	ValuesKw:        "VALUES",
	ExcludeKw:       "EXCLUDE",
	AllKw:           "ALL",
	PutKw:           "PUT",
	RuleKw:          "RULE",
	InKw:            "IN",
	FromKw:          "FROM",
	RangeKw:         "RANGE",
	It:              "IT",
	SysConst:        "S_CONST",
	BindKw:          "BIND",
	StrType:         "STR_CONST",
	IntType:         "INT_CONST",
	FloatType:       "FLOAT_CONST",
	BoolType:        "BOOL_CONST",
	ArrayType:       "ARRAY_CONST",
}

func (k Kind) String() string {
	if k < numKinds && kindNames[k] != "" {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsBuiltinType reports whether k names one of the builtin value types.
func (k Kind) IsBuiltinType() bool {
	return k >= StrType && k <= ArrayType
}

// IsScalarType reports whether k names a builtin type that an array type
// specification may list as an element.
func (k Kind) IsScalarType() bool {
	return k >= StrType && k <= BoolType
}

// IsOption reports whether k introduces a parameter option.
func (k Kind) IsOption() bool {
	return k == SignalOpt || k == ConnectionOpt
}

// Pos is a 1-based line and column (in runes) within a source.
type Pos struct {
	Filename string
	Line     int
	Column   int
}

func (p Pos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}

	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// IsValid reports whether p refers to an actual source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

// Token is an immutable lexeme with its kind and position.
type Token struct {
	Lexeme string
	Kind   Kind
	Pos    Pos
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case String:
		return strconv.Quote(t.Lexeme)
	}

	if t.Lexeme == t.Kind.String() {
		return t.Lexeme
	}

	return t.Kind.String() + "(" + t.Lexeme + ")"
}

// Is reports whether t has any of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	for _, k := range kinds {
		if t.Kind == k {
			return true
		}
	}

	return false
}
