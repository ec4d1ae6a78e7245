// Package ast defines the syntax tree produced by the parser.
//
// Statement and block nodes implement [Node] and dispatch to a [Visitor]
// through Accept. Values and type specifications implement [Expr] and are
// consumed with exhaustive type switches. Both sets are closed: only this
// package can add variants.
package ast

import (
	"strings"

	"github.com/Omarmeks89/edl-src/lang/token"
)

// NodeKind tags every node and expression variant.
type NodeKind uint8

const (
	KindModule NodeKind = iota + 1
	KindTemplate
	KindContext
	KindObject
	KindSignal
	KindConnection
	KindVarDecl
	KindParam
	KindOption
	KindUse
	KindPut
	KindBind
	KindBuiltinType
	KindArrayType
	KindLiteral
	KindArray
	KindVarRef
	KindRange
	KindTilde
	KindSysConst
	KindDynamicName
)

var nodeKindNames = map[NodeKind]string{
	KindModule:      "module",
	KindTemplate:    "template",
	KindContext:     "context",
	KindObject:      "object",
	KindSignal:      "signal",
	KindConnection:  "connection",
	KindVarDecl:     "var",
	KindParam:       "param",
	KindOption:      "option",
	KindUse:         "use",
	KindPut:         "put",
	KindBind:        "bind",
	KindBuiltinType: "type",
	KindArrayType:   "array_type",
	KindLiteral:     "literal",
	KindArray:       "array",
	KindVarRef:      "var_ref",
	KindRange:       "range",
	KindTilde:       "tilde",
	KindSysConst:    "sys_const",
	KindDynamicName: "dynamic_name",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}

	return "unknown"
}

// NodeKinds returns the names of the block and statement kinds in
// declaration order.
func NodeKinds() []string {
	out := make([]string, 0, KindBind)
	for k := KindModule; k <= KindBind; k++ {
		out = append(out, k.String())
	}

	return out
}

// ParseNodeKind returns the block or statement kind named s.
func ParseNodeKind(s string) (NodeKind, bool) {
	for k := KindModule; k <= KindBind; k++ {
		if nodeKindNames[k] == s {
			return k, true
		}
	}

	return 0, false
}

// Node is a block or statement of the syntax tree.
type Node interface {
	Kind() NodeKind
	Name() string
	Pos() token.Pos
	Accept(v Visitor) error

	node()
}

// Block is a node that opens a scope when elaborated.
type Block interface {
	Node

	block()
}

// Directive is a use, put or bind statement.
type Directive interface {
	Node

	directive()
}

// Expr is a value or type specification.
type Expr interface {
	Kind() NodeKind
	Pos() token.Pos
	String() string

	expr()
}

// Header is the name part of a block header: a base identifier optionally
// extended with variable references joined by "+".
type Header struct {
	Base string
	Ext  []*VarRef
	At   token.Pos
}

// IsDynamic reports whether the name depends on variable values.
func (h Header) IsDynamic() bool { return len(h.Ext) > 0 }

func (h Header) String() string {
	var sb strings.Builder

	sb.WriteString(h.Base)

	for _, ref := range h.Ext {
		sb.WriteString(" + ")
		sb.WriteString(ref.String())
	}

	return sb.String()
}
