package ast

import "github.com/Omarmeks89/edl-src/lang/token"

// VarDecl declares one or more variables sharing a type and an optional
// initial value: "$a, $b: int = 1;".
type VarDecl struct {
	Names []string
	Type  Expr
	Value Expr
	At    token.Pos
}

func (*VarDecl) Kind() NodeKind { return KindVarDecl }

// Name returns the first declared name.
func (d *VarDecl) Name() string {
	if len(d.Names) == 0 {
		return ""
	}

	return d.Names[0]
}

func (d *VarDecl) Pos() token.Pos         { return d.At }
func (d *VarDecl) Accept(v Visitor) error { return v.VisitVarDecl(d) }
func (*VarDecl) node()                    {}

// ParamAssign assigns a typed value and options to a schema parameter:
// "Идентификатор: str = "x" статус = норма;".
type ParamAssign struct {
	Param   string
	Type    Expr
	Value   Expr
	Options []*Option
	At      token.Pos
}

func (*ParamAssign) Kind() NodeKind           { return KindParam }
func (p *ParamAssign) Name() string           { return p.Param }
func (p *ParamAssign) Pos() token.Pos         { return p.At }
func (p *ParamAssign) Accept(v Visitor) error { return v.VisitParam(p) }
func (*ParamAssign) node()                    {}

// Option is a parameter option with an optional value. Token is the option
// keyword kind: [token.SignalOpt] or [token.ConnectionOpt].
type Option struct {
	Ident string
	Value Expr
	Token token.Kind
	At    token.Pos
}

func (*Option) Kind() NodeKind           { return KindOption }
func (o *Option) Name() string           { return o.Ident }
func (o *Option) Pos() token.Pos         { return o.At }
func (o *Option) Accept(v Visitor) error { return v.VisitOption(o) }
func (*Option) node()                    {}

// UseFilter selects which rows of a context a listener is replayed for.
// With All unset and Exclude nil every row is replayed as well.
type UseFilter struct {
	Exclude Expr
	All     bool
}

// UseDirective subscribes the enclosing scope to a context:
// ".использовать ctx линейно значения все;".
type UseDirective struct {
	Dest   string
	Method string
	Filter UseFilter
	At     token.Pos
}

func (*UseDirective) Kind() NodeKind           { return KindUse }
func (d *UseDirective) Name() string           { return d.Dest }
func (d *UseDirective) Pos() token.Pos         { return d.At }
func (d *UseDirective) Accept(v Visitor) error { return v.VisitUse(d) }
func (*UseDirective) node()                    {}
func (*UseDirective) directive()               {}

// PutRule restricts the rows a put directive iterates. Either the inclusive
// window From..To is set, or Rows names an int array of row indices.
type PutRule struct {
	Rows   *VarRef
	From   int
	To     int
	Window bool
	At     token.Pos
}

// PutDirective drives a context from the rows of an array variable:
// ".подстановка в ctx из $rows;".
type PutDirective struct {
	Dest   string
	Source *VarRef
	Rule   *PutRule
	At     token.Pos
}

func (*PutDirective) Kind() NodeKind           { return KindPut }
func (d *PutDirective) Name() string           { return d.Dest }
func (d *PutDirective) Pos() token.Pos         { return d.At }
func (d *PutDirective) Accept(v Visitor) error { return v.VisitPut(d) }
func (*PutDirective) node()                    {}
func (*PutDirective) directive()               {}

// BindDirective attaches the enclosing signal to a connection:
// ".привязать conn + $n;".
type BindDirective struct {
	Target Header
	At     token.Pos
}

func (*BindDirective) Kind() NodeKind           { return KindBind }
func (d *BindDirective) Name() string           { return d.Target.Base }
func (d *BindDirective) Pos() token.Pos         { return d.At }
func (d *BindDirective) Accept(v Visitor) error { return v.VisitBind(d) }
func (*BindDirective) node()                    {}
func (*BindDirective) directive()               {}
