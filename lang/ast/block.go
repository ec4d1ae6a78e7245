package ast

import "github.com/Omarmeks89/edl-src/lang/token"

// Module is the root of a parsed source.
type Module struct {
	Source      string
	Vars        []*VarDecl
	Directives  []Directive
	Connections []*Connection
	Blocks      []Block
}

func (*Module) Kind() NodeKind           { return KindModule }
func (m *Module) Name() string           { return m.Source }
func (*Module) Pos() token.Pos           { return token.Pos{Line: 1, Column: 1} }
func (m *Module) Accept(v Visitor) error { return v.VisitModule(m) }
func (*Module) node()                    {}

// Template is a reusable block expanded once per row of its contexts.
type Template struct {
	Header      Header
	Contexts    []*Context
	Vars        []*VarDecl
	Directives  []Directive
	Connections []*Connection
	Blocks      []Block
}

func (*Template) Kind() NodeKind           { return KindTemplate }
func (t *Template) Name() string           { return t.Header.Base }
func (t *Template) Pos() token.Pos         { return t.Header.At }
func (t *Template) Accept(v Visitor) error { return v.VisitTemplate(t) }
func (*Template) node()                    {}
func (*Template) block()                   {}

// Context is a named set of substitution variables owned by a template.
type Context struct {
	Ident string
	Vars  []*VarDecl
	At    token.Pos
}

func (*Context) Kind() NodeKind           { return KindContext }
func (c *Context) Name() string           { return c.Ident }
func (c *Context) Pos() token.Pos         { return c.At }
func (c *Context) Accept(v Visitor) error { return v.VisitContext(c) }
func (*Context) node()                    {}

// Object is an equipment declaration.
type Object struct {
	Class       string
	Type        string
	Header      Header
	Vars        []*VarDecl
	Directives  []Directive
	Params      []*ParamAssign
	Connections []*Connection
	Blocks      []Block
}

func (*Object) Kind() NodeKind           { return KindObject }
func (o *Object) Name() string           { return o.Header.Base }
func (o *Object) Pos() token.Pos         { return o.Header.At }
func (o *Object) Accept(v Visitor) error { return v.VisitObject(o) }
func (*Object) node()                    {}
func (*Object) block()                   {}

// Signal is an input or output data point.
type Signal struct {
	Direction   string
	Type        string
	Header      Header
	Vars        []*VarDecl
	Params      []*ParamAssign
	Directives  []Directive
	Connections []*Connection
}

func (*Signal) Kind() NodeKind           { return KindSignal }
func (s *Signal) Name() string           { return s.Header.Base }
func (s *Signal) Pos() token.Pos         { return s.Header.At }
func (s *Signal) Accept(v Visitor) error { return v.VisitSignal(s) }
func (*Signal) node()                    {}
func (*Signal) block()                   {}

// Connection is an addressable channel signals bind to.
type Connection struct {
	Header     Header
	Params     []*ParamAssign
	Directives []Directive
}

func (*Connection) Kind() NodeKind           { return KindConnection }
func (c *Connection) Name() string           { return c.Header.Base }
func (c *Connection) Pos() token.Pos         { return c.Header.At }
func (c *Connection) Accept(v Visitor) error { return v.VisitConnection(c) }
func (*Connection) node()                    {}
func (*Connection) block()                   {}
