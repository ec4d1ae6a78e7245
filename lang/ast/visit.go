package ast

// Visitor handles every [Node] variant. Accept on a node calls the matching
// method; visiting children is up to the visitor.
type Visitor interface {
	VisitModule(*Module) error
	VisitTemplate(*Template) error
	VisitContext(*Context) error
	VisitObject(*Object) error
	VisitSignal(*Signal) error
	VisitConnection(*Connection) error
	VisitVarDecl(*VarDecl) error
	VisitParam(*ParamAssign) error
	VisitOption(*Option) error
	VisitUse(*UseDirective) error
	VisitPut(*PutDirective) error
	VisitBind(*BindDirective) error
}

// Children returns the direct child nodes of n in elaboration order:
// contexts, variables, directives, parameters, connections, then nested
// blocks.
func Children(n Node) []Node {
	var out []Node

	switch n := n.(type) {
	case *Module:
		out = appendNodes(out, n.Vars)
		out = appendNodes(out, n.Directives)
		out = appendNodes(out, n.Connections)
		out = appendNodes(out, n.Blocks)

	case *Template:
		out = appendNodes(out, n.Contexts)
		out = appendNodes(out, n.Vars)
		out = appendNodes(out, n.Directives)
		out = appendNodes(out, n.Connections)
		out = appendNodes(out, n.Blocks)

	case *Context:
		out = appendNodes(out, n.Vars)

	case *Object:
		out = appendNodes(out, n.Vars)
		out = appendNodes(out, n.Directives)
		out = appendNodes(out, n.Params)
		out = appendNodes(out, n.Connections)
		out = appendNodes(out, n.Blocks)

	case *Signal:
		out = appendNodes(out, n.Vars)
		out = appendNodes(out, n.Directives)
		out = appendNodes(out, n.Params)
		out = appendNodes(out, n.Connections)

	case *Connection:
		out = appendNodes(out, n.Directives)
		out = appendNodes(out, n.Params)

	case *ParamAssign:
		out = appendNodes(out, n.Options)
	}

	return out
}

func appendNodes[T Node](out []Node, nodes []T) []Node {
	for _, n := range nodes {
		out = append(out, n)
	}

	return out
}

// Inspect walks the tree rooted at n depth-first, calling fn for each node.
// Children of a node are skipped when fn returns false.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, c := range Children(n) {
		Inspect(c, fn)
	}
}
