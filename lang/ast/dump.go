package ast

import "github.com/goccy/go-yaml"

// Dump converts the tree rooted at n into ordered maps suitable for YAML
// encoding. Empty fields are omitted.
func Dump(n Node) yaml.MapSlice {
	var m yaml.MapSlice

	add := func(key string, value any) {
		switch v := value.(type) {
		case nil:
			return
		case string:
			if v == "" {
				return
			}
		case []any:
			if len(v) == 0 {
				return
			}
		case bool:
			if !v {
				return
			}
		}

		m = append(m, yaml.MapItem{Key: key, Value: value})
	}

	add("kind", n.Kind().String())

	switch n := n.(type) {
	case *Module:
		add("source", n.Source)
	case *Template:
		add("name", n.Header.String())
	case *Context:
		add("name", n.Ident)
	case *Object:
		add("class", n.Class)
		add("type", n.Type)
		add("name", n.Header.String())
	case *Signal:
		add("direction", n.Direction)
		add("type", n.Type)
		add("name", n.Header.String())
	case *Connection:
		add("name", n.Header.String())
	case *VarDecl:
		add("names", stringsAny(n.Names))
		add("type", exprString(n.Type))
		add("value", exprString(n.Value))
	case *ParamAssign:
		add("name", n.Param)
		add("type", exprString(n.Type))
		add("value", exprString(n.Value))
	case *Option:
		add("name", n.Ident)
		add("value", exprString(n.Value))
	case *UseDirective:
		add("context", n.Dest)
		add("method", n.Method)
		add("all", n.Filter.All)
		add("exclude", exprString(n.Filter.Exclude))
	case *PutDirective:
		add("context", n.Dest)
		add("source", exprString(n.Source))
		if n.Rule != nil {
			add("rule", ruleDump(n.Rule))
		}
	case *BindDirective:
		add("target", n.Target.String())
	}

	children := Children(n)

	nested := make([]any, 0, len(children))
	for _, c := range children {
		nested = append(nested, Dump(c))
	}

	add("children", nested)

	return m
}

func ruleDump(r *PutRule) yaml.MapSlice {
	if r.Window {
		return yaml.MapSlice{
			{Key: "from", Value: r.From},
			{Key: "to", Value: r.To},
		}
	}

	return yaml.MapSlice{{Key: "rows", Value: exprString(r.Rows)}}
}

func exprString(e Expr) any {
	switch e := e.(type) {
	case nil:
		return nil
	case *VarRef:
		if e == nil {
			return nil
		}
	}

	return e.String()
}

func stringsAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}

	return out
}
