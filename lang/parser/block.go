package parser

import (
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// object parses "оборудование TYPE name (+ $v)* { ... };".
func (p *Parser) object() (*ast.Object, error) {
	class, err := p.eat(token.ObjectClass)
	if err != nil {
		return nil, err
	}

	typ, err := p.eat(token.ObjectType)
	if err != nil {
		return nil, err
	}

	h, err := p.header()
	if err != nil {
		return nil, err
	}

	obj := &ast.Object{Class: class.Lexeme, Type: typ.Lexeme, Header: h}

	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		switch p.tok.Kind {
		case token.VarSigil:
			decl, err := p.varDecl()
			if err != nil {
				return nil, err
			}

			obj.Vars = append(obj.Vars, decl)

		case token.Point:
			d, err := p.directive()
			if err != nil {
				return nil, err
			}

			obj.Directives = append(obj.Directives, d)

		case token.Ident:
			pa, err := p.param()
			if err != nil {
				return nil, err
			}

			obj.Params = append(obj.Params, pa)

		case token.ConnectionKw:
			c, err := p.connection()
			if err != nil {
				return nil, err
			}

			obj.Connections = append(obj.Connections, c)

		case token.ObjectClass, token.SignalKw:
			b, err := p.block()
			if err != nil {
				return nil, err
			}

			obj.Blocks = append(obj.Blocks, b)

		default:
			return nil, p.unexpected("object body item")
		}
	}

	return obj, p.terminate()
}

// template parses "шаблон name { ... };".
func (p *Parser) template() (*ast.Template, error) {
	if _, err := p.eat(token.TemplateKw); err != nil {
		return nil, err
	}

	h, err := p.header()
	if err != nil {
		return nil, err
	}

	tmpl := &ast.Template{Header: h}

	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		switch p.tok.Kind {
		case token.ContextKw:
			c, err := p.context()
			if err != nil {
				return nil, err
			}

			tmpl.Contexts = append(tmpl.Contexts, c)

		case token.VarSigil:
			decl, err := p.varDecl()
			if err != nil {
				return nil, err
			}

			tmpl.Vars = append(tmpl.Vars, decl)

		case token.Point:
			d, err := p.directive()
			if err != nil {
				return nil, err
			}

			tmpl.Directives = append(tmpl.Directives, d)

		case token.ConnectionKw:
			c, err := p.connection()
			if err != nil {
				return nil, err
			}

			tmpl.Connections = append(tmpl.Connections, c)

		case token.ObjectClass, token.SignalKw:
			b, err := p.block()
			if err != nil {
				return nil, err
			}

			tmpl.Blocks = append(tmpl.Blocks, b)

		default:
			return nil, p.unexpected("template body item")
		}
	}

	return tmpl, p.terminate()
}

// context parses "контекст name { $a: int; ... };".
func (p *Parser) context() (*ast.Context, error) {
	kw, err := p.eat(token.ContextKw)
	if err != nil {
		return nil, err
	}

	name, err := p.eat(token.Ident)
	if err != nil {
		return nil, err
	}

	ctx := &ast.Context{Ident: name.Lexeme, At: kw.Pos}

	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		if !p.at(token.VarSigil) {
			return nil, p.unexpected("context variable")
		}

		decl, err := p.varDecl()
		if err != nil {
			return nil, err
		}

		ctx.Vars = append(ctx.Vars, decl)
	}

	return ctx, p.terminate()
}

// signal parses "сигнал DIRECTION TYPE name (+ $v)* { ... };".
func (p *Parser) signal() (*ast.Signal, error) {
	if _, err := p.eat(token.SignalKw); err != nil {
		return nil, err
	}

	dir, err := p.eat(token.SignalDirection)
	if err != nil {
		return nil, err
	}

	typ, err := p.eat(token.SignalType)
	if err != nil {
		return nil, err
	}

	h, err := p.header()
	if err != nil {
		return nil, err
	}

	sig := &ast.Signal{Direction: dir.Lexeme, Type: typ.Lexeme, Header: h}

	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		switch p.tok.Kind {
		case token.VarSigil:
			decl, err := p.varDecl()
			if err != nil {
				return nil, err
			}

			sig.Vars = append(sig.Vars, decl)

		case token.Ident:
			pa, err := p.param()
			if err != nil {
				return nil, err
			}

			sig.Params = append(sig.Params, pa)

		case token.Point:
			d, err := p.directive()
			if err != nil {
				return nil, err
			}

			sig.Directives = append(sig.Directives, d)

		case token.ConnectionKw:
			c, err := p.connection()
			if err != nil {
				return nil, err
			}

			sig.Connections = append(sig.Connections, c)

		default:
			return nil, p.unexpected("signal body item")
		}
	}

	return sig, p.terminate()
}

// connection parses "соединение name (+ $v)* { ... };".
func (p *Parser) connection() (*ast.Connection, error) {
	if _, err := p.eat(token.ConnectionKw); err != nil {
		return nil, err
	}

	h, err := p.header()
	if err != nil {
		return nil, err
	}

	conn := &ast.Connection{Header: h}

	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}

	for !p.at(token.RBrace) {
		switch p.tok.Kind {
		case token.Ident:
			pa, err := p.param()
			if err != nil {
				return nil, err
			}

			conn.Params = append(conn.Params, pa)

		case token.Point:
			d, err := p.directive()
			if err != nil {
				return nil, err
			}

			conn.Directives = append(conn.Directives, d)

		default:
			return nil, p.unexpected("connection parameter or directive")
		}
	}

	return conn, p.terminate()
}
