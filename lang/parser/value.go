package parser

import (
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// value parses a literal or an array literal.
func (p *Parser) value() (ast.Expr, error) {
	switch p.tok.Kind {
	case token.Minus, token.Int, token.Float:
		return p.numeric()

	case token.String, token.Bool:
		lit := &ast.Literal{Raw: p.tok.Lexeme, Type: p.tok.Kind, At: p.tok.Pos}

		return lit, p.next()

	case token.LBracket:
		return p.array()

	default:
		return nil, p.unexpected("value")
	}
}

// numeric parses "-? (INT | FLOAT)".
func (p *Parser) numeric() (*ast.Literal, error) {
	at := p.tok.Pos
	neg := p.at(token.Minus)

	if neg {
		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if !p.at(token.Int, token.Float) {
		return nil, p.unexpected("number")
	}

	lit := &ast.Literal{Raw: p.tok.Lexeme, Type: p.tok.Kind, Negative: neg, At: at}

	return lit, p.next()
}

// array parses "[ (($v | value) (, ($v | value))*)? ]".
func (p *Parser) array() (*ast.ArrayLit, error) {
	open, err := p.eat(token.LBracket)
	if err != nil {
		return nil, err
	}

	arr := &ast.ArrayLit{At: open.Pos}

	for !p.at(token.RBracket) {
		if len(arr.Items) > 0 {
			if _, err := p.eat(token.Comma); err != nil {
				return nil, err
			}
		}

		var item ast.Expr
		if p.at(token.VarSigil) {
			item, err = p.varRef()
		} else {
			item, err = p.value()
		}

		if err != nil {
			return nil, err
		}

		arr.Items = append(arr.Items, item)
	}

	return arr, p.next()
}

// rangeValue parses "диапазон [ bound , bound ]".
func (p *Parser) rangeValue() (*ast.Range, error) {
	kw, err := p.eat(token.RangeKw)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.LBracket); err != nil {
		return nil, err
	}

	r := &ast.Range{At: kw.Pos}

	if r.Min, err = p.bound(false); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.Comma); err != nil {
		return nil, err
	}

	if r.Max, err = p.bound(true); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.RBracket); err != nil {
		return nil, err
	}

	return r, nil
}

func (p *Parser) bound(upper bool) (ast.Expr, error) {
	switch p.tok.Kind {
	case token.Tilde:
		t := &ast.Tilde{Upper: upper, At: p.tok.Pos}

		return t, p.next()

	case token.VarSigil:
		return p.varRef()

	case token.Minus, token.Int, token.Float:
		return p.numeric()

	default:
		return nil, p.unexpected("range bound")
	}
}

// typeSpec parses a builtin type name or "arr[...]".
//
// An "arr" keyword followed by "[" is confirmed with the lexer's trial parse
// before the next token is read; when the trial fails the keyword stands
// for an unshaped array.
func (p *Parser) typeSpec() (ast.Expr, error) {
	tok := p.tok

	switch {
	case tok.Kind == token.ArrayType:
		shaped, err := p.lx.MatchArray()
		if err != nil {
			return nil, err
		}

		if err := p.next(); err != nil {
			return nil, err
		}

		if !shaped {
			return &ast.BuiltinType{Type: tok.Kind, At: tok.Pos}, nil
		}

		spec, err := p.arraySpec(false)
		if err != nil {
			return nil, err
		}

		spec.At = tok.Pos

		return spec, nil

	case tok.Kind.IsScalarType():
		return &ast.BuiltinType{Type: tok.Kind, At: tok.Pos}, p.next()

	default:
		return nil, p.unexpected("type")
	}
}

// arraySpec parses "[ elem (, elem)* (.. | : INT)? ]" where elem is a
// scalar type name or a nested specification.
func (p *Parser) arraySpec(nested bool) (*ast.ArrayType, error) {
	open, err := p.eat(token.LBracket)
	if err != nil {
		return nil, err
	}

	spec := &ast.ArrayType{Nested: nested, At: open.Pos}

	for {
		var elem ast.Expr

		switch {
		case p.tok.Kind.IsScalarType():
			elem = &ast.BuiltinType{Type: p.tok.Kind, At: p.tok.Pos}
			err = p.next()
		case p.at(token.LBracket):
			elem, err = p.arraySpec(true)
		default:
			return nil, p.unexpected("array element type")
		}

		if err != nil {
			return nil, err
		}

		spec.Elems = append(spec.Elems, elem)

		if !p.at(token.Comma) {
			break
		}

		if err := p.next(); err != nil {
			return nil, err
		}
	}

	switch {
	case p.at(token.Ellipsis):
		spec.Variadic = true
		err = p.next()

	case p.at(token.Colon):
		if err = p.next(); err == nil {
			spec.Size, err = p.intLit()
		}
	}

	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.RBracket); err != nil {
		return nil, err
	}

	return spec, nil
}
