package parser

import (
	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// varDecl parses "$a (, $b)* : type (= value)? ;".
func (p *Parser) varDecl() (*ast.VarDecl, error) {
	decl := &ast.VarDecl{At: p.tok.Pos}

	for {
		ref, err := p.varRef()
		if err != nil {
			return nil, err
		}

		decl.Names = append(decl.Names, ref.Ident)

		if !p.at(token.Comma) {
			break
		}

		if err := p.next(); err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.Colon); err != nil {
		return nil, err
	}

	typ, err := p.typeSpec()
	if err != nil {
		return nil, err
	}

	decl.Type = typ

	if p.at(token.Assign) {
		if err := p.next(); err != nil {
			return nil, err
		}

		switch p.tok.Kind {
		case token.LParen:
			decl.Value, err = p.dynamicName()
		case token.VarSigil:
			decl.Value, err = p.varRef()
		default:
			decl.Value, err = p.value()
		}

		if err != nil {
			return nil, err
		}
	}

	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}

	return decl, nil
}

// dynamicName parses "( name (+ $v)* )".
func (p *Parser) dynamicName() (*ast.DynamicName, error) {
	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}

	h, err := p.header()
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}

	return &ast.DynamicName{Header: h}, nil
}

// param parses "name : type = (value | $var | range) option* ;".
func (p *Parser) param() (*ast.ParamAssign, error) {
	name, err := p.eat(token.Ident)
	if err != nil {
		return nil, err
	}

	pa := &ast.ParamAssign{Param: name.Lexeme, At: name.Pos}

	if _, err := p.eat(token.Colon); err != nil {
		return nil, err
	}

	if pa.Type, err = p.typeSpec(); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.Assign); err != nil {
		return nil, err
	}

	switch p.tok.Kind {
	case token.VarSigil:
		pa.Value, err = p.varRef()
	case token.RangeKw:
		pa.Value, err = p.rangeValue()
	default:
		pa.Value, err = p.value()
	}

	if err != nil {
		return nil, err
	}

	for p.tok.Kind.IsOption() {
		opt, err := p.option()
		if err != nil {
			return nil, err
		}

		pa.Options = append(pa.Options, opt)
	}

	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}

	return pa, nil
}

// option parses "OPT (= ($var | SYS_CONST | value))?".
func (p *Parser) option() (*ast.Option, error) {
	opt := &ast.Option{Ident: p.tok.Lexeme, Token: p.tok.Kind, At: p.tok.Pos}

	if err := p.next(); err != nil {
		return nil, err
	}

	if !p.at(token.Assign) {
		return opt, nil
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	var err error

	switch p.tok.Kind {
	case token.VarSigil:
		opt.Value, err = p.varRef()

	case token.SysConst:
		opt.Value = &ast.SysConst{Ident: p.tok.Lexeme, At: p.tok.Pos}
		err = p.next()

	default:
		opt.Value, err = p.value()
	}

	if err != nil {
		return nil, err
	}

	return opt, nil
}

// directive parses ". (use | put | bind) ;".
func (p *Parser) directive() (ast.Directive, error) {
	if _, err := p.eat(token.Point); err != nil {
		return nil, err
	}

	var (
		d   ast.Directive
		err error
	)

	switch p.tok.Kind {
	case token.UseKw:
		d, err = p.use()
	case token.PutKw:
		d, err = p.put()
	case token.BindKw:
		d, err = p.bind()
	default:
		return nil, p.unexpected("directive keyword")
	}

	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.Semicolon); err != nil {
		return nil, err
	}

	return d, nil
}

// use parses "использовать ctx линейно значения (все | кроме ($v | value))".
func (p *Parser) use() (*ast.UseDirective, error) {
	kw, err := p.eat(token.UseKw)
	if err != nil {
		return nil, err
	}

	dest, err := p.eat(token.Ident)
	if err != nil {
		return nil, err
	}

	method, err := p.eat(token.UseMethod)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.ValuesKw); err != nil {
		return nil, err
	}

	d := &ast.UseDirective{Dest: dest.Lexeme, Method: method.Lexeme, At: kw.Pos}

	switch p.tok.Kind {
	case token.AllKw:
		d.Filter.All = true
		err = p.next()

	case token.ExcludeKw:
		if err = p.next(); err != nil {
			return nil, err
		}

		if p.at(token.VarSigil) {
			d.Filter.Exclude, err = p.varRef()
		} else {
			d.Filter.Exclude, err = p.value()
		}

	default:
		return nil, p.unexpected("все or кроме")
	}

	if err != nil {
		return nil, err
	}

	return d, nil
}

// put parses "подстановка в ctx из $v (правило ([N:M] <- [i] | $v))?".
func (p *Parser) put() (*ast.PutDirective, error) {
	kw, err := p.eat(token.PutKw)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.InKw); err != nil {
		return nil, err
	}

	dest, err := p.eat(token.Ident)
	if err != nil {
		return nil, err
	}

	if _, err := p.eat(token.FromKw); err != nil {
		return nil, err
	}

	src, err := p.varRef()
	if err != nil {
		return nil, err
	}

	d := &ast.PutDirective{Dest: dest.Lexeme, Source: src, At: kw.Pos}

	if p.at(token.RuleKw) {
		if d.Rule, err = p.rule(); err != nil {
			return nil, err
		}
	}

	return d, nil
}

func (p *Parser) rule() (*ast.PutRule, error) {
	kw, err := p.eat(token.RuleKw)
	if err != nil {
		return nil, err
	}

	r := &ast.PutRule{At: kw.Pos}

	if p.at(token.VarSigil) {
		r.Rows, err = p.varRef()

		return r, err
	}

	if err := p.expect(token.LBracket); err != nil {
		return nil, err
	}

	if r.From, err = p.intLit(); err != nil {
		return nil, err
	}

	if err := p.expect(token.Colon); err != nil {
		return nil, err
	}

	if r.To, err = p.intLit(); err != nil {
		return nil, err
	}

	err = p.expect(token.RBracket, token.Junction, token.LBracket, token.It, token.RBracket)
	if err != nil {
		return nil, err
	}

	r.Window = true

	return r, nil
}

// bind parses "привязать (name (+ $v)* | ( name (+ $v)* ))".
func (p *Parser) bind() (*ast.BindDirective, error) {
	kw, err := p.eat(token.BindKw)
	if err != nil {
		return nil, err
	}

	d := &ast.BindDirective{At: kw.Pos}

	if !p.at(token.LParen) {
		d.Target, err = p.header()

		return d, err
	}

	if err := p.next(); err != nil {
		return nil, err
	}

	if d.Target, err = p.header(); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}

	return d, nil
}
