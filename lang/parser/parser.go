// Package parser builds an [ast.Module] from equipment description source.
//
// The parser is strict top-down recursive descent with one token of
// lookahead. The first unexpected token aborts parsing with a syntax error
// carrying the offending line and a caret under the token.
package parser

import (
	"io"
	"strconv"

	"github.com/Omarmeks89/edl-src/lang/ast"
	"github.com/Omarmeks89/edl-src/lang/diag"
	"github.com/Omarmeks89/edl-src/lang/lexer"
	"github.com/Omarmeks89/edl-src/lang/token"
)

// Parser holds the lexer and the current token.
type Parser struct {
	lx  *lexer.Lexer
	tok token.Token
}

// Parse parses a complete module read from r. The name labels the module
// and is reported in diagnostics.
func Parse(name string, r io.Reader) (*ast.Module, error) {
	return New(lexer.New(r, lexer.WithFilename(name))).Module()
}

// ParseString parses a complete module from an in-memory source.
func ParseString(name, src string) (*ast.Module, error) {
	return New(lexer.NewString(src, lexer.WithFilename(name))).Module()
}

// New returns a Parser reading tokens from lx.
func New(lx *lexer.Lexer) *Parser {
	return &Parser{lx: lx}
}

// Module parses the whole token stream.
func (p *Parser) Module() (*ast.Module, error) {
	if err := p.next(); err != nil {
		return nil, err
	}

	mod := &ast.Module{Source: p.lx.Filename()}

	for !p.at(token.EOF) {
		switch p.tok.Kind {
		case token.VarSigil:
			decl, err := p.varDecl()
			if err != nil {
				return nil, err
			}

			mod.Vars = append(mod.Vars, decl)

		case token.Point:
			d, err := p.directive()
			if err != nil {
				return nil, err
			}

			mod.Directives = append(mod.Directives, d)

		case token.ConnectionKw:
			c, err := p.connection()
			if err != nil {
				return nil, err
			}

			mod.Connections = append(mod.Connections, c)

		case token.ObjectClass, token.TemplateKw, token.SignalKw:
			b, err := p.block()
			if err != nil {
				return nil, err
			}

			mod.Blocks = append(mod.Blocks, b)

		default:
			return nil, p.unexpected("declaration, directive or block")
		}
	}

	return mod, nil
}

func (p *Parser) block() (ast.Block, error) {
	switch p.tok.Kind {
	case token.ObjectClass:
		return p.object()
	case token.TemplateKw:
		return p.template()
	case token.SignalKw:
		return p.signal()
	default:
		return nil, p.unexpected("block")
	}
}

// next advances to the following token.
func (p *Parser) next() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

func (p *Parser) at(kinds ...token.Kind) bool { return p.tok.Is(kinds...) }

// eat checks the current token kind, returns it and advances.
func (p *Parser) eat(kind token.Kind) (token.Token, error) {
	tok := p.tok
	if tok.Kind != kind {
		return tok, p.unexpected(kind.String())
	}

	return tok, p.next()
}

func (p *Parser) unexpected(want string) error {
	found := p.tok.String()
	if p.tok.Kind == token.EOF {
		found = "end of input"
	}

	return diag.Syntaxf("unexpected %s, expected %s", found, want).
		WithTrace(p.lx.Trace(p.tok.Pos))
}

// header parses "name (+ $var)*".
func (p *Parser) header() (ast.Header, error) {
	base, err := p.eat(token.Ident)
	if err != nil {
		return ast.Header{}, err
	}

	h := ast.Header{Base: base.Lexeme, At: base.Pos}

	for p.at(token.Concat) {
		if err := p.next(); err != nil {
			return h, err
		}

		ref, err := p.varRef()
		if err != nil {
			return h, err
		}

		h.Ext = append(h.Ext, ref)
	}

	return h, nil
}

// varRef parses "$name".
func (p *Parser) varRef() (*ast.VarRef, error) {
	sigil, err := p.eat(token.VarSigil)
	if err != nil {
		return nil, err
	}

	name, err := p.eat(token.Ident)
	if err != nil {
		return nil, err
	}

	return &ast.VarRef{Ident: name.Lexeme, At: sigil.Pos}, nil
}

// terminate consumes the closing "}" and ";" of a block.
func (p *Parser) terminate() error {
	if _, err := p.eat(token.RBrace); err != nil {
		return err
	}

	_, err := p.eat(token.Semicolon)

	return err
}

func (p *Parser) intLit() (int, error) {
	tok, err := p.eat(token.Int)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(tok.Lexeme)
	if err != nil {
		return 0, diag.Syntaxf("invalid integer %q", tok.Lexeme).
			Wrap(err).
			WithTrace(p.lx.Trace(tok.Pos))
	}

	return n, nil
}

// expect eats a fixed sequence of tokens.
func (p *Parser) expect(kinds ...token.Kind) error {
	for _, k := range kinds {
		if _, err := p.eat(k); err != nil {
			return err
		}
	}

	return nil
}
