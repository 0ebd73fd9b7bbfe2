package parser

import (
	"unicode"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/lexer"
)

var primitiveTypeNames = map[string]bool{
	"Int": true, "Float": true, "String": true, "Bool": true, "Unit": true,
}

// parseType parses a surface type expression: function arrows bind
// loosest, so this is the entry point (types have their own small grammar,
// independent of the expression precedence chain).
func (p *Parser) parseType() ast.Type {
	if p.curIs(lexer.LPAREN) {
		return p.parseParenOrFuncType()
	}
	t := p.parseAtomType()
	if p.curIs(lexer.ARROW) {
		pos := p.curPos()
		p.advance()
		ret := p.parseType()
		return &ast.FuncType{Params: []ast.Type{t}, Return: ret, Pos: pos}
	}
	return t
}

// parseParenOrFuncType handles `(A, B) -> C` as well as a parenthesized
// single type `(A)`.
func (p *Parser) parseParenOrFuncType() ast.Type {
	pos := p.curPos()
	p.advance() // '('
	if p.curIs(lexer.RPAREN) {
		p.advance()
		p.expect(lexer.ARROW, diag.VF2002MissingToken, "function types are written '(Params) -> Return'")
		ret := p.parseType()
		return &ast.FuncType{Params: nil, Return: ret, Pos: pos}
	}
	first := p.parseType()
	if p.curIs(lexer.COMMA) {
		elems := []ast.Type{first}
		for p.curIs(lexer.COMMA) {
			p.advance()
			if p.curIs(lexer.RPAREN) {
				break
			}
			elems = append(elems, p.parseType())
		}
		p.expect(lexer.RPAREN, diag.VF2002MissingToken, "add the missing ')'")
		if p.curIs(lexer.ARROW) {
			p.advance()
			ret := p.parseType()
			return &ast.FuncType{Params: elems, Return: ret, Pos: pos}
		}
		return &ast.TupleType{Elements: elems, Pos: pos}
	}
	p.expect(lexer.RPAREN, diag.VF2002MissingToken, "add the missing ')'")
	if p.curIs(lexer.ARROW) {
		p.advance()
		ret := p.parseType()
		return &ast.FuncType{Params: []ast.Type{first}, Return: ret, Pos: pos}
	}
	return first
}

func (p *Parser) parseAtomType() ast.Type {
	pos := p.curPos()
	switch p.cur.Kind {
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		if name == "Type" {
			return &ast.OpaqueType{Pos: pos}
		}
		if !isUpperTypeIdent(name) {
			return &ast.TypeVarRef{Name: name, Pos: pos}
		}
		if p.curIs(lexer.LT) {
			p.advance()
			args := []ast.Type{p.parseType()}
			for p.curIs(lexer.COMMA) {
				p.advance()
				args = append(args, p.parseType())
			}
			p.expect(lexer.GT, diag.VF2002MissingToken, "add the missing '>'")
			return &ast.TypeApp{Name: name, Args: args, Pos: pos}
		}
		if primitiveTypeNames[name] {
			return &ast.PrimitiveType{Name: name, Pos: pos}
		}
		return &ast.TypeApp{Name: name, Pos: pos}
	case lexer.LBRACE:
		return p.parseRecordType()
	default:
		p.errorf(diag.VF2001UnexpectedToken, pos, "", "unexpected token %s in type", p.cur.Kind)
		if !p.curIs(lexer.EOF) {
			p.advance()
		}
		return &ast.PrimitiveType{Name: "Unit", Pos: pos}
	}
}

func (p *Parser) parseRecordType() ast.Type {
	pos := p.curPos()
	p.advance() // '{'
	var fields []*ast.RecordTypeField
	open := false
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.ELLIPSIS) {
			p.advance()
			open = true
			break
		}
		fieldPos := p.curPos()
		name := p.cur.Literal
		p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a field name")
		p.expect(lexer.COLON, diag.VF2002MissingToken, "add ':' before the field's type")
		t := p.parseType()
		fields = append(fields, &ast.RecordTypeField{Name: name, Type: t, Pos: fieldPos})
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, diag.VF2002MissingToken, "add the missing '}'")
	return &ast.RecordType{Fields: fields, Open: open, Pos: pos}
}

func isUpperTypeIdent(s string) bool {
	if s == "" {
		return false
	}
	return unicode.IsUpper([]rune(s)[0])
}
