package parser

import (
	"unicode"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/lexer"
)

// parsePattern parses a full pattern including its trailing type annotation
// and or-pattern alternation (spec.md §4.2.4): "or-pattern `|` is parsed at
// the pattern top level; constructor application and tuple/list/record
// patterns bind tighter than `|`."
func (p *Parser) parsePattern() ast.Pattern {
	pat := p.parseOrPattern()
	if p.curIs(lexer.COLON) {
		p.advance()
		t := p.parseType()
		return &ast.AnnotatedPattern{Pattern: pat, Type: t, Pos: pat.Position()}
	}
	return pat
}

// parseSubPattern is parsePattern without the trailing annotation, used for
// nested positions (constructor args, tuple/list elements, record fields)
// where or-pattern alternation may still legally occur (spec.md §4.3 item 9:
// "Or-patterns at inner positions ... are expanded at the enclosing arm by
// cartesian product").
func (p *Parser) parseSubPattern() ast.Pattern { return p.parseOrPattern() }

func (p *Parser) parseOrPattern() ast.Pattern {
	first := p.parseConstructorPattern()
	if !p.curIs(lexer.PIPE) {
		return first
	}
	alts := []ast.Pattern{first}
	for p.curIs(lexer.PIPE) {
		p.advance()
		alts = append(alts, p.parseConstructorPattern())
	}
	return &ast.OrPattern{Alternatives: alts, Pos: first.Position()}
}

// parseConstructorPattern recognizes `Name` / `Name(p1, ...)` by a leading
// uppercase identifier, the usual nominal-variant convention; any other
// identifier is a variable binding, handled by parsePrimaryPattern.
func (p *Parser) parseConstructorPattern() ast.Pattern {
	if p.curIs(lexer.IDENT) && isUpperIdent(p.cur.Literal) {
		pos := p.curPos()
		name := p.cur.Literal
		p.advance()
		if p.curIs(lexer.LPAREN) {
			p.advance()
			args := parseCommaList(p, lexer.RPAREN, p.parseSubPattern)
			return &ast.ConstructorPattern{Name: name, Args: args, Pos: pos}
		}
		return &ast.ConstructorPattern{Name: name, Pos: pos}
	}
	return p.parsePrimaryPattern()
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	pos := p.curPos()
	switch p.cur.Kind {
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		if name == "_" {
			return &ast.WildcardPattern{Pos: pos}
		}
		return &ast.VarPattern{Name: name, Pos: pos}
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.BOOL:
		return p.parseLiteralPattern()
	case lexer.MINUS:
		p.advance()
		lit := p.parseLiteralPattern()
		if l, ok := lit.(*ast.Literal); ok {
			l.Value = negateNumeric(l.Value)
		}
		return lit
	case lexer.LPAREN:
		return p.parseTupleOrGroupedPattern()
	case lexer.LBRACKET:
		return p.parseListPattern()
	case lexer.LBRACE:
		return p.parseRecordPattern()
	default:
		p.errorf(diag.VF2001UnexpectedToken, pos, "", "unexpected token %s in pattern", p.cur.Kind)
		if !p.curIs(lexer.EOF) {
			p.advance()
		}
		return &ast.WildcardPattern{Pos: pos}
	}
}

func (p *Parser) parseLiteralPattern() ast.Pattern {
	switch p.cur.Kind {
	case lexer.INT:
		return p.parseIntLiteral().(*ast.Literal)
	case lexer.FLOAT:
		return p.parseFloatLiteral().(*ast.Literal)
	case lexer.STRING:
		return p.parseStringLiteral().(*ast.Literal)
	case lexer.BOOL:
		return p.parseBoolLiteral().(*ast.Literal)
	}
	pos := p.curPos()
	p.errorf(diag.VF2001UnexpectedToken, pos, "", "expected a literal pattern, found %s", p.cur.Kind)
	return &ast.Literal{Kind: ast.UnitLit, Pos: pos}
}

func negateNumeric(v interface{}) interface{} {
	switch n := v.(type) {
	case int64:
		return -n
	case float64:
		return -n
	}
	return v
}

func (p *Parser) parseTupleOrGroupedPattern() ast.Pattern {
	pos := p.curPos()
	p.advance() // '('
	if p.curIs(lexer.RPAREN) {
		p.advance()
		return &ast.Literal{Kind: ast.UnitLit, Pos: pos}
	}
	first := p.parseSubPattern()
	if p.curIs(lexer.COMMA) {
		elems := []ast.Pattern{first}
		for p.curIs(lexer.COMMA) {
			p.advance()
			if p.curIs(lexer.RPAREN) {
				break
			}
			elems = append(elems, p.parseSubPattern())
		}
		p.expect(lexer.RPAREN, diag.VF2002MissingToken, "add the missing ')'")
		return &ast.TuplePattern{Elements: elems, Pos: pos}
	}
	p.expect(lexer.RPAREN, diag.VF2002MissingToken, "add the missing ')'")
	return first
}

func (p *Parser) parseListPattern() ast.Pattern {
	pos := p.curPos()
	p.advance() // '['
	var elems []ast.Pattern
	var rest ast.Pattern
	for !p.curIs(lexer.RBRACKET) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.ELLIPSIS) {
			p.advance()
			rest = p.parseSubPattern()
			break
		}
		elems = append(elems, p.parseSubPattern())
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET, diag.VF2002MissingToken, "add the missing ']'")
	return &ast.ListPattern{Elements: elems, Rest: rest, Pos: pos}
}

func (p *Parser) parseRecordPattern() ast.Pattern {
	pos := p.curPos()
	p.advance() // '{'
	var fields []*ast.FieldPattern
	rest := false
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.ELLIPSIS) {
			p.advance()
			rest = true
			break
		}
		fieldPos := p.curPos()
		name := p.cur.Literal
		p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a field name")
		if p.curIs(lexer.COLON) {
			p.advance()
			sub := p.parseSubPattern()
			fields = append(fields, &ast.FieldPattern{Name: name, Pattern: sub, Pos: fieldPos})
		} else {
			fields = append(fields, &ast.FieldPattern{Name: name, Pos: fieldPos})
		}
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE, diag.VF2002MissingToken, "add the missing '}'")
	return &ast.RecordPattern{Fields: fields, Rest: rest, Pos: pos}
}

func isUpperIdent(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)[0]
	return unicode.IsUpper(r)
}
