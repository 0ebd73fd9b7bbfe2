package parser

import (
	"strconv"
	"strings"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/lexer"
)

// parseExpression is the precedence-climbing entry point (spec.md §4.2.2):
// minPrec is the lowest precedence an operator must have to be absorbed by
// this call. Non-assoc operators (equality, comparison, `:`) are barred
// from chaining with themselves at the same call.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parsePrefix()
	usedNonAssocPrec := -1

	for {
		opKind := p.cur.Kind
		opPrec, ok := p.prec[opKind]
		if !ok || opPrec < minPrec {
			break
		}
		if p.nonAssoc[opKind] && opPrec == usedNonAssocPrec {
			p.errorf(diag.VF2001UnexpectedToken, p.curPos(),
				"parenthesize to disambiguate",
				"%s does not chain with itself at this precedence", opKind)
			break
		}
		infix, ok := p.infixFns[opKind]
		if !ok || infix == nil {
			break
		}
		left = infix(left)
		if p.nonAssoc[opKind] {
			usedNonAssocPrec = opPrec
		} else {
			usedNonAssocPrec = -1
		}
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expr {
	fn, ok := p.prefixFns[p.cur.Kind]
	if !ok {
		pos := p.curPos()
		p.errorf(diag.VF2001UnexpectedToken, pos, "", "unexpected token %s in expression", p.cur.Kind)
		if !p.curIs(lexer.EOF) {
			p.advance()
		}
		return &ast.Literal{Kind: ast.UnitLit, Pos: pos}
	}
	return fn()
}

// nextOperandPrec returns the minimum precedence an operator's right-hand
// operand must parse at: opPrec+1 for left/non-assoc (blocks same-level
// chaining to the right, so the outer loop's left-fold wins), opPrec for
// right-assoc (lets a same-level operator recurse into the right operand).
func (p *Parser) nextOperandPrec(opKind lexer.Kind, opPrec int) int {
	if p.rightAssoc[opKind] {
		return opPrec
	}
	return opPrec + 1
}

func (p *Parser) parseIdentifier() ast.Expr {
	id := &ast.Identifier{Name: p.cur.Literal, Pos: p.curPos()}
	p.advance()
	return id
}

func (p *Parser) parseIntLiteral() ast.Expr {
	pos := p.curPos()
	lit := strings.ReplaceAll(p.cur.Literal, "_", "")
	var v int64
	var err error
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") || strings.HasPrefix(lit, "0b") || strings.HasPrefix(lit, "0B") {
		v, err = strconv.ParseInt(lit, 0, 64)
	} else {
		v, err = strconv.ParseInt(lit, 10, 64)
	}
	if err != nil {
		p.errorf(diag.VF1004MalformedNumber, pos, "", "malformed integer literal %q", p.cur.Literal)
	}
	p.advance()
	return &ast.Literal{Kind: ast.IntLit, Value: v, Pos: pos}
}

func (p *Parser) parseFloatLiteral() ast.Expr {
	pos := p.curPos()
	lit := strings.ReplaceAll(p.cur.Literal, "_", "")
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.errorf(diag.VF1004MalformedNumber, pos, "", "malformed float literal %q", p.cur.Literal)
	}
	p.advance()
	return &ast.Literal{Kind: ast.FloatLit, Value: v, Pos: pos}
}

func (p *Parser) parseStringLiteral() ast.Expr {
	lit := &ast.Literal{Kind: ast.StringLit, Value: p.cur.Literal, Pos: p.curPos()}
	p.advance()
	return lit
}

func (p *Parser) parseBoolLiteral() ast.Expr {
	lit := &ast.Literal{Kind: ast.BoolLit, Value: p.cur.Literal == "true", Pos: p.curPos()}
	p.advance()
	return lit
}

// parsePrefixUnary handles `-e` and `!e` (spec.md §4.2.3: `-` is unary iff
// the preceding token is not an identifier, literal, or closing bracket;
// reached here only because the caller already chose the prefix slot, so
// that disambiguation lives in where this is (not) registered as infix).
func (p *Parser) parsePrefixUnary() ast.Expr {
	op := p.cur.Literal
	pos := p.curPos()
	p.advance()
	operand := p.parseExpression(precPrefix)
	return &ast.UnaryOp{Op: op, Operand: operand, Pos: pos}
}

func (p *Parser) parseRefNew() ast.Expr {
	pos := p.curPos()
	p.advance() // 'ref'
	value := p.parseExpression(precPrefix)
	return &ast.RefNew{Value: value, Pos: pos}
}

func (p *Parser) parseExternalRefExpr() ast.Expr {
	pos := p.curPos()
	p.advance() // 'external'
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "external reference must name a bound identifier")
	return &ast.ExternalRef{Name: name, Pos: pos}
}

func (p *Parser) parseUnsafe() ast.Expr {
	pos := p.curPos()
	p.advance() // 'unsafe'
	p.expect(lexer.LBRACE, diag.VF2002MissingToken, "unsafe blocks are written 'unsafe { ... }'")
	body := p.parseBlockBody(pos)
	return &ast.Unsafe{Body: body, Pos: pos}
}

func (p *Parser) parseWhile() ast.Expr {
	pos := p.curPos()
	p.advance() // 'while'
	cond := p.parseExpression(precLowest)
	p.expect(lexer.LBRACE, diag.VF2002MissingToken, "while loop body must be a '{ ... }' block")
	body := p.parseBlockBody(pos)
	return &ast.While{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseIf() ast.Expr {
	pos := p.curPos()
	p.advance() // 'if'
	cond := p.parseExpression(precLowest)
	p.expect(lexer.THEN, diag.VF2002MissingToken, "add 'then' before the consequent")
	then := p.parseExpression(precLowest)
	var elseExpr ast.Expr
	if p.curIs(lexer.ELSE) {
		p.advance()
		elseExpr = p.parseExpression(precLowest)
	}
	return &ast.If{Cond: cond, Then: then, Else: elseExpr, Pos: pos}
}

func (p *Parser) parseMatch() ast.Expr {
	pos := p.curPos()
	p.advance() // 'match'
	scrutinee := p.parseExpression(precLowest)
	p.expect(lexer.LBRACE, diag.VF2002MissingToken, "match arms are written inside '{ ... }'")

	var cases []*ast.MatchCase
	for p.curIs(lexer.PIPE) {
		casePos := p.curPos()
		p.advance() // '|'
		pat := p.parsePattern()
		var guard ast.Expr
		if p.curIs(lexer.WHEN) {
			p.advance()
			guard = p.parseExpression(precLowest)
		}
		p.expect(lexer.FARROW, diag.VF2002MissingToken, "add '=>' before the arm body")
		body := p.parseExpression(precLowest)
		cases = append(cases, &ast.MatchCase{Pattern: pat, Guard: guard, Body: body, Pos: casePos})
		if !p.curIs(lexer.PIPE) {
			break
		}
	}
	if len(cases) == 0 {
		p.errorf(diag.VF2007EmptyMatch, pos, "every arm, including the first, must begin with '|'", "match expression must have at least one case")
	}
	p.expect(lexer.RBRACE, diag.VF2002MissingToken, "add the missing closing '}'")
	return &ast.Match{Scrutinee: scrutinee, Cases: cases, Pos: pos}
}

// parseLetExpr handles both `let [mut] name [: T] = value in body` and
// `let rec name1 = e1 [and name2 = e2 ...] in body`. Every let expression
// requires an explicit `in`; this is the only form vibefun's grammar
// supports (see DESIGN.md), so `let` composes with blocks exactly like any
// other expression instead of needing statement-position special-casing.
func (p *Parser) parseLetExpr() ast.Expr {
	pos := p.curPos()
	p.advance() // 'let'
	if p.curIs(lexer.REC) {
		return p.parseLetRecExpr(pos)
	}

	mut := false
	if p.curIs(lexer.MUT) {
		mut = true
		p.advance()
	}
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a binding name after 'let'")

	var typeAnn ast.Type
	if p.curIs(lexer.COLON) {
		p.advance()
		typeAnn = p.parseType()
	}
	p.expect(lexer.EQ, diag.VF2002MissingToken, "add '=' before the bound expression")
	value := p.parseExpression(precLowest)
	p.expectSoftIn()
	body := p.parseExpression(precLowest)
	return &ast.Let{Name: name, Mut: mut, TypeAnn: typeAnn, Value: value, Body: body, Pos: pos}
}

func (p *Parser) parseLetRecExpr(pos ast.Pos) ast.Expr {
	p.advance() // 'rec'
	var bindings []*ast.RecBinding
	bindings = append(bindings, p.parseRecBinding())
	for p.curIs(lexer.AND) {
		p.advance()
		bindings = append(bindings, p.parseRecBinding())
	}
	p.expectSoftIn()
	body := p.parseExpression(precLowest)
	return &ast.LetRec{Bindings: bindings, Body: body, Pos: pos}
}

func (p *Parser) parseRecBinding() *ast.RecBinding {
	pos := p.curPos()
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a binding name")
	var typeAnn ast.Type
	if p.curIs(lexer.COLON) {
		p.advance()
		typeAnn = p.parseType()
	}
	p.expect(lexer.EQ, diag.VF2002MissingToken, "add '=' before the bound expression")
	value := p.parseExpression(precLowest)
	return &ast.RecBinding{Name: name, TypeAnn: typeAnn, Value: value, Pos: pos}
}

// expectSoftIn consumes the contextual "in" keyword, which the lexer
// tokenizes as a plain IDENT since it is not in the reserved keyword table.
func (p *Parser) expectSoftIn() {
	if p.curIs(lexer.IDENT) && p.cur.Literal == "in" {
		p.advance()
		return
	}
	p.errorf(diag.VF2002MissingToken, p.curPos(), "add 'in' before the let body", "expected 'in', found %s", p.cur.Kind)
}

// parseGroupedOrTupleOrLambda disambiguates `(...)` per spec.md §4.2.3:
// lambda if `=>` follows the close paren, parenthesization for a single
// inner expression, tuple for 2+ comma-separated expressions.
func (p *Parser) parseGroupedOrTupleOrLambda() ast.Expr {
	pos := p.curPos()
	p.advance() // '('

	if p.curIs(lexer.RPAREN) {
		p.advance()
		if p.curIs(lexer.FARROW) {
			p.advance()
			body := p.parseExpression(precLowest)
			return &ast.Lambda{Params: nil, Body: body, Pos: pos}
		}
		return &ast.Literal{Kind: ast.UnitLit, Pos: pos}
	}

	// Operator sections `(+)`, `(+ x)`, `(x +)` are rejected outright.
	if isOperatorToken(p.cur.Kind) && (p.peek.Kind == lexer.RPAREN || isOperatorToken(p.peek.Kind)) {
		p.errorf(diag.VF2006OperatorSection, pos, "use a lambda, e.g. (x, y) => x + y", "operator sections are not supported")
	}

	first := p.parseExpression(precLowest)

	if p.curIs(lexer.COMMA) {
		elems := []ast.Expr{first}
		for p.curIs(lexer.COMMA) {
			p.advance()
			if p.curIs(lexer.RPAREN) {
				break // trailing comma
			}
			elems = append(elems, p.parseExpression(precLowest))
		}
		p.expect(lexer.RPAREN, diag.VF2002MissingToken, "add the missing ')'")
		if p.curIs(lexer.FARROW) {
			return p.finishLambdaFromExprs(pos, elems)
		}
		if len(elems) < 2 {
			p.errorf(diag.VF2005InvalidTuple, pos, "", "tuple must have at least 2 elements")
		}
		return &ast.TupleExpr{Elements: elems, Pos: pos}
	}

	p.expect(lexer.RPAREN, diag.VF2002MissingToken, "add the missing ')'")
	if p.curIs(lexer.FARROW) {
		return p.finishLambdaFromExprs(pos, []ast.Expr{first})
	}
	return first
}

// finishLambdaFromExprs re-reads already-parsed parenthesized expressions
// as lambda parameter patterns, since the grammar can't tell `(x, y)` is a
// parameter list rather than a tuple until the `=>` lookahead succeeds.
func (p *Parser) finishLambdaFromExprs(pos ast.Pos, exprs []ast.Expr) ast.Expr {
	p.advance() // '=>'
	params := make([]ast.Pattern, len(exprs))
	for i, e := range exprs {
		params[i] = exprToPattern(e)
	}
	body := p.parseExpression(precLowest)
	return &ast.Lambda{Params: params, Body: body, Pos: pos}
}

// exprToPattern reinterprets a bare identifier expression as a var pattern,
// the only shape lambda parameters take when first parsed as expressions.
func exprToPattern(e ast.Expr) ast.Pattern {
	if id, ok := e.(*ast.Identifier); ok {
		return &ast.VarPattern{Name: id.Name, Pos: id.Pos}
	}
	return &ast.WildcardPattern{Pos: e.Position()}
}

func isOperatorToken(k lexer.Kind) bool {
	switch k {
	case lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT,
		lexer.AMP, lexer.EQEQ, lexer.NEQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE,
		lexer.ANDAND, lexer.OROR, lexer.DCOLON, lexer.PIPEGT, lexer.RSHIFT2, lexer.LSHIFT2:
		return true
	}
	return false
}

func (p *Parser) parseListLiteral() ast.Expr {
	pos := p.curPos()
	p.advance() // '['
	elems := parseCommaList(p, lexer.RBRACKET, func() ast.ListElement {
		if p.curIs(lexer.ELLIPSIS) {
			p.advance()
			return ast.ListElement{Value: p.parseExpression(precLowest), Spread: true}
		}
		return ast.ListElement{Value: p.parseExpression(precLowest)}
	})
	return &ast.ListLit{Elements: elems, Pos: pos}
}

// parseBraceExpr disambiguates `{` per spec.md §4.2.3 into a block, record
// literal, or record update.
func (p *Parser) parseBraceExpr() ast.Expr {
	pos := p.curPos()
	p.advance() // '{'

	switch p.cur.Kind {
	case lexer.LET, lexer.IF, lexer.MATCH, lexer.UNSAFE:
		return p.parseBlockBody(pos)
	case lexer.RBRACE:
		p.errorf(diag.VF2011EmptyBlock, pos, "", "block must contain at least a trailing expression")
		p.advance()
		return &ast.Literal{Kind: ast.UnitLit, Pos: pos}
	}

	if p.curIs(lexer.IDENT) {
		switch p.peek.Kind {
		case lexer.PIPE:
			return p.parseRecordUpdate(pos)
		case lexer.COLON, lexer.COMMA, lexer.RBRACE:
			return p.parseRecordLit(pos)
		}
	}

	first := p.parseExpression(precLowest)
	if p.curIs(lexer.SEMI) || p.atSeparatorBefore(p.prevKind) {
		return p.parseBlockBodyFrom(pos, first)
	}
	if p.curIs(lexer.RBRACE) {
		p.errorf(diag.VF2004AmbiguousBlock, p.curPos(),
			"add ';' to make this a block, or ': value'/ '| field' to make it a record",
			"ambiguous block/record expression")
		p.advance()
		return first
	}
	return p.parseBlockBodyFrom(pos, first)
}

func (p *Parser) parseBlockBody(pos ast.Pos) ast.Expr {
	if p.curIs(lexer.RBRACE) {
		p.errorf(diag.VF2011EmptyBlock, pos, "", "block must contain at least a trailing expression")
		p.advance()
		return &ast.Literal{Kind: ast.UnitLit, Pos: pos}
	}
	first := p.parseExpression(precLowest)
	return p.parseBlockBodyFrom(pos, first)
}

func (p *Parser) parseBlockBodyFrom(pos ast.Pos, first ast.Expr) ast.Expr {
	var stmts []ast.Expr
	expr := first
	for {
		if !p.consumeStatementSeparator(lexer.RBRACE) {
			break
		}
		stmts = append(stmts, expr)
		if p.curIs(lexer.RBRACE) {
			break
		}
		expr = p.parseExpression(precLowest)
	}
	p.expect(lexer.RBRACE, diag.VF2002MissingToken, "add the missing '}'")
	return &ast.Block{Stmts: stmts, Result: expr, Pos: pos}
}

func (p *Parser) parseRecordField() *ast.RecordField {
	pos := p.curPos()
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a field name")
	if p.curIs(lexer.COLON) {
		p.advance()
		value := p.parseExpression(precLowest)
		return &ast.RecordField{Name: name, Value: value, Pos: pos}
	}
	return &ast.RecordField{Name: name, Pos: pos} // shorthand
}

func (p *Parser) parseRecordLit(pos ast.Pos) ast.Expr {
	fields := parseCommaList(p, lexer.RBRACE, p.parseRecordField)
	return &ast.RecordLit{Fields: fields, Pos: pos}
}

func (p *Parser) parseRecordUpdate(pos ast.Pos) ast.Expr {
	base := p.parseExpression(precLowest)
	p.expect(lexer.PIPE, diag.VF2002MissingToken, "record updates are written '{ base | field: value, ... }'")
	fields := parseCommaList(p, lexer.RBRACE, p.parseRecordField)
	return &ast.RecordUpdate{Base: base, Fields: fields, Pos: pos}
}

// --- infix parse functions ---

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	op := p.cur.Literal
	opKind := p.cur.Kind
	pos := p.curPos()
	opPrec := p.prec[opKind]
	p.advance()
	right := p.parseExpression(p.nextOperandPrec(opKind, opPrec))
	return &ast.BinaryOp{Op: op, Left: left, Right: right, Pos: pos}
}

func (p *Parser) parseCons(left ast.Expr) ast.Expr {
	pos := p.curPos()
	opPrec := p.prec[lexer.DCOLON]
	p.advance() // '::'
	right := p.parseExpression(p.nextOperandPrec(lexer.DCOLON, opPrec))
	return &ast.BinaryOp{Op: "::", Left: left, Right: right, Pos: pos}
}

func (p *Parser) parsePipe(left ast.Expr) ast.Expr {
	pos := p.curPos()
	opPrec := p.prec[lexer.PIPEGT]
	p.advance() // '|>'
	right := p.parseExpression(p.nextOperandPrec(lexer.PIPEGT, opPrec))
	return &ast.Pipe{Left: left, Right: right, Pos: pos}
}

func (p *Parser) parseCompose(left ast.Expr) ast.Expr {
	op := p.cur.Literal
	opKind := p.cur.Kind
	pos := p.curPos()
	opPrec := p.prec[opKind]
	p.advance()
	right := p.parseExpression(p.nextOperandPrec(opKind, opPrec))
	return &ast.Compose{Op: op, Left: left, Right: right, Pos: pos}
}

func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	pos := p.curPos()
	opPrec := p.prec[lexer.COLONEQ]
	p.advance() // ':='
	right := p.parseExpression(p.nextOperandPrec(lexer.COLONEQ, opPrec))
	return &ast.Assign{Target: left, Value: right, Pos: pos}
}

func (p *Parser) parseAnnotation(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.advance() // ':'
	t := p.parseType()
	return &ast.Annotation{Value: left, Type: t, Pos: pos}
}

func (p *Parser) parseFieldAccess(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.advance() // '.'
	field := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a field name after '.'")
	return &ast.RecordAccess{Record: left, Field: field, Pos: pos}
}

func (p *Parser) parseCallArgs(left ast.Expr) ast.Expr {
	pos := p.curPos()
	p.advance() // '('
	args := parseCommaList(p, lexer.RPAREN, func() ast.Expr { return p.parseExpression(precLowest) })
	return &ast.Apply{Func: left, Args: args, Pos: pos}
}
