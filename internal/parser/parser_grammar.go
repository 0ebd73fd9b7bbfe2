package parser

import "github.com/vibefun-lang/vibefun/internal/lexer"

// registerGrammar wires every prefix/infix parse function and its
// precedence/associativity into the tables New built. Kept in its own
// file since it is pure wiring, not parsing logic.
func (p *Parser) registerGrammar() {
	// Prefix positions (§4.2.2 level 17, plus level 15 prefix unary).
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.BOOL, p.parseBoolLiteral)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedOrTupleOrLambda)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseBraceExpr)
	p.registerPrefix(lexer.IF, p.parseIf)
	p.registerPrefix(lexer.MATCH, p.parseMatch)
	p.registerPrefix(lexer.LET, p.parseLetExpr)
	p.registerPrefix(lexer.WHILE, p.parseWhile)
	p.registerPrefix(lexer.UNSAFE, p.parseUnsafe)
	p.registerPrefix(lexer.EXTERNAL, p.parseExternalRefExpr)
	p.registerPrefix(lexer.REF, p.parseRefNew)
	p.registerPrefix(lexer.MINUS, p.parsePrefixUnary)
	p.registerPrefix(lexer.BANG, p.parsePrefixUnary)

	// Infix / postfix positions, precedence per §4.2.2. Note: lambda `=>`
	// is never reached through this table — parseGroupedOrTupleOrLambda
	// consumes it directly when disambiguating `(...)`.
	p.registerInfix(lexer.COLONEQ, precAssign, p.parseAssign)
	p.rightAssoc[lexer.COLONEQ] = true
	p.registerInfix(lexer.COLON, precAnnotation, p.parseAnnotation)
	p.nonAssoc[lexer.COLON] = true
	p.registerInfix(lexer.PIPEGT, precPipe, p.parsePipe)
	p.registerInfix(lexer.RSHIFT2, precCompose, p.parseCompose)
	p.registerInfix(lexer.LSHIFT2, precCompose, p.parseCompose)
	p.registerInfix(lexer.OROR, precOr, p.parseBinary)
	p.registerInfix(lexer.ANDAND, precAnd, p.parseBinary)
	p.registerInfix(lexer.EQEQ, precEquality, p.parseBinary)
	p.nonAssoc[lexer.EQEQ] = true
	p.registerInfix(lexer.NEQ, precEquality, p.parseBinary)
	p.nonAssoc[lexer.NEQ] = true
	p.registerInfix(lexer.LT, precComparison, p.parseBinary)
	p.nonAssoc[lexer.LT] = true
	p.registerInfix(lexer.LTE, precComparison, p.parseBinary)
	p.nonAssoc[lexer.LTE] = true
	p.registerInfix(lexer.GT, precComparison, p.parseBinary)
	p.nonAssoc[lexer.GT] = true
	p.registerInfix(lexer.GTE, precComparison, p.parseBinary)
	p.nonAssoc[lexer.GTE] = true
	p.registerInfix(lexer.DCOLON, precCons, p.parseCons)
	p.rightAssoc[lexer.DCOLON] = true
	p.registerInfix(lexer.AMP, precConcat, p.parseBinary)
	p.registerInfix(lexer.PLUS, precAdditive, p.parseBinary)
	p.registerInfix(lexer.MINUS, precAdditive, p.parseBinary)
	p.registerInfix(lexer.STAR, precMultiplicative, p.parseBinary)
	p.registerInfix(lexer.SLASH, precMultiplicative, p.parseBinary)
	p.registerInfix(lexer.PERCENT, precMultiplicative, p.parseBinary)
	p.registerInfix(lexer.LPAREN, precCall, p.parseCallArgs)
	p.registerInfix(lexer.DOT, precCall, p.parseFieldAccess)
}

// isRightAssoc / isNonAssoc report an operator token's associativity from
// the same tables that parseExpression reads directly.
func (p *Parser) isRightAssoc(k lexer.Kind) bool { return p.rightAssoc[k] }
func (p *Parser) isNonAssoc(k lexer.Kind) bool   { return p.nonAssoc[k] }
