// Package parser turns a vibefun token stream into a surface AST Module,
// using recursive descent with operator-precedence climbing for
// expressions (spec.md §4.2). It recovers from errors at declaration
// boundaries rather than failing on the first one, up to a fixed cap.
package parser

import (
	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/lexer"
)

// DefaultMaxErrors is the default cap on collected diagnostics before the
// parser gives up (spec.md §4.2 "up to N diagnostics, default 10").
const DefaultMaxErrors = 10

type prefixParseFn func() ast.Expr
type infixParseFn func(left ast.Expr) ast.Expr

// Parser is a single-use recursive-descent parser over a fixed token
// slice produced by the lexer.
type Parser struct {
	file      string
	tokens    []lexer.Token
	pos       int // index of cur in tokens
	cur       lexer.Token
	peek      lexer.Token
	prevKind  lexer.Kind // kind of the token that was cur just before the last advance
	newlineBeforeCur  bool // a NEWLINE token was skipped to reach cur
	newlineBeforePeek bool

	diags     *diag.Bag
	maxErrors int
	lastErrorTokenPos int // dedup: suppress cascades at the same stream position
	pendingDecls []ast.Decl // extra decls produced by one parseDecl call (external blocks)

	prefixFns map[lexer.Kind]prefixParseFn
	infixFns  map[lexer.Kind]infixParseFn
	prec      map[lexer.Kind]int
	rightAssoc map[lexer.Kind]bool
	nonAssoc   map[lexer.Kind]bool
}

// Precedence levels, lowest to highest. Gaps (9, 10) are intentionally
// unused, reserved for operators this grammar does not define.
const (
	precLowest        = 0
	precAssign        = 1
	precAnnotation    = 2
	precPipe          = 3
	precCompose       = 4
	precOr            = 5
	precAnd           = 6
	precEquality      = 7
	precComparison    = 8
	precCons          = 11
	precConcat        = 12
	precAdditive      = 13
	precMultiplicative = 14
	precPrefix        = 15
	precCall          = 16
	precPrimary       = 17
)

// New parses a pre-tokenized source. The caller is expected to have run
// the lexer to completion first (lexing fails fast, per spec.md §4.1, so
// there is never a partial token stream to recover from).
func New(tokens []lexer.Token, file string) *Parser {
	p := &Parser{
		file:      file,
		tokens:    tokens,
		diags:     diag.NewBag(),
		maxErrors: DefaultMaxErrors,
		lastErrorTokenPos: -1,
	}
	p.prefixFns = make(map[lexer.Kind]prefixParseFn)
	p.infixFns = make(map[lexer.Kind]infixParseFn)
	p.prec = make(map[lexer.Kind]int)
	p.rightAssoc = make(map[lexer.Kind]bool)
	p.nonAssoc = make(map[lexer.Kind]bool)
	p.registerGrammar()

	p.pos = -1
	p.advance()
	p.advance()
	return p
}

// SetMaxErrors overrides DefaultMaxErrors; tests use a small cap to
// exercise recovery without constructing 10 broken declarations.
func (p *Parser) SetMaxErrors(n int) { p.maxErrors = n }

// Diagnostics returns every diagnostic collected during parsing.
func (p *Parser) Diagnostics() *diag.Bag { return p.diags }

func (p *Parser) registerPrefix(k lexer.Kind, fn prefixParseFn) { p.prefixFns[k] = fn }
func (p *Parser) registerInfix(k lexer.Kind, prec int, fn infixParseFn) {
	p.infixFns[k] = fn
	p.prec[k] = prec
}

// tokenAt returns the raw token at the given index without NEWLINE
// filtering, or an EOF token if out of range.
func (p *Parser) tokenAt(i int) lexer.Token {
	if i < 0 || i >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return lexer.Token{Kind: lexer.EOF, Pos: p.tokens[len(p.tokens)-1].Pos}
		}
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[i]
}

// nextSignificant scans forward from index i (inclusive) skipping NEWLINE
// tokens, returning the index of the first non-NEWLINE token and whether
// any NEWLINE was skipped along the way.
func (p *Parser) nextSignificant(i int) (idx int, sawNewline bool) {
	for i < len(p.tokens) && p.tokens[i].Kind == lexer.NEWLINE {
		sawNewline = true
		i++
	}
	return i, sawNewline
}

// advance moves cur to peek and recomputes peek, skipping NEWLINE tokens
// but remembering whether one was present (for ASI decisions).
func (p *Parser) advance() {
	nextPos, saw := p.nextSignificant(p.pos + 1)
	p.prevKind = p.cur.Kind
	p.cur = p.peek
	p.newlineBeforeCur = p.newlineBeforePeek
	p.pos = nextPos
	p.peek = p.tokenAt(nextPos)

	peekPos, sawPeek := p.nextSignificant(nextPos + 1)
	p.newlineBeforePeek = sawPeek
	_ = peekPos
}

func (p *Parser) curIs(k lexer.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k lexer.Kind) bool { return p.peek.Kind == k }

func (p *Parser) curPos() ast.Pos  { return lexer.ToASTPos(p.cur.Pos) }
func (p *Parser) peekPos() ast.Pos { return lexer.ToASTPos(p.peek.Pos) }

// expect advances past cur if it matches k, otherwise records a
// structured error and leaves cur in place so the caller's recovery path
// (usually synchronize) can take over.
func (p *Parser) expect(k lexer.Kind, code string, hint string) bool {
	if p.curIs(k) {
		p.advance()
		return true
	}
	p.errorf(code, p.curPos(), hint, "expected %s, found %s", k, p.cur.Kind)
	return false
}

func (p *Parser) errorf(code string, pos ast.Pos, hint string, format string, args ...interface{}) {
	if p.pos == p.lastErrorTokenPos {
		return // suppress cascades from the same stream position
	}
	if p.diags.Len() >= p.maxErrors {
		return
	}
	p.lastErrorTokenPos = p.pos
	d := diag.Errorf(code, pos, format, args...)
	if hint != "" {
		d = d.WithHint(hint)
	}
	p.diags.Add(d)
}

// tooManyErrors reports whether parsing should stop collecting new
// declarations because the cap has been reached.
func (p *Parser) tooManyErrors() bool { return p.diags.Len() >= p.maxErrors }

// declStartKinds are the tokens that begin a new top-level declaration or
// block statement; used both for ASI (spec.md §4.2.5) and for
// synchronize's recovery target (spec.md §4.2.6).
var declStartKinds = map[lexer.Kind]bool{
	lexer.LET: true, lexer.TYPE: true, lexer.MATCH: true, lexer.IF: true,
	lexer.EXTERNAL: true, lexer.IMPORT: true, lexer.EXPORT: true, lexer.WHILE: true,
}

// continuationKinds are tokens after/before which a newline never implies
// a statement separator — the two ends of a still-open expression.
var continuationKinds = map[lexer.Kind]bool{
	lexer.PIPEGT: true, lexer.RSHIFT2: true, lexer.LSHIFT2: true,
	lexer.OROR: true, lexer.ANDAND: true,
	lexer.EQEQ: true, lexer.NEQ: true, lexer.LT: true, lexer.LTE: true,
	lexer.GT: true, lexer.GTE: true, lexer.DCOLON: true, lexer.AMP: true,
	lexer.PLUS: true, lexer.MINUS: true, lexer.STAR: true, lexer.SLASH: true,
	lexer.PERCENT: true, lexer.DOT: true, lexer.COMMA: true,
	lexer.THEN: true, lexer.ELSE: true, lexer.LPAREN: true,
	lexer.FARROW: true, lexer.COLON: true, lexer.COLONEQ: true,
}

// synchronize recovers from a parse error by skipping tokens until a
// plausible declaration boundary: a top-level declaration keyword, or a
// balanced closing delimiter (spec.md §4.2.6).
func (p *Parser) synchronize() {
	depth := 0
	for !p.curIs(lexer.EOF) {
		switch p.cur.Kind {
		case lexer.LPAREN, lexer.LBRACE, lexer.LBRACKET:
			depth++
		case lexer.RPAREN, lexer.RBRACE, lexer.RBRACKET:
			if depth == 0 {
				p.advance()
				return
			}
			depth--
		case lexer.SEMI:
			if depth == 0 {
				p.advance()
				return
			}
		}
		if depth == 0 && declStartKinds[p.cur.Kind] && !p.curIs(lexer.IF) {
			return
		}
		p.advance()
	}
}

// atSeparatorBefore reports whether a statement/declaration separator exists
// between the token just consumed and cur: an explicit `;`, consumed by
// the caller beforehand, or an ASI opportunity per spec.md §4.2.5.
func (p *Parser) atSeparatorBefore(prevKind lexer.Kind) bool {
	if !p.newlineBeforeCur {
		return false
	}
	if continuationKinds[prevKind] || continuationKinds[p.cur.Kind] {
		return false
	}
	return declStartKinds[p.cur.Kind] || p.curIs(lexer.RBRACE)
}

// consumeStatementSeparator advances past an explicit `;` and reports true;
// reports false without advancing when cur is the stopKind (the caller's
// closing delimiter, so the prior expression is a trailing result); falls
// back to the ASI predicate otherwise (newline-implied separator, no token
// to consume).
func (p *Parser) consumeStatementSeparator(stopKind lexer.Kind) bool {
	if p.curIs(lexer.SEMI) {
		p.advance()
		return true
	}
	if p.curIs(stopKind) {
		return false
	}
	return p.atSeparatorBefore(p.prevKind)
}

// parseCommaList parses zero-or-more items separated by `,` up to (and
// consuming) close, allowing a trailing comma (spec.md §4.2.5: "Trailing
// commas are allowed in lists, records, tuples, call argument lists, type
// parameters").
func parseCommaList[T any](p *Parser, close lexer.Kind, parseOne func() T) []T {
	var items []T
	for !p.curIs(close) && !p.curIs(lexer.EOF) {
		items = append(items, parseOne())
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(close, diag.VF2002MissingToken, "add the missing closing delimiter")
	return items
}
