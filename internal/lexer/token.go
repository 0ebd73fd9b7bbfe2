// Package lexer tokenizes vibefun source text: Unicode-aware, maximal-munch,
// NFC-normalizing, with newlines preserved as tokens so the parser (not the
// lexer) owns automatic semicolon insertion.
package lexer

import "fmt"

// Kind identifies the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT
	INT
	FLOAT
	STRING
	BOOL

	// Keywords
	LET
	MUT
	REC
	AND
	TYPE
	IF
	THEN
	ELSE
	MATCH
	WHEN
	IMPORT
	EXPORT
	FROM
	AS
	EXTERNAL
	UNSAFE
	REF
	WHILE
	TRY
	CATCH

	// Reserved (tokenized, but rejected by the parser if encountered)
	ASYNC
	AWAIT
	TRAIT
	IMPL
	WHERE
	DO
	YIELD
	RETURN

	// Operators (maximal munch, see §6.2)
	COLONEQ  // :=
	DCOLON   // ::
	ARROW    // ->
	FARROW   // =>
	DOTDOT   // ..
	ELLIPSIS // ...
	PIPEGT   // |>
	RSHIFT2  // >>
	LSHIFT2  // <<
	EQEQ     // ==
	NEQ      // !=
	LTE      // <=
	GTE      // >=
	ANDAND   // &&
	OROR     // ||
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	AMP // &
	EQ
	LT
	GT
	BANG
	PIPE // |
	COLON
	DOT
	COMMA
	SEMI

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	NEWLINE
)

var names = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF",
	IDENT: "IDENT", INT: "INT", FLOAT: "FLOAT", STRING: "STRING", BOOL: "BOOL",

	LET: "let", MUT: "mut", REC: "rec", AND: "and", TYPE: "type",
	IF: "if", THEN: "then", ELSE: "else", MATCH: "match", WHEN: "when",
	IMPORT: "import", EXPORT: "export", FROM: "from", AS: "as",
	EXTERNAL: "external", UNSAFE: "unsafe", REF: "ref", WHILE: "while",
	TRY: "try", CATCH: "catch",

	ASYNC: "async", AWAIT: "await", TRAIT: "trait", IMPL: "impl",
	WHERE: "where", DO: "do", YIELD: "yield", RETURN: "return",

	COLONEQ: ":=", DCOLON: "::", ARROW: "->", FARROW: "=>",
	DOTDOT: "..", ELLIPSIS: "...", PIPEGT: "|>", RSHIFT2: ">>", LSHIFT2: "<<",
	EQEQ: "==", NEQ: "!=", LTE: "<=", GTE: ">=", ANDAND: "&&", OROR: "||",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", AMP: "&",
	EQ: "=", LT: "<", GT: ">", BANG: "!", PIPE: "|", COLON: ":",
	DOT: ".", COMMA: ",", SEMI: ";",

	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]",

	NEWLINE: "\\n",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var keywords = map[string]Kind{
	"let": LET, "mut": MUT, "rec": REC, "and": AND, "type": TYPE,
	"if": IF, "then": THEN, "else": ELSE, "match": MATCH, "when": WHEN,
	"import": IMPORT, "export": EXPORT, "from": FROM, "as": AS,
	"external": EXTERNAL, "unsafe": UNSAFE, "ref": REF, "while": WHILE,
	"try": TRY, "catch": CATCH,
	"async": ASYNC, "await": AWAIT, "trait": TRAIT, "impl": IMPL,
	"where": WHERE, "do": DO, "yield": YIELD, "return": RETURN,
}

// reservedKeywords is the subset of keywords that lex cleanly but are
// rejected with a parser-level diagnostic wherever they appear (spec §4.1
// rule 4).
var reservedKeywords = map[Kind]bool{
	ASYNC: true, AWAIT: true, TRAIT: true, IMPL: true,
	WHERE: true, DO: true, YIELD: true, RETURN: true,
}

// IsReserved reports whether k is a reserved-but-unusable keyword.
func IsReserved(k Kind) bool { return reservedKeywords[k] }

// LookupIdent classifies an identifier as a keyword, bool literal, or a
// plain IDENT.
func LookupIdent(ident string) Kind {
	if ident == "true" || ident == "false" {
		return BOOL
	}
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Token is a tagged lexical unit: kind, literal payload text, and location.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Pos
}

// Pos mirrors ast.Pos's shape as the lexer's own position type;
// ToASTPos (posadapter.go) converts it to an ast.Pos for the parser.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

func (t Token) String() string {
	return fmt.Sprintf("Token{%s, %q, %s}", t.Kind, t.Literal, t.Pos)
}
