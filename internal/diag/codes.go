// Package diag provides the centralized, structured diagnostic taxonomy for
// the vibefun compiler core. Every phase of the pipeline reports failures
// and warnings as a Diagnostic carrying a stable VF<n>xxx code, a source
// location, and optional expected/actual types plus a hint.
package diag

// Severity distinguishes fatal diagnostics from advisory ones.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Code constants, partitioned by phase per spec §6.3:
//
//	VF1xxx Lexer, VF2xxx Parser, VF3xxx Desugarer,
//	VF4xxx Type checker (1-7xx errors, 9xx warnings), VF5xxx Modules.
const (
	// Lexer (VF1xxx)
	VF1001UnterminatedString  = "VF1001"
	VF1002UnterminatedComment = "VF1002"
	VF1003InvalidEscape       = "VF1003"
	VF1004MalformedNumber     = "VF1004"
	VF1005UnexpectedChar      = "VF1005"

	// Parser (VF2xxx)
	VF2001UnexpectedToken    = "VF2001"
	VF2002MissingToken       = "VF2002"
	VF2003TooManyErrors      = "VF2003"
	VF2004AmbiguousBlock     = "VF2004"
	VF2005InvalidTuple       = "VF2005"
	VF2006OperatorSection    = "VF2006"
	VF2007EmptyMatch         = "VF2007"
	VF2008MissingPipeInCase  = "VF2008"
	VF2009MissingCommaRecord = "VF2009"
	VF2010ReservedKeyword    = "VF2010"
	VF2011EmptyBlock         = "VF2011"

	// Desugarer (VF3xxx) — internal consistency errors only; a well-formed
	// surface AST never triggers these in normal operation.
	VF3001UnknownASTKind = "VF3001"
	VF3002InvalidPattern = "VF3002"

	// Type checker errors (VF4[1-7]xx)
	VF4100Mismatch           = "VF4100"
	VF4101NotAFunction       = "VF4101"
	VF4102UnknownIdentifier  = "VF4102"
	VF4103UnknownType        = "VF4103"
	VF4104UnknownConstructor = "VF4104"
	VF4200Arity              = "VF4200"
	VF4300OccursCheck        = "VF4300"
	VF4400NonExhaustive      = "VF4400"
	VF4500DuplicateField     = "VF4500"
	VF4501UnknownField       = "VF4501"
	VF4502MissingField       = "VF4502"
	VF4600ValueRestriction   = "VF4600"
	VF4601TypeEscape         = "VF4601"
	VF4700NominalMismatch    = "VF4700"
	VF4701GuardNotBoolean    = "VF4701"

	// Type checker warnings (VF49xx)
	VF4900UnreachableArm = "VF4900"

	// Modules (VF5xxx)
	VF5001MissingExport      = "VF5001"
	VF5002DuplicateExport    = "VF5002"
	VF5003CircularDependency = "VF5003" // warning
	VF5004UnresolvedImport   = "VF5004"
)

// Info describes an error code's taxonomy entry.
type Info struct {
	Code        string
	Phase       string
	Severity    Severity
	Description string
}

// Registry maps every known code to its taxonomy entry.
var Registry = map[string]Info{
	VF1001UnterminatedString:  {VF1001UnterminatedString, "lexer", Error, "Unterminated string literal"},
	VF1002UnterminatedComment: {VF1002UnterminatedComment, "lexer", Error, "Unterminated block comment"},
	VF1003InvalidEscape:       {VF1003InvalidEscape, "lexer", Error, "Invalid escape sequence"},
	VF1004MalformedNumber:     {VF1004MalformedNumber, "lexer", Error, "Malformed number literal"},
	VF1005UnexpectedChar:      {VF1005UnexpectedChar, "lexer", Error, "Unexpected character"},

	VF2001UnexpectedToken:    {VF2001UnexpectedToken, "parser", Error, "Unexpected token"},
	VF2002MissingToken:       {VF2002MissingToken, "parser", Error, "Missing expected token"},
	VF2003TooManyErrors:      {VF2003TooManyErrors, "parser", Error, "Too many parse errors"},
	VF2004AmbiguousBlock:     {VF2004AmbiguousBlock, "parser", Error, "Ambiguous block/record expression"},
	VF2005InvalidTuple:       {VF2005InvalidTuple, "parser", Error, "Tuple must have at least 2 elements"},
	VF2006OperatorSection:    {VF2006OperatorSection, "parser", Error, "Operator sections are not supported"},
	VF2007EmptyMatch:         {VF2007EmptyMatch, "parser", Error, "Match expression must have at least one case"},
	VF2008MissingPipeInCase:  {VF2008MissingPipeInCase, "parser", Error, "Expected '|' before match case"},
	VF2009MissingCommaRecord: {VF2009MissingCommaRecord, "parser", Error, "Expected ',' between record fields"},
	VF2010ReservedKeyword:    {VF2010ReservedKeyword, "parser", Error, "Reserved keyword cannot be used here"},
	VF2011EmptyBlock:         {VF2011EmptyBlock, "parser", Error, "Block must contain at least a trailing expression"},

	VF3001UnknownASTKind: {VF3001UnknownASTKind, "desugar", Error, "Unknown or unsupported AST node reached the desugarer"},
	VF3002InvalidPattern: {VF3002InvalidPattern, "desugar", Error, "Invalid pattern shape reached the desugarer"},

	VF4100Mismatch:           {VF4100Mismatch, "typecheck", Error, "Type mismatch"},
	VF4101NotAFunction:       {VF4101NotAFunction, "typecheck", Error, "Applied value is not a function"},
	VF4102UnknownIdentifier:  {VF4102UnknownIdentifier, "typecheck", Error, "Unknown identifier"},
	VF4103UnknownType:        {VF4103UnknownType, "typecheck", Error, "Unknown type"},
	VF4104UnknownConstructor: {VF4104UnknownConstructor, "typecheck", Error, "Unknown variant constructor"},
	VF4200Arity:              {VF4200Arity, "typecheck", Error, "Arity mismatch"},
	VF4300OccursCheck:        {VF4300OccursCheck, "typecheck", Error, "Infinite type (occurs check failed)"},
	VF4400NonExhaustive:      {VF4400NonExhaustive, "typecheck", Error, "Non-exhaustive pattern match"},
	VF4500DuplicateField:     {VF4500DuplicateField, "typecheck", Error, "Duplicate record field"},
	VF4501UnknownField:       {VF4501UnknownField, "typecheck", Error, "Unknown record field on closed row"},
	VF4502MissingField:       {VF4502MissingField, "typecheck", Error, "Missing record field"},
	VF4600ValueRestriction:   {VF4600ValueRestriction, "typecheck", Error, "Binding is not generalizable (value restriction)"},
	VF4601TypeEscape:         {VF4601TypeEscape, "typecheck", Error, "Type variable escapes its scope"},
	VF4700NominalMismatch:    {VF4700NominalMismatch, "typecheck", Error, "Nominal type mismatch"},
	VF4701GuardNotBoolean:    {VF4701GuardNotBoolean, "typecheck", Error, "Match guard must have type Bool"},

	VF4900UnreachableArm: {VF4900UnreachableArm, "typecheck", Warning, "Unreachable match arm"},

	VF5001MissingExport:      {VF5001MissingExport, "module", Error, "Export not found in module"},
	VF5002DuplicateExport:    {VF5002DuplicateExport, "module", Error, "Duplicate export"},
	VF5003CircularDependency: {VF5003CircularDependency, "module", Warning, "Circular value dependency"},
	VF5004UnresolvedImport:   {VF5004UnresolvedImport, "module", Error, "Unresolved import"},
}

// Lookup returns the taxonomy entry for a code, if known.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}
