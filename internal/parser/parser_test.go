package parser

import (
	"testing"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/lexer"
)

func mustParseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	toks, lexErr := lexer.Tokenize([]byte(src), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	expr := p.parseExpression(precLowest)
	if p.diags.HasErrors() {
		t.Fatalf("unexpected parse errors for %q: %v", src, p.diags.Errors())
	}
	return expr
}

func parseFileDiags(t *testing.T, src string) (*ast.File, *diag.Bag) {
	t.Helper()
	toks, lexErr := lexer.Tokenize([]byte(src), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	return ParseFile(toks, "test://unit")
}

func TestPrecedenceAdditiveMultiplicative(t *testing.T) {
	expr := mustParseExpr(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.BinaryOp)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %s", expr)
	}
	rhs, ok := bin.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' nested on the right, got %s", bin.Right)
	}
}

func TestPrecedenceComparisonVsEquality(t *testing.T) {
	// a == b < c should parse as a == (b < c): comparison binds tighter.
	expr := mustParseExpr(t, "a == b < c")
	top, ok := expr.(*ast.BinaryOp)
	if !ok || top.Op != "==" {
		t.Fatalf("expected top-level '==', got %s", expr)
	}
	rhs, ok := top.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "<" {
		t.Fatalf("expected '<' nested on the right, got %s", top.Right)
	}
}

func TestNonAssocEqualityRejectsChaining(t *testing.T) {
	toks, lexErr := lexer.Tokenize([]byte("a == b == c"), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	p.parseExpression(precLowest)
	if !p.diags.HasErrors() {
		t.Fatal("expected an error for chained '==', got none")
	}
}

func TestNonAssocComparisonDoesNotBlockDifferentOperators(t *testing.T) {
	// a < b == c is fine: '<' then '==' are different non-assoc precedences.
	expr := mustParseExpr(t, "a < b == c")
	top, ok := expr.(*ast.BinaryOp)
	if !ok || top.Op != "==" {
		t.Fatalf("expected top-level '==', got %s", expr)
	}
	if _, ok := top.Left.(*ast.BinaryOp); !ok {
		t.Fatalf("expected '<' nested on the left, got %s", top.Left)
	}
}

func TestConsIsRightAssociative(t *testing.T) {
	expr := mustParseExpr(t, "a :: b :: c")
	top, ok := expr.(*ast.BinaryOp)
	if !ok || top.Op != "::" {
		t.Fatalf("expected top-level '::', got %s", expr)
	}
	if _, ok := top.Left.(*ast.Identifier); !ok {
		t.Fatalf("expected bare identifier on the left of right-assoc cons, got %s", top.Left)
	}
	rhs, ok := top.Right.(*ast.BinaryOp)
	if !ok || rhs.Op != "::" {
		t.Fatalf("expected nested '::' on the right, got %s", top.Right)
	}
}

func TestPipeLeftAssociative(t *testing.T) {
	expr := mustParseExpr(t, "a |> f |> g")
	top, ok := expr.(*ast.Pipe)
	if !ok {
		t.Fatalf("expected top-level Pipe, got %s", expr)
	}
	if _, ok := top.Left.(*ast.Pipe); !ok {
		t.Fatalf("expected nested Pipe on the left (left-assoc), got %s", top.Left)
	}
}

func TestLambdaRequiresArrow(t *testing.T) {
	expr := mustParseExpr(t, "(x, y) => x + y")
	lam, ok := expr.(*ast.Lambda)
	if !ok {
		t.Fatalf("expected Lambda, got %s", expr)
	}
	if len(lam.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(lam.Params))
	}
}

func TestZeroParamLambda(t *testing.T) {
	expr := mustParseExpr(t, "() => 42")
	lam, ok := expr.(*ast.Lambda)
	if !ok || len(lam.Params) != 0 {
		t.Fatalf("expected zero-param Lambda, got %s", expr)
	}
}

func TestParenthesizedIsNotATuple(t *testing.T) {
	expr := mustParseExpr(t, "(1 + 2)")
	if _, ok := expr.(*ast.TupleExpr); ok {
		t.Fatalf("single parenthesized expression must not become a tuple, got %s", expr)
	}
}

func TestTupleRequiresAtLeastTwoElements(t *testing.T) {
	toks, lexErr := lexer.Tokenize([]byte("(1,)"), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	p.parseExpression(precLowest)
	if !p.diags.HasErrors() {
		t.Fatal("expected an error for a single-element trailing-comma tuple")
	}
}

func TestOperatorSectionRejected(t *testing.T) {
	toks, lexErr := lexer.Tokenize([]byte("(+)"), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	p.parseExpression(precLowest)
	if !p.diags.HasErrors() {
		t.Fatal("expected an error for an operator section")
	}
}

func TestBraceDisambiguation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // "block", "record", "update"
	}{
		{"block keyword let", "{ let x = 1 in x }", "block"},
		{"record shorthand", "{ x }", "record"},
		{"record field", "{ x: 1, y: 2 }", "record"},
		{"record update", "{ r | x: 1 }", "update"},
		{"explicit semicolon forces block", "{ f(x); g(y) }", "block"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := mustParseExpr(t, tt.src)
			switch tt.want {
			case "block":
				if _, ok := expr.(*ast.Block); !ok {
					t.Fatalf("expected Block, got %T", expr)
				}
			case "record":
				if _, ok := expr.(*ast.RecordLit); !ok {
					t.Fatalf("expected RecordLit, got %T", expr)
				}
			case "update":
				if _, ok := expr.(*ast.RecordUpdate); !ok {
					t.Fatalf("expected RecordUpdate, got %T", expr)
				}
			}
		})
	}
}

func TestAmbiguousBraceIsAnError(t *testing.T) {
	toks, lexErr := lexer.Tokenize([]byte("{ f(x) }"), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	p.parseExpression(precLowest)
	if !p.diags.HasErrors() {
		t.Fatal("expected an ambiguity error for a bare-expression brace body")
	}
}

func TestMatchRequiresAtLeastOneCase(t *testing.T) {
	toks, lexErr := lexer.Tokenize([]byte("match x { }"), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	p.parseExpression(precLowest)
	if !p.diags.HasErrors() {
		t.Fatal("expected an error for a match with zero cases")
	}
}

func TestMatchWithGuard(t *testing.T) {
	expr := mustParseExpr(t, "match x { | Some(n) when n > 0 => n | _ => 0 }")
	m, ok := expr.(*ast.Match)
	if !ok {
		t.Fatalf("expected Match, got %T", expr)
	}
	if len(m.Cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(m.Cases))
	}
	if m.Cases[0].Guard == nil {
		t.Fatal("expected a guard on the first case")
	}
	ctor, ok := m.Cases[0].Pattern.(*ast.ConstructorPattern)
	if !ok || ctor.Name != "Some" {
		t.Fatalf("expected ConstructorPattern Some, got %s", m.Cases[0].Pattern)
	}
}

func TestOrPatternNesting(t *testing.T) {
	expr := mustParseExpr(t, "match x { | Some(1 | 2) => 0 | _ => 1 }")
	m := expr.(*ast.Match)
	ctor, ok := m.Cases[0].Pattern.(*ast.ConstructorPattern)
	if !ok {
		t.Fatalf("expected ConstructorPattern, got %s", m.Cases[0].Pattern)
	}
	if len(ctor.Args) != 1 {
		t.Fatalf("expected 1 constructor arg, got %d", len(ctor.Args))
	}
	if _, ok := ctor.Args[0].(*ast.OrPattern); !ok {
		t.Fatalf("expected a nested OrPattern, got %T", ctor.Args[0])
	}
}

func TestLetRequiresIn(t *testing.T) {
	toks, lexErr := lexer.Tokenize([]byte("let x = 1 { x }"), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	p.parseExpression(precLowest)
	if !p.diags.HasErrors() {
		t.Fatal("expected a missing-'in' error")
	}
}

func TestLetRecWithAnd(t *testing.T) {
	expr := mustParseExpr(t, "let rec isEven = (n) => n and isOdd = (n) => n in isEven")
	lr, ok := expr.(*ast.LetRec)
	if !ok {
		t.Fatalf("expected LetRec, got %T", expr)
	}
	if len(lr.Bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(lr.Bindings))
	}
}

func TestASIInsertsSeparatorOnNewline(t *testing.T) {
	src := "{\n  let x = 1 in\n  x\n}"
	expr := mustParseExpr(t, src)
	if _, ok := expr.(*ast.Block); !ok {
		t.Fatalf("expected Block, got %T", expr)
	}
}

func TestASIDoesNotSplitContinuationLines(t *testing.T) {
	src := "{\n  1 +\n  2\n}"
	expr := mustParseExpr(t, src)
	block, ok := expr.(*ast.Block)
	if !ok {
		t.Fatalf("expected Block, got %T", expr)
	}
	if len(block.Stmts) != 0 {
		t.Fatalf("expected the '+' to continue across the newline with no statement split, got %d stmts", len(block.Stmts))
	}
	if _, ok := block.Result.(*ast.BinaryOp); !ok {
		t.Fatalf("expected the block result to be the '+' expression, got %T", block.Result)
	}
}

func TestTopLevelLetDecl(t *testing.T) {
	f, diags := parseFileDiags(t, "let x = 1")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	if len(f.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(f.Decls))
	}
	ld, ok := f.Decls[0].(*ast.LetDecl)
	if !ok || ld.Name != "x" {
		t.Fatalf("expected LetDecl x, got %s", f.Decls[0])
	}
}

func TestTopLevelExportedLet(t *testing.T) {
	f, diags := parseFileDiags(t, "export let x = 1")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	ld := f.Decls[0].(*ast.LetDecl)
	if !ld.Exported {
		t.Fatal("expected Exported to be true")
	}
}

func TestTopLevelVariantTypeDecl(t *testing.T) {
	f, diags := parseFileDiags(t, "type Option<t> = Some(t) | None")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	td := f.Decls[0].(*ast.TypeDecl)
	if td.Name != "Option" || len(td.TypeParams) != 1 {
		t.Fatalf("expected Option<t>, got %s params=%v", td.Name, td.TypeParams)
	}
	vd, ok := td.Def.(*ast.VariantDef)
	if !ok || len(vd.Constructors) != 2 {
		t.Fatalf("expected 2 constructors, got %+v", td.Def)
	}
	if vd.Constructors[0].Name != "Some" || len(vd.Constructors[0].Fields) != 1 {
		t.Fatalf("expected Some(t), got %+v", vd.Constructors[0])
	}
	if _, ok := vd.Constructors[0].Fields[0].(*ast.TypeVarRef); !ok {
		t.Fatalf("expected a TypeVarRef field, got %T", vd.Constructors[0].Fields[0])
	}
	if vd.Constructors[1].Name != "None" || len(vd.Constructors[1].Fields) != 0 {
		t.Fatalf("expected nullary None, got %+v", vd.Constructors[1])
	}
}

func TestTopLevelAliasTypeDecl(t *testing.T) {
	f, diags := parseFileDiags(t, "type Celsius = Float")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	td := f.Decls[0].(*ast.TypeDecl)
	if _, ok := td.Def.(*ast.AliasDef); !ok {
		t.Fatalf("expected AliasDef, got %T", td.Def)
	}
}

func TestTopLevelRecordTypeDecl(t *testing.T) {
	f, diags := parseFileDiags(t, "type Point = { x: Int, y: Int }")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	td := f.Decls[0].(*ast.TypeDecl)
	rd, ok := td.Def.(*ast.RecordDef)
	if !ok || len(rd.Fields) != 2 {
		t.Fatalf("expected a 2-field RecordDef, got %+v", td.Def)
	}
}

func TestExternalBlockExpandsToMultipleDecls(t *testing.T) {
	f, diags := parseFileDiags(t, "external { foo : Int, bar : String }")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	if len(f.Decls) != 2 {
		t.Fatalf("expected 2 decls from the external block, got %d", len(f.Decls))
	}
	if _, ok := f.Decls[0].(*ast.ExternalDecl); !ok {
		t.Fatalf("expected ExternalDecl, got %T", f.Decls[0])
	}
	if _, ok := f.Decls[1].(*ast.ExternalDecl); !ok {
		t.Fatalf("expected ExternalDecl, got %T", f.Decls[1])
	}
}

func TestNamedImport(t *testing.T) {
	f, diags := parseFileDiags(t, `import { foo, bar as baz } from "./mod"`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	imp := f.Decls[0].(*ast.ImportDecl)
	if imp.Kind != ast.ImportNamed || imp.Path != "./mod" || len(imp.Names) != 2 {
		t.Fatalf("unexpected import decl: %+v", imp)
	}
	if imp.Names[1].Alias != "baz" {
		t.Fatalf("expected alias 'baz', got %q", imp.Names[1].Alias)
	}
}

func TestNamespaceImport(t *testing.T) {
	f, diags := parseFileDiags(t, `import * as ns from "./mod"`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	imp := f.Decls[0].(*ast.ImportDecl)
	if imp.Kind != ast.ImportNamespace || imp.Namespace != "ns" {
		t.Fatalf("unexpected import decl: %+v", imp)
	}
}

func TestReExport(t *testing.T) {
	f, diags := parseFileDiags(t, `export { foo } from "./mod"`)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	if _, ok := f.Decls[0].(*ast.ReExportDecl); !ok {
		t.Fatalf("expected ReExportDecl, got %T", f.Decls[0])
	}
}

func TestMultiDeclErrorRecovery(t *testing.T) {
	src := "let x = +\nlet y = 2\nlet z = 3"
	f, diags := parseFileDiags(t, src)
	if !diags.HasErrors() {
		t.Fatal("expected at least one error from the malformed first declaration")
	}
	// synchronize() should still let y and z parse as good declarations.
	var names []string
	for _, d := range f.Decls {
		if ld, ok := d.(*ast.LetDecl); ok {
			names = append(names, ld.Name)
		}
	}
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["y"] || !found["z"] {
		t.Fatalf("expected recovery to still find 'y' and 'z', got %v", names)
	}
}

func TestMaxErrorsCap(t *testing.T) {
	// Five consecutive malformed declarations (a bare int literal is not a
	// valid declaration start) against a cap of 2.
	src := "1;\n2;\n3;\n4;\n5;\n"
	toks, lexErr := lexer.Tokenize([]byte(src), "test://unit")
	if lexErr != nil {
		t.Fatalf("lex error: %v", lexErr)
	}
	p := New(toks, "test://unit")
	p.SetMaxErrors(2)
	p.parseModule("test://unit")
	if p.diags.Len() > 3 { // 2 real errors + 1 "too many errors" marker
		t.Fatalf("expected the error cap to stop collection, got %d diagnostics", p.diags.Len())
	}
}

func TestFunctionType(t *testing.T) {
	f, diags := parseFileDiags(t, "external compute : (Int, Int) -> Int")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	ext := f.Decls[0].(*ast.ExternalDecl)
	ft, ok := ext.Type.(*ast.FuncType)
	if !ok || len(ft.Params) != 2 {
		t.Fatalf("expected a 2-param FuncType, got %+v", ext.Type)
	}
}

func TestOpenRecordType(t *testing.T) {
	f, diags := parseFileDiags(t, "external widen : { x: Int, ... } -> Int")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	ext := f.Decls[0].(*ast.ExternalDecl)
	ft := ext.Type.(*ast.FuncType)
	rt, ok := ft.Params[0].(*ast.RecordType)
	if !ok || !rt.Open {
		t.Fatalf("expected an open RecordType param, got %+v", ft.Params[0])
	}
}

func TestOpaqueExternalType(t *testing.T) {
	f, diags := parseFileDiags(t, "external magic : Type")
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %v", diags.Errors())
	}
	ext := f.Decls[0].(*ast.ExternalDecl)
	if _, ok := ext.Type.(*ast.OpaqueType); !ok {
		t.Fatalf("expected OpaqueType, got %T", ext.Type)
	}
}
