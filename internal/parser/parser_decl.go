package parser

import (
	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/lexer"
)

// ParseFile parses an entire module: a sequence of top-level declarations
// separated by `;` or ASI, recovering at declaration boundaries on error
// (spec.md §4.2.6).
func ParseFile(tokens []lexer.Token, file string) (*ast.File, *diag.Bag) {
	p := New(tokens, file)
	f := p.parseModule(file)
	return f, p.diags
}

func (p *Parser) parseModule(file string) *ast.File {
	pos := p.curPos()
	var decls []ast.Decl
	for !p.curIs(lexer.EOF) {
		if p.tooManyErrors() {
			p.diags.Add(diag.Errorf(diag.VF2003TooManyErrors, p.curPos(), "too many parse errors, stopping"))
			break
		}
		d := p.parseDecl()
		if d != nil {
			decls = append(decls, d)
		}
		if len(p.pendingDecls) > 0 {
			decls = append(decls, p.pendingDecls...)
			p.pendingDecls = nil
		}
		if !p.consumeStatementSeparator(lexer.EOF) && !p.curIs(lexer.EOF) {
			p.errorf(diag.VF2001UnexpectedToken, p.curPos(), "declarations must be separated by a newline or ';'", "unexpected token %s after declaration", p.cur.Kind)
			p.synchronize()
		}
	}
	return &ast.File{Path: file, Decls: decls, Pos: pos}
}

// parseDecl parses one top-level declaration, handling the leading
// `export` modifier uniformly across every declaration form.
func (p *Parser) parseDecl() ast.Decl {
	exported := false
	if p.curIs(lexer.EXPORT) {
		exported = true
		p.advance()
		if p.curIs(lexer.LBRACE) {
			return p.parseReExport()
		}
	}

	switch p.cur.Kind {
	case lexer.LET:
		return p.parseTopLevelLet(exported)
	case lexer.TYPE:
		return p.parseTypeDecl(exported)
	case lexer.EXTERNAL:
		return p.parseExternalDecl(exported)
	case lexer.IMPORT:
		return p.parseImportDecl()
	default:
		pos := p.curPos()
		p.errorf(diag.VF2001UnexpectedToken, pos, "expected a declaration: let, type, external, or import", "unexpected token %s at top level", p.cur.Kind)
		p.synchronize()
		return nil
	}
}

func (p *Parser) parseTopLevelLet(exported bool) ast.Decl {
	pos := p.curPos()
	p.advance() // 'let'
	if p.curIs(lexer.REC) {
		p.advance()
		var bindings []*ast.RecBinding
		bindings = append(bindings, p.parseRecBinding())
		for p.curIs(lexer.AND) {
			p.advance()
			bindings = append(bindings, p.parseRecBinding())
		}
		return &ast.LetRecDecl{Bindings: bindings, Exported: exported, Pos: pos}
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
	return &ast.LetDecl{Name: name, Mut: mut, TypeAnn: typeAnn, Value: value, Exported: exported, Pos: pos}
}

// parseTypeDecl parses `type Name<T...> = <alias type | variant | record>`.
func (p *Parser) parseTypeDecl(exported bool) ast.Decl {
	pos := p.curPos()
	p.advance() // 'type'
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a type name")

	var typeParams []string
	if p.curIs(lexer.LT) {
		p.advance()
		for !p.curIs(lexer.GT) && !p.curIs(lexer.EOF) {
			typeParams = append(typeParams, p.cur.Literal)
			p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a type parameter name")
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(lexer.GT, diag.VF2002MissingToken, "add the missing '>'")
	}

	p.expect(lexer.EQ, diag.VF2002MissingToken, "add '=' before the type definition")

	var def ast.TypeDef
	switch {
	case p.curIs(lexer.LBRACE):
		def = p.parseRecordDef()
	case p.curIs(lexer.PIPE):
		def = p.parseVariantDef()
	case p.curIs(lexer.IDENT) && isUpperIdent(p.cur.Literal) && p.peekIs(lexer.LPAREN):
		// An uppercase name directly followed by '(' can only be a
		// constructor application — type references never use bare
		// call syntax, so this is unambiguous without backtracking.
		ctors := []*ast.VariantConstructor{p.parseVariantConstructor()}
		for p.curIs(lexer.PIPE) {
			p.advance()
			ctors = append(ctors, p.parseVariantConstructor())
		}
		def = &ast.VariantDef{Constructors: ctors}
	default:
		def = &ast.AliasDef{Target: p.parseType()}
	}

	return &ast.TypeDecl{Name: name, TypeParams: typeParams, Def: def, Exported: exported, Pos: pos}
}

func (p *Parser) parseRecordDef() ast.TypeDef {
	p.advance() // '{'
	var fields []*ast.RecordTypeField
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
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
	return &ast.RecordDef{Fields: fields}
}

func (p *Parser) parseVariantDef() ast.TypeDef {
	var ctors []*ast.VariantConstructor
	for p.curIs(lexer.PIPE) {
		p.advance()
		ctors = append(ctors, p.parseVariantConstructor())
	}
	return &ast.VariantDef{Constructors: ctors}
}

func (p *Parser) parseVariantConstructor() *ast.VariantConstructor {
	pos := p.curPos()
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a constructor name")
	var fields []ast.Type
	if p.curIs(lexer.LPAREN) {
		p.advance()
		fields = parseCommaList(p, lexer.RPAREN, p.parseType)
	}
	return &ast.VariantConstructor{Name: name, Fields: fields, Pos: pos}
}

// parseExternalDecl parses `external name<T...> : Type` or the block form
// `external { name1 : T1, name2 : T2 }` (spec.md §4.3 item 13), the latter
// desugared here into one ExternalDecl per member.
func (p *Parser) parseExternalDecl(exported bool) ast.Decl {
	pos := p.curPos()
	p.advance() // 'external'
	if p.curIs(lexer.LBRACE) {
		return p.parseExternalBlock(exported, pos)
	}
	return p.parseExternalMember(exported, pos)
}

func (p *Parser) parseExternalMember(exported bool, pos ast.Pos) *ast.ExternalDecl {
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected an external binding name")

	var typeParams []string
	if p.curIs(lexer.LT) {
		p.advance()
		for !p.curIs(lexer.GT) && !p.curIs(lexer.EOF) {
			typeParams = append(typeParams, p.cur.Literal)
			p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a type parameter name")
			if p.curIs(lexer.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(lexer.GT, diag.VF2002MissingToken, "add the missing '>'")
	}

	p.expect(lexer.COLON, diag.VF2002MissingToken, "add ':' before the external binding's type")
	t := p.parseType()
	return &ast.ExternalDecl{Name: name, TypeParams: typeParams, Type: t, Exported: exported, Pos: pos}
}

// parseExternalBlock parses the members of an `external { ... }` block and
// returns the first member as the Decl result; a block with more than one
// member has its remaining members queued on p.pendingDecls for parseModule
// to splice in, since parseDecl's signature returns a single Decl.
func (p *Parser) parseExternalBlock(exported bool, pos ast.Pos) ast.Decl {
	p.advance() // '{'
	var members []*ast.ExternalDecl
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		memberPos := p.curPos()
		members = append(members, p.parseExternalMember(exported, memberPos))
		if !p.consumeStatementSeparator(lexer.RBRACE) {
			break
		}
	}
	p.expect(lexer.RBRACE, diag.VF2002MissingToken, "add the missing '}'")
	if len(members) == 0 {
		p.errorf(diag.VF2001UnexpectedToken, pos, "", "external block has no members")
		return nil
	}
	p.pendingDecls = append(p.pendingDecls, toDeclSlice(members[1:])...)
	return members[0]
}

func toDeclSlice(members []*ast.ExternalDecl) []ast.Decl {
	decls := make([]ast.Decl, len(members))
	for i, m := range members {
		decls[i] = m
	}
	return decls
}

// parseImportedNames parses the `{a, b as c, type D}` name-list shared by
// named imports and re-exports.
func (p *Parser) parseImportedNames() []*ast.ImportedName {
	p.advance() // '{'
	names := parseCommaList(p, lexer.RBRACE, p.parseImportedName)
	return names
}

func (p *Parser) parseImportedName() *ast.ImportedName {
	pos := p.curPos()
	typeOnly := false
	if p.curIs(lexer.TYPE) {
		typeOnly = true
		p.advance()
	}
	name := p.cur.Literal
	p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected an imported name")
	alias := ""
	if p.curIs(lexer.AS) {
		p.advance()
		alias = p.cur.Literal
		p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected an alias name after 'as'")
	}
	return &ast.ImportedName{Name: name, Alias: alias, TypeOnly: typeOnly, Pos: pos}
}

func (p *Parser) parseStringPathLiteral() string {
	lit := p.cur.Literal
	p.expect(lexer.STRING, diag.VF2001UnexpectedToken, "expected a module path string")
	return lit
}

// parseImportDecl parses `import {a, b as c} from "./path"` or
// `import * as ns from "./path"`.
func (p *Parser) parseImportDecl() ast.Decl {
	pos := p.curPos()
	p.advance() // 'import'

	if p.curIs(lexer.STAR) {
		p.advance()
		p.expect(lexer.AS, diag.VF2002MissingToken, "add 'as' before the namespace alias")
		ns := p.cur.Literal
		p.expect(lexer.IDENT, diag.VF2001UnexpectedToken, "expected a namespace alias")
		p.expect(lexer.FROM, diag.VF2002MissingToken, "add 'from' before the module path")
		path := p.parseStringPathLiteral()
		return &ast.ImportDecl{Kind: ast.ImportNamespace, Path: path, Namespace: ns, Pos: pos}
	}

	names := p.parseImportedNames()
	p.expect(lexer.FROM, diag.VF2002MissingToken, "add 'from' before the module path")
	path := p.parseStringPathLiteral()
	return &ast.ImportDecl{Kind: ast.ImportNamed, Path: path, Names: names, Pos: pos}
}

// parseReExport parses `export {a, b as c} from "./path"`, called after
// the leading 'export' keyword has already been consumed.
func (p *Parser) parseReExport() ast.Decl {
	pos := p.curPos()
	names := p.parseImportedNames()
	p.expect(lexer.FROM, diag.VF2002MissingToken, "add 'from' before the module path")
	path := p.parseStringPathLiteral()
	return &ast.ReExportDecl{Path: path, Names: names, Pos: pos}
}
