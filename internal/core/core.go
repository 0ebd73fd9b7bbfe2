// Package core defines the Core IR: the smaller, uniform grammar the
// desugarer lowers the surface AST into (spec.md §3.4). Every pipe,
// composition, block, if, list literal, multi-parameter lambda,
// or-pattern, and while-loop the parser accepts is gone by the time a
// program reaches this package — only the constructs listed here remain.
package core

import (
	"fmt"
	"strings"

	"github.com/vibefun-lang/vibefun/internal/ast"
)

// Node carries the bookkeeping every Core node needs: a stable ID
// assigned by the desugarer (used for capture-avoiding substitution
// without a rename pass, per spec.md §9) and both the Core-local and
// original surface positions, so diagnostics after desugaring still
// point at real source text.
type Node struct {
	NodeID   uint64
	Span     ast.Pos
	OrigSpan ast.Pos
}

func (n Node) ID() uint64        { return n.NodeID }
func (n Node) Position() ast.Pos { return n.Span }
func (n Node) Origin() ast.Pos   { return n.OrigSpan }

// Expr is the closed sum of Core expression forms.
type Expr interface {
	ID() uint64
	Position() ast.Pos
	Origin() ast.Pos
	String() string
	coreExpr()
}

// LitKind mirrors ast.LiteralKind for Core's own literal node.
type LitKind int

const (
	IntLit LitKind = iota
	FloatLit
	StringLit
	BoolLit
	UnitLit
)

// Lit is a literal constant.
type Lit struct {
	Node
	Kind  LitKind
	Value interface{}
}

func (l *Lit) coreExpr() {}
func (l *Lit) String() string {
	if l.Kind == UnitLit {
		return "()"
	}
	return fmt.Sprintf("%v", l.Value)
}

// Var is a variable reference, resolved to a binder by name (and, once
// desugared, additionally addressable by NodeID for substitution).
type Var struct {
	Node
	Name string
}

func (v *Var) coreExpr()      {}
func (v *Var) String() string { return v.Name }

// Lambda is always single-parameter in Core; the desugarer curries every
// surface multi-parameter lambda (spec.md §4.3 item 2).
type Lambda struct {
	Node
	Param string
	Body  Expr
}

func (l *Lambda) coreExpr()      {}
func (l *Lambda) String() string { return fmt.Sprintf("(%s) => %s", l.Param, l.Body) }

// Apply is single-argument application; a surface `f(a, b)` desugars to
// `Apply(Apply(f, a), b)`.
type Apply struct {
	Node
	Func Expr
	Arg  Expr
}

func (a *Apply) coreExpr()      {}
func (a *Apply) String() string { return fmt.Sprintf("%s(%s)", a.Func, a.Arg) }

// Let is a non-recursive binding. Mut records a surface `let mut`; the
// type checker enforces that a mutable binding's value type unifies with
// `Ref<_>` (spec.md §4.4.3) rather than the desugarer inserting an
// implicit `ref` — `mut` is a checked annotation, not sugar, since the
// language already has explicit ref/deref/assign.
type Let struct {
	Node
	Name  string
	Mut   bool
	Value Expr
	Body  Expr
}

func (l *Let) coreExpr() {}
func (l *Let) String() string {
	mut := ""
	if l.Mut {
		mut = "mut "
	}
	return fmt.Sprintf("let %s%s = %s in %s", mut, l.Name, l.Value, l.Body)
}

// RecBinding is one member of a mutually recursive group.
type RecBinding struct {
	Name  string
	Value Expr
}

// LetRec is a mutually recursive binding group, produced either directly
// from a surface `let rec ... and ...` or from SCC-grouping multiple
// `and`-bindings into their minimal recursive subsets.
type LetRec struct {
	Node
	Bindings []RecBinding
	Body     Expr
}

func (l *LetRec) coreExpr() {}
func (l *LetRec) String() string {
	names := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		names[i] = b.Name
	}
	return fmt.Sprintf("let rec %s in %s", strings.Join(names, " and "), l.Body)
}

// MatchArm is one arm of a Match: a Core pattern, an optional guard
// expression, and a body. Guards preserve sequential order — the optimizer may
// never reorder across one (spec.md §4.5.5).
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil if absent
	Body    Expr
}

// Match is the sole branching construct in Core; surface `if` desugars
// into a two-arm Match on `true`/`false` (spec.md §4.3 item 8).
type Match struct {
	Node
	Scrutinee Expr
	Arms      []MatchArm
}

func (m *Match) coreExpr() {}
func (m *Match) String() string {
	arms := make([]string, len(m.Arms))
	for i, a := range m.Arms {
		if a.Guard != nil {
			arms[i] = fmt.Sprintf("%s when %s => %s", a.Pattern, a.Guard, a.Body)
		} else {
			arms[i] = fmt.Sprintf("%s => %s", a.Pattern, a.Body)
		}
	}
	return fmt.Sprintf("match %s { | %s }", m.Scrutinee, strings.Join(arms, " | "))
}

// RecordFieldInit is one `name: value` entry of a RecordLit. A slice
// (not a map) keeps field order deterministic for printing and hashing.
type RecordFieldInit struct {
	Name  string
	Value Expr
}

// RecordLit constructs a record value.
type RecordLit struct {
	Node
	Fields []RecordFieldInit
}

func (r *RecordLit) coreExpr() {}
func (r *RecordLit) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// RecordUpdate survives desugaring unevaluated; the type checker resolves
// which fields of Base are overwritten (spec.md §4.3 item 11).
type RecordUpdate struct {
	Node
	Base   Expr
	Fields []RecordFieldInit
}

func (r *RecordUpdate) coreExpr() {}
func (r *RecordUpdate) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
	return fmt.Sprintf("{%s | %s}", r.Base, strings.Join(parts, ", "))
}

// RecordAccess is `r.field`.
type RecordAccess struct {
	Node
	Record Expr
	Field  string
}

func (r *RecordAccess) coreExpr()      {}
func (r *RecordAccess) String() string { return fmt.Sprintf("%s.%s", r.Record, r.Field) }

// VariantConstruct builds a nominal variant value, e.g. `Some(x)` or the
// nullary `None`. List sugar lowers to this with Name "Cons"/"Nil" only
// when treated as ordinary constructors; §4.3 item 5/6 instead route
// `Cons` through BinOp so pattern and expression position stay symmetric
// with the Cons *pattern*, which is a VariantPattern — both forms use the
// same constructor name so the type checker sees one identity.
type VariantConstruct struct {
	Node
	Name string
	Args []Expr
}

func (v *VariantConstruct) coreExpr() {}
func (v *VariantConstruct) String() string {
	if len(v.Args) == 0 {
		return v.Name
	}
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", v.Name, strings.Join(args, ", "))
}

// BinOp covers every Core binary operator, including list Cons (`::`,
// Op == "Cons") and mutable-reference assignment (`:=`, Op == "RefAssign")
// per spec.md §3.4.
type BinOp struct {
	Node
	Op    string
	Left  Expr
	Right Expr
}

func (b *BinOp) coreExpr()      {}
func (b *BinOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

// UnOp covers Core unary operators. Op is the literal surface token ("-" or
// "!"); `!` is overloaded the same way the binary arithmetic operators are
// (spec.md §4.4.3 "Numeric") — the desugarer cannot tell boolean negation
// from dereference apart without types, so the type checker is what
// disambiguates `!b : Bool -> Bool` from `!r : Ref<T> -> T` once it knows
// the operand's type.
type UnOp struct {
	Node
	Op      string
	Operand Expr
}

func (u *UnOp) coreExpr()      {}
func (u *UnOp) String() string { return fmt.Sprintf("%s%s", u.Op, u.Operand) }

// RefNew allocates a new mutable cell.
type RefNew struct {
	Node
	Value Expr
}

func (r *RefNew) coreExpr()      {}
func (r *RefNew) String() string { return fmt.Sprintf("ref %s", r.Value) }

// ExternalRef names a binding introduced by an `external` declaration;
// its type is an opaque schema and its purity is unknown to the optimizer.
type ExternalRef struct {
	Node
	Name string
}

func (e *ExternalRef) coreExpr()      {}
func (e *ExternalRef) String() string { return fmt.Sprintf("external(%s)", e.Name) }

// Unsafe preserves an `unsafe { ... }` boundary; the body is ordinary
// Core but the optimizer must treat the whole node as impure regardless
// of what it can prove about the body.
type Unsafe struct {
	Node
	Body Expr
}

func (u *Unsafe) coreExpr()      {}
func (u *Unsafe) String() string { return fmt.Sprintf("unsafe { %s }", u.Body) }

// Annotation is a surface `e : T` that survived desugaring; the type
// checker consumes Type as the expected type for Value and then discards
// the node, replacing it with Value carrying the resolved type.
type Annotation struct {
	Node
	Value Expr
	Type  ast.Type
}

func (a *Annotation) coreExpr()      {}
func (a *Annotation) String() string { return fmt.Sprintf("(%s : %s)", a.Value, a.Type) }

// TupleExpr constructs a fixed-arity tuple value; tuples pass through
// desugaring unchanged in shape (spec.md §4.3 item 15), mirroring
// TuplePattern on the pattern side.
type TupleExpr struct {
	Node
	Elements []Expr
}

func (t *TupleExpr) coreExpr() {}
func (t *TupleExpr) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// Pattern is the closed sum of Core pattern forms. Or-patterns are gone —
// the desugarer expands them into duplicated arms (spec.md §4.3 item 9).
type Pattern interface {
	String() string
	corePattern()
}

// WildcardPattern is `_`.
type WildcardPattern struct{}

func (w *WildcardPattern) corePattern()   {}
func (w *WildcardPattern) String() string { return "_" }

// VarPattern binds a name.
type VarPattern struct {
	Name string
}

func (v *VarPattern) corePattern()   {}
func (v *VarPattern) String() string { return v.Name }

// LitPattern matches a literal constant exactly.
type LitPattern struct {
	Kind  LitKind
	Value interface{}
}

func (l *LitPattern) corePattern()   {}
func (l *LitPattern) String() string { return fmt.Sprintf("%v", l.Value) }

// VariantPattern matches a nominal constructor, including the desugared
// `Cons(head, tail)` / `Nil` forms that surface list patterns lower to
// (spec.md §4.3 item 7).
type VariantPattern struct {
	Name string
	Args []Pattern
}

func (c *VariantPattern) corePattern() {}
func (c *VariantPattern) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

// RecordFieldPattern is one `name: pattern` entry of a RecordPattern.
type RecordFieldPattern struct {
	Name    string
	Pattern Pattern
}

// RecordPattern destructures a record by field name.
type RecordPattern struct {
	Fields []RecordFieldPattern
}

func (r *RecordPattern) corePattern() {}
func (r *RecordPattern) String() string {
	parts := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Pattern)
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}

// TuplePattern destructures a fixed-arity tuple.
type TuplePattern struct {
	Elements []Pattern
}

func (t *TuplePattern) corePattern() {}
func (t *TuplePattern) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}

// IsAtomic reports whether expr can appear directly as an operand
// (argument, operator operand, match scrutinee) without needing its own
// let-binding — true only for the handful of Core forms that evaluate
// without any intermediate step.
func IsAtomic(expr Expr) bool {
	switch expr.(type) {
	case *Var, *Lit, *Lambda:
		return true
	default:
		return false
	}
}

// Decl is the closed sum of top-level Core declarations.
type Decl interface {
	coreDecl()
}

// LetBinding is a top-level non-recursive binding.
type LetBinding struct {
	Name  string
	Mut   bool
	Value Expr
}

func (*LetBinding) coreDecl() {}

// LetRecBinding is a top-level mutually recursive group, already grouped
// into its minimal SCC by the desugarer.
type LetRecBinding struct {
	Bindings []RecBinding
}

func (*LetRecBinding) coreDecl() {}

// ExternalBinding names an external value and its declared (opaque)
// type schema.
type ExternalBinding struct {
	Name string
	Type ast.Type
}

func (*ExternalBinding) coreDecl() {}

// TypeDeclPassthrough carries a surface type declaration into Core
// unevaluated, so the type checker can populate its constructor/field
// environment from it (spec.md §4.3 item 13: type decls pass through).
type TypeDeclPassthrough struct {
	Decl *ast.TypeDecl
}

func (*TypeDeclPassthrough) coreDecl() {}

// ImportPassthrough and ReExportPassthrough carry module-linkage
// declarations through untouched; the (out-of-scope) module loader
// resolves them before the core ever runs.
type ImportPassthrough struct {
	Decl *ast.ImportDecl
}

func (*ImportPassthrough) coreDecl() {}

type ReExportPassthrough struct {
	Decl *ast.ReExportDecl
}

func (*ReExportPassthrough) coreDecl() {}

// Program is an entire desugared module: its declarations in source
// order (after `and`-group SCC reordering for mutual recursion).
type Program struct {
	Decls []Decl
}
