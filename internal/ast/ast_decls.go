package ast

import (
	"fmt"
	"strings"
)

// LetDecl is a top-level, non-recursive (possibly mutable) binding.
type LetDecl struct {
	Name     string
	Mut      bool
	TypeAnn  Type
	Value    Expr
	Exported bool
	Pos      Pos
}

func (l *LetDecl) Position() Pos { return l.Pos }
func (l *LetDecl) declNode()     {}
func (l *LetDecl) String() string {
	export := ""
	if l.Exported {
		export = "export "
	}
	return fmt.Sprintf("%slet %s = %s", export, l.Name, l.Value)
}

// LetRecDecl is a top-level `let rec name1 = e1 and name2 = e2 ...` group.
// The desugarer groups these further into minimal SCCs before lowering to
// Core `LetRec` nodes (spec.md §4.3 supplement, grounded on Tarjan SCC).
type LetRecDecl struct {
	Bindings []*RecBinding
	Exported bool
	Pos      Pos
}

func (l *LetRecDecl) Position() Pos { return l.Pos }
func (l *LetRecDecl) declNode()     {}
func (l *LetRecDecl) String() string {
	names := make([]string, len(l.Bindings))
	for i, b := range l.Bindings {
		names[i] = b.Name
	}
	return fmt.Sprintf("let rec %s", strings.Join(names, " and "))
}

// TypeDef is the closed sum of right-hand sides a `type` declaration may
// have: a plain alias, a sum-type (variant) definition, or a record shape.
type TypeDef interface {
	typeDefNode()
}

// AliasDef is `type Name = <existing type expression>`.
type AliasDef struct {
	Target Type
}

func (a *AliasDef) typeDefNode() {}

// VariantConstructor is one `Ctor(T1, T2, ...)` alternative; a nullary
// constructor has an empty Fields slice.
type VariantConstructor struct {
	Name   string
	Fields []Type
	Pos    Pos
}

// VariantDef is `type Name<T...> = Ctor1(...) | Ctor2(...) | ...`.
type VariantDef struct {
	Constructors []*VariantConstructor
}

func (v *VariantDef) typeDefNode() {}

// RecordDef is `type Name<T...> = { f1: T1, f2: T2 }`, always a closed
// nominal record (open rows only arise on anonymous structural records).
type RecordDef struct {
	Fields []*RecordTypeField
}

func (r *RecordDef) typeDefNode() {}

// TypeDecl declares a type name, its parameters, and its definition.
type TypeDecl struct {
	Name       string
	TypeParams []string
	Def        TypeDef
	Exported   bool
	Pos        Pos
}

func (t *TypeDecl) Position() Pos { return t.Pos }
func (t *TypeDecl) declNode()     {}
func (t *TypeDecl) String() string {
	params := ""
	if len(t.TypeParams) > 0 {
		params = fmt.Sprintf("<%s>", strings.Join(t.TypeParams, ", "))
	}
	return fmt.Sprintf("type %s%s", t.Name, params)
}

// ExternalDecl declares a single externally-provided binding: `external
// name<T...> : Type`. A surface `external { ... }` block is parsed as one
// ExternalDecl per member (spec.md §4.3 item 13).
type ExternalDecl struct {
	Name       string
	TypeParams []string
	Type       Type
	Exported   bool
	Pos        Pos
}

func (e *ExternalDecl) Position() Pos { return e.Pos }
func (e *ExternalDecl) declNode()     {}
func (e *ExternalDecl) String() string {
	return fmt.Sprintf("external %s : %s", e.Name, e.Type)
}

// ImportedName is one imported symbol, optionally aliased or marked
// type-only (`import type Foo from "./mod"`).
type ImportedName struct {
	Name     string
	Alias    string // "" if not aliased
	TypeOnly bool
	Pos      Pos
}

// ImportKind distinguishes the surface import forms.
type ImportKind int

const (
	ImportNamed ImportKind = iota
	ImportNamespace
)

// ImportDecl is `import {a, b as c} from "./path"` (named) or `import * as
// ns from "./path"` (namespace). Named imports may mix value and
// type-only names; re-exports reuse the same Names shape.
type ImportDecl struct {
	Kind      ImportKind
	Path      string
	Names     []*ImportedName // named imports
	Namespace string          // namespace alias, namespace imports only
	Pos       Pos
}

func (i *ImportDecl) Position() Pos { return i.Pos }
func (i *ImportDecl) declNode()     {}
func (i *ImportDecl) String() string {
	if i.Kind == ImportNamespace {
		return fmt.Sprintf("import * as %s from %q", i.Namespace, i.Path)
	}
	names := make([]string, len(i.Names))
	for j, n := range i.Names {
		names[j] = n.Name
	}
	return fmt.Sprintf("import {%s} from %q", strings.Join(names, ", "), i.Path)
}

// ReExportDecl is `export {a, b as c} from "./path"`.
type ReExportDecl struct {
	Path  string
	Names []*ImportedName
	Pos   Pos
}

func (r *ReExportDecl) Position() Pos { return r.Pos }
func (r *ReExportDecl) declNode()     {}
func (r *ReExportDecl) String() string {
	names := make([]string, len(r.Names))
	for i, n := range r.Names {
		names[i] = n.Name
	}
	return fmt.Sprintf("export {%s} from %q", strings.Join(names, ", "), r.Path)
}
