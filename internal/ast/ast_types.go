package ast

import (
	"fmt"
	"strings"
)

// PrimitiveType is one of Int, Float, String, Bool, Unit.
type PrimitiveType struct {
	Name string
	Pos  Pos
}

func (p *PrimitiveType) Position() Pos  { return p.Pos }
func (p *PrimitiveType) typeNode()      {}
func (p *PrimitiveType) String() string { return p.Name }

// TypeVarRef is a lowercase type variable in a surface annotation, e.g.
// the `a` in `List<a>`.
type TypeVarRef struct {
	Name string
	Pos  Pos
}

func (t *TypeVarRef) Position() Pos  { return t.Pos }
func (t *TypeVarRef) typeNode()      {}
func (t *TypeVarRef) String() string { return t.Name }

// TypeApp is a nominal type constructor applied to zero or more type
// arguments: `List<Int>`, `Ref<T>`, a bare `Color`, or a user-declared
// generic variant/record instantiated at a use site.
type TypeApp struct {
	Name string
	Args []Type
	Pos  Pos
}

func (t *TypeApp) Position() Pos { return t.Pos }
func (t *TypeApp) typeNode()     {}
func (t *TypeApp) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}

// FuncType is `(A, B) -> C`; every surface function is written with its
// full parameter list even though Core only has unary functions.
type FuncType struct {
	Params []Type
	Return Type
	Pos    Pos
}

func (f *FuncType) Position() Pos { return f.Pos }
func (f *FuncType) typeNode()     {}
func (f *FuncType) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), f.Return)
}

// RecordTypeField is one `name: T` entry of a record type annotation.
type RecordTypeField struct {
	Name string
	Type Type
	Pos  Pos
}

// RecordType is `{ x: Int, y: Int }`, optionally open (`{ x: Int, ... }`)
// to admit additional, unlisted fields at unification time.
type RecordType struct {
	Fields []*RecordTypeField
	Open   bool
	Pos    Pos
}

func (r *RecordType) Position() Pos { return r.Pos }
func (r *RecordType) typeNode()     {}
func (r *RecordType) String() string {
	fields := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		fields[i] = fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	if r.Open {
		fields = append(fields, "...")
	}
	return fmt.Sprintf("{ %s }", strings.Join(fields, ", "))
}

// TupleType is a fixed-arity product type.
type TupleType struct {
	Elements []Type
	Pos      Pos
}

func (t *TupleType) Position() Pos { return t.Pos }
func (t *TupleType) typeNode()     {}
func (t *TupleType) String() string {
	elems := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(elems, ", "))
}

// OpaqueType stands for the literal keyword `Type` used in an `external`
// declaration whose value's type is deliberately left unspecified by the
// author (it remains opaque to the checker beyond identity).
type OpaqueType struct {
	Pos Pos
}

func (o *OpaqueType) Position() Pos  { return o.Pos }
func (o *OpaqueType) typeNode()      {}
func (o *OpaqueType) String() string { return "Type" }
