// Package types implements vibefun's type checker: Algorithm W extended
// with let-generalization levels, row-polymorphic records, and nominal
// variant/record types (spec.md §4.4).
//
// Grounded on ailang's internal/types package — the Type interface
// shape (String/Equals), the TVar/TCon/TFunc/TRecord family,
// and the Substitution-map unifier idiom survive; everything tied to
// ailang's effect rows and type-class dictionaries is dropped, since
// vibefun has neither (spec.md §1 Non-goals).
package types

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Type is the closed sum of vibefun's type representations.
type Type interface {
	String() string
	Equals(Type) bool
}

// TVar is an unbound (or substitution-pending) type variable. Level
// records the let-nesting depth at which it was created; generalization
// only quantifies over variables whose Level is deeper than the
// enclosing let's level (spec.md §4.4.2, the standard level-based
// occurs-check-free generalization check).
type TVar struct {
	Name  string
	Level int
}

func (t *TVar) String() string { return t.Name }
func (t *TVar) Equals(o Type) bool {
	if v, ok := o.(*TVar); ok {
		return t.Name == v.Name
	}
	return false
}

// TCon is a nullary type constructor: a builtin primitive (Int, Float,
// String, Bool, Unit) or a user-declared nominal type with no parameters.
type TCon struct {
	Name string
}

func (t *TCon) String() string { return t.Name }
func (t *TCon) Equals(o Type) bool {
	if c, ok := o.(*TCon); ok {
		return t.Name == c.Name
	}
	return false
}

// TApp is a parameterized nominal type applied to argument types, e.g.
// `List<Int>`, `Option<a>`, or a user-declared generic variant/record
// instantiated at a use site. Every vibefun type parameter is invariant
// (spec.md §4.4.4): TApp equality/unification never considers variance.
type TApp struct {
	Name string
	Args []Type
}

func (t *TApp) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
}
func (t *TApp) Equals(o Type) bool {
	a, ok := o.(*TApp)
	if !ok || t.Name != a.Name || len(t.Args) != len(a.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equals(a.Args[i]) {
			return false
		}
	}
	return true
}

// TFunc is a single-parameter function type; a surface `(A, B) -> C`
// becomes `TFunc{A, TFunc{B, C}}` (spec.md §4.3 item 2, mirroring Core's
// curried Lambda/Apply).
type TFunc struct {
	Param  Type
	Return Type
}

func (t *TFunc) String() string { return fmt.Sprintf("(%s -> %s)", t.Param, t.Return) }
func (t *TFunc) Equals(o Type) bool {
	f, ok := o.(*TFunc)
	return ok && t.Param.Equals(f.Param) && t.Return.Equals(f.Return)
}

// TTuple is a fixed-arity product type.
type TTuple struct {
	Elements []Type
}

func (t *TTuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t *TTuple) Equals(o Type) bool {
	u, ok := o.(*TTuple)
	if !ok || len(t.Elements) != len(u.Elements) {
		return false
	}
	for i := range t.Elements {
		if !t.Elements[i].Equals(u.Elements[i]) {
			return false
		}
	}
	return true
}

// TRecord is a structural record type with row polymorphism: Fields holds
// the known field types and Row — when non-nil — is a row variable
// standing for "possibly more fields," unified by width subtyping
// (spec.md §4.4.3 "Records"). Row == nil means the record is closed: its
// field set is exactly Fields, no more, no less.
type TRecord struct {
	Fields map[string]Type
	Row    *TVar
}

func (t *TRecord) String() string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sortStrings(names)
	parts := make([]string, 0, len(names)+1)
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, t.Fields[name]))
	}
	if t.Row != nil {
		parts = append(parts, "...")
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
func (t *TRecord) Equals(o Type) bool {
	r, ok := o.(*TRecord)
	if !ok || len(t.Fields) != len(r.Fields) {
		return false
	}
	for name, typ := range t.Fields {
		other, ok := r.Fields[name]
		if !ok || !typ.Equals(other) {
			return false
		}
	}
	if (t.Row == nil) != (r.Row == nil) {
		return false
	}
	if t.Row != nil {
		return t.Row.Equals(r.Row)
	}
	return true
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// Scheme is a let-generalized polymorphic type: `forall Vars. Type`.
type Scheme struct {
	Vars []string
	Type Type
}

func (s *Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(s.Vars, " "), s.Type)
}

// Builtin primitive types, shared by every checker instance.
var (
	TInt    = &TCon{Name: "Int"}
	TFloat  = &TCon{Name: "Float"}
	TString = &TCon{Name: "String"}
	TBool   = &TCon{Name: "Bool"}
	TUnit   = &TCon{Name: "Unit"}
)

// NewRef wraps elem in the builtin `Ref<elem>` type used by RefNew/UnOp
// "!"/BinOp "RefAssign" (spec.md §4.4.3 "Refs").
func NewRef(elem Type) Type { return &TApp{Name: "Ref", Args: []Type{elem}} }

// NewList wraps elem in the builtin `List<elem>` type the Cons/Nil
// constructors inhabit (spec.md §4.3 item 5).
func NewList(elem Type) Type { return &TApp{Name: "List", Args: []Type{elem}} }

// varCounter is shared by every Checker in the process, including the
// ones RunModules runs concurrently, so it is incremented atomically;
// type-variable names are unique per process, not per compilation unit.
var varCounter int64

// freshName mints the next unique type-variable name.
func freshName() string {
	return fmt.Sprintf("t%d", atomic.AddInt64(&varCounter, 1))
}
