package types

import "fmt"

// Substitution maps type-variable names to their resolved types.
//
// Grounded on ailang's internal/types/unification.go
// `type Substitution map[string]Type` — same representation, carried
// through unchanged since a flat name->Type map is the idiom regardless
// of which concrete Type variants exist on either side.
type Substitution map[string]Type

// ApplySubst resolves every type variable in t through sub, recursively
// following chains (v1 -> v2 -> Int resolves straight to Int).
func ApplySubst(sub Substitution, t Type) Type {
	switch n := t.(type) {
	case *TVar:
		if sub == nil {
			return t
		}
		if rep, ok := sub[n.Name]; ok {
			return ApplySubst(sub, rep)
		}
		return t
	case *TApp:
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = ApplySubst(sub, a)
		}
		return &TApp{Name: n.Name, Args: args}
	case *TFunc:
		return &TFunc{Param: ApplySubst(sub, n.Param), Return: ApplySubst(sub, n.Return)}
	case *TTuple:
		elems := make([]Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = ApplySubst(sub, e)
		}
		return &TTuple{Elements: elems}
	case *TRecord:
		fields := make(map[string]Type, len(n.Fields))
		for k, v := range n.Fields {
			fields[k] = ApplySubst(sub, v)
		}
		row := n.Row
		if row != nil {
			if rep, ok := sub[row.Name]; ok {
				switch resolved := ApplySubst(sub, rep).(type) {
				case *TRecord:
					for k, v := range resolved.Fields {
						fields[k] = v
					}
					row = resolved.Row
				case *TVar:
					row = resolved
				}
			}
		}
		return &TRecord{Fields: fields, Row: row}
	default:
		return t
	}
}

// ApplySubstToScheme applies sub to a scheme's body, leaving its
// quantified variables untouched (shadowed within the scheme's own
// scope, so a substitution for an outer `t3` must not reach in here).
func ApplySubstToScheme(sub Substitution, s *Scheme) *Scheme {
	if len(s.Vars) == 0 {
		return &Scheme{Type: ApplySubst(sub, s.Type)}
	}
	filtered := make(Substitution, len(sub))
	bound := map[string]bool{}
	for _, v := range s.Vars {
		bound[v] = true
	}
	for k, v := range sub {
		if !bound[k] {
			filtered[k] = v
		}
	}
	return &Scheme{Vars: s.Vars, Type: ApplySubst(filtered, s.Type)}
}

// Unifier performs structural unification with an occurs check, deferring
// to unifyRecords (row_unification.go) whenever both sides are TRecord.
//
// Grounded on ailang's internal/types/unification.go Unifier —
// the overall Unify dispatch-by-concrete-type shape is kept; ailang's
// kind system, effect rows, and RowVar/Row split have no counterpart
// here since vibefun's only row-polymorphic type is TRecord itself.
type Unifier struct{}

// NewUnifier creates a stateless Unifier.
func NewUnifier() *Unifier { return &Unifier{} }

// Unify attempts to make t1 and t2 equal under an extension of sub,
// returning the extended substitution or an error describing the clash.
func (u *Unifier) Unify(t1, t2 Type, sub Substitution) (Substitution, error) {
	t1 = ApplySubst(sub, t1)
	t2 = ApplySubst(sub, t2)

	if t1.Equals(t2) {
		return sub, nil
	}

	if v, ok := t1.(*TVar); ok {
		return u.bindVar(v, t2, sub)
	}
	if v, ok := t2.(*TVar); ok {
		return u.bindVar(v, t1, sub)
	}

	switch a := t1.(type) {
	case *TCon:
		return nil, mismatch(t1, t2)
	case *TApp:
		b, ok := t2.(*TApp)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return nil, mismatch(t1, t2)
		}
		var err error
		for i := range a.Args {
			sub, err = u.Unify(a.Args[i], b.Args[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil
	case *TFunc:
		b, ok := t2.(*TFunc)
		if !ok {
			return nil, mismatch(t1, t2)
		}
		var err error
		sub, err = u.Unify(a.Param, b.Param, sub)
		if err != nil {
			return nil, err
		}
		return u.Unify(a.Return, b.Return, sub)
	case *TTuple:
		b, ok := t2.(*TTuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return nil, mismatch(t1, t2)
		}
		var err error
		for i := range a.Elements {
			sub, err = u.Unify(a.Elements[i], b.Elements[i], sub)
			if err != nil {
				return nil, err
			}
		}
		return sub, nil
	case *TRecord:
		b, ok := t2.(*TRecord)
		if !ok {
			return nil, mismatch(t1, t2)
		}
		return u.unifyRecords(a, b, sub)
	}
	return nil, mismatch(t1, t2)
}

func (u *Unifier) bindVar(v *TVar, t Type, sub Substitution) (Substitution, error) {
	if tv, ok := t.(*TVar); ok && tv.Name == v.Name {
		return sub, nil
	}
	if occurs(v.Name, t) {
		return nil, fmt.Errorf("occurs check failed: %s occurs in %s", v.Name, t)
	}
	return cloneSubstWith(sub, v.Name, t), nil
}

// occurs reports whether name appears free anywhere inside t — the
// standard occurs check preventing infinite types like `t = List<t>`
// (spec.md §4.4.1, VF4300).
func occurs(name string, t Type) bool {
	switch n := t.(type) {
	case *TVar:
		return n.Name == name
	case *TApp:
		for _, a := range n.Args {
			if occurs(name, a) {
				return true
			}
		}
		return false
	case *TFunc:
		return occurs(name, n.Param) || occurs(name, n.Return)
	case *TTuple:
		for _, e := range n.Elements {
			if occurs(name, e) {
				return true
			}
		}
		return false
	case *TRecord:
		for _, f := range n.Fields {
			if occurs(name, f) {
				return true
			}
		}
		return n.Row != nil && n.Row.Name == name
	}
	return false
}

func mismatch(t1, t2 Type) error {
	return fmt.Errorf("cannot unify %s with %s", t1, t2)
}

func cloneSubst(sub Substitution) Substitution {
	out := make(Substitution, len(sub)+1)
	for k, v := range sub {
		out[k] = v
	}
	return out
}

func cloneSubstWith(sub Substitution, name string, t Type) Substitution {
	out := cloneSubst(sub)
	out[name] = t
	return out
}

func maxLevel(a, b int) int {
	if a > b {
		return a
	}
	return b
}
