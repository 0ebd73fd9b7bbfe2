package types

import "github.com/vibefun-lang/vibefun/internal/core"

// generalize closes over every type variable in t that is not free in
// env's current bindings and was created at a level deeper than level — i.e.
// every variable local to the expression just checked, and not escaping
// into some enclosing, already-fixed binding (spec.md §4.4.2).
//
// Grounded on the standard level-based generalization check (the same
// one ailang's internal/types package performs through its
// FreeTypeVars-against-env comparison in generalize, kept here and
// combined with a comparison of TVar.Level against the let's level,
// since vibefun's TVar carries Level and ailang's does not).
func generalize(env *Env, t Type, level int) *Scheme {
	envFree := env.FreeTypeVars()
	seen := map[string]bool{}
	var vars []string
	var walk func(Type)
	walk = func(typ Type) {
		switch n := typ.(type) {
		case *TVar:
			if n.Level > level && !envFree[n.Name] && !seen[n.Name] {
				seen[n.Name] = true
				vars = append(vars, n.Name)
			}
		case *TApp:
			for _, a := range n.Args {
				walk(a)
			}
		case *TFunc:
			walk(n.Param)
			walk(n.Return)
		case *TTuple:
			for _, e := range n.Elements {
				walk(e)
			}
		case *TRecord:
			for _, f := range n.Fields {
				walk(f)
			}
			if n.Row != nil {
				walk(n.Row)
			}
		}
	}
	walk(t)
	return &Scheme{Vars: vars, Type: t}
}

// instantiate replaces every variable quantified by scheme with a fresh
// type variable at the given level, so each use of a polymorphic binding
// gets its own independent set of variables to unify.
func instantiate(scheme *Scheme, level int) Type {
	if len(scheme.Vars) == 0 {
		return scheme.Type
	}
	sub := make(Substitution, len(scheme.Vars))
	for _, v := range scheme.Vars {
		sub[v] = &TVar{Name: freshName(), Level: level}
	}
	return ApplySubst(sub, scheme.Type)
}

// isSyntacticValue reports whether e is a syntactic value: one of the
// forms the value restriction lets a let-binding generalize over.
// Everything else — any form that might perform an effect or call into
// unknown code before producing a result — is bound monomorphically,
// even if its inferred type happens to contain free variables.
//
// Grounded on the standard ML value restriction ("let generalization is
// restricted to syntactic values"); ailang's own checker has no
// analogue since ailang generalizes through its effect system instead,
// so this is built directly from the value-restriction rule rather than
// adapted from existing code.
func isSyntacticValue(e core.Expr) bool {
	switch n := e.(type) {
	case *core.Lit, *core.Var, *core.Lambda:
		return true
	case *core.TupleExpr:
		for _, elem := range n.Elements {
			if !isSyntacticValue(elem) {
				return false
			}
		}
		return true
	case *core.RecordLit:
		for _, f := range n.Fields {
			if !isSyntacticValue(f.Value) {
				return false
			}
		}
		return true
	case *core.VariantConstruct:
		for _, a := range n.Args {
			if !isSyntacticValue(a) {
				return false
			}
		}
		return true
	case *core.Annotation:
		return isSyntacticValue(n.Value)
	default:
		return false
	}
}
