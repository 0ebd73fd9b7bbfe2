package optimizer

import "github.com/vibefun-lang/vibefun/internal/core"

// isPure reports whether e can be evaluated with no observable effect
// beyond producing its value: no ref allocation/assignment/deref, no
// external call, no unsafe block (spec.md §4.5.2/4.5.4/4.5.6 all gate on
// this). Apply is conservatively impure since Core has no effect
// annotations on arbitrary functions.
func isPure(e core.Expr) bool {
	switch n := e.(type) {
	case *core.Lit, *core.Var, *core.Lambda:
		return true
	case *core.TupleExpr:
		return allPure(n.Elements)
	case *core.RecordLit:
		for _, f := range n.Fields {
			if !isPure(f.Value) {
				return false
			}
		}
		return true
	case *core.RecordUpdate:
		if !isPure(n.Base) {
			return false
		}
		for _, f := range n.Fields {
			if !isPure(f.Value) {
				return false
			}
		}
		return true
	case *core.RecordAccess:
		return isPure(n.Record)
	case *core.VariantConstruct:
		return allPure(n.Args)
	case *core.BinOp:
		if n.Op == "RefAssign" {
			return false
		}
		return isPure(n.Left) && isPure(n.Right)
	case *core.UnOp:
		// "!" doubles as Ref deref; without type information at this
		// level it cannot be told apart from boolean negation, so it is
		// conservatively treated as impure like any other potential deref.
		if n.Op == "!" {
			return false
		}
		return isPure(n.Operand)
	case *core.Annotation:
		return isPure(n.Value)
	case *core.Match:
		if !isPure(n.Scrutinee) {
			return false
		}
		for _, a := range n.Arms {
			if a.Guard != nil && !isPure(a.Guard) {
				return false
			}
			if !isPure(a.Body) {
				return false
			}
		}
		return true
	case *core.Let:
		return isPure(n.Value) && isPure(n.Body)
	default:
		// Apply, RefNew, ExternalRef, Unsafe, LetRec: conservatively impure.
		return false
	}
}

func allPure(es []core.Expr) bool {
	for _, e := range es {
		if !isPure(e) {
			return false
		}
	}
	return true
}
