package optimizer

import "github.com/vibefun-lang/vibefun/internal/core"

// CSE recognizes, for each let binding, further occurrences of the same
// pure expression later in its body and rewrites them to reuse the
// binding instead of recomputing it (spec.md §4.5.6). Scoped to an
// existing let's own binding rather than inventing fresh hoisted
// bindings: every let a program already writes is itself a natural CSE
// anchor, and reusing it sidesteps having to pick a hoist point from
// scratch for a non-SSA, non-block-structured Core.
type CSE struct{}

func (p *CSE) Name() string { return "cse" }

func (p *CSE) Apply(prog *core.Program) (*core.Program, int) {
	total := 0
	visit := func(e core.Expr) core.Expr {
		let, ok := e.(*core.Let)
		if !ok {
			return e
		}
		rewritten, n := cseWithinLet(let)
		total += n
		return rewritten
	}
	return transformProgram(prog, visit), total
}

func cseWithinLet(let *core.Let) (*core.Let, int) {
	if !isPure(let.Value) || isTrivialExpr(let.Value) {
		return let, 0
	}
	targetHash := core.StructuralHash(let.Value)
	targetFree := exprFreeVars(let.Value)
	count := 0
	newBody := replaceMatchingSubexpr(let.Body, let.Name, let.Value, targetHash, targetFree, false, &count)
	if count == 0 {
		return let, 0
	}
	return &core.Let{Node: let.Node, Name: let.Name, Mut: let.Mut, Value: let.Value, Body: newBody}, count
}

func isTrivialExpr(e core.Expr) bool {
	switch e.(type) {
	case *core.Lit, *core.Var:
		return true
	default:
		return false
	}
}

// replaceMatchingSubexpr rewrites occurrences of target (identified by
// structural hash plus a String() equality check to rule out a hash
// collision) to Var(name), stopping in any subtree where a binder
// shadows name or one of target's free variables — a shadowed
// occurrence no longer denotes the same value, so it must recompute
// rather than reuse the outer binding.
func replaceMatchingSubexpr(e core.Expr, name string, target core.Expr, targetHash uint64, targetFree map[string]bool, blocked bool, count *int) core.Expr {
	if e == nil {
		return nil
	}
	if !blocked && isPure(e) && !isTrivialExpr(e) && core.StructuralHash(e) == targetHash && e.String() == target.String() {
		*count++
		return &core.Var{Name: name}
	}

	switch n := e.(type) {
	case *core.Lambda:
		childBlocked := blocked || n.Param == name || targetFree[n.Param]
		return &core.Lambda{Node: n.Node, Param: n.Param, Body: replaceMatchingSubexpr(n.Body, name, target, targetHash, targetFree, childBlocked, count)}
	case *core.Let:
		value := replaceMatchingSubexpr(n.Value, name, target, targetHash, targetFree, blocked, count)
		childBlocked := blocked || n.Name == name || targetFree[n.Name]
		return &core.Let{Node: n.Node, Name: n.Name, Mut: n.Mut, Value: value, Body: replaceMatchingSubexpr(n.Body, name, target, targetHash, targetFree, childBlocked, count)}
	case *core.LetRec:
		childBlocked := blocked
		for _, b := range n.Bindings {
			if b.Name == name || targetFree[b.Name] {
				childBlocked = true
			}
		}
		bindings := make([]core.RecBinding, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = core.RecBinding{Name: b.Name, Value: replaceMatchingSubexpr(b.Value, name, target, targetHash, targetFree, childBlocked, count)}
		}
		return &core.LetRec{Node: n.Node, Bindings: bindings, Body: replaceMatchingSubexpr(n.Body, name, target, targetHash, targetFree, childBlocked, count)}
	case *core.Match:
		arms := make([]core.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			bound := patternBoundNames(a.Pattern)
			childBlocked := blocked || bound[name]
			for fv := range targetFree {
				if bound[fv] {
					childBlocked = true
				}
			}
			var guard core.Expr
			if a.Guard != nil {
				guard = replaceMatchingSubexpr(a.Guard, name, target, targetHash, targetFree, childBlocked, count)
			}
			arms[i] = core.MatchArm{Pattern: a.Pattern, Guard: guard, Body: replaceMatchingSubexpr(a.Body, name, target, targetHash, targetFree, childBlocked, count)}
		}
		return &core.Match{Node: n.Node, Scrutinee: replaceMatchingSubexpr(n.Scrutinee, name, target, targetHash, targetFree, blocked, count), Arms: arms}
	default:
		return transformChildren(e, func(c core.Expr) core.Expr {
			return replaceMatchingSubexpr(c, name, target, targetHash, targetFree, blocked, count)
		})
	}
}
