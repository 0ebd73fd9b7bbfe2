package optimizer

import (
	"github.com/vibefun-lang/vibefun/internal/core"
	"github.com/vibefun-lang/vibefun/internal/dtree"
)

// DeadCodeElim drops unused pure let bindings, collapses a match on a
// literal scrutinee to its matching arm, and prunes match arms that a
// decision-tree compilation proves can never run (spec.md §4.5.4).
type DeadCodeElim struct{}

func (p *DeadCodeElim) Name() string { return "dead-code-elim" }

func (p *DeadCodeElim) Apply(prog *core.Program) (*core.Program, int) {
	count := 0
	visit := func(e core.Expr) core.Expr {
		if let, ok := e.(*core.Let); ok && !let.Mut && isPure(let.Value) && countRefs(let.Name, let.Body) == 0 {
			count++
			return let.Body
		}
		if m, ok := e.(*core.Match); ok {
			if reduced, n := reduceConstantMatch(m); n > 0 {
				count += n
				return reduced
			}
			if pruned, n := pruneUnreachableArms(m); n > 0 {
				count += n
				return pruned
			}
			return e
		}
		return e
	}
	return transformProgram(prog, visit), count
}

// reduceConstantMatch collapses `match <lit> { ... }` to the body of the
// first unguarded arm whose literal pattern equals the scrutinee,
// provided every arm examined before it is provably non-matching
// (respecting guard order: a guarded arm that could match is never
// skipped past).
func reduceConstantMatch(m *core.Match) (core.Expr, int) {
	lit, ok := m.Scrutinee.(*core.Lit)
	if !ok {
		return m, 0
	}
	for _, a := range m.Arms {
		switch pat := a.Pattern.(type) {
		case *core.LitPattern:
			if pat.Kind != lit.Kind || !literalEqual(pat.Value, lit.Value) {
				continue
			}
			if a.Guard != nil {
				return m, 0
			}
			return a.Body, 1
		case *core.WildcardPattern, *core.VarPattern:
			if a.Guard != nil {
				return m, 0
			}
			if v, ok := pat.(*core.VarPattern); ok {
				return &core.Let{Node: m.Node, Name: v.Name, Value: lit, Body: a.Body}, 1
			}
			return a.Body, 1
		default:
			return m, 0
		}
	}
	return m, 0
}

func literalEqual(a, b interface{}) bool {
	return a == b
}

// pruneUnreachableArms removes arms that a compiled decision tree never
// reaches. Reachability is computed by walking every Leaf (including
// guard-false Fallback chains) across the whole tree, so this only ever
// drops arms that are unreachable no matter how any guard evaluates —
// never one that could still run if some earlier guard came out false.
func pruneUnreachableArms(m *core.Match) (*core.Match, int) {
	if !dtree.CanCompileToTree(m.Arms) {
		return m, 0
	}
	tree := dtree.NewDecisionTreeCompiler(m.Arms).Compile()
	reached := map[int]bool{}
	var walk func(dtree.DecisionTree)
	walk = func(t dtree.DecisionTree) {
		switch n := t.(type) {
		case *dtree.LeafNode:
			reached[n.ArmIndex] = true
			if n.Fallback != nil {
				walk(n.Fallback)
			}
		case *dtree.SwitchNode:
			for _, c := range n.Cases {
				walk(c)
			}
			if n.Default != nil {
				walk(n.Default)
			}
		}
	}
	walk(tree)

	kept := make([]core.MatchArm, 0, len(m.Arms))
	removed := 0
	for i, a := range m.Arms {
		if reached[i] {
			kept = append(kept, a)
		} else {
			removed++
		}
	}
	if removed == 0 {
		return m, 0
	}
	return &core.Match{Node: m.Node, Scrutinee: m.Scrutinee, Arms: kept}, removed
}
