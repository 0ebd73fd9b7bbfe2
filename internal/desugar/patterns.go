package desugar

import (
	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/core"
)

// expandPattern lowers one surface pattern to one or more Core patterns.
// Every shape but OrPattern returns exactly one; OrPattern returns the
// concatenation of its alternatives' expansions, and a nested or-pattern
// anywhere inside a constructor/record/tuple/list pattern is expanded via
// the cartesian product of its sub-patterns' alternatives (spec.md §4.3
// item 9 — or-patterns never survive into Core, arms are duplicated
// instead).
func expandPattern(p ast.Pattern) []core.Pattern {
	switch n := p.(type) {
	case *ast.WildcardPattern:
		return []core.Pattern{&core.WildcardPattern{}}
	case *ast.VarPattern:
		return []core.Pattern{&core.VarPattern{Name: n.Name}}
	case *ast.Literal:
		return []core.Pattern{&core.LitPattern{Kind: toCoreLitKind(n.Kind), Value: n.Value}}
	case *ast.ConstructorPattern:
		return expandConstructorPattern(n)
	case *ast.RecordPattern:
		return expandRecordPattern(n)
	case *ast.TuplePattern:
		return expandTuplePattern(n)
	case *ast.ListPattern:
		return expandListPattern(n)
	case *ast.OrPattern:
		var out []core.Pattern
		for _, alt := range n.Alternatives {
			out = append(out, expandPattern(alt)...)
		}
		return out
	case *ast.AnnotatedPattern:
		return expandPattern(n.Pattern)
	default:
		return []core.Pattern{&core.WildcardPattern{}}
	}
}

// cartesianProduct combines independent lists of alternatives into every
// positional combination, preserving each list's internal order and
// iterating the first list slowest — so alternative ordering stays
// predictable for golden-fixture comparisons.
func cartesianProduct(lists [][]core.Pattern) [][]core.Pattern {
	if len(lists) == 0 {
		return [][]core.Pattern{{}}
	}
	rest := cartesianProduct(lists[1:])
	out := make([][]core.Pattern, 0, len(lists[0])*len(rest))
	for _, head := range lists[0] {
		for _, tail := range rest {
			combo := make([]core.Pattern, 0, len(tail)+1)
			combo = append(combo, head)
			combo = append(combo, tail...)
			out = append(out, combo)
		}
	}
	return out
}

func expandConstructorPattern(n *ast.ConstructorPattern) []core.Pattern {
	argAlts := make([][]core.Pattern, len(n.Args))
	for i, a := range n.Args {
		argAlts[i] = expandPattern(a)
	}
	combos := cartesianProduct(argAlts)
	out := make([]core.Pattern, len(combos))
	for i, combo := range combos {
		out[i] = &core.VariantPattern{Name: n.Name, Args: combo}
	}
	return out
}

// expandRecordPattern drops the surface Rest/`...` marker: Core's
// RecordPattern has no open/closed flag of its own because record pattern
// matching is always structural (width-subtyping) at this level — whether
// extra fields are permitted is a row-unification question the type
// checker answers from the scrutinee's inferred row, not something the
// pattern shape itself encodes.
func expandRecordPattern(n *ast.RecordPattern) []core.Pattern {
	names := make([]string, len(n.Fields))
	fieldAlts := make([][]core.Pattern, len(n.Fields))
	for i, f := range n.Fields {
		names[i] = f.Name
		if f.Pattern == nil {
			fieldAlts[i] = []core.Pattern{&core.VarPattern{Name: f.Name}}
		} else {
			fieldAlts[i] = expandPattern(f.Pattern)
		}
	}
	combos := cartesianProduct(fieldAlts)
	out := make([]core.Pattern, len(combos))
	for i, combo := range combos {
		fields := make([]core.RecordFieldPattern, len(combo))
		for j, pat := range combo {
			fields[j] = core.RecordFieldPattern{Name: names[j], Pattern: pat}
		}
		out[i] = &core.RecordPattern{Fields: fields}
	}
	return out
}

func expandTuplePattern(n *ast.TuplePattern) []core.Pattern {
	elemAlts := make([][]core.Pattern, len(n.Elements))
	for i, e := range n.Elements {
		elemAlts[i] = expandPattern(e)
	}
	combos := cartesianProduct(elemAlts)
	out := make([]core.Pattern, len(combos))
	for i, combo := range combos {
		out[i] = &core.TuplePattern{Elements: combo}
	}
	return out
}

// expandListPattern lowers `[p1, p2, ...rest]` to the Cons/Nil variant
// chain the type checker and pattern matcher already understand for list
// values (spec.md §4.3 item 7): `[a, b]` becomes
// `Cons(a, Cons(b, Nil))`, and a trailing `...rest` takes Nil's place.
func expandListPattern(n *ast.ListPattern) []core.Pattern {
	var restAlts []core.Pattern
	if n.Rest != nil {
		restAlts = expandPattern(n.Rest)
	} else {
		restAlts = []core.Pattern{&core.VariantPattern{Name: "Nil"}}
	}
	elemAlts := make([][]core.Pattern, len(n.Elements))
	for i, e := range n.Elements {
		elemAlts[i] = expandPattern(e)
	}
	allAlts := append(elemAlts, restAlts)
	combos := cartesianProduct(allAlts)
	out := make([]core.Pattern, len(combos))
	for i, combo := range combos {
		tail := combo[len(combo)-1]
		for j := len(combo) - 2; j >= 0; j-- {
			tail = &core.VariantPattern{Name: "Cons", Args: []core.Pattern{combo[j], tail}}
		}
		out[i] = tail
	}
	return out
}
