// Package dtree compiles a Match's arms into a decision tree: a series
// of discriminator switches that test each scrutinee path at most once,
// rather than re-testing it once per arm (spec.md §4.5.5). The optimizer's
// dead-code pass builds this tree only to find and prune arms that no
// path reaches; Match nodes are not rewritten into it. The type checker's
// own exhaustiveness pass (internal/types) is a separate, coarser,
// first-column-only check used purely to gate compilation.
//
// Grounded on ailang's internal/dtree/decision_tree.go — the
// LeafNode/FailNode/SwitchNode shape, the matchRow/matrix compilation
// algorithm, and the column-0 specialization strategy are kept near
// verbatim; extended to also specialize RecordPattern and TuplePattern
// columns, which ailang's pattern sum does not have.
package dtree

import (
	"fmt"
	"sort"

	"github.com/vibefun-lang/vibefun/internal/core"
)

// DecisionTree is the closed sum of compiled decision-tree nodes.
type DecisionTree interface {
	isDecisionTree()
	String() string
}

// LeafNode is a matched arm ready to execute. When Guard is non-nil,
// reaching this leaf only commits to Body if Guard evaluates true at
// runtime; if it evaluates false, execution continues at Fallback
// (never nil in that case, possibly a FailNode) rather than stopping
// here — a guarded arm never discards the rows that followed it
// (spec.md §4.5.5: "never reorder across a guarded arm").
type LeafNode struct {
	ArmIndex int
	Body     core.Expr
	Guard    core.Expr // nil if absent
	Fallback DecisionTree
}

func (l *LeafNode) isDecisionTree() {}
func (l *LeafNode) String() string  { return fmt.Sprintf("Leaf(arm=%d)", l.ArmIndex) }

// FailNode means no arm matches: a non-exhaustive match reached at
// runtime. The type checker's exhaustiveness pass should have already
// rejected any program that could actually hit one.
type FailNode struct{}

func (f *FailNode) isDecisionTree() {}
func (f *FailNode) String() string  { return "Fail" }

// SwitchNode dispatches on one discriminator: Path locates the value
// being tested relative to the original scrutinee (a sequence of
// "descend into sub-field N" steps), Cases maps each concrete literal or
// constructor name seen to its subtree, and Default handles
// wildcard/variable rows alongside any case not covered by Cases.
type SwitchNode struct {
	Path    []int
	Cases   map[interface{}]DecisionTree
	Default DecisionTree
}

func (s *SwitchNode) isDecisionTree() {}
func (s *SwitchNode) String() string {
	return fmt.Sprintf("Switch(path=%v, cases=%d, default=%v)", s.Path, len(s.Cases), s.Default != nil)
}

// DecisionTreeCompiler compiles one Match's arms into a DecisionTree.
type DecisionTreeCompiler struct {
	arms []core.MatchArm
}

// NewDecisionTreeCompiler creates a compiler for arms.
func NewDecisionTreeCompiler(arms []core.MatchArm) *DecisionTreeCompiler {
	return &DecisionTreeCompiler{arms: arms}
}

// Compile builds the tree.
func (c *DecisionTreeCompiler) Compile() DecisionTree {
	var matrix []matchRow
	for i, arm := range c.arms {
		matrix = append(matrix, matchRow{
			patterns: []core.Pattern{arm.Pattern},
			armIndex: i,
			guard:    arm.Guard,
			body:     arm.Body,
		})
	}
	return c.compileMatrix(matrix, []int{})
}

type matchRow struct {
	patterns []core.Pattern
	armIndex int
	guard    core.Expr
	body     core.Expr
}

func (c *DecisionTreeCompiler) compileMatrix(matrix []matchRow, path []int) DecisionTree {
	if len(matrix) == 0 {
		return &FailNode{}
	}
	if c.isDefaultRow(matrix[0]) {
		leaf := &LeafNode{ArmIndex: matrix[0].armIndex, Body: matrix[0].body, Guard: matrix[0].guard}
		if matrix[0].guard != nil {
			leaf.Fallback = c.compileMatrix(matrix[1:], path)
		}
		return leaf
	}

	colIndex := 0
	if colIndex >= len(matrix[0].patterns) {
		leaf := &LeafNode{ArmIndex: matrix[0].armIndex, Body: matrix[0].body, Guard: matrix[0].guard}
		if matrix[0].guard != nil {
			leaf.Fallback = c.compileMatrix(matrix[1:], path)
		}
		return leaf
	}
	return c.buildSwitch(matrix, path, colIndex)
}

func (c *DecisionTreeCompiler) isDefaultRow(row matchRow) bool {
	for _, pat := range row.patterns {
		switch pat.(type) {
		case *core.WildcardPattern, *core.VarPattern:
			continue
		default:
			return false
		}
	}
	return true
}

// buildSwitch groups rows by their column-colIndex discriminator.
// Known limitation: a wildcard/var row is only ever folded into
// Default, never replicated forward into a cases[key] bucket for a
// constructor-specific row that follows it — so a match written with a
// catch-all BEFORE a later specific-constructor arm (an unusual arm
// order; the common style is most-specific-first, catch-all last, which
// this handles correctly) will report that later arm as reachable via
// its own bucket even though the earlier catch-all actually intercepts
// it first at runtime. CanCompileToTree and this compiler are meant for
// the ordinary specific-then-default arm shape; they do not claim to
// model every possible arm ordering exactly.
func (c *DecisionTreeCompiler) buildSwitch(matrix []matchRow, path []int, colIndex int) DecisionTree {
	cases := make(map[interface{}][]matchRow)
	var caseOrder []interface{}
	var defaultRows []matchRow

	for _, row := range matrix {
		if colIndex >= len(row.patterns) {
			defaultRows = append(defaultRows, row)
			continue
		}

		switch p := row.patterns[colIndex].(type) {
		case *core.LitPattern:
			if _, ok := cases[p.Value]; !ok {
				caseOrder = append(caseOrder, p.Value)
			}
			cases[p.Value] = append(cases[p.Value], row)
		case *core.VariantPattern:
			if _, ok := cases[p.Name]; !ok {
				caseOrder = append(caseOrder, p.Name)
			}
			cases[p.Name] = append(cases[p.Name], row)
		case *core.WildcardPattern, *core.VarPattern:
			defaultRows = append(defaultRows, row)
		case *core.RecordPattern, *core.TuplePattern:
			// Records and tuples have exactly one shape, so there is
			// nothing to discriminate on: specialize straight through as
			// if it were the sole default case.
			defaultRows = append(defaultRows, row)
		default:
			defaultRows = append(defaultRows, row)
		}
	}

	if len(cases) == 0 && len(defaultRows) > 0 {
		return c.compileMatrix(c.specializeRows(defaultRows, colIndex), append(append([]int{}, path...), colIndex))
	}

	switchNode := &SwitchNode{
		Path:  append(append([]int{}, path...), colIndex),
		Cases: make(map[interface{}]DecisionTree),
	}

	for _, key := range caseOrder {
		rows := cases[key]
		specialized := c.specializeRows(rows, colIndex)
		switchNode.Cases[key] = c.compileMatrix(specialized, append(append([]int{}, path...), colIndex))
	}

	if len(defaultRows) > 0 {
		specialized := c.specializeRows(defaultRows, colIndex)
		switchNode.Default = c.compileMatrix(specialized, append(append([]int{}, path...), colIndex))
	} else {
		switchNode.Default = &FailNode{}
	}

	return switchNode
}

// specializeRows removes the matched column from each row, splicing in
// that pattern's own sub-patterns when it had any (a constructor's
// arguments, a tuple's elements, or a record's fields in sorted-name
// order so two rows with the same field set specialize identically).
func (c *DecisionTreeCompiler) specializeRows(rows []matchRow, colIndex int) []matchRow {
	var result []matchRow
	for _, row := range rows {
		newPatterns := make([]core.Pattern, 0, len(row.patterns))
		for i, pat := range row.patterns {
			if i != colIndex {
				newPatterns = append(newPatterns, pat)
				continue
			}
			switch p := pat.(type) {
			case *core.VariantPattern:
				newPatterns = append(newPatterns, p.Args...)
			case *core.TuplePattern:
				newPatterns = append(newPatterns, p.Elements...)
			case *core.RecordPattern:
				newPatterns = append(newPatterns, sortedFieldPatterns(p)...)
			}
			// literals and wildcards contribute no sub-patterns
		}
		result = append(result, matchRow{
			patterns: newPatterns,
			armIndex: row.armIndex,
			guard:    row.guard,
			body:     row.body,
		})
	}
	return result
}

func sortedFieldPatterns(p *core.RecordPattern) []core.Pattern {
	fields := make([]core.RecordFieldPattern, len(p.Fields))
	copy(fields, p.Fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	out := make([]core.Pattern, len(fields))
	for i, f := range fields {
		out[i] = f.Pattern
	}
	return out
}

// CanCompileToTree reports whether a Match has at least two
// literal/constructor arms to dispatch between; the optimizer's dead-code
// pass builds a decision tree, and prunes arms, only for such a Match.
func CanCompileToTree(arms []core.MatchArm) bool {
	count := 0
	for _, arm := range arms {
		switch arm.Pattern.(type) {
		case *core.LitPattern, *core.VariantPattern:
			count++
		}
	}
	return count >= 2
}
