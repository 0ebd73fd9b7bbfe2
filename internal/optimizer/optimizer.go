// Package optimizer implements the optional Core→Core optimization
// pipeline (spec.md §4.5): constant folding, β-reduction and inlining,
// dead-code elimination (including constant-match reduction and
// unreachable-arm pruning via internal/dtree), and common subexpression
// elimination, run to a fixed point detected by structural hash rather
// than deep equality (spec.md §9).
//
// No teacher or pack repo carries a standalone optimizer package for
// this kind of tree-shaped IR (ailang has none; see DESIGN.md), so the
// pass-list/fixed-point shape is grounded on the other_examples/
// kanso-lang OptimizationPass/OptimizationPipeline pattern
// (Name/Apply/Description, an ordered pass list run in sequence) with
// the fixed-point iteration loop added on top, since kanso's own driver
// only runs its passes once per call. The passes themselves operate on
// core.Expr trees, not kanso's basic-block IR, and are grounded
// directly on the Core node shapes in internal/core/core.go.
package optimizer

import (
	"github.com/vibefun-lang/vibefun/internal/core"
)

// Level selects which passes run and how aggressively (spec.md §4.5.1).
type Level int

const (
	O0 Level = iota
	O1
	O2
)

const defaultMaxIterations = 10

// Metrics records what each pass did, matching spec.md §4.5.1's
// "collects per-pass metrics" and the OptimizerResult shape (spec.md
// §9's end-to-end scenarios / module pipeline result).
type Metrics struct {
	ConstantFolds    int
	BetaReductions   int
	Inlines          int
	EtaReductions    int
	DeadCodeRemovals int
	CSECount         int
	Iterations       int
	SizeBefore       int
	SizeAfter        int
}

// Pass is a pure Core -> Core transform. Name identifies it in metrics
// and logs; Apply returns the rewritten program and how many
// transformations it made (0 means the pass found nothing to do).
type Pass interface {
	Name() string
	Apply(prog *core.Program) (*core.Program, int)
}

// Pipeline runs an ordered list of passes to a fixed point.
type Pipeline struct {
	Passes        []Pass
	MaxIterations int
}

// NewPipeline builds the pass list for level per spec.md §4.5.1's level
// semantics: O0 is identity, O1 runs constant-fold + beta-reduce + DCE
// once, O2 runs every pass (plus CSE and a wider inlining threshold) to
// a fixed point.
func NewPipeline(level Level) *Pipeline {
	switch level {
	case O0:
		return &Pipeline{MaxIterations: 1}
	case O1:
		return &Pipeline{
			Passes: []Pass{
				&ConstantFold{},
				&BetaReduce{},
				&DeadCodeElim{},
			},
			MaxIterations: 1,
		}
	default: // O2
		return &Pipeline{
			Passes: []Pass{
				&ConstantFold{},
				&BetaReduce{},
				&Inline{Threshold: inlineThresholdO2},
				&EtaReduce{},
				&DeadCodeElim{},
				&CSE{},
			},
			MaxIterations: defaultMaxIterations,
		}
	}
}

// Run applies the pipeline's passes in sequence, re-running the whole
// sequence until the program's structural hash stops changing or
// MaxIterations is hit, accumulating per-pass counts into one Metrics.
func Run(level Level, prog *core.Program) (*core.Program, Metrics) {
	p := NewPipeline(level)
	m := Metrics{SizeBefore: ProgramSize(prog)}

	maxIter := p.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}

	current := prog
	for iter := 0; iter < maxIter; iter++ {
		before := core.ProgramHash(current)
		changedThisRound := false

		for _, pass := range p.Passes {
			next, count := pass.Apply(current)
			current = next
			if count == 0 {
				continue
			}
			changedThisRound = true
			accumulate(&m, pass.Name(), count)
		}

		m.Iterations = iter + 1
		after := core.ProgramHash(current)
		if !changedThisRound || before == after {
			break
		}
	}

	m.SizeAfter = ProgramSize(current)
	return current, m
}

func accumulate(m *Metrics, passName string, count int) {
	switch passName {
	case "constant-fold":
		m.ConstantFolds += count
	case "beta-reduce":
		m.BetaReductions += count
	case "inline":
		m.Inlines += count
	case "eta-reduce":
		m.EtaReductions += count
	case "dead-code-elim":
		m.DeadCodeRemovals += count
	case "cse":
		m.CSECount += count
	}
}

// ProgramSize counts expression nodes across every declaration, used
// for the before/after AST sizes in Metrics.
func ProgramSize(prog *core.Program) int {
	total := 0
	for _, d := range prog.Decls {
		switch n := d.(type) {
		case *core.LetBinding:
			total += exprSize(n.Value)
		case *core.LetRecBinding:
			for _, b := range n.Bindings {
				total += exprSize(b.Value)
			}
		}
	}
	return total
}

func exprSize(e core.Expr) int {
	if e == nil {
		return 0
	}
	size := 1
	transformChildren(e, func(c core.Expr) core.Expr {
		size += exprSize(c)
		return c
	})
	return size
}
