package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/core"
)

// TestRunO2FoldsThroughInlining is spec.md's end-to-end scenario 5:
// `let inc = (x) => x + 1 in inc(41)` optimizes (at O2) to the literal 42.
func TestRunO2FoldsThroughInlining(t *testing.T) {
	lam := &core.Lambda{Param: "x", Body: &core.BinOp{Op: "+", Left: &core.Var{Name: "x"}, Right: intLit(1)}}
	let := &core.Let{Name: "inc", Value: lam, Body: &core.Apply{Func: &core.Var{Name: "inc"}, Arg: intLit(41)}}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: let}}}

	out, metrics := Run(O2, prog)

	lit, ok := out.Decls[0].(*core.LetBinding).Value.(*core.Lit)
	require.True(t, ok, "expected full reduction to a literal, got %#v", out.Decls[0].(*core.LetBinding).Value)
	assert.Equal(t, int64(42), lit.Value)
	assert.Greater(t, metrics.Iterations, 0)
	assert.Equal(t, 1, metrics.Inlines)
	assert.GreaterOrEqual(t, metrics.ConstantFolds, 1)
	assert.GreaterOrEqual(t, metrics.DeadCodeRemovals, 1)
}

func TestRunO0IsIdentity(t *testing.T) {
	val := &core.BinOp{Op: "+", Left: intLit(1), Right: intLit(2)}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: val}}}

	out, metrics := Run(O0, prog)
	assert.Equal(t, 0, metrics.ConstantFolds)
	binop, ok := out.Decls[0].(*core.LetBinding).Value.(*core.BinOp)
	require.True(t, ok, "O0 must not transform the program at all")
	assert.Equal(t, int64(1), binop.Left.(*core.Lit).Value)
}

func TestRunO1SingleIteration(t *testing.T) {
	val := &core.BinOp{Op: "+", Left: intLit(1), Right: intLit(2)}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: val}}}

	out, metrics := Run(O1, prog)
	assert.Equal(t, 1, metrics.ConstantFolds)
	assert.Equal(t, 1, metrics.Iterations)
	lit, ok := out.Decls[0].(*core.LetBinding).Value.(*core.Lit)
	require.True(t, ok)
	assert.Equal(t, int64(3), lit.Value)
}

func TestProgramSizeCountsNodes(t *testing.T) {
	val := &core.BinOp{Op: "+", Left: intLit(1), Right: intLit(2)}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: val}}}
	assert.Equal(t, 3, ProgramSize(prog)) // BinOp + two Lit leaves
}
