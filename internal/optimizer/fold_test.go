package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/core"
)

func intLit(v int64) *core.Lit  { return &core.Lit{Kind: core.IntLit, Value: v} }
func boolLit(v bool) *core.Lit  { return &core.Lit{Kind: core.BoolLit, Value: v} }
func strLit(v string) *core.Lit { return &core.Lit{Kind: core.StringLit, Value: v} }

func TestConstantFoldArithmetic(t *testing.T) {
	prog := &core.Program{Decls: []core.Decl{
		&core.LetBinding{Name: "x", Value: &core.BinOp{Op: "+", Left: intLit(1), Right: intLit(2)}},
	}}
	out, count := (&ConstantFold{}).Apply(prog)
	assert.Equal(t, 1, count)
	lit, ok := out.Decls[0].(*core.LetBinding).Value.(*core.Lit)
	require.True(t, ok)
	assert.Equal(t, int64(3), lit.Value)
}

func TestConstantFoldNeverFoldsDivisionByZero(t *testing.T) {
	e := &core.BinOp{Op: "/", Left: intLit(1), Right: intLit(0)}
	_, ok := tryFold(e)
	assert.False(t, ok)
}

func TestConstantFoldStringConcat(t *testing.T) {
	e := &core.BinOp{Op: "&", Left: strLit("foo"), Right: strLit("bar")}
	folded, ok := tryFold(e)
	require.True(t, ok)
	assert.Equal(t, "foobar", folded.(*core.Lit).Value)
}

func TestConstantFoldBoolShortCircuit(t *testing.T) {
	e := &core.BinOp{Op: "&&", Left: boolLit(true), Right: boolLit(false)}
	folded, ok := tryFold(e)
	require.True(t, ok)
	assert.Equal(t, false, folded.(*core.Lit).Value)
}

func TestConstantFoldAlgebraicIdentityAddZero(t *testing.T) {
	x := &core.Var{Name: "x"}
	e := &core.BinOp{Op: "+", Left: x, Right: intLit(0)}
	folded, ok := tryFold(e)
	require.True(t, ok)
	assert.Same(t, core.Expr(x), folded)
}

func TestConstantFoldAlgebraicIdentityMulZeroRequiresPurity(t *testing.T) {
	impureLeft := &core.Apply{Func: &core.Var{Name: "f"}, Arg: &core.Var{Name: "x"}}
	e := &core.BinOp{Op: "*", Left: impureLeft, Right: intLit(0)}
	_, ok := tryFold(e)
	assert.False(t, ok, "must not drop an impure operand even though it's multiplied by zero")
}

func TestConstantFoldNeverFoldsNegativeZero(t *testing.T) {
	e := &core.UnOp{Op: "-", Operand: &core.Lit{Kind: core.FloatLit, Value: 0.0}}
	_, ok := tryFold(e)
	assert.False(t, ok)
}

func TestConstantFoldComparison(t *testing.T) {
	e := &core.BinOp{Op: "<", Left: intLit(1), Right: intLit(2)}
	folded, ok := tryFold(e)
	require.True(t, ok)
	assert.Equal(t, true, folded.(*core.Lit).Value)
}
