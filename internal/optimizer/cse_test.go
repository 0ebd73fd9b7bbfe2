package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/core"
)

func TestCSEReusesEarlierLetBinding(t *testing.T) {
	// let a = x + y in (x + y) + a
	xy := func() core.Expr { return &core.BinOp{Op: "+", Left: &core.Var{Name: "x"}, Right: &core.Var{Name: "y"}} }
	let := &core.Let{
		Name:  "a",
		Value: xy(),
		Body:  &core.BinOp{Op: "+", Left: xy(), Right: &core.Var{Name: "a"}},
	}
	out, count := cseWithinLet(let)
	require.Equal(t, 1, count)
	outer := out.Body.(*core.BinOp)
	v, ok := outer.Left.(*core.Var)
	require.True(t, ok, "duplicate x+y should have been replaced by a reference to a")
	assert.Equal(t, "a", v.Name)
}

func TestCSEStopsAtShadowingBinder(t *testing.T) {
	// let a = x + y in (x) => let x = 1 in x + y
	// the inner `x` rebinds the outer free variable, so the inner `x + y`
	// is a different computation and must not be rewritten to `a`.
	inner := &core.Lambda{
		Param: "x",
		Body: &core.Let{
			Name:  "x",
			Value: intLit(1),
			Body:  &core.BinOp{Op: "+", Left: &core.Var{Name: "x"}, Right: &core.Var{Name: "y"}},
		},
	}
	let := &core.Let{
		Name:  "a",
		Value: &core.BinOp{Op: "+", Left: &core.Var{Name: "x"}, Right: &core.Var{Name: "y"}},
		Body:  inner,
	}
	_, count := cseWithinLet(let)
	assert.Equal(t, 0, count)
}

func TestCSESkipsTrivialExpressions(t *testing.T) {
	let := &core.Let{Name: "a", Value: &core.Var{Name: "x"}, Body: &core.Var{Name: "x"}}
	_, count := cseWithinLet(let)
	assert.Equal(t, 0, count)
}
