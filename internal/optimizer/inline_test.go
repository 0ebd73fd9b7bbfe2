package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/core"
)

func TestBetaReduceImmediateRedex(t *testing.T) {
	// ((x) => x + 1)(41)
	lam := &core.Lambda{Param: "x", Body: &core.BinOp{Op: "+", Left: &core.Var{Name: "x"}, Right: intLit(1)}}
	prog := &core.Program{Decls: []core.Decl{
		&core.LetBinding{Name: "r", Value: &core.Apply{Func: lam, Arg: intLit(41)}},
	}}
	out, count := (&BetaReduce{}).Apply(prog)
	assert.Equal(t, 1, count)
	binop, ok := out.Decls[0].(*core.LetBinding).Value.(*core.BinOp)
	require.True(t, ok)
	assert.Equal(t, int64(41), binop.Left.(*core.Lit).Value)
}

func TestBetaReduceRenamesToAvoidCapture(t *testing.T) {
	// ((x) => (y) => x + y)(y)  -- applying the outer lambda to a free `y`
	// argument must not let the inner lambda's `y` parameter capture it.
	inner := &core.Lambda{Param: "y", Body: &core.BinOp{Op: "+", Left: &core.Var{Name: "x"}, Right: &core.Var{Name: "y"}}}
	outer := &core.Lambda{Param: "x", Body: inner}
	app := &core.Apply{Func: outer, Arg: &core.Var{Name: "y"}}

	ctx := &substCtx{}
	result := substitute(ctx, outer.Body, outer.Param, app.Arg)
	resultLam, ok := result.(*core.Lambda)
	require.True(t, ok)
	assert.NotEqual(t, "y", resultLam.Param, "inner binder must be renamed away from the free y it would otherwise capture")

	body := resultLam.Body.(*core.BinOp)
	assert.Equal(t, "y", body.Left.(*core.Var).Name, "substituted-in argument must remain the original free y")
	assert.Equal(t, resultLam.Param, body.Right.(*core.Var).Name, "renamed parameter's own reference must track the rename")
}

func TestInlineSingleUseLet(t *testing.T) {
	// let f = (x) => x + 1 in f(41)
	lam := &core.Lambda{Param: "x", Body: &core.BinOp{Op: "+", Left: &core.Var{Name: "x"}, Right: intLit(1)}}
	let := &core.Let{Name: "f", Value: lam, Body: &core.Apply{Func: &core.Var{Name: "f"}, Arg: intLit(41)}}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: let}}}

	out, count := (&Inline{Threshold: inlineThresholdO2}).Apply(prog)
	assert.Equal(t, 1, count)
	newLet := out.Decls[0].(*core.LetBinding).Value.(*core.Let)
	app, isStillApply := newLet.Body.(*core.Apply)
	assert.False(t, isStillApply, "call site should have been replaced by the inlined body")
	_ = app
}

func TestInlineNeverInlinesBodyWithRefOps(t *testing.T) {
	lam := &core.Lambda{Param: "x", Body: &core.RefNew{Value: &core.Var{Name: "x"}}}
	let := &core.Let{Name: "f", Value: lam, Body: &core.Apply{Func: &core.Var{Name: "f"}, Arg: intLit(1)}}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: let}}}

	_, count := (&Inline{Threshold: inlineThresholdO2}).Apply(prog)
	assert.Equal(t, 0, count)
}

func TestEtaReduce(t *testing.T) {
	// (x) => f(x)  ->  f
	lam := &core.Lambda{Param: "x", Body: &core.Apply{Func: &core.Var{Name: "f"}, Arg: &core.Var{Name: "x"}}}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "g", Value: lam}}}

	out, count := (&EtaReduce{}).Apply(prog)
	assert.Equal(t, 1, count)
	v, ok := out.Decls[0].(*core.LetBinding).Value.(*core.Var)
	require.True(t, ok)
	assert.Equal(t, "f", v.Name)
}

func TestEtaReduceSkipsWhenParamFreeInFunc(t *testing.T) {
	// (x) => x(x) must not reduce: x is free in the "function" position.
	lam := &core.Lambda{Param: "x", Body: &core.Apply{Func: &core.Var{Name: "x"}, Arg: &core.Var{Name: "x"}}}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "g", Value: lam}}}

	_, count := (&EtaReduce{}).Apply(prog)
	assert.Equal(t, 0, count)
}
