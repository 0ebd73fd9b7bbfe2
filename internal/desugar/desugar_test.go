package desugar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/core"
)

func num(v int) *ast.Literal { return &ast.Literal{Kind: ast.IntLit, Value: v} }

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

// 1 |> add(2) |> multiply(3)  =>  multiply(3)(add(2)(1))
func TestDesugarPipe(t *testing.T) {
	expr := &ast.Pipe{
		Left: &ast.Pipe{
			Left:  num(1),
			Right: &ast.Apply{Func: ident("add"), Args: []ast.Expr{num(2)}},
		},
		Right: &ast.Apply{Func: ident("multiply"), Args: []ast.Expr{num(3)}},
	}

	d := New()
	got := d.desugarExpr(expr)

	outer, ok := got.(*core.Apply)
	require.True(t, ok, "expected outer Apply, got %T", got)
	outerFn, ok := outer.Func.(*core.Apply)
	require.True(t, ok)
	assert.Equal(t, "multiply", outerFn.Func.(*core.Var).Name)
	assert.Equal(t, 3, outerFn.Arg.(*core.Lit).Value)

	inner, ok := outer.Arg.(*core.Apply)
	require.True(t, ok, "expected inner Apply, got %T", outer.Arg)
	innerFn, ok := inner.Func.(*core.Apply)
	require.True(t, ok)
	assert.Equal(t, "add", innerFn.Func.(*core.Var).Name)
	assert.Equal(t, 2, innerFn.Arg.(*core.Lit).Value)
	assert.Equal(t, 1, inner.Arg.(*core.Lit).Value)
}

// if x > 0 then "pos" else "nonpos"  =>  match (x > 0) { true => "pos" | false => "nonpos" }
func TestDesugarIfBecomesTwoArmMatch(t *testing.T) {
	expr := &ast.If{
		Cond: &ast.BinaryOp{Op: ">", Left: ident("x"), Right: num(0)},
		Then: &ast.Literal{Kind: ast.StringLit, Value: "pos"},
		Else: &ast.Literal{Kind: ast.StringLit, Value: "nonpos"},
	}

	d := New()
	got := d.desugarExpr(expr)

	m, ok := got.(*core.Match)
	require.True(t, ok, "expected Match, got %T", got)
	require.Len(t, m.Arms, 2)

	truePat, ok := m.Arms[0].Pattern.(*core.LitPattern)
	require.True(t, ok)
	assert.Equal(t, core.BoolLit, truePat.Kind)
	assert.Equal(t, true, truePat.Value)
	assert.Equal(t, "pos", m.Arms[0].Body.(*core.Lit).Value)

	falsePat, ok := m.Arms[1].Pattern.(*core.LitPattern)
	require.True(t, ok)
	assert.Equal(t, false, falsePat.Value)
	assert.Equal(t, "nonpos", m.Arms[1].Body.(*core.Lit).Value)
}

// if x > 0 then "pos"  (no else)  =>  else branch is Unit
func TestDesugarIfWithoutElseYieldsUnit(t *testing.T) {
	expr := &ast.If{
		Cond: &ast.BinaryOp{Op: ">", Left: ident("x"), Right: num(0)},
		Then: &ast.Literal{Kind: ast.StringLit, Value: "pos"},
	}

	d := New()
	m := d.desugarExpr(expr).(*core.Match)
	elseLit, ok := m.Arms[1].Body.(*core.Lit)
	require.True(t, ok)
	assert.Equal(t, core.UnitLit, elseLit.Kind)
}

// while !done { step() }
// => let rec $loop0 = (_) => match !done { true => let _ = step() in $loop0(()) | false => () } in $loop0(())
func TestDesugarWhileBecomesSelfRecursiveHelper(t *testing.T) {
	expr := &ast.While{
		Cond: &ast.UnaryOp{Op: "!", Operand: ident("done")},
		Body: &ast.Apply{Func: ident("step"), Args: nil},
	}

	d := New()
	got := d.desugarExpr(expr)

	letRec, ok := got.(*core.LetRec)
	require.True(t, ok, "expected LetRec, got %T", got)
	require.Len(t, letRec.Bindings, 1)
	assert.Equal(t, "$loop0", letRec.Bindings[0].Name)

	call, ok := letRec.Body.(*core.Apply)
	require.True(t, ok)
	assert.Equal(t, "$loop0", call.Func.(*core.Var).Name)
	assert.Equal(t, core.UnitLit, call.Arg.(*core.Lit).Kind)

	loopLambda, ok := letRec.Bindings[0].Value.(*core.Lambda)
	require.True(t, ok)
	loopMatch, ok := loopLambda.Body.(*core.Match)
	require.True(t, ok)
	require.Len(t, loopMatch.Arms, 2)

	scrutinee, ok := loopMatch.Scrutinee.(*core.UnOp)
	require.True(t, ok)
	assert.Equal(t, "!", scrutinee.Op)

	thenLet, ok := loopMatch.Arms[0].Body.(*core.Let)
	require.True(t, ok)
	assert.Equal(t, "_", thenLet.Name)
	recurCall, ok := thenLet.Body.(*core.Apply)
	require.True(t, ok)
	assert.Equal(t, "$loop0", recurCall.Func.(*core.Var).Name)

	falseBody, ok := loopMatch.Arms[1].Body.(*core.Lit)
	require.True(t, ok)
	assert.Equal(t, core.UnitLit, falseBody.Kind)
}

func TestSCCGroupsSingletonNonRecursive(t *testing.T) {
	bindings := []*ast.RecBinding{
		{Name: "a", Value: num(1)},
		{Name: "b", Value: ident("a")},
	}
	groups := sccGroups(bindings)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 1)
	assert.Len(t, groups[1], 1)
	assert.False(t, selfRecursive(bindings[0]))
}

func TestSCCGroupsMutualRecursion(t *testing.T) {
	isEven := &ast.RecBinding{
		Name: "isEven",
		Value: &ast.Lambda{
			Params: []ast.Pattern{&ast.VarPattern{Name: "n"}},
			Body:   &ast.Apply{Func: ident("isOdd"), Args: []ast.Expr{ident("n")}},
		},
	}
	isOdd := &ast.RecBinding{
		Name: "isOdd",
		Value: &ast.Lambda{
			Params: []ast.Pattern{&ast.VarPattern{Name: "n"}},
			Body:   &ast.Apply{Func: ident("isEven"), Args: []ast.Expr{ident("n")}},
		},
	}

	groups := sccGroups([]*ast.RecBinding{isEven, isOdd})
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
}

func TestExpandOrPatternCartesianProduct(t *testing.T) {
	pat := &ast.ConstructorPattern{
		Name: "Pair",
		Args: []ast.Pattern{
			&ast.OrPattern{Alternatives: []ast.Pattern{
				&ast.VarPattern{Name: "a"},
				&ast.WildcardPattern{},
			}},
			&ast.VarPattern{Name: "b"},
		},
	}

	expanded := expandPattern(pat)
	require.Len(t, expanded, 2)
	for _, p := range expanded {
		vp, ok := p.(*core.VariantPattern)
		require.True(t, ok)
		assert.Equal(t, "Pair", vp.Name)
		require.Len(t, vp.Args, 2)
	}
}

func TestExpandListPatternBecomesConsChain(t *testing.T) {
	pat := &ast.ListPattern{
		Elements: []ast.Pattern{&ast.VarPattern{Name: "x"}, &ast.VarPattern{Name: "y"}},
	}
	expanded := expandPattern(pat)
	require.Len(t, expanded, 1)

	outer, ok := expanded[0].(*core.VariantPattern)
	require.True(t, ok)
	assert.Equal(t, "Cons", outer.Name)
	require.Len(t, outer.Args, 2)

	inner, ok := outer.Args[1].(*core.VariantPattern)
	require.True(t, ok)
	assert.Equal(t, "Cons", inner.Name)

	nilPat, ok := inner.Args[1].(*core.VariantPattern)
	require.True(t, ok)
	assert.Equal(t, "Nil", nilPat.Name)
	assert.Empty(t, nilPat.Args)
}
