package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/core"
)

func TestUnifyBindsVariable(t *testing.T) {
	u := NewUnifier()
	v := &TVar{Name: "t1"}
	sub, err := u.Unify(v, TInt, Substitution{})
	require.NoError(t, err)
	assert.True(t, ApplySubst(sub, v).Equals(TInt))
}

func TestUnifyOccursCheckFails(t *testing.T) {
	u := NewUnifier()
	v := &TVar{Name: "t1"}
	listOfV := NewList(v)
	_, err := u.Unify(v, listOfV, Substitution{})
	assert.Error(t, err)
}

func TestUnifyFunctionTypes(t *testing.T) {
	u := NewUnifier()
	a, b := &TVar{Name: "a"}, &TVar{Name: "b"}
	f1 := &TFunc{Param: a, Return: b}
	f2 := &TFunc{Param: TInt, Return: TString}
	sub, err := u.Unify(f1, f2, Substitution{})
	require.NoError(t, err)
	assert.True(t, ApplySubst(sub, a).Equals(TInt))
	assert.True(t, ApplySubst(sub, b).Equals(TString))
}

func TestUnifyClosedRecordsRejectMismatch(t *testing.T) {
	u := NewUnifier()
	r1 := &TRecord{Fields: map[string]Type{"x": TInt}}
	r2 := &TRecord{Fields: map[string]Type{"x": TInt, "y": TBool}}
	_, err := u.Unify(r1, r2, Substitution{})
	assert.Error(t, err)
}

func TestUnifyOpenRecordAbsorbsExtraFields(t *testing.T) {
	u := NewUnifier()
	row := &TVar{Name: "row"}
	open := &TRecord{Fields: map[string]Type{"x": TInt}, Row: row}
	closed := &TRecord{Fields: map[string]Type{"x": TInt, "y": TBool}}
	sub, err := u.Unify(open, closed, Substitution{})
	require.NoError(t, err)
	resolved := ApplySubst(sub, row).(*TRecord)
	assert.Equal(t, TBool, resolved.Fields["y"])
}

func TestGeneralizeQuantifiesOnlyDeeperVars(t *testing.T) {
	env := NewEnv()
	outer := &TVar{Name: "outer", Level: 1}
	env = env.ExtendMono("x", outer)
	inner := &TVar{Name: "inner", Level: 2}
	fn := &TFunc{Param: inner, Return: outer}

	scheme := generalize(env, fn, 1)
	assert.Contains(t, scheme.Vars, "inner")
	assert.NotContains(t, scheme.Vars, "outer")
}

func TestInstantiateFreshensEachCall(t *testing.T) {
	scheme := &Scheme{Vars: []string{"a"}, Type: &TFunc{Param: &TVar{Name: "a"}, Return: &TVar{Name: "a"}}}
	t1 := instantiate(scheme, 0).(*TFunc)
	t2 := instantiate(scheme, 0).(*TFunc)
	assert.NotEqual(t, t1.Param.(*TVar).Name, t2.Param.(*TVar).Name)
}

func TestIsSyntacticValue(t *testing.T) {
	assert.True(t, isSyntacticValue(&core.Lit{Kind: core.IntLit, Value: 1}))
	assert.True(t, isSyntacticValue(&core.Lambda{Param: "x", Body: &core.Var{Name: "x"}}))
	assert.False(t, isSyntacticValue(&core.Apply{Func: &core.Var{Name: "f"}, Arg: &core.Var{Name: "x"}}))
}

func TestCheckInfersLiteralLet(t *testing.T) {
	prog := &core.Program{Decls: []core.Decl{
		&core.LetBinding{Name: "x", Value: &core.Lit{Kind: core.IntLit, Value: 1}},
	}}
	env, diags := Check(prog)
	assert.False(t, diags.HasErrors())
	scheme, ok := env.Lookup("x")
	require.True(t, ok)
	assert.True(t, scheme.Type.Equals(TInt))
}

func TestCheckReportsUnknownIdentifier(t *testing.T) {
	prog := &core.Program{Decls: []core.Decl{
		&core.LetBinding{Name: "x", Value: &core.Var{Name: "undefined"}},
	}}
	_, diags := Check(prog)
	require.True(t, diags.HasErrors())
	assert.Equal(t, "VF4102", diags.Errors()[0].Code)
}

func TestCheckGeneralizesIdentityFunction(t *testing.T) {
	// let id = (x) => x
	prog := &core.Program{Decls: []core.Decl{
		&core.LetBinding{Name: "id", Value: &core.Lambda{Param: "x", Body: &core.Var{Name: "x"}}},
	}}
	env, diags := Check(prog)
	assert.False(t, diags.HasErrors())
	scheme, ok := env.Lookup("id")
	require.True(t, ok)
	assert.NotEmpty(t, scheme.Vars, "id should be generalized to a polymorphic scheme")
}

func TestCheckMatchNonExhaustiveBool(t *testing.T) {
	// match true { true => 1 }
	prog := &core.Program{Decls: []core.Decl{
		&core.LetBinding{Name: "x", Value: &core.Match{
			Scrutinee: &core.Lit{Kind: core.BoolLit, Value: true},
			Arms: []core.MatchArm{
				{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}, Body: &core.Lit{Kind: core.IntLit, Value: 1}},
			},
		}},
	}}
	_, diags := Check(prog)
	require.True(t, diags.HasErrors())
	found := false
	for _, d := range diags.Errors() {
		if d.Code == "VF4400" {
			found = true
		}
	}
	assert.True(t, found, "expected VF4400 non-exhaustive diagnostic")
}

func TestCheckMatchNonExhaustiveEnumeratesMissingConstructor(t *testing.T) {
	// type Color = Red | Green | Blue
	// match c { Red => 0, Green => 1 } -- Blue is missing
	colorDecl := &ast.TypeDecl{
		Name: "Color",
		Def: &ast.VariantDef{Constructors: []*ast.VariantConstructor{
			{Name: "Red"},
			{Name: "Green"},
			{Name: "Blue"},
		}},
	}
	prog := &core.Program{Decls: []core.Decl{
		&core.TypeDeclPassthrough{Decl: colorDecl},
		&core.ExternalBinding{Name: "c", Type: &ast.TypeApp{Name: "Color"}},
		&core.LetBinding{Name: "x", Value: &core.Match{
			Scrutinee: &core.Var{Name: "c"},
			Arms: []core.MatchArm{
				{Pattern: &core.VariantPattern{Name: "Red"}, Body: &core.Lit{Kind: core.IntLit, Value: int64(0)}},
				{Pattern: &core.VariantPattern{Name: "Green"}, Body: &core.Lit{Kind: core.IntLit, Value: int64(1)}},
			},
		}},
	}}

	_, diags := Check(prog)
	require.True(t, diags.HasErrors())
	var msg string
	for _, d := range diags.Errors() {
		if d.Code == "VF4400" {
			msg = d.Message
		}
	}
	require.NotEmpty(t, msg, "expected a VF4400 non-exhaustive diagnostic")
	assert.Contains(t, msg, "Blue")
	assert.NotContains(t, msg, "Red", "already-covered constructors should not be listed as missing")
}
