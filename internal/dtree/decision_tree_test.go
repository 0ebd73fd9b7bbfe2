package dtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/core"
)

func TestDecisionTreeSimpleBoolMatch(t *testing.T) {
	// match x { true => 1 | false => 0 }
	arms := []core.MatchArm{
		{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}, Body: &core.Lit{Kind: core.IntLit, Value: 1}},
		{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: false}, Body: &core.Lit{Kind: core.IntLit, Value: 0}},
	}

	tree := NewDecisionTreeCompiler(arms).Compile()
	switchNode, ok := tree.(*SwitchNode)
	require.True(t, ok, "expected SwitchNode, got %T", tree)
	assert.Len(t, switchNode.Cases, 2)
	assert.Contains(t, switchNode.Cases, true)
	assert.Contains(t, switchNode.Cases, false)
}

func TestDecisionTreeWithWildcardDefault(t *testing.T) {
	// match x { true => 1 | _ => 0 }
	arms := []core.MatchArm{
		{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}, Body: &core.Lit{Kind: core.IntLit, Value: 1}},
		{Pattern: &core.WildcardPattern{}, Body: &core.Lit{Kind: core.IntLit, Value: 0}},
	}

	tree := NewDecisionTreeCompiler(arms).Compile()
	switchNode, ok := tree.(*SwitchNode)
	require.True(t, ok, "expected SwitchNode, got %T", tree)
	assert.NotNil(t, switchNode.Default)
}

func TestDecisionTreeAllWildcardsCollapsesToLeaf(t *testing.T) {
	arms := []core.MatchArm{
		{Pattern: &core.WildcardPattern{}, Body: &core.Lit{Kind: core.IntLit, Value: 42}},
	}

	tree := NewDecisionTreeCompiler(arms).Compile()
	leaf, ok := tree.(*LeafNode)
	require.True(t, ok, "expected LeafNode, got %T", tree)
	assert.Equal(t, 0, leaf.ArmIndex)
}

func TestDecisionTreeVariantConstructorsSpecializeArgs(t *testing.T) {
	// match opt { Some(x) => x | None => 0 }
	arms := []core.MatchArm{
		{
			Pattern: &core.VariantPattern{Name: "Some", Args: []core.Pattern{&core.VarPattern{Name: "x"}}},
			Body:    &core.Var{Name: "x"},
		},
		{
			Pattern: &core.VariantPattern{Name: "None"},
			Body:    &core.Lit{Kind: core.IntLit, Value: 0},
		},
	}

	tree := NewDecisionTreeCompiler(arms).Compile()
	switchNode, ok := tree.(*SwitchNode)
	require.True(t, ok)
	require.Contains(t, switchNode.Cases, "Some")

	someBranch, ok := switchNode.Cases["Some"].(*LeafNode)
	require.True(t, ok, "Some(x) with a single var arg should collapse straight to its leaf")
	assert.Equal(t, 0, someBranch.ArmIndex)
}

func TestDecisionTreeEmptyMatrixIsFail(t *testing.T) {
	c := NewDecisionTreeCompiler(nil)
	tree := c.compileMatrix(nil, nil)
	_, ok := tree.(*FailNode)
	assert.True(t, ok)
}

func TestCanCompileToTree(t *testing.T) {
	tests := []struct {
		name     string
		arms     []core.MatchArm
		expected bool
	}{
		{
			name:     "single arm not worth it",
			arms:     []core.MatchArm{{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}}},
			expected: false,
		},
		{
			name:     "two wildcards not worth it",
			arms:     []core.MatchArm{{Pattern: &core.WildcardPattern{}}, {Pattern: &core.WildcardPattern{}}},
			expected: false,
		},
		{
			name: "multiple literals worth it",
			arms: []core.MatchArm{
				{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}},
				{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: false}},
				{Pattern: &core.WildcardPattern{}},
			},
			expected: true,
		},
		{
			name: "multiple constructors worth it",
			arms: []core.MatchArm{
				{Pattern: &core.VariantPattern{Name: "Some"}},
				{Pattern: &core.VariantPattern{Name: "None"}},
			},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanCompileToTree(tt.arms))
		})
	}
}
