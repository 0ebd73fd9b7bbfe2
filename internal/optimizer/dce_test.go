package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/core"
)

func TestDeadCodeElimRemovesUnusedPureLet(t *testing.T) {
	let := &core.Let{Name: "unused", Value: intLit(1), Body: intLit(2)}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: let}}}

	out, count := (&DeadCodeElim{}).Apply(prog)
	assert.Equal(t, 1, count)
	lit, ok := out.Decls[0].(*core.LetBinding).Value.(*core.Lit)
	require.True(t, ok)
	assert.Equal(t, int64(2), lit.Value)
}

func TestDeadCodeElimKeepsImpureLetEvenIfUnused(t *testing.T) {
	let := &core.Let{Name: "unused", Value: &core.RefNew{Value: intLit(1)}, Body: intLit(2)}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: let}}}

	_, count := (&DeadCodeElim{}).Apply(prog)
	assert.Equal(t, 0, count)
}

func TestConstantMatchReduction(t *testing.T) {
	m := &core.Match{
		Scrutinee: boolLit(true),
		Arms: []core.MatchArm{
			{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}, Body: intLit(1)},
			{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: false}, Body: intLit(0)},
		},
	}
	prog := &core.Program{Decls: []core.Decl{&core.LetBinding{Name: "r", Value: m}}}
	out, count := (&DeadCodeElim{}).Apply(prog)
	assert.Equal(t, 1, count)
	lit, ok := out.Decls[0].(*core.LetBinding).Value.(*core.Lit)
	require.True(t, ok)
	assert.Equal(t, int64(1), lit.Value)
}

func TestConstantMatchReductionRespectsGuardOrder(t *testing.T) {
	// A guarded arm whose pattern matches the scrutinee must never be
	// skipped past, even though the literal equality check alone would
	// otherwise make the next arm look like the right answer.
	m := &core.Match{
		Scrutinee: intLit(1),
		Arms: []core.MatchArm{
			{Pattern: &core.LitPattern{Kind: core.IntLit, Value: int64(1)}, Guard: &core.Var{Name: "cond"}, Body: intLit(100)},
			{Pattern: &core.WildcardPattern{}, Body: intLit(0)},
		},
	}
	_, count := reduceConstantMatch(m)
	assert.Equal(t, 0, count)
}

func TestPruneUnreachableArmsAfterUnconditionalCatchAll(t *testing.T) {
	// A second "None" arm appearing after an unconditional wildcard can
	// never run: the wildcard above it already claims every value the
	// duplicate would have matched.
	m := &core.Match{
		Scrutinee: &core.Var{Name: "opt"},
		Arms: []core.MatchArm{
			{Pattern: &core.VariantPattern{Name: "Some", Args: []core.Pattern{&core.VarPattern{Name: "x"}}}, Body: &core.Var{Name: "x"}},
			{Pattern: &core.VariantPattern{Name: "None"}, Body: intLit(-1)},
			{Pattern: &core.WildcardPattern{}, Body: intLit(0)},
			{Pattern: &core.VariantPattern{Name: "None"}, Body: intLit(999)},
		},
	}
	pruned, count := pruneUnreachableArms(m)
	assert.Equal(t, 1, count)
	assert.Len(t, pruned.Arms, 3)
}
