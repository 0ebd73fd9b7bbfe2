package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/core"
	"github.com/vibefun-lang/vibefun/internal/optimizer"
)

func TestRunCompilesExpression(t *testing.T) {
	res, err := Run(context.Background(), Config{OptimizeLevel: optimizer.O2}, Source{
		Code:     "export let r = 2 + 3 * 4",
		Filename: "test://unit",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Artifacts.OptimizedCore)
	lit, ok := res.Artifacts.OptimizedCore.Decls[0].(*core.LetBinding).Value.(*core.Lit)
	require.True(t, ok, "constant folding should have reduced 2 + 3 * 4 to a literal")
	assert.Equal(t, int64(14), lit.Value)
	assert.False(t, res.Diagnostics.HasErrors())
}

func TestRunStopsAtParseError(t *testing.T) {
	res, err := Run(context.Background(), Config{}, Source{
		Code:     "let x = +",
		Filename: "test://unit",
	})
	require.Error(t, err)
	assert.True(t, res.Diagnostics.HasErrors())
	assert.Nil(t, res.Artifacts.Core, "desugar must not run once the parser reported an error")
}

func TestRunStopsAtTypeError(t *testing.T) {
	res, err := Run(context.Background(), Config{}, Source{
		Code:     "export let r = true + 1",
		Filename: "test://unit",
	})
	require.Error(t, err)
	assert.True(t, res.Diagnostics.HasErrors())
	assert.NotNil(t, res.Artifacts.Core, "desugaring should have succeeded before the type error")
	assert.Nil(t, res.Artifacts.OptimizedCore, "optimizer must not run once type checking reported an error")
}

func TestRunSkipOptimizeLeavesCoreUnoptimized(t *testing.T) {
	res, err := Run(context.Background(), Config{SkipOptimize: true}, Source{
		Code:     "export let r = 2 + 3",
		Filename: "test://unit",
	})
	require.NoError(t, err)
	assert.Nil(t, res.Artifacts.OptimizedCore)
	_, ok := res.Artifacts.Core.Decls[0].(*core.LetBinding).Value.(*core.BinOp)
	assert.True(t, ok, "unoptimized Core should still hold the raw BinOp")
}

func TestRunRespectsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{}, Source{Code: "export let r = 1", Filename: "test://unit"})
	require.Error(t, err)
}

func TestRunModulesCompilesIndependentModulesDeterministically(t *testing.T) {
	mods := StaticModules{
		"/a.vf": {Code: "export let a = 1", Filename: "/a.vf"},
		"/b.vf": {Code: "export let b = 2", Filename: "/b.vf"},
		"/c.vf": {Code: "export let c = true + 1", Filename: "/c.vf"}, // type error
	}
	results, err := RunModules(context.Background(), Config{}, mods)
	require.Error(t, err)
	require.Len(t, results, 3)

	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
	}
	assert.Equal(t, []string{"/a.vf", "/b.vf", "/c.vf"}, paths, "results must be sorted by path")

	for _, r := range results {
		if r.Path == "/c.vf" {
			assert.Error(t, r.Err)
		} else {
			assert.NoError(t, r.Err)
		}
	}
}
