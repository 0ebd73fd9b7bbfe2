package goldens

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibefun-lang/vibefun/internal/optimizer"
	"github.com/vibefun-lang/vibefun/internal/pipeline"
)

// Run compiles every Case in m through internal/pipeline.Run, each as
// its own t.Run subtest, and asserts the expected type or diagnostic
// code. A Case with neither ExpectType nor ExpectErrorCode set only
// asserts that compilation succeeded.
func Run(t *testing.T, m *Manifest) {
	t.Helper()
	for _, c := range m.Cases {
		c := c
		t.Run(m.Suite+"/"+c.Name, func(t *testing.T) {
			runCase(t, c)
		})
	}
}

func runCase(t *testing.T, c Case) {
	t.Helper()
	res, err := pipeline.Run(context.Background(), pipeline.Config{OptimizeLevel: level(c.OptimizeLevel)}, pipeline.Source{
		Code:     c.Source,
		Filename: "testdata://" + c.Name,
	})

	if c.ExpectErrorCode != "" {
		require.Error(t, err)
		require.NotNil(t, res.Diagnostics)
		found := false
		for _, d := range res.Diagnostics.Errors() {
			if strings.HasPrefix(d.Code, c.ExpectErrorCode) {
				found = true
				break
			}
		}
		assert.True(t, found, "expected a diagnostic with code prefix %s, got %v", c.ExpectErrorCode, res.Diagnostics.Errors())
		return
	}

	require.NoError(t, err)
	if c.ExpectType != "" {
		require.NotNil(t, res.Env, "case must bind a top-level name to check its type")
		// The last declaration is the one the manifest source actually
		// wrote; its name is read back out of the Core it desugared to.
		require.NotEmpty(t, res.Artifacts.Core.Decls)
		name := declName(res.Artifacts.Core.Decls[len(res.Artifacts.Core.Decls)-1])
		scheme, ok := res.Env.Lookup(name)
		require.True(t, ok, "no binding named %q in the resulting type environment", name)
		assert.Equal(t, c.ExpectType, scheme.String())
	}
}

func level(s string) optimizer.Level {
	switch strings.ToUpper(s) {
	case "O0":
		return optimizer.O0
	case "O1":
		return optimizer.O1
	default:
		return optimizer.O2
	}
}
