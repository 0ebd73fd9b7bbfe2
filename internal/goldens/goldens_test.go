package goldens

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArithmeticManifest(t *testing.T) {
	manifests, err := LoadManifestDir("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, manifests)
	for _, m := range manifests {
		Run(t, m)
	}
}

func TestLoadManifestRejectsMissingSuite(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bad.yaml"
	require.NoError(t, os.WriteFile(path, []byte("cases:\n  - name: x\n    source: \"1\"\n"), 0o644))
	_, err := LoadManifest(path)
	require.Error(t, err)
}
