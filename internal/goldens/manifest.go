// Package goldens loads declarative YAML fixture manifests describing
// end-to-end pipeline behavior (source in, expected type or diagnostic
// out) and runs each case through internal/pipeline.Run, modeled on the
// teacher's internal/eval_harness use of YAML spec files
// (BenchmarkSpec/LoadSpec) for declarative test fixtures — adapted here
// from "benchmark task description" to "compiler pipeline test case".
package goldens

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Case is one pipeline scenario: a source snippet and the outcome it
// must produce. Exactly one of ExpectType or ExpectErrorCode should be
// set — a case either succeeds all the way through the optimizer and
// produces a type, or is expected to stop at some phase with a specific
// diagnostic code.
type Case struct {
	Name            string `yaml:"name"`
	Source          string `yaml:"source"`
	OptimizeLevel   string `yaml:"optimize_level"`   // "O0", "O1", or "O2"; default "O2"
	ExpectType      string `yaml:"expect_type"`      // e.g. "Int"
	ExpectErrorCode string `yaml:"expect_error_code"` // e.g. "VF4100"
}

// Manifest is a named group of Cases loaded from one YAML file.
type Manifest struct {
	Suite string `yaml:"suite"`
	Cases []Case `yaml:"cases"`
}

// LoadManifest reads and parses a single manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read golden manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse golden manifest %s: %w", path, err)
	}
	if m.Suite == "" {
		return nil, fmt.Errorf("golden manifest %s missing required field: suite", path)
	}
	for i, c := range m.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("golden manifest %s: case %d missing required field: name", path, i)
		}
	}
	return &m, nil
}

// LoadManifestDir loads every "*.yaml" manifest in dir, sorted by
// filename so suites run in a deterministic order.
func LoadManifestDir(dir string) ([]*Manifest, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob golden manifests in %s: %w", dir, err)
	}
	sort.Strings(paths)

	manifests := make([]*Manifest, 0, len(paths))
	for _, p := range paths {
		m, err := LoadManifest(p)
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}
