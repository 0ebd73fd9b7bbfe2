package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibefun-lang/vibefun/internal/optimizer"
)

func TestProcessLineReportsInferredType(t *testing.T) {
	r := NewWithVersion("test")
	var buf bytes.Buffer
	r.processLine("1 + 2", &buf)
	assert.Contains(t, buf.String(), "Int")
}

func TestProcessLineReportsTypeErrorDiagnostic(t *testing.T) {
	r := NewWithVersion("test")
	var buf bytes.Buffer
	r.processLine("true + 1", &buf)
	assert.Contains(t, buf.String(), "VF4")
}

func TestProcessLinePassesThroughExplicitLetAndReportsItsName(t *testing.T) {
	r := NewWithVersion("test")
	var buf bytes.Buffer
	r.processLine("export let answer = 42", &buf)
	assert.Contains(t, buf.String(), "answer")
	assert.Contains(t, buf.String(), "Int")
}

func TestHandleCommandLevelSetsOptimizerLevel(t *testing.T) {
	r := NewWithVersion("test")
	var buf bytes.Buffer
	r.handleCommand(":level O0", &buf)
	assert.Equal(t, optimizer.O0, r.config.OptimizeLevel)
	assert.Contains(t, buf.String(), "O0")
}

func TestHandleCommandDumpCoreToggles(t *testing.T) {
	r := NewWithVersion("test")
	var buf bytes.Buffer
	assert.False(t, r.config.ShowCore)
	r.handleCommand(":dump-core", &buf)
	assert.True(t, r.config.ShowCore)
	r.handleCommand(":dump-core", &buf)
	assert.False(t, r.config.ShowCore)
}

func TestHandleCommandHistoryReflectsProcessedLines(t *testing.T) {
	r := NewWithVersion("test")
	r.history = append(r.history, "1 + 1", "2 + 2")
	var buf bytes.Buffer
	r.handleCommand(":history", &buf)
	assert.Contains(t, buf.String(), "1 + 1")
	assert.Contains(t, buf.String(), "2 + 2")
}
