package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vibefun-lang/vibefun/internal/ast"
)

func TestBagOrdersBySourcePosition(t *testing.T) {
	b := NewBag()
	b.Add(New(VF4100Mismatch, ast.Pos{Line: 3, Column: 1}, "third"))
	b.Add(New(VF4100Mismatch, ast.Pos{Line: 1, Column: 5}, "first-b"))
	b.Add(New(VF4100Mismatch, ast.Pos{Line: 1, Column: 5}, "first-a"))

	all := b.All()
	assert.Len(t, all, 3)
	assert.Equal(t, "first-b", all[0].Message) // ties keep insertion order
	assert.Equal(t, "first-a", all[1].Message)
	assert.Equal(t, "third", all[2].Message)
}

func TestWarningsNeverCountAsErrors(t *testing.T) {
	b := NewBag()
	b.Add(Warningf(VF4900UnreachableArm, ast.Pos{}, "arm %d unreachable", 2))
	assert.False(t, b.HasErrors())
	assert.Len(t, b.Warnings(), 1)
}

func TestLookupKnowsEveryRegisteredCode(t *testing.T) {
	for code, info := range Registry {
		assert.Equal(t, code, info.Code)
	}
}
