package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vibefun-lang/vibefun/internal/ast"
)

func TestStructuralHashIgnoresLocationAndID(t *testing.T) {
	a := &Var{Node: Node{NodeID: 1, Span: ast.Pos{Line: 1}}, Name: "x"}
	b := &Var{Node: Node{NodeID: 99, Span: ast.Pos{Line: 42}}, Name: "x"}
	assert.Equal(t, StructuralHash(a), StructuralHash(b))
}

func TestStructuralHashDistinguishesShape(t *testing.T) {
	x := &Var{Name: "x"}
	y := &Var{Name: "y"}
	assert.NotEqual(t, StructuralHash(x), StructuralHash(y))

	app := &Apply{Func: x, Arg: y}
	bin := &BinOp{Op: "+", Left: x, Right: y}
	assert.NotEqual(t, StructuralHash(app), StructuralHash(bin))
}

func TestIsAtomic(t *testing.T) {
	assert.True(t, IsAtomic(&Var{Name: "x"}))
	assert.True(t, IsAtomic(&Lit{Kind: IntLit, Value: 1}))
	assert.True(t, IsAtomic(&Lambda{Param: "x", Body: &Var{Name: "x"}}))
	assert.False(t, IsAtomic(&Apply{Func: &Var{Name: "f"}, Arg: &Var{Name: "x"}}))
}

func TestProgramHashStable(t *testing.T) {
	p1 := &Program{Decls: []Decl{&LetBinding{Name: "x", Value: &Lit{Kind: IntLit, Value: 1}}}}
	p2 := &Program{Decls: []Decl{&LetBinding{Name: "x", Value: &Lit{Kind: IntLit, Value: 1}}}}
	assert.Equal(t, ProgramHash(p1), ProgramHash(p2))

	p3 := &Program{Decls: []Decl{&LetBinding{Name: "x", Value: &Lit{Kind: IntLit, Value: 2}}}}
	assert.NotEqual(t, ProgramHash(p1), ProgramHash(p3))
}
