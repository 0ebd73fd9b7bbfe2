package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExprStringForms(t *testing.T) {
	pos := Pos{File: "t.vf", Line: 1, Column: 1}
	lam := &Lambda{
		Params: []Pattern{&VarPattern{Name: "x", Pos: pos}},
		Body:   &Identifier{Name: "x", Pos: pos},
		Pos:    pos,
	}
	assert.Equal(t, "(x) => x", lam.String())

	ifExpr := &If{
		Cond: &BinaryOp{Op: ">", Left: &Identifier{Name: "x", Pos: pos}, Right: &Literal{Kind: IntLit, Value: 0, Pos: pos}, Pos: pos},
		Then: &Literal{Kind: StringLit, Value: "pos", Pos: pos},
		Else: &Literal{Kind: StringLit, Value: "nonpos", Pos: pos},
		Pos:  pos,
	}
	assert.Equal(t, "(if (x > 0) then pos else nonpos)", ifExpr.String())
}

func TestPatternClosedSum(t *testing.T) {
	var p Pattern = &ConstructorPattern{Name: "Cons", Args: []Pattern{
		&VarPattern{Name: "h"},
		&VarPattern{Name: "t"},
	}}
	assert.Equal(t, "Cons(h, t)", p.String())

	var list Pattern = &ListPattern{
		Elements: []Pattern{&VarPattern{Name: "a"}},
		Rest:     &VarPattern{Name: "rest"},
	}
	assert.Equal(t, "[a, ...rest]", list.String())
}

func TestRecordTypeOpenVsClosed(t *testing.T) {
	closed := &RecordType{Fields: []*RecordTypeField{{Name: "x", Type: &PrimitiveType{Name: "Int"}}}}
	assert.Equal(t, "{ x: Int }", closed.String())

	open := &RecordType{Fields: []*RecordTypeField{{Name: "x", Type: &PrimitiveType{Name: "Int"}}}, Open: true}
	assert.Equal(t, "{ x: Int, ... }", open.String())
}

func TestPosIsZero(t *testing.T) {
	assert.True(t, Pos{}.IsZero())
	assert.False(t, (Pos{Line: 1, Column: 1}).IsZero())
}
