package lexer

import "github.com/vibefun-lang/vibefun/internal/ast"

// toASTPos converts a lexer.Pos into the shared ast.Pos used by every
// downstream stage, keeping the lexer's own Pos free of the ast import
// everywhere except at diagnostic-reporting boundaries.
func toASTPos(p Pos) ast.Pos {
	return ast.Pos{File: p.File, Line: p.Line, Column: p.Column, Offset: p.Offset}
}

// ToASTPos exposes the conversion to callers outside the package (the
// parser attaches ast.Pos to every node it builds from tokens).
func ToASTPos(p Pos) ast.Pos { return toASTPos(p) }
