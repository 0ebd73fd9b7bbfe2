package ast

import "fmt"

// Pos is a source location: a 1-based line/column pair plus the byte offset
// and originating file. Every token and every AST/Core/Type node carries a
// Pos; synthesized nodes copy the Pos of the node that produced them.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether p was never set.
func (p Pos) IsZero() bool {
	return p.Line == 0 && p.Column == 0 && p.Offset == 0 && p.File == ""
}

// Span is a start/end range in source, used by diagnostics to underline a
// whole construct rather than a single point.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	if s.Start.File == s.End.File && s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Start.File, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
