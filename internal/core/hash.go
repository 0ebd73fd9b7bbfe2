package core

import (
	"fmt"
	"hash/maphash"
)

// seed is process-global and fixed at first use: structural hashes are
// only ever compared within a single process run (optimizer fixed-point
// detection), never persisted or compared across runs, so a random seed
// is safe and avoids hash-flooding concerns for free.
var seed = maphash.MakeSeed()

// StructuralHash computes a hash of expr's shape and literal/name
// content, ignoring NodeID and both Pos fields. Two expressions that
// differ only in source location or synthesized IDs hash identically —
// exactly the equality the optimizer's fixed-point driver needs (spec.md
// §9: "computed by structural hash, not deep equality in hot loops").
//
// No single teacher or pack file hashes an AST/IR structurally; this is
// new, built on stdlib hash/maphash because nothing in the corpus does
// it differently (see DESIGN.md).
func StructuralHash(expr Expr) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	writeExpr(&h, expr)
	return h.Sum64()
}

func writeExpr(h *maphash.Hash, e Expr) {
	if e == nil {
		h.WriteByte(0)
		return
	}
	switch n := e.(type) {
	case *Lit:
		h.WriteByte(1)
		writeInt(h, int(n.Kind))
		writeString(h, fmt.Sprintf("%v", n.Value))
	case *Var:
		h.WriteByte(2)
		writeString(h, n.Name)
	case *Lambda:
		h.WriteByte(3)
		writeString(h, n.Param)
		writeExpr(h, n.Body)
	case *Apply:
		h.WriteByte(4)
		writeExpr(h, n.Func)
		writeExpr(h, n.Arg)
	case *Let:
		h.WriteByte(5)
		writeString(h, n.Name)
		writeBool(h, n.Mut)
		writeExpr(h, n.Value)
		writeExpr(h, n.Body)
	case *LetRec:
		h.WriteByte(6)
		writeInt(h, len(n.Bindings))
		for _, b := range n.Bindings {
			writeString(h, b.Name)
			writeExpr(h, b.Value)
		}
		writeExpr(h, n.Body)
	case *Match:
		h.WriteByte(7)
		writeExpr(h, n.Scrutinee)
		writeInt(h, len(n.Arms))
		for _, a := range n.Arms {
			writePattern(h, a.Pattern)
			writeExpr(h, a.Guard)
			writeExpr(h, a.Body)
		}
	case *RecordLit:
		h.WriteByte(8)
		writeInt(h, len(n.Fields))
		for _, f := range n.Fields {
			writeString(h, f.Name)
			writeExpr(h, f.Value)
		}
	case *RecordUpdate:
		h.WriteByte(9)
		writeExpr(h, n.Base)
		writeInt(h, len(n.Fields))
		for _, f := range n.Fields {
			writeString(h, f.Name)
			writeExpr(h, f.Value)
		}
	case *RecordAccess:
		h.WriteByte(10)
		writeExpr(h, n.Record)
		writeString(h, n.Field)
	case *VariantConstruct:
		h.WriteByte(11)
		writeString(h, n.Name)
		writeInt(h, len(n.Args))
		for _, a := range n.Args {
			writeExpr(h, a)
		}
	case *BinOp:
		h.WriteByte(12)
		writeString(h, n.Op)
		writeExpr(h, n.Left)
		writeExpr(h, n.Right)
	case *UnOp:
		h.WriteByte(13)
		writeString(h, n.Op)
		writeExpr(h, n.Operand)
	case *RefNew:
		h.WriteByte(14)
		writeExpr(h, n.Value)
	case *ExternalRef:
		h.WriteByte(15)
		writeString(h, n.Name)
	case *Unsafe:
		h.WriteByte(16)
		writeExpr(h, n.Body)
	case *Annotation:
		h.WriteByte(17)
		writeExpr(h, n.Value)
		writeString(h, n.Type.String())
	case *TupleExpr:
		h.WriteByte(18)
		writeInt(h, len(n.Elements))
		for _, el := range n.Elements {
			writeExpr(h, el)
		}
	default:
		h.WriteByte(255)
	}
}

func writePattern(h *maphash.Hash, p Pattern) {
	if p == nil {
		h.WriteByte(0)
		return
	}
	switch n := p.(type) {
	case *WildcardPattern:
		h.WriteByte(1)
	case *VarPattern:
		h.WriteByte(2)
		writeString(h, n.Name)
	case *LitPattern:
		h.WriteByte(3)
		writeInt(h, int(n.Kind))
		writeString(h, fmt.Sprintf("%v", n.Value))
	case *VariantPattern:
		h.WriteByte(4)
		writeString(h, n.Name)
		writeInt(h, len(n.Args))
		for _, a := range n.Args {
			writePattern(h, a)
		}
	case *RecordPattern:
		h.WriteByte(5)
		writeInt(h, len(n.Fields))
		for _, f := range n.Fields {
			writeString(h, f.Name)
			writePattern(h, f.Pattern)
		}
	case *TuplePattern:
		h.WriteByte(6)
		writeInt(h, len(n.Elements))
		for _, e := range n.Elements {
			writePattern(h, e)
		}
	default:
		h.WriteByte(255)
	}
}

func writeString(h *maphash.Hash, s string) {
	writeInt(h, len(s))
	_, _ = h.WriteString(s)
}

func writeBool(h *maphash.Hash, b bool) {
	if b {
		h.WriteByte(1)
	} else {
		h.WriteByte(0)
	}
}

func writeInt(h *maphash.Hash, n int) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(n >> (8 * i))
	}
	_, _ = h.Write(buf[:])
}

// ProgramHash hashes an entire Program's declaration sequence in order.
func ProgramHash(p *Program) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	for _, d := range p.Decls {
		switch n := d.(type) {
		case *LetBinding:
			h.WriteByte(1)
			writeString(&h, n.Name)
			writeBool(&h, n.Mut)
			writeExpr(&h, n.Value)
		case *LetRecBinding:
			h.WriteByte(2)
			for _, b := range n.Bindings {
				writeString(&h, b.Name)
				writeExpr(&h, b.Value)
			}
		default:
			h.WriteByte(3)
		}
	}
	return h.Sum64()
}
