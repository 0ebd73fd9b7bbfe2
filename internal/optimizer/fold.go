package optimizer

import (
	"math"

	"github.com/vibefun-lang/vibefun/internal/core"
)

// ConstantFold evaluates BinOp/UnOp over literal operands at compile
// time and applies a conservative set of algebraic identities (spec.md
// §4.5.2). It never folds through a ref, external, unsafe, or function
// call, since tryFold only ever matches literal operands directly.
type ConstantFold struct{}

func (p *ConstantFold) Name() string { return "constant-fold" }

func (p *ConstantFold) Apply(prog *core.Program) (*core.Program, int) {
	count := 0
	visit := func(e core.Expr) core.Expr {
		folded, ok := tryFold(e)
		if ok {
			count++
			return folded
		}
		return e
	}
	return transformProgram(prog, visit), count
}

func tryFold(e core.Expr) (core.Expr, bool) {
	switch n := e.(type) {
	case *core.BinOp:
		if folded, ok := foldBinOpLiterals(n); ok {
			return folded, true
		}
		return foldAlgebraicIdentity(n)
	case *core.UnOp:
		return foldUnOp(n)
	}
	return e, false
}

func litInt(n core.Node, v int64) *core.Lit  { return &core.Lit{Node: n, Kind: core.IntLit, Value: v} }
func litFloat(n core.Node, v float64) *core.Lit {
	return &core.Lit{Node: n, Kind: core.FloatLit, Value: v}
}
func litBool(n core.Node, v bool) *core.Lit  { return &core.Lit{Node: n, Kind: core.BoolLit, Value: v} }
func litString(n core.Node, v string) *core.Lit {
	return &core.Lit{Node: n, Kind: core.StringLit, Value: v}
}

func foldBinOpLiterals(n *core.BinOp) (core.Expr, bool) {
	l, lok := n.Left.(*core.Lit)
	r, rok := n.Right.(*core.Lit)
	if !lok || !rok {
		return n, false
	}

	switch n.Op {
	case "+", "-", "*", "/", "%":
		return foldArith(n, l, r)
	case "<", ">", "<=", ">=", "==", "!=":
		return foldCompare(n, l, r)
	case "&&", "||":
		return foldBoolOp(n, l, r)
	case "&":
		if l.Kind == core.StringLit && r.Kind == core.StringLit {
			a, _ := l.Value.(string)
			b, _ := r.Value.(string)
			return litString(n.Node, a+b), true
		}
	}
	return n, false
}

// safeIntRange bounds integer folds to the JS-safe-integer envelope
// (spec.md §4.5.2: "folds that would exceed the safe integer range for
// the target JS numeric model are skipped").
const safeIntRange int64 = 1<<53 - 1

func foldArith(n *core.BinOp, l, r *core.Lit) (core.Expr, bool) {
	if l.Kind == core.IntLit && r.Kind == core.IntLit {
		a, aok := l.Value.(int64)
		b, bok := r.Value.(int64)
		if !aok || !bok {
			return n, false
		}
		if a > safeIntRange || a < -safeIntRange || b > safeIntRange || b < -safeIntRange {
			return n, false
		}
		var result int64
		switch n.Op {
		case "+":
			result = a + b
		case "-":
			result = a - b
		case "*":
			result = a * b
			if a != 0 && result/a != b {
				return n, false
			}
		case "/":
			if b == 0 {
				return n, false
			}
			result = a / b
		case "%":
			if b == 0 {
				return n, false
			}
			result = a % b
		default:
			return n, false
		}
		if result > safeIntRange || result < -safeIntRange {
			return n, false
		}
		return litInt(n.Node, result), true
	}

	if l.Kind == core.FloatLit && r.Kind == core.FloatLit {
		a, aok := l.Value.(float64)
		b, bok := r.Value.(float64)
		if !aok || !bok {
			return n, false
		}
		var result float64
		switch n.Op {
		case "+":
			result = a + b
		case "-":
			result = a - b
		case "*":
			result = a * b
		case "/":
			if b == 0 {
				return n, false
			}
			result = a / b
		default:
			return n, false
		}
		// Never fold a result that would change IEEE 754 observable
		// behavior in a way a reader wouldn't expect from the literals
		// written: NaN, +/-Inf, and -0 are left as runtime evaluations.
		if math.IsNaN(result) || math.IsInf(result, 0) || (result == 0 && math.Signbit(result)) {
			return n, false
		}
		return litFloat(n.Node, result), true
	}

	return n, false
}

func foldCompare(n *core.BinOp, l, r *core.Lit) (core.Expr, bool) {
	if l.Kind != r.Kind {
		return n, false
	}
	switch l.Kind {
	case core.IntLit:
		a, _ := l.Value.(int64)
		b, _ := r.Value.(int64)
		return litBool(n.Node, compareOrdered(n.Op, a < b, a > b, a == b)), true
	case core.FloatLit:
		a, _ := l.Value.(float64)
		b, _ := r.Value.(float64)
		if math.IsNaN(a) || math.IsNaN(b) {
			return n, false
		}
		return litBool(n.Node, compareOrdered(n.Op, a < b, a > b, a == b)), true
	case core.StringLit:
		a, _ := l.Value.(string)
		b, _ := r.Value.(string)
		return litBool(n.Node, compareOrdered(n.Op, a < b, a > b, a == b)), true
	case core.BoolLit:
		a, _ := l.Value.(bool)
		b, _ := r.Value.(bool)
		switch n.Op {
		case "==":
			return litBool(n.Node, a == b), true
		case "!=":
			return litBool(n.Node, a != b), true
		}
	}
	return n, false
}

func compareOrdered(op string, lt, gt, eq bool) bool {
	switch op {
	case "<":
		return lt
	case ">":
		return gt
	case "<=":
		return lt || eq
	case ">=":
		return gt || eq
	case "==":
		return eq
	case "!=":
		return !eq
	}
	return false
}

func foldBoolOp(n *core.BinOp, l, r *core.Lit) (core.Expr, bool) {
	if l.Kind != core.BoolLit || r.Kind != core.BoolLit {
		return n, false
	}
	a, _ := l.Value.(bool)
	b, _ := r.Value.(bool)
	switch n.Op {
	case "&&":
		return litBool(n.Node, a && b), true
	case "||":
		return litBool(n.Node, a || b), true
	}
	return n, false
}

func foldUnOp(n *core.UnOp) (core.Expr, bool) {
	lit, ok := n.Operand.(*core.Lit)
	if !ok {
		return n, false
	}
	switch n.Op {
	case "-":
		switch lit.Kind {
		case core.IntLit:
			v, _ := lit.Value.(int64)
			return litInt(n.Node, -v), true
		case core.FloatLit:
			v, _ := lit.Value.(float64)
			if v == 0 {
				return n, false // negating 0.0 produces -0, never folded
			}
			return litFloat(n.Node, -v), true
		}
	case "!":
		// A literal operand can only ever be BoolLit here (a Ref value is
		// never itself a Lit), so this is unambiguously boolean negation.
		if lit.Kind == core.BoolLit {
			v, _ := lit.Value.(bool)
			return litBool(n.Node, !v), true
		}
	}
	return n, false
}

// foldAlgebraicIdentity applies the conservative identities spec.md
// §4.5.2 lists, gated on purity for the two identities that would
// otherwise drop a side-effecting operand.
func foldAlgebraicIdentity(n *core.BinOp) (core.Expr, bool) {
	switch n.Op {
	case "+":
		if isIntOrFloatZero(n.Right) {
			return n.Left, true
		}
		if isIntOrFloatZero(n.Left) {
			return n.Right, true
		}
	case "-":
		if isIntOrFloatZero(n.Right) {
			return n.Left, true
		}
	case "*":
		if isIntOrFloatOne(n.Right) {
			return n.Left, true
		}
		if isIntOrFloatOne(n.Left) {
			return n.Right, true
		}
		if isIntOrFloatZero(n.Right) && isPure(n.Left) {
			return litInt(n.Node, 0), true
		}
		if isIntOrFloatZero(n.Left) && isPure(n.Right) {
			return litInt(n.Node, 0), true
		}
	case "/":
		if isIntOrFloatOne(n.Right) {
			return n.Left, true
		}
	case "&&":
		if isBoolLit(n.Right, true) {
			return n.Left, true
		}
		if isBoolLit(n.Left, true) {
			return n.Right, true
		}
	case "||":
		if isBoolLit(n.Right, false) {
			return n.Left, true
		}
		if isBoolLit(n.Left, false) {
			return n.Right, true
		}
		if isBoolLit(n.Right, true) && isPure(n.Left) {
			return litBool(n.Node, true), true
		}
		if isBoolLit(n.Left, true) && isPure(n.Right) {
			return litBool(n.Node, true), true
		}
	}
	return n, false
}

func isIntOrFloatZero(e core.Expr) bool {
	lit, ok := e.(*core.Lit)
	if !ok {
		return false
	}
	switch lit.Kind {
	case core.IntLit:
		v, _ := lit.Value.(int64)
		return v == 0
	case core.FloatLit:
		v, _ := lit.Value.(float64)
		return v == 0
	}
	return false
}

func isIntOrFloatOne(e core.Expr) bool {
	lit, ok := e.(*core.Lit)
	if !ok {
		return false
	}
	switch lit.Kind {
	case core.IntLit:
		v, _ := lit.Value.(int64)
		return v == 1
	case core.FloatLit:
		v, _ := lit.Value.(float64)
		return v == 1
	}
	return false
}

func isBoolLit(e core.Expr, want bool) bool {
	lit, ok := e.(*core.Lit)
	if !ok || lit.Kind != core.BoolLit {
		return false
	}
	v, _ := lit.Value.(bool)
	return v == want
}
