package desugar

import (
	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/core"
	"github.com/vibefun-lang/vibefun/internal/diag"
)

// desugarExpr dispatches every surface expression form to its Core
// lowering. The switch is exhaustive over ast.Expr's closed sum; reaching
// default means the parser produced a node kind this package doesn't know
// about, which is a compiler bug, not a user error (spec.md §7).
func (d *Desugarer) desugarExpr(e ast.Expr) core.Expr {
	switch n := e.(type) {
	case *ast.Literal:
		return &core.Lit{Node: d.node(n.Pos), Kind: toCoreLitKind(n.Kind), Value: n.Value}
	case *ast.Identifier:
		return &core.Var{Node: d.node(n.Pos), Name: n.Name}
	case *ast.Lambda:
		return d.desugarLambda(n)
	case *ast.Apply:
		return d.desugarApply(n)
	case *ast.Let:
		return &core.Let{Node: d.node(n.Pos), Name: n.Name, Mut: n.Mut, Value: d.desugarExpr(n.Value), Body: d.desugarExpr(n.Body)}
	case *ast.LetRec:
		return d.desugarLetRecExpr(n)
	case *ast.If:
		return d.desugarIf(n)
	case *ast.Match:
		return d.desugarMatch(n)
	case *ast.BinaryOp:
		return d.desugarBinaryOp(n)
	case *ast.UnaryOp:
		return d.desugarUnaryOp(n)
	case *ast.RecordLit:
		return d.desugarRecordLit(n)
	case *ast.RecordUpdate:
		return d.desugarRecordUpdate(n)
	case *ast.RecordAccess:
		return d.desugarRecordAccess(n)
	case *ast.ListLit:
		return d.desugarListLit(n)
	case *ast.TupleExpr:
		return d.desugarTuple(n)
	case *ast.Block:
		return d.desugarBlock(n)
	case *ast.Pipe:
		return d.desugarPipe(n)
	case *ast.Compose:
		return d.desugarCompose(n)
	case *ast.RefNew:
		return &core.RefNew{Node: d.node(n.Pos), Value: d.desugarExpr(n.Value)}
	case *ast.Deref:
		return &core.UnOp{Node: d.node(n.Pos), Op: "!", Operand: d.desugarExpr(n.Value)}
	case *ast.Assign:
		return &core.BinOp{Node: d.node(n.Pos), Op: "RefAssign", Left: d.desugarExpr(n.Target), Right: d.desugarExpr(n.Value)}
	case *ast.ExternalRef:
		return &core.ExternalRef{Node: d.node(n.Pos), Name: n.Name}
	case *ast.Unsafe:
		return &core.Unsafe{Node: d.node(n.Pos), Body: d.desugarExpr(n.Body)}
	case *ast.Annotation:
		return &core.Annotation{Node: d.node(n.Pos), Value: d.desugarExpr(n.Value), Type: n.Type}
	case *ast.While:
		return d.desugarWhile(n)
	default:
		pos := ast.Pos{}
		if e != nil {
			pos = e.Position()
		}
		d.diags.Add(diag.Errorf(diag.VF3001UnknownASTKind, pos, "desugarer received an unhandled expression node %T", e))
		return d.unit(pos)
	}
}

// desugarLambda curries a surface multi-parameter lambda into nested
// single-parameter Core lambdas (spec.md §4.3 item 2).
func (d *Desugarer) desugarLambda(n *ast.Lambda) core.Expr {
	body := d.desugarExpr(n.Body)
	for i := len(n.Params) - 1; i >= 0; i-- {
		body = d.curryParam(n.Params[i], n.Pos, body)
	}
	return body
}

// curryParam turns one surface parameter pattern into a single-parameter
// Core lambda wrapping body. A plain variable or wildcard parameter needs
// no match; anything else becomes a fresh scrutinee destructured by a
// single-arm match over the expanded pattern.
//
// When the parameter itself is an or-pattern, expandPattern returns more
// than one alternative and each resulting arm shares the same already
// -desugared body subtree — the one place in this package two Core match
// arms point at one Expr instead of each owning their own. A parameter
// pattern this shape is rare enough (lambdas almost always bind a name)
// that re-desugaring body once per alternative wasn't worth the
// complexity; nothing downstream mutates Core nodes in place, so aliasing
// is harmless even though it departs from the rule followed elsewhere of
// always re-desugaring per arm.
func (d *Desugarer) curryParam(p ast.Pattern, pos ast.Pos, body core.Expr) core.Expr {
	switch pp := p.(type) {
	case *ast.VarPattern:
		return &core.Lambda{Node: d.node(pos), Param: pp.Name, Body: body}
	case *ast.WildcardPattern:
		return &core.Lambda{Node: d.node(pos), Param: d.fresh("arg"), Body: body}
	default:
		scrutineeName := d.fresh("arg")
		pats := expandPattern(p)
		arms := make([]core.MatchArm, len(pats))
		for i, pat := range pats {
			arms[i] = core.MatchArm{Pattern: pat, Body: body}
		}
		match := &core.Match{
			Node:      d.node(pos),
			Scrutinee: &core.Var{Node: d.node(pos), Name: scrutineeName},
			Arms:      arms,
		}
		return &core.Lambda{Node: d.node(pos), Param: scrutineeName, Body: match}
	}
}

// desugarApply curries `f(a, b, c)` into `Apply(Apply(Apply(f, a), b), c)`
// (spec.md §4.3 item 1).
func (d *Desugarer) desugarApply(n *ast.Apply) core.Expr {
	fn := d.desugarExpr(n.Func)
	for _, arg := range n.Args {
		fn = &core.Apply{Node: d.node(n.Pos), Func: fn, Arg: d.desugarExpr(arg)}
	}
	return fn
}

// desugarLetRecExpr lowers an expression-position `let rec ... and ...`
// the same way top-level groups are lowered (scc.go), folding each SCC
// around the already-desugared continuation from innermost (last-declared)
// group outward.
func (d *Desugarer) desugarLetRecExpr(n *ast.LetRec) core.Expr {
	body := d.desugarExpr(n.Body)
	groups := sccGroups(n.Bindings)
	for i := len(groups) - 1; i >= 0; i-- {
		grp := groups[i]
		if len(grp) == 1 && !selfRecursive(grp[0]) {
			b := grp[0]
			body = &core.Let{Node: d.node(n.Pos), Name: b.Name, Value: d.desugarExpr(b.Value), Body: body}
			continue
		}
		rb := make([]core.RecBinding, len(grp))
		for j, b := range grp {
			rb[j] = core.RecBinding{Name: b.Name, Value: d.desugarExpr(b.Value)}
		}
		body = &core.LetRec{Node: d.node(n.Pos), Bindings: rb, Body: body}
	}
	return body
}

// desugarIf lowers to a two-arm Match on the literal booleans; a missing
// else becomes Unit (spec.md §4.3 item 8).
func (d *Desugarer) desugarIf(n *ast.If) core.Expr {
	cond := d.desugarExpr(n.Cond)
	thenBody := d.desugarExpr(n.Then)
	elseBody := d.unit(n.Pos)
	if n.Else != nil {
		elseBody = d.desugarExpr(n.Else)
	}
	return &core.Match{
		Node:      d.node(n.Pos),
		Scrutinee: cond,
		Arms: []core.MatchArm{
			{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}, Body: thenBody},
			{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: false}, Body: elseBody},
		},
	}
}

func (d *Desugarer) desugarMatch(n *ast.Match) core.Expr {
	scrutinee := d.desugarExpr(n.Scrutinee)
	var arms []core.MatchArm
	for _, c := range n.Cases {
		arms = append(arms, d.expandMatchCase(c)...)
	}
	return &core.Match{Node: d.node(n.Pos), Scrutinee: scrutinee, Arms: arms}
}

// expandMatchCase expands one surface case's pattern into its Core
// alternatives and, for each, re-desugars the guard and body from
// scratch — every resulting arm owns an independent Expr tree, never a
// shared subtree, so later passes (optimizer inlining, dtree construction)
// can freely mutate or specialize one arm's body without touching another.
func (d *Desugarer) expandMatchCase(c *ast.MatchCase) []core.MatchArm {
	pats := expandPattern(c.Pattern)
	arms := make([]core.MatchArm, len(pats))
	for i, pat := range pats {
		var guard core.Expr
		if c.Guard != nil {
			guard = d.desugarExpr(c.Guard)
		}
		arms[i] = core.MatchArm{Pattern: pat, Guard: guard, Body: d.desugarExpr(c.Body)}
	}
	return arms
}

func (d *Desugarer) desugarBinaryOp(n *ast.BinaryOp) core.Expr {
	op := n.Op
	if op == "::" {
		op = "Cons"
	}
	return &core.BinOp{Node: d.node(n.Pos), Op: op, Left: d.desugarExpr(n.Left), Right: d.desugarExpr(n.Right)}
}

func (d *Desugarer) desugarUnaryOp(n *ast.UnaryOp) core.Expr {
	return &core.UnOp{Node: d.node(n.Pos), Op: n.Op, Operand: d.desugarExpr(n.Operand)}
}

// desugarListLit builds a right-folded Cons/Nil chain; a spread element
// `...xs` splices via a call to the prelude's `concat` rather than
// introducing a dedicated IR form, since Core has no list-append
// primitive of its own (spec.md §4.3 item 6).
func (d *Desugarer) desugarListLit(n *ast.ListLit) core.Expr {
	tail := core.Expr(&core.VariantConstruct{Node: d.node(n.Pos), Name: "Nil"})
	for i := len(n.Elements) - 1; i >= 0; i-- {
		el := n.Elements[i]
		if el.Spread {
			spread := d.desugarExpr(el.Value)
			concatFn := &core.Var{Node: d.node(n.Pos), Name: "concat"}
			partial := &core.Apply{Node: d.node(n.Pos), Func: concatFn, Arg: spread}
			tail = &core.Apply{Node: d.node(n.Pos), Func: partial, Arg: tail}
		} else {
			tail = &core.BinOp{Node: d.node(n.Pos), Op: "Cons", Left: d.desugarExpr(el.Value), Right: tail}
		}
	}
	return tail
}

func (d *Desugarer) desugarTuple(n *ast.TupleExpr) core.Expr {
	elems := make([]core.Expr, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = d.desugarExpr(e)
	}
	return &core.TupleExpr{Node: d.node(n.Pos), Elements: elems}
}

// desugarBlock right-folds `{ s1; s2; e }` into nested lets discarding each
// statement's value under the reserved name "_" (spec.md §4.3 item 4).
func (d *Desugarer) desugarBlock(n *ast.Block) core.Expr {
	body := d.desugarExpr(n.Result)
	for i := len(n.Stmts) - 1; i >= 0; i-- {
		stmt := d.desugarExpr(n.Stmts[i])
		body = &core.Let{Node: d.node(n.Pos), Name: "_", Value: stmt, Body: body}
	}
	return body
}

// desugarPipe lowers `a |> f` directly to `f(a)`; chains left-associate at
// parse time so no fresh variable is ever needed here (spec.md §8 example:
// `1 |> add(2) |> multiply(3)` => `multiply(3)(add(2)(1))`).
func (d *Desugarer) desugarPipe(n *ast.Pipe) core.Expr {
	left := d.desugarExpr(n.Left)
	right := d.desugarExpr(n.Right)
	return &core.Apply{Node: d.node(n.Pos), Func: right, Arg: left}
}

// desugarCompose lowers `f >> g` / `f << g` to a synthesized one-parameter
// lambda, since composition needs a point to apply both functions to that
// the surface syntax never names (spec.md §4.3 item 3).
func (d *Desugarer) desugarCompose(n *ast.Compose) core.Expr {
	left := d.desugarExpr(n.Left)
	right := d.desugarExpr(n.Right)
	param := d.fresh("tmp")
	paramRef := &core.Var{Node: d.node(n.Pos), Name: param}
	var body core.Expr
	if n.Op == ">>" {
		body = &core.Apply{Node: d.node(n.Pos), Func: right, Arg: &core.Apply{Node: d.node(n.Pos), Func: left, Arg: paramRef}}
	} else {
		body = &core.Apply{Node: d.node(n.Pos), Func: left, Arg: &core.Apply{Node: d.node(n.Pos), Func: right, Arg: paramRef}}
	}
	return &core.Lambda{Node: d.node(n.Pos), Param: param, Body: body}
}

func (d *Desugarer) desugarRecordFieldValue(f *ast.RecordField) core.Expr {
	if f.Value == nil {
		return &core.Var{Node: d.node(f.Pos), Name: f.Name}
	}
	return d.desugarExpr(f.Value)
}

func (d *Desugarer) desugarRecordLit(n *ast.RecordLit) core.Expr {
	fields := make([]core.RecordFieldInit, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = core.RecordFieldInit{Name: f.Name, Value: d.desugarRecordFieldValue(f)}
	}
	return &core.RecordLit{Node: d.node(n.Pos), Fields: fields}
}

func (d *Desugarer) desugarRecordUpdate(n *ast.RecordUpdate) core.Expr {
	base := d.desugarExpr(n.Base)
	fields := make([]core.RecordFieldInit, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = core.RecordFieldInit{Name: f.Name, Value: d.desugarRecordFieldValue(f)}
	}
	return &core.RecordUpdate{Node: d.node(n.Pos), Base: base, Fields: fields}
}

func (d *Desugarer) desugarRecordAccess(n *ast.RecordAccess) core.Expr {
	return &core.RecordAccess{Node: d.node(n.Pos), Record: d.desugarExpr(n.Record), Field: n.Field}
}

// desugarWhile lowers to a self-recursive local helper bound by LetRec,
// called once with `()`: the true branch sequences the loop body then
// recurs, the false branch returns Unit (spec.md §8 example: `while !done
// { step() }` => `let rec $loop0 = (_) => match !done { ... } in $loop0(())`).
func (d *Desugarer) desugarWhile(n *ast.While) core.Expr {
	loopName := d.fresh("loop")
	cond := d.desugarExpr(n.Cond)
	bodyExpr := d.desugarExpr(n.Body)

	recur := &core.Apply{Node: d.node(n.Pos), Func: &core.Var{Node: d.node(n.Pos), Name: loopName}, Arg: d.unit(n.Pos)}
	thenBranch := &core.Let{Node: d.node(n.Pos), Name: "_", Value: bodyExpr, Body: recur}

	loopBody := &core.Match{
		Node:      d.node(n.Pos),
		Scrutinee: cond,
		Arms: []core.MatchArm{
			{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: true}, Body: thenBranch},
			{Pattern: &core.LitPattern{Kind: core.BoolLit, Value: false}, Body: d.unit(n.Pos)},
		},
	}
	loopLambda := &core.Lambda{Node: d.node(n.Pos), Param: "_", Body: loopBody}
	initialCall := &core.Apply{Node: d.node(n.Pos), Func: &core.Var{Node: d.node(n.Pos), Name: loopName}, Arg: d.unit(n.Pos)}

	return &core.LetRec{
		Node:     d.node(n.Pos),
		Bindings: []core.RecBinding{{Name: loopName, Value: loopLambda}},
		Body:     initialCall,
	}
}
