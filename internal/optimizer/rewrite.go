package optimizer

import (
	"github.com/vibefun-lang/vibefun/internal/core"
)

// transformChildren rebuilds e with each direct child expression passed
// through f, preserving e's own Node (span/ID) and every non-Expr field.
// Leaf forms (Lit, Var, ExternalRef) and anything unrecognized are
// returned unchanged.
func transformChildren(e core.Expr, f func(core.Expr) core.Expr) core.Expr {
	switch n := e.(type) {
	case *core.Lit, *core.Var, *core.ExternalRef:
		return e
	case *core.Lambda:
		return &core.Lambda{Node: n.Node, Param: n.Param, Body: f(n.Body)}
	case *core.Apply:
		return &core.Apply{Node: n.Node, Func: f(n.Func), Arg: f(n.Arg)}
	case *core.Let:
		return &core.Let{Node: n.Node, Name: n.Name, Mut: n.Mut, Value: f(n.Value), Body: f(n.Body)}
	case *core.LetRec:
		bindings := make([]core.RecBinding, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = core.RecBinding{Name: b.Name, Value: f(b.Value)}
		}
		return &core.LetRec{Node: n.Node, Bindings: bindings, Body: f(n.Body)}
	case *core.Match:
		arms := make([]core.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			var guard core.Expr
			if a.Guard != nil {
				guard = f(a.Guard)
			}
			arms[i] = core.MatchArm{Pattern: a.Pattern, Guard: guard, Body: f(a.Body)}
		}
		return &core.Match{Node: n.Node, Scrutinee: f(n.Scrutinee), Arms: arms}
	case *core.RecordLit:
		fields := make([]core.RecordFieldInit, len(n.Fields))
		for i, fld := range n.Fields {
			fields[i] = core.RecordFieldInit{Name: fld.Name, Value: f(fld.Value)}
		}
		return &core.RecordLit{Node: n.Node, Fields: fields}
	case *core.RecordUpdate:
		fields := make([]core.RecordFieldInit, len(n.Fields))
		for i, fld := range n.Fields {
			fields[i] = core.RecordFieldInit{Name: fld.Name, Value: f(fld.Value)}
		}
		return &core.RecordUpdate{Node: n.Node, Base: f(n.Base), Fields: fields}
	case *core.RecordAccess:
		return &core.RecordAccess{Node: n.Node, Record: f(n.Record), Field: n.Field}
	case *core.VariantConstruct:
		args := make([]core.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = f(a)
		}
		return &core.VariantConstruct{Node: n.Node, Name: n.Name, Args: args}
	case *core.BinOp:
		return &core.BinOp{Node: n.Node, Op: n.Op, Left: f(n.Left), Right: f(n.Right)}
	case *core.UnOp:
		return &core.UnOp{Node: n.Node, Op: n.Op, Operand: f(n.Operand)}
	case *core.RefNew:
		return &core.RefNew{Node: n.Node, Value: f(n.Value)}
	case *core.Unsafe:
		return &core.Unsafe{Node: n.Node, Body: f(n.Body)}
	case *core.Annotation:
		return &core.Annotation{Node: n.Node, Value: f(n.Value), Type: n.Type}
	case *core.TupleExpr:
		elems := make([]core.Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = f(el)
		}
		return &core.TupleExpr{Node: n.Node, Elements: elems}
	default:
		return e
	}
}

// transform rewrites e bottom-up: every child is transformed first,
// then visit runs on the rebuilt node. Passes implement a single-node
// rule in visit and let transform handle the tree walk.
func transform(e core.Expr, visit func(core.Expr) core.Expr) core.Expr {
	if e == nil {
		return nil
	}
	rebuilt := transformChildren(e, func(c core.Expr) core.Expr { return transform(c, visit) })
	return visit(rebuilt)
}

// transformProgram applies transform to every declaration's expression.
func transformProgram(prog *core.Program, visit func(core.Expr) core.Expr) *core.Program {
	decls := make([]core.Decl, len(prog.Decls))
	for i, d := range prog.Decls {
		switch n := d.(type) {
		case *core.LetBinding:
			decls[i] = &core.LetBinding{Name: n.Name, Mut: n.Mut, Value: transform(n.Value, visit)}
		case *core.LetRecBinding:
			bindings := make([]core.RecBinding, len(n.Bindings))
			for j, b := range n.Bindings {
				bindings[j] = core.RecBinding{Name: b.Name, Value: transform(b.Value, visit)}
			}
			decls[i] = &core.LetRecBinding{Bindings: bindings}
		default:
			decls[i] = d
		}
	}
	return &core.Program{Decls: decls}
}

// exprFreeVars returns the set of names free in e.
func exprFreeVars(e core.Expr) map[string]bool {
	free := map[string]bool{}
	collectFreeVars(e, free)
	return free
}

func collectFreeVars(e core.Expr, free map[string]bool) {
	switch n := e.(type) {
	case nil:
	case *core.Var:
		free[n.Name] = true
	case *core.Lambda:
		inner := map[string]bool{}
		collectFreeVars(n.Body, inner)
		delete(inner, n.Param)
		for k := range inner {
			free[k] = true
		}
	case *core.Let:
		collectFreeVars(n.Value, free)
		inner := map[string]bool{}
		collectFreeVars(n.Body, inner)
		delete(inner, n.Name)
		for k := range inner {
			free[k] = true
		}
	case *core.LetRec:
		inner := map[string]bool{}
		for _, b := range n.Bindings {
			collectFreeVars(b.Value, inner)
		}
		collectFreeVars(n.Body, inner)
		for _, b := range n.Bindings {
			delete(inner, b.Name)
		}
		for k := range inner {
			free[k] = true
		}
	case *core.Match:
		collectFreeVars(n.Scrutinee, free)
		for _, a := range n.Arms {
			inner := map[string]bool{}
			if a.Guard != nil {
				collectFreeVars(a.Guard, inner)
			}
			collectFreeVars(a.Body, inner)
			for bound := range patternBoundNames(a.Pattern) {
				delete(inner, bound)
			}
			for k := range inner {
				free[k] = true
			}
		}
	default:
		transformChildren(e, func(c core.Expr) core.Expr {
			collectFreeVars(c, free)
			return c
		})
	}
}

func patternBoundNames(p core.Pattern) map[string]bool {
	names := map[string]bool{}
	collectPatternNames(p, names)
	return names
}

func collectPatternNames(p core.Pattern, names map[string]bool) {
	switch n := p.(type) {
	case *core.VarPattern:
		names[n.Name] = true
	case *core.VariantPattern:
		for _, a := range n.Args {
			collectPatternNames(a, names)
		}
	case *core.TuplePattern:
		for _, el := range n.Elements {
			collectPatternNames(el, names)
		}
	case *core.RecordPattern:
		for _, fld := range n.Fields {
			collectPatternNames(fld.Pattern, names)
		}
	}
}

// patternBinds reports whether pattern p binds name.
func patternBinds(p core.Pattern, name string) bool {
	return patternBoundNames(p)[name]
}

// countRefs counts free occurrences of name in e (occurrences inside a
// shadowing binder for the same name are not counted). An
// over-approximation is safe here: it can only block an optimization
// that would otherwise have been valid, never cause an incorrect one.
func countRefs(name string, e core.Expr) int {
	count := 0
	var walk func(core.Expr)
	walk = func(e core.Expr) {
		switch n := e.(type) {
		case nil:
			return
		case *core.Var:
			if n.Name == name {
				count++
			}
		case *core.Lambda:
			if n.Param == name {
				return
			}
			walk(n.Body)
		case *core.Let:
			walk(n.Value)
			if n.Name == name {
				return
			}
			walk(n.Body)
		case *core.LetRec:
			for _, b := range n.Bindings {
				if b.Name == name {
					return
				}
			}
			for _, b := range n.Bindings {
				walk(b.Value)
			}
			walk(n.Body)
		case *core.Match:
			walk(n.Scrutinee)
			for _, a := range n.Arms {
				if patternBinds(a.Pattern, name) {
					continue
				}
				if a.Guard != nil {
					walk(a.Guard)
				}
				walk(a.Body)
			}
		default:
			transformChildren(e, func(c core.Expr) core.Expr {
				walk(c)
				return c
			})
		}
	}
	walk(e)
	return count
}
