package optimizer

import "github.com/vibefun-lang/vibefun/internal/core"

const inlineThresholdO2 = 50

// BetaReduce collapses an immediate redex `((x) => body)(arg)` (spec.md
// §4.5.3), substituting when arg is pure or x occurs at most once in
// body so effect order is preserved either way.
type BetaReduce struct{}

func (p *BetaReduce) Name() string { return "beta-reduce" }

func (p *BetaReduce) Apply(prog *core.Program) (*core.Program, int) {
	count := 0
	ctx := &substCtx{}
	visit := func(e core.Expr) core.Expr {
		app, ok := e.(*core.Apply)
		if !ok {
			return e
		}
		lam, ok := app.Func.(*core.Lambda)
		if !ok {
			return e
		}
		if !isPure(app.Arg) && countRefs(lam.Param, lam.Body) > 1 {
			return e
		}
		count++
		return substitute(ctx, lam.Body, lam.Param, app.Arg)
	}
	return transformProgram(prog, visit), count
}

// Inline substitutes a let-bound lambda's body at its call sites when
// its AST is small or it is only called once (spec.md §4.5.3's cost
// model). Since it only ever targets core.Let (never core.LetRec), it
// automatically never inlines a recursive or mutually recursive
// binding, as a plain Let's value can never refer to its own name.
type Inline struct {
	Threshold int
}

func (p *Inline) Name() string { return "inline" }

func (p *Inline) Apply(prog *core.Program) (*core.Program, int) {
	count := 0
	ctx := &substCtx{}
	visit := func(e core.Expr) core.Expr {
		let, ok := e.(*core.Let)
		if !ok || let.Mut {
			return e
		}
		lam, ok := let.Value.(*core.Lambda)
		if !ok {
			return e
		}
		if containsEffectOps(lam.Body) {
			return e
		}
		refs := countRefs(let.Name, let.Body)
		if refs == 0 {
			return e
		}
		if refs != 1 && exprSize(lam) >= p.Threshold {
			return e
		}
		newBody, n := inlineCallsTo(ctx, let.Name, lam, let.Body)
		if n == 0 {
			return e
		}
		count += n
		return &core.Let{Node: let.Node, Name: let.Name, Mut: let.Mut, Value: let.Value, Body: newBody}
	}
	return transformProgram(prog, visit), count
}

// containsEffectOps reports whether e contains a ref allocation,
// assignment, dereference, external reference, or unsafe block anywhere
// in its tree — any of which disqualifies a lambda body from inlining
// (spec.md §4.5.3: "never inline ... bodies containing unsafe or ref
// operations").
func containsEffectOps(e core.Expr) bool {
	found := false
	var walk func(core.Expr)
	walk = func(e core.Expr) {
		if found || e == nil {
			return
		}
		switch n := e.(type) {
		case *core.RefNew, *core.Unsafe, *core.ExternalRef:
			found = true
			return
		case *core.BinOp:
			if n.Op == "RefAssign" {
				found = true
				return
			}
		case *core.UnOp:
			if n.Op == "!" {
				found = true
				return
			}
		}
		transformChildren(e, func(c core.Expr) core.Expr {
			walk(c)
			return c
		})
	}
	walk(e)
	return found
}

// inlineCallsTo rewrites every `name(arg)` call site in body to lam's
// body with Param substituted by arg, stopping at any inner binder that
// shadows name.
func inlineCallsTo(ctx *substCtx, name string, lam *core.Lambda, body core.Expr) (core.Expr, int) {
	count := 0
	var walk func(core.Expr) core.Expr
	walk = func(e core.Expr) core.Expr {
		switch n := e.(type) {
		case nil:
			return nil
		case *core.Apply:
			fn := walk(n.Func)
			arg := walk(n.Arg)
			if v, ok := fn.(*core.Var); ok && v.Name == name {
				count++
				return substitute(ctx, lam.Body, lam.Param, arg)
			}
			return &core.Apply{Node: n.Node, Func: fn, Arg: arg}
		case *core.Lambda:
			if n.Param == name {
				return e
			}
			return &core.Lambda{Node: n.Node, Param: n.Param, Body: walk(n.Body)}
		case *core.Let:
			value := walk(n.Value)
			if n.Name == name {
				return &core.Let{Node: n.Node, Name: n.Name, Mut: n.Mut, Value: value, Body: n.Body}
			}
			return &core.Let{Node: n.Node, Name: n.Name, Mut: n.Mut, Value: value, Body: walk(n.Body)}
		case *core.LetRec:
			for _, b := range n.Bindings {
				if b.Name == name {
					return e
				}
			}
			bindings := make([]core.RecBinding, len(n.Bindings))
			for i, b := range n.Bindings {
				bindings[i] = core.RecBinding{Name: b.Name, Value: walk(b.Value)}
			}
			return &core.LetRec{Node: n.Node, Bindings: bindings, Body: walk(n.Body)}
		case *core.Match:
			arms := make([]core.MatchArm, len(n.Arms))
			for i, a := range n.Arms {
				if patternBinds(a.Pattern, name) {
					arms[i] = a
					continue
				}
				var guard core.Expr
				if a.Guard != nil {
					guard = walk(a.Guard)
				}
				arms[i] = core.MatchArm{Pattern: a.Pattern, Guard: guard, Body: walk(a.Body)}
			}
			return &core.Match{Node: n.Node, Scrutinee: walk(n.Scrutinee), Arms: arms}
		default:
			return transformChildren(e, walk)
		}
	}
	result := walk(body)
	return result, count
}

// EtaReduce rewrites `(x) => f(x)` to `f` when x is not free in f and f
// is a pure value (spec.md §4.5.3).
type EtaReduce struct{}

func (p *EtaReduce) Name() string { return "eta-reduce" }

func (p *EtaReduce) Apply(prog *core.Program) (*core.Program, int) {
	count := 0
	visit := func(e core.Expr) core.Expr {
		lam, ok := e.(*core.Lambda)
		if !ok {
			return e
		}
		app, ok := lam.Body.(*core.Apply)
		if !ok {
			return e
		}
		v, ok := app.Arg.(*core.Var)
		if !ok || v.Name != lam.Param {
			return e
		}
		if exprFreeVars(app.Func)[lam.Param] {
			return e
		}
		if !isPureValue(app.Func) {
			return e
		}
		count++
		return app.Func
	}
	return transformProgram(prog, visit), count
}

func isPureValue(e core.Expr) bool {
	switch e.(type) {
	case *core.Var, *core.Lambda:
		return true
	default:
		return false
	}
}
