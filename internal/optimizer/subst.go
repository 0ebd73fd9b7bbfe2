package optimizer

import (
	"fmt"

	"github.com/vibefun-lang/vibefun/internal/core"
)

// substCtx owns the fresh-name counter substitute needs when it must
// alpha-rename a binder to avoid capture. One is created per pass
// invocation and threaded explicitly (spec.md §9: "encapsulate all
// mutable counters in a CompilerContext passed explicitly; no
// process-wide globals").
type substCtx struct {
	counter int
}

func (c *substCtx) fresh() string {
	c.counter++
	return fmt.Sprintf("$opt%d", c.counter)
}

// substitute replaces every free occurrence of name in e with repl,
// renaming any binder that would otherwise capture one of repl's free
// variables (spec.md §4.5.3's "capture-avoiding substitution": compute
// free variables of arg, rename bound variables in body that collide).
func substitute(ctx *substCtx, e core.Expr, name string, repl core.Expr) core.Expr {
	replFree := exprFreeVars(repl)
	return substituteWith(ctx, e, name, repl, replFree)
}

func substituteWith(ctx *substCtx, e core.Expr, name string, repl core.Expr, replFree map[string]bool) core.Expr {
	switch n := e.(type) {
	case nil:
		return nil
	case *core.Var:
		if n.Name == name {
			return repl
		}
		return e
	case *core.Lambda:
		if n.Param == name {
			return e
		}
		if replFree[n.Param] {
			fresh := ctx.fresh()
			body := substituteWith(ctx, n.Body, n.Param, &core.Var{Node: n.Node, Name: fresh}, map[string]bool{fresh: true})
			return &core.Lambda{Node: n.Node, Param: fresh, Body: substituteWith(ctx, body, name, repl, replFree)}
		}
		return &core.Lambda{Node: n.Node, Param: n.Param, Body: substituteWith(ctx, n.Body, name, repl, replFree)}
	case *core.Let:
		value := substituteWith(ctx, n.Value, name, repl, replFree)
		if n.Name == name {
			return &core.Let{Node: n.Node, Name: n.Name, Mut: n.Mut, Value: value, Body: n.Body}
		}
		if replFree[n.Name] {
			fresh := ctx.fresh()
			body := substituteWith(ctx, n.Body, n.Name, &core.Var{Node: n.Node, Name: fresh}, map[string]bool{fresh: true})
			return &core.Let{Node: n.Node, Name: fresh, Mut: n.Mut, Value: value, Body: substituteWith(ctx, body, name, repl, replFree)}
		}
		return &core.Let{Node: n.Node, Name: n.Name, Mut: n.Mut, Value: value, Body: substituteWith(ctx, n.Body, name, repl, replFree)}
	case *core.LetRec:
		for _, b := range n.Bindings {
			if b.Name == name {
				return e
			}
		}
		bindings := append([]core.RecBinding(nil), n.Bindings...)
		body := n.Body
		for i, b := range n.Bindings {
			if replFree[b.Name] { // rename a group name that would capture one of repl's free variables
				fv := &core.Var{Node: n.Node, Name: ctx.fresh()}
				for j := range bindings {
					bindings[j].Value = substituteWith(ctx, bindings[j].Value, b.Name, fv, map[string]bool{fv.Name: true})
				}
				body, bindings[i].Name = substituteWith(ctx, body, b.Name, fv, map[string]bool{fv.Name: true}), fv.Name
			}
		}
		for i := range bindings {
			bindings[i].Value = substituteWith(ctx, bindings[i].Value, name, repl, replFree)
		}
		return &core.LetRec{Node: n.Node, Bindings: bindings, Body: substituteWith(ctx, body, name, repl, replFree)}
	case *core.Match:
		arms := make([]core.MatchArm, len(n.Arms))
		for i, a := range n.Arms {
			if patternBinds(a.Pattern, name) {
				arms[i] = a
				continue
			}
			var guard core.Expr
			if a.Guard != nil {
				guard = substituteWith(ctx, a.Guard, name, repl, replFree)
			}
			arms[i] = core.MatchArm{Pattern: a.Pattern, Guard: guard, Body: substituteWith(ctx, a.Body, name, repl, replFree)}
		}
		return &core.Match{Node: n.Node, Scrutinee: substituteWith(ctx, n.Scrutinee, name, repl, replFree), Arms: arms}
	default:
		return transformChildren(e, func(c core.Expr) core.Expr {
			return substituteWith(ctx, c, name, repl, replFree)
		})
	}
}
