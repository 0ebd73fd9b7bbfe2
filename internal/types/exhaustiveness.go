package types

import (
	"github.com/vibefun-lang/vibefun/internal/core"
	"github.com/vibefun-lang/vibefun/internal/diag"
)

// isExhaustive reports whether arms cover every possible value of
// scrutType at its top level: every constructor of a variant type, both
// literal Bool arms, or a single catch-all (wildcard/var, unguarded)
// pattern. When it is not, missing lists the uncovered case names (in
// declaration order for a variant type) so the caller can enumerate them
// in its diagnostic (spec.md §4.4.4: "missing cases are enumerated and
// reported as VF4400"); missing is nil when the scrutinee type has no
// finite, enumerable case set to report (Int/Float/String/record/tuple).
//
// This is a first-column check only — it does not recurse into nested
// sub-patterns the way a full decision-tree usefulness algorithm would,
// so a match exhaustive only once a combination of several fields is
// considered together can still be flagged non-exhaustive here. Full
// recursive coverage lives in internal/dtree's decision-tree compiler,
// which the optimizer's dead-code pass uses to find unreachable arms;
// this checker trades that precision for a direct, easily-verified
// top-level rule (spec.md §4.5.4 "Exhaustiveness").
func isExhaustive(arms []core.MatchArm, reg *Registry, scrutType Type) (ok bool, missing []string) {
	for _, arm := range arms {
		if arm.Guard != nil {
			continue
		}
		switch arm.Pattern.(type) {
		case *core.WildcardPattern, *core.VarPattern:
			return true, nil
		}
	}

	switch t := scrutType.(type) {
	case *TCon:
		if t.Name == "Bool" {
			return coversBool(arms)
		}
		return coversConstructors(arms, reg, t.Name)
	case *TApp:
		if t.Name == "List" {
			return coversListPatterns(arms)
		}
		return coversConstructors(arms, reg, t.Name)
	default:
		// Int, Float, String, records, and tuples have no finite
		// constructor set the checker can enumerate; only a catch-all
		// arm (already checked above) makes those exhaustive.
		return false, nil
	}
}

func coversBool(arms []core.MatchArm) (bool, []string) {
	sawTrue, sawFalse := false, false
	for _, arm := range arms {
		if arm.Guard != nil {
			continue
		}
		lp, ok := arm.Pattern.(*core.LitPattern)
		if !ok || lp.Kind != core.BoolLit {
			continue
		}
		if lp.Value == true {
			sawTrue = true
		} else {
			sawFalse = true
		}
	}
	var missing []string
	if !sawTrue {
		missing = append(missing, "true")
	}
	if !sawFalse {
		missing = append(missing, "false")
	}
	return sawTrue && sawFalse, missing
}

func coversListPatterns(arms []core.MatchArm) (bool, []string) {
	sawNil, sawCons := false, false
	for _, arm := range arms {
		if arm.Guard != nil {
			continue
		}
		vp, ok := arm.Pattern.(*core.VariantPattern)
		if !ok {
			continue
		}
		if vp.Name == "Nil" {
			sawNil = true
		}
		if vp.Name == "Cons" {
			sawCons = true
		}
	}
	var missing []string
	if !sawNil {
		missing = append(missing, "Nil")
	}
	if !sawCons {
		missing = append(missing, "Cons")
	}
	return sawNil && sawCons, missing
}

func coversConstructors(arms []core.MatchArm, reg *Registry, typeName string) (bool, []string) {
	info, ok := reg.Types[typeName]
	if !ok || info.Variant == nil {
		return false, nil
	}
	remaining := map[string]bool{}
	for _, ctor := range info.Variant.Constructors {
		remaining[ctor.Name] = true
	}
	for _, arm := range arms {
		if arm.Guard != nil {
			continue
		}
		vp, ok := arm.Pattern.(*core.VariantPattern)
		if !ok {
			continue
		}
		delete(remaining, vp.Name)
	}
	if len(remaining) == 0 {
		return true, nil
	}
	// Report missing constructors in declaration order, not map order.
	missing := make([]string, 0, len(remaining))
	for _, ctor := range info.Variant.Constructors {
		if remaining[ctor.Name] {
			missing = append(missing, ctor.Name)
		}
	}
	return false, missing
}

// reportUnreachableArms flags any arm that can never run because every
// value its pattern matches was already claimed by an earlier unguarded
// catch-all — the single unreachability shape worth a direct,
// non-decision-tree check (spec.md VF4900).
func reportUnreachableArms(arms []core.MatchArm, diags *diag.Bag) {
	caughtAll := false
	for _, arm := range arms {
		if caughtAll {
			diags.Add(diag.Warningf(diag.VF4900UnreachableArm, arm.Body.Position(), "unreachable match arm"))
			continue
		}
		if arm.Guard != nil {
			continue
		}
		switch arm.Pattern.(type) {
		case *core.WildcardPattern, *core.VarPattern:
			caughtAll = true
		}
	}
}
