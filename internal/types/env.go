package types

import "fmt"

// Env is a persistent (immutable, parent-linked) scope stack mapping
// names to type schemes. Extend never mutates its receiver, so a Checker
// can hold onto an outer Env while exploring one branch of a Match and
// discard the extension afterward without any snapshot/restore bookkeeping.
//
// Grounded on ailang's internal/types/env.go TypeEnv{bindings,
// parent} shape, narrowed to hold only *Scheme (vibefun's checker never
// binds a bare monomorphic Type at top level the way ailang's
// builtin-function table does; every binding is generalized, even if to
// zero quantified variables).
type Env struct {
	bindings map[string]*Scheme
	parent   *Env
}

// NewEnv creates an empty top-level environment.
func NewEnv() *Env {
	return &Env{bindings: make(map[string]*Scheme)}
}

// Extend returns a child environment with one additional binding visible
// alongside everything in env.
func (env *Env) Extend(name string, scheme *Scheme) *Env {
	return &Env{
		bindings: map[string]*Scheme{name: scheme},
		parent:   env,
	}
}

// ExtendMono is a convenience for binding a monomorphic type (no
// quantified variables) — the common case inside lambda bodies and match
// arms, where a parameter or pattern-bound name is never generalized.
func (env *Env) ExtendMono(name string, t Type) *Env {
	return env.Extend(name, &Scheme{Type: t})
}

// Lookup finds a binding by name, searching outward through parents.
func (env *Env) Lookup(name string) (*Scheme, bool) {
	for e := env; e != nil; e = e.parent {
		if s, ok := e.bindings[name]; ok {
			return s, true
		}
	}
	return nil, false
}

// MustLookup is Lookup but panics on miss; only used where the caller has
// already checked existence (e.g. a second pass over a set of names the
// first pass verified), to avoid a redundant `, ok` at every call site.
func (env *Env) MustLookup(name string) *Scheme {
	s, ok := env.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("types: MustLookup(%q): not bound", name))
	}
	return s
}

// FreeTypeVars collects every type variable free in env — bound by some
// Scheme.Type but not listed in that Scheme's own Vars — used by
// generalize to decide which variables a new let-binding may quantify
// over (spec.md §4.4.2: a variable already free in the environment must
// stay monomorphic, or an outer binding's type could vary per use of the
// inner one).
func (env *Env) FreeTypeVars() map[string]bool {
	free := map[string]bool{}
	for e := env; e != nil; e = e.parent {
		for _, scheme := range e.bindings {
			quantified := map[string]bool{}
			for _, v := range scheme.Vars {
				quantified[v] = true
			}
			for v := range freeVars(scheme.Type) {
				if !quantified[v] {
					free[v] = true
				}
			}
		}
	}
	return free
}

// freeVars collects every TVar name reachable in t.
func freeVars(t Type) map[string]bool {
	out := map[string]bool{}
	collectFreeVars(t, out)
	return out
}

func collectFreeVars(t Type, out map[string]bool) {
	switch n := t.(type) {
	case *TVar:
		out[n.Name] = true
	case *TApp:
		for _, a := range n.Args {
			collectFreeVars(a, out)
		}
	case *TFunc:
		collectFreeVars(n.Param, out)
		collectFreeVars(n.Return, out)
	case *TTuple:
		for _, e := range n.Elements {
			collectFreeVars(e, out)
		}
	case *TRecord:
		for _, f := range n.Fields {
			collectFreeVars(f, out)
		}
		if n.Row != nil {
			out[n.Row.Name] = true
		}
	}
}
