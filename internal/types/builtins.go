package types

// BuiltinEnv seeds the top-level environment with the handful of names
// the desugarer or surface language assumes exist without an explicit
// `external` declaration: the `concat` helper spread segments compile
// down to. The list constructors Nil/Cons are not bound here; checker.go
// special-cases them directly.
//
// Grounded on ailang's NewTypeEnvWithBuiltins (internal/types/env.go)
// — same idea of a pre-populated root Env — narrowed to vibefun's much
// smaller builtin surface, since effect-bearing IO/error builtins live
// behind `external` declarations here instead of being wired into the
// checker itself.
func BuiltinEnv() *Env {
	env := NewEnv()

	a := "a"
	listA := NewList(&TVar{Name: a})
	concatT := &Scheme{
		Vars: []string{a},
		Type: &TFunc{Param: listA, Return: &TFunc{Param: listA, Return: listA}},
	}
	env = env.Extend("concat", concatT)

	return env
}
