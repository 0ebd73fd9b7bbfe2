package types

import (
	"strings"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/core"
	"github.com/vibefun-lang/vibefun/internal/diag"
)

// Checker drives Algorithm W with levels over a desugared Program,
// threading one Substitution through the whole pass and reporting every
// clash as a diag.Diagnostic instead of aborting at the first one, so a
// single run surfaces as many independent type errors as it can.
//
// Grounded on ailang's own checker driver shape (a single mutable
// Unifier-backed pass building up a Substitution while walking the AST),
// adapted to vibefun's level-based generalization and reporting through
// diag.Bag instead of ailang's Result[T]/TypeError value type.
type Checker struct {
	unifier *Unifier
	sub     Substitution
	level   int
	diags   *diag.Bag
	reg     *Registry
}

// NewChecker creates a Checker with an empty substitution and registry.
func NewChecker() *Checker {
	return &Checker{
		unifier: NewUnifier(),
		sub:     Substitution{},
		level:   0,
		diags:   diag.NewBag(),
		reg:     NewRegistry(),
	}
}

// Check type-checks an entire desugared program, returning the top-level
// environment it produced (every exported/let-bound name's inferred
// scheme) and every diagnostic collected along the way.
func Check(prog *core.Program) (*Env, *diag.Bag) {
	c := NewChecker()
	env := BuiltinEnv()

	for _, d := range prog.Decls {
		if td, ok := d.(*core.TypeDeclPassthrough); ok {
			c.reg.Add(td.Decl)
		}
	}

	for _, d := range prog.Decls {
		env = c.checkDecl(env, d)
	}
	return env, c.diags
}

func (c *Checker) unify(t1, t2 Type, pos ast.Pos) {
	sub, err := c.unifier.Unify(t1, t2, c.sub)
	if err != nil {
		code := diag.VF4100Mismatch
		if strings.Contains(err.Error(), "occurs check failed") {
			code = diag.VF4300OccursCheck
		}
		c.diags.Add(diag.Errorf(code, pos, "%s", err.Error()).
			WithTypes(ApplySubst(c.sub, t1).String(), ApplySubst(c.sub, t2).String()))
		return
	}
	c.sub = sub
}

func (c *Checker) checkDecl(env *Env, d core.Decl) *Env {
	switch n := d.(type) {
	case *core.LetBinding:
		return c.checkLetBinding(env, n.Name, n.Mut, n.Value)
	case *core.LetRecBinding:
		return c.checkLetRecBindings(env, n.Bindings)
	case *core.ExternalBinding:
		params := map[string]*TVar{}
		t := resolveType(n.Type, params, c.reg)
		return env.Extend(n.Name, quantifyAll(t))
	case *core.TypeDeclPassthrough:
		return env
	case *core.ImportPassthrough, *core.ReExportPassthrough:
		return env
	default:
		return env
	}
}

func (c *Checker) checkLetBinding(env *Env, name string, mut bool, value core.Expr) *Env {
	c.level++
	valueT := c.infer(env, value)
	if mut {
		c.unify(valueT, NewRef(&TVar{Name: freshName(), Level: c.level}), value.Position())
	}
	c.level--

	resolved := ApplySubst(c.sub, valueT)
	var scheme *Scheme
	if isSyntacticValue(value) {
		scheme = generalize(env, resolved, c.level)
	} else {
		scheme = &Scheme{Type: resolved}
	}
	return env.Extend(name, scheme)
}

func (c *Checker) checkLetRecBindings(env *Env, bindings []core.RecBinding) *Env {
	c.level++
	placeholders := make([]Type, len(bindings))
	scopeEnv := env
	for i, b := range bindings {
		placeholders[i] = &TVar{Name: freshName(), Level: c.level}
		scopeEnv = scopeEnv.Extend(b.Name, &Scheme{Type: placeholders[i]})
	}
	for i, b := range bindings {
		valueT := c.infer(scopeEnv, b.Value)
		c.unify(placeholders[i], valueT, b.Value.Position())
	}
	c.level--

	resultEnv := env
	for i, b := range bindings {
		resolved := ApplySubst(c.sub, placeholders[i])
		var scheme *Scheme
		if isSyntacticValue(b.Value) {
			scheme = generalize(env, resolved, c.level)
		} else {
			scheme = &Scheme{Type: resolved}
		}
		resultEnv = resultEnv.Extend(b.Name, scheme)
	}
	return resultEnv
}

// infer is Algorithm W's core judgment: given env, produce expr's type,
// extending c.sub with whatever unifications were needed along the way.
func (c *Checker) infer(env *Env, expr core.Expr) Type {
	switch n := expr.(type) {
	case *core.Lit:
		return c.inferLit(n)
	case *core.Var:
		return c.inferVar(env, n)
	case *core.Lambda:
		return c.inferLambda(env, n)
	case *core.Apply:
		return c.inferApply(env, n)
	case *core.Let:
		return c.inferLet(env, n)
	case *core.LetRec:
		return c.inferLetRec(env, n)
	case *core.Match:
		return c.inferMatch(env, n)
	case *core.RecordLit:
		return c.inferRecordLit(env, n)
	case *core.RecordUpdate:
		return c.inferRecordUpdate(env, n)
	case *core.RecordAccess:
		return c.inferRecordAccess(env, n)
	case *core.VariantConstruct:
		return c.inferVariantConstruct(env, n)
	case *core.BinOp:
		return c.inferBinOp(env, n)
	case *core.UnOp:
		return c.inferUnOp(env, n)
	case *core.RefNew:
		return NewRef(c.infer(env, n.Value))
	case *core.ExternalRef:
		return c.inferVarNamed(env, n.Name, n.Position())
	case *core.Unsafe:
		return c.infer(env, n.Body)
	case *core.Annotation:
		return c.inferAnnotation(env, n)
	case *core.TupleExpr:
		return c.inferTuple(env, n)
	default:
		c.diags.Add(diag.Errorf(diag.VF3001UnknownASTKind, expr.Position(), "unknown core expression %T reached the type checker", expr))
		return &TVar{Name: freshName(), Level: c.level}
	}
}

func (c *Checker) inferLit(n *core.Lit) Type {
	switch n.Kind {
	case core.IntLit:
		return TInt
	case core.FloatLit:
		return TFloat
	case core.StringLit:
		return TString
	case core.BoolLit:
		return TBool
	default:
		return TUnit
	}
}

func (c *Checker) inferVar(env *Env, n *core.Var) Type {
	return c.inferVarNamed(env, n.Name, n.Position())
}

func (c *Checker) inferVarNamed(env *Env, name string, pos ast.Pos) Type {
	scheme, ok := env.Lookup(name)
	if !ok {
		c.diags.Add(diag.Errorf(diag.VF4102UnknownIdentifier, pos, "unknown identifier %q", name))
		return &TVar{Name: freshName(), Level: c.level}
	}
	return instantiate(scheme, c.level)
}

func (c *Checker) inferLambda(env *Env, n *core.Lambda) Type {
	paramT := &TVar{Name: freshName(), Level: c.level}
	bodyEnv := env.ExtendMono(n.Param, paramT)
	bodyT := c.infer(bodyEnv, n.Body)
	return &TFunc{Param: paramT, Return: bodyT}
}

func (c *Checker) inferApply(env *Env, n *core.Apply) Type {
	funcT := c.infer(env, n.Func)
	argT := c.infer(env, n.Arg)
	resultT := &TVar{Name: freshName(), Level: c.level}

	resolved := ApplySubst(c.sub, funcT)
	if _, ok := resolved.(*TFunc); !ok {
		if _, isVar := resolved.(*TVar); !isVar {
			c.diags.Add(diag.Errorf(diag.VF4101NotAFunction, n.Func.Position(), "cannot apply a value of type %s", resolved))
			return resultT
		}
	}
	c.unify(funcT, &TFunc{Param: argT, Return: resultT}, n.Position())
	return resultT
}

func (c *Checker) inferLet(env *Env, n *core.Let) Type {
	bodyEnv := c.checkLetBinding(env, n.Name, n.Mut, n.Value)
	return c.infer(bodyEnv, n.Body)
}

func (c *Checker) inferLetRec(env *Env, n *core.LetRec) Type {
	bodyEnv := c.checkLetRecBindings(env, n.Bindings)
	return c.infer(bodyEnv, n.Body)
}

func (c *Checker) inferMatch(env *Env, n *core.Match) Type {
	scrutT := c.infer(env, n.Scrutinee)
	resultT := &TVar{Name: freshName(), Level: c.level}

	for _, arm := range n.Arms {
		armEnv := c.checkPattern(env, arm.Pattern, scrutT)
		if arm.Guard != nil {
			guardT := c.infer(armEnv, arm.Guard)
			c.unify(guardT, TBool, arm.Guard.Position())
		}
		bodyT := c.infer(armEnv, arm.Body)
		c.unify(resultT, bodyT, arm.Body.Position())
	}

	if ok, missing := isExhaustive(n.Arms, c.reg, ApplySubst(c.sub, scrutT)); !ok {
		if len(missing) > 0 {
			suffix := "s"
			if len(missing) == 1 {
				suffix = ""
			}
			c.diags.Add(diag.Errorf(diag.VF4400NonExhaustive, n.Position(),
				"match is not exhaustive: missing case%s %s",
				suffix, strings.Join(missing, ", ")))
		} else {
			c.diags.Add(diag.Errorf(diag.VF4400NonExhaustive, n.Position(), "match is not exhaustive"))
		}
	}
	reportUnreachableArms(n.Arms, c.diags)

	return resultT
}

// checkPattern binds a pattern's variables against scrutT, unifying the
// pattern's own structural shape with it, and returns the extended
// environment visible to that arm's guard and body.
func (c *Checker) checkPattern(env *Env, p core.Pattern, scrutT Type) *Env {
	switch n := p.(type) {
	case *core.WildcardPattern:
		return env
	case *core.VarPattern:
		return env.ExtendMono(n.Name, scrutT)
	case *core.LitPattern:
		c.unify(scrutT, c.literalPatternType(n), ast.Pos{})
		return env
	case *core.VariantPattern:
		return c.checkVariantPattern(env, n, scrutT)
	case *core.RecordPattern:
		return c.checkRecordPattern(env, n, scrutT)
	case *core.TuplePattern:
		return c.checkTuplePattern(env, n, scrutT)
	default:
		return env
	}
}

func (c *Checker) literalPatternType(n *core.LitPattern) Type {
	switch n.Kind {
	case core.IntLit:
		return TInt
	case core.FloatLit:
		return TFloat
	case core.StringLit:
		return TString
	case core.BoolLit:
		return TBool
	default:
		return TUnit
	}
}

func (c *Checker) checkVariantPattern(env *Env, n *core.VariantPattern, scrutT Type) *Env {
	if n.Name == "Nil" || n.Name == "Cons" {
		return c.checkListPattern(env, n, scrutT)
	}
	info, ok := c.reg.Constructors[n.Name]
	if !ok {
		c.diags.Add(diag.Errorf(diag.VF4104UnknownConstructor, ast.Pos{}, "unknown constructor %q", n.Name))
		return env
	}
	if len(info.Fields) != len(n.Args) {
		c.diags.Add(diag.Errorf(diag.VF4200Arity, ast.Pos{}, "constructor %q expects %d argument(s), got %d", n.Name, len(info.Fields), len(n.Args)))
	}

	paramSub := map[string]*TVar{}
	args := make([]Type, len(info.Params))
	for i, pname := range info.Params {
		v := &TVar{Name: freshName(), Level: c.level}
		paramSub[pname] = v
		args[i] = v
	}
	var nominal Type
	if len(info.Params) == 0 {
		nominal = &TCon{Name: info.TypeName}
	} else {
		nominal = &TApp{Name: info.TypeName, Args: args}
	}
	c.unify(scrutT, nominal, ast.Pos{})

	result := env
	for i, argPat := range n.Args {
		if i >= len(info.Fields) {
			break
		}
		fieldT := resolveType(info.Fields[i], paramSub, c.reg)
		result = c.checkPattern(result, argPat, fieldT)
	}
	return result
}

// checkListPattern handles the builtin Nil/Cons constructors list-literal
// and cons-pattern sugar lowers to — these are not registered in c.reg
// since List<a> is a builtin type, not something a program's own `type`
// declarations introduce.
func (c *Checker) checkListPattern(env *Env, n *core.VariantPattern, scrutT Type) *Env {
	elemT := &TVar{Name: freshName(), Level: c.level}
	c.unify(scrutT, NewList(elemT), ast.Pos{})

	if n.Name == "Nil" {
		return env
	}
	if len(n.Args) != 2 {
		c.diags.Add(diag.Errorf(diag.VF4200Arity, ast.Pos{}, "constructor \"Cons\" expects 2 arguments, got %d", len(n.Args)))
		return env
	}
	result := c.checkPattern(env, n.Args[0], elemT)
	return c.checkPattern(result, n.Args[1], NewList(elemT))
}

func (c *Checker) checkRecordPattern(env *Env, n *core.RecordPattern, scrutT Type) *Env {
	fields := make(map[string]Type, len(n.Fields))
	for _, f := range n.Fields {
		fields[f.Name] = &TVar{Name: freshName(), Level: c.level}
	}
	row := &TVar{Name: freshName(), Level: c.level}
	c.unify(scrutT, &TRecord{Fields: fields, Row: row}, ast.Pos{})

	result := env
	for _, f := range n.Fields {
		result = c.checkPattern(result, f.Pattern, fields[f.Name])
	}
	return result
}

func (c *Checker) checkTuplePattern(env *Env, n *core.TuplePattern, scrutT Type) *Env {
	elems := make([]Type, len(n.Elements))
	for i := range n.Elements {
		elems[i] = &TVar{Name: freshName(), Level: c.level}
	}
	c.unify(scrutT, &TTuple{Elements: elems}, ast.Pos{})

	result := env
	for i, elemPat := range n.Elements {
		result = c.checkPattern(result, elemPat, elems[i])
	}
	return result
}

func (c *Checker) inferRecordLit(env *Env, n *core.RecordLit) Type {
	fields := make(map[string]Type, len(n.Fields))
	seen := map[string]bool{}
	for _, f := range n.Fields {
		if seen[f.Name] {
			c.diags.Add(diag.Errorf(diag.VF4500DuplicateField, f.Value.Position(), "duplicate field %q", f.Name))
		}
		seen[f.Name] = true
		fields[f.Name] = c.infer(env, f.Value)
	}
	return &TRecord{Fields: fields, Row: nil}
}

func (c *Checker) inferRecordUpdate(env *Env, n *core.RecordUpdate) Type {
	baseT := c.infer(env, n.Base)
	resolved := ApplySubst(c.sub, baseT)
	rec, ok := resolved.(*TRecord)
	if !ok {
		rec = &TRecord{Fields: map[string]Type{}, Row: &TVar{Name: freshName(), Level: c.level}}
		c.unify(baseT, rec, n.Base.Position())
	}

	updated := make(map[string]Type, len(rec.Fields))
	for k, v := range rec.Fields {
		updated[k] = v
	}
	for _, f := range n.Fields {
		valT := c.infer(env, f.Value)
		if existing, ok := rec.Fields[f.Name]; ok {
			c.unify(existing, valT, f.Value.Position())
			updated[f.Name] = valT
		} else if rec.Row != nil {
			updated[f.Name] = valT
		} else {
			c.diags.Add(diag.Errorf(diag.VF4501UnknownField, f.Value.Position(), "unknown field %q on closed record", f.Name))
		}
	}
	return &TRecord{Fields: updated, Row: rec.Row}
}

func (c *Checker) inferRecordAccess(env *Env, n *core.RecordAccess) Type {
	recordT := c.infer(env, n.Record)
	fieldT := &TVar{Name: freshName(), Level: c.level}
	row := &TVar{Name: freshName(), Level: c.level}
	c.unify(recordT, &TRecord{Fields: map[string]Type{n.Field: fieldT}, Row: row}, n.Position())
	return fieldT
}

func (c *Checker) inferVariantConstruct(env *Env, n *core.VariantConstruct) Type {
	if n.Name == "Nil" || n.Name == "Cons" {
		return c.inferListConstruct(env, n)
	}
	info, ok := c.reg.Constructors[n.Name]
	if !ok {
		c.diags.Add(diag.Errorf(diag.VF4104UnknownConstructor, n.Position(), "unknown constructor %q", n.Name))
		return &TVar{Name: freshName(), Level: c.level}
	}
	if len(info.Fields) != len(n.Args) {
		c.diags.Add(diag.Errorf(diag.VF4200Arity, n.Position(), "constructor %q expects %d argument(s), got %d", n.Name, len(info.Fields), len(n.Args)))
	}

	paramSub := map[string]*TVar{}
	args := make([]Type, len(info.Params))
	for i, pname := range info.Params {
		v := &TVar{Name: freshName(), Level: c.level}
		paramSub[pname] = v
		args[i] = v
	}
	for i, argExpr := range n.Args {
		if i >= len(info.Fields) {
			break
		}
		expected := resolveType(info.Fields[i], paramSub, c.reg)
		argT := c.infer(env, argExpr)
		c.unify(expected, argT, argExpr.Position())
	}
	if len(info.Params) == 0 {
		return &TCon{Name: info.TypeName}
	}
	return &TApp{Name: info.TypeName, Args: args}
}

// inferListConstruct handles Nil/Cons seen in expression position
// (list literals desugar to these rather than through BinOp "Cons" when
// they originate from the list-literal syntax's fold).
func (c *Checker) inferListConstruct(env *Env, n *core.VariantConstruct) Type {
	elemT := &TVar{Name: freshName(), Level: c.level}
	if n.Name == "Nil" {
		if len(n.Args) != 0 {
			c.diags.Add(diag.Errorf(diag.VF4200Arity, n.Position(), "constructor \"Nil\" expects 0 arguments, got %d", len(n.Args)))
		}
		return NewList(elemT)
	}
	if len(n.Args) != 2 {
		c.diags.Add(diag.Errorf(diag.VF4200Arity, n.Position(), "constructor \"Cons\" expects 2 arguments, got %d", len(n.Args)))
		return NewList(elemT)
	}
	headT := c.infer(env, n.Args[0])
	c.unify(elemT, headT, n.Args[0].Position())
	tailT := c.infer(env, n.Args[1])
	c.unify(tailT, NewList(elemT), n.Args[1].Position())
	return ApplySubst(c.sub, NewList(elemT))
}

func (c *Checker) inferTuple(env *Env, n *core.TupleExpr) Type {
	elems := make([]Type, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = c.infer(env, e)
	}
	return &TTuple{Elements: elems}
}

func (c *Checker) inferAnnotation(env *Env, n *core.Annotation) Type {
	valueT := c.infer(env, n.Value)
	declared := resolveType(n.Type, map[string]*TVar{}, c.reg)
	c.unify(valueT, declared, n.Position())
	return declared
}

// inferBinOp handles every Core binary operator. Arithmetic operators are
// overloaded between Int and Float (spec.md §4.4.3 "Numeric") without a
// type-class dictionary: both operands are unified together and the
// shared operand type is then required to already be (or still be free
// to become) one of the two numeric primitives.
func (c *Checker) inferBinOp(env *Env, n *core.BinOp) Type {
	leftT := c.infer(env, n.Left)
	rightT := c.infer(env, n.Right)

	switch n.Op {
	case "+", "-", "*", "/", "%":
		c.unify(leftT, rightT, n.Position())
		c.requireNumeric(leftT, n.Position())
		return ApplySubst(c.sub, leftT)
	case "<", ">", "<=", ">=":
		c.unify(leftT, rightT, n.Position())
		c.requireNumeric(leftT, n.Position())
		return TBool
	case "==", "!=":
		c.unify(leftT, rightT, n.Position())
		return TBool
	case "&&", "||":
		c.unify(leftT, TBool, n.Left.Position())
		c.unify(rightT, TBool, n.Right.Position())
		return TBool
	case "&":
		c.unify(leftT, TString, n.Left.Position())
		c.unify(rightT, TString, n.Right.Position())
		return TString
	case "Cons":
		listT := NewList(leftT)
		c.unify(rightT, listT, n.Right.Position())
		return ApplySubst(c.sub, listT)
	case "RefAssign":
		elemT := &TVar{Name: freshName(), Level: c.level}
		c.unify(leftT, NewRef(elemT), n.Left.Position())
		c.unify(rightT, elemT, n.Right.Position())
		return TUnit
	default:
		c.unify(leftT, rightT, n.Position())
		return ApplySubst(c.sub, leftT)
	}
}

// requireNumeric pins an as-yet-unresolved operand to Int (the default
// numeric type) or accepts it outright when already Int/Float; anything
// else is a mismatch.
func (c *Checker) requireNumeric(t Type, pos ast.Pos) {
	resolved := ApplySubst(c.sub, t)
	switch resolved.(type) {
	case *TVar:
		c.unify(t, TInt, pos)
	case *TCon:
		if !resolved.Equals(TInt) && !resolved.Equals(TFloat) {
			c.diags.Add(diag.Errorf(diag.VF4100Mismatch, pos, "expected a numeric type, got %s", resolved).
				WithTypes("Int | Float", resolved.String()))
		}
	default:
		c.diags.Add(diag.Errorf(diag.VF4100Mismatch, pos, "expected a numeric type, got %s", resolved).
			WithTypes("Int | Float", resolved.String()))
	}
}

// inferUnOp disambiguates `!` between boolean negation and ref deref by
// looking at the already-inferred, substitution-resolved operand type —
// the type checker is what the desugarer's UnOp doc comment defers this
// decision to.
func (c *Checker) inferUnOp(env *Env, n *core.UnOp) Type {
	operandT := c.infer(env, n.Operand)

	if n.Op == "!" {
		resolved := ApplySubst(c.sub, operandT)
		if app, ok := resolved.(*TApp); ok && app.Name == "Ref" && len(app.Args) == 1 {
			return app.Args[0]
		}
		c.unify(operandT, TBool, n.Operand.Position())
		return TBool
	}

	// "-" unary negation
	c.requireNumeric(operandT, n.Position())
	return ApplySubst(c.sub, operandT)
}
