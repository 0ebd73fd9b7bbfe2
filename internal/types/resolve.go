package types

import "github.com/vibefun-lang/vibefun/internal/ast"

// TypeInfo records one user-declared type's parameters and right-hand
// side, as seen by the checker after scanning every
// core.TypeDeclPassthrough in a program ahead of inference.
type TypeInfo struct {
	Name    string
	Params  []string
	Variant *ast.VariantDef
	Record  *ast.RecordDef
	Alias   ast.Type
}

// ConstructorInfo records one variant constructor's declared field types
// and the nominal type it belongs to.
type ConstructorInfo struct {
	TypeName string
	Params   []string
	Fields   []ast.Type
}

// Registry holds every nominal type and constructor visible to the
// checker. Populated from TypeDeclPassthrough decls in a first pass over
// a Program, before any expression is inferred, so mutually referencing
// type declarations (and forward references from value bindings to
// later type decls) both resolve correctly.
type Registry struct {
	Types        map[string]*TypeInfo
	Constructors map[string]*ConstructorInfo
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Types:        map[string]*TypeInfo{},
		Constructors: map[string]*ConstructorInfo{},
	}
}

// Add records one type declaration, indexing its constructors (if a
// variant) by name for VariantConstruct/VariantPattern lookups.
func (r *Registry) Add(decl *ast.TypeDecl) {
	info := &TypeInfo{Name: decl.Name, Params: decl.TypeParams}
	switch def := decl.Def.(type) {
	case *ast.VariantDef:
		info.Variant = def
		for _, ctor := range def.Constructors {
			r.Constructors[ctor.Name] = &ConstructorInfo{
				TypeName: decl.Name,
				Params:   decl.TypeParams,
				Fields:   ctor.Fields,
			}
		}
	case *ast.RecordDef:
		info.Record = def
	case *ast.AliasDef:
		info.Alias = def.Target
	}
	r.Types[decl.Name] = info
}

// resolveType converts a surface type expression into a checker Type,
// threading params so every occurrence of the same type-variable name
// within one declaration resolves to the same *TVar.
func resolveType(t ast.Type, params map[string]*TVar, reg *Registry) Type {
	switch n := t.(type) {
	case *ast.PrimitiveType:
		switch n.Name {
		case "Int":
			return TInt
		case "Float":
			return TFloat
		case "String":
			return TString
		case "Bool":
			return TBool
		case "Unit":
			return TUnit
		default:
			return &TCon{Name: n.Name}
		}
	case *ast.TypeVarRef:
		if v, ok := params[n.Name]; ok {
			return v
		}
		v := &TVar{Name: n.Name}
		params[n.Name] = v
		return v
	case *ast.TypeApp:
		if len(n.Args) == 0 {
			return &TCon{Name: n.Name}
		}
		args := make([]Type, len(n.Args))
		for i, a := range n.Args {
			args[i] = resolveType(a, params, reg)
		}
		return &TApp{Name: n.Name, Args: args}
	case *ast.FuncType:
		result := resolveType(n.Return, params, reg)
		for i := len(n.Params) - 1; i >= 0; i-- {
			result = &TFunc{Param: resolveType(n.Params[i], params, reg), Return: result}
		}
		return result
	case *ast.RecordType:
		fields := make(map[string]Type, len(n.Fields))
		for _, f := range n.Fields {
			fields[f.Name] = resolveType(f.Type, params, reg)
		}
		var row *TVar
		if n.Open {
			row = &TVar{Name: freshName()}
		}
		return &TRecord{Fields: fields, Row: row}
	case *ast.TupleType:
		elems := make([]Type, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = resolveType(e, params, reg)
		}
		return &TTuple{Elements: elems}
	case *ast.OpaqueType:
		return &TVar{Name: freshName()}
	default:
		return &TVar{Name: freshName()}
	}
}

// quantifyAll builds a scheme quantifying over every type variable
// reachable in t — used for `external` bindings, whose declared type
// parameters are fully polymorphic by construction rather than inferred
// from a value restriction.
func quantifyAll(t Type) *Scheme {
	free := freeVars(t)
	vars := make([]string, 0, len(free))
	for v := range free {
		vars = append(vars, v)
	}
	sortStrings(vars)
	return &Scheme{Vars: vars, Type: t}
}
