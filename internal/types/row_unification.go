package types

import "fmt"

// unifyRecords unifies two record types field by field, then resolves
// their row variables according to openness: two closed records must
// share exactly the same field set; an open record facing a closed one
// has its row variable bound to the closed side's extra fields (closed
// itself, since nothing can ever add more); two open records with
// different row variables get a fresh shared tail so each absorbs the
// other's unique fields (spec.md §4.4.3 "Records", width subtyping via
// unification).
//
// Grounded directly on ailang's internal/types/row_unification.go
// RowUnifier.UnifyRows — the common/only1/only2 label-splitting and the
// four-way case split on tail presence are kept; ailang's separate
// Row/RowVar kind-tagged representation collapses here to a plain
// TRecord{Fields, Row *TVar}, since vibefun has only one row-polymorphic
// type (records) and no effect rows to share the machinery with.
func (u *Unifier) unifyRecords(r1, r2 *TRecord, sub Substitution) (Substitution, error) {
	only1 := map[string]Type{}
	only2 := map[string]Type{}
	common := map[string]bool{}

	for name, t := range r1.Fields {
		if _, ok := r2.Fields[name]; ok {
			common[name] = true
		} else {
			only1[name] = t
		}
	}
	for name, t := range r2.Fields {
		if !common[name] {
			only2[name] = t
		}
	}

	var err error
	for name := range common {
		sub, err = u.Unify(r1.Fields[name], r2.Fields[name], sub)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
	}

	switch {
	case r1.Row == nil && r2.Row == nil:
		if len(only1) > 0 || len(only2) > 0 {
			return nil, fmt.Errorf("closed records have mismatched fields: %v vs %v", fieldNames(only1), fieldNames(only2))
		}
		return sub, nil

	case r1.Row != nil && r2.Row == nil:
		if len(only1) > 0 {
			return nil, fmt.Errorf("open record has fields %v not present in closed record", fieldNames(only1))
		}
		return cloneSubstWith(sub, r1.Row.Name, &TRecord{Fields: only2, Row: nil}), nil

	case r1.Row == nil && r2.Row != nil:
		if len(only2) > 0 {
			return nil, fmt.Errorf("open record has fields %v not present in closed record", fieldNames(only2))
		}
		return cloneSubstWith(sub, r2.Row.Name, &TRecord{Fields: only1, Row: nil}), nil

	default: // both rows open
		if r1.Row.Name == r2.Row.Name {
			if len(only1) > 0 || len(only2) > 0 {
				return nil, fmt.Errorf("same row variable resolves to different extensions")
			}
			return sub, nil
		}
		fresh := &TVar{Name: freshName(), Level: maxLevel(r1.Row.Level, r2.Row.Level)}
		out := cloneSubst(sub)
		out[r1.Row.Name] = &TRecord{Fields: only2, Row: fresh}
		out[r2.Row.Name] = &TRecord{Fields: only1, Row: fresh}
		return out, nil
	}
}

// recordHasField reports whether t (assumed resolved under sub) is a
// record type with a known field named name, following an open row's
// binding if sub already pins it down.
func recordHasField(sub Substitution, t Type, name string) (Type, bool) {
	r, ok := ApplySubst(sub, t).(*TRecord)
	if !ok {
		return nil, false
	}
	if ft, ok := r.Fields[name]; ok {
		return ft, true
	}
	return nil, false
}

func fieldNames(m map[string]Type) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sortStrings(names)
	return names
}
