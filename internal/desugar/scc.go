package desugar

import "github.com/vibefun-lang/vibefun/internal/ast"

// freeIdents collects every bare identifier reference reachable inside e
// into out. It does not track shadowing: a nested lambda or let that
// rebinds one of the group's names is still counted as a reference. That
// only risks drawing an edge that isn't strictly needed, which just folds
// two otherwise-independent bindings into one (still correct, if not
// maximally split) recursive group — safe in the direction this function
// can be wrong.
func freeIdents(e ast.Expr, out map[string]bool) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Identifier:
		out[n.Name] = true
	case *ast.Lambda:
		freeIdents(n.Body, out)
	case *ast.Apply:
		freeIdents(n.Func, out)
		for _, a := range n.Args {
			freeIdents(a, out)
		}
	case *ast.Let:
		freeIdents(n.Value, out)
		freeIdents(n.Body, out)
	case *ast.LetRec:
		for _, b := range n.Bindings {
			freeIdents(b.Value, out)
		}
		freeIdents(n.Body, out)
	case *ast.If:
		freeIdents(n.Cond, out)
		freeIdents(n.Then, out)
		freeIdents(n.Else, out)
	case *ast.Match:
		freeIdents(n.Scrutinee, out)
		for _, c := range n.Cases {
			freeIdents(c.Guard, out)
			freeIdents(c.Body, out)
		}
	case *ast.BinaryOp:
		freeIdents(n.Left, out)
		freeIdents(n.Right, out)
	case *ast.UnaryOp:
		freeIdents(n.Operand, out)
	case *ast.RecordLit:
		for _, f := range n.Fields {
			freeIdents(f.Value, out)
		}
	case *ast.RecordUpdate:
		freeIdents(n.Base, out)
		for _, f := range n.Fields {
			freeIdents(f.Value, out)
		}
	case *ast.RecordAccess:
		freeIdents(n.Record, out)
	case *ast.ListLit:
		for _, el := range n.Elements {
			freeIdents(el.Value, out)
		}
	case *ast.TupleExpr:
		for _, el := range n.Elements {
			freeIdents(el, out)
		}
	case *ast.Block:
		for _, s := range n.Stmts {
			freeIdents(s, out)
		}
		freeIdents(n.Result, out)
	case *ast.Pipe:
		freeIdents(n.Left, out)
		freeIdents(n.Right, out)
	case *ast.Compose:
		freeIdents(n.Left, out)
		freeIdents(n.Right, out)
	case *ast.RefNew:
		freeIdents(n.Value, out)
	case *ast.Deref:
		freeIdents(n.Value, out)
	case *ast.Assign:
		freeIdents(n.Target, out)
		freeIdents(n.Value, out)
	case *ast.Unsafe:
		freeIdents(n.Body, out)
	case *ast.Annotation:
		freeIdents(n.Value, out)
	case *ast.While:
		freeIdents(n.Cond, out)
		freeIdents(n.Body, out)
	// *ast.Literal and *ast.ExternalRef have no sub-expressions.
	}
}

// sccGroups partitions a `let rec ... and ...` binding list into its
// minimal strongly-connected components (Tarjan's algorithm), ordered
// dependency-first: a group never precedes a group it calls into.
//
// Grounded on ailang's internal/elaborate/scc.go CallGraph.SCCs,
// rebuilt against vibefun's own AST node set instead of ailang's.
func sccGroups(bindings []*ast.RecBinding) [][]*ast.RecBinding {
	byName := make(map[string]*ast.RecBinding, len(bindings))
	order := make([]string, len(bindings))
	bound := make(map[string]bool, len(bindings))
	for i, b := range bindings {
		byName[b.Name] = b
		order[i] = b.Name
		bound[b.Name] = true
	}

	edges := make(map[string][]string, len(bindings))
	for _, b := range bindings {
		refs := map[string]bool{}
		freeIdents(b.Value, refs)
		for ref := range refs {
			if bound[ref] {
				edges[b.Name] = append(edges[b.Name], ref)
			}
		}
	}

	t := &tarjan{
		edges:   edges,
		indices: map[string]int{},
		lowlink: map[string]int{},
		onStack: map[string]bool{},
	}
	for _, name := range order {
		if _, seen := t.indices[name]; !seen {
			t.strongconnect(name)
		}
	}

	groups := make([][]*ast.RecBinding, len(t.sccs))
	for i, comp := range t.sccs {
		grp := make([]*ast.RecBinding, len(comp))
		for j, name := range comp {
			grp[j] = byName[name]
		}
		groups[i] = grp
	}
	return groups
}

type tarjan struct {
	edges   map[string][]string
	index   int
	stack   []string
	indices map[string]int
	lowlink map[string]int
	onStack map[string]bool
	sccs    [][]string
}

func (t *tarjan) strongconnect(v string) {
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.index++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edges[v] {
		if _, seen := t.indices[w]; !seen {
			t.strongconnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.indices[w] < t.lowlink[v] {
				t.lowlink[v] = t.indices[w]
			}
		}
	}

	if t.lowlink[v] == t.indices[v] {
		var comp []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, comp)
	}
}

// selfRecursive reports whether b's value refers to its own name — the
// only reason a singleton SCC still needs a Core LetRec wrapper instead of
// a plain Let.
func selfRecursive(b *ast.RecBinding) bool {
	refs := map[string]bool{}
	freeIdents(b.Value, refs)
	return refs[b.Name]
}
