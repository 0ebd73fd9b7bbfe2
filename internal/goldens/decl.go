package goldens

import "github.com/vibefun-lang/vibefun/internal/core"

// declName returns the name a top-level declaration binds, so a
// manifest case's expected type can be looked up in the resulting
// environment without the manifest author having to repeat the binding
// name separately. Type/import/re-export passthroughs bind nothing.
func declName(d core.Decl) string {
	switch n := d.(type) {
	case *core.LetBinding:
		return n.Name
	case *core.ExternalBinding:
		return n.Name
	case *core.LetRecBinding:
		if len(n.Bindings) > 0 {
			return n.Bindings[len(n.Bindings)-1].Name
		}
	}
	return ""
}
