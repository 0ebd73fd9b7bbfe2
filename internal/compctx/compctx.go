// Package compctx holds the per-compilation-unit mutable state that the
// pipeline threads explicitly through lexing, parsing, desugaring, type
// checking, and optimization: a fresh-name counter, a cooperative
// cancellation signal, and the diagnostic sink every phase reports into.
// No phase keeps its own process-wide mutable counters for this state,
// except internal/types, whose type-variable names come from one
// package-level counter (types.go); see spec.md §9's "Fresh variables and compiler state" design note.
package compctx

import (
	"context"
	"fmt"

	"github.com/vibefun-lang/vibefun/internal/diag"
)

// Context is one compilation run's mutable state. The zero value is not
// usable; construct with New.
type Context struct {
	ctx         context.Context
	names       int
	Diagnostics *diag.Bag
}

// New creates a Context bound to ctx (nil defaults to context.Background,
// meaning cancellation is never observed) with a fresh, empty diagnostic
// bag and its fresh-name counter seeded at 0 (spec.md §5).
func New(ctx context.Context) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{ctx: ctx, Diagnostics: diag.NewBag()}
}

// Fresh mints the next `$prefixN` name for this run, starting at N=0. The
// `$` prefix is reserved surface syntax, so these names can never collide
// with anything the user wrote (spec.md §5).
func (c *Context) Fresh(prefix string) string {
	name := fmt.Sprintf("$%s%d", prefix, c.names)
	c.names++
	return name
}

// Canceled reports whether the run's cancellation token has fired. Callers
// check this between phases and between top-level declarations, never
// mid-expression, discarding any partial result on a true return
// (spec.md §5: "partial results are discarded").
func (c *Context) Canceled() bool {
	select {
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Err returns the underlying cancellation cause, if any.
func (c *Context) Err() error {
	return c.ctx.Err()
}

// Merge copies every diagnostic from b into the Context's own sink,
// preserving insertion order so Diagnostics.All()'s stable sort keeps
// ties broken by the order phases actually ran in.
func (c *Context) Merge(b *diag.Bag) {
	if b == nil {
		return
	}
	for _, d := range b.All() {
		c.Diagnostics.Add(d)
	}
}
