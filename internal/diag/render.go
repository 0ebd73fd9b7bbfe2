package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Renderer prints diagnostics to a terminal, colorizing severity the way
// ailang's CLI colorizes status lines.
type Renderer struct {
	errorLabel   func(a ...interface{}) string
	warningLabel func(a ...interface{}) string
	codeLabel    func(a ...interface{}) string
	hintLabel    func(a ...interface{}) string
}

// NewRenderer builds a Renderer with the standard color scheme.
func NewRenderer() *Renderer {
	return &Renderer{
		errorLabel:   color.New(color.FgRed, color.Bold).SprintFunc(),
		warningLabel: color.New(color.FgYellow, color.Bold).SprintFunc(),
		codeLabel:    color.New(color.FgCyan).SprintFunc(),
		hintLabel:    color.New(color.FgGreen).SprintFunc(),
	}
}

// Render writes a single diagnostic, human-readable, to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) {
	label := r.errorLabel("error")
	if d.Severity == Warning {
		label = r.warningLabel("warning")
	}
	fmt.Fprintf(w, "%s[%s]: %s\n  --> %s\n", label, r.codeLabel(d.Code), d.Message, d.Pos)
	if d.Expected != "" || d.Actual != "" {
		fmt.Fprintf(w, "  expected: %s\n  actual:   %s\n", d.Expected, d.Actual)
	}
	if d.Hint != "" {
		fmt.Fprintf(w, "  %s: %s\n", r.hintLabel("hint"), d.Hint)
	}
}

// RenderAll writes every diagnostic in a bag, source-order, to w.
func (r *Renderer) RenderAll(w io.Writer, b *Bag) {
	for _, d := range b.All() {
		r.Render(w, d)
	}
}

// Summary returns a one-line "N errors, M warnings" string.
func Summary(b *Bag) string {
	ne, nw := len(b.Errors()), len(b.Warnings())
	parts := []string{}
	if ne > 0 {
		parts = append(parts, pluralize(ne, "error"))
	}
	if nw > 0 {
		parts = append(parts, pluralize(nw, "warning"))
	}
	if len(parts) == 0 {
		return "no diagnostics"
	}
	return strings.Join(parts, ", ")
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
