package diag

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vibefun-lang/vibefun/internal/ast"
)

// Diagnostic is the stable, structured shape every compiler phase emits.
// It is deliberately flat and JSON-serializable so tooling (editors, CI,
// the REPL) can consume it without depending on Go types.
type Diagnostic struct {
	Code     string     `json:"code"`
	Severity Severity   `json:"-"`
	Message  string     `json:"message"`
	Pos      ast.Pos    `json:"pos"`
	Expected string     `json:"expected,omitempty"`
	Actual   string     `json:"actual,omitempty"`
	Hint     string     `json:"hint,omitempty"`
}

// jsonDiagnostic mirrors Diagnostic but renders Severity as its string form,
// since Severity itself has no natural JSON representation.
type jsonDiagnostic struct {
	Code     string  `json:"code"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Pos      ast.Pos `json:"pos"`
	Expected string  `json:"expected,omitempty"`
	Actual   string  `json:"actual,omitempty"`
	Hint     string  `json:"hint,omitempty"`
}

// MarshalJSON renders the diagnostic's severity as "error"/"warning".
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDiagnostic{
		Code:     d.Code,
		Severity: d.Severity.String(),
		Message:  d.Message,
		Pos:      d.Pos,
		Expected: d.Expected,
		Actual:   d.Actual,
		Hint:     d.Hint,
	})
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s at %s: %s", d.Severity, d.Code, d.Pos, d.Message)
}

// New builds an error-severity diagnostic for the given code.
func New(code string, pos ast.Pos, message string) Diagnostic {
	sev := Error
	if info, ok := Lookup(code); ok {
		sev = info.Severity
	}
	return Diagnostic{Code: code, Severity: sev, Message: message, Pos: pos}
}

// Warningf builds a warning-severity diagnostic regardless of the code's
// registry default (used by ad-hoc advisory messages).
func Warningf(code string, pos ast.Pos, format string, args ...interface{}) Diagnostic {
	d := New(code, pos, fmt.Sprintf(format, args...))
	d.Severity = Warning
	return d
}

// Errorf builds an error-severity diagnostic with a formatted message.
func Errorf(code string, pos ast.Pos, format string, args ...interface{}) Diagnostic {
	d := New(code, pos, fmt.Sprintf(format, args...))
	d.Severity = Error
	return d
}

// WithTypes attaches expected/actual type strings for type-mismatch style
// diagnostics.
func (d Diagnostic) WithTypes(expected, actual string) Diagnostic {
	d.Expected = expected
	d.Actual = actual
	return d
}

// WithHint attaches a one-line remediation hint.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hint = hint
	return d
}

// Bag collects diagnostics across a compiler phase, keeping errors and
// warnings separate so a phase can report "no errors, some warnings" as a
// success per spec §7 ("Warnings never fail compilation").
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Add appends one diagnostic.
func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

// Errors returns only error-severity diagnostics.
func (b *Bag) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only warning-severity diagnostics.
func (b *Bag) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range b.items {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether compilation of the affected module must fail.
func (b *Bag) HasErrors() bool { return len(b.Errors()) > 0 }

// Len returns the total diagnostic count (errors + warnings).
func (b *Bag) Len() int { return len(b.items) }

// All returns every diagnostic, sorted per spec §5 ("diagnostics per module
// are emitted in source order of their primary locations; ties broken by
// insertion order").
func (b *Bag) All() []Diagnostic {
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Pos, out[j].Pos
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
	return out
}
