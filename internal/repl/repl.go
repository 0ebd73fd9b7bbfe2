// Package repl implements an interactive read-eval-print loop over the
// compiler core: every line is pushed through internal/pipeline.Run (the
// same lexer -> parser -> desugarer -> type checker -> optimizer chain a
// file compile uses) and the session reports the inferred type or the
// diagnostics produced, rather than an evaluated value — the core this
// module implements stops at an optimized, typed IR (spec.md §1); there
// is no evaluator to execute it here.
//
// Grounded on ailang's internal/repl/repl.go: the liner-backed
// history/multiline/command-completion loop, the color scheme, and the
// ":command" dispatch shape are adapted directly; everything downstream
// of "run the pipeline and show me what happened" (evaluation, effect
// capabilities, dictionary registries) is dropped as out of scope.
package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/vibefun-lang/vibefun/internal/core"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/optimizer"
	"github.com/vibefun-lang/vibefun/internal/pipeline"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	dim   = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

// Config holds REPL-wide toggles.
type Config struct {
	OptimizeLevel optimizer.Level
	ShowCore      bool // print the desugared Core for every accepted line
	ShowOptimized bool // print the optimized Core for every accepted line
}

// REPL is one interactive session. It carries no evaluation state (no
// environment of bound values): each line is independently desugared and
// type-checked against its own synthetic binding, with only the line
// history persisted across turns.
type REPL struct {
	config   Config
	history  []string
	replNum  int
	version  string
	renderer *diag.Renderer
}

// New creates a REPL with the default configuration.
func New() *REPL { return NewWithVersion("") }

// NewWithVersion creates a REPL that reports version in its banner.
func NewWithVersion(version string) *REPL {
	if version == "" {
		version = "dev"
	}
	return &REPL{
		config:   Config{OptimizeLevel: optimizer.O2},
		version:  version,
		renderer: diag.NewRenderer(),
	}
}

// SetConfig replaces the REPL's configuration.
func (r *REPL) SetConfig(cfg Config) { r.config = cfg }

func (r *REPL) getPrompt() string { return "vf> " }

// Start runs the interactive loop, reading from a liner-backed terminal
// and writing output to out. It returns once the user quits or in hits
// EOF.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".vibefun_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(out, "%s %s\n", bold("vibefun"), bold(r.version))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(input string) (c []string) {
		if !strings.HasPrefix(input, ":") {
			return nil
		}
		for _, cmd := range replCommands {
			if strings.HasPrefix(cmd, input) {
				c = append(c, cmd)
			}
		}
		return c
	})

	for {
		input, err := line.Prompt(r.getPrompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if isQuitCommand(input) {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			r.handleCommand(input, out)
			continue
		}

		r.processLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func isQuitCommand(input string) bool {
	return strings.HasPrefix(input, ":quit") || strings.HasPrefix(input, ":q") || strings.HasPrefix(input, ":exit")
}

// processLine compiles one line of input through the full pipeline and
// reports either the inferred type of the resulting binding or the
// diagnostics that stopped it.
func (r *REPL) processLine(input string, out io.Writer) {
	name, code := r.wrapAsBinding(input)
	filename := fmt.Sprintf("<repl:%d>", r.replNum)
	r.replNum++

	res, err := pipeline.Run(context.Background(), pipeline.Config{OptimizeLevel: r.config.OptimizeLevel}, pipeline.Source{
		Code:     code,
		Filename: filename,
	})

	if res.Diagnostics != nil && res.Diagnostics.Len() > 0 {
		r.renderer.RenderAll(out, res.Diagnostics)
	}
	if err != nil {
		fmt.Fprintf(out, "%s: %s\n", red("error"), err)
		return
	}

	if r.config.ShowCore && res.Artifacts.Core != nil {
		fmt.Fprintln(out, dim("-- core --"))
		for _, d := range res.Artifacts.Core.Decls {
			fmt.Fprintln(out, declString(d))
		}
	}
	if r.config.ShowOptimized && res.Artifacts.OptimizedCore != nil {
		fmt.Fprintln(out, dim("-- optimized core --"))
		for _, d := range res.Artifacts.OptimizedCore.Decls {
			fmt.Fprintln(out, declString(d))
		}
	}

	if res.Env != nil {
		if scheme, ok := res.Env.Lookup(name); ok {
			fmt.Fprintf(out, "%s :: %s\n", green(name), scheme.String())
		}
	}
}

// declString renders one top-level Core declaration for the :dump-core
// and :dump-optimized displays; core.Decl carries no String() method of
// its own (only core.Expr does), so this switches on the closed Decl sum.
func declString(d core.Decl) string {
	switch n := d.(type) {
	case *core.LetBinding:
		return fmt.Sprintf("let %s = %s", n.Name, n.Value)
	case *core.LetRecBinding:
		parts := make([]string, len(n.Bindings))
		for i, b := range n.Bindings {
			parts[i] = fmt.Sprintf("%s = %s", b.Name, b.Value)
		}
		return "let rec " + strings.Join(parts, " and ")
	case *core.ExternalBinding:
		return fmt.Sprintf("external %s", n.Name)
	default:
		return fmt.Sprintf("%T", n)
	}
}

// wrapAsBinding turns a bare expression into a synthetic top-level
// binding so the pipeline (which only accepts declarations) can compile
// it, mirroring ailang's REPL synthetic-module wrapping. Input that
// already starts with a top-level declaration keyword is passed through
// untouched, and its first bound name is reported back for the type
// lookup afterward. The synthetic name is surface syntax the lexer must
// accept, so it uses a leading "__" rather than the "$" prefix Core's own
// internal fresh names reserve (spec.md §5) — user identifiers starting
// with "__repl" are vanishingly unlikely, not impossible, in a REPL
// session that never persists bindings across lines anyway.
func (r *REPL) wrapAsBinding(input string) (name string, code string) {
	for _, kw := range []string{"let ", "export let ", "type ", "export type ", "external "} {
		if strings.HasPrefix(input, kw) {
			return firstBoundName(input), input
		}
	}
	name = fmt.Sprintf("__repl%d", r.replNum)
	return name, fmt.Sprintf("let %s = (\n%s\n)", name, input)
}

// firstBoundName extracts the name after a leading "let"/"export let" so
// :: <type> can be reported for a pasted declaration too. For any other
// input it returns the first word (e.g. "type" for a type declaration),
// which names no binding, so the lookup misses and no type is reported;
// it returns "" when the input has no space, tab or `=`.
func firstBoundName(input string) string {
	rest := input
	for _, kw := range []string{"export ", "let "} {
		rest = strings.TrimPrefix(rest, kw)
	}
	rest = strings.TrimSpace(rest)
	end := strings.IndexAny(rest, " \t=")
	if end < 0 {
		return ""
	}
	return rest[:end]
}
