// Package pipeline chains the lexer, parser, desugarer, type checker, and
// optimizer into the single compilation entry point every other caller
// (REPL, CLI, golden-fixture runner) drives the compiler through, mirroring
// ailang's internal/pipeline.Run/Config/Result/Artifacts shape.
//
// The module loader/resolver is out of scope (spec.md §1 Non-goals): Run
// compiles exactly one already-lexically-complete source unit. RunModules
// accepts a pre-resolved `map[absolute_path]Source` — the "Map<path,
// Module>" spec.md §6.1 says the external loader supplies — and type-checks
// independent modules in parallel, never performing any file I/O or import
// resolution of its own.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vibefun-lang/vibefun/internal/ast"
	"github.com/vibefun-lang/vibefun/internal/compctx"
	"github.com/vibefun-lang/vibefun/internal/core"
	"github.com/vibefun-lang/vibefun/internal/desugar"
	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/lexer"
	"github.com/vibefun-lang/vibefun/internal/optimizer"
	"github.com/vibefun-lang/vibefun/internal/parser"
	"github.com/vibefun-lang/vibefun/internal/types"
)

// Config controls how a single Run (or each module of a RunModules batch)
// is compiled.
type Config struct {
	// OptimizeLevel selects the optimizer pass list (spec.md §4.5.1).
	// The zero value, optimizer.O0, runs the pipeline with optimization
	// disabled — callers that want O1/O2 must say so explicitly.
	OptimizeLevel optimizer.Level

	// SkipOptimize bypasses the optimizer phase entirely (including O0's
	// identity pass over the program), for callers that only need typed,
	// unoptimized Core.
	SkipOptimize bool
}

// Source is one compilation unit's input.
type Source struct {
	Code     string
	Filename string // used for diagnostic positions; "" is legal (REPL)
}

// Artifacts holds every intermediate representation produced along the
// way, so callers that want to inspect (or dump) a particular phase's
// output don't need to re-run earlier phases themselves.
type Artifacts struct {
	AST           *ast.File
	Core          *core.Program // desugared, before optimization
	OptimizedCore *core.Program // nil if Config.SkipOptimize
}

// Result is everything Run produces for one compilation unit.
type Result struct {
	Artifacts        Artifacts
	Env              *types.Env
	OptimizerMetrics optimizer.Metrics
	Diagnostics      *diag.Bag
	PhaseTimings     map[string]int64 // milliseconds, keyed by phase name
}

// Run executes Lexer -> Parser -> Desugarer -> Type Checker -> Optimizer
// for one source unit. It stops at the first phase that reports an error
// diagnostic (spec.md §7: errors abort the pipeline at the phase boundary;
// warnings never do) and returns the diagnostics accumulated up to that
// point alongside a non-nil error.
//
// ctx is checked between phases only (spec.md §5: "checked between passes
// and between declarations"); a canceled ctx discards whatever partial
// Result has been built so far.
func Run(ctx context.Context, cfg Config, src Source) (Result, error) {
	cc := compctx.New(ctx)
	result := Result{PhaseTimings: make(map[string]int64)}

	// Phase 1: Lex
	start := time.Now()
	tokens, lexErr := lexer.Tokenize([]byte(src.Code), src.Filename)
	result.PhaseTimings["lex"] = time.Since(start).Milliseconds()
	if lexErr != nil {
		cc.Diagnostics.Add(lexErr.Diagnostic)
		result.Diagnostics = cc.Diagnostics
		return result, fmt.Errorf("lex error: %w", lexErr)
	}
	if cc.Canceled() {
		return Result{}, cc.Err()
	}

	// Phase 2: Parse
	start = time.Now()
	astFile, parseDiags := parser.ParseFile(tokens, src.Filename)
	cc.Merge(parseDiags)
	result.Artifacts.AST = astFile
	result.PhaseTimings["parse"] = time.Since(start).Milliseconds()
	if parseDiags.HasErrors() {
		result.Diagnostics = cc.Diagnostics
		return result, fmt.Errorf("parse error: %s", diag.Summary(parseDiags))
	}
	if cc.Canceled() {
		result.Diagnostics = cc.Diagnostics
		return Result{}, cc.Err()
	}

	// Phase 3: Desugar
	start = time.Now()
	prog, desugarDiags := desugar.Desugar(astFile)
	cc.Merge(desugarDiags)
	result.Artifacts.Core = prog
	result.PhaseTimings["desugar"] = time.Since(start).Milliseconds()
	if desugarDiags.HasErrors() {
		result.Diagnostics = cc.Diagnostics
		return result, fmt.Errorf("desugar error: %s", diag.Summary(desugarDiags))
	}
	if cc.Canceled() {
		result.Diagnostics = cc.Diagnostics
		return Result{}, cc.Err()
	}

	// Phase 4: Type check
	start = time.Now()
	env, typeDiags := types.Check(prog)
	cc.Merge(typeDiags)
	result.Env = env
	result.PhaseTimings["typecheck"] = time.Since(start).Milliseconds()
	if typeDiags.HasErrors() {
		result.Diagnostics = cc.Diagnostics
		return result, fmt.Errorf("type error: %s", diag.Summary(typeDiags))
	}
	if cc.Canceled() {
		result.Diagnostics = cc.Diagnostics
		return Result{}, cc.Err()
	}

	// Phase 5: Optimize
	if !cfg.SkipOptimize {
		start = time.Now()
		optimized, metrics := optimizer.Run(cfg.OptimizeLevel, prog)
		result.Artifacts.OptimizedCore = optimized
		result.OptimizerMetrics = metrics
		result.PhaseTimings["optimize"] = time.Since(start).Milliseconds()
	}

	result.Diagnostics = cc.Diagnostics
	return result, nil
}

// ModuleProvider is the plug-in point for the out-of-scope module
// loader/resolver (spec.md §1 Non-goals, §6.1's "Map<absolute_path,
// Module>"): RunModules takes its input pre-resolved through this
// interface rather than performing any file I/O or import resolution
// itself.
type ModuleProvider interface {
	// Modules returns every module to compile, keyed by absolute path.
	Modules() map[string]Source
}

// StaticModules is the trivial ModuleProvider: a pre-built map, useful for
// tests and any caller that has already resolved its own module set.
type StaticModules map[string]Source

func (m StaticModules) Modules() map[string]Source { return m }

// ModuleResult pairs one module's Result with the path it was compiled
// from, so RunModules can report per-module outcomes without requiring
// the map-iteration order callers must not rely on (spec.md §6.3: "The
// output is deterministic and stable across runs with the same inputs").
type ModuleResult struct {
	Path   string
	Result Result
	Err    error
}

// RunModules type-checks and optimizes every module mp provides
// concurrently (spec.md §5: "independent modules ... may be type-checked
// and optimized in parallel; within a module the pipeline is strictly
// sequential"). It does not perform topological ordering or cross-module
// symbol resolution — each module is compiled standalone, exactly as Run
// would compile it alone. Every module runs under ctx itself: canceling
// ctx is observed by each module at its next phase boundary, while one
// module's error does not cancel the others.
//
// The returned slice is sorted by path, so iterating it (rather than a
// map) yields a deterministic, reproducible ordering across runs.
func RunModules(ctx context.Context, cfg Config, mp ModuleProvider) ([]ModuleResult, error) {
	modules := mp.Modules()
	paths := make([]string, 0, len(modules))
	for path := range modules {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	results := make([]ModuleResult, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		src := modules[path]
		g.Go(func() error {
			res, err := Run(ctx, cfg, src)
			results[i] = ModuleResult{Path: path, Result: res, Err: err}
			return err
		})
	}
	waitErr := g.Wait()
	return results, waitErr
}
