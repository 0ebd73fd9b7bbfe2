// Command vibefun is the command-line front end for the compiler core:
// it drives source files or an interactive session through
// internal/pipeline.Run, the same lexer -> parser -> desugarer ->
// type checker -> optimizer chain described by the compiler core this
// module implements. There is no evaluator here (that, along with the
// module loader, code generation, and the standard library's
// implementations, is out of scope) — "run" in this CLI means "compile
// and report", not "execute".
//
// The flag layout, command dispatch, and colorized error reporting
// follow cmd/ailang/main.go's shape; every subcommand that assumed an
// evaluator (run/test/watch/lsp/export-training, the REPL's --learn
// flag) is replaced by the compile-and-report subcommands this core
// can actually perform.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/vibefun-lang/vibefun/internal/diag"
	"github.com/vibefun-lang/vibefun/internal/optimizer"
	"github.com/vibefun-lang/vibefun/internal/pipeline"
	"github.com/vibefun-lang/vibefun/internal/repl"
)

var (
	// Version info, set by ldflags during build.
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	var (
		versionFlag = flag.Bool("version", false, "Print version information")
		helpFlag    = flag.Bool("help", false, "Show help")
		levelFlag   = flag.String("O", "2", "Optimizer level: 0, 1, or 2")
		dumpCore    = flag.Bool("dump-core", false, "Print desugared Core in the REPL (check prints a marker line)")
		dumpOpt     = flag.Bool("dump-optimized", false, "Print optimized Core in the REPL (check prints a marker line)")
	)

	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}

	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	level := parseLevel(*levelFlag)
	command := flag.Arg(0)

	switch command {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
			fmt.Println("Usage: vibefun check <file.vf> [file2.vf ...]")
			os.Exit(1)
		}
		checkFiles(flag.Args()[1:], level, *dumpCore, *dumpOpt)

	case "repl":
		runREPL(level, *dumpCore, *dumpOpt)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func parseLevel(s string) optimizer.Level {
	switch s {
	case "0":
		return optimizer.O0
	case "1":
		return optimizer.O1
	default:
		return optimizer.O2
	}
}

func printVersion() {
	fmt.Printf("vibefun %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("vibefun - compiler core CLI"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  vibefun <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file...>   Type-check (and optimize) files, reporting diagnostics\n", cyan("check"))
	fmt.Printf("  %s             Start the interactive REPL\n", cyan("repl"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version          Print version information")
	fmt.Println("  --help             Show this help message")
	fmt.Println("  -O <0|1|2>         Optimizer level (default 2)")
	fmt.Println("  --dump-core        Print desugared Core in the REPL (check prints a marker line)")
	fmt.Println("  --dump-optimized   Print optimized Core in the REPL (check prints a marker line)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s\n", cyan("vibefun check hello.vf"))
	fmt.Printf("  %s\n", cyan("vibefun check -O 0 src/a.vf src/b.vf"))
	fmt.Printf("  %s\n", cyan("vibefun repl"))
}

// checkFiles compiles each file independently through pipeline.RunModules
// (spec.md §5: independent modules may be type-checked and optimized in
// parallel), reporting every file's diagnostics and exiting non-zero if
// any file failed to compile.
func checkFiles(paths []string, level optimizer.Level, dumpCore, dumpOpt bool) {
	modules := make(pipeline.StaticModules, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read file '%s': %v\n", red("Error"), p, err)
			os.Exit(1)
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		modules[abs] = pipeline.Source{Code: string(content), Filename: p}
	}

	cfg := pipeline.Config{OptimizeLevel: level}
	results, err := pipeline.RunModules(context.Background(), cfg, modules)

	renderer := diag.NewRenderer()
	failed := false
	for _, mr := range results {
		if mr.Result.Diagnostics != nil && mr.Result.Diagnostics.Len() > 0 {
			fmt.Printf("%s %s\n", cyan("→"), mr.Path)
			renderer.RenderAll(os.Stdout, mr.Result.Diagnostics)
		}
		if mr.Err != nil {
			failed = true
			continue
		}
		if dumpCore && mr.Result.Artifacts.Core != nil {
			fmt.Printf("%s %s\n", yellow("-- core --"), mr.Path)
		}
		if dumpOpt && mr.Result.Artifacts.OptimizedCore != nil {
			fmt.Printf("%s %s\n", yellow("-- optimized core --"), mr.Path)
		}
		fmt.Printf("%s %s\n", green("✓"), mr.Path)
	}

	if err != nil || failed {
		fmt.Fprintf(os.Stderr, "\n%s: one or more files failed to compile\n", red("Error"))
		os.Exit(1)
	}
	fmt.Printf("\n%s No errors found!\n", green("✓"))
}

func runREPL(level optimizer.Level, dumpCore, dumpOpt bool) {
	session := repl.NewWithVersion(Version)
	session.SetConfig(repl.Config{
		OptimizeLevel: level,
		ShowCore:      dumpCore,
		ShowOptimized: dumpOpt,
	})
	session.Start(os.Stdout)
}
