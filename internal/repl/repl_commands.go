package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/vibefun-lang/vibefun/internal/optimizer"
)

var replCommands = []string{
	":help", ":quit", ":history", ":clear",
	":dump-core", ":dump-optimized", ":level",
}

// handleCommand dispatches a leading-":" input line. Unlike ailang's
// REPL, there is no runtime environment to reset or inspect — commands
// here only ever affect this session's own display/optimizer settings
// and its line history.
func (r *REPL) handleCommand(input string, out io.Writer) {
	fields := strings.Fields(input)
	cmd := fields[0]

	switch {
	case cmd == ":help":
		r.printHelp(out)
	case cmd == ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
	case cmd == ":clear":
		r.history = nil
		fmt.Fprintln(out, dim("history cleared"))
	case cmd == ":dump-core":
		r.config.ShowCore = !r.config.ShowCore
		fmt.Fprintf(out, "dump-core: %v\n", r.config.ShowCore)
	case cmd == ":dump-optimized":
		r.config.ShowOptimized = !r.config.ShowOptimized
		fmt.Fprintf(out, "dump-optimized: %v\n", r.config.ShowOptimized)
	case cmd == ":level":
		r.handleLevelCommand(fields, out)
	default:
		fmt.Fprintf(out, "%s: unknown command %q (try :help)\n", red("error"), cmd)
	}
}

func (r *REPL) handleLevelCommand(fields []string, out io.Writer) {
	if len(fields) < 2 {
		fmt.Fprintf(out, "current optimizer level: %s\n", levelName(r.config.OptimizeLevel))
		return
	}
	switch strings.ToUpper(fields[1]) {
	case "O0":
		r.config.OptimizeLevel = optimizer.O0
	case "O1":
		r.config.OptimizeLevel = optimizer.O1
	case "O2":
		r.config.OptimizeLevel = optimizer.O2
	default:
		fmt.Fprintf(out, "%s: unknown level %q (want O0, O1, or O2)\n", red("error"), fields[1])
		return
	}
	fmt.Fprintf(out, "optimizer level set to %s\n", levelName(r.config.OptimizeLevel))
}

func levelName(l optimizer.Level) string {
	switch l {
	case optimizer.O0:
		return "O0"
	case optimizer.O1:
		return "O1"
	case optimizer.O2:
		return "O2"
	default:
		return "unknown"
	}
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :help             show this message")
	fmt.Fprintln(out, "  :quit, :q, :exit  leave the REPL")
	fmt.Fprintln(out, "  :history          show input history")
	fmt.Fprintln(out, "  :clear            clear input history")
	fmt.Fprintln(out, "  :dump-core        toggle printing desugared Core")
	fmt.Fprintln(out, "  :dump-optimized   toggle printing optimized Core")
	fmt.Fprintln(out, "  :level [O0|O1|O2] show or set the optimizer level")
}
