package shell

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Streams bundles the output sinks a builtin writes to. Redirection
// (component E) substitutes buffers or files here before invoking a
// builtin; the REPL driver passes the inherited stdout/stderr otherwise.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// BuiltinContext is the shared state builtins need: where to resolve
// external commands from (for type), the session history, and the
// configured history file (for exit's persistence).
type BuiltinContext struct {
	Streams     Streams
	Resolver    *Resolver
	History     *History
	HistoryFile string
}

// RunBuiltin executes a builtin command by name. terminate reports whether
// the REPL loop should stop (exit, or pwd's unspecified-failure case).
func RunBuiltin(name string, args []string, ctx *BuiltinContext) (terminate bool) {
	switch name {
	case "exit":
		return builtinExit(ctx)
	case "echo":
		builtinEcho(args, ctx)
		return false
	case "type":
		builtinType(args, ctx)
		return false
	case "pwd":
		return builtinPwd(ctx)
	case "cd":
		builtinCd(args, ctx)
		return false
	case "history":
		builtinHistory(args, ctx)
		return false
	}
	return false
}

func builtinExit(ctx *BuiltinContext) bool {
	if ctx.HistoryFile != "" {
		_ = ctx.History.Write(ctx.HistoryFile)
		_ = StripV2Header(ctx.HistoryFile)
	}
	return true
}

func builtinEcho(args []string, ctx *BuiltinContext) {
	fmt.Fprintln(ctx.Streams.Out, strings.Join(args, " "))
}

func builtinPwd(ctx *BuiltinContext) bool {
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(ctx.Streams.Out, "Error: %v\n", err)
		return true
	}
	fmt.Fprintln(ctx.Streams.Out, dir)
	return false
}

func builtinCd(args []string, ctx *BuiltinContext) {
	if len(args) == 0 {
		fmt.Fprintln(ctx.Streams.Err, "cd: missing argument")
		return
	}
	target := args[0]
	if target == "~" {
		home := os.Getenv("HOME")
		if home == "" {
			fmt.Fprintln(ctx.Streams.Err, "cd: HOME not set")
			return
		}
		target = home
	}
	if err := os.Chdir(target); err != nil {
		fmt.Fprintf(ctx.Streams.Err, "cd: %s: No such file or directory\n", args[0])
	}
}

func builtinType(args []string, ctx *BuiltinContext) {
	if len(args) == 0 {
		fmt.Fprintln(ctx.Streams.Err, "type: missing argument")
		return
	}
	name := args[0]
	if IsBuiltin(name) {
		fmt.Fprintf(ctx.Streams.Out, "%s is a shell builtin\n", name)
		return
	}
	if path, ok := ctx.Resolver.Resolve(name); ok {
		fmt.Fprintf(ctx.Streams.Out, "%s is %s\n", name, path)
		return
	}
	fmt.Fprintf(ctx.Streams.Out, "%s: not found\n", name)
}

func builtinHistory(args []string, ctx *BuiltinContext) {
	if len(args) == 0 {
		printHistory(ctx, 0)
		return
	}

	switch args[0] {
	case "-r":
		if len(args) < 2 {
			fmt.Fprintln(ctx.Streams.Err, "history: missing file argument")
			return
		}
		if err := ctx.History.Load(args[1]); err != nil {
			fmt.Fprintf(ctx.Streams.Err, "history: %v\n", err)
		}
	case "-w":
		if len(args) < 2 {
			fmt.Fprintln(ctx.Streams.Err, "history: missing file argument")
			return
		}
		if err := ctx.History.Write(args[1]); err != nil {
			fmt.Fprintf(ctx.Streams.Err, "history: %v\n", err)
		}
	case "-a":
		if len(args) < 2 {
			fmt.Fprintln(ctx.Streams.Err, "history: missing file argument")
			return
		}
		if err := ctx.History.Append(args[1]); err != nil {
			fmt.Fprintf(ctx.Streams.Err, "history: %v\n", err)
		}
	default:
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(ctx.Streams.Err, "history: unknown option %s\n", args[0])
			return
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(ctx.Streams.Err, "history: invalid number %s\n", args[0])
			return
		}
		printHistory(ctx, n)
	}
}

// printHistory prints the last n entries (or all, if n<=0), formatted as
// "    <1-based index>  <entry>".
func printHistory(ctx *BuiltinContext, n int) {
	if n <= 0 {
		n = ctx.History.Len()
	}
	start, lines := ctx.History.Tail(n)
	for i, line := range lines {
		fmt.Fprintf(ctx.Streams.Out, "    %d  %s\n", start+i, line)
	}
}
