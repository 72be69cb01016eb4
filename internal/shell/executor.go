package shell

import (
	"fmt"
	"os"
	"os/exec"
)

// Kind classifies a command name for dispatch: builtin, external (with its
// resolved path), or not found.
type Kind int

const (
	KindBuiltin Kind = iota
	KindExternal
	KindNotFound
)

// Classify decides builtin vs external vs not-found for a bare command
// name, using the same resolver dispatch re-resolves against (see
// spec.md §3's ExecutableIndex note: completion uses a snapshot, dispatch
// re-resolves live).
func Classify(name string, resolver *Resolver) (kind Kind, resolvedPath string) {
	if IsBuiltin(name) {
		return KindBuiltin, ""
	}
	if path, ok := resolver.Resolve(name); ok {
		return KindExternal, path
	}
	return KindNotFound, ""
}

// RunOutcome reports what happened after dispatching one command.
type RunOutcome struct {
	Terminate bool // the REPL should stop (e.g. "exit")
	NotFound  bool // neither a builtin nor a resolvable executable
	SpawnErr  error
}

// RunSingle dispatches one fully-tokenized command (tokens[0] is the
// program name) against the given streams. stdin is always inherited from
// the process, matching spec.md §6 ("external commands without a pipeline
// predecessor inherit a closed or empty stdin" in practice means: whatever
// the REPL's own stdin is).
func RunSingle(tokens []string, streams Streams, ctx *BuiltinContext) RunOutcome {
	if len(tokens) == 0 {
		return RunOutcome{}
	}
	name, args := tokens[0], tokens[1:]

	kind, path := Classify(name, ctx.Resolver)
	switch kind {
	case KindBuiltin:
		terminate := RunBuiltin(name, args, &BuiltinContext{
			Streams:     streams,
			Resolver:    ctx.Resolver,
			History:     ctx.History,
			HistoryFile: ctx.HistoryFile,
		})
		return RunOutcome{Terminate: terminate}
	case KindExternal:
		err := spawnExternal(path, tokens, streams)
		return RunOutcome{SpawnErr: err}
	default:
		return RunOutcome{NotFound: true}
	}
}

// spawnExternal runs path with tokens as argv, wiring stdin from the
// process and the given output streams.
func spawnExternal(path string, tokens []string, streams Streams) error {
	cmd := exec.Command(path, tokens[1:]...)
	cmd.Args[0] = tokens[0]
	cmd.Stdin = os.Stdin
	cmd.Stdout = streams.Out
	cmd.Stderr = streams.Err
	err := cmd.Run()
	if _, ok := err.(*exec.ExitError); ok {
		// A non-zero exit status is the command's own result, not a spawn
		// failure.
		return nil
	}
	return err
}

// NotFoundMessage is the diagnostic for an unresolvable, non-builtin
// command name.
func NotFoundMessage(name string) string {
	return fmt.Sprintf("%s: command not found", name)
}
