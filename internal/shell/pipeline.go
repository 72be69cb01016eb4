package shell

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// HasPipe reports whether tokens contains a standalone "|" token.
func HasPipe(tokens []string) bool {
	for _, t := range tokens {
		if t == "|" {
			return true
		}
	}
	return false
}

// SplitPipeline splits an already-tokenized command line on "|" tokens,
// producing one token vector per stage. Unlike the source behavior this
// spec's §9 flags as a bug, the split operates on the token sequence
// itself, not the raw line text re-split by hand — so quoting is honored
// uniformly in every stage, including the second and later ones.
func SplitPipeline(tokens []string) [][]string {
	var stages [][]string
	var current []string
	for _, t := range tokens {
		if t == "|" {
			stages = append(stages, current)
			current = nil
			continue
		}
		current = append(current, t)
	}
	stages = append(stages, current)
	return stages
}

// carryKind distinguishes what feeds the next pipeline stage's stdin.
type carryKind int

const (
	carryNone carryKind = iota
	carryBytes
	carryPipe
)

// carry is the handle or buffer representing a stage's output while the
// next stage is being set up (spec.md glossary: "carry slot").
type carry struct {
	kind  carryKind
	bytes []byte
	pipe  *os.File // read end, owned by the pipeline until handed to a child
}

// RunPipeline executes stages left to right, splicing each stage's stdout
// into the next stage's stdin. A stage may be a builtin (run synchronously,
// its stdout buffered in memory) or an external program (spawned with a
// pipe connecting it to its neighbors). Returns whether the REPL should
// terminate (a builtin stage ran "exit").
func RunPipeline(stages [][]string, ctx *BuiltinContext) (terminate bool) {
	var c carry
	var children []*exec.Cmd

	for i, stage := range stages {
		if len(stage) == 0 {
			continue
		}
		isLast := i == len(stages)-1
		name := stage[0]

		kind, path := Classify(name, ctx.Resolver)
		switch kind {
		case KindBuiltin:
			var buf bytes.Buffer
			out := io.Writer(os.Stdout)
			if !isLast {
				out = &buf
			}
			if RunBuiltin(name, stage[1:], &BuiltinContext{
				Streams:     Streams{Out: out, Err: os.Stderr},
				Resolver:    ctx.Resolver,
				History:     ctx.History,
				HistoryFile: ctx.HistoryFile,
			}) {
				terminate = true
			}
			if !isLast {
				c = carry{kind: carryBytes, bytes: buf.Bytes()}
			} else {
				c = carry{}
			}

		case KindExternal:
			cmd := exec.Command(path, stage[1:]...)
			cmd.Args[0] = name
			cmd.Stderr = os.Stderr

			consumed := c
			var stdinPipeW *os.File
			switch consumed.kind {
			case carryBytes:
				r, w, err := os.Pipe()
				if err != nil {
					abort(children, fmt.Sprintf("pipe: %v", err))
					return terminate
				}
				cmd.Stdin = r
				stdinPipeW = w
			case carryPipe:
				cmd.Stdin = consumed.pipe
			default:
				cmd.Stdin = os.Stdin
			}

			var writeEnd *os.File
			if isLast {
				cmd.Stdout = os.Stdout
			} else {
				r, w, err := os.Pipe()
				if err != nil {
					abort(children, fmt.Sprintf("pipe: %v", err))
					return terminate
				}
				cmd.Stdout = w
				writeEnd = w
				c = carry{kind: carryPipe, pipe: r}
			}

			if err := cmd.Start(); err != nil {
				if writeEnd != nil {
					writeEnd.Close()
				}
				if stdinPipeW != nil {
					stdinPipeW.Close()
				}
				abort(children, err.Error())
				return terminate
			}
			children = append(children, cmd)

			// The parent's copies of the pipe ends are no longer needed once
			// the child has them; drop them so neither end is stranded open.
			if consumed.kind == carryBytes {
				data := consumed.bytes
				go func() {
					stdinPipeW.Write(data)
					stdinPipeW.Close()
				}()
				cmd.Stdin.(*os.File).Close()
			} else if consumed.kind == carryPipe {
				consumed.pipe.Close()
			}
			if writeEnd != nil {
				writeEnd.Close()
			}

		default:
			fmt.Fprintln(os.Stderr, NotFoundMessage(name))
			abort(children, "")
			return terminate
		}
	}

	if len(children) > 0 {
		last := children[len(children)-1]
		last.Wait()
		for _, prev := range children[:len(children)-1] {
			if prev.Process != nil {
				prev.Process.Kill()
			}
			prev.Wait()
		}
	}
	return terminate
}

// abort best-effort kills and waits every already-started child, and
// reports msg (if non-empty) as the pipeline's spawn failure.
func abort(children []*exec.Cmd, msg string) {
	if msg != "" {
		fmt.Fprintln(os.Stderr, msg)
	}
	for _, c := range children {
		if c.Process != nil {
			c.Process.Kill()
		}
		c.Wait()
	}
}
