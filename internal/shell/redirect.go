package shell

import "os"

// RedirectStream is the stream a redirection operator targets.
type RedirectStream int

const (
	RedirectStdout RedirectStream = iota
	RedirectStderr
)

// RedirectMode is the open mode a redirection operator implies.
type RedirectMode int

const (
	RedirectTruncate RedirectMode = iota
	RedirectAppend
)

// RedirectionSpec describes one trailing redirect parsed from a command's
// argument vector, per spec.md §3.
type RedirectionSpec struct {
	Stream RedirectStream
	Mode   RedirectMode
	Target string
}

// redirectOperators maps exact-match tokens to the stream/mode they imply.
var redirectOperators = map[string]RedirectionSpec{
	">":   {Stream: RedirectStdout, Mode: RedirectTruncate},
	"1>":  {Stream: RedirectStdout, Mode: RedirectTruncate},
	">>":  {Stream: RedirectStdout, Mode: RedirectAppend},
	"1>>": {Stream: RedirectStdout, Mode: RedirectAppend},
	"2>":  {Stream: RedirectStderr, Mode: RedirectTruncate},
	"2>>": {Stream: RedirectStderr, Mode: RedirectAppend},
}

// ParseRedirection scans args (which excludes the program name) for the
// first token that exactly matches a redirection operator. If found, it
// returns the real arguments (everything before the operator) and the
// spec built from the operator plus the following token as the target.
// Tokens after the target are ignored, matching spec.md §4.E's stated
// unsupported case of multiple redirections.
func ParseRedirection(args []string) ([]string, *RedirectionSpec) {
	for i, tok := range args {
		op, ok := redirectOperators[tok]
		if !ok {
			continue
		}
		if i+1 >= len(args) {
			// No target token follows; treat as no redirection rather than
			// guessing at intent (spec.md §9 leaves this case unspecified).
			return args, nil
		}
		spec := op
		spec.Target = args[i+1]
		return args[:i], &spec
	}
	return args, nil
}

// Open opens spec's target with the flags its mode implies:
// O_CREAT|O_TRUNC|O_WRONLY for truncate, O_CREAT|O_APPEND|O_WRONLY for
// append. File mode follows the platform default umask (0o666 requested).
func (spec *RedirectionSpec) Open() (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if spec.Mode == RedirectAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	return os.OpenFile(spec.Target, flags, 0o666)
}

// Streams builds the Streams a redirected command should run with: the
// targeted stream points at f, the other stream passes through to the
// REPL's inherited stdout/stderr.
func (spec *RedirectionSpec) Streams(f *os.File) Streams {
	streams := Streams{Out: os.Stdout, Err: os.Stderr}
	if spec.Stream == RedirectStdout {
		streams.Out = f
	} else {
		streams.Err = f
	}
	return streams
}
