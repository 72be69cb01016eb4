package shell

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"goshell/internal/policy"
)

// REPL drives the read-tokenize-dispatch loop described across spec.md
// §§3-7: one readline-backed prompt, a resolver/history/builtin context
// shared by every dispatch, and an optional policy engine consulted before
// a command or redirect target is allowed to run.
type REPL struct {
	rl       *readline.Instance
	resolver *Resolver
	history  *History
	ctx      *BuiltinContext
	policy   *policy.Engine
	debug    func(format string, args ...any)
}

// Config bundles the knobs that vary between a plain interactive session
// and one wired to a debug log or an explicit policy chain.
type Config struct {
	Prompt      string
	HistoryFile string
	Policy      *policy.Engine
	Debug       func(format string, args ...any)
}

// New builds a REPL. cfg.HistoryFile, if non-empty, is loaded immediately so
// prior sessions' entries are available to the "history" builtin. The
// entries are not passed to the line editor, so up-arrow recall does not
// show them.
func New(cfg Config) (*REPL, error) {
	history := NewHistory()
	if cfg.HistoryFile != "" {
		if err := history.Load(cfg.HistoryFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("loading history file: %w", err)
		}
	}

	index := BuildExecutableIndex()
	resolver := NewResolver()

	prompt := cfg.Prompt
	if prompt == "" {
		prompt = "$ "
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 prompt,
		HistoryFile:            "", // goshell owns persistence; see History.Write/Append
		AutoComplete:           NewCompleter(index),
		InterruptPrompt:        "^C",
		EOFPrompt:              "exit",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing line editor: %w", err)
	}

	debug := cfg.Debug
	if debug == nil {
		debug = func(string, ...any) {}
	}

	return &REPL{
		rl:       rl,
		resolver: resolver,
		history:  history,
		policy:   cfg.Policy,
		debug:    debug,
		ctx: &BuiltinContext{
			Streams:     Streams{Out: os.Stdout, Err: os.Stderr},
			Resolver:    resolver,
			History:     history,
			HistoryFile: cfg.HistoryFile,
		},
	}, nil
}

// Close releases the line editor's terminal state.
func (r *REPL) Close() error {
	return r.rl.Close()
}

// Run executes the read-eval loop until exit, EOF, or a fatal line-editor
// error. It returns nil on a clean exit (builtin "exit" or Ctrl-D).
func (r *REPL) Run() error {
	for {
		line, err := r.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("reading input: %w", err)
		}

		if r.handleLine(line) {
			return nil
		}
	}
}

// handleLine processes one raw line already returned by the line editor. It
// records history unconditionally, before any blank-line or construct check,
// matching original_source/src/main.rs's unconditional rl.add_history_entry
// call — only dispatch, not history recording, is skipped for blank input.
// Split out of Run so it's testable without a real readline.Instance.
func (r *REPL) handleLine(raw string) (terminate bool) {
	line := strings.TrimRight(raw, "\n")
	r.history.Add(line)

	if strings.TrimSpace(line) == "" {
		return false
	}

	if reports := DetectUnsupportedConstructs(line); len(reports) > 0 {
		for _, rep := range reports {
			r.debug("unsupported construct: kind=%s detail=%s", rep.Kind, rep.Detail)
			fmt.Fprintf(os.Stderr, "goshell: unsupported construct (%s): %s\n", rep.Kind, rep.Detail)
		}
		return false
	}

	tokens := Tokenize(line)
	if len(tokens) == 0 {
		return false
	}
	r.debug("tokenized: %v", tokens)

	return r.dispatch(tokens)
}

// dispatch runs one tokenized line (pipeline or single command, with
// redirection), returning whether the REPL should terminate.
func (r *REPL) dispatch(tokens []string) (terminate bool) {
	if HasPipe(tokens) {
		stages := SplitPipeline(tokens)
		for _, stage := range stages {
			if len(stage) == 0 {
				continue
			}
			if !r.checkCommandPolicy(stage[0], stage[1:]) {
				return false
			}
		}
		return RunPipeline(stages, r.ctx)
	}

	name, rest := tokens[0], tokens[1:]
	if !r.checkCommandPolicy(name, rest) {
		return false
	}

	args, spec := ParseRedirection(rest)
	full := append([]string{name}, args...)

	streams := r.ctx.Streams
	if spec != nil {
		if !r.checkRedirectPolicy(spec) {
			return false
		}
		f, err := spec.Open()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", spec.Target, err)
			return false
		}
		defer f.Close()
		streams = spec.Streams(f)
	}

	outcome := RunSingle(full, streams, r.ctx)
	if outcome.NotFound {
		fmt.Fprintln(streams.Out, NotFoundMessage(name))
		return false
	}
	if outcome.SpawnErr != nil {
		fmt.Fprintf(os.Stdout, "goshell: %v\n", outcome.SpawnErr)
	}
	return outcome.Terminate
}

// checkCommandPolicy consults the policy engine, if any, for name/args,
// prompting interactively on "ask" and reporting "deny" directly. It
// returns false when the command must not run.
func (r *REPL) checkCommandPolicy(name string, args []string) bool {
	if r.policy == nil {
		return true
	}
	decision := r.policy.EvaluateCommand(name, args)
	return r.applyDecision(fmt.Sprintf("command %s", name), decision)
}

// checkRedirectPolicy consults the policy engine for a redirection target.
func (r *REPL) checkRedirectPolicy(spec *RedirectionSpec) bool {
	if r.policy == nil {
		return true
	}
	decision := r.policy.EvaluateRedirect(spec.Target, spec.Mode == RedirectAppend)
	return r.applyDecision(fmt.Sprintf("redirect %s", spec.Target), decision)
}

// applyDecision logs and enforces decision, the policy engine's verdict on
// subject (a command name or redirect target), matching SPEC_FULL.md §6's
// instruction to debug-log the policy decision for every accepted line, not
// just the "ask" case.
func (r *REPL) applyDecision(subject string, decision policy.Decision) bool {
	r.debug("policy decision: subject=%q action=%s source=%q", subject, decision.Action, decision.Source)

	switch decision.Action {
	case policy.Deny:
		msg := decision.Message
		if msg == "" {
			msg = "blocked by goshell policy"
		}
		fmt.Fprintf(os.Stderr, "goshell: %s (%s)\n", msg, decision.Source)
		return false
	case policy.Ask:
		return r.promptYesNo(fmt.Sprintf("%s [%s] allow? (y/N) ", decision.Message, decision.Source))
	default:
		return true
	}
}

// promptYesNo reuses the REPL's own line editor for an ask-policy prompt,
// matching SPEC_FULL.md §4.I's instruction that ask prompts not spawn a
// second input mechanism.
func (r *REPL) promptYesNo(prompt string) bool {
	r.rl.SetPrompt(prompt)
	defer r.rl.SetPrompt("$ ")
	answer, err := r.rl.Readline()
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
