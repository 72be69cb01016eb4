package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"goshell/internal/policy"
)

// newTestREPL builds a REPL without calling New, so no real
// readline.Instance is needed. Tests built on it must stick to paths that
// never touch r.rl (no Ask decisions, no promptYesNo).
func newTestREPL(out *bytes.Buffer) *REPL {
	return &REPL{
		resolver: NewResolver(),
		history:  NewHistory(),
		debug:    func(string, ...any) {},
		ctx: &BuiltinContext{
			Streams:  Streams{Out: out, Err: out},
			Resolver: NewResolver(),
			History:  NewHistory(),
		},
	}
}

func TestDispatch_Builtin(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	if r.dispatch([]string{"echo", "hi"}) {
		t.Error("echo should not request termination")
	}
	if out.String() != "hi\n" {
		t.Errorf("output = %q, want %q", out.String(), "hi\n")
	}
}

func TestDispatch_Exit(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	if !r.dispatch([]string{"exit"}) {
		t.Error("exit should request termination")
	}
}

func TestDispatch_Pipeline(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	if !r.dispatch([]string{"echo", "hi", "|", "exit"}) {
		t.Error("a pipeline whose final stage is exit should request termination")
	}
}

func TestDispatch_Redirect(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	if r.dispatch([]string{"echo", "hi", ">", target}) {
		t.Error("echo should not request termination")
	}
	if out.Len() != 0 {
		t.Errorf("redirected output should not reach the REPL's own streams, got %q", out.String())
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading redirected file: %v", err)
	}
	if string(data) != "hi\n" {
		t.Errorf("redirected file content = %q, want %q", string(data), "hi\n")
	}
}

func TestCheckCommandPolicy_NilEngine_Allows(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	if !r.checkCommandPolicy("rm", []string{"-rf", "/"}) {
		t.Error("a REPL with no policy engine should allow everything")
	}
}

func TestCheckCommandPolicy_Deny(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)
	r.policy = policy.NewEngine(&policy.Chain{Configs: []*policy.Config{{
		Path:   "test",
		Policy: policy.PolicySection{Default: policy.Allow},
		Rules:  []policy.Rule{{Command: "rm", Action: policy.Deny, Message: "no rm"}},
	}}})

	if r.checkCommandPolicy("rm", []string{"-rf", "/"}) {
		t.Error("a denied command should return false")
	}
	if r.checkCommandPolicy("ls", nil) != true {
		t.Error("a non-matching command should fall through to allow")
	}
}

func TestCheckRedirectPolicy_Deny(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)
	deny := false
	r.policy = policy.NewEngine(&policy.Chain{Configs: []*policy.Config{{
		Path:      "test",
		Policy:    policy.PolicySection{Default: policy.Allow},
		Redirects: []policy.RedirectRule{{Action: policy.Deny, To: []string{"path:/etc/**"}, Append: &deny}},
	}}})

	spec := &RedirectionSpec{Target: "/etc/passwd", Mode: RedirectTruncate}
	if r.checkRedirectPolicy(spec) {
		t.Error("a denied redirect target should return false")
	}

	allowed := &RedirectionSpec{Target: "/tmp/out.txt", Mode: RedirectTruncate}
	if !r.checkRedirectPolicy(allowed) {
		t.Error("a non-matching redirect target should fall through to allow")
	}
}

func TestDispatch_DeniedCommandNeverRuns(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)
	r.policy = policy.NewEngine(&policy.Chain{Configs: []*policy.Config{{
		Path:   "test",
		Policy: policy.PolicySection{Default: policy.Allow},
		Rules:  []policy.Rule{{Command: "echo", Action: policy.Deny, Message: "no echo"}},
	}}})

	if r.dispatch([]string{"echo", "hi"}) {
		t.Error("a denied command should not request termination")
	}
	if out.Len() != 0 {
		t.Errorf("a denied command must not produce output, got %q", out.String())
	}
}

func TestApplyDecision_Allow(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	if !r.applyDecision("command ls", policy.Decision{Action: policy.Allow}) {
		t.Error("an allow decision should return true")
	}
}

func TestApplyDecision_Deny(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	if r.applyDecision("command rm", policy.Decision{Action: policy.Deny, Message: "no", Source: "test rule"}) {
		t.Error("a deny decision should return false")
	}
}

func TestApplyDecision_LogsEveryAction(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	var logged []string
	r.debug = func(format string, args ...any) {
		logged = append(logged, format)
	}

	r.applyDecision("command ls", policy.Decision{Action: policy.Allow})
	r.applyDecision("command rm", policy.Decision{Action: policy.Deny})

	if len(logged) != 2 {
		t.Fatalf("expected a debug log for every decision (allow and deny), got %d: %v", len(logged), logged)
	}
}

func TestHandleLine_BlankLineStillRecordsHistory(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	if r.handleLine("   ") {
		t.Error("a blank line should never request termination")
	}
	if r.history.Len() != 1 {
		t.Fatalf("blank line should still be recorded in history, got %d entries", r.history.Len())
	}
	if r.history.Entries()[0] != "   " {
		t.Errorf("history entry = %q, want the raw blank line", r.history.Entries()[0])
	}
}

func TestHandleLine_RecordsHistoryBeforeDispatch(t *testing.T) {
	var out bytes.Buffer
	r := newTestREPL(&out)

	r.handleLine("echo hi")
	r.handleLine("")

	if r.history.Len() != 2 {
		t.Fatalf("both the dispatched and blank lines should be recorded, got %d entries", r.history.Len())
	}
	if r.history.Entries()[0] != "echo hi" || r.history.Entries()[1] != "" {
		t.Errorf("history entries = %v", r.history.Entries())
	}
}
