package shell

import "testing"

func TestHasPipe(t *testing.T) {
	if !HasPipe([]string{"echo", "hi", "|", "cat"}) {
		t.Error("expected HasPipe to find |")
	}
	if HasPipe([]string{"echo", "hi"}) {
		t.Error("expected no pipe")
	}
}

func TestSplitPipeline(t *testing.T) {
	stages := SplitPipeline([]string{"echo", "hi", "|", "grep", "h", "|", "wc", "-l"})
	want := [][]string{
		{"echo", "hi"},
		{"grep", "h"},
		{"wc", "-l"},
	}
	if len(stages) != len(want) {
		t.Fatalf("got %d stages, want %d: %#v", len(stages), len(want), stages)
	}
	for i := range want {
		if len(stages[i]) != len(want[i]) {
			t.Fatalf("stage %d = %v, want %v", i, stages[i], want[i])
		}
		for j := range want[i] {
			if stages[i][j] != want[i][j] {
				t.Errorf("stage %d token %d = %q, want %q", i, j, stages[i][j], want[i][j])
			}
		}
	}
}

func TestSplitPipeline_PreservesQuotedPipeChar(t *testing.T) {
	// A literal "|" inside a quoted word is tokenized as part of that word
	// by Tokenize, never as a standalone "|" token, so SplitPipeline must
	// not split it.
	tokens := Tokenize(`echo "a|b"`)
	stages := SplitPipeline(tokens)
	if len(stages) != 1 {
		t.Fatalf("got %d stages, want 1 (no real pipe present): %#v", len(stages), stages)
	}
}

func TestRunPipeline_BuiltinToBuiltin(t *testing.T) {
	ctx := &BuiltinContext{
		Resolver: NewResolver(),
		History:  NewHistory(),
	}
	stages := SplitPipeline([]string{"echo", "hi", "|", "exit"})
	terminate := RunPipeline(stages, ctx)
	if !terminate {
		t.Error("expected exit in the final stage to request termination")
	}
}
