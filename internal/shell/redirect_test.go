package shell

import (
	"os"
	"testing"
)

func TestParseRedirection_NoOperator(t *testing.T) {
	args, spec := ParseRedirection([]string{"hello", "world"})
	if spec != nil {
		t.Fatalf("expected no redirection, got %+v", spec)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestParseRedirection_Truncate(t *testing.T) {
	args, spec := ParseRedirection([]string{"hello", ">", "out.txt"})
	if spec == nil {
		t.Fatal("expected a redirection spec")
	}
	if spec.Stream != RedirectStdout || spec.Mode != RedirectTruncate || spec.Target != "out.txt" {
		t.Errorf("spec = %+v", spec)
	}
	if len(args) != 1 || args[0] != "hello" {
		t.Errorf("args = %v, want [hello]", args)
	}
}

func TestParseRedirection_AppendStderr(t *testing.T) {
	_, spec := ParseRedirection([]string{"hello", "2>>", "err.log"})
	if spec == nil || spec.Stream != RedirectStderr || spec.Mode != RedirectAppend {
		t.Fatalf("spec = %+v", spec)
	}
}

func TestParseRedirection_TrailingTokensIgnored(t *testing.T) {
	args, spec := ParseRedirection([]string{"hello", ">", "out.txt", "extra", "tokens"})
	if spec == nil || spec.Target != "out.txt" {
		t.Fatalf("spec = %+v", spec)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want [hello]", args)
	}
}

func TestParseRedirection_NoTargetToken(t *testing.T) {
	args, spec := ParseRedirection([]string{"hello", ">"})
	if spec != nil {
		t.Fatalf("expected nil spec when no target follows, got %+v", spec)
	}
	if len(args) != 2 {
		t.Errorf("args = %v", args)
	}
}

func TestRedirectionSpec_OpenModes(t *testing.T) {
	dir := t.TempDir()
	target := dir + "/out.txt"

	spec := &RedirectionSpec{Stream: RedirectStdout, Mode: RedirectTruncate, Target: target}
	f, err := spec.Open()
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("first")
	f.Close()

	spec2 := &RedirectionSpec{Stream: RedirectStdout, Mode: RedirectAppend, Target: target}
	f2, err := spec2.Open()
	if err != nil {
		t.Fatal(err)
	}
	f2.WriteString("second")
	f2.Close()

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "firstsecond" {
		t.Errorf("contents = %q, want firstsecond", data)
	}
}
