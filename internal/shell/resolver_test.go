package shell

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsBuiltin(t *testing.T) {
	for name, want := range map[string]bool{
		"exit": true, "echo": true, "type": true,
		"pwd": true, "cd": true, "history": true,
		"ls": false, "grep": false,
	} {
		if got := IsBuiltin(name); got != want {
			t.Errorf("IsBuiltin(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestResolver_Resolve(t *testing.T) {
	tmpDir := t.TempDir()
	exePath := filepath.Join(tmpDir, "myexec")
	if err := os.WriteFile(exePath, []byte("#!/bin/sh\necho hi\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PATH", tmpDir)
	r := NewResolver()

	path, ok := r.Resolve("myexec")
	if !ok || path != exePath {
		t.Errorf("Resolve(myexec) = (%q, %v), want (%q, true)", path, ok, exePath)
	}

	if _, ok := r.Resolve("does-not-exist"); ok {
		t.Errorf("Resolve(does-not-exist) should fail")
	}
}

func TestResolver_Caching(t *testing.T) {
	tmpDir := t.TempDir()
	exePath := filepath.Join(tmpDir, "cached")
	if err := os.WriteFile(exePath, []byte("x"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", tmpDir)

	r := NewResolver()
	first, ok1 := r.Resolve("cached")
	os.Remove(exePath) // removing after the first resolve should not affect the cached hit
	second, ok2 := r.Resolve("cached")

	if !ok1 || !ok2 || first != second {
		t.Errorf("expected cached resolution to be stable: (%q,%v) vs (%q,%v)", first, ok1, second, ok2)
	}
}

func TestResolver_IgnoresNonExecutable(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "notexec")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", tmpDir)

	r := NewResolver()
	if _, ok := r.Resolve("notexec"); ok {
		t.Errorf("Resolve should skip a file without the execute bit")
	}
}
