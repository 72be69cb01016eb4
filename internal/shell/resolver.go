package shell

import (
	"os"
	"path/filepath"
	"strings"
)

// Builtins is the closed set of builtin command names this core implements.
// type/dispatch consult this set directly; it does not cover bash reserved
// words (unsupported bash constructs are reported separately, by
// DetectUnsupportedConstructs in guard.go).
var Builtins = map[string]bool{
	"exit":    true,
	"echo":    true,
	"type":    true,
	"pwd":     true,
	"cd":      true,
	"history": true,
}

// IsBuiltin reports whether name is one of this shell's builtins.
func IsBuiltin(name string) bool {
	return Builtins[name]
}

// Resolver looks up bare command names against PATH, caching each found
// path for the lifetime of the session; a name that was not found is
// looked up again on the next call. It serves dispatch and the type builtin
// (component B); the completion provider's startup scan (component C)
// walks PATH on its own, in BuildExecutableIndex.
type Resolver struct {
	cache map[string]string
}

// NewResolver creates an empty resolver. PATH is read fresh on every
// lookup of a name not yet found, so a command installed mid-session is
// found rather than hidden by a startup snapshot.
func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]string)}
}

// Resolve returns the first PATH entry for name that is a regular file with
// the owner-execute bit set, or "", false if none exists or PATH is unset.
func (r *Resolver) Resolve(name string) (string, bool) {
	if cached, ok := r.cache[name]; ok {
		if cached == "" {
			return "", false
		}
		return cached, true
	}

	path := lookupInPath(name)
	if path == "" {
		return "", false
	}
	r.cache[name] = path
	return path, true
}

// lookupInPath scans PATH left to right, returning the first candidate
// path whose metadata shows the owner-execute bit (0o100).
func lookupInPath(name string) string {
	pathVar := os.Getenv("PATH")
	if pathVar == "" {
		return ""
	}
	for _, dir := range strings.Split(pathVar, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() && info.Mode().Perm()&0o100 != 0 {
			return candidate
		}
	}
	return ""
}
