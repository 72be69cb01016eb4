package policy

import (
	"os"
	"path/filepath"
	"strings"
)

// Vars holds the variables available for path-pattern expansion, ported
// from the teacher's pkg/pathutil/vars.go.
type Vars struct {
	ProjectRoot string
	Home        string
	Cwd         string
}

// NewVars captures the current environment for pattern expansion.
func NewVars(projectRoot string) *Vars {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return &Vars{ProjectRoot: projectRoot, Home: home, Cwd: cwd}
}

// Expand replaces $PROJECT_ROOT and $HOME in pattern.
func (v *Vars) Expand(pattern string) string {
	result := pattern
	if v.ProjectRoot != "" {
		result = strings.ReplaceAll(result, "$PROJECT_ROOT", v.ProjectRoot)
	}
	if v.Home != "" {
		result = strings.ReplaceAll(result, "$HOME", v.Home)
	}
	return result
}

// HasVars reports whether pattern references a variable this package
// expands.
func HasVars(pattern string) bool {
	return strings.Contains(pattern, "$PROJECT_ROOT") || strings.Contains(pattern, "$HOME")
}

// resolvePath makes path absolute relative to cwd, cleans it, and resolves
// symlinks so a policy pattern can't be routed around via a symlinked
// directory. Ported from the teacher's pkg/pathutil.ResolvePath.
func resolvePath(path, cwd, home string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		path = home
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[2:])
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}
	path = filepath.Clean(path)

	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return resolveNonExistentAncestor(path)
}

// resolveNonExistentAncestor resolves symlinks on the deepest existing
// ancestor of path and re-appends the remaining, not-yet-existing
// components — a redirect target that doesn't exist yet still has its
// existing parent directories symlink-resolved.
func resolveNonExistentAncestor(path string) string {
	current := path
	var remaining []string
	for current != "/" && current != "." {
		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			for i := len(remaining) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, remaining[i])
			}
			return resolved
		}
		remaining = append(remaining, filepath.Base(current))
		current = filepath.Dir(current)
	}
	return filepath.Clean(path)
}

// isPathLike heuristically detects whether s looks like a filesystem path.
func isPathLike(s string) bool {
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "./") ||
		strings.HasPrefix(s, "../") || strings.HasPrefix(s, "~/") ||
		s == "~" || s == "." || s == ".." {
		return true
	}
	return strings.Contains(s, "/") && !strings.HasPrefix(s, "-")
}
