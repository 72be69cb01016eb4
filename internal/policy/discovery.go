package policy

import (
	"os"
	"path/filepath"
)

// findGlobalConfig looks for ~/.config/goshell/policy.toml, ported from
// the teacher's findGlobalConfig.
func findGlobalConfig() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "goshell", "policy.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// findProjectRoot walks up from cwd looking for a .git directory or a
// .goshell marker, matching the teacher's project-root detection shape.
func findProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}
		if _, err := os.Stat(filepath.Join(dir, ".goshell")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// findProjectConfig looks for <projectRoot>/.goshell/policy.toml.
func findProjectConfig(projectRoot string) string {
	if projectRoot == "" {
		return ""
	}
	path := filepath.Join(projectRoot, ".goshell", "policy.toml")
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
