package shell

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Candidate is one completion result: Display is what the user sees in a
// candidate list, Replacement is the full word that should replace the
// typed prefix (builtins and executables always complete to their bare
// name followed by a trailing space).
type Candidate struct {
	Display     string
	Replacement string
}

// ExecutableIndex is the startup-built map the completion provider draws
// candidates from. Unlike the live Resolver used by dispatch, this is a
// point-in-time snapshot: a binary installed after startup completes only
// once the shell restarts, matching spec.md §3's ExecutableIndex contract.
type ExecutableIndex struct {
	entries map[string]string // basename -> first absolute path
}

// BuildExecutableIndex scans every directory in PATH, left to right,
// retaining the first path seen for each basename. Directory-scan errors
// (missing or unreadable directories) are skipped silently.
func BuildExecutableIndex() *ExecutableIndex {
	idx := &ExecutableIndex{entries: make(map[string]string)}
	pathVar := os.Getenv("PATH")
	if pathVar == "" {
		return idx
	}
	for _, dir := range strings.Split(pathVar, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if _, exists := idx.entries[name]; exists {
				continue
			}
			idx.entries[name] = filepath.Join(dir, name)
		}
	}
	return idx
}

// Names returns every indexed executable basename, unordered.
func (idx *ExecutableIndex) Names() []string {
	names := make([]string, 0, len(idx.entries))
	for name := range idx.entries {
		names = append(names, name)
	}
	return names
}

// Completer implements readline.AutoCompleter (Do(line []rune, pos int)
// (newLine [][]rune, length int)) over builtins plus the executable index,
// matching the prefix-completion contract from spec.md §4.C.
type Completer struct {
	index *ExecutableIndex
}

// NewCompleter builds a Completer from a previously built ExecutableIndex.
func NewCompleter(index *ExecutableIndex) *Completer {
	return &Completer{index: index}
}

// Do implements readline.AutoCompleter. It returns, for every candidate
// whose name starts with the word under the cursor, the rune suffix that
// completes that word (plus a trailing space), and length, the number of
// runes of the already-typed prefix those suffixes replace.
func (c *Completer) Do(line []rune, pos int) (newLine [][]rune, length int) {
	span, candidates := c.Complete(string(line), pos)
	prefixLen := pos - span
	if prefixLen < 0 {
		prefixLen = 0
	}
	suffixes := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		suffix := strings.TrimPrefix(cand.Replacement, string(line[span:pos]))
		suffixes = append(suffixes, []rune(suffix))
	}
	return suffixes, prefixLen
}

// Complete returns the start offset of the word under the cursor and the
// sorted list of matching candidates, per spec.md §4.C:
//  1. span_start = 1 + index of the last space before cursor, or 0
//  2. prefix = line[span_start:cursor]
//  3. candidates = builtins + indexed executables with that prefix
//  4. sorted lexicographically by display name
func (c *Completer) Complete(line string, cursor int) (int, []Candidate) {
	runes := []rune(line)
	if cursor > len(runes) {
		cursor = len(runes)
	}
	spanStart := 0
	for i := cursor - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			spanStart = i + 1
			break
		}
	}
	prefix := string(runes[spanStart:cursor])

	var candidates []Candidate
	seen := make(map[string]bool)
	for name := range Builtins {
		if strings.HasPrefix(name, prefix) {
			candidates = append(candidates, Candidate{Display: name, Replacement: name + " "})
			seen[name] = true
		}
	}
	if c.index != nil {
		for name := range c.index.entries {
			if seen[name] {
				continue
			}
			if strings.HasPrefix(name, prefix) {
				candidates = append(candidates, Candidate{Display: name, Replacement: name + " "})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Display < candidates[j].Display
	})
	return spanStart, candidates
}
