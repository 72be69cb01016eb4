package shell

import (
	"bufio"
	"os"
	"strings"
)

// v2Header is the sentinel some line-editor history formats write as the
// first line of a persisted history file. goshell manages its own history
// file directly (readline's DisableAutoSaveHistory is set so it never
// writes one), but strips the header defensively on load/save so a history
// file shared with such an editor still round-trips as plain text.
const v2Header = "#V2"

// History is an append-only, 1-based-indexed record of accepted input
// lines for the session, matching spec.md §3's HistoryBuffer.
type History struct {
	entries    []string
	lastMarker int // index (len(entries)) as of the last -a/-w/load, for -a
}

// NewHistory returns an empty history buffer.
func NewHistory() *History {
	return &History{}
}

// Add appends a line as given. The REPL calls it exactly once for every
// line the line editor returns, blank lines included.
func (h *History) Add(line string) {
	h.entries = append(h.entries, line)
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns the full buffer in order. Callers must not mutate it.
func (h *History) Entries() []string {
	return h.entries
}

// Tail returns the last n entries (or all, if fewer) together with the
// 1-based index of the first one returned.
func (h *History) Tail(n int) (start int, lines []string) {
	if n > len(h.entries) || n < 0 {
		n = len(h.entries)
	}
	start = len(h.entries) - n + 1
	return start, h.entries[len(h.entries)-n:]
}

// Load reads entries from path and appends them to the buffer, stripping a
// leading #V2 header line if present.
func (h *History) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			if line == v2Header {
				continue
			}
		}
		h.entries = append(h.entries, line)
	}
	h.lastMarker = len(h.entries)
	return scanner.Err()
}

// Write truncate-writes the entire buffer to path, one entry per line, with
// no header.
func (h *History) Write(path string) error {
	var sb strings.Builder
	for _, e := range h.entries {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return err
	}
	h.lastMarker = len(h.entries)
	return nil
}

// Append writes entries added since the last -a/-w/load to path, creating
// it if necessary.
func (h *History) Append(path string) error {
	fresh := h.entries[h.lastMarker:]
	if len(fresh) == 0 {
		h.lastMarker = len(h.entries)
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var sb strings.Builder
	for _, e := range fresh {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		return err
	}
	h.lastMarker = len(h.entries)
	return nil
}

// StripV2Header rewrites path in place, removing a leading "#V2" line if
// present. Used at exit so a file written by a line editor that insists on
// the header still ends up as plain text for downstream tools.
func StripV2Header(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(data), v2Header+"\n") {
		return nil
	}
	trimmed := strings.TrimPrefix(string(data), v2Header+"\n")
	return os.WriteFile(path, []byte(trimmed), 0o644)
}
