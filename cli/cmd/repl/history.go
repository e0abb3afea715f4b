package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	baseHistory = "repl_history"

	// maxHistory bounds the entries kept on disk.
	maxHistory = 1000
)

// ErrOutOfBounds is returned for a history index with no entry.
var ErrOutOfBounds = errors.New("history index out of range")

// HistoryEntry is one submitted line and the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// modePrefix tags each persisted line with its mode.
var modePrefix = map[inputMode]string{modeEval: "E:", modeCtrl: "C:"}

func (e HistoryEntry) encode() string { return modePrefix[e.Mode] + e.Line }

func decodeEntry(line string) HistoryEntry {
	for mode, prefix := range modePrefix {
		if s, ok := strings.CutPrefix(line, prefix); ok {
			return HistoryEntry{Line: s, Mode: mode}
		}
	}

	return HistoryEntry{Line: line, Mode: modeEval}
}

// History is the REPL input history, persisted to a file. An empty path
// keeps history in memory only.
type History struct {
	mu      sync.RWMutex
	path    string
	entries []HistoryEntry
}

// NewHistory creates a History backed by path.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the entries with those in the history file. A missing file
// is an empty history.
func (h *History) Load() error {
	if h.path == "" {
		return nil
	}

	file, err := os.Open(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return err
	}
	defer file.Close()

	var entries []HistoryEntry

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			entries = append(entries, decodeEntry(line))
		}
	}

	h.mu.Lock()
	h.entries = entries
	h.mu.Unlock()

	return scanner.Err()
}

// Add records line, moving an earlier identical entry to the end, and
// saves the history.
func (h *History) Add(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	h.entries = slices.DeleteFunc(h.entries, func(e HistoryEntry) bool {
		return e == entry
	})
	h.entries = append(h.entries, entry)

	if n := len(h.entries); n > maxHistory {
		h.entries = slices.Delete(h.entries, 0, n-maxHistory)
	}
	h.mu.Unlock()

	return h.Save()
}

// Save writes every entry to the history file.
func (h *History) Save() error {
	if h.path == "" {
		return nil
	}

	h.mu.RLock()
	lines := make([]string, len(h.entries))
	for i, e := range h.entries {
		lines[i] = e.encode() + "\n"
	}
	h.mu.RUnlock()

	return os.WriteFile(h.path, []byte(strings.Join(lines, "")), 0o600)
}

// Entry returns entry i, oldest first.
func (h *History) Entry(i int) (HistoryEntry, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, ErrOutOfBounds
	}

	return h.entries[i], nil
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// search returns the index of the nearest entry before (step -1) or after
// (step 1) from whose mode matches, or -1.
func (h *History) search(from, step int, match func(inputMode) bool) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := from + step; i >= 0 && i < len(h.entries); i += step {
		if match(h.entries[i].Mode) {
			return i
		}
	}

	return -1
}
