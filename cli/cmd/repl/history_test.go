package repl

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestHistoryPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)
	for _, e := range []HistoryEntry{
		{"def a = 1", modeEval},
		{"vars", modeCtrl},
		{"println(a)", modeEval},
		{"def a = 1", modeEval},
	} {
		if err := h.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if want := "C:vars\nE:println(a)\nE:def a = 1\n"; string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}

	loaded := NewHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", loaded.Len())
	}

	e, err := loaded.Entry(0)
	if err != nil || e != (HistoryEntry{"vars", modeCtrl}) {
		t.Errorf("Entry(0) = %+v, %v", e, err)
	}

	if _, err := loaded.Entry(3); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Entry(3) error = %v, want ErrOutOfBounds", err)
	}
}

func TestHistoryLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	if err := NewHistory(path).Load(); err != nil {
		t.Errorf("missing file: %v", err)
	}

	if err := os.WriteFile(path, []byte("E:x = 1\n\n  \nplain\nC:quit\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}

	want := []HistoryEntry{{"x = 1", modeEval}, {"plain", modeEval}, {"quit", modeCtrl}}

	if h.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", h.Len(), len(want))
	}

	for i, w := range want {
		if e, _ := h.Entry(i); e != w {
			t.Errorf("Entry(%d) = %+v, want %+v", i, e, w)
		}
	}
}

func TestHistoryLimit(t *testing.T) {
	h := NewHistory("")

	for i := range maxHistory + 5 {
		if err := h.Add("x = "+strconv.Itoa(i), modeEval); err != nil {
			t.Fatal(err)
		}
	}

	if h.Len() != maxHistory {
		t.Errorf("Len() = %d, want %d", h.Len(), maxHistory)
	}
}

func TestHistorySearch(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("e0", modeEval)
	_ = h.Add("c1", modeCtrl)
	_ = h.Add("e2", modeEval)

	all := func(inputMode) bool { return true }
	ctrl := func(m inputMode) bool { return m == modeCtrl }

	tests := []struct {
		name  string
		from  int
		step  int
		match func(inputMode) bool
		want  int
	}{
		{"prev from end", 3, -1, all, 2},
		{"prev ctrl from end", 3, -1, ctrl, 1},
		{"prev before start", 0, -1, all, -1},
		{"next", 0, 1, all, 1},
		{"next ctrl past last", 1, 1, ctrl, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.search(tt.from, tt.step, tt.match); got != tt.want {
				t.Errorf("search(%d, %d) = %d, want %d", tt.from, tt.step, got, tt.want)
			}
		})
	}
}
