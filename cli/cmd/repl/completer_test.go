package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/minilang/log"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_minus", "a-fo", 4, "fo", 2, 4},
		{"after_paren", "size(fo", 7, "fo", 5, 7},
		{"after_comma", "def a = 1, fo", 13, "fo", 11, 13},
		{"after_bracket", "m[fo", 4, "fo", 2, 4},
		{"after_brace", "if (x) {fo", 10, "fo", 8, 10},
		{"after_colon", "[a: fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"empty_after_dot", "cfg.", 4, "", 4, 4},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"partial_word", "bar.baz.qu", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_assign", "x = a.b.", 8, "a.b"},
		{"after_minus", "x-a.", 4, "a"},
		{"word_after_space", "a b", 2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	s := newSession(nil, log.Logger{})

	if _, err := s.eval(t.Context(), `def cfg = [db: 1, dir: "x"], counter = 0`); err != nil {
		t.Fatal(err)
	}

	top := s.candidates("")

	for _, want := range []string{"cfg", "counter", "println", "foreach", "true"} {
		if !slices.Contains(top, want) {
			t.Errorf("top-level candidates missing %q", want)
		}
	}

	if !slices.IsSorted(top) {
		t.Error("top-level candidates are not sorted")
	}

	if got := s.candidates("cfg"); !slices.Equal(got, []string{"db", "dir"}) {
		t.Errorf("candidates(cfg) = %v", got)
	}
}

func TestComputeMatches(t *testing.T) {
	s := newSession(nil, log.Logger{})

	if _, err := s.eval(t.Context(), `def cfg = [alpha: 1, beta: 2]`); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		mode  inputMode
		input string
		want  []string
	}{
		{"empty_top_level", modeEval, "", nil},
		{"after_dot_lists_keys", modeEval, "cfg.", []string{"alpha", "beta"}},
		{"fuzzy_key", modeEval, "cfg.bt", []string{"beta"}},
		{"keyword", modeEval, "prin", []string{"print", "println"}},
		{"ctrl_empty", modeCtrl, "", nil},
		{"ctrl_command", modeCtrl, "edi", []string{"edit"}},
		{"ctrl_fuzzy", modeCtrl, "ed", []string{"edit", "feed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t.Context(), s, NewHistory(""))
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _ := m.computeMatches()

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			slices.Sort(got)

			if !slices.Equal(got, tt.want) {
				t.Errorf("matches for %q = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
