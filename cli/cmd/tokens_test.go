package cmd

import (
	"slices"
	"strings"
	"testing"
)

func TestTokens(t *testing.T) {
	ctx, out, _ := testStreams(t, "def a = \"x y\"\n# ")

	if err := (&Tokens{Source: Source{Script: "-"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := [][]string{
		{"01", "DEF", `"def"`},
		{"01", "NAME", `"a"`},
		{"01", "ASSIGN", `"="`},
		{"01", "TEXT", `"x`, `y"`},
		{"02", "INVALID_TOKEN", `"#"`},
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), out)
	}

	for i, line := range lines {
		if got := strings.Fields(line); !slices.Equal(got, want[i]) {
			t.Errorf("line %d = %q, want %q", i, got, want[i])
		}
	}
}
