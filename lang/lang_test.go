package lang

import (
	"strings"
	"testing"
)

// run parses and executes src with the given input lines, returning what
// the program printed.
func run(t *testing.T, src string, input ...string) (string, error) {
	t.Helper()

	var out strings.Builder

	in := &LineQueue{}
	in.Push(input...)

	prog, err := ParseString(t.Context(), src)
	if err != nil {
		return "", err
	}

	err = prog.Run(t.Context(), WithInput(in), WithOutput(&out))

	return out.String(), err
}

// mustRun is run for programs expected to succeed.
func mustRun(t *testing.T, src string, input ...string) string {
	t.Helper()

	out, err := run(t, src, input...)
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}

	return out
}

// diagnostic runs src and returns the rendered error, failing if there is
// none.
func diagnostic(t *testing.T, src string, input ...string) string {
	t.Helper()

	_, err := run(t, src, input...)
	if err == nil {
		t.Fatalf("run %q: expected error", src)
	}

	return Diagnostic(err)
}
