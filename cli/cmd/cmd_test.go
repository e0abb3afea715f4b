package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testStreams returns a context whose commands read in and write to the
// returned buffers.
func testStreams(t *testing.T, in string) (ctx context.Context, out, errOut *bytes.Buffer) {
	t.Helper()

	out, errOut = new(bytes.Buffer), new(bytes.Buffer)
	ctx = WithStreams(t.Context(), Streams{
		In:  strings.NewReader(in),
		Out: out,
		Err: errOut,
	})

	return ctx, out, errOut
}

func writeScript(t *testing.T, dir, name, src string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestSourceResolve(t *testing.T) {
	t.Setenv(PathEnv, "")

	first, second := t.TempDir(), t.TempDir()

	direct := writeScript(t, first, "direct.ml", "")
	writeScript(t, first, "shared.ml", "")
	writeScript(t, second, "shared.ml", "")
	writeScript(t, second, "only", "")

	tests := []struct {
		name    string
		source  Source
		env     string
		want    string
		wantErr error
	}{
		{"stdin", Source{Script: "-"}, "", "-", nil},
		{"empty is stdin", Source{}, "", "-", nil},
		{"direct path", Source{Script: direct}, "", direct, nil},
		{"path flag", Source{Script: "direct.ml", Path: []string{first}}, "", filepath.Join(first, "direct.ml"), nil},
		{"extension added", Source{Script: "direct", Path: []string{first}}, "", filepath.Join(first, "direct.ml"), nil},
		{"flag before env", Source{Script: "shared", Path: []string{first}}, second, filepath.Join(first, "shared.ml"), nil},
		{"env only", Source{Script: "only"}, second, filepath.Join(second, "only"), nil},
		{"env list", Source{Script: "only"}, first + string(os.PathListSeparator) + second, filepath.Join(second, "only"), nil},
		{"missing", Source{Script: "nope", Path: []string{first}}, second, "", ErrScriptNotFound},
		{"missing with separator", Source{Script: filepath.Join("sub", "only"), Path: []string{second}}, "", "", ErrScriptNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(PathEnv, tt.env)

			got, err := tt.source.resolve()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatFileKeyFollowsSymlinks(t *testing.T) {
	dir := t.TempDir()
	link := filepath.Join(t.TempDir(), "link")

	if err := os.Symlink(dir, link); err != nil {
		t.Skip("symlinks unavailable:", err)
	}

	a, okA := statFileKey(dir)
	b, okB := statFileKey(link)

	if !okA || !okB || a != b {
		t.Fatalf("file keys differ: %v %v / %v %v", a, okA, b, okB)
	}
}

func TestSourceOpenStdin(t *testing.T) {
	ctx, _, _ := testStreams(t, "println(1)")

	rc, name, err := (&Source{Script: "-"}).open(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if name != "<stdin>" || string(data) != "println(1)" {
		t.Errorf("open(-) = %q, %q", name, data)
	}
}

func TestErrorIs(t *testing.T) {
	err := ErrWriteConfig.Wrap(os.ErrPermission)

	if !errors.Is(err, ErrWriteConfig) {
		t.Error("wrapped error does not match its sentinel")
	}

	if !errors.Is(err, os.ErrPermission) {
		t.Error("wrapped error does not match its cause")
	}

	if errors.Is(err, ErrFormat) {
		t.Error("error matches an unrelated sentinel")
	}

	if got := err.Error(); got != "write configuration file: permission denied" {
		t.Errorf("Error() = %q", got)
	}

	var exit Exit
	if !errors.As(error(Exit(2)), &exit) || exit != 2 || exit.Error() != "exit status 2" {
		t.Errorf("Exit = %v", exit)
	}
}
