package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type streamsKey struct{}

// WithStreams returns a new context.Context whose commands use s in place of
// the process streams. Nil members keep their process default.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// Source locates the script a command operates on.
type Source struct {
	Script string   `arg:"" default:"-" help:"Script file, name on the search path, or '-' for stdin." name:"script"`
	Path   []string `help:"Prepend directory to the script search path." placeholder:"DIR" short:"P" type:"path"`
}

// searchPath returns the directories searched for bare script names: the
// --path directories followed by $MINILANG_PATH, omitting entries that are
// not directories.
func (s *Source) searchPath() []string {
	joined := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(s.Path...),
		mung.WithFilter(isDir),
	).String()

	return filepath.SplitList(joined)
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// resolve returns the path of the script, or "-" for stdin.
func (s *Source) resolve() (string, error) {
	name := s.Script
	if name == "" || name == stdinSource {
		return stdinSource, nil
	}

	if isFile(name) {
		return name, nil
	}

	if filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return "", ErrScriptNotFound.With(slog.String("script", name))
	}

	seen := make(map[fileKey]struct{})

	for _, dir := range s.searchPath() {
		if key, ok := statFileKey(dir); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		for _, cand := range []string{name, name + ScriptExt} {
			if path := filepath.Join(dir, cand); isFile(path) {
				return path, nil
			}
		}
	}

	return "", ErrScriptNotFound.With(slog.String("script", name))
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// open returns a reader for the script and the name it is reported under.
func (s *Source) open(ctx context.Context) (io.ReadCloser, string, error) {
	path, err := s.resolve()
	if err != nil {
		return nil, s.Script, err
	}

	if path == stdinSource {
		return io.NopCloser(streamsFrom(ctx).In), "<stdin>", nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, path, ErrOpenScript.With(slog.String("script", path)).Wrap(err)
	}

	return file, path, nil
}

// parse opens and parses the script.
func (s *Source) parse(
	ctx context.Context,
	opts ...lang.Option,
) (*lang.Program, string, error) {
	rc, name, err := s.open(ctx)
	if err != nil {
		return nil, name, err
	}
	defer rc.Close()

	log.DebugContext(ctx, "parse script", slog.String("script", name))

	prog, err := lang.ParseReader(ctx, rc, opts...)

	return prog, name, err
}

// report writes a script diagnostic to the error stream and converts err
// into an [Exit]. Errors from outside the interpreter are returned as is.
func report(ctx context.Context, name string, err error) error {
	var le *lang.Error
	if !errors.As(err, &le) {
		return err
	}

	log.DebugContext(ctx, "script failed",
		slog.String("script", name),
		slog.Any("error", le),
	)

	fmt.Fprintln(streamsFrom(ctx).Err, le.Diagnostic())

	return Exit(1)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

func statFileKey(path string) (fileKey, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}
