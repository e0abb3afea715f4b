package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

// Run parses and executes a script.
type Run struct {
	Source `embed:""`

	Define   []string `help:"Bind NAME to the value of a host expression before running." placeholder:"NAME=EXPR" sep:"none" short:"D"`
	MaxDepth int      `default:"128" help:"Maximum nesting depth accepted by the parser."`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scope, err := r.scope()
	if err != nil {
		return err
	}

	logger := log.Default()

	prog, name, err := r.parse(ctx,
		lang.WithMaxDepth(r.MaxDepth),
		lang.WithLogger(logger),
	)
	if err != nil {
		return report(ctx, name, err)
	}

	streams := streamsFrom(ctx)

	in, done := inputFor(streams.In, name == "<stdin>", historyPath(ctx, "read"))
	defer done()

	err = prog.Run(ctx,
		lang.WithEnvironment(scope),
		lang.WithInput(in),
		lang.WithOutput(streams.Out),
		lang.WithLogger(logger),
	)
	if err != nil {
		return report(ctx, name, err)
	}

	return nil
}

// scope binds each --define in order, so later definitions may refer to
// earlier ones.
func (r *Run) scope() (*lang.Scope, error) {
	return defineScope(r.Define)
}

func defineScope(defs []string) (*lang.Scope, error) {
	scope := lang.NewScope()

	for _, def := range defs {
		name, source, ok := strings.Cut(def, "=")

		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ErrDefine.With(slog.String("define", def))
		}

		if err := scope.Define(name, source); err != nil {
			return nil, ErrDefine.With(slog.String("name", name)).Wrap(err)
		}
	}

	return scope, nil
}

// historyPath returns the history file for the given purpose in the cache
// directory, or "" when no cache directory is configured.
func historyPath(ctx context.Context, purpose string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	dir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok || dir == "" {
		return ""
	}

	return filepath.Join(dir, purpose+"_history")
}
