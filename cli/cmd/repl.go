package cmd

import (
	"context"

	"github.com/ardnew/minilang/cli/cmd/repl"
	"github.com/ardnew/minilang/log"
)

// Repl starts an interactive session.
type Repl struct {
	Define []string `help:"Bind NAME to the value of a host expression before starting." placeholder:"NAME=EXPR" sep:"none" short:"D"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	scope, err := defineScope(r.Define)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, scope, cacheDir, log.Default())
}
