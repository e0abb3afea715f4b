package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/klauspost/readahead"

	"github.com/ardnew/minilang/lang/lexer"
)

// Tokens prints the lexeme stream of a script, one "line type text" row
// per lexeme, ending with the terminating sentinel.
type Tokens struct {
	Source `embed:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	rc, name, err := t.open(ctx)
	if err != nil {
		return err
	}
	defer rc.Close()

	ra := readahead.NewReader(rc)
	defer ra.Close()

	lx := lexer.New(ra)
	out := streamsFrom(ctx).Out

	for {
		lex := lx.Next()

		_, err := fmt.Fprintf(out, "%02d %-14s %s\n",
			lex.Line, lex.Type, strconv.Quote(lex.Text))
		if err != nil {
			return ErrWriteTokens.With(slog.String("script", name)).Wrap(err)
		}

		if lex.IsSentinel() {
			break
		}
	}

	if err := lx.Err(); err != nil {
		return ErrOpenScript.With(slog.String("script", name)).Wrap(err)
	}

	return nil
}
