package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/minilang/lang"
)

// Fmt parses a script and prints it in the chosen format.
type Fmt struct {
	Source `embed:""`

	Format string `default:"source" enum:"source,ast,json,yaml" help:"Output format (${enum})." short:"f"`
	Indent int    `default:"2"                                  help:"Indent width; 0 selects compact output where supported." short:"i"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	prog, name, err := f.parse(ctx)
	if err != nil {
		return report(ctx, name, err)
	}

	out := streamsFrom(ctx).Out

	switch f.Format {
	case "ast":
		err = prog.Print(ctx, out, f.Indent)
	case "json":
		err = prog.FormatJSON(ctx, out, f.Indent)
	case "yaml":
		err = prog.FormatYAML(ctx, out, f.Indent)
	default:
		err = prog.Format(ctx, out, f.Indent)
	}

	if err != nil {
		return ErrFormat.
			With(slog.String("script", name), slog.String("format", f.Format)).
			Wrap(lang.WrapError(err))
	}

	return nil
}
