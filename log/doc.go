// Package log wraps [log/slog] with a small leveled API used throughout
// minilang.
//
// A [Logger] is an immutable value. Derive variants with [Logger.Wrap] and
// [Logger.With]; the zero value discards everything, so types may embed a
// Logger without initializing it.
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("parsed", slog.Int("commands", n))
//
// The package also keeps a default logger, reconfigured with [Config] and
// used by the package-level functions such as [Info] and [ErrorContext].
//
// Levels extend slog with [LevelTrace], which the interpreter uses for
// per-node tracing. Output is either [FormatText] or [FormatJSON]; with
// [WithPretty], text output is colorized when the destination is a
// terminal and JSON output is indented.
package log
