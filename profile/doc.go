// Package profile wraps [github.com/pkg/profile] for the minilang command.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//	minilang --pprof-mode=cpu run script.ml
//
// Without the tag, [Modes] is empty and [Config.Start] returns a no-op.
// Profiles are written to the directory given by [WithPath], by default a
// "pprof" subdirectory of the user cache directory.
package profile
