package lang

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/expr-lang/expr"
)

// Environment stores named bindings. Reading a name that was never bound
// yields null; binding a name that does not exist creates it.
type Environment interface {
	Lookup(name string) (Value, bool)
	Bind(name string, v Value)
}

// Scope is a flat [Environment]: every declaration, loop variable and
// assignment shares one namespace.
type Scope struct {
	vars map[string]Value
}

// NewScope returns an empty Scope.
func NewScope() *Scope { return &Scope{vars: map[string]Value{}} }

func (s *Scope) Lookup(name string) (Value, bool) {
	v, ok := s.vars[name]

	return v, ok
}

func (s *Scope) Bind(name string, v Value) {
	if s.vars == nil {
		s.vars = map[string]Value{}
	}

	s.vars[name] = orNull(v)
}

// Names returns the bound names in sorted order.
func (s *Scope) Names() []string { return slices.Sorted(maps.Keys(s.vars)) }

func (s *Scope) Len() int { return len(s.vars) }

// Native returns the bindings converted with [ToNative].
func (s *Scope) Native() map[string]any {
	out := make(map[string]any, len(s.vars))
	for k, v := range s.vars {
		out[k] = ToNative(v)
	}

	return out
}

// Define evaluates source as an expr-lang expression over the current
// bindings and binds the result to name. Host tools use it to seed a
// program's environment, for example:
//
//	scope.Define("limit", "10 * 3")
//	scope.Define("names", `["a", "b"]`)
//	scope.Define("double", "limit * 2")
func (s *Scope) Define(name, source string) error {
	env := s.Native()

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return ErrDefine.Wrap(err).With(
			slog.String("name", name),
			slog.String("source", source),
		)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return ErrDefine.Wrap(err).With(
			slog.String("name", name),
			slog.String("source", source),
		)
	}

	s.Bind(name, FromNative(out))

	return nil
}
