package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

// session is the interpreter state shared by every entry of a REPL run.
// Bindings persist across entries; output is collected per entry.
type session struct {
	scope  *lang.Scope
	input  *lang.LineQueue
	out    bytes.Buffer
	rt     *lang.Runtime
	logger log.Logger
	source []string
}

func newSession(scope *lang.Scope, logger log.Logger) *session {
	s := &session{input: &lang.LineQueue{}, logger: logger}
	s.reset(scope)

	return s
}

// reset binds the session to scope, or to a fresh scope if nil.
func (s *session) reset(scope *lang.Scope) {
	if scope == nil {
		scope = lang.NewScope()
	}

	s.scope = scope
	s.rt = lang.NewRuntime(
		lang.WithEnvironment(scope),
		lang.WithInput(s.input),
		lang.WithOutput(&s.out),
		lang.WithLogger(s.logger),
	)
}

// eval parses and runs src, returning whatever it printed. Output written
// before a runtime error is returned along with the error. Only entries
// that complete are remembered for editing.
func (s *session) eval(ctx context.Context, src string) (string, error) {
	s.out.Reset()

	err := lang.Exec(ctx, src, s.rt, lang.WithLogger(s.logger))
	if err == nil {
		s.source = append(s.source, src)
	}

	s.logger.TraceContext(ctx, "repl eval",
		slog.Int("output", s.out.Len()),
		slog.Bool("ok", err == nil),
	)

	return s.out.String(), err
}

// replace discards every binding and runs prog in a fresh scope, making
// src the remembered session source.
func (s *session) replace(
	ctx context.Context,
	prog *lang.Program,
	src string,
) (string, error) {
	s.out.Reset()
	s.reset(nil)
	s.source = []string{strings.TrimRight(src, "\n")}

	err := prog.Execute(ctx, s.rt)

	return s.out.String(), err
}

// text returns the completed entries joined as one script.
func (s *session) text() string {
	if len(s.source) == 0 {
		return ""
	}

	return strings.Join(s.source, "\n") + "\n"
}

// feed queues lines for read.
func (s *session) feed(lines ...string) { s.input.Push(lines...) }

// vars lists every binding as "name = value", one per line.
func (s *session) vars() string {
	var b strings.Builder

	for _, name := range s.scope.Names() {
		v, _ := s.scope.Lookup(name)
		fmt.Fprintf(&b, "%s = %s\n", name, display(v))
	}

	return b.String()
}

// display renders v the way it would be written in source where that is
// unambiguous.
func display(v lang.Value) string {
	if t, ok := v.(lang.Text); ok {
		return fmt.Sprintf("%q", string(t))
	}

	return lang.Render(v)
}

// names returns the bound names.
func (s *session) names() []string { return s.scope.Names() }

// keys returns the keys of the map reached by following the dotted path
// from a bound name, or nil if the path does not end at a map.
func (s *session) keys(path string) []string {
	segs := strings.Split(path, ".")

	v, ok := s.scope.Lookup(segs[0])
	if !ok {
		return nil
	}

	for _, seg := range segs[1:] {
		m, ok := v.(*lang.Map)
		if !ok {
			return nil
		}

		if v, ok = m.Get(seg); !ok {
			return nil
		}
	}

	if m, ok := v.(*lang.Map); ok {
		return m.Keys()
	}

	return nil
}
