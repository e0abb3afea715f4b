package lang

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/minilang/log"
)

// Runtime holds the state a program executes against: its bindings and
// its input and output ports.
type Runtime struct {
	env    Environment
	in     Input
	out    io.Writer
	logger log.Logger
}

// NewRuntime creates a Runtime. Unset ports default to an exhausted input,
// a discarding output, and a fresh [Scope].
func NewRuntime(opts ...Option) *Runtime {
	c := makeConfig(opts...)

	rt := &Runtime{env: c.env, in: c.in, out: c.out, logger: c.logger}

	if rt.env == nil {
		rt.env = NewScope()
	}

	if rt.in == nil {
		rt.in = &LineQueue{}
	}

	if rt.out == nil {
		rt.out = io.Discard
	}

	return rt
}

// Environment returns the bindings of rt.
func (rt *Runtime) Environment() Environment { return rt.env }

func (rt *Runtime) lookup(name string) Value {
	if v, ok := rt.env.Lookup(name); ok {
		return orNull(v)
	}

	return Null{}
}

func (rt *Runtime) bind(name string, v Value) { rt.env.Bind(name, orNull(v)) }

func (rt *Runtime) write(line int, s string) {
	if _, err := io.WriteString(rt.out, s); err != nil {
		raise(line, ErrWriteOutput.Wrap(err))
	}
}

// prompt shows text and reads one line of input.
func (rt *Runtime) prompt(line int, text string) Text {
	var (
		s   string
		err error
	)

	if p, ok := rt.in.(Prompter); ok {
		s, err = p.Prompt(text)
	} else {
		rt.write(line, text)
		s, err = rt.in.ReadLine()
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			raise(line, ErrInputExhausted)
		}

		raise(line, ErrReadInput.Wrap(err))
	}

	return Text(s)
}

func (rt *Runtime) trace(ctx context.Context, n Node) {
	if !rt.logger.Enabled(ctx, log.LevelTrace) {
		return
	}

	rt.logger.TraceContext(ctx, "exec",
		slog.String("node", nodeName(n)),
		slog.Int("line", n.Line()),
	)
}

// Execute runs the program against rt. A fatal condition stops execution
// and is returned as an *Error with its source line.
func (p *Program) Execute(ctx context.Context, rt *Runtime) (err error) {
	defer recoverAbort(&err)

	rt.logger.DebugContext(ctx, "execute",
		slog.Int("commands", len(p.Root.Commands)))

	p.Root.Exec(ctx, rt)

	return nil
}

// Run executes the program against a new [Runtime] built from opts.
func (p *Program) Run(ctx context.Context, opts ...Option) error {
	return p.Execute(ctx, NewRuntime(opts...))
}

// Exec parses src and runs it against rt.
func Exec(ctx context.Context, src string, rt *Runtime, opts ...Option) error {
	prog, err := ParseString(ctx, src, opts...)
	if err != nil {
		return err
	}

	return prog.Execute(ctx, rt)
}

func nodeName(n Node) string {
	switch n.(type) {
	case *ConstExpr:
		return "Const"
	case *VariableExpr:
		return "Variable"
	case *AccessExpr:
		return "Access"
	case *ArrayExpr:
		return "Array"
	case *MapExpr:
		return "Map"
	case *SwitchExpr:
		return "Switch"
	case *UnaryExpr:
		return "Unary"
	case *BinaryExpr:
		return "Binary"
	case *CastExpr:
		return "Cast"
	case *BlocksCommand:
		return "Blocks"
	case *DeclarationType1Command:
		return "DeclarationType1"
	case *DeclarationType2Command:
		return "DeclarationType2"
	case *AssignCommand:
		return "Assign"
	case *PrintCommand:
		return "Print"
	case *IfCommand:
		return "If"
	case *WhileCommand:
		return "While"
	case *ForCommand:
		return "For"
	case *ForeachCommand:
		return "Foreach"
	default:
		return fmt.Sprintf("%T", n)
	}
}
