package lang

import (
	"io"

	"github.com/ardnew/minilang/log"
)

// DefaultMaxDepth bounds the nesting of bodies and parenthesized
// expressions accepted by the parser.
const DefaultMaxDepth = 128

// Option configures parsing and execution.
type Option func(*config)

type config struct {
	env      Environment
	in       Input
	out      io.Writer
	logger   log.Logger
	maxDepth int
}

func makeConfig(opts ...Option) config {
	c := config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithMaxDepth sets the parser nesting limit. Values below 1 restore
// [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}

// WithLogger sets the logger used to trace parsing and execution.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithEnvironment sets the bindings a program executes against.
func WithEnvironment(env Environment) Option {
	return func(c *config) { c.env = env }
}

// WithInput sets the source of lines for the read built-in.
func WithInput(in Input) Option {
	return func(c *config) { c.in = in }
}

// WithOutput sets the destination of print and println.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}
