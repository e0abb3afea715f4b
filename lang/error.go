package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values). Errors derived from these with
// [Error.At], [Error.Detail], [Error.Wrap] or [Error.With] still match them
// under [errors.Is].
var (
	// Syntactic.
	ErrInvalidLexeme    = NewError("invalid lexeme")
	ErrUnexpectedEOF    = NewError("unexpected end of input")
	ErrUnexpectedLexeme = NewError("unexpected lexeme")
	ErrNotAssignable    = NewError("expression is not assignable")
	ErrMaxDepthExceeded = NewError("maximum nesting depth exceeded")

	// Semantic.
	ErrInvalidOperand = NewError("invalid operand")
	ErrDivisionByZero = NewError("division by zero")
	ErrNotIndexable   = NewError("value is not indexable")
	ErrInvalidIndex   = NewError("invalid index")
	ErrIndexRange     = NewError("index out of range")
	ErrMissingKey     = NewError("missing key")
	ErrNotArray       = NewError("value is not an array")
	ErrInvalidCast    = NewError("invalid cast")

	// Runtime input and output.
	ErrInvalidInteger = NewError("invalid integer")
	ErrInputExhausted = NewError("input exhausted")
	ErrReadInput      = NewError("failed to read input")
	ErrWriteOutput    = NewError("failed to write output")

	// Host.
	ErrDefine = NewError("invalid definition")
)

// Error is a diagnostic raised while parsing or executing a program.
// It implements both error and slog.LogValuer.
type Error struct {
	kind   *Error
	msg    string
	detail string
	err    error
	attrs  []slog.Attr
	line   int
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError returns err as an *Error, wrapping it if it is not one already.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

func (e *Error) derive() *Error {
	c := *e
	if c.kind == nil {
		c.kind = e
	}

	c.attrs = append([]slog.Attr(nil), e.attrs...)

	return &c
}

// At returns a copy of e located at the given source line.
func (e *Error) At(line int) *Error {
	c := e.derive()
	c.line = line

	return c
}

// Detail returns a copy of e whose message is followed by detail.
func (e *Error) Detail(format string, args ...any) *Error {
	c := e.derive()
	c.detail = fmt.Sprintf(format, args...)

	return c
}

// Wrap returns a copy of e with err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With returns a copy of e carrying additional log attributes.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// Line returns the source line, or 0 if the error has no location.
func (e *Error) Line() int { return e.line }

// Error formats e as "message detail: cause".
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if head := strings.TrimSpace(e.msg + " " + e.detail); head != "" {
		part = append(part, head)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Diagnostic formats e the way the command-line driver reports it: the
// two-digit line number, a colon, and the message.
func (e *Error) Diagnostic() string {
	return fmt.Sprintf("%02d: %s", e.line, e.Error())
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t == e || (e.kind != nil && t == e.kind)
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if head := strings.TrimSpace(e.msg + " " + e.detail); head != "" {
		attrs = append(attrs, slog.String("error", head))
	}

	if e.line > 0 {
		attrs = append(attrs, slog.Int("line", e.line))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// abort carries a fatal diagnostic from the point of detection to the
// nearest recover at the API boundary.
type abort struct{ err *Error }

// raise aborts parsing or execution with err located at line.
func raise(line int, err error) {
	e := WrapError(err)
	if e.line == 0 {
		e = e.At(line)
	}

	panic(abort{err: e})
}

// recoverAbort converts an abort panic into *errp. Other panics propagate.
func recoverAbort(errp *error) {
	r := recover()
	if r == nil {
		return
	}

	a, ok := r.(abort)
	if !ok {
		panic(r)
	}

	*errp = a.err
}

// Diagnostic renders err for the command-line driver. Errors without a line
// are rendered with line 0.
func Diagnostic(err error) string {
	return WrapError(err).Diagnostic()
}
