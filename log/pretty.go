package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ansiReset   = "\033[0m"
	ansiGray    = "\033[90m"
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
)

// prettyHandler writes one unquoted key=value line per record, optionally
// colorized.
type prettyHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   slog.HandlerOptions
	attrs  []byte
	prefix string
	color  bool
}

func newPrettyHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	color bool,
) *prettyHandler {
	return &prettyHandler{mu: &sync.Mutex{}, w: w, opts: *opts, color: color}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer

	if !r.Time.IsZero() {
		h.builtin(&buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.builtin(&buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource && r.PC != 0 {
		if src := r.Source(); src != nil {
			h.builtin(&buf, slog.String(slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	h.builtin(&buf, slog.String(slog.MessageKey, r.Message))
	buf.Write(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		h.attr(&buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var buf bytes.Buffer

	buf.Write(h.attrs)

	for _, a := range attrs {
		h.attr(&buf, h.prefix, a)
	}

	c := *h
	c.attrs = buf.Bytes()

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// builtin writes one of the record's own fields through ReplaceAttr.
func (h *prettyHandler) builtin(buf *bytes.Buffer, a slog.Attr) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Key == slog.LevelKey {
		h.separate(buf)
		h.paint(buf, levelColor(a.Value.String()), a.Value.String())

		return
	}

	h.pair(buf, a.Key, a.Value)
}

func (h *prettyHandler) attr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.attr(buf, p, g)
		}

		return
	}

	h.pair(buf, prefix+a.Key, a.Value)
}

func (h *prettyHandler) pair(buf *bytes.Buffer, key string, v slog.Value) {
	h.separate(buf)
	h.paint(buf, ansiGray, key)
	buf.WriteByte('=')

	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		h.paint(buf, ansiYellow, v.String())
	case slog.KindBool:
		h.paint(buf, ansiMagenta, strconv.FormatBool(v.Bool()))
	case slog.KindDuration:
		h.paint(buf, ansiBlue, v.Duration().String())
	case slog.KindTime:
		h.paint(buf, ansiBlue, v.Time().Format(time.RFC3339))
	default:
		if err, ok := v.Any().(error); ok {
			h.paint(buf, ansiRed, err.Error())

			return
		}

		h.paint(buf, ansiCyan, v.String())
	}
}

func (h *prettyHandler) separate(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] != '\n' {
		buf.WriteByte(' ')
	}
}

func (h *prettyHandler) paint(buf *bytes.Buffer, color, s string) {
	if !h.color {
		buf.WriteString(s)

		return
	}

	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(ansiReset)
}

func levelColor(name string) string {
	switch {
	case strings.HasPrefix(name, "ERROR"):
		return ansiRed
	case strings.HasPrefix(name, "WARN"):
		return ansiYellow
	case strings.HasPrefix(name, "INFO"):
		return ansiGreen
	default:
		return ansiGray
	}
}

// indentWriter re-indents each JSON record written by [slog.JSONHandler].
type indentWriter struct {
	w io.Writer
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	var buf bytes.Buffer

	if err := json.Indent(&buf, bytes.TrimRight(p, "\n"), "", "  "); err != nil {
		return iw.w.Write(p)
	}

	buf.WriteByte('\n')

	if _, err := iw.w.Write(buf.Bytes()); err != nil {
		return 0, err
	}

	return len(p), nil
}
