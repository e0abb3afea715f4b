package cmd

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	"github.com/ardnew/minilang/lang"
)

// terminal is a line-editing [lang.Prompter] over the controlling
// terminal. The terminal is put into raw mode on the first read only, so
// scripts that never call read leave it untouched.
type terminal struct {
	history string

	once  sync.Once
	state *liner.State
}

func newTerminal(history string) *terminal {
	return &terminal{history: history}
}

func (t *terminal) open() *liner.State {
	t.once.Do(func() {
		t.state = liner.NewLiner()
		t.state.SetCtrlCAborts(true)

		if f, err := os.Open(t.history); err == nil {
			_, _ = t.state.ReadHistory(f)
			_ = f.Close()
		}
	})

	return t.state
}

func (t *terminal) ReadLine() (string, error) { return t.Prompt("") }

// Prompt reads one edited line. Ctrl-C and Ctrl-D both end the input.
func (t *terminal) Prompt(prompt string) (string, error) {
	ln := t.open()

	s, err := ln.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}

	if err == nil && s != "" {
		ln.AppendHistory(s)
	}

	return s, err
}

// Close restores the terminal and saves history, if it was ever opened.
func (t *terminal) Close() error {
	if t.state == nil {
		return nil
	}

	if t.history != "" {
		if f, err := os.Create(t.history); err == nil {
			_, _ = t.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return t.state.Close()
}

// inputFor returns the input port for read. A terminal gets line editing
// unless the script itself is read from it.
func inputFor(in io.Reader, scriptFromStdin bool, history string) (lang.Input, func()) {
	if f, ok := in.(*os.File); ok && !scriptFromStdin && isatty.IsTerminal(f.Fd()) {
		term := newTerminal(history)

		return term, func() { _ = term.Close() }
	}

	return lang.NewLineReader(in), func() {}
}
