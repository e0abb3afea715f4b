package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
)

type (
	editDoneMsg struct {
		prog   *lang.Program
		source string
	}
	editCancelledMsg struct{}
	editDeclinedMsg  struct{}
	editErrorMsg     struct{ err error }
)

const (
	evalPrompt = "➜ "
	ctrlPrompt = " :"
)

func helpMessage() string {
	return strings.TrimSuffix(`
Commands (type after Esc, or prefix with ':' in eval mode):

  help          Print this help
  vars          List bindings
  feed [TEXT]   Queue a line of input for read
  edit          Edit the session source in $EDITOR and re-run it
  clear         Clear screen
  quit          Exit REPL

Usage:
  Type commands to run them; bindings persist between entries
  Press Tab / Shift-Tab to cycle through completions
  Press Esc to toggle between eval and command modes
  Use Up/Down for history, Shift+Up/Shift+Down within the current mode
  Press Ctrl+C on an empty line or Ctrl+D to exit
`, "\n")
}

// inputMode represents the current input mode.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc    func() context.Context
	input      textinput.Model
	session    *session
	history    *History
	historyIdx int

	matches   fuzzy.Matches
	wordStart int
	wordEnd   int
	selected  int
	cycling   bool
	preCycle  string
	preCursor int

	mode     inputMode
	saved    [2]string // input of each mode while the other is active
	width    int
	quitting bool
}

// Run starts an interactive session over scope. History is kept in
// cacheDir, or only in memory if cacheDir is empty.
func Run(
	ctx context.Context,
	scope *lang.Scope,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var history *History
	if cacheDir == "" {
		history = NewHistory("")
	} else {
		history = NewHistory(filepath.Join(cacheDir, baseHistory))
	}

	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	s := newSession(scope, logger)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
		slog.Int("bindings", s.scope.Len()),
	)

	m := newModel(ctx, s, history)

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, s *session, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		input:      ti,
		session:    s,
		history:    history,
		historyIdx: history.Len(),
		selected:   -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(evalPrompt) - 2

		return m, nil

	case editDoneMsg:
		out, err := m.session.replace(m.ctxFunc(), msg.prog, msg.source)

		return m, tea.Sequence(
			tea.Println(resultStyle.Render("session replaced by edited source")),
			m.report(out, err),
		)

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit abandoned; session unchanged"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit failed: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hintLine() + "\n"
}

// hintLine is the line shown beneath the input: history position, usage
// hint, signature of the enclosing built-in call, or completions.
func (m model) hintLine() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type a command, or press Esc for REPL commands")
		}

		return hintStyle.Render("Type: " + strings.Join(ctrlCommands, ", ") + " (Esc to return)")
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		call := detectFunctionCall(input, m.input.Position())
		if sig, params := signature(call.name); call.inCall && sig != "" {
			return renderSignatureHint(call.name, params, call.argIndex)
		}
	}

	return renderCandidateBar(m.matches, m.selected, m.cycling, m.width)
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.cycling = false
		m.historyIdx = m.history.Len()
		m.refresh(false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.cycling && len(m.matches) > 0 {
			m.cycling = false
			m.refresh(true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.cycling {
			m.cycling = false
			m.input.SetValue(m.preCycle)
			m.input.SetCursor(m.preCursor)
			m.refresh(false)

			return m, nil
		}

		return m.switchMode(1 - m.mode), nil
	}

	var cmd tea.Cmd

	typed := msg.Type == tea.KeyRunes
	if typed && m.cycling && msg.String() == " " {
		m.cycling = false
	}

	if !typed {
		m.cycling = false
	}

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refresh(typed)

	return m, cmd
}

// cycle moves the selection through the matches, replacing the word under
// the cursor with each in turn. A single match completes immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)

	switch {
	case n == 0:
		return m

	case n == 1:
		m.replaceWord(m.matches[0].Str)
		m.cycling = false
		m.selected = -1
		m.matches = nil

		return m

	case m.cycling:
		m.selected = (m.selected + step + n) % n

	default:
		m.cycling = true
		m.preCycle = m.input.Value()
		m.preCursor = m.input.Position()
		m.selected = 0

		if step < 0 {
			m.selected = n - 1
		}
	}

	m.replaceWord(m.matches[m.selected].Str)

	return m
}

func (m *model) replaceWord(s string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + s + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(s))
	m.wordEnd = m.wordStart + len(s)
}

// refresh recomputes matches. With confirm set, a word that already equals
// its only match is accepted so the candidate bar disappears.
func (m *model) refresh(confirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.cycling {
		m.selected = -1
	}

	if !confirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
	}
}

// recall steps through history. Within a mode, entries of the other mode
// are skipped; otherwise the mode follows the entry.
func (m model) recall(step int, sameMode bool) model {
	mode := m.mode

	i := m.history.search(m.historyIdx, step, func(e inputMode) bool {
		return !sameMode || e == mode
	})

	if i < 0 {
		if step > 0 && m.historyIdx < m.history.Len() {
			m.historyIdx = m.history.Len()
			m.input.SetValue("")
			m.refresh(false)
		}

		return m
	}

	entry, err := m.history.Entry(i)
	if err != nil {
		return m
	}

	if entry.Mode != m.mode {
		m = m.switchMode(entry.Mode)
	}

	m.historyIdx = i
	m.input.SetValue(entry.Line)
	m.input.SetCursor(len(entry.Line))
	m.refresh(false)

	return m
}

// switchMode saves the current input and restores that of mode.
func (m model) switchMode(mode inputMode) model {
	m.saved[m.mode] = m.input.Value()
	m.mode = mode

	if mode == modeEval {
		m.input.Prompt = promptStyle.Render(evalPrompt)
	} else {
		m.input.Prompt = ctrlPromptStyle.Render(ctrlPrompt)
	}

	m.input.SetValue(m.saved[mode])
	m.input.SetCursor(len(m.saved[mode]))
	m.refresh(false)

	return m
}

func (m model) submit() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	m.saved = [2]string{}
	m.input.SetValue("")
	m.matches = nil

	if line, ok := strings.CutPrefix(input, ":"); ok || m.mode == modeCtrl {
		if !ok {
			line = input
		}

		m.remember(line, modeCtrl)

		return m.command(line)
	}

	m.remember(input, modeEval)

	out, err := m.session.eval(m.ctxFunc(), input)

	return m, tea.Sequence(
		tea.Println(promptStyle.Render(evalPrompt)+inputStyle.Render(input)),
		m.report(out, err),
	)
}

func (m *model) remember(line string, mode inputMode) {
	if err := m.history.Add(line, mode); err != nil {
		m.session.logger.DebugContext(m.ctxFunc(), "history not saved",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
}

// report prints the output of an entry followed by its diagnostic.
func (m model) report(out string, err error) tea.Cmd {
	var cmds []tea.Cmd

	if out = strings.TrimSuffix(out, "\n"); out != "" {
		cmds = append(cmds, tea.Println(resultStyle.Render(out)))
	}

	if err != nil {
		cmds = append(cmds, tea.Println(errorStyle.Render(lang.Diagnostic(err))))
	}

	return tea.Sequence(cmds...)
}

func (m model) command(line string) (model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

	echo := tea.Println(ctrlPromptStyle.Render(ctrlPrompt) + inputStyle.Render(line))

	m.session.logger.TraceContext(m.ctxFunc(), "repl command",
		slog.String("command", name))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "v", "vars":
		vars := strings.TrimSuffix(m.session.vars(), "\n")
		if vars == "" {
			vars = "(no bindings)"
		}

		return m, tea.Sequence(echo, tea.Println(vars))

	case "f", "feed":
		m.session.feed(strings.TrimSpace(arg))

		return m, tea.Sequence(echo, tea.Println(hintStyle.Render(
			fmt.Sprintf("%d line(s) queued for read", m.session.input.Len()))))

	case "c", "clear":
		return m, tea.ClearScreen

	case "e", "edit":
		return m, tea.Sequence(echo, m.edit())

	default:
		return m, tea.Println(
			errorStyle.Render("unknown command: " + name + " (try help)"),
		)
	}
}

func (m model) edit() tea.Cmd {
	cmd := &editCommand{
		ctxFunc: m.ctxFunc,
		logger:  m.session.logger,
		source:  m.session.text(),
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.prog == nil:
			return editCancelledMsg{}
		default:
			return editDoneMsg{prog: cmd.prog, source: cmd.edited}
		}
	})
}
