package repl

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/minilang/log"
)

func newTestModel(t *testing.T) model {
	t.Helper()

	return newModel(t.Context(), newSession(nil, log.Logger{}), NewHistory(""))
}

func typeText(m model, s string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})

	return m
}

func press(m model, k tea.KeyType) (model, tea.Cmd) {
	return m.handleKey(tea.KeyMsg{Type: k})
}

func TestSubmitEvaluates(t *testing.T) {
	m := newTestModel(t)

	m = typeText(m, "def x = 40 + 2")

	m, cmd := press(m, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("submit returned no command")
	}

	if v, ok := m.session.scope.Lookup("x"); !ok || v.String() != "42" {
		t.Errorf("x = %v, %v", v, ok)
	}

	if m.input.Value() != "" {
		t.Errorf("input not cleared: %q", m.input.Value())
	}

	if e, err := m.history.Entry(0); err != nil || e != (HistoryEntry{"def x = 40 + 2", modeEval}) {
		t.Errorf("history entry = %+v, %v", e, err)
	}
}

func TestSubmitColonCommand(t *testing.T) {
	m := newTestModel(t)

	m = typeText(m, ":feed hello world")
	m, _ = press(m, tea.KeyEnter)

	if m.session.input.Len() != 1 {
		t.Fatalf("queued %d lines, want 1", m.session.input.Len())
	}

	if line, _ := m.session.input.ReadLine(); line != "hello world" {
		t.Errorf("queued %q", line)
	}

	if e, _ := m.history.Entry(0); e.Mode != modeCtrl || e.Line != "feed hello world" {
		t.Errorf("history entry = %+v", e)
	}
}

func TestHelpMessage(t *testing.T) {
	help := helpMessage()

	if strings.HasSuffix(help, "\n") {
		t.Error("help text ends with a newline; tea.Println adds one")
	}

	for _, name := range ctrlCommands {
		if !strings.Contains(help, "  "+name+" ") {
			t.Errorf("help text does not describe %q", name)
		}
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	m = m.switchMode(modeCtrl)
	m = typeText(m, "quit")

	m, _ = press(m, tea.KeyEnter)
	if !m.quitting {
		t.Error("quit command did not quit")
	}

	m = newTestModel(t)

	m, _ = press(m, tea.KeyCtrlD)
	if !m.quitting {
		t.Error("Ctrl-D on empty input did not quit")
	}
}

func TestCtrlCClearsInput(t *testing.T) {
	m := newTestModel(t)
	m = typeText(m, "println(")

	m, _ = press(m, tea.KeyCtrlC)
	if m.quitting || m.input.Value() != "" {
		t.Errorf("quitting=%v input=%q", m.quitting, m.input.Value())
	}
}

func TestModePreservesInput(t *testing.T) {
	m := newTestModel(t)
	m = typeText(m, "def a")

	m, _ = press(m, tea.KeyEsc)
	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("mode=%v input=%q", m.mode, m.input.Value())
	}

	m = typeText(m, "he")

	m, _ = press(m, tea.KeyEsc)
	if m.mode != modeEval || m.input.Value() != "def a" {
		t.Errorf("mode=%v input=%q", m.mode, m.input.Value())
	}

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "he" {
		t.Errorf("ctrl input = %q, want %q", m.input.Value(), "he")
	}
}

func TestTabCompletesMapKey(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.session.eval(t.Context(), `def cfg = [alpha: 1, beta: 2]`); err != nil {
		t.Fatal(err)
	}

	m = typeText(m, "cfg.al")

	m, _ = press(m, tea.KeyTab)
	if got := m.input.Value(); got != "cfg.alpha" {
		t.Errorf("input = %q, want %q", got, "cfg.alpha")
	}
}

func TestTabCyclesAndEscRestores(t *testing.T) {
	m := newTestModel(t)

	if _, err := m.session.eval(t.Context(), `def cfg = [alpha: 1, beta: 2]`); err != nil {
		t.Fatal(err)
	}

	m = typeText(m, "cfg.")

	m, _ = press(m, tea.KeyTab)
	first := m.input.Value()

	m, _ = press(m, tea.KeyTab)
	second := m.input.Value()

	if first == second || !strings.HasPrefix(first, "cfg.") || !strings.HasPrefix(second, "cfg.") {
		t.Errorf("cycled %q then %q", first, second)
	}

	m, _ = press(m, tea.KeyEsc)
	if m.input.Value() != "cfg." || m.mode != modeEval {
		t.Errorf("after Esc input=%q mode=%v", m.input.Value(), m.mode)
	}
}

func TestHistoryRecallSwitchesMode(t *testing.T) {
	m := newTestModel(t)
	_ = m.history.Add("println(1)", modeEval)
	_ = m.history.Add("vars", modeCtrl)
	m.historyIdx = m.history.Len()

	m, _ = press(m, tea.KeyUp)
	if m.mode != modeCtrl || m.input.Value() != "vars" {
		t.Fatalf("up: mode=%v input=%q", m.mode, m.input.Value())
	}

	m, _ = press(m, tea.KeyUp)
	if m.mode != modeEval || m.input.Value() != "println(1)" {
		t.Fatalf("up: mode=%v input=%q", m.mode, m.input.Value())
	}

	m, _ = press(m, tea.KeyShiftDown)
	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("shift-down past eval entries: input=%q idx=%d", m.input.Value(), m.historyIdx)
	}
}

func TestHintLineShowsSignature(t *testing.T) {
	m := newTestModel(t)
	m = typeText(m, "println(size(")

	if hint := m.hintLine(); !strings.Contains(hint, "value") || !strings.Contains(hint, "size") {
		t.Errorf("hint = %q", hint)
	}
}
