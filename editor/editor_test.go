package editor

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	qt "github.com/frankban/quicktest"

	"gosh/ast"
	"gosh/history"
	"gosh/pathtable"
)

func newTestModel(t *testing.T, runLine RunLineFunc) *Model {
	t.Helper()
	dir := t.TempDir()
	hist := history.Open(dir+"/hist", nil)
	paths := pathtable.New()
	m := New(hist, paths, func() string { return dir }, func() string { return dir }, runLine, nil)
	return &m
}

func sendKey(m Model, msg tea.KeyMsg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestEnterRunsLineAndClearsInput(t *testing.T) {
	c := qt.New(t)
	var ran string
	m := newTestModel(t, func(line string) ast.ExitStatus {
		ran = line
		return ast.ExitedWith(0)
	})
	m.ti.SetValue("echo hi")
	next := sendKey(*m, tea.KeyMsg{Type: tea.KeyEnter})
	c.Assert(ran, qt.Equals, "echo hi")
	c.Assert(next.ti.Value(), qt.Equals, "")
}

func TestEmptyLineDoesNotRun(t *testing.T) {
	c := qt.New(t)
	called := false
	m := newTestModel(t, func(line string) ast.ExitStatus {
		called = true
		return ast.ExitedWith(0)
	})
	sendKey(*m, tea.KeyMsg{Type: tea.KeyEnter})
	c.Assert(called, qt.IsFalse)
}

func TestExitBuiltinQuits(t *testing.T) {
	c := qt.New(t)
	m := newTestModel(t, func(line string) ast.ExitStatus {
		return ast.Exit(0)
	})
	m.ti.SetValue("exit")
	next := sendKey(*m, tea.KeyMsg{Type: tea.KeyEnter})
	c.Assert(next.quitting, qt.IsTrue)
}

func TestCtrlCClearsLine(t *testing.T) {
	c := qt.New(t)
	m := newTestModel(t, func(string) ast.ExitStatus { return ast.ExitedWith(0) })
	m.ti.SetValue("partial command")
	next := sendKey(*m, tea.KeyMsg{Type: tea.KeyCtrlC})
	c.Assert(next.ti.Value(), qt.Equals, "")
}

func TestCtrlDOnEmptyLineQuits(t *testing.T) {
	c := qt.New(t)
	m := newTestModel(t, func(string) ast.ExitStatus { return ast.ExitedWith(0) })
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	c.Assert(next.(Model).quitting, qt.IsTrue)
	c.Assert(cmd, qt.Not(qt.IsNil))
}

func TestCtrlDOnNonEmptyLineDeletes(t *testing.T) {
	c := qt.New(t)
	m := newTestModel(t, func(string) ast.ExitStatus { return ast.ExitedWith(0) })
	m.ti.SetValue("abc")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	c.Assert(next.(Model).quitting, qt.IsFalse)
}

func TestHistoryUpRecallsPreviousCommand(t *testing.T) {
	c := qt.New(t)
	m := newTestModel(t, func(string) ast.ExitStatus { return ast.ExitedWith(0) })
	m.hist.Append("echo first-command", m.dir(), time.Now())
	next := sendKey(*m, tea.KeyMsg{Type: tea.KeyUp})
	c.Assert(next.ti.Value(), qt.Equals, "echo first-command")
}
