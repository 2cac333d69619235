// Package editor implements spec.md's C10 component: a raw-mode
// interactive line editor built on bubbletea, driving history search,
// path/command completion (via package context) and dispatching
// completed lines to the evaluator.
package editor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"gosh/ast"
	"gosh/history"
	"gosh/pathtable"
)

var promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
var suggestionStyle = lipgloss.NewStyle().Faint(true)

// RunLineFunc evaluates one submitted line and returns its status; it is
// the editor's only path into the executor, mirroring builtin.Context's
// function-value pattern to avoid importing package interp here.
type RunLineFunc func(line string) ast.ExitStatus

// Model is the bubbletea model driving the prompt.
type Model struct {
	ti    textinput.Model
	width int

	dir  func() string
	home func() string

	hist  *history.History
	paths *pathtable.Table

	historyCursor int
	historyStash  string

	completions    []string
	completionIdx  int
	completionMode bool

	runLine RunLineFunc
	log     *zap.SugaredLogger

	quitting bool
}

// New builds a Model ready to run. dir/home read the live shell state at
// render time so the prompt always reflects the current directory.
func New(hist *history.History, paths *pathtable.Table, dir, home func() string, runLine RunLineFunc, log *zap.SugaredLogger) Model {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return Model{
		ti:            ti,
		dir:           dir,
		home:          home,
		hist:          hist,
		paths:         paths,
		historyCursor: -1,
		runLine:       runLine,
		log:           log,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model. Kill keys (Ctrl-C/Ctrl-D) and Enter are
// handled before textinput sees the message, per spec.md §4.7's key
// bindings; everything else falls through to textinput.Update so normal
// editing (insert, backspace, cursor motion) keeps its built-in
// behavior.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.ti.Width = msg.Width - m.promptWidth() - 1
		return m, nil

	case tea.KeyMsg:
		if m.completionMode {
			if cmd, handled := m.updateCompletion(msg); handled {
				return m, cmd
			}
		}
		switch msg.Type {
		case tea.KeyCtrlC:
			m.ti.SetValue("")
			m.resetHistoryCursor()
			return m, tea.Println()
		case tea.KeyCtrlD:
			if m.ti.Value() == "" {
				m.quitting = true
				return m, tea.Quit
			}
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp:
			m.scrollHistory(1)
			return m, nil
		case tea.KeyDown:
			m.scrollHistory(-1)
			return m, nil
		case tea.KeyTab:
			m.beginCompletion()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) resetHistoryCursor() {
	m.historyCursor = -1
	m.historyStash = ""
}

func (m *Model) scrollHistory(delta int) {
	prefix := m.ti.Value()
	if m.historyCursor == -1 {
		m.historyStash = prefix
	}
	matches := m.hist.SearchByCwd(m.historyStash, m.dir())
	if len(matches) == 0 {
		matches = m.hist.SearchPrefix(m.historyStash)
	}
	if len(matches) == 0 {
		return
	}
	next := m.historyCursor + delta
	if next < -1 {
		next = -1
	}
	if next >= len(matches) {
		next = len(matches) - 1
	}
	m.historyCursor = next
	if next == -1 {
		m.ti.SetValue(m.historyStash)
	} else {
		m.ti.SetValue(matches[next])
	}
	m.ti.CursorEnd()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.ti.Value()
	m.ti.SetValue("")
	m.resetHistoryCursor()
	m.completionMode = false
	if strings.TrimSpace(line) == "" {
		return m, tea.Println()
	}
	m.log.Debugw("running line", "line", line)
	status := m.runLine(line)
	m.hist.Append(line, m.dir(), time.Now())
	if status.Kind == ast.KindExit {
		m.quitting = true
		return m, tea.Sequence(tea.Println(), tea.Quit)
	}
	return m, tea.Println()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	prompt := m.renderPrompt()
	line := prompt + m.ti.View()

	var b strings.Builder
	b.WriteString(line)
	if suggestion := m.historySuggestion(); suggestion != "" {
		b.WriteString(suggestionStyle.Render(suggestion))
	}
	if m.completionMode {
		b.WriteString("\n")
		b.WriteString(m.renderCompletions())
	}
	return b.String()
}

func (m Model) promptWidth() int {
	return lipgloss.Width(m.renderPrompt())
}

// renderPrompt abbreviates the current directory against $HOME with a
// leading `~`, per spec.md §4.7's rendering contract.
func (m Model) renderPrompt() string {
	dir := m.dir()
	if home := m.home(); home != "" && strings.HasPrefix(dir, home) {
		dir = "~" + strings.TrimPrefix(dir, home)
	}
	return promptStyle.Render(fmt.Sprintf("%s $ ", dir))
}

func (m Model) historySuggestion() string {
	if m.completionMode {
		return ""
	}
	cur := m.ti.Value()
	if cur == "" {
		return ""
	}
	matches := m.hist.SearchPrefix(cur)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimPrefix(matches[0], cur)
}

// Run drives the program to completion against the real terminal.
func Run(m Model) error {
	p := tea.NewProgram(m)
	_, err := p.Run()
	return err
}
