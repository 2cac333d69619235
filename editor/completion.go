package editor

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gosh/context"
)

const maxCompletionsShown = 20

// beginCompletion implements the Tab handler from spec.md §4.7: classify
// the current span as argv0 (PathTable candidates) or anything else
// (filesystem entries rooted at the literal's directory prefix, with a
// `cd`-only directory filter), filtered by prefix and deduplicated.
func (m *Model) beginCompletion() {
	line := m.ti.Value()
	cursor := len(line) // textinput doesn't expose cursor byte offset across runes cheaply; complete at end
	ctx := context.Parse(line, cursor)
	literal := ctx.LiteralPrefix(line)

	var candidates []string
	if ctx.InCommandPosition() && !strings.HasPrefix(literal, "/") && !strings.HasPrefix(literal, ".") && !strings.HasPrefix(literal, "~") {
		candidates = m.paths.Names()
	} else {
		onlyDirs := ctx.CurrentWord() == "cd"
		candidates = fileCandidates(literal, m.home(), onlyDirs)
		if candidates == nil {
			m.log.Debugw("completion: no filesystem candidates", "literal", literal)
		}
	}

	prefix := literal
	if idx := strings.LastIndexByte(literal, '/'); idx >= 0 {
		prefix = literal[idx+1:]
	}
	m.completions = filterPrefixDedup(candidates, prefix)
	m.completionIdx = 0
	m.completionMode = len(m.completions) > 0
}

// fileCandidates lists the basenames of dir's entries, where dir is
// literal itself when it ends in '/', and filepath.Dir(literal)
// otherwise. A dir that cannot be read yields no candidates.
func fileCandidates(literal, home string, onlyDirs bool) []string {
	dir := literal
	if !strings.HasSuffix(literal, "/") {
		dir = filepath.Dir(literal)
	}
	if strings.HasPrefix(dir, "~") {
		dir = home + strings.TrimPrefix(dir, "~")
	}
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if onlyDirs && !e.IsDir() {
			continue
		}
		out = append(out, e.Name())
	}
	return out
}

func filterPrefixDedup(candidates []string, prefix string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range candidates {
		if !strings.HasPrefix(c, prefix) || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// updateCompletion handles key events while the completion grid is
// shown: arrow keys navigate, Enter selects, Esc/Backspace/Ctrl-C
// dismiss, per spec.md §4.7.
func (m *Model) updateCompletion(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyLeft:
		if m.completionIdx > 0 {
			m.completionIdx--
		}
		return nil, true
	case tea.KeyRight:
		if m.completionIdx < len(m.completions)-1 {
			m.completionIdx++
		}
		return nil, true
	case tea.KeyUp:
		m.moveCompletion(-completionColumns(m.width))
		return nil, true
	case tea.KeyDown:
		m.moveCompletion(completionColumns(m.width))
		return nil, true
	case tea.KeyEnter:
		m.applyCompletion()
		return nil, true
	case tea.KeyEsc, tea.KeyBackspace, tea.KeyCtrlC:
		m.completionMode = false
		return nil, true
	}
	return nil, false
}

func (m *Model) moveCompletion(delta int) {
	next := m.completionIdx + delta
	if next < 0 || next >= len(m.completions) {
		return
	}
	m.completionIdx = next
}

func (m *Model) applyCompletion() {
	if len(m.completions) == 0 {
		m.completionMode = false
		return
	}
	chosen := m.completions[m.completionIdx]
	line := m.ti.Value()
	ctx := context.Parse(line, len(line))
	literal := ctx.LiteralPrefix(line)
	dirPrefix := ""
	if idx := strings.LastIndexByte(literal, '/'); idx >= 0 {
		dirPrefix = literal[:idx+1]
	}
	start, end := ctx.CurrentLiteral[0], ctx.CurrentLiteral[1]
	m.ti.SetValue(line[:start] + dirPrefix + chosen + line[end:])
	m.ti.CursorEnd()
	m.completionMode = false
}

func completionColumns(width int) int {
	if width <= 0 {
		return 1
	}
	cols := width / 20
	if cols < 1 {
		return 1
	}
	return cols
}

// renderCompletions draws the candidate grid, highlighting the selected
// entry and noting an overflow count if entries exceed what fits, per
// spec.md §4.7.
func (m Model) renderCompletions() string {
	shown := m.completions
	overflow := 0
	if len(shown) > maxCompletionsShown {
		overflow = len(shown) - maxCompletionsShown
		shown = shown[:maxCompletionsShown]
	}

	cols := completionColumns(m.width)
	var rows []string
	var row []string
	for i, c := range shown {
		cell := c
		if i == m.completionIdx {
			cell = lipgloss.NewStyle().Reverse(true).Render(cell)
		}
		row = append(row, cell)
		if len(row) == cols {
			rows = append(rows, strings.Join(row, "  "))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, "  "))
	}
	out := strings.Join(rows, "\n")
	if overflow > 0 {
		out += suggestionStyle.Render(" +" + strconv.Itoa(overflow) + " more")
	}
	return out
}
