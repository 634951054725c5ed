// Package tui is the interactive terminal viewer: pick a column, type to
// filter, and read the formatted record under the cursor.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/dataviewer/internal/core"
)

const (
	maxColumnWidth = 24
	tableHeight    = 12
)

// LoadedMsg reports a finished load into the model's session.
type LoadedMsg struct {
	FileName string
}

// ErrMsg carries a load failure.
type ErrMsg struct {
	Err error
}

// LoadFile returns a command that reads path into sess.
func LoadFile(sess *core.Session, path string, limit int64) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return ErrMsg{Err: err}
		}
		defer f.Close()

		if err := sess.LoadReader(f, filepath.Base(path), limit); err != nil {
			return ErrMsg{Err: err}
		}
		return LoadedMsg{FileName: sess.FileName()}
	}
}

// Model is the Bubble Tea model for the viewer.
type Model struct {
	session *core.Session
	load    tea.Cmd

	input  textinput.Model
	grid   table.Model
	column int

	// rows maps grid lines to table positions.
	rows   []int
	status string
	err    error
}

// New creates a model that runs load on start. load may be nil when sess
// already holds a table.
func New(sess *core.Session, load tea.Cmd) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter search term..."
	ti.Prompt = promptStyle.Render("Search for: ")
	ti.Focus()

	m := Model{
		session: sess,
		load:    load,
		input:   ti,
		grid:    table.New(table.WithFocused(true), table.WithHeight(tableHeight), table.WithStyles(gridStyles())),
		status:  "Loading...",
	}
	if sess.State() == core.StateLoaded {
		m.setColumns()
		m.refresh()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.load)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.err = nil
		m.setColumns()
		m.refresh()
		return m, nil

	case ErrMsg:
		m.err = msg.Err
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.cycleColumn(1)
			return m, nil
		case "shift+tab":
			m.cycleColumn(-1)
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.grid, cmd = m.grid.Update(msg)
			return m, cmd
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd
}

// Column returns the column being searched, or "" before a table is loaded.
func (m Model) Column() string {
	t := m.session.Table()
	if t == nil {
		return ""
	}
	return t.Columns[m.column]
}

// Selected returns the table position under the cursor.
func (m Model) Selected() (int, bool) {
	c := m.grid.Cursor()
	if c < 0 || c >= len(m.rows) {
		return 0, false
	}
	return m.rows[c], true
}

// Status returns the search status line.
func (m Model) Status() string {
	return m.status
}

func (m *Model) cycleColumn(step int) {
	t := m.session.Table()
	if t == nil {
		return
	}
	n := len(t.Columns)
	m.column = ((m.column+step)%n + n) % n
	m.refresh()
}

func (m *Model) setColumns() {
	t := m.session.Table()
	m.column = 0
	m.grid.SetRows(nil)

	cols := make([]table.Column, len(t.Columns))
	for i, name := range t.Columns {
		width := lipgloss.Width(name)
		for r := 0; r < t.Len(); r++ {
			width = max(width, lipgloss.Width(t.Row(r)[i].String()))
		}
		cols[i] = table.Column{Title: name, Width: min(width, maxColumnWidth)}
	}
	m.grid.SetColumns(cols)
}

// refresh reruns the search and rebuilds the grid. With no active search
// every row is listed.
func (m *Model) refresh() {
	t := m.session.Table()
	if t == nil {
		return
	}

	res, err := m.session.Search(m.Column(), m.input.Value())
	if err != nil {
		m.err = err
		return
	}
	m.status = core.Status(res)

	m.rows = res.Rows
	if !res.Active {
		m.rows = make([]int, t.Len())
		for i := range m.rows {
			m.rows[i] = i
		}
	}

	lines := make([]table.Row, len(m.rows))
	for i, idx := range m.rows {
		row := t.Row(idx)
		line := make(table.Row, len(row))
		for j, v := range row {
			line[j] = v.String()
		}
		lines[i] = line
	}
	m.grid.SetRows(lines)
	m.grid.SetCursor(0)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Data Viewer"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render(core.FormatUserError(m.err)))
		b.WriteString("\n")
	}

	t := m.session.Table()
	if t == nil {
		if m.err == nil {
			b.WriteString(m.status)
		}
		b.WriteString(helpStyle.Render("\nesc: quit"))
		return b.String()
	}

	fmt.Fprintf(&b, "%s (%d rows)\n", m.session.FileName(), t.Len())
	fmt.Fprintf(&b, "%s%s\n", promptStyle.Render("Search in column: "), columnStyle.Render(m.Column()))
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")

	if len(m.rows) > 0 {
		b.WriteString(gridStyle.Render(m.grid.View()))
		b.WriteString("\n")
		if idx, ok := m.Selected(); ok {
			text, _ := core.FormatRow(t, idx)
			b.WriteString(recordStyle.Render(fmt.Sprintf("Row %d:\n%s", idx+1, text)))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("tab: next column • ↑/↓: select record • esc: quit"))
	return b.String()
}
