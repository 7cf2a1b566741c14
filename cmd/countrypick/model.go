package main

import (
	"fmt"
	"strings"

	"demonlist/internal/country"
	"demonlist/internal/page"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldID = "country"

	inputRow = 1
	listRow  = 2
	visible  = 10
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

type model struct {
	doc   *page.Document
	field *page.Element
	sel   *country.Selector

	input  textinput.Model
	cursor int
	offset int
}

func newModel(initial string) *model {
	field := page.NewElement(fieldID)
	field.SetValue(initial)
	doc := page.NewDocument()
	doc.Add(field)

	sel, _ := country.Attach(doc, fieldID)

	in := textinput.New()
	in.Placeholder = "Search country..."
	in.SetValue(sel.Display())
	in.Focus()

	return &model{doc: doc, field: field, sel: sel, input: in}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.sel.Teardown()
			return m, tea.Quit
		case tea.KeyEsc:
			if !m.sel.IsOpen() {
				m.sel.Teardown()
				return m, tea.Quit
			}
			m.sel.Dismiss()
			return m, nil
		case tea.KeyEnter:
			if !m.sel.IsOpen() {
				m.sel.Teardown()
				return m, tea.Quit
			}
			m.choose(m.cursor)
			return m, nil
		case tea.KeyUp:
			m.move(-1)
			return m, nil
		case tea.KeyDown:
			if !m.sel.IsOpen() {
				m.sel.Open()
				m.cursor, m.offset = 0, 0
				return m, nil
			}
			m.move(1)
			return m, nil
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.click(msg.Y)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.sel.Filter(after)
		m.cursor, m.offset = 0, 0
	}
	return m, cmd
}

// click maps a press on screen row y to the widget: the search box opens the
// overlay, a list row picks its country and anything else dismisses.
func (m *model) click(y int) {
	if y == inputRow {
		m.sel.PointerDown(true)
		m.sel.Open()
		return
	}
	rows := m.sel.Rendered()
	if i := m.offset + y - listRow; y >= listRow && y < listRow+visible && i < len(rows) {
		m.choose(i)
		return
	}
	m.sel.PointerDown(false)
}

func (m *model) choose(i int) {
	rows := m.sel.Rendered()
	if i < 0 || i >= len(rows) {
		return
	}
	m.sel.Select(rows[i])
	m.input.SetValue(m.sel.Display())
	m.input.CursorEnd()
}

func (m *model) move(delta int) {
	n := len(m.sel.Rendered())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Country"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	rows := m.sel.Rendered()
	end := min(m.offset+visible, len(rows))
	for i := m.offset; i < end; i++ {
		line := "  " + rows[i].Label()
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if code := m.field.Value(); code != "" {
		fmt.Fprintf(&b, "\nSelected: %s\n", code)
	}
	b.WriteString(hintStyle.Render("type to search • ↑/↓ move • enter choose • esc close"))
	b.WriteString("\n")
	return b.String()
}
