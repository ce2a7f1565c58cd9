package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/application"
	"picqer/internal/application/commands"
	"picqer/internal/domain"
)

// CountersKeyMap defines key bindings for the counters view
type CountersKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	New    key.Binding
	Reset  key.Binding
	Delete key.Binding
	Back   key.Binding
}

var CountersKeys = CountersKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// CountersModel lists counters and resets or deletes them
type CountersModel struct {
	ViewState
	session   *application.Session
	counters  []domain.Counter
	paginator *Paginator
	confirm   ConfirmationModel
}

// NewCountersModel creates a new counters model
func NewCountersModel(session *application.Session) *CountersModel {
	return &CountersModel{
		session:   session,
		paginator: NewPaginator(10),
		confirm:   NewConfirmationModel(),
	}
}

// Reload refreshes the list from the session
func (m *CountersModel) Reload() {
	m.counters = m.session.Counters()
	m.paginator.SetTotal(len(m.counters))
}

// SetSize updates the view dimensions and the page size
func (m *CountersModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(max(height-12, 3))
}

// Init initializes the view
func (m *CountersModel) Init() tea.Cmd {
	m.Reload()
	return nil
}

func (m *CountersModel) selected() (domain.Counter, bool) {
	i := m.paginator.Cursor()
	if i < 0 || i >= len(m.counters) {
		return domain.Counter{}, false
	}
	return m.counters[i], true
}

// Update handles messages for the counters view
func (m *CountersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if handled, cmd := m.confirm.HandleKeyMsg(keyMsg, m.deleteSelected, func() tea.Cmd { return nil }); handled {
		return m, cmd
	}

	m.ClearMessage()
	switch {
	case key.Matches(keyMsg, CountersKeys.Back):
		return m, switchTo(StatusMsg{})

	case key.Matches(keyMsg, CountersKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(keyMsg, CountersKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(keyMsg, CountersKeys.New):
		return m, switchTo(OpenCounterFormMsg{})

	case key.Matches(keyMsg, CountersKeys.Reset):
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		result, err := commands.NewResetCounterCommand(m.session, c.Name).Execute(context.Background())
		if err != nil {
			m.SetError(err)
			return m, nil
		}
		m.Reload()
		m.SetMessage(result.Message, false)

	case key.Matches(keyMsg, CountersKeys.Delete):
		c, ok := m.selected()
		if !ok {
			return m, nil
		}
		if c.Name == domain.DefaultCounterName {
			m.SetError(&domain.ProtectedCounterError{Name: c.Name})
			return m, nil
		}
		m.confirm.Ask("Delete counter", c.Name)
	}
	return m, nil
}

func (m *CountersModel) deleteSelected() tea.Cmd {
	c, ok := m.selected()
	if !ok {
		return nil
	}
	result, err := commands.NewDeleteCounterCommand(m.session, c.Name).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return nil
	}
	m.paginator.RemoveAtCursor()
	m.Reload()
	m.SetMessage(result.Message, result.StillReferenced)
	return nil
}

// View renders the counters view
func (m *CountersModel) View() string {
	v := NewViewBuilder()
	v.Title("Counters")
	v.Subtitle("Use a counter in the pattern as {name}. It advances after each save.")

	referenced := make(map[string]bool)
	for _, name := range m.session.ReferencedCounters() {
		referenced[name] = true
	}

	start, end := m.paginator.VisibleRange()
	var b strings.Builder
	for i := start; i < end; i++ {
		c := m.counters[i]
		used := ""
		if referenced[c.Name] {
			used = "in pattern"
		}
		line := fmt.Sprintf("%-16s value %-6d step %-4d start %-6d %s", c.Name, c.Value, c.Increment, c.ResetValue(), used)
		b.WriteString(RenderRow(line, i == m.paginator.Cursor()))
		b.WriteString("\n")
	}
	v.Raw(b.String())
	if m.paginator.TotalPages() > 1 {
		v.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
	}
	v.BlankLine()

	if m.confirm.Active() {
		v.Line(m.confirm.View())
		v.BlankLine()
	}
	v.Message(m.Message, m.MessageErr)
	v.Help(CountersKeys.New, CountersKeys.Reset, CountersKeys.Delete, CountersKeys.Back)
	return v.String()
}
