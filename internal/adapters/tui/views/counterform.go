package views

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/application"
	"picqer/internal/application/commands"
	"picqer/internal/domain"
)

const (
	counterFieldName = iota
	counterFieldStart
	counterFieldIncrement
)

// CounterCreatedMsg is sent after a counter was created
type CounterCreatedMsg struct {
	Message string
}

// CounterFormModel creates a counter. Submitting an existing name asks
// for a second submit that replaces it.
type CounterFormModel struct {
	ViewState
	session          *application.Session
	form             *InputForm
	confirmOverwrite string
}

// NewCounterFormModel creates a new counter form
func NewCounterFormModel(session *application.Session) *CounterFormModel {
	return &CounterFormModel{
		session: session,
		form: NewInputForm(
			NewInputField("Name:", "page", 64),
			NewInputField("Start:", "1", 12),
			NewInputField("Increment:", "1", 12),
		),
	}
}

// Reset clears the form
func (m *CounterFormModel) Reset() {
	m.form.Reset()
	m.confirmOverwrite = ""
	m.ClearMessage()
}

// Init returns the blink command
func (m *CounterFormModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the counter form
func (m *CounterFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, switchTo(SwitchToCountersMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			return m, m.submit()
		}
		if !key.Matches(msg, m.form.Keys.Tab) {
			m.confirmOverwrite = ""
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *CounterFormModel) submit() tea.Cmd {
	name := m.form.Value(counterFieldName)
	start, err := m.form.IntValue(counterFieldStart, 1)
	if err != nil {
		m.SetError(err)
		return nil
	}
	increment, err := m.form.IntValue(counterFieldIncrement, 1)
	if err != nil {
		m.SetError(err)
		return nil
	}

	cmd := commands.NewCreateCounterCommand(m.session, name, start, increment)
	cmd.Overwrite = m.confirmOverwrite != "" && m.confirmOverwrite == name
	result, err := cmd.Execute(context.Background())
	if errors.Is(err, domain.ErrDuplicateName) {
		m.confirmOverwrite = name
		m.SetMessage("Counter "+name+" exists, press enter again to replace it", true)
		return nil
	}
	if err != nil {
		m.SetError(err)
		return nil
	}
	return switchTo(CounterCreatedMsg{Message: result.Message})
}

// View renders the counter form
func (m *CounterFormModel) View() string {
	v := NewViewBuilder()
	v.Title("New Counter")
	for i := range m.form.Fields {
		v.Line(m.form.RenderField(i))
	}
	v.BlankLine()
	v.Message(m.Message, m.MessageErr)
	v.Raw(m.form.RenderHelp("create"))
	return v.String()
}
