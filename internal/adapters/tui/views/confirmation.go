package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/adapters/tui/styles"
)

// ConfirmKeyMap defines key bindings for confirmation prompts
type ConfirmKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultConfirmKeys returns the default confirmation key bindings
var DefaultConfirmKeys = ConfirmKeyMap{
	Confirm: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "confirm"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "cancel"),
	),
}

// ConfirmationModel is an inline yes/no prompt about a named target
type ConfirmationModel struct {
	Target string
	Action string
	Keys   ConfirmKeyMap
	active bool
}

// NewConfirmationModel creates a new confirmation model with default keys
func NewConfirmationModel() ConfirmationModel {
	return ConfirmationModel{
		Keys: DefaultConfirmKeys,
	}
}

// Ask activates the prompt for action on target
func (m *ConfirmationModel) Ask(action, target string) {
	m.Action = action
	m.Target = target
	m.active = true
}

// Active reports whether the prompt is waiting for an answer
func (m *ConfirmationModel) Active() bool {
	return m.active
}

// HandleKeyMsg processes key messages while the prompt is active.
// Returns (handled, cmd) where handled is true if the key was processed.
// Other keys are swallowed so the view below does not react to them.
func (m *ConfirmationModel) HandleKeyMsg(msg tea.KeyMsg, onConfirm, onCancel func() tea.Cmd) (bool, tea.Cmd) {
	if !m.active {
		return false, nil
	}
	switch {
	case key.Matches(msg, m.Keys.Cancel):
		m.active = false
		return true, onCancel()
	case key.Matches(msg, m.Keys.Confirm):
		m.active = false
		return true, onConfirm()
	}
	return true, nil
}

// View renders the prompt, or nothing when inactive
func (m *ConfirmationModel) View() string {
	if !m.active {
		return ""
	}
	return RenderConfirmPrompt(styles.InputLabel.Render(m.Action) + " " + m.Target + "?")
}

// RenderConfirmPrompt renders the standard confirmation prompt
func RenderConfirmPrompt(question string) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString(" ")
	b.WriteString(styles.HelpKey.Render("y"))
	b.WriteString(styles.HelpDesc.Render(" to confirm, "))
	b.WriteString(styles.HelpKey.Render("n"))
	b.WriteString(styles.HelpDesc.Render(" to cancel"))
	return b.String()
}
