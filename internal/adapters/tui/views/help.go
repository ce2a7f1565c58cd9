package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBuilderMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("picqer Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Save clipboard images and screenshots under a naming pattern"))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Pattern"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move in the token list"))
	b.WriteString(helpLine("Enter", "Add the selected token or counter"))
	b.WriteString(helpLine("t", "Add text"))
	b.WriteString(helpLine("Space", "Add a space"))
	b.WriteString(helpLine("u / Backspace", "Remove the last element"))
	b.WriteString(helpLine("x", "Clear the pattern"))
	b.WriteString(helpLine("r", "Reset to {date}{time}{counter}"))
	b.WriteString(helpLine("e", "Edit the pattern as a template"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Saving"))
	b.WriteString("\n")
	b.WriteString(helpLine("p / Ctrl+V", "Save the clipboard image"))
	b.WriteString(helpLine("s", "Capture the screen"))
	b.WriteString(helpLine("f", "Save an image file"))
	b.WriteString(helpLine("d", "Change the save directory (drops unsaved edits)"))
	b.WriteString(helpLine("o", "Open the save directory"))
	b.WriteString(helpLine("w / Ctrl+S", "Write pattern and counters now"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Views"))
	b.WriteString("\n")
	b.WriteString(helpLine("c", "Counters"))
	b.WriteString(helpLine("i", "Saved images"))
	b.WriteString(helpLine("?", "Toggle help"))
	b.WriteString(helpLine("q / Ctrl+C", "Quit (writes unsaved edits)"))
	b.WriteString("\n")

	b.WriteString(styles.InputLabel.Render("Template syntax"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  {date} {time} {timestamp} {date_short} {time_12h} {year}"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("  {name} uses the counter called name; {{ and }} are literal braces"))
	b.WriteString("\n\n")

	// Close hint
	b.WriteString(styles.HelpDesc.Render("Press "))
	b.WriteString(styles.HelpKey.Render("esc"))
	b.WriteString(styles.HelpDesc.Render(" or "))
	b.WriteString(styles.HelpKey.Render("?"))
	b.WriteString(styles.HelpDesc.Render(" to close"))

	return styles.App.Render(b.String())
}

func helpLine(key, desc string) string {
	return "  " + styles.HelpKey.Render(padRight(key, 20)) + styles.HelpDesc.Render(desc) + "\n"
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
