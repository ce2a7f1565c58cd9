package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// PromptPurpose says what a submitted prompt value is used for
type PromptPurpose int

const (
	PromptLiteral PromptPurpose = iota
	PromptTemplate
	PromptSaveFile
	PromptDirectory
)

type promptSpec struct {
	title       string
	label       string
	placeholder string
	submit      string
}

var promptSpecs = map[PromptPurpose]promptSpec{
	PromptLiteral:   {title: "Add Text", label: "Text:", placeholder: "e.g. _ or invoice-", submit: "add"},
	PromptTemplate:  {title: "Edit Template", label: "Template:", placeholder: "{date}_{counter}", submit: "apply"},
	PromptSaveFile:  {title: "Save Image File", label: "Path:", placeholder: "~/Downloads/image.jpg", submit: "save"},
	PromptDirectory: {title: "Save Directory", label: "Directory:", placeholder: "~/Pictures/Screenshots", submit: "switch"},
}

// OpenPromptMsg asks the app to show a single-line prompt
type OpenPromptMsg struct {
	Purpose PromptPurpose
	Initial string
}

// PromptSubmitMsg carries the submitted prompt value
type PromptSubmitMsg struct {
	Purpose PromptPurpose
	Value   string
}

func openPrompt(purpose PromptPurpose, initial string) tea.Cmd {
	return switchTo(OpenPromptMsg{Purpose: purpose, Initial: initial})
}

// PromptModel is a single-field text prompt
type PromptModel struct {
	ViewState
	purpose PromptPurpose
	form    *InputForm
}

// NewPromptModel creates a new prompt model
func NewPromptModel() *PromptModel {
	return &PromptModel{
		form: NewInputForm(NewInputField("", "", 512)),
	}
}

// Open resets the prompt for purpose with an initial value
func (m *PromptModel) Open(purpose PromptPurpose, initial string) {
	spec := promptSpecs[purpose]
	m.purpose = purpose
	m.form.Reset()
	m.form.Fields[0].Label = spec.label
	m.form.Fields[0].Input.Placeholder = spec.placeholder
	m.form.SetValue(0, initial)
	m.form.Fields[0].Input.CursorEnd()
	m.ClearMessage()
}

// Init returns the blink command
func (m *PromptModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the prompt
func (m *PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.form.Keys.Cancel):
			return m, switchTo(SwitchToBuilderMsg{})
		case key.Matches(msg, m.form.Keys.Submit):
			value := m.rawValue()
			if value == "" {
				m.SetMessage("Value is required", true)
				return m, nil
			}
			return m, switchTo(PromptSubmitMsg{Purpose: m.purpose, Value: value})
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

// rawValue keeps surrounding spaces for text elements, where they matter
func (m *PromptModel) rawValue() string {
	if m.purpose == PromptLiteral || m.purpose == PromptTemplate {
		return m.form.Fields[0].Input.Value()
	}
	return m.form.Value(0)
}

// View renders the prompt
func (m *PromptModel) View() string {
	spec := promptSpecs[m.purpose]
	return NewViewBuilder().
		Title(spec.title).
		Line(m.form.RenderField(0)).
		BlankLine().
		Message(m.Message, m.MessageErr).
		Raw(m.form.RenderHelp(spec.submit)).
		String()
}
