package views

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/adapters/tui/styles"
	"picqer/internal/application"
	"picqer/internal/application/commands"
	"picqer/internal/domain"
	"picqer/internal/ports"
)

// RecordsKeyMap defines key bindings for the index view
type RecordsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Filter   key.Binding
	Copy     key.Binding
	Back     key.Binding
}

var RecordsKeys = RecordsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("l", "right", "pgdown"),
		key.WithHelp("l/→", "next page"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("h", "left", "pgup"),
		key.WithHelp("h/←", "prev page"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Copy: key.NewBinding(
		key.WithKeys("enter", "y"),
		key.WithHelp("enter", "copy path"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "back"),
	),
}

// TextCopier writes text to the system clipboard
type TextCopier interface {
	CopyText(text string) error
}

// RecordsModel lists saved images newest first. Searching goes through the
// record catalog when one is attached, covering every save directory.
type RecordsModel struct {
	ViewState
	session   *application.Session
	catalog   ports.RecordCatalog
	copier    TextCopier
	input     textinput.Model
	filtering bool
	records   []domain.Record
	paginator *Paginator
}

// NewRecordsModel creates a new index view model. catalog may be nil.
func NewRecordsModel(session *application.Session, catalog ports.RecordCatalog, copier TextCopier) *RecordsModel {
	input := textinput.New()
	input.Placeholder = "Search filenames..."
	input.CharLimit = 128

	return &RecordsModel{
		session:   session,
		catalog:   catalog,
		copier:    copier,
		input:     input,
		paginator: NewPaginator(10),
	}
}

// SetSize updates the view dimensions and the page size
func (m *RecordsModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	m.paginator.SetPageSize(max(height-12, 3))
}

// Reload lists the current directory, clearing any search
func (m *RecordsModel) Reload() {
	m.filtering = false
	m.input.SetValue("")
	m.input.Blur()
	m.ClearMessage()

	records := m.session.Records()
	slices.Reverse(records)
	m.setRecords(records)
}

func (m *RecordsModel) setRecords(records []domain.Record) {
	m.records = records
	m.paginator.SetCursor(0)
	m.paginator.SetTotal(len(records))
	m.paginator.SetCursor(0)
}

// Init initializes the view
func (m *RecordsModel) Init() tea.Cmd {
	m.Reload()
	return nil
}

func (m *RecordsModel) search() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		records := m.session.Records()
		slices.Reverse(records)
		m.setRecords(records)
		return
	}

	results, err := commands.NewSearchRecordsCommand(m.session, m.catalog, query, commands.DefaultSearchLimit).Execute(context.Background())
	if err != nil {
		m.SetError(err)
		return
	}
	records := make([]domain.Record, len(results))
	for i, r := range results {
		records[i] = r.Record
	}
	m.setRecords(records)
}

// Update handles messages for the index view
func (m *RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.filtering {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.filtering {
		switch keyMsg.String() {
		case "esc":
			m.Reload()
			return m, nil
		case "enter", "down", "up":
			m.filtering = false
			m.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.ClearMessage()
		m.search()
		return m, cmd
	}

	m.ClearMessage()
	switch {
	case key.Matches(keyMsg, RecordsKeys.Back):
		if m.input.Value() != "" {
			m.Reload()
			return m, nil
		}
		return m, switchTo(SwitchToBuilderMsg{})

	case key.Matches(keyMsg, RecordsKeys.Up):
		m.paginator.CursorUp()

	case key.Matches(keyMsg, RecordsKeys.Down):
		m.paginator.CursorDown()

	case key.Matches(keyMsg, RecordsKeys.NextPage):
		m.paginator.NextPage()

	case key.Matches(keyMsg, RecordsKeys.PrevPage):
		m.paginator.PrevPage()

	case key.Matches(keyMsg, RecordsKeys.Filter):
		m.filtering = true
		return m, m.input.Focus()

	case key.Matches(keyMsg, RecordsKeys.Copy):
		if r, ok := m.Selected(); ok {
			if err := m.copier.CopyText(r.Filepath); err != nil {
				m.SetError(fmt.Errorf("failed to copy path: %w", err))
			} else {
				m.SetMessage("Copied "+r.Filepath, false)
			}
		}
	}
	return m, nil
}

// Selected returns the record under the cursor
func (m *RecordsModel) Selected() (domain.Record, bool) {
	i := m.paginator.Cursor()
	if i < 0 || i >= len(m.records) {
		return domain.Record{}, false
	}
	return m.records[i], true
}

// View renders the index view
func (m *RecordsModel) View() string {
	v := NewViewBuilder()
	v.Title("Saved Images")
	scope := m.session.Directory()
	if m.catalog != nil && m.input.Value() != "" {
		scope = "all directories"
	}
	v.Subtitle(scope)

	if m.filtering || m.input.Value() != "" {
		v.Line(styles.InputFocused.Render(m.input.View()))
		v.BlankLine()
	}

	if len(m.records) == 0 {
		if m.input.Value() != "" {
			v.Muted("No matches")
		} else {
			v.Muted("No images saved yet")
		}
	}

	start, end := m.paginator.VisibleRange()
	var b strings.Builder
	for i := start; i < end; i++ {
		r := m.records[i]
		name := r.Filename
		if filepath.Dir(r.Filepath) != m.session.Directory() {
			name = r.Filepath
		}
		line := fmt.Sprintf("%s  %8s  %s", r.Created.Local().Format("2006-01-02 15:04:05"), HumanSize(r.Size), name)
		b.WriteString(RenderRow(line, i == m.paginator.Cursor()))
		b.WriteString("\n")
	}
	v.Raw(b.String())
	v.Muted(fmt.Sprintf("page %d/%d, %d images", m.paginator.CurrentPage(), m.paginator.TotalPages(), m.paginator.Total()))
	v.BlankLine()

	v.Message(m.Message, m.MessageErr)
	v.Help(RecordsKeys.Filter, RecordsKeys.Copy, RecordsKeys.NextPage, RecordsKeys.PrevPage, RecordsKeys.Back)
	return v.String()
}
