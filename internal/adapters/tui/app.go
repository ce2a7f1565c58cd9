package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/adapters/tui/views"
	"picqer/internal/application"
	"picqer/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBuilder ViewState = iota
	ViewCounters
	ViewCounterForm
	ViewPrompt
	ViewRecords
	ViewHelp
)

// Deps are the collaborators the TUI needs. Catalog may be nil.
type Deps struct {
	Session   *application.Session
	Files     ports.ImageFiles
	Clipboard ports.Clipboard
	Copier    views.TextCopier
	Screen    ports.ScreenGrabber
	Opener    ports.FolderOpener
	Catalog   ports.RecordCatalog

	ScreenDelay time.Duration
}

// App is the main TUI application model
type App struct {
	state       ViewState
	builder     *views.BuilderModel
	counters    *views.CountersModel
	counterForm *views.CounterFormModel
	prompt      *views.PromptModel
	records     *views.RecordsModel
	help        *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(deps Deps) *App {
	return &App{
		state: ViewBuilder,
		builder: views.NewBuilderModel(views.BuilderDeps{
			Session:     deps.Session,
			Clipboard:   deps.Clipboard,
			Screen:      deps.Screen,
			Files:       deps.Files,
			Opener:      deps.Opener,
			ScreenDelay: deps.ScreenDelay,
		}),
		counters:    views.NewCountersModel(deps.Session),
		counterForm: views.NewCounterFormModel(deps.Session),
		prompt:      views.NewPromptModel(),
		records:     views.NewRecordsModel(deps.Session, deps.Catalog, deps.Copier),
		help:        views.NewHelpModel(),
	}
}

// State returns the active view
func (a *App) State() ViewState {
	return a.state
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.builder.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.builder.SetSize(msg.Width, msg.Height)
		a.counters.SetSize(msg.Width, msg.Height)
		a.counterForm.SetSize(msg.Width, msg.Height)
		a.prompt.SetSize(msg.Width, msg.Height)
		a.records.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	// View switching messages
	case views.SwitchToBuilderMsg:
		a.state = ViewBuilder
		return a, nil

	case views.StatusMsg:
		a.state = ViewBuilder
		_, cmd := a.builder.Update(msg)
		return a, cmd

	case views.SwitchToCountersMsg:
		a.state = ViewCounters
		return a, a.counters.Init()

	case views.OpenCounterFormMsg:
		a.state = ViewCounterForm
		a.counterForm.Reset()
		return a, a.counterForm.Init()

	case views.CounterCreatedMsg:
		a.state = ViewCounters
		a.builder.Refresh()
		cmd := a.counters.Init()
		a.counters.SetMessage(msg.Message, false)
		return a, cmd

	case views.SwitchToRecordsMsg:
		a.state = ViewRecords
		return a, a.records.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.OpenPromptMsg:
		a.state = ViewPrompt
		a.prompt.Open(msg.Purpose, msg.Initial)
		return a, a.prompt.Init()

	case views.PromptSubmitMsg:
		a.state = ViewBuilder
		return a, a.builder.HandlePrompt(msg)
	}

	// Keys go to the active view; everything else reaches the builder too
	// so capture results arrive while another view is open.
	if _, isKey := msg.(tea.KeyMsg); !isKey && a.state != ViewBuilder {
		_, builderCmd := a.builder.Update(msg)
		_, viewCmd := a.updateActive(msg)
		return a, tea.Batch(builderCmd, viewCmd)
	}
	return a.updateActive(msg)
}

func (a *App) updateActive(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.state {
	case ViewBuilder:
		_, cmd = a.builder.Update(msg)
	case ViewCounters:
		_, cmd = a.counters.Update(msg)
	case ViewCounterForm:
		_, cmd = a.counterForm.Update(msg)
	case ViewPrompt:
		_, cmd = a.prompt.Update(msg)
	case ViewRecords:
		_, cmd = a.records.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}
	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCounters:
		return a.counters.View()
	case ViewCounterForm:
		return a.counterForm.View()
	case ViewPrompt:
		return a.prompt.View()
	case ViewRecords:
		return a.records.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.builder.View()
	}
}
