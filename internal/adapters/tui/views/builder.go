package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"picqer/internal/adapters/tui/styles"
	"picqer/internal/application"
	"picqer/internal/application/commands"
	"picqer/internal/config"
	"picqer/internal/domain"
	"picqer/internal/ports"
)

// BuilderKeyMap defines key bindings for the pattern builder
type BuilderKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Add        key.Binding
	Literal    key.Binding
	Space      key.Binding
	Undo       key.Binding
	Clear      key.Binding
	Reset      key.Binding
	Template   key.Binding
	Paste      key.Binding
	Screenshot key.Binding
	SaveFile   key.Binding
	Directory  key.Binding
	Counters   key.Binding
	Records    key.Binding
	Open       key.Binding
	Write      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var BuilderKeys = BuilderKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Add: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	Literal: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "text"),
	),
	Space: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "space"),
	),
	Undo: key.NewBinding(
		key.WithKeys("backspace", "u"),
		key.WithHelp("⌫/u", "undo"),
	),
	Clear: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Template: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit template"),
	),
	Paste: key.NewBinding(
		key.WithKeys("p", "ctrl+v"),
		key.WithHelp("p", "paste"),
	),
	Screenshot: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "screenshot"),
	),
	SaveFile: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "save file"),
	),
	Directory: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "directory"),
	),
	Counters: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "counters"),
	),
	Records: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "index"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open folder"),
	),
	Write: key.NewBinding(
		key.WithKeys("w", "ctrl+s"),
		key.WithHelp("w", "write"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// BuilderDeps are the collaborators of the builder view
type BuilderDeps struct {
	Session     *application.Session
	Clipboard   ports.Clipboard
	Screen      ports.ScreenGrabber
	Files       ports.ImageFiles
	Opener      ports.FolderOpener
	ScreenDelay time.Duration
}

// paletteEntry is a selectable element: a built-in token or a counter
type paletteEntry struct {
	kind    string
	name    string
	detail  string
	example string
}

// BuilderModel is the main view: token palette, pattern, live preview and
// the capture keys. Edits are kept in memory and written on save, on w and
// on quit.
type BuilderModel struct {
	ViewState
	deps    BuilderDeps
	palette []paletteEntry
	cursor  int

	// busy is set while a capture runs off the update loop
	busy bool

	// quitPending is set when writing on quit failed; the next quit
	// discards the edits
	quitPending bool

	lastSaved string
}

// NewBuilderModel creates a new builder model
func NewBuilderModel(deps BuilderDeps) *BuilderModel {
	m := &BuilderModel{deps: deps}
	m.Refresh()
	return m
}

// Init initializes the builder
func (m *BuilderModel) Init() tea.Cmd {
	if warn := m.deps.Session.LoadWarning(); warn != nil {
		m.SetMessage(fmt.Sprintf("%v; starting from defaults", warn), true)
	}
	return nil
}

// Refresh rebuilds the palette after counters change
func (m *BuilderModel) Refresh() {
	s := m.deps.Session
	now := s.Now()

	palette := make([]paletteEntry, 0, len(domain.BuiltinTokens)+len(s.Counters()))
	for _, t := range domain.BuiltinTokens {
		value, _ := domain.ResolveToken(t.Name, now)
		palette = append(palette, paletteEntry{
			kind:    application.KindToken,
			name:    t.Name,
			detail:  t.Example,
			example: value,
		})
	}
	for _, c := range s.Counters() {
		palette = append(palette, paletteEntry{
			kind:    application.KindCounter,
			name:    c.Name,
			detail:  fmt.Sprintf("step %d", c.Increment),
			example: fmt.Sprintf("%d", c.Value),
		})
	}
	m.palette = palette
	if m.cursor >= len(m.palette) {
		m.cursor = len(m.palette) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Busy reports whether a capture is in flight
func (m *BuilderModel) Busy() bool {
	return m.busy
}

// captureMsg carries an image acquired off the update loop
type captureMsg struct {
	captured *commands.Captured
	err      error
}

// screenshotDueMsg fires when the settle delay has elapsed
type screenshotDueMsg struct{}

// Update handles messages for the builder
func (m *BuilderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case StatusMsg:
		m.Refresh()
		m.SetMessage(msg.Text, msg.Err)
		return m, nil

	case screenshotDueMsg:
		return m, m.grabScreen()

	case captureMsg:
		m.busy = false
		if msg.err != nil {
			m.SetError(msg.err)
			return m, nil
		}
		m.commit(msg.captured)
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BuilderModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if !key.Matches(msg, BuilderKeys.Quit) {
		m.quitPending = false
	}
	m.ClearMessage()

	if m.busy && !key.Matches(msg, BuilderKeys.Quit) {
		m.SetMessage("Capture in progress…", false)
		return nil
	}

	ctx := context.Background()
	s := m.deps.Session

	switch {
	case key.Matches(msg, BuilderKeys.Quit):
		return m.quit()

	case key.Matches(msg, BuilderKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, BuilderKeys.Down):
		if m.cursor < len(m.palette)-1 {
			m.cursor++
		}

	case key.Matches(msg, BuilderKeys.Add):
		if m.cursor < len(m.palette) {
			entry := m.palette[m.cursor]
			m.runPattern(commands.NewAddElementCommand(s, entry.kind, entry.name).Execute(ctx))
		}

	case key.Matches(msg, BuilderKeys.Space):
		m.runPattern(commands.NewAddElementCommand(s, application.KindSpace, "").Execute(ctx))

	case key.Matches(msg, BuilderKeys.Undo):
		m.runPattern(commands.NewUndoElementCommand(s).Execute(ctx))

	case key.Matches(msg, BuilderKeys.Clear):
		m.runPattern(commands.NewClearPatternCommand(s).Execute(ctx))

	case key.Matches(msg, BuilderKeys.Reset):
		m.runPattern(commands.NewResetPatternCommand(s).Execute(ctx))

	case key.Matches(msg, BuilderKeys.Literal):
		return openPrompt(PromptLiteral, "")

	case key.Matches(msg, BuilderKeys.Template):
		return openPrompt(PromptTemplate, s.Template())

	case key.Matches(msg, BuilderKeys.SaveFile):
		return openPrompt(PromptSaveFile, "")

	case key.Matches(msg, BuilderKeys.Directory):
		return openPrompt(PromptDirectory, s.Directory())

	case key.Matches(msg, BuilderKeys.Paste):
		return m.paste()

	case key.Matches(msg, BuilderKeys.Screenshot):
		return m.screenshot()

	case key.Matches(msg, BuilderKeys.Open):
		if err := m.deps.Opener.OpenFolder(s.Directory()); err != nil {
			m.SetError(err)
		}

	case key.Matches(msg, BuilderKeys.Write):
		if err := s.Persist(); err != nil {
			m.SetError(err)
		} else {
			m.SetMessage("Wrote "+s.IndexPath(), false)
		}

	case key.Matches(msg, BuilderKeys.Counters):
		return switchTo(SwitchToCountersMsg{})

	case key.Matches(msg, BuilderKeys.Records):
		return switchTo(SwitchToRecordsMsg{})

	case key.Matches(msg, BuilderKeys.Help):
		return switchTo(SwitchToHelpMsg{})
	}
	return nil
}

// HandlePrompt applies a submitted text prompt
func (m *BuilderModel) HandlePrompt(msg PromptSubmitMsg) tea.Cmd {
	ctx := context.Background()
	s := m.deps.Session

	switch msg.Purpose {
	case PromptLiteral:
		m.runPattern(commands.NewAddElementCommand(s, application.KindLiteral, msg.Value).Execute(ctx))
	case PromptTemplate:
		m.runPattern(commands.NewSetTemplateCommand(s, msg.Value).Execute(ctx))
	case PromptSaveFile:
		return m.saveFile(config.ExpandUser(msg.Value))
	case PromptDirectory:
		m.switchDirectory(config.ExpandUser(msg.Value))
	}
	return nil
}

func (m *BuilderModel) runPattern(result *commands.PatternResult, err error) {
	if err != nil {
		m.SetError(err)
		return
	}
	m.SetMessage(result.Message, false)
}

// switchDirectory loads dir. Unsaved edits of the current directory are
// dropped; w writes them first.
func (m *BuilderModel) switchDirectory(dir string) {
	s := m.deps.Session
	discarded := s.Dirty()
	if err := s.LoadForDirectory(dir); err != nil {
		m.SetError(err)
		return
	}
	m.lastSaved = ""
	m.Refresh()
	if warn := s.LoadWarning(); warn != nil {
		m.SetMessage(fmt.Sprintf("%v; starting from defaults", warn), true)
		return
	}
	msg := fmt.Sprintf("Using %s (%d records)", s.Directory(), len(s.Records()))
	if discarded {
		msg += ", unsaved edits discarded"
	}
	m.SetMessage(msg, false)
}

func (m *BuilderModel) paste() tea.Cmd {
	m.busy = true
	m.SetMessage("Reading clipboard…", false)
	clip, files := m.deps.Clipboard, m.deps.Files
	return func() tea.Msg {
		captured, err := commands.ReadClipboard(context.Background(), clip, files)
		return captureMsg{captured: captured, err: err}
	}
}

func (m *BuilderModel) screenshot() tea.Cmd {
	m.busy = true
	delay := m.deps.ScreenDelay
	if delay <= 0 {
		return m.grabScreen()
	}
	m.SetMessage(fmt.Sprintf("Capturing in %s…", delay), false)
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return screenshotDueMsg{}
	})
}

func (m *BuilderModel) grabScreen() tea.Cmd {
	screen := m.deps.Screen
	return func() tea.Msg {
		captured, err := commands.GrabScreen(context.Background(), screen)
		return captureMsg{captured: captured, err: err}
	}
}

func (m *BuilderModel) saveFile(path string) tea.Cmd {
	files := m.deps.Files
	if !files.Exists(path) {
		m.SetError(fmt.Errorf("%w: %s", application.ErrNotFound, path))
		return nil
	}
	m.busy = true
	m.SetMessage("Reading "+path+"…", false)
	return func() tea.Msg {
		img, err := files.Open(path)
		if err != nil {
			return captureMsg{err: fmt.Errorf("failed to open image %s: %w", path, err)}
		}
		return captureMsg{captured: &commands.Captured{Image: img, Source: commands.SourceFile}}
	}
}

// commit saves on the update loop so the session is never shared with a
// command goroutine
func (m *BuilderModel) commit(captured *commands.Captured) {
	result, err := commands.SaveCaptured(context.Background(), m.deps.Session, captured)
	if err != nil {
		m.SetError(err)
		return
	}
	m.lastSaved = result.Record.Filepath
	m.Refresh()
	m.SetMessage(fmt.Sprintf("%s (%s, from %s)", result.Message, HumanSize(result.Record.Size), result.Source), false)
}

func (m *BuilderModel) quit() tea.Cmd {
	s := m.deps.Session
	if !s.Dirty() || m.quitPending {
		return tea.Quit
	}
	if err := s.Persist(); err != nil {
		m.quitPending = true
		m.SetMessage(fmt.Sprintf("%v (press q again to quit without saving)", err), true)
		return nil
	}
	return tea.Quit
}

// View renders the builder
func (m *BuilderModel) View() string {
	s := m.deps.Session
	v := NewViewBuilder()

	v.Title("picqer")
	v.Line(RenderLabelValue("Directory", s.Directory()))
	v.BlankLine()

	v.Line(styles.InputLabel.Render("Pattern"))
	v.Line(RenderElements(s.Elements()))
	v.Muted(s.Template())
	v.BlankLine()

	v.Line(styles.InputLabel.Render("Next filename"))
	if preview, err := s.RenderPreview(); err != nil {
		v.Line(styles.PreviewInvalid.Render(s.PreviewFilename()))
	} else {
		v.Line(styles.Preview.Render(preview))
	}
	if m.lastSaved != "" {
		v.Muted("Last saved: " + m.lastSaved)
	}
	v.BlankLine()

	v.Line(styles.InputLabel.Render("Tokens and counters"))
	v.Raw(m.renderPalette())
	v.BlankLine()

	v.Message(m.Message, m.MessageErr)
	v.Line(m.renderStatusBar())
	v.Help(BuilderKeys.Add, BuilderKeys.Literal, BuilderKeys.Undo, BuilderKeys.Paste,
		BuilderKeys.Screenshot, BuilderKeys.Counters, BuilderKeys.Records, BuilderKeys.Help, BuilderKeys.Quit)

	return v.String()
}

func (m *BuilderModel) renderPalette() string {
	var b strings.Builder
	for i, e := range m.palette {
		name := "{" + e.name + "}"
		line := fmt.Sprintf("%-14s %-22s %s", name, e.detail, e.example)
		if i == m.cursor {
			b.WriteString(RenderRow(line, true))
		} else if e.kind == application.KindCounter {
			b.WriteString("  " + styles.RowCounter.Render(line))
		} else {
			b.WriteString(RenderRow(line, false))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *BuilderModel) renderStatusBar() string {
	s := m.deps.Session
	var parts []string
	if s.Dirty() {
		parts = append(parts, styles.StatusDirty.Render("unsaved"))
	} else {
		parts = append(parts, styles.StatusKey.Render("saved"))
	}
	parts = append(parts, styles.StatusText.Render(fmt.Sprintf("%d images", len(s.Records()))))
	if m.busy {
		parts = append(parts, styles.StatusText.Render(" capturing…"))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if m.Width > 4 {
		return styles.StatusBar.Width(m.Width - 4).Render(bar)
	}
	return styles.StatusBar.Render(bar)
}
