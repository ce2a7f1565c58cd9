package tui

import (
	"context"
	"image"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/adapters/filesystem"
	"picqer/internal/adapters/tui/views"
	"picqer/internal/application"
)

type nopClipboard struct{}

func (nopClipboard) Image(ctx context.Context) (image.Image, error) { return nil, nil }
func (nopClipboard) Text() (string, error)                          { return "", nil }
func (nopClipboard) CopyText(text string) error                     { return nil }

type nopScreen struct{}

func (nopScreen) Grab(ctx context.Context) (image.Image, error) { return nil, nil }

type nopOpener struct{}

func (nopOpener) OpenFolder(dir string) error { return nil }

func newTestApp(t *testing.T) (*App, *application.Session) {
	t.Helper()
	files := filesystem.NewImageFiles()
	s := application.NewSession(filesystem.NewIndexStore(), files, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetClock(func() time.Time { return time.Date(2024, 1, 15, 14, 30, 25, 0, time.UTC) })
	if err := s.LoadForDirectory(t.TempDir()); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	app := NewApp(Deps{
		Session:   s,
		Files:     files,
		Clipboard: nopClipboard{},
		Copier:    nopClipboard{},
		Screen:    nopScreen{},
		Opener:    nopOpener{},
	})
	app.Init()
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, s
}

// send delivers msg and follows the navigation messages its commands
// produce. Cursor blink messages end the chain.
func send(app *App, msg tea.Msg) {
	_, cmd := app.Update(msg)
	for cmd != nil {
		next := cmd()
		if !isNavigation(next) {
			return
		}
		_, cmd = app.Update(next)
	}
}

func isNavigation(msg tea.Msg) bool {
	switch msg.(type) {
	case views.SwitchToBuilderMsg, views.SwitchToCountersMsg, views.SwitchToRecordsMsg,
		views.SwitchToHelpMsg, views.OpenCounterFormMsg, views.StatusMsg,
		views.OpenPromptMsg, views.PromptSubmitMsg, views.CounterCreatedMsg:
		return true
	}
	return false
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_Navigation(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name string
		msg  tea.Msg
		want ViewState
	}{
		{name: "open counters", msg: runes("c"), want: ViewCounters},
		{name: "new counter form", msg: runes("n"), want: ViewCounterForm},
		{name: "cancel form", msg: tea.KeyMsg{Type: tea.KeyEsc}, want: ViewCounters},
		{name: "back to builder", msg: tea.KeyMsg{Type: tea.KeyEsc}, want: ViewBuilder},
		{name: "open index", msg: runes("i"), want: ViewRecords},
		{name: "close index", msg: tea.KeyMsg{Type: tea.KeyEsc}, want: ViewBuilder},
		{name: "open help", msg: runes("?"), want: ViewHelp},
		{name: "close help", msg: runes("?"), want: ViewBuilder},
	}

	for _, tt := range tests {
		send(app, tt.msg)
		if app.State() != tt.want {
			t.Fatalf("%s: expected state %d, got %d", tt.name, tt.want, app.State())
		}
	}
}

func TestApp_LiteralPrompt(t *testing.T) {
	app, s := newTestApp(t)

	send(app, runes("t"))
	if app.State() != ViewPrompt {
		t.Fatalf("expected prompt, got %d", app.State())
	}
	send(app, runes("-v2"))
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	if app.State() != ViewBuilder {
		t.Fatalf("expected builder after submit, got %d", app.State())
	}
	if got := s.Template(); got != "{date}{time}{counter}-v2" {
		t.Errorf("unexpected template %q", got)
	}
	if app.View() == "" {
		t.Error("empty view")
	}
}
