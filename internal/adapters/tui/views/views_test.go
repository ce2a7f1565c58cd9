package views

import (
	"context"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/adapters/filesystem"
	"picqer/internal/application"
)

type stubClipboard struct {
	img  image.Image
	text string
}

func (s *stubClipboard) Image(ctx context.Context) (image.Image, error) { return s.img, nil }
func (s *stubClipboard) Text() (string, error)                          { return s.text, nil }

type stubScreen struct{ grabs int }

func (s *stubScreen) Grab(ctx context.Context) (image.Image, error) {
	s.grabs++
	return image.NewRGBA(image.Rect(0, 0, 3, 3)), nil
}

type stubOpener struct{ opened []string }

func (s *stubOpener) OpenFolder(dir string) error {
	s.opened = append(s.opened, dir)
	return nil
}

type stubCopier struct{ copied []string }

func (s *stubCopier) CopyText(text string) error {
	s.copied = append(s.copied, text)
	return nil
}

func newTestSession(t *testing.T) (*application.Session, string) {
	t.Helper()
	dir := t.TempDir()
	s := application.NewSession(filesystem.NewIndexStore(), filesystem.NewImageFiles(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetClock(func() time.Time { return time.Date(2024, 1, 15, 14, 30, 25, 0, time.UTC) })
	if err := s.LoadForDirectory(dir); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	return s, dir
}

func newTestBuilder(t *testing.T) (*BuilderModel, *stubClipboard, string) {
	t.Helper()
	s, dir := newTestSession(t)
	clip := &stubClipboard{}
	m := NewBuilderModel(BuilderDeps{
		Session:   s,
		Clipboard: clip,
		Screen:    &stubScreen{},
		Files:     filesystem.NewImageFiles(),
		Opener:    &stubOpener{},
	})
	return m, clip, dir
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes cmd and feeds its message back, as the runtime would
func runCmd(t *testing.T, m tea.Model, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	return next
}

func TestBuilder_EditPattern(t *testing.T) {
	m, _, _ := newTestBuilder(t)
	s := m.deps.Session

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := s.Template(); got != "{date}{time}{counter}{date}" {
		t.Errorf("unexpected template after add %q", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got := s.Template(); got != "{date}{time}{counter}{date} " {
		t.Errorf("unexpected template after space %q", got)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := s.Template(); got != "{date}{time}{counter}" {
		t.Errorf("unexpected template after undo %q", got)
	}

	m.Update(keyRunes("x"))
	if len(s.Elements()) != 0 {
		t.Errorf("clear left %d elements", len(s.Elements()))
	}
	if !s.Dirty() {
		t.Error("edits should mark the session dirty")
	}

	m.Update(keyRunes("r"))
	if got := s.Template(); got != "{date}{time}{counter}" {
		t.Errorf("unexpected template after reset %q", got)
	}
}

func TestBuilder_Prompts(t *testing.T) {
	m, _, _ := newTestBuilder(t)
	s := m.deps.Session

	_, cmd := m.Update(keyRunes("t"))
	msg, ok := cmd().(OpenPromptMsg)
	if !ok || msg.Purpose != PromptLiteral {
		t.Fatalf("expected literal prompt, got %#v", msg)
	}

	m.HandlePrompt(PromptSubmitMsg{Purpose: PromptLiteral, Value: "_x"})
	if got := s.Template(); got != "{date}{time}{counter}_x" {
		t.Errorf("unexpected template %q", got)
	}

	m.HandlePrompt(PromptSubmitMsg{Purpose: PromptTemplate, Value: "{year"})
	if !m.MessageErr || !strings.Contains(m.Message, "malformed") {
		t.Errorf("expected malformed template error, got %q", m.Message)
	}

	m.HandlePrompt(PromptSubmitMsg{Purpose: PromptTemplate, Value: "shot_{counter}"})
	if got, _ := s.RenderPreview(); got != "shot_1.png" {
		t.Errorf("unexpected preview %q", got)
	}
}

func TestBuilder_PasteSavesOnUpdateLoop(t *testing.T) {
	m, clip, dir := newTestBuilder(t)
	clip.img = image.NewRGBA(image.Rect(0, 0, 2, 2))

	_, cmd := m.Update(keyRunes("p"))
	if !m.Busy() {
		t.Error("expected busy while the clipboard is read")
	}
	runCmd(t, m, cmd)

	if m.Busy() {
		t.Error("busy not cleared")
	}
	if m.MessageErr {
		t.Fatalf("paste failed: %s", m.Message)
	}
	path := filepath.Join(dir, "2024-01-1514-30-251.png")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("image not written: %v", err)
	}
	if c, _ := m.deps.Session.Counter("counter"); c.Value != 2 {
		t.Errorf("expected counter 2, got %d", c.Value)
	}
}

func TestBuilder_PasteWithoutImage(t *testing.T) {
	m, clip, _ := newTestBuilder(t)
	clip.text = "just some words"

	_, cmd := m.Update(keyRunes("p"))
	runCmd(t, m, cmd)

	if !m.MessageErr || !strings.Contains(m.Message, "no image") {
		t.Errorf("expected capture error, got %q", m.Message)
	}
	if len(m.deps.Session.Records()) != 0 {
		t.Error("failed paste recorded an image")
	}
}

func TestBuilder_ScreenshotAfterDelay(t *testing.T) {
	m, _, _ := newTestBuilder(t)
	screen := m.deps.Screen.(*stubScreen)
	m.deps.ScreenDelay = time.Millisecond

	_, cmd := m.Update(keyRunes("s"))
	if screen.grabs != 0 {
		t.Fatal("grabbed before the delay")
	}
	grab := runCmd(t, m, cmd)
	runCmd(t, m, grab)

	if screen.grabs != 1 {
		t.Errorf("expected one grab, got %d", screen.grabs)
	}
	if len(m.deps.Session.Records()) != 1 {
		t.Errorf("expected one record, got %d", len(m.deps.Session.Records()))
	}
}

func TestBuilder_QuitWritesEdits(t *testing.T) {
	m, _, dir := newTestBuilder(t)
	m.Update(keyRunes("x"))

	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}

	doc, err := filesystem.NewIndexStore().Load(dir)
	if err != nil || doc == nil {
		t.Fatalf("index not written on quit: %v", err)
	}
	if doc.NamingPattern != "" {
		t.Errorf("expected empty pattern persisted, got %q", doc.NamingPattern)
	}
}

func TestBuilder_SwitchDirectory(t *testing.T) {
	m, _, first := newTestBuilder(t)
	m.Update(keyRunes("x"))

	second := t.TempDir()
	m.HandlePrompt(PromptSubmitMsg{Purpose: PromptDirectory, Value: second})

	if m.deps.Session.Directory() != second {
		t.Fatalf("expected %q, got %q", second, m.deps.Session.Directory())
	}
	if got := m.deps.Session.Template(); got != "{date}{time}{counter}" {
		t.Errorf("new directory should start from defaults, got %q", got)
	}
	if doc, _ := filesystem.NewIndexStore().Load(first); doc != nil {
		t.Error("unsaved edits of the first directory were written")
	}
	if !strings.Contains(m.Message, "unsaved edits discarded") {
		t.Errorf("expected the status to mention discarded edits, got %q", m.Message)
	}
}

func TestCounters_CreateResetDelete(t *testing.T) {
	s, _ := newTestSession(t)

	form := NewCounterFormModel(s)
	form.form.SetValue(counterFieldName, "page")
	form.form.SetValue(counterFieldStart, "10")
	form.form.SetValue(counterFieldIncrement, "5")
	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("create failed: %s", form.Message)
	}
	if _, ok := cmd().(CounterCreatedMsg); !ok {
		t.Fatal("expected CounterCreatedMsg")
	}

	_, cmd = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !strings.Contains(form.Message, "exists") {
		t.Fatalf("expected overwrite confirmation, got %q", form.Message)
	}
	form.form.SetValue(counterFieldStart, "3")
	_, cmd = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatalf("overwrite failed: %s", form.Message)
	}
	if c, _ := s.Counter("page"); c.Value != 3 {
		t.Errorf("expected replaced counter at 3, got %d", c.Value)
	}

	counters := NewCountersModel(s)
	counters.Init()

	// counters are listed by name: counter, page
	counters.Update(keyRunes("d"))
	if !counters.MessageErr {
		t.Error("deleting the default counter should fail")
	}

	counters.Update(keyRunes("j"))
	counters.Update(keyRunes("d"))
	if !counters.confirm.Active() {
		t.Fatal("expected confirmation prompt")
	}
	counters.Update(keyRunes("y"))
	if s.CounterExists("page") {
		t.Error("counter not deleted")
	}
}

func TestCounterForm_InvalidNumber(t *testing.T) {
	s, _ := newTestSession(t)
	form := NewCounterFormModel(s)
	form.form.SetValue(counterFieldName, "page")
	form.form.SetValue(counterFieldStart, "ten")

	_, cmd := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command on invalid input")
	}
	if !strings.Contains(form.Message, "whole number") {
		t.Errorf("unexpected message %q", form.Message)
	}
}

func TestRecords_ListSearchCopy(t *testing.T) {
	s, dir := newTestSession(t)
	ctx := context.Background()
	for _, tmpl := range []string{"invoice_{counter}", "receipt_{counter}"} {
		if err := s.SetTemplate(tmpl); err != nil {
			t.Fatal(err)
		}
		if _, err := s.CommitSave(ctx, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
			t.Fatalf("CommitSave failed: %v", err)
		}
	}

	copier := &stubCopier{}
	m := NewRecordsModel(s, nil, copier)
	m.Init()

	if r, ok := m.Selected(); !ok || r.Filename != "receipt_2.png" {
		t.Fatalf("expected newest record first, got %+v", r)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if len(copier.copied) != 1 || copier.copied[0] != filepath.Join(dir, "receipt_2.png") {
		t.Errorf("unexpected copied paths %v", copier.copied)
	}

	m.Update(keyRunes("/"))
	for _, r := range "invoice" {
		m.Update(keyRunes(string(r)))
	}
	if r, ok := m.Selected(); !ok || r.Filename != "invoice_1.png" {
		t.Errorf("expected invoice match, got %+v", r)
	}
	if m.paginator.Total() != 1 {
		t.Errorf("expected one match, got %d", m.paginator.Total())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.paginator.Total() != 2 {
		t.Errorf("esc should clear the search, got %d records", m.paginator.Total())
	}
}

func TestPaginator(t *testing.T) {
	p := NewPaginator(2)
	p.SetTotal(5)

	p.CursorDown()
	p.CursorDown()
	if p.CurrentPage() != 2 {
		t.Errorf("expected page 2, got %d", p.CurrentPage())
	}

	p.SetPageSize(10)
	if start, end := p.VisibleRange(); start != 0 || end != 5 {
		t.Errorf("unexpected range %d-%d", start, end)
	}
	if p.Cursor() != 2 {
		t.Errorf("cursor moved on resize: %d", p.Cursor())
	}
}
