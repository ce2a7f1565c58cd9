package application

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"picqer/internal/domain"
)

var testNow = time.Date(2024, 1, 15, 14, 30, 25, 0, time.UTC)

func buildOne(e domain.Element) string {
	return domain.BuildTemplate([]domain.Element{e})
}

// fakeStore keeps documents in memory, round-tripping them through JSON
type fakeStore struct {
	docs    map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]byte)}
}

func (f *fakeStore) Load(dir string) (*domain.Document, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	data, ok := f.docs[dir]
	if !ok {
		return nil, nil
	}
	return domain.MigrateDocument(data)
}

func (f *fakeStore) Save(dir string, doc *domain.Document) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	f.docs[dir] = data
	f.saves++
	return nil
}

func (f *fakeStore) Path(dir string) string {
	return filepath.Join(dir, domain.IndexFileName)
}

// fakeFiles records written images by path
type fakeFiles struct {
	written map[string]int64
	opened  map[string]image.Image
	saveErr error
	removed []string
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{written: make(map[string]int64), opened: make(map[string]image.Image)}
}

func (f *fakeFiles) Exists(path string) bool {
	if _, ok := f.written[path]; ok {
		return true
	}
	_, ok := f.opened[path]
	return ok
}

func (f *fakeFiles) Open(path string) (image.Image, error) {
	img, ok := f.opened[path]
	if !ok {
		return nil, errors.New("not an image")
	}
	return img, nil
}

func (f *fakeFiles) SavePNG(img image.Image, path string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.written[path] = int64(img.Bounds().Dx() * img.Bounds().Dy())
	return nil
}

func (f *fakeFiles) Size(path string) (int64, error) {
	size, ok := f.written[path]
	if !ok {
		return 0, errors.New("missing")
	}
	return size, nil
}

func (f *fakeFiles) Remove(path string) error {
	delete(f.written, path)
	f.removed = append(f.removed, path)
	return nil
}

// fakeCatalog counts mirrored records
type fakeCatalog struct {
	synced map[string]int
	added  []domain.Record
	addErr error
}

func (c *fakeCatalog) Open(string) error { return nil }
func (c *fakeCatalog) Close() error      { return nil }

func (c *fakeCatalog) SyncDirectory(dir string, records []domain.Record) error {
	if c.synced == nil {
		c.synced = make(map[string]int)
	}
	c.synced[dir] = len(records)
	return nil
}

func (c *fakeCatalog) Add(dir string, record domain.Record) error {
	if c.addErr != nil {
		return c.addErr
	}
	c.added = append(c.added, record)
	return nil
}

func (c *fakeCatalog) Search(string, int) ([]domain.Record, error) {
	return c.added, nil
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 4, 3))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T) (*Session, *fakeStore, *fakeFiles) {
	t.Helper()
	store := newFakeStore()
	files := newFakeFiles()
	s := NewSession(store, files, discardLogger())
	s.SetClock(func() time.Time { return testNow })
	if err := s.LoadForDirectory("/shots"); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	return s, store, files
}

func TestSession_DefaultsWithoutDocument(t *testing.T) {
	s, _, _ := newTestSession(t)

	if s.Template() != "{date}{time}{counter}" {
		t.Errorf("unexpected default template %q", s.Template())
	}
	counters := s.Counters()
	if len(counters) != 1 || counters[0].Name != domain.DefaultCounterName || counters[0].Value != 1 {
		t.Errorf("unexpected default counters %+v", counters)
	}
	if len(s.Records()) != 0 {
		t.Errorf("expected no records, got %d", len(s.Records()))
	}
	if s.LoadWarning() != nil {
		t.Errorf("unexpected load warning: %v", s.LoadWarning())
	}
}

func TestSession_CommitSave(t *testing.T) {
	s, store, files := newTestSession(t)
	s.ClearPattern()
	for _, e := range []domain.Element{domain.Token("date"), domain.Literal("_"), domain.Token("time"), domain.Literal("_"), domain.Token("counter")} {
		s.AppendElement(e)
	}

	record, err := s.CommitSave(context.Background(), testImage())
	if err != nil {
		t.Fatalf("CommitSave failed: %v", err)
	}

	if record.Filename != "2024-01-15_14-30-25_1.png" {
		t.Errorf("unexpected filename %q", record.Filename)
	}
	if record.Filepath != filepath.Join("/shots", record.Filename) {
		t.Errorf("unexpected filepath %q", record.Filepath)
	}
	if record.Size != 12 {
		t.Errorf("expected size 12, got %d", record.Size)
	}
	if _, ok := files.written[record.Filepath]; !ok {
		t.Error("image not written")
	}
	if c, _ := s.Counter(domain.DefaultCounterName); c.Value != 2 {
		t.Errorf("expected counter 2, got %d", c.Value)
	}
	if store.saves != 1 {
		t.Errorf("expected one persisted write, got %d", store.saves)
	}
	if s.Dirty() {
		t.Error("session dirty after commit")
	}
}

func TestSession_PreviewDoesNotMutate(t *testing.T) {
	s, store, _ := newTestSession(t)

	for i := 0; i < 3; i++ {
		if got := s.PreviewFilename(); got != "2024-01-1514-30-251.png" {
			t.Errorf("unexpected preview %q", got)
		}
	}
	if c, _ := s.Counter(domain.DefaultCounterName); c.Value != 1 {
		t.Errorf("preview advanced counter to %d", c.Value)
	}
	if store.saves != 0 {
		t.Errorf("preview persisted %d times", store.saves)
	}
}

func TestSession_PreviewUnresolved(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.AppendElement(domain.Token("missing"))

	if _, err := s.RenderPreview(); !errors.Is(err, domain.ErrUnresolvedToken) {
		t.Errorf("expected ErrUnresolvedToken, got %v", err)
	}
	if got := s.PreviewFilename(); got == "" || got[:15] != "invalid pattern" {
		t.Errorf("expected diagnostic, got %q", got)
	}
}

func TestSession_CommitUnresolvedWritesNothing(t *testing.T) {
	s, store, files := newTestSession(t)
	s.AppendElement(domain.Token("missing"))

	_, err := s.CommitSave(context.Background(), testImage())
	if !errors.Is(err, domain.ErrUnresolvedToken) {
		t.Fatalf("expected ErrUnresolvedToken, got %v", err)
	}
	if len(files.written) != 0 || store.saves != 0 {
		t.Errorf("failed commit wrote files=%d saves=%d", len(files.written), store.saves)
	}
	if c, _ := s.Counter(domain.DefaultCounterName); c.Value != 1 {
		t.Errorf("failed commit advanced counter to %d", c.Value)
	}
}

func TestSession_CommitPersistFailureRollsBack(t *testing.T) {
	s, store, files := newTestSession(t)
	store.saveErr = errors.New("disk full")

	_, err := s.CommitSave(context.Background(), testImage())

	var writeErr *PersistenceWriteError
	if !errors.As(err, &writeErr) {
		t.Fatalf("expected PersistenceWriteError, got %v", err)
	}
	if len(files.written) != 0 || len(files.removed) != 1 {
		t.Errorf("expected written image to be removed, written=%v removed=%v", files.written, files.removed)
	}
	if c, _ := s.Counter(domain.DefaultCounterName); c.Value != 1 {
		t.Errorf("counter advanced despite failed persist: %d", c.Value)
	}
	if len(s.Records()) != 0 {
		t.Errorf("record appended despite failed persist")
	}
}

func TestSession_CommitImageFailure(t *testing.T) {
	s, store, files := newTestSession(t)
	files.saveErr = errors.New("permission denied")

	if _, err := s.CommitSave(context.Background(), testImage()); err == nil {
		t.Fatal("expected error")
	}
	if store.saves != 0 {
		t.Errorf("index persisted after image failure")
	}
	if c, _ := s.Counter(domain.DefaultCounterName); c.Value != 1 {
		t.Errorf("counter advanced after image failure: %d", c.Value)
	}
}

func TestSession_CommitCollision(t *testing.T) {
	s, _, files := newTestSession(t)
	s.ClearPattern()
	s.AppendElement(domain.Literal("fixed"))

	first, err := s.CommitSave(context.Background(), testImage())
	if err != nil {
		t.Fatalf("first CommitSave failed: %v", err)
	}
	second, err := s.CommitSave(context.Background(), testImage())
	if err != nil {
		t.Fatalf("second CommitSave failed: %v", err)
	}

	if first.Filename != "fixed.png" || second.Filename != "fixed - dup1.png" {
		t.Errorf("unexpected filenames %q, %q", first.Filename, second.Filename)
	}
	if len(files.written) != 2 {
		t.Errorf("expected two files, got %d", len(files.written))
	}
}

func TestSession_CommitRejectsEmptyName(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.ClearPattern()

	_, err := s.CommitSave(context.Background(), testImage())
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestSession_CommitNilImage(t *testing.T) {
	s, _, _ := newTestSession(t)
	if _, err := s.CommitSave(context.Background(), nil); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}

func TestSession_CommitWithoutDirectory(t *testing.T) {
	s := NewSession(newFakeStore(), newFakeFiles(), discardLogger())
	var valErr *ValidationError
	if _, err := s.CommitSave(context.Background(), testImage()); !errors.As(err, &valErr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestSession_PersistLoadRoundTrip(t *testing.T) {
	s, store, _ := newTestSession(t)
	if err := s.CreateCounter("page", 10, 5, false); err != nil {
		t.Fatalf("CreateCounter failed: %v", err)
	}
	s.AppendElement(domain.Space())
	s.AppendElement(domain.Token("page"))
	if _, err := s.CommitSave(context.Background(), testImage()); err != nil {
		t.Fatalf("CommitSave failed: %v", err)
	}

	reloaded := NewSession(store, newFakeFiles(), discardLogger())
	if err := reloaded.LoadForDirectory("/shots"); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}

	if reloaded.Template() != s.Template() {
		t.Errorf("template mismatch: %q vs %q", reloaded.Template(), s.Template())
	}
	want := s.Counters()
	got := reloaded.Counters()
	if len(got) != len(want) {
		t.Fatalf("counter count mismatch: %v vs %v", got, want)
	}
	for i := range want {
		if got[i].Name != want[i].Name || got[i].Value != want[i].Value || got[i].Increment != want[i].Increment || got[i].ResetValue() != want[i].ResetValue() {
			t.Errorf("counter mismatch: %+v vs %+v", got[i], want[i])
		}
	}
	if len(reloaded.Records()) != 1 || reloaded.Records()[0].Filename != s.Records()[0].Filename {
		t.Errorf("records mismatch: %+v", reloaded.Records())
	}
}

func TestSession_SwitchDirectoryDiscardsEdits(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.ClearPattern()
	if err := s.CreateCounter("temp", 1, 1, false); err != nil {
		t.Fatalf("CreateCounter failed: %v", err)
	}

	if err := s.LoadForDirectory("/other"); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	if s.Template() != "{date}{time}{counter}" {
		t.Errorf("edits leaked into new directory: %q", s.Template())
	}
	if s.CounterExists("temp") {
		t.Error("counter leaked into new directory")
	}
	if s.Directory() != "/other" {
		t.Errorf("unexpected directory %q", s.Directory())
	}
}

func TestSession_UnreadableIndexFallsBack(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("unexpected end of JSON input")
	s := NewSession(store, newFakeFiles(), discardLogger())

	if err := s.LoadForDirectory("/broken"); err != nil {
		t.Fatalf("LoadForDirectory should recover, got %v", err)
	}
	var readErr *PersistenceReadError
	if !errors.As(s.LoadWarning(), &readErr) {
		t.Errorf("expected PersistenceReadError warning, got %v", s.LoadWarning())
	}
	if s.Template() != "{date}{time}{counter}" {
		t.Errorf("expected defaults, got %q", s.Template())
	}
}

func TestSession_CatalogMirroring(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{addErr: errors.New("db locked")}
	s := NewSession(store, newFakeFiles(), discardLogger())
	s.SetCatalog(catalog)
	s.SetClock(func() time.Time { return testNow })

	if err := s.LoadForDirectory("/shots"); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	if _, ok := catalog.synced["/shots"]; !ok {
		t.Error("directory not synced into catalog")
	}

	if _, err := s.CommitSave(context.Background(), testImage()); err != nil {
		t.Fatalf("catalog failure must not fail the save: %v", err)
	}
}

func TestSession_DeleteProtectedCounter(t *testing.T) {
	s, _, _ := newTestSession(t)
	if err := s.DeleteCounter(domain.DefaultCounterName); !errors.Is(err, domain.ErrProtectedCounter) {
		t.Errorf("expected ErrProtectedCounter, got %v", err)
	}
	if s.Dirty() {
		t.Error("failed delete marked session dirty")
	}
}

func TestSession_SetTemplate(t *testing.T) {
	s, _, _ := newTestSession(t)
	if err := s.SetTemplate("{year}-{counter}"); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}
	if len(s.Elements()) != 3 {
		t.Errorf("expected 3 elements, got %v", s.Elements())
	}
	if err := s.SetTemplate("{year"); !errors.Is(err, domain.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}
