package commands

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"picqer/internal/application"
	"picqer/internal/domain"
)

var fixedNow = time.Date(2024, 1, 15, 14, 30, 25, 0, time.UTC)

type memStore struct {
	docs    map[string][]byte
	saves   int
	saveErr error
}

func (m *memStore) Load(dir string) (*domain.Document, error) {
	data, ok := m.docs[dir]
	if !ok {
		return nil, nil
	}
	return domain.MigrateDocument(data)
}

func (m *memStore) Save(dir string, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := doc.Marshal()
	if err != nil {
		return err
	}
	m.docs[dir] = data
	m.saves++
	return nil
}

func (m *memStore) Path(dir string) string {
	return filepath.Join(dir, domain.IndexFileName)
}

type memFiles struct {
	written map[string]int64
	sources map[string]image.Image
}

func newMemFiles() *memFiles {
	return &memFiles{written: make(map[string]int64), sources: make(map[string]image.Image)}
}

func (m *memFiles) Exists(path string) bool {
	if _, ok := m.written[path]; ok {
		return true
	}
	_, ok := m.sources[path]
	return ok
}

func (m *memFiles) Open(path string) (image.Image, error) {
	img, ok := m.sources[path]
	if !ok || img == nil {
		return nil, errors.New("unsupported image format")
	}
	return img, nil
}

func (m *memFiles) SavePNG(img image.Image, path string) error {
	m.written[path] = int64(img.Bounds().Dx())
	return nil
}

func (m *memFiles) Size(path string) (int64, error) {
	return m.written[path], nil
}

func (m *memFiles) Remove(path string) error {
	delete(m.written, path)
	return nil
}

type fakeClipboard struct {
	img     image.Image
	imgErr  error
	text    string
	textErr error
}

func (f *fakeClipboard) Image(ctx context.Context) (image.Image, error) {
	return f.img, f.imgErr
}

func (f *fakeClipboard) Text() (string, error) {
	return f.text, f.textErr
}

type fakeGrabber struct {
	img   image.Image
	err   error
	grabs int
}

func (f *fakeGrabber) Grab(ctx context.Context) (image.Image, error) {
	f.grabs++
	return f.img, f.err
}

type fixture struct {
	session *application.Session
	store   *memStore
	files   *memFiles
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &memStore{docs: make(map[string][]byte)}
	files := newMemFiles()
	s := application.NewSession(store, files, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetClock(func() time.Time { return fixedNow })
	if err := s.LoadForDirectory("/shots"); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	return &fixture{session: s, store: store, files: files}
}

func img(width int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, width, 1))
}

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Errorf("expected error containing %q, got nil", want)
		return
	}
	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %q", want, err.Error())
	}
}
