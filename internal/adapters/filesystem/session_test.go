package filesystem

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"picqer/internal/application"
	"picqer/internal/domain"
)

func newSession(t *testing.T, dir string) *application.Session {
	t.Helper()
	s := application.NewSession(NewIndexStore(), NewImageFiles(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetClock(func() time.Time { return time.Date(2024, 1, 15, 14, 30, 25, 0, time.UTC) })
	if err := s.LoadForDirectory(dir); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	return s
}

func TestSession_SavesAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := newSession(t, dir)
	if err := s.SetTemplate("shot_{counter}"); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}
	if _, err := s.CommitSave(ctx, testImage()); err != nil {
		t.Fatalf("CommitSave failed: %v", err)
	}

	// a file already named like the next render must not be overwritten
	if err := os.WriteFile(filepath.Join(dir, "shot_2.png"), []byte("user file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	reopened := newSession(t, dir)
	if reopened.Template() != "shot_{counter}" {
		t.Fatalf("pattern not restored: %q", reopened.Template())
	}
	record, err := reopened.CommitSave(ctx, testImage())
	if err != nil {
		t.Fatalf("CommitSave failed: %v", err)
	}
	if record.Filename != "shot_2 - dup1.png" {
		t.Errorf("unexpected filename %q", record.Filename)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "shot_2.png"))
	if string(data) != "user file" {
		t.Error("existing file was overwritten")
	}
	if len(reopened.Records()) != 2 {
		t.Errorf("expected 2 records, got %d", len(reopened.Records()))
	}
}

func TestSession_CorruptIndexRecovers(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "screenshot_index.json"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s := newSession(t, dir)
	if s.LoadWarning() == nil {
		t.Error("expected a load warning")
	}
	if _, err := s.CommitSave(context.Background(), testImage()); err != nil {
		t.Fatalf("CommitSave after recovery failed: %v", err)
	}

	again := newSession(t, dir)
	if again.LoadWarning() != nil {
		t.Errorf("index still unreadable after save: %v", again.LoadWarning())
	}
}

func TestSession_PersistFreshDirectoryWritesEmptyRecordArray(t *testing.T) {
	dir := t.TempDir()

	s := newSession(t, dir)
	s.AppendElement(domain.Literal("_x"))
	if err := s.Persist(); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, domain.IndexFileName))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"screenshots": []`) {
		t.Errorf("expected an empty screenshots array, got:\n%s", data)
	}
	if strings.Contains(string(data), "null") {
		t.Errorf("index file contains null:\n%s", data)
	}
}
