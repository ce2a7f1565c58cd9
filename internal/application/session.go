package application

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"picqer/internal/domain"
	"picqer/internal/ports"
)

// Session holds the naming state and record log of one save directory.
// It is not safe for concurrent use; front ends drive it from a single
// goroutine or serialize access themselves.
type Session struct {
	store   ports.IndexStore
	files   ports.ImageFiles
	catalog ports.RecordCatalog
	logger  *slog.Logger
	now     func() time.Time

	dir      string
	counters *domain.CounterStore
	pattern  *domain.PatternBuilder
	records  []domain.Record
	dirty    bool
	loadErr  error
}

// NewSession creates a session with default state and no directory.
// Call LoadForDirectory before saving.
func NewSession(store ports.IndexStore, files ports.ImageFiles, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		store:    store,
		files:    files,
		logger:   logger,
		now:      time.Now,
		counters: domain.NewCounterStore(),
		pattern:  domain.NewPatternBuilder(domain.DefaultPattern()...),
	}
}

// SetCatalog attaches a record catalog that mirrors every save
func (s *Session) SetCatalog(catalog ports.RecordCatalog) {
	s.catalog = catalog
}

// SetClock replaces the time source
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the current time of the session clock
func (s *Session) Now() time.Time {
	return s.now()
}

// LoadForDirectory replaces all state with the index document of dir.
// A missing document yields defaults. An unreadable one also yields
// defaults; the failure is logged and available from LoadWarning.
func (s *Session) LoadForDirectory(dir string) error {
	if err := ValidateRequired("saveDir", dir); err != nil {
		return err
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	s.loadErr = nil
	doc, err := s.store.Load(dir)
	if err != nil {
		s.loadErr = &PersistenceReadError{Path: s.store.Path(dir), Err: err}
		s.logger.Warn("index file unreadable, starting from defaults",
			"path", s.store.Path(dir), "error", err)
		doc = nil
	}
	if doc == nil {
		doc = domain.DefaultDocument()
	}

	s.dir = dir
	s.counters = doc.Counters()
	s.pattern = doc.Pattern()
	s.records = append([]domain.Record(nil), doc.Screenshots...)
	s.dirty = false

	undated := 0
	for _, r := range s.records {
		if r.Created.IsZero() {
			undated++
		}
	}
	if undated > 0 {
		s.logger.Warn("records without a valid created timestamp", "dir", dir, "count", undated)
	}

	s.logger.Debug("loaded directory", "dir", dir, "records", len(s.records), "template", s.pattern.Template())

	if s.catalog != nil {
		if err := s.catalog.SyncDirectory(dir, s.records); err != nil {
			s.logger.Warn("catalog sync failed", "dir", dir, "error", err)
		}
	}
	return nil
}

// LoadWarning returns the recovered read failure of the last load, if any
func (s *Session) LoadWarning() error {
	return s.loadErr
}

// Directory returns the current save directory
func (s *Session) Directory() string {
	return s.dir
}

// IndexPath returns the index file of the current directory
func (s *Session) IndexPath() string {
	if s.dir == "" {
		return ""
	}
	return s.store.Path(s.dir)
}

// Dirty reports whether pattern or counters changed since the last load or persist
func (s *Session) Dirty() bool {
	return s.dirty
}

// Checkpoint is a copy of the editable state of a session
type Checkpoint struct {
	counters *domain.CounterStore
	elements []domain.Element
	dirty    bool
}

// Checkpoint captures pattern and counters so an edit can be rolled back
func (s *Session) Checkpoint() Checkpoint {
	return Checkpoint{
		counters: s.counters.Clone(),
		elements: s.pattern.Elements(),
		dirty:    s.dirty,
	}
}

// Restore puts back pattern and counters from a checkpoint taken in the
// same directory. Records are not part of a checkpoint.
func (s *Session) Restore(cp Checkpoint) {
	s.counters = cp.counters.Clone()
	s.pattern = domain.NewPatternBuilder(cp.elements...)
	s.dirty = cp.dirty
}

// --- pattern ---

// Elements returns the current pattern elements
func (s *Session) Elements() []domain.Element {
	return s.pattern.Elements()
}

// Template returns the template derived from the elements
func (s *Session) Template() string {
	return s.pattern.Template()
}

// AppendElement adds an element to the end of the pattern
func (s *Session) AppendElement(e domain.Element) {
	s.pattern.Append(e)
	s.dirty = true
}

// PopElement removes the last element; false when the pattern is empty
func (s *Session) PopElement() (domain.Element, bool) {
	e, ok := s.pattern.Pop()
	if ok {
		s.dirty = true
	}
	return e, ok
}

// ClearPattern removes every element
func (s *Session) ClearPattern() {
	s.pattern.Clear()
	s.dirty = true
}

// ResetPattern restores the default pattern
func (s *Session) ResetPattern() {
	s.pattern.Reset()
	s.dirty = true
}

// SetTemplate replaces the pattern with the elements parsed from a
// hand-written template
func (s *Session) SetTemplate(template string) error {
	elements, err := domain.ParseTemplate(template)
	if err != nil {
		return err
	}
	s.pattern = domain.NewPatternBuilder(elements...)
	s.dirty = true
	return nil
}

// --- counters ---

// Counters lists counters, default first
func (s *Session) Counters() []domain.Counter {
	return s.counters.List()
}

// Counter returns one counter
func (s *Session) Counter(name string) (domain.Counter, bool) {
	return s.counters.Get(name)
}

// CounterExists lets callers confirm an overwrite before CreateCounter
func (s *Session) CounterExists(name string) bool {
	return s.counters.Exists(name)
}

// CreateCounter defines a counter, replacing an existing one only when overwrite is set
func (s *Session) CreateCounter(name string, start, increment int, overwrite bool) error {
	if err := s.counters.Create(name, start, increment, overwrite); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// ResetCounter restores a counter to its original start
func (s *Session) ResetCounter(name string) error {
	if err := s.counters.Reset(name); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// DeleteCounter removes a counter. Pattern references to it fail at render time.
func (s *Session) DeleteCounter(name string) error {
	if err := s.counters.Delete(name); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

// ReferencedCounters lists the distinct counters the pattern uses
func (s *Session) ReferencedCounters() []string {
	return domain.ReferencedCounters(s.pattern.Template(), s.counters)
}

// --- rendering ---

// RenderPreview renders the next filename without advancing counters
func (s *Session) RenderPreview() (string, error) {
	return domain.Preview(s.pattern.Template(), s.now(), s.counters)
}

// PreviewFilename is RenderPreview for display: failures become a diagnostic string
func (s *Session) PreviewFilename() string {
	return domain.PreviewOrDiagnostic(s.pattern.Template(), s.now(), s.counters)
}

// --- records ---

// Records returns the record log of the current directory, oldest first
func (s *Session) Records() []domain.Record {
	return append([]domain.Record(nil), s.records...)
}

// Persist writes the full document of the current directory
func (s *Session) Persist() error {
	if err := s.requireDirectory(); err != nil {
		return err
	}
	doc := domain.NewDocument(s.records, s.counters, s.pattern)
	if err := s.store.Save(s.dir, doc); err != nil {
		return &PersistenceWriteError{Path: s.store.Path(s.dir), Err: err}
	}
	s.dirty = false
	return nil
}

// CommitSave renders the filename, writes img as PNG, appends a record and
// persists the document. Counters and records only change once all of that
// succeeded; on failure the session is left as it was and a written image
// is removed again.
func (s *Session) CommitSave(ctx context.Context, img image.Image) (*domain.Record, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if err := s.requireDirectory(); err != nil {
		return nil, err
	}

	now := s.now()
	counters := s.counters.Clone()
	filename, err := domain.Commit(s.pattern.Template(), now, counters)
	if err != nil {
		return nil, fmt.Errorf("render filename: %w", err)
	}
	if err := ValidateFilename(filename); err != nil {
		return nil, err
	}

	path := s.resolveCollision(filepath.Join(s.dir, filename))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.files.SavePNG(img, path); err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	size, err := s.files.Size(path)
	if err != nil {
		s.discard(path)
		return nil, fmt.Errorf("stat saved image: %w", err)
	}

	record := domain.Record{
		Filename: filepath.Base(path),
		Filepath: path,
		Created:  now,
		Size:     size,
	}
	records := append(s.Records(), record)

	doc := domain.NewDocument(records, counters, s.pattern)
	if err := s.store.Save(s.dir, doc); err != nil {
		s.discard(path)
		return nil, &PersistenceWriteError{Path: s.store.Path(s.dir), Err: err}
	}

	s.counters = counters
	s.records = records
	s.dirty = false

	s.logger.Info("saved image", "path", path, "size", size)

	if s.catalog != nil {
		if err := s.catalog.Add(s.dir, record); err != nil {
			s.logger.Warn("catalog update failed", "path", path, "error", err)
		}
	}
	return &record, nil
}

// resolveCollision appends " - dupN" before the extension until the path is free
func (s *Session) resolveCollision(path string) string {
	if !s.files.Exists(path) {
		return path
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, n, ext))
		if !s.files.Exists(candidate) {
			s.logger.Debug("filename taken, using duplicate suffix", "requested", path, "path", candidate)
			return candidate
		}
	}
}

func (s *Session) discard(path string) {
	if err := s.files.Remove(path); err != nil {
		s.logger.Warn("could not remove image after failed save", "path", path, "error", err)
	}
}

func (s *Session) requireDirectory() error {
	if s.dir == "" {
		return &ValidationError{Field: "saveDir", Message: "no save directory loaded"}
	}
	return nil
}
