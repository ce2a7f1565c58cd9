package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"picqer/internal/domain"
)

// IndexStore implements ports.IndexStore with one JSON file per save directory
type IndexStore struct{}

// NewIndexStore creates a new filesystem index store
func NewIndexStore() *IndexStore {
	return &IndexStore{}
}

// Path returns the index file location for dir
func (s *IndexStore) Path(dir string) string {
	return filepath.Join(dir, domain.IndexFileName)
}

// Load reads and migrates the index document of dir. A missing file is not
// an error and yields nil.
func (s *IndexStore) Load(dir string) (*domain.Document, error) {
	data, err := os.ReadFile(s.Path(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	doc, err := domain.MigrateDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	return doc, nil
}

// Save writes doc as the index file of dir, replacing any previous one
func (s *IndexStore) Save(dir string, doc *domain.Document) error {
	data, err := doc.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := writeFileAtomic(s.Path(dir), data, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}
