package ports

import "picqer/internal/domain"

// IndexStore persists the per-directory index document
type IndexStore interface {
	// Load returns the document of dir, or nil with no error when dir has
	// no index file yet
	Load(dir string) (*domain.Document, error)

	// Save replaces the index file of dir with doc
	Save(dir string, doc *domain.Document) error

	// Path returns the index file location for dir
	Path(dir string) string
}

// RecordCatalog is a searchable cache of records across all save directories.
// The per-directory index files stay authoritative.
type RecordCatalog interface {
	Open(path string) error
	Close() error

	// SyncDirectory replaces every cached record of dir
	SyncDirectory(dir string, records []domain.Record) error

	// Add caches a single new record
	Add(dir string, record domain.Record) error

	// Search matches query against filenames and directories, newest first
	Search(query string, limit int) ([]domain.Record, error)
}
