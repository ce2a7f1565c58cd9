package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"picqer/internal/domain"
	"picqer/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Catalog implements ports.RecordCatalog using SQLite
type Catalog struct {
	db     *sql.DB
	dbPath string
}

// Ensure Catalog implements RecordCatalog
var _ ports.RecordCatalog = (*Catalog)(nil)

// NewCatalog creates a new SQLite record catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// DatabasePath returns the default catalog location under the XDG data directory
func DatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "picqer", "catalog.db")
}

// Open opens or creates the catalog database at path
func (c *Catalog) Open(path string) error {
	if path == "" {
		path = DatabasePath()
	}
	c.dbPath = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	// WAL lets the TUI and the CLI read while the other writes
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS records (
			filepath TEXT PRIMARY KEY,
			directory TEXT NOT NULL,
			filename TEXT NOT NULL,
			created INTEGER NOT NULL,
			size INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_directory ON records(directory);
		CREATE INDEX IF NOT EXISTS idx_records_created ON records(created);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := c.checkSchema(); err != nil {
		db.Close()
		return err
	}
	return nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file in use
func (c *Catalog) Path() string {
	return c.dbPath
}

// checkSchema records the schema version and drops cached rows written by
// an incompatible version. The index files can always repopulate them.
func (c *Catalog) checkSchema() error {
	var version string
	err := c.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != "" && version != schemaVersion {
		if _, err := c.db.Exec(`DELETE FROM records`); err != nil {
			return fmt.Errorf("failed to reset catalog: %w", err)
		}
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}
	return nil
}

// SyncDirectory replaces every cached record of dir in one transaction
func (c *Catalog) SyncDirectory(dir string, records []domain.Record) error {
	tx, err := c.beginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.DeleteDirectory(dir); err != nil {
		return fmt.Errorf("failed to clear directory: %w", err)
	}
	for i := range records {
		if err := tx.UpsertRecord(dir, &records[i]); err != nil {
			return fmt.Errorf("failed to cache %s: %w", records[i].Filename, err)
		}
	}
	return tx.Commit()
}

// Add caches a single record
func (c *Catalog) Add(dir string, record domain.Record) error {
	tx, err := c.beginTx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.UpsertRecord(dir, &record); err != nil {
		return fmt.Errorf("failed to cache %s: %w", record.Filename, err)
	}
	return tx.Commit()
}

// Search returns records whose filename contains the query characters in
// order, or whose directory contains the query as written, newest first
func (c *Catalog) Search(query string, limit int) ([]domain.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := c.db.Query(`
		SELECT filepath, filename, created, size
		FROM records
		WHERE filename LIKE ? ESCAPE '\' OR directory LIKE ? ESCAPE '\'
		ORDER BY created DESC
		LIMIT ?
	`, subsequencePattern(query), substringPattern(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var r domain.Record
		var created int64
		if err := rows.Scan(&r.Filepath, &r.Filename, &created, &r.Size); err != nil {
			return nil, err
		}
		r.Created = time.Unix(0, created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// CountDirectory returns how many records are cached for dir
func (c *Catalog) CountDirectory(dir string) (int, error) {
	var n int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM records WHERE directory = ?`, dir).Scan(&n)
	return n, err
}

// subsequencePattern turns "abc" into the LIKE pattern "%a%b%c%"
func subsequencePattern(query string) string {
	var sb strings.Builder
	sb.WriteByte('%')
	for _, r := range strings.TrimSpace(query) {
		writeLikeRune(&sb, r)
		sb.WriteByte('%')
	}
	return sb.String()
}

// substringPattern turns "abc" into the LIKE pattern "%abc%"
func substringPattern(query string) string {
	var sb strings.Builder
	sb.WriteByte('%')
	for _, r := range strings.TrimSpace(query) {
		writeLikeRune(&sb, r)
	}
	sb.WriteByte('%')
	return sb.String()
}

func writeLikeRune(sb *strings.Builder, r rune) {
	switch r {
	case '%', '_', '\\':
		sb.WriteByte('\\')
	}
	sb.WriteRune(r)
}

func (c *Catalog) beginTx() (*catalogTx, error) {
	if c.db == nil {
		return nil, errors.New("catalog is not open")
	}
	tx, err := c.db.Begin()
	if err != nil {
		return nil, err
	}
	return &catalogTx{tx: tx}, nil
}
