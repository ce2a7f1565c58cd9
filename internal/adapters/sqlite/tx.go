package sqlite

import (
	"database/sql"

	"picqer/internal/domain"
)

// catalogTx groups catalog writes
type catalogTx struct {
	tx *sql.Tx
}

// UpsertRecord inserts or replaces a record keyed by its file path
func (t *catalogTx) UpsertRecord(dir string, r *domain.Record) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO records (filepath, directory, filename, created, size)
		VALUES (?, ?, ?, ?, ?)
	`, r.Filepath, dir, r.Filename, r.Created.UnixNano(), r.Size)
	return err
}

// DeleteDirectory removes all records of a directory
func (t *catalogTx) DeleteDirectory(dir string) error {
	_, err := t.tx.Exec(`DELETE FROM records WHERE directory = ?`, dir)
	return err
}

// Commit commits the transaction
func (t *catalogTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction. It is a no-op after Commit.
func (t *catalogTx) Rollback() error {
	err := t.tx.Rollback()
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}
