// Package catalog persists the finalized document list of a run into a
// SQLite database next to the other run artifacts. The catalog is
// written once, after the batch completes; it is not resumable run
// state.
package catalog

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hpungsan/docsmith/internal/pipeline"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Path returns the catalog location for an output root:
// <output_root>/<output_basename>.db.
func Path(outputPath string) string {
	return filepath.Join(outputPath, filepath.Base(outputPath)+".db")
}

// Open opens (creating if needed) the catalog database and applies
// migrations.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Write records every document of a run under the given run id. One run
// is one transaction; a failed write leaves no partial run behind.
func Write(db *sql.DB, runID string, snap *pipeline.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin catalog write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO documents (
			id, run_id, filename, document_type, category, folder,
			relative_path, content, extraction_method, word_count,
			char_count, estimated_tokens, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, doc := range snap.Documents {
		_, err := stmt.Exec(
			doc.ID, runID, doc.Filename, doc.DocumentType, doc.Category,
			doc.Folder, doc.RelativePath, doc.Content,
			doc.Metadata.ExtractionMethod, doc.Metadata.WordCount,
			doc.Metadata.CharCount, doc.Metadata.EstimatedTokens, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS documents (
		  id               TEXT NOT NULL,
		  run_id           TEXT NOT NULL,
		  filename         TEXT NOT NULL,
		  document_type    TEXT NOT NULL,
		  category         TEXT NOT NULL,
		  folder           TEXT NOT NULL,
		  relative_path    TEXT NOT NULL,
		  content          TEXT,
		  extraction_method TEXT NOT NULL,
		  word_count       INTEGER NOT NULL,
		  char_count       INTEGER NOT NULL,
		  estimated_tokens INTEGER NOT NULL,
		  created_at       INTEGER NOT NULL,
		  PRIMARY KEY (run_id, id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_category
		ON documents(category);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// getUserVersion returns the current schema version (user_version pragma).
func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// setUserVersion sets the schema version (user_version pragma).
func setUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
