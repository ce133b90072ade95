// Package store persists the published-text history log so a scheduled
// runner keeps persona continuity across invocations. The core pipeline
// works identically with the store disabled; only the orchestrator
// touches it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"chirp/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the history database.
type Store struct {
	db     *sql.DB
	dbPath string
	log    *logging.Logger
}

// Open creates or opens the history store at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{
		db:     db,
		dbPath: path,
		log:    logging.Get(logging.CategoryStore),
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS published (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_published_created ON published(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records a published text.
func (s *Store) Append(ctx context.Context, text string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO published (text) VALUES (?)`, text)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	s.log.Debug("appended history entry (%d chars)", len(text))
	return nil
}

// Recent returns up to n most recently published texts, oldest first,
// matching the order the prompt builder renders history in.
func (s *Store) Recent(ctx context.Context, n int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT text FROM published ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var texts []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		texts = append(texts, text)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse newest-first into oldest-first.
	for i, j := 0, len(texts)-1; i < j; i, j = i+1, j-1 {
		texts[i], texts[j] = texts[j], texts[i]
	}
	return texts, nil
}
