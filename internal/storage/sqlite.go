// Package storage provides the SQLite-backed session store.
//
// Sessions persist as JSON documents keyed by ID, which keeps the
// schema stable while the session shape evolves. The filesystem store
// in the clarify package serves the same interface for setups that
// prefer plain files.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/clarion-dev/clarion/internal/clarify"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteStore implements clarify.Store on a single SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates the database file (and its parent directory) if needed,
// applies the WAL pragmas, and runs migrations.
func Open(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("storage: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id         TEXT PRIMARY KEY,
			status     TEXT NOT NULL,
			document   TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_status  ON sessions(status);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save upserts the full session document.
func (s *SQLiteStore) Save(session *clarify.Session) error {
	if err := clarify.ValidateSessionID(session.ID); err != nil {
		return err
	}
	doc, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("storage: marshal session: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, status, document, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			status     = excluded.status,
			document   = excluded.document,
			updated_at = datetime('now')
	`, session.ID, string(session.Status), string(doc))
	if err != nil {
		return fmt.Errorf("storage: save session: %w", err)
	}
	return nil
}

// Load fetches a session document by ID. Returns clarify.ErrNotFound
// when no row exists.
func (s *SQLiteStore) Load(id string) (*clarify.Session, error) {
	if err := clarify.ValidateSessionID(id); err != nil {
		return nil, err
	}

	var doc string
	err := s.db.QueryRow(`SELECT document FROM sessions WHERE id = ?`, id).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", clarify.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load session: %w", err)
	}

	var session clarify.Session
	if err := json.Unmarshal([]byte(doc), &session); err != nil {
		return nil, fmt.Errorf("storage: parse session document: %w", err)
	}
	return &session, nil
}

// List returns session IDs ordered newest first, optionally filtered
// by status. Empty status means all sessions.
func (s *SQLiteStore) List(status clarify.Status) ([]string, error) {
	query := `SELECT id FROM sessions ORDER BY created_at DESC`
	args := []any{}
	if status != "" {
		query = `SELECT id FROM sessions WHERE status = ? ORDER BY created_at DESC`
		args = append(args, string(status))
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
