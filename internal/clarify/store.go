package clarify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a session ID has no stored record.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for clarification sessions.
// Abstracted for testability (DIP).
type Store interface {
	Save(session *Session) error
	Load(id string) (*Session, error)
}

// FileStore implements Store as one JSON document per session under a
// root directory.
type FileStore struct {
	root string
}

// NewFileStore creates a filesystem-backed session store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// SessionPath returns the absolute path to a session's JSON document.
func (fs *FileStore) SessionPath(id string) string {
	return filepath.Join(fs.root, id+".json")
}

// Save writes the session document, creating the root directory on
// first use. Writes are whole-file replacements.
func (fs *FileStore) Save(session *Session) error {
	if err := ValidateSessionID(session.ID); err != nil {
		return err
	}
	if err := os.MkdirAll(fs.root, 0o755); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := os.WriteFile(fs.SessionPath(session.ID), data, 0o644); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Load reads a session document by ID. Returns ErrNotFound when no
// record exists.
func (fs *FileStore) Load(id string) (*Session, error) {
	if err := ValidateSessionID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(fs.SessionPath(id))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session file: %w", err)
	}
	return &session, nil
}
