// Package store persists a ledger of shadow sessions so stray shadow
// trees can be listed and reaped across process restarts.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"sws/internal/errors"
	"sws/internal/logging"
)

// Session is one recorded shadow workspace
type Session struct {
	ID           string    `json:"id"`
	Project      string    `json:"project"`
	ManifestRoot string    `json:"manifestRoot"`
	ShadowRoot   string    `json:"shadowRoot"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store provides persistence for sessions in a SQLite database.
type Store struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id            TEXT PRIMARY KEY,
	project       TEXT NOT NULL,
	manifest_root TEXT NOT NULL,
	shadow_root   TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project);
`

// Open opens or creates the session database at <dir>/sessions.db
func Open(dir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, "sessions.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// Set pragmas for performance
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize session schema: %w", err)
	}

	return &Store{conn: conn, logger: logger, dbPath: dbPath}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Record inserts or replaces a session entry
func (s *Store) Record(sess *Session) error {
	_, err := s.conn.Exec(
		`INSERT OR REPLACE INTO sessions (id, project, manifest_root, shadow_root, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.Project, sess.ManifestRoot, sess.ShadowRoot,
		sess.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Get returns a session by ID
func (s *Store) Get(id string) (*Session, error) {
	row := s.conn.QueryRow(
		`SELECT id, project, manifest_root, shadow_root, created_at FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.SessionNotFound, "no session %q in ledger", id)
	}
	return sess, err
}

// FindByManifestRoot returns the most recent session for a project directory
func (s *Store) FindByManifestRoot(manifestRoot string) (*Session, error) {
	row := s.conn.QueryRow(
		`SELECT id, project, manifest_root, shadow_root, created_at
		 FROM sessions WHERE manifest_root = ? ORDER BY created_at DESC LIMIT 1`, manifestRoot)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.SessionNotFound, "no session for %q in ledger", manifestRoot)
	}
	return sess, err
}

// List returns all recorded sessions, newest first
func (s *Store) List() ([]*Session, error) {
	rows, err := s.conn.Query(
		`SELECT id, project, manifest_root, shadow_root, created_at FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Delete removes a session entry
func (s *Store) Delete(id string) error {
	_, err := s.conn.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*Session, error) {
	var sess Session
	var createdAt string
	if err := row.Scan(&sess.ID, &sess.Project, &sess.ManifestRoot, &sess.ShadowRoot, &createdAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at for session %s: %w", sess.ID, err)
	}
	sess.CreatedAt = t
	return &sess, nil
}
