// Package sqliterepo persists credentials in a local SQLite file, the
// durable analogue of the browser's localStorage: state survives closing
// and reopening the client.
package sqliterepo

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/users"
)

const (
	dirPermissions = 0750

	// busyTimeout guards against "database is locked" when several
	// in-page contexts share the same file.
	busyTimeout = 5 * time.Second

	keyCredential = "credential"
	keyIdentity   = "identity"
)

var _ credentials.Store = (*Store)(nil)

// Store is a SQLite-backed credentials.Store. All entries live in a single
// key/value table under a caller-chosen namespace, so several applications
// can share one database file.
type Store struct {
	db        *sql.DB
	namespace string
}

// Open creates (or opens) the database file at path and prepares the schema.
func Open(path, namespace string) (*Store, error) {
	if namespace == "" {
		namespace = "default"
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL",
		path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	const schema = `
CREATE TABLE IF NOT EXISTS auth_state (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, key)
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating auth_state table: %w", err)
	}

	return &Store{db: db, namespace: namespace}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) put(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	_, err = s.db.Exec(`
INSERT INTO auth_state (namespace, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.namespace, key, string(raw))
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *Store) get(key string, out any) error {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM auth_state WHERE namespace = ? AND key = ?`,
		s.namespace, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return credentials.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *Store) SaveCredential(cred credentials.Credential) error {
	return s.put(keyCredential, cred)
}

func (s *Store) LoadCredential() (credentials.Credential, error) {
	var cred credentials.Credential
	if err := s.get(keyCredential, &cred); err != nil {
		return credentials.Credential{}, err
	}
	return cred, nil
}

func (s *Store) SaveIdentity(user *users.User) error {
	return s.put(keyIdentity, user)
}

func (s *Store) LoadIdentity() (*users.User, error) {
	var user users.User
	if err := s.get(keyIdentity, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM auth_state WHERE namespace = ?`, s.namespace)
	if err != nil {
		return fmt.Errorf("clearing auth state: %w", err)
	}
	return nil
}
