// Package store persists popup argument state between invocations.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/atomicstack/git-popup/internal/logging"
	"github.com/atomicstack/git-popup/internal/logging/events"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("record not found")

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const (
	kindBool   = "bool"
	kindString = "string"
)

// Entry is one stored value.
type Entry struct {
	Scope     string
	Key       string
	Kind      string
	Value     string
	UpdatedAt time.Time
}

// Store is a SQLite-backed state store keyed by (scope, key).
type Store struct {
	conn *sql.DB
}

// Open opens the database at path, creating parent directories and the
// schema as needed.
func Open(path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("connect state database: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.Migrate(); err != nil {
		closeQuietly(conn)
		return nil, err
	}
	return s, nil
}

func closeQuietly(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		logging.Warn("failed to close state database", "error", err)
	}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Get returns the entry stored under (scope, key).
func (s *Store) Get(scope, key string) (Entry, error) {
	entry := Entry{Scope: scope, Key: key}
	err := s.conn.QueryRow(
		`SELECT kind, value, updated_at FROM popup_state WHERE scope = ? AND key = ?`,
		scope, key,
	).Scan(&entry.Kind, &entry.Value, &entry.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("read %s/%s: %w", scope, key, err)
	}
	return entry, nil
}

func (s *Store) put(scope, key, kind, value string) error {
	_, err := s.conn.Exec(`
		INSERT INTO popup_state (scope, key, kind, value, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (scope, key) DO UPDATE SET kind = excluded.kind, value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, kind, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", scope, key, err)
	}
	return nil
}

// Delete removes the value stored under (scope, key).
func (s *Store) Delete(scope, key string) error {
	if _, err := s.conn.Exec(`DELETE FROM popup_state WHERE scope = ? AND key = ?`, scope, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", scope, key, err)
	}
	return nil
}

// Reset removes every value stored for scope.
func (s *Store) Reset(scope string) error {
	if _, err := s.conn.Exec(`DELETE FROM popup_state WHERE scope = ?`, scope); err != nil {
		return fmt.Errorf("reset %s: %w", scope, err)
	}
	return nil
}

// List returns the entries of scope ordered by key.
func (s *Store) List(scope string) ([]Entry, error) {
	rows, err := s.conn.Query(
		`SELECT key, kind, value, updated_at FROM popup_state WHERE scope = ? ORDER BY key`, scope)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", scope, err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		entry := Entry{Scope: scope}
		if err := rows.Scan(&entry.Key, &entry.Kind, &entry.Value, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list %s: %w", scope, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Bool reads a value written with SetBool. Missing values, values of another
// kind and read failures all report false.
func (s *Store) Bool(scope, key string) (bool, bool) {
	entry, ok := s.lookup(scope, key, kindBool)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(entry.Value)
	if err != nil {
		s.readFailed(scope, key, err)
		return false, false
	}
	return v, true
}

// String reads a value written with SetString.
func (s *Store) String(scope, key string) (string, bool) {
	entry, ok := s.lookup(scope, key, kindString)
	if !ok {
		return "", false
	}
	return entry.Value, true
}

// SetBool stores a boolean value.
func (s *Store) SetBool(scope, key string, value bool) error {
	return s.put(scope, key, kindBool, strconv.FormatBool(value))
}

// SetString stores a string value.
func (s *Store) SetString(scope, key, value string) error {
	return s.put(scope, key, kindString, value)
}

func (s *Store) lookup(scope, key, kind string) (Entry, bool) {
	entry, err := s.Get(scope, key)
	if errors.Is(err, ErrNotFound) {
		return Entry{}, false
	}
	if err != nil {
		s.readFailed(scope, key, err)
		return Entry{}, false
	}
	if entry.Kind != kind {
		return Entry{}, false
	}
	return entry, true
}

func (s *Store) readFailed(scope, key string, err error) {
	logging.Error(err)
	events.Store.Error(scope, key, err)
}
