package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound indicates no cached program exists for the source.
var ErrNotFound = errors.New("program not cached")

// ---------------------------------------------------------------------------
// Store: content-addressed program cache backed by SQLite
// ---------------------------------------------------------------------------

// Store maps source hashes to serialized instruction trees in a SQLite
// database. Keys are SHA-256 over the raw source text, so any edit to the
// source (including comments) misses the cache.
type Store struct {
	db *sql.DB
}

// SourceKey returns the cache key for a source text: the hex-encoded SHA-256
// of its raw bytes.
func SourceKey(source string) string {
	h := sha256.Sum256([]byte(source))
	return hex.EncodeToString(h[:])
}

// Open opens (creating if needed) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS programs (
		hash TEXT PRIMARY KEY,
		tree BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating programs table: %w", err)
	}

	return &Store{db: db}, nil
}

// Put stores the parsed program for the given source text, replacing any
// previous entry for the same source.
func (s *Store) Put(source string, program []byte) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO programs (hash, tree) VALUES (?, ?)",
		SourceKey(source), program,
	)
	if err != nil {
		return fmt.Errorf("storing program: %w", err)
	}
	return nil
}

// Get returns the serialized program for the given source text, or
// ErrNotFound on a cache miss.
func (s *Store) Get(source string) ([]byte, error) {
	var tree []byte
	err := s.db.QueryRow(
		"SELECT tree FROM programs WHERE hash = ?", SourceKey(source),
	).Scan(&tree)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return tree, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
