package adapters

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // CGO-free SQLite
)

// SQLiteStorageAdapter is a StorageAdapter backed by a local SQLite
// database. Intended as the durable scope for desktop/agent hosts where
// the token must outlive the process.
type SQLiteStorageAdapter struct {
	db *sql.DB
}

var _ StorageAdapter = (*SQLiteStorageAdapter)(nil)

// NewSQLiteStorageAdapter opens (or creates) the database at databasePath.
func NewSQLiteStorageAdapter(databasePath string) (*SQLiteStorageAdapter, error) {
	// WAL + busy timeout to avoid "database is locked"
	db, err := sql.Open("sqlite", databasePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
	CREATE TABLE IF NOT EXISTS kv(
	  key   TEXT PRIMARY KEY,
	  value TEXT NOT NULL
	);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create storage table: %w", err)
	}

	return &SQLiteStorageAdapter{db: db}, nil
}

func (s *SQLiteStorageAdapter) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStorageAdapter) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv(key, value) VALUES(?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorageAdapter) Remove(key string) error {
	_, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorageAdapter) Clear() error {
	_, err := s.db.Exec(`DELETE FROM kv`)
	if err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStorageAdapter) Close() error {
	return s.db.Close()
}
