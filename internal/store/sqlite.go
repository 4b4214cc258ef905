package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps each top-level dotted key as one row holding its
// JSON-encoded value. Dotted sub-paths descend into the stored JSON on
// read, so `summaries.<id>.overall` resolves whether it was written as
// a whole key or nested under `summaries`.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// OpenSQLite creates or opens a SQLite-backed store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string, out any) error {
	value, ok, err := s.lookup(key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return decodeInto(value, out)
}

func (s *SQLiteStore) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode value: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(data),
	)
	if err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Has(key string) bool {
	_, ok, err := s.lookup(key)
	return err == nil && ok
}

func (s *SQLiteStore) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ? OR key LIKE ?`, key, key+".%"); err != nil {
		return fmt.Errorf("store: delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// lookup finds the longest stored prefix of key and descends into its
// JSON value along the remaining path segments.
func (s *SQLiteStore) lookup(key string) (any, bool, error) {
	parts := strings.Split(key, ".")
	for cut := len(parts); cut >= 1; cut-- {
		prefix := strings.Join(parts[:cut], ".")
		var raw string
		err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, prefix).Scan(&raw)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("store: get %s: %w", prefix, err)
		}

		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, false, fmt.Errorf("store: corrupt value at %s: %w", prefix, err)
		}
		return descend(value, parts[cut:])
	}
	return nil, false, nil
}

// descend walks nested JSON objects along the given path segments.
func descend(value any, path []string) (any, bool, error) {
	for _, seg := range path {
		obj, ok := value.(map[string]any)
		if !ok {
			return nil, false, nil
		}
		value, ok = obj[seg]
		if !ok {
			return nil, false, nil
		}
	}
	return value, true, nil
}
