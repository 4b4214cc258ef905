package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileStore persists the key space as one JSON document on disk,
// navigated by dotted paths through koanf. Every Set/Delete rewrites
// the file, so readers in later sessions always see the last completed
// write.
type FileStore struct {
	mu   sync.RWMutex
	k    *koanf.Koanf
	path string
}

// OpenFile loads (or creates) a file-backed store at path.
func OpenFile(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	k := koanf.New(".")
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), kjson.Parser()); err != nil {
			return nil, fmt.Errorf("store: load %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("store: stat %s: %w", path, err)
	}

	return &FileStore{k: k, path: path}, nil
}

func (s *FileStore) Get(key string, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.k.Exists(key) {
		return ErrNotFound
	}
	return decodeInto(s.k.Get(key), out)
}

func (s *FileStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Normalize through JSON first so the in-memory tree holds the
	// same shapes a reload from disk would produce.
	var plain any
	if err := decodeInto(value, &plain); err != nil {
		return err
	}
	// koanf merges map values into the existing tree; the Store
	// contract replaces. Clear the key first so stale entries cannot
	// survive the write.
	s.k.Delete(key)
	if err := s.k.Set(key, plain); err != nil {
		return fmt.Errorf("store: set %s: %w", key, err)
	}
	return s.flushLocked()
}

func (s *FileStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.k.Exists(key)
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.k.Delete(key)
	return s.flushLocked()
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) flushLocked() error {
	data, err := s.k.Marshal(kjson.Parser())
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}
