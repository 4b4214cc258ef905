// Package store provides the persistent key-value store backing
// blockdex: projects, the current-project selection, per-project block
// indexes, and project summaries. Keys are dotted paths and values are
// JSON-serializable.
//
// Keys used by the core:
//
//	projects                      map of project id -> project record
//	currentProject                selected project id
//	block-indexes.<projectId>     []IndexedDocument, replaced wholesale per run
//	summaries.<projectId>.overall aggregated project summary text
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("store: key not found")

// Store is a dotted-path key-value store with JSON-serializable values.
type Store interface {
	// Get decodes the value at key into out (a pointer).
	// Returns ErrNotFound when the key is absent.
	Get(key string, out any) error

	// Set stores value at key, replacing any existing value, and
	// persists the change before returning.
	Set(key string, value any) error

	// Has reports whether key holds a value.
	Has(key string) bool

	// Delete removes the value at key. Deleting an absent key is not
	// an error.
	Delete(key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// decodeInto round-trips an arbitrary value through JSON into out,
// bridging between a backend's dynamic representation and the caller's
// typed one.
func decodeInto(value, out any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: encode value: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("store: decode value: %w", err)
	}
	return nil
}
