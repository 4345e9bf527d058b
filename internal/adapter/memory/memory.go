// Package memory implements an in-memory key-value store for development and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"tracker/internal/adapter/kvcodec"
	"tracker/internal/domain"
)

// DB implements an in-memory key-value storage.
type DB struct {
	kvcodec.Typed

	mu      sync.Mutex
	entries map[string]kvcodec.Entry
}

// New creates a new in-memory database.
func New() *DB {
	db := &DB{entries: make(map[string]kvcodec.Entry)}
	db.Typed = kvcodec.Typed{Raw: db}
	return db
}

// Ensure interfaces are met.
var _ domain.KeyValueStore = (*DB)(nil)
var _ kvcodec.Raw = (*DB)(nil)

// Load returns the entry stored under key.
func (db *DB) Load(ctx context.Context, key string) (kvcodec.Entry, bool, error) {
	if err := ctx.Err(); err != nil {
		return kvcodec.Entry{}, false, err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	e, ok := db.entries[key]
	return e, ok, nil
}

// Save creates or replaces an entry.
func (db *DB) Save(ctx context.Context, e kvcodec.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	db.entries[e.Key] = e
	return nil
}

// Delete removes an entry. Missing keys are ignored.
func (db *DB) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.entries, key)
	return nil
}

// Keys lists the stored keys in lexical order.
func (db *DB) Keys() []string {
	db.mu.Lock()
	defer db.mu.Unlock()

	keys := make([]string, 0, len(db.entries))
	for k := range db.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
