// ABOUTME: Badger-backed durable cache store
// ABOUTME: Persists timeline cache entries under the XDG data directory
package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/revline/models"
)

const keyPrefix = "timeline:"

// BadgerStore persists cache entries in a local badger database. Safe for
// concurrent use.
type BadgerStore struct {
	db  *badger.DB
	mu  sync.RWMutex
	now func() time.Time
}

// OpenBadger opens (or creates) the badger database at dir.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's default logger is too chatty for a cache
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return &BadgerStore{db: db, now: time.Now}, nil
}

func cacheKey(recordID string) []byte {
	return []byte(keyPrefix + recordID)
}

// Get implements Store. Corrupt or version-mismatched entries are purged
// and reported as absent rather than surfaced to the caller.
func (s *BadgerStore) Get(recordID string, ttl time.Duration) (*models.CacheEntry, bool) {
	s.mu.RLock()
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(recordID))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	s.mu.RUnlock()

	if err != nil {
		return nil, false
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		_ = s.Invalidate(recordID)
		return nil, false
	}

	if !entryValid(&entry, ttl, s.now()) {
		_ = s.Invalidate(recordID)
		return nil, false
	}

	return &entry, true
}

// Set implements Store.
func (s *BadgerStore) Set(recordID string, entry *models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cacheKey(recordID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Invalidate implements Store.
func (s *BadgerStore) Invalidate(recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(cacheKey(recordID))
	})
	if err != nil && err != badger.ErrKeyNotFound {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

// Purge removes every timeline entry from the store.
func (s *BadgerStore) Purge() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.DropPrefix([]byte(keyPrefix))
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
