// ABOUTME: In-memory cache store for tests and ephemeral runs
// ABOUTME: Same validity rules as the badger store without touching disk
package cache

import (
	"sync"
	"time"

	"github.com/harperreed/revline/models"
)

// MemoryStore keeps cache entries in a map. It honors the same TTL and
// schema-version rules as BadgerStore, so tests exercise real validity
// logic.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*models.CacheEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*models.CacheEntry),
		now:     time.Now,
	}
}

// Get implements Store.
func (s *MemoryStore) Get(recordID string, ttl time.Duration) (*models.CacheEntry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[recordID]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !entryValid(entry, ttl, s.now()) {
		_ = s.Invalidate(recordID)
		return nil, false
	}
	return entry, true
}

// Set implements Store.
func (s *MemoryStore) Set(recordID string, entry *models.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[recordID] = entry
	return nil
}

// Invalidate implements Store.
func (s *MemoryStore) Invalidate(recordID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, recordID)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored entries (valid or not).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
