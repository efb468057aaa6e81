// ABOUTME: Cache store interface and entry validity rules
// ABOUTME: Entries expire by caller-supplied TTL and self-heal on schema version mismatch
package cache

import (
	"time"

	"github.com/harperreed/revline/models"
)

// SchemaVersion tags every cache entry written by this build. Bump it
// whenever the CacheEntry format changes; readers treat any other version
// as a miss and purge the entry.
const SchemaVersion = "3"

// Store is the timeline's only interface to durable client-local storage.
// Entries are keyed by record id alone. TTL is supplied by the caller on
// every read so different views can demand different freshness.
type Store interface {
	// Get returns the entry for recordID if it exists, its version matches
	// SchemaVersion, and it is younger than ttl. Invalid entries are purged
	// transparently and reported as absent.
	Get(recordID string, ttl time.Duration) (*models.CacheEntry, bool)

	// Set stores the entry under recordID, replacing any previous entry.
	Set(recordID string, entry *models.CacheEntry) error

	// Invalidate removes the entry for recordID if present.
	Invalidate(recordID string) error

	Close() error
}

// NewEntry builds a cache entry stamped with the current time and schema
// version.
func NewEntry(recordID string, activities, notes []models.ActivityEvent) *models.CacheEntry {
	return &models.CacheEntry{
		RecordID:   recordID,
		Activities: activities,
		Notes:      notes,
		Timestamp:  time.Now().UnixMilli(),
		Version:    SchemaVersion,
	}
}

// entryValid reports whether the entry can be served for the given TTL.
func entryValid(e *models.CacheEntry, ttl time.Duration, now time.Time) bool {
	if e == nil || e.Version != SchemaVersion {
		return false
	}
	age := now.UnixMilli() - e.Timestamp
	return age < ttl.Milliseconds()
}
