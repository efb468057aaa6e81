// ABOUTME: Tests for cache entry validity, TTL expiry, and version self-healing
// ABOUTME: Exercises the in-memory store with a controllable clock
package cache

import (
	"testing"
	"time"

	"github.com/harperreed/revline/models"
)

func freshEntry(recordID string, at time.Time) *models.CacheEntry {
	return &models.CacheEntry{
		RecordID:  recordID,
		Timestamp: at.UnixMilli(),
		Version:   SchemaVersion,
		Activities: []models.ActivityEvent{
			{ID: "a1", Kind: models.KindActivity, OccurredAt: at, Title: "Call", Actor: "Me"},
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	if err := store.Set("lead-1", freshEntry("lead-1", now)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, ok := store.Get("lead-1", time.Minute)
	if !ok {
		t.Fatal("expected fresh entry to be valid")
	}
	if len(entry.Activities) != 1 || entry.Activities[0].ID != "a1" {
		t.Errorf("entry lost data: %+v", entry)
	}
}

func TestEntryExpiresAtTTLBoundary(t *testing.T) {
	ttl := 30 * time.Second
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	store := NewMemoryStore()
	store.now = func() time.Time { return base }

	// Exactly at creation time: valid.
	entry := freshEntry("lead-1", base)
	_ = store.Set("lead-1", entry)
	if _, ok := store.Get("lead-1", ttl); !ok {
		t.Error("entry stamped now must be valid")
	}

	// One millisecond past the TTL: absent.
	old := freshEntry("lead-2", base.Add(-(ttl + time.Millisecond)))
	_ = store.Set("lead-2", old)
	if _, ok := store.Get("lead-2", ttl); ok {
		t.Error("entry older than TTL must be treated as absent")
	}
	if _, found := store.entries["lead-2"]; found {
		t.Error("expired entry must be purged")
	}
}

func TestEntryVersionMismatchIgnoresTimestamp(t *testing.T) {
	store := NewMemoryStore()
	entry := freshEntry("lead-1", time.Now())
	entry.Version = "0"
	_ = store.Set("lead-1", entry)

	if _, ok := store.Get("lead-1", time.Hour); ok {
		t.Error("version-mismatched entry must be absent regardless of age")
	}
	if store.Len() != 0 {
		t.Error("version-mismatched entry must be purged")
	}
}

func TestEntriesDoNotLeakAcrossRecords(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	_ = store.Set("lead-1", freshEntry("lead-1", now))
	_ = store.Set("co-1", freshEntry("co-1", now))

	entry, ok := store.Get("lead-1", time.Minute)
	if !ok || entry.RecordID != "lead-1" {
		t.Fatalf("wrong entry returned: %+v", entry)
	}

	_ = store.Invalidate("lead-1")
	if _, ok := store.Get("lead-1", time.Minute); ok {
		t.Error("invalidated entry still present")
	}
	if _, ok := store.Get("co-1", time.Minute); !ok {
		t.Error("invalidation must not touch other records")
	}
}

func TestNewEntryStampsVersion(t *testing.T) {
	entry := NewEntry("lead-1", nil, nil)
	if entry.Version != SchemaVersion {
		t.Errorf("expected version %s, got %s", SchemaVersion, entry.Version)
	}
	if entry.Timestamp == 0 {
		t.Error("expected timestamp to be stamped")
	}
}
