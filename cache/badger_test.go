// ABOUTME: Tests for the badger-backed durable cache store
// ABOUTME: Covers persistence round-trips, TTL expiry, and full purge
package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBadgerRoundTrip(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	require.NoError(t, store.Set("lead-1", freshEntry("lead-1", now)))

	entry, ok := store.Get("lead-1", time.Minute)
	require.True(t, ok)
	assert.Equal(t, "lead-1", entry.RecordID)
	assert.Len(t, entry.Activities, 1)
}

func TestBadgerMissingKey(t *testing.T) {
	store := openTestStore(t)
	_, ok := store.Get("nope", time.Minute)
	assert.False(t, ok)
}

func TestBadgerExpiredEntryPurged(t *testing.T) {
	store := openTestStore(t)
	old := freshEntry("lead-1", time.Now().Add(-time.Hour))
	require.NoError(t, store.Set("lead-1", old))

	_, ok := store.Get("lead-1", time.Minute)
	assert.False(t, ok, "hour-old entry must fail a one-minute TTL")

	// The purge means even a generous TTL now misses.
	_, ok = store.Get("lead-1", 24*time.Hour)
	assert.False(t, ok, "expired entry should have been removed")
}

func TestBadgerVersionMismatchPurged(t *testing.T) {
	store := openTestStore(t)
	entry := freshEntry("lead-1", time.Now())
	entry.Version = "0"
	require.NoError(t, store.Set("lead-1", entry))

	_, ok := store.Get("lead-1", time.Hour)
	assert.False(t, ok)
}

func TestBadgerInvalidateAndPurge(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()
	require.NoError(t, store.Set("lead-1", freshEntry("lead-1", now)))
	require.NoError(t, store.Set("co-1", freshEntry("co-1", now)))

	require.NoError(t, store.Invalidate("lead-1"))
	_, ok := store.Get("lead-1", time.Minute)
	assert.False(t, ok)
	_, ok = store.Get("co-1", time.Minute)
	assert.True(t, ok, "invalidate must only touch its record")

	require.NoError(t, store.Purge())
	_, ok = store.Get("co-1", time.Minute)
	assert.False(t, ok)
}
