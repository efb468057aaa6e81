// ABOUTME: Optimistic mutation tests covering rollback and confirmed-intent deletes
// ABOUTME: Verifies the pre-mutation snapshot is restored exactly on API failure
package timeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/revline/api"
	"github.com/harperreed/revline/cache"
	"github.com/harperreed/revline/models"
)

func loadedEngine(t *testing.T, backend *fakeBackend) *Engine {
	t.Helper()
	eng := newTestEngine(backend, cache.NewMemoryStore())
	t.Cleanup(eng.Close)
	_, err := eng.Load(context.Background(), ViewFull, false)
	require.NoError(t, err)
	return eng
}

func eventIDs(events []models.ActivityEvent) []string {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}

func TestAddNoteOptimistic(t *testing.T) {
	backend := &fakeBackend{
		record:      testRecord(),
		createdNote: &models.Note{ID: "srv-99"},
	}
	eng := loadedEngine(t, backend)

	mut, err := eng.AddNote(context.Background(), "Follow up", "Call back Tuesday")
	require.NoError(t, err)
	assert.Equal(t, MutationConfirmed, mut.State)
	assert.Equal(t, "srv-99", mut.Event.ID, "server id should replace the local ulid")

	assert.Contains(t, eventIDs(eng.Events()), "srv-99")
}

func TestAddNoteRollbackOnFailure(t *testing.T) {
	backend := &fakeBackend{
		record: testRecord(),
		actions: []models.Action{
			{ID: "a1", Subject: "Call", LeadID: "lead-1", CreatedAt: "2024-02-01T00:00:00Z"},
		},
		createNoteErr: &api.ConflictError{Endpoint: "/api/notes", Status: 422, Message: "rejected"},
	}
	eng := loadedEngine(t, backend)
	before := eventIDs(eng.Events())

	mut, err := eng.AddNote(context.Background(), "Doomed", "nope")
	require.Error(t, err)
	assert.Equal(t, MutationRolledBack, mut.State)

	var conflict *api.ConflictError
	assert.True(t, errors.As(err, &conflict), "error should be re-thrown for the caller")
	assert.Equal(t, before, eventIDs(eng.Events()), "list must match the pre-mutation snapshot exactly")
	assert.NotEmpty(t, eng.Notices(), "failure should surface a user-visible notice")
}

func TestUpdateNoteRollbackOnFailure(t *testing.T) {
	backend := &fakeBackend{
		record: testRecord(),
		notes: []models.Note{
			{ID: "n1", Title: "Original", Content: "old body", LeadID: "lead-1", CreatedAt: "2024-02-01T00:00:00Z"},
		},
		updateNoteErr: errors.New("boom"),
	}
	eng := loadedEngine(t, backend)

	mut, err := eng.UpdateNote(context.Background(), "n1", "Edited", "new body")
	require.Error(t, err)
	assert.Equal(t, MutationRolledBack, mut.State)

	for _, ev := range eng.Events() {
		if ev.ID == "n1" {
			assert.Equal(t, "Original", ev.Title, "rollback must restore the original title")
			assert.Equal(t, "old body", ev.Content)
		}
	}
}

func TestUpdateNoteMissingEvent(t *testing.T) {
	eng := loadedEngine(t, &fakeBackend{record: testRecord()})

	_, err := eng.UpdateNote(context.Background(), "nope", "t", "c")
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteRequiresConfirmedIntent(t *testing.T) {
	backend := &fakeBackend{
		record: testRecord(),
		actions: []models.Action{
			{ID: "a1", Subject: "Call", LeadID: "lead-1", CreatedAt: "2024-02-01T00:00:00Z"},
		},
	}
	eng := loadedEngine(t, backend)

	_, err := eng.DeleteEvent(context.Background(), "a1", false)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Contains(t, eventIDs(eng.Events()), "a1", "nothing may be dispatched without confirmation")
}

func TestDeleteRollbackRestoresListExactly(t *testing.T) {
	backend := &fakeBackend{
		record: testRecord(),
		actions: []models.Action{
			{ID: "a1", Subject: "Call", LeadID: "lead-1", CreatedAt: "2024-02-03T00:00:00Z"},
			{ID: "a2", Subject: "Email", LeadID: "lead-1", CreatedAt: "2024-02-02T00:00:00Z"},
			{ID: "a3", Subject: "Demo", LeadID: "lead-1", CreatedAt: "2024-02-01T00:00:00Z"},
		},
		deleteActionErr: errors.New("server said no"),
	}
	eng := loadedEngine(t, backend)
	before := eventIDs(eng.Events())

	mut, err := eng.DeleteEvent(context.Background(), "a2", true)
	require.Error(t, err)
	assert.Equal(t, MutationRolledBack, mut.State)
	assert.Equal(t, before, eventIDs(eng.Events()), "rollback must restore id set and order")
}

func TestDeleteNoteUsesNotesAPI(t *testing.T) {
	backend := &fakeBackend{
		record: testRecord(),
		notes: []models.Note{
			{ID: "n1", Title: "Scratch", LeadID: "lead-1", CreatedAt: "2024-02-01T00:00:00Z"},
		},
		deleteActionErr: errors.New("wrong API for a note"),
	}
	eng := loadedEngine(t, backend)

	mut, err := eng.DeleteEvent(context.Background(), "n1", true)
	require.NoError(t, err)
	assert.Equal(t, MutationConfirmed, mut.State)
	assert.NotContains(t, eventIDs(eng.Events()), "n1")
}

func TestDeleteSyntheticRejected(t *testing.T) {
	eng := loadedEngine(t, &fakeBackend{record: testRecord()})

	_, err := eng.DeleteEvent(context.Background(), SyntheticCreatedID, true)
	assert.ErrorIs(t, err, ErrSyntheticEvent)
}
