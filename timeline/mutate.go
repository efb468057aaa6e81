// ABOUTME: Optimistic mutation layer for timeline events
// ABOUTME: Applies edits locally first and rolls back to a snapshot on API failure
package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/harperreed/revline/models"
)

// MutationState tracks one mutation through its lifecycle.
type MutationState string

const (
	MutationPending    MutationState = "pending"
	MutationConfirmed  MutationState = "confirmed"
	MutationRolledBack MutationState = "rolled_back"
)

// Mutation reports the outcome of an optimistic edit.
type Mutation struct {
	State MutationState
	Event models.ActivityEvent
}

// AddNote optimistically appends a note event and creates it remotely. On
// failure the timeline reverts to its pre-mutation state and the error is
// returned so the caller can react as well.
func (e *Engine) AddNote(ctx context.Context, title, content string) (*Mutation, error) {
	now := e.opts.Now()
	if title == "" {
		title = "Note added"
	}

	// ULIDs sort by creation time, which keeps locally minted ids stable
	// until the server's id replaces them.
	localID := ulid.Make().String()
	ev := models.ActivityEvent{
		ID:         localID,
		Kind:       models.KindNote,
		OccurredAt: now,
		Title:      title,
		Content:    content,
		Actor:      "Me",
		Metadata:   models.EventMetadata{CreatedBy: e.opts.CurrentUserID},
	}

	snap, err := e.applyOptimistic(func(events []models.ActivityEvent) []models.ActivityEvent {
		return Merge(nil, append(events, ev), nil)
	})
	if err != nil {
		return nil, err
	}

	note := e.noteForRecord(title, content, now)
	created, err := e.backend.CreateNote(ctx, note)
	if err != nil {
		e.rollback(snap)
		e.addNotice(Notice{Message: "Note could not be saved", At: now})
		return &Mutation{State: MutationRolledBack, Event: ev}, fmt.Errorf("failed to create note: %w", err)
	}

	// Swap in the server's authoritative id. No re-fetch here: the
	// optimistic state is already correct, and an immediate refresh could
	// race a stale response over it.
	if created != nil && created.ID != "" {
		e.replaceEventID(localID, created.ID)
		ev.ID = created.ID
	}
	_ = e.store.Invalidate(e.recordID)
	return &Mutation{State: MutationConfirmed, Event: ev}, nil
}

// UpdateNote optimistically edits a note event's title and content, then
// persists the change. Rolls back on failure.
func (e *Engine) UpdateNote(ctx context.Context, eventID, title, content string) (*Mutation, error) {
	now := e.opts.Now()
	if isSynthetic(eventID) {
		return nil, ErrSyntheticEvent
	}

	var target *models.ActivityEvent
	snap, err := e.applyOptimistic(func(events []models.ActivityEvent) []models.ActivityEvent {
		for i := range events {
			if events[i].ID == eventID && events[i].Kind == models.KindNote {
				events[i].Title = title
				events[i].Content = content
				copied := events[i]
				target = &copied
				break
			}
		}
		return events
	})
	if err != nil {
		return nil, err
	}
	if target == nil {
		e.rollback(snap)
		return nil, ErrEventNotFound
	}

	note := e.noteForRecord(title, content, now)
	note.ID = eventID
	if err := e.backend.UpdateNote(ctx, note); err != nil {
		e.rollback(snap)
		e.addNotice(Notice{Message: "Note changes could not be saved", At: now})
		return &Mutation{State: MutationRolledBack, Event: *target}, fmt.Errorf("failed to update note: %w", err)
	}

	_ = e.store.Invalidate(e.recordID)
	return &Mutation{State: MutationConfirmed, Event: *target}, nil
}

// DeleteEvent optimistically removes an event and deletes the backing
// entity. The caller must pass confirmed=true, signalling the explicit
// confirm gesture, before anything is dispatched.
func (e *Engine) DeleteEvent(ctx context.Context, eventID string, confirmed bool) (*Mutation, error) {
	if !confirmed {
		return nil, ErrDeleteNotConfirmed
	}
	if isSynthetic(eventID) {
		return nil, ErrSyntheticEvent
	}
	now := e.opts.Now()

	var target *models.ActivityEvent
	snap, err := e.applyOptimistic(func(events []models.ActivityEvent) []models.ActivityEvent {
		out := events[:0]
		for _, ev := range events {
			if ev.ID == eventID {
				copied := ev
				target = &copied
				continue
			}
			out = append(out, ev)
		}
		return out
	})
	if err != nil {
		return nil, err
	}
	if target == nil {
		e.rollback(snap)
		return nil, ErrEventNotFound
	}

	if target.Kind == models.KindNote {
		err = e.backend.DeleteNote(ctx, eventID)
	} else {
		err = e.backend.DeleteAction(ctx, eventID)
	}
	if err != nil {
		e.rollback(snap)
		e.addNotice(Notice{Message: "Delete failed; the item was restored", At: now})
		return &Mutation{State: MutationRolledBack, Event: *target}, fmt.Errorf("failed to delete event: %w", err)
	}

	_ = e.store.Invalidate(e.recordID)
	return &Mutation{State: MutationConfirmed, Event: *target}, nil
}

// applyOptimistic snapshots the current list, applies the mutation, and
// bumps the version so an in-flight refresh can't clobber the edit.
func (e *Engine) applyOptimistic(mutate func([]models.ActivityEvent) []models.ActivityEvent) ([]models.ActivityEvent, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrClosed
	}
	snap := snapshot(e.events)
	e.events = mutate(snapshot(e.events))
	e.version++
	e.mu.Unlock()

	e.notifyListeners()
	return snap, nil
}

// rollback restores a pre-mutation snapshot.
func (e *Engine) rollback(snap []models.ActivityEvent) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.events = snap
	e.version++
	e.mu.Unlock()

	e.notifyListeners()
}

func (e *Engine) replaceEventID(oldID, newID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.events {
		if e.events[i].ID == oldID {
			e.events[i].ID = newID
			return
		}
	}
}

// noteForRecord builds the wire note with the foreign key matching the
// engine's record type.
func (e *Engine) noteForRecord(title, content string, now time.Time) models.Note {
	n := models.Note{
		Title:     title,
		Content:   content,
		AuthorID:  e.opts.CurrentUserID,
		CreatedAt: now.Format(time.RFC3339),
	}
	switch e.recordType {
	case models.RecordLead:
		n.LeadID = e.recordID
	case models.RecordContact:
		n.ContactID = e.recordID
	case models.RecordOpportunity:
		n.OpportunityID = e.recordID
	case models.RecordCompany:
		n.CompanyID = e.recordID
	}
	return n
}

func isSynthetic(id string) bool {
	switch id {
	case SyntheticCreatedID, SyntheticLastActionID, SyntheticStatusChangeID, SyntheticNextActionID:
		return true
	}
	return false
}
