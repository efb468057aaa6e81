// ABOUTME: Normalizer converting raw API records into canonical ActivityEvents
// ABOUTME: Builds synthetic events from record fields with documented defaults
package timeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/harperreed/revline/models"
)

// Synthetic event ids. At most one of each exists per record timeline.
const (
	SyntheticCreatedID      = "created"
	SyntheticLastActionID   = "last-action"
	SyntheticStatusChangeID = "status-change"
	SyntheticNextActionID   = "next-action"
)

// UserSource resolves a user id to a directory entry.
type UserSource interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// Directory resolves user ids to display names, memoizing lookups and
// mapping the configured current user to "Me". Unresolvable ids fall back
// to the raw id; empty ids resolve to "System".
type Directory struct {
	source        UserSource
	currentUserID string

	mu    sync.Mutex
	names map[string]string
}

// NewDirectory creates a directory backed by the given source.
func NewDirectory(source UserSource, currentUserID string) *Directory {
	return &Directory{
		source:        source,
		currentUserID: currentUserID,
		names:         make(map[string]string),
	}
}

// Resolve maps a user id to a display name.
func (d *Directory) Resolve(ctx context.Context, userID string) string {
	if userID == "" {
		return "System"
	}
	if userID == d.currentUserID {
		return "Me"
	}

	d.mu.Lock()
	name, ok := d.names[userID]
	d.mu.Unlock()
	if ok {
		return name
	}

	name = userID // fallback if the directory can't resolve it
	if d.source != nil {
		if user, err := d.source.GetUser(ctx, userID); err == nil && user.Name != "" {
			name = user.Name
		}
	}

	d.mu.Lock()
	d.names[userID] = name
	d.mu.Unlock()
	return name
}

// dateLayouts are tried in order when parsing wire timestamps.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseWhen parses a wire timestamp. The second return is false when the
// value is missing or unparseable; callers must flag the event rather than
// drop it.
func parseWhen(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Normalizer converts raw actions, notes, and record fields into
// ActivityEvents. Conversion never fails; every missing field has a
// default.
type Normalizer struct {
	dir *Directory
}

// NewNormalizer creates a normalizer using the given user directory.
func NewNormalizer(dir *Directory) *Normalizer {
	return &Normalizer{dir: dir}
}

// kindForAction maps an action's wire type onto an event kind.
func kindForAction(actionType string) models.EventKind {
	switch strings.ToLower(strings.TrimSpace(actionType)) {
	case "email", "email_sent", "email_received":
		return models.KindEmail
	case "call", "phone_call":
		return models.KindCall
	case "meeting", "demo":
		return models.KindMeeting
	case "status_change":
		return models.KindStatusChange
	case "record created", "record_created":
		return models.KindCreated
	default:
		return models.KindActivity
	}
}

// FromAction converts one action record into an event.
func (n *Normalizer) FromAction(ctx context.Context, a models.Action) models.ActivityEvent {
	title := a.Subject
	if title == "" {
		title = "Activity"
	}

	// Prefer the completion time; it is the semantic date of the action.
	when, ok := parseWhen(a.CompletedAt)
	if !ok {
		when, ok = parseWhen(a.CreatedAt)
	}
	if !ok {
		when = time.Now()
	}

	return models.ActivityEvent{
		ID:          a.ID,
		Kind:        kindForAction(a.Type),
		OccurredAt:  when,
		DateUnknown: !ok,
		Title:       title,
		Description: a.Description,
		Actor:       n.dir.Resolve(ctx, a.UserID),
		Metadata: models.EventMetadata{
			Type:            a.Type,
			Status:          a.Status,
			Priority:        a.Priority,
			Outcome:         a.Outcome,
			DurationMinutes: a.DurationMinutes,
			CreatedBy:       a.UserID,
		},
	}
}

// FromActions converts a batch of actions and marks the oldest dated one
// as the record's first action.
func (n *Normalizer) FromActions(ctx context.Context, actions []models.Action) []models.ActivityEvent {
	events := make([]models.ActivityEvent, 0, len(actions))
	oldest := -1
	for i, a := range actions {
		ev := n.FromAction(ctx, a)
		events = append(events, ev)
		if ev.DateUnknown {
			continue
		}
		if oldest < 0 || ev.OccurredAt.Before(events[oldest].OccurredAt) {
			oldest = i
		}
	}
	if oldest >= 0 {
		events[oldest].Metadata.IsFirstAction = true
	}
	return events
}

// FromNote converts one note record into an event.
func (n *Normalizer) FromNote(ctx context.Context, note models.Note) models.ActivityEvent {
	title := note.Title
	if title == "" {
		title = "Note added"
	}

	when, ok := parseWhen(note.CreatedAt)
	if !ok {
		when = time.Now()
	}

	return models.ActivityEvent{
		ID:          note.ID,
		Kind:        models.KindNote,
		OccurredAt:  when,
		DateUnknown: !ok,
		Title:       title,
		Content:     note.Content,
		Actor:       n.dir.Resolve(ctx, note.AuthorID),
		Metadata: models.EventMetadata{
			Priority:  note.Priority,
			CreatedBy: note.AuthorID,
		},
	}
}

// FromNotes converts a batch of notes.
func (n *Normalizer) FromNotes(ctx context.Context, notes []models.Note) []models.ActivityEvent {
	events := make([]models.ActivityEvent, 0, len(notes))
	for _, note := range notes {
		events = append(events, n.FromNote(ctx, note))
	}
	return events
}

// Synthetic derives events from the record's own fields:
//   - created: only when the record exposes a creation timestamp
//   - last-action: only when a last-action timestamp exists
//   - status-change: only when status is set and not the initial value
//   - next-action: only when the next-action timestamp is strictly in the
//     future relative to now
func (n *Normalizer) Synthetic(ctx context.Context, rec *models.Record, now time.Time) []models.ActivityEvent {
	if rec == nil {
		return nil
	}

	var events []models.ActivityEvent

	if rec.CreatedAt != "" {
		when, ok := parseWhen(rec.CreatedAt)
		if !ok {
			when = now
		}
		creator := rec.CreatedBy
		if creator == "" {
			creator = rec.AssignedUserID
		}
		events = append(events, models.ActivityEvent{
			ID:          SyntheticCreatedID,
			Kind:        models.KindCreated,
			OccurredAt:  when,
			DateUnknown: !ok,
			Title:       "Record created",
			Actor:       n.dir.Resolve(ctx, creator),
		})
	}

	if rec.LastActionDate != "" {
		when, ok := parseWhen(rec.LastActionDate)
		if !ok {
			when = now
		}
		events = append(events, models.ActivityEvent{
			ID:          SyntheticLastActionID,
			Kind:        models.KindFieldUpdate,
			OccurredAt:  when,
			DateUnknown: !ok,
			Title:       "Last action",
			Actor:       n.dir.Resolve(ctx, rec.AssignedUserID),
		})
	}

	if rec.Status != "" && !strings.EqualFold(rec.Status, models.DefaultInitialStatus) {
		when, ok := parseWhen(rec.UpdatedAt)
		if !ok {
			when = now
		}
		events = append(events, models.ActivityEvent{
			ID:          SyntheticStatusChangeID,
			Kind:        models.KindStatusChange,
			OccurredAt:  when,
			DateUnknown: !ok,
			Title:       "Status changed to " + rec.Status,
			Actor:       n.dir.Resolve(ctx, rec.AssignedUserID),
			Metadata:    models.EventMetadata{Status: rec.Status},
		})
	}

	if rec.NextActionDate != "" {
		if when, ok := parseWhen(rec.NextActionDate); ok && when.After(now) {
			events = append(events, models.ActivityEvent{
				ID:         SyntheticNextActionID,
				Kind:       models.KindActivity,
				OccurredAt: when,
				Title:      "Upcoming action",
				Actor:      n.dir.Resolve(ctx, rec.AssignedUserID),
			})
		}
	}

	return events
}
