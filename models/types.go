// ABOUTME: Data models for the activity timeline engine
// ABOUTME: Defines ActivityEvent, cache entries, and raw API record shapes
package models

import (
	"strings"
	"time"
)

// EventKind classifies a timeline event.
type EventKind string

const (
	KindCreated      EventKind = "created"
	KindActivity     EventKind = "activity"
	KindNote         EventKind = "note"
	KindEmail        EventKind = "email"
	KindCall         EventKind = "call"
	KindMeeting      EventKind = "meeting"
	KindStatusChange EventKind = "status_change"
	KindFieldUpdate  EventKind = "field_update"
	KindUpdated      EventKind = "updated"
)

// EventMetadata carries free-form attributes copied from the source record.
type EventMetadata struct {
	Type            string `json:"type,omitempty"`
	Status          string `json:"status,omitempty"`
	Priority        string `json:"priority,omitempty"`
	Outcome         string `json:"outcome,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	IsFirstAction   bool   `json:"is_first_action,omitempty"`
	CreatedBy       string `json:"created_by,omitempty"`
}

// ActivityEvent is the canonical unit of a record's timeline. Events are
// owned by exactly one record's timeline and never shared across records.
type ActivityEvent struct {
	ID          string        `json:"id"`
	Kind        EventKind     `json:"kind"`
	OccurredAt  time.Time     `json:"occurred_at"`
	DateUnknown bool          `json:"date_unknown,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Content     string        `json:"content,omitempty"`
	Actor       string        `json:"actor"`
	Metadata    EventMetadata `json:"metadata,omitempty"`
}

// CacheEntry is the unit stored in the local cache, keyed by record id.
// An entry is only usable while its timestamp is within the caller's TTL
// and its version matches the current schema version.
type CacheEntry struct {
	RecordID   string          `json:"record_id"`
	Activities []ActivityEvent `json:"activities"`
	Notes      []ActivityEvent `json:"notes"`
	Timestamp  int64           `json:"timestamp"` // epoch milliseconds
	Version    string          `json:"version"`
}

// RecordType identifies the kind of business record a timeline belongs to.
type RecordType string

const (
	RecordLead        RecordType = "lead"
	RecordContact     RecordType = "contact"
	RecordOpportunity RecordType = "opportunity"
	RecordCompany     RecordType = "company"
)

// IsAggregate reports whether the record type implicitly includes
// sub-records (a company includes its people), requiring an extra
// related-records fetch.
func (t RecordType) IsAggregate() bool {
	return t == RecordCompany
}

// ParseRecordType normalizes a user-supplied record type string.
func ParseRecordType(s string) (RecordType, bool) {
	switch RecordType(strings.ToLower(strings.TrimSpace(s))) {
	case RecordLead:
		return RecordLead, true
	case RecordContact:
		return RecordContact, true
	case RecordOpportunity:
		return RecordOpportunity, true
	case RecordCompany:
		return RecordCompany, true
	}
	return "", false
}

// DefaultInitialStatus is the status a freshly created record carries;
// a status_change synthetic event is only emitted once the status has
// moved off this value.
const DefaultInitialStatus = "new"

// Record is the wire shape of a business record as returned by the record
// data API. Date fields stay strings so a malformed value from the server
// degrades to a flagged event instead of a failed decode.
type Record struct {
	ID             string     `json:"id"`
	Type           RecordType `json:"type"`
	Name           string     `json:"name,omitempty"`
	Status         string     `json:"status,omitempty"`
	CreatedAt      string     `json:"created_at,omitempty"`
	UpdatedAt      string     `json:"updated_at,omitempty"`
	LastActionDate string     `json:"last_action_date,omitempty"`
	NextActionDate string     `json:"next_action_date,omitempty"`
	AssignedUserID string     `json:"assigned_user_id,omitempty"`
	CreatedBy      string     `json:"created_by,omitempty"`
}

// Action is the wire shape of an action/activity record from the actions
// API. Foreign keys are sparse; any one of them may tie the action to a
// record.
type Action struct {
	ID              string `json:"id"`
	Type            string `json:"type,omitempty"`
	Status          string `json:"status,omitempty"`
	Priority        string `json:"priority,omitempty"`
	Outcome         string `json:"outcome,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Subject         string `json:"subject,omitempty"`
	Description     string `json:"description,omitempty"`
	UserID          string `json:"user_id,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	CompletedAt     string `json:"completed_at,omitempty"`

	PersonID      string `json:"person_id,omitempty"`
	CompanyID     string `json:"company_id,omitempty"`
	LeadID        string `json:"lead_id,omitempty"`
	OpportunityID string `json:"opportunity_id,omitempty"`
	ContactID     string `json:"contact_id,omitempty"`
	AccountID     string `json:"account_id,omitempty"`
}

// BelongsTo reports whether any of the action's foreign keys reference the
// given record id.
func (a Action) BelongsTo(recordID string) bool {
	for _, fk := range []string{a.PersonID, a.CompanyID, a.LeadID, a.OpportunityID, a.ContactID, a.AccountID} {
		if fk != "" && fk == recordID {
			return true
		}
	}
	return false
}

// Note is the wire shape of a note from the notes API.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content,omitempty"`
	AuthorID  string `json:"author_id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Priority  string `json:"priority,omitempty"`
	IsPrivate bool   `json:"is_private,omitempty"`

	PersonID      string `json:"person_id,omitempty"`
	CompanyID     string `json:"company_id,omitempty"`
	LeadID        string `json:"lead_id,omitempty"`
	OpportunityID string `json:"opportunity_id,omitempty"`
	ContactID     string `json:"contact_id,omitempty"`
	AccountID     string `json:"account_id,omitempty"`
}

// BelongsTo reports whether any of the note's foreign keys reference the
// given record id.
func (n Note) BelongsTo(recordID string) bool {
	for _, fk := range []string{n.PersonID, n.CompanyID, n.LeadID, n.OpportunityID, n.ContactID, n.AccountID} {
		if fk != "" && fk == recordID {
			return true
		}
	}
	return false
}

// User is a directory entry resolved from a user id.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// TimeBucket labels a group of events in the bucketed timeline view.
type TimeBucket string

const (
	BucketToday     TimeBucket = "Today"
	BucketYesterday TimeBucket = "Yesterday"
	BucketThisWeek  TimeBucket = "This Week"
	BucketLastWeek  TimeBucket = "Last Week"
	BucketThisMonth TimeBucket = "This Month"
	BucketEarlier   TimeBucket = "Earlier"
)

// BucketOrder is the fixed evaluation and display order for time buckets;
// the first matching bucket wins during classification.
var BucketOrder = []TimeBucket{
	BucketToday,
	BucketYesterday,
	BucketThisWeek,
	BucketLastWeek,
	BucketThisMonth,
	BucketEarlier,
}

// BucketedEvents pairs a bucket label with its events, each bucket sorted
// newest first. Buckets with zero events are omitted entirely.
type BucketedEvents struct {
	Bucket TimeBucket      `json:"bucket"`
	Events []ActivityEvent `json:"events"`
}
