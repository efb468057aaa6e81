// ABOUTME: Timeline error sentinels and transient user-facing notices
// ABOUTME: Maps fetch failures to non-fatal notices with distinct auth messaging
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/revline/api"
)

var (
	// ErrDeleteNotConfirmed is returned when a delete is dispatched without
	// the caller first confirming intent.
	ErrDeleteNotConfirmed = errors.New("delete requires confirmed intent")

	// ErrSyntheticEvent is returned when a mutation targets a synthetic
	// event, which has no backing API entity.
	ErrSyntheticEvent = errors.New("synthetic events cannot be mutated")

	// ErrEventNotFound is returned when a mutation targets an id absent
	// from the in-memory timeline.
	ErrEventNotFound = errors.New("event not found in timeline")

	// ErrClosed is returned when an operation races with Close.
	ErrClosed = errors.New("timeline is closed")
)

// Notice is a transient, non-fatal message for the user. Callers decide
// how long to display it; At lets them expire notices after a fixed
// interval.
type Notice struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// noticeFor converts a degraded fetch call into a user-facing notice.
// Authentication failures get a distinct message.
func noticeFor(call string, err error, at time.Time) Notice {
	if api.IsAuthError(err) {
		return Notice{
			Message: fmt.Sprintf("You don't have access to %s for this record", call),
			At:      at,
		}
	}
	return Notice{
		Message: fmt.Sprintf("Couldn't load %s; showing what we have", call),
		At:      at,
	}
}
