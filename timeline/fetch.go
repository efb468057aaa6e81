// ABOUTME: Remote fetch coordinator for a record's actions and notes
// ABOUTME: Runs per-resource calls concurrently with per-call failure isolation
package timeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/harperreed/revline/models"
)

// Backend is the remote API surface the engine consumes. *api.Client
// satisfies it; tests supply fakes.
type Backend interface {
	GetRecord(ctx context.Context, recordType models.RecordType, recordID string) (*models.Record, error)
	ListRelated(ctx context.Context, recordID string, bust bool) ([]models.Record, error)
	ListActions(ctx context.Context, recordIDs []string, bust bool) ([]models.Action, error)
	ListNotes(ctx context.Context, recordIDs []string, bust bool) ([]models.Note, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	CreateNote(ctx context.Context, note models.Note) (*models.Note, error)
	UpdateNote(ctx context.Context, note models.Note) error
	DeleteNote(ctx context.Context, noteID string) error
	DeleteAction(ctx context.Context, actionID string) error
}

// fetchResult carries the outcome of one coordinated remote fetch. Each
// call fails independently; a nil error with an empty slice means the call
// degraded.
type fetchResult struct {
	actions    []models.Action
	notes      []models.Note
	actionsErr error
	notesErr   error
	relatedErr error
}

func (r fetchResult) errs() []error {
	var out []error
	for _, err := range []error{r.relatedErr, r.actionsErr, r.notesErr} {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

// fetchRemote issues the minimal set of calls for the record: the related
// sub-record lookup first for aggregate types (its ids widen the
// foreign-key filter), then actions and notes concurrently. A failed call
// degrades to an empty result; nothing here returns an error.
func (e *Engine) fetchRemote(ctx context.Context, bust bool) fetchResult {
	var res fetchResult

	recordIDs := []string{e.recordID}
	if e.recordType.IsAggregate() {
		related, err := e.backend.ListRelated(ctx, e.recordID, bust)
		if err != nil {
			res.relatedErr = err
		} else {
			for _, r := range related {
				if r.ID != "" && r.ID != e.recordID {
					recordIDs = append(recordIDs, r.ID)
				}
			}
		}
	}

	// The group only provides the joint wait; each call keeps its error to
	// itself so one rejection cannot abort the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.actions, res.actionsErr = e.backend.ListActions(gctx, recordIDs, bust)
		return nil
	})
	g.Go(func() error {
		res.notes, res.notesErr = e.backend.ListNotes(gctx, recordIDs, bust)
		return nil
	})
	_ = g.Wait()

	return res
}
