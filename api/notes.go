// ABOUTME: Notes API resource client
// ABOUTME: Lists, creates, updates, and deletes notes for a record
package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/harperreed/revline/models"
)

// ListNotes fetches the notes tied to any of the given record ids,
// filtered to notes whose foreign keys actually reference one of the ids.
func (c *Client) ListNotes(ctx context.Context, recordIDs []string, bust bool) ([]models.Note, error) {
	query := url.Values{}
	for _, id := range recordIDs {
		query.Add("record_id", id)
	}

	var resp struct {
		Notes []models.Note `json:"notes"`
	}
	if err := c.get(ctx, "/api/notes", query, bust, &resp); err != nil {
		return nil, err
	}

	var matched []models.Note
	for _, n := range resp.Notes {
		for _, id := range recordIDs {
			if n.BelongsTo(id) {
				matched = append(matched, n)
				break
			}
		}
	}
	return matched, nil
}

// CreateNote creates a note and returns the server's copy, which carries
// the authoritative id and timestamp.
func (c *Client) CreateNote(ctx context.Context, note models.Note) (*models.Note, error) {
	var created models.Note
	if err := c.send(ctx, http.MethodPost, "/api/notes", note, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateNote replaces the note's title and content.
func (c *Client) UpdateNote(ctx context.Context, note models.Note) error {
	return c.send(ctx, http.MethodPut, "/api/notes/"+note.ID, note, nil)
}

// DeleteNote removes a note by id.
func (c *Client) DeleteNote(ctx context.Context, noteID string) error {
	return c.send(ctx, http.MethodDelete, "/api/notes/"+noteID, nil, nil)
}
