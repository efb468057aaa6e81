// ABOUTME: Actions API resource client
// ABOUTME: Lists actions for a record and deletes actions by id
package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/harperreed/revline/models"
)

// housekeepingTypes are synthetic server-side action types that carry no
// business meaning and are excluded from the timeline.
var housekeepingTypes = map[string]bool{
	"record updated":   true,
	"record_updated":   true,
	"system":           true,
	"auto_save":        true,
	"field_recomputed": true,
}

// ListActions fetches the actions tied to any of the given record ids.
// Results are filtered to actions whose foreign keys actually reference
// one of the ids, then stripped of housekeeping types.
func (c *Client) ListActions(ctx context.Context, recordIDs []string, bust bool) ([]models.Action, error) {
	query := url.Values{}
	for _, id := range recordIDs {
		query.Add("record_id", id)
	}

	var resp struct {
		Actions []models.Action `json:"actions"`
	}
	if err := c.get(ctx, "/api/actions", query, bust, &resp); err != nil {
		return nil, err
	}

	var matched []models.Action
	for _, a := range resp.Actions {
		if !belongsToAny(a, recordIDs) {
			continue
		}
		if housekeepingTypes[normalizeType(a.Type)] {
			continue
		}
		matched = append(matched, a)
	}
	return matched, nil
}

// DeleteAction removes an action by id.
func (c *Client) DeleteAction(ctx context.Context, actionID string) error {
	return c.send(ctx, http.MethodDelete, "/api/actions/"+actionID, nil, nil)
}

func normalizeType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func belongsToAny(a models.Action, recordIDs []string) bool {
	for _, id := range recordIDs {
		if a.BelongsTo(id) {
			return true
		}
	}
	return false
}
