// ABOUTME: Record data API resource client
// ABOUTME: Fetches business records and the sub-records of aggregate types
package api

import (
	"context"
	"net/url"

	"github.com/harperreed/revline/models"
)

// GetRecord fetches a business record by type and id.
func (c *Client) GetRecord(ctx context.Context, recordType models.RecordType, recordID string) (*models.Record, error) {
	var record models.Record
	if err := c.get(ctx, "/api/"+string(recordType)+"s/"+recordID, nil, false, &record); err != nil {
		return nil, err
	}
	if record.Type == "" {
		record.Type = recordType
	}
	return &record, nil
}

// ListRelated fetches the sub-records of an aggregate record (the people
// belonging to a company). Only their ids matter to the timeline; they
// widen the foreign-key filter for actions and notes.
func (c *Client) ListRelated(ctx context.Context, recordID string, bust bool) ([]models.Record, error) {
	query := url.Values{}
	query.Set("company_id", recordID)

	var resp struct {
		Records []models.Record `json:"records"`
	}
	if err := c.get(ctx, "/api/contacts", query, bust, &resp); err != nil {
		return nil, err
	}
	return resp.Records, nil
}
