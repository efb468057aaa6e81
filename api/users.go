// ABOUTME: User directory resource client
// ABOUTME: Resolves user ids to display names
package api

import (
	"context"

	"github.com/harperreed/revline/models"
)

// GetUser resolves a user id to a directory entry.
func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/api/users/"+userID, nil, false, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
