package equationconnect

import (
	"context"
	"encoding/json"
	"fmt"
)

// GetUserInfo returns the account record of the signed-in user. The record
// has no fixed schema, so it is returned as an Object and navigated with
// the Get* helpers.
func (c *Client) GetUserInfo(ctx context.Context) (Object, error) {
	uid := c.UserID()
	if uid == "" {
		return nil, ErrNotAuthenticated
	}

	data, err := c.get(ctx, "users/"+uid, nil)
	if err != nil {
		return nil, err
	}
	if isNullJSON(data) {
		return nil, ErrNotFound
	}

	var user Object
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w (body: %s)", err, truncatePreview(data))
	}

	return user, nil
}
