package equationconnect

import (
	"context"
	"encoding/json"
	"fmt"
)

// installationsPath is the top-level node holding installation documents.
// The current schema lives under the installations2 node.
const installationsPath = "installations2"

// Installation is a site-level grouping of zones tied to one account.
type Installation struct {
	Name   string          `json:"name,omitempty"`
	UserID string          `json:"userid,omitempty"`
	Zones  map[string]Zone `json:"zones,omitempty"`
}

// GetInstallations returns the signed-in user's installations keyed by
// installation ID. The read is filtered server-side on the userid index.
// An account with no installations gets an empty, non-nil map.
func (c *Client) GetInstallations(ctx context.Context) (map[string]Installation, error) {
	uid := c.UserID()
	if uid == "" {
		return nil, ErrNotAuthenticated
	}

	data, err := c.get(ctx, installationsPath, &Filter{OrderBy: "userid", EqualTo: uid})
	if err != nil {
		return nil, err
	}

	installations := make(map[string]Installation)
	if isNullJSON(data) {
		return installations, nil
	}
	if err := json.Unmarshal(data, &installations); err != nil {
		return nil, fmt.Errorf("failed to parse installations: %w (body: %s)", err, truncatePreview(data))
	}

	return installations, nil
}
