package equationconnect

import "context"

// Zone is a named group of devices within an installation. Devices maps
// device IDs to a presence flag; entries flagged false are stale references
// the backend has not cleaned up.
type Zone struct {
	Name    string          `json:"name,omitempty"`
	Devices map[string]bool `json:"devices,omitempty"`
}

// GetZone returns a single zone of an installation. The database returns
// null for unknown paths, which is mapped to ErrNotFound.
func (c *Client) GetZone(ctx context.Context, installationID, zoneID string) (*Zone, error) {
	if installationID == "" {
		return nil, ErrEmptyInstallationID
	}
	if zoneID == "" {
		return nil, ErrEmptyZoneID
	}

	data, err := c.get(ctx, installationsPath+"/"+installationID+"/zones/"+zoneID, nil)
	if err != nil {
		return nil, err
	}
	if isNullJSON(data) {
		return nil, ErrNotFound
	}

	return unmarshalResponse[Zone](data, "zone")
}
