package equationconnect

import (
	"context"
	"log/slog"
)

// Operating modes accepted by SetDeviceMode.
const (
	ModeAuto   = "auto"
	ModeManual = "manual"
)

// DeviceData is the mutable state block of a device.
type DeviceData struct {
	Name  string  `json:"name,omitempty"`
	Power bool    `json:"power,omitempty"`
	Temp  float64 `json:"temp,omitempty"`
	Mode  string  `json:"mode,omitempty"`
}

// Device is a single radiator, towel rail, or thermostat.
type Device struct {
	// ID is the device's key under the devices node. The backend does not
	// embed it in the document; the client fills it in on reads.
	ID   string     `json:"id,omitempty"`
	Data DeviceData `json:"data,omitempty"`
}

// GetDevice returns a single device by ID. The database returns null for
// unknown paths, which is mapped to ErrNotFound.
func (c *Client) GetDevice(ctx context.Context, deviceID string) (*Device, error) {
	if deviceID == "" {
		return nil, ErrEmptyDeviceID
	}

	data, err := c.get(ctx, "devices/"+deviceID, nil)
	if err != nil {
		return nil, err
	}
	if isNullJSON(data) {
		return nil, ErrNotFound
	}

	device, err := unmarshalResponse[Device](data, "device")
	if err != nil {
		return nil, err
	}
	device.ID = deviceID

	return device, nil
}

// GetDevices returns every device reachable from the signed-in account's
// installations. Device documents that fail to load are skipped and logged,
// so one broken device does not hide the rest of the account.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	var ids []string
	for ref, err := range c.DeviceRefs(ctx) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, ref.DeviceID)
	}

	results := c.GetDevicesByID(ctx, ids, nil)

	devices := make([]Device, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			c.logSkippedDevice(ctx, r.DeviceID, r.Err)
			continue
		}
		devices = append(devices, *r.Device)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

// SetDevicePower turns a device on or off.
func (c *Client) SetDevicePower(ctx context.Context, deviceID string, on bool) error {
	if deviceID == "" {
		return ErrEmptyDeviceID
	}

	_, err := c.patch(ctx, "devices/"+deviceID+"/data", map[string]bool{"power": on})
	c.LogDeviceWrite(ctx, deviceID, "power", err)
	return err
}

// SetDeviceTemperature sets a device's target temperature in degrees
// Celsius.
func (c *Client) SetDeviceTemperature(ctx context.Context, deviceID string, temperature int) error {
	if deviceID == "" {
		return ErrEmptyDeviceID
	}

	_, err := c.patch(ctx, "devices/"+deviceID+"/data", map[string]int{"temp": temperature})
	c.LogDeviceWrite(ctx, deviceID, "temp", err)
	return err
}

// SetDeviceMode switches a device's operating mode, e.g. ModeAuto or
// ModeManual.
func (c *Client) SetDeviceMode(ctx context.Context, deviceID, mode string) error {
	if deviceID == "" {
		return ErrEmptyDeviceID
	}
	if mode == "" {
		return ErrEmptyMode
	}

	_, err := c.patch(ctx, "devices/"+deviceID+"/data", map[string]string{"mode": mode})
	c.LogDeviceWrite(ctx, deviceID, "mode", err)
	return err
}

// logSkippedDevice records a device dropped from a bulk read.
func (c *Client) logSkippedDevice(ctx context.Context, deviceID string, err error) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, "device_skipped",
		slog.String("device_id", deviceID),
		slog.String("error", err.Error()),
	)
}
