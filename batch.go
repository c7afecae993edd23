package equationconnect

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchConfig configures concurrent bulk operations.
type BatchConfig struct {
	// MaxConcurrent is the maximum number of concurrent API calls.
	// Defaults to 10 if not specified.
	MaxConcurrent int
}

// DefaultBatchConfig returns sensible defaults for bulk operations.
func DefaultBatchConfig() *BatchConfig {
	return &BatchConfig{
		MaxConcurrent: 10,
	}
}

// DeviceResult contains the outcome of fetching a single device.
type DeviceResult struct {
	DeviceID string  // The requested device ID
	Device   *Device // nil if the fetch failed
	Err      error   // Error if the fetch failed, nil on success
}

// GetDevicesByID fetches multiple devices concurrently. The returned slice
// has one entry per requested ID, in the same order as deviceIDs, each
// carrying either the device or the error that kept it from loading.
//
// Example:
//
//	results := client.GetDevicesByID(ctx, []string{"dev1", "dev2"}, nil)
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("device %s failed: %v", r.DeviceID, r.Err)
//	    }
//	}
func (c *Client) GetDevicesByID(ctx context.Context, deviceIDs []string, cfg *BatchConfig) []DeviceResult {
	if len(deviceIDs) == 0 {
		return nil
	}

	if cfg == nil {
		cfg = DefaultBatchConfig()
	}
	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = 10
	}

	results := make([]DeviceResult, len(deviceIDs))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, deviceID := range deviceIDs {
		select {
		case <-ctx.Done():
			results[i] = DeviceResult{DeviceID: deviceID, Err: ctx.Err()}
			continue
		default:
		}

		g.Go(func() error {
			device, err := c.GetDevice(ctx, deviceID)
			results[i] = DeviceResult{DeviceID: deviceID, Device: device, Err: err}
			return nil
		})
	}

	// Per-device failures ride in results; workers never fail the group.
	_ = g.Wait()

	return results
}

// WriteResult contains the outcome of a single device write.
type WriteResult struct {
	DeviceID string // The target device ID
	Err      error  // Error if the write failed, nil on success
}

// SetPowerBatch turns multiple devices on or off concurrently. The returned
// slice has one entry per requested ID, in the same order as deviceIDs.
//
// Example:
//
//	// Switch off every radiator in the account.
//	devices, _ := client.GetDevices(ctx)
//	ids := make([]string, 0, len(devices))
//	for _, d := range devices {
//	    ids = append(ids, d.ID)
//	}
//	results := client.SetPowerBatch(ctx, ids, false, nil)
func (c *Client) SetPowerBatch(ctx context.Context, deviceIDs []string, on bool, cfg *BatchConfig) []WriteResult {
	if len(deviceIDs) == 0 {
		return nil
	}

	if cfg == nil {
		cfg = DefaultBatchConfig()
	}
	limit := cfg.MaxConcurrent
	if limit <= 0 {
		limit = 10
	}

	results := make([]WriteResult, len(deviceIDs))

	var g errgroup.Group
	g.SetLimit(limit)

	for i, deviceID := range deviceIDs {
		select {
		case <-ctx.Done():
			results[i] = WriteResult{DeviceID: deviceID, Err: ctx.Err()}
			continue
		default:
		}

		g.Go(func() error {
			results[i] = WriteResult{DeviceID: deviceID, Err: c.SetDevicePower(ctx, deviceID, on)}
			return nil
		})
	}

	_ = g.Wait()

	return results
}
