package equationconnect

import (
	"context"
	"iter"
	"sort"
)

// DeviceRef locates a device within the account topology.
type DeviceRef struct {
	InstallationID string
	ZoneID         string
	DeviceID       string
}

// DeviceRefs returns an iterator over the account's device references in
// installation, zone, device order. IDs are visited in lexical order, so a
// walk over an unchanged account is deterministic. Zone entries flagged
// false are skipped.
// Stops iteration early if an error occurs or the context is cancelled.
func (c *Client) DeviceRefs(ctx context.Context) iter.Seq2[DeviceRef, error] {
	return func(yield func(DeviceRef, error) bool) {
		select {
		case <-ctx.Done():
			yield(DeviceRef{}, ctx.Err())
			return
		default:
		}

		installations, err := c.GetInstallations(ctx)
		if err != nil {
			yield(DeviceRef{}, err)
			return
		}

		for _, instID := range sortedKeys(installations) {
			inst := installations[instID]
			for _, zoneID := range sortedKeys(inst.Zones) {
				zone := inst.Zones[zoneID]
				for _, deviceID := range sortedKeys(zone.Devices) {
					if !zone.Devices[deviceID] {
						continue
					}
					ref := DeviceRef{
						InstallationID: instID,
						ZoneID:         zoneID,
						DeviceID:       deviceID,
					}
					if !yield(ref, nil) {
						return // caller stopped iteration
					}
				}
			}
		}
	}
}

// Devices returns an iterator over the account's devices, fetching each
// device document as the caller advances. Devices that disappeared between
// the topology read and their fetch are skipped.
// Stops iteration early if an error occurs or the context is cancelled.
func (c *Client) Devices(ctx context.Context) iter.Seq2[Device, error] {
	return func(yield func(Device, error) bool) {
		for ref, err := range c.DeviceRefs(ctx) {
			if err != nil {
				yield(Device{}, err)
				return
			}

			select {
			case <-ctx.Done():
				yield(Device{}, ctx.Err())
				return
			default:
			}

			device, err := c.GetDevice(ctx, ref.DeviceID)
			if err != nil {
				if IsNotFound(err) {
					continue
				}
				yield(Device{}, err)
				return
			}

			if !yield(*device, nil) {
				return // caller stopped iteration
			}
		}
	}
}

// sortedKeys returns a map's keys in lexical order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
