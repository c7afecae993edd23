package equationconnect

import (
	"context"
	"iter"
	"time"
)

// EquationClient defines the interface for Equation Connect operations.
// Client implements this interface, enabling mocking for tests.
type EquationClient interface {
	// ============================================================================
	// Session Operations
	// ============================================================================

	Authenticate(ctx context.Context) error
	Session() *Session
	UserID() string

	// ============================================================================
	// User Operations
	// ============================================================================

	GetUserInfo(ctx context.Context) (Object, error)

	// ============================================================================
	// Installation and Zone Operations
	// ============================================================================

	GetInstallations(ctx context.Context) (map[string]Installation, error)
	GetZone(ctx context.Context, installationID, zoneID string) (*Zone, error)

	// ============================================================================
	// Device Operations
	// ============================================================================

	GetDevice(ctx context.Context, deviceID string) (*Device, error)
	GetDevices(ctx context.Context) ([]Device, error)
	SetDevicePower(ctx context.Context, deviceID string, on bool) error
	SetDeviceTemperature(ctx context.Context, deviceID string, temperature int) error
	SetDeviceMode(ctx context.Context, deviceID, mode string) error
	DeviceRefs(ctx context.Context) iter.Seq2[DeviceRef, error]
	Devices(ctx context.Context) iter.Seq2[Device, error]

	// ============================================================================
	// Batch Operations
	// ============================================================================

	GetDevicesByID(ctx context.Context, deviceIDs []string, cfg *BatchConfig) []DeviceResult
	SetPowerBatch(ctx context.Context, deviceIDs []string, on bool, cfg *BatchConfig) []WriteResult

	// ============================================================================
	// Logging Operations
	// ============================================================================

	LogRequest(ctx context.Context, requestID, method, path string)
	LogResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration, err error)
	LogAuthEvent(ctx context.Context, op string, expiresAt time.Time, err error)
	LogDeviceWrite(ctx context.Context, deviceID, field string, err error)
}

// Ensure Client implements EquationClient at compile time.
var _ EquationClient = (*Client)(nil)
