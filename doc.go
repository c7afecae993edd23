// Package equationconnect provides a Go client library for the Equation
// Connect backend used by Equation and Rointe electric heating devices.
//
// The library signs in with the account's email and password, keeps the
// session's ID token fresh across its one hour lifetime, and exposes the
// account topology (installations, zones, devices) plus the device state
// writes the mobile apps perform.
//
// # Authentication
//
// Clients authenticate once with email and password; every later request
// reuses the session and refreshes its token transparently:
//
//	client, err := equationconnect.NewClient("user@example.com", "password")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := client.Authenticate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Basic Usage
//
// List all devices in the account:
//
//	devices, err := client.GetDevices(ctx)
//	for _, device := range devices {
//	    fmt.Printf("Device: %s (%s)\n", device.Data.Name, device.ID)
//	}
//
// Or stream them without loading everything up front:
//
//	for device, err := range client.Devices(ctx) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(device.Data.Name)
//	}
//
// Change device state:
//
//	err := client.SetDevicePower(ctx, deviceID, true)
//	err = client.SetDeviceTemperature(ctx, deviceID, 21)
//	err = client.SetDeviceMode(ctx, deviceID, equationconnect.ModeAuto)
//
// # Error Handling
//
// Check for specific error types:
//
//	device, err := client.GetDevice(ctx, deviceID)
//	if err != nil {
//	    if equationconnect.IsAuthError(err) {
//	        // Credentials were rejected or Authenticate was never called
//	    } else if equationconnect.IsNotFound(err) {
//	        // Device doesn't exist
//	    } else if equationconnect.IsTransportError(err) {
//	        // Network-level failure, no HTTP status was received
//	    }
//	}
//
// # Logging
//
// Pass a slog.Logger to observe requests, responses, and token refreshes.
// Credential-bearing query parameters are redacted before logging:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	client, err := equationconnect.NewClient(email, password,
//	    equationconnect.WithLogger(logger),
//	)
//
// # API Coverage
//
// The library covers the backend surface the vendor apps use:
//
//   - Sign-in and transparent ID token refresh
//   - User: account record of the signed-in user
//   - Installations: list the account's installations with their zones
//   - Zones: read a single zone
//   - Devices: read one or all devices, set power, temperature, and mode
//   - Batch: concurrent device reads and power writes
package equationconnect
