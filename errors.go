package equationconnect

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Sentinel errors returned by the Equation Connect client.
// All errors are defined here for easy discovery and consistent organization.
var (
	// Authentication errors
	ErrNotAuthenticated = errors.New("equationconnect: not authenticated (call Authenticate first)")
	ErrEmptyEmail       = errors.New("equationconnect: email cannot be empty")
	ErrEmptyPassword    = errors.New("equationconnect: password cannot be empty")

	// Resource errors
	ErrNotFound = errors.New("equationconnect: resource not found")

	// Device validation errors
	ErrEmptyDeviceID = errors.New("equationconnect: device ID cannot be empty")
	ErrEmptyMode     = errors.New("equationconnect: mode cannot be empty")

	// Installation/zone validation errors
	ErrEmptyInstallationID = errors.New("equationconnect: installation ID cannot be empty")
	ErrEmptyZoneID         = errors.New("equationconnect: zone ID cannot be empty")
)

// AuthError represents a rejected credential operation against the identity
// provider, either the initial sign-in or a token refresh.
type AuthError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("equationconnect: auth error %d: %s", e.StatusCode, e.Message)
}

// APIError represents an error response from the database backend.
type APIError struct {
	StatusCode int
	Message    string
	Path       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("equationconnect: API error %d: %s (path: %s)", e.StatusCode, e.Message, e.Path)
	}
	return fmt.Sprintf("equationconnect: API error %d: %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if the error came from the identity provider or
// from calling the client before Authenticate succeeded.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrNotAuthenticated) {
		return true
	}
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsUnauthorized returns true if the error indicates the backend rejected the
// request's credentials. The database answers 401 both for expired tokens and
// for reads outside the caller's security rules.
func IsUnauthorized(err error) bool {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.StatusCode == 401 || authErr.StatusCode == 400
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}

// IsNotFound returns true if the error indicates the resource was not found.
// The database reports missing paths as a null value rather than a 404, so
// this is normally the ErrNotFound sentinel mapped by the typed getters.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsTransportError returns true if the request failed before an HTTP status
// was received: connection failures, timeouts, malformed response bodies, and
// cancelled contexts. Backend and identity-provider rejections are not
// transport errors.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
