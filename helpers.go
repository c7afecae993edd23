package equationconnect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Object is a decoded JSON subtree of the database. Reads without a fixed
// schema, like the account's user record, are returned as Objects and
// navigated with the Get* helpers.
type Object map[string]any

// unmarshalResponse unmarshals JSON data with consistent error formatting.
// This helper reduces boilerplate across all API response parsing.
func unmarshalResponse[T any](data []byte, resourceName string) (*T, error) {
	var resp T
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w (body: %s)", resourceName, err, truncatePreview(data))
	}
	return &resp, nil
}

// truncatePreview returns a truncated string for error messages.
func truncatePreview(data []byte) string {
	s := string(data)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}

// jsonQuote renders a value as a JSON string literal, the form the backend
// requires for filter parameters.
func jsonQuote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

// isNullJSON reports whether a response body is the null value the database
// returns for paths that have no data.
func isNullJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// GetString navigates a nested object and returns a string value.
// Returns the value and true if found, or empty string and false if not.
//
// Example:
//
//	// Extract: user["data"]["name"]
//	name, ok := GetString(user, "data", "name")
func GetString(data map[string]any, keys ...string) (string, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// GetInt navigates a nested object and returns an int value.
// Handles JSON's float64 representation of numbers.
// Returns false if the value is outside the valid int range.
//
// Example:
//
//	// Extract: device["data"]["temp"]
//	temp, ok := GetInt(device, "data", "temp")
func GetInt(data map[string]any, keys ...string) (int, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		// float64(math.MaxInt) rounds up to 2^63, which already overflows,
		// so the bound itself must be rejected too.
		if v >= float64(math.MaxInt) || v < float64(math.MinInt) || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		// Check for overflow on 32-bit systems
		if v > int64(math.MaxInt) || v < int64(math.MinInt) {
			return 0, false
		}
		return int(v), true
	default:
		return 0, false
	}
}

// GetFloat navigates a nested object and returns a float64 value.
//
// Example:
//
//	// Extract: device["data"]["temp_probe"]
//	probe, ok := GetFloat(device, "data", "temp_probe")
func GetFloat(data map[string]any, keys ...string) (float64, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// GetBool navigates a nested object and returns a bool value.
//
// Example:
//
//	// Extract: device["data"]["power"]
//	isOn, ok := GetBool(device, "data", "power")
func GetBool(data map[string]any, keys ...string) (bool, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// GetMap navigates a nested object and returns a map[string]any value.
//
// Example:
//
//	// Extract: installation["zones"]
//	zones, ok := GetMap(installation, "zones")
func GetMap(data map[string]any, keys ...string) (map[string]any, bool) {
	val, ok := navigate(data, keys)
	if !ok {
		return nil, false
	}
	m, ok := val.(map[string]any)
	return m, ok
}

// GetStringEquals checks if a nested string value equals the expected value.
//
// Example:
//
//	// Check: device["data"]["mode"] == "auto"
//	isAuto := GetStringEquals(device, "auto", "data", "mode")
func GetStringEquals(data map[string]any, expected string, keys ...string) bool {
	val, ok := GetString(data, keys...)
	return ok && val == expected
}

// navigate walks through a nested map following the provided keys.
// Returns the final value and true if successful, or nil and false if any key is missing.
func navigate(data map[string]any, keys []string) (any, bool) {
	if len(keys) == 0 {
		return data, true
	}

	current := data
	for i, key := range keys {
		val, exists := current[key]
		if !exists {
			return nil, false
		}

		// If this is the last key, return the value
		if i == len(keys)-1 {
			return val, true
		}

		// Otherwise, the value must be a map to continue navigating
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}

	return nil, false
}

// CelsiusToFahrenheit converts Celsius to Fahrenheit.
// Returns 0 if the input is NaN, Inf, or would overflow int range.
// Device temperatures are stored in Celsius; this helps callers present
// them in Fahrenheit.
func CelsiusToFahrenheit(celsius float64) int {
	if math.IsNaN(celsius) || math.IsInf(celsius, 0) {
		return 0
	}
	result := celsius*9/5 + 32
	if result > float64(math.MaxInt32) || result < float64(math.MinInt32) {
		return 0
	}
	return int(result)
}

// FahrenheitToCelsius converts Fahrenheit to Celsius.
func FahrenheitToCelsius(fahrenheit int) float64 {
	return float64(fahrenheit-32) * 5 / 9
}
