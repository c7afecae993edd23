package equationconnect

import (
	"encoding/json"
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzJSONQuote fuzzes filter parameter quoting.
// Run with: go test -fuzz=FuzzJSONQuote
func FuzzJSONQuote(f *testing.F) {
	// Add seed corpus
	f.Add("userid")
	f.Add("")
	f.Add(`va"lue`)
	f.Add("uid-123")
	f.Add("line\nbreak")

	f.Fuzz(func(t *testing.T, s string) {
		if !utf8.ValidString(s) {
			t.Skip("invalid UTF-8 input")
		}

		quoted := jsonQuote(s)

		// The backend parses filter values as JSON string literals, so the
		// round trip must recover the original value.
		var back string
		if err := json.Unmarshal([]byte(quoted), &back); err != nil {
			t.Fatalf("jsonQuote(%q) produced invalid JSON %q: %v", s, quoted, err)
		}
		if back != s {
			t.Errorf("round trip = %q, want %q", back, s)
		}
	})
}

// FuzzTokenLifetime fuzzes lifetime parsing of provider payloads.
// Run with: go test -fuzz=FuzzTokenLifetime
func FuzzTokenLifetime(f *testing.F) {
	f.Add("3600")
	f.Add("")
	f.Add("-1")
	f.Add("abc")
	f.Add("0")
	f.Add("99999999999999999999")

	f.Fuzz(func(t *testing.T, raw string) {
		// Whatever the provider sends, the lifetime must stay positive.
		if d := tokenLifetime(raw); d <= 0 {
			t.Errorf("tokenLifetime(%q) = %v, want positive", raw, d)
		}
	})
}

// FuzzHandleError fuzzes database error response handling.
// Run with: go test -fuzz=FuzzHandleError
func FuzzHandleError(f *testing.F) {
	client, err := NewClient(testEmail, testPassword)
	if err != nil {
		f.Fatalf("NewClient failed: %v", err)
	}

	f.Add(401, []byte(`{"error":"Permission denied"}`))
	f.Add(500, []byte(``))
	f.Add(404, []byte(`null`))
	f.Add(418, []byte(`{"error":{"nested":"shape"}}`))

	f.Fuzz(func(t *testing.T, statusCode int, body []byte) {
		got := client.handleError(statusCode, body, "devices/dev-1")

		var apiErr *APIError
		if !errors.As(got, &apiErr) {
			t.Fatalf("handleError returned %T, want *APIError", got)
		}
		if apiErr.StatusCode != statusCode {
			t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, statusCode)
		}
	})
}

// FuzzAuthErrorMessage fuzzes identity provider error extraction.
// Run with: go test -fuzz=FuzzAuthErrorMessage
func FuzzAuthErrorMessage(f *testing.F) {
	f.Add([]byte(`{"error":{"message":"INVALID_PASSWORD"}}`))
	f.Add([]byte(``))
	f.Add([]byte(`{"error":"flat"}`))
	f.Add([]byte(`{"error":{"message":""}}`))

	f.Fuzz(func(t *testing.T, body []byte) {
		// Should not panic
		_ = authErrorMessage(body)
	})
}

// FuzzDeviceParsing fuzzes device document unmarshaling.
// Run with: go test -fuzz=FuzzDeviceParsing
func FuzzDeviceParsing(f *testing.F) {
	f.Add([]byte(`{"data":{"name":"Heater","power":true,"temp":21.5,"mode":"auto"}}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"data":{"temp":"not a number"}}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var device Device
		// Should not panic - errors are acceptable
		_ = json.Unmarshal(data, &device)
	})
}

// FuzzObjectNavigation fuzzes the nested object helpers.
// Run with: go test -fuzz=FuzzObjectNavigation
func FuzzObjectNavigation(f *testing.F) {
	f.Add([]byte(`{"name":"Home","zones":{"zone-1":{"devices":{"dev-1":true}}}}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"data":{"power":true,"temp":21,"mode":"auto"}}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		var obj Object
		if err := json.Unmarshal(data, &obj); err != nil {
			return // Invalid JSON is acceptable
		}

		// Exercise the helper functions - should not panic
		for key := range obj {
			if m, ok := GetMap(obj, key); ok {
				for sub := range m {
					_, _ = GetString(m, sub)
					_, _ = GetInt(m, sub)
					_, _ = GetFloat(m, sub)
					_, _ = GetBool(m, sub)
				}
			}
		}
	})
}
