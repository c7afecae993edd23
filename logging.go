package equationconnect

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// WithLogger configures a structured logger for the client.
// When set, the client will log API requests, responses, and token
// lifecycle events.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	client, _ := ec.NewClient(email, password, ec.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// redactURL strips credential-bearing query parameters before logging. The
// auth parameter carries the caller's ID token and must never reach logs.
func redactURL(u *url.URL) string {
	q := u.Query()
	if q.Has("auth") {
		q.Set("auth", "REDACTED")
	}
	if q.Has("key") {
		q.Set("key", "REDACTED")
	}
	r := *u
	r.RawQuery = q.Encode()
	return r.String()
}

// LoggingTransport wraps an http.RoundTripper and logs requests/responses.
// Query parameters carrying credentials are redacted.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger *slog.Logger
}

// RoundTrip implements http.RoundTripper with logging.
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	if t.Logger != nil {
		t.Logger.LogAttrs(req.Context(), slog.LevelDebug, "api_request",
			slog.String("method", req.Method),
			slog.String("url", redactURL(req.URL)),
		)
	}

	resp, err := t.Base.RoundTrip(req)
	duration := time.Since(start)

	if t.Logger != nil {
		if err != nil {
			t.Logger.LogAttrs(req.Context(), slog.LevelError, "api_error",
				slog.String("method", req.Method),
				slog.String("url", redactURL(req.URL)),
				slog.Duration("duration", duration),
				slog.String("error", err.Error()),
			)
		} else {
			level := slog.LevelDebug
			if resp.StatusCode >= 400 {
				level = slog.LevelWarn
			}
			if resp.StatusCode >= 500 {
				level = slog.LevelError
			}

			t.Logger.LogAttrs(req.Context(), level, "api_response",
				slog.String("method", req.Method),
				slog.String("url", redactURL(req.URL)),
				slog.Int("status", resp.StatusCode),
				slog.Duration("duration", duration),
			)
		}
	}

	return resp, err
}

// LogRequest logs an API request. This is the low-level logging method
// used internally and can be used for custom request logging.
func (c *Client) LogRequest(ctx context.Context, requestID, method, path string) {
	if c.logger == nil {
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "api_request",
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
	)
}

// LogResponse logs an API response. This is the low-level logging method
// used internally and can be used for custom response logging.
func (c *Client) LogResponse(ctx context.Context, requestID, method, path string, statusCode int, duration time.Duration, err error) {
	if c.logger == nil {
		return
	}

	level := slog.LevelDebug
	if statusCode >= 400 {
		level = slog.LevelWarn
	}
	if statusCode >= 500 || err != nil {
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("request_id", requestID),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", statusCode),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	c.logger.LogAttrs(ctx, level, "api_response", attrs...)
}

// LogAuthEvent logs a credential operation (sign-in or token refresh).
func (c *Client) LogAuthEvent(ctx context.Context, op string, expiresAt time.Time, err error) {
	if c.logger == nil {
		return
	}

	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.String("op", op),
	}

	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	} else {
		attrs = append(attrs, slog.Time("expires_at", expiresAt))
	}

	c.logger.LogAttrs(ctx, level, "auth_event", attrs...)
}

// LogDeviceWrite logs a device state write.
func (c *Client) LogDeviceWrite(ctx context.Context, deviceID, field string, err error) {
	if c.logger == nil {
		return
	}

	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.String("device_id", deviceID),
		slog.String("field", field),
	}

	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	c.logger.LogAttrs(ctx, level, "device_write", attrs...)
}

// NewLoggingClient creates a client with request/response logging enabled.
// This is a convenience function that wraps the HTTP transport with logging.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	client, err := ec.NewLoggingClient(email, password, logger)
func NewLoggingClient(email, password string, logger *slog.Logger, opts ...Option) (*Client, error) {
	transport := &LoggingTransport{
		Base: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			DisableKeepAlives:   false,
			ForceAttemptHTTP2:   true,
		},
		Logger: logger,
	}

	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: transport,
	}

	allOpts := append([]Option{WithHTTPClient(httpClient), WithLogger(logger)}, opts...)

	return NewClient(email, password, allOpts...)
}
