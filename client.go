package equationconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client is an Equation Connect API client. It signs in with account
// credentials, keeps the resulting ID token fresh, and reads and writes the
// account's installations, zones, and devices.
//
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	cfg        Config
	email      string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	mu      sync.RWMutex
	session *Session

	refreshGroup singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithConfig replaces the entire backend configuration. Useful for pointing
// the client at a staging backend or a test server.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.cfg = cfg
	}
}

// WithBaseURL sets a custom database base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.cfg.DatabaseURL = url
	}
}

// WithAPIKey sets a custom application API key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.cfg.APIKey = key
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout.
// This option can be applied in any order relative to other options.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Equation Connect client for the given account.
// The constructor performs no network calls; call Authenticate to sign in.
// Returns ErrEmptyEmail or ErrEmptyPassword on missing credentials.
func NewClient(email, password string, opts ...Option) (*Client, error) {
	if email == "" {
		return nil, ErrEmptyEmail
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	c := &Client{
		cfg:      DefaultConfig(),
		email:    email,
		password: password,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Session returns a copy of the current session, or nil before Authenticate.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return nil
	}

	sessionCopy := *c.session
	return &sessionCopy
}

// UserID returns the signed-in account's user ID, or "" before Authenticate.
func (c *Client) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return ""
	}
	return c.session.UserID
}

// Filter narrows a list read server-side to the entries whose indexed child
// equals a value. Both parameters are sent as JSON string literals; the
// backend silently matches nothing when they arrive unquoted.
type Filter struct {
	// OrderBy names the indexed child key to filter on.
	OrderBy string

	// EqualTo is the value the indexed child must equal.
	EqualTo string
}

// do performs an HTTP request against the database and returns the response
// body. It refreshes the ID token first when needed, and attaches it as the
// auth query parameter.
func (c *Client) do(ctx context.Context, method, path string, body any, filter *Filter) ([]byte, error) {
	if err := c.ensureValidToken(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	token := c.session.IDToken
	c.mu.RUnlock()

	q := url.Values{}
	q.Set("auth", token)
	if filter != nil {
		q.Set("orderBy", jsonQuote(filter.OrderBy))
		q.Set("equalTo", jsonQuote(filter.EqualTo))
	}
	reqURL := c.cfg.DatabaseURL + "/" + path + ".json?" + q.Encode()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	c.LogRequest(ctx, requestID, method, path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.LogResponse(ctx, requestID, method, path, 0, time.Since(start), err)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.LogResponse(ctx, requestID, method, path, resp.StatusCode, time.Since(start), err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := c.handleError(resp.StatusCode, respBody, path)
		c.LogResponse(ctx, requestID, method, path, resp.StatusCode, time.Since(start), apiErr)
		return nil, apiErr
	}

	c.LogResponse(ctx, requestID, method, path, resp.StatusCode, time.Since(start), nil)
	return respBody, nil
}

// handleError converts HTTP error responses to appropriate errors. The
// database reports failures as {"error": "<message>"}.
func (c *Client) handleError(statusCode int, body []byte, path string) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode: statusCode,
			Message:    errResp.Error,
			Path:       path,
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Message:    truncatePreview(body),
		Path:       path,
	}
}

// get performs a GET read of the node at path.
func (c *Client) get(ctx context.Context, path string, filter *Filter) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, filter)
}

// patch performs a partial update of the node at path. The backend merges
// the body's fields into the node and echoes the written fields back.
func (c *Client) patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, body, nil)
}
