package equationconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// signInRequest is the body of the password sign-in call.
type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// refreshRequest is the body of the token refresh call. The refresh service
// expects snake_case fields, matching its response format.
type refreshRequest struct {
	GrantType    string `json:"grant_type"`
	RefreshToken string `json:"refresh_token"`
}

// Authenticate signs in with the credentials given to NewClient and stores
// the resulting session. Call it once after constructing the client; from
// then on the ID token is refreshed transparently before it expires.
func (c *Client) Authenticate(ctx context.Context) error {
	var resp signInResponse
	err := c.doAuthRequest(ctx, c.cfg.signInEndpoint(), signInRequest{
		Email:             c.email,
		Password:          c.password,
		ReturnSecureToken: true,
	}, &resp)
	if err != nil {
		c.LogAuthEvent(ctx, "sign_in", time.Time{}, err)
		return err
	}
	if resp.IDToken == "" || resp.LocalID == "" {
		err := fmt.Errorf("equationconnect: sign-in response missing token or user ID")
		c.LogAuthEvent(ctx, "sign_in", time.Time{}, err)
		return err
	}

	session := resp.session(time.Now())
	expiresAt := session.ExpiresAt

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.LogAuthEvent(ctx, "sign_in", expiresAt, nil)
	return nil
}

// refreshSession exchanges the stored refresh token for a fresh ID token and
// folds the result into the session. On failure the stored session is left
// untouched, so a later call can retry with the same refresh token.
func (c *Client) refreshSession(ctx context.Context) error {
	c.mu.RLock()
	sess := c.session
	var refreshToken string
	if sess != nil {
		refreshToken = sess.RefreshToken
	}
	c.mu.RUnlock()

	if sess == nil {
		return ErrNotAuthenticated
	}

	var resp refreshResponse
	err := c.doAuthRequest(ctx, c.cfg.refreshEndpoint(), refreshRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	}, &resp)
	if err != nil {
		c.LogAuthEvent(ctx, "refresh", time.Time{}, err)
		return err
	}
	if resp.IDToken == "" {
		err := fmt.Errorf("equationconnect: refresh response missing id_token")
		c.LogAuthEvent(ctx, "refresh", time.Time{}, err)
		return err
	}

	c.mu.Lock()
	resp.apply(c.session, time.Now())
	expiresAt := c.session.ExpiresAt
	c.mu.Unlock()

	c.LogAuthEvent(ctx, "refresh", expiresAt, nil)
	return nil
}

// ensureValidToken refreshes the session when its ID token is within
// tokenRefreshMargin of expiry. Concurrent callers share a single refresh
// flight rather than each hitting the token endpoint.
func (c *Client) ensureValidToken(ctx context.Context) error {
	// Refresh mutates the session fields in place, so validity must be
	// read under the same lock.
	c.mu.RLock()
	sess := c.session
	valid := sess.IsValid()
	c.mu.RUnlock()

	if sess == nil {
		return ErrNotAuthenticated
	}
	if valid {
		return nil
	}

	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		// A flight that completed while this caller was queued may have
		// already renewed the token.
		c.mu.RLock()
		valid := c.session.IsValid()
		c.mu.RUnlock()
		if valid {
			return nil, nil
		}
		return nil, c.refreshSession(ctx)
	})
	return err
}

// doAuthRequest posts a JSON payload to an identity endpoint and decodes the
// response into out. Non-2xx responses become *AuthError.
func (c *Client) doAuthRequest(ctx context.Context, endpoint string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AuthError{StatusCode: resp.StatusCode, Message: authErrorMessage(body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse auth response: %w", err)
	}
	return nil
}

// authErrorMessage extracts the identity provider's error code, e.g.
// INVALID_PASSWORD or TOKEN_EXPIRED, falling back to a preview of the body.
func authErrorMessage(body []byte) string {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return truncatePreview(body)
}
