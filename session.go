package equationconnect

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// tokenRefreshMargin is how long before expiry we should refresh the token.
	tokenRefreshMargin = 5 * time.Minute

	// defaultTokenLifetime is assumed when the provider omits the lifetime.
	defaultTokenLifetime = time.Hour
)

// Session holds the credentials of a signed-in account. Email and UserID
// are fixed at sign-in; IDToken, RefreshToken, and ExpiresAt advance each
// time the token is refreshed.
type Session struct {
	Email        string
	UserID       string
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
}

// IsValid checks if the ID token is still usable (with refresh margin).
func (s *Session) IsValid() bool {
	if s == nil || s.IDToken == "" {
		return false
	}
	return time.Now().Add(tokenRefreshMargin).Before(s.ExpiresAt)
}

// NeedsRefresh returns true if the ID token should be refreshed before the
// next request, i.e. when it is inside the refresh margin or already expired.
func (s *Session) NeedsRefresh() bool {
	if s == nil || s.IDToken == "" {
		return true
	}
	return !time.Now().Add(tokenRefreshMargin).Before(s.ExpiresAt)
}

// Claims returns the claims embedded in the ID token without verifying its
// signature. The token is minted and verified by the backend; the client
// decodes it only for introspection.
func (s *Session) Claims() (jwt.MapClaims, error) {
	if s == nil || s.IDToken == "" {
		return nil, ErrNotAuthenticated
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.IDToken, claims); err != nil {
		return nil, fmt.Errorf("failed to parse ID token: %w", err)
	}
	return claims, nil
}

// signInResponse is the payload returned by the password sign-in call. The
// identity service names its fields in camelCase and sends the token
// lifetime as a decimal string.
type signInResponse struct {
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

// session converts a sign-in payload into a Session anchored at now.
func (r *signInResponse) session(now time.Time) *Session {
	return &Session{
		Email:        r.Email,
		UserID:       r.LocalID,
		IDToken:      r.IDToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    now.Add(tokenLifetime(r.ExpiresIn)),
	}
}

// refreshResponse is the payload returned by the token refresh call. Unlike
// sign-in, the refresh service names its fields in snake_case.
type refreshResponse struct {
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    string `json:"expires_in"`
	UserID       string `json:"user_id"`
}

// apply folds a refresh result into an existing session. Identity fields
// (email, user ID) never change on refresh, and the previous refresh token
// is kept if the provider did not rotate it.
func (r *refreshResponse) apply(s *Session, now time.Time) {
	s.IDToken = r.IDToken
	if r.RefreshToken != "" {
		s.RefreshToken = r.RefreshToken
	}
	s.ExpiresAt = now.Add(tokenLifetime(r.ExpiresIn))
}

// tokenLifetime parses the provider's declared lifetime, falling back to
// defaultTokenLifetime when the field is missing or malformed. Lifetimes
// beyond int32 seconds would overflow a Duration and are treated as
// malformed.
func tokenLifetime(raw string) time.Duration {
	if raw == "" {
		return defaultTokenLifetime
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 || secs > math.MaxInt32 {
		return defaultTokenLifetime
	}
	return time.Duration(secs) * time.Second
}
