package client

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inquirydesk/internal/services"
)

// Session is the client side of a login: the bearer token plus the claims
// the desk needs to decide whether it is still usable. The token is not
// verified here; the API does that on every request.
type Session struct {
	Username  string
	Token     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewSession builds a session from a login result, reading the token ID
// and lifetime from its claims.
func NewSession(res services.LoginResult) (Session, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(res.AccessToken, &claims); err != nil {
		return Session{}, fmt.Errorf("parse access token: %w", err)
	}

	sess := Session{
		Username: res.Username,
		Token:    res.AccessToken,
		ID:       claims.ID,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	if sess.Username == "" {
		sess.Username = claims.Subject
	}
	return sess, nil
}

// Valid reports whether the session has a token that has not expired at now.
func (s Session) Valid(now time.Time) bool {
	if s.Token == "" {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}
