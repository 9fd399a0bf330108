// Package auth issues the signed tokens that identify a cart session (one
// browser profile) and the storefront administrator.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminDisabled      = errors.New("admin login is not configured")
)

// Session identifies one shopper's cart across requests.
type Session struct {
	ID        string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service defines token issuing and verification.
type Service interface {
	// NewSession starts a fresh cart session.
	NewSession(ctx context.Context) (*Session, error)
	// VerifySession returns the session id carried by a cart token.
	VerifySession(token string) (string, error)
	// Login checks admin credentials and returns an admin token.
	Login(ctx context.Context, username, password string) (string, error)
	// VerifyAdmin accepts only admin tokens.
	VerifyAdmin(token string) error
}

type ctxKey struct{}

// WithSessionID stores the cart session id in ctx.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// SessionID returns the cart session id stored by RequireSession, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
