// internal/auth/service.go
package auth

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many login attempts")
)

// Service handles the single operator login. This is a single-user
// app: one credential, seeded once, no registration flow.
type Service interface {
	// Load hydrates the stored credential, if any.
	Load(ctx context.Context) error
	// Seed stores a credential, replacing any existing one.
	Seed(ctx context.Context, username, password string) error
	// Login verifies the credential and returns a session token.
	Login(ctx context.Context, username, password string) (string, error)
	// ValidateToken reports whether a session token is live.
	ValidateToken(token string) bool
}
