// internal/auth/implementation.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"bunkhaus/internal/blobstore"
)

// storedCredential is the persisted shape; the secret fields never
// leave this package in API responses.
type storedCredential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Salt         string `json:"salt"`
}

type service struct {
	mu         sync.RWMutex
	credential *storedCredential
	sessions   map[string]string // token -> username

	store       blobstore.Store
	logger      *slog.Logger
	rateLimiter *rate.Limiter
}

func NewService(store blobstore.Store, logger *slog.Logger) Service {
	return &service{
		sessions:    make(map[string]string),
		store:       store,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Every(1*time.Minute), 5), // 5 attempts per minute
	}
}

func (s *service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok, err := s.store.Load(ctx, blobstore.KeyCredentials)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if !ok {
		return nil
	}
	var cred storedCredential
	if err := json.Unmarshal([]byte(blob), &cred); err != nil {
		return fmt.Errorf("decode credentials: %w", err)
	}
	s.credential = &cred
	return nil
}

func (s *service) Seed(ctx context.Context, username, password string) error {
	hash, salt, err := hashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	cred := storedCredential{Username: username, PasswordHash: hash, Salt: salt}

	blob, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = &cred
	if err := s.store.Save(ctx, blobstore.KeyCredentials, string(blob)); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	return nil
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	if !s.rateLimiter.Allow() {
		return "", ErrRateLimited
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.credential == nil || s.credential.Username != username {
		return "", ErrInvalidCredentials
	}
	ok, err := verifyPassword(password, s.credential.Salt, s.credential.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token := uuid.NewString()
	s.sessions[token] = username
	return token, nil
}

func (s *service) ValidateToken(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[token]
	return ok
}
