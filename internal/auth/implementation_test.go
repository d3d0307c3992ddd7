// internal/auth/implementation_test.go
package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bunkhaus/internal/blobstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt, err := hashPassword("welcome123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	ok, err := verifyPassword("welcome123", salt, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = verifyPassword("wrong", salt, hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = verifyPassword("welcome123", "not base64!!", hash)
	assert.Error(t, err)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	hash1, salt1, err := hashPassword("welcome123")
	require.NoError(t, err)
	hash2, salt2, err := hashPassword("welcome123")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestSeedLoginValidate(t *testing.T) {
	store := blobstore.NewMemory()
	svc := NewService(store, testLogger())
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, "owner", "welcome123"))

	token, err := svc.Login(ctx, "owner", "welcome123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, svc.ValidateToken(token))
	assert.False(t, svc.ValidateToken("forged"))

	_, err = svc.Login(ctx, "owner", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "someone", "welcome123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithoutCredential(t *testing.T) {
	svc := NewService(blobstore.NewMemory(), testLogger())
	_, err := svc.Login(context.Background(), "owner", "welcome123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCredentialSurvivesRestart(t *testing.T) {
	store := blobstore.NewMemory()
	ctx := context.Background()

	svc := NewService(store, testLogger())
	require.NoError(t, svc.Seed(ctx, "owner", "welcome123"))

	reloaded := NewService(store, testLogger())
	require.NoError(t, reloaded.Load(ctx))

	token, err := reloaded.Login(ctx, "owner", "welcome123")
	require.NoError(t, err)
	assert.True(t, reloaded.ValidateToken(token))

	// Sessions are in-memory only; a restart invalidates old tokens.
	assert.False(t, svc.ValidateToken(token))
}

func TestLoginRateLimited(t *testing.T) {
	store := blobstore.NewMemory()
	svc := NewService(store, testLogger())
	ctx := context.Background()
	require.NoError(t, svc.Seed(ctx, "owner", "welcome123"))

	// The limiter grants a burst of five attempts per minute.
	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, "owner", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := svc.Login(ctx, "owner", "welcome123")
	assert.ErrorIs(t, err, ErrRateLimited)
}
