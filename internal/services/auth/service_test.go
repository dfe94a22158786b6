package auth

import (
	"context"
	"testing"
	"time"

	apperrors "tuplepay/internal/errors"
	"tuplepay/internal/repositories"
	"tuplepay/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	tokens, err := utils.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	store := repositories.NewMemoryStore()
	return NewService(store.Accounts(), tokens, WithBcryptCost(bcrypt.MinCost))
}

func TestService_Register(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	acc, err := svc.Register(ctx, " Alice ", "alice@example.com", "s3cret!pw")
	require.NoError(t, err)
	assert.Equal(t, "Alice", acc.Username)
	assert.True(t, acc.Balance.IsZero())
	assert.Equal(t, int64(0), acc.Version)
	assert.NotEqual(t, "s3cret!pw", acc.PasswordHash)

	_, err = svc.Register(ctx, "alice", "other@example.com", "s3cret!pw")
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestService_Login(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "", "s3cret!pw")
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		acc, token, err := svc.Login(ctx, "ALICE", "s3cret!pw")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, acc.ID)
		assert.NotEmpty(t, token)

		claims, err := svc.Authenticate(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, claims.AccountID)
		assert.True(t, claims.Owns("alice"))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "wrong!pass")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "s3cret!pw")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestService_AuthenticateRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
