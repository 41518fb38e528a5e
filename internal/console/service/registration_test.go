package service

import (
	"context"
	"testing"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/cryptox"
	"github.com/waypointhq/console/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesPendingSignup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)

	signup, err := env.Registration.Register(ctx, token, "new@example.com", "hunter22", "New Admin")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", signup.Email)
	require.NotEmpty(t, signup.UID)

	// The provider account exists but no user record does: registration
	// never grants access.
	_, err = env.Provider.GetAccount(ctx, signup.UID)
	require.NoError(t, err)
	_, err = env.Store.Users().GetByUID(ctx, signup.UID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// The token was consumed.
	_, err = env.Invites.ValidateToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenUsed)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.Registration.Register(ctx, token, "", "hunter22", "Name")
		require.ErrorIs(t, err, ErrMissingSignupFields)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := env.Registration.Register(ctx, token, "a@example.com", "short", "Name")
		require.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := env.Registration.Register(ctx, "bogus", "a@example.com", "hunter22", "Name")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	// None of the failures consumed the token.
	_, err = env.Invites.ValidateToken(ctx, token)
	require.NoError(t, err)
}

func TestRegisterTokenIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)

	_, err = env.Registration.Register(ctx, token, "first@example.com", "hunter22", "First")
	require.NoError(t, err)

	_, err = env.Registration.Register(ctx, token, "second@example.com", "hunter22", "Second")
	require.ErrorIs(t, err, ErrTokenUsed)

	// The losing registration left no provider account behind.
	_, err = env.Store.Accounts().GetByEmail(ctx, "second@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestRegisterRejectsExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, env.Store.Tokens().Create(ctx, domain.InvitationToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		CreatedBy: "admin-1",
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-25 * time.Hour),
		UpdatedAt: now.Add(-25 * time.Hour),
	}))

	_, err = env.Registration.Register(ctx, token, "late@example.com", "hunter22", "Late")
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "taken@example.com", "hunter22", "First")

	token, err := env.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)

	_, err = env.Registration.Register(ctx, token, "taken@example.com", "hunter22", "Second")
	require.ErrorIs(t, err, identity.ErrEmailInUse)

	// The fresh token survives for a retry with a different email.
	_, err = env.Invites.ValidateToken(ctx, token)
	require.NoError(t, err)
}
