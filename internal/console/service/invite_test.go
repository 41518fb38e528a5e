package service

import (
	"context"
	"testing"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/pkg/cryptox"
	"github.com/waypointhq/console/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestMintTokenRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	invitation, err := env.Invites.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "admin-1", invitation.CreatedBy)
	require.False(t, invitation.Used)
	require.WithinDuration(t, time.Now().Add(DefaultInviteTTL), invitation.ExpiresAt, time.Minute)

	// Only the fingerprint is at rest.
	require.NotEqual(t, token, invitation.TokenHash)
	require.Equal(t, cryptox.FingerprintToken(token), invitation.TokenHash)
}

func TestValidateTokenRejectsUnknown(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		_, err := env.Invites.ValidateToken(ctx, "")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := env.Invites.ValidateToken(ctx, "not-a-real-token")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, env.Store.Tokens().Create(ctx, domain.InvitationToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken(token),
		CreatedBy: "admin-1",
		ExpiresAt: now.Add(-time.Hour),
		CreatedAt: now.Add(-25 * time.Hour),
		UpdatedAt: now.Add(-25 * time.Hour),
	}))

	_, err = env.Invites.ValidateToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenRejectsUsed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	token, err := env.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)

	invitation, err := env.Invites.ValidateToken(ctx, token)
	require.NoError(t, err)
	require.NoError(t, env.Store.Tokens().MarkUsed(ctx, invitation.ID, "uid-1"))

	_, err = env.Invites.ValidateToken(ctx, token)
	require.ErrorIs(t, err, ErrTokenUsed)
}
