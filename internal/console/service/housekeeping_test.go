package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/waypointhq/console/pkg/cryptox"
	"github.com/waypointhq/console/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCleanupSweepsExpiredRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerApproved(t, "admin@example.com", "hunter22", "Admin")

	now := time.Now().UTC()
	past := now.Add(-time.Hour)

	// Seed one expired row of each kind plus a live token that must survive.
	expiredToken := domain.InvitationToken{
		ID:        idx.New().String(),
		TokenHash: cryptox.FingerprintToken("expired-token"),
		CreatedBy: "admin-1",
		ExpiresAt: past,
		CreatedAt: past,
		UpdatedAt: past,
	}
	require.NoError(t, env.Store.Tokens().Create(ctx, expiredToken))

	liveToken, err := env.Invites.MintToken(ctx, "admin-1")
	require.NoError(t, err)

	require.NoError(t, env.Store.Sessions().Create(ctx, domain.ProviderSession{
		ID:        idx.New().String(),
		UID:       user.UID,
		TokenHash: cryptox.FingerprintToken("expired-session"),
		ExpiresAt: past,
		CreatedAt: past,
	}))

	require.NoError(t, env.Store.Verifications().Create(ctx, domain.EmailVerification{
		ID:        idx.New().String(),
		UID:       user.UID,
		NewEmail:  "new@example.com",
		TokenHash: cryptox.FingerprintToken("expired-link"),
		ExpiresAt: past,
		CreatedAt: past,
	}))

	// Backdate an email-change intent past the staleness cutoff.
	require.NoError(t, env.Store.Users().SetPendingEmail(ctx, user.UID, "stale@example.com", now.Add(-200*time.Hour)))

	hk := NewHousekeepingService(env.Store, slog.Default(), time.Hour, DefaultEmailIntentTTL)
	hk.Cleanup()

	_, err = env.Store.Tokens().GetByTokenHash(ctx, expiredToken.TokenHash)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = env.Invites.ValidateToken(ctx, liveToken)
	require.NoError(t, err)

	n, err := env.Store.Sessions().CountActiveForUID(ctx, user.UID)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = env.Store.Verifications().GetActiveByTokenHash(ctx, cryptox.FingerprintToken("expired-link"))
	require.ErrorIs(t, err, store.ErrNotFound)

	stored, err := env.Store.Users().GetByUID(ctx, user.UID)
	require.NoError(t, err)
	require.False(t, stored.HasEmailIntent())
}

func TestCleanupLeavesFreshIntentAlone(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerApproved(t, "admin@example.com", "hunter22", "Admin")
	require.NoError(t, env.Store.Users().SetPendingEmail(ctx, user.UID, "new@example.com", time.Now().UTC()))

	hk := NewHousekeepingService(env.Store, slog.Default(), time.Hour, DefaultEmailIntentTTL)
	hk.Cleanup()

	stored, err := env.Store.Users().GetByUID(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", stored.PendingEmail)
}

func TestStartStop(t *testing.T) {
	env := newTestEnv(t)

	hk := NewHousekeepingService(env.Store, slog.Default(), time.Hour, DefaultEmailIntentTTL)
	hk.Start()
	hk.Stop()
}
