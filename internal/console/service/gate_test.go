package service

import (
	"context"
	"testing"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/stretchr/testify/require"
)

func TestLoginApprovedAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerApproved(t, "admin@example.com", "hunter22", "Admin")

	session, err := env.Gate.Login(ctx, "admin@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.UID, session.UID)
	require.Equal(t, domain.RoleAdmin, session.Role)
	require.False(t, session.EmailUpdated)

	// The session token verifies and carries the identity claims.
	claims, err := env.Keys.Verify(session.Token)
	require.NoError(t, err)
	require.Equal(t, user.UID, claims.Subject)
	require.Equal(t, "admin@example.com", claims.Email)
	require.Equal(t, domain.RoleAdmin, claims.Role)

	// A provider session was established.
	n, err := env.Store.Sessions().CountActiveForUID(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerApproved(t, "admin@example.com", "hunter22", "Admin")

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.Gate.Login(ctx, "admin@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidLogin)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := env.Gate.Login(ctx, "nobody@example.com", "hunter22")
		require.ErrorIs(t, err, ErrInvalidLogin)
	})
}

func TestLoginFailsClosedWithoutUserRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Registered but never approved: the account authenticates at the
	// provider yet has no console user record.
	signup := env.register(t, "waiting@example.com", "hunter22", "Waiting")

	_, err := env.Gate.Login(ctx, "waiting@example.com", "hunter22")
	require.ErrorIs(t, err, ErrUserRecordMissing)

	// The refused login left no live provider session behind.
	n, err := env.Store.Sessions().CountActiveForUID(ctx, signup.UID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLoginGatesOnRole(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	signup := env.register(t, "limbo@example.com", "hunter22", "Limbo")

	now := time.Now().UTC()
	require.NoError(t, env.Store.Users().Create(ctx, domain.User{
		UID:         signup.UID,
		Email:       signup.Email,
		DisplayName: signup.DisplayName,
		Role:        domain.RolePending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}))

	t.Run("pending role", func(t *testing.T) {
		_, err := env.Gate.Login(ctx, "limbo@example.com", "hunter22")
		require.ErrorIs(t, err, ErrPendingApproval)
	})

	t.Run("unrecognized role", func(t *testing.T) {
		require.NoError(t, env.Store.Users().UpdateRole(ctx, signup.UID, "viewer"))
		_, err := env.Gate.Login(ctx, "limbo@example.com", "hunter22")
		require.ErrorIs(t, err, ErrAccessDenied)
	})

	// Every refusal destroyed its provider session.
	n, err := env.Store.Sessions().CountActiveForUID(ctx, signup.UID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestLoginCommitsVerifiedEmailExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerApproved(t, "old@example.com", "hunter22", "Admin")

	// Log in to establish a provider session, then file the change.
	_, err := env.Gate.Login(ctx, "old@example.com", "hunter22")
	require.NoError(t, err)

	linkToken, err := env.EmailChange.RequestChange(ctx, user.UID, "new@example.com", "hunter22")
	require.NoError(t, err)

	// Before verification the console email is unchanged.
	stored, err := env.Store.Users().GetByUID(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, "old@example.com", stored.Email)
	require.Equal(t, "new@example.com", stored.PendingEmail)

	_, _, err = env.EmailChange.ConfirmVerification(ctx, linkToken)
	require.NoError(t, err)

	// The next login signs in with the new address, commits the change,
	// and flags it on the session.
	session, err := env.Gate.Login(ctx, "new@example.com", "hunter22")
	require.NoError(t, err)
	require.True(t, session.EmailUpdated)
	require.Equal(t, "new@example.com", session.Email)

	stored, err = env.Store.Users().GetByUID(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", stored.Email)
	require.Empty(t, stored.PendingEmail)
	require.False(t, stored.HasEmailIntent())

	// The old address no longer signs in, and the flag fires only once.
	_, err = env.Gate.Login(ctx, "old@example.com", "hunter22")
	require.ErrorIs(t, err, ErrInvalidLogin)

	session, err = env.Gate.Login(ctx, "new@example.com", "hunter22")
	require.NoError(t, err)
	require.False(t, session.EmailUpdated)
}
