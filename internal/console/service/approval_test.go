package service

import (
	"context"
	"testing"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/stretchr/testify/require"
)

func TestListPendingNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register(t, "a@example.com", "hunter22", "Alpha")
	env.register(t, "b@example.com", "hunter22", "Bravo")

	signups, err := env.Approval.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, signups, 2)
}

func TestApprovePromotesToAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	signup := env.register(t, "new@example.com", "hunter22", "New Admin")

	user, err := env.Approval.Approve(ctx, "admin-1", signup.ID)
	require.NoError(t, err)
	require.Equal(t, signup.UID, user.UID)
	require.Equal(t, domain.RoleAdmin, user.Role)
	require.Equal(t, "new@example.com", user.Email)

	// The pending row is gone; the decision cannot be replayed.
	_, err = env.Approval.Approve(ctx, "admin-1", signup.ID)
	require.ErrorIs(t, err, ErrSignupNotFound)

	// The user record persists with role admin.
	stored, err := env.Store.Users().GetByUID(ctx, signup.UID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, stored.Role)
}

func TestApproveUnknownSignup(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Approval.Approve(context.Background(), "admin-1", "no-such-id")
	require.ErrorIs(t, err, ErrSignupNotFound)
}

func TestRejectDropsSignup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	signup := env.register(t, "denied@example.com", "hunter22", "Denied")

	require.NoError(t, env.Approval.Reject(ctx, "admin-1", signup.ID))

	signups, err := env.Approval.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, signups)

	// No user record was created and the provider account remains for
	// directory cleanup.
	_, err = env.Store.Users().GetByUID(ctx, signup.UID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.Provider.GetAccount(ctx, signup.UID)
	require.NoError(t, err)

	// Rejecting twice is an error, not a silent no-op.
	require.ErrorIs(t, env.Approval.Reject(ctx, "admin-1", signup.ID), ErrSignupNotFound)
}
