package service

import (
	"context"
	"testing"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity"
	"github.com/stretchr/testify/require"
)

// loginAdmin registers, approves, and logs in an account so it has the live
// provider session that an email change requires.
func loginAdmin(t *testing.T, env *testEnv, email, password string) domain.User {
	t.Helper()
	user := env.registerApproved(t, email, password, "Admin")
	_, err := env.Gate.Login(context.Background(), email, password)
	require.NoError(t, err)
	return user
}

func TestRequestChangeFilesIntent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := loginAdmin(t, env, "old@example.com", "hunter22")

	linkToken, err := env.EmailChange.RequestChange(ctx, user.UID, "New@Example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, linkToken)

	stored, err := env.Store.Users().GetByUID(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", stored.PendingEmail)
	require.NotNil(t, stored.EmailRequestedAt)

	// The provider account still carries the old address.
	account, err := env.Provider.GetAccount(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, "old@example.com", account.Email)
}

func TestRequestChangeValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := loginAdmin(t, env, "old@example.com", "hunter22")
	loginAdmin(t, env, "taken@example.com", "hunter22x")

	t.Run("missing email", func(t *testing.T) {
		_, err := env.EmailChange.RequestChange(ctx, user.UID, "  ", "hunter22")
		require.ErrorIs(t, err, ErrMissingEmail)
	})

	t.Run("same email", func(t *testing.T) {
		_, err := env.EmailChange.RequestChange(ctx, user.UID, "OLD@example.com", "hunter22")
		require.ErrorIs(t, err, ErrEmailUnchanged)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.EmailChange.RequestChange(ctx, user.UID, "new@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("address in use", func(t *testing.T) {
		_, err := env.EmailChange.RequestChange(ctx, user.UID, "taken@example.com", "hunter22")
		require.ErrorIs(t, err, identity.ErrEmailInUse)
	})
}

func TestRequestChangeRequiresLiveSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Approved but never logged in: no provider session exists.
	user := env.registerApproved(t, "fresh@example.com", "hunter22", "Fresh")

	_, err := env.EmailChange.RequestChange(ctx, user.UID, "new@example.com", "hunter22")
	require.ErrorIs(t, err, identity.ErrRequiresRecentLogin)
}

func TestConfirmVerificationIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := loginAdmin(t, env, "old@example.com", "hunter22")

	linkToken, err := env.EmailChange.RequestChange(ctx, user.UID, "new@example.com", "hunter22")
	require.NoError(t, err)

	uid, newEmail, err := env.EmailChange.ConfirmVerification(ctx, linkToken)
	require.NoError(t, err)
	require.Equal(t, user.UID, uid)
	require.Equal(t, "new@example.com", newEmail)

	// The link is consumed; replaying it fails.
	_, _, err = env.EmailChange.ConfirmVerification(ctx, linkToken)
	require.ErrorIs(t, err, identity.ErrInvalidCredential)

	// Verification revoked the account's live sessions.
	n, err := env.Store.Sessions().CountActiveForUID(ctx, user.UID)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestNewerRequestSupersedesOlderLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := loginAdmin(t, env, "old@example.com", "hunter22")

	first, err := env.EmailChange.RequestChange(ctx, user.UID, "first@example.com", "hunter22")
	require.NoError(t, err)
	second, err := env.EmailChange.RequestChange(ctx, user.UID, "second@example.com", "hunter22")
	require.NoError(t, err)

	_, _, err = env.EmailChange.ConfirmVerification(ctx, first)
	require.ErrorIs(t, err, identity.ErrInvalidCredential)

	_, newEmail, err := env.EmailChange.ConfirmVerification(ctx, second)
	require.NoError(t, err)
	require.Equal(t, "second@example.com", newEmail)
}

func TestConfirmVerificationRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.EmailChange.ConfirmVerification(context.Background(), "not-a-link-token")
	require.ErrorIs(t, err, identity.ErrInvalidCredential)
}
