package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateDisplayNameBothSides(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerApproved(t, "admin@example.com", "hunter22", "Old Name")

	require.NoError(t, env.Profile.UpdateDisplayName(ctx, user.UID, "  New Name  "))

	stored, err := env.Store.Users().GetByUID(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, "New Name", stored.DisplayName)

	account, err := env.Provider.GetAccount(ctx, user.UID)
	require.NoError(t, err)
	require.Equal(t, "New Name", account.DisplayName)
}

func TestUpdateDisplayNameRejectsEmpty(t *testing.T) {
	env := newTestEnv(t)

	user := env.registerApproved(t, "admin@example.com", "hunter22", "Name")

	err := env.Profile.UpdateDisplayName(context.Background(), user.UID, "   ")
	require.ErrorIs(t, err, ErrMissingDisplayName)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerApproved(t, "admin@example.com", "hunter22", "Admin")

	t.Run("wrong current password", func(t *testing.T) {
		err := env.Profile.ChangePassword(ctx, user.UID, "wrong", "newpassword")
		require.ErrorIs(t, err, ErrInvalidCredential)
	})

	t.Run("new password too short", func(t *testing.T) {
		err := env.Profile.ChangePassword(ctx, user.UID, "hunter22", "tiny")
		require.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, env.Profile.ChangePassword(ctx, user.UID, "hunter22", "newpassword"))

		_, err := env.Gate.Login(ctx, "admin@example.com", "hunter22")
		require.ErrorIs(t, err, ErrInvalidLogin)

		_, err = env.Gate.Login(ctx, "admin@example.com", "newpassword")
		require.NoError(t, err)
	})
}
