package service

import (
	"context"
	"testing"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/stretchr/testify/require"
)

func TestListUsersAndCounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerApproved(t, "one@example.com", "hunter22", "One")
	env.registerApproved(t, "two@example.com", "hunter22", "Two")

	users, err := env.Directory.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	counts, err := env.Directory.CountByRole(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, counts[domain.RoleAdmin])
}

func TestDeleteUserRemovesProviderAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.registerApproved(t, "gone@example.com", "hunter22", "Gone")

	require.NoError(t, env.Directory.DeleteUser(ctx, user.UID))

	_, err := env.Store.Users().GetByUID(ctx, user.UID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.Provider.GetAccount(ctx, user.UID)
	require.ErrorIs(t, err, identity.ErrUserNotFound)

	require.ErrorIs(t, env.Directory.DeleteUser(ctx, user.UID), ErrUserNotFound)
}

func TestShopLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	shop, err := env.Directory.CreateShop(ctx, "  Harbour Espresso  ", "07:00", "15:00")
	require.NoError(t, err)
	require.Equal(t, "Harbour Espresso", shop.Name)

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := env.Directory.CreateShop(ctx, "   ", "07:00", "15:00")
		require.ErrorIs(t, err, ErrMissingShopName)
	})

	t.Run("update rewrites fields", func(t *testing.T) {
		updated, err := env.Directory.UpdateShop(ctx, shop.ID, "Harbour Roasters", "06:30", "14:00")
		require.NoError(t, err)
		require.Equal(t, "Harbour Roasters", updated.Name)
		require.Equal(t, "06:30", updated.OpeningTime)
	})

	t.Run("update unknown shop", func(t *testing.T) {
		_, err := env.Directory.UpdateShop(ctx, "no-such-id", "Name", "", "")
		require.ErrorIs(t, err, ErrShopNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, env.Directory.DeleteShop(ctx, shop.ID))
		require.ErrorIs(t, env.Directory.DeleteShop(ctx, shop.ID), ErrShopNotFound)
	})
}

func TestListShopsOrdersAndFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Zephyr Cafe", "Anchor Cafe", "Milk Bar"} {
		_, err := env.Directory.CreateShop(ctx, name, "08:00", "16:00")
		require.NoError(t, err)
	}

	shops, err := env.Directory.ListShops(ctx, "")
	require.NoError(t, err)
	require.Len(t, shops, 3)
	require.Equal(t, "Anchor Cafe", shops[0].Name)
	require.Equal(t, "Zephyr Cafe", shops[2].Name)

	// Filtering matches case-insensitive substrings.
	shops, err = env.Directory.ListShops(ctx, "cafe")
	require.NoError(t, err)
	require.Len(t, shops, 2)

	shops, err = env.Directory.ListShops(ctx, "zeph")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	require.Equal(t, "Zephyr Cafe", shops[0].Name)
}
