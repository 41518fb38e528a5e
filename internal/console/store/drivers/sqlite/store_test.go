package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/store"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedToken(t *testing.T, st *Store, hash string, expiresAt time.Time) domain.InvitationToken {
	t.Helper()

	nowTime := time.Now().UTC()
	tok := domain.InvitationToken{
		ID:        "tok-" + hash,
		TokenHash: hash,
		CreatedBy: "admin-1",
		ExpiresAt: expiresAt,
		CreatedAt: nowTime,
		UpdatedAt: nowTime,
	}
	require.NoError(t, st.Tokens().Create(context.Background(), tok))
	return tok
}

func TestMigrationsAreIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.ApplyMigrations())
}

func TestMarkUsedIsConditional(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	tok := seedToken(t, st, "hash-1", time.Now().UTC().Add(time.Hour))

	require.NoError(t, st.Tokens().MarkUsed(ctx, tok.ID, "uid-1"))

	// A second consumer loses: the conditional write matches no row.
	require.ErrorIs(t, st.Tokens().MarkUsed(ctx, tok.ID, "uid-2"), store.ErrNotFound)

	got, err := st.Tokens().GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.True(t, got.Used)
	require.Equal(t, "uid-1", got.UsedBy)
}

func TestTokenHashIsUnique(t *testing.T) {
	st := newTestStore(t)

	seedToken(t, st, "hash-1", time.Now().UTC().Add(time.Hour))

	dup := domain.InvitationToken{
		ID:        "tok-other",
		TokenHash: "hash-1",
		CreatedBy: "admin-1",
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	err := st.Tokens().Create(context.Background(), dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	tok := seedToken(t, st, "hash-1", time.Now().UTC().Add(time.Hour))

	wantErr := store.ErrNotFound
	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tokens().MarkUsed(ctx, tok.ID, "uid-1"); err != nil {
			return err
		}
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	// The consumption inside the failed transaction never landed.
	got, err := st.Tokens().GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.False(t, got.Used)
}

func TestWithTxCommits(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	tok := seedToken(t, st, "hash-1", time.Now().UTC().Add(time.Hour))

	err := st.WithTx(ctx, func(tx store.Tx) error {
		return tx.Tokens().MarkUsed(ctx, tok.ID, "uid-1")
	})
	require.NoError(t, err)

	got, err := st.Tokens().GetByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.True(t, got.Used)
}

func TestUsersEmailIntentLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	nowTime := time.Now().UTC()
	require.NoError(t, st.Users().Create(ctx, domain.User{
		UID:         "uid-1",
		Email:       "old@example.com",
		DisplayName: "User",
		Role:        domain.RoleAdmin,
		CreatedAt:   nowTime,
		UpdatedAt:   nowTime,
	}))

	require.NoError(t, st.Users().SetPendingEmail(ctx, "uid-1", "new@example.com", nowTime))

	got, err := st.Users().GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.PendingEmail)
	require.NotNil(t, got.EmailRequestedAt)

	require.NoError(t, st.Users().CommitEmail(ctx, "uid-1", "new@example.com"))

	got, err = st.Users().GetByUID(ctx, "uid-1")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.Email)
	require.Empty(t, got.PendingEmail)
	require.Nil(t, got.EmailRequestedAt)
}

func TestClearStaleEmailIntents(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	nowTime := time.Now().UTC()
	for _, uid := range []string{"uid-stale", "uid-fresh"} {
		require.NoError(t, st.Users().Create(ctx, domain.User{
			UID:         uid,
			Email:       uid + "@example.com",
			DisplayName: "User",
			Role:        domain.RoleAdmin,
			CreatedAt:   nowTime,
			UpdatedAt:   nowTime,
		}))
	}
	require.NoError(t, st.Users().SetPendingEmail(ctx, "uid-stale", "a@example.com", nowTime.Add(-10*24*time.Hour)))
	require.NoError(t, st.Users().SetPendingEmail(ctx, "uid-fresh", "b@example.com", nowTime))

	require.NoError(t, st.Users().ClearStaleEmailIntents(ctx, nowTime.Add(-7*24*time.Hour)))

	stale, err := st.Users().GetByUID(ctx, "uid-stale")
	require.NoError(t, err)
	require.False(t, stale.HasEmailIntent())

	fresh, err := st.Users().GetByUID(ctx, "uid-fresh")
	require.NoError(t, err)
	require.True(t, fresh.HasEmailIntent())
}
