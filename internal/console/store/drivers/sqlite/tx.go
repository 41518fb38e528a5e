package sqlite

import (
	"context"
	"database/sql"

	"github.com/waypointhq/console/internal/console/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // caller will commit/rollback; outer DB stays open

// Ping is a no-op for transactions.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return sql.ErrTxDone
}

func (t *txStore) Tokens() store.InvitationTokens          { return &tokensRepo{db: t.tx} }
func (t *txStore) Signups() store.PendingSignups           { return &signupsRepo{db: t.tx} }
func (t *txStore) Users() store.Users                      { return &usersRepo{db: t.tx} }
func (t *txStore) Shops() store.Shops                      { return &shopsRepo{db: t.tx} }
func (t *txStore) Accounts() store.Accounts                { return &accountsRepo{db: t.tx} }
func (t *txStore) Sessions() store.ProviderSessions        { return &sessionsRepo{db: t.tx} }
func (t *txStore) Verifications() store.EmailVerifications { return &verificationsRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // no-op; migrations run before any tx starts
