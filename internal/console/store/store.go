package store

import (
	"context"
	"errors"
	"time"

	"github.com/waypointhq/console/internal/console/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable.
//
// The console's workflow invariants (single-use invitation tokens, the
// approve transition, signup+consume) all depend on multi-row writes being
// atomic, so services run them through WithTx rather than issuing
// sequential writes.
type Store interface {
	Tokens() InvitationTokens
	Signups() PendingSignups
	Users() Users
	Shops() Shops
	Accounts() Accounts
	Sessions() ProviderSessions
	Verifications() EmailVerifications

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type InvitationTokens interface {
	// Create writes a new invitation token (token_hash is the SHA-256
	// fingerprint of the opaque token carried in the signup URL).
	Create(ctx context.Context, t domain.InvitationToken) error

	// GetByTokenHash returns the token row by fingerprint regardless of
	// state; expiry and consumption are judged by the caller so it can
	// distinguish invalid from expired from used.
	GetByTokenHash(ctx context.Context, hash string) (domain.InvitationToken, error)

	// MarkUsed flips used=1 for an unused token, recording who consumed it.
	// Returns ErrNotFound if the token was already consumed; callers rely
	// on this conditional write to close the double-registration race.
	MarkUsed(ctx context.Context, tokenID string, usedByUID string) error

	// DeleteExpired is housekeeping.
	DeleteExpired(ctx context.Context) error
}

type PendingSignups interface {
	Create(ctx context.Context, p domain.PendingSignup) error
	GetByID(ctx context.Context, id string) (domain.PendingSignup, error)

	// List returns pending signups newest first.
	List(ctx context.Context) ([]domain.PendingSignup, error)

	Delete(ctx context.Context, id string) error
}

type Users interface {
	Create(ctx context.Context, u domain.User) error
	GetByUID(ctx context.Context, uid string) (domain.User, error)

	// List returns all user records ordered by creation date (newest first).
	List(ctx context.Context) ([]domain.User, error)

	UpdateRole(ctx context.Context, uid string, role string) error
	UpdateDisplayName(ctx context.Context, uid string, name string) error

	// SetPendingEmail files an email-change intent.
	SetPendingEmail(ctx context.Context, uid string, pendingEmail string, requestedAt time.Time) error

	// CommitEmail sets email to the verified value and clears the intent
	// in one write.
	CommitEmail(ctx context.Context, uid string, email string) error

	// ClearStaleEmailIntents drops intents requested before the cutoff.
	ClearStaleEmailIntents(ctx context.Context, before time.Time) error

	Delete(ctx context.Context, uid string) error
}

type Shops interface {
	Create(ctx context.Context, s domain.Shop) error
	GetByID(ctx context.Context, id string) (domain.Shop, error)

	// List returns shops ordered by name.
	List(ctx context.Context) ([]domain.Shop, error)

	// SearchByName filters by a case-insensitive name substring.
	SearchByName(ctx context.Context, q string) ([]domain.Shop, error)

	Update(ctx context.Context, s domain.Shop) error
	Delete(ctx context.Context, id string) error
}

// Accounts backs the embedded identity provider: credentials and the
// provider's authoritative email live here, never in the Users repo.
type Accounts interface {
	Create(ctx context.Context, a domain.Account) error
	GetByUID(ctx context.Context, uid string) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	UpdateEmail(ctx context.Context, uid string, email string) error
	UpdateDisplayName(ctx context.Context, uid string, name string) error
	UpdatePasswordHash(ctx context.Context, uid string, newHash string) error
	Delete(ctx context.Context, uid string) error
}

// ProviderSessions are the embedded provider's opaque sign-in sessions.
type ProviderSessions interface {
	Create(ctx context.Context, s domain.ProviderSession) error

	// GetActiveByTokenHash returns a not-expired session by fingerprint.
	GetActiveByTokenHash(ctx context.Context, hash string) (domain.ProviderSession, error)

	// CountActiveForUID counts not-expired sessions for an account.
	CountActiveForUID(ctx context.Context, uid string) (int, error)

	DeleteByTokenHash(ctx context.Context, hash string) error
	DeleteForUID(ctx context.Context, uid string) error
	DeleteExpired(ctx context.Context) error
}

// EmailVerifications are the embedded provider's pending verification links.
type EmailVerifications interface {
	Create(ctx context.Context, v domain.EmailVerification) error

	// GetActiveByTokenHash returns a not-expired link by fingerprint.
	GetActiveByTokenHash(ctx context.Context, hash string) (domain.EmailVerification, error)

	Delete(ctx context.Context, id string) error
	DeleteForUID(ctx context.Context, uid string) error
	DeleteExpired(ctx context.Context) error
}
