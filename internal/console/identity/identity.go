// Package identity abstracts the identity provider the console delegates
// credentials to. The console never stores passwords itself; it asks the
// provider to create accounts, establish sign-in sessions, and move an
// account's authoritative email through a verified link.
package identity

import (
	"context"
	"errors"

	"github.com/waypointhq/console/internal/console/domain"
)

var (
	// ErrEmailInUse is returned when an account already exists for the email.
	ErrEmailInUse = errors.New("identity: email already in use")

	// ErrUserNotFound is returned when no account exists for the identifier.
	ErrUserNotFound = errors.New("identity: user not found")

	// ErrWrongPassword is returned when the password does not match.
	ErrWrongPassword = errors.New("identity: wrong password")

	// ErrInvalidCredential is returned for malformed or unusable credentials,
	// including consumed or unknown verification links.
	ErrInvalidCredential = errors.New("identity: invalid credential")

	// ErrRequiresRecentLogin is returned when a sensitive operation needs a
	// fresh sign-in before it can proceed.
	ErrRequiresRecentLogin = errors.New("identity: requires recent login")

	// ErrOperationNotAllowed is returned when the account's sign-in method
	// does not support the operation (e.g. email change on a federated
	// account).
	ErrOperationNotAllowed = errors.New("identity: operation not allowed")

	// ErrUnsupported is returned by providers that do not implement an
	// optional operation.
	ErrUnsupported = errors.New("identity: operation unsupported by provider")
)

// SignInResult carries the account and the opaque session token minted by a
// successful sign-in. The token is the caller's handle for SignOut and
// Reauthenticate; only its fingerprint exists at rest.
type SignInResult struct {
	Account      domain.Account
	SessionToken string
}

// Provider is the identity backend contract.
type Provider interface {
	// CreateAccount registers a new password account. ErrEmailInUse if the
	// email is taken.
	CreateAccount(ctx context.Context, email, password, displayName string) (domain.Account, error)

	// SignIn verifies credentials and mints an opaque session token.
	SignIn(ctx context.Context, email, password string) (SignInResult, error)

	// SignOut destroys the session behind the token. Unknown tokens are not
	// an error; sign-out is idempotent.
	SignOut(ctx context.Context, sessionToken string) error

	// Reauthenticate confirms the password for an account ahead of a
	// sensitive operation. ErrWrongPassword if the password does not match.
	Reauthenticate(ctx context.Context, uid, password string) error

	GetAccount(ctx context.Context, uid string) (domain.Account, error)

	// SendVerificationForNewEmail files a verification intent for a new
	// address and returns the single-use token to embed in the emailed link.
	// ErrEmailInUse if the address already belongs to an account,
	// ErrOperationNotAllowed for non-password accounts,
	// ErrRequiresRecentLogin when the account has no live sign-in.
	SendVerificationForNewEmail(ctx context.Context, uid, newEmail string) (token string, err error)

	// VerifyEmail consumes a verification token, moves the account's
	// authoritative email, and revokes the account's live sessions. Returns
	// the affected UID and the email that took effect. ErrInvalidCredential
	// for unknown, expired, or already-consumed tokens.
	VerifyEmail(ctx context.Context, token string) (uid, newEmail string, err error)

	UpdateDisplayName(ctx context.Context, uid, name string) error
	UpdatePassword(ctx context.Context, uid, newPassword string) error

	// DeleteAccount removes the account and everything hanging off it.
	DeleteAccount(ctx context.Context, uid string) error
}
