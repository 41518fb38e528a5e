package domain

import "time"

// Sign-in methods recorded on provider accounts. Email changes are only
// supported for password accounts; federated identities own their email
// upstream.
const (
	SignInMethodPassword = "password"
	SignInMethodGoogle   = "google.com"
)

// Account is an identity-provider account as stored by the embedded
// provider. Credentials never leave this record; the console's User row
// references it by UID.
type Account struct {
	UID          string
	Email        string
	DisplayName  string
	PasswordHash string // argon2 encoded
	SignInMethod string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProviderSession is an opaque provider sign-in session. Only the token
// fingerprint is stored.
type ProviderSession struct {
	ID        string
	UID       string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// EmailVerification is a single-use link sent to a prospective new email
// address. Applying it moves the account's authoritative email.
type EmailVerification struct {
	ID        string
	UID       string
	NewEmail  string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}
