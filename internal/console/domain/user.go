package domain

import "time"

// User is the console's record of an account. Every row the access gate
// admits has Role == RoleAdmin; the identity provider owns credentials,
// this row owns the authorization state.
type User struct {
	UID               string
	Email             string
	DisplayName       string
	Role              string
	ProfilePictureURL string

	// PendingEmail is the durable marker of an email-change intent:
	// verification was sent to this address but the provider has not yet
	// confirmed ownership. Cleared exactly once when the gate observes the
	// provider's authoritative email matching it.
	PendingEmail     string
	EmailRequestedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasEmailIntent reports whether an email change is awaiting verification.
func (u User) HasEmailIntent() bool { return u.PendingEmail != "" }
