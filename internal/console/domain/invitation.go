package domain

import "time"

// InvitationToken gates self-registration. The raw token value is handed to
// the invitee inside the signup URL; only its fingerprint is stored.
type InvitationToken struct {
	ID        string
	TokenHash string
	CreatedBy string
	ExpiresAt time.Time
	Used      bool
	UsedBy    string // Can be empty string if not yet used
	CreatedAt time.Time
	UpdatedAt time.Time
}
