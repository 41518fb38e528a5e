package domain

// Session is the console-side result of a successful access-gate pass.
type Session struct {
	UID   string
	Email string
	Role  string

	// Token is the signed console session JWT handed to the client.
	Token string

	// EmailUpdated is set when this sign-in committed a verified
	// email change (the one-time reconciliation notification).
	EmailUpdated bool
}
