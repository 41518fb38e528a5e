package domain

// Role values stored on user records. Only two roles exist: a record is
// either waiting for approval or a full administrator. Anything else fails
// closed at the access gate.
const (
	RoleAdmin   = "admin"
	RolePending = "pending"
)
