package http

import "time"

// Request and response payloads for the console API.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	EmailUpdated bool   `json:"email_updated"`
}

type SignupResponse struct {
	SignupID string `json:"signup_id"`
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

type InviteResponse struct {
	InviteURL string    `json:"invite_url"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type PendingSignupResponse struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type UserResponse struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	Role         string    `json:"role"`
	PendingEmail string    `json:"pending_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type EmailChangeRequest struct {
	NewEmail        string `json:"new_email"`
	CurrentPassword string `json:"current_password"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type NameChangeRequest struct {
	DisplayName string `json:"display_name"`
}

type ShopRequest struct {
	Name        string `json:"name"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}

type ShopResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
