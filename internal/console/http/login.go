package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/waypointhq/console/internal/console/obs"
	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type LoginHandler struct {
	GateService *service.AccessGateService
}

// ServeHTTP godoc
//
//	@Summary		Console Login
//	@Description	Authenticate with email and password. Credentials alone are not enough: the account must have been approved (role=admin) before a session token is issued.
//	@Description	If a requested email change has been verified since the last login, it takes effect now and email_updated is set on the response.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest		true	"Credentials"
//	@Success		200		{object}	SessionResponse		"uid, email, role, token, email_updated"
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		403		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	session, err := h.GateService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLogin):
			obs.ObserveLogin("denied")
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		case errors.Is(err, service.ErrUserRecordMissing):
			obs.ObserveLogin("denied")
			httpx.WriteError(w, http.StatusForbidden, "access_denied", "No console record exists for this account")
		case errors.Is(err, service.ErrPendingApproval):
			obs.ObserveLogin("denied")
			httpx.WriteError(w, http.StatusForbidden, "pending_approval", "Your account is awaiting approval")
		case errors.Is(err, service.ErrAccessDenied):
			obs.ObserveLogin("denied")
			httpx.WriteError(w, http.StatusForbidden, "access_denied", "Account is not authorized for console access")
		default:
			obs.ObserveLogin("error")
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Login failed")
		}
		return
	}

	obs.ObserveLogin("ok")
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		UID:          session.UID,
		Email:        session.Email,
		Role:         session.Role,
		Token:        session.Token,
		EmailUpdated: session.EmailUpdated,
	})
}
