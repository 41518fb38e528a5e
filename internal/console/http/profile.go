package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type ProfileHandler struct {
	ProfileService *service.ProfileService
}

// HandlePassword godoc
//
//	@Summary		Change Password
//	@Description	Change the caller's password after confirming the current one.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PasswordChangeRequest	true	"Current and new password"
//	@Success		200		{object}	StatusResponse			"updated"
//	@Failure		400		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse		"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse		"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/profile/password [post].
func (h *ProfileHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req PasswordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.ProfileService.ChangePassword(ctx, httpx.UserIDFromContext(ctx), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort):
			httpx.WriteError(w, http.StatusBadRequest, "weak_password", "Password must be at least 6 characters")
		case errors.Is(err, service.ErrInvalidCredential):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Current password is incorrect")
		default:
			log.Error("password change failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Password change failed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}

// HandleName godoc
//
//	@Summary		Change Display Name
//	@Description	Update the caller's display name on both the identity provider and the console record.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		NameChangeRequest	true	"New display name"
//	@Success		200		{object}	StatusResponse		"updated"
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/profile/name [post].
func (h *ProfileHandler) HandleName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req NameChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	err := h.ProfileService.UpdateDisplayName(ctx, httpx.UserIDFromContext(ctx), req.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrMissingDisplayName) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "display_name is required")
			return
		}
		log.Error("display name change failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Display name change failed")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}
