package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type EmailHandler struct {
	EmailChangeService *service.EmailChangeService

	// BaseURL is the public address the verification link points at.
	BaseURL string
}

// HandleRequest godoc
//
//	@Summary		Request Email Change
//	@Description	Start a verified email change. The current password must be supplied; a single-use verification link is sent to the new address.
//	@Description	The console email stays unchanged until the link is used and the user logs in again.
//	@Tags			Profile
//	@Accept			json
//	@Produce		json
//	@Param			request	body		EmailChangeRequest	true	"New email and current password"
//	@Success		202		{object}	StatusResponse		"verification_sent"
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/profile/email [post].
func (h *EmailHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req EmailChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	uid := httpx.UserIDFromContext(ctx)
	token, err := h.EmailChangeService.RequestChange(ctx, uid, req.NewEmail, req.CurrentPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingEmail):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "new_email is required")
		case errors.Is(err, service.ErrEmailUnchanged):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "New email matches the current email")
		case errors.Is(err, service.ErrEmailChangeUnsupported):
			httpx.WriteError(w, http.StatusBadRequest, "unsupported", "Email change is not supported for this sign-in method")
		case errors.Is(err, service.ErrInvalidCredential):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Current password is incorrect")
		case errors.Is(err, identity.ErrEmailInUse):
			httpx.WriteError(w, http.StatusConflict, "email_in_use", "An account already exists for this email")
		case errors.Is(err, identity.ErrRequiresRecentLogin):
			httpx.WriteError(w, http.StatusUnauthorized, "requires_recent_login", "Please log in again before changing your email")
		default:
			log.Error("email change request failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Email change request failed")
		}
		return
	}

	// Mail delivery is not wired up; the link lands in the log for the
	// operator to forward.
	log.Info("verification link",
		"uid", uid,
		"url", h.BaseURL+"/v1/email/verify?token="+url.QueryEscape(token),
	)

	httpx.WriteJSON(w, http.StatusAccepted, StatusResponse{Status: "verification_sent"})
}

// HandleVerify godoc
//
//	@Summary		Verify Email Change
//	@Description	Target of the emailed verification link. Consumes the single-use token and moves the account's email; the console record follows at the next login.
//	@Tags			Profile
//	@Produce		json
//	@Param			token	query		string				true	"Verification token"
//	@Success		200		{object}	StatusResponse		"verified"
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		410		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/email/verify [get].
func (h *EmailHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	_, _, err := h.EmailChangeService.ConfirmVerification(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredential):
			httpx.WriteError(w, http.StatusGone, "invalid_token", "Verification link is invalid, expired, or already used")
		case errors.Is(err, identity.ErrEmailInUse):
			httpx.WriteError(w, http.StatusConflict, "email_in_use", "The address was claimed by another account")
		default:
			log.Error("email verification failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Verification failed")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "verified"})
}
