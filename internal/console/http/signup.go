package http

import (
	"errors"
	"net/http"

	"github.com/waypointhq/console/internal/console/identity"
	"github.com/waypointhq/console/internal/console/obs"
	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type SignupHandler struct {
	RegistrationService *service.RegistrationService
}

// ServeHTTP godoc
//
//	@Summary		Invitation Signup
//	@Description	Register with an invitation token. The token is single-use and carried from the invitation URL's query parameter into the token form field.
//	@Description	A successful signup lands in the pending queue; an admin must approve it before login works.
//	@Tags			Registration
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			token			formData	string				true	"Invitation token"
//	@Param			email			formData	string				true	"Email address"
//	@Param			password		formData	string				true	"Password (min 6 characters)"
//	@Param			display_name	formData	string				true	"Display name"
//	@Success		201				{object}	SignupResponse		"signup_id, uid, email, status"
//	@Failure		400				{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		409				{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		410				{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500				{object}	httpx.ErrorResponse	"error, error_description"
//	@Router			/v1/signup [post].
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form body")
		return
	}

	signup, err := h.RegistrationService.Register(ctx,
		r.FormValue("token"),
		r.FormValue("email"),
		r.FormValue("password"),
		r.FormValue("display_name"),
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingSignupFields):
			obs.ObserveRegistration("rejected")
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token, email, password and display_name are required")
		case errors.Is(err, service.ErrPasswordTooShort):
			obs.ObserveRegistration("rejected")
			httpx.WriteError(w, http.StatusBadRequest, "weak_password", "Password must be at least 6 characters")
		case errors.Is(err, service.ErrTokenInvalid):
			obs.ObserveRegistration("rejected")
			httpx.WriteError(w, http.StatusBadRequest, "invalid_token", "Invitation token is invalid")
		case errors.Is(err, service.ErrTokenExpired):
			obs.ObserveRegistration("rejected")
			httpx.WriteError(w, http.StatusGone, "expired_token", "Invitation token has expired")
		case errors.Is(err, service.ErrTokenUsed):
			obs.ObserveRegistration("rejected")
			httpx.WriteError(w, http.StatusGone, "used_token", "Invitation token has already been used")
		case errors.Is(err, identity.ErrEmailInUse):
			obs.ObserveRegistration("rejected")
			httpx.WriteError(w, http.StatusConflict, "email_in_use", "An account already exists for this email")
		default:
			obs.ObserveRegistration("error")
			log.Error("signup failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Signup failed")
		}
		return
	}

	obs.ObserveRegistration("ok")
	httpx.WriteJSON(w, http.StatusCreated, SignupResponse{
		SignupID: signup.ID,
		UID:      signup.UID,
		Email:    signup.Email,
		Status:   "pending",
	})
}
