package http

import (
	"net/http"
	"net/url"
	"time"

	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type InviteMintHandler struct {
	InviteService *service.InviteService

	// BaseURL is the public address the signup page is served from; the
	// invitation URL carries the token as a query parameter.
	BaseURL string
}

// ServeHTTP godoc
//
//	@Summary		Mint Invitation
//	@Description	Mint a single-use invitation token and return the invitation URL to hand to the new admin. Admin-only.
//	@Tags			Invitations
//	@Produce		json
//	@Success		200	{object}	InviteResponse		"invite_url, token, expires_at"
//	@Failure		401	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteMintHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	createdBy := httpx.UserIDFromContext(ctx)
	if createdBy == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	token, err := h.InviteService.MintToken(ctx, createdBy)
	if err != nil {
		log.Error("failed to mint invitation", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create invitation")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, InviteResponse{
		InviteURL: h.BaseURL + "/signup?token=" + url.QueryEscape(token),
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(h.InviteService.TTLOrDefault()),
	})
}
