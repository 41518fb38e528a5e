package http

import (
	"errors"
	"net/http"

	"github.com/waypointhq/console/internal/console/obs"
	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type PendingHandler struct {
	ApprovalService *service.ApprovalService
}

// HandleList godoc
//
//	@Summary		List Pending Signups
//	@Description	List signups awaiting an approval decision, newest first. Admin-only.
//	@Tags			Approvals
//	@Produce		json
//	@Success		200	{array}		PendingSignupResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/pending [get].
func (h *PendingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	signups, err := h.ApprovalService.ListPending(ctx)
	if err != nil {
		log.Error("failed to list pending signups", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list pending signups")
		return
	}

	out := make([]PendingSignupResponse, 0, len(signups))
	for _, s := range signups {
		out = append(out, PendingSignupResponse{
			ID:          s.ID,
			UID:         s.UID,
			Email:       s.Email,
			DisplayName: s.DisplayName,
			CreatedAt:   s.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleApprove godoc
//
//	@Summary		Approve Signup
//	@Description	Approve a pending signup, promoting it to a full admin user. Admin-only.
//	@Tags			Approvals
//	@Produce		json
//	@Param			id	path		string				true	"Pending signup id"
//	@Success		200	{object}	UserResponse
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/pending/{id}/approve [post].
func (h *PendingHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.ApprovalService.Approve(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrSignupNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Pending signup not found")
			return
		}
		log.Error("failed to approve signup", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to approve signup")
		return
	}

	obs.ObserveApproval("approved")
	httpx.WriteJSON(w, http.StatusOK, UserResponse{
		UID:         user.UID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	})
}

// HandleReject godoc
//
//	@Summary		Reject Signup
//	@Description	Reject a pending signup and drop it from the queue. Admin-only.
//	@Tags			Approvals
//	@Produce		json
//	@Param			id	path		string				true	"Pending signup id"
//	@Success		200	{object}	StatusResponse
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/pending/{id}/reject [post].
func (h *PendingHandler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.ApprovalService.Reject(ctx, httpx.UserIDFromContext(ctx), r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrSignupNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Pending signup not found")
			return
		}
		log.Error("failed to reject signup", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to reject signup")
		return
	}

	obs.ObserveApproval("rejected")
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "rejected"})
}
