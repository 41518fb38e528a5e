package http

import (
	"errors"
	"net/http"

	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type UsersHandler struct {
	DirectoryService *service.DirectoryService
}

// HandleList godoc
//
//	@Summary		List Users
//	@Description	List console user records, newest first. Admin-only.
//	@Tags			Directory
//	@Produce		json
//	@Success		200	{array}		UserResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.DirectoryService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list users")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{
			UID:          u.UID,
			Email:        u.Email,
			DisplayName:  u.DisplayName,
			Role:         u.Role,
			PendingEmail: u.PendingEmail,
			CreatedAt:    u.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleDelete godoc
//
//	@Summary		Delete User
//	@Description	Remove a console user record and the identity-provider account behind it. Admin-only.
//	@Tags			Directory
//	@Produce		json
//	@Param			uid	path		string				true	"User id"
//	@Success		200	{object}	StatusResponse		"deleted"
//	@Failure		400	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/users/{uid} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	uid := r.PathValue("uid")
	if uid == httpx.UserIDFromContext(ctx) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "You cannot delete your own account")
		return
	}

	if err := h.DirectoryService.DeleteUser(ctx, uid); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "User not found")
			return
		}
		log.Error("failed to delete user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete user")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
