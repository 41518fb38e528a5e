package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/waypointhq/console/internal/console/domain"
	"github.com/waypointhq/console/internal/console/service"
	"github.com/waypointhq/console/pkg/httpx"
	"github.com/waypointhq/console/pkg/slogx"
)

type ShopsHandler struct {
	DirectoryService *service.DirectoryService
}

// HandleList godoc
//
//	@Summary		List Shops
//	@Description	List shops ordered by name, optionally filtered by a case-insensitive name search. Admin-only.
//	@Tags			Directory
//	@Produce		json
//	@Param			q	query		string	false	"Name filter"
//	@Success		200	{array}		ShopResponse
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/shops [get].
func (h *ShopsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	shops, err := h.DirectoryService.ListShops(ctx, r.URL.Query().Get("q"))
	if err != nil {
		log.Error("failed to list shops", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to list shops")
		return
	}

	out := make([]ShopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, shopResponse(s))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleCreate godoc
//
//	@Summary		Create Shop
//	@Description	Add a shop with its opening hours to the directory. Admin-only.
//	@Tags			Directory
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ShopRequest	true	"Shop details"
//	@Success		201		{object}	ShopResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/shops [post].
func (h *ShopsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	shop, err := h.DirectoryService.CreateShop(ctx, req.Name, req.OpeningTime, req.ClosingTime)
	if err != nil {
		if errors.Is(err, service.ErrMissingShopName) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
			return
		}
		log.Error("failed to create shop", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create shop")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, shopResponse(shop))
}

// HandleUpdate godoc
//
//	@Summary		Update Shop
//	@Description	Rewrite a shop's name and opening hours. Admin-only.
//	@Tags			Directory
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string		true	"Shop id"
//	@Param			request	body		ShopRequest	true	"Shop details"
//	@Success		200		{object}	ShopResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		404		{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500		{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/shops/{id} [put].
func (h *ShopsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req ShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	shop, err := h.DirectoryService.UpdateShop(ctx, r.PathValue("id"), req.Name, req.OpeningTime, req.ClosingTime)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingShopName):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		case errors.Is(err, service.ErrShopNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Shop not found")
		default:
			log.Error("failed to update shop", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to update shop")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, shopResponse(shop))
}

// HandleDelete godoc
//
//	@Summary		Delete Shop
//	@Description	Remove a shop from the directory. Admin-only.
//	@Tags			Directory
//	@Produce		json
//	@Param			id	path		string				true	"Shop id"
//	@Success		200	{object}	StatusResponse		"deleted"
//	@Failure		404	{object}	httpx.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	httpx.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/shops/{id} [delete].
func (h *ShopsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := h.DirectoryService.DeleteShop(ctx, r.PathValue("id")); err != nil {
		if errors.Is(err, service.ErrShopNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Shop not found")
			return
		}
		log.Error("failed to delete shop", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to delete shop")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

func shopResponse(s domain.Shop) ShopResponse {
	return ShopResponse{
		ID:          s.ID,
		Name:        s.Name,
		OpeningTime: s.OpeningTime,
		ClosingTime: s.ClosingTime,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
