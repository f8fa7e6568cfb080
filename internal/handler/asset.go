// This file implements the asset registry endpoints.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/prasert/fleetcheck/internal/domain"
	"github.com/prasert/fleetcheck/internal/service"
)

// AssetHandler serves the asset registry API.
type AssetHandler struct {
	assets service.AssetService
	logger *slog.Logger
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assets service.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		assets: assets,
		logger: logger,
	}
}

// RegisterRoutes registers asset routes on the mux.
func (h *AssetHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/assets", h.handleList)
	mux.HandleFunc("POST /api/assets", h.handleCreate)
	mux.HandleFunc("GET /api/assets/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/assets/{id}", h.handleUpdate)
}

// =============================================================================
// Request Shapes
// =============================================================================

type createAssetRequest struct {
	BU         string   `json:"bu"`
	Type       string   `json:"type"`
	Identifier string   `json:"identifier"`
	Site       string   `json:"site"`
	Kind       string   `json:"kind"`
	Location   string   `json:"location"`
	Owner      string   `json:"owner"`
	Plant      string   `json:"plant"`
	Status     string   `json:"status"`
	ImageKeys  []string `json:"image_keys"`
}

type updateAssetRequest struct {
	Site      string   `json:"site"`
	Kind      string   `json:"kind"`
	Location  string   `json:"location"`
	Owner     string   `json:"owner"`
	Plant     string   `json:"plant"`
	Status    string   `json:"status"`
	ImageKeys []string `json:"image_keys"`
}

// =============================================================================
// Response Shapes
// =============================================================================

type assetResponse struct {
	ID         string    `json:"id"`
	BU         string    `json:"bu"`
	Type       string    `json:"type"`
	Identifier string    `json:"identifier"`
	Site       string    `json:"site"`
	Kind       string    `json:"kind,omitempty"`
	Location   string    `json:"location,omitempty"`
	Owner      string    `json:"owner,omitempty"`
	Plant      string    `json:"plant,omitempty"`
	Status     string    `json:"status"`
	ImageKeys  []string  `json:"image_keys,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toAssetResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		ID:         a.ID.String(),
		BU:         a.BU,
		Type:       a.Type,
		Identifier: a.Identifier,
		Site:       a.Site,
		Kind:       a.Kind,
		Location:   a.Location,
		Owner:      a.Owner,
		Plant:      a.Plant,
		Status:     a.Status.String(),
		ImageKeys:  a.ImageKeys,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// =============================================================================
// Handlers
// =============================================================================

// handleList serves GET /api/assets?bu=&type=&site=.
func (h *AssetHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	assets, err := h.assets.List(r.Context(), domain.ListAssetsParams{
		BU:   q.Get("bu"),
		Type: q.Get("type"),
		Site: q.Get("site"),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	resp := make([]assetResponse, 0, len(assets))
	for i := range assets {
		resp = append(resp, toAssetResponse(&assets[i]))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assets": resp})
}

// handleCreate serves POST /api/assets.
func (h *AssetHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "handler.asset.create"

	var req createAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	asset, err := h.assets.Create(r.Context(), domain.CreateAssetParams{
		BU:         req.BU,
		Type:       req.Type,
		Identifier: req.Identifier,
		Site:       req.Site,
		Kind:       req.Kind,
		Location:   req.Location,
		Owner:      req.Owner,
		Plant:      req.Plant,
		Status:     domain.AssetStatus(req.Status),
		ImageKeys:  req.ImageKeys,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

// handleGet serves GET /api/assets/{id}.
func (h *AssetHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "handler.asset.get"

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid asset id"))
		return
	}

	asset, err := h.assets.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

// handleUpdate serves PUT /api/assets/{id}.
func (h *AssetHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	const op = "handler.asset.update"

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid asset id"))
		return
	}

	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	if err := h.assets.Update(r.Context(), domain.UpdateAssetParams{
		ID:        id,
		Site:      req.Site,
		Kind:      req.Kind,
		Location:  req.Location,
		Owner:     req.Owner,
		Plant:     req.Plant,
		Status:    domain.AssetStatus(req.Status),
		ImageKeys: req.ImageKeys,
	}); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	updated, err := h.assets.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, toAssetResponse(updated))
}
