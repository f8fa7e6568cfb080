// Package service contains the business logic layer.
//
// This file implements the asset registry service: registering and
// updating the physical assets that inspections are scored against.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prasert/fleetcheck/internal/domain"
	"github.com/prasert/fleetcheck/internal/metrics"
	"github.com/prasert/fleetcheck/internal/store"
)

// =============================================================================
// Interface Definition
// =============================================================================

// AssetService defines the interface for asset registry operations.
type AssetService interface {
	// Create registers a new asset.
	// Returns domain.EINVALID for validation errors.
	// Returns domain.ECONFLICT when the natural key is already registered.
	Create(ctx context.Context, params domain.CreateAssetParams) (*domain.Asset, error)

	// GetByID retrieves an asset by row ID.
	// Returns domain.ENOTFOUND when the asset does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)

	// List retrieves assets matching the given filters.
	List(ctx context.Context, params domain.ListAssetsParams) ([]domain.Asset, error)

	// Update modifies an asset's descriptive fields and status. The
	// natural key is immutable.
	// Returns domain.ENOTFOUND when the asset does not exist.
	Update(ctx context.Context, params domain.UpdateAssetParams) error
}

// =============================================================================
// Implementation
// =============================================================================

type assetService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewAssetService creates a new AssetService.
func NewAssetService(st *store.Store, logger *slog.Logger) AssetService {
	return &assetService{
		store:  st,
		logger: logger,
	}
}

// =============================================================================
// Create
// =============================================================================

// Create registers a new asset.
func (s *assetService) Create(ctx context.Context, params domain.CreateAssetParams) (*domain.Asset, error) {
	const op = "asset.create"

	if err := validateCreateAssetParams(params); err != nil {
		return nil, err
	}

	// Best-effort duplicate check. The schema does not enforce natural
	// key uniqueness (the upstream registry never did), so collisions
	// can still slip in concurrently; the join layer tolerates them.
	count, err := s.store.CountAssetsByNaturalKey(ctx, params.BU, params.Type, params.Identifier)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to check existing assets")
	}
	if count > 0 {
		return nil, domain.Conflict(op, "an asset with this business unit, type, and identifier already exists")
	}

	status := params.Status
	if status == "" {
		status = domain.AssetStatusActive
	}

	now := time.Now()
	asset := &domain.Asset{
		ID:         uuid.New(),
		BU:         strings.TrimSpace(params.BU),
		Type:       strings.TrimSpace(params.Type),
		Identifier: strings.TrimSpace(params.Identifier),
		Site:       strings.TrimSpace(params.Site),
		Kind:       params.Kind,
		Location:   params.Location,
		Owner:      params.Owner,
		Plant:      params.Plant,
		Status:     status,
		ImageKeys:  params.ImageKeys,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.CreateAsset(ctx, asset); err != nil {
		return nil, domain.Internal(err, op, "failed to create asset")
	}

	s.logger.Info("asset registered",
		"asset_id", asset.ID,
		"key", asset.NaturalKey(),
		"site", asset.Site,
	)
	metrics.AssetsCreated.Inc()

	return asset, nil
}

// validateCreateAssetParams validates asset registration parameters.
func validateCreateAssetParams(params domain.CreateAssetParams) error {
	const op = "asset.validate"

	if strings.TrimSpace(params.BU) == "" {
		return domain.Invalid(op, "business unit is required")
	}
	if strings.TrimSpace(params.Type) == "" {
		return domain.Invalid(op, "type is required")
	}
	if strings.TrimSpace(params.Identifier) == "" {
		return domain.Invalid(op, "identifier is required")
	}
	if strings.TrimSpace(params.Site) == "" {
		return domain.Invalid(op, "site is required")
	}
	if params.Status != "" && !params.Status.IsValid() {
		return domain.Invalid(op, "status must be active or inactive")
	}

	return nil
}

// =============================================================================
// GetByID
// =============================================================================

// GetByID retrieves an asset by row ID.
func (s *assetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	const op = "asset.get"

	asset, err := s.store.GetAssetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "asset", id.String())
		}
		return nil, domain.Internal(err, op, "failed to get asset")
	}
	return &asset, nil
}

// =============================================================================
// List
// =============================================================================

// List retrieves assets matching the given filters.
func (s *assetService) List(ctx context.Context, params domain.ListAssetsParams) ([]domain.Asset, error) {
	const op = "asset.list"

	assets, err := s.store.ListAssets(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list assets")
	}
	return assets, nil
}

// =============================================================================
// Update
// =============================================================================

// Update modifies an asset's descriptive fields and status.
func (s *assetService) Update(ctx context.Context, params domain.UpdateAssetParams) error {
	const op = "asset.update"

	if strings.TrimSpace(params.Site) == "" {
		return domain.Invalid(op, "site is required")
	}
	if !params.Status.IsValid() {
		return domain.Invalid(op, "status must be active or inactive")
	}

	err := s.store.UpdateAsset(ctx, params, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "asset", params.ID.String())
		}
		return domain.Internal(err, op, "failed to update asset")
	}

	s.logger.Info("asset updated",
		"asset_id", params.ID,
		"status", params.Status,
	)

	return nil
}
