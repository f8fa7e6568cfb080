// Package domain contains core business types and interfaces.
//
// This file defines the Asset domain type for physical equipment
// (vehicles, lifting gear, safety equipment) registered across
// business units and sites.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Asset Status
// =============================================================================

// AssetStatus represents the registration state of an asset.
type AssetStatus string

const (
	// AssetStatusActive indicates the asset is in service and expected
	// to be inspected.
	AssetStatusActive AssetStatus = "active"

	// AssetStatusInactive indicates the asset is retired or out of
	// service. Inactive assets remain registered; deletion is handled
	// outside this service.
	AssetStatusInactive AssetStatus = "inactive"
)

// String returns the string representation of the status.
func (s AssetStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusActive, AssetStatusInactive:
		return true
	}
	return false
}

// =============================================================================
// Asset Domain Type
// =============================================================================

// Asset represents one registered physical item.
//
// Inspection transactions reference assets by the (business unit, type,
// identifier) natural key rather than by row ID, so that key is the join
// key for all aggregation.
type Asset struct {
	ID         uuid.UUID   // Unique row identifier
	BU         string      // Business unit code (e.g., "th", "vn")
	Type       string      // Equipment category (e.g., "car", "lifting", "mixer")
	Identifier string      // Unique within (bu, type)
	Site       string      // Plant/location code, unique within the business unit
	Kind       string      // Optional: free-form sub-category
	Location   string      // Optional: where the asset lives on site
	Owner      string      // Optional: responsible person or department
	Plant      string      // Optional: plant designation
	Status     AssetStatus // active or inactive
	ImageKeys  []string    // Storage keys of registration photos
	CreatedAt  time.Time   // When the asset was registered
	UpdatedAt  time.Time   // When the asset was last modified
}

// NaturalKey returns the join key used to match inspection transactions
// to this asset.
func (a *Asset) NaturalKey() string {
	return NaturalKey(a.BU, a.Type, a.Identifier)
}

// IsActive returns true if the asset is in service.
func (a *Asset) IsActive() bool {
	return a.Status == AssetStatusActive
}

// NaturalKey builds the composite (bu, type, identifier) join key.
func NaturalKey(bu, assetType, identifier string) string {
	return bu + "|" + assetType + "|" + identifier
}

// =============================================================================
// Asset Service Parameters
// =============================================================================

// CreateAssetParams contains validated parameters for registering an asset.
type CreateAssetParams struct {
	BU         string      // Required: business unit code
	Type       string      // Required: equipment category
	Identifier string      // Required: unique within (bu, type)
	Site       string      // Required: site code
	Kind       string      // Optional
	Location   string      // Optional
	Owner      string      // Optional
	Plant      string      // Optional
	Status     AssetStatus // Defaults to active when empty
	ImageKeys  []string    // Optional
}

// UpdateAssetParams contains validated parameters for updating an asset.
// The natural key is immutable; descriptive fields and status may change.
type UpdateAssetParams struct {
	ID        uuid.UUID   // Asset to update
	Site      string      // Required: site code
	Kind      string      // Optional
	Location  string      // Optional
	Owner     string      // Optional
	Plant     string      // Optional
	Status    AssetStatus // Required
	ImageKeys []string    // Optional
}

// ListAssetsParams contains filters for listing assets.
type ListAssetsParams struct {
	BU   string // Optional: filter by business unit
	Type string // Optional: filter by equipment category
	Site string // Optional: filter by site
}
