// Package service contains the business logic layer.
//
// This file implements the natural-key join between the asset registry
// and inspection transactions. Transactions carry no foreign key to an
// asset row, only the (bu, type, identifier) triple, so every
// aggregation run builds this index once and joins through it.
package service

import (
	"log/slog"

	"github.com/prasert/fleetcheck/internal/domain"
	"github.com/prasert/fleetcheck/internal/metrics"
)

// =============================================================================
// Group Key
// =============================================================================

// GroupKey identifies one statistics cell: an asset type at a site.
type GroupKey struct {
	AssetType string
	Site      string
}

// =============================================================================
// Asset Index
// =============================================================================

// AssetIndex holds the registry joined views for one aggregation run:
// the natural-key lookup, the (type, site) grouping, and global
// total-by-type counts used for filter badges.
type AssetIndex struct {
	byKey        map[string]*domain.Asset
	groups       map[GroupKey][]*domain.Asset
	totalsByType map[string]int

	// Collisions counts assets whose natural key was already indexed.
	// Uniqueness is not enforced upstream; the first asset seen wins the
	// join, but every registered row still counts toward cell totals.
	Collisions int
}

// BuildAssetIndex indexes the registry snapshot. Duplicate natural keys
// are counted and logged rather than silently absorbed.
func BuildAssetIndex(assets []domain.Asset, logger *slog.Logger) *AssetIndex {
	idx := &AssetIndex{
		byKey:        make(map[string]*domain.Asset, len(assets)),
		groups:       make(map[GroupKey][]*domain.Asset),
		totalsByType: make(map[string]int),
	}

	for i := range assets {
		a := &assets[i]
		key := a.NaturalKey()

		if _, exists := idx.byKey[key]; exists {
			idx.Collisions++
			metrics.NaturalKeyCollisions.Inc()
			logger.Warn("duplicate asset natural key, keeping first match",
				"key", key,
				"site", a.Site,
			)
		} else {
			idx.byKey[key] = a
		}

		group := GroupKey{AssetType: a.Type, Site: a.Site}
		idx.groups[group] = append(idx.groups[group], a)
		idx.totalsByType[a.Type]++
	}

	return idx
}

// Lookup resolves a transaction's natural key to its registered asset.
func (idx *AssetIndex) Lookup(bu, assetType, identifier string) (*domain.Asset, bool) {
	a, ok := idx.byKey[domain.NaturalKey(bu, assetType, identifier)]
	return a, ok
}

// Groups returns the registered assets of every (type, site) cell.
func (idx *AssetIndex) Groups() map[GroupKey][]*domain.Asset {
	return idx.groups
}

// TotalsByType returns the global registered-asset count per type.
func (idx *AssetIndex) TotalsByType() map[string]int {
	return idx.totalsByType
}
