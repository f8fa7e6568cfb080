// Package store provides Postgres persistence for assets and inspection
// transactions.
//
// This file implements asset queries.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/prasert/fleetcheck/internal/domain"
)

const assetColumns = "id, bu, type, identifier, site, kind, location, owner, plant, status, image_keys, created_at, updated_at"

// scanAsset reads one asset row from the given scanner.
func scanAsset(row interface{ Scan(...interface{}) error }) (domain.Asset, error) {
	var a domain.Asset
	var imageKeys []string
	err := row.Scan(
		&a.ID, &a.BU, &a.Type, &a.Identifier, &a.Site,
		&a.Kind, &a.Location, &a.Owner, &a.Plant,
		(*string)(&a.Status), pq.Array(&imageKeys),
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Asset{}, err
	}
	a.ImageKeys = imageKeys
	return a, nil
}

// ListAssets returns assets matching the filters, ordered by registration
// time. Empty filter values match everything.
func (s *Store) ListAssets(ctx context.Context, params domain.ListAssetsParams) ([]domain.Asset, error) {
	query := "SELECT " + assetColumns + " FROM assets"
	var conds []string
	var args []interface{}

	if params.BU != "" {
		args = append(args, params.BU)
		conds = append(conds, fmt.Sprintf("bu = $%d", len(args)))
	}
	if params.Type != "" {
		args = append(args, params.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if params.Site != "" {
		args = append(args, params.Site)
		conds = append(conds, fmt.Sprintf("site = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// GetAssetByNaturalKey returns the first asset registered under the
// (bu, type, identifier) key. sql.ErrNoRows when none match.
func (s *Store) GetAssetByNaturalKey(ctx context.Context, bu, assetType, identifier string) (domain.Asset, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE bu = $1 AND type = $2 AND identifier = $3 ORDER BY created_at, id LIMIT 1",
		bu, assetType, identifier,
	)
	return scanAsset(row)
}

// GetAssetByID returns one asset by row ID. sql.ErrNoRows when absent.
func (s *Store) GetAssetByID(ctx context.Context, id uuid.UUID) (domain.Asset, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+assetColumns+" FROM assets WHERE id = $1", id,
	)
	return scanAsset(row)
}

// CountAssetsByNaturalKey returns how many registered assets share the key.
func (s *Store) CountAssetsByNaturalKey(ctx context.Context, bu, assetType, identifier string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assets WHERE bu = $1 AND type = $2 AND identifier = $3",
		bu, assetType, identifier,
	).Scan(&count)
	return count, err
}

// CreateAsset inserts a new asset row.
func (s *Store) CreateAsset(ctx context.Context, a *domain.Asset) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assets (id, bu, type, identifier, site, kind, location, owner, plant, status, image_keys, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.BU, a.Type, a.Identifier, a.Site,
		a.Kind, a.Location, a.Owner, a.Plant,
		string(a.Status), pq.Array(a.ImageKeys),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// UpdateAsset updates the mutable fields of an asset. The natural key is
// immutable. sql.ErrNoRows when the row does not exist.
func (s *Store) UpdateAsset(ctx context.Context, params domain.UpdateAssetParams, now time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE assets
		 SET site = $2, kind = $3, location = $4, owner = $5, plant = $6, status = $7, image_keys = $8, updated_at = $9
		 WHERE id = $1`,
		params.ID, params.Site, params.Kind, params.Location,
		params.Owner, params.Plant, string(params.Status),
		pq.Array(params.ImageKeys), now,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBusinessUnits returns the distinct business unit codes of all
// registered assets, sorted.
func (s *Store) ListBusinessUnits(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT bu FROM assets ORDER BY bu")
	if err != nil {
		return nil, fmt.Errorf("list business units: %w", err)
	}
	defer rows.Close()

	var bus []string
	for rows.Next() {
		var bu string
		if err := rows.Scan(&bu); err != nil {
			return nil, err
		}
		bus = append(bus, bu)
	}
	return bus, rows.Err()
}
