// Package store provides Postgres persistence for assets and inspection
// transactions.
//
// This file implements inspection transaction queries. Transactions are
// append-only: inserted once at submission, removed only by explicit
// deletion, never updated in place.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sqlc-dev/pqtype"

	"github.com/prasert/fleetcheck/internal/domain"
)

const transactionColumns = "id, bu, type, asset_identifier, site, inspector, remark, image_keys, items, ts, created_at"

// scanTransaction reads one transaction row from the given scanner. The
// items JSONB payload decodes through domain.ItemFields, which keeps the
// submitted field order intact.
func scanTransaction(row interface{ Scan(...interface{}) error }) (domain.InspectionTransaction, error) {
	var t domain.InspectionTransaction
	var imageKeys []string
	var items pqtype.NullRawMessage
	err := row.Scan(
		&t.ID, &t.BU, &t.Type, &t.AssetID, &t.Site,
		&t.Inspector, &t.Remark, pq.Array(&imageKeys),
		&items, &t.Timestamp, &t.CreatedAt,
	)
	if err != nil {
		return domain.InspectionTransaction{}, err
	}
	t.ImageKeys = imageKeys
	if items.Valid {
		if err := json.Unmarshal(items.RawMessage, &t.Items); err != nil {
			return domain.InspectionTransaction{}, fmt.Errorf("decode item fields: %w", err)
		}
	}
	return t, nil
}

// ListTransactionsParams filters transaction queries. From/To apply the
// half-open [From, To) window when non-zero.
type ListTransactionsParams struct {
	BU   string
	Type string
	From time.Time
	To   time.Time
}

// ListTransactions returns transactions matching the filters, oldest first.
func (s *Store) ListTransactions(ctx context.Context, params ListTransactionsParams) ([]domain.InspectionTransaction, error) {
	query := "SELECT " + transactionColumns + " FROM inspection_transactions"
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
	if !params.From.IsZero() {
		args = append(args, params.From)
		conds = append(conds, fmt.Sprintf("ts >= $%d", len(args)))
	}
	if !params.To.IsZero() {
		args = append(args, params.To)
		conds = append(conds, fmt.Sprintf("ts < $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY ts, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.InspectionTransaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// GetTransactionByID returns one transaction by row ID. sql.ErrNoRows
// when absent.
func (s *Store) GetTransactionByID(ctx context.Context, id uuid.UUID) (domain.InspectionTransaction, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM inspection_transactions WHERE id = $1", id,
	)
	return scanTransaction(row)
}

// InsertTransaction stores a newly submitted transaction.
func (s *Store) InsertTransaction(ctx context.Context, t *domain.InspectionTransaction) error {
	var items pqtype.NullRawMessage
	if len(t.Items) > 0 {
		raw, err := json.Marshal(t.Items)
		if err != nil {
			return fmt.Errorf("encode item fields: %w", err)
		}
		items = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO inspection_transactions (id, bu, type, asset_identifier, site, inspector, remark, image_keys, items, ts, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.BU, t.Type, t.AssetID, t.Site,
		t.Inspector, t.Remark, pq.Array(t.ImageKeys),
		items, t.Timestamp, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// DeleteTransaction removes one transaction. sql.ErrNoRows when the row
// does not exist.
func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM inspection_transactions WHERE id = $1", id,
	)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
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
