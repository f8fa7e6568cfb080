// Package service contains the business logic layer.
//
// This file implements the inspection transaction service: recording
// submitted inspections and serving classified transaction lists.
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

// ClassifiedTransaction pairs a stored transaction with its pass/fail/na
// classification for list and export views.
type ClassifiedTransaction struct {
	domain.InspectionTransaction
	Classification domain.Classification
}

// TransactionService defines the interface for inspection transaction
// operations. Transactions are immutable after recording, apart from
// explicit deletion.
type TransactionService interface {
	// Record stores a newly submitted inspection. The site is inherited
	// from the registered asset when omitted. Submissions for unknown
	// assets are still recorded; aggregation excludes them later.
	// Returns domain.EINVALID for validation errors.
	Record(ctx context.Context, params domain.RecordTransactionParams) (*domain.InspectionTransaction, error)

	// List retrieves transactions matching the filters, each with its
	// classification attached.
	List(ctx context.Context, params domain.ListTransactionsParams) ([]ClassifiedTransaction, error)

	// Delete removes one transaction.
	// Returns domain.ENOTFOUND when the transaction does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// =============================================================================
// Implementation
// =============================================================================

type transactionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(st *store.Store, logger *slog.Logger) TransactionService {
	return &transactionService{
		store:  st,
		logger: logger,
	}
}

// =============================================================================
// Record
// =============================================================================

// Record stores a newly submitted inspection.
func (s *transactionService) Record(ctx context.Context, params domain.RecordTransactionParams) (*domain.InspectionTransaction, error) {
	const op = "transaction.record"

	if err := validateRecordParams(params); err != nil {
		return nil, err
	}

	now := time.Now()
	timestamp := params.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}

	site := strings.TrimSpace(params.Site)
	if site == "" {
		// Inherit the site from the registered asset. A missing asset is
		// not an error: stale or early submissions are kept and simply
		// excluded from aggregation until the asset is registered.
		asset, err := s.store.GetAssetByNaturalKey(ctx, params.BU, params.Type, params.AssetID)
		switch {
		case err == nil:
			site = asset.Site
		case errors.Is(err, sql.ErrNoRows):
			s.logger.Warn("transaction recorded for unregistered asset",
				"key", domain.NaturalKey(params.BU, params.Type, params.AssetID),
			)
		default:
			return nil, domain.Internal(err, op, "failed to resolve asset")
		}
	}

	tx := &domain.InspectionTransaction{
		ID:        uuid.New(),
		BU:        strings.TrimSpace(params.BU),
		Type:      strings.TrimSpace(params.Type),
		AssetID:   strings.TrimSpace(params.AssetID),
		Site:      site,
		Inspector: strings.TrimSpace(params.Inspector),
		Remark:    params.Remark,
		ImageKeys: params.ImageKeys,
		Timestamp: timestamp,
		CreatedAt: now,
		Items:     params.Items,
	}

	if err := s.store.InsertTransaction(ctx, tx); err != nil {
		return nil, domain.Internal(err, op, "failed to record transaction")
	}

	classification := domain.Classify(tx)
	s.logger.Info("transaction recorded",
		"transaction_id", tx.ID,
		"key", tx.NaturalKey(),
		"inspector", tx.Inspector,
		"status", classification.Status,
	)
	metrics.TransactionsRecorded.Inc()
	metrics.TransactionsClassified.WithLabelValues(string(classification.Status)).Inc()

	return tx, nil
}

// validateRecordParams validates transaction submission parameters.
func validateRecordParams(params domain.RecordTransactionParams) error {
	const op = "transaction.validate"

	if strings.TrimSpace(params.BU) == "" {
		return domain.Invalid(op, "business unit is required")
	}
	if strings.TrimSpace(params.Type) == "" {
		return domain.Invalid(op, "type is required")
	}
	if strings.TrimSpace(params.AssetID) == "" {
		return domain.Invalid(op, "asset identifier is required")
	}
	if strings.TrimSpace(params.Inspector) == "" {
		return domain.Invalid(op, "inspector is required")
	}
	for _, item := range params.Items {
		if domain.IsMetadataField(item.Name) {
			return domain.Invalid(op, "item field name collides with a metadata field: "+item.Name)
		}
	}

	return nil
}

// =============================================================================
// List
// =============================================================================

// List retrieves transactions matching the filters, classified.
func (s *transactionService) List(ctx context.Context, params domain.ListTransactionsParams) ([]ClassifiedTransaction, error) {
	const op = "transaction.list"

	storeParams := store.ListTransactionsParams{
		BU:   params.BU,
		Type: params.Type,
	}
	if params.Window != nil {
		storeParams.From = params.Window.Start
		storeParams.To = params.Window.End
	}

	txs, err := s.store.ListTransactions(ctx, storeParams)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list transactions")
	}

	classified := make([]ClassifiedTransaction, 0, len(txs))
	for i := range txs {
		classified = append(classified, ClassifiedTransaction{
			InspectionTransaction: txs[i],
			Classification:        domain.Classify(&txs[i]),
		})
	}
	return classified, nil
}

// =============================================================================
// Delete
// =============================================================================

// Delete removes one transaction.
func (s *transactionService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "transaction.delete"

	err := s.store.DeleteTransaction(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "transaction", id.String())
		}
		return domain.Internal(err, op, "failed to delete transaction")
	}

	s.logger.Info("transaction deleted", "transaction_id", id)
	return nil
}
