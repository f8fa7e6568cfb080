// This file implements the inspection transaction endpoints, including
// the CSV export download.
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

// TransactionHandler serves the inspection transaction API.
type TransactionHandler struct {
	transactions service.TransactionService
	loc          *time.Location
	logger       *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler. loc is the
// reporting timezone used to resolve period keywords in list filters.
func NewTransactionHandler(transactions service.TransactionService, loc *time.Location, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		loc:          loc,
		logger:       logger,
	}
}

// RegisterRoutes registers transaction routes on the mux.
func (h *TransactionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/transactions", h.handleList)
	mux.HandleFunc("POST /api/transactions", h.handleRecord)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.handleDelete)
	mux.HandleFunc("GET /api/transactions/export", h.handleExport)
}

// =============================================================================
// Request / Response Shapes
// =============================================================================

type recordTransactionRequest struct {
	BU        string            `json:"bu"`
	Type      string            `json:"type"`
	AssetID   string            `json:"asset_id"`
	Site      string            `json:"site"`
	Inspector string            `json:"inspector"`
	Remark    string            `json:"remark"`
	ImageKeys []string          `json:"image_keys"`
	Timestamp time.Time         `json:"timestamp"`
	Items     domain.ItemFields `json:"items"`
}

type transactionResponse struct {
	ID           string            `json:"id"`
	BU           string            `json:"bu"`
	Type         string            `json:"type"`
	AssetID      string            `json:"asset_id"`
	Site         string            `json:"site,omitempty"`
	Inspector    string            `json:"inspector"`
	Remark       string            `json:"remark,omitempty"`
	ImageKeys    []string          `json:"image_keys,omitempty"`
	Timestamp    time.Time         `json:"timestamp"`
	CreatedAt    time.Time         `json:"created_at"`
	Items        domain.ItemFields `json:"items"`
	Status       string            `json:"status,omitempty"`
	FailedFields []string          `json:"failed_fields,omitempty"`
}

func toTransactionResponse(tx *domain.InspectionTransaction, c *domain.Classification) transactionResponse {
	resp := transactionResponse{
		ID:        tx.ID.String(),
		BU:        tx.BU,
		Type:      tx.Type,
		AssetID:   tx.AssetID,
		Site:      tx.Site,
		Inspector: tx.Inspector,
		Remark:    tx.Remark,
		ImageKeys: tx.ImageKeys,
		Timestamp: tx.Timestamp,
		CreatedAt: tx.CreatedAt,
		Items:     tx.Items,
	}
	if c != nil {
		resp.Status = string(c.Status)
		resp.FailedFields = c.FailedFields
	}
	return resp
}

// =============================================================================
// Handlers
// =============================================================================

// handleRecord serves POST /api/transactions.
func (h *TransactionHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	const op = "handler.transaction.record"

	var req recordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid request body"))
		return
	}

	tx, err := h.transactions.Record(r.Context(), domain.RecordTransactionParams{
		BU:        req.BU,
		Type:      req.Type,
		AssetID:   req.AssetID,
		Site:      req.Site,
		Inspector: req.Inspector,
		Remark:    req.Remark,
		ImageKeys: req.ImageKeys,
		Timestamp: req.Timestamp,
		Items:     req.Items,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	classification := domain.Classify(tx)
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx, &classification))
}

// handleList serves GET /api/transactions?bu=&type=&period=.
func (h *TransactionHandler) handleList(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.list(w, r)
	if !ok {
		return
	}

	resp := make([]transactionResponse, 0, len(txs))
	for i := range txs {
		resp = append(resp, toTransactionResponse(&txs[i].InspectionTransaction, &txs[i].Classification))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"transactions": resp})
}

// handleDelete serves DELETE /api/transactions/{id}.
func (h *TransactionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	const op = "handler.transaction.delete"

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid(op, "invalid transaction id"))
		return
	}

	if err := h.transactions.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleExport serves GET /api/transactions/export as a CSV download.
// It accepts the same filters as the list endpoint.
func (h *TransactionHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	txs, ok := h.list(w, r)
	if !ok {
		return
	}

	filename := "inspections-" + time.Now().In(h.loc).Format("2006-01-02") + ".csv"
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := service.WriteTransactionsCSV(w, txs); err != nil {
		// Headers are already out; just log the broken stream.
		h.logger.Error("csv export failed", "error", err)
	}
}

// list parses the shared filter query params and fetches classified
// transactions. On failure it writes the error response and returns
// ok=false.
func (h *TransactionHandler) list(w http.ResponseWriter, r *http.Request) ([]service.ClassifiedTransaction, bool) {
	const op = "handler.transaction.list"

	q := r.URL.Query()
	params := domain.ListTransactionsParams{
		BU:   q.Get("bu"),
		Type: q.Get("type"),
	}

	if p := q.Get("period"); p != "" {
		period := domain.Period(p)
		if !period.IsValid() {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "period must be one of daily, monthly, quarterly, annual"))
			return nil, false
		}
		window := domain.ResolveWindow(period, time.Now().In(h.loc))
		params.Window = &window
	}

	txs, err := h.transactions.List(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return nil, false
	}
	return txs, true
}
