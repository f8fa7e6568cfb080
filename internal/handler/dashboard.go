// This file implements the compliance dashboard endpoints.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prasert/fleetcheck/internal/domain"
	"github.com/prasert/fleetcheck/internal/service"
)

// DashboardHandler serves aggregated completion statistics.
type DashboardHandler struct {
	dashboards service.DashboardService
	cache      *service.Refresher // nil when background refresh is disabled
	logger     *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler. cache may be nil;
// requests then always compute a fresh snapshot.
func NewDashboardHandler(dashboards service.DashboardService, cache *service.Refresher, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboards: dashboards,
		cache:      cache,
		logger:     logger,
	}
}

// RegisterRoutes registers dashboard routes on the mux.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.handleGet)
	mux.HandleFunc("GET /api/business-units", h.handleBusinessUnits)
}

// =============================================================================
// Response Shapes
// =============================================================================

type dashboardResponse struct {
	BU           string                 `json:"bu"`
	GeneratedAt  time.Time              `json:"generated_at"`
	TotalsByType map[string]int         `json:"totals_by_type"`
	Periods      map[string]periodStats `json:"periods"`
}

type periodStats struct {
	Start time.Time                       `json:"start"`
	End   time.Time                       `json:"end"`
	Types map[string]map[string]cellStats `json:"types"`
}

type cellStats struct {
	Total      int            `json:"total"`
	Inspected  int            `json:"inspected"`
	Defects    int            `json:"defects"`
	Percentage int            `json:"percentage"`
	Severity   string         `json:"severity"`
	Records    []recordDetail `json:"records"`
}

type recordDetail struct {
	AssetID   string    `json:"asset_id"`
	Timestamp time.Time `json:"timestamp"`
	Inspector string    `json:"inspector"`
	HasDefect bool      `json:"has_defect"`
}

func toDashboardResponse(snap *service.Snapshot, only domain.Period) dashboardResponse {
	resp := dashboardResponse{
		BU:           snap.BU,
		GeneratedAt:  snap.GeneratedAt,
		TotalsByType: snap.TotalsByType,
		Periods:      make(map[string]periodStats, len(snap.Periods)),
	}

	for period, stats := range snap.Periods {
		if only != "" && period != only {
			continue
		}

		ps := periodStats{
			Start: stats.Window.Start,
			End:   stats.Window.End,
			Types: make(map[string]map[string]cellStats, len(stats.Stats)),
		}
		for assetType, sites := range stats.Stats {
			cells := make(map[string]cellStats, len(sites))
			for site, cell := range sites {
				records := make([]recordDetail, 0, len(cell.InspectionRecords))
				for _, rec := range cell.InspectionRecords {
					records = append(records, recordDetail{
						AssetID:   rec.AssetID,
						Timestamp: rec.Timestamp,
						Inspector: rec.Inspector,
						HasDefect: rec.HasDefect,
					})
				}
				cells[site] = cellStats{
					Total:      cell.Total,
					Inspected:  cell.Inspected,
					Defects:    cell.Defects,
					Percentage: cell.Percentage,
					Severity:   cell.Severity().String(),
					Records:    records,
				}
			}
			ps.Types[assetType] = cells
		}
		resp.Periods[period.String()] = ps
	}

	return resp
}

// =============================================================================
// Handlers
// =============================================================================

// handleGet serves GET /api/dashboard?bu=<code>&period=<keyword>.
// Without a period it returns all four; with one, just that period.
func (h *DashboardHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	const op = "handler.dashboard"

	bu := r.URL.Query().Get("bu")

	var only domain.Period
	if p := r.URL.Query().Get("period"); p != "" {
		only = domain.Period(p)
		if !only.IsValid() {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "period must be one of daily, monthly, quarterly, annual"))
			return
		}
	}

	var snap *service.Snapshot
	if h.cache != nil {
		if cached, ok := h.cache.Get(bu); ok {
			snap = cached
		}
	}
	if snap == nil {
		fresh, err := h.dashboards.Snapshot(r.Context(), bu)
		if err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
		snap = fresh
	}

	writeJSON(w, http.StatusOK, toDashboardResponse(snap, only))
}

// handleBusinessUnits serves GET /api/business-units.
func (h *DashboardHandler) handleBusinessUnits(w http.ResponseWriter, r *http.Request) {
	bus, err := h.dashboards.BusinessUnits(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if bus == nil {
		bus = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"business_units": bus})
}
