// Package service contains the business logic layer.
//
// This file implements the completion aggregator: per (asset type, site)
// completion percentages and defect counts over the four reporting
// periods, plus the dashboard service that feeds it from the store.
package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prasert/fleetcheck/internal/domain"
	"github.com/prasert/fleetcheck/internal/metrics"
	"github.com/prasert/fleetcheck/internal/store"
)

// =============================================================================
// Pure Aggregation
// =============================================================================

// Aggregate computes one window's statistics from immutable snapshots.
//
// Each (type, site) cell is seeded from the registry, so totals reflect
// registered assets even when nothing was inspected. Completion counts an
// asset once per window no matter how often it was inspected; defects
// count every failing transaction. Transactions outside the window or
// without a matching asset are excluded; the orphan count is returned so
// the caller can surface it.
func Aggregate(idx *AssetIndex, txs []domain.InspectionTransaction, window domain.PeriodWindow) (domain.TypeStats, int) {
	stats := domain.TypeStats{}
	for group, assets := range idx.Groups() {
		sites, ok := stats[group.AssetType]
		if !ok {
			sites = domain.SiteStats{}
			stats[group.AssetType] = sites
		}
		sites[group.Site] = &domain.AssetTypeSiteStat{
			AssetType: group.AssetType,
			Site:      group.Site,
			Total:     len(assets),
		}
	}

	orphans := 0
	counted := make(map[string]struct{})

	for i := range txs {
		tx := &txs[i]
		if !window.Contains(tx.Timestamp) {
			continue
		}

		asset, ok := idx.Lookup(tx.BU, tx.Type, tx.AssetID)
		if !ok {
			orphans++
			continue
		}

		cell := stats[asset.Type][asset.Site]

		key := asset.NaturalKey()
		if _, seen := counted[key]; !seen {
			counted[key] = struct{}{}
			cell.Inspected++
		}

		c := domain.Classify(tx)
		if c.HasDefect() {
			cell.Defects++
		}

		cell.InspectionRecords = append(cell.InspectionRecords, domain.InspectionDetail{
			AssetID:   tx.AssetID,
			Timestamp: tx.Timestamp,
			Inspector: tx.Inspector,
			HasDefect: c.HasDefect(),
		})
	}

	for _, sites := range stats {
		for _, cell := range sites {
			cell.Percentage = domain.CompletionPercentage(cell.Inspected, cell.Total)
		}
	}

	return stats, orphans
}

// =============================================================================
// Interface Definition
// =============================================================================

// Snapshot bundles the aggregation output of all four reporting periods
// for one business unit.
type Snapshot struct {
	BU           string
	Periods      map[domain.Period]*domain.DashboardStats
	TotalsByType map[string]int
	GeneratedAt  time.Time
}

// DashboardService computes completion dashboards from stored snapshots.
type DashboardService interface {
	// Snapshot fetches the asset registry and this year's transactions
	// for a business unit and aggregates all four reporting periods.
	// An empty bu aggregates across every business unit.
	Snapshot(ctx context.Context, bu string) (*Snapshot, error)

	// BusinessUnits lists the business unit codes with registered assets.
	BusinessUnits(ctx context.Context) ([]string, error)
}

// =============================================================================
// Implementation
// =============================================================================

type dashboardService struct {
	store  *store.Store
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService. Period windows are
// resolved in loc, the configured reporting timezone.
func NewDashboardService(st *store.Store, logger *slog.Logger, loc *time.Location) DashboardService {
	return &dashboardService{
		store:  st,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// Snapshot aggregates the four reporting periods for one business unit.
func (s *dashboardService) Snapshot(ctx context.Context, bu string) (*Snapshot, error) {
	const op = "dashboard.snapshot"
	started := time.Now()

	now := s.now().In(s.loc)

	assets, err := s.store.ListAssets(ctx, domain.ListAssetsParams{BU: bu})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list assets")
	}

	// The annual window contains the daily, monthly, and quarterly
	// windows, so one fetch covers all four aggregations.
	annual := domain.ResolveWindow(domain.PeriodAnnual, now)
	txs, err := s.store.ListTransactions(ctx, store.ListTransactionsParams{
		BU:   bu,
		From: annual.Start,
		To:   annual.End,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list transactions")
	}

	idx := BuildAssetIndex(assets, s.logger)

	snapshot := &Snapshot{
		BU:           bu,
		Periods:      make(map[domain.Period]*domain.DashboardStats, 4),
		TotalsByType: idx.TotalsByType(),
		GeneratedAt:  now,
	}

	// The four period aggregations read the same inputs and write
	// disjoint outputs, so they run concurrently. Entries are created
	// before the goroutines start; each goroutine only fills its own.
	var wg sync.WaitGroup
	var orphans atomic.Int64
	for _, period := range domain.AllPeriods() {
		stats := &domain.DashboardStats{
			Period:      period,
			Window:      domain.ResolveWindow(period, now),
			GeneratedAt: now,
		}
		snapshot.Periods[period] = stats

		wg.Add(1)
		go func() {
			defer wg.Done()
			result, dropped := Aggregate(idx, txs, stats.Window)
			stats.Stats = result
			orphans.Add(int64(dropped))
			metrics.AggregationsComputed.WithLabelValues(string(stats.Period)).Inc()
		}()
	}
	wg.Wait()

	if n := orphans.Load(); n > 0 {
		// Orphans repeat across windows; the count is per window, not
		// per distinct transaction.
		metrics.OrphanedTransactions.Add(float64(n))
		s.logger.Warn("transactions without a registered asset were excluded",
			"bu", bu,
			"window_hits", n,
		)
	}

	metrics.AggregationDuration.Observe(time.Since(started).Seconds())
	s.logger.Info("dashboard snapshot computed",
		"bu", bu,
		"assets", len(assets),
		"transactions", len(txs),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return snapshot, nil
}

// BusinessUnits lists the business unit codes with registered assets.
func (s *dashboardService) BusinessUnits(ctx context.Context) ([]string, error) {
	const op = "dashboard.business_units"

	bus, err := s.store.ListBusinessUnits(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list business units")
	}
	return bus, nil
}
