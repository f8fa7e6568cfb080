// Package service contains the business logic layer.
//
// This file implements the background dashboard refresher: a polling
// loop that recomputes snapshots for every business unit and caches the
// latest result, so dashboard reads never wait on an aggregation run.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prasert/fleetcheck/internal/metrics"
)

// Refresher periodically recomputes dashboard snapshots.
type Refresher struct {
	dashboards DashboardService
	interval   time.Duration
	logger     *slog.Logger

	mu    sync.RWMutex
	cache map[string]*Snapshot

	wg     sync.WaitGroup
	stopCh chan struct{}
}

// NewRefresher creates a Refresher. It must be started with Start() and
// stopped with Stop().
func NewRefresher(dashboards DashboardService, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		dashboards: dashboards,
		interval:   interval,
		logger:     logger,
		cache:      make(map[string]*Snapshot),
		stopCh:     make(chan struct{}),
	}
}

// Start launches the refresh loop. The first refresh runs immediately so
// the cache is warm before the first dashboard request.
func (r *Refresher) Start(ctx context.Context) {
	r.wg.Add(1)
	go r.run(ctx)
	r.logger.Info("dashboard refresher started", "interval", r.interval)
}

// Stop signals the loop to exit and waits for it to finish.
func (r *Refresher) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	r.logger.Info("dashboard refresher stopped")
}

// Get returns the cached snapshot for a business unit, if one has been
// computed since startup.
func (r *Refresher) Get(bu string) (*Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.cache[bu]
	return snap, ok
}

func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refreshAll(ctx)

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refreshAll(ctx)
		}
	}
}

// refreshAll recomputes every business unit's snapshot. A failed unit is
// logged and skipped; its previous snapshot stays cached.
func (r *Refresher) refreshAll(ctx context.Context) {
	bus, err := r.dashboards.BusinessUnits(ctx)
	if err != nil {
		metrics.DashboardRefreshes.WithLabelValues("error").Inc()
		r.logger.Error("refresh failed to list business units", "error", err)
		return
	}

	for _, bu := range bus {
		snap, err := r.dashboards.Snapshot(ctx, bu)
		if err != nil {
			metrics.DashboardRefreshes.WithLabelValues("error").Inc()
			r.logger.Error("refresh failed", "bu", bu, "error", err)
			continue
		}

		r.mu.Lock()
		r.cache[bu] = snap
		r.mu.Unlock()
		metrics.DashboardRefreshes.WithLabelValues("ok").Inc()
	}
}
