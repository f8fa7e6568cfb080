package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasert/fleetcheck/internal/domain"
)

// fakeDashboardService returns canned snapshots per business unit.
type fakeDashboardService struct {
	bus   []string
	fail  map[string]bool
	calls int
}

func (f *fakeDashboardService) Snapshot(_ context.Context, bu string) (*Snapshot, error) {
	f.calls++
	if f.fail[bu] {
		return nil, errors.New("store unavailable")
	}
	return &Snapshot{
		BU:          bu,
		Periods:     map[domain.Period]*domain.DashboardStats{},
		GeneratedAt: time.Now(),
	}, nil
}

func (f *fakeDashboardService) BusinessUnits(context.Context) ([]string, error) {
	return f.bus, nil
}

func TestRefresherCachesSnapshots(t *testing.T) {
	fake := &fakeDashboardService{bus: []string{"th", "vn"}}
	r := NewRefresher(fake, time.Minute, discardLogger())

	_, ok := r.Get("th")
	assert.False(t, ok, "cache starts cold")

	r.refreshAll(context.Background())

	snap, ok := r.Get("th")
	require.True(t, ok)
	assert.Equal(t, "th", snap.BU)

	_, ok = r.Get("vn")
	assert.True(t, ok)
	assert.Equal(t, 2, fake.calls)
}

func TestRefresherKeepsStaleSnapshotOnFailure(t *testing.T) {
	fake := &fakeDashboardService{bus: []string{"th"}, fail: map[string]bool{}}
	r := NewRefresher(fake, time.Minute, discardLogger())

	r.refreshAll(context.Background())
	first, ok := r.Get("th")
	require.True(t, ok)

	// Subsequent failures must not evict the cached snapshot.
	fake.fail["th"] = true
	r.refreshAll(context.Background())

	second, ok := r.Get("th")
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestRefresherStartStop(t *testing.T) {
	fake := &fakeDashboardService{bus: []string{"th"}}
	r := NewRefresher(fake, time.Hour, discardLogger())

	r.Start(context.Background())
	r.Stop()

	_, ok := r.Get("th")
	assert.True(t, ok, "initial refresh runs before the first tick")
}
