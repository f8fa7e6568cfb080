package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasert/fleetcheck/internal/domain"
)

func carFleet(n int, site string) []domain.Asset {
	assets := make([]domain.Asset, 0, n)
	for i := 1; i <= n; i++ {
		assets = append(assets, domain.Asset{
			BU:         "th",
			Type:       "car",
			Identifier: fmt.Sprintf("TR-%d", i),
			Site:       site,
			Status:     domain.AssetStatusActive,
		})
	}
	return assets
}

func passingTx(assetID string, ts time.Time) domain.InspectionTransaction {
	return domain.InspectionTransaction{
		BU: "th", Type: "car", AssetID: assetID,
		Inspector: "somchai", Timestamp: ts,
		Items: domain.ItemFields{{Name: "brake", Value: "pass"}},
	}
}

func failingTx(assetID string, ts time.Time) domain.InspectionTransaction {
	return domain.InspectionTransaction{
		BU: "th", Type: "car", AssetID: assetID,
		Inspector: "somchai", Timestamp: ts,
		Items: domain.ItemFields{{Name: "brake", Value: "fail"}},
	}
}

func dailyWindow() domain.PeriodWindow {
	now := time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)
	return domain.ResolveWindow(domain.PeriodDaily, now)
}

// Ten registered cars at site "ho"; four distinct assets inspected in
// the window, one of them twice (one pass, one fail). Completion counts
// assets, defects count failing events.
func TestAggregateCompletionAndDefects(t *testing.T) {
	assets := carFleet(10, "ho")
	window := dailyWindow()
	in := window.Start.Add(8 * time.Hour)

	txs := []domain.InspectionTransaction{
		passingTx("TR-1", in),
		passingTx("TR-2", in.Add(time.Minute)),
		passingTx("TR-3", in.Add(2*time.Minute)),
		passingTx("TR-4", in.Add(3*time.Minute)),
		failingTx("TR-4", in.Add(4*time.Hour)),
	}

	idx := BuildAssetIndex(assets, discardLogger())
	stats, orphans := Aggregate(idx, txs, window)

	require.Zero(t, orphans)
	cell, ok := stats.Cell("car", "ho")
	require.True(t, ok)

	assert.Equal(t, 10, cell.Total)
	assert.Equal(t, 4, cell.Inspected)
	assert.Equal(t, 1, cell.Defects)
	assert.Equal(t, 40, cell.Percentage)
	assert.Equal(t, domain.SeverityMedium, cell.Severity())

	// Every contributing transaction appears in the drill-down, in
	// input order, including the duplicate inspection.
	require.Len(t, cell.InspectionRecords, 5)
	assert.Equal(t, "TR-1", cell.InspectionRecords[0].AssetID)
	assert.False(t, cell.InspectionRecords[3].HasDefect)
	assert.True(t, cell.InspectionRecords[4].HasDefect)
}

func TestAggregateSeedsEmptyCells(t *testing.T) {
	assets := []domain.Asset{
		{BU: "th", Type: "car", Identifier: "TR-1", Site: "ho"},
		{BU: "th", Type: "mixer", Identifier: "MX-1", Site: "bp"},
	}

	idx := BuildAssetIndex(assets, discardLogger())
	stats, _ := Aggregate(idx, nil, dailyWindow())

	cell, ok := stats.Cell("mixer", "bp")
	require.True(t, ok)
	assert.Equal(t, 1, cell.Total)
	assert.Zero(t, cell.Inspected)
	assert.Zero(t, cell.Percentage, "no inspections never divides by zero")
	assert.Equal(t, domain.SeverityNone, cell.Severity())
}

func TestAggregateWindowBoundariesAreHalfOpen(t *testing.T) {
	assets := carFleet(2, "ho")
	window := dailyWindow()

	txs := []domain.InspectionTransaction{
		passingTx("TR-1", window.Start),               // exactly at start: included
		passingTx("TR-2", window.End),                 // exactly at end: excluded
		passingTx("TR-2", window.Start.Add(-time.Nanosecond)), // before start: excluded
	}

	idx := BuildAssetIndex(assets, discardLogger())
	stats, _ := Aggregate(idx, txs, window)

	cell, ok := stats.Cell("car", "ho")
	require.True(t, ok)
	assert.Equal(t, 1, cell.Inspected)
	require.Len(t, cell.InspectionRecords, 1)
	assert.Equal(t, "TR-1", cell.InspectionRecords[0].AssetID)
}

func TestAggregateDropsOrphanedTransactions(t *testing.T) {
	assets := carFleet(1, "ho")
	window := dailyWindow()
	in := window.Start.Add(time.Hour)

	txs := []domain.InspectionTransaction{
		passingTx("TR-1", in),
		passingTx("TR-404", in),                  // unknown identifier
		failingTx("TR-1", in.Add(time.Minute)),   // known
		{BU: "vn", Type: "car", AssetID: "TR-1", // wrong business unit
			Inspector: "linh", Timestamp: in,
			Items: domain.ItemFields{{Name: "brake", Value: "pass"}}},
	}

	idx := BuildAssetIndex(assets, discardLogger())
	stats, orphans := Aggregate(idx, txs, window)

	assert.Equal(t, 2, orphans)
	cell, ok := stats.Cell("car", "ho")
	require.True(t, ok)
	assert.Equal(t, 1, cell.Inspected)
	assert.Equal(t, 1, cell.Defects)
	assert.Len(t, cell.InspectionRecords, 2)
}

func TestAggregateIsIdempotent(t *testing.T) {
	assets := carFleet(5, "ho")
	window := dailyWindow()
	in := window.Start.Add(time.Hour)

	txs := []domain.InspectionTransaction{
		passingTx("TR-1", in),
		failingTx("TR-2", in),
		passingTx("TR-404", in),
	}

	idx := BuildAssetIndex(assets, discardLogger())
	first, firstOrphans := Aggregate(idx, txs, window)
	second, secondOrphans := Aggregate(idx, txs, window)

	assert.Equal(t, first, second)
	assert.Equal(t, firstOrphans, secondOrphans)
}

func TestAggregateSplitsCellsBySite(t *testing.T) {
	assets := append(carFleet(2, "ho"), domain.Asset{
		BU: "th", Type: "car", Identifier: "TR-9", Site: "bp",
	})
	window := dailyWindow()
	in := window.Start.Add(time.Hour)

	txs := []domain.InspectionTransaction{
		passingTx("TR-1", in),
		failingTx("TR-9", in),
	}

	idx := BuildAssetIndex(assets, discardLogger())
	stats, _ := Aggregate(idx, txs, window)

	ho, ok := stats.Cell("car", "ho")
	require.True(t, ok)
	assert.Equal(t, 2, ho.Total)
	assert.Equal(t, 1, ho.Inspected)
	assert.Zero(t, ho.Defects)
	assert.Equal(t, 50, ho.Percentage)

	bp, ok := stats.Cell("car", "bp")
	require.True(t, ok)
	assert.Equal(t, 1, bp.Total)
	assert.Equal(t, 1, bp.Inspected)
	assert.Equal(t, 1, bp.Defects)
	assert.Equal(t, 100, bp.Percentage)
}
