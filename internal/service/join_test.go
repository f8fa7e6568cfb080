package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasert/fleetcheck/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildAssetIndex(t *testing.T) {
	assets := []domain.Asset{
		{BU: "th", Type: "car", Identifier: "TR-1", Site: "ho"},
		{BU: "th", Type: "car", Identifier: "TR-2", Site: "ho"},
		{BU: "th", Type: "car", Identifier: "TR-3", Site: "bp"},
		{BU: "th", Type: "lifting", Identifier: "LF-1", Site: "ho"},
		{BU: "vn", Type: "car", Identifier: "TR-1", Site: "hcm"},
	}

	idx := BuildAssetIndex(assets, discardLogger())

	assert.Zero(t, idx.Collisions)

	// Lookup resolves through the full natural key, so the Thai and
	// Vietnamese TR-1 stay distinct.
	a, ok := idx.Lookup("th", "car", "TR-1")
	require.True(t, ok)
	assert.Equal(t, "ho", a.Site)

	a, ok = idx.Lookup("vn", "car", "TR-1")
	require.True(t, ok)
	assert.Equal(t, "hcm", a.Site)

	_, ok = idx.Lookup("th", "car", "TR-99")
	assert.False(t, ok)

	groups := idx.Groups()
	assert.Len(t, groups[GroupKey{AssetType: "car", Site: "ho"}], 2)
	assert.Len(t, groups[GroupKey{AssetType: "car", Site: "bp"}], 1)
	assert.Len(t, groups[GroupKey{AssetType: "lifting", Site: "ho"}], 1)

	totals := idx.TotalsByType()
	assert.Equal(t, 4, totals["car"])
	assert.Equal(t, 1, totals["lifting"])
}

func TestBuildAssetIndexCountsCollisions(t *testing.T) {
	assets := []domain.Asset{
		{BU: "th", Type: "car", Identifier: "TR-1", Site: "ho", Owner: "first"},
		{BU: "th", Type: "car", Identifier: "TR-1", Site: "bp", Owner: "second"},
		{BU: "th", Type: "car", Identifier: "TR-1", Site: "ho", Owner: "third"},
	}

	idx := BuildAssetIndex(assets, discardLogger())

	assert.Equal(t, 2, idx.Collisions)

	// First match wins the join.
	a, ok := idx.Lookup("th", "car", "TR-1")
	require.True(t, ok)
	assert.Equal(t, "first", a.Owner)

	// Every registered row still counts toward cell totals.
	groups := idx.Groups()
	assert.Len(t, groups[GroupKey{AssetType: "car", Site: "ho"}], 2)
	assert.Len(t, groups[GroupKey{AssetType: "car", Site: "bp"}], 1)
	assert.Equal(t, 3, idx.TotalsByType()["car"])
}
