package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name      string
		inspected int
		total     int
		want      int
	}{
		{"zero total yields zero, not NaN", 0, 0, 0},
		{"zero total with inspected", 3, 0, 0},
		{"none inspected", 0, 10, 0},
		{"partial", 4, 10, 40},
		{"rounds half up", 1, 8, 13},
		{"rounds down", 1, 7, 14},
		{"one third", 1, 3, 33},
		{"two thirds", 2, 3, 67},
		{"complete", 10, 10, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompletionPercentage(tt.inspected, tt.total))
		})
	}
}

func TestTypeStatsCell(t *testing.T) {
	stats := TypeStats{
		"car": SiteStats{
			"ho": &AssetTypeSiteStat{AssetType: "car", Site: "ho", Total: 10},
		},
	}

	cell, ok := stats.Cell("car", "ho")
	assert.True(t, ok)
	assert.Equal(t, 10, cell.Total)

	_, ok = stats.Cell("car", "bp")
	assert.False(t, ok)
	_, ok = stats.Cell("mixer", "ho")
	assert.False(t, ok)
}

func TestAssetTypeSiteStatSeverity(t *testing.T) {
	s := AssetTypeSiteStat{Percentage: 40}
	assert.Equal(t, SeverityMedium, s.Severity())
}
