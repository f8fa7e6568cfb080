package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityForPercentage(t *testing.T) {
	tests := []struct {
		percentage int
		want       SeverityBucket
	}{
		{0, SeverityNone},
		{1, SeverityLow},
		{33, SeverityLow},
		{34, SeverityMedium},
		{66, SeverityMedium},
		{67, SeverityHigh},
		{99, SeverityHigh},
		{100, SeverityComplete},
		// Out-of-range values clamp to the nearest bucket
		{-5, SeverityNone},
		{120, SeverityComplete},
	}

	for _, tt := range tests {
		got := SeverityForPercentage(tt.percentage)
		assert.Equal(t, tt.want, got, "percentage %d", tt.percentage)
	}
}

// The buckets must partition [0, 100]: every value maps to exactly one
// bucket and adjacent buckets never overlap.
func TestSeverityBucketsPartitionRange(t *testing.T) {
	counts := map[SeverityBucket]int{}
	for pct := 0; pct <= 100; pct++ {
		counts[SeverityForPercentage(pct)]++
	}

	assert.Equal(t, 1, counts[SeverityNone])
	assert.Equal(t, 33, counts[SeverityLow])
	assert.Equal(t, 33, counts[SeverityMedium])
	assert.Equal(t, 33, counts[SeverityHigh])
	assert.Equal(t, 1, counts[SeverityComplete])
}
