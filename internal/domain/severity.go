// Package domain contains core business types and interfaces.
//
// This file maps completion percentages to discrete severity buckets
// used by reporting views. The buckets carry no behavior; they only
// categorize.
package domain

// =============================================================================
// Severity Bucket
// =============================================================================

// SeverityBucket is the reporting category of a completion or defect
// percentage.
type SeverityBucket string

const (
	SeverityNone     SeverityBucket = "none"     // 0%
	SeverityLow      SeverityBucket = "low"      // 1-33%
	SeverityMedium   SeverityBucket = "medium"   // 34-66%
	SeverityHigh     SeverityBucket = "high"     // 67-99%
	SeverityComplete SeverityBucket = "complete" // 100%
)

// String returns the string representation of the bucket.
func (b SeverityBucket) String() string {
	return string(b)
}

// SeverityForPercentage maps a percentage to its severity bucket. The
// buckets partition [0, 100] with no gaps or overlaps; values outside
// that range clamp to the nearest bucket.
func SeverityForPercentage(percentage int) SeverityBucket {
	switch {
	case percentage <= 0:
		return SeverityNone
	case percentage <= 33:
		return SeverityLow
	case percentage <= 66:
		return SeverityMedium
	case percentage <= 99:
		return SeverityHigh
	default:
		return SeverityComplete
	}
}
