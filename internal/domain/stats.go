// Package domain contains core business types and interfaces.
//
// This file defines the aggregation output types: per (asset type, site)
// completion statistics and the per-transaction drill-down projection.
package domain

import (
	"math"
	"time"
)

// =============================================================================
// Inspection Detail
// =============================================================================

// InspectionDetail is the minimal projection of one transaction kept on a
// statistics cell for UI drill-down.
type InspectionDetail struct {
	AssetID   string    // Asset identifier within (bu, type)
	Timestamp time.Time // When the inspection was performed
	Inspector string    // Who performed it
	HasDefect bool      // True when the transaction classified as fail
}

// =============================================================================
// Asset Type / Site Statistics
// =============================================================================

// AssetTypeSiteStat aggregates one (asset type, site) cell for one
// period window.
//
// Invariants: Inspected <= Total, Defects <= number of contributing
// transactions, and Percentage is 0 when Total is 0 (never NaN).
// Inspected deduplicates per asset; Defects counts failing transactions,
// so one asset inspected twice with one failure contributes 1 to
// Inspected and 1 to Defects. Changing that asymmetry would change
// reported compliance numbers.
type AssetTypeSiteStat struct {
	AssetType         string             // Equipment category
	Site              string             // Site code
	Total             int                // Registered assets in this cell
	Inspected         int                // Assets inspected at least once in the window
	Defects           int                // Failing transactions in the window
	Percentage        int                // round(Inspected/Total*100), 0 when Total is 0
	InspectionRecords []InspectionDetail // Contributing transactions, in input order
}

// Severity returns the reporting bucket of the completion percentage.
func (s *AssetTypeSiteStat) Severity() SeverityBucket {
	return SeverityForPercentage(s.Percentage)
}

// CompletionPercentage computes round(inspected/total*100), guarding the
// zero-total case.
func CompletionPercentage(inspected, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(inspected) / float64(total) * 100))
}

// =============================================================================
// Result Maps
// =============================================================================

// SiteStats maps site code to that site's statistics cell.
type SiteStats map[string]*AssetTypeSiteStat

// TypeStats maps asset type to its per-site statistics.
type TypeStats map[string]SiteStats

// Cell returns the statistics cell for (assetType, site), if present.
func (t TypeStats) Cell(assetType, site string) (*AssetTypeSiteStat, bool) {
	sites, ok := t[assetType]
	if !ok {
		return nil, false
	}
	stat, ok := sites[site]
	return stat, ok
}

// DashboardStats is the aggregation output for one reporting period.
type DashboardStats struct {
	Period      Period       // Reporting period keyword
	Window      PeriodWindow // Resolved half-open window
	Stats       TypeStats    // assetType -> site -> cell
	GeneratedAt time.Time    // When the aggregation ran
}
