// Package domain contains core business types and interfaces.
//
// This file defines reporting periods and the half-open time windows
// derived from them.
package domain

import (
	"fmt"
	"time"
)

// =============================================================================
// Period
// =============================================================================

// Period is a reporting period keyword.
type Period string

const (
	PeriodDaily     Period = "daily"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodAnnual    Period = "annual"
)

// String returns the string representation of the period.
func (p Period) String() string {
	return string(p)
}

// IsValid returns true if the period is a recognized keyword.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodMonthly, PeriodQuarterly, PeriodAnnual:
		return true
	}
	return false
}

// AllPeriods returns every reporting period, shortest first.
func AllPeriods() []Period {
	return []Period{PeriodDaily, PeriodMonthly, PeriodQuarterly, PeriodAnnual}
}

// =============================================================================
// Period Window
// =============================================================================

// PeriodWindow is a half-open instant range [Start, End) derived from a
// period keyword and a reference time. It is never persisted.
type PeriodWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window. The test is
// half-open: Start is included, End is excluded.
func (w PeriodWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolveWindow computes the calendar window of the given period that
// contains now, in now's location. Quarters are Jan-Mar, Apr-Jun,
// Jul-Sep, Oct-Dec.
//
// The period keyword set is caller-controlled, so an unrecognized value
// is a programming error and panics rather than silently defaulting.
func ResolveWindow(period Period, now time.Time) PeriodWindow {
	loc := now.Location()

	switch period {
	case PeriodDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return PeriodWindow{Start: start, End: start.AddDate(0, 0, 1)}
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return PeriodWindow{Start: start, End: start.AddDate(0, 1, 0)}
	case PeriodQuarterly:
		quarterMonth := time.Month((int(now.Month())-1)/3*3 + 1)
		start := time.Date(now.Year(), quarterMonth, 1, 0, 0, 0, 0, loc)
		return PeriodWindow{Start: start, End: start.AddDate(0, 3, 0)}
	case PeriodAnnual:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return PeriodWindow{Start: start, End: start.AddDate(1, 0, 0)}
	}

	panic(fmt.Sprintf("unrecognized period %q", period))
}
