package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWindow(t *testing.T) {
	now := time.Date(2024, time.May, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		name      string
		period    Period
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "daily",
			period:    PeriodDaily,
			wantStart: time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.May, 16, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "monthly",
			period:    PeriodMonthly,
			wantStart: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "quarterly",
			period:    PeriodQuarterly,
			wantStart: time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "annual",
			period:    PeriodAnnual,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWindow(tt.period, now)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
		})
	}
}

func TestResolveWindowQuarterBoundaries(t *testing.T) {
	tests := []struct {
		month     time.Month
		wantStart time.Month
	}{
		{time.January, time.January},
		{time.March, time.January},
		{time.April, time.April},
		{time.June, time.April},
		{time.July, time.July},
		{time.September, time.July},
		{time.October, time.October},
		{time.December, time.October},
	}

	for _, tt := range tests {
		now := time.Date(2024, tt.month, 10, 8, 0, 0, 0, time.UTC)
		got := ResolveWindow(PeriodQuarterly, now)
		assert.Equal(t, tt.wantStart, got.Start.Month(), "month %s", tt.month)
	}
}

func TestResolveWindowRespectsLocation(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	now := time.Date(2024, time.May, 15, 1, 0, 0, 0, loc)

	got := ResolveWindow(PeriodDaily, now)
	assert.Equal(t, time.Date(2024, time.May, 15, 0, 0, 0, 0, loc), got.Start)
	assert.Equal(t, loc, got.Start.Location())
}

func TestResolveWindowUnrecognizedPeriodPanics(t *testing.T) {
	assert.Panics(t, func() {
		ResolveWindow(Period("weekly"), time.Now())
	})
}

func TestPeriodWindowContainsHalfOpen(t *testing.T) {
	w := PeriodWindow{
		Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(w.Start), "start boundary is included")
	assert.False(t, w.Contains(w.End), "end boundary is excluded")
	assert.True(t, w.Contains(w.Start.Add(time.Nanosecond)))
	assert.True(t, w.Contains(w.End.Add(-time.Nanosecond)))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}

func TestPeriodIsValid(t *testing.T) {
	for _, p := range AllPeriods() {
		assert.True(t, p.IsValid())
	}
	assert.False(t, Period("weekly").IsValid())
	assert.False(t, Period("").IsValid())
}
