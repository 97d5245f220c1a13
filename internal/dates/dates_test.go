package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve(t *testing.T) {
	// Wednesday, 2026-08-19
	now := time.Date(2026, time.August, 19, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		phrase   string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{"today", date(2026, time.August, 19), date(2026, time.August, 20)},
		{"yesterday", date(2026, time.August, 18), date(2026, time.August, 19)},
		{"this_week", date(2026, time.August, 17), date(2026, time.August, 24)},
		{"last_week", date(2026, time.August, 10), date(2026, time.August, 17)},
		{"this_month", date(2026, time.August, 1), date(2026, time.September, 1)},
		{"last_month", date(2026, time.July, 1), date(2026, time.August, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			r, ok := Resolve(tt.phrase, now)
			require.True(t, ok)
			assert.Equal(t, tt.wantFrom, r.From)
			assert.Equal(t, tt.wantTo, r.To)
		})
	}
}

func TestResolveSubstringAndCase(t *testing.T) {
	now := time.Date(2026, time.August, 19, 9, 0, 0, 0, time.UTC)

	r, ok := Resolve("show me TODAY's spending", now)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.August, 19), r.From)

	// "yesterday" contains no earlier key, so it matches itself even with
	// surrounding text.
	r, ok = Resolve("  all of yesterday please ", now)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.August, 18), r.From)
}

func TestResolveUnrecognized(t *testing.T) {
	now := time.Date(2026, time.August, 19, 9, 0, 0, 0, time.UTC)

	for _, phrase := range []string{"", "next_week", "two weeks ago", "2026-01-01"} {
		_, ok := Resolve(phrase, now)
		assert.False(t, ok, "phrase %q should not resolve", phrase)
	}
}

func TestResolveWeekAnchorsOnMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"monday", time.Date(2026, time.August, 17, 0, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, time.August, 23, 23, 59, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Resolve("this_week", tt.now)
			require.True(t, ok)
			assert.Equal(t, time.Monday, r.From.Weekday())
			assert.Equal(t, date(2026, time.August, 17), r.From)
			assert.Equal(t, r.From.AddDate(0, 0, 7), r.To)
		})
	}
}

func TestResolveMonthRollover(t *testing.T) {
	// December rolls into January of the next year.
	dec := time.Date(2026, time.December, 15, 12, 0, 0, 0, time.UTC)
	r, ok := Resolve("this_month", dec)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.December, 1), r.From)
	assert.Equal(t, date(2027, time.January, 1), r.To)

	// January's previous month is December of the prior year.
	jan := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.UTC)
	r, ok = Resolve("last_month", jan)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.December, 1), r.From)
	assert.Equal(t, date(2026, time.January, 1), r.To)
}

func TestResolvePriorityOrder(t *testing.T) {
	now := time.Date(2026, time.August, 19, 9, 0, 0, 0, time.UTC)

	// "today" is checked before "this_week"; a phrase containing both
	// resolves to the daily range.
	r, ok := Resolve("today and this_week", now)
	require.True(t, ok)
	assert.Equal(t, date(2026, time.August, 19), r.From)
	assert.Equal(t, date(2026, time.August, 20), r.To)
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)
	r := CurrentMonth(now)
	assert.Equal(t, date(2026, time.December, 1), r.From)
	assert.Equal(t, date(2027, time.January, 1), r.To)
}

func TestFormatDisplay(t *testing.T) {
	ts := time.Date(2026, time.August, 5, 15, 41, 0, 0, time.UTC)
	assert.Equal(t, "05 August 2026, 03:41 PM", FormatDisplay(ts))
}
