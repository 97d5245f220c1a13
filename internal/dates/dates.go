// Package dates resolves the small fixed vocabulary of relative date
// phrases ("today", "last_week", ...) into half-open [From, To) ranges.
package dates

import (
	"strings"
	"time"
)

// Range is a half-open [From, To) interval on created_at timestamps.
type Range struct {
	From time.Time
	To   time.Time
}

// DisplayLayout is the human-facing timestamp format used in responses,
// e.g. "05 August 2026, 03:41 PM".
const DisplayLayout = "02 January 2006, 03:04 PM"

// filterKeys lists the recognized phrases in priority order; the first
// substring match wins.
var filterKeys = []string{
	"today",
	"yesterday",
	"this_week",
	"last_week",
	"this_month",
	"last_month",
}

// Resolve maps a free-text phrase to a date range anchored at now.
// Matching is case-insensitive and substring-based. Unrecognized phrases
// return ok=false, which callers treat as "no filter", never as an error.
func Resolve(phrase string, now time.Time) (Range, bool) {
	text := strings.ToLower(strings.TrimSpace(phrase))
	today := midnight(now)

	for _, key := range filterKeys {
		if !strings.Contains(text, key) {
			continue
		}
		switch key {
		case "today":
			return Range{From: today, To: today.AddDate(0, 0, 1)}, true
		case "yesterday":
			return Range{From: today.AddDate(0, 0, -1), To: today}, true
		case "this_week":
			start := startOfWeek(today)
			return Range{From: start, To: start.AddDate(0, 0, 7)}, true
		case "last_week":
			start := startOfWeek(today).AddDate(0, 0, -7)
			return Range{From: start, To: start.AddDate(0, 0, 7)}, true
		case "this_month":
			start := startOfMonth(today)
			return Range{From: start, To: nextMonth(today)}, true
		case "last_month":
			var start time.Time
			if today.Month() == time.January {
				start = time.Date(today.Year()-1, time.December, 1, 0, 0, 0, 0, today.Location())
			} else {
				start = time.Date(today.Year(), today.Month()-1, 1, 0, 0, 0, 0, today.Location())
			}
			return Range{From: start, To: startOfMonth(today)}, true
		}
	}

	return Range{}, false
}

// CurrentMonth returns the calendar-month range containing now. Used by
// the balance endpoint.
func CurrentMonth(now time.Time) Range {
	return Range{From: startOfMonth(now), To: nextMonth(now)}
}

// FormatDisplay renders a timestamp for user-facing messages.
func FormatDisplay(t time.Time) string {
	return t.Format(DisplayLayout)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday of the week containing day.
func startOfWeek(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// nextMonth returns the 1st of the month after t, rolling December over
// into January of the next year.
func nextMonth(t time.Time) time.Time {
	if t.Month() == time.December {
		return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location())
	}
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}
