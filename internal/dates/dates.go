// internal/dates/dates.go
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// All values handled by this package are date-only: midnight UTC,
// regardless of what timezone the input carried.

var isoPattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// fallbackLayouts are tried in order when the input is not a strict
// YYYY-MM-DD string.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"02-01-2006",
}

// FormatISO renders a date as YYYY-MM-DD with zero padding. No locale
// dependency.
func FormatISO(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseInput parses free-form date text. Strict YYYY-MM-DD input is
// parsed component-wise to avoid layout and timezone ambiguity; other
// inputs go through a short list of common layouts and are truncated
// to date-only. Returns ok=false for empty or invalid input, never
// panics.
func ParseInput(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	if m := isoPattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 {
			return time.Time{}, false
		}
		if day < 1 || day > DaysInMonth(year, time.Month(month)) {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
	}

	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return Truncate(t), true
		}
	}
	return time.Time{}, false
}

// Truncate drops the time-of-day component, keeping only the calendar
// date in UTC.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date as a date-only value.
func Today() time.Time {
	return Truncate(time.Now())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths adds n calendar months, clamping the day-of-month to the
// last valid day of the target month: Jan 31 + 1 month is Feb 28 (or
// Feb 29 in a leap year), never Mar 3. This differs deliberately from
// time.AddDate, which lets the day overflow into the next month.
func AddMonths(t time.Time, n int) time.Time {
	// The first of the target month; time.Date normalizes month
	// arithmetic across year boundaries for positive and negative n.
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	day := t.Day()
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// AddDays adds n days with standard calendar rollover.
func AddDays(t time.Time, n int) time.Time {
	return Truncate(t.AddDate(0, 0, n))
}
