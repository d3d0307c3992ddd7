// internal/dates/dates_test.go
package dates

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatISO(t *testing.T) {
	assert.Equal(t, "2024-06-15", FormatISO(date(2024, time.June, 15)))
	assert.Equal(t, "2024-01-05", FormatISO(date(2024, time.January, 5)))
	assert.Equal(t, "0987-11-30", FormatISO(date(987, time.November, 30)))
}

func TestParseInputStrictISO(t *testing.T) {
	got, ok := ParseInput("2024-06-15")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.June, 15), got)

	// Leap day parses in a leap year only.
	_, ok = ParseInput("2024-02-29")
	assert.True(t, ok)
	_, ok = ParseInput("2023-02-29")
	assert.False(t, ok)

	_, ok = ParseInput("2024-13-01")
	assert.False(t, ok)
	_, ok = ParseInput("2024-04-31")
	assert.False(t, ok)
}

func TestParseInputFallbacks(t *testing.T) {
	got, ok := ParseInput("2024-06-15T10:30:00Z")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.June, 15), got, "time-of-day must be truncated")

	got, ok = ParseInput("2024/06/15")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.June, 15), got)

	got, ok = ParseInput("Jun 15, 2024")
	require.True(t, ok)
	assert.Equal(t, date(2024, time.June, 15), got)
}

func TestParseInputInvalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2024-6-15", "15th June"} {
		_, ok := ParseInput(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestAddMonthsClamping(t *testing.T) {
	cases := []struct {
		start  time.Time
		months int
		want   time.Time
	}{
		{date(2024, time.January, 31), 1, date(2024, time.February, 29)}, // leap year
		{date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{date(2024, time.March, 31), 1, date(2024, time.April, 30)},
		{date(2024, time.January, 15), 1, date(2024, time.February, 15)},
		{date(2024, time.November, 30), 3, date(2025, time.February, 28)}, // crosses year, clamps
		{date(2024, time.June, 15), 0, date(2024, time.June, 15)},
		{date(2024, time.March, 31), -1, date(2024, time.February, 29)},
		{date(2024, time.January, 15), -2, date(2023, time.November, 15)},
	}
	for _, tc := range cases {
		got := AddMonths(tc.start, tc.months)
		assert.Equal(t, tc.want, got, "%s + %d months", FormatISO(tc.start), tc.months)
	}
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, date(2024, time.July, 1), AddDays(date(2024, time.June, 30), 1))
	assert.Equal(t, date(2025, time.January, 3), AddDays(date(2024, time.December, 31), 3))
	assert.Equal(t, date(2024, time.February, 29), AddDays(date(2024, time.March, 1), -1))
}

func TestRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1900, 2199).Draw(t, "year")
		month := time.Month(rapid.IntRange(1, 12).Draw(t, "month"))
		day := rapid.IntRange(1, DaysInMonth(year, month)).Draw(t, "day")

		iso := fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
		parsed, ok := ParseInput(iso)
		require.True(t, ok)
		require.Equal(t, iso, FormatISO(parsed))
	})
}

func TestAddMonthsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		year := rapid.IntRange(1950, 2100).Draw(t, "year")
		month := time.Month(rapid.IntRange(1, 12).Draw(t, "month"))
		day := rapid.IntRange(1, DaysInMonth(year, month)).Draw(t, "day")
		n := rapid.IntRange(-60, 60).Draw(t, "months")

		start := date(year, month, day)
		got := AddMonths(start, n)

		// The target month is exact month arithmetic.
		wantMonths := (year*12 + int(month) - 1) + n
		require.Equal(t, wantMonths, got.Year()*12+int(got.Month())-1)

		// The day never overflows the target month and only ever
		// shrinks via clamping.
		require.LessOrEqual(t, got.Day(), DaysInMonth(got.Year(), got.Month()))
		if day <= DaysInMonth(got.Year(), got.Month()) {
			require.Equal(t, day, got.Day())
		} else {
			require.Equal(t, DaysInMonth(got.Year(), got.Month()), got.Day())
		}
	})
}
