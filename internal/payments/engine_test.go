// internal/payments/engine_test.go
package payments

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCycle(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{1, 1},
		{12, 12},
		{2.9, 2},
		{0, 1},
		{-5, 1},
		{math.NaN(), 1},
		{math.Inf(1), 1},
		{math.Inf(-1), 1},
		{0.4, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeCycle(tc.in), "NormalizeCycle(%v)", tc.in)
	}
}

func TestNextDueDate(t *testing.T) {
	next, ok := NextDueDate("2024-01-15", 1)
	require.True(t, ok)
	assert.Equal(t, "2024-02-15", next)

	// Clamping carries through from the date math.
	next, ok = NextDueDate("2024-01-31", 1)
	require.True(t, ok)
	assert.Equal(t, "2024-02-29", next)

	// Invalid cycles fall back to one month.
	next, ok = NextDueDate("2024-01-15", -3)
	require.True(t, ok)
	assert.Equal(t, "2024-02-15", next)

	_, ok = NextDueDate("garbage", 1)
	assert.False(t, ok)
	_, ok = NextDueDate("", 1)
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	current := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	opts := Options{CurrentDate: current}

	cases := []struct {
		name    string
		nextDue string
		payDate string
		cycle   float64
		want    Status
	}{
		{"overdue", "2024-06-10", "", 0, StatusDue},
		{"due today is not overdue", "2024-06-15", "", 0, StatusPaid},
		{"inside upcoming window", "2024-06-20", "", 0, StatusUpcoming},
		{"window boundary is upcoming", "2024-06-22", "", 0, StatusUpcoming},
		{"beyond window", "2024-06-25", "", 0, StatusPaid},
		{"computed from pay date", "", "2024-01-15", 1, StatusDue}, // derived 2024-02-15, long past
		{"computed upcoming", "", "2024-05-20", 1, StatusUpcoming}, // derived 2024-06-20
		{"no resolvable due date", "", "", 0, StatusDue},
		{"garbage everywhere", "soon", "whenever", 1, StatusDue},
		{"stored wins over computed", "2024-06-25", "2024-01-15", 1, StatusPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.nextDue, tc.payDate, tc.cycle, opts))
		})
	}
}

func TestClassifyCustomWindow(t *testing.T) {
	current := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	got := Classify("2024-06-25", "", 0, Options{CurrentDate: current, UpcomingWindowDays: 14})
	assert.Equal(t, StatusUpcoming, got)

	got = Classify("2024-06-17", "", 0, Options{CurrentDate: current, UpcomingWindowDays: 1})
	assert.Equal(t, StatusPaid, got)
}

func TestClassifyTruncatesCurrentDate(t *testing.T) {
	// A current date with time-of-day must classify like its calendar
	// day.
	current := time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, StatusPaid, Classify("2024-06-15", "", 0, Options{CurrentDate: current}))
}
