// internal/payments/engine.go
package payments

import (
	"math"
	"time"

	"bunkhaus/internal/dates"
)

// Status classifies a member's standing relative to their next due date.
type Status string

const (
	StatusPaid     Status = "paid"
	StatusDue      Status = "due"
	StatusUpcoming Status = "upcoming"
)

const (
	// DefaultCycleMonths is used when no payment cycle is stored.
	DefaultCycleMonths = 1
	// DefaultUpcomingWindowDays is how far ahead a due date is still
	// reported as "upcoming" rather than "paid".
	DefaultUpcomingWindowDays = 7
)

// NormalizeCycle coerces an arbitrary stored cycle value into a
// positive whole number of months. Persisted data may carry zero,
// negative, fractional or NaN cycles; the engine must never multiply
// against any of those.
func NormalizeCycle(cycle float64) int {
	if math.IsNaN(cycle) || math.IsInf(cycle, 0) {
		return DefaultCycleMonths
	}
	n := int(math.Floor(cycle))
	if n < 1 {
		return DefaultCycleMonths
	}
	return n
}

// NextDueDate derives the next due date from a pay date and a cycle
// length in months. Returns ok=false when the pay date is unparseable.
// The cycle unit here is always months: a days-based cycle in the
// payment entry flow is folded into an explicit next-due-date instead
// of being stored as a cycle.
func NextDueDate(payDate string, cycle float64) (string, bool) {
	pay, ok := dates.ParseInput(payDate)
	if !ok {
		return "", false
	}
	return dates.FormatISO(dates.AddMonths(pay, NormalizeCycle(cycle))), true
}

// Options tunes classification. The zero value means "today" with the
// default upcoming window.
type Options struct {
	CurrentDate        time.Time
	UpcomingWindowDays int
}

// Classify resolves a member's next due date and classifies it against
// the current date.
//
// The stored next-due-date wins when it parses; otherwise the due date
// is computed from the pay date and cycle. When neither yields a date
// the member is classified as due: an unknown state needs attention,
// it is never silently "paid".
//
// A due date equal to the current date is still "paid" (due today is
// not yet overdue). A due date within the upcoming window after the
// current date is "upcoming".
func Classify(nextDueDate, payDate string, cycle float64, opts Options) Status {
	current := opts.CurrentDate
	if current.IsZero() {
		current = dates.Today()
	} else {
		current = dates.Truncate(current)
	}
	window := opts.UpcomingWindowDays
	if window <= 0 {
		window = DefaultUpcomingWindowDays
	}

	due, ok := dates.ParseInput(nextDueDate)
	if !ok {
		computed, derived := NextDueDate(payDate, cycle)
		if !derived {
			return StatusDue
		}
		due, _ = dates.ParseInput(computed)
	}

	if current.After(due) {
		return StatusDue
	}
	if due.After(current) && !due.After(dates.AddDays(current, window)) {
		return StatusUpcoming
	}
	return StatusPaid
}
