// internal/membership/domain.go
package membership

import (
	"errors"

	"bunkhaus/internal/dates"
	"bunkhaus/internal/inventory"
	"bunkhaus/internal/payments"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	// ErrPartialAssignment rejects members with some but not all of the
	// five assignment fields set.
	ErrPartialAssignment = errors.New("bed assignment must be complete or absent")
)

// Member is a resident of a property. Date fields are ISO YYYY-MM-DD
// strings at the boundary; PayDate defaults to JoinedDate and
// NextDueDate is derived when absent or invalid. PaymentCycle is kept
// as a raw number because persisted data may carry fractional or
// out-of-range values; the payments engine normalizes it on use.
type Member struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Phone          string             `json:"phone"`
	VillageName    string             `json:"villageName,omitempty"`
	JoinedDate     string             `json:"joinedDate,omitempty"`
	PayDate        string             `json:"payDate,omitempty"`
	PaymentCycle   float64            `json:"paymentCycle,omitempty"`
	NextDueDate    string             `json:"nextDueDate,omitempty"`
	ProofID        string             `json:"proofId,omitempty"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
	Assignment     *inventory.BedPath `json:"assignment,omitempty"`
}

// MemberStatus is a member together with their classified payment
// standing.
type MemberStatus struct {
	Member
	Status payments.Status `json:"status"`
}

// PaymentRecord is the payment-entry payload. CycleDays folds a
// days-based cycle into an explicit next due date; otherwise
// CycleMonths is stored and the due date derived from it.
type PaymentRecord struct {
	PayDate     string  `json:"payDate"`
	CycleMonths float64 `json:"cycleMonths,omitempty"`
	CycleDays   int     `json:"cycleDays,omitempty"`
}

// Assigned reports whether the member holds a complete bed assignment.
func (m *Member) Assigned() bool {
	return m.Assignment != nil && m.Assignment.Complete()
}

// validateAssignment enforces the all-or-none rule.
func (m *Member) validateAssignment() error {
	if m.Assignment == nil {
		return nil
	}
	if !m.Assignment.Complete() {
		return ErrPartialAssignment
	}
	return nil
}

func (m *Member) effectivePayDate() string {
	if m.PayDate != "" {
		return m.PayDate
	}
	return m.JoinedDate
}

// PaymentStatus classifies the member against the given options.
func (m *Member) PaymentStatus(opts payments.Options) payments.Status {
	return payments.Classify(m.NextDueDate, m.effectivePayDate(), m.PaymentCycle, opts)
}

// NormalizePaymentFields fills in a concrete next due date, preferring
// an existing valid value over the derived one, and normalizes the
// stored cycle. Applied on every load and update so persisted data
// self-heals even when written with stale or invalid values.
func (m *Member) NormalizePaymentFields() {
	if m.PayDate == "" {
		m.PayDate = m.JoinedDate
	}
	if m.PaymentCycle != 0 {
		m.PaymentCycle = float64(payments.NormalizeCycle(m.PaymentCycle))
	}
	if _, ok := dates.ParseInput(m.NextDueDate); !ok {
		if next, derived := payments.NextDueDate(m.effectivePayDate(), m.PaymentCycle); derived {
			m.NextDueDate = next
		} else {
			m.NextDueDate = ""
		}
	}
}
