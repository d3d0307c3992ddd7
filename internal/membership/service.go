// internal/membership/service.go
package membership

import (
	"context"

	"bunkhaus/internal/payments"
)

// Service owns the member collection and keeps bed occupancy in step
// with it.
type Service interface {
	// Load hydrates members from the blob store, normalizes their
	// payment fields and reconciles bed occupancy against the member
	// list.
	Load(ctx context.Context) error

	AddMember(ctx context.Context, m Member) (*Member, error)
	GetMember(ctx context.Context, id string) (*Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
	UpdateMember(ctx context.Context, m Member) (*Member, error)
	RemoveMember(ctx context.Context, id string) error

	// RecordPayment applies a payment entry and recomputes the next
	// due date.
	RecordPayment(ctx context.Context, id string, record PaymentRecord) (*Member, error)
	// PaymentSummary classifies every member against the options.
	PaymentSummary(ctx context.Context, opts payments.Options) ([]MemberStatus, error)

	// Reconcile rewrites every bed's occupancy flag from the current
	// member list. Idempotent; the member list is ground truth.
	Reconcile(ctx context.Context) error
}
