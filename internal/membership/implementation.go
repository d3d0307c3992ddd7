// internal/membership/implementation.go
package membership

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bunkhaus/internal/blobstore"
	"bunkhaus/internal/dates"
	"bunkhaus/internal/inventory"
	"bunkhaus/internal/payments"
)

// service implements the Service interface. The member list is the
// ground truth for occupancy: point updates flip a single bed when a
// member comes or goes, and Reconcile rewrites every flag from scratch
// to heal any drift (for example a crash between the member write and
// the bed write).
type service struct {
	mu      sync.RWMutex
	members []Member

	inventory inventory.Service
	store     blobstore.Store
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewService creates a membership service. The inventory service
// receives occupancy updates as members are assigned and released.
func NewService(inv inventory.Service, store blobstore.Store, logger *slog.Logger) Service {
	return &service{
		inventory: inv,
		store:     store,
		logger:    logger,
		tracer:    otel.Tracer("bunkhaus/membership"),
	}
}

func (s *service) Load(ctx context.Context) error {
	s.mu.Lock()
	blob, ok, err := s.store.Load(ctx, blobstore.KeyMembers)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("load members: %w", err)
	}
	if ok {
		var members []Member
		if err := json.Unmarshal([]byte(blob), &members); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("decode members snapshot: %w", err)
		}
		for i := range members {
			members[i].NormalizePaymentFields()
			if members[i].Assignment != nil && !members[i].Assignment.Complete() {
				s.logger.Warn("dropping partial bed assignment",
					"member", members[i].ID)
				members[i].Assignment = nil
			}
		}
		s.members = members
	}
	s.mu.Unlock()

	return s.Reconcile(ctx)
}

// persistMembers snapshots the whole collection. Callers hold the
// write lock. Failures are logged and swallowed; in-memory state stays
// authoritative for the session.
func (s *service) persistMembers(ctx context.Context) {
	blob, err := json.Marshal(s.members)
	if err != nil {
		s.logger.Error("encode members snapshot", "error", err)
		return
	}
	if err := s.store.Save(ctx, blobstore.KeyMembers, string(blob)); err != nil {
		s.logger.Error("persist members", "error", err)
	}
}

func (s *service) indexOf(id string) int {
	for i := range s.members {
		if s.members[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *service) AddMember(ctx context.Context, m Member) (*Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.add_member")
	defer span.End()

	if m.Name == "" {
		return nil, fmt.Errorf("member name is required")
	}
	if err := m.validateAssignment(); err != nil {
		return nil, err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.JoinedDate == "" {
		m.JoinedDate = dates.FormatISO(dates.Today())
	}
	m.NormalizePaymentFields()

	s.mu.Lock()
	if s.indexOf(m.ID) >= 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("member %s already exists", m.ID)
	}
	s.members = append(s.members, m)
	s.persistMembers(ctx)
	s.mu.Unlock()

	if m.Assigned() {
		// The picker only offers free beds, so a conflict here means
		// drift; the next reconciliation pass heals it.
		if err := s.inventory.SetBedOccupancy(ctx, *m.Assignment, true); err != nil {
			s.logger.Warn("occupy bed", "member", m.ID, "error", err)
		}
	}
	span.SetAttributes(attribute.String("member.id", m.ID))
	return &m, nil
}

func (s *service) GetMember(ctx context.Context, id string) (*Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	m := s.members[i]
	return &m, nil
}

func (s *service) ListMembers(ctx context.Context) ([]Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Member(nil), s.members...), nil
}

func (s *service) UpdateMember(ctx context.Context, m Member) (*Member, error) {
	if err := m.validateAssignment(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	i := s.indexOf(m.ID)
	if i < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, m.ID)
	}
	previous := s.members[i]
	m.NormalizePaymentFields()
	s.members[i] = m
	s.persistMembers(ctx)
	s.mu.Unlock()

	if assignmentChanged(previous.Assignment, m.Assignment) {
		if previous.Assigned() {
			if err := s.inventory.SetBedOccupancy(ctx, *previous.Assignment, false); err != nil {
				s.logger.Warn("release bed", "member", m.ID, "error", err)
			}
		}
		if m.Assigned() {
			if err := s.inventory.SetBedOccupancy(ctx, *m.Assignment, true); err != nil {
				s.logger.Warn("occupy bed", "member", m.ID, "error", err)
			}
		}
	}
	return &m, nil
}

func assignmentChanged(a, b *inventory.BedPath) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	return *a != *b
}

func (s *service) RemoveMember(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	removed := s.members[i]
	s.members = append(s.members[:i], s.members[i+1:]...)
	s.persistMembers(ctx)
	s.mu.Unlock()

	if removed.Assigned() {
		if err := s.inventory.SetBedOccupancy(ctx, *removed.Assignment, false); err != nil {
			s.logger.Warn("release bed", "member", id, "error", err)
		}
	}
	return nil
}

func (s *service) RecordPayment(ctx context.Context, id string, record PaymentRecord) (*Member, error) {
	pay, ok := dates.ParseInput(record.PayDate)
	if !ok {
		return nil, fmt.Errorf("unparseable pay date %q", record.PayDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	m := &s.members[i]
	m.PayDate = dates.FormatISO(pay)
	if record.CycleDays > 0 {
		// Days-based cycles are not stored; they collapse into an
		// explicit next due date.
		m.NextDueDate = dates.FormatISO(dates.AddDays(pay, record.CycleDays))
	} else {
		months := record.CycleMonths
		if months == 0 {
			// Omitting the cycle keeps the member's current one.
			months = m.PaymentCycle
		}
		cycle := float64(payments.NormalizeCycle(months))
		m.PaymentCycle = cycle
		next, _ := payments.NextDueDate(m.PayDate, cycle)
		m.NextDueDate = next
	}
	s.persistMembers(ctx)

	out := *m
	return &out, nil
}

func (s *service) PaymentSummary(ctx context.Context, opts payments.Options) ([]MemberStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]MemberStatus, 0, len(s.members))
	for i := range s.members {
		out = append(out, MemberStatus{
			Member: s.members[i],
			Status: s.members[i].PaymentStatus(opts),
		})
	}
	return out, nil
}

func (s *service) Reconcile(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "membership.reconcile")
	defer span.End()

	s.mu.RLock()
	assigned := make([]inventory.BedPath, 0, len(s.members))
	for i := range s.members {
		if s.members[i].Assigned() {
			assigned = append(assigned, *s.members[i].Assignment)
		}
	}
	s.mu.RUnlock()

	span.SetAttributes(attribute.Int("assigned.count", len(assigned)))
	return s.inventory.SyncOccupancy(ctx, assigned)
}
