// internal/inventory/implementation.go
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bunkhaus/internal/blobstore"
)

// service implements the Service interface over the flat index.
//
// Mutations update the index synchronously and then write a full
// snapshot to the blob store. Persistence failures are logged and
// swallowed: the in-memory state stays authoritative for the session
// and the next successful write overwrites the stale blob
// (last-write-wins, acceptable for a single-operator store).
type service struct {
	mu       sync.RWMutex
	idx      *index
	activeID string
	draft    *WizardDraft

	store  blobstore.Store
	logger *slog.Logger
	tracer trace.Tracer
}

// NewService creates an inventory service backed by the given store.
func NewService(store blobstore.Store, logger *slog.Logger) Service {
	return &service{
		idx:    newIndex(),
		store:  store,
		logger: logger,
		tracer: otel.Tracer("bunkhaus/inventory"),
	}
}

func (s *service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok, err := s.store.Load(ctx, blobstore.KeyProperties)
	if err != nil {
		return fmt.Errorf("load properties: %w", err)
	}
	if ok {
		var props []Property
		if err := json.Unmarshal([]byte(blob), &props); err != nil {
			return fmt.Errorf("decode properties snapshot: %w", err)
		}
		s.idx = newIndex()
		for _, p := range props {
			s.idx.insertProperty(p)
		}
	}

	active, ok, err := s.store.Load(ctx, blobstore.KeyActivePropertyID)
	if err != nil {
		return fmt.Errorf("load active property id: %w", err)
	}
	if ok {
		s.activeID = active
	}

	draftBlob, ok, err := s.store.Load(ctx, blobstore.KeyWizardState)
	if err != nil {
		return fmt.Errorf("load wizard draft: %w", err)
	}
	if ok {
		var draft WizardDraft
		if err := json.Unmarshal([]byte(draftBlob), &draft); err != nil {
			return fmt.Errorf("decode wizard draft: %w", err)
		}
		s.draft = &draft
	}
	return nil
}

// persistProperties snapshots the whole collection. Callers hold the
// write lock.
func (s *service) persistProperties(ctx context.Context) {
	blob, err := json.Marshal(s.idx.materializeAll())
	if err != nil {
		s.logger.Error("encode properties snapshot", "error", err)
		return
	}
	if err := s.store.Save(ctx, blobstore.KeyProperties, string(blob)); err != nil {
		s.logger.Error("persist properties", "error", err)
	}
}

func (s *service) CreateProperty(ctx context.Context, req CreatePropertyRequest) (*Property, error) {
	ctx, span := s.tracer.Start(ctx, "inventory.create_property",
		trace.WithAttributes(attribute.String("property.name", req.Name)),
	)
	defer span.End()

	if req.Name == "" {
		return nil, fmt.Errorf("property name is required")
	}
	if req.Type != TypeHostelPG && req.Type != TypeApartments {
		return nil, fmt.Errorf("unknown property type %q", req.Type)
	}

	p := Property{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Type:      req.Type,
		City:      req.City,
		Area:      req.Area,
		CreatedAt: time.Now().UTC(),
	}
	seenNumbers := make(map[string]struct{})
	for _, bspec := range req.Buildings {
		b := Building{ID: uuid.NewString(), Name: bspec.Name}
		for _, fspec := range bspec.Floors {
			f := Floor{ID: uuid.NewString(), Label: fspec.Label}
			for _, rspec := range fspec.Rooms {
				if _, dup := seenNumbers[rspec.RoomNumber]; dup {
					return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, rspec.RoomNumber)
				}
				seenNumbers[rspec.RoomNumber] = struct{}{}
				room, err := buildRoom(rspec)
				if err != nil {
					return nil, err
				}
				f.Rooms = append(f.Rooms, room)
			}
			b.Floors = append(b.Floors, f)
		}
		p.Buildings = append(p.Buildings, b)
	}
	for _, pricing := range req.BedPricing {
		p.BedPricing = upsertPricing(p.BedPricing, pricing)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.insertProperty(p)
	s.persistProperties(ctx)

	out, _ := s.idx.materialize(p.ID)
	span.SetAttributes(attribute.Int("property.total_beds", out.TotalBeds))
	return &out, nil
}

func buildRoom(spec RoomSpec) (Room, error) {
	if spec.RoomNumber == "" {
		return Room{}, fmt.Errorf("room number is required")
	}
	count := EffectiveBedCount(spec.ShareType, spec.BedCount)
	if count <= 0 {
		return Room{}, fmt.Errorf("room %s: unknown share type %q and no explicit bed count", spec.RoomNumber, spec.ShareType)
	}
	return Room{
		ID:         uuid.NewString(),
		RoomNumber: spec.RoomNumber,
		ShareType:  spec.ShareType,
		BedCount:   spec.BedCount,
		Beds:       GenerateBeds(count),
	}, nil
}

// upsertPricing keeps at most one entry per bed count.
func upsertPricing(entries []BedPricing, p BedPricing) []BedPricing {
	for i := range entries {
		if entries[i].BedCount == p.BedCount {
			entries[i] = p
			return entries
		}
	}
	return append(entries, p)
}

func (s *service) GetProperty(ctx context.Context, id string) (*Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.idx.materialize(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	return &p, nil
}

func (s *service) ListProperties(ctx context.Context) ([]Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.materializeAll(), nil
}

func (s *service) DeleteProperty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.idx.removeProperty(id) {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	if s.activeID == id {
		s.activeID = ""
		if err := s.store.Delete(ctx, blobstore.KeyActivePropertyID); err != nil {
			s.logger.Error("clear active property id", "error", err)
		}
	}
	s.persistProperties(ctx)
	return nil
}

func (s *service) AddBuilding(ctx context.Context, propertyID string, spec BuildingSpec) (*Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.idx.properties[propertyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	b := Building{ID: uuid.NewString(), Name: spec.Name}
	for _, fspec := range spec.Floors {
		f := Floor{ID: uuid.NewString(), Label: fspec.Label}
		for _, rspec := range fspec.Rooms {
			if s.idx.roomNumberTaken(propertyID, rspec.RoomNumber) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, rspec.RoomNumber)
			}
			room, err := buildRoom(rspec)
			if err != nil {
				return nil, err
			}
			f.Rooms = append(f.Rooms, room)
		}
		b.Floors = append(b.Floors, f)
	}
	rec.buildingIDs = append(rec.buildingIDs, b.ID)
	s.idx.insertBuilding(propertyID, b)
	s.persistProperties(ctx)

	out, _ := s.idx.materialize(propertyID)
	return &out, nil
}

func (s *service) AddFloor(ctx context.Context, propertyID, buildingID string, spec FloorSpec) (*Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx.properties[propertyID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	brec, ok := s.idx.buildings[buildingID]
	if !ok || brec.propertyID != propertyID {
		return nil, fmt.Errorf("%w: %s", ErrBuildingNotFound, buildingID)
	}
	f := Floor{ID: uuid.NewString(), Label: spec.Label}
	for _, rspec := range spec.Rooms {
		if s.idx.roomNumberTaken(propertyID, rspec.RoomNumber) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, rspec.RoomNumber)
		}
		room, err := buildRoom(rspec)
		if err != nil {
			return nil, err
		}
		f.Rooms = append(f.Rooms, room)
	}
	brec.floorIDs = append(brec.floorIDs, f.ID)
	s.idx.insertFloor(buildingID, f)
	s.persistProperties(ctx)

	out, _ := s.idx.materialize(propertyID)
	return &out, nil
}

func (s *service) AddRoom(ctx context.Context, propertyID, buildingID, floorID string, spec RoomSpec) (*Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx.properties[propertyID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	brec, ok := s.idx.buildings[buildingID]
	if !ok || brec.propertyID != propertyID {
		return nil, fmt.Errorf("%w: %s", ErrBuildingNotFound, buildingID)
	}
	frec, ok := s.idx.floors[floorID]
	if !ok || frec.buildingID != buildingID {
		return nil, fmt.Errorf("%w: %s", ErrFloorNotFound, floorID)
	}
	if s.idx.roomNumberTaken(propertyID, spec.RoomNumber) {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRoom, spec.RoomNumber)
	}
	room, err := buildRoom(spec)
	if err != nil {
		return nil, err
	}
	frec.roomIDs = append(frec.roomIDs, room.ID)
	s.idx.insertRoom(floorID, room)
	s.persistProperties(ctx)

	out, _ := s.idx.materialize(propertyID)
	return &out, nil
}

// UpdateRoomBeds regenerates a room's bed list from a new share type or
// explicit count. Occupancy flags reset with the new beds; callers run
// member reconciliation afterwards to restore them.
func (s *service) UpdateRoomBeds(ctx context.Context, propertyID, roomID string, shareType ShareType, bedCount int) (*Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.idx.properties[propertyID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	if _, err := s.idx.resolveRoom(propertyID, roomID); err != nil {
		return nil, err
	}
	count := EffectiveBedCount(shareType, bedCount)
	if count <= 0 {
		return nil, fmt.Errorf("room %s: unknown share type %q and no explicit bed count", roomID, shareType)
	}
	if err := s.idx.replaceRoomBeds(roomID, shareType, bedCount, GenerateBeds(count)); err != nil {
		return nil, err
	}
	s.persistProperties(ctx)

	out, _ := s.idx.materialize(propertyID)
	return &out, nil
}

func (s *service) SetBedPricing(ctx context.Context, propertyID string, pricing BedPricing) (*Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.idx.properties[propertyID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, propertyID)
	}
	if pricing.BedCount <= 0 {
		return nil, fmt.Errorf("pricing bed count must be positive")
	}
	rec.pricing = upsertPricing(rec.pricing, pricing)
	s.persistProperties(ctx)

	out, _ := s.idx.materialize(propertyID)
	return &out, nil
}

func (s *service) SetBedOccupancy(ctx context.Context, path BedPath, occupied bool) error {
	if !path.Complete() {
		// Partial assignments are skipped, not failed; the member
		// simply has no bed to flip.
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bed, err := s.idx.resolve(path)
	if err != nil {
		return err
	}
	bed.occupied = occupied
	s.persistProperties(ctx)
	return nil
}

func (s *service) SyncOccupancy(ctx context.Context, assigned []BedPath) error {
	ctx, span := s.tracer.Start(ctx, "inventory.sync_occupancy",
		trace.WithAttributes(attribute.Int("assigned.count", len(assigned))),
	)
	defer span.End()

	occupied := make(map[string]struct{}, len(assigned))
	for _, path := range assigned {
		if path.Complete() {
			occupied[path.Key()] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	s.idx.forEachBed(func(path BedPath, bed *bedRec) {
		_, want := occupied[path.Key()]
		if bed.occupied != want {
			bed.occupied = want
			changed++
		}
	})
	if changed > 0 {
		s.persistProperties(ctx)
	}
	span.SetAttributes(attribute.Int("beds.changed", changed))
	return nil
}

func (s *service) ActivePropertyID(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID, nil
}

func (s *service) SetActiveProperty(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.idx.properties[id]; !ok {
		return fmt.Errorf("%w: %s", ErrPropertyNotFound, id)
	}
	s.activeID = id
	if err := s.store.Save(ctx, blobstore.KeyActivePropertyID, id); err != nil {
		s.logger.Error("persist active property id", "error", err)
	}
	return nil
}

func (s *service) SaveDraft(ctx context.Context, draft WizardDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = &draft
	blob, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode wizard draft: %w", err)
	}
	if err := s.store.Save(ctx, blobstore.KeyWizardState, string(blob)); err != nil {
		s.logger.Error("persist wizard draft", "error", err)
	}
	return nil
}

func (s *service) LoadDraft(ctx context.Context) (*WizardDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return nil, nil
	}
	draft := *s.draft
	return &draft, nil
}

func (s *service) ClearDraft(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	if err := s.store.Delete(ctx, blobstore.KeyWizardState); err != nil {
		s.logger.Error("clear wizard draft", "error", err)
	}
	return nil
}
