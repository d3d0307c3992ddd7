// internal/inventory/service.go
package inventory

import "context"

// Service owns the property tree, bed inventory and occupancy flags.
type Service interface {
	// Load hydrates state from the blob store and must run before the
	// service handles traffic.
	Load(ctx context.Context) error

	CreateProperty(ctx context.Context, req CreatePropertyRequest) (*Property, error)
	GetProperty(ctx context.Context, id string) (*Property, error)
	ListProperties(ctx context.Context) ([]Property, error)
	DeleteProperty(ctx context.Context, id string) error

	AddBuilding(ctx context.Context, propertyID string, spec BuildingSpec) (*Property, error)
	AddFloor(ctx context.Context, propertyID, buildingID string, spec FloorSpec) (*Property, error)
	AddRoom(ctx context.Context, propertyID, buildingID, floorID string, spec RoomSpec) (*Property, error)
	UpdateRoomBeds(ctx context.Context, propertyID, roomID string, shareType ShareType, bedCount int) (*Property, error)
	SetBedPricing(ctx context.Context, propertyID string, pricing BedPricing) (*Property, error)

	// SetBedOccupancy is the point update used when one member is
	// assigned to or released from a bed.
	SetBedOccupancy(ctx context.Context, path BedPath, occupied bool) error
	// SyncOccupancy is the full reconciliation pass: the assigned set
	// is ground truth and every bed flag is rewritten from it.
	SyncOccupancy(ctx context.Context, assigned []BedPath) error

	ActivePropertyID(ctx context.Context) (string, error)
	SetActiveProperty(ctx context.Context, id string) error

	SaveDraft(ctx context.Context, draft WizardDraft) error
	LoadDraft(ctx context.Context) (*WizardDraft, error)
	ClearDraft(ctx context.Context) error
}
