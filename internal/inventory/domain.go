// internal/inventory/domain.go
package inventory

import "time"

// PropertyType distinguishes the two supported property categories.
type PropertyType string

const (
	TypeHostelPG   PropertyType = "Hostel/PG"
	TypeApartments PropertyType = "Apartments"
)

// ShareType is the legacy room-sharing label; it implies a bed count
// unless the room carries an explicit one.
type ShareType string

const (
	ShareSingle ShareType = "single"
	ShareDouble ShareType = "double"
	ShareTriple ShareType = "triple"
)

// Bed is owned exclusively by its room. Bed ids are positional (B1..Bn)
// and stable for the lifetime of the room; beds are never reordered,
// only flagged occupied or available.
type Bed struct {
	ID       string `json:"id"`
	Occupied bool   `json:"occupied"`
}

// Room holds an ordered list of beds. When BedCount is set and
// positive it overrides the share-type-derived count.
type Room struct {
	ID         string    `json:"id"`
	RoomNumber string    `json:"roomNumber"`
	ShareType  ShareType `json:"shareType"`
	BedCount   int       `json:"bedCount,omitempty"`
	Beds       []Bed     `json:"beds"`
}

// Floor is labeled, not numbered: "G", "1", "B1".
type Floor struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Rooms []Room `json:"rooms"`
}

type Building struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Floors []Floor `json:"floors"`
}

// BedPricing maps a bed count to its daily and monthly price. A
// property carries at most one entry per bed count.
type BedPricing struct {
	BedCount     int     `json:"bedCount"`
	DailyPrice   float64 `json:"dailyPrice"`
	MonthlyPrice float64 `json:"monthlyPrice"`
}

// Property exclusively owns its buildings→floors→rooms→beds subtree.
// TotalRooms and TotalBeds are derived on materialization.
type Property struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Type       PropertyType `json:"type"`
	City       string       `json:"city"`
	Area       string       `json:"area,omitempty"`
	Buildings  []Building   `json:"buildings"`
	BedPricing []BedPricing `json:"bedPricing"`
	TotalRooms int          `json:"totalRooms"`
	TotalBeds  int          `json:"totalBeds"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// BedPath addresses one bed through the property tree.
type BedPath struct {
	PropertyID string `json:"propertyId"`
	BuildingID string `json:"buildingId"`
	FloorID    string `json:"floorId"`
	RoomID     string `json:"roomId"`
	BedID      string `json:"bedId"`
}

// Key is the composite occupancy key used during reconciliation.
func (p BedPath) Key() string {
	return p.PropertyID + ":" + p.BuildingID + ":" + p.FloorID + ":" + p.RoomID + ":" + p.BedID
}

// Complete reports whether every segment of the path is set.
func (p BedPath) Complete() bool {
	return p.PropertyID != "" && p.BuildingID != "" && p.FloorID != "" && p.RoomID != "" && p.BedID != ""
}

// RoomSpec describes a room to create.
type RoomSpec struct {
	RoomNumber string    `json:"roomNumber"`
	ShareType  ShareType `json:"shareType"`
	BedCount   int       `json:"bedCount,omitempty"`
}

// FloorSpec describes a floor to create.
type FloorSpec struct {
	Label string     `json:"label"`
	Rooms []RoomSpec `json:"rooms"`
}

// BuildingSpec describes a building to create.
type BuildingSpec struct {
	Name   string      `json:"name"`
	Floors []FloorSpec `json:"floors"`
}

// CreatePropertyRequest is the full payload of the property wizard.
type CreatePropertyRequest struct {
	Name       string         `json:"name"`
	Type       PropertyType   `json:"type"`
	City       string         `json:"city"`
	Area       string         `json:"area,omitempty"`
	Buildings  []BuildingSpec `json:"buildings"`
	BedPricing []BedPricing   `json:"bedPricing,omitempty"`
}

// WizardDraft is the in-progress property creation state, persisted so
// a half-finished wizard survives a restart.
type WizardDraft struct {
	Step     int                   `json:"step"`
	Property CreatePropertyRequest `json:"property"`
}
