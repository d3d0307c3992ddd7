// internal/inventory/index.go
package inventory

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrBuildingNotFound = errors.New("building not found")
	ErrFloorNotFound    = errors.New("floor not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrBedNotFound      = errors.New("bed not found")
	ErrDuplicateRoom    = errors.New("room number already exists in property")
)

// The index stores the property tree as flat tables keyed by id with
// parent back-references, so flipping one bed is a single map write
// instead of a clone of the whole tree. The nested Property view is
// materialized on demand for reads and serialization.

type propertyRec struct {
	id          string
	name        string
	ptype       PropertyType
	city        string
	area        string
	pricing     []BedPricing
	createdAt   time.Time
	buildingIDs []string
}

type buildingRec struct {
	id         string
	name       string
	propertyID string
	floorIDs   []string
}

type floorRec struct {
	id         string
	label      string
	buildingID string
	roomIDs    []string
}

type roomRec struct {
	id         string
	roomNumber string
	shareType  ShareType
	bedCount   int
	floorID    string
	bedIDs     []string
}

type bedRec struct {
	id       string
	roomID   string
	occupied bool
}

type index struct {
	order      []string // property ids in insertion order
	properties map[string]*propertyRec
	buildings  map[string]*buildingRec
	floors     map[string]*floorRec
	rooms      map[string]*roomRec
	beds       map[string]*bedRec // keyed by roomID:bedID; bed ids repeat across rooms
}

func newIndex() *index {
	return &index{
		properties: make(map[string]*propertyRec),
		buildings:  make(map[string]*buildingRec),
		floors:     make(map[string]*floorRec),
		rooms:      make(map[string]*roomRec),
		beds:       make(map[string]*bedRec),
	}
}

func bedKey(roomID, bedID string) string {
	return roomID + ":" + bedID
}

// insertProperty decomposes a fully-built tree into the flat tables.
func (ix *index) insertProperty(p Property) {
	rec := &propertyRec{
		id:        p.ID,
		name:      p.Name,
		ptype:     p.Type,
		city:      p.City,
		area:      p.Area,
		pricing:   append([]BedPricing(nil), p.BedPricing...),
		createdAt: p.CreatedAt,
	}
	for _, b := range p.Buildings {
		rec.buildingIDs = append(rec.buildingIDs, b.ID)
		ix.insertBuilding(p.ID, b)
	}
	ix.properties[p.ID] = rec
	ix.order = append(ix.order, p.ID)
}

func (ix *index) insertBuilding(propertyID string, b Building) {
	brec := &buildingRec{id: b.ID, name: b.Name, propertyID: propertyID}
	for _, f := range b.Floors {
		brec.floorIDs = append(brec.floorIDs, f.ID)
		ix.insertFloor(b.ID, f)
	}
	ix.buildings[b.ID] = brec
}

func (ix *index) insertFloor(buildingID string, f Floor) {
	frec := &floorRec{id: f.ID, label: f.Label, buildingID: buildingID}
	for _, r := range f.Rooms {
		frec.roomIDs = append(frec.roomIDs, r.ID)
		ix.insertRoom(f.ID, r)
	}
	ix.floors[f.ID] = frec
}

func (ix *index) insertRoom(floorID string, r Room) {
	rrec := &roomRec{
		id:         r.ID,
		roomNumber: r.RoomNumber,
		shareType:  r.ShareType,
		bedCount:   r.BedCount,
		floorID:    floorID,
	}
	for _, bed := range r.Beds {
		rrec.bedIDs = append(rrec.bedIDs, bed.ID)
		ix.beds[bedKey(r.ID, bed.ID)] = &bedRec{id: bed.ID, roomID: r.ID, occupied: bed.Occupied}
	}
	ix.rooms[r.ID] = rrec
}

func (ix *index) removeProperty(id string) bool {
	rec, ok := ix.properties[id]
	if !ok {
		return false
	}
	for _, bid := range rec.buildingIDs {
		brec := ix.buildings[bid]
		for _, fid := range brec.floorIDs {
			frec := ix.floors[fid]
			for _, rid := range frec.roomIDs {
				rrec := ix.rooms[rid]
				for _, bedID := range rrec.bedIDs {
					delete(ix.beds, bedKey(rid, bedID))
				}
				delete(ix.rooms, rid)
			}
			delete(ix.floors, fid)
		}
		delete(ix.buildings, bid)
	}
	delete(ix.properties, id)
	for i, pid := range ix.order {
		if pid == id {
			ix.order = append(ix.order[:i], ix.order[i+1:]...)
			break
		}
	}
	return true
}

// materialize assembles the nested Property view and computes the
// derived room and bed totals.
func (ix *index) materialize(id string) (Property, bool) {
	rec, ok := ix.properties[id]
	if !ok {
		return Property{}, false
	}
	p := Property{
		ID:         rec.id,
		Name:       rec.name,
		Type:       rec.ptype,
		City:       rec.city,
		Area:       rec.area,
		BedPricing: append([]BedPricing(nil), rec.pricing...),
		CreatedAt:  rec.createdAt,
		Buildings:  make([]Building, 0, len(rec.buildingIDs)),
	}
	for _, bid := range rec.buildingIDs {
		brec := ix.buildings[bid]
		b := Building{ID: brec.id, Name: brec.name, Floors: make([]Floor, 0, len(brec.floorIDs))}
		for _, fid := range brec.floorIDs {
			frec := ix.floors[fid]
			f := Floor{ID: frec.id, Label: frec.label, Rooms: make([]Room, 0, len(frec.roomIDs))}
			for _, rid := range frec.roomIDs {
				rrec := ix.rooms[rid]
				r := Room{
					ID:         rrec.id,
					RoomNumber: rrec.roomNumber,
					ShareType:  rrec.shareType,
					BedCount:   rrec.bedCount,
					Beds:       make([]Bed, 0, len(rrec.bedIDs)),
				}
				for _, bedID := range rrec.bedIDs {
					bed := ix.beds[bedKey(rid, bedID)]
					r.Beds = append(r.Beds, Bed{ID: bed.id, Occupied: bed.occupied})
				}
				p.TotalRooms++
				p.TotalBeds += len(r.Beds)
				f.Rooms = append(f.Rooms, r)
			}
			b.Floors = append(b.Floors, f)
		}
		p.Buildings = append(p.Buildings, b)
	}
	return p, true
}

func (ix *index) materializeAll() []Property {
	out := make([]Property, 0, len(ix.order))
	for _, id := range ix.order {
		if p, ok := ix.materialize(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// resolve walks the full path and verifies each parent link, so a
// stale or mismatched path can never flip a bed in another room.
func (ix *index) resolve(path BedPath) (*bedRec, error) {
	if _, ok := ix.properties[path.PropertyID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrPropertyNotFound, path.PropertyID)
	}
	brec, ok := ix.buildings[path.BuildingID]
	if !ok || brec.propertyID != path.PropertyID {
		return nil, fmt.Errorf("%w: %s", ErrBuildingNotFound, path.BuildingID)
	}
	frec, ok := ix.floors[path.FloorID]
	if !ok || frec.buildingID != path.BuildingID {
		return nil, fmt.Errorf("%w: %s", ErrFloorNotFound, path.FloorID)
	}
	rrec, ok := ix.rooms[path.RoomID]
	if !ok || rrec.floorID != path.FloorID {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, path.RoomID)
	}
	bed, ok := ix.beds[bedKey(path.RoomID, path.BedID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBedNotFound, path.BedID)
	}
	return bed, nil
}

// resolveRoom verifies the room's parent chain reaches the given
// property, so a room id belonging to another property can never be
// rewritten through it.
func (ix *index) resolveRoom(propertyID, roomID string) (*roomRec, error) {
	rrec, ok := ix.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	frec := ix.floors[rrec.floorID]
	brec := ix.buildings[frec.buildingID]
	if brec.propertyID != propertyID {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return rrec, nil
}

// pathOf reconstructs the full path of a bed from its back-references.
func (ix *index) pathOf(bed *bedRec) BedPath {
	rrec := ix.rooms[bed.roomID]
	frec := ix.floors[rrec.floorID]
	brec := ix.buildings[frec.buildingID]
	return BedPath{
		PropertyID: brec.propertyID,
		BuildingID: brec.id,
		FloorID:    frec.id,
		RoomID:     rrec.id,
		BedID:      bed.id,
	}
}

func (ix *index) forEachBed(fn func(path BedPath, bed *bedRec)) {
	for _, bed := range ix.beds {
		fn(ix.pathOf(bed), bed)
	}
}

// roomNumberTaken checks room-number uniqueness within one property.
func (ix *index) roomNumberTaken(propertyID, roomNumber string) bool {
	rec, ok := ix.properties[propertyID]
	if !ok {
		return false
	}
	for _, bid := range rec.buildingIDs {
		for _, fid := range ix.buildings[bid].floorIDs {
			for _, rid := range ix.floors[fid].roomIDs {
				if ix.rooms[rid].roomNumber == roomNumber {
					return true
				}
			}
		}
	}
	return false
}

// replaceRoomBeds swaps a room's bed list wholesale, dropping the old
// occupancy flags. Callers re-run member reconciliation afterwards.
func (ix *index) replaceRoomBeds(roomID string, shareType ShareType, bedCount int, beds []Bed) error {
	rrec, ok := ix.rooms[roomID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	for _, bedID := range rrec.bedIDs {
		delete(ix.beds, bedKey(roomID, bedID))
	}
	rrec.shareType = shareType
	rrec.bedCount = bedCount
	rrec.bedIDs = rrec.bedIDs[:0]
	for _, bed := range beds {
		rrec.bedIDs = append(rrec.bedIDs, bed.ID)
		ix.beds[bedKey(roomID, bed.ID)] = &bedRec{id: bed.ID, roomID: roomID, occupied: bed.Occupied}
	}
	return nil
}
