// internal/inventory/beds.go
package inventory

import "fmt"

// BedCountForShareType maps the legacy share-type label to its bed
// count. Unrecognized labels map to zero so the caller falls back to
// an explicit count.
func BedCountForShareType(s ShareType) int {
	switch s {
	case ShareSingle:
		return 1
	case ShareDouble:
		return 2
	case ShareTriple:
		return 3
	default:
		return 0
	}
}

// EffectiveBedCount resolves a room's bed count: an explicit positive
// count wins, otherwise the share type decides.
func EffectiveBedCount(shareType ShareType, bedCount int) int {
	if bedCount > 0 {
		return bedCount
	}
	return BedCountForShareType(shareType)
}

// GenerateBeds produces count beds with ids B1..Bn, all unoccupied.
// Deterministic given count; used for share-type rooms and
// explicit-count rooms alike.
func GenerateBeds(count int) []Bed {
	beds := make([]Bed, 0, count)
	for i := 1; i <= count; i++ {
		beds = append(beds, Bed{ID: fmt.Sprintf("B%d", i)})
	}
	return beds
}
