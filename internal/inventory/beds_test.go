// internal/inventory/beds_test.go
package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBedCountForShareType(t *testing.T) {
	assert.Equal(t, 1, BedCountForShareType(ShareSingle))
	assert.Equal(t, 2, BedCountForShareType(ShareDouble))
	assert.Equal(t, 3, BedCountForShareType(ShareTriple))
	assert.Equal(t, 0, BedCountForShareType("quad"))
	assert.Equal(t, 0, BedCountForShareType(""))
}

func TestEffectiveBedCount(t *testing.T) {
	assert.Equal(t, 2, EffectiveBedCount(ShareDouble, 0))
	// An explicit positive count overrides the share type.
	assert.Equal(t, 6, EffectiveBedCount(ShareDouble, 6))
	assert.Equal(t, 4, EffectiveBedCount("", 4))
	assert.Equal(t, 0, EffectiveBedCount("", 0))
	assert.Equal(t, 1, EffectiveBedCount(ShareSingle, -2))
}

func TestGenerateBeds(t *testing.T) {
	beds := GenerateBeds(3)
	require.Len(t, beds, 3)
	assert.Equal(t, "B1", beds[0].ID)
	assert.Equal(t, "B2", beds[1].ID)
	assert.Equal(t, "B3", beds[2].ID)
	for _, b := range beds {
		assert.False(t, b.Occupied)
	}

	assert.Empty(t, GenerateBeds(0))
	assert.Len(t, GenerateBeds(12), 12)
}
