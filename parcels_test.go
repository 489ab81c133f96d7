package mapmodel

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func parcelAt(id ParcelID, minX, minY, maxX, maxY float64) *Parcel {
	return &Parcel{
		ID: id,
		Polygon: orb.Polygon{orb.Ring{
			{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
		}},
	}
}

func TestGroupParcelsSharedEdge(t *testing.T) {
	cfg := DefaultConfig()
	parcels := map[ParcelID]*Parcel{
		1: parcelAt(1, 0, 0, 10, 10),
		2: parcelAt(2, 10, 0, 20, 10),
		3: parcelAt(3, 100, 100, 110, 110),
	}

	blocks := groupParcels(parcels, cfg)
	require.Len(t, blocks, 3)
	require.Equal(t, blocks[1], blocks[2])
	require.NotEqual(t, blocks[1], blocks[3])

	// Block ids follow ascending smallest parcel id per component
	require.Equal(t, BlockID(0), blocks[1])
	require.Equal(t, BlockID(1), blocks[3])
}

func TestGroupParcelsTolerance(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParcelAdjacencyTolerance = 0.1

	near := map[ParcelID]*Parcel{
		1: parcelAt(1, 0, 0, 10, 10),
		2: parcelAt(2, 10.05, 0, 20, 10),
	}
	blocks := groupParcels(near, cfg)
	require.Equal(t, blocks[1], blocks[2])

	apart := map[ParcelID]*Parcel{
		1: parcelAt(1, 0, 0, 10, 10),
		2: parcelAt(2, 12, 0, 20, 10),
	}
	blocks = groupParcels(apart, cfg)
	require.NotEqual(t, blocks[1], blocks[2])
}

func TestGroupParcelsTransitive(t *testing.T) {
	cfg := DefaultConfig()
	// 1 touches 2, 2 touches 3, 1 never touches 3 directly
	parcels := map[ParcelID]*Parcel{
		1: parcelAt(1, 0, 0, 10, 10),
		2: parcelAt(2, 10, 0, 20, 10),
		3: parcelAt(3, 20, 0, 30, 10),
	}

	blocks := groupParcels(parcels, cfg)
	require.Equal(t, blocks[1], blocks[2])
	require.Equal(t, blocks[2], blocks[3])
}

func TestParcelsAdjacentSymmetric(t *testing.T) {
	a := parcelAt(1, 0, 0, 10, 10)
	b := parcelAt(2, 10, 0, 20, 10)
	c := parcelAt(3, 50, 50, 60, 60)

	require.Equal(t, parcelsAdjacent(a, b, 0.1), parcelsAdjacent(b, a, 0.1))
	require.Equal(t, parcelsAdjacent(a, c, 0.1), parcelsAdjacent(c, a, 0.1))
	require.True(t, parcelsAdjacent(a, b, 0.1))
	require.False(t, parcelsAdjacent(a, c, 0.1))

	// Overlap counts as adjacency too
	overlapping := parcelAt(4, 5, 5, 15, 15)
	require.True(t, parcelsAdjacent(a, overlapping, 0.1))
}

func TestGroupParcelsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	parcels := map[ParcelID]*Parcel{
		5: parcelAt(5, 0, 0, 10, 10),
		9: parcelAt(9, 10, 0, 20, 10),
		2: parcelAt(2, 40, 40, 50, 50),
		7: parcelAt(7, 50, 40, 60, 50),
	}

	first := groupParcels(parcels, cfg)
	second := groupParcels(parcels, cfg)
	require.Equal(t, first, second)

	// Components keyed by their smallest member: {2,7} before {5,9}
	require.Equal(t, BlockID(0), first[2])
	require.Equal(t, BlockID(0), first[7])
	require.Equal(t, BlockID(1), first[5])
	require.Equal(t, BlockID(1), first[9])
}
