package mapmodel

import (
	"github.com/paulmach/orb"
)

/* Parcels stuff */

type ParcelID int64

type BlockID int64

// Parcel is an input polygon; Block membership is derived by the grouper.
// Every parcel belongs to exactly one block.
type Parcel struct {
	ID      ParcelID
	Polygon orb.Polygon
	Block   BlockID
}

// outerRing returns the parcel polygon's outer ring
func (parcel *Parcel) outerRing() orb.Ring {
	if len(parcel.Polygon) == 0 {
		return nil
	}
	return parcel.Polygon[0]
}
