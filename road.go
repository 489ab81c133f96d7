package mapmodel

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

/* Roads stuff */

type RoadID int64

// Road is an undirected physical roadway segment between two intersections.
// Everything except the derived lanes is immutable once constructed; lanes are
// populated during the pipeline and never mutated afterwards.
type Road struct {
	ID           RoadID
	Centerline   orb.LineString
	Tags         osm.Tags
	From         IntersectionID
	To           IntersectionID
	CrossSection float64
	Lanes        []*Lane
}
