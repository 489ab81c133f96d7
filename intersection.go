package mapmodel

import (
	"github.com/paulmach/orb"
)

/* Intersections stuff */

type IntersectionID int64

// Intersection is a point or small polygon where roads meet. Boundary is raw
// input geometry: it is required before any road is trimmed, not derived from
// trimming. Turns are populated by the pipeline.
type Intersection struct {
	ID       IntersectionID
	Boundary orb.Polygon
	Roads    []RoadID
	Turns    []*Turn
}

// outerRing returns the boundary's outer ring or nil when the intersection is
// a bare point without a polygon
func (intersection *Intersection) outerRing() orb.Ring {
	if len(intersection.Boundary) == 0 || len(intersection.Boundary[0]) < 4 {
		return nil
	}
	return intersection.Boundary[0]
}

// isDeadEnd reports whether only a single road touches the intersection
func (intersection *Intersection) isDeadEnd() bool {
	return len(intersection.Roads) == 1
}
