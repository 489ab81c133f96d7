package mapmodel

import (
	"github.com/paulmach/orb"
)

/* Lanes stuff */

type LaneType uint16

const (
	LANE_DRIVING = LaneType(iota + 1)
	LANE_BIKING
	LANE_PARKING
	LANE_SIDEWALK
	LANE_BUS

	LANE_UNDEFINED = LaneType(0)
)

func (iotaIdx LaneType) String() string {
	return [...]string{"undefined", "driving", "biking", "parking", "sidewalk", "bus"}[iotaIdx]
}

type LaneDirection uint16

const (
	DIRECTION_FORWARD = LaneDirection(iota + 1)
	DIRECTION_BACKWARD
	DIRECTION_BOTH

	DIRECTION_UNDEFINED = LaneDirection(0)
)

func (iotaIdx LaneDirection) String() string {
	return [...]string{"undefined", "forward", "backward", "both"}[iotaIdx]
}

// LaneSpec describes a single channel of a road's cross-section before any
// geometry is derived for it
type LaneSpec struct {
	Type      LaneType
	Direction LaneDirection
	Width     float64
}

// LaneKey is an identifier-based reference to a lane: owning road plus index in
// the road's left-to-right lane order
type LaneKey struct {
	Road  RoadID
	Index int
}

func (key LaneKey) less(other LaneKey) bool {
	if key.Road != other.Road {
		return key.Road < other.Road
	}
	return key.Index < other.Index
}

// Lane is one travel channel of a road. Index defines position in the road's
// left-to-right order (looking along the road's forward direction) and is never
// reordered after creation. Centerline is stored in the road's forward
// orientation regardless of the lane's travel direction.
type Lane struct {
	Road       RoadID
	Index      int
	Type       LaneType
	Direction  LaneDirection
	Width      float64
	Centerline orb.LineString
}

func (lane *Lane) key() LaneKey {
	return LaneKey{Road: lane.Road, Index: lane.Index}
}

// flowsInto reports whether lane's travel direction points into given
// intersection on road with endpoints from/to
func (lane *Lane) flowsInto(intersection IntersectionID, from, to IntersectionID) bool {
	switch lane.Direction {
	case DIRECTION_FORWARD:
		return intersection == to
	case DIRECTION_BACKWARD:
		return intersection == from
	case DIRECTION_BOTH:
		return intersection == from || intersection == to
	}
	return false
}

// flowsOutOf reports whether lane's travel direction points out of given
// intersection on road with endpoints from/to
func (lane *Lane) flowsOutOf(intersection IntersectionID, from, to IntersectionID) bool {
	switch lane.Direction {
	case DIRECTION_FORWARD:
		return intersection == from
	case DIRECTION_BACKWARD:
		return intersection == to
	case DIRECTION_BOTH:
		return intersection == from || intersection == to
	}
	return false
}

// endpointAt returns lane's centerline point at the side of given intersection
// together with the travel bearing of the lane at that point, oriented so that
// the bearing points into the intersection for inbound usage
func (lane *Lane) endpointAt(intersection IntersectionID, from, to IntersectionID, inbound bool) (orb.Point, float64) {
	line := lane.Centerline
	atEnd := intersection == to
	if lane.Direction == DIRECTION_BACKWARD {
		line = reverseLine(line)
		atEnd = intersection == from
	}
	if lane.Direction == DIRECTION_BOTH && !atEnd {
		line = reverseLine(line)
		atEnd = true
	}
	if inbound {
		// Travel towards the intersection: the intersection-side endpoint is the
		// last point of the travel-oriented line
		return line[len(line)-1], terminalBearing(line)
	}
	// Travel away from the intersection
	if atEnd {
		line = reverseLine(line)
	}
	return line[0], initialBearing(line)
}
