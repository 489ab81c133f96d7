package mapmodel

import (
	"github.com/paulmach/orb"
)

/* Buildings stuff */

type BuildingID int64

type ConnectionState uint16

const (
	CONNECTION_OK = ConnectionState(iota + 1)
	CONNECTION_NONE

	CONNECTION_UNDEFINED = ConnectionState(0)
)

func (iotaIdx ConnectionState) String() string {
	return [...]string{"undefined", "connected", "unconnected"}[iotaIdx]
}

// Connection links a building to a point on a lane's trimmed centerline.
// CONNECTION_NONE is a valid terminal state: the building is reachable by no
// lane within the search radius and must be treated as inaccessible, not as an
// error.
type Connection struct {
	State ConnectionState
	Lane  LaneKey
	Point orb.Point
	Path  orb.LineString
}

type Building struct {
	ID         BuildingID
	Footprint  orb.Polygon
	Connection Connection
}

// outerRing returns the footprint's outer ring
func (building *Building) outerRing() orb.Ring {
	if len(building.Footprint) == 0 {
		return nil
	}
	return building.Footprint[0]
}
