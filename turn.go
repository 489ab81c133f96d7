package mapmodel

import (
	"github.com/paulmach/orb"
)

/* Turns stuff */

type TurnID int64

type TurnType uint16

const (
	TURN_STRAIGHT = TurnType(iota + 1)
	TURN_RIGHT
	TURN_LEFT
	TURN_U_TURN

	TURN_UNDEFINED = TurnType(0)
)

func (iotaIdx TurnType) String() string {
	return [...]string{"undefined", "straight", "right", "left", "uturn"}[iotaIdx]
}

// Turn is one legal movement from a source lane to a destination lane through
// an intersection. Source and destination are identifier-based lookups into the
// owning map's road arena. Conflicts lists ids of other turns at the same
// intersection whose paths cross this one.
type Turn struct {
	ID           TurnID
	Intersection IntersectionID
	Source       LaneKey
	Destination  LaneKey
	Type         TurnType
	Path         orb.LineString
	Conflicts    []TurnID
}
