package mapmodel

import (
	"github.com/paulmach/orb"
)

/* Routable graph export */

// Free-flow speeds (meters per second) by lane type, applied when flattening
// the model into a weighted graph for the routing collaborator
var defaultSpeedByLaneType = map[LaneType]float64{
	LANE_DRIVING:  13.9,
	LANE_BIKING:   4.2,
	LANE_SIDEWALK: 1.4,
	LANE_BUS:      13.9,
}

// RoutableEdge is one directed weighted edge of the flattened lane graph:
// either a lane traversal or a turn connector
type RoutableEdge struct {
	ID          int64
	Source      int64
	Target      int64
	CostMeters  float64
	CostSeconds float64
	IsTurn      bool
	Geom        orb.LineString
}

// RoutableEdges flattens lanes and turns into a directed weighted edge list.
// Every lane contributes two vertices (its trimmed endpoints); turns connect
// the intersection-side vertices of their source and destination lanes.
// Output order is deterministic: lanes by (road, index), then turns by id.
func (m *Map) RoutableEdges() []RoutableEdge {
	type laneVertices struct {
		atFrom int64 // vertex at the road's From-side endpoint
		atTo   int64 // vertex at the road's To-side endpoint
	}

	vertices := make(map[LaneKey]laneVertices)
	nextVertex := int64(0)
	edges := []RoutableEdge{}
	nextEdge := int64(0)

	appendEdge := func(source, target int64, geom orb.LineString, laneType LaneType, isTurn bool) {
		costMeters := lineLength(geom)
		speed, ok := defaultSpeedByLaneType[laneType]
		if !ok {
			speed = 13.9
		}
		edges = append(edges, RoutableEdge{
			ID:          nextEdge,
			Source:      source,
			Target:      target,
			CostMeters:  costMeters,
			CostSeconds: costMeters / speed,
			IsTurn:      isTurn,
			Geom:        geom,
		})
		nextEdge++
	}

	for _, roadID := range sortedRoadIDs(m.Roads) {
		road := m.Roads[roadID]
		for _, lane := range road.Lanes {
			if lane.Type == LANE_PARKING || len(lane.Centerline) < 2 {
				continue
			}
			v := laneVertices{atFrom: nextVertex, atTo: nextVertex + 1}
			nextVertex += 2
			vertices[lane.key()] = v

			switch lane.Direction {
			case DIRECTION_FORWARD:
				appendEdge(v.atFrom, v.atTo, lane.Centerline, lane.Type, false)
			case DIRECTION_BACKWARD:
				appendEdge(v.atTo, v.atFrom, reverseLine(lane.Centerline), lane.Type, false)
			case DIRECTION_BOTH:
				appendEdge(v.atFrom, v.atTo, lane.Centerline, lane.Type, false)
				appendEdge(v.atTo, v.atFrom, reverseLine(lane.Centerline), lane.Type, false)
			}
		}
	}

	for turnID := TurnID(0); turnID < TurnID(len(m.Turns)); turnID++ {
		turn := m.Turns[turnID]
		sourceLane := m.Lane(turn.Source)
		destinationLane := m.Lane(turn.Destination)
		if sourceLane == nil || destinationLane == nil {
			continue
		}
		sourceVertices, ok := vertices[turn.Source]
		if !ok {
			continue
		}
		destinationVertices, ok := vertices[turn.Destination]
		if !ok {
			continue
		}

		sourceRoad := m.Roads[turn.Source.Road]
		destinationRoad := m.Roads[turn.Destination.Road]
		source := sourceVertices.atFrom
		if turn.Intersection == sourceRoad.To {
			source = sourceVertices.atTo
		}
		target := destinationVertices.atFrom
		if turn.Intersection == destinationRoad.To {
			target = destinationVertices.atTo
		}
		appendEdge(source, target, turn.Path, sourceLane.Type, true)
	}

	return edges
}
