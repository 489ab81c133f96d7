package mapmodel

import (
	"math"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/osm"
)

/* Turn generation */

// incidentLane is one lane endpoint at an intersection: the trimmed centerline
// point on the intersection side plus the travel bearing at that point
type incidentLane struct {
	lane    *Lane
	road    *Road
	point   orb.Point
	bearing float64
}

// generateTurns enumerates every legal movement between the trimmed lanes
// incident to the intersection. Turn ids and conflict sets are assigned later
// by the pipeline, once all intersections are processed.
//
// An intersection producing zero turns for some inbound lane is a valid dead
// end, not an error.
func generateTurns(intersection *Intersection, roads map[RoadID]*Road, cfg *Config) []*Turn {
	inbound, outbound := collectIncidentLanes(intersection, roads)

	turns := make([]*Turn, 0, len(inbound)*len(outbound))
	seen := make(map[[2]LaneKey]struct{})

	for _, in := range inbound {
		for _, out := range outbound {
			if in.lane.key() == out.lane.key() {
				continue
			}
			sameRoad := in.lane.Road == out.lane.Road
			if sameRoad && !intersection.isDeadEnd() {
				// Immediate u-turn onto the same road is only legal at a dead end
				continue
			}
			if !laneTypesCompatible(in.lane.Type, out.lane.Type, out.road.Tags) {
				continue
			}

			turnType := classifyTurn(in, out, sameRoad, cfg)
			if restrictedTurn(in.road.Tags, turnType) {
				continue
			}

			pair := [2]LaneKey{in.lane.key(), out.lane.key()}
			if _, ok := seen[pair]; ok {
				// Multiple raw lane segments may alias the same physical lane
				continue
			}
			seen[pair] = struct{}{}

			turns = append(turns, &Turn{
				Intersection: intersection.ID,
				Source:       in.lane.key(),
				Destination:  out.lane.key(),
				Type:         turnType,
				Path:         connectorCurve(in, out, cfg),
			})
		}
	}
	return turns
}

// collectIncidentLanes gathers inbound and outbound lane endpoints in a stable
// order (roads by id, lanes by index), so reruns on identical input enumerate
// identical candidates
func collectIncidentLanes(intersection *Intersection, roads map[RoadID]*Road) (inbound, outbound []incidentLane) {
	roadIDs := make([]RoadID, len(intersection.Roads))
	copy(roadIDs, intersection.Roads)
	sort.Slice(roadIDs, func(i, j int) bool { return roadIDs[i] < roadIDs[j] })

	for _, roadID := range roadIDs {
		road, ok := roads[roadID]
		if !ok {
			// Road was excluded from the model (degenerate geometry)
			continue
		}
		for _, lane := range road.Lanes {
			if lane.Type == LANE_PARKING || len(lane.Centerline) < 2 {
				continue
			}
			if lane.flowsInto(intersection.ID, road.From, road.To) {
				point, bearing := lane.endpointAt(intersection.ID, road.From, road.To, true)
				inbound = append(inbound, incidentLane{lane: lane, road: road, point: point, bearing: bearing})
			}
			if lane.flowsOutOf(intersection.ID, road.From, road.To) {
				point, bearing := lane.endpointAt(intersection.ID, road.From, road.To, false)
				outbound = append(outbound, incidentLane{lane: lane, road: road, point: point, bearing: bearing})
			}
		}
	}
	return inbound, outbound
}

// classifyTurn partitions the signed angle between the inbound lane's terminal
// bearing and the outbound lane's initial bearing into straight/right/left/
// u-turn. A destination on the source road's opposite direction is a u-turn
// regardless of angle.
func classifyTurn(in, out incidentLane, sameRoad bool, cfg *Config) TurnType {
	if sameRoad {
		return TURN_U_TURN
	}
	angleDiff := normalizeAngle(out.bearing - in.bearing)
	if -cfg.StraightThreshold <= angleDiff && angleDiff <= cfg.StraightThreshold {
		return TURN_STRAIGHT
	}
	if angleDiff < -cfg.StraightThreshold && angleDiff >= -cfg.UTurnThreshold {
		return TURN_RIGHT
	}
	if angleDiff > cfg.StraightThreshold && angleDiff <= cfg.UTurnThreshold {
		return TURN_LEFT
	}
	return TURN_U_TURN
}

// laneTypesCompatible reports whether flow from one lane type into another is
// allowed. Driving into a bike lane is allowed only where the destination road
// declares the lane shared.
func laneTypesCompatible(in, out LaneType, outRoadTags osm.Tags) bool {
	switch in {
	case LANE_DRIVING:
		if out == LANE_DRIVING {
			return true
		}
		if out == LANE_BIKING {
			cycleway := outRoadTags.Find("cycleway")
			return cycleway == "shared_lane" || cycleway == "shared"
		}
	case LANE_BIKING:
		return out == LANE_BIKING
	case LANE_SIDEWALK:
		return out == LANE_SIDEWALK
	case LANE_BUS:
		return out == LANE_BUS || out == LANE_DRIVING
	}
	return false
}

// restrictedTurn checks tag-declared turn restrictions on the source road.
// Absence of a restriction means the turn is legal.
func restrictedTurn(tags osm.Tags, turnType TurnType) bool {
	restriction := tags.Find("restriction")
	if restriction == "" {
		return false
	}
	for _, value := range strings.Split(restriction, ";") {
		switch strings.TrimSpace(value) {
		case "no_left_turn":
			if turnType == TURN_LEFT {
				return true
			}
		case "no_right_turn":
			if turnType == TURN_RIGHT {
				return true
			}
		case "no_straight_on":
			if turnType == TURN_STRAIGHT {
				return true
			}
		case "no_u_turn":
			if turnType == TURN_U_TURN {
				return true
			}
		}
	}
	return false
}

// connectorCurve builds the turn's geometric path: a quadratic Bezier whose
// control point is the crossing of the two terminal tangents. Falls back to
// the straight segment when the tangents are parallel or the control point is
// implausibly far away.
func connectorCurve(in, out incidentLane, cfg *Config) orb.LineString {
	inDir := orb.Point{in.point[0] + math.Cos(in.bearing), in.point[1] + math.Sin(in.bearing)}
	outDir := orb.Point{out.point[0] + math.Cos(out.bearing), out.point[1] + math.Sin(out.bearing)}

	control, err := intersect(in.point, inDir, out.point, outDir)
	if err != nil {
		return orb.LineString{in.point, out.point}
	}

	// Control point must lie ahead of the inbound endpoint and behind the
	// outbound one, otherwise the curve would bow outside the intersection
	ahead := (control[0]-in.point[0])*math.Cos(in.bearing) + (control[1]-in.point[1])*math.Sin(in.bearing)
	behind := (control[0]-out.point[0])*math.Cos(out.bearing) + (control[1]-out.point[1])*math.Sin(out.bearing)
	endpointsDist := distance(in.point, out.point)
	if ahead <= 0 || behind >= 0 || distance(control, in.point) > 4*endpointsDist+1.0 {
		return orb.LineString{in.point, out.point}
	}

	return quadraticBezier(in.point, control, out.point, cfg.ConnectorSegments)
}

// detectTurnConflicts fills the conflict sets of all turns at the
// intersection: two turns conflict when their connector paths cross within the
// intersection footprint and the configured policy does not grant one of them
// priority. Conflict sets are symmetric.
func detectTurnConflicts(intersection *Intersection, roads map[RoadID]*Road, cfg *Config) {
	ring := intersection.outerRing()
	policy := cfg.conflictPolicy()
	turns := intersection.Turns

	for i := 0; i < len(turns); i++ {
		for j := i + 1; j < len(turns); j++ {
			a, b := turns[i], turns[j]
			if a.Source == b.Source {
				// Diverging movements from the same lane never conflict
				continue
			}
			if sidewalkTurn(a, roads) && sidewalkTurn(b, roads) {
				// Crosswalk movements are mutually compatible
				continue
			}
			crossing, ok := linesCross(a.Path, b.Path)
			if !ok {
				continue
			}
			if ring != nil && !planar.RingContains(ring, crossing) {
				continue
			}
			if !policy(a, b) {
				continue
			}
			a.Conflicts = append(a.Conflicts, b.ID)
			b.Conflicts = append(b.Conflicts, a.ID)
		}
	}
}

func sidewalkTurn(turn *Turn, roads map[RoadID]*Road) bool {
	road, ok := roads[turn.Source.Road]
	if !ok || turn.Source.Index >= len(road.Lanes) {
		return false
	}
	return road.Lanes[turn.Source.Index].Type == LANE_SIDEWALK
}
