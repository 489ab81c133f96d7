package mapmodel

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"
)

/* Building placement */

// laneAnchor is a sample point of a lane centerline stored in the spatial
// index used to find candidate lanes near a footprint
type laneAnchor struct {
	point orb.Point
	key   LaneKey
}

func (anchor laneAnchor) Point() orb.Point {
	return anchor.point
}

// buildLaneIndex puts vertices of every connectable lane (sidewalk or driving)
// into a quadtree, resampling long segments so consecutive anchors are never
// farther apart than the search radius. A two-point lane spanning kilometers is
// normal trimmer output and must still be discoverable from anywhere within
// the radius of its interior.
func buildLaneIndex(roads map[RoadID]*Road, cfg *Config) *quadtree.Quadtree {
	spacing := cfg.BuildingSearchRadius
	if spacing <= 0 {
		spacing = 100.0
	}

	var points orb.MultiPoint
	var anchors []laneAnchor
	add := func(pt orb.Point, key LaneKey) {
		points = append(points, pt)
		anchors = append(anchors, laneAnchor{point: pt, key: key})
	}
	for _, road := range roads {
		for _, lane := range road.Lanes {
			if lane.Type != LANE_SIDEWALK && lane.Type != LANE_DRIVING {
				continue
			}
			line := lane.Centerline
			for i := range line {
				add(line[i], lane.key())
				if i == 0 {
					continue
				}
				steps := int(math.Ceil(distance(line[i-1], line[i]) / spacing))
				for s := 1; s < steps; s++ {
					t := float64(s) / float64(steps)
					add(orb.Point{
						line[i-1][0] + t*(line[i][0]-line[i-1][0]),
						line[i-1][1] + t*(line[i][1]-line[i-1][1]),
					}, lane.key())
				}
			}
		}
	}
	if len(points) == 0 {
		return nil
	}
	tree := quadtree.New(points.Bound().Pad(1.0))
	for _, anchor := range anchors {
		tree.Add(anchor)
	}
	return tree
}

// connectionCandidate is a lane ranked by perpendicular distance from the
// footprint centroid
type connectionCandidate struct {
	key      LaneKey
	laneType LaneType
	point    orb.Point
	dist     float64
}

// placeBuilding computes the building's connection: the nearest viable point
// on a sidewalk (preferred) or driving (fallback) lane within the search
// radius, with a straight access path to the nearest footprint boundary point.
//
// Returns a CONNECTION_NONE connection when no candidate lane lies within the
// radius or every access path crosses another building; that is a valid
// terminal state, not a failure.
func placeBuilding(building *Building, index *quadtree.Quadtree, roads map[RoadID]*Road, buildings map[BuildingID]*Building, cfg *Config) Connection {
	footprint := building.outerRing()
	if footprint == nil || index == nil {
		return Connection{State: CONNECTION_NONE}
	}
	centroid, _ := planar.CentroidArea(building.Footprint)

	// Anchors oversample lanes, so fetch more neighbors than ranked candidates
	nearby := index.KNearest(nil, centroid, cfg.BuildingCandidates*4, cfg.BuildingSearchRadius*1.5)

	candidates := make([]connectionCandidate, 0, len(nearby))
	observed := make(map[LaneKey]struct{})
	for _, pointer := range nearby {
		anchor := pointer.(laneAnchor)
		if _, ok := observed[anchor.key]; ok {
			continue
		}
		observed[anchor.key] = struct{}{}
		lane := laneByKey(roads, anchor.key)
		if lane == nil {
			continue
		}
		point, _, dist := closestPointOnLine(lane.Centerline, centroid)
		if dist > cfg.BuildingSearchRadius {
			continue
		}
		candidates = append(candidates, connectionCandidate{key: anchor.key, laneType: lane.Type, point: point, dist: dist})
	}

	sort.Slice(candidates, func(i, j int) bool {
		// Sidewalks win over driving lanes, then perpendicular distance, then
		// lane identity for stable reruns
		if (candidates[i].laneType == LANE_SIDEWALK) != (candidates[j].laneType == LANE_SIDEWALK) {
			return candidates[i].laneType == LANE_SIDEWALK
		}
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].key.less(candidates[j].key)
	})
	if len(candidates) > cfg.BuildingCandidates {
		candidates = candidates[:cfg.BuildingCandidates]
	}

	for _, candidate := range candidates {
		door, _ := closestPointOnRing(footprint, candidate.point)
		if accessPathBlocked(candidate.point, door, building.ID, buildings) {
			continue
		}
		return Connection{
			State: CONNECTION_OK,
			Lane:  candidate.key,
			Point: candidate.point,
			Path:  orb.LineString{candidate.point, door},
		}
	}
	return Connection{State: CONNECTION_NONE}
}

// accessPathBlocked reports whether segment [lanePoint; door] crosses the
// footprint of any other building
func accessPathBlocked(lanePoint, door orb.Point, self BuildingID, buildings map[BuildingID]*Building) bool {
	pathBound := orb.MultiPoint{lanePoint, door}.Bound()
	for id, other := range buildings {
		if id == self {
			continue
		}
		ring := other.outerRing()
		if ring == nil || !other.Footprint.Bound().Intersects(pathBound) {
			continue
		}
		if segmentCrossesRing(lanePoint, door, ring) {
			return true
		}
	}
	return false
}

// laneByKey resolves an identifier-based lane reference against the road arena
func laneByKey(roads map[RoadID]*Road, key LaneKey) *Lane {
	road, ok := roads[key.Road]
	if !ok || key.Index < 0 || key.Index >= len(road.Lanes) {
		return nil
	}
	return road.Lanes[key.Index]
}
