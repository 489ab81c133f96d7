package mapmodel

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

/* Lane centerline trimming */

// trimRoadLanes derives the road's lanes: each lane centerline is offset from
// the road's raw centerline by its position in the cross-section and then
// clipped so it terminates at the boundary polygons of the intersections at
// both ends.
//
// Returns ErrDegenerateGeometry when the raw centerline has fewer than two
// distinct points or zero length; every other degenerate case is resolved by
// the snap fallback inside trimLaneLine.
// The integer result counts lanes that needed the snap fallback, so the
// caller can log a data-quality warning.
func trimRoadLanes(road *Road, specs []LaneSpec, startRing, endRing orb.Ring, cfg *Config) ([]*Lane, int, error) {
	centerline := dropRepeatedPoints(road.Centerline)
	if len(centerline) < 2 || lineLength(centerline) == 0 {
		return nil, 0, errors.Wrapf(ErrDegenerateGeometry, "road %d centerline has %d distinct points", road.ID, len(centerline))
	}

	totalWidth := 0.0
	for i := range specs {
		totalWidth += specs[i].Width
	}

	lanes := make([]*Lane, 0, len(specs))
	snapFallbacks := 0
	cumulative := 0.0
	for i, spec := range specs {
		// Positive offset is to the left of the forward direction, so lane 0
		// (leftmost) gets the largest positive offset
		offset := totalWidth/2.0 - cumulative - spec.Width/2.0
		cumulative += spec.Width

		laneLine := centerline
		if offset != 0 {
			laneLine = offsetCurve(centerline, offset)
		}
		trimmed, snapped := trimLaneLine(laneLine, startRing, endRing, cfg)
		if snapped {
			snapFallbacks++
		}

		lanes = append(lanes, &Lane{
			Road:       road.ID,
			Index:      i,
			Type:       spec.Type,
			Direction:  spec.Direction,
			Width:      spec.Width,
			Centerline: trimmed,
		})
	}
	return lanes, snapFallbacks, nil
}

// trimLaneLine clips both ends of a lane centerline at the given intersection
// boundary rings. A nil ring means the corresponding intersection has no
// boundary polygon and that end is left untouched.
//
// When a boundary swallows the entire line (road shorter than the combined
// intersection radii) the trim point snaps to the boundary point nearest the
// untrimmed endpoint instead of failing the road. The second return value
// reports that the snap fallback fired.
func trimLaneLine(line orb.LineString, startRing, endRing orb.Ring, cfg *Config) (orb.LineString, bool) {
	trimmed, ok := trimLineStart(line, startRing, cfg)
	if ok {
		reversed := reverseLine(trimmed)
		reversed, ok = trimLineStart(reversed, endRing, cfg)
		if ok {
			return reverseLine(reversed), false
		}
	}

	// Snap fallback: both boundaries cover the remaining geometry
	start := line[0]
	end := line[len(line)-1]
	if startRing != nil {
		start, _ = closestPointOnRing(startRing, line[0])
	}
	if endRing != nil {
		end, _ = closestPointOnRing(endRing, line[len(line)-1])
	}
	if distance(start, end) <= cfg.TrimSnapTolerance {
		// Snapped ends collapse into a single point; keep the raw geometry
		// rather than emit a zero-length lane
		return line, true
	}
	return orb.LineString{start, end}, true
}

// trimLineStart clips the beginning of the line at the boundary ring. The
// second return value is false when every point of the line lies inside the
// ring or the line re-enters the ring after leaving it; the caller must
// resolve both with the snap fallback.
func trimLineStart(line orb.LineString, ring orb.Ring, cfg *Config) (orb.LineString, bool) {
	if ring == nil || !planar.RingContains(ring, line[0]) {
		return line, true
	}

	// Walk from the boundary-side end: find the first point outside the ring
	outside := -1
	for i := 1; i < len(line); i++ {
		if !planar.RingContains(ring, line[i]) {
			outside = i
			break
		}
	}
	if outside == -1 {
		return nil, false
	}

	// The remainder must stay outside: a tail that curves back into the
	// boundary is the same degenerate case as multiple crossings
	for i := outside + 1; i < len(line); i++ {
		if planar.RingContains(ring, line[i]) || segmentCrossesRing(line[i-1], line[i], ring) {
			return nil, false
		}
	}

	trimPoint, found := exitCrossing(line[outside-1], line[outside], ring)
	if !found {
		// Near-parallel boundary edge or multiple crossings: snap to the
		// boundary point nearest the untrimmed endpoint
		trimPoint, _ = closestPointOnRing(ring, line[0])
	}

	tail := line[outside:]
	if distance(trimPoint, tail[0]) <= cfg.TrimSnapTolerance {
		if len(tail) >= 2 {
			return orb.LineString(tail).Clone(), true
		}
	}
	result := make(orb.LineString, 0, len(tail)+1)
	result = append(result, trimPoint)
	result = append(result, tail...)
	return result, true
}

// exitCrossing returns the single crossing point of segment [a;b] with the
// ring. Zero or multiple crossings report not found: those are the degenerate
// cases resolved by snapping.
func exitCrossing(a, b orb.Point, ring orb.Ring) (orb.Point, bool) {
	var crossing orb.Point
	count := 0
	for i := 1; i < len(ring); i++ {
		if pt, ok := segmentsIntersection(a, b, ring[i-1], ring[i]); ok {
			crossing = pt
			count++
			if count > 1 {
				return orb.Point{}, false
			}
		}
	}
	return crossing, count == 1
}

// dropRepeatedPoints removes consecutive duplicates from the line
func dropRepeatedPoints(line orb.LineString) orb.LineString {
	if len(line) == 0 {
		return line
	}
	result := make(orb.LineString, 0, len(line))
	result = append(result, line[0])
	for i := 1; i < len(line); i++ {
		if line[i] != result[len(result)-1] {
			result = append(result, line[i])
		}
	}
	return result
}
