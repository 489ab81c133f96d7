package mapmodel

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// All geometry in this package is Euclidean: X and Y are planar coordinates in meters.

// distance returns distance between two points
func distance(p, q orb.Point) float64 {
	dx := p[0] - q[0]
	dy := p[1] - q[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// lineLength returns length for given line
func lineLength(line orb.LineString) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += distance(line[i-1], line[i])
	}
	return totalLength
}

// bearing returns direction angle (radians) of vector p->q
func bearing(p, q orb.Point) float64 {
	return math.Atan2(q[1]-p[1], q[0]-p[0])
}

// normalizeAngle wraps given angle difference into (-Pi; Pi]
func normalizeAngle(angle float64) float64 {
	for angle <= -math.Pi {
		angle += 2 * math.Pi
	}
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	return angle
}

// terminalBearing returns direction of the last segment of given line
//
// Note: panics if number of points in line is less than 2
func terminalBearing(line orb.LineString) float64 {
	return bearing(line[len(line)-2], line[len(line)-1])
}

// initialBearing returns direction of the first segment of given line
//
// Note: panics if number of points in line is less than 2
func initialBearing(line orb.LineString) float64 {
	return bearing(line[0], line[1])
}

// Check if two lines intersects and returns intersections Point
// p1, p2 - first line
// p3, p4 - second line
// Note: lines are considered infinite
func intersect(p1, p2, p3, p4 orb.Point) (orb.Point, error) {
	// Calculate the coefficients of the linear equations
	a1 := p2[1] - p1[1]
	b1 := p1[0] - p2[0]
	c1 := a1*p1[0] + b1*p1[1]
	a2 := p4[1] - p3[1]
	b2 := p3[0] - p4[0]
	c2 := a2*p3[0] + b2*p3[1]

	// Calculate the determinant
	det := a1*b2 - a2*b1
	if det == 0 {
		return orb.Point{}, fmt.Errorf("The lines are parallel")
	}

	// Calculate the intersection point
	x := (b2*c1 - b1*c2) / det
	y := (a1*c2 - a2*c1) / det
	return orb.Point{x, y}, nil
}

// segmentsIntersection returns intersection point of two bounded segments
// p1, p2 - first segment
// p3, p4 - second segment
// Second return value is false when segments do not cross
func segmentsIntersection(p1, p2, p3, p4 orb.Point) (orb.Point, bool) {
	d1x, d1y := p2[0]-p1[0], p2[1]-p1[1]
	d2x, d2y := p4[0]-p3[0], p4[1]-p3[1]
	det := d1x*d2y - d1y*d2x
	if det == 0 {
		return orb.Point{}, false
	}
	t := ((p3[0]-p1[0])*d2y - (p3[1]-p1[1])*d2x) / det
	u := ((p3[0]-p1[0])*d1y - (p3[1]-p1[1])*d1x) / det
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return orb.Point{}, false
	}
	return orb.Point{p1[0] + t*d1x, p1[1] + t*d1y}, true
}

// linesCross reports whether two polylines have at least one crossing point
// and returns the first one found (scanning segments in order)
func linesCross(l1, l2 orb.LineString) (orb.Point, bool) {
	for i := 1; i < len(l1); i++ {
		for j := 1; j < len(l2); j++ {
			if pt, ok := segmentsIntersection(l1[i-1], l1[i], l2[j-1], l2[j]); ok {
				return pt, true
			}
		}
	}
	return orb.Point{}, false
}

// closestPointOnSegment returns projection of point p onto segment [a;b]
func closestPointOnSegment(p, a, b orb.Point) orb.Point {
	dx, dy := b[0]-a[0], b[1]-a[1]
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a
	}
	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return orb.Point{a[0] + t*dx, a[1] + t*dy}
}

// closestPointOnLine returns the nearest point of given line to point p,
// index of the segment containing it and the distance to it
func closestPointOnLine(line orb.LineString, p orb.Point) (orb.Point, int, float64) {
	best := line[0]
	bestIdx := 0
	bestDist := distance(p, line[0])
	for i := 1; i < len(line); i++ {
		candidate := closestPointOnSegment(p, line[i-1], line[i])
		d := distance(p, candidate)
		if d < bestDist {
			best = candidate
			bestIdx = i - 1
			bestDist = d
		}
	}
	return best, bestIdx, bestDist
}

// closestPointOnRing returns the nearest point of ring's boundary to point p
func closestPointOnRing(ring orb.Ring, p orb.Point) (orb.Point, float64) {
	best := ring[0]
	bestDist := distance(p, ring[0])
	for i := 1; i < len(ring); i++ {
		candidate := closestPointOnSegment(p, ring[i-1], ring[i])
		d := distance(p, candidate)
		if d < bestDist {
			best = candidate
			bestDist = d
		}
	}
	return best, bestDist
}

// segmentCrossesRing reports whether segment [a;b] crosses ring's boundary
func segmentCrossesRing(a, b orb.Point, ring orb.Ring) bool {
	for i := 1; i < len(ring); i++ {
		if _, ok := segmentsIntersection(a, b, ring[i-1], ring[i]); ok {
			return true
		}
	}
	return false
}

// ringsMinDistance returns minimum distance between boundaries of two rings
func ringsMinDistance(r1, r2 orb.Ring) float64 {
	best := math.Inf(1)
	for i := 1; i < len(r1); i++ {
		for j := 1; j < len(r2); j++ {
			if _, ok := segmentsIntersection(r1[i-1], r1[i], r2[j-1], r2[j]); ok {
				return 0.0
			}
			d := distance(closestPointOnSegment(r1[i-1], r2[j-1], r2[j]), r1[i-1])
			if d < best {
				best = d
			}
			d = distance(closestPointOnSegment(r2[j-1], r1[i-1], r1[i]), r2[j-1])
			if d < best {
				best = d
			}
		}
	}
	return best
}

// quadraticBezier samples a quadratic Bezier curve into a polyline with the given
// number of segments
func quadraticBezier(start, control, end orb.Point, segments int) orb.LineString {
	if segments < 1 {
		segments = 1
	}
	result := make(orb.LineString, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		mt := 1.0 - t
		x := mt*mt*start[0] + 2*mt*t*control[0] + t*t*end[0]
		y := mt*mt*start[1] + 2*mt*t*control[1] + t*t*end[1]
		result = append(result, orb.Point{x, y})
	}
	return result
}

func offsetCurve(line orb.LineString, distance float64) orb.LineString {
	// Initialize result list and segment list
	var result orb.LineString
	var segments [][2]orb.Point

	// Iterate over line segments and calculate offset segments
	for i := 1; i < len(line); i++ {
		// Get current and previous points
		p1 := line[i-1]
		p2 := line[i]

		// Calculate the vector between the points
		vec := [2]float64{p2[0] - p1[0], p2[1] - p1[1]}

		// Normalize the vector
		vecLen := math.Sqrt(vec[0]*vec[0] + vec[1]*vec[1])
		vec = [2]float64{vec[0] / vecLen, vec[1] / vecLen}

		// Rotate the vector by 90 degrees
		rotated := [2]float64{-vec[1], vec[0]}

		// Scale the rotated vector by the distance
		offset := [2]float64{rotated[0] * distance, rotated[1] * distance}

		// Calculate the offset points
		op1 := [2]float64{p1[0] + offset[0], p1[1] + offset[1]}
		op2 := [2]float64{p2[0] + offset[0], p2[1] + offset[1]}

		// Add the offset segment to the list of segments
		segments = append(segments, [2]orb.Point{op1, op2})
	}

	result = append(result, segments[0][0])
	// Iterate over the segments and calculate the intersections
	for i := 1; i < len(segments); i++ {
		// Get the current and previous segments
		seg1 := segments[i-1]
		seg2 := segments[i]
		// Calculate the intersection point
		intersection, err := intersect(seg1[0], seg1[1], seg2[0], seg2[1])
		if err != nil {
			continue
		}
		// If there is an intersection, add the intersection and the current segment to the result
		result = append(result, intersection)
	}
	result = append(result, segments[len(segments)-1][1])
	return result
}

// reverseLine reverses order of points in given line. Returns new slice
func reverseLine(line orb.LineString) orb.LineString {
	inputLen := len(line)
	output := make(orb.LineString, inputLen)
	for i, pt := range line {
		output[inputLen-i-1] = pt
	}
	return output
}
