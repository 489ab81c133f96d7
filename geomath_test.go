package mapmodel

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func TestIntersect(t *testing.T) {
	p1 := orb.Point{0.0, 0.0}
	p2 := orb.Point{10.0, 10.0}
	p3 := orb.Point{0.0, 10.0}
	p4 := orb.Point{10.0, 0.0}
	pt, err := intersect(p1, p2, p3, p4)
	if err != nil {
		t.Errorf("Lines must intersect, but got error: %v", err)
	}
	correct := orb.Point{5.0, 5.0}
	if pt != correct {
		t.Errorf("Intersection must be %v, but got %v", correct, pt)
	}

	_, err = intersect(p1, p2, orb.Point{1.0, 1.0}, orb.Point{11.0, 11.0})
	if err == nil {
		t.Errorf("Parallel lines must not intersect")
	}
}

func TestSegmentsIntersection(t *testing.T) {
	pt, ok := segmentsIntersection(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{5, -5}, orb.Point{5, 5})
	if !ok {
		t.Errorf("Segments must intersect")
	}
	correct := orb.Point{5.0, 0.0}
	if pt != correct {
		t.Errorf("Intersection must be %v, but got %v", correct, pt)
	}

	_, ok = segmentsIntersection(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{15, -5}, orb.Point{15, 5})
	if ok {
		t.Errorf("Segments must not intersect outside of their bounds")
	}
}

func TestOffsetCurve(t *testing.T) {
	bent := orb.LineString{{0, 0}, {10, 0}, {10, 10}}
	offset := offsetCurve(bent, 2.0)
	correct := orb.LineString{{0, 2}, {8, 2}, {8, 10}}
	if len(offset) != len(correct) {
		t.Errorf("Offset curve must have %d points, but got %d", len(correct), len(offset))
	}
	for i := range correct {
		if math.Abs(offset[i][0]-correct[i][0]) > 1e-9 || math.Abs(offset[i][1]-correct[i][1]) > 1e-9 {
			t.Errorf("Offset point %d must be %v, but got %v", i, correct[i], offset[i])
		}
	}

	// Positive offset is to the left of travel direction
	straight := orb.LineString{{0, 0}, {20, 0}}
	left := offsetCurve(straight, 2.0)
	if math.Abs(left[0][1]-2.0) > 1e-9 {
		t.Errorf("Offset of eastbound line must be to the north, but got y = %f", left[0][1])
	}
	backwards := offsetCurve(reverseLine(straight), 2.0)
	if math.Abs(backwards[0][1]+2.0) > 1e-9 {
		t.Errorf("Offset of reversed line must be on the other side, but got y = %f", backwards[0][1])
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := [][2]float64{
		{0.0, 0.0},
		{1.5 * math.Pi, -0.5 * math.Pi},
		{-1.5 * math.Pi, 0.5 * math.Pi},
		{math.Pi, math.Pi},
	}
	for _, c := range cases {
		if got := normalizeAngle(c[0]); math.Abs(got-c[1]) > 1e-9 {
			t.Errorf("Normalized %f must be %f, but got %f", c[0], c[1], got)
		}
	}
}

func TestQuadraticBezier(t *testing.T) {
	start := orb.Point{0, 0}
	control := orb.Point{10, 10}
	end := orb.Point{20, 0}
	curve := quadraticBezier(start, control, end, 8)
	if len(curve) != 9 {
		t.Errorf("Curve must have 9 points, but got %d", len(curve))
	}
	if curve[0] != start {
		t.Errorf("Curve must start at %v, but got %v", start, curve[0])
	}
	if curve[len(curve)-1] != end {
		t.Errorf("Curve must end at %v, but got %v", end, curve[len(curve)-1])
	}
	mid := curve[4]
	if math.Abs(mid[0]-10.0) > 1e-9 || math.Abs(mid[1]-5.0) > 1e-9 {
		t.Errorf("Curve middle must be {10 5}, but got %v", mid)
	}
}

func TestClosestPointOnLine(t *testing.T) {
	line := orb.LineString{{0, 0}, {10, 0}, {10, 10}}
	pt, segIdx, dist := closestPointOnLine(line, orb.Point{5, 3})
	if pt != (orb.Point{5, 0}) {
		t.Errorf("Closest point must be {5 0}, but got %v", pt)
	}
	if segIdx != 0 {
		t.Errorf("Closest segment must be 0, but got %d", segIdx)
	}
	if math.Abs(dist-3.0) > 1e-9 {
		t.Errorf("Distance must be 3.0, but got %f", dist)
	}
}

func TestRingsMinDistance(t *testing.T) {
	r1 := orb.Ring{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}
	r2 := orb.Ring{{12, 0}, {22, 0}, {22, 10}, {12, 10}, {12, 0}}
	if d := ringsMinDistance(r1, r2); math.Abs(d-2.0) > 1e-9 {
		t.Errorf("Min distance must be 2.0, but got %f", d)
	}
	r3 := orb.Ring{{5, 5}, {15, 5}, {15, 15}, {5, 15}, {5, 5}}
	if d := ringsMinDistance(r1, r3); d != 0.0 {
		t.Errorf("Overlapping rings must have zero distance, but got %f", d)
	}
}
