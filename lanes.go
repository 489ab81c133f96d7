package mapmodel

import (
	"math"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

/* Lane specification generator */

// Cross-section layout is right-hand traffic: per side, channels go driving,
// bus, biking, parking, sidewalk from the centerline outwards. For a two-way
// road the left half of the produced sequence points backward, the right half
// forward; order is strictly left-to-right as seen standing at the road's
// start looking along its forward direction.

// generateLaneSpecs derives the ordered left-to-right lane sequence for one
// road from its tags. It is a pure function of the tag set and configuration.
//
// Absent or contradictory tags are resolved with defaults (one driving lane
// per direction, sidewalks on both sides unless marked absent) instead of
// failing. The only error condition is ErrInvalidLaneConfig: the summed lane
// widths exceed the road's declared width beyond tolerance. Even then the
// computed specs are returned, so the caller may clamp them.
func generateLaneSpecs(tags osm.Tags, cfg *Config) ([]LaneSpec, error) {
	oneway := tagIsYes(tags.Find("oneway"))

	drivingForward, drivingBackward := drivingLanesCount(tags, oneway)

	bikeLeft, bikeRight := sideTagPresence(tags, "cycleway", map[string]struct{}{"lane": {}, "track": {}, "shared_lane": {}})
	parkingLeft, parkingRight := sideTagPresence(tags, "parking:lane", map[string]struct{}{"parallel": {}, "diagonal": {}, "perpendicular": {}, "yes": {}})
	sidewalkLeft, sidewalkRight := sidewalkPresence(tags)

	busForward := tagIsYes(tags.Find("busway")) || tags.Find("busway") == "lane" || parseIntTag(tags, "lanes:bus") > 0

	backwardSide := DIRECTION_BACKWARD
	if oneway {
		// One-way roads have no backward flow; curbside channels on the left
		// side serve the forward direction
		backwardSide = DIRECTION_FORWARD
	}

	specs := make([]LaneSpec, 0, drivingForward+drivingBackward+6)

	// Left side, outside-in
	if sidewalkLeft {
		specs = append(specs, LaneSpec{Type: LANE_SIDEWALK, Direction: DIRECTION_BOTH, Width: cfg.laneWidth(LANE_SIDEWALK)})
	}
	if parkingLeft {
		specs = append(specs, LaneSpec{Type: LANE_PARKING, Direction: backwardSide, Width: cfg.laneWidth(LANE_PARKING)})
	}
	if bikeLeft {
		specs = append(specs, LaneSpec{Type: LANE_BIKING, Direction: backwardSide, Width: cfg.laneWidth(LANE_BIKING)})
	}
	for i := 0; i < drivingBackward; i++ {
		specs = append(specs, LaneSpec{Type: LANE_DRIVING, Direction: DIRECTION_BACKWARD, Width: cfg.laneWidth(LANE_DRIVING)})
	}

	// Right side, inside-out
	for i := 0; i < drivingForward; i++ {
		specs = append(specs, LaneSpec{Type: LANE_DRIVING, Direction: DIRECTION_FORWARD, Width: cfg.laneWidth(LANE_DRIVING)})
	}
	if busForward {
		specs = append(specs, LaneSpec{Type: LANE_BUS, Direction: DIRECTION_FORWARD, Width: cfg.laneWidth(LANE_BUS)})
	}
	if bikeRight {
		specs = append(specs, LaneSpec{Type: LANE_BIKING, Direction: DIRECTION_FORWARD, Width: cfg.laneWidth(LANE_BIKING)})
	}
	if parkingRight {
		specs = append(specs, LaneSpec{Type: LANE_PARKING, Direction: DIRECTION_FORWARD, Width: cfg.laneWidth(LANE_PARKING)})
	}
	if sidewalkRight {
		specs = append(specs, LaneSpec{Type: LANE_SIDEWALK, Direction: DIRECTION_BOTH, Width: cfg.laneWidth(LANE_SIDEWALK)})
	}

	declaredWidth := parseFloatTag(tags, "width")
	if declaredWidth > 0 {
		total := 0.0
		for i := range specs {
			total += specs[i].Width
		}
		if total > declaredWidth+cfg.CrossSectionTolerance {
			return specs, errors.Wrapf(ErrInvalidLaneConfig, "lanes width %.2f exceeds declared width %.2f", total, declaredWidth)
		}
	}
	return specs, nil
}

// clampLaneSpecs scales lane widths down proportionally so the cross-section
// fits the declared road width. Fallback for roads reported with
// ErrInvalidLaneConfig that are emitted anyway.
func clampLaneSpecs(specs []LaneSpec, declaredWidth float64) []LaneSpec {
	total := 0.0
	for i := range specs {
		total += specs[i].Width
	}
	if total <= 0 || declaredWidth <= 0 {
		return specs
	}
	scale := declaredWidth / total
	clamped := make([]LaneSpec, len(specs))
	for i := range specs {
		clamped[i] = specs[i]
		clamped[i].Width = specs[i].Width * scale
	}
	return clamped
}

// drivingLanesCount resolves per-direction driving lane counts from tags
func drivingLanesCount(tags osm.Tags, oneway bool) (forward int, backward int) {
	lanes := parseIntTag(tags, "lanes")
	lanesForward := parseIntTag(tags, "lanes:forward")
	lanesBackward := parseIntTag(tags, "lanes:backward")

	if oneway {
		if lanesForward > 0 {
			return lanesForward, 0
		}
		if lanes > 0 {
			return lanes, 0
		}
		return 1, 0
	}

	switch {
	case lanesForward > 0 && lanesBackward > 0:
		return lanesForward, lanesBackward
	case lanesForward > 0:
		if lanes > lanesForward {
			return lanesForward, lanes - lanesForward
		}
		return lanesForward, 1
	case lanesBackward > 0:
		if lanes > lanesBackward {
			return lanes - lanesBackward, lanesBackward
		}
		return 1, lanesBackward
	case lanes > 0:
		forward = int(math.Ceil(float64(lanes) / 2.0))
		return forward, lanes - forward
	}
	return 1, 1
}

// sidewalkPresence resolves the `sidewalk` tag; sidewalks are assumed on both
// sides unless explicitly marked absent
func sidewalkPresence(tags osm.Tags) (left bool, right bool) {
	if tags.Find("foot") == "no" {
		return false, false
	}
	switch tags.Find("sidewalk") {
	case "no", "none":
		return false, false
	case "left":
		return true, false
	case "right":
		return false, true
	}
	return true, true
}

// sideTagPresence resolves `key`, `key:left`, `key:right` and `key:both` tags
// against a set of values meaning the channel exists on that side
func sideTagPresence(tags osm.Tags, key string, values map[string]struct{}) (left bool, right bool) {
	if _, ok := values[tags.Find(key)]; ok {
		left = true
		right = true
	}
	if _, ok := values[tags.Find(key+":both")]; ok {
		left = true
		right = true
	}
	if _, ok := values[tags.Find(key+":left")]; ok {
		left = true
	}
	if _, ok := values[tags.Find(key+":right")]; ok {
		right = true
	}
	return left, right
}

func tagIsYes(value string) bool {
	return value == "yes" || value == "1" || value == "true"
}

func parseIntTag(tags osm.Tags, key string) int {
	value := tags.Find(key)
	if value == "" {
		return -1
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return parsed
}

func parseFloatTag(tags osm.Tags, key string) float64 {
	value := tags.Find(key)
	if value == "" {
		return -1.0
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return -1.0
	}
	return parsed
}
