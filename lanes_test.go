package mapmodel

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func tagSet(kv ...string) osm.Tags {
	tags := make(osm.Tags, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		tags = append(tags, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return tags
}

func laneTypes(specs []LaneSpec) []LaneType {
	types := make([]LaneType, len(specs))
	for i := range specs {
		types[i] = specs[i].Type
	}
	return types
}

func laneDirections(specs []LaneSpec) []LaneDirection {
	directions := make([]LaneDirection, len(specs))
	for i := range specs {
		directions[i] = specs[i].Direction
	}
	return directions
}

func TestLaneSpecsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	specs, err := generateLaneSpecs(tagSet(), cfg)
	require.NoError(t, err)

	// One driving lane per direction plus sidewalks on both sides
	require.Equal(t, []LaneType{LANE_SIDEWALK, LANE_DRIVING, LANE_DRIVING, LANE_SIDEWALK}, laneTypes(specs))
	require.Equal(t, []LaneDirection{DIRECTION_BOTH, DIRECTION_BACKWARD, DIRECTION_FORWARD, DIRECTION_BOTH}, laneDirections(specs))
}

func TestLaneSpecsOneway(t *testing.T) {
	cfg := DefaultConfig()
	specs, err := generateLaneSpecs(tagSet("oneway", "yes", "lanes", "2"), cfg)
	require.NoError(t, err)

	require.Equal(t, []LaneType{LANE_SIDEWALK, LANE_DRIVING, LANE_DRIVING, LANE_SIDEWALK}, laneTypes(specs))
	require.Equal(t, []LaneDirection{DIRECTION_BOTH, DIRECTION_FORWARD, DIRECTION_FORWARD, DIRECTION_BOTH}, laneDirections(specs))
}

func TestLaneSpecsLanesSplit(t *testing.T) {
	cfg := DefaultConfig()

	// Odd total: the extra lane goes forward
	specs, err := generateLaneSpecs(tagSet("lanes", "3", "sidewalk", "no"), cfg)
	require.NoError(t, err)
	require.Equal(t, []LaneDirection{DIRECTION_BACKWARD, DIRECTION_FORWARD, DIRECTION_FORWARD}, laneDirections(specs))

	// Explicit per-direction counts win over the even split
	specs, err = generateLaneSpecs(tagSet("lanes", "3", "lanes:forward", "1", "lanes:backward", "2", "sidewalk", "no"), cfg)
	require.NoError(t, err)
	require.Equal(t, []LaneDirection{DIRECTION_BACKWARD, DIRECTION_BACKWARD, DIRECTION_FORWARD}, laneDirections(specs))
}

func TestLaneSpecsCyclewayAndParking(t *testing.T) {
	cfg := DefaultConfig()
	specs, err := generateLaneSpecs(tagSet("cycleway", "lane", "parking:lane:right", "parallel", "sidewalk", "no"), cfg)
	require.NoError(t, err)

	require.Equal(t, []LaneType{LANE_BIKING, LANE_DRIVING, LANE_DRIVING, LANE_BIKING, LANE_PARKING}, laneTypes(specs))
	require.Equal(t, DIRECTION_BACKWARD, specs[0].Direction)
	require.Equal(t, DIRECTION_FORWARD, specs[3].Direction)
}

func TestLaneSpecsBusway(t *testing.T) {
	cfg := DefaultConfig()
	specs, err := generateLaneSpecs(tagSet("busway", "lane", "sidewalk", "no"), cfg)
	require.NoError(t, err)

	require.Equal(t, []LaneType{LANE_DRIVING, LANE_DRIVING, LANE_BUS}, laneTypes(specs))
	require.Equal(t, DIRECTION_FORWARD, specs[2].Direction)
}

func TestLaneSpecsSidewalkSides(t *testing.T) {
	cfg := DefaultConfig()

	specs, err := generateLaneSpecs(tagSet("sidewalk", "left"), cfg)
	require.NoError(t, err)
	require.Equal(t, []LaneType{LANE_SIDEWALK, LANE_DRIVING, LANE_DRIVING}, laneTypes(specs))

	specs, err = generateLaneSpecs(tagSet("foot", "no"), cfg)
	require.NoError(t, err)
	require.Equal(t, []LaneType{LANE_DRIVING, LANE_DRIVING}, laneTypes(specs))
}

func TestLaneSpecsWidthOverflow(t *testing.T) {
	cfg := DefaultConfig()

	// Default cross-section is 3.5 + 3.5 + 1.8 + 1.8 = 10.6 meters; a declared
	// width of 5 cannot hold it
	specs, err := generateLaneSpecs(tagSet("width", "5"), cfg)
	require.ErrorIs(t, err, ErrInvalidLaneConfig)
	// Specs are still produced so the caller can clamp them
	require.Len(t, specs, 4)

	clamped := clampLaneSpecs(specs, 5.0)
	total := 0.0
	for i := range clamped {
		total += clamped[i].Width
	}
	require.InDelta(t, 5.0, total, 1e-9)
	// Relative proportions survive the clamp
	require.InDelta(t, specs[0].Width/specs[1].Width, clamped[0].Width/clamped[1].Width, 1e-9)
}

func TestLaneSpecsWidthWithinTolerance(t *testing.T) {
	cfg := DefaultConfig()
	specs, err := generateLaneSpecs(tagSet("width", "10.2"), cfg)
	// 10.6 exceeds 10.2 by less than the 0.5 tolerance
	require.NoError(t, err)
	require.Len(t, specs, 4)
}

func TestLaneSpecsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	tags := tagSet("lanes", "4", "cycleway:right", "track", "parking:lane:left", "parallel")
	first, err := generateLaneSpecs(tags, cfg)
	require.NoError(t, err)
	second, err := generateLaneSpecs(tags, cfg)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
