package mapmodel

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"
)

func footprintSquare(cx, cy, half float64) orb.Polygon {
	return orb.Polygon{squareRing(cx, cy, half)}
}

func straightLaneRoad(id RoadID, laneType LaneType, y float64) *Road {
	return &Road{
		ID: id,
		Lanes: []*Lane{{
			Road:       id,
			Index:      0,
			Type:       laneType,
			Direction:  DIRECTION_BOTH,
			Width:      1.8,
			Centerline: orb.LineString{{0, y}, {200, y}},
		}},
	}
}

func TestPlaceBuildingNearestSidewalk(t *testing.T) {
	cfg := DefaultConfig()
	roads := map[RoadID]*Road{
		1: straightLaneRoad(1, LANE_SIDEWALK, 0),
	}
	building := &Building{ID: 7, Footprint: footprintSquare(50, 20, 5)}
	buildings := map[BuildingID]*Building{7: building}

	connection := placeBuilding(building, buildLaneIndex(roads, cfg), roads, buildings, cfg)
	require.Equal(t, CONNECTION_OK, connection.State)
	require.Equal(t, LaneKey{Road: 1, Index: 0}, connection.Lane)
	require.InDelta(t, 50.0, connection.Point[0], 1e-9)
	require.InDelta(t, 0.0, connection.Point[1], 1e-9)

	// Access path runs from the lane point to the nearest footprint boundary point
	require.Len(t, connection.Path, 2)
	require.InDelta(t, 50.0, connection.Path[1][0], 1e-9)
	require.InDelta(t, 15.0, connection.Path[1][1], 1e-9)
}

func TestPlaceBuildingPrefersSidewalkOverDriving(t *testing.T) {
	cfg := DefaultConfig()
	roads := map[RoadID]*Road{
		1: straightLaneRoad(1, LANE_DRIVING, 10),
		2: straightLaneRoad(2, LANE_SIDEWALK, 0),
	}
	building := &Building{ID: 7, Footprint: footprintSquare(50, 20, 2)}
	buildings := map[BuildingID]*Building{7: building}

	// The driving lane is closer, but the sidewalk wins
	connection := placeBuilding(building, buildLaneIndex(roads, cfg), roads, buildings, cfg)
	require.Equal(t, CONNECTION_OK, connection.State)
	require.Equal(t, LaneKey{Road: 2, Index: 0}, connection.Lane)
}

func TestPlaceBuildingOutOfRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BuildingSearchRadius = 100.0
	roads := map[RoadID]*Road{
		1: straightLaneRoad(1, LANE_SIDEWALK, 0),
	}
	building := &Building{ID: 7, Footprint: footprintSquare(50, 500, 5)}
	buildings := map[BuildingID]*Building{7: building}

	connection := placeBuilding(building, buildLaneIndex(roads, cfg), roads, buildings, cfg)
	require.Equal(t, CONNECTION_NONE, connection.State)
}

func TestPlaceBuildingBlockedPath(t *testing.T) {
	cfg := DefaultConfig()
	roads := map[RoadID]*Road{
		1: straightLaneRoad(1, LANE_SIDEWALK, 35),
		2: straightLaneRoad(2, LANE_SIDEWALK, 0),
	}
	building := &Building{ID: 7, Footprint: footprintSquare(50, 20, 5)}
	// Another footprint sits between the building and the nearer sidewalk
	blocker := &Building{ID: 8, Footprint: footprintSquare(50, 30, 3)}
	buildings := map[BuildingID]*Building{7: building, 8: blocker}

	connection := placeBuilding(building, buildLaneIndex(roads, cfg), roads, buildings, cfg)
	require.Equal(t, CONNECTION_OK, connection.State)
	// The nearer sidewalk is unreachable, so the connection falls through to
	// the farther one
	require.Equal(t, LaneKey{Road: 2, Index: 0}, connection.Lane)
}

func TestPlaceBuildingNoLanes(t *testing.T) {
	cfg := DefaultConfig()
	building := &Building{ID: 7, Footprint: footprintSquare(50, 20, 5)}
	buildings := map[BuildingID]*Building{7: building}

	connection := placeBuilding(building, buildLaneIndex(map[RoadID]*Road{}, cfg), map[RoadID]*Road{}, buildings, cfg)
	require.Equal(t, CONNECTION_NONE, connection.State)
}

func TestPlaceBuildingLongSparseLane(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BuildingSearchRadius = 100.0
	// A two-point lane spanning two kilometers: the building sits well within
	// the radius of its interior but far from both vertices
	roads := map[RoadID]*Road{
		1: {ID: 1, Lanes: []*Lane{{
			Road: 1, Index: 0, Type: LANE_SIDEWALK, Direction: DIRECTION_BOTH, Width: 1.8,
			Centerline: orb.LineString{{0, 0}, {2000, 0}},
		}}},
	}
	building := &Building{ID: 7, Footprint: footprintSquare(1000, 50, 5)}
	buildings := map[BuildingID]*Building{7: building}

	connection := placeBuilding(building, buildLaneIndex(roads, cfg), roads, buildings, cfg)
	require.Equal(t, CONNECTION_OK, connection.State)
	require.Equal(t, LaneKey{Road: 1, Index: 0}, connection.Lane)
	require.InDelta(t, 1000.0, connection.Point[0], 1e-9)
	require.InDelta(t, 0.0, connection.Point[1], 1e-9)
}

func TestBuildLaneIndexSkipsParking(t *testing.T) {
	cfg := DefaultConfig()
	roads := map[RoadID]*Road{
		1: {ID: 1, Lanes: []*Lane{{
			Road: 1, Index: 0, Type: LANE_PARKING, Direction: DIRECTION_FORWARD, Width: 2.0,
			Centerline: orb.LineString{{0, 0}, {200, 0}},
		}}},
	}
	require.Nil(t, buildLaneIndex(roads, cfg))
}
