package mapmodel

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

/* GeoJSON export for the rendering collaborator */

// LanesToGeoJSON returns a FeatureCollection of trimmed lane centerlines
func (m *Map) LanesToGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, roadID := range sortedRoadIDs(m.Roads) {
		road := m.Roads[roadID]
		for _, lane := range road.Lanes {
			feature := geojson.NewLineStringFeature(lineToCoords(lane.Centerline))
			feature.SetProperty("road", int64(lane.Road))
			feature.SetProperty("index", lane.Index)
			feature.SetProperty("type", lane.Type.String())
			feature.SetProperty("direction", lane.Direction.String())
			feature.SetProperty("width", lane.Width)
			fc.AddFeature(feature)
		}
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal lanes collection")
	}
	return data, nil
}

// TurnsToGeoJSON returns a FeatureCollection of turn connector paths
func (m *Map) TurnsToGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for turnID := TurnID(0); turnID < TurnID(len(m.Turns)); turnID++ {
		turn := m.Turns[turnID]
		feature := geojson.NewLineStringFeature(lineToCoords(turn.Path))
		feature.SetProperty("id", int64(turn.ID))
		feature.SetProperty("intersection", int64(turn.Intersection))
		feature.SetProperty("type", turn.Type.String())
		feature.SetProperty("source_road", int64(turn.Source.Road))
		feature.SetProperty("source_lane", turn.Source.Index)
		feature.SetProperty("target_road", int64(turn.Destination.Road))
		feature.SetProperty("target_lane", turn.Destination.Index)
		feature.SetProperty("conflicts", len(turn.Conflicts))
		fc.AddFeature(feature)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal turns collection")
	}
	return data, nil
}

// ConnectionsToGeoJSON returns a FeatureCollection of building access paths;
// unconnected buildings are exported as their footprint centroid point with
// state "unconnected"
func (m *Map) ConnectionsToGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	buildingIDs := make([]BuildingID, 0, len(m.Buildings))
	for id := range m.Buildings {
		buildingIDs = append(buildingIDs, id)
	}
	sortBuildingIDs(buildingIDs)
	for _, buildingID := range buildingIDs {
		building := m.Buildings[buildingID]
		var feature *geojson.Feature
		if building.Connection.State == CONNECTION_OK {
			feature = geojson.NewLineStringFeature(lineToCoords(building.Connection.Path))
			feature.SetProperty("road", int64(building.Connection.Lane.Road))
			feature.SetProperty("lane", building.Connection.Lane.Index)
		} else {
			ring := building.outerRing()
			anchor := orb.Point{}
			if ring != nil {
				anchor = ring[0]
			}
			feature = geojson.NewPointFeature([]float64{anchor[0], anchor[1]})
		}
		feature.SetProperty("building", int64(building.ID))
		feature.SetProperty("state", building.Connection.State.String())
		fc.AddFeature(feature)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal connections collection")
	}
	return data, nil
}

// BlocksToGeoJSON returns a FeatureCollection of parcel polygons annotated
// with their block id
func (m *Map) BlocksToGeoJSON() ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	parcelIDs := make([]ParcelID, 0, len(m.Parcels))
	for id := range m.Parcels {
		parcelIDs = append(parcelIDs, id)
	}
	sortParcelIDs(parcelIDs)
	for _, parcelID := range parcelIDs {
		parcel := m.Parcels[parcelID]
		feature := geojson.NewPolygonFeature(polygonToCoords(parcel.Polygon))
		feature.SetProperty("parcel", int64(parcel.ID))
		feature.SetProperty("block", int64(parcel.Block))
		fc.AddFeature(feature)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal blocks collection")
	}
	return data, nil
}

func lineToCoords(line orb.LineString) [][]float64 {
	coords := make([][]float64, len(line))
	for i := range line {
		coords[i] = []float64{line[i][0], line[i][1]}
	}
	return coords
}

func polygonToCoords(polygon orb.Polygon) [][][]float64 {
	coords := make([][][]float64, len(polygon))
	for i, ring := range polygon {
		coords[i] = make([][]float64, len(ring))
		for j := range ring {
			coords[i][j] = []float64{ring[j][0], ring[j][1]}
		}
	}
	return coords
}
