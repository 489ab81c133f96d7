package mapmodel

import (
	"fmt"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

/* Input records */

// The core consumes already-parsed records; producing them from raw source map
// data is the parsing collaborator's job. These shapes are the whole contract.

type RoadRecord struct {
	ID         int64
	Centerline orb.LineString
	Tags       osm.Tags
	From       int64
	To         int64
}

type IntersectionRecord struct {
	ID       int64
	Boundary orb.Polygon
}

type BuildingRecord struct {
	ID        int64
	Footprint orb.Polygon
}

type ParcelRecord struct {
	ID      int64
	Polygon orb.Polygon
}

// Input is the full snapshot the pipeline runs over. A changed input
// regenerates the entire model; there is no incremental update.
type Input struct {
	Roads         []RoadRecord
	Intersections []IntersectionRecord
	Buildings     []BuildingRecord
	Parcels       []ParcelRecord
}

// InputFromGeoJSON decodes the four record collections from GeoJSON
// FeatureCollections. Buildings and parcels are optional (nil slices allowed).
//
// Road features are LineStrings with numeric `from` and `to` properties;
// every other string property is carried over as a tag. Intersection, building
// and parcel features are Polygons. Feature identity comes from the `id`
// property or the feature id; ids are mandatory and must be unique within
// their collection.
func InputFromGeoJSON(roads, intersections, buildings, parcels []byte) (*Input, error) {
	input := Input{}

	fc, err := geojson.UnmarshalFeatureCollection(roads)
	if err != nil {
		return nil, errors.Wrap(err, "Can't decode roads collection")
	}
	roadIDs := make(map[int64]struct{}, len(fc.Features))
	for i, feature := range fc.Features {
		if feature.Geometry == nil || feature.Geometry.Type != geojson.GeometryLineString {
			return nil, fmt.Errorf("road feature must be a LineString")
		}
		if err := claimID(roadIDs, featureID(feature), "road", i); err != nil {
			return nil, err
		}
		record := RoadRecord{
			ID:         featureID(feature),
			Centerline: toLineString(feature.Geometry.LineString),
			From:       propInt64(feature, "from"),
			To:         propInt64(feature, "to"),
		}
		for key, value := range feature.Properties {
			if key == "id" || key == "from" || key == "to" {
				continue
			}
			if str, ok := value.(string); ok {
				record.Tags = append(record.Tags, osm.Tag{Key: key, Value: str})
			}
		}
		input.Roads = append(input.Roads, record)
	}

	fc, err = geojson.UnmarshalFeatureCollection(intersections)
	if err != nil {
		return nil, errors.Wrap(err, "Can't decode intersections collection")
	}
	intersectionIDs := make(map[int64]struct{}, len(fc.Features))
	for i, feature := range fc.Features {
		boundary, err := polygonOf(feature)
		if err != nil {
			return nil, errors.Wrap(err, "intersection feature")
		}
		if err := claimID(intersectionIDs, featureID(feature), "intersection", i); err != nil {
			return nil, err
		}
		input.Intersections = append(input.Intersections, IntersectionRecord{ID: featureID(feature), Boundary: boundary})
	}

	if buildings != nil {
		fc, err = geojson.UnmarshalFeatureCollection(buildings)
		if err != nil {
			return nil, errors.Wrap(err, "Can't decode buildings collection")
		}
		buildingIDs := make(map[int64]struct{}, len(fc.Features))
		for i, feature := range fc.Features {
			footprint, err := polygonOf(feature)
			if err != nil {
				return nil, errors.Wrap(err, "building feature")
			}
			if err := claimID(buildingIDs, featureID(feature), "building", i); err != nil {
				return nil, err
			}
			input.Buildings = append(input.Buildings, BuildingRecord{ID: featureID(feature), Footprint: footprint})
		}
	}

	if parcels != nil {
		fc, err = geojson.UnmarshalFeatureCollection(parcels)
		if err != nil {
			return nil, errors.Wrap(err, "Can't decode parcels collection")
		}
		parcelIDs := make(map[int64]struct{}, len(fc.Features))
		for i, feature := range fc.Features {
			polygon, err := polygonOf(feature)
			if err != nil {
				return nil, errors.Wrap(err, "parcel feature")
			}
			if err := claimID(parcelIDs, featureID(feature), "parcel", i); err != nil {
				return nil, err
			}
			input.Parcels = append(input.Parcels, ParcelRecord{ID: featureID(feature), Polygon: polygon})
		}
	}

	return &input, nil
}

// claimID guards entity identity within one collection: an id-less feature or
// a reused id would silently overwrite an arena entry later in the pipeline
func claimID(seen map[int64]struct{}, id int64, kind string, ordinal int) error {
	if id < 0 {
		return fmt.Errorf("%s feature %d carries no usable id", kind, ordinal)
	}
	if _, ok := seen[id]; ok {
		return fmt.Errorf("%s feature %d reuses id %d", kind, ordinal, id)
	}
	seen[id] = struct{}{}
	return nil
}

func polygonOf(feature *geojson.Feature) (orb.Polygon, error) {
	if feature.Geometry == nil || feature.Geometry.Type != geojson.GeometryPolygon {
		return nil, fmt.Errorf("must be a Polygon")
	}
	return toPolygon(feature.Geometry.Polygon), nil
}

func featureID(feature *geojson.Feature) int64 {
	if id := propInt64(feature, "id"); id >= 0 {
		return id
	}
	if number, ok := feature.ID.(float64); ok {
		return int64(number)
	}
	return -1
}

func propInt64(feature *geojson.Feature, key string) int64 {
	value, ok := feature.Properties[key]
	if !ok {
		return -1
	}
	switch typed := value.(type) {
	case float64:
		return int64(typed)
	case int:
		return int64(typed)
	case int64:
		return typed
	}
	return -1
}

func toLineString(coords [][]float64) orb.LineString {
	line := make(orb.LineString, 0, len(coords))
	for _, pt := range coords {
		line = append(line, orb.Point{pt[0], pt[1]})
	}
	return line
}

func toPolygon(coords [][][]float64) orb.Polygon {
	polygon := make(orb.Polygon, 0, len(coords))
	for _, ringCoords := range coords {
		ring := make(orb.Ring, 0, len(ringCoords))
		for _, pt := range ringCoords {
			ring = append(ring, orb.Point{pt[0], pt[1]})
		}
		polygon = append(polygon, ring)
	}
	return polygon
}
