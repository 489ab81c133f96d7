package mapmodel

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

/* CSV export */

// ExportToCSV writes the finished model into four CSV files next to the given
// name: lanes, turns, building connections and parcel blocks
func (m *Map) ExportToCSV(fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameLanes := fmt.Sprintf(fnameParts[0] + "_lanes.csv")
	fnameTurns := fmt.Sprintf(fnameParts[0] + "_turns.csv")
	fnameConnections := fmt.Sprintf(fnameParts[0] + "_connections.csv")
	fnameBlocks := fmt.Sprintf(fnameParts[0] + "_blocks.csv")

	err := m.exportLanesToCSV(fnameLanes)
	if err != nil {
		return errors.Wrap(err, "Can't export lanes")
	}

	err = m.exportTurnsToCSV(fnameTurns)
	if err != nil {
		return errors.Wrap(err, "Can't export turns")
	}

	err = m.exportConnectionsToCSV(fnameConnections)
	if err != nil {
		return errors.Wrap(err, "Can't export connections")
	}

	err = m.exportBlocksToCSV(fnameBlocks)
	if err != nil {
		return errors.Wrap(err, "Can't export blocks")
	}
	return nil
}

func (m *Map) exportLanesToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"road_id", "lane_index", "lane_type", "direction", "width", "source_intersection", "target_intersection", "length_meters", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, roadID := range sortedRoadIDs(m.Roads) {
		road := m.Roads[roadID]
		for _, lane := range road.Lanes {
			err = writer.Write([]string{
				fmt.Sprintf("%d", lane.Road),
				fmt.Sprintf("%d", lane.Index),
				fmt.Sprintf("%s", lane.Type),
				fmt.Sprintf("%s", lane.Direction),
				fmt.Sprintf("%f", lane.Width),
				fmt.Sprintf("%d", road.From),
				fmt.Sprintf("%d", road.To),
				fmt.Sprintf("%f", lineLength(lane.Centerline)),
				fmt.Sprintf("%s", wkt.MarshalString(lane.Centerline)),
			})
			if err != nil {
				return errors.Wrap(err, "Can't write lane")
			}
		}
	}
	return nil
}

func (m *Map) exportTurnsToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "intersection_id", "source_road", "source_lane", "target_road", "target_lane", "turn_type", "conflicts", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for turnID := TurnID(0); turnID < TurnID(len(m.Turns)); turnID++ {
		turn := m.Turns[turnID]
		conflicts := make([]string, len(turn.Conflicts))
		for i, conflictID := range turn.Conflicts {
			conflicts[i] = fmt.Sprintf("%d", conflictID)
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", turn.ID),
			fmt.Sprintf("%d", turn.Intersection),
			fmt.Sprintf("%d", turn.Source.Road),
			fmt.Sprintf("%d", turn.Source.Index),
			fmt.Sprintf("%d", turn.Destination.Road),
			fmt.Sprintf("%d", turn.Destination.Index),
			fmt.Sprintf("%s", turn.Type),
			strings.Join(conflicts, ","),
			fmt.Sprintf("%s", wkt.MarshalString(turn.Path)),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write turn")
		}
	}
	return nil
}

func (m *Map) exportConnectionsToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"building_id", "state", "road_id", "lane_index", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	buildingIDs := make([]BuildingID, 0, len(m.Buildings))
	for id := range m.Buildings {
		buildingIDs = append(buildingIDs, id)
	}
	sortBuildingIDs(buildingIDs)
	for _, buildingID := range buildingIDs {
		building := m.Buildings[buildingID]
		geom := ""
		roadID := int64(-1)
		laneIndex := -1
		if building.Connection.State == CONNECTION_OK {
			geom = wkt.MarshalString(building.Connection.Path)
			roadID = int64(building.Connection.Lane.Road)
			laneIndex = building.Connection.Lane.Index
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", building.ID),
			fmt.Sprintf("%s", building.Connection.State),
			fmt.Sprintf("%d", roadID),
			fmt.Sprintf("%d", laneIndex),
			geom,
		})
		if err != nil {
			return errors.Wrap(err, "Can't write connection")
		}
	}
	return nil
}

func (m *Map) exportBlocksToCSV(fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"parcel_id", "block_id", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	parcelIDs := make([]ParcelID, 0, len(m.Parcels))
	for id := range m.Parcels {
		parcelIDs = append(parcelIDs, id)
	}
	sortParcelIDs(parcelIDs)
	for _, parcelID := range parcelIDs {
		parcel := m.Parcels[parcelID]
		err = writer.Write([]string{
			fmt.Sprintf("%d", parcel.ID),
			fmt.Sprintf("%d", parcel.Block),
			fmt.Sprintf("%s", wkt.MarshalString(parcel.Polygon)),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write parcel")
		}
	}
	return nil
}
