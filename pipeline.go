package mapmodel

import (
	"sort"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/pkg/errors"
)

/* Batch pipeline */

// Map is the finished road-network model: arenas of roads (with trimmed,
// ordered lanes), intersections with their turn sets, building connections and
// parcel blocks. The whole structure is immutable once BuildMap returns and
// may be shared read-only between consumers.
type Map struct {
	Roads         map[RoadID]*Road
	Intersections map[IntersectionID]*Intersection
	Turns         map[TurnID]*Turn
	Buildings     map[BuildingID]*Building
	Parcels       map[ParcelID]*Parcel
	Blocks        map[BlockID][]ParcelID
}

// Lane resolves an identifier-based lane reference
func (m *Map) Lane(key LaneKey) *Lane {
	return laneByKey(m.Roads, key)
}

// BuildMap runs the whole deterministic batch pass over an input snapshot:
// lane derivation and trimming per road, turn enumeration per intersection,
// then building placement and parcel grouping.
//
// A failure on one entity never aborts the others; the pipeline completes
// with the best achievable model plus a report enumerating skipped and
// defaulted entities.
func BuildMap(input *Input, cfg *Config, logger log.Logger) (*Map, *Report) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	report := &Report{}
	m := &Map{
		Roads:         make(map[RoadID]*Road),
		Intersections: make(map[IntersectionID]*Intersection),
		Turns:         make(map[TurnID]*Turn),
		Buildings:     make(map[BuildingID]*Building),
		Parcels:       make(map[ParcelID]*Parcel),
		Blocks:        make(map[BlockID][]ParcelID),
	}

	// Intersections come first: their boundaries are input to trimming
	for _, record := range input.Intersections {
		m.Intersections[IntersectionID(record.ID)] = &Intersection{
			ID:       IntersectionID(record.ID),
			Boundary: record.Boundary,
		}
	}
	for _, record := range input.Roads {
		road := &Road{
			ID:         RoadID(record.ID),
			Centerline: record.Centerline,
			Tags:       record.Tags,
			From:       IntersectionID(record.From),
			To:         IntersectionID(record.To),
		}
		m.Roads[road.ID] = road
		for _, endpoint := range []IntersectionID{road.From, road.To} {
			intersection, ok := m.Intersections[endpoint]
			if !ok {
				// Roads may end at bare points the parser produced no polygon
				// for; represent them as boundary-less intersections
				intersection = &Intersection{ID: endpoint}
				m.Intersections[endpoint] = intersection
			}
			intersection.Roads = append(intersection.Roads, road.ID)
		}
	}

	roadIDs := sortedRoadIDs(m.Roads)
	intersectionIDs := sortedIntersectionIDs(m.Intersections)

	/* Stage 1: lane specs + trimming, roads are independent */
	st := time.Now()
	var skippedMu sync.Mutex
	skippedRoads := []RoadID{}
	runParallel(cfg.Workers, len(roadIDs), func(i int) {
		road := m.Roads[roadIDs[i]]

		specs, err := generateLaneSpecs(road.Tags, cfg)
		if err != nil {
			if errors.Is(errors.Cause(err), ErrInvalidLaneConfig) {
				report.add(Issue{Kind: ISSUE_DEFAULTED, EntityKind: ENTITY_ROAD, EntityID: int64(road.ID), Err: err, Message: "lane widths clamped to declared cross-section"})
				specs = clampLaneSpecs(specs, parseFloatTag(road.Tags, "width"))
			}
		}
		if declared := parseFloatTag(road.Tags, "width"); declared > 0 {
			road.CrossSection = declared
		} else {
			for j := range specs {
				road.CrossSection += specs[j].Width
			}
		}

		startRing := m.Intersections[road.From].outerRing()
		endRing := m.Intersections[road.To].outerRing()
		lanes, snapFallbacks, err := trimRoadLanes(road, specs, startRing, endRing, cfg)
		if err != nil {
			report.add(Issue{Kind: ISSUE_SKIPPED, EntityKind: ENTITY_ROAD, EntityID: int64(road.ID), Err: err, Message: "road excluded from model"})
			skippedMu.Lock()
			skippedRoads = append(skippedRoads, road.ID)
			skippedMu.Unlock()
			return
		}
		if snapFallbacks > 0 {
			report.add(Issue{Kind: ISSUE_WARNING, EntityKind: ENTITY_ROAD, EntityID: int64(road.ID), Message: "trim fell back to boundary snapping"})
			logger.Log("stage", "trim", "road", road.ID, "snapped_lanes", snapFallbacks)
		}
		road.Lanes = lanes
	})
	for _, roadID := range skippedRoads {
		delete(m.Roads, roadID)
	}
	if len(skippedRoads) > 0 {
		for _, intersection := range m.Intersections {
			intersection.Roads = withoutRoads(intersection.Roads, skippedRoads)
		}
	}
	logger.Log("stage", "lanes", "roads", len(m.Roads), "skipped", len(skippedRoads), "took", time.Since(st))

	/* Stage 2: turns, intersections are independent once trimming is done */
	st = time.Now()
	runParallel(cfg.Workers, len(intersectionIDs), func(i int) {
		intersection := m.Intersections[intersectionIDs[i]]
		intersection.Turns = generateTurns(intersection, m.Roads, cfg)
	})
	// Global turn ids are assigned in intersection-id order, keeping reruns on
	// identical input identical
	turnID := TurnID(0)
	for _, intersectionID := range intersectionIDs {
		for _, turn := range m.Intersections[intersectionID].Turns {
			turn.ID = turnID
			m.Turns[turn.ID] = turn
			turnID++
		}
	}
	runParallel(cfg.Workers, len(intersectionIDs), func(i int) {
		detectTurnConflicts(m.Intersections[intersectionIDs[i]], m.Roads, cfg)
	})
	logger.Log("stage", "turns", "count", len(m.Turns), "took", time.Since(st))

	/* Stage 3: buildings and parcels, independent of each other */
	st = time.Now()
	for _, record := range input.Buildings {
		m.Buildings[BuildingID(record.ID)] = &Building{ID: BuildingID(record.ID), Footprint: record.Footprint}
	}
	for _, record := range input.Parcels {
		m.Parcels[ParcelID(record.ID)] = &Parcel{ID: ParcelID(record.ID), Polygon: record.Polygon}
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		index := buildLaneIndex(m.Roads, cfg)
		buildingIDs := make([]BuildingID, 0, len(m.Buildings))
		for id := range m.Buildings {
			buildingIDs = append(buildingIDs, id)
		}
		sortBuildingIDs(buildingIDs)
		runParallel(cfg.Workers, len(buildingIDs), func(i int) {
			building := m.Buildings[buildingIDs[i]]
			building.Connection = placeBuilding(building, index, m.Roads, m.Buildings, cfg)
		})
	}()
	go func() {
		defer wg.Done()
		blocks := groupParcels(m.Parcels, cfg)
		for parcelID, blockID := range blocks {
			m.Parcels[parcelID].Block = blockID
		}
	}()
	wg.Wait()

	// Assemble the block arena in a stable order
	parcelIDs := make([]ParcelID, 0, len(m.Parcels))
	for id := range m.Parcels {
		parcelIDs = append(parcelIDs, id)
	}
	sortParcelIDs(parcelIDs)
	for _, parcelID := range parcelIDs {
		parcel := m.Parcels[parcelID]
		m.Blocks[parcel.Block] = append(m.Blocks[parcel.Block], parcelID)
	}
	logger.Log("stage", "placement", "buildings", len(m.Buildings), "blocks", len(m.Blocks), "took", time.Since(st))

	return m, report
}

// runParallel fans n independent work items out over the given number of
// worker goroutines. Each item owns its own output; only the diagnostics
// report is shared, and it locks internally.
func runParallel(workers, n int, fn func(i int)) {
	if workers < 2 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

func sortedRoadIDs(roads map[RoadID]*Road) []RoadID {
	ids := make([]RoadID, 0, len(roads))
	for id := range roads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedIntersectionIDs(intersections map[IntersectionID]*Intersection) []IntersectionID {
	ids := make([]IntersectionID, 0, len(intersections))
	for id := range intersections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortBuildingIDs(ids []BuildingID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func sortParcelIDs(ids []ParcelID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func withoutRoads(roadIDs []RoadID, removed []RoadID) []RoadID {
	result := roadIDs[:0]
	for _, id := range roadIDs {
		keep := true
		for _, removedID := range removed {
			if id == removedID {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, id)
		}
	}
	return result
}
