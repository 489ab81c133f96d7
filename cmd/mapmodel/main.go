package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/LdDl/ch"
	"github.com/cityflow/mapmodel"
	"github.com/go-kit/log"
)

var (
	roadsFile         = flag.String("roads", "roads.geojson", "GeoJSON FeatureCollection of road centerlines (LineString features with 'from'/'to' properties and tag properties)")
	intersectionsFile = flag.String("intersections", "intersections.geojson", "GeoJSON FeatureCollection of intersection boundary polygons")
	buildingsFile     = flag.String("buildings", "", "Optional GeoJSON FeatureCollection of building footprints")
	parcelsFile       = flag.String("parcels", "", "Optional GeoJSON FeatureCollection of parcel polygons")
	out               = flag.String("out", "model.csv", "Filename prefix for 'Comma-Separated Values' (CSV) output. E.g.: 'model.csv' produces 'model_lanes.csv', 'model_turns.csv', 'model_connections.csv', 'model_blocks.csv'")
	workers           = flag.Int("workers", 4, "Worker goroutines per pipeline stage")
	searchRadius      = flag.Float64("radius", 100.0, "Building connection search radius (meters)")
	doContraction     = flag.Bool("contract", false, "Prepare contraction hierarchies over the routable lane graph?")
)

func main() {

	flag.Parse()

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	roadsData, err := os.ReadFile(*roadsFile)
	if err != nil {
		logger.Log("during", "read roads", "err", err)
		os.Exit(1)
	}
	intersectionsData, err := os.ReadFile(*intersectionsFile)
	if err != nil {
		logger.Log("during", "read intersections", "err", err)
		os.Exit(1)
	}
	var buildingsData, parcelsData []byte
	if *buildingsFile != "" {
		buildingsData, err = os.ReadFile(*buildingsFile)
		if err != nil {
			logger.Log("during", "read buildings", "err", err)
			os.Exit(1)
		}
	}
	if *parcelsFile != "" {
		parcelsData, err = os.ReadFile(*parcelsFile)
		if err != nil {
			logger.Log("during", "read parcels", "err", err)
			os.Exit(1)
		}
	}

	input, err := mapmodel.InputFromGeoJSON(roadsData, intersectionsData, buildingsData, parcelsData)
	if err != nil {
		logger.Log("during", "decode input", "err", err)
		os.Exit(1)
	}

	cfg := mapmodel.DefaultConfig()
	cfg.Workers = *workers
	cfg.BuildingSearchRadius = *searchRadius

	builtMap, report := mapmodel.BuildMap(input, cfg, logger)
	for _, issue := range report.Issues {
		logger.Log("issue", issue.String())
	}

	err = builtMap.ExportToCSV(*out)
	if err != nil {
		logger.Log("during", "export", "err", err)
		os.Exit(1)
	}

	if *doContraction {
		fmt.Println("Starting contraction process....")
		st := time.Now()
		graph := ch.Graph{}
		for _, edge := range builtMap.RoutableEdges() {
			err := graph.CreateVertex(edge.Source)
			if err != nil {
				logger.Log("during", "create source vertex", "err", err)
				os.Exit(1)
			}
			err = graph.CreateVertex(edge.Target)
			if err != nil {
				logger.Log("during", "create target vertex", "err", err)
				os.Exit(1)
			}
			err = graph.AddEdge(edge.Source, edge.Target, edge.CostMeters)
			if err != nil {
				logger.Log("during", "add edge", "err", err)
				os.Exit(1)
			}
		}
		graph.PrepareContractionHierarchies()
		fmt.Printf("Done contraction process in %v\n", time.Since(st))

		fnameShortcuts := *out + "_shortcuts.csv"
		err = graph.ExportShortcutsToFile(fnameShortcuts)
		if err != nil {
			logger.Log("during", "export shortcuts", "err", err)
			os.Exit(1)
		}
	}
}
