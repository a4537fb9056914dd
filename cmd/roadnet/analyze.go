package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/LdDl/roadnet"
	"github.com/paulmach/osm"
)

func runAnalyze(args []string) error {
	flags := flag.NewFlagSet("analyze", flag.ExitOnError)
	fileName := flags.String("file", "", "Input OSM file (*.osm / *.xml / *.osm.pbf / *.osm.bz2)")
	configPath := flags.String("config", "", "Optional config file")
	top := flags.Int("top", 20, "Number of components to print")
	csvOut := flags.String("csv", "", "Write components CSV to this file")
	geojsonOut := flags.String("geojson", "", "Write components GeoJSON to this file")
	geojsonTop := flags.Int("geojson-top", 20, "Number of components in the GeoJSON output, 0 for all")
	highwaysOut := flags.String("highways", "", "Write highway frequency CSV to this file")
	edgesOut := flags.String("edges", "", "Write edges CSV with WKT geometry to this file")
	locate := flags.String("locate", "", "Find the nearest graph node to 'lat,lon'")
	nodeID := flags.Int64("node", 0, "Report the component rank of this node id")
	verbose := flags.Bool("verbose", true, "Print progress")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *fileName == "" {
		flags.Usage()
		return fmt.Errorf("flag -file is required")
	}

	config, profile, err := loadSetup(*configPath)
	if err != nil {
		return err
	}
	logger := newLogger(*verbose)
	defer logger.Sync()

	ctx := context.Background()
	src := newSource(config, *fileName)
	data, err := roadnet.LoadRoadData(ctx, src, profile, logger)
	if err != nil {
		return err
	}
	graph := roadnet.BuildGraph(data.Ways, data.Locations, logger)
	set := roadnet.AnalyzeGraph(graph, logger)

	printComponents(graph, set, *top)

	if *csvOut != "" {
		if err := roadnet.WriteComponentsCSV(*csvOut, set); err != nil {
			return err
		}
		fmt.Printf("Components written to %s\n", *csvOut)
	}
	if *geojsonOut != "" {
		if err := roadnet.WriteComponentsGeoJSON(*geojsonOut, set, *geojsonTop); err != nil {
			return err
		}
		fmt.Printf("GeoJSON written to %s\n", *geojsonOut)
	}
	if *highwaysOut != "" {
		if err := roadnet.WriteHighwayCSV(*highwaysOut, data.HighwayCounts, profile); err != nil {
			return err
		}
		fmt.Printf("Highway frequencies written to %s\n", *highwaysOut)
	}
	if *edgesOut != "" {
		if err := roadnet.WriteEdgesCSV(*edgesOut, graph); err != nil {
			return err
		}
		fmt.Printf("Edges written to %s\n", *edgesOut)
	}

	if *locate != "" {
		pt, err := parseLatLon(*locate)
		if err != nil {
			return err
		}
		id, meters, ok := set.NearestNode(pt)
		if !ok {
			fmt.Println("Graph is empty, nothing to locate")
		} else {
			rank, _ := set.ComponentOf(id)
			loc, _ := graph.Location(id)
			fmt.Printf("Nearest node to %s: %d at %s, %.1f m away, component #%d\n", pt, id, loc, meters, rank)
		}
	}
	if *nodeID != 0 {
		id := osm.NodeID(*nodeID)
		if rank, ok := set.ComponentOf(id); ok {
			fmt.Printf("Node %d belongs to component #%d\n", id, rank)
		} else {
			fmt.Printf("Node %d is not part of the routable network\n", id)
		}
	}
	return nil
}

func printComponents(graph *roadnet.Graph, set *roadnet.ComponentSet, top int) {
	fmt.Printf("Graph: %d nodes, %d edges, %d ways skipped\n", graph.NumNodes(), graph.NumEdges(), graph.SkippedWays())
	fmt.Printf("Connected components: %d\n", len(set.Components()))
	for _, component := range set.Components() {
		if top > 0 && component.Rank > top {
			break
		}
		fmt.Printf("  #%d: %d nodes (%.2f%%), sample node %d at %s\n", component.Rank, component.Size, component.Percent, component.SampleID, component.Sample)
	}
}

func parseLatLon(raw string) (roadnet.GeoPoint, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return roadnet.GeoPoint{}, fmt.Errorf("coordinate '%s' is not in 'lat,lon' form", raw)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return roadnet.GeoPoint{}, fmt.Errorf("coordinate '%s' is not in 'lat,lon' form", raw)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return roadnet.GeoPoint{}, fmt.Errorf("coordinate '%s' is not in 'lat,lon' form", raw)
	}
	return roadnet.GeoPoint{Lat: lat, Lon: lon}, nil
}
