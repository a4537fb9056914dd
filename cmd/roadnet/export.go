package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/LdDl/roadnet"
	"github.com/paulmach/osm"
)

func runExport(args []string) error {
	flags := flag.NewFlagSet("export", flag.ExitOnError)
	fileName := flags.String("file", "", "Input OSM file (*.osm / *.xml / *.osm.pbf / *.osm.bz2)")
	out := flags.String("out", "network.csv", "Output CSV file. E.g.: for 'map.csv' the files 'map.csv' (edges), 'map_vertices.csv' and 'map_shortcuts.csv' will be produced")
	configPath := flags.String("config", "", "Optional config file")
	contract := flags.Bool("contract", true, "Prepare contraction hierarchies?")
	largestOnly := flags.Bool("largest", true, "Restrict the export to the largest connected component")
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

	var members map[osm.NodeID]struct{}
	if *largestOnly {
		set := roadnet.AnalyzeGraph(graph, logger)
		if largest := set.Largest(); largest != nil {
			members = largest.Members
			fmt.Printf("Exporting largest component: %d of %d nodes (%.2f%%)\n", largest.Size, set.TotalNodes(), largest.Percent)
		}
	}
	if err := roadnet.ExportCH(graph, members, *out, *contract, logger); err != nil {
		return err
	}
	fmt.Printf("Network written to %s\n", *out)
	return nil
}
