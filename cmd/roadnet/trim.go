package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/LdDl/roadnet"
)

func runTrim(args []string) error {
	flags := flag.NewFlagSet("trim", flag.ExitOnError)
	fileName := flags.String("file", "", "Input OSM file (*.osm / *.xml / *.osm.pbf / *.osm.bz2)")
	out := flags.String("out", "", "Output OSM file (*.osm / *.xml / *.osm.bz2)")
	configPath := flags.String("config", "", "Optional config file")
	verbose := flags.Bool("verbose", true, "Print progress")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *fileName == "" || *out == "" {
		flags.Usage()
		return fmt.Errorf("flags -file and -out are required")
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
	largest := set.Largest()
	if largest == nil {
		return fmt.Errorf("no routable network found in '%s'", *fileName)
	}
	fmt.Printf("Largest component: %d of %d nodes (%.2f%%)\n", largest.Size, set.TotalNodes(), largest.Percent)

	sink, err := roadnet.NewXMLSink(*out)
	if err != nil {
		return err
	}
	trimmer := roadnet.NewTrimmer(largest.Members, logger)
	stats, err := trimmer.Run(ctx, src, sink)
	if err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}
	fmt.Printf("Kept %d of %d nodes, %d of %d ways, %d relations\n", stats.KeptNodes, stats.ProcessedNodes, stats.KeptWays, stats.ProcessedWays, stats.Relations)
	return nil
}
