package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/LdDl/roadnet"
)

func runAddresses(args []string) error {
	flags := flag.NewFlagSet("addresses", flag.ExitOnError)
	fileName := flags.String("file", "", "Input OSM file (*.osm / *.xml / *.osm.pbf / *.osm.bz2)")
	out := flags.String("out", "", "Output CSV file, gzip compressed when the name ends with .gz")
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
	if graph.NumNodes() == 0 {
		return fmt.Errorf("no routable network found in '%s'", *fileName)
	}

	index, err := config.BuildLocationIndex()
	if err != nil {
		return err
	}
	addresses, err := roadnet.ExtractAddresses(ctx, src, index, logger)
	if closeErr := index.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	fmt.Printf("Found %d addresses\n", len(addresses))

	mapped := roadnet.MapAddressesToNetwork(addresses, graph, logger)
	if err := roadnet.WriteMappedAddressesCSV(*out, mapped); err != nil {
		return err
	}
	fmt.Printf("Mapped %d of %d addresses to %s\n", len(mapped), len(addresses), *out)
	return nil
}
