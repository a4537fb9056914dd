package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/LdDl/roadnet"
)

func runSimplify(args []string) error {
	flags := flag.NewFlagSet("simplify", flag.ExitOnError)
	fileName := flags.String("file", "", "Input OSM file with nodes before ways (*.osm / *.xml / *.osm.pbf / *.osm.bz2)")
	out := flags.String("out", "", "Output OSM file (*.osm / *.xml / *.osm.bz2)")
	configPath := flags.String("config", "", "Optional config file")
	segLengths := flags.Bool("seglen", false, "Write the per segment length tag even when the config does not ask for it")
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
	kept, collectStats, err := roadnet.CollectKeptNodes(ctx, src, profile, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Found %d routable ways, keeping %d endpoint nodes\n", collectStats.RoutableWays, kept.Len())

	index, err := config.BuildLocationIndex()
	if err != nil {
		return err
	}
	sink, err := roadnet.NewXMLSink(*out)
	if err != nil {
		index.Close()
		return err
	}
	simplifier := roadnet.NewSimplifier(profile, kept,
		roadnet.WithLocationIndex(index),
		roadnet.WithSegmentLengths(config.WriteSegmentLengths || *segLengths),
		roadnet.WithLogger(logger),
	)
	stats, err := simplifier.Run(ctx, src, sink)
	if closeErr := index.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return err
	}
	fmt.Printf("Written %d nodes and %d ways, skipped %d ways with too few kept nodes\n", stats.WrittenNodes, stats.WrittenWays, stats.SkippedShortWays)
	return nil
}
