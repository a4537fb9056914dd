package main

import (
	"context"
	"flag"
	"fmt"
	"sort"

	"github.com/LdDl/roadnet"
)

func runDegrees(args []string) error {
	flags := flag.NewFlagSet("degrees", flag.ExitOnError)
	fileName := flags.String("file", "", "Input OSM file (*.osm / *.xml / *.osm.pbf / *.osm.bz2)")
	configPath := flags.String("config", "", "Optional config file")
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
	stats, err := roadnet.AnalyzeDegrees(ctx, src, profile, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Routable ways: %d\n", stats.TotalWays)
	fmt.Printf("Referenced nodes: %d\n", stats.TotalNodes)
	if stats.TotalNodes == 0 {
		return nil
	}
	percent := func(count int) float64 {
		return 100.0 * float64(count) / float64(stats.TotalNodes)
	}
	fmt.Printf("Dead ends (degree 1): %d (%.2f%%)\n", stats.DeadEnds, percent(stats.DeadEnds))
	fmt.Printf("Mergeable (degree 2): %d (%.2f%%)\n", stats.Mergeable, percent(stats.Mergeable))
	fmt.Printf("Simple junctions (degree 3-4): %d (%.2f%%)\n", stats.SimpleJunctions, percent(stats.SimpleJunctions))
	fmt.Printf("Complex junctions (degree >4): %d (%.2f%%)\n", stats.ComplexJunctions, percent(stats.ComplexJunctions))

	degrees := make([]int, 0, len(stats.Histogram))
	for degree := range stats.Histogram {
		degrees = append(degrees, degree)
	}
	sort.Ints(degrees)
	fmt.Println("Degree histogram:")
	for _, degree := range degrees {
		fmt.Printf("  %d: %d\n", degree, stats.Histogram[degree])
	}
	return nil
}
