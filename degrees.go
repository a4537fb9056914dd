package roadnet

import (
	"context"
	"time"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

// DegreeStats describes how often nodes of the routable network act as
// endpoints of consecutive way segments. Degree 1 nodes are dead ends,
// degree 2 nodes sit in the middle of a road and can be merged away,
// higher degrees are junctions.
type DegreeStats struct {
	TotalNodes       int
	TotalWays        int
	Histogram        map[int]int
	DeadEnds         int
	Mergeable        int
	SimpleJunctions  int
	ComplexJunctions int
}

// AnalyzeDegrees scans the ways of the source and counts segment endpoint
// degrees for every node referenced by a routable way
func AnalyzeDegrees(ctx context.Context, src Source, profile *RoutingProfile, logger *zap.Logger) (DegreeStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()
	st := time.Now()

	stats := DegreeStats{
		Histogram: make(map[int]int),
	}
	degrees := make(map[osm.NodeID]int)
	scanned := 0
	err := src.Iterate(ctx, ScanFilter{SkipNodes: true, SkipRelations: true}, func(object osm.Object) error {
		way, ok := object.(*osm.Way)
		if !ok {
			return nil
		}
		scanned++
		if scanned%heartbeatWays == 0 {
			sugar.Infof("Scanned %d ways, %d routable", scanned, stats.TotalWays)
		}
		if !profile.IsRoutable(way.Tags) {
			return nil
		}
		if len(way.Nodes) < 2 {
			return nil
		}
		stats.TotalWays++
		for i := 0; i < len(way.Nodes)-1; i++ {
			degrees[way.Nodes[i].ID]++
			degrees[way.Nodes[i+1].ID]++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	stats.TotalNodes = len(degrees)
	for _, degree := range degrees {
		stats.Histogram[degree]++
		switch {
		case degree == 1:
			stats.DeadEnds++
		case degree == 2:
			stats.Mergeable++
		case degree <= 4:
			stats.SimpleJunctions++
		default:
			stats.ComplexJunctions++
		}
	}

	sugar.Infof("Degree analysis done in %v: %d nodes over %d routable ways", time.Since(st), stats.TotalNodes, stats.TotalWays)
	return stats, nil
}
