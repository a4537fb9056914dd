package roadnet

import (
	"context"
	"time"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

const (
	heartbeatWays  = 50000
	heartbeatNodes = 200000
)

// RoadWay is a routable way lifted out of the raw OSM stream. Tags are an
// owned copy, safe to hold after the scan has moved on.
type RoadWay struct {
	ID      osm.WayID
	Nodes   []osm.NodeID
	Tags    osm.Tags
	Highway string
}

// RoadData is the in-memory road network input: routable ways, the
// coordinates of every node those ways reference, and a frequency count of
// highway values over the whole file (routable or not).
type RoadData struct {
	Ways          []*RoadWay
	Locations     map[osm.NodeID]GeoPoint
	HighwayCounts map[string]int
}

func copyTags(tags osm.Tags) osm.Tags {
	out := make(osm.Tags, len(tags))
	copy(out, tags)
	return out
}

// LoadRoadData reads the source twice: first the ways, keeping those the
// profile accepts with at least two node references, then the nodes, keeping
// coordinates only for referenced ids. Nodes referenced by a way but missing
// from the file simply stay absent from Locations.
func LoadRoadData(ctx context.Context, src Source, profile *RoutingProfile, logger *zap.Logger) (*RoadData, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()

	data := &RoadData{
		Locations:     make(map[osm.NodeID]GeoPoint),
		HighwayCounts: make(map[string]int),
	}
	needed := make(map[osm.NodeID]struct{})

	st := time.Now()
	waysScanned := 0
	err := src.Iterate(ctx, ScanFilter{SkipNodes: true, SkipRelations: true}, func(object osm.Object) error {
		way, ok := object.(*osm.Way)
		if !ok {
			return nil
		}
		waysScanned++
		if waysScanned%heartbeatWays == 0 {
			sugar.Infof("Scanned %d ways, kept %d routable", waysScanned, len(data.Ways))
		}
		highway := way.Tags.Find("highway")
		if highway != "" {
			data.HighwayCounts[highway]++
		}
		if !profile.IsRoutable(way.Tags) {
			return nil
		}
		refs := way.Nodes.NodeIDs()
		if len(refs) < 2 {
			return nil
		}
		for _, ref := range refs {
			needed[ref] = struct{}{}
		}
		data.Ways = append(data.Ways, &RoadWay{
			ID:      way.ID,
			Nodes:   refs,
			Tags:    copyTags(way.Tags),
			Highway: highway,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sugar.Infof("Ways pass done in %v: %d scanned, %d routable, %d referenced nodes", time.Since(st), waysScanned, len(data.Ways), len(needed))

	st = time.Now()
	nodesScanned := 0
	err = src.Iterate(ctx, ScanFilter{SkipWays: true, SkipRelations: true}, func(object osm.Object) error {
		node, ok := object.(*osm.Node)
		if !ok {
			return nil
		}
		nodesScanned++
		if nodesScanned%heartbeatNodes == 0 {
			sugar.Infof("Scanned %d nodes, resolved %d locations", nodesScanned, len(data.Locations))
		}
		if _, ok := needed[node.ID]; ok {
			data.Locations[node.ID] = GeoPoint{Lat: node.Lat, Lon: node.Lon}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sugar.Infof("Nodes pass done in %v: %d scanned, %d locations resolved", time.Since(st), nodesScanned, len(data.Locations))

	return data, nil
}
