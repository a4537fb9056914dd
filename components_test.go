package roadnet

import (
	"math"
	"testing"

	"github.com/paulmach/osm"
)

func TestAnalyzeGraphRanking(t *testing.T) {
	ways := []*RoadWay{
		{ID: 1, Nodes: []osm.NodeID{1, 2}, Highway: "residential"},
		{ID: 2, Nodes: []osm.NodeID{3, 4, 5}, Highway: "residential"},
		{ID: 3, Nodes: []osm.NodeID{5, 6}, Highway: "residential"},
	}
	graph := BuildGraph(ways, testLocations(1, 2, 3, 4, 5, 6), nil)
	set := AnalyzeGraph(graph, nil)

	if len(set.Components()) != 2 {
		t.Errorf("Graph must have %d components, but got %d", 2, len(set.Components()))
		return
	}
	largest := set.Largest()
	if largest.Size != 4 {
		t.Errorf("Largest component must have %d nodes, but got %d", 4, largest.Size)
	}
	if largest.Rank != 1 {
		t.Errorf("Largest component rank must be %d, but got %d", 1, largest.Rank)
	}
	if !largest.Has(3) || !largest.Has(6) {
		t.Errorf("Largest component must contain nodes 3 and 6")
	}
	if math.Abs(largest.Percent-100.0*4.0/6.0) > 1e-9 {
		t.Errorf("Largest component percentage must be %f, but got %f", 100.0*4.0/6.0, largest.Percent)
	}
	if set.TotalNodes() != 6 {
		t.Errorf("Total nodes must be %d, but got %d", 6, set.TotalNodes())
	}
}

func TestAnalyzeGraphTieKeepsDiscoveryOrder(t *testing.T) {
	ways := []*RoadWay{
		{ID: 1, Nodes: []osm.NodeID{10, 11}, Highway: "residential"},
		{ID: 2, Nodes: []osm.NodeID{20, 21}, Highway: "residential"},
	}
	graph := BuildGraph(ways, testLocations(10, 11, 20, 21), nil)
	set := AnalyzeGraph(graph, nil)

	if rank, _ := set.ComponentOf(10); rank != 1 {
		t.Errorf("First discovered component must keep rank %d on a size tie, but got %d", 1, rank)
	}
	if rank, _ := set.ComponentOf(20); rank != 2 {
		t.Errorf("Second discovered component must get rank %d on a size tie, but got %d", 2, rank)
	}
}

func TestComponentOf(t *testing.T) {
	ways := []*RoadWay{
		{ID: 1, Nodes: []osm.NodeID{1, 2, 3}, Highway: "residential"},
	}
	graph := BuildGraph(ways, testLocations(1, 2, 3), nil)
	set := AnalyzeGraph(graph, nil)

	for _, id := range []osm.NodeID{1, 2, 3} {
		rank, ok := set.ComponentOf(id)
		if !ok || rank != 1 {
			t.Errorf("Node %d must be in component 1, but got rank %d (found %v)", id, rank, ok)
		}
	}
	if _, ok := set.ComponentOf(99); ok {
		t.Errorf("Node 99 is not part of the graph and must not resolve to a component")
	}
}

func TestAnalyzeGraphPartition(t *testing.T) {
	ways := []*RoadWay{
		{ID: 1, Nodes: []osm.NodeID{1, 2}, Highway: "residential"},
		{ID: 2, Nodes: []osm.NodeID{3, 4}, Highway: "residential"},
		{ID: 3, Nodes: []osm.NodeID{5, 6, 7}, Highway: "residential"},
	}
	graph := BuildGraph(ways, testLocations(1, 2, 3, 4, 5, 6, 7), nil)
	set := AnalyzeGraph(graph, nil)

	sum := 0
	percent := 0.0
	for _, component := range set.Components() {
		sum += component.Size
		percent += component.Percent
	}
	if sum != set.TotalNodes() {
		t.Errorf("Component sizes must sum to %d, but got %d", set.TotalNodes(), sum)
	}
	if math.Abs(percent-100.0) > 1e-9 {
		t.Errorf("Component percentages must sum to %f, but got %f", 100.0, percent)
	}
}

func TestNearestNode(t *testing.T) {
	locations := map[osm.NodeID]GeoPoint{
		1: {Lat: 0.0, Lon: 0.0},
		2: {Lat: 0.0, Lon: 0.01},
	}
	ways := []*RoadWay{
		{ID: 1, Nodes: []osm.NodeID{1, 2}, Highway: "residential"},
	}
	graph := BuildGraph(ways, locations, nil)
	set := AnalyzeGraph(graph, nil)

	id, meters, ok := set.NearestNode(GeoPoint{Lat: 0.0001, Lon: 0.0})
	if !ok {
		t.Errorf("Nearest node must be found in a non-empty graph")
		return
	}
	if id != 1 {
		t.Errorf("Nearest node must be %d, but got %d", 1, id)
	}
	if meters < 5.0 || meters > 20.0 {
		t.Errorf("Distance to the nearest node must be around 11 meters, but got %f", meters)
	}
}

func TestNearestNodeEmptyGraph(t *testing.T) {
	graph := BuildGraph(nil, nil, nil)
	set := AnalyzeGraph(graph, nil)
	if _, _, ok := set.NearestNode(GeoPoint{}); ok {
		t.Errorf("Empty graph must not resolve a nearest node")
	}
	if set.Largest() != nil {
		t.Errorf("Empty graph must not have a largest component")
	}
}
