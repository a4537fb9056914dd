package roadnet

import (
	"context"
	"testing"

	"github.com/paulmach/osm"
)

func TestLoadRoadData(t *testing.T) {
	src := NewSliceSource(
		testNode(1, 0.0, 0.000),
		testNode(2, 0.0, 0.001),
		testNode(3, 0.0, 0.002),
		testNode(4, 0.0, 0.003),
		testWay(10, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 2),
		testWay(11, osm.Tags{{Key: "highway", Value: "proposed"}}, 3, 4),
		testWay(12, osm.Tags{{Key: "highway", Value: "residential"}}, 9),
		testWay(13, osm.Tags{{Key: "building", Value: "yes"}}, 1, 3),
	)
	data, err := LoadRoadData(context.Background(), src, CuratedProfile(), nil)
	if err != nil {
		t.Error(err)
		return
	}

	if len(data.Ways) != 1 {
		t.Errorf("Routable ways must be %d, but got %d", 1, len(data.Ways))
		return
	}
	way := data.Ways[0]
	if way.ID != 10 || way.Highway != "residential" {
		t.Errorf("Kept way must be 10 with highway 'residential', but got %d with '%s'", way.ID, way.Highway)
	}
	if len(way.Nodes) != 2 || way.Nodes[0] != 1 || way.Nodes[1] != 2 {
		t.Errorf("Kept way refs must be [1 2], but got %v", way.Nodes)
	}

	// Highway values are counted over the whole file, routable or not, while
	// untagged ways stay out.
	if data.HighwayCounts["residential"] != 2 || data.HighwayCounts["proposed"] != 1 {
		t.Errorf("Highway counts must be {residential:2 proposed:1}, but got %v", data.HighwayCounts)
	}
	if _, ok := data.HighwayCounts[""]; ok {
		t.Errorf("Ways without a highway tag must not be counted")
	}

	if len(data.Locations) != 2 {
		t.Errorf("Only referenced nodes must be located, want %d but got %d", 2, len(data.Locations))
	}
	if _, ok := data.Locations[3]; ok {
		t.Errorf("Node 3 is not referenced by a routable way and must not be located")
	}

	graph := BuildGraph(data.Ways, data.Locations, nil)
	if graph.NumNodes() != 2 || graph.NumEdges() != 1 {
		t.Errorf("Graph must have 2 nodes and 1 edge, but got %d and %d", graph.NumNodes(), graph.NumEdges())
	}
}

func TestLoadRoadDataCopiesTags(t *testing.T) {
	original := testWay(10, osm.Tags{{Key: "highway", Value: "residential"}}, 1, 2)
	src := NewSliceSource(
		testNode(1, 0.0, 0.000),
		testNode(2, 0.0, 0.001),
		original,
	)
	data, err := LoadRoadData(context.Background(), src, CuratedProfile(), nil)
	if err != nil {
		t.Error(err)
		return
	}
	original.Tags[0].Value = "changed"
	if data.Ways[0].Tags.Find("highway") != "residential" {
		t.Errorf("Loaded way tags must be an owned copy")
	}
}
