package roadnet

import (
	"time"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

// Edge is a single hop between two consecutive way nodes. Oneway edges point
// From -> To; for reversed ways the endpoints are already swapped at build
// time, so From -> To is always the legal travel direction.
type Edge struct {
	From    osm.NodeID
	To      osm.NodeID
	WayID   osm.WayID
	Highway string
	Oneway  bool
}

// Graph is the road network as node coordinates plus edges. Adjacency is
// undirected regardless of oneway tagging: direction is carried on the edges
// as metadata, connectivity ignores it.
type Graph struct {
	locations   map[osm.NodeID]GeoPoint
	order       []osm.NodeID
	edges       []Edge
	adjacency   map[osm.NodeID][]osm.NodeID
	skippedWays int
}

func onewayDirection(tags osm.Tags) (forward bool, reverse bool) {
	oneway := tags.Find("oneway")
	if _, ok := onewayForwardValues[oneway]; ok {
		return true, false
	}
	if _, ok := junctionOnewayValues[tags.Find("junction")]; ok {
		return true, false
	}
	if _, ok := onewayReverseValues[oneway]; ok {
		return false, true
	}
	return false, false
}

// BuildGraph assembles the graph from routable ways and known node
// coordinates. Way references without a coordinate are dropped silently; a
// way left with fewer than two references is skipped and counted.
func BuildGraph(ways []*RoadWay, locations map[osm.NodeID]GeoPoint, logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := time.Now()

	graph := &Graph{
		locations: make(map[osm.NodeID]GeoPoint),
		adjacency: make(map[osm.NodeID][]osm.NodeID),
	}
	for _, way := range ways {
		refs := make([]osm.NodeID, 0, len(way.Nodes))
		for _, ref := range way.Nodes {
			if _, ok := locations[ref]; ok {
				refs = append(refs, ref)
			}
		}
		if len(refs) < 2 {
			graph.skippedWays++
			continue
		}
		for _, ref := range refs {
			graph.addNode(ref, locations[ref])
		}
		forward, reverse := onewayDirection(way.Tags)
		for i := 0; i < len(refs)-1; i++ {
			from, to := refs[i], refs[i+1]
			switch {
			case forward:
				graph.edges = append(graph.edges, Edge{From: from, To: to, WayID: way.ID, Highway: way.Highway, Oneway: true})
			case reverse:
				graph.edges = append(graph.edges, Edge{From: to, To: from, WayID: way.ID, Highway: way.Highway, Oneway: true})
			default:
				graph.edges = append(graph.edges, Edge{From: from, To: to, WayID: way.ID, Highway: way.Highway})
			}
			graph.adjacency[from] = append(graph.adjacency[from], to)
			graph.adjacency[to] = append(graph.adjacency[to], from)
		}
	}

	logger.Sugar().Infof("Built graph in %v: %d nodes, %d edges, %d ways skipped", time.Since(st), len(graph.order), len(graph.edges), graph.skippedWays)
	return graph
}

func (graph *Graph) addNode(id osm.NodeID, pt GeoPoint) {
	if _, ok := graph.locations[id]; ok {
		return
	}
	graph.locations[id] = pt
	graph.order = append(graph.order, id)
}

// NumNodes returns the number of distinct nodes in the graph
func (graph *Graph) NumNodes() int {
	return len(graph.order)
}

// NumEdges returns the number of edges in the graph
func (graph *Graph) NumEdges() int {
	return len(graph.edges)
}

// SkippedWays returns the number of ways dropped for having fewer than two
// known node references
func (graph *Graph) SkippedWays() int {
	return graph.skippedWays
}

// Location returns the coordinate of a graph node
func (graph *Graph) Location(id osm.NodeID) (GeoPoint, bool) {
	pt, ok := graph.locations[id]
	return pt, ok
}

// Nodes returns node ids in the order they were first seen
func (graph *Graph) Nodes() []osm.NodeID {
	return graph.order
}

// Edges returns all edges in way order
func (graph *Graph) Edges() []Edge {
	return graph.edges
}

// Neighbors returns the nodes adjacent to the given node, oneway tags
// ignored. Repeated ways between the same pair yield repeated entries.
func (graph *Graph) Neighbors(id osm.NodeID) []osm.NodeID {
	return graph.adjacency[id]
}
