package roadnet

import (
	"sort"
	"time"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

// Component is one connected component of the graph. ID is the order the
// component was discovered in, Rank is 1-based by descending size. Sample is
// the coordinate of the first node discovered in the component.
type Component struct {
	ID       int
	Rank     int
	Size     int
	Percent  float64
	Members  map[osm.NodeID]struct{}
	SampleID osm.NodeID
	Sample   GeoPoint
}

// Has reports whether the node belongs to this component
func (component *Component) Has(id osm.NodeID) bool {
	_, ok := component.Members[id]
	return ok
}

// ComponentSet holds all connected components of a graph, ranked by size.
// Equal sizes keep discovery order, so ranking is deterministic for a given
// input stream.
type ComponentSet struct {
	graph      *Graph
	components []*Component
	ranks      map[osm.NodeID]int
	totalNodes int
}

// AnalyzeGraph finds the connected components of the graph by breadth-first
// search, ignoring oneway direction
func AnalyzeGraph(graph *Graph, logger *zap.Logger) *ComponentSet {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := time.Now()

	set := &ComponentSet{
		graph:      graph,
		ranks:      make(map[osm.NodeID]int),
		totalNodes: graph.NumNodes(),
	}
	visited := make(map[osm.NodeID]struct{}, graph.NumNodes())
	for _, seed := range graph.order {
		if _, ok := visited[seed]; ok {
			continue
		}
		members := make(map[osm.NodeID]struct{})
		queue := []osm.NodeID{seed}
		visited[seed] = struct{}{}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			members[current] = struct{}{}
			for _, next := range graph.adjacency[current] {
				if _, ok := visited[next]; !ok {
					visited[next] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
		set.components = append(set.components, &Component{
			ID:       len(set.components),
			Size:     len(members),
			Members:  members,
			SampleID: seed,
			Sample:   graph.locations[seed],
		})
	}

	sort.SliceStable(set.components, func(i, j int) bool {
		return set.components[i].Size > set.components[j].Size
	})
	for i, component := range set.components {
		component.Rank = i + 1
		if set.totalNodes > 0 {
			component.Percent = 100.0 * float64(component.Size) / float64(set.totalNodes)
		}
		for id := range component.Members {
			set.ranks[id] = component.Rank
		}
	}

	logger.Sugar().Infof("Found %d connected components in %v", len(set.components), time.Since(st))
	return set
}

// Components returns all components in rank order
func (set *ComponentSet) Components() []*Component {
	return set.components
}

// Largest returns the top-ranked component, nil for an empty graph
func (set *ComponentSet) Largest() *Component {
	if len(set.components) == 0 {
		return nil
	}
	return set.components[0]
}

// TotalNodes returns the number of graph nodes across all components
func (set *ComponentSet) TotalNodes() int {
	return set.totalNodes
}

// ComponentOf returns the rank of the component containing the given node
func (set *ComponentSet) ComponentOf(id osm.NodeID) (int, bool) {
	rank, ok := set.ranks[id]
	return rank, ok
}

// NearestNode scans every graph node and returns the one closest to the
// given point together with the great circle distance in meters
func (set *ComponentSet) NearestNode(pt GeoPoint) (osm.NodeID, float64, bool) {
	found := false
	var bestID osm.NodeID
	var bestPt GeoPoint
	best := 0.0
	for _, id := range set.graph.order {
		loc := set.graph.locations[id]
		dist := findDistance(pt, loc)
		if !found || dist < best {
			found = true
			best = dist
			bestID = id
			bestPt = loc
		}
	}
	if !found {
		return 0, 0, false
	}
	return bestID, greatCircleDistance(pt, bestPt), true
}

// BBox returns the bounding box of a component's member nodes
func (set *ComponentSet) BBox(component *Component) (minLat, maxLat, minLon, maxLon float64) {
	first := true
	for id := range component.Members {
		pt, ok := set.graph.Location(id)
		if !ok {
			continue
		}
		if first {
			minLat, maxLat = pt.Lat, pt.Lat
			minLon, maxLon = pt.Lon, pt.Lon
			first = false
			continue
		}
		if pt.Lat < minLat {
			minLat = pt.Lat
		}
		if pt.Lat > maxLat {
			maxLat = pt.Lat
		}
		if pt.Lon < minLon {
			minLon = pt.Lon
		}
		if pt.Lon > maxLon {
			maxLon = pt.Lon
		}
	}
	return minLat, maxLat, minLon, maxLon
}
