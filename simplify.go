package roadnet

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnsortedInput is returned when a node element shows up after way
// elements have started. Simplification streams the file once and needs all
// node locations indexed before the first way arrives.
var ErrUnsortedInput = errors.New("node element encountered after way elements, input stream is not sorted")

// KeptNodeSet holds the node ids that survive topology simplification
type KeptNodeSet map[osm.NodeID]struct{}

// NewKeptNodeSet returns an empty set
func NewKeptNodeSet() KeptNodeSet {
	return make(KeptNodeSet)
}

// Add puts a node id into the set
func (set KeptNodeSet) Add(id osm.NodeID) {
	set[id] = struct{}{}
}

// Has reports whether the node id is in the set
func (set KeptNodeSet) Has(id osm.NodeID) bool {
	_, ok := set[id]
	return ok
}

// Len returns the number of node ids in the set
func (set KeptNodeSet) Len() int {
	return len(set)
}

// CollectStats counts what the kept node collection pass saw
type CollectStats struct {
	ProcessedNodes int
	ProcessedWays  int
	RoutableWays   int
}

// CollectKeptNodes scans the source once and gathers the first and last node
// reference of every routable way with at least two references. These are the
// endpoints a later simplification pass must preserve.
func CollectKeptNodes(ctx context.Context, src Source, profile *RoutingProfile, logger *zap.Logger) (KeptNodeSet, CollectStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()
	st := time.Now()

	kept := NewKeptNodeSet()
	stats := CollectStats{}
	err := src.Iterate(ctx, ScanFilter{SkipRelations: true}, func(object osm.Object) error {
		switch element := object.(type) {
		case *osm.Node:
			stats.ProcessedNodes++
			if stats.ProcessedNodes%heartbeatNodes == 0 {
				sugar.Infof("Collected over %d nodes", stats.ProcessedNodes)
			}
		case *osm.Way:
			stats.ProcessedWays++
			if stats.ProcessedWays%heartbeatWays == 0 {
				sugar.Infof("Collected %d ways, %d routable", stats.ProcessedWays, stats.RoutableWays)
			}
			if !profile.IsRoutable(element.Tags) {
				return nil
			}
			if len(element.Nodes) < 2 {
				return nil
			}
			stats.RoutableWays++
			kept.Add(element.Nodes[0].ID)
			kept.Add(element.Nodes[len(element.Nodes)-1].ID)
		}
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	sugar.Infof("Kept node collection done in %v: %d routable ways, %d kept nodes", time.Since(st), stats.RoutableWays, kept.Len())
	return kept, stats, nil
}

// SimplifyStats counts what a simplification pass saw and wrote
type SimplifyStats struct {
	ProcessedNodes   int
	ProcessedWays    int
	WrittenNodes     int
	WrittenWays      int
	SkippedShortWays int
}

// Simplifier rewrites routable ways down to their kept nodes in a single
// ordered pass, attaching length, node count and optional travel time tags.
// The input stream must deliver all nodes before the first way.
type Simplifier struct {
	profile             *RoutingProfile
	kept                KeptNodeSet
	index               LocationIndex
	ownsIndex           bool
	writeSegmentLengths bool
	logger              *zap.Logger
}

// NewSimplifier creates a Simplifier for the given profile and kept node set.
// Without WithLocationIndex an in-memory index is created and owned by the
// simplifier.
func NewSimplifier(profile *RoutingProfile, kept KeptNodeSet, options ...func(*Simplifier)) *Simplifier {
	simplifier := &Simplifier{
		profile: profile,
		kept:    kept,
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(simplifier)
	}
	if simplifier.index == nil {
		simplifier.index = NewMemoryLocationIndex()
		simplifier.ownsIndex = true
	}
	return simplifier
}

// WithLocationIndex sets the node location index. The caller stays
// responsible for closing it.
func WithLocationIndex(index LocationIndex) func(*Simplifier) {
	return func(simplifier *Simplifier) {
		simplifier.index = index
	}
}

// WithSegmentLengths toggles writing the per-segment length tag on
// simplified ways
func WithSegmentLengths(enabled bool) func(*Simplifier) {
	return func(simplifier *Simplifier) {
		simplifier.writeSegmentLengths = enabled
	}
}

// WithLogger sets the logger used for progress reporting
func WithLogger(logger *zap.Logger) func(*Simplifier) {
	return func(simplifier *Simplifier) {
		if logger != nil {
			simplifier.logger = logger
		}
	}
}

// Run streams the source once, writing kept nodes as bare coordinate nodes
// and routable ways with simplified node references. Non-routable ways and
// relations are dropped. Returns ErrUnsortedInput when a node arrives after
// the first way.
func (simplifier *Simplifier) Run(ctx context.Context, src Source, sink Sink) (SimplifyStats, error) {
	stats, err := simplifier.run(ctx, src, sink)
	if simplifier.ownsIndex {
		if closeErr := simplifier.index.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return stats, err
}

func (simplifier *Simplifier) run(ctx context.Context, src Source, sink Sink) (SimplifyStats, error) {
	sugar := simplifier.logger.Sugar()
	st := time.Now()

	stats := SimplifyStats{}
	seenWay := false
	written := make(map[osm.NodeID]struct{}, simplifier.kept.Len())
	err := src.Iterate(ctx, ScanFilter{SkipRelations: true}, func(object osm.Object) error {
		switch element := object.(type) {
		case *osm.Node:
			if seenWay {
				return ErrUnsortedInput
			}
			stats.ProcessedNodes++
			if stats.ProcessedNodes%heartbeatNodes == 0 {
				sugar.Infof("Indexed %d nodes, written %d", stats.ProcessedNodes, stats.WrittenNodes)
			}
			if err := simplifier.index.Set(element.ID, GeoPoint{Lat: element.Lat, Lon: element.Lon}); err != nil {
				return errors.Wrap(err, "Can't index node location")
			}
			if !simplifier.kept.Has(element.ID) {
				return nil
			}
			if _, ok := written[element.ID]; ok {
				return nil
			}
			written[element.ID] = struct{}{}
			stats.WrittenNodes++
			return sink.Write(&osm.Node{
				ID:      element.ID,
				Lat:     element.Lat,
				Lon:     element.Lon,
				Visible: true,
			})
		case *osm.Way:
			seenWay = true
			stats.ProcessedWays++
			if stats.ProcessedWays%heartbeatWays == 0 {
				sugar.Infof("Simplified %d ways, written %d", stats.ProcessedWays, stats.WrittenWays)
			}
			if !simplifier.profile.IsRoutable(element.Tags) {
				return nil
			}
			refs := element.Nodes.NodeIDs()
			if len(refs) < 2 {
				return nil
			}
			simplified := SimplifyNodeRefs(refs, simplifier.kept)
			if len(simplified) < 2 {
				stats.SkippedShortWays++
				return nil
			}
			totalM, segments := ComputeSegmentLengths(refs, simplified, simplifier.index)
			stats.WrittenWays++
			return sink.Write(&osm.Way{
				ID:      element.ID,
				Nodes:   wayNodesFromIDs(simplified),
				Tags:    simplifier.extendTags(element.Tags, totalM, segments, len(refs), len(simplified)),
				Visible: true,
			})
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	sugar.Infof("Simplification done in %v: written %d nodes and %d ways, skipped %d short ways", time.Since(st), stats.WrittenNodes, stats.WrittenWays, stats.SkippedShortWays)
	return stats, nil
}

// extendTags copies the way tags and attaches the simplification results.
// The original tag slice is never modified.
func (simplifier *Simplifier) extendTags(tags osm.Tags, totalM int, segments []int, origNodes, keptNodes int) osm.Tags {
	out := copyTags(tags)
	out = upsertTag(out, TagLengthMeters, strconv.Itoa(totalM))
	out = upsertTag(out, TagOrigNodes, strconv.Itoa(origNodes))
	out = upsertTag(out, TagKeptNodes, strconv.Itoa(keptNodes))
	if speed, ok := ParseMaxspeedKmh(tags.Find("maxspeed")); ok && speed > 0 {
		duration := int(math.Round(float64(totalM) / 1000.0 / speed * 3600.0))
		out = upsertTag(out, TagDurationSeconds, strconv.Itoa(duration))
	}
	if simplifier.writeSegmentLengths {
		out = upsertTag(out, TagSegmentLengths, joinSegmentLengths(segments))
	}
	return out
}

func upsertTag(tags osm.Tags, key, value string) osm.Tags {
	for i := range tags {
		if tags[i].Key == key {
			tags[i].Value = value
			return tags
		}
	}
	return append(tags, osm.Tag{Key: key, Value: value})
}

func joinSegmentLengths(segments []int) string {
	parts := make([]string, len(segments))
	for i, segment := range segments {
		parts[i] = strconv.Itoa(segment)
	}
	return strings.Join(parts, ";")
}

func wayNodesFromIDs(refs []osm.NodeID) osm.WayNodes {
	wayNodes := make(osm.WayNodes, len(refs))
	for i, ref := range refs {
		wayNodes[i] = osm.WayNode{ID: ref}
	}
	return wayNodes
}
