package roadnet

import (
	"context"
	"time"

	"github.com/paulmach/osm"
	"go.uber.org/zap"
)

// TrimStats counts what a trim pass saw and what it kept
type TrimStats struct {
	ProcessedNodes int
	KeptNodes      int
	ProcessedWays  int
	KeptWays       int
	Relations      int
}

// Trimmer filters an OSM stream down to a set of node ids, usually the
// members of the largest connected component. Elements pass through
// unmodified; the trimmer only decides which ones to write.
type Trimmer struct {
	keep   map[osm.NodeID]struct{}
	logger *zap.Logger
}

// NewTrimmer creates a Trimmer keeping the given node ids
func NewTrimmer(keep map[osm.NodeID]struct{}, logger *zap.Logger) *Trimmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Trimmer{
		keep:   keep,
		logger: logger,
	}
}

// Run copies the source to the sink in a single pass. Nodes are kept when
// their id is in the keep set. Ways are kept when any of their references is
// in the keep set; their node lists are not rewritten, so a kept way may
// still reference trimmed nodes. Relations always pass through.
func (trimmer *Trimmer) Run(ctx context.Context, src Source, sink Sink) (TrimStats, error) {
	st := time.Now()
	sugar := trimmer.logger.Sugar()

	stats := TrimStats{}
	err := src.Iterate(ctx, ScanFilter{}, func(object osm.Object) error {
		switch element := object.(type) {
		case *osm.Node:
			stats.ProcessedNodes++
			if stats.ProcessedNodes%heartbeatNodes == 0 {
				sugar.Infof("Trimmed %d nodes, kept %d", stats.ProcessedNodes, stats.KeptNodes)
			}
			if _, ok := trimmer.keep[element.ID]; !ok {
				return nil
			}
			stats.KeptNodes++
			return sink.Write(element)
		case *osm.Way:
			stats.ProcessedWays++
			if stats.ProcessedWays%heartbeatWays == 0 {
				sugar.Infof("Trimmed %d ways, kept %d", stats.ProcessedWays, stats.KeptWays)
			}
			for _, wayNode := range element.Nodes {
				if _, ok := trimmer.keep[wayNode.ID]; ok {
					stats.KeptWays++
					return sink.Write(element)
				}
			}
			return nil
		case *osm.Relation:
			stats.Relations++
			return sink.Write(element)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	sugar.Infof("Trim done in %v: kept %d of %d nodes, %d of %d ways, %d relations", time.Since(st), stats.KeptNodes, stats.ProcessedNodes, stats.KeptWays, stats.ProcessedWays, stats.Relations)
	return stats, nil
}
