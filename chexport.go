package roadnet

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/LdDl/ch"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ExportCH exports the graph for contraction hierarchies based routing.
// Edge weights are great circle lengths in meters; oneway edges go in a
// single direction, all others get a reverse twin. A non-nil members set
// restricts the export to those nodes, typically the largest component.
//
// Given out.csv this writes out.csv (edges), out_vertices.csv and, when
// contract is set, out_shortcuts.csv after preparing the hierarchy.
func ExportCH(graph *Graph, members map[osm.NodeID]struct{}, fileName string, contract bool, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()
	st := time.Now()

	included := func(id osm.NodeID) bool {
		if members == nil {
			return true
		}
		_, ok := members[id]
		return ok
	}

	chGraph := ch.Graph{}
	vertexGeoms := make(map[int64]GeoPoint)
	for _, id := range graph.Nodes() {
		if !included(id) {
			continue
		}
		if err := chGraph.CreateVertex(int64(id)); err != nil {
			return errors.Wrap(err, "Can't add vertex")
		}
		pt, _ := graph.Location(id)
		vertexGeoms[int64(id)] = pt
	}

	type exportEdge struct {
		from   osm.NodeID
		to     osm.NodeID
		weight float64
		wasOne bool
	}
	exportEdges := []exportEdge{}
	addEdge := func(edge exportEdge) error {
		if err := chGraph.AddEdge(int64(edge.from), int64(edge.to), edge.weight); err != nil {
			return errors.Wrap(err, "Can't add edge")
		}
		exportEdges = append(exportEdges, edge)
		return nil
	}
	for _, edge := range graph.Edges() {
		if !included(edge.From) || !included(edge.To) {
			continue
		}
		fromPt, _ := graph.Location(edge.From)
		toPt, _ := graph.Location(edge.To)
		weight := greatCircleDistance(fromPt, toPt)
		if err := addEdge(exportEdge{from: edge.From, to: edge.To, weight: weight, wasOne: edge.Oneway}); err != nil {
			return err
		}
		if !edge.Oneway {
			if err := addEdge(exportEdge{from: edge.To, to: edge.From, weight: weight}); err != nil {
				return err
			}
		}
	}
	sugar.Infof("Prepared routing graph in %v: %d vertices, %d directed edges", time.Since(st), len(vertexGeoms), len(exportEdges))

	fnamePart := strings.Split(fileName, ".csv")[0]

	fileEdges, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer fileEdges.Close()
	writerEdges := csv.NewWriter(fileEdges)
	defer writerEdges.Flush()
	writerEdges.Comma = ';'
	err = writerEdges.Write([]string{"from_vertex_id", "to_vertex_id", "weight", "geom", "was_one_way"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, edge := range exportEdges {
		fromPt := vertexGeoms[int64(edge.from)]
		toPt := vertexGeoms[int64(edge.to)]
		geom := orb.LineString{
			orb.Point{fromPt.Lon, fromPt.Lat},
			orb.Point{toPt.Lon, toPt.Lat},
		}
		err = writerEdges.Write([]string{
			strconv.FormatInt(int64(edge.from), 10),
			strconv.FormatInt(int64(edge.to), 10),
			strconv.FormatFloat(edge.weight, 'f', 2, 64),
			wkt.MarshalString(geom),
			strconv.FormatBool(edge.wasOne),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}

	if contract {
		st = time.Now()
		chGraph.PrepareContractionHierarchies()
		sugar.Infof("Contraction hierarchies prepared in %v", time.Since(st))
	}

	fileVertices, err := os.Create(fnamePart + "_vertices.csv")
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer fileVertices.Close()
	writerVertices := csv.NewWriter(fileVertices)
	defer writerVertices.Flush()
	writerVertices.Comma = ';'
	err = writerVertices.Write([]string{"vertex_id", "order_pos", "importance", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for i := range chGraph.Vertices {
		pt := vertexGeoms[chGraph.Vertices[i].Label]
		err = writerVertices.Write([]string{
			strconv.FormatInt(chGraph.Vertices[i].Label, 10),
			strconv.Itoa(chGraph.Vertices[i].OrderPos()),
			strconv.Itoa(chGraph.Vertices[i].Importance()),
			wkt.MarshalString(orb.Point{pt.Lon, pt.Lat}),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}

	if contract {
		if err := chGraph.ExportShortcutsToFile(fnamePart + "_shortcuts.csv"); err != nil {
			return errors.Wrap(err, "Can't export shortcuts")
		}
	}
	return nil
}
