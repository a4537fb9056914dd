package roadnet

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"github.com/tidwall/rtree"
	"go.uber.org/zap"
)

const (
	addressSearchRadiusMeters = 250.0
	addressSearchGrowth       = 4.0
	addressSearchMaxRadius    = 16000.0

	heartbeatAddresses = 10000
)

// Address is a point of interest carrying postal tags. For way addresses the
// point is the location of the way's middle node reference.
type Address struct {
	ID          int64
	Point       GeoPoint
	Street      string
	Housenumber string
	Postcode    string
	City        string
}

func hasAddressTags(tags osm.Tags) bool {
	for _, tag := range tags {
		if strings.HasPrefix(tag.Key, tagAddrPrefix) {
			return true
		}
	}
	return false
}

func addressFromTags(id int64, pt GeoPoint, tags osm.Tags) Address {
	return Address{
		ID:          id,
		Point:       pt,
		Street:      tags.Find(tagAddrStreet),
		Housenumber: tags.Find(tagAddrHousenumber),
		Postcode:    tags.Find(tagAddrPostcode),
		City:        tags.Find(tagAddrCity),
	}
}

// ExtractAddresses streams the source once and collects every element
// carrying a tag under the addr: prefix. Node locations are stored in the
// given index as they pass by, so way addresses can be anchored at their
// middle node; the index stays owned by the caller. Nodes are expected
// before ways, a way address whose middle node has not been indexed yet is
// dropped.
func ExtractAddresses(ctx context.Context, src Source, index LocationIndex, logger *zap.Logger) ([]Address, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()
	st := time.Now()

	addresses := []Address{}
	processedNodes := 0
	err := src.Iterate(ctx, ScanFilter{SkipRelations: true}, func(object osm.Object) error {
		switch element := object.(type) {
		case *osm.Node:
			processedNodes++
			if processedNodes%heartbeatNodes == 0 {
				sugar.Infof("Indexed %d nodes, found %d addresses", processedNodes, len(addresses))
			}
			pt := GeoPoint{Lat: element.Lat, Lon: element.Lon}
			if err := index.Set(element.ID, pt); err != nil {
				return errors.Wrap(err, "Can't index node location")
			}
			if hasAddressTags(element.Tags) {
				addresses = append(addresses, addressFromTags(int64(element.ID), pt, element.Tags))
			}
		case *osm.Way:
			if !hasAddressTags(element.Tags) {
				return nil
			}
			if len(element.Nodes) == 0 {
				return nil
			}
			middle := element.Nodes[len(element.Nodes)/2].ID
			pt, ok := index.Get(middle)
			if !ok {
				return nil
			}
			addresses = append(addresses, addressFromTags(int64(element.ID), pt, element.Tags))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sugar.Infof("Address extraction done in %v: %d addresses", time.Since(st), len(addresses))
	return addresses, nil
}

// MappedAddress ties an address to its closest graph node
type MappedAddress struct {
	Address        Address
	NodeID         osm.NodeID
	NodePoint      GeoPoint
	DistanceMeters float64
}

// MapAddressesToNetwork finds the closest graph node for every address. Graph
// nodes go into an R-tree; each address is resolved with a bounding box
// search that starts small and widens until a candidate appears, falling back
// to a full scan when even the widest box stays empty. Among candidates the
// smallest great circle distance wins.
func MapAddressesToNetwork(addresses []Address, graph *Graph, logger *zap.Logger) []MappedAddress {
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()
	st := time.Now()

	var tree rtree.RTreeG[osm.NodeID]
	for _, id := range graph.Nodes() {
		pt, _ := graph.Location(id)
		corner := [2]float64{pt.Lon, pt.Lat}
		tree.Insert(corner, corner, id)
	}

	mapped := make([]MappedAddress, 0, len(addresses))
	for i, address := range addresses {
		if (i+1)%heartbeatAddresses == 0 {
			sugar.Infof("Mapped %d of %d addresses", i+1, len(addresses))
		}
		nodeID, found := nearestTreeNode(&tree, graph, address.Point)
		if !found {
			continue
		}
		nodePt, _ := graph.Location(nodeID)
		mapped = append(mapped, MappedAddress{
			Address:        address,
			NodeID:         nodeID,
			NodePoint:      nodePt,
			DistanceMeters: greatCircleDistance(address.Point, nodePt),
		})
	}

	sugar.Infof("Address mapping done in %v: %d of %d addresses mapped", time.Since(st), len(mapped), len(addresses))
	return mapped
}

func nearestTreeNode(tree *rtree.RTreeG[osm.NodeID], graph *Graph, pt GeoPoint) (osm.NodeID, bool) {
	var bestID osm.NodeID
	best := 0.0
	found := false
	consider := func(id osm.NodeID) {
		loc, ok := graph.Location(id)
		if !ok {
			return
		}
		dist := greatCircleDistance(pt, loc)
		if !found || dist < best {
			found = true
			best = dist
			bestID = id
		}
	}

	for radius := addressSearchRadiusMeters; radius <= addressSearchMaxRadius; radius *= addressSearchGrowth {
		min, max := boundingBoxAround(pt, radius)
		tree.Search(min, max, func(_, _ [2]float64, id osm.NodeID) bool {
			consider(id)
			return true
		})
		if found {
			return bestID, true
		}
	}
	for _, id := range graph.Nodes() {
		consider(id)
	}
	return bestID, found
}

// WriteMappedAddressesCSV writes mapped addresses as a ';' separated CSV
// file, gzip compressed when the file name ends with ".gz"
func WriteMappedAddressesCSV(fileName string, mapped []MappedAddress) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "Can't create output file")
	}
	defer file.Close()

	var gzw *gzip.Writer
	writer := csv.NewWriter(file)
	if strings.HasSuffix(fileName, ".gz") {
		gzw = gzip.NewWriter(file)
		writer = csv.NewWriter(gzw)
	}
	writer.Comma = ';'

	err = writer.Write([]string{"address_id", "address_lon", "address_lat", "addr:street", "addr:housenumber", "addr:postcode", "addr:city", "closest_node_id", "closest_node_lon", "closest_node_lat", "distance_meters"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, entry := range mapped {
		err = writer.Write([]string{
			strconv.FormatInt(entry.Address.ID, 10),
			formatCoord(entry.Address.Point.Lon),
			formatCoord(entry.Address.Point.Lat),
			entry.Address.Street,
			entry.Address.Housenumber,
			entry.Address.Postcode,
			entry.Address.City,
			strconv.FormatInt(int64(entry.NodeID), 10),
			formatCoord(entry.NodePoint.Lon),
			formatCoord(entry.NodePoint.Lat),
			fmt.Sprintf("%.2f", entry.DistanceMeters),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, "Can't flush records")
	}
	if gzw != nil {
		if err := gzw.Close(); err != nil {
			return errors.Wrap(err, "Can't finalize gzip stream")
		}
	}
	return nil
}

func formatCoord(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
