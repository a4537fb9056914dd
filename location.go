package roadnet

import (
	"fmt"
	"math"

	"github.com/paulmach/osm"
)

// Location index backends selectable by name.
const (
	IndexMemory     = "memory"
	IndexSparseFile = "sparse-file"
	IndexLevelDB    = "leveldb"
)

// LocationIndex maps node identifiers to coordinates while elements stream by.
// An index is owned by exactly one pipeline stage for the duration of one run
// and is not safe for concurrent use. Get reports absence instead of failing:
// missing coordinates are tolerated by every consumer, distance accumulation
// just skips the hop. I/O errors of disk backends are raised on Set and on
// Close.
type LocationIndex interface {
	Set(id osm.NodeID, pt GeoPoint) error
	Get(id osm.NodeID) (GeoPoint, bool)
	Close() error
}

// NewLocationIndex creates a backend by name. dir is where disk backends place
// their files, empty means the system temporary directory.
func NewLocationIndex(backend string, dir string) (LocationIndex, error) {
	switch backend {
	case IndexMemory, "":
		return NewMemoryLocationIndex(), nil
	case IndexSparseFile:
		return NewSparseFileIndex(dir, defaultCachedPages)
	case IndexLevelDB:
		return NewLevelDBIndex(dir)
	}
	return nil, fmt.Errorf("Location index backend '%s' is not handled yet", backend)
}

// MemoryLocationIndex keeps every coordinate in a plain map. Fine for city
// sized extracts and for tests, planet scale inputs should use a disk backend.
type MemoryLocationIndex struct {
	locations map[osm.NodeID]GeoPoint
}

// NewMemoryLocationIndex creates an empty in-memory index
func NewMemoryLocationIndex() *MemoryLocationIndex {
	return &MemoryLocationIndex{
		locations: make(map[osm.NodeID]GeoPoint),
	}
}

// Set stores the coordinate for the given node
func (index *MemoryLocationIndex) Set(id osm.NodeID, pt GeoPoint) error {
	index.locations[id] = pt
	return nil
}

// Get returns the stored coordinate, if any
func (index *MemoryLocationIndex) Get(id osm.NodeID) (GeoPoint, bool) {
	pt, ok := index.locations[id]
	return pt, ok
}

// Close is a no-op for the in-memory index
func (index *MemoryLocationIndex) Close() error {
	return nil
}

// Disk backends store a coordinate pair packed into 8 bytes: two int32 values
// scaled to 1e-7 degrees, which is the native OSM precision.
const coordScale = 1e7

// packLocation encodes a coordinate pair into a single uint64. The zero value
// marks an empty slot, so the one point packing to exactly zero, 0°N 0°E, is
// nudged by one scale unit (about a centimeter).
func packLocation(pt GeoPoint) uint64 {
	lat := int32(math.Round(pt.Lat * coordScale))
	lon := int32(math.Round(pt.Lon * coordScale))
	packed := uint64(uint32(lat))<<32 | uint64(uint32(lon))
	if packed == 0 {
		packed = 1
	}
	return packed
}

// unpackLocation decodes a value produced by packLocation
func unpackLocation(packed uint64) GeoPoint {
	lat := int32(packed >> 32)
	lon := int32(packed & 0xFFFFFFFF)
	return GeoPoint{
		Lat: float64(lat) / coordScale,
		Lon: float64(lon) / coordScale,
	}
}
