package roadnet

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/osm"
)

func checkRoundtrip(t *testing.T, index LocationIndex, id osm.NodeID, pt GeoPoint) {
	t.Helper()
	got, ok := index.Get(id)
	if !ok {
		t.Errorf("Node %d must be present in the index", id)
		return
	}
	if math.Abs(got.Lat-pt.Lat) > 1e-6 || math.Abs(got.Lon-pt.Lon) > 1e-6 {
		t.Errorf("Location of node %d must be %v, but got %v", id, pt, got)
	}
}

func TestLocationIndexBackends(t *testing.T) {
	points := map[osm.NodeID]GeoPoint{
		1:          {Lat: 55.7558, Lon: 37.6173},
		2:          {Lat: -33.8688, Lon: 151.2093},
		3:          {Lat: 0.0, Lon: 0.0},
		4:          {Lat: 89.9, Lon: -179.9},
		1234567890: {Lat: 1.5, Lon: -1.5},
	}
	for _, backend := range []string{IndexMemory, IndexSparseFile, IndexLevelDB} {
		index, err := NewLocationIndex(backend, t.TempDir())
		if err != nil {
			t.Errorf("Backend '%s' must open, but got %v", backend, err)
			continue
		}
		for id, pt := range points {
			if err := index.Set(id, pt); err != nil {
				t.Errorf("Backend '%s' must store node %d, but got %v", backend, id, err)
			}
		}
		for id, pt := range points {
			checkRoundtrip(t, index, id, pt)
		}
		if _, ok := index.Get(555); ok {
			t.Errorf("Backend '%s' must not resolve an unknown node", backend)
		}
		if err := index.Close(); err != nil {
			t.Errorf("Backend '%s' must close cleanly, but got %v", backend, err)
		}
	}
}

func TestNewLocationIndexUnknownBackend(t *testing.T) {
	_, err := NewLocationIndex("redis", t.TempDir())
	if err == nil {
		t.Errorf("Unknown backend must be rejected")
		return
	}
	if !strings.Contains(err.Error(), "is not handled yet") {
		t.Errorf("Unknown backend error must name the backend, but got '%v'", err)
	}
}

func TestSparseFileIndexEviction(t *testing.T) {
	index, err := NewSparseFileIndex(t.TempDir(), 2)
	if err != nil {
		t.Error(err)
		return
	}
	defer index.Close()

	// Far apart ids land on different pages, forcing evictions with only two
	// cached pages.
	ids := []osm.NodeID{0, 5000, 10000, 15000, 20000}
	for i, id := range ids {
		pt := GeoPoint{Lat: float64(i) * 0.1, Lon: float64(i) * 0.2}
		if err := index.Set(id, pt); err != nil {
			t.Error(err)
			return
		}
	}
	for i, id := range ids {
		checkRoundtrip(t, index, id, GeoPoint{Lat: float64(i) * 0.1, Lon: float64(i) * 0.2})
	}
}

func TestSparseFileIndexNegativeID(t *testing.T) {
	index, err := NewSparseFileIndex(t.TempDir(), 4)
	if err != nil {
		t.Error(err)
		return
	}
	defer index.Close()

	if err := index.Set(-5, GeoPoint{Lat: 1.0, Lon: 1.0}); err == nil {
		t.Errorf("Negative node id must be rejected")
	}
	if _, ok := index.Get(-5); ok {
		t.Errorf("Negative node id must not resolve")
	}
}

func TestPackLocationZero(t *testing.T) {
	if packLocation(GeoPoint{Lat: 0.0, Lon: 0.0}) == 0 {
		t.Errorf("Packed null island must not collide with the empty slot value")
	}
	pt := unpackLocation(packLocation(GeoPoint{Lat: 0.0, Lon: 0.0}))
	if math.Abs(pt.Lat) > 1e-6 || math.Abs(pt.Lon) > 1e-6 {
		t.Errorf("Null island must survive the roundtrip, but got %v", pt)
	}
}

func TestPackLocationPrecision(t *testing.T) {
	points := []GeoPoint{
		{Lat: 55.7558123, Lon: 37.6173456},
		{Lat: -0.0000001, Lon: 0.0000001},
		{Lat: 90.0, Lon: 180.0},
		{Lat: -90.0, Lon: -180.0},
	}
	for _, pt := range points {
		got := unpackLocation(packLocation(pt))
		if math.Abs(got.Lat-pt.Lat) > 1e-6 || math.Abs(got.Lon-pt.Lon) > 1e-6 {
			t.Errorf("Point %v must survive the roundtrip, but got %v", pt, got)
		}
	}
}
