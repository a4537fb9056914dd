package roadnet

import (
	"math"
	"testing"
)

func TestGreatCircleDistance(t *testing.T) {
	p1 := GeoPoint{
		Lon: 37.6417350769043,
		Lat: 55.751849391735284,
	}
	p2 := GeoPoint{
		Lon: 37.668514251708984,
		Lat: 55.73261980350401,
	}
	res := 2716.93096539 // meters
	gcd := greatCircleDistance(p1, p2)
	if math.Abs(gcd-res) > 0.5 {
		t.Errorf("Great circle dist must be %f, but got %f", res, gcd)
	}
}

func TestGreatCircleDistanceEquator(t *testing.T) {
	p1 := GeoPoint{Lon: 0.0, Lat: 0.0}
	p2 := GeoPoint{Lon: 0.001, Lat: 0.0}
	gcd := greatCircleDistance(p1, p2)
	if gcd < 90.0 || gcd > 140.0 {
		t.Errorf("Distance of 0.001 degree on the equator must be between 90 and 140 meters, but got %f", gcd)
	}
}

func TestSphericalLength(t *testing.T) {
	line := []GeoPoint{
		{Lon: 0.000, Lat: 0.0},
		{Lon: 0.001, Lat: 0.0},
		{Lon: 0.002, Lat: 0.0},
		{Lon: 0.003, Lat: 0.0},
		{Lon: 0.004, Lat: 0.0},
	}
	hop := greatCircleDistance(line[0], line[1])
	total := getSphericalLength(line)
	if math.Abs(total-4*hop) > 1e-6 {
		t.Errorf("Length of the line must be %f, but got %f", 4*hop, total)
	}
	if getSphericalLength(line[:1]) != 0.0 {
		t.Errorf("Length of a single point must be 0, but got %f", getSphericalLength(line[:1]))
	}
}

func TestFindDistance(t *testing.T) {
	p1 := GeoPoint{Lon: 0.0, Lat: 0.0}
	p2 := GeoPoint{Lon: 3.0, Lat: 4.0}
	res := 5.0
	dist := findDistance(p1, p2)
	if dist != res {
		t.Errorf("Euclidean distance must be %f, but got %f", res, dist)
	}
}

func TestBoundingBoxAround(t *testing.T) {
	pt := GeoPoint{Lon: 37.6, Lat: 55.7}
	min, max := boundingBoxAround(pt, 1000.0)
	if min[0] >= pt.Lon || max[0] <= pt.Lon || min[1] >= pt.Lat || max[1] <= pt.Lat {
		t.Errorf("Box [%v %v] must contain the point %v", min, max, pt)
	}
	wantLat := 1000.0 / metersPerDegree
	if math.Abs((max[1]-min[1])-2*wantLat) > 1e-9 {
		t.Errorf("Latitude span must be %f, but got %f", 2*wantLat, max[1]-min[1])
	}
	if max[0]-min[0] <= max[1]-min[1] {
		t.Errorf("Longitude span %f must widen beyond latitude span %f at latitude %f", max[0]-min[0], max[1]-min[1], pt.Lat)
	}

	min, max = boundingBoxAround(GeoPoint{Lon: 0.0, Lat: 90.0}, 1000.0)
	if max[0]-min[0] != 360.0 {
		t.Errorf("Longitude span at the pole must be %f, but got %f", 360.0, max[0]-min[0])
	}
}
