package roadnet

import (
	"fmt"
	"math"
)

const (
	earthRadiusMeters = 6371000.0
	pi180             = math.Pi / 180.0
	pi180Rev          = 180.0 / math.Pi

	// Rough meters per degree of latitude, used only to size search windows.
	metersPerDegree = 111320.0
)

// GeoPoint representation of point on Earth
type GeoPoint struct {
	Lat float64
	Lon float64
}

// String returns pretty printed value for GeoPoint
func (gp GeoPoint) String() string {
	return fmt.Sprintf("Lon: %f | Lat: %f", gp.Lon, gp.Lat)
}

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// radiansToDegrees r = deg * 180 / pi
func radiansToDegrees(d float64) float64 {
	return d * pi180Rev
}

// greatCircleDistance returns haversine distance between two geo-points (meters)
func greatCircleDistance(p, q GeoPoint) float64 {
	lat1 := degreesToRadians(p.Lat)
	lon1 := degreesToRadians(p.Lon)
	lat2 := degreesToRadians(q.Lat)
	lon2 := degreesToRadians(q.Lon)
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * earthRadiusMeters
}

// getSphericalLength returns length for given line (meters)
func getSphericalLength(line []GeoPoint) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += greatCircleDistance(line[i-1], line[i])
	}
	return totalLength
}

// findDistance returns distance between two points (assuming they are Euclidean: Lon == X, Lat == Y)
func findDistance(p, q GeoPoint) float64 {
	xdistance := p.Lon - q.Lon
	ydistance := p.Lat - q.Lat
	return math.Sqrt(xdistance*xdistance + ydistance*ydistance)
}

// boundingBoxAround returns [lon, lat] corners of a box covering at least the given
// radius in meters around the point. Longitude span widens with latitude; near the
// poles it degrades to the whole longitude range.
func boundingBoxAround(pt GeoPoint, radiusMeters float64) (min, max [2]float64) {
	dLat := radiusMeters / metersPerDegree
	cosLat := math.Cos(degreesToRadians(pt.Lat))
	dLon := 180.0
	if cosLat > 1e-6 {
		dLon = radiusMeters / (metersPerDegree * cosLat)
	}
	min = [2]float64{pt.Lon - dLon, pt.Lat - dLat}
	max = [2]float64{pt.Lon + dLon, pt.Lat + dLat}
	return min, max
}
