package roadnet

import (
	"os"

	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ComponentsToGeoJSON builds a feature collection for the top components by
// rank: a point feature at each component's sample node and a polygon feature
// tracing its bounding box. A non-positive limit includes every component.
func ComponentsToGeoJSON(set *ComponentSet, limit int) *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, component := range set.Components() {
		if limit > 0 && component.Rank > limit {
			break
		}
		sample := geojson.NewPointFeature([]float64{component.Sample.Lon, component.Sample.Lat})
		sample.SetProperty("rank", component.Rank)
		sample.SetProperty("component_id", component.ID)
		sample.SetProperty("size", component.Size)
		sample.SetProperty("percentage", component.Percent)
		sample.SetProperty("node_id", int64(component.SampleID))
		collection.AddFeature(sample)

		minLat, maxLat, minLon, maxLon := set.BBox(component)
		ring := [][]float64{
			{minLon, minLat},
			{maxLon, minLat},
			{maxLon, maxLat},
			{minLon, maxLat},
			{minLon, minLat},
		}
		bbox := geojson.NewPolygonFeature([][][]float64{ring})
		bbox.SetProperty("rank", component.Rank)
		bbox.SetProperty("component_id", component.ID)
		bbox.SetProperty("size", component.Size)
		collection.AddFeature(bbox)
	}
	return collection
}

// WriteComponentsGeoJSON writes the component feature collection to a file
func WriteComponentsGeoJSON(fileName string, set *ComponentSet, limit int) error {
	data, err := ComponentsToGeoJSON(set, limit).MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Can't marshal GeoJSON")
	}
	if err := os.WriteFile(fileName, data, 0644); err != nil {
		return errors.Wrap(err, "Can't write GeoJSON file")
	}
	return nil
}
