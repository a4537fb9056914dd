package roadnet

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// WriteComponentsCSV writes one row per connected component, largest first
func WriteComponentsCSV(fileName string, set *ComponentSet) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"rank", "component_id", "size", "percentage", "sample_lat", "sample_lon", "min_lat", "max_lat", "min_lon", "max_lon"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, component := range set.Components() {
		minLat, maxLat, minLon, maxLon := set.BBox(component)
		err = writer.Write([]string{
			strconv.Itoa(component.Rank),
			strconv.Itoa(component.ID),
			strconv.Itoa(component.Size),
			fmt.Sprintf("%.2f", component.Percent),
			formatCoord(component.Sample.Lat),
			formatCoord(component.Sample.Lon),
			formatCoord(minLat),
			formatCoord(maxLat),
			formatCoord(minLon),
			formatCoord(maxLon),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}
	return nil
}

// WriteHighwayCSV writes the highway value frequency table, most frequent
// first, with a flag telling whether the profile accepts the value
func WriteHighwayCSV(fileName string, counts map[string]int, profile *RoutingProfile) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	type highwayCount struct {
		value string
		count int
	}
	total := 0
	rows := make([]highwayCount, 0, len(counts))
	for value, count := range counts {
		rows = append(rows, highwayCount{value: value, count: count})
		total += count
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].value < rows[j].value
	})

	err = writer.Write([]string{"highway", "count", "percentage", "routable"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for _, row := range rows {
		percent := 0.0
		if total > 0 {
			percent = 100.0 * float64(row.count) / float64(total)
		}
		err = writer.Write([]string{
			row.value,
			strconv.Itoa(row.count),
			fmt.Sprintf("%.2f", percent),
			strconv.FormatBool(profile.AllowsHighway(row.value)),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}
	return nil
}

// WriteEdgesCSV writes every graph edge with its geometry in WKT
func WriteEdgesCSV(fileName string, graph *Graph) error {
	file, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()
	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"edge_id", "way_id", "source", "target", "highway", "oneway", "length_m", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}
	for i, edge := range graph.Edges() {
		from, _ := graph.Location(edge.From)
		to, _ := graph.Location(edge.To)
		geom := orb.LineString{
			orb.Point{from.Lon, from.Lat},
			orb.Point{to.Lon, to.Lat},
		}
		err = writer.Write([]string{
			strconv.Itoa(i),
			strconv.FormatInt(int64(edge.WayID), 10),
			strconv.FormatInt(int64(edge.From), 10),
			strconv.FormatInt(int64(edge.To), 10),
			edge.Highway,
			strconv.FormatBool(edge.Oneway),
			fmt.Sprintf("%.2f", greatCircleDistance(from, to)),
			wkt.MarshalString(geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write record")
		}
	}
	return nil
}
