package roadnet

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
)

const mphToKmh = 1.609344

// SimplifyNodeRefs reduces a way's node references to its endpoints plus any
// interior node present in the kept set. Interior nodes equal to the
// previously emitted one are suppressed, and the final endpoint is appended
// only when it differs from the last emitted node. Fewer than two input
// references yield nil.
func SimplifyNodeRefs(refs []osm.NodeID, kept KeptNodeSet) []osm.NodeID {
	if len(refs) < 2 {
		return nil
	}
	out := []osm.NodeID{refs[0]}
	for _, ref := range refs[1 : len(refs)-1] {
		if kept.Has(ref) && ref != out[len(out)-1] {
			out = append(out, ref)
		}
	}
	if last := refs[len(refs)-1]; last != out[len(out)-1] {
		out = append(out, last)
	}
	return out
}

// ComputeSegmentLengths walks the original references accumulating great
// circle hop distances, closing a segment at every simplified node after the
// first and stopping at the last one. References without an indexed location
// contribute nothing to the walk. The segment list is padded with zeros or
// truncated to exactly len(simplified)-1 entries; lengths are rounded to
// whole meter values.
func ComputeSegmentLengths(refs []osm.NodeID, simplified []osm.NodeID, index LocationIndex) (int, []int) {
	if len(simplified) < 2 {
		return 0, nil
	}
	simplifiedSet := make(map[osm.NodeID]struct{}, len(simplified))
	for _, ref := range simplified {
		simplifiedSet[ref] = struct{}{}
	}
	first := simplified[0]
	last := simplified[len(simplified)-1]

	total := 0.0
	segment := 0.0
	segments := make([]float64, 0, len(simplified)-1)
	var prev GeoPoint
	havePrev := false
	for _, ref := range refs {
		loc, ok := index.Get(ref)
		if ok && havePrev {
			segment += greatCircleDistance(prev, loc)
		}
		if ok {
			prev = loc
			havePrev = true
		}
		if _, isKept := simplifiedSet[ref]; isKept && ref != first {
			segments = append(segments, segment)
			total += segment
			segment = 0.0
			if ref == last {
				break
			}
		}
	}

	want := len(simplified) - 1
	for len(segments) < want {
		segments = append(segments, 0.0)
	}
	segments = segments[:want]

	rounded := make([]int, len(segments))
	for i := range segments {
		rounded[i] = int(math.Round(segments[i]))
	}
	return int(math.Round(total)), rounded
}

// ParseMaxspeedKmh parses a maxspeed tag value into km/h. The unit suffixes
// "km/h" and "kph" are stripped before the leading numeric token is parsed;
// a value mentioning "mph" anywhere is converted. Anything without a leading
// number is rejected.
func ParseMaxspeedKmh(raw string) (float64, bool) {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	cleaned := strings.ReplaceAll(lowered, "km/h", "")
	cleaned = strings.ReplaceAll(cleaned, "kph", "")
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return 0, false
	}
	speed, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	if strings.Contains(lowered, "mph") {
		speed *= mphToKmh
	}
	return speed, true
}
