package roadnet

import (
	"sort"

	"github.com/paulmach/osm"
)

// Curated highway allow-list built from tag frequency analysis of real extracts:
// every value with noticeable share that is usable for movement.
var curatedHighwayValues = []string{
	"motorway", "trunk", "primary", "secondary", "tertiary",
	"unclassified", "residential",
	"motorway_link", "trunk_link", "primary_link", "secondary_link", "tertiary_link",
	"living_street", "service", "busway",
	"track", "path", "footway", "cycleway", "bridleway",
	"pedestrian", "steps",
	"construction",
}

// Highway values the curated profile deliberately leaves out even though they
// show up in extracts. Kept for reporting, the classifier never consults it.
var curatedExcludedHighwayValues = []string{
	"platform", "proposed", "services", "elevator", "bus_stop", "rest_area", "raceway",
}

// Extra values accepted by the broad profile on top of the curated set.
var broadExtraHighwayValues = []string{
	"bus_guideway", "raceway", "road", "escape", "corridor",
}

// RoutingProfile decides which ways are usable for movement. The highway
// allow-list is fixed at construction time, no globals involved, so callers can
// run different profiles side by side.
type RoutingProfile struct {
	Name            string
	allowedHighways map[string]struct{}
}

// NewRoutingProfile creates a profile accepting the given highway values
func NewRoutingProfile(name string, allowedHighways []string) *RoutingProfile {
	profile := RoutingProfile{
		Name:            name,
		allowedHighways: make(map[string]struct{}, len(allowedHighways)),
	}
	for _, value := range allowedHighways {
		profile.allowedHighways[value] = struct{}{}
	}
	return &profile
}

// CuratedProfile returns the frequency-curated profile
func CuratedProfile() *RoutingProfile {
	return NewRoutingProfile("curated", curatedHighwayValues)
}

// BroadProfile returns the permissive profile accepting every highway value
// that can carry any kind of traffic
func BroadProfile() *RoutingProfile {
	return NewRoutingProfile("broad", append(append([]string{}, curatedHighwayValues...), broadExtraHighwayValues...))
}

// CuratedExcludedHighways returns highway values the curated profile leaves out,
// for annotating frequency reports
func CuratedExcludedHighways() []string {
	out := make([]string, len(curatedExcludedHighwayValues))
	copy(out, curatedExcludedHighwayValues)
	return out
}

// IsRoutable reports whether a way with the given tags is usable for movement.
// The highway value has to be in the allow-list, and none of the access tags
// may forbid it. Pure function of the tags, safe to call from anywhere.
func (profile *RoutingProfile) IsRoutable(tags osm.Tags) bool {
	if _, ok := profile.allowedHighways[tags.Find("highway")]; !ok {
		return false
	}
	for _, key := range accessTagKeys {
		if _, forbidden := accessForbiddenValues[tags.Find(key)]; forbidden {
			return false
		}
	}
	return true
}

// AllowsHighway checks if a bare highway value is in the allow-list
func (profile *RoutingProfile) AllowsHighway(value string) bool {
	_, ok := profile.allowedHighways[value]
	return ok
}

// Highways returns the allow-list as a sorted slice
func (profile *RoutingProfile) Highways() []string {
	out := make([]string, 0, len(profile.allowedHighways))
	for value := range profile.allowedHighways {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
