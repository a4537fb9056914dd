package roadnet

import (
	"testing"

	"github.com/paulmach/osm"
)

func TestIsRoutableHighways(t *testing.T) {
	profile := CuratedProfile()
	cases := []struct {
		highway  string
		routable bool
	}{
		{"motorway", true},
		{"residential", true},
		{"footway", true},
		{"cycleway", true},
		{"steps", true},
		{"construction", true},
		{"service", true},
		{"proposed", false},
		{"platform", false},
		{"raceway", false},
		{"bus_stop", false},
		{"", false},
	}
	for _, c := range cases {
		tags := osm.Tags{{Key: "highway", Value: c.highway}}
		if got := profile.IsRoutable(tags); got != c.routable {
			t.Errorf("Routability of highway='%s' must be %v, but got %v", c.highway, c.routable, got)
		}
	}
	if profile.IsRoutable(osm.Tags{{Key: "building", Value: "yes"}}) {
		t.Errorf("Way without a highway tag must not be routable")
	}
	if profile.IsRoutable(nil) {
		t.Errorf("Way without tags must not be routable")
	}
}

func TestIsRoutableAccess(t *testing.T) {
	profile := CuratedProfile()
	cases := []struct {
		key      string
		value    string
		routable bool
	}{
		{"access", "no", false},
		{"access", "private", false},
		{"access", "yes", true},
		{"access", "destination", true},
		{"motor_vehicle", "no", false},
		{"motor_vehicle", "private", false},
		{"motor_vehicle", "yes", true},
		{"vehicle", "no", false},
		{"vehicle", "private", false},
		{"vehicle", "permissive", true},
	}
	for _, c := range cases {
		tags := osm.Tags{
			{Key: "highway", Value: "motorway"},
			{Key: c.key, Value: c.value},
		}
		if got := profile.IsRoutable(tags); got != c.routable {
			t.Errorf("Routability of motorway with %s='%s' must be %v, but got %v", c.key, c.value, c.routable, got)
		}
	}
}

func TestBroadProfile(t *testing.T) {
	curated := CuratedProfile()
	broad := BroadProfile()
	extras := []string{"raceway", "road", "escape", "corridor", "bus_guideway"}
	for _, highway := range extras {
		tags := osm.Tags{{Key: "highway", Value: highway}}
		if curated.IsRoutable(tags) {
			t.Errorf("Highway '%s' must not be routable in the curated profile", highway)
		}
		if !broad.IsRoutable(tags) {
			t.Errorf("Highway '%s' must be routable in the broad profile", highway)
		}
	}
	if !broad.IsRoutable(osm.Tags{{Key: "highway", Value: "residential"}}) {
		t.Errorf("Broad profile must include every curated highway value")
	}
}

func TestNewRoutingProfile(t *testing.T) {
	profile := NewRoutingProfile("cargo", []string{"motorway", "trunk"})
	if !profile.AllowsHighway("motorway") {
		t.Errorf("Custom profile must allow 'motorway'")
	}
	if profile.AllowsHighway("residential") {
		t.Errorf("Custom profile must not allow 'residential'")
	}
	if profile.IsRoutable(osm.Tags{{Key: "highway", Value: "residential"}}) {
		t.Errorf("Way with highway outside the allow list must not be routable")
	}
}

func TestCuratedExcludedHighways(t *testing.T) {
	profile := CuratedProfile()
	for _, highway := range CuratedExcludedHighways() {
		if profile.AllowsHighway(highway) {
			t.Errorf("Excluded highway '%s' must not be allowed by the curated profile", highway)
		}
	}
}

func TestIsRoutableDoesNotModifyTags(t *testing.T) {
	tags := osm.Tags{
		{Key: "highway", Value: "residential"},
		{Key: "access", Value: "no"},
	}
	profile := CuratedProfile()
	first := profile.IsRoutable(tags)
	second := profile.IsRoutable(tags)
	if first != second {
		t.Errorf("Repeated checks must agree, got %v then %v", first, second)
	}
	if len(tags) != 2 || tags[0].Value != "residential" || tags[1].Value != "no" {
		t.Errorf("Routability check must not modify the tags, got %v", tags)
	}
}
