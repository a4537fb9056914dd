package roadnet

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Profile != "curated" {
		t.Errorf("Default profile must be '%s', but got '%s'", "curated", config.Profile)
	}
	if config.ScannerProcs != 4 {
		t.Errorf("Default scanner procs must be %d, but got %d", 4, config.ScannerProcs)
	}
	if config.WriteSegmentLengths {
		t.Errorf("Segment lengths must be off by default")
	}
	if config.LocationIndex.Backend != IndexMemory {
		t.Errorf("Default location index backend must be '%s', but got '%s'", IndexMemory, config.LocationIndex.Backend)
	}

	profile, err := config.BuildProfile()
	if err != nil {
		t.Error(err)
		return
	}
	if !profile.AllowsHighway("residential") || profile.AllowsHighway("road") {
		t.Errorf("Default profile must be the curated one")
	}
}

func TestReadConfigFile(t *testing.T) {
	content := `profile: broad
extra_highways:
  - crossing
write_segment_lengths: true
scanner_procs: 2
location_index:
  backend: sparse-file
  cached_pages: 16
`
	fileName := filepath.Join(t.TempDir(), "roadnet.yaml")
	if err := os.WriteFile(fileName, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := ReadConfig(fileName)
	if err != nil {
		t.Error(err)
		return
	}
	if config.Profile != "broad" {
		t.Errorf("Profile must be '%s', but got '%s'", "broad", config.Profile)
	}
	if !config.WriteSegmentLengths {
		t.Errorf("Segment lengths must be enabled by the file")
	}
	if config.ScannerProcs != 2 {
		t.Errorf("Scanner procs must be %d, but got %d", 2, config.ScannerProcs)
	}
	if config.LocationIndex.Backend != IndexSparseFile || config.LocationIndex.CachedPages != 16 {
		t.Errorf("Location index settings must survive, but got %+v", config.LocationIndex)
	}

	profile, err := config.BuildProfile()
	if err != nil {
		t.Error(err)
		return
	}
	if !profile.AllowsHighway("road") {
		t.Errorf("Broad profile must allow 'road'")
	}
	if !profile.AllowsHighway("crossing") {
		t.Errorf("Extra highway 'crossing' must extend the profile")
	}
	if !profile.AllowsHighway("residential") {
		t.Errorf("Extended profile must keep the base values")
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("Missing config file must be reported")
	}
}

func TestBuildProfileUnknown(t *testing.T) {
	config := DefaultConfig()
	config.Profile = "martian"
	if _, err := config.BuildProfile(); err == nil {
		t.Errorf("Unknown profile name must be rejected")
	}
}
