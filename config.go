package roadnet

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// LocationIndexConfig selects the node location index backend for streaming
// passes. Dir and CachedPages only apply to the disk-backed backends.
type LocationIndexConfig struct {
	Backend     string `mapstructure:"backend"`
	Dir         string `mapstructure:"dir"`
	CachedPages int    `mapstructure:"cached_pages"`
}

// Config collects the tunables of the pipeline
type Config struct {
	Profile             string              `mapstructure:"profile"`
	ExtraHighways       []string            `mapstructure:"extra_highways"`
	ScannerProcs        int                 `mapstructure:"scanner_procs"`
	WriteSegmentLengths bool                `mapstructure:"write_segment_lengths"`
	LocationIndex       LocationIndexConfig `mapstructure:"location_index"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		Profile:      "curated",
		ScannerProcs: defaultScannerProcs,
		LocationIndex: LocationIndexConfig{
			Backend:     IndexMemory,
			CachedPages: defaultCachedPages,
		},
	}
}

// ReadConfig loads the configuration from the given file, falling back to
// defaults for anything not set. An empty path returns the defaults.
func ReadConfig(path string) (Config, error) {
	config := DefaultConfig()
	v := viper.New()
	v.SetDefault("profile", config.Profile)
	v.SetDefault("extra_highways", config.ExtraHighways)
	v.SetDefault("scanner_procs", config.ScannerProcs)
	v.SetDefault("write_segment_lengths", config.WriteSegmentLengths)
	v.SetDefault("location_index.backend", config.LocationIndex.Backend)
	v.SetDefault("location_index.dir", config.LocationIndex.Dir)
	v.SetDefault("location_index.cached_pages", config.LocationIndex.CachedPages)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config, errors.Wrap(err, "Can't read config file")
		}
	}
	if err := v.Unmarshal(&config); err != nil {
		return config, errors.Wrap(err, "Can't parse config")
	}
	return config, nil
}

// BuildProfile constructs the routing profile the configuration names,
// extended with any extra highway values
func (config Config) BuildProfile() (*RoutingProfile, error) {
	var base *RoutingProfile
	switch config.Profile {
	case "curated", "":
		base = CuratedProfile()
	case "broad":
		base = BroadProfile()
	default:
		return nil, fmt.Errorf("Routing profile '%s' is not handled yet", config.Profile)
	}
	if len(config.ExtraHighways) == 0 {
		return base, nil
	}
	return NewRoutingProfile(base.Name, append(base.Highways(), config.ExtraHighways...)), nil
}

// BuildLocationIndex constructs the configured location index backend
func (config Config) BuildLocationIndex() (LocationIndex, error) {
	if config.LocationIndex.Backend == IndexSparseFile && config.LocationIndex.CachedPages > 0 {
		return NewSparseFileIndex(config.LocationIndex.Dir, config.LocationIndex.CachedPages)
	}
	return NewLocationIndex(config.LocationIndex.Backend, config.LocationIndex.Dir)
}
