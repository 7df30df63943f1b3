package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/nbody/internal/dynamo"
)

var Presets = map[string]*Config{
	"smoke": {
		Steps: 0, Reference: "sun", DataDir: DefaultDataDir,
	},
	"benchmark": {
		Steps: 1000, Reference: "sun", DataDir: DefaultDataDir,
	},
	"standard": {
		Steps: 50_000_000, Reference: "sun", DataDir: DefaultDataDir,
	},
	// one Neptune orbit, about 165 years
	"orbit": {
		Steps: 16_500, SampleEvery: 10, Reference: "sun", ValidateState: true, DataDir: DefaultDataDir,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func LookupPreset(name string) (*Config, error) {
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownPreset, name, ListPresets())
	}
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
