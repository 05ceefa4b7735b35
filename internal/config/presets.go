package config

import "sort"

var Presets = map[string]*Config{
	"bounded": {
		Vector: VectorConfig{Limit: 16},
		Growth: GrowthConfig{Appends: 16},
	},
	"preallocated": {
		Vector: VectorConfig{InitialCapacity: 32},
		Growth: GrowthConfig{Appends: 64},
	},
	"long": {
		Growth: GrowthConfig{Appends: 4096},
		Bench:  BenchConfig{Sizes: []int{100_000, 1_000_000}, Rounds: 3},
	},
}

// GetPreset returns the default config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Vector = p.Vector
	if p.Growth.Appends > 0 {
		cfg.Growth = p.Growth
	}
	if len(p.Bench.Sizes) > 0 {
		cfg.Bench = p.Bench
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
