package config

import "sort"

var Presets = map[string]*Config{
	"classic": {
		Capacity: 5, Weights: []int{2, 3, 4, 5}, Prices: []int{3, 4, 5, 6},
		DelayMS: DefaultDelayMS,
	},
	"empty_bag": {
		Capacity: 0, Weights: []int{1, 2}, Prices: []int{10, 20},
		DelayMS: DefaultDelayMS,
	},
	"tight": {
		Capacity: 7, Weights: []int{1, 3, 4, 5}, Prices: []int{1, 4, 5, 7},
		DelayMS: 150,
	},
	"wide": {
		Capacity: 20, Weights: []int{4, 7, 2, 9, 5, 3, 8, 6}, Prices: []int{5, 9, 3, 11, 6, 4, 10, 7},
		DelayMS: 40,
	},
}

// GetPreset returns a copy of the named preset on top of the defaults, or
// nil when it does not exist.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Capacity = p.Capacity
	cfg.Weights = append([]int(nil), p.Weights...)
	cfg.Prices = append([]int(nil), p.Prices...)
	cfg.DelayMS = p.DelayMS
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
