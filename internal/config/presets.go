package config

import "sort"

// Presets override the grid and span of DefaultConfig. Output and logging
// settings are left to the caller.
var Presets = map[string]*Config{
	"reference": {
		XCandidates: []float64{2, 6, 10, 14, 18},
		YCandidates: []float64{0.5, 0.99, 1.01, 1.5},
		TStart:      0, TEnd: 50, Dt: 0.002,
	},
	"edge-band": {
		XCandidates: []float64{4, 8, 12, 16, 20},
		YCandidates: []float64{0.95, 0.97, 0.98, 0.99, 1.01, 1.02, 1.03, 1.05},
		TStart:      0, TEnd: 50, Dt: 0.002,
	},
	"coarse": {
		XCandidates: []float64{0, 10, 20},
		YCandidates: []float64{0.5, 1.5},
		TStart:      0, TEnd: 20, Dt: 0.01,
	},
}

// GetPreset returns a full configuration built from DefaultConfig with the
// named preset applied, or nil if no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.XCandidates = append([]float64(nil), p.XCandidates...)
	cfg.YCandidates = append([]float64(nil), p.YCandidates...)
	cfg.TStart = p.TStart
	cfg.TEnd = p.TEnd
	cfg.Dt = p.Dt
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
