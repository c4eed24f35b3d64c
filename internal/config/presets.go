package config

import "sort"

var Presets = map[string]*CavityConfig{
	"default": DefaultConfig(),
	"square": {
		Lx: 0.20, Ly: 0.20, Nx: 101, Ny: 101, CFL: 0.99, Nt: 4500,
		T0Factor: 50, TauFactor: 15, J0: 1000, CutFraction: 0.15,
	},
	"coarse": {
		Lx: 0.30, Ly: 0.20, Nx: 61, Ny: 41, CFL: 0.99, Nt: 2000,
		T0Factor: 50, TauFactor: 15, J0: 1000, CutFraction: 0.15,
	},
	"fine": {
		Lx: 0.30, Ly: 0.20, Nx: 241, Ny: 161, CFL: 0.99, Nt: 9000,
		T0Factor: 50, TauFactor: 15, J0: 1000, CutFraction: 0.15,
	},
	"long": {
		Lx: 0.30, Ly: 0.20, Nx: 121, Ny: 81, CFL: 0.99, Nt: 18000,
		T0Factor: 50, TauFactor: 15, J0: 1000, CutFraction: 0.10,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *CavityConfig {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
