package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLx          = 0.30
	DefaultLy          = 0.20
	DefaultNx          = 121
	DefaultNy          = 81
	DefaultCFL         = 0.99
	DefaultNt          = 4500
	DefaultT0Factor    = 50.0
	DefaultTauFactor   = 15.0
	DefaultJ0          = 1000.0
	DefaultCutFraction = 0.15
)

// Cell addresses an Ez node by x index I and y index J.
type Cell struct {
	I int `yaml:"i" json:"i"`
	J int `yaml:"j" json:"j"`
}

// CavityConfig is the raw run description. Isrc, Jsrc and Probes are
// optional; the solver resolves them when it builds the grid.
type CavityConfig struct {
	Lx float64 `yaml:"lx" json:"lx"`
	Ly float64 `yaml:"ly" json:"ly"`
	Nx int     `yaml:"nx" json:"nx"`
	Ny int     `yaml:"ny" json:"ny"`

	CFL float64 `yaml:"cfl" json:"cfl"`
	Nt  int     `yaml:"nt" json:"nt"`

	Isrc      *int    `yaml:"isrc,omitempty" json:"isrc,omitempty"`
	Jsrc      *int    `yaml:"jsrc,omitempty" json:"jsrc,omitempty"`
	T0Factor  float64 `yaml:"t0_factor" json:"t0_factor"`
	TauFactor float64 `yaml:"tau_factor" json:"tau_factor"`
	J0        float64 `yaml:"j0" json:"j0"`

	Probes []Cell `yaml:"probes,omitempty" json:"probes,omitempty"`

	CutFraction float64 `yaml:"cut_fraction" json:"cut_fraction"`
}

func DefaultConfig() *CavityConfig {
	return &CavityConfig{
		Lx:          DefaultLx,
		Ly:          DefaultLy,
		Nx:          DefaultNx,
		Ny:          DefaultNy,
		CFL:         DefaultCFL,
		Nt:          DefaultNt,
		T0Factor:    DefaultT0Factor,
		TauFactor:   DefaultTauFactor,
		J0:          DefaultJ0,
		CutFraction: DefaultCutFraction,
	}
}

func Load(path string) (*CavityConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *CavityConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so callers can override fields of presets.
func (c *CavityConfig) Clone() *CavityConfig {
	out := *c
	if c.Isrc != nil {
		v := *c.Isrc
		out.Isrc = &v
	}
	if c.Jsrc != nil {
		v := *c.Jsrc
		out.Jsrc = &v
	}
	if c.Probes != nil {
		out.Probes = append([]Cell(nil), c.Probes...)
	}
	return &out
}

// SetSource pins the source cell instead of the grid default.
func (c *CavityConfig) SetSource(i, j int) {
	c.Isrc = &i
	c.Jsrc = &j
}
