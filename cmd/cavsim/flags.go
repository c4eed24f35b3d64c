package main

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/viz"
	"github.com/spf13/cobra"
)

func addCavityFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "default", "preset cavity")
	f.StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
	f.IntVar(&nx, "nx", config.DefaultNx, "Ez nodes along x")
	f.IntVar(&ny, "ny", config.DefaultNy, "Ez nodes along y")
	f.Float64Var(&lx, "lx", config.DefaultLx, "cavity width [m]")
	f.Float64Var(&ly, "ly", config.DefaultLy, "cavity height [m]")
	f.Float64Var(&cfl, "cfl", config.DefaultCFL, "Courant number")
	f.IntVar(&nt, "nt", config.DefaultNt, "time steps")
	f.Float64Var(&j0, "j0", config.DefaultJ0, "source amplitude [A/m²]")
	f.Float64Var(&cut, "cut", config.DefaultCutFraction, "fraction of the trace dropped before the FFT")
	f.IntVar(&isrc, "isrc", 0, "source x index (default Nx/3)")
	f.IntVar(&jsrc, "jsrc", 0, "source y index (default Ny/2)")
}

// resolveConfig layers the preset, the config file and explicitly set
// flags, in that order of increasing precedence.
func resolveConfig(cmd *cobra.Command) (*config.CavityConfig, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("nx") {
		cfg.Nx = nx
	}
	if changed("ny") {
		cfg.Ny = ny
	}
	if changed("lx") {
		cfg.Lx = lx
	}
	if changed("ly") {
		cfg.Ly = ly
	}
	if changed("cfl") {
		cfg.CFL = cfl
	}
	if changed("nt") {
		cfg.Nt = nt
	}
	if changed("j0") {
		cfg.J0 = j0
	}
	if changed("cut") {
		cfg.CutFraction = cut
	}
	if changed("isrc") || changed("jsrc") {
		i, j := cfg.Nx/3, cfg.Ny/2
		if cfg.Isrc != nil {
			i = *cfg.Isrc
		}
		if cfg.Jsrc != nil {
			j = *cfg.Jsrc
		}
		if changed("isrc") {
			i = isrc
		}
		if changed("jsrc") {
			j = jsrc
		}
		cfg.SetSource(i, j)
	}

	if cfg.CFL >= 1 {
		slog.Warn("CFL ≥ 1 violates the 2-D Courant limit; the run will diverge", slog.Float64("cfl", cfg.CFL))
	}
	return cfg, nil
}

func applyTheme(name string) error {
	if !slices.Contains(viz.ThemeNames(), name) {
		return fmt.Errorf("unknown theme %q (have %v)", name, viz.ThemeNames())
	}
	viz.SetTheme(name)
	return nil
}
