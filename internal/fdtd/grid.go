package fdtd

import (
	"fmt"

	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/dynamo"
	"github.com/san-kum/cavsim/internal/physics"
)

// GridSpec is the fully resolved form of a CavityConfig.
type GridSpec struct {
	Nx, Ny     int
	Dx, Dy, Dt float64
	Isrc, Jsrc int
	Probes     []config.Cell
}

// BuildGrid derives spacing, time step, source cell and probe cells.
// Source and probe indices are not bounds checked.
func BuildGrid(cfg *config.CavityConfig) (GridSpec, error) {
	if cfg.Nx < 2 || cfg.Ny < 2 {
		return GridSpec{}, fmt.Errorf("grid %dx%d: %w", cfg.Nx, cfg.Ny, dynamo.ErrInvalidGrid)
	}

	dx := cfg.Lx / float64(cfg.Nx-1)
	dy := cfg.Ly / float64(cfg.Ny-1)

	g := GridSpec{
		Nx:   cfg.Nx,
		Ny:   cfg.Ny,
		Dx:   dx,
		Dy:   dy,
		Dt:   physics.CourantTimeStep(cfg.CFL, dx, dy),
		Isrc: cfg.Nx / 3,
		Jsrc: cfg.Ny / 2,
	}
	if cfg.Isrc != nil {
		g.Isrc = *cfg.Isrc
	}
	if cfg.Jsrc != nil {
		g.Jsrc = *cfg.Jsrc
	}

	if len(cfg.Probes) == 0 {
		g.Probes = DefaultProbes(cfg.Nx, cfg.Ny)
	} else {
		g.Probes = append([]config.Cell(nil), cfg.Probes...)
	}

	return g, nil
}

// DefaultProbes returns the three auto-placed observation cells.
func DefaultProbes(nx, ny int) []config.Cell {
	return []config.Cell{
		{I: nx / 4, J: ny / 3},
		{I: nx/2 + 7, J: ny/2 - 5},
		{I: 3*nx/4 - 5, J: 2 * ny / 3},
	}
}

// SourceInside reports whether the source cell lies strictly inside the
// Ez interior, i.e. whether it will be injected at all.
func (g GridSpec) SourceInside() bool {
	return g.Isrc >= 1 && g.Isrc <= g.Nx-2 && g.Jsrc >= 1 && g.Jsrc <= g.Ny-2
}
