package fdtd

import (
	"github.com/san-kum/cavsim/internal/dynamo"
	"github.com/san-kum/cavsim/internal/physics"
)

const (
	// parallelCells is the grid size from which phases fan out over rows.
	parallelCells = 1 << 15
	minRowChunk   = 16
)

// StepFields advances the fields by one leapfrog step in place.
//
// Phases run in a fixed order, each on the fully updated output of the
// previous one: Hx, Hy, interior Ez, soft source, PEC walls. A source cell
// outside the Ez interior is skipped silently.
func StepFields(s *FieldState, dx, dy, dt float64, isrc, jsrc int, jzHalf float64) {
	nx, ny := s.Nx, s.Ny
	ez, hx, hy := s.Ez.Data, s.Hx.Data, s.Hy.Data
	ch := dt / physics.Mu0
	ce := dt / physics.Eps0
	rows := rowRunner(nx * ny)

	// Hx -= (dt/mu0) dEz/dy
	rows(nx, func(start, end int) {
		for i := start; i < end; i++ {
			e := ez[i*ny : (i+1)*ny]
			h := hx[i*(ny-1) : (i+1)*(ny-1)]
			for j := range h {
				h[j] -= ch * (e[j+1] - e[j]) / dy
			}
		}
	})

	// Hy += (dt/mu0) dEz/dx
	rows(nx-1, func(start, end int) {
		for i := start; i < end; i++ {
			e0 := ez[i*ny : (i+1)*ny]
			e1 := ez[(i+1)*ny : (i+2)*ny]
			h := hy[i*ny : (i+1)*ny]
			for j := range h {
				h[j] += ch * (e1[j] - e0[j]) / dx
			}
		}
	})

	// Ez += (dt/eps0) curl H on interior nodes
	rows(nx-2, func(start, end int) {
		for i := start + 1; i < end+1; i++ {
			e := ez[i*ny : (i+1)*ny]
			hyHi := hy[i*ny : (i+1)*ny]
			hyLo := hy[(i-1)*ny : i*ny]
			hxRow := hx[i*(ny-1) : (i+1)*(ny-1)]
			for j := 1; j < ny-1; j++ {
				curl := (hyHi[j]-hyLo[j])/dx - (hxRow[j]-hxRow[j-1])/dy
				// conversion keeps the product rounded (no fused multiply-add)
				e[j] += float64(ce * curl)
			}
		}
	})

	if isrc >= 1 && isrc <= nx-2 && jsrc >= 1 && jsrc <= ny-2 {
		ez[isrc*ny+jsrc] -= float64(ce * jzHalf)
	}

	applyPEC(s.Ez)
}

// applyPEC zeroes tangential Ez on all four walls.
func applyPEC(ez *Field) {
	if ez.Rows == 0 || ez.Cols == 0 {
		return
	}
	first := ez.Row(0)
	last := ez.Row(ez.Rows - 1)
	for j := range first {
		first[j] = 0.0
		last[j] = 0.0
	}
	for i := 0; i < ez.Rows; i++ {
		row := ez.Row(i)
		row[0] = 0.0
		row[len(row)-1] = 0.0
	}
}

func rowRunner(cells int) func(n int, fn func(start, end int)) {
	if cells < parallelCells {
		return func(n int, fn func(start, end int)) {
			if n > 0 {
				fn(0, n)
			}
		}
	}
	return func(n int, fn func(start, end int)) {
		if n > 0 {
			dynamo.ParallelFor(n, minRowChunk, fn)
		}
	}
}
