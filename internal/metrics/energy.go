package metrics

import (
	"github.com/san-kum/cavsim/internal/fdtd"
	"github.com/san-kum/cavsim/internal/physics"
)

// FieldEnergy tracks the electromagnetic energy per unit length in z,
// W = ½·Σ(ε0·Ez² + μ0·(Hx² + Hy²))·dx·dy, after every step.
type FieldEnergy struct {
	name    string
	cell    float64
	samples int
	last    float64
	peak    float64
	history []float64
	keep    int
}

// NewFieldEnergy records up to keep recent samples for plotting (0 keeps none).
func NewFieldEnergy(dx, dy float64, keep int) *FieldEnergy {
	return &FieldEnergy{
		name: "field_energy",
		cell: dx * dy,
		keep: keep,
	}
}

func (e *FieldEnergy) Name() string { return e.name }

func (e *FieldEnergy) OnStep(n int, t float64, f *fdtd.FieldState) {
	e.last = Energy(f, e.cell)
	if e.last > e.peak {
		e.peak = e.last
	}
	e.samples++

	if e.keep > 0 {
		e.history = append(e.history, e.last)
		if len(e.history) > e.keep {
			e.history = e.history[len(e.history)-e.keep:]
		}
	}
}

func (e *FieldEnergy) Value() float64     { return e.last }
func (e *FieldEnergy) Peak() float64      { return e.peak }
func (e *FieldEnergy) Samples() int       { return e.samples }
func (e *FieldEnergy) History() []float64 { return e.history }

func (e *FieldEnergy) Reset() {
	e.samples = 0
	e.last = 0
	e.peak = 0
	e.history = nil
}

// Energy sums the field energy of f over cells of area cell.
func Energy(f *fdtd.FieldState, cell float64) float64 {
	we := physics.Eps0 * f.Ez.Data.SumSquares()
	wm := physics.Mu0 * (f.Hx.Data.SumSquares() + f.Hy.Data.SumSquares())
	return 0.5 * (we + wm) * cell
}
