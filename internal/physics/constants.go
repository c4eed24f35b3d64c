package physics

import "math"

const (
	// C0 is the speed of light in vacuum [m/s].
	C0 = 299792458.0

	// Eps0 is the permittivity of free space [F/m].
	Eps0 = 8.854187817e-12

	// Mu0 is the permeability of free space [H/m].
	Mu0 = 4.0 * math.Pi * 1e-7
)
