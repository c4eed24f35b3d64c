package physics

import "math"

// ModeFrequency returns the TMmn resonance of a Lx by Ly PEC cavity in Hz.
func ModeFrequency(m, n int, lx, ly float64) float64 {
	kx := float64(m) / lx
	ky := float64(n) / ly
	return 0.5 * C0 * math.Sqrt(kx*kx+ky*ky)
}

// CourantTimeStep returns cfl / (c0 * sqrt(1/dx^2 + 1/dy^2)).
// Stability of the leapfrog scheme requires cfl < 1; it is not checked here.
func CourantTimeStep(cfl, dx, dy float64) float64 {
	return cfl / (C0 * math.Sqrt((1.0/(dx*dx))+(1.0/(dy*dy))))
}
