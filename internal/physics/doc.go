// Package physics holds the vacuum constants and closed-form cavity
// relations used by the solver and the analysis layer.
//
//   - [C0], [Eps0], [Mu0]: vacuum speed of light, permittivity, permeability
//   - [ModeFrequency]: TMmn resonance of an ideal rectangular PEC cavity
//   - [CourantTimeStep]: largest stable 2-D Yee time step scaled by a CFL factor
//
// # Resonances
//
// For a cavity of size Lx by Ly the TMz modes with m, n >= 1 resonate at
//
//	f_mn = (c0/2) * sqrt((m/Lx)^2 + (n/Ly)^2)
package physics
