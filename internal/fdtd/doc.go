// Package fdtd implements a 2-D TMz finite-difference time-domain solver
// for a rectangular cavity with perfectly conducting walls.
//
// The solver uses a Yee-staggered grid in space and leapfrog stepping in
// time:
//
//   - [BuildGrid]: resolves a raw config into cell sizes, time step,
//     source cell and probe cells
//   - [AllocateFields]: zeroed Ez (Nx×Ny), Hx (Nx×(Ny−1)), Hy ((Nx−1)×Ny)
//   - [SoftCurrent]: Gaussian current pulse sampled at half steps
//   - [StepFields]: one in-place leapfrog update with PEC walls
//   - [Simulator]: drives Nt steps and records probe traces
//
// # Example
//
//	cfg := config.DefaultConfig()
//	res, err := fdtd.RunSimulation(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	spec, _ := analysis.AveragedSpectrum(res.Trace, res.Meta.Dt, cfg.CutFraction)
//
// # Stability
//
// The time step is derived from the CFL factor in the config. Factors of 1
// or more are accepted and produce diverging fields; see metrics.Stability.
//
// # Thread Safety
//
// A Simulator owns its FieldState exclusively and is NOT safe for
// concurrent use. Independent simulators may run in parallel.
package fdtd
