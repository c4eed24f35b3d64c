// Package dynamo provides core primitives shared by the cavity solver.
//
// The package defines the small set of types and helpers every other
// package builds on:
//
//   - [Series]: flat real-valued buffer (field storage, probe samples)
//   - [ParallelFor]: row-chunked fan-out for independent per-cell work
//   - domain errors ([ErrInvalidGrid], [ErrProbeOutOfRange], ...) and
//     [SimulationError] for failures tied to a specific step
//
// # Thread Safety
//
// Series values are plain slices and carry no locking. ParallelFor is safe
// only when fn writes disjoint index ranges.
package dynamo
