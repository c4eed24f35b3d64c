package fdtd

import "math"

// SoftCurrent evaluates the Gaussian pulse J0·exp(−((t−t0)/tau)²) with
// t0 = t0Factor·dt and tau = tauFactor·dt. It is sampled at half-integer
// times (n+0.5)·dt and added to the Ez update, so the source cell does not
// block outgoing waves.
func SoftCurrent(tHalf, dt, t0Factor, tauFactor, j0 float64) float64 {
	t0 := t0Factor * dt
	tau := tauFactor * dt
	x := (tHalf - t0) / tau
	return j0 * math.Exp(-(x * x))
}

// HalfStepTime returns (n+0.5)·dt.
func HalfStepTime(n int, dt float64) float64 {
	return (float64(n) + 0.5) * dt
}
