package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for cavity simulation.
var (
	// ErrInvalidGrid indicates a grid with fewer than two nodes along an axis.
	ErrInvalidGrid = errors.New("dynamo: grid needs at least 2 nodes per axis")

	// ErrProbeOutOfRange indicates a probe cell outside the Ez grid.
	ErrProbeOutOfRange = errors.New("dynamo: probe outside field grid")

	// ErrUnstable indicates non-finite field values (CFL >= 1 or overflow).
	ErrUnstable = errors.New("dynamo: field diverged (NaN or Inf detected)")

	// ErrEmptyTrace indicates a probe trace with no usable samples.
	ErrEmptyTrace = errors.New("dynamo: empty probe trace")

	// ErrContextCanceled indicates the run was interrupted between steps.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with the step it occurred at.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g s): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
