package metrics

import (
	"log/slog"

	"github.com/san-kum/cavsim/internal/dynamo"
	"github.com/san-kum/cavsim/internal/fdtd"
)

// Stability watches for the first non-finite Ez value. It only observes;
// the run continues either way.
type Stability struct {
	name       string
	every      int
	samples    int
	violations int
	firstBad   int
	badTime    float64
	log        *slog.Logger
}

// NewStability checks every Nth step (every < 1 checks each step).
func NewStability(every int, log *slog.Logger) *Stability {
	if every < 1 {
		every = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &Stability{name: "stability", every: every, firstBad: -1, log: log}
}

func (s *Stability) Name() string { return s.name }

func (s *Stability) OnStep(n int, t float64, f *fdtd.FieldState) {
	if n%s.every != 0 {
		return
	}
	s.samples++
	if f.Ez.Data.IsValid() {
		return
	}
	s.violations++
	if s.firstBad < 0 {
		s.firstBad = n
		s.badTime = t
		s.log.Warn("field diverged", slog.Int("step", n), slog.Float64("time", t))
	}
}

// Value returns the fraction of checked steps with finite fields.
func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

// FirstDivergence returns the first step with non-finite Ez, or -1.
func (s *Stability) FirstDivergence() int { return s.firstBad }

// Err returns a *dynamo.SimulationError wrapping dynamo.ErrUnstable once
// a divergence was seen, nil otherwise.
func (s *Stability) Err() error {
	if s.firstBad < 0 {
		return nil
	}
	return &dynamo.SimulationError{Step: s.firstBad, Time: s.badTime, Wrapped: dynamo.ErrUnstable}
}

func (s *Stability) Reset() {
	s.samples = 0
	s.violations = 0
	s.firstBad = -1
	s.badTime = 0
}
