package fdtd

import (
	"context"
	"fmt"

	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/dynamo"
)

// Observer is notified after every completed step. The field state is
// read-only for observers and only valid for the duration of the call.
type Observer interface {
	OnStep(n int, t float64, f *FieldState)
}

// ProbeTrace holds one row of Nt samples per probe.
type ProbeTrace [][]float64

// RunMetadata accompanies run outputs for downstream consumers.
type RunMetadata struct {
	Dx     float64       `json:"dx"`
	Dy     float64       `json:"dy"`
	Dt     float64       `json:"dt"`
	Isrc   int           `json:"isrc"`
	Jsrc   int           `json:"jsrc"`
	Probes []config.Cell `json:"probes"`
	Lx     float64       `json:"lx"`
	Ly     float64       `json:"ly"`
	Nx     int           `json:"nx"`
	Ny     int           `json:"ny"`
}

type Result struct {
	Fields     *FieldState
	Trace      ProbeTrace
	Meta       RunMetadata
	StepsTaken int
}

type Simulator struct {
	cfg       *config.CavityConfig
	grid      GridSpec
	fields    *FieldState
	n         int
	observers []Observer
}

func New(cfg *config.CavityConfig) (*Simulator, error) {
	grid, err := BuildGrid(cfg)
	if err != nil {
		return nil, err
	}
	return &Simulator{
		cfg:       cfg.Clone(),
		grid:      grid,
		fields:    AllocateFields(grid.Nx, grid.Ny),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Grid() GridSpec               { return s.grid }
func (s *Simulator) Config() *config.CavityConfig { return s.cfg }
func (s *Simulator) Fields() *FieldState          { return s.fields }
func (s *Simulator) Steps() int                   { return s.n }
func (s *Simulator) Time() float64                { return float64(s.n) * s.grid.Dt }

// Reset zeroes the fields and rewinds the step counter.
func (s *Simulator) Reset() {
	s.fields.Reset()
	s.n = 0
}

// Step advances the cavity by one time step and notifies observers.
func (s *Simulator) Step() {
	g := s.grid
	tHalf := HalfStepTime(s.n, g.Dt)
	jz := SoftCurrent(tHalf, g.Dt, s.cfg.T0Factor, s.cfg.TauFactor, s.cfg.J0)
	StepFields(s.fields, g.Dx, g.Dy, g.Dt, g.Isrc, g.Jsrc, jz)
	s.n++

	for _, obs := range s.observers {
		obs.OnStep(s.n-1, s.Time(), s.fields)
	}
}

// Run performs Nt steps from zero fields and records Ez at every probe
// after each step. Cancellation is honoured between steps only.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	s.Reset()

	nt := s.cfg.Nt
	if nt < 0 {
		nt = 0
	}
	trace := make(ProbeTrace, len(s.grid.Probes))
	for p := range trace {
		trace[p] = make([]float64, nt)
	}

	for n := 0; n < nt; n++ {
		select {
		case <-ctx.Done():
			return nil, &SimulationError{
				Step:    n,
				Time:    s.Time(),
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		s.Step()

		if err := s.sample(trace, n); err != nil {
			return nil, err
		}
	}

	return &Result{
		Fields:     s.fields.Snapshot(),
		Trace:      trace,
		Meta:       s.Metadata(),
		StepsTaken: nt,
	}, nil
}

func (s *Simulator) sample(trace ProbeTrace, n int) error {
	ez := s.fields.Ez
	for p, c := range s.grid.Probes {
		if c.I < 0 || c.I >= ez.Rows || c.J < 0 || c.J >= ez.Cols {
			return &SimulationError{
				Step:    n,
				Time:    s.Time(),
				Wrapped: fmt.Errorf("probe %d at (%d,%d): %w", p, c.I, c.J, dynamo.ErrProbeOutOfRange),
			}
		}
		trace[p][n] = ez.At(c.I, c.J)
	}
	return nil
}

func (s *Simulator) Metadata() RunMetadata {
	g := s.grid
	return RunMetadata{
		Dx:     g.Dx,
		Dy:     g.Dy,
		Dt:     g.Dt,
		Isrc:   g.Isrc,
		Jsrc:   g.Jsrc,
		Probes: append([]config.Cell(nil), g.Probes...),
		Lx:     s.cfg.Lx,
		Ly:     s.cfg.Ly,
		Nx:     g.Nx,
		Ny:     g.Ny,
	}
}

// RunSimulation builds a simulator for cfg, attaches observers and runs it.
func RunSimulation(ctx context.Context, cfg *config.CavityConfig, observers ...Observer) (*Result, error) {
	s, err := New(cfg)
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		s.AddObserver(o)
	}
	return s.Run(ctx)
}

// SimulationError is re-exported for callers that only import fdtd.
type SimulationError = dynamo.SimulationError
