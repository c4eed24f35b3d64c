package fdtd

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/dynamo"
)

func smallConfig() *config.CavityConfig {
	cfg := config.DefaultConfig()
	cfg.Nx, cfg.Ny = 31, 21
	cfg.Lx, cfg.Ly = 0.075, 0.05
	cfg.Nt = 300
	return cfg
}

type countingObserver struct {
	steps []int
	times []float64
}

func (c *countingObserver) OnStep(n int, t float64, f *FieldState) {
	c.steps = append(c.steps, n)
	c.times = append(c.times, t)
}

func TestSimulatorRun(t *testing.T) {
	cfg := smallConfig()
	obs := &countingObserver{}

	res, err := RunSimulation(context.Background(), cfg, obs)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(res.Trace) != 3 {
		t.Fatalf("expected 3 probe rows, got %d", len(res.Trace))
	}
	for p, row := range res.Trace {
		if len(row) != cfg.Nt {
			t.Errorf("probe %d: expected %d samples, got %d", p, cfg.Nt, len(row))
		}
	}
	if res.StepsTaken != cfg.Nt {
		t.Errorf("expected %d steps, got %d", cfg.Nt, res.StepsTaken)
	}

	if len(obs.steps) != cfg.Nt || obs.steps[0] != 0 || obs.steps[cfg.Nt-1] != cfg.Nt-1 {
		t.Errorf("observer saw %d steps, want %d", len(obs.steps), cfg.Nt)
	}
	if obs.times[0] != res.Meta.Dt {
		t.Errorf("first observed time %v, want dt %v", obs.times[0], res.Meta.Dt)
	}

	nonZero := false
	for _, v := range res.Trace[0] {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Error("probe 0 never saw the pulse")
	}
}

func TestSimulatorRun_Deterministic(t *testing.T) {
	cfg := smallConfig()

	a, err := RunSimulation(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunSimulation(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a.Trace, b.Trace); diff != "" {
		t.Errorf("traces differ between identical runs:\n%s", diff)
	}
	if diff := cmp.Diff(a.Fields.Ez.Data, b.Fields.Ez.Data); diff != "" {
		t.Errorf("final Ez differs between identical runs:\n%s", diff)
	}
}

func TestSimulatorRun_RestartsCold(t *testing.T) {
	s, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}

	first, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(first.Trace, second.Trace); diff != "" {
		t.Errorf("second run did not start from zero fields:\n%s", diff)
	}
}

func TestSimulatorRun_ProbeOutOfRange(t *testing.T) {
	cfg := smallConfig()
	cfg.Probes = []config.Cell{{I: 3, J: 3}, {I: cfg.Nx, J: 2}}

	s, err := New(cfg)
	if err != nil {
		t.Fatalf("construction should not validate probes: %v", err)
	}

	_, err = s.Run(context.Background())
	if !errors.Is(err, dynamo.ErrProbeOutOfRange) {
		t.Fatalf("expected ErrProbeOutOfRange, got %v", err)
	}

	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 0 {
		t.Errorf("expected failure at step 0, got %v", err)
	}
}

func TestSimulatorRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunSimulation(ctx, smallConfig())
	if !errors.Is(err, dynamo.ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation error, got %v", err)
	}
}

func TestSimulatorRun_ZeroAmplitude(t *testing.T) {
	cfg := smallConfig()
	cfg.J0 = 0

	res, err := RunSimulation(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	for p, row := range res.Trace {
		for n, v := range row {
			if v != 0 {
				t.Fatalf("probe %d step %d = %v with no source", p, n, v)
			}
		}
	}
}

func TestSimulatorMetadata(t *testing.T) {
	cfg := smallConfig()
	cfg.SetSource(5, 6)

	s, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	m := s.Metadata()

	if m.Isrc != 5 || m.Jsrc != 6 || m.Nx != 31 || m.Ny != 21 || m.Lx != cfg.Lx || m.Ly != cfg.Ly {
		t.Errorf("unexpected metadata %+v", m)
	}
	if m.Dt != s.Grid().Dt || m.Dx != s.Grid().Dx {
		t.Error("metadata disagrees with grid")
	}
}

func TestSimulatorStepAdvancesTime(t *testing.T) {
	s, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		s.Step()
	}
	if s.Steps() != 4 || s.Time() != 4*s.Grid().Dt {
		t.Errorf("after 4 steps: n=%d t=%v", s.Steps(), s.Time())
	}

	s.Reset()
	if s.Steps() != 0 || s.Fields().Ez.Data.MaxAbs() != 0 {
		t.Error("Reset did not rewind the simulator")
	}
}
