package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/dynamo"
	"github.com/san-kum/cavsim/internal/physics"
)

func coarse() *config.CavityConfig {
	cfg := config.GetPreset("coarse")
	return cfg
}

func TestRun_FundamentalMode(t *testing.T) {
	cfg := coarse()
	rep, err := Run(context.Background(), cfg, DefaultOptions())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if rep.Result.StepsTaken != cfg.Nt {
		t.Errorf("expected %d steps, got %d", cfg.Nt, rep.Result.StepsTaken)
	}
	if rep.FirstDivergence != -1 {
		t.Errorf("stable run reported divergence at %d", rep.FirstDivergence)
	}
	if rep.Energy <= 0 {
		t.Error("expected positive field energy")
	}

	if len(rep.Matches) == 0 {
		t.Fatal("expected at least one matched peak")
	}

	// The largest peak should land on a resonance within two bins.
	best := rep.Matches[0]
	if best.AbsError > 2*rep.Spectrum.BinWidth() {
		t.Errorf("strongest peak %.4g Hz is %.3g Hz from mode %v", best.Peak.Freq, best.AbsError, best.Mode)
	}

	f11 := physics.ModeFrequency(1, 1, cfg.Lx, cfg.Ly)
	if rep.Modes.Len() == 0 || math.Abs(rep.Modes.Freqs[0]-f11) > 1 {
		t.Errorf("lowest analytic mode should be TM11 at %.6g Hz", f11)
	}
}

func TestRun_MetricsMap(t *testing.T) {
	rep, err := Run(context.Background(), coarse(), Options{EnergyHistory: 10})
	if err != nil {
		t.Fatal(err)
	}
	m := rep.Metrics()
	for _, k := range []string{"final_energy", "peak_energy", "peak_frequency", "bin_width", "elapsed_seconds"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing metric %q", k)
		}
	}
	if len(rep.EnergyHistory) != 10 {
		t.Errorf("expected 10 energy samples, got %d", len(rep.EnergyHistory))
	}
}

func TestRun_InvalidGrid(t *testing.T) {
	cfg := coarse()
	cfg.Nx = 1
	_, err := Run(context.Background(), cfg, DefaultOptions())
	if !errors.Is(err, dynamo.ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, coarse(), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
