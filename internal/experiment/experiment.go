package experiment

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/cavsim/internal/analysis"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/fdtd"
	"github.com/san-kum/cavsim/internal/metrics"
)

// DefaultPeakThreshold is the normalized magnitude a spectral peak must
// reach to be matched against the analytic modes.
const DefaultPeakThreshold = 0.05

type Options struct {
	// MaxMode bounds both mode indices in the analytic search.
	MaxMode       int
	PeakThreshold float64
	// EnergyHistory keeps that many recent energy samples in the report.
	EnergyHistory int
	Observers     []fdtd.Observer
	Logger        *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxMode:       analysis.DefaultModeSearch,
		PeakThreshold: DefaultPeakThreshold,
	}
}

// Report gathers everything one cavity run produces.
type Report struct {
	Config   *config.CavityConfig
	Result   *fdtd.Result
	Spectrum *analysis.Spectrum
	Modes    *analysis.ModeSet
	Peaks    []analysis.Peak
	Matches  []analysis.Match

	Energy          float64
	PeakEnergy      float64
	EnergyHistory   []float64
	FirstDivergence int
	Elapsed         time.Duration
}

// Metrics flattens the scalar outcomes for storage and tables.
func (r *Report) Metrics() map[string]float64 {
	m := map[string]float64{
		"final_energy":     r.Energy,
		"peak_energy":      r.PeakEnergy,
		"elapsed_seconds":  r.Elapsed.Seconds(),
		"first_divergence": float64(r.FirstDivergence),
		"peaks":            float64(len(r.Peaks)),
	}
	if r.Spectrum != nil {
		m["peak_frequency"] = r.Spectrum.PeakFrequency()
		m["bin_width"] = r.Spectrum.BinWidth()
	}
	// JSON has no encoding for Inf or NaN, which a diverged run produces.
	for k, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			delete(m, k)
		}
	}
	return m
}

type Experiment struct {
	cfg  *config.CavityConfig
	opts Options
	log  *slog.Logger
}

func New(cfg *config.CavityConfig, opts Options) *Experiment {
	if opts.MaxMode <= 0 {
		opts.MaxMode = analysis.DefaultModeSearch
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Experiment{cfg: cfg.Clone(), opts: opts, log: log}
}

// Run simulates the cavity, reduces the probe traces to an averaged
// spectrum and matches its peaks against the analytic resonances up to
// the highest resolved frequency.
func (e *Experiment) Run(ctx context.Context) (*Report, error) {
	sim, err := fdtd.New(e.cfg)
	if err != nil {
		return nil, fmt.Errorf("build simulator: %w", err)
	}
	g := sim.Grid()

	energy := metrics.NewFieldEnergy(g.Dx, g.Dy, e.opts.EnergyHistory)
	stability := metrics.NewStability(1, e.log)
	sim.AddObserver(energy)
	sim.AddObserver(stability)
	for _, o := range e.opts.Observers {
		sim.AddObserver(o)
	}

	e.log.Info("running cavity",
		slog.Int("nx", g.Nx), slog.Int("ny", g.Ny),
		slog.Int("nt", e.cfg.Nt), slog.Float64("dt", g.Dt),
		slog.Int("isrc", g.Isrc), slog.Int("jsrc", g.Jsrc),
		slog.Int("probes", len(g.Probes)))

	start := time.Now()
	res, err := sim.Run(ctx)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	e.log.Debug("time stepping done", slog.Duration("elapsed", elapsed))
	if err := stability.Err(); err != nil {
		e.log.Warn("fields diverged, spectrum is meaningless", slog.Any("error", err))
	}

	spec, err := analysis.AveragedSpectrum(res.Trace, g.Dt, e.cfg.CutFraction)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	modes := analysis.AnalyticModes(e.cfg.Lx, e.cfg.Ly, spec.MaxFrequency(), e.opts.MaxMode, e.opts.MaxMode)
	peaks := analysis.FindPeaks(spec, e.opts.PeakThreshold)
	matches := analysis.MatchModes(peaks, modes)

	rep := &Report{
		Config:          e.cfg,
		Result:          res,
		Spectrum:        spec,
		Modes:           modes,
		Peaks:           peaks,
		Matches:         matches,
		Energy:          energy.Value(),
		PeakEnergy:      energy.Peak(),
		EnergyHistory:   energy.History(),
		FirstDivergence: stability.FirstDivergence(),
		Elapsed:         elapsed,
	}

	e.log.Info("run complete",
		slog.Duration("elapsed", elapsed),
		slog.Float64("peak_hz", spec.PeakFrequency()),
		slog.Int("peaks", len(peaks)),
		slog.Int("modes", modes.Len()))
	return rep, nil
}

// Run is a shorthand for New(cfg, opts).Run(ctx).
func Run(ctx context.Context, cfg *config.CavityConfig, opts Options) (*Report, error) {
	return New(cfg, opts).Run(ctx)
}
