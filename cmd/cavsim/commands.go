package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/san-kum/cavsim/internal/analysis"
	"github.com/san-kum/cavsim/internal/automation"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/experiment"
	"github.com/san-kum/cavsim/internal/export"
	"github.com/san-kum/cavsim/internal/fdtd"
	"github.com/san-kum/cavsim/internal/physics"
	"github.com/san-kum/cavsim/internal/storage"
	"github.com/san-kum/cavsim/internal/viz"
	"github.com/spf13/cobra"
)

const topMatches = 10

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runCavity(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	opts := experiment.DefaultOptions()
	opts.Logger = slog.Default()
	rep, err := experiment.Run(ctx, cfg, opts)
	if err != nil {
		return err
	}

	g := rep.Result.Meta
	fmt.Printf("grid %dx%d  dx=%.4g m  dy=%.4g m  dt=%.4e s\n", g.Nx, g.Ny, g.Dx, g.Dy, g.Dt)
	fmt.Printf("source (%d,%d)  probes %v\n", g.Isrc, g.Jsrc, g.Probes)
	fmt.Printf("completed %d steps in %v\n", rep.Result.StepsTaken, rep.Elapsed.Round(time.Millisecond))
	fmt.Printf("resolution %.3f MHz, peak %.3f MHz\n\n", rep.Spectrum.BinWidth()/1e6, rep.Spectrum.PeakFrequency()/1e6)
	if err := printMatches(rep.Matches); err != nil {
		return err
	}

	if showPlot {
		fmt.Println()
		plotOpts := viz.DefaultPlotOptions()
		plotOpts.FMax = fmaxPlot
		fmt.Println(viz.SpectrumPlot(rep.Spectrum, rep.Modes, plotOpts))
	}
	if showMap {
		fmt.Println()
		scale := rep.Result.Fields.Ez.Data.MaxAbs()
		src := config.Cell{I: g.Isrc, J: g.Jsrc}
		fmt.Println(viz.Heatmap(rep.Result.Fields.Ez, scale, 80, 30, viz.RdBu, &src))
	}

	if jsonOut != "" {
		if err := storage.ExportJSON(jsonOut, rep); err != nil {
			return err
		}
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(preset, rep)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printMatches(matches []analysis.Match) error {
	if len(matches) == 0 {
		fmt.Println("no spectral peaks above threshold")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PEAK [MHz]\tMAG\tMODE\tANALYTIC [MHz]\tERROR")
	for i, m := range matches {
		if i >= topMatches {
			break
		}
		fmt.Fprintf(w, "%.3f\t%.3f\tTM%s\t%.3f\t%.2f%%\n",
			m.Peak.Freq/1e6, m.Peak.Magnitude, m.Mode, m.ModeFreq/1e6, 100*m.RelError)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Printf("no runs found in %s\n", st.Dir())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tGRID\tSTEPS\tDT\tPEAK [MHz]")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.4es\t%.3f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Grid.Nx, run.Grid.Ny,
			run.Steps,
			run.Grid.Dt,
			run.Metrics["peak_frequency"]/1e6,
		)
	}
	return w.Flush()
}

// storedSpectrum loads a run's spectrum together with the analytic modes
// of its cavity.
func storedSpectrum(runID string) (*storage.RunMetadata, *analysis.Spectrum, *analysis.ModeSet, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	spec, err := st.LoadSpectrum(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	modes := analysis.AnalyticModes(meta.Grid.Lx, meta.Grid.Ly, spec.MaxFrequency(), analysis.DefaultModeSearch, analysis.DefaultModeSearch)
	return meta, spec, modes, nil
}

func plotSpectrum(cmd *cobra.Command, args []string) error {
	meta, spec, modes, err := storedSpectrum(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("cavity: %.3g m x %.3g m, %dx%d\n\n", meta.Grid.Lx, meta.Grid.Ly, meta.Grid.Nx, meta.Grid.Ny)

	opts := viz.DefaultPlotOptions()
	opts.FMax = fmaxPlot
	fmt.Println(viz.SpectrumPlot(spec, modes, opts))
	return nil
}

func listModes(cmd *cobra.Command, args []string) error {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if cmd.Flags().Changed("lx") {
		cfg.Lx = lx
	}
	if cmd.Flags().Changed("ly") {
		cfg.Ly = ly
	}

	modes := analysis.AnalyticModes(cfg.Lx, cfg.Ly, fmaxPlot, analysis.DefaultModeSearch, analysis.DefaultModeSearch)
	if modes.Len() == 0 {
		fmt.Println("no modes below fmax")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tFREQ [MHz]")
	for k := 0; k < modes.Len(); k++ {
		fmt.Fprintf(w, "TM%s\t%.3f\n", modes.Modes[k], modes.Freqs[k]/1e6)
	}
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	data, err := storage.New(dataDir).Export(args[0])
	if err != nil {
		return err
	}
	return data.Encode(os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	trace, _, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(trace) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	if err := storage.WriteTrace(w, trace, meta.Grid.Dt); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, spec, modes, err := storedSpectrum(args[0])
	if err != nil {
		return err
	}
	svg := export.SpectrumSVG(spec, modes, fmaxPlot, 900, 450)
	if svg == "" {
		return fmt.Errorf("spectrum of %s is too short to draw", args[0])
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func writeFrames(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()

	opts := export.FrameOptions{Frames: frames, Substeps: substeps, CellPixels: cellPx, Logger: slog.Default()}
	scale, err := export.WriteFrames(ctx, cfg, framesDir, opts)
	if err != nil {
		return err
	}
	fmt.Printf("saved %d frames to %s\n", frames, framesDir)
	fmt.Printf("colour scale: [%.3e, %.3e] V/m\n", -scale, scale)
	fmt.Printf("convert: ffmpeg -framerate 20 -i %s/frame_%%04d.png -c:v libx264 -pix_fmt yuv420p Ez.mp4\n", framesDir)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("scenario %s: %s\n\n", sc.Name, sc.Description)
	results, err := automation.RunScenario(ctx, sc, st, slog.Default())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tLABEL\tGRID\tPEAK [MHz]\tMODE\tERROR\tRUN")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%dx%d\t%.3f\tTM%s\t%.2f%%\t%s\n",
			r.Step, r.Label, r.Config.Nx, r.Config.Ny, r.PeakFreq/1e6, r.Mode, 100*r.RelError, r.RunID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tCAVITY [m]\tGRID\tNT\tCFL\tTM11 [MHz]")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%.2f x %.2f\t%dx%d\t%d\t%.2f\t%.3f\n",
			name, cfg.Lx, cfg.Ly, cfg.Nx, cfg.Ny, cfg.Nt, cfg.CFL,
			physics.ModeFrequency(1, 1, cfg.Lx, cfg.Ly)/1e6)
	}
	return w.Flush()
}

func benchStepper(cmd *cobra.Command, args []string) error {
	sizes := []struct{ nx, ny int }{{61, 41}, {121, 81}, {241, 161}, {481, 321}}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GRID\tSTEPS\tTIME\tSTEPS/SEC\tMCELLS/SEC")
	for _, sz := range sizes {
		cfg := config.DefaultConfig()
		cfg.Nx, cfg.Ny = sz.nx, sz.ny
		sim, err := fdtd.New(cfg)
		if err != nil {
			return err
		}

		start := time.Now()
		for n := 0; n < benchNt; n++ {
			sim.Step()
		}
		elapsed := time.Since(start)

		rate := float64(benchNt) / elapsed.Seconds()
		fmt.Fprintf(w, "%dx%d\t%d\t%v\t%.0f\t%.1f\n",
			sz.nx, sz.ny, benchNt, elapsed.Round(time.Microsecond), rate, rate*float64(sz.nx*sz.ny)/1e6)
	}
	return w.Flush()
}
