package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/san-kum/cavsim/internal/export"
	"github.com/san-kum/cavsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	// cavity overrides, applied over preset and config file
	preset     string
	configFile string
	nx, ny     int
	lx, ly     float64
	cfl        float64
	nt         int
	j0         float64
	cut        float64
	isrc, jsrc int

	noSave    bool
	showPlot  bool
	showMap   bool
	jsonOut   string
	fmaxPlot  float64
	svgOut    string
	framesDir string
	frames    int
	substeps  int
	liveSteps int
	cellPx    int
	frameRate int
	themeName string
	benchNt   int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cavsim",
		Short: "2-D TMz PEC cavity FDTD simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".cavsim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the cavity and analyse its spectrum",
		Args:  cobra.NoArgs,
		RunE:  runCavity,
	}
	addCavityFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "print the spectrum plot")
	runCmd.Flags().BoolVar(&showMap, "heatmap", false, "print the final Ez heatmap")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "also write the run as JSON (- for stdout)")
	runCmd.Flags().Float64Var(&fmaxPlot, "fmax", 3e9, "plot band [Hz]")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "plot a stored spectrum against the analytic modes",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSpectrum,
	}
	spectrumCmd.Flags().Float64Var(&fmaxPlot, "fmax", 3e9, "plot band [Hz]")

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "list analytic TM resonances",
		Args:  cobra.NoArgs,
		RunE:  listModes,
	}
	modesCmd.Flags().StringVar(&preset, "preset", "default", "preset supplying the cavity size")
	modesCmd.Flags().Float64Var(&lx, "lx", 0, "cavity width [m]")
	modesCmd.Flags().Float64Var(&ly, "ly", 0, "cavity height [m]")
	modesCmd.Flags().Float64Var(&fmaxPlot, "fmax", 3e9, "highest frequency [Hz]")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a stored probe trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "write a stored spectrum as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgOut, "out", "o", "spectrum.svg", "output file")
	svgCmd.Flags().Float64Var(&fmaxPlot, "fmax", 3e9, "plot band [Hz]")

	framesCmd := &cobra.Command{
		Use:   "frames",
		Short: "render Ez frames as PNG files",
		Args:  cobra.NoArgs,
		RunE:  writeFrames,
	}
	addCavityFlags(framesCmd)
	defaults := export.DefaultFrameOptions()
	framesCmd.Flags().StringVarP(&framesDir, "out", "o", "animation", "output directory")
	framesCmd.Flags().IntVar(&frames, "frames", defaults.Frames, "number of frames")
	framesCmd.Flags().IntVar(&substeps, "substeps", defaults.Substeps, "time steps per frame")
	framesCmd.Flags().IntVar(&cellPx, "px", defaults.CellPixels, "pixels per grid cell")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the cavity in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyTheme(themeName); err != nil {
				return err
			}
			return viz.RunLive(cfg, liveSteps, frameRate)
		},
	}
	addCavityFlags(liveCmd)
	liveCmd.Flags().IntVar(&liveSteps, "substeps", viz.DefaultSubsteps, "time steps per frame")
	liveCmd.Flags().StringVar(&themeName, "theme", viz.ThemeRdBu.Name, "colour theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario.yaml]",
		Short: "run a scripted sequence of cavity runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset cavities",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure stepping throughput",
		Args:  cobra.NoArgs,
		RunE:  benchStepper,
	}
	benchCmd.Flags().IntVar(&benchNt, "steps", 500, "steps per grid size")

	rootCmd.AddCommand(runCmd, listCmd, spectrumCmd, modesCmd, exportJSONCmd, exportCSVCmd, svgCmd, framesCmd, liveCmd, sweepCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
