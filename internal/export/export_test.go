package export

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/cavsim/internal/analysis"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/fdtd"
	"github.com/san-kum/cavsim/internal/viz"
)

func smallCavity() *config.CavityConfig {
	cfg := config.DefaultConfig()
	cfg.Nx, cfg.Ny = 25, 17
	cfg.Lx, cfg.Ly = 0.06, 0.04
	return cfg
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestSpectrumSVG(t *testing.T) {
	spec := &analysis.Spectrum{
		Freqs:      []float64{0, 5e8, 1e9, 1.5e9, 2e9},
		Magnitudes: []float64{0, 0.3, 1, 0.2, 0},
	}
	modes := analysis.AnalyticModes(0.3, 0.2, 2e9, 50, 50)

	svg := SpectrumSVG(spec, modes, 0, 800, 400)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if !strings.Contains(svg, "(1,1)") {
		t.Error("fundamental mode label missing")
	}

	markers := strings.Count(svg, "stroke-dasharray")
	inBand := 0
	for _, f := range modes.Freqs {
		if f <= 2e9 {
			inBand++
		}
	}
	if markers != inBand {
		t.Errorf("expected %d mode markers, got %d", inBand, markers)
	}

	labels := 0
	for _, m := range modes.Modes {
		if strings.Contains(svg, ">"+m.String()+"<") {
			labels++
		}
	}
	if labels > LabeledModes {
		t.Errorf("expected at most %d labels, got %d", LabeledModes, labels)
	}

	if SpectrumSVG(&analysis.Spectrum{}, modes, 0, 800, 400) != "" {
		t.Error("empty spectrum should produce no svg")
	}
}

func TestFieldImage(t *testing.T) {
	ez := fdtd.NewField(4, 3)
	ez.Set(3, 0, 1)  // bottom right
	ez.Set(0, 2, -1) // top left

	img := FieldImage(ez, 1, 2, viz.RdBu, nil)
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if got := img.RGBAAt(7, 5); got != viz.RdBu.Positive {
		t.Errorf("bottom right should be positive colour, got %v", got)
	}
	if got := img.RGBAAt(0, 0); got != viz.RdBu.Negative {
		t.Errorf("top left should be negative colour, got %v", got)
	}
	if got := img.RGBAAt(2, 2); got != viz.RdBu.Zero {
		t.Errorf("zero cell should use the zero colour, got %v", got)
	}
}

func TestWriteFrames(t *testing.T) {
	dir := t.TempDir()
	opts := FrameOptions{Frames: 5, Substeps: 20, CellPixels: 2, Logger: quiet()}

	scale, err := WriteFrames(context.Background(), smallCavity(), dir, opts)
	if err != nil {
		t.Fatalf("WriteFrames failed: %v", err)
	}
	if scale <= 0 {
		t.Errorf("expected positive scale, got %v", scale)
	}

	for i := 0; i < opts.Frames; i++ {
		name := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		f, err := os.Open(name)
		if err != nil {
			t.Fatalf("frame %d missing: %v", i, err)
		}
		cfg, err := png.DecodeConfig(f)
		f.Close()
		if err != nil {
			t.Fatalf("frame %d not a png: %v", i, err)
		}
		if cfg.Width != 50 || cfg.Height != 34 {
			t.Errorf("frame %d is %dx%d", i, cfg.Width, cfg.Height)
		}
	}
}

func TestWriteFrames_ScaleMatchesRun(t *testing.T) {
	cfg := smallCavity()
	opts := FrameOptions{Frames: 4, Substeps: 25, CellPixels: 1, Logger: quiet()}

	scale, err := WriteFrames(context.Background(), cfg, t.TempDir(), opts)
	if err != nil {
		t.Fatal(err)
	}

	sim, err := fdtd.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := 0.0
	for frame := 0; frame < opts.Frames; frame++ {
		for k := 0; k < opts.Substeps; k++ {
			sim.Step()
		}
		want = max(want, sim.Fields().Ez.Data.MaxAbs())
	}
	if scale != 1.1*want {
		t.Errorf("scale = %v, want %v", scale, 1.1*want)
	}
}

func TestWriteFrames_Errors(t *testing.T) {
	if _, err := WriteFrames(context.Background(), smallCavity(), t.TempDir(), FrameOptions{}); err == nil {
		t.Error("expected error for zero frames")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	opts := FrameOptions{Frames: 2, Substeps: 1, Logger: quiet()}
	if _, err := WriteFrames(ctx, smallCavity(), t.TempDir(), opts); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
