package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/dynamo"
	"github.com/san-kum/cavsim/internal/fdtd"
	"github.com/san-kum/cavsim/internal/viz"
)

// FrameOptions controls PNG frame export.
type FrameOptions struct {
	Frames   int
	Substeps int
	// CellPixels is the edge length of one grid cell in the image.
	CellPixels int
	Logger     *slog.Logger
}

func DefaultFrameOptions() FrameOptions {
	return FrameOptions{Frames: 300, Substeps: 10, CellPixels: 4}
}

// WriteFrames renders Ez snapshots to dir/frame_%04d.png. A first pass finds
// the largest |Ez| over all frames; the second pass restarts from zero
// fields and draws every frame on the fixed range ±1.1·max so colours are
// comparable across the sequence. It returns that range.
func WriteFrames(ctx context.Context, cfg *config.CavityConfig, dir string, opts FrameOptions) (float64, error) {
	if opts.Frames < 1 || opts.Substeps < 1 {
		return 0, fmt.Errorf("frames=%d substeps=%d: both must be positive", opts.Frames, opts.Substeps)
	}
	if opts.CellPixels < 1 {
		opts.CellPixels = 1
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	sim, err := fdtd.New(cfg)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	log.Info("scanning field amplitude", slog.Int("frames", opts.Frames), slog.Int("substeps", opts.Substeps))
	maxEz := 0.0
	err = eachFrame(ctx, sim, opts, func(int) error {
		maxEz = max(maxEz, sim.Fields().Ez.Data.MaxAbs())
		return nil
	})
	if err != nil {
		return 0, err
	}
	scale := 1.1 * maxEz
	log.Info("writing frames", slog.Float64("max_ez", maxEz), slog.Float64("scale", scale), slog.String("dir", dir))

	g := sim.Grid()
	src := image.Pt(g.Isrc, g.Jsrc)
	err = eachFrame(ctx, sim, opts, func(frame int) error {
		img := FieldImage(sim.Fields().Ez, scale, opts.CellPixels, viz.RdBu, &src)
		name := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", frame))
		if err := writePNG(name, img); err != nil {
			return err
		}
		if (frame+1)%20 == 0 {
			log.Debug("saved frame", slog.Int("frame", frame+1), slog.Int("of", opts.Frames))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return scale, nil
}

// eachFrame restarts sim and calls fn after every Substeps steps.
func eachFrame(ctx context.Context, sim *fdtd.Simulator, opts FrameOptions, fn func(frame int) error) error {
	sim.Reset()
	for frame := 0; frame < opts.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return &dynamo.SimulationError{
				Step:    sim.Steps(),
				Time:    sim.Time(),
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err),
			}
		}
		for k := 0; k < opts.Substeps; k++ {
			sim.Step()
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
	return nil
}

// FieldImage paints ez with x to the right and y up, px pixels per cell.
// src, when non-nil, is drawn as a black cross.
func FieldImage(ez *fdtd.Field, scale float64, px int, pal viz.Palette, src *image.Point) *image.RGBA {
	w, h := ez.Rows*px, ez.Cols*px
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < ez.Rows; i++ {
		for j := 0; j < ez.Cols; j++ {
			c := pal.At(ez.At(i, j), scale)
			y0 := (ez.Cols - 1 - j) * px
			for dy := 0; dy < px; dy++ {
				for dx := 0; dx < px; dx++ {
					img.SetRGBA(i*px+dx, y0+dy, c)
				}
			}
		}
	}

	if src != nil {
		black := color.RGBA{A: 0xff}
		cx := src.X*px + px/2
		cy := (ez.Cols-1-src.Y)*px + px/2
		arm := max(px, 3)
		for d := -arm; d <= arm; d++ {
			img.SetRGBA(cx+d, cy, black)
			img.SetRGBA(cx, cy+d, black)
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
