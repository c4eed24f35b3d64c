package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/cavsim/internal/analysis"
)

type PlotOptions struct {
	Width  int
	Height int
	// FMax limits the plotted band; 0 plots every bin.
	FMax float64
	// Modes is how many analytic modes to list below the plot.
	Modes int
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 72, Height: 14, FMax: 3e9, Modes: 8}
}

// SpectrumPlot renders the normalized spectrum up to FMax and lists the
// lowest analytic resonances inside that band.
func SpectrumPlot(spec *analysis.Spectrum, modes *analysis.ModeSet, opts PlotOptions) string {
	if spec == nil || spec.Len() == 0 {
		return Subtle.Render("(empty spectrum)")
	}

	fmax := opts.FMax
	if fmax <= 0 {
		fmax = spec.MaxFrequency()
	}
	data := make([]float64, 0, spec.Len())
	for k, f := range spec.Freqs {
		if f > fmax {
			break
		}
		data = append(data, spec.Magnitudes[k])
	}
	if len(data) < 2 {
		return Subtle.Render("(band holds fewer than two bins)")
	}

	caption := fmt.Sprintf("normalized |Ez| spectrum, 0 to %.0f MHz (%.2f MHz/bin)", fmax/1e6, spec.BinWidth()/1e6)
	graph := asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Precision(2),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption))

	var b strings.Builder
	b.WriteString(graph)
	b.WriteString("\n\n")
	b.WriteString(MetricLabel.Render("peak") + MetricValue.Render(fmt.Sprintf("%.2f MHz", spec.PeakFrequency()/1e6)) + "\n")

	if modes != nil && opts.Modes > 0 {
		b.WriteString(Subtle.Render("analytic TM modes") + "\n")
		for k := 0; k < modes.Len() && k < opts.Modes; k++ {
			if modes.Freqs[k] > fmax {
				break
			}
			b.WriteString(fmt.Sprintf("  TM%-8s %9.2f MHz\n", modes.Modes[k].String(), modes.Freqs[k]/1e6))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
