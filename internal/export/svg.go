package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/cavsim/internal/analysis"
)

// LabeledModes is how many of the lowest analytic modes get a text label.
const LabeledModes = 8

// SpectrumSVG draws the normalized spectrum against frequency in MHz, with
// a dashed vertical marker at every analytic mode in range. fmax limits the
// axis; 0 uses the whole spectrum.
func SpectrumSVG(spec *analysis.Spectrum, modes *analysis.ModeSet, fmax float64, width, height int) string {
	if spec == nil || spec.Len() < 2 || width <= 0 || height <= 0 {
		return ""
	}
	if fmax <= 0 || fmax > spec.MaxFrequency() {
		fmax = spec.MaxFrequency()
	}

	const margin = 50.0
	plotW := float64(width) - 2*margin
	plotH := float64(height) - 2*margin
	xOf := func(f float64) float64 { return margin + f/fmax*plotW }
	yOf := func(m float64) float64 { return margin + (1-m)*plotH }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<g font-family="sans-serif" font-size="11" fill="#333333">
`, width, height, width, height))

	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333"/>
`, margin, yOf(0), margin+plotW, yOf(0)))
	sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333"/>
`, margin, yOf(0), margin, yOf(1)))
	for k := 0; k <= 5; k++ {
		f := fmax * float64(k) / 5
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">%.0f</text>
`, xOf(f), yOf(0)+16, f/1e6))
	}
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" text-anchor="middle">Frequency [MHz]</text>
`, margin+plotW/2, float64(height)-10))
	sb.WriteString(fmt.Sprintf(`<text x="14" y="%.1f" transform="rotate(-90 14 %.1f)" text-anchor="middle">Normalized |Ez|</text>
`, margin+plotH/2, margin+plotH/2))

	if modes != nil {
		for k := 0; k < modes.Len(); k++ {
			f := modes.Freqs[k]
			if f > fmax {
				break
			}
			x := xOf(f)
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d62728" stroke-dasharray="4 3" stroke-opacity="0.6"/>
`, x, yOf(0), x, yOf(1)))
			if k < LabeledModes {
				sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="#d62728" text-anchor="middle">%s</text>
`, x, yOf(1)-6-float64(k%2)*12, modes.Modes[k].String()))
			}
		}
	}

	sb.WriteString(`<path fill="none" stroke="#1f77b4" stroke-width="1.2" d="`)
	for k, f := range spec.Freqs {
		if f > fmax {
			break
		}
		cmd := " L"
		if k == 0 {
			cmd = "M"
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, xOf(f), yOf(spec.Magnitudes[k])))
	}
	sb.WriteString(`"/>
</g>
</svg>`)
	return sb.String()
}
