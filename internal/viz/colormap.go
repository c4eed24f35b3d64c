package viz

import (
	"image/color"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Palette maps a signed value onto a diverging colour ramp.
type Palette struct {
	Negative, Zero, Positive color.RGBA
}

func PaletteFromTheme(t Theme) Palette {
	return Palette{
		Negative: rgbaFromHex(string(t.Negative)),
		Zero:     rgbaFromHex(string(t.Zero)),
		Positive: rgbaFromHex(string(t.Positive)),
	}
}

// RdBu is the red/blue palette used for exported frames.
var RdBu = PaletteFromTheme(ThemeRdBu)

// At returns the colour of v on the symmetric range [-scale, scale].
// Values outside the range saturate; NaN maps to the zero colour.
func (p Palette) At(v, scale float64) color.RGBA {
	if scale <= 0 || math.IsNaN(v) {
		return p.Zero
	}
	x := v / scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}
	if x >= 0 {
		return lerpRGBA(p.Zero, p.Positive, x)
	}
	return lerpRGBA(p.Zero, p.Negative, -x)
}

func (p Palette) Lipgloss(v, scale float64) lipgloss.Color {
	c := p.At(v, scale)
	return lipgloss.Color(hexColor(int(c.R), int(c.G), int(c.B)))
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + t*(float64(y)-float64(x))))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}

func rgbaFromHex(hex string) color.RGBA {
	r, g, b := parseHex(hex)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}
