package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/fdtd"
)

// Heatmap draws ez with x to the right and y up, two grid samples per text
// line using upper half blocks. The output never exceeds the grid
// resolution. src, when non-nil, is marked with '*'.
func Heatmap(ez *fdtd.Field, scale float64, cols, lines int, pal Palette, src *config.Cell) string {
	if ez == nil || ez.Rows == 0 || ez.Cols == 0 || cols <= 0 || lines <= 0 {
		return ""
	}
	cols = min(cols, ez.Rows)
	lines = min(lines, (ez.Cols+1)/2)
	h := 2 * lines

	ix := make([]int, cols)
	for px := range ix {
		ix[px] = min(int((float64(px)+0.5)*float64(ez.Rows)/float64(cols)), ez.Rows-1)
	}
	jy := make([]int, h)
	for py := range jy {
		jy[py] = ez.Cols - 1 - min(int((float64(py)+0.5)*float64(ez.Cols)/float64(h)), ez.Cols-1)
	}

	srcCol, srcLine := -1, -1
	if src != nil {
		srcCol = nearest(ix, src.I)
		srcLine = nearest(jy, src.J) / 2
	}

	var b strings.Builder
	for line := 0; line < lines; line++ {
		for px := 0; px < cols; px++ {
			top := pal.Lipgloss(ez.At(ix[px], jy[2*line]), scale)
			bottom := pal.Lipgloss(ez.At(ix[px], jy[2*line+1]), scale)
			style := lipgloss.NewStyle().Foreground(top).Background(bottom)
			if px == srcCol && line == srcLine {
				b.WriteString(style.Foreground(lipgloss.Color("#000000")).Render("*"))
				continue
			}
			b.WriteString(style.Render("▀"))
		}
		if line < lines-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// nearest returns the position in idx whose value is closest to v.
func nearest(idx []int, v int) int {
	best, dist := 0, -1
	for k, x := range idx {
		d := x - v
		if d < 0 {
			d = -d
		}
		if dist < 0 || d < dist {
			best, dist = k, d
		}
	}
	return best
}
