// Package viz renders cavity fields and spectra in the terminal.
//
//   - [Heatmap]: half-block Ez map coloured with a diverging palette
//   - [SpectrumPlot]: asciigraph spectrum with the analytic mode list
//   - [LiveModel]: Bubble Tea animation of a running cavity
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from zero fields
//	+/-   - Double/halve steps per frame
//	T     - Cycle colour themes
//	Q     - Quit
package viz
