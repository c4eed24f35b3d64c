// Package analysis turns probe traces into spectra and compares them with
// the closed-form resonances of a rectangular PEC cavity.
//
//   - [AveragedSpectrum]: Hann-windowed one-sided |FFT| averaged over
//     probes, transient cut, normalized to its maximum
//   - [AnalyticModes]: brute-force TMmn eigenfrequency enumeration
//   - [FindPeaks]: local maxima of a spectrum above a threshold
//   - [MatchModes]: nearest analytic resonance for each spectral peak
//
// All functions are pure and safe for concurrent use on finalized data.
//
// # Example
//
//	spec, err := analysis.AveragedSpectrum(res.Trace, res.Meta.Dt, 0.15)
//	if err != nil {
//	    return err
//	}
//	modes := analysis.AnalyticModes(0.3, 0.2, spec.MaxFrequency(), 50, 50)
//	matches := analysis.MatchModes(analysis.FindPeaks(spec, 0.1), modes)
package analysis
