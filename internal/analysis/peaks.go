package analysis

import (
	"math"
	"sort"
)

type Peak struct {
	Index     int     `json:"index"`
	Freq      float64 `json:"freq"`
	Magnitude float64 `json:"magnitude"`
}

// FindPeaks returns local maxima with magnitude ≥ threshold, largest
// first. A bin must exceed its left neighbour and be no smaller than its
// right one, so a flat top reports only its first bin.
func FindPeaks(s *Spectrum, threshold float64) []Peak {
	m := s.Magnitudes
	peaks := make([]Peak, 0)
	for k := 1; k < len(m)-1; k++ {
		if m[k] > m[k-1] && m[k] >= m[k+1] && m[k] >= threshold {
			peaks = append(peaks, Peak{Index: k, Freq: s.Freqs[k], Magnitude: m[k]})
		}
	}
	sort.SliceStable(peaks, func(a, b int) bool { return peaks[a].Magnitude > peaks[b].Magnitude })
	return peaks
}

// Match pairs a spectral peak with its nearest analytic resonance.
type Match struct {
	Peak     Peak      `json:"peak"`
	Mode     ModeIndex `json:"mode"`
	ModeFreq float64   `json:"mode_freq"`
	AbsError float64   `json:"abs_error"`
	RelError float64   `json:"rel_error"`
}

func MatchModes(peaks []Peak, modes *ModeSet) []Match {
	matches := make([]Match, 0, len(peaks))
	if modes == nil || modes.Len() == 0 {
		return matches
	}
	for _, p := range peaks {
		i := modes.Nearest(p.Freq)
		f := modes.Freqs[i]
		abs := math.Abs(p.Freq - f)
		matches = append(matches, Match{
			Peak:     p,
			Mode:     modes.Modes[i],
			ModeFreq: f,
			AbsError: abs,
			RelError: abs / f,
		})
	}
	return matches
}
