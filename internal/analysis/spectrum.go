package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"github.com/san-kum/cavsim/internal/dynamo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Spectrum holds ascending frequencies [Hz] and magnitudes of equal length.
type Spectrum struct {
	Freqs      []float64
	Magnitudes []float64
}

func (s *Spectrum) Len() int { return len(s.Freqs) }

// BinWidth returns the frequency spacing, 0 for fewer than two bins.
func (s *Spectrum) BinWidth() float64 {
	if len(s.Freqs) < 2 {
		return 0
	}
	return s.Freqs[1] - s.Freqs[0]
}

func (s *Spectrum) MaxFrequency() float64 {
	if len(s.Freqs) == 0 {
		return 0
	}
	return s.Freqs[len(s.Freqs)-1]
}

// PeakFrequency returns the frequency of the largest magnitude bin.
func (s *Spectrum) PeakFrequency() float64 {
	if len(s.Magnitudes) == 0 {
		return 0
	}
	return s.Freqs[floats.MaxIdx(s.Magnitudes)]
}

// AveragedSpectrum drops the first floor(cutFraction·Nt) samples of every
// probe, applies a Hann window, takes the one-sided DFT magnitude and
// averages over probes. The average is divided by its maximum unless that
// maximum is zero.
func AveragedSpectrum(trace [][]float64, dt, cutFraction float64) (*Spectrum, error) {
	if len(trace) == 0 {
		return nil, fmt.Errorf("no probes: %w", dynamo.ErrEmptyTrace)
	}

	nt := len(trace[0])
	for p, row := range trace {
		if len(row) != nt {
			return nil, fmt.Errorf("probe %d has %d samples, probe 0 has %d: %w", p, len(row), nt, dynamo.ErrEmptyTrace)
		}
	}

	cut := int(math.Floor(cutFraction * float64(nt)))
	if cut < 0 {
		cut = 0
	}
	if cut > nt {
		cut = nt
	}
	n := nt - cut
	if n == 0 {
		return nil, fmt.Errorf("%d samples left after cutting %d: %w", n, cut, dynamo.ErrEmptyTrace)
	}

	w := hannWindow(n)
	mags := make([][]float64, len(trace))

	var g errgroup.Group
	for p, row := range trace {
		p, row := p, row
		g.Go(func() error {
			mags[p] = windowedMagnitude(row[cut:], w)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	avg := make([]float64, n/2+1)
	for _, m := range mags {
		floats.Add(avg, m)
	}
	probes := float64(len(trace))
	for k := range avg {
		avg[k] /= probes
	}

	if peak := floats.Max(avg); peak > 0 {
		for k := range avg {
			avg[k] /= peak
		}
	}

	return &Spectrum{Freqs: RFFTFreq(n, dt), Magnitudes: avg}, nil
}

// RFFTFreq returns the n/2+1 one-sided bin frequencies for n samples at
// spacing dt.
func RFFTFreq(n int, dt float64) []float64 {
	val := 1.0 / (float64(n) * dt)
	freqs := make([]float64, n/2+1)
	for k := range freqs {
		freqs[k] = float64(k) * val
	}
	return freqs
}

func hannWindow(n int) []float64 {
	if n == 1 {
		return []float64{1}
	}
	return window.Hann(n)
}

func windowedMagnitude(sig, w []float64) []float64 {
	x := make([]float64, len(sig))
	for i := range sig {
		x[i] = sig[i] * w[i]
	}

	spec := fft.FFTReal(x)
	out := make([]float64, len(x)/2+1)
	for k := range out {
		out[k] = cmplx.Abs(spec[k])
	}
	return out
}
