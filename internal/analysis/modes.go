package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/cavsim/internal/physics"
)

// DefaultModeSearch is the default upper bound for both mode indices.
const DefaultModeSearch = 50

type ModeIndex struct {
	M int `json:"m"`
	N int `json:"n"`
}

func (m ModeIndex) String() string { return fmt.Sprintf("(%d,%d)", m.M, m.N) }

// ModeSet holds analytic resonances in ascending frequency order.
type ModeSet struct {
	Freqs []float64
	Modes []ModeIndex
}

func (s *ModeSet) Len() int { return len(s.Freqs) }

// AnalyticModes enumerates every TMmn with 1 ≤ m ≤ mmax, 1 ≤ n ≤ nmax and
// f_mn ≤ fmax. Equal frequencies keep enumeration order (m, then n).
func AnalyticModes(lx, ly, fmax float64, mmax, nmax int) *ModeSet {
	type candidate struct {
		f   float64
		idx ModeIndex
	}

	found := make([]candidate, 0)
	for m := 1; m <= mmax; m++ {
		for n := 1; n <= nmax; n++ {
			f := physics.ModeFrequency(m, n, lx, ly)
			if f <= fmax {
				found = append(found, candidate{f, ModeIndex{m, n}})
			}
		}
	}

	sort.SliceStable(found, func(a, b int) bool { return found[a].f < found[b].f })

	set := &ModeSet{
		Freqs: make([]float64, len(found)),
		Modes: make([]ModeIndex, len(found)),
	}
	for i, c := range found {
		set.Freqs[i] = c.f
		set.Modes[i] = c.idx
	}
	return set
}

// Nearest returns the index of the resonance closest to f, or -1 when the
// set is empty.
func (s *ModeSet) Nearest(f float64) int {
	if len(s.Freqs) == 0 {
		return -1
	}
	i := sort.SearchFloat64s(s.Freqs, f)
	switch {
	case i == 0:
		return 0
	case i == len(s.Freqs):
		return i - 1
	}
	if math.Abs(s.Freqs[i-1]-f) <= math.Abs(s.Freqs[i]-f) {
		return i - 1
	}
	return i
}
