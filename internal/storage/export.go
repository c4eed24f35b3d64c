package storage

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"os"

	"github.com/san-kum/cavsim/internal/analysis"
	"github.com/san-kum/cavsim/internal/experiment"
	"github.com/san-kum/cavsim/internal/fdtd"
)

// Samples is a float series whose NaN and ±Inf entries encode as null,
// so runs that diverged still export.
type Samples []float64

func (s Samples) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	vals := make([]*float64, len(s))
	for i := range s {
		if !math.IsNaN(s[i]) && !math.IsInf(s[i], 0) {
			vals[i] = &s[i]
		}
	}
	return json.Marshal(vals)
}

// ExportData is the self-contained JSON form of a run.
type ExportData struct {
	Grid      fdtd.RunMetadata   `json:"grid"`
	Steps     int                `json:"steps"`
	Trace     []Samples          `json:"trace"`
	Freqs     Samples            `json:"freqs"`
	Magnitude Samples            `json:"magnitude"`
	Matches   []analysis.Match   `json:"matches"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewExportData(rep *experiment.Report) ExportData {
	return ExportData{
		Grid:      rep.Result.Meta,
		Steps:     rep.Result.StepsTaken,
		Trace:     traceSamples(rep.Result.Trace),
		Freqs:     rep.Spectrum.Freqs,
		Magnitude: rep.Spectrum.Magnitudes,
		Matches:   rep.Matches,
		Metrics:   rep.Metrics(),
	}
}

func traceSamples(trace fdtd.ProbeTrace) []Samples {
	rows := make([]Samples, len(trace))
	for p, row := range trace {
		rows[p] = row
	}
	return rows
}

// ExportJSON writes the run to path, or to stdout when path is "" or "-".
// The file is only created once encoding succeeded.
func ExportJSON(path string, rep *experiment.Report) error {
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, rep)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func WriteJSON(w io.Writer, rep *experiment.Report) error {
	return encodeJSON(w, NewExportData(rep))
}

// Encode writes d as indented JSON.
func (d *ExportData) Encode(w io.Writer) error {
	return encodeJSON(w, d)
}
