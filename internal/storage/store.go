package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/cavsim/internal/analysis"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/experiment"
	"github.com/san-kum/cavsim/internal/fdtd"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
	spectrumFile = "spectrum.csv"
	fieldFile    = "field.csv"
)

var ErrRunNotFound = errors.New("run not found")

// Store keeps one directory per run under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string               `json:"id"`
	Preset    string               `json:"preset"`
	Timestamp time.Time            `json:"timestamp"`
	Config    *config.CavityConfig `json:"config"`
	Grid      fdtd.RunMetadata     `json:"grid"`
	Steps     int                  `json:"steps"`
	Matches   []analysis.Match     `json:"matches"`
	Metrics   map[string]float64   `json:"metrics"`
}

// Save writes the report as metadata.json plus trace, spectrum and final
// Ez CSV files and returns the run id.
func (s *Store) Save(preset string, rep *experiment.Report) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", preset, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    preset,
		Timestamp: now,
		Config:    rep.Config,
		Grid:      rep.Result.Meta,
		Steps:     rep.Result.StepsTaken,
		Matches:   rep.Matches,
		Metrics:   rep.Metrics(),
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, traceFile), func(w *csv.Writer) error {
		return WriteTrace(w, rep.Result.Trace, rep.Result.Meta.Dt)
	}); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, spectrumFile), func(w *csv.Writer) error {
		return WriteSpectrum(w, rep.Spectrum)
	}); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, fieldFile), func(w *csv.Writer) error {
		return WriteField(w, rep.Result.Fields.Ez)
	}); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns saved runs, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.path(runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace returns the probe rows and the time column of trace.csv.
func (s *Store) LoadTrace(runID string) (fdtd.ProbeTrace, []float64, error) {
	records, err := s.readCSV(runID, traceFile)
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return fdtd.ProbeTrace{}, []float64{}, nil
	}

	probes := len(records[0]) - 2
	if probes < 0 {
		probes = 0
	}
	trace := make(fdtd.ProbeTrace, probes)
	for p := range trace {
		trace[p] = make([]float64, 0, len(records)-1)
	}
	times := make([]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		vals, err := parseRow(records[i])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", traceFile, i+1, err)
		}
		if len(vals) != probes+2 {
			return nil, nil, fmt.Errorf("%s line %d: expected %d columns, got %d", traceFile, i+1, probes+2, len(vals))
		}
		times = append(times, vals[1])
		for p := 0; p < probes; p++ {
			trace[p] = append(trace[p], vals[p+2])
		}
	}
	return trace, times, nil
}

func (s *Store) LoadSpectrum(runID string) (*analysis.Spectrum, error) {
	records, err := s.readCSV(runID, spectrumFile)
	if err != nil {
		return nil, err
	}
	spec := &analysis.Spectrum{Freqs: []float64{}, Magnitudes: []float64{}}
	for i := 1; i < len(records); i++ {
		vals, err := parseRow(records[i])
		if err != nil || len(vals) != 2 {
			return nil, fmt.Errorf("%s line %d: malformed row", spectrumFile, i+1)
		}
		spec.Freqs = append(spec.Freqs, vals[0])
		spec.Magnitudes = append(spec.Magnitudes, vals[1])
	}
	return spec, nil
}

// LoadField reads the final Ez snapshot.
func (s *Store) LoadField(runID string) (*fdtd.Field, error) {
	records, err := s.readCSV(runID, fieldFile)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return fdtd.NewField(0, 0), nil
	}
	f := fdtd.NewField(len(records), len(records[0]))
	for i, rec := range records {
		vals, err := parseRow(rec)
		if err != nil || len(vals) != f.Cols {
			return nil, fmt.Errorf("%s row %d: malformed", fieldFile, i)
		}
		copy(f.Row(i), vals)
	}
	return f, nil
}

func (s *Store) path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

func (s *Store) readCSV(runID, name string) ([][]string, error) {
	file, err := os.Open(s.path(runID, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s/%s: %w", runID, name, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// WriteTrace writes one row per step: step, time after the step, then Ez
// at each probe.
func WriteTrace(w *csv.Writer, trace fdtd.ProbeTrace, dt float64) error {
	header := []string{"step", "time"}
	for p := range trace {
		header = append(header, fmt.Sprintf("p%d", p))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	nt := 0
	if len(trace) > 0 {
		nt = len(trace[0])
	}
	row := make([]string, len(header))
	for n := 0; n < nt; n++ {
		row[0] = strconv.Itoa(n)
		row[1] = formatFloat(float64(n+1) * dt)
		for p := range trace {
			row[p+2] = formatFloat(trace[p][n])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func WriteSpectrum(w *csv.Writer, spec *analysis.Spectrum) error {
	if err := w.Write([]string{"freq_hz", "magnitude"}); err != nil {
		return err
	}
	for k := range spec.Freqs {
		if err := w.Write([]string{formatFloat(spec.Freqs[k]), formatFloat(spec.Magnitudes[k])}); err != nil {
			return err
		}
	}
	return nil
}

// WriteField writes f without a header, one CSV row per field row.
func WriteField(w *csv.Writer, f *fdtd.Field) error {
	row := make([]string, f.Cols)
	for i := 0; i < f.Rows; i++ {
		for j, v := range f.Row(i) {
			row[j] = formatFloat(v)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, fn func(w *csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := fn(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return encodeJSON(file, v)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseRow(rec []string) ([]float64, error) {
	vals := make([]float64, len(rec))
	for i, s := range rec {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Export assembles the JSON form of a saved run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	trace, _, err := s.LoadTrace(runID)
	if err != nil {
		return nil, err
	}
	spec, err := s.LoadSpectrum(runID)
	if err != nil {
		return nil, err
	}
	return &ExportData{
		Grid:      meta.Grid,
		Steps:     meta.Steps,
		Trace:     traceSamples(trace),
		Freqs:     spec.Freqs,
		Magnitude: spec.Magnitudes,
		Matches:   meta.Matches,
		Metrics:   meta.Metrics,
	}, nil
}
