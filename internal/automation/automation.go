package automation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/experiment"
	"github.com/san-kum/cavsim/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of cavity runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides fields of the scenario preset. Unset fields keep
// the preset value.
type ScenarioStep struct {
	Label       string   `yaml:"label"`
	Nx          *int     `yaml:"nx"`
	Ny          *int     `yaml:"ny"`
	Lx          *float64 `yaml:"lx"`
	Ly          *float64 `yaml:"ly"`
	CFL         *float64 `yaml:"cfl"`
	Nt          *int     `yaml:"nt"`
	J0          *float64 `yaml:"j0"`
	CutFraction *float64 `yaml:"cut_fraction"`
	SaveAs      string   `yaml:"save_as"`
}

// Summary is the outcome of one scenario step.
type Summary struct {
	Step     int
	Label    string
	Config   *config.CavityConfig
	PeakFreq float64
	Mode     string
	ModeFreq float64
	RelError float64
	Energy   float64
	RunID    string
	Report   *experiment.Report
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Apply returns base with the step's overrides set.
func (st ScenarioStep) Apply(base *config.CavityConfig) *config.CavityConfig {
	cfg := base.Clone()
	if st.Nx != nil {
		cfg.Nx = *st.Nx
	}
	if st.Ny != nil {
		cfg.Ny = *st.Ny
	}
	if st.Lx != nil {
		cfg.Lx = *st.Lx
	}
	if st.Ly != nil {
		cfg.Ly = *st.Ly
	}
	if st.CFL != nil {
		cfg.CFL = *st.CFL
	}
	if st.Nt != nil {
		cfg.Nt = *st.Nt
	}
	if st.J0 != nil {
		cfg.J0 = *st.J0
	}
	if st.CutFraction != nil {
		cfg.CutFraction = *st.CutFraction
	}
	// A resized grid gets the default source and probes for its new shape.
	if st.Nx != nil || st.Ny != nil {
		cfg.Isrc, cfg.Jsrc, cfg.Probes = nil, nil, nil
	}
	return cfg
}

// RunScenario executes every step in order. Steps with save_as are written
// to store when it is non-nil. Results gathered before a failure are
// returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store, log *slog.Logger) ([]Summary, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	base := config.DefaultConfig()
	if scenario.Preset != "" {
		base = config.GetPreset(scenario.Preset)
		if base == nil {
			return nil, fmt.Errorf("scenario %q: unknown preset %q", scenario.Name, scenario.Preset)
		}
	}

	results := make([]Summary, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		cfg := step.Apply(base)
		log.Info("scenario step", slog.Int("step", i+1), slog.Int("of", len(scenario.Steps)), slog.String("label", step.Label))

		opts := experiment.DefaultOptions()
		opts.Logger = log
		rep, err := experiment.Run(ctx, cfg, opts)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		sum := Summary{
			Step:     i + 1,
			Label:    step.Label,
			Config:   cfg,
			PeakFreq: rep.Spectrum.PeakFrequency(),
			Energy:   rep.Energy,
			Report:   rep,
		}
		if len(rep.Matches) > 0 {
			best := rep.Matches[0]
			sum.Mode = best.Mode.String()
			sum.ModeFreq = best.ModeFreq
			sum.RelError = best.RelError
		}

		if step.SaveAs != "" && store != nil {
			id, err := store.Save(step.SaveAs, rep)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sum.RunID = id
		}
		results = append(results, sum)
	}
	return results, nil
}
