package automation

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/storage"
)

const sweepYAML = `
name: resolution
description: coarse cavity at two resolutions
preset: coarse
steps:
  - label: base
    nt: 600
  - label: finer
    nx: 41
    ny: 29
    nt: 600
    save_as: finer
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func intp(v int) *int { return &v }

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, sweepYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "resolution" || sc.Preset != "coarse" {
		t.Errorf("unexpected header: %+v", sc)
	}

	want := []ScenarioStep{
		{Label: "base", Nt: intp(600)},
		{Label: "finer", Nx: intp(41), Ny: intp(29), Nt: intp(600), SaveAs: "finer"},
	}
	if diff := cmp.Diff(want, sc.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestScenarioStep_Apply(t *testing.T) {
	base := config.DefaultConfig()
	base.SetSource(5, 5)

	kept := ScenarioStep{Nt: intp(10)}.Apply(base)
	if kept.Nt != 10 || kept.Nx != base.Nx || kept.Isrc == nil || *kept.Isrc != 5 {
		t.Errorf("override without resize changed too much: %+v", kept)
	}

	resized := ScenarioStep{Nx: intp(50)}.Apply(base)
	if resized.Nx != 50 || resized.Isrc != nil {
		t.Errorf("resize should drop explicit source: %+v", resized)
	}
	if base.Nt != config.DefaultNt {
		t.Error("Apply must not modify the base config")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, sweepYAML))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	results, err := RunScenario(context.Background(), sc, store, nil)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(results))
	}
	if results[0].RunID != "" {
		t.Error("unsaved step should have no run id")
	}
	if !strings.HasPrefix(results[1].RunID, "finer_") {
		t.Errorf("unexpected run id %q", results[1].RunID)
	}
	if results[1].Config.Nx != 41 {
		t.Errorf("override not applied: nx=%d", results[1].Config.Nx)
	}
	for _, r := range results {
		if r.PeakFreq <= 0 || r.Mode == "" {
			t.Errorf("step %d: missing spectral summary %+v", r.Step, r)
		}
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 saved run, got %d", len(runs))
	}
}

func TestRunScenario_UnknownPreset(t *testing.T) {
	sc := &Scenario{Name: "x", Preset: "nope", Steps: []ScenarioStep{{}}}
	if _, err := RunScenario(context.Background(), sc, nil, nil); err == nil {
		t.Error("expected error for unknown preset")
	}
}
