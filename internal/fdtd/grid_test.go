package fdtd

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/dynamo"
	"github.com/san-kum/cavsim/internal/physics"
)

func TestBuildGrid_DefaultCavity(t *testing.T) {
	cfg := config.DefaultConfig()

	g, err := BuildGrid(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if math.Abs(g.Dx-0.0025) > 1e-15 || math.Abs(g.Dy-0.0025) > 1e-15 {
		t.Errorf("expected dx=dy=0.0025, got dx=%v dy=%v", g.Dx, g.Dy)
	}

	wantDt := 0.99 / (physics.C0 * math.Sqrt(1/(g.Dx*g.Dx)+1/(g.Dy*g.Dy)))
	if math.Abs(g.Dt-wantDt) > 1e-24 {
		t.Errorf("dt = %v, want %v", g.Dt, wantDt)
	}
	if math.Abs(g.Dt-5.8377e-12) > 1e-16 {
		t.Errorf("dt = %v, want ~5.8377e-12", g.Dt)
	}

	if g.Isrc != 40 || g.Jsrc != 40 {
		t.Errorf("expected source (40,40), got (%d,%d)", g.Isrc, g.Jsrc)
	}

	wantProbes := []config.Cell{{I: 30, J: 27}, {I: 67, J: 35}, {I: 85, J: 54}}
	if diff := cmp.Diff(wantProbes, g.Probes); diff != "" {
		t.Errorf("default probes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGrid_TimeStepClosedForm(t *testing.T) {
	tests := []struct {
		lx, ly float64
		nx, ny int
		cfl    float64
	}{
		{0.3, 0.2, 121, 81, 0.99},
		{1.0, 0.1, 11, 51, 0.5},
		{0.05, 0.05, 2, 2, 0.7},
		{2.0, 3.0, 300, 17, 1.2},
	}

	for _, tt := range tests {
		cfg := config.DefaultConfig()
		cfg.Lx, cfg.Ly, cfg.Nx, cfg.Ny, cfg.CFL = tt.lx, tt.ly, tt.nx, tt.ny, tt.cfl

		g, err := BuildGrid(cfg)
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		dx := tt.lx / float64(tt.nx-1)
		dy := tt.ly / float64(tt.ny-1)
		want := tt.cfl / (physics.C0 * math.Sqrt(1/(dx*dx)+1/(dy*dy)))
		if math.Abs(g.Dt-want) > 1e-12*want {
			t.Errorf("%+v: dt = %v, want %v", tt, g.Dt, want)
		}
	}
}

func TestBuildGrid_InvalidGrid(t *testing.T) {
	for _, dims := range [][2]int{{1, 10}, {10, 1}, {0, 0}} {
		cfg := config.DefaultConfig()
		cfg.Nx, cfg.Ny = dims[0], dims[1]
		if _, err := BuildGrid(cfg); !errors.Is(err, dynamo.ErrInvalidGrid) {
			t.Errorf("%v: expected ErrInvalidGrid, got %v", dims, err)
		}
	}
}

func TestBuildGrid_UserValuesNotValidated(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SetSource(0, 500)
	cfg.Probes = []config.Cell{{I: -1, J: 2}, {I: 1000, J: 1000}}

	g, err := BuildGrid(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if g.Isrc != 0 || g.Jsrc != 500 {
		t.Errorf("source overridden: (%d,%d)", g.Isrc, g.Jsrc)
	}
	if diff := cmp.Diff(cfg.Probes, g.Probes); diff != "" {
		t.Errorf("probes altered (-want +got):\n%s", diff)
	}
	if g.SourceInside() {
		t.Error("source on wall reported as interior")
	}
}

func TestBuildGrid_EmptyProbeListUsesDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Probes = []config.Cell{}

	g, err := BuildGrid(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Probes) != 3 {
		t.Errorf("expected 3 default probes, got %d", len(g.Probes))
	}
}

func TestAllocateFields_Shapes(t *testing.T) {
	s := AllocateFields(7, 5)

	shapes := []struct {
		name       string
		f          *Field
		rows, cols int
	}{
		{"Ez", s.Ez, 7, 5},
		{"Hx", s.Hx, 7, 4},
		{"Hy", s.Hy, 6, 5},
	}
	for _, sh := range shapes {
		if sh.f.Rows != sh.rows || sh.f.Cols != sh.cols || len(sh.f.Data) != sh.rows*sh.cols {
			t.Errorf("%s: got %dx%d (len %d), want %dx%d", sh.name, sh.f.Rows, sh.f.Cols, len(sh.f.Data), sh.rows, sh.cols)
		}
		if sh.f.Data.MaxAbs() != 0 {
			t.Errorf("%s not zero-initialised", sh.name)
		}
	}
}

func TestSoftCurrent(t *testing.T) {
	dt := 1e-12
	if got := SoftCurrent(50*dt, dt, 50, 15, 1000); got != 1000 {
		t.Errorf("peak = %v, want 1000", got)
	}

	before := SoftCurrent(40*dt, dt, 50, 15, 1000)
	after := SoftCurrent(60*dt, dt, 50, 15, 1000)
	if math.Abs(before-after) > 1e-9 {
		t.Errorf("pulse not symmetric about t0: %v vs %v", before, after)
	}

	want := 1000 * math.Exp(-1)
	if got := SoftCurrent(65*dt, dt, 50, 15, 1000); math.Abs(got-want) > 1e-9 {
		t.Errorf("one tau after peak = %v, want %v", got, want)
	}

	if got := SoftCurrent(10*dt, dt, 50, 15, 0); got != 0 {
		t.Errorf("zero amplitude gave %v", got)
	}
}

func TestHalfStepTime(t *testing.T) {
	if got := HalfStepTime(3, 2.0); got != 7.0 {
		t.Errorf("HalfStepTime(3, 2) = %v, want 7", got)
	}
}
