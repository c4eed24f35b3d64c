package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/fdtd"
	"github.com/san-kum/cavsim/internal/metrics"
)

// DefaultSubsteps is the number of steps a tick advances unless overridden.
const DefaultSubsteps = 4

const (
	historyCapacity = 600
	maxSubsteps     = 256
	// minScale keeps the colour range finite before the pulse arrives.
	minScale = 1e-9
)

var (
	statsStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2).Width(40)
	mapStyle   = lipgloss.NewStyle().Padding(1, 2)
)

type TickMsg time.Time

// LiveModel animates a cavity run. Each tick advances Substeps steps and
// redraws Ez on a symmetric scale of half the current max |Ez|.
type LiveModel struct {
	sim      *fdtd.Simulator
	energy   *metrics.FieldEnergy
	substeps int
	fps      int
	running  bool
	theme    Theme
	cols     int
	lines    int
	probe    []float64
}

func NewLiveModel(cfg *config.CavityConfig, substeps, fps int) (LiveModel, error) {
	sim, err := fdtd.New(cfg)
	if err != nil {
		return LiveModel{}, err
	}
	g := sim.Grid()
	energy := metrics.NewFieldEnergy(g.Dx, g.Dy, historyCapacity)
	sim.AddObserver(energy)

	if substeps < 1 {
		substeps = 1
	}
	if fps < 1 {
		fps = 30
	}
	return LiveModel{
		sim:      sim,
		energy:   energy,
		substeps: min(substeps, maxSubsteps),
		fps:      fps,
		running:  true,
		theme:    CurrentTheme,
		cols:     min(g.Nx, 80),
		lines:    min((g.Ny+1)/2, 24),
		probe:    make([]float64, 0, historyCapacity),
	}, nil
}

func (m LiveModel) Init() tea.Cmd { return m.tick() }

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.substeps = min(m.substeps*2, maxSubsteps)
		case "-", "_":
			m.substeps = max(m.substeps/2, 1)
		case "t":
			m.theme = NextTheme(m.theme.Name)
		}
	case tea.WindowSizeMsg:
		g := m.sim.Grid()
		m.cols = max(min(msg.Width-48, g.Nx), 8)
		m.lines = max(min(msg.Height-4, (g.Ny+1)/2), 4)
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *LiveModel) advance() {
	for k := 0; k < m.substeps; k++ {
		m.sim.Step()
	}
	probes := m.sim.Grid().Probes
	if len(probes) > 0 {
		c := probes[0]
		ez := m.sim.Fields().Ez
		if c.I >= 0 && c.I < ez.Rows && c.J >= 0 && c.J < ez.Cols {
			m.probe = append(m.probe, ez.At(c.I, c.J))
			if len(m.probe) > historyCapacity {
				m.probe = m.probe[1:]
			}
		}
	}
}

func (m *LiveModel) reset() {
	m.sim.Reset()
	m.energy.Reset()
	m.probe = m.probe[:0]
}

func (m LiveModel) Steps() int    { return m.sim.Steps() }
func (m LiveModel) Substeps() int { return m.substeps }
func (m LiveModel) Running() bool { return m.running }
func (m LiveModel) Theme() Theme  { return m.theme }

// Scale returns the current colour range, half the peak |Ez| with the
// peak floored at minScale.
func (m LiveModel) Scale() float64 {
	return 0.5 * max(m.sim.Fields().Ez.Data.MaxAbs(), minScale)
}

func (m LiveModel) View() string {
	g := m.sim.Grid()
	src := config.Cell{I: g.Isrc, J: g.Jsrc}
	heat := Heatmap(m.sim.Fields().Ez, m.Scale(), m.cols, m.lines, PaletteFromTheme(m.theme), &src)

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(GradientText(fmt.Sprintf("TMz cavity %dx%d", g.Nx, g.Ny), m.theme.Primary, m.theme.Secondary)) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("step", fmt.Sprintf("%d", m.sim.Steps()))
	row("time", fmt.Sprintf("%.3f ns", m.sim.Time()*1e9))
	row("substeps", fmt.Sprintf("%d", m.substeps))
	row("scale", fmt.Sprintf("±%.3e V/m", m.Scale()))
	row("energy", fmt.Sprintf("%.3e J/m", m.energy.Value()))
	row("theme", m.theme.Name)
	if nt := m.sim.Config().Nt; nt > 0 {
		s.WriteString("\n" + ProgressBar(float64(m.sim.Steps())/float64(nt), 30) + "\n")
	}

	caption := lipgloss.NewStyle().Foreground(m.theme.Muted)
	s.WriteString("\n" + caption.Render("probe 0 Ez") + "\n")
	s.WriteString(SparklineChart(m.probe, 30) + "\n")
	s.WriteString(caption.Render("energy") + "\n")
	s.WriteString(SparklineChart(m.energy.History(), 30) + "\n\n")

	s.WriteString(Separator(30) + "\n")
	s.WriteString(KeyHint.Render("SP:Pause R:Reset Q:Quit\n+/-:Speed T:Theme"))

	return lipgloss.JoinHorizontal(lipgloss.Top, mapStyle.Render(heat), statsStyle.Render(s.String()))
}

// RunLive starts the animation on the terminal's alternate screen.
func RunLive(cfg *config.CavityConfig, substeps, fps int) error {
	m, err := NewLiveModel(cfg, substeps, fps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
