package viz

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/metrics"
	"github.com/san-kum/celestial/internal/scenario"
	"github.com/san-kum/celestial/internal/sim"
)

const (
	width           = 80
	height          = 30
	historyCapacity = 300
	maxSubsteps     = 16
	slowFactor      = 0.5
	pickRadius      = 10.0
	// canvasOffsetX and canvasOffsetY are the cells between the terminal
	// origin and the first canvas cell.
	canvasOffsetX = 2
	canvasOffsetY = 1
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a world from terminal ticks and renders it on a braille
// canvas next to a stats panel.
type Model struct {
	cfg    *config.Config
	world  *sim.World
	logger *log.Logger
	err    error

	canvas   *Canvas
	viewport Viewport

	running  bool
	drawing  bool
	showTree bool
	showHelp bool

	frame      int
	t          float64
	initial    int
	collisions int
	absorbed   int
	energy     []float64
	counts     []float64

	selected int
	hovered  int
	mouse    r2.Vec

	recorder *Recorder
}

// NewModel builds the scene in cfg. The model starts paused.
func NewModel(cfg *config.Config, logger *log.Logger) (Model, error) {
	w, err := scenario.Build(cfg)
	if err != nil {
		return Model{}, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	canvas := NewCanvas(width, height)
	cx, cy := cfg.Center()
	area := geom.NewRect(cx, cy, cfg.Area.Width, cfg.Area.Height)

	return Model{
		cfg:      cfg,
		world:    w,
		logger:   logger,
		canvas:   canvas,
		viewport: NewViewport(area, canvas),
		drawing:  true,
		initial:  w.Len(),
		energy:   make([]float64, 0, historyCapacity),
		counts:   make([]float64, 0, historyCapacity),
		selected: sim.NoExclude,
		hovered:  sim.NoExclude,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) World() *sim.World { return m.world }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.recorder != nil {
			m.recorder.Capture(m.world, m.viewport.Area)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.stopRecording()
		return m, tea.Quit
	case " ", "space":
		m.running = !m.running
	case "r":
		m.reset()
	case "s":
		m.world.ScaleVelocities(slowFactor)
	case "o":
		m.world.Reorbit()
	case "v":
		m.drawing = !m.drawing
	case "d":
		m.showTree = !m.showTree
	case "+", "=":
		m.world.SetSubsteps(min(m.world.Substeps()+1, maxSubsteps))
	case "-", "_":
		m.world.SetSubsteps(m.world.Substeps() - 1)
	case "t":
		NextTheme()
	case "g":
		if m.recorder != nil {
			m.stopRecording()
		} else {
			m.recorder = NewRecorder(width*8, height*16)
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x := (msg.X-canvasOffsetX)*2 + 1
	y := (msg.Y-canvasOffsetY)*4 + 2
	m.mouse = m.viewport.Unproject(x, y)

	m.hovered = sim.NoExclude
	if i, ok := m.world.Nearest(m.mouse, pickRadius); ok {
		m.hovered = i
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.selected = m.hovered
		}
	case tea.MouseActionRelease:
		m.selected = sim.NoExclude
	}
}

// step advances one frame, steering the selected body toward the mouse.
func (m *Model) step() {
	if m.selected >= 0 && m.selected < m.world.Len() {
		m.world.Drag(m.selected, m.mouse)
	}

	res := m.world.Step(sim.FrameInput{Dt: m.cfg.Dt, Exclude: m.selected})
	m.frame++
	m.t += m.cfg.Dt
	m.collisions += res.Collisions
	m.absorbed += len(res.Removed)

	if len(res.Removed) > 0 {
		m.logger.Debug("bodies absorbed", "frame", m.frame, "count", len(res.Removed))
		m.selected = shiftIndex(m.selected, res.Removed)
		m.hovered = shiftIndex(m.hovered, res.Removed)
	}

	m.energy = append(m.energy, metrics.TotalEnergy(m.world))
	m.counts = append(m.counts, float64(m.world.Len()))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
		m.counts = m.counts[1:]
	}
}

// shiftIndex follows body i across the removal of the ascending indices in
// removed. It returns NoExclude when i itself was removed.
func shiftIndex(i int, removed []int) int {
	if i < 0 {
		return i
	}
	shift := 0
	for _, r := range removed {
		switch {
		case r == i:
			return sim.NoExclude
		case r < i:
			shift++
		}
	}
	return i - shift
}

// reset rebuilds the scene from its seed and pauses.
func (m *Model) reset() {
	w, err := scenario.Build(m.cfg)
	if err != nil {
		m.err = err
		return
	}
	w.SetSubsteps(m.world.Substeps())
	m.world = w
	m.running = false
	m.frame, m.t = 0, 0
	m.collisions, m.absorbed = 0, 0
	m.initial = w.Len()
	m.energy = m.energy[:0]
	m.counts = m.counts[:0]
	m.selected, m.hovered = sim.NoExclude, sim.NoExclude
}

func (m *Model) stopRecording() {
	if m.recorder == nil {
		return
	}
	path := fmt.Sprintf("celestial_%d.gif", time.Now().Unix())
	if err := m.recorder.Save(path); err != nil {
		m.err = err
	} else {
		m.logger.Info("recording saved", "path", path, "frames", m.recorder.Len())
	}
	m.recorder = nil
}

func (m *Model) draw() {
	m.canvas.Clear()
	if !m.drawing {
		return
	}

	if m.showTree {
		m.world.Index().Walk(func(area geom.Rect, _ int) {
			x0, y0 := m.viewport.Project(r2.Vec{X: area.Left, Y: area.Up})
			x1, y1 := m.viewport.Project(r2.Vec{X: area.Right, Y: area.Down})
			m.canvas.DrawRect(x0, y0, x1, y1)
		})
	}

	for _, b := range m.world.Fixed() {
		x, y := m.viewport.Project(b.Position)
		r := m.viewport.Length(b.Radius)
		for k := r; k >= 0; k -= 2 {
			m.canvas.DrawCircle(x, y, k)
		}
	}

	for _, b := range m.world.Bodies() {
		x, y := m.viewport.Project(b.Position)
		m.canvas.DrawCircle(x, y, m.viewport.Length(b.Radius))
	}

	if m.hovered >= 0 && m.hovered < m.world.Len() {
		b := m.world.Bodies()[m.hovered]
		x, y := m.viewport.Project(b.Position)
		m.canvas.DrawCircle(x, y, m.viewport.Length(b.Radius)+2)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	theme := CurrentTheme
	canvasView := canvasStyle.Foreground(theme.Bodies).Render(m.canvas.String())

	var s strings.Builder
	title := m.cfg.Name
	if title == "" {
		title = "custom"
	}
	s.WriteString(HeaderStyle.Foreground(theme.Text).Render("CELESTIAL · "+strings.ToUpper(title)) + "\n\n")

	if m.recorder != nil {
		s.WriteString(StatusRecording.Render("● REC") + "  ")
	}
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Energy"))
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Frame", fmt.Sprintf("%d", m.frame))
	row("Bodies", fmt.Sprintf("%d/%d", m.world.Len(), m.initial))
	if m.initial > 0 {
		s.WriteString(MetricLabel.Render("") + ProgressBar(float64(m.world.Len())/float64(m.initial), 16) + "\n")
	}
	if len(m.counts) > 1 {
		s.WriteString(MetricLabel.Render("") + SparklineChart(m.counts, 16) + "\n")
	}
	row("Collisions", fmt.Sprintf("%d", m.collisions))
	row("Absorbed", fmt.Sprintf("%d", m.absorbed))
	row("Substeps", fmt.Sprintf("%d", m.world.Substeps()))
	row("Index", fmt.Sprintf("%d nodes, bucket %d", m.world.Index().Nodes(), m.world.Index().Capacity()))
	row("Integrator", m.world.Config().Integrator.Name())
	row("Contact", m.world.Config().Contact.String())

	if m.hovered >= 0 && m.hovered < m.world.Len() && len(m.world.Fixed()) > 0 {
		b := m.world.Bodies()[m.hovered]
		row("Dist", fmt.Sprintf("%.1f", geom.Dist(b.Position, m.world.Fixed()[0].Position)))
	}
	if m.err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(m.err.Error()) + "\n")
	}

	s.WriteString(KeyHint.Foreground(theme.Muted).Render("\nSP:Pause R:Reset Q:Quit\nS:Slow O:Orbit V:Draw D:Tree\n+/-:Substeps T:Theme ?:Help"))
	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)

	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset and pause          ║
║  S        - Halve every velocity     ║
║  O        - Restore circular orbits  ║
║  V        - Toggle drawing           ║
║  D        - Show index regions       ║
║  + / -    - More/fewer substeps      ║
║  Mouse    - Drag a body              ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// RunLive opens the live view for cfg.
func RunLive(cfg *config.Config, logger *log.Logger) error {
	m, err := NewModel(cfg, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
