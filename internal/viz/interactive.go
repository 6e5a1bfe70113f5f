package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/san-kum/celestial/internal/config"
)

var presetInfo = map[string]string{
	"orbit":  "bodies around a star",
	"dense":  "crowded collision field",
	"absorb": "star swallows bodies",
	"nbody":  "mutual gravity",
	"verlet": "position verlet orbits",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// param is one editable field of the selected preset.
type param struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var params = []param{
	{"bodies", func(c *config.Config) float64 { return float64(c.Bodies.Count) }, func(c *config.Config, v float64) { c.Bodies.Count = max(int(v), 0) }},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) }, func(c *config.Config, v float64) { c.Seed = uint64(max(v, 0)) }},
	{"substeps", func(c *config.Config) float64 { return float64(c.Substeps) }, func(c *config.Config, v float64) { c.Substeps = max(int(v), 1) }},
	{"dt", func(c *config.Config) float64 { return c.Dt }, func(c *config.Config, v float64) { c.Dt = v }},
	{"gravity", func(c *config.Config) float64 { return c.Physics.Gravity }, func(c *config.Config, v float64) { c.Physics.Gravity = v }},
	{"restitution", func(c *config.Config) float64 { return c.Physics.Restitution }, func(c *config.Config, v float64) { c.Physics.Restitution = v }},
}

// paramStep is the h/l increment for each field.
var paramStep = map[string]float64{
	"bodies": 10, "seed": 1, "substeps": 1, "dt": 0.001, "gravity": 0.1, "restitution": 0.05,
}

type app struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	logger        *log.Logger
	liveModel     Model
}

func NewInteractiveApp(logger *log.Logger) *app {
	return &app{
		state:   stateMenu,
		presets: config.ListPresets(),
		logger:  logger,
	}
}

func (m app) Init() tea.Cmd { return nil }

func (m app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(key)
	}
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m app) handleKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m app) menuKey(msg tea.KeyMsg) (app, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ", "space":
		m.cfg, m.err = config.GetPreset(m.presets[m.cursor]), nil
		m.state, m.paramCursor = stateConfig, 0
	}
	return m, nil
}

func (m app) configKey(msg tea.KeyMsg) (app, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				p.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ", "space":
		m.editing, m.editBuf = true, formatParam(p.get(m.cfg))
	case "s":
		return m.start()
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-paramStep[p.name])
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+paramStep[p.name])
	}
	return m, nil
}

func (m app) start() (app, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	live, err := NewModel(m.cfg, m.logger)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel, m.err = live, nil
	m.state = stateSim
	return m, m.liveModel.Init()
}

func formatParam(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

func (m app) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	activeDesc    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	inactiveDesc  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	hintKey       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(hintKey.Render(pairs[i]) + inactiveStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m app) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("CELESTIAL") + "\n    " + subStyle.Render("2d gravity and collision sandbox") + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-10s", name)), activeDesc.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", inactiveStyle.Render(fmt.Sprintf("  %-10s", name)), inactiveDesc.Render(desc))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m app) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(m.cfg.Name)) + "\n    " + subStyle.Render(presetInfo[m.cfg.Name]) + "\n    " + subStyle.Render("─────────────────────────") + "\n\n")
	for i, p := range params {
		valStr := fmt.Sprintf("%10s", formatParam(p.get(m.cfg)))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", cursorStyle.Render("▸"), activeStyle.Render(fmt.Sprintf("%-12s", p.name)), activeDesc.Bold(true).Render(valStr))
		} else {
			fmt.Fprintf(&b, "    %s %s\n", inactiveStyle.Render(fmt.Sprintf("  %-12s", p.name)), inactiveDesc.Render(valStr))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset menu.
func RunInteractive(logger *log.Logger) error {
	_, err := tea.NewProgram(NewInteractiveApp(logger), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
