package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// canvasStyle padding must match canvasOffsetX and canvasOffsetY.
var (
	canvasStyle = lipgloss.NewStyle().Padding(canvasOffsetY, canvasOffsetX)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3a3a55")).
			Padding(1, 2).
			Width(42)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	StatusRunning   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5af78e"))
	StatusPaused    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f3f99d"))
	StatusRecording = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5c57")).Blink(true)

	MetricLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8aa8")).Width(12)
	MetricValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#57c7ff")).Bold(true)
	KeyHint     = lipgloss.NewStyle().Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#5af78e"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f3f99d"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5c57"))
)

// SparklineChart renders a mini sparkline of the last width values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}

// ProgressBar renders a bar filled to percent.
func ProgressBar(percent float64, width int) string {
	filled := min(max(int(percent*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case percent > 0.8:
		return SparkHigh.Render(bar)
	case percent > 0.4:
		return SparkMid.Render(bar)
	}
	return SparkLow.Render(bar)
}
