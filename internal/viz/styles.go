package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(12)

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	driftGood = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	driftWarn = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	driftBad  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))

	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Width(44)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// DriftStyle colors a relative energy drift: green below 1e-4, yellow below
// 1e-2, red otherwise.
func DriftStyle(drift float64) lipgloss.Style {
	switch {
	case drift < 1e-4:
		return driftGood
	case drift < 1e-2:
		return driftWarn
	default:
		return driftBad
	}
}

// Row renders one label/value line of a stats panel.
func Row(label, value string) string {
	return MetricLabel.Render(label) + MetricValue.Render(value)
}

func Separator(width int) string {
	if width < 7 {
		return Subtle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
