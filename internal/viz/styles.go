package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/edgesim/internal/physics"
)

var (
	GradientTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ff88"))

	StatusFailed = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff4444"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff"))
)

// Regime colours match the markers of the raster figure.
var regimeStyles = map[physics.Regime]lipgloss.Style{
	physics.Laminar:   lipgloss.NewStyle().Foreground(lipgloss.Color("#1f77b4")),
	physics.EdgeState: lipgloss.NewStyle().Foreground(lipgloss.Color("#2ca02c")),
	physics.Turbulent: lipgloss.NewStyle().Foreground(lipgloss.Color("#d62728")),
}

func RegimeStyle(r physics.Regime) lipgloss.Style {
	if s, ok := regimeStyles[r]; ok {
		return s
	}
	return Subtle
}

// Separator draws a decorative rule of the given width.
func Separator(width int) string {
	mid := width / 2
	if mid < 3 {
		return Subtle.Render(strings.Repeat("─", width))
	}
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return Subtle.Render(left + " ◆ " + right)
}
