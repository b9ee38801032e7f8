package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/edgesim/internal/physics"
	"github.com/san-kum/edgesim/internal/sweep"
)

const regimeColumn = 4

// Summary renders one row per task followed by regime counts.
func Summary(report *sweep.Report) string {
	rows := make([][]string, 0, len(report.Outcomes))
	regimes := make([]physics.Regime, 0, len(report.Outcomes))

	for _, o := range report.Outcomes {
		status := "ok"
		if o.Err != nil {
			status = o.Err.Error()
		}
		final := "-"
		if o.Samples > 0 {
			final = fmt.Sprintf("(%.4g, %.4g)", o.Final.X, o.Final.Y)
		}
		rows = append(rows, []string{
			o.Label,
			fmt.Sprintf("(%g, %g)", o.X, o.Y),
			fmt.Sprintf("%d", o.Samples),
			final,
			string(o.Regime),
			status,
		})
		regimes = append(regimes, o.Regime)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers("LABEL", "INITIAL", "SAMPLES", "FINAL", "REGIME", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return base.Inherit(HeaderStyle)
			}
			if col == regimeColumn && row >= 0 && row < len(regimes) {
				return base.Inherit(RegimeStyle(regimes[row]))
			}
			return base
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n")
	sb.WriteString(Counts(report))
	return sb.String()
}

// Counts renders the number of tasks per regime and the failures.
func Counts(report *sweep.Report) string {
	parts := make([]string, 0, 4)
	for _, r := range []physics.Regime{physics.Laminar, physics.EdgeState, physics.Turbulent} {
		parts = append(parts, MetricLabel.Render(string(r)+": ")+RegimeStyle(r).Render(fmt.Sprintf("%d", report.Count(r))))
	}
	failed := len(report.Failed())
	style := MetricValue
	if failed > 0 {
		style = StatusFailed
	}
	parts = append(parts, MetricLabel.Render("failed: ")+style.Render(fmt.Sprintf("%d", failed)))
	return strings.Join(parts, "  ")
}
