package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/edgesim/internal/dynamo"
)

// Preview plots x(t) and y(t) of the finite part of tr, one graph each.
func Preview(tr *dynamo.Trajectory, title string, width, height int) string {
	n := tr.FiniteLen()
	if n == 0 {
		return Subtle.Render("no finite samples to plot")
	}

	_, xs, ys := tr.Series()
	first, last := tr.Samples[0], tr.Samples[n-1]

	var sb strings.Builder
	sb.WriteString(GradientTitle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(MetricLabel.Render(fmt.Sprintf("t ∈ [%g, %g], %d samples", first.T, last.T, tr.Len())))
	sb.WriteString("\n\n")

	sb.WriteString(asciigraph.Plot(xs[:n],
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("x vs time"),
		asciigraph.SeriesColors(asciigraph.Blue),
	))
	sb.WriteString("\n\n")
	sb.WriteString(asciigraph.Plot(ys[:n],
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("y vs time"),
		asciigraph.SeriesColors(asciigraph.Red),
	))

	if n < tr.Len() {
		sb.WriteString("\n")
		sb.WriteString(StatusFailed.Render(fmt.Sprintf("diverged at t=%g", tr.Samples[n].T)))
	}

	return sb.String()
}
