package physics

import (
	"math"

	"github.com/san-kum/edgesim/internal/dynamo"
)

// Regime names an asymptotic state of the edge system.
type Regime string

const (
	Laminar   Regime = "laminar"
	EdgeState Regime = "edge"
	Turbulent Regime = "turbulent"
)

// Marker is a fixed reference state drawn on phase portraits.
type Marker struct {
	Regime Regime
	State  dynamo.State
}

// Markers returns the laminar, edge and turbulent reference states.
func (e *Edge) Markers() []Marker {
	return []Marker{
		{Regime: Laminar, State: dynamo.State{0, 0}},
		{Regime: EdgeState, State: dynamo.State{10, 1}},
		{Regime: Turbulent, State: dynamo.State{14, 1.4}},
	}
}

// Classify labels a final state with the regime of the nearest marker.
// Non-finite states count as turbulent.
func (e *Edge) Classify(final dynamo.State) Regime {
	if len(final) < 2 || !final.IsValid() {
		return Turbulent
	}

	best := Turbulent
	bestDist := math.Inf(1)
	for _, m := range e.Markers() {
		d := math.Hypot(final[0]-m.State[0], final[1]-m.State[1])
		if d < bestDist {
			best, bestDist = m.Regime, d
		}
	}
	return best
}
