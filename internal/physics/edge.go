package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/edgesim/internal/dynamo"
)

// Edge implements a two-dimensional bistable flow.
// State: [x, y]
// Equations:
//
//	dx/dt = -x + c·y
//	dy/dt = y·(a·exp(-w·x²) - y)·(y - 1)
//
// The line y = 1 is invariant and separates the basin of the laminar
// origin from that of the turbulent fixed point.
type Edge struct {
	Coupling  float64 // c
	Amplitude float64 // a
	Width     float64 // w
}

func NewEdge() *Edge {
	return &Edge{
		Coupling:  10.0,
		Amplitude: 10.0,
		Width:     0.01,
	}
}

func (e *Edge) StateDim() int { return 2 }

func (e *Edge) Derive(s dynamo.State, _ float64) dynamo.State {
	x, y := s[0], s[1]

	dx := -x + e.Coupling*y
	dy := y * (e.Amplitude*math.Exp(-e.Width*x*x) - y) * (y - 1)

	return dynamo.State{dx, dy}
}

// EdgeManifoldY is the height of the invariant line dy/dt = 0.
func (e *Edge) EdgeManifoldY() float64 { return 1.0 }

// GetParams implements dynamo.Configurable
func (e *Edge) GetParams() map[string]float64 {
	return map[string]float64{
		"coupling":  e.Coupling,
		"amplitude": e.Amplitude,
		"width":     e.Width,
	}
}

// SetParam implements dynamo.Configurable
func (e *Edge) SetParam(name string, value float64) error {
	switch name {
	case "coupling":
		e.Coupling = value
	case "amplitude":
		e.Amplitude = value
	case "width":
		e.Width = value
	default:
		return fmt.Errorf("edge: unknown parameter %q", name)
	}
	return nil
}
