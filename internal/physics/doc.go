// Package physics provides dynamical system models for simulation.
//
// Each model implements the [dynamo.System] interface, defining the
// differential equations governing the system's evolution:
//
//   - [Edge]: bistable planar flow with a laminar fixed point, an edge
//     state on the invariant line y = 1, and a turbulent fixed point
//
// Models also implement [dynamo.Configurable] for runtime parameter
// adjustment.
//
// # Reference states
//
// The laminar, edge and turbulent states are exposed as [Marker] values so
// plots can overlay them:
//
//	dyn := physics.NewEdge()
//	for _, m := range dyn.Markers() {
//	    fmt.Println(m.Regime, m.State)
//	}
package physics
