// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for autonomous or time-dependent ODEs (dX/dt = f(X, t))
//   - [Integrator]: single-step numerical advancer
//   - [Config]: step size and time span of one integration
//   - [Trajectory]: the recorded (t, x, y) samples of one run
//
// # Example
//
//	dyn := physics.NewEdge()
//	s := sim.New(dyn, integrators.NewRK4())
//	tr, _ := s.Run(ctx, dynamo.State{18, 1.01}, cfg)
//
// # Non-finite values
//
// Diverging runs are not errors. NaN and Inf are recorded as-is so a
// runaway trajectory stays visible in the output.
package dynamo
