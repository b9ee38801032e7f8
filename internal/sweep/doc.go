// Package sweep integrates a Cartesian grid of initial conditions.
//
// Every grid point is an independent task: one integration, one persisted
// series and one plotted curve. Tasks share nothing but the read-only
// model and configuration, so the [Driver] runs them on a bounded worker
// pool. Once all tasks finish, the driver asks the [Sink] to draw the
// reference states and the invariant edge line.
//
//	newRK4 := func() dynamo.Integrator { return integrators.NewRK4() }
//	d := sweep.New(physics.NewEdge(), newRK4, out, cfg.SimConfig(), sweep.WithWorkers(4))
//	report, err := d.Run(ctx, sweep.Grid{X: xs, Y: ys})
package sweep
