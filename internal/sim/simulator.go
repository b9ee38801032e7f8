package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/edgesim/internal/dynamo"
)

// cancelCheckInterval is how many steps run between context checks.
const cancelCheckInterval = 1024

type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
	}
}

// Run integrates a planar system from x0 over cfg.Span with a fixed step.
// The trajectory holds cfg.Steps()+1 samples, sample 0 being x0 at
// cfg.Span.Start. Non-finite states are recorded and integration continues.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Trajectory, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	tr := &dynamo.Trajectory{
		Samples: make([]dynamo.Sample, 0, steps+1),
	}

	x := x0.Clone()
	t0 := cfg.Span.Start
	dt := cfg.Dt
	t := t0

	tr.Samples = append(tr.Samples, dynamo.Sample{T: t, X: x[0], Y: x[1]})

	for i := 0; i < steps; i++ {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return tr, &dynamo.SimulationError{Step: i, Time: t, Wrapped: ctx.Err()}
			default:
			}
		}

		x = s.integrator.Step(s.dyn, x, t, dt)
		t = t0 + float64(i+1)*dt

		tr.Samples = append(tr.Samples, dynamo.Sample{T: t, X: x[0], Y: x[1]})
	}

	return tr, nil
}

func (s *Simulator) validate(x0 dynamo.State, cfg dynamo.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(x0) != s.dyn.StateDim() || len(x0) != 2 {
		return fmt.Errorf("%w: initial state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	return nil
}
