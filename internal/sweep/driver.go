package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/edgesim/internal/dynamo"
	"github.com/san-kum/edgesim/internal/physics"
	"github.com/san-kum/edgesim/internal/sim"
)

// Model is the vector field being swept along with its reference states.
type Model interface {
	dynamo.System
	Markers() []physics.Marker
	EdgeManifoldY() float64
	Classify(final dynamo.State) physics.Regime
}

// Sink persists and draws trajectories. Implementations must be safe for
// concurrent use and must not retain or modify the trajectory.
type Sink interface {
	WriteSeries(label string, tr *dynamo.Trajectory) error
	PlotSeries(label string, tr *dynamo.Trajectory) error
	PlotReferences(markers []physics.Marker, edgeY float64) error
}

// Observer is notified once per finished task, possibly from several
// goroutines, one call at a time.
type Observer interface {
	OnOutcome(o Outcome)
}

type Driver struct {
	model         Model
	newIntegrator func() dynamo.Integrator
	sink          Sink
	cfg           dynamo.Config
	workers       int
	log           zerolog.Logger

	mu        sync.Mutex
	observers []Observer
}

type Option func(*Driver)

// WithWorkers bounds the number of concurrent tasks. Zero means
// GOMAXPROCS, one runs the grid sequentially.
func WithWorkers(n int) Option {
	return func(d *Driver) { d.workers = n }
}

func WithLogger(log zerolog.Logger) Option {
	return func(d *Driver) { d.log = log }
}

// New builds a driver. newIntegrator is called once per task since
// integrators may keep scratch state.
func New(model Model, newIntegrator func() dynamo.Integrator, sink Sink, cfg dynamo.Config, opts ...Option) *Driver {
	d := &Driver{
		model:         model,
		newIntegrator: newIntegrator,
		sink:          sink,
		cfg:           cfg,
		log:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) AddObserver(o Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
}

// Run integrates every grid point. An invalid configuration or a grid with
// colliding labels is returned
// before any task starts. Failures of individual tasks are recorded in
// their Outcome and never stop the rest of the sweep; the returned error
// is reserved for configuration, cancellation and reference plotting.
func (d *Driver) Run(ctx context.Context, grid Grid) (*Report, error) {
	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	tasks := grid.Tasks()
	report := &Report{Outcomes: make([]Outcome, len(tasks))}

	d.log.Info().
		Int("tasks", len(tasks)).
		Int("steps", d.cfg.Steps()).
		Float64("dt", d.cfg.Dt).
		Int("workers", d.workerCount()).
		Msg("sweep started")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workerCount())

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := d.runTask(gctx, task)
			report.Outcomes[task.Index] = out
			d.notify(out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	if err := d.sink.PlotReferences(d.model.Markers(), d.model.EdgeManifoldY()); err != nil {
		return report, fmt.Errorf("sweep: plot references: %w", err)
	}

	d.log.Info().
		Int("tasks", len(tasks)).
		Int("failed", len(report.Failed())).
		Msg("sweep finished")

	return report, nil
}

func (d *Driver) runTask(ctx context.Context, task Task) Outcome {
	out := Outcome{Task: task}
	log := d.log.With().Str("label", task.Label).Logger()

	s := sim.New(d.model, d.newIntegrator())
	tr, err := s.Run(ctx, task.State(), d.cfg)
	if err != nil {
		out.Err = fmt.Errorf("integrate %s: %w", task.Label, err)
		log.Error().Err(err).Msg("integration failed")
		return out
	}

	out.Samples = tr.Len()
	out.Final = tr.Last()
	out.Regime = d.model.Classify(out.Final.State())

	if !tr.IsFinite() {
		log.Warn().Int("finite_samples", tr.FiniteLen()).Msg("trajectory diverged")
	}

	if err := d.sink.WriteSeries(task.Label, tr); err != nil {
		out.Err = fmt.Errorf("write %s: %w", task.Label, err)
		log.Error().Err(err).Msg("write series failed")
	}
	if err := d.sink.PlotSeries(task.Label, tr); err != nil {
		out.Err = errors.Join(out.Err, fmt.Errorf("plot %s: %w", task.Label, err))
		log.Error().Err(err).Msg("plot series failed")
	}

	log.Debug().
		Float64("x", out.Final.X).
		Float64("y", out.Final.Y).
		Str("regime", string(out.Regime)).
		Msg("task done")

	return out
}

func (d *Driver) notify(out Outcome) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, o := range d.observers {
		o.OnOutcome(out)
	}
}

func (d *Driver) workerCount() int {
	if d.workers > 0 {
		return d.workers
	}
	return runtime.GOMAXPROCS(0)
}
