package sweep_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/edgesim/internal/dynamo"
	"github.com/san-kum/edgesim/internal/integrators"
	"github.com/san-kum/edgesim/internal/physics"
	"github.com/san-kum/edgesim/internal/sweep"
)

var errDiskFull = errors.New("disk full")

type recordingSink struct {
	mu        sync.Mutex
	written   map[string]int
	plotted   map[string]int
	finals    map[string]dynamo.Sample
	failWrite map[string]bool

	refCalls      int
	plottedAtRefs int
	markers       []physics.Marker
	edgeY         float64
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		written:   make(map[string]int),
		plotted:   make(map[string]int),
		finals:    make(map[string]dynamo.Sample),
		failWrite: make(map[string]bool),
	}
}

func (s *recordingSink) WriteSeries(label string, tr *dynamo.Trajectory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite[label] {
		return errDiskFull
	}
	s.written[label]++
	s.finals[label] = tr.Last()
	return nil
}

func (s *recordingSink) PlotSeries(label string, tr *dynamo.Trajectory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plotted[label]++
	return nil
}

func (s *recordingSink) PlotReferences(markers []physics.Marker, edgeY float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refCalls++
	s.plottedAtRefs = len(s.plotted)
	s.markers = markers
	s.edgeY = edgeY
	return nil
}

// blowupModel diverges whenever y is negative and is the edge system otherwise.
type blowupModel struct {
	*physics.Edge
}

func (m blowupModel) Derive(x dynamo.State, t float64) dynamo.State {
	if x[1] < 0 {
		return dynamo.State{x[0] * x[0], 0}
	}
	return m.Edge.Derive(x, t)
}

type countingObserver struct {
	mu     sync.Mutex
	labels []string
}

func (o *countingObserver) OnOutcome(out sweep.Outcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.labels = append(o.labels, out.Label)
}

func newRK4() dynamo.Integrator { return integrators.NewRK4() }

var _ = Describe("Grid", func() {
	It("enumerates the Cartesian product with x as the outer loop", func() {
		g := sweep.Grid{X: []float64{1, 2}, Y: []float64{0.5, 1.5, 2.5}}

		tasks := g.Tasks()

		Expect(g.Size()).To(Equal(6))
		Expect(tasks).To(HaveLen(6))
		Expect(tasks[0].Label).To(Equal("x1.00_y0.50"))
		Expect(tasks[2].Label).To(Equal("x1.00_y2.50"))
		Expect(tasks[3].Label).To(Equal("x2.00_y0.50"))
		for i, task := range tasks {
			Expect(task.Index).To(Equal(i))
			Expect(task.State()).To(Equal(dynamo.State{task.X, task.Y}))
		}
	})

	It("is empty when either list is empty", func() {
		Expect(sweep.Grid{X: []float64{1, 2}}.Tasks()).To(BeEmpty())
	})

	It("rejects initial conditions that share a label", func() {
		g := sweep.Grid{X: []float64{10.001, 10.004}, Y: []float64{0.991}}

		Expect(g.Validate()).To(MatchError(sweep.ErrLabelCollision))
		Expect(sweep.Grid{X: []float64{10, 10.01}, Y: []float64{0.99, 1.01}}.Validate()).To(Succeed())
	})

	It("labels initial conditions with two decimals", func() {
		Expect(sweep.Label(18, 1.01)).To(Equal("x18.00_y1.01"))
		Expect(sweep.Label(-0.5, 0)).To(Equal("x-0.50_y0.00"))
	})
})

var _ = Describe("Driver", func() {
	var (
		sink *recordingSink
		cfg  dynamo.Config
		grid sweep.Grid
		ctx  context.Context
	)

	BeforeEach(func() {
		sink = newRecordingSink()
		cfg = dynamo.Config{Dt: 0.01, Span: dynamo.Span{Start: 0, End: 5}}
		grid = sweep.Grid{X: []float64{0, 10, 18}, Y: []float64{0.5, 0.99, 1.01, 1.5}}
		ctx = context.Background()
	})

	It("integrates, writes and plots every grid point exactly once", func() {
		d := sweep.New(physics.NewEdge(), newRK4, sink, cfg, sweep.WithWorkers(4))

		report, err := d.Run(ctx, grid)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Outcomes).To(HaveLen(12))
		Expect(report.Failed()).To(BeEmpty())
		Expect(sink.written).To(HaveLen(12))
		Expect(sink.plotted).To(HaveLen(12))
		for _, task := range grid.Tasks() {
			Expect(sink.written[task.Label]).To(Equal(1))
			Expect(sink.plotted[task.Label]).To(Equal(1))
		}
		for i, out := range report.Outcomes {
			Expect(out.Index).To(Equal(i))
			Expect(out.Samples).To(Equal(cfg.Steps() + 1))
		}
	})

	It("draws the reference states after every trajectory", func() {
		d := sweep.New(physics.NewEdge(), newRK4, sink, cfg, sweep.WithWorkers(3))

		_, err := d.Run(ctx, grid)

		Expect(err).NotTo(HaveOccurred())
		Expect(sink.refCalls).To(Equal(1))
		Expect(sink.plottedAtRefs).To(Equal(grid.Size()))
		Expect(sink.edgeY).To(Equal(1.0))
		Expect(sink.markers).To(HaveLen(3))
		Expect(sink.markers[0].Regime).To(Equal(physics.Laminar))
		Expect(sink.markers[1].State).To(Equal(dynamo.State{10, 1}))
		Expect(sink.markers[2].State).To(Equal(dynamo.State{14, 1.4}))
	})

	It("produces the same trajectories sequentially and in parallel", func() {
		seq := newRecordingSink()
		_, err := sweep.New(physics.NewEdge(), newRK4, seq, cfg, sweep.WithWorkers(1)).Run(ctx, grid)
		Expect(err).NotTo(HaveOccurred())

		par := newRecordingSink()
		_, err = sweep.New(physics.NewEdge(), newRK4, par, cfg, sweep.WithWorkers(8)).Run(ctx, grid)
		Expect(err).NotTo(HaveOccurred())

		Expect(par.finals).To(Equal(seq.finals))
	})

	It("rejects an invalid configuration before producing output", func() {
		cfg.Dt = 0
		d := sweep.New(physics.NewEdge(), newRK4, sink, cfg)

		report, err := d.Run(ctx, grid)

		Expect(err).To(MatchError(dynamo.ErrInvalidStep))
		Expect(report).To(BeNil())
		Expect(sink.written).To(BeEmpty())
		Expect(sink.refCalls).To(BeZero())
	})

	It("rejects a grid with colliding labels before producing output", func() {
		grid = sweep.Grid{X: []float64{10.001, 10.004}, Y: []float64{0.991, 0.994}}
		d := sweep.New(physics.NewEdge(), newRK4, sink, cfg, sweep.WithWorkers(4))

		report, err := d.Run(ctx, grid)

		Expect(err).To(MatchError(sweep.ErrLabelCollision))
		Expect(report).To(BeNil())
		Expect(sink.written).To(BeEmpty())
		Expect(sink.refCalls).To(BeZero())
	})

	It("rejects a reversed time span", func() {
		cfg.Span = dynamo.Span{Start: 5, End: 0}
		_, err := sweep.New(physics.NewEdge(), newRK4, sink, cfg).Run(ctx, grid)

		Expect(err).To(MatchError(dynamo.ErrInvalidSpan))
		Expect(sink.plotted).To(BeEmpty())
	})

	It("records a sink failure on its own task and finishes the sweep", func() {
		sink.failWrite["x10.00_y0.99"] = true
		d := sweep.New(physics.NewEdge(), newRK4, sink, cfg, sweep.WithWorkers(2))

		report, err := d.Run(ctx, grid)

		Expect(err).NotTo(HaveOccurred())
		failed := report.Failed()
		Expect(failed).To(HaveLen(1))
		Expect(failed[0].Label).To(Equal("x10.00_y0.99"))
		Expect(failed[0].Err).To(MatchError(errDiskFull))
		Expect(sink.written).To(HaveLen(11))
		Expect(sink.plotted).To(HaveLen(12))
		Expect(sink.refCalls).To(Equal(1))
	})

	It("keeps diverging trajectories and leaves the other tasks untouched", func() {
		grid = sweep.Grid{X: []float64{10}, Y: []float64{-1, 0.5}}
		model := blowupModel{Edge: physics.NewEdge()}

		report, err := sweep.New(model, newRK4, sink, cfg).Run(ctx, grid)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Failed()).To(BeEmpty())

		diverged := report.Outcomes[0]
		Expect(diverged.Samples).To(Equal(cfg.Steps() + 1))
		Expect(diverged.Final.State().IsValid()).To(BeFalse())
		Expect(diverged.Regime).To(Equal(physics.Turbulent))

		clean := newRecordingSink()
		_, err = sweep.New(physics.NewEdge(), newRK4, clean, cfg).Run(ctx, sweep.Grid{X: []float64{10}, Y: []float64{0.5}})
		Expect(err).NotTo(HaveOccurred())
		Expect(sink.finals["x10.00_y0.50"]).To(Equal(clean.finals["x10.00_y0.50"]))
	})

	It("classifies outcomes on both sides of the edge", func() {
		cfg = dynamo.Config{Dt: 0.002, Span: dynamo.Span{Start: 0, End: 50}}
		grid = sweep.Grid{X: []float64{18}, Y: []float64{0.99, 1.01}}

		report, err := sweep.New(physics.NewEdge(), newRK4, sink, cfg).Run(ctx, grid)

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Outcomes[0].Regime).To(Equal(physics.Laminar))
		Expect(report.Outcomes[1].Regime).To(Equal(physics.Turbulent))
		Expect(report.Count(physics.Laminar)).To(Equal(1))
		Expect(report.Count(physics.Turbulent)).To(Equal(1))
	})

	It("notifies observers once per task", func() {
		obs := &countingObserver{}
		d := sweep.New(physics.NewEdge(), newRK4, sink, cfg, sweep.WithWorkers(4))
		d.AddObserver(obs)

		_, err := d.Run(ctx, grid)

		Expect(err).NotTo(HaveOccurred())
		Expect(obs.labels).To(HaveLen(grid.Size()))
		Expect(obs.labels).To(ConsistOf(labelsOf(grid)))
	})

	It("stops on a canceled context without drawing references", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := sweep.New(physics.NewEdge(), newRK4, sink, cfg).Run(canceled, grid)

		Expect(err).To(MatchError(context.Canceled))
		Expect(sink.refCalls).To(BeZero())
	})
})

func labelsOf(g sweep.Grid) []string {
	var labels []string
	for _, t := range g.Tasks() {
		labels = append(labels, t.Label)
	}
	return labels
}
