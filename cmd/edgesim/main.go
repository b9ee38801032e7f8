package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/edgesim/internal/config"
	"github.com/san-kum/edgesim/internal/dynamo"
	"github.com/san-kum/edgesim/internal/integrators"
	"github.com/san-kum/edgesim/internal/logging"
	"github.com/san-kum/edgesim/internal/physics"
	"github.com/san-kum/edgesim/internal/sink"
	"github.com/san-kum/edgesim/internal/storage"
	"github.com/san-kum/edgesim/internal/sweep"
	"github.com/san-kum/edgesim/internal/viz"
)

const (
	modelName      = "edge"
	integratorName = "rk4"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	tStart     float64
	tEnd       float64
	icX        []float64
	icY        []float64
	workers    int
	outDir     string
	plotName   string
	logLevel   string
	logFormat  string
	live       bool
	params     map[string]string
	width      int
	height     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "edgesim",
		Short:         "edge tracking sweep for a 2d laminar/turbulent model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".", "parent directory of result stores")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate every initial condition of the grid",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&tStart, "t-start", config.DefaultTStart, "start time")
	runCmd.Flags().Float64Var(&tEnd, "t-end", config.DefaultTEnd, "end time")
	runCmd.Flags().Float64SliceVar(&icX, "ic-x", config.DefaultXCandidates, "initial x candidates")
	runCmd.Flags().Float64SliceVar(&icY, "ic-y", config.DefaultYCandidates, "initial y candidates")
	runCmd.Flags().IntVar(&workers, "workers", 0, "concurrent tasks (0 = GOMAXPROCS)")
	runCmd.Flags().StringVar(&outDir, "out", config.DefaultOutDir, "output directory below --data")
	runCmd.Flags().StringVar(&plotName, "plot", config.DefaultPlot, "figure file name")
	runCmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	runCmd.Flags().StringVar(&logFormat, "log-format", config.DefaultLogFormat, "console or json")
	runCmd.Flags().BoolVar(&live, "live", false, "show a live progress view")
	runCmd.Flags().StringToStringVar(&params, "param", nil, "model coefficient override (coupling, amplitude, width)")

	inspectCmd := &cobra.Command{
		Use:   "inspect [file|dir]",
		Short: "plot a trajectory series, or list the series of a result store",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectSeries,
	}
	inspectCmd.Flags().IntVar(&width, "width", 70, "graph width")
	inspectCmd.Flags().IntVar(&height, "height", 10, "graph height")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list result stores",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s  %d initial conditions, t ∈ [%g, %g], dt=%g\n",
					name, p.GridSize(), p.TStart, p.TEnd, p.Dt)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, inspectCmd, listCmd, presetsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// resolveConfig layers defaults, preset, config file and explicit flags in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("t-start") {
		cfg.TStart = tStart
	}
	if flags.Changed("t-end") {
		cfg.TEnd = tEnd
	}
	if flags.Changed("ic-x") {
		cfg.XCandidates = icX
	}
	if flags.Changed("ic-y") {
		cfg.YCandidates = icY
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("out") {
		cfg.OutDir = outDir
	}
	if flags.Changed("plot") {
		cfg.Plot = plotName
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = logFormat
	}
	for name, raw := range params {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("--param %s: %w", name, err)
		}
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[name] = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if live {
		log = logging.Nop()
	}

	model := physics.NewEdge()
	if err := cfg.ApplyParams(model); err != nil {
		return err
	}
	grid := sweep.Grid{X: cfg.XCandidates, Y: cfg.YCandidates}
	if err := grid.Validate(); err != nil {
		return err
	}

	out, err := sink.New(filepath.Join(dataDir, cfg.OutDir), logging.Component(log, "sink"))
	if err != nil {
		return err
	}
	drv := sweep.New(model, func() dynamo.Integrator { return integrators.NewRK4() }, out, cfg.SimConfig(),
		sweep.WithWorkers(cfg.Workers),
		sweep.WithLogger(logging.Component(log, "sweep")),
	)

	start := time.Now()
	var report *sweep.Report
	if live {
		report, err = runLive(cmd.Context(), drv, grid)
	} else {
		fmt.Printf("sweeping %d initial conditions over t ∈ [%g, %g] with dt=%g...\n",
			grid.Size(), cfg.TStart, cfg.TEnd, cfg.Dt)
		report, err = drv.Run(cmd.Context(), grid)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	plotPath, err := out.Render(cfg.Plot)
	if err != nil {
		return err
	}

	m := storage.NewManifest(modelName, integratorName)
	m.Params = model.GetParams()
	m.Dt = cfg.Dt
	m.TStart, m.TEnd = cfg.TStart, cfg.TEnd
	m.XCandidates, m.YCandidates = cfg.XCandidates, cfg.YCandidates
	m.Plot = filepath.Base(plotPath)
	if err := out.Finish(m, report); err != nil {
		return err
	}

	fmt.Println(viz.Summary(report))
	fmt.Println()
	fmt.Printf("completed in %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", m.ID)
	fmt.Printf("output: %s\n", out.Store().Dir())
	fmt.Printf("plot:   %s\n", plotPath)

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d tasks failed", len(failed), len(report.Outcomes))
	}
	return nil
}

type sweepResult struct {
	report *sweep.Report
	err    error
}

// runLive drives the sweep behind the progress view. Quitting the view
// cancels the remaining tasks.
func runLive(ctx context.Context, drv *sweep.Driver, grid sweep.Grid) (*sweep.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(viz.NewProgress(grid.Size()))
	drv.AddObserver(viz.Forward(p))

	done := make(chan sweepResult, 1)
	go func() {
		report, err := drv.Run(ctx, grid)
		done <- sweepResult{report: report, err: err}
		p.Send(viz.DoneMsg{Report: report, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return nil, err
	}
	if _, aborted, _ := final.(viz.Progress).Result(); aborted {
		cancel()
	}

	res := <-done
	if errors.Is(res.err, context.Canceled) {
		return nil, errors.New("sweep aborted")
	}
	return res.report, res.err
}

func inspectSeries(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(args[0])
	if err != nil {
		return err
	}
	if info.IsDir() {
		return listSeries(args[0])
	}

	tr, err := storage.LoadSeries(args[0])
	if err != nil {
		return err
	}

	label := filepath.Base(args[0])
	fmt.Println(viz.Preview(tr, label, width, height))
	fmt.Println(viz.Separator(width))

	if tr.Len() > 0 {
		last := tr.Last()
		regime := physics.NewEdge().Classify(last.State())
		fmt.Printf("final: t=%g x=%.5e y=%.5e  %s\n", last.T, last.X, last.Y,
			viz.RegimeStyle(regime).Render(string(regime)))
	}
	return nil
}

func listSeries(dir string) error {
	files, err := storage.New(dir).ListSeries()
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Println("no series found")
		return nil
	}

	model := physics.NewEdge()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSAMPLES\tT_END\tFINAL_X\tFINAL_Y\tREGIME")

	for _, file := range files {
		tr, err := storage.LoadSeries(file)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\t-\t-\t%v\n", filepath.Base(file), err)
			continue
		}
		last := tr.Last()
		fmt.Fprintf(w, "%s\t%d\t%g\t%.5e\t%.5e\t%s\n",
			filepath.Base(file),
			tr.Len(),
			last.T,
			last.X,
			last.Y,
			model.Classify(last.State()),
		)
	}

	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.List(dataDir)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	names := make([]string, 0, len(runs))
	for name := range runs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return runs[names[i]].Timestamp.After(runs[names[j]].Timestamp)
	})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DIR\tID\tTIME\tSPAN\tDT\tRUNS\tFAILED\tPLOT")

	for _, name := range names {
		run := runs[name]
		failed := 0
		for _, r := range run.Runs {
			if r.Error != "" {
				failed++
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t[%g, %g]\t%g\t%d\t%d\t%s\n",
			name,
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.TStart, run.TEnd,
			run.Dt,
			len(run.Runs),
			failed,
			run.Plot,
		)
	}

	return w.Flush()
}
