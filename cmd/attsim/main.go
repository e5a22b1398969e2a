package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/attsim/internal/analysis"
	"github.com/san-kum/attsim/internal/attitude"
	"github.com/san-kum/attsim/internal/automation"
	"github.com/san-kum/attsim/internal/config"
	"github.com/san-kum/attsim/internal/control"
	"github.com/san-kum/attsim/internal/dynamo"
	"github.com/san-kum/attsim/internal/experiment"
	"github.com/san-kum/attsim/internal/logging"
	"github.com/san-kum/attsim/internal/metrics"
	"github.com/san-kum/attsim/internal/optim"
	"github.com/san-kum/attsim/internal/physics"
	"github.com/san-kum/attsim/internal/storage"
	"github.com/san-kum/attsim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	dt         float64
	duration   float64
	seed       int64
	integrator string
	controller string
	adaptive   bool
	noShadow   bool

	sigma     []float64
	initQuat  []float64
	omega     []float64
	sigmaRef  []float64
	omegaRef  []float64
	inertia   []float64
	wheels    []float64
	torque    []float64
	gainK     float64
	gainP     float64
	maxTorque float64

	runs    int
	kValues []float64
	pValues []float64
	metric  string

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int

	axisI   int
	axisJ   int
	svgPath string
	gifPath string
	logEach int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "attsim",
		Short:        "spacecraft attitude propagation lab",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".attsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "propagate attitude and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&logEach, "log-every", 100, "log every n steps at debug level")

	deriveCmd := &cobra.Command{
		Use:   "derive [model]",
		Short: "evaluate the state derivative once",
		Args:  cobra.MaximumNArgs(1),
		RunE:  derive,
	}
	addConfigFlags(deriveCmd)
	deriveCmd.Flags().Float64SliceVar(&torque, "torque", []float64{0, 0, 0}, "body torque τ (N·m)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot σ and ω of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "nutation spectrum and Lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	polhodeCmd := &cobra.Command{
		Use:   "polhode [run_id]",
		Short: "plot the body rate path",
		Args:  cobra.ExactArgs(1),
		RunE:  polhode,
	}
	polhodeCmd.Flags().IntVar(&axisI, "i", 0, "first body axis (0..2)")
	polhodeCmd.Flags().IntVar(&axisJ, "j", 1, "second body axis (0..2)")
	polhodeCmd.Flags().StringVar(&svgPath, "svg", "", "also write an SVG to this path")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addConfigFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [model]",
		Short: "grid search the MRP feedback gains",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneGains,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64SliceVar(&kValues, "k-values", []float64{1, 3, 6, 12}, "candidate K gains")
	tuneCmd.Flags().Float64SliceVar(&pValues, "p-values", []float64{20, 60, 120}, "candidate P gains")
	tuneCmd.Flags().StringVar(&metric, "metric", "pointing_error_deg", "metric to minimise")

	dispersionCmd := &cobra.Command{
		Use:   "dispersion [model]",
		Short: "Monte-Carlo runs over perturbed initial states",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDispersion,
	}
	addConfigFlags(dispersionCmd)
	dispersionCmd.Flags().IntVar(&runs, "runs", 0, "number of runs (0 keeps the config value)")

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "propagate with a live 3D view",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", "attitude.gif", "GIF written when recording stops")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of experiments",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model] [preset]",
		Short: "sweep one model or controller parameter",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "P", "parameter name (J11, hs3, wr3, K, P, umax, ...)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 100, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "n", 10, "number of values")
	sweepCmd.Flags().StringVar(&metric, "metric", "pointing_error_deg", "metric to report")
	sweepCmd.Flags().Float64Var(&duration, "time", 0, "duration override (s)")

	rootCmd.AddCommand(runCmd, deriveCmd, listCmd, plotCmd, analyzeCmd, polhodeCmd, exportCmd, exportCSVCmd, exportJSONCmd, compareCmd, presetsCmd, tuneCmd, dispersionCmd, liveCmd, scenarioCmd, sweepCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	f.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	f.StringVar(&integrator, "integrator", "rk4", "integrator")
	f.StringVar(&controller, "controller", "none", "controller")
	f.BoolVar(&adaptive, "adaptive", false, "use adaptive stepping (rk45)")
	f.BoolVar(&noShadow, "no-shadow", false, "disable MRP shadow-set switching")
	f.Float64SliceVar(&sigma, "sigma", nil, "initial MRP σ_BN")
	f.Float64SliceVar(&initQuat, "quat", nil, "initial attitude as a scalar-first quaternion (overrides --sigma)")
	f.Float64SliceVar(&omega, "omega", nil, "initial body rate ω (rad/s)")
	f.Float64SliceVar(&sigmaRef, "sigma-ref", nil, "reference MRP σ_RN")
	f.Float64SliceVar(&omegaRef, "omega-ref", nil, "reference frame rate ω_r (rad/s)")
	f.Float64SliceVar(&inertia, "inertia", nil, "inertia, 3 principal or 9 row-major values (kg·m²)")
	f.Float64SliceVar(&wheels, "wheel-momentum", nil, "wheel momentum h_s (N·m·s)")
	f.Float64Var(&gainK, "k", config.DefaultK, "attitude gain K")
	f.Float64Var(&gainP, "p", config.DefaultP, "rate gain P")
	f.Float64Var(&maxTorque, "max-torque", 0, "per-axis torque limit, 0 for none (N·m)")
}

// resolveConfig layers defaults, preset, config file and then the flags the
// user actually set.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	model := ""
	if len(args) > 0 {
		model = args[0]
	}
	cfg, err := config.Resolve(model, preset, configFile)
	if err != nil {
		return nil, err
	}
	if model != "" {
		cfg.Model = model
	}

	changed := cmd.Flags().Changed
	if changed("dt") {
		cfg.Dt = dt
	}
	if changed("time") {
		cfg.Duration = duration
	}
	if changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if changed("integrator") {
		cfg.Integrator = integrator
	}
	if changed("controller") {
		cfg.Controller = controller
	}
	if changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if changed("no-shadow") {
		cfg.ShadowSwitching = !noShadow
	}
	if changed("k") {
		cfg.ControllerParams.K = gainK
	}
	if changed("p") {
		cfg.ControllerParams.P = gainP
	}
	if changed("max-torque") {
		cfg.ControllerParams.MaxTorque = maxTorque
	}

	vecs := []struct {
		flag string
		src  []float64
		dst  *[3]float64
	}{
		{"sigma", sigma, &cfg.InitState.Sigma},
		{"omega", omega, &cfg.InitState.Omega},
		{"sigma-ref", sigmaRef, &cfg.Reference.Sigma},
		{"omega-ref", omegaRef, &cfg.Reference.Omega},
		{"wheel-momentum", wheels, &cfg.Spacecraft.WheelMomentum},
	}
	for _, v := range vecs {
		if !changed(v.flag) {
			continue
		}
		if len(v.src) != 3 {
			return nil, fmt.Errorf("%w: --%s needs 3 values, got %d", config.ErrInvalid, v.flag, len(v.src))
		}
		copy(v.dst[:], v.src)
	}

	if changed("quat") {
		if err := cfg.SetInitQuaternion(initQuat); err != nil {
			return nil, err
		}
	}

	if changed("inertia") {
		switch len(inertia) {
		case 3:
			cfg.Spacecraft.Inertia = [9]float64{inertia[0], 0, 0, 0, inertia[1], 0, 0, 0, inertia[2]}
		case 9:
			copy(cfg.Spacecraft.Inertia[:], inertia)
		default:
			return nil, fmt.Errorf("%w: --inertia needs 3 or 9 values, got %d", config.ErrInvalid, len(inertia))
		}
	}

	return cfg, cfg.Validate()
}

func newLogger() *logging.Logger {
	return logging.NewLogger(os.Stderr)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	log := newLogger()
	ctx := logging.WithRunID(cmd.Context(), fmt.Sprintf("%s-%d", cfg.Model, cfg.Seed))
	exp.Simulator().AddObserver(logging.NewStepLogger(ctx, log, logEach))

	log.Info(ctx, "running simulation",
		"model", cfg.Model,
		"integrator", cfg.Integrator,
		"controller", cfg.Controller,
		"dt", cfg.Dt,
		"duration", cfg.Duration,
	)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		log.Error(ctx, "simulation failed", err)
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(metadataFor(cfg), result)
	if err != nil {
		return err
	}
	log.Info(ctx, "run stored", "id", runID, "elapsed", elapsed)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("shadow switches: %d\n", result.Switches)
	printMetrics(result.Metrics)
	return nil
}

func metadataFor(cfg *config.Config) storage.RunMetadata {
	return storage.RunMetadata{
		Model:           cfg.Model,
		Seed:            cfg.Seed,
		Dt:              cfg.Dt,
		Duration:        cfg.Duration,
		Integrator:      cfg.Integrator,
		Controller:      cfg.Controller,
		Adaptive:        cfg.Adaptive,
		ShadowSwitching: cfg.ShadowSwitching,
		Inertia:         cfg.Spacecraft.Inertia,
		WheelMomentum:   cfg.Spacecraft.WheelMomentum,
	}
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func derive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(torque) != 3 {
		return fmt.Errorf("%w: --torque needs 3 values, got %d", config.ErrInvalid, len(torque))
	}

	dyn, err := experiment.NewRegistry().GetModel(cfg)
	if err != nil {
		return err
	}

	x := dynamo.State(cfg.GetInitState())
	dx := physics.ToAttitude(dyn.Derive(x, dynamo.Control(torque), 0))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", cfg.Model)
	fmt.Fprintf(w, "dσ/dt\t% .12e\t% .12e\t% .12e\n", dx[0][0], dx[0][1], dx[0][2])
	fmt.Fprintf(w, "dω/dt\t% .12e\t% .12e\t% .12e\n", dx[1][0], dx[1][1], dx[1][2])
	q := attitude.ToQuaternion(physics.ToAttitude(x).Sigma())
	fmt.Fprintf(w, "q\t% .12f\t% .12f\t% .12f\t% .12f\n", q.Real, q.Imag, q.Jmag, q.Kmag)
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tCTRL\tSWITCHES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4fs\t%s\t%s\t%d\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Switches,
		)
	}

	return w.Flush()
}

// loadRun reads a stored run back into a result. Stored rows carry the
// state followed by the control.
func loadRun(runID string) (*storage.RunMetadata, *dynamo.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	rows, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("run %s: no data", runID)
	}

	result := &dynamo.Result{
		Times:       times,
		Metrics:     meta.Metrics,
		EnergyDrift: meta.EnergyDrift,
		StepsTaken:  meta.Steps,
		Switches:    meta.Switches,
	}
	for i, row := range rows {
		if len(row) < 6 {
			return nil, nil, fmt.Errorf("run %s row %d: %w", runID, i+1, dynamo.ErrDimensionMismatch)
		}
		result.States = append(result.States, dynamo.State(row[:6]))
		if i < len(rows)-1 && len(row) > 6 {
			result.Controls = append(result.Controls, dynamo.Control(row[6:]))
		}
	}
	return meta, result, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(result.States))

	captions := []string{"σ1", "σ2", "σ3", "ω1 (rad/s)", "ω2 (rad/s)", "ω3 (rad/s)"}
	for idx, caption := range captions {
		data := make([]float64, len(result.States))
		for i, s := range result.States {
			data[i] = s[idx]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// modelFor rebuilds the stored run's spacecraft with no controller.
func modelFor(meta *storage.RunMetadata) (dynamo.System, error) {
	cfg := config.DefaultConfig()
	cfg.Model = meta.Model
	cfg.Spacecraft.Inertia = meta.Inertia
	cfg.Spacecraft.WheelMomentum = meta.WheelMomentum
	return experiment.NewRegistry().GetModel(cfg)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	// Adaptive runs are sampled unevenly; put them back on a fixed grid.
	spacing := meta.Dt
	if meta.Adaptive {
		spacing = analysis.MeanSpacing(result.Times)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("model: %s, spacing %.4g s\n\n", meta.Model, spacing)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AXIS\tFREQ (Hz)\tPERIOD (s)")
	var spectrum []float64
	for axis := 0; axis < 3; axis++ {
		series, err := analysis.UniformSeries(result.Times, result.States, 3+axis, spacing)
		if err != nil {
			return fmt.Errorf("run %s: %w", meta.ID, err)
		}
		n := 1
		for n*2 <= len(series) {
			n *= 2
		}
		data := series[:n]
		if axis == 0 {
			spectrum = analysis.PowerSpectrum(data)
		}
		fmt.Fprintf(w, "ω%d\t%.5f\t%.2f\n", axis+1, analysis.DominantFrequency(data, spacing), analysis.NutationPeriod(data, spacing))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(spectrum) > 8 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(spectrum[:len(spectrum)/4],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (ω1)"),
		))
	}

	dyn, err := modelFor(meta)
	if err != nil {
		return err
	}
	reg := experiment.NewRegistry()
	integ, err := reg.GetIntegrator("rk4")
	if err != nil {
		return err
	}

	fmt.Println("\ntorque-free Lyapunov exponents from the initial state:")
	x0 := result.States[0]
	for axis := 0; axis < 3; axis++ {
		lambda := analysis.LyapunovExponent(dyn, integ, x0, 3+axis, meta.Dt, meta.Duration, 1e-8)
		fmt.Printf("  ω%d: %.5f 1/s\n", axis+1, lambda)
	}
	return nil
}

func polhode(cmd *cobra.Command, args []string) error {
	if axisI < 0 || axisI > 2 || axisJ < 0 || axisJ > 2 || axisI == axisJ {
		return fmt.Errorf("%w: axes must be two distinct values in 0..2", config.ErrInvalid)
	}

	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	portrait := analysis.Polhode(result.States, axisI, axisJ)
	canvas := viz.NewCanvas(70, 24)
	if err := viz.PlotPath(canvas, portrait.Points); err != nil {
		return err
	}
	fmt.Printf("polhode: %s (ω%d across, ω%d up)\n\n", meta.ID, axisI+1, axisJ+1)
	fmt.Print(canvas.String())

	if svgPath == "" {
		return nil
	}
	f, err := os.Create(svgPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := viz.WritePathSVG(f, portrait.Points, 600, "#00ff88"); err != nil {
		return err
	}
	fmt.Printf("\nwrote %s\n", svgPath)
	return f.Close()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators for %s (dt=%.4f, duration=%.1fs)\n\n", cfg.Model, cfg.Dt, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tENERGY DRIFT\tMOMENTUM DRIFT\tERROR (deg)\tSWITCHES\tTIME")

	for _, name := range args[1:] {
		c := *cfg
		c.Integrator = name
		exp, err := experiment.New(&c, experiment.NewRegistry())
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(cmd.Context())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%.4f\t%d\t%v\n",
			name,
			result.EnergyDrift,
			result.Metrics["momentum_drift"],
			result.Metrics["pointing_error_deg"],
			result.Switches,
			elapsed.Round(time.Microsecond),
		)
	}

	return w.Flush()
}

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	cfg.Controller = "mrp"

	build := func(params map[string]float64) (*experiment.Experiment, error) {
		c := *cfg
		c.ControllerParams.K = params["k"]
		c.ControllerParams.P = params["p"]
		return experiment.New(&c, experiment.NewRegistry())
	}

	gs := optim.NewGridSearch([]string{"k", "p"}, [][]float64{kValues, pValues})
	log := newLogger()
	log.Info(cmd.Context(), "grid search", "points", len(gs.Points()), "metric", metric)

	best, value, trials, err := gs.Search(cmd.Context(), build, metric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "K\tP\t%s\n", strings.ToUpper(metric))
	for _, tr := range trials {
		if tr.Err != nil {
			fmt.Fprintf(w, "%g\t%g\terror: %v\n", tr.Params["k"], tr.Params["p"], tr.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%g\t%.6g\n", tr.Params["k"], tr.Params["p"], tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: K=%g P=%g (%s=%.6g)\n", best["k"], best["p"], metric, value)
	return nil
}

func runDispersion(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if runs > 0 {
		cfg.Dispersion.Runs = runs
	}

	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	log := newLogger()
	ctx := logging.WithRunID(cmd.Context(), fmt.Sprintf("%s-dispersion-%d", cfg.Model, cfg.Seed))
	log.Info(ctx, "dispersion", "runs", cfg.Dispersion.Runs, "sigma_spread", cfg.Dispersion.SigmaSpread, "omega_spread", cfg.Dispersion.OmegaSpread)

	start := time.Now()
	results, err := exp.Dispersion(ctx)
	if err != nil {
		log.Error(ctx, "dispersion failed", err)
		return err
	}
	log.Info(ctx, "dispersion done", "elapsed", time.Since(start))

	names := make([]string, 0)
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tRUNS\tMEAN\tSTD\tMIN\tMAX")
	for _, name := range names {
		s := metrics.Summarize(results, name)
		fmt.Fprintf(w, "%s\t%d\t%.6g\t%.3g\t%.6g\t%.6g\n", s.Name, s.Runs, s.Mean, s.Std, s.Min, s.Max)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("time") && preset == "" && configFile == "" {
		cfg.Duration = math.Inf(1)
	}

	reg := experiment.NewRegistry()
	dyn, err := reg.GetModel(cfg)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return err
	}
	ctrl, err := reg.GetController(cfg)
	if err != nil {
		return err
	}

	name := cfg.Model
	if preset != "" {
		name += " / " + preset
	}
	if c, ok := ctrl.(*control.MRPFeedback); ok {
		name += fmt.Sprintf(" (K=%g P=%g)", c.K, c.P)
	}

	m := viz.NewModel(dyn, integ, ctrl, dynamo.State(cfg.GetInitState()), viz.Options{
		Name:      name,
		Dt:        cfg.Dt,
		Normalize: cfg.ShadowSwitching,
		SigmaRef:  attitude.Vec3(cfg.Reference.Sigma),
		GIFPath:   gifPath,
		Duration:  cfg.Duration,
	})
	return viz.Run(cmd.Context(), m)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.NewRunner(st, newLogger()).Run(cmd.Context(), sc)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMODEL\tSTEPS\tSWITCHES\tERROR (deg)\tRUN ID")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%.4f\t%s\n",
			i+1,
			r.Step.Model,
			r.Result.StepsTaken,
			r.Result.Switches,
			r.Result.Metrics["pointing_error_deg"],
			r.RunID,
		)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	base := automation.Step{Model: args[0], Duration: duration}
	if len(args) > 1 {
		base.Preset = args[1]
	}

	points, err := automation.NewRunner(nil, newLogger()).Sweep(cmd.Context(), &automation.Sweep{
		Base:   base,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Points: sweepPoints,
		Metric: metric,
	})
	if err != nil {
		return err
	}

	values := make([]float64, len(points))
	plottable := len(points) > 1
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tSWITCHES\n", strings.ToUpper(sweepParam), strings.ToUpper(metric))
	for i, p := range points {
		values[i] = p.Value
		plottable = plottable && !math.IsNaN(p.Value)
		fmt.Fprintf(w, "%g\t%.6g\t%d\n", p.Param, p.Value, p.Switches)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plottable {
		fmt.Println()
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", metric, sweepParam)),
		))
	}
	return nil
}
