package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/analysis"
	"github.com/san-kum/celestial/internal/automation"
	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/experiment"
	"github.com/san-kum/celestial/internal/export"
	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/logging"
	"github.com/san-kum/celestial/internal/metrics"
	"github.com/san-kum/celestial/internal/optim"
	"github.com/san-kum/celestial/internal/scenario"
	"github.com/san-kum/celestial/internal/sim"
	"github.com/san-kum/celestial/internal/storage"
	"github.com/san-kum/celestial/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	dt         float64
	frames     int
	substeps   int
	seed       uint64
	integrator string
	contact    string
	numBodies  int
	numRuns    int
	body       int
	track      int
	frameIdx   int
	braille    bool
	output     string
	theme      string
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	metricName string
	grid       []string

	logger *log.Logger
)

// main registers the commands and opens the preset menu when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "celestial",
		Short: "2d gravity and collision sandbox",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.Stderr(logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".celestial", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene headlessly and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	sceneFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a frame or a body trajectory to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&frameIdx, "frame", -1, "snapshot index (-1 for the last)")
	exportSVGCmd.Flags().IntVar(&track, "track", -1, "draw the path of this body instead of a frame")
	exportSVGCmd.Flags().BoolVar(&braille, "braille", false, "render through the terminal canvas")
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital period of one body",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&body, "body", 0, "body index")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark frame throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scene",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames per run")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble [preset]",
		Short: "run consecutive seeds in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnsemble,
	}
	sceneFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")

	divergenceCmd := &cobra.Command{
		Use:   "divergence [preset]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDivergence,
	}
	sceneFlags(divergenceCmd)
	divergenceCmd.Flags().IntVar(&body, "body", 0, "body to perturb")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scene with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tINTEG\tCONTACT\tMUTUAL")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%v\n",
					name, p.Bodies.Count, p.Integrator, p.Physics.Contact, p.Physics.MutualGravity)
			}
			return w.Flush()
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file for a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadScene(cmd, nil)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			logger.Info("config written", "path", args[0])
			return nil
		},
	}
	sceneFlags(initConfigCmd)

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a yaml script of scenes",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "vary one parameter across runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter ("+strings.Join(config.ParamNames(), ", ")+")")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 10, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search parameters minimizing a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	sceneFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")
	tuneCmd.Flags().StringArrayVar(&grid, "grid", nil, "parameter values, e.g. substeps=1,2,4")

	rootCmd.AddCommand(scriptCmd, sweepCmd, tuneCmd)
	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		analyzeCmd, benchCmd, compareCmd, ensembleCmd, divergenceCmd, liveCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sceneFlags adds the flags that override a preset or config file.
func sceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "frame length")
	cmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frames to run")
	cmd.Flags().IntVar(&substeps, "substeps", 1, "sub-steps per frame")
	cmd.Flags().Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "euler", "integrator (euler, verlet)")
	cmd.Flags().StringVar(&contact, "contact", "bounce", "fixed body contact (bounce, absorb)")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies")
}

// loadScene resolves the preset in args, then the config file, then any
// flags set on the command line, in increasing priority.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
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
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("contact") {
		cfg.Physics.Contact = contact
	}
	if flags.Changed("bodies") {
		cfg.Bodies.Count = numBodies
	}
	return cfg, cfg.Validate()
}

// signalContext is canceled on interrupt so long runs stop between frames.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg, logger)
	if err := exp.Setup(experiment.NewRegistry().DefaultMetrics()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running scene", "scene", cfg.Name, "bodies", cfg.Bodies.Count, "frames", cfg.Frames, "integrator", cfg.Integrator)
	start := time.Now()

	result, err := exp.Run(ctx)
	if result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run stopped early", "frames", result.Frames, "err", err)
	}
	for _, e := range result.Errors {
		logger.Warn("run error", "err", e)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.NewMetadata(cfg, result), result)
	if err != nil {
		return err
	}

	logger.Info("run stored", "id", runID, "elapsed", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("collisions: %d\n", result.Collisions)
	fmt.Printf("removed: %d\n", result.Removed)
	fmt.Println("\nmetrics:")
	for _, name := range experiment.NewRegistry().ListMetrics() {
		if val, ok := result.Metrics[name]; ok {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}
	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFRAMES\tDT\tINTEG\tBODIES\tREMOVED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%s\t%d\t%d\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			run.Integrator,
			run.Bodies,
			run.Removed,
		)
	}

	return w.Flush()
}

// loadRun returns the metadata and frames of a stored run.
// loadMeta returns the run named by args, or the most recent run when args
// is empty.
func loadMeta(st *storage.Store, args []string) (*storage.RunMetadata, error) {
	if len(args) == 0 {
		return st.Latest()
	}
	return st.Load(args[0])
}

func loadRun(args []string) (*storage.RunMetadata, []sim.Snapshot, error) {
	st := storage.New(dataDir)
	meta, err := loadMeta(st, args)
	if err != nil {
		return nil, nil, err
	}
	snaps, err := st.LoadFrames(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(snaps) == 0 {
		return nil, nil, fmt.Errorf("run %s has no frames", meta.ID)
	}
	return meta, snaps, nil
}

func runConfig(meta *storage.RunMetadata) *config.Config {
	if meta.Config != nil {
		return meta.Config
	}
	return config.DefaultConfig()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, snaps, err := loadRun(args)
	if err != nil {
		return err
	}

	cx, cy := runConfig(meta).Center()
	series := analysis.Summarize(snaps, r2.Vec{X: cx, Y: cy})

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(snaps))

	plots := []struct {
		caption string
		data    []float64
	}{
		{"kinetic energy", series.KineticEnergy},
		{"bodies", series.Bodies},
		{"mean orbit radius", series.MeanOrbit},
	}
	for _, p := range plots {
		if len(p.data) < 2 {
			continue
		}
		fmt.Println(asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := loadMeta(storage.New(dataDir), args)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, snaps, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.WriteFramesCSV(os.Stdout, snaps)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, snaps, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, snaps)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, snaps, err := loadRun(args)
	if err != nil {
		return err
	}
	cfg := runConfig(meta)
	cx, cy := cfg.Center()
	area := geom.NewRect(cx, cy, cfg.Area.Width, cfg.Area.Height)

	var svg string
	switch {
	case track >= 0:
		path := analysis.Path(snaps, track)
		if len(path) < 2 {
			return fmt.Errorf("body %d has fewer than two samples", track)
		}
		svg = export.TrajectoryToSVG(path, 800, 800, "#00ccff")
	default:
		i := frameIdx
		if i < 0 {
			i = len(snaps) - 1
		}
		if i >= len(snaps) {
			return fmt.Errorf("frame %d out of range [0, %d)", i, len(snaps))
		}
		if braille {
			canvas := viz.NewCanvas(80, 40)
			viz.DrawSnapshot(canvas, viz.NewViewport(area, canvas), snaps[i])
			svg = export.CanvasToSVG(canvas, 4)
		} else {
			fixed := make([]sim.BodyState, 0, len(cfg.Attractors))
			for _, b := range scenario.Fixed(cfg) {
				fixed = append(fixed, sim.BodyState{Position: b.Position, Radius: b.Radius, Mass: b.Mass})
			}
			svg = export.SnapshotToSVG(snaps[i], fixed, area, int(cfg.Area.Width), int(cfg.Area.Height))
		}
	}

	if output == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", "path", output)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, snaps, err := loadRun(args)
	if err != nil {
		return err
	}

	xs := analysis.Track(snaps, body)
	if len(xs) < 4 {
		return fmt.Errorf("body %d has too few samples", body)
	}
	sampleDt := meta.Dt * float64(max(runConfig(meta).SampleEvery, 1))

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("body: %d, samples: %d\n\n", body, len(xs))

	ps := analysis.PowerSpectrum(xs)
	if len(ps) > 4 {
		fmt.Println(asciigraph.Plot(ps[1:len(ps)/2],
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (x)"),
		))
		fmt.Println()
	}

	period := analysis.DominantPeriod(xs, sampleDt)
	if period == 0 {
		fmt.Println("no dominant period")
		return nil
	}
	fmt.Printf("dominant period: %.3f s\n", period)
	fmt.Printf("frequency: %.3f hz\n", 1/period)
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	base, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	counts := []int{50, 100, 200, 400}
	steps := []int{1, 2, 4}
	const benchFrames = 300

	fmt.Printf("benchmarking %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tSUBSTEPS\tFRAMES\tTIME\tFRAMES/SEC\tCOLLISIONS")

	for _, n := range counts {
		for _, s := range steps {
			cfg := base.Clone()
			cfg.Bodies.Count = n
			cfg.Substeps = s
			cfg.Frames = benchFrames

			exp := experiment.New(cfg, logging.Discard())
			if err := exp.Setup(nil); err != nil {
				return err
			}
			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\t%d\n",
				n, s, result.Frames, elapsed.Round(time.Microsecond),
				float64(result.Frames)/elapsed.Seconds(), result.Collisions)
		}
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base := config.GetPreset(args[0])
	if base == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}
	if cmd.Flags().Changed("frames") {
		base.Frames = frames
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("comparing integrators on %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tTIME\tENERGY DRIFT\tCOLLISIONS\tREMOVED")

	var drifts [][]float64
	for _, name := range args[1:] {
		cfg := base.Clone()
		cfg.Integrator = name
		if err := cfg.Validate(); err != nil {
			return err
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup([]sim.Metric{metrics.NewEnergyDrift()}); err != nil {
			return err
		}
		trace := &energyTrace{}
		exp.GetSimulator().AddObserver(trace)

		start := time.Now()
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%v\t%.3e\t%d\t%d\n",
			name, elapsed.Round(time.Millisecond), result.Metrics["energy_drift"], result.Collisions, result.Removed)
		drifts = append(drifts, trace.relative())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.PlotMany(drifts,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("relative energy drift: "+strings.Join(args[1:], ", ")),
	))
	return nil
}

// energyTrace records total energy every frame.
type energyTrace struct {
	values []float64
}

func (e *energyTrace) OnFrame(w *sim.World, _ sim.FrameResult, _ float64) {
	e.values = append(e.values, metrics.TotalEnergy(w))
}

func (e *energyTrace) relative() []float64 {
	out := make([]float64, len(e.values))
	if len(e.values) == 0 || e.values[0] == 0 {
		return out
	}
	e0 := e.values[0]
	for i, v := range e.values {
		out[i] = (v - e0) / math.Abs(e0)
	}
	return out
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg, logger)
	start := time.Now()
	results, err := exp.RunEnsemble(ctx, numRuns, registry.DefaultMetrics)
	if err != nil {
		return err
	}
	logger.Info("ensemble finished", "runs", len(results), "elapsed", time.Since(start))

	names := registry.ListMetrics()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tCOLLISIONS\tREMOVED\t"+strings.ToUpper(strings.Join(names, "\t")))
	for i, res := range results {
		row := fmt.Sprintf("%d\t%d\t%d", cfg.Seed+uint64(i), res.Collisions, res.Removed)
		for _, name := range names {
			row += fmt.Sprintf("\t%.4g", res.Metrics[name])
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}

func runDivergence(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	build := func() (*sim.World, error) { return scenario.Build(cfg) }
	lambda, err := analysis.Divergence(build, body, 1e-3, cfg.Dt, cfg.Frames)
	if err != nil {
		return err
	}
	fmt.Printf("scene: %s\n", cfg.Name)
	fmt.Printf("perturbed body: %d\n", body)
	fmt.Printf("lyapunov exponent: %.4f /s\n", lambda)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	if theme != "" {
		viz.SetTheme(theme)
	}
	return viz.RunLive(cfg, logger)
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running script", "name", script.Name, "steps", len(script.Steps))
	results, err := automation.RunScript(ctx, script, st, logger)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSCENE\tFRAMES\tCOLLISIONS\tREMOVED\tRUN")
	for i, r := range results {
		scene := r.Step.Preset
		if r.Step.SaveAs != "" {
			scene = r.Step.SaveAs
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\n",
			i+1, scene, r.Result.Frames, r.Result.Collisions, r.Result.Removed, r.RunID)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sweep := automation.Sweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, Steps: sweepSteps}
	results, err := automation.RunSweep(ctx, cfg, sweep, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOLLISIONS\tREMOVED\tENERGY DRIFT\tCONTAINMENT\n", strings.ToUpper(sweepParam))
	collisions := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.4g\t%d\t%d\t%.3e\t%.3f\n",
			r.Value, r.Collisions, r.Removed, r.Metrics["energy_drift"], r.Metrics["containment"])
		collisions[i] = float64(r.Collisions)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(collisions) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(collisions,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption("collisions vs "+sweepParam),
		))
	}
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}

	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	params, best, err := search.Search(ctx, cfg, metricName, logger)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.6g\n", metricName, best)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, params[name])
	}
	return nil
}

// parseGrid reads name=v1,v2,... entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	if len(entries) == 0 {
		return nil, nil, fmt.Errorf("at least one --grid entry is required")
	}
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("grid entry %q: expected name=v1,v2", e)
		}
		var values []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid entry %q: %w", e, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}
