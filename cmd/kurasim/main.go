package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/kurasim/internal/analysis"
	"github.com/san-kum/kurasim/internal/audio"
	"github.com/san-kum/kurasim/internal/automation"
	"github.com/san-kum/kurasim/internal/cluster"
	"github.com/san-kum/kurasim/internal/compute"
	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/export"
	"github.com/san-kum/kurasim/internal/gui"
	"github.com/san-kum/kurasim/internal/kuramoto"
	"github.com/san-kum/kurasim/internal/metrics"
	"github.com/san-kum/kurasim/internal/optim"
	"github.com/san-kum/kurasim/internal/sim"
	"github.com/san-kum/kurasim/internal/storage"
	"github.com/san-kum/kurasim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	n         int
	rows      int
	lambda    float64
	kStart    float64
	kEnd      float64
	rampStart float64
	rampEnd   float64
	omegaMean float64
	spread    float64
	stagger   float64
	fadeIn    float64
	noiseStd  float64
	duration  float64
	dt        float64
	substeps  int
	seed      int64
	normalize bool

	frameRate int
	withAudio bool
	outPath   string
	stepIdx   int
	runs      int
	seedStart int64

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	sweepMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kurasim",
		Short: "spatially-coupled metronome synchronization lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kurasim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the frames",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot order parameter and cluster count",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "beat spectrum of the order parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export frame summary to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render a frame of the board to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVar(&stepIdx, "step", -1, "frame index (-1 for the last frame)")
	svgCmd.Flags().StringVar(&outPath, "out", "board.svg", "output path")

	wavCmd := &cobra.Command{
		Use:   "wav [run_id]",
		Short: "render the run's soundtrack to WAV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportWAV,
	}
	wavCmd.Flags().StringVar(&outPath, "out", "soundtrack.wav", "output path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with live terminal visualization",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run with the graphical viewer",
		RunE:  runGUI,
	}
	addModelFlags(guiCmd)
	guiCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
	guiCmd.Flags().BoolVar(&withAudio, "audio", false, "play the ambient pad")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a run over consecutive noise seeds",
		RunE:  runEnsemble,
	}
	addModelFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a parameter and rank it by a metric",
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "k_end", "parameter to sweep (yaml name)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.2, "sweep minimum")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 2.0, "sweep maximum")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of grid points")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "lock_time", "metric to minimize")

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted scenario of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, svgCmd, wavCmd, liveCmd, guiCmd, ensembleCmd, sweepCmd, batchCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&n, "n", config.DefaultN, "oscillator count")
	cmd.Flags().IntVar(&rows, "rows", config.DefaultRows, "grid rows")
	cmd.Flags().Float64Var(&lambda, "lambda", config.DefaultLambda, "coupling length scale (px)")
	cmd.Flags().Float64Var(&kStart, "k-start", config.DefaultKStart, "initial coupling strength")
	cmd.Flags().Float64Var(&kEnd, "k-end", config.DefaultKEnd, "final coupling strength")
	cmd.Flags().Float64Var(&rampStart, "ramp-start", config.DefaultRampStart, "coupling ramp start (s)")
	cmd.Flags().Float64Var(&rampEnd, "ramp-end", config.DefaultRampEnd, "coupling ramp end (s)")
	cmd.Flags().Float64Var(&omegaMean, "freq", config.DefaultOmegaMeanHz, "mean natural frequency (Hz)")
	cmd.Flags().Float64Var(&spread, "spread", config.DefaultOmegaSpread, "frequency spread (rad/s)")
	cmd.Flags().Float64Var(&stagger, "stagger", config.DefaultStagger, "activation stagger window (s)")
	cmd.Flags().Float64Var(&fadeIn, "fade-in", config.DefaultFadeIn, "coupling fade-in window (s)")
	cmd.Flags().Float64Var(&noiseStd, "noise", config.DefaultNoiseStd, "phase noise level")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "outer time step (s)")
	cmd.Flags().IntVar(&substeps, "substeps", config.DefaultSubsteps, "integration substeps per step")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().BoolVar(&normalize, "normalize-rows", false, "row-normalize the weight matrix")
}

// buildConfig resolves the run configuration: defaults, then preset, then
// config file, with explicitly set flags overriding everything.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		c := *p
		cfg = &c
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("n") {
		cfg.N = n
	}
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("lambda") {
		cfg.Lambda = lambda
	}
	if flags.Changed("k-start") {
		cfg.KStart = kStart
	}
	if flags.Changed("k-end") {
		cfg.KEnd = kEnd
	}
	if flags.Changed("ramp-start") {
		cfg.RampStart = rampStart
	}
	if flags.Changed("ramp-end") {
		cfg.RampEnd = rampEnd
	}
	if flags.Changed("freq") {
		cfg.OmegaMeanHz = omegaMean
	}
	if flags.Changed("spread") {
		cfg.OmegaSpread = spread
	}
	if flags.Changed("stagger") {
		cfg.StaggerWindow = stagger
	}
	if flags.Changed("fade-in") {
		cfg.FadeIn = fadeIn
	}
	if flags.Changed("noise") {
		cfg.NoiseStd = noiseStd
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("substeps") {
		cfg.Substeps = substeps
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("normalize-rows") {
		cfg.NormalizeRows = normalize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildRunner assembles the full simulation from a validated config.
func buildRunner(cfg *config.Config) (*sim.Runner, *kuramoto.GridLayout, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	layout, err := kuramoto.NewGridLayout(cfg.N, cfg.Rows)
	if err != nil {
		return nil, nil, err
	}

	weights, err := kuramoto.NewWeights(layout, cfg.Lambda, cfg.NormalizeRows)
	if err != nil {
		return nil, nil, err
	}

	var coupling kuramoto.CouplingSchedule
	if cfg.KStart == cfg.KEnd {
		coupling, err = kuramoto.NewConstantCoupling(cfg.KStart)
	} else {
		coupling, err = kuramoto.NewRampCoupling(cfg.KStart, cfg.KEnd, cfg.RampStart, cfg.RampEnd)
	}
	if err != nil {
		return nil, nil, err
	}

	bank, err := kuramoto.NewBank(cfg.N, cfg.OmegaMeanHz, cfg.OmegaSpread, cfg.StaggerWindow, cfg.FadeIn, rng)
	if err != nil {
		return nil, nil, err
	}

	integ, err := kuramoto.NewIntegrator(weights, coupling, cfg.Substeps, cfg.NoiseStd, rng, compute.GetBackend())
	if err != nil {
		return nil, nil, err
	}

	detector, err := cluster.NewDetector(layout, cluster.Config{
		NeighborRadius: cfg.Cluster.NeighborRadius,
		PhaseThreshold: cfg.Cluster.PhaseThreshold,
		MinSize:        cfg.Cluster.MinSize,
		CoherenceMin:   cfg.Cluster.CoherenceMin,
		OverlapMin:     cfg.Cluster.OverlapMin,
	})
	if err != nil {
		return nil, nil, err
	}

	runner, err := sim.New(bank, integ, coupling, detector, cfg.Dt)
	if err != nil {
		return nil, nil, err
	}
	return runner, layout, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	runner, _, err := buildRunner(cfg)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		runner.AddMetric(m)
	}

	fmt.Printf("running %d metronomes for %.1fs...\n", cfg.N, cfg.Duration)
	start := time.Now()

	result, err := runner.Run(context.Background(), cfg.Duration)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.N, cfg.Dt, cfg.Duration, cfg.Seed, preset, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runsMeta, err := st.List()
	if err != nil {
		return err
	}

	if len(runsMeta) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tN\tDURATION\tDT\tSEED\tPRESET")

	for _, run := range runsMeta {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2fs\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.Duration,
			run.Dt,
			run.Seed,
			run.Preset,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d\n\n", len(frames))

	rSeries := make([]float64, len(frames))
	clusters := make([]float64, len(frames))
	for i, f := range frames {
		rSeries[i] = f.R
		clusters[i] = float64(f.ClusterCount())
	}

	fmt.Println(asciigraph.Plot(rSeries,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("order parameter r(t)"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(clusters,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.Caption("cluster count"),
	))
	fmt.Println()

	for name, val := range meta.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data")
	}

	rSeries := make([]float64, len(frames))
	psi := make([]float64, len(frames))
	for i, f := range frames {
		rSeries[i] = f.R
		psi[i] = f.Psi
	}

	fmt.Printf("beat analysis: %s\n\n", meta.ID)

	ps := analysis.PowerSpectrum(rSeries)
	plotData := ps[:len(ps)/4]

	fmt.Println(asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of r(t)"),
	))
	fmt.Println()

	if freq := analysis.DominantFrequency(rSeries, meta.Dt); freq > 0 {
		fmt.Printf("dominant beat frequency: %.3f hz (period %.3f s)\n", freq, 1.0/freq)
	}
	fmt.Printf("mean phase velocity: %.3f hz\n", analysis.MeanPhaseVelocity(psi, meta.Dt))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "r", "psi", "k", "active", "clusters"}); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.FormatFloat(f.T, 'f', 6, 64),
			strconv.FormatFloat(f.R, 'f', 6, 64),
			strconv.FormatFloat(f.Psi, 'f', 6, 64),
			strconv.FormatFloat(f.K, 'f', 6, 64),
			strconv.Itoa(f.ActiveCount()),
			strconv.Itoa(f.ClusterCount()),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}

	return export.JSONStdout(meta.ID, meta.N, meta.Dt, meta.Duration, frames, meta.Metrics)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to render")
	}

	idx := stepIdx
	if idx < 0 || idx >= len(frames) {
		idx = len(frames) - 1
	}

	// The frames alone cannot recover the row count, so rebuild the layout
	// from the stored run shape assuming the default row count when the
	// metadata predates it.
	rowCount := config.DefaultRows
	if meta.N < rowCount {
		rowCount = 1
	}
	layout, err := kuramoto.NewGridLayout(meta.N, rowCount)
	if err != nil {
		return err
	}

	svg := export.BoardSVG(layout, frames[idx])
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (frame %d, t=%.2fs)\n", outPath, idx, frames[idx].T)
	return nil
}

func exportWAV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to sonify")
	}

	rSeries := make([]float64, len(frames))
	for i, f := range frames {
		rSeries[i] = f.R
	}

	samples := audio.RenderTrack(rSeries, meta.Dt, meta.Duration)
	if err := audio.WriteWAV(outPath, samples); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%.1fs)\n", outPath, meta.Duration)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, layout, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	m := viz.NewModel(runner, layout, cfg.Duration, frameRate)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	runner, layout, err := buildRunner(cfg)
	if err != nil {
		return err
	}

	app := gui.NewApp(runner, layout, cfg.Duration, frameRate, withAudio)
	return app.Run()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	search := optim.NewGridSearch(
		[]string{sweepParam},
		[][]float64{optim.Linspace(sweepMin, sweepMax, sweepSteps)},
	)

	run := func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		c := *cfg
		for name, val := range params {
			if err := c.SetParam(name, val); err != nil {
				return nil, err
			}
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		runner, _, err := buildRunner(&c)
		if err != nil {
			return nil, err
		}
		for _, m := range metrics.Default() {
			runner.AddMetric(m)
		}
		return runner.Run(ctx, c.Duration)
	}

	fmt.Printf("sweeping %s over [%.3f, %.3f] in %d steps...\n\n", sweepParam, sweepMin, sweepMax, sweepSteps)

	points, best, err := search.Search(context.Background(), run, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", sweepParam, sweepMetric)
	for _, p := range points {
		score := "never"
		if !math.IsInf(p.Score, 1) {
			score = strconv.FormatFloat(p.Score, 'f', 4, 64)
		}
		fmt.Fprintf(w, "%.4f\t%s\n", p.Params[sweepParam], score)
	}
	w.Flush()

	if !math.IsInf(best.Score, 1) {
		fmt.Printf("\nbest: %s=%.4f (%s=%.4f)\n", sweepParam, best.Params[sweepParam], sweepMetric, best.Score)
	} else {
		fmt.Printf("\nno grid point reached %s\n", sweepMetric)
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	build := func(cfg *config.Config) (*sim.Runner, error) {
		runner, _, err := buildRunner(cfg)
		return runner, err
	}

	fmt.Printf("scenario: %s (%d steps)\n\n", scenario.Name, len(scenario.Steps))

	results, err := automation.RunScenario(context.Background(), scenario, st, build)
	for _, sr := range results {
		fmt.Printf("step %s: %d frames", sr.Step.Name, sr.Frames)
		if sr.RunID != "" {
			fmt.Printf(" (saved as %s)", sr.RunID)
		}
		fmt.Println()
		for name, val := range sr.Metrics {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	factory := func(s int64) (*sim.Runner, error) {
		c := *cfg
		c.Seed = s
		runner, _, err := buildRunner(&c)
		return runner, err
	}

	ensemble := sim.NewEnsemble(factory, runs, seedStart)

	fmt.Printf("running %d seeds from %d...\n", runs, seedStart)
	start := time.Now()

	results, err := ensemble.Run(context.Background(), cfg.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFINAL_R\tCLUSTERS")
	for i, res := range results {
		if res == nil || len(res.Frames) == 0 {
			continue
		}
		last := res.Frames[len(res.Frames)-1]
		fmt.Fprintf(w, "%d\t%.4f\t%d\n", seedStart+int64(i), last.R, last.ClusterCount())
	}
	w.Flush()

	fmt.Printf("\nmean final r: %.4f\n", sim.MeanFinalOrder(results))
	return nil
}
