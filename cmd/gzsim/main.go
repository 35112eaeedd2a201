package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gzsim/internal/analysis"
	"github.com/san-kum/gzsim/internal/config"
	"github.com/san-kum/gzsim/internal/experiment"
	"github.com/san-kum/gzsim/internal/export"
	"github.com/san-kum/gzsim/internal/hydro"
	"github.com/san-kum/gzsim/internal/metrics"
	"github.com/san-kum/gzsim/internal/optim"
	"github.com/san-kum/gzsim/internal/sampling"
	"github.com/san-kum/gzsim/internal/storage"
	"github.com/san-kum/gzsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	// run overrides
	configFile string
	mass       float64
	density    float64
	points     int
	seed       int64
	convention string
	workers    int
	angleStart float64
	angleStop  float64
	angleStep  float64
	pointsFrom string
	progress   bool
	saveConfig string
	// output
	outFile string
	// sample
	heel float64
	// converge
	sizes []int
	runs  int
	// sweep
	sweepParams []string
	sweepMetric string
	minimize    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "gzsim",
		Short:         "hydrostatic stability (GZ curve) lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gzsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "compute a GZ curve and store the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCurve,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().StringVar(&pointsFrom, "points-from", "", "reuse the sampled cloud of a stored run")
	runCmd.Flags().BoolVar(&progress, "progress", false, "show live sampling progress")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the effective config to a yaml file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored GZ curve",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	svgCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored GZ curve as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default <run_id>.svg)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list hull presets",
		RunE:  listPresets,
	}

	sampleCmd := &cobra.Command{
		Use:   "sample [preset]",
		Short: "sample a hull and show its heeled section",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sampleHull,
	}
	addConfigFlags(sampleCmd)
	sampleCmd.Flags().Float64Var(&heel, "heel", 0, "heel angle in degrees")

	convergeCmd := &cobra.Command{
		Use:   "converge [preset]",
		Short: "arm spread and timing vs. sample count",
		Args:  cobra.MaximumNArgs(1),
		RunE:  convergence,
	}
	addConfigFlags(convergeCmd)
	convergeCmd.Flags().IntSliceVar(&sizes, "sizes", []int{250, 500, 1000, 2000, 4000}, "sample counts")
	convergeCmd.Flags().IntVar(&runs, "runs", 8, "seeds per sample count")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "grid search over mass and center of mass",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=start:stop:step, repeatable")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "dynamic_stability", "metric to rank by")
	sweepCmd.Flags().BoolVar(&minimize, "minimize", false, "rank by smallest metric value")

	referenceCmd := &cobra.Command{
		Use:   "reference",
		Short: "compare a sampled box barge with the wall-sided formula",
		RunE:  referenceCheck,
	}
	addConfigFlags(referenceCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, svgCmd, presetsCmd, sampleCmd, convergeCmd, sweepCmd, referenceCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, viz.ErrorText.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&mass, "mass", 0, "hull mass in kg")
	cmd.Flags().Float64Var(&density, "density", config.DensitySaltwater, "fluid density in kg/m^3")
	cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "number of sample points")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().StringVar(&convention, "convention", string(hydro.ConventionOffset), "arm sign convention (offset|heel)")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "angles computed in parallel")
	cmd.Flags().Float64Var(&angleStart, "start", config.DefaultAngleStart, "first heel angle")
	cmd.Flags().Float64Var(&angleStop, "stop", config.DefaultAngleStop, "last heel angle")
	cmd.Flags().Float64Var(&angleStep, "step", config.DefaultAngleStep, "heel angle step")
}

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "custom"

	if len(args) > 0 {
		p := config.GetPreset(args[0])
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
		cfg, name = p, args[0]
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if name == "custom" {
			name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		}
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("density") {
		cfg.Density = density
	}
	if flags.Changed("points") {
		cfg.Points = points
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("convention") {
		cfg.Convention = convention
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("start") || flags.Changed("stop") || flags.Changed("step") {
		cfg.Angles = config.AngleConfig{Start: angleStart, Stop: angleStop, Step: angleStep}
	}

	return cfg, name, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runCurve(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	var cloud hydro.PointCloud
	if pointsFrom != "" {
		cloud, err = st.LoadCloud(pointsFrom)
		if err != nil {
			return fmt.Errorf("failed to load points from %s: %w", pointsFrom, err)
		}
	}

	registry := experiment.NewRegistry()
	solid, err := registry.GetHull(cfg.Hull)
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	if err := exp.Setup(solid, registry.DefaultMetrics()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var result *experiment.Result
	if progress {
		result, err = runWithProgress(ctx, exp, name, cloud)
	} else {
		fmt.Printf("computing %s GZ curve (%s, %d points)...\n", name, solid.Name(), pointCount(cfg, cloud))
		result, err = exp.Run(ctx, cloud)
	}
	if err != nil {
		return err
	}

	hc := exp.Config()
	meta := storage.RunMetadata{
		Name:         name,
		Hull:         solid.Name(),
		Seed:         hc.Seed,
		NumPoints:    len(result.Cloud),
		Mass:         hc.Mass,
		Density:      hc.Density,
		Volume:       solid.Volume(),
		CenterOfMass: cfg.CenterOfMass,
		Convention:   string(hc.Convention),
		ElapsedMS:    float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:      result.Metrics,
	}
	runID, err := st.Save(meta, result.Curve, result.Cloud)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n\n", runID)
	fmt.Println(viz.PlotCurve(result.Curve, 70, 12))
	fmt.Println()
	printMetrics(result.Metrics)

	return nil
}

// pointCount is the cloud size a run will use: a reused cloud wins over the
// configured count.
func pointCount(cfg *config.Config, cloud hydro.PointCloud) int {
	if cloud != nil {
		return len(cloud)
	}
	return cfg.Points
}

func runWithProgress(ctx context.Context, exp *experiment.Experiment, name string, cloud hydro.PointCloud) (*experiment.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(viz.NewProgressModel(name, cancel))
	exp.AddObserver(sampling.ObserverFunc(func(accepted, target int) {
		p.Send(viz.ProgressMsg{Accepted: accepted, Target: target})
	}))

	var (
		result *experiment.Result
		runErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		result, runErr = exp.Run(ctx, cloud)
		p.Send(viz.DoneMsg{Err: runErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	<-done
	return result, runErr
}

func printMetrics(m map[string]float64) {
	fmt.Println(viz.Title.Render("metrics"))
	for _, name := range metrics.Names() {
		val, ok := m[name]
		if !ok {
			continue
		}
		fmt.Println("  " + viz.Metric(name, fmt.Sprintf("%.6f", val)))
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runList, err := st.List()
	if err != nil {
		return err
	}

	if len(runList) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tHULL\tTIME\tPOINTS\tMASS\tSEED\tMAX GZ")

	for _, run := range runList {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%d\t%.4f\n",
			run.ID,
			run.Hull,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NumPoints,
			run.Mass,
			run.Seed,
			run.Metrics["max_arm"],
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

	curve, err := st.LoadCurve(runID)
	if err != nil {
		return err
	}
	if len(curve.Points) == 0 {
		return fmt.Errorf("no curve data")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("hull: %s, mass %.1f kg, %d points\n\n", meta.Hull, meta.Mass, meta.NumPoints)
	fmt.Println(viz.PlotCurve(curve, 80, 15))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tGZ\tWATERLINE")
	for _, p := range curve.Points {
		fmt.Fprintf(w, "%.1f\t%.5f\t%.5f\n", p.Angle, p.Arm, p.Waterline)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println(viz.Separator(40))
	printMetrics(meta.Metrics)
	return nil
}

func loadExport(runID string) (export.Data, *hydro.Curve, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return export.Data{}, nil, err
	}
	curve, err := st.LoadCurve(runID)
	if err != nil {
		return export.Data{}, nil, err
	}
	return export.NewData(meta, curve), curve, nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	data, _, err := loadExport(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return export.WriteJSON(os.Stdout, data)
	}
	if err := export.ExportJSON(outFile, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, curve, err := loadExport(args[0])
	if err != nil {
		return err
	}

	svg := export.CurveToSVG(curve, 800, 400, "#00ff88")
	if svg == "" {
		return fmt.Errorf("curve needs at least two points")
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHULL\tMASS\tDENSITY\tPOINTS\tANGLES")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		angles := p.Angles.Values()
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%.0f\t%d\t%.0f..%.0f (%d)\n",
			name, p.Hull.Kind, p.Mass, p.Density, p.Points,
			angles[0], angles[len(angles)-1], len(angles))
	}
	return w.Flush()
}

func sampleHull(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	hc, err := cfg.Hydro()
	if err != nil {
		return err
	}

	solid, err := experiment.NewRegistry().GetHull(cfg.Hull)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	if err := exp.Setup(solid, nil); err != nil {
		return err
	}
	start := time.Now()
	cloud, err := exp.Sample(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	heeled := cloud.Heel(hc.CenterOfMass, heel)
	waterline, err := sampling.LocateWaterline(heeled, hc.Mass, solid.Volume(), hc.Density)
	if err != nil {
		return err
	}
	cob, err := sampling.BuoyancyCenter(heeled, waterline)
	if err != nil {
		return err
	}

	lo, hi := solid.Bounds()
	centroid := cloud.Centroid()

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s (%s) at %.1f deg", name, solid.Name(), heel)))
	fmt.Println(viz.Panel.Render(strings.TrimRight(viz.Section(heeled, waterline, 60, 20), "\n")))
	fmt.Println(viz.Metric("points", fmt.Sprintf("%d in %v", len(cloud), elapsed.Round(time.Microsecond))))
	fmt.Println(viz.Metric("volume", fmt.Sprintf("%.4f m^3", solid.Volume())))
	fmt.Println(viz.Metric("bounds", fmt.Sprintf("%s .. %s", vec(lo), vec(hi))))
	fmt.Println(viz.Metric("centroid", vec(centroid)))
	fmt.Println(viz.Metric("waterline", fmt.Sprintf("%.5f m", waterline)))
	fmt.Println(viz.Metric("buoyancy center", vec(cob)))
	fmt.Println(viz.Metric("righting arm", fmt.Sprintf("%.5f m", hc.Convention.Arm(heel, cob.X()))))
	return nil
}

func vec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X(), v.Y(), v.Z())
}

func convergence(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	hc, err := cfg.Hydro()
	if err != nil {
		return err
	}
	if runs < 2 {
		return fmt.Errorf("need at least 2 runs, got %d", runs)
	}

	solid, err := experiment.NewRegistry().GetHull(cfg.Hull)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("convergence of %s over %d seeds\n\n", name, runs)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tTIME/CURVE\tMEAN STD\tMAX STD\tMAX GZ")

	for _, n := range sizes {
		hc.NumPoints = n

		start := time.Now()
		curves, err := sampling.NewEnsemble(solid, hc, runs, hc.Seed).Run(ctx)
		if err != nil {
			return err
		}
		perCurve := time.Since(start) / time.Duration(runs)

		spread := sampling.Summarize(curves)
		meanStd, maxStd, maxArm := 0.0, 0.0, 0.0
		for i := range spread.Angles {
			meanStd += spread.StdDev[i]
			maxStd = max(maxStd, spread.StdDev[i])
			maxArm = max(maxArm, spread.Mean[i])
		}
		meanStd /= float64(len(spread.Angles))

		fmt.Fprintf(w, "%d\t%v\t%.5f\t%.5f\t%.5f\n",
			n, perCurve.Round(time.Microsecond), meanStd, maxStd, maxArm)
	}

	return w.Flush()
}

// parseSweep reads name=start:stop:step into a parameter name and its values.
func parseSweep(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid sweep %q, want name=start:stop:step", arg)
	}

	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("invalid range %q, want start:stop:step", rng)
	}
	var vals [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid range %q: %w", rng, err)
		}
		vals[i] = v
	}

	return name, hydro.AngleRange(vals[0], vals[1], vals[2]), nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required (available: %v)", optim.ParamNames())
	}

	names := make([]string, 0, len(sweepParams))
	ranges := make([][]float64, 0, len(sweepParams))
	for _, p := range sweepParams {
		n, vals, err := parseSweep(p)
		if err != nil {
			return err
		}
		names = append(names, n)
		ranges = append(ranges, vals)
	}

	g, err := optim.NewGridSearch(names, ranges, !minimize)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("sweeping %s over %s\n\n", name, strings.Join(names, ", "))
	best, evals, err := g.Search(ctx, cfg, sweepMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(sweepMetric))
	for _, e := range evals {
		for _, n := range names {
			fmt.Fprintf(w, "%.4g\t", e.Params[n])
		}
		if e.Err != nil {
			fmt.Fprintf(w, "%s\n", e.Err)
			continue
		}
		fmt.Fprintf(w, "%.6f\n", e.Metrics[sweepMetric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.Title.Render("best"))
	for _, n := range names {
		fmt.Println("  " + viz.Metric(n, fmt.Sprintf("%.4g", best.Params[n])))
	}
	fmt.Println("  " + viz.Metric(sweepMetric, fmt.Sprintf("%.6f", best.Metrics[sweepMetric])))
	return nil
}

func referenceCheck(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, []string{"barge"})
	if err != nil {
		return err
	}
	if cfg.Hull.Kind != "box" {
		return fmt.Errorf("reference check needs a box hull, got %s", cfg.Hull.Kind)
	}

	registry := experiment.NewRegistry()
	solid, err := registry.GetHull(cfg.Hull)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	if err := exp.Setup(solid, registry.DefaultMetrics()); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx, nil)
	if err != nil {
		return err
	}

	h := cfg.Hull
	draft := analysis.BoxDraft(cfg.Mass, cfg.Density, h.Beam, h.Length)
	kg := cfg.CenterOfMass[2] + h.Depth/2

	fmt.Printf("box %.2f x %.2f x %.2f, draft %.4f m, GM %.4f m\n\n",
		h.Beam, h.Length, h.Depth, draft, analysis.BoxMetacentricHeight(h.Beam, draft, kg))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tSAMPLED\tWALL-SIDED\tDIFF")
	for _, p := range result.Curve.Points {
		ref, ok := analysis.BoxRightingArm(h.Beam, h.Depth, draft, kg, p.Angle)
		if !ok {
			fmt.Fprintf(w, "%.1f\t%.5f\t-\t-\n", p.Angle, p.Arm)
			continue
		}
		ref = exp.Config().Convention.Arm(p.Angle, ref)
		fmt.Fprintf(w, "%.1f\t%.5f\t%.5f\t%+.5f\n", p.Angle, p.Arm, ref, p.Arm-ref)
	}
	return w.Flush()
}
