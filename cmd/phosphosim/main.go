package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/kochlab/phosphosim/internal/config"
	"github.com/kochlab/phosphosim/internal/dataset"
	"github.com/kochlab/phosphosim/internal/drives"
	"github.com/kochlab/phosphosim/internal/export"
	"github.com/kochlab/phosphosim/internal/fit"
	"github.com/kochlab/phosphosim/internal/integrators"
	"github.com/kochlab/phosphosim/internal/kinetics"
	"github.com/kochlab/phosphosim/internal/metrics"
	"github.com/kochlab/phosphosim/internal/models"
	"github.com/kochlab/phosphosim/internal/scan"
	"github.com/kochlab/phosphosim/internal/storage"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	drive      string
	total      float64
	pka        float64
	pkc        float64
	pp1        float64
	pp2a       float64
	rsk2       float64
	pulseTimes []float64
	decay      float64
	pulseCount int
	pulseLen   float64
	pulseGap   float64
	pulseKeep  float64
	adaptive   bool
	tolerance  float64
	configFile string
	preset     string
	paramsFile string
	// steady state
	residual float64
	maxTime  float64
	// scan
	scanEnzyme string
	scanMin    float64
	scanMax    float64
	scanPoints int
	fraction   string
	plotFile   string
	// ensemble
	ensembleFiles []string
	// fit
	dataFile   string
	fitParams  []string
	fitStart   []float64
	gridLevels int
	maxEvals   int
	outFile    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "phosphosim",
		Short: "cMyBP-C phosphorylation kinetics lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".phosphosim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "simulate a time course",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringSliceVar(&ensembleFiles, "ensemble", nil, "fitted parameter set files (yaml); reports mean and SD over the family")

	steadyCmd := &cobra.Command{
		Use:   "steady [model]",
		Short: "relax to steady state",
		Args:  cobra.ExactArgs(1),
		RunE:  runSteady,
	}
	addRunFlags(steadyCmd)
	steadyCmd.Flags().Float64Var(&residual, "residual", 1e-9, "convergence threshold on the scaled derivative norm")
	steadyCmd.Flags().Float64Var(&maxTime, "max-time", 5*3600, "give up after this much simulated time")

	scanCmd := &cobra.Command{
		Use:   "scan [model]",
		Short: "steady-state dose response over an enzyme concentration",
		Args:  cobra.ExactArgs(1),
		RunE:  runScan,
	}
	addRunFlags(scanCmd)
	scanCmd.Flags().StringVar(&scanEnzyme, "enzyme", "pka", "enzyme pool to sweep")
	scanCmd.Flags().Float64Var(&scanMin, "min", 1e-9, "lowest concentration (M)")
	scanCmd.Flags().Float64Var(&scanMax, "max", 1e-5, "highest concentration (M)")
	scanCmd.Flags().IntVar(&scanPoints, "points", 20, "grid points, log spaced")
	scanCmd.Flags().StringVar(&fraction, "fraction", "", "print only this fraction")
	scanCmd.Flags().StringVar(&plotFile, "plot", "", "write a dose-response plot (.png/.svg/.pdf)")
	scanCmd.Flags().Float64Var(&residual, "residual", 1e-9, "steady-state threshold")
	scanCmd.Flags().Float64Var(&maxTime, "max-time", 5*3600, "per-point time limit")
	scanCmd.Flags().StringSliceVar(&ensembleFiles, "ensemble", nil, "fitted parameter set files (yaml); reports mean and SD over the family")

	fitCmd := &cobra.Command{
		Use:   "fit [model]",
		Short: "estimate rate constants from time-course data",
		Args:  cobra.ExactArgs(1),
		RunE:  runFit,
	}
	addRunFlags(fitCmd)
	fitCmd.Flags().StringVar(&dataFile, "csv", "", "experimental data CSV (required)")
	fitCmd.Flags().StringSliceVar(&fitParams, "param", nil, "parameter to fit, repeatable")
	fitCmd.Flags().Float64SliceVar(&fitStart, "start", nil, "starting value per --param")
	fitCmd.Flags().IntVar(&gridLevels, "grid", 0, "coarse grid levels per parameter before the simplex (0 disables)")
	fitCmd.Flags().IntVar(&maxEvals, "max-evals", 2000, "objective evaluation budget")
	fitCmd.Flags().StringVar(&outFile, "out", "", "write fitted parameters as YAML")
	_ = fitCmd.MarkFlagRequired("csv")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "chart a saved run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a saved run as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a saved run as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets for a model",
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

	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "list model variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range models.List() {
				fmt.Println(name)
			}
			return nil
		},
	}

	compareCmd := &cobra.Command{
		Use:   "compare [model] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", 1.0, "timestep (s)")
	compareCmd.Flags().Float64Var(&duration, "time", 3600, "duration (s)")

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "benchmark a model",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}

	rootCmd.AddCommand(runCmd, steadyCmd, scanCmd, fitCmd, listCmd, plotCmd,
		exportCSVCmd, exportJSONCmd, presetsCmd, modelsCmd, compareCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (s)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration (s)")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator")
	cmd.Flags().StringVar(&drive, "drive", "constant", "enzyme drive (constant, pulses, decaying, random)")
	cmd.Flags().Float64Var(&total, "total", config.DefaultTotal, "conserved protein concentration (M)")
	cmd.Flags().Float64Var(&pka, "pka", config.DefaultPKA, "PKA concentration (M)")
	cmd.Flags().Float64Var(&pkc, "pkc", 0, "PKC concentration (M)")
	cmd.Flags().Float64Var(&pp1, "pp1", config.DefaultPP1, "PP1 concentration (M)")
	cmd.Flags().Float64Var(&pp2a, "pp2a", 0, "PP2A concentration (M)")
	cmd.Flags().Float64Var(&rsk2, "rsk2", 0, "RSK2 concentration (M)")
	cmd.Flags().Float64SliceVar(&pulseTimes, "pulse", nil, "pulse start,end pairs in seconds")
	cmd.Flags().Float64Var(&decay, "decay", 0, "post-pulse relaxation rate (decaying drive)")
	cmd.Flags().IntVar(&pulseCount, "pulse-count", 0, "pulses in the random train (0 uses the drive default)")
	cmd.Flags().Float64Var(&pulseLen, "pulse-len", 0, "random train pulse length (s)")
	cmd.Flags().Float64Var(&pulseGap, "pulse-gap", 0, "random train gap between scheduled pulses (s)")
	cmd.Flags().Float64Var(&pulseKeep, "pulse-keep", 0, "random train chance a pulse keeps its slot")
	cmd.Flags().BoolVar(&adaptive, "adaptive", false, "adaptive stepping")
	cmd.Flags().Float64Var(&tolerance, "tol", 1e-9, "local error tolerance for adaptive stepping")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&paramsFile, "params", "", "rate constant overrides (yaml)")
}

// loadRunConfig resolves preset, config file and flags into one Config.
// Precedence from lowest to highest: defaults, preset, config file, flags.
func loadRunConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		cfg.Model = model
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("drive") {
		cfg.Drive = drive
	}
	if flags.Changed("total") {
		cfg.Total = total
	}
	if flags.Changed("pka") {
		cfg.Enzymes.PKA = pka
	}
	if flags.Changed("pkc") {
		cfg.Enzymes.PKC = pkc
	}
	if flags.Changed("pp1") {
		cfg.Enzymes.PP1 = pp1
	}
	if flags.Changed("pp2a") {
		cfg.Enzymes.PP2A = pp2a
	}
	if flags.Changed("rsk2") {
		cfg.Enzymes.RSK2 = rsk2
	}
	if flags.Changed("pulse") {
		cfg.Pulses.Intervals = pulseTimes
	}
	if flags.Changed("decay") {
		cfg.Pulses.Decay = decay
	}
	if flags.Changed("pulse-count") {
		cfg.Pulses.Count = pulseCount
	}
	if flags.Changed("pulse-len") {
		cfg.Pulses.Duration = pulseLen
	}
	if flags.Changed("pulse-gap") {
		cfg.Pulses.Pause = pulseGap
	}
	if flags.Changed("pulse-keep") {
		cfg.Pulses.PKeep = pulseKeep
	}
	if flags.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if flags.Changed("tol") {
		cfg.Tolerance = tolerance
	}
	if flags.Changed("params") {
		cfg.ParamsFile = paramsFile
	}
	if flags.Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}

	if cfg.Integrator == "" {
		cfg.Integrator = "rk4"
	}
	return cfg, cfg.Validate()
}

var enzymeNames = []string{"pka", "pkc", "pp1", "pp2a", "rsk2"}

// buildSystem constructs the model with enzyme levels and rate constant
// overrides applied. extra is merged last, for per-candidate fit values.
func buildSystem(cfg *config.Config, extra map[string]float64) (kinetics.System, error) {
	sys, err := models.New(cfg.Model)
	if err != nil {
		return nil, err
	}
	tunable, ok := sys.(kinetics.Configurable)
	if !ok {
		return nil, fmt.Errorf("model %s has no tunable parameters", cfg.Model)
	}

	levels, err := cfg.EnzymeLevels(sys.EnzymeDim())
	if err != nil {
		return nil, err
	}
	for i, level := range levels {
		if err := tunable.SetParam(enzymeNames[i], level); err != nil {
			return nil, err
		}
	}

	overrides, err := cfg.ParamOverrides()
	if err != nil {
		return nil, err
	}
	for name, v := range overrides {
		if err := tunable.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	for name, v := range extra {
		if err := tunable.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return sys, nil
}

// buildDrive maps the drive section of the config onto the drive factory.
// The run seed feeds the random pulse train.
func buildDrive(cfg *config.Config, dim int) (kinetics.Drive, error) {
	return drives.New(cfg.Drive, dim, drives.Config{
		Intervals: cfg.Pulses.Intervals,
		Decay:     cfg.Pulses.Decay,
		Seed:      cfg.Seed,
		Count:     cfg.Pulses.Count,
		PulseDur:  cfg.Pulses.Duration,
		PauseDur:  cfg.Pulses.Pause,
		PKeep:     cfg.Pulses.PKeep,
	})
}

// simConfig maps the run config onto simulator settings; adaptive runs get
// step bounds tied to the nominal dt.
func simConfig(cfg *config.Config) kinetics.Config {
	rc := kinetics.Config{
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Adaptive:  cfg.Adaptive,
		Tolerance: cfg.Tolerance,
	}
	if cfg.Adaptive {
		rc.MaxDt = 10 * cfg.Dt
		rc.MinDt = cfg.Dt / 1e6
	}
	return rc
}

// ensembleSystems builds one system per fitted parameter set file.
func ensembleSystems(cfg *config.Config, files []string) ([]kinetics.System, error) {
	systems := make([]kinetics.System, len(files))
	for i, pf := range files {
		memberCfg := *cfg
		memberCfg.ParamsFile = pf
		sys, err := buildSystem(&memberCfg, nil)
		if err != nil {
			return nil, fmt.Errorf("parameter set %s: %w", pf, err)
		}
		systems[i] = sys
	}
	return systems, nil
}

func buildSimulator(cfg *config.Config, sys kinetics.System) (*kinetics.Simulator, error) {
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	drv, err := buildDrive(cfg, sys.EnzymeDim())
	if err != nil {
		return nil, err
	}
	sim := kinetics.New(sys, integ, drv)
	sim.AddMetric(metrics.NewConservation(sys))
	sim.AddMetric(metrics.NewNegativity(0))
	sim.AddMetric(metrics.NewSettling(sys, 1e-6))
	return sim, nil
}

func speciesNames(sys kinetics.System) []string {
	if l, ok := sys.(kinetics.Labeled); ok {
		return l.SpeciesNames()
	}
	names := make([]string, sys.StateDim())
	for i := range names {
		names[i] = fmt.Sprintf("x%d", i)
	}
	return names
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}

	if len(ensembleFiles) > 0 {
		return runEnsemble(cfg)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sys, err := buildSystem(cfg, nil)
	if err != nil {
		return err
	}
	sim, err := buildSimulator(cfg, sys)
	if err != nil {
		return err
	}

	runCfg := simConfig(cfg)

	fmt.Printf("running %s simulation...\n", cfg.Model)
	start := time.Now()

	result, err := sim.Run(context.Background(), models.InitialState(sys.StateDim(), cfg.Total), runCfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Model, cfg.Dt, cfg.Duration, cfg.Total, cfg.Seed,
		cfg.Integrator, cfg.Drive, speciesNames(sys), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("moiety drift: %.3e\n", result.TotalDrift)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", name, val)
	}

	if fr, ok := sys.(kinetics.Fractioned); ok {
		final := fr.Fractions(result.Final())
		fmt.Println("\nfinal phospho fractions:")
		for i, name := range fr.FractionNames() {
			fmt.Printf("  %s: %.4f\n", name, final[i])
		}
	}

	return nil
}

// runEnsemble simulates the configured scenario once per fitted parameter
// set, concurrently, and reports the final phospho fractions as mean and SD
// over the family.
func runEnsemble(cfg *config.Config) error {
	systems, err := ensembleSystems(cfg, ensembleFiles)
	if err != nil {
		return err
	}
	drv, err := buildDrive(cfg, systems[0].EnzymeDim())
	if err != nil {
		return err
	}
	if _, err := integrators.New(cfg.Integrator); err != nil {
		return err
	}

	fr, ok := systems[0].(kinetics.Fractioned)
	if !ok {
		return fmt.Errorf("model %s does not report phospho fractions", cfg.Model)
	}

	ens := kinetics.NewEnsemble(systems, func() kinetics.Integrator {
		integ, _ := integrators.New(cfg.Integrator)
		return integ
	}, drv)

	fmt.Printf("running %s over %d parameter sets...\n", cfg.Model, len(systems))
	start := time.Now()

	results, err := ens.Run(context.Background(),
		models.InitialState(systems[0].StateDim(), cfg.Total), simConfig(cfg))
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRACTION\tMEAN\tSD")
	sample := make([]float64, len(results))
	for j, name := range fr.FractionNames() {
		for i, res := range results {
			sample[i] = systems[i].(kinetics.Fractioned).Fractions(res.Final())[j]
		}
		mean, sd := sample[0], 0.0
		if len(sample) > 1 {
			mean, sd = stat.MeanStdDev(sample, nil)
		}
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\n", name, mean, sd)
	}
	return w.Flush()
}

func runSteady(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}

	sys, err := buildSystem(cfg, nil)
	if err != nil {
		return err
	}
	sim, err := buildSimulator(cfg, sys)
	if err != nil {
		return err
	}

	steadyCfg := kinetics.SteadyConfig{
		Dt:       cfg.Dt,
		MaxTime:  maxTime,
		Residual: residual,
	}

	res, err := sim.RunToSteady(context.Background(), models.InitialState(sys.StateDim(), cfg.Total), steadyCfg)
	if err != nil {
		return err
	}

	fmt.Printf("converged at t=%.1fs (residual %.3e)\n\n", res.Time, res.Residual)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SPECIES\tCONCENTRATION (M)")
	for i, name := range speciesNames(sys) {
		fmt.Fprintf(w, "%s\t%.6e\n", name, res.State[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if fr, ok := sys.(kinetics.Fractioned); ok {
		f := fr.Fractions(res.State)
		fmt.Println("\nphospho fractions:")
		for i, name := range fr.FractionNames() {
			fmt.Printf("  %s: %.4f\n", name, f[i])
		}
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}

	valid := false
	for _, name := range enzymeNames {
		if scanEnzyme == name {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown enzyme %q (have %v)", scanEnzyme, enzymeNames)
	}

	base, err := buildSystem(cfg, nil)
	if err != nil {
		return err
	}
	drv, err := buildDrive(cfg, base.EnzymeDim())
	if err != nil {
		return err
	}
	if _, err := integrators.New(cfg.Integrator); err != nil {
		return err
	}

	doses, err := scan.Logspace(scanMin, scanMax, scanPoints)
	if err != nil {
		return err
	}

	if len(ensembleFiles) > 0 {
		return runScanEnsemble(cfg, drv, models.InitialState(base.StateDim(), cfg.Total), doses)
	}

	s := &scan.Scan{
		Build: func(dose float64) (kinetics.System, error) {
			return buildSystem(cfg, map[string]float64{scanEnzyme: dose})
		},
		Integrator: func() kinetics.Integrator {
			integ, _ := integrators.New(cfg.Integrator)
			return integ
		},
		Drive: drv,
		Steady: kinetics.SteadyConfig{
			Dt:       cfg.Dt,
			MaxTime:  maxTime,
			Residual: residual,
		},
		Initial: models.InitialState(base.StateDim(), cfg.Total),
	}

	fmt.Printf("scanning %s over %s from %.2e to %.2e M (%d points)...\n",
		cfg.Model, scanEnzyme, scanMin, scanMax, scanPoints)

	res, err := s.Run(context.Background(), doses)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := strings.ToUpper(scanEnzyme) + " (M)"
	names := res.FractionNames
	if fraction != "" {
		names = []string{fraction}
	}
	fmt.Fprintln(w, header+"\t"+strings.Join(names, "\t"))
	for _, name := range names {
		if _, err := res.Curve(name); err != nil {
			return err
		}
	}
	for i, p := range res.Points {
		row := fmt.Sprintf("%.3e", p.Dose)
		for _, name := range names {
			curve, _ := res.Curve(name)
			row += fmt.Sprintf("\t%.4f", curve[i])
		}
		fmt.Fprintln(w, row)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plotFile != "" {
		var series []export.Series
		for _, name := range names {
			curve, _ := res.Curve(name)
			series = append(series, export.Series{Name: name, X: res.Doses, Y: curve})
		}
		title := fmt.Sprintf("%s dose response (%s)", strings.ToUpper(scanEnzyme), cfg.Model)
		if err := export.DoseResponse(plotFile, title, strings.ToUpper(scanEnzyme)+" (M)", series); err != nil {
			return err
		}
		fmt.Printf("\nplot written to %s\n", plotFile)
	}
	return nil
}

// runScanEnsemble repeats the sweep once per fitted parameter set and
// aggregates one fraction curve to its per-dose mean and SD.
func runScanEnsemble(cfg *config.Config, drv kinetics.Drive, initial kinetics.State, doses []float64) error {
	name := fraction
	if name == "" {
		name = "0P"
	}

	fmt.Printf("scanning %s over %s with %d parameter sets...\n",
		cfg.Model, scanEnzyme, len(ensembleFiles))

	results := make([]*scan.Result, len(ensembleFiles))
	for i, pf := range ensembleFiles {
		memberCfg := *cfg
		memberCfg.ParamsFile = pf
		member := &scan.Scan{
			Build: func(dose float64) (kinetics.System, error) {
				return buildSystem(&memberCfg, map[string]float64{scanEnzyme: dose})
			},
			Integrator: func() kinetics.Integrator {
				integ, _ := integrators.New(cfg.Integrator)
				return integ
			},
			Drive: drv,
			Steady: kinetics.SteadyConfig{
				Dt:       cfg.Dt,
				MaxTime:  maxTime,
				Residual: residual,
			},
			Initial: initial,
		}
		res, err := member.Run(context.Background(), doses)
		if err != nil {
			return fmt.Errorf("parameter set %s: %w", pf, err)
		}
		results[i] = res
	}

	mean, sd, err := scan.EnsembleCurve(results, name)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(scanEnzyme)+" (M)\t"+name+" MEAN\tSD")
	for i, dose := range doses {
		fmt.Fprintf(w, "%.3e\t%.4f\t%.4f\n", dose, mean[i], sd[i])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if plotFile != "" {
		title := fmt.Sprintf("%s dose response, %d parameter sets (%s)",
			strings.ToUpper(scanEnzyme), len(results), cfg.Model)
		if err := export.DoseResponseBands(plotFile, title, strings.ToUpper(scanEnzyme)+" (M)", doses, mean, sd); err != nil {
			return err
		}
		fmt.Printf("\nplot written to %s\n", plotFile)
	}
	return nil
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if len(fitParams) == 0 {
		return fmt.Errorf("need at least one --param")
	}
	if len(fitStart) != len(fitParams) {
		return fmt.Errorf("%d --start values for %d parameters", len(fitStart), len(fitParams))
	}

	raw, err := dataset.Load(dataFile)
	if err != nil {
		return err
	}
	data := raw.MeanReplicates()

	base, err := buildSystem(cfg, nil)
	if err != nil {
		return err
	}
	drv, err := buildDrive(cfg, base.EnzymeDim())
	if err != nil {
		return err
	}
	if _, err := integrators.New(cfg.Integrator); err != nil {
		return err
	}

	obj := &fit.Objective{
		Build: func(params map[string]float64) (kinetics.System, error) {
			return buildSystem(cfg, params)
		},
		Integrator: func() kinetics.Integrator {
			integ, _ := integrators.New(cfg.Integrator)
			return integ
		},
		Drive:   drv,
		Config:  simConfig(cfg),
		Initial: models.InitialState(base.StateDim(), cfg.Total),
		Data:    data,
		Names:   fitParams,
	}

	start := make(map[string]float64, len(fitParams))
	for i, name := range fitParams {
		start[name] = fitStart[i]
	}

	ctx := context.Background()

	if gridLevels > 1 {
		ranges := make([][]float64, len(fitParams))
		for i, name := range fitParams {
			// two decades either side of the starting value
			lo, hi := start[name]/100, start[name]*100
			ranges[i], err = scan.Logspace(lo, hi, gridLevels)
			if err != nil {
				return err
			}
		}
		gs := fit.NewGridSearch(fitParams, ranges)
		fmt.Printf("grid search: %d levels per parameter...\n", gridLevels)
		best, ssr, _, err := gs.Search(ctx, obj)
		if err != nil {
			return err
		}
		if best != nil {
			fmt.Printf("grid best SSR %.6e at %v\n", ssr, best)
			start = best
		}
	}

	fmt.Println("refining with Nelder-Mead...")
	began := time.Now()
	res, err := fit.Minimize(ctx, obj, start, fit.Options{MaxEvals: maxEvals})
	if err != nil {
		return err
	}

	n := data.Len() * len(data.Order)
	mse, err := fit.MSE(res.SSR, n)
	if err != nil {
		return err
	}

	fmt.Printf("done in %v (%d evaluations, %s)\n\n", time.Since(began), res.Evals, res.Status)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARAMETER\tVALUE")
	for _, name := range fitParams {
		fmt.Fprintf(w, "%s\t%.6e\n", name, res.Params[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nSSR: %.6e\nMSE: %.6e\n", res.SSR, mse)
	if aic, err := fit.AICc(res.SSR, len(fitParams), n); err == nil {
		fmt.Printf("AICc: %.4f\n", aic)
	}

	if outFile != "" {
		out, err := yaml.Marshal(res.Params)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outFile, out, 0644); err != nil {
			return err
		}
		fmt.Printf("parameters written to %s\n", outFile)
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tDRIVE\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fs\t%.2fs\t%s\t%s\t%.2e\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Drive,
			run.TotalDrift,
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

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("model: %s\n", meta.Model)
	fmt.Printf("samples: %d\n\n", len(states))

	for varIdx := 0; varIdx < len(states[0]); varIdx++ {
		data := make([]float64, len(states))
		for i := range states {
			data[i] = states[i][varIdx]
		}

		caption := fmt.Sprintf("x%d (M)", varIdx)
		if varIdx < len(meta.Species) {
			caption = meta.Species[varIdx] + " (M)"
		}

		fmt.Println(export.ASCII(caption, data, 10))
		fmt.Println()
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for i := range states[0] {
		if i < len(meta.Species) {
			header = append(header, meta.Species[i])
		} else {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'g', -1, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
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
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	result := &kinetics.Result{
		States:     make([]kinetics.State, len(states)),
		Times:      times,
		Metrics:    meta.Metrics,
		TotalDrift: meta.TotalDrift,
		StepsTaken: meta.Steps,
	}
	for i, s := range states {
		result.States[i] = s
	}

	return storage.ExportJSONStdout(meta.Model, meta.Integrator, meta.Drive,
		meta.Dt, meta.Duration, meta.Total, meta.Species, result)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	model := args[0]
	names := args[1:]

	cfg := config.DefaultConfig()
	cfg.Model = model
	cfg.Dt = dt
	cfg.Duration = duration

	fmt.Printf("comparing integrators for %s (dt=%.2f, duration=%.0fs)\n\n", model, dt, duration)
	fmt.Printf("%-8s  %-12s  %-12s  %-10s\n", "integ", "final_0P", "drift", "time_ms")
	fmt.Println(strings.Repeat("-", 48))

	for _, name := range names {
		sys, err := buildSystem(cfg, nil)
		if err != nil {
			return err
		}
		integ, err := integrators.New(name)
		if err != nil {
			fmt.Printf("%-8s  error: %v\n", name, err)
			continue
		}

		sim := kinetics.New(sys, integ, drives.NewConstant(sys.EnzymeDim()))
		runCfg := kinetics.Config{Dt: dt, Duration: duration}
		if name == "rk45" {
			runCfg.Adaptive = true
			runCfg.Tolerance = 1e-9
			runCfg.MaxDt = 10 * dt
		}

		start := time.Now()
		result, err := sim.Run(context.Background(), models.InitialState(sys.StateDim(), cfg.Total), runCfg)
		elapsed := time.Since(start)

		if err != nil {
			fmt.Printf("%-8s  error: %v\n", name, err)
			continue
		}

		final0P := 0.0
		if fr, ok := sys.(kinetics.Fractioned); ok {
			final0P = fr.Fractions(result.Final())[0]
		}

		fmt.Printf("%-8s  %12.6f  %12.2e  %10.2f\n",
			name, final0P, result.TotalDrift, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func benchModel(cmd *cobra.Command, args []string) error {
	model := args[0]

	cfg := config.DefaultConfig()
	cfg.Model = model

	durations := []float64{600, 3600, 7200}
	dts := []float64{0.1, 1.0, 10.0}

	fmt.Printf("benchmarking %s\n\n", model)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			sys, err := buildSystem(cfg, nil)
			if err != nil {
				return err
			}
			sim := kinetics.New(sys, integrators.NewRK4(), drives.NewConstant(sys.EnzymeDim()))

			start := time.Now()
			result, err := sim.Run(context.Background(),
				models.InitialState(sys.StateDim(), cfg.Total),
				kinetics.Config{Dt: step, Duration: dur})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := result.StepsTaken
			stepsPerSec := float64(steps) / elapsed.Seconds()

			fmt.Fprintf(w, "%.0fs\t%.1fs\t%d\t%v\t%.0f\n",
				dur, step, steps, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}
