package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/corosph/internal/config"
	"github.com/san-kum/corosph/internal/experiment"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	young        float64
	poisson      float64
	nonlinear    bool
	dt           float64
	duration     float64
	integrator   string
	backend      string
	workers      int
	reorderEvery int

	series     []string
	format     string
	outFile    string
	cpuProfile string
	substeps   int
	axes       []string
	metricName string
	maximize   bool
	jobs       int
)

// main registers the corosph commands and runs the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "corosph",
		Short:         "corotational SPH elasticity lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".corosph", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	sceneFlags(runCmd)

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [integrator1] [integrator2] ...",
		Short: "run a scene with several integrators concurrently",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	sceneFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot recorded series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&series, "series", []string{"kinetic_energy", "strain_energy", "tip_y"}, "series to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json, csv or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "json, csv or svg")
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics and dominant frequency of recorded series",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringSliceVar(&series, "series", []string{"tip_y", "kinetic_energy", "strain_energy", "max_stress"}, "series to analyze")

	benchCmd := &cobra.Command{
		Use:   "bench [scene]",
		Short: "measure solver throughput per backend",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchScene,
	}
	sceneFlags(benchCmd)
	benchCmd.Flags().StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile to this directory")

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	sceneFlags(liveCmd)
	liveCmd.Flags().IntVar(&substeps, "substeps", 20, "solver steps per frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scene]",
		Short: "run a parameter grid and rank the runs by a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepScene,
	}
	sceneFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&axes, "axis", nil, "grid axis as name=v1,v2,... (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "tip_displacement", "metric to rank by")
	sweepCmd.Flags().BoolVar(&maximize, "max", false, "rank by the largest value")
	sweepCmd.Flags().IntVarP(&jobs, "jobs", "j", 2, "runs in flight")

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list scenes or the presets of one scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Printf("shapes: %v\n", experiment.NewRegistry().ListShapes())
				for _, s := range config.Scenes() {
					fmt.Printf("%s: %v\n", s, config.ListPresets(s))
				}
				return nil
			}
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, compareCmd, listCmd, plotCmd, exportCmd, analyzeCmd, benchCmd, liveCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func sceneFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&configFile, "config", "c", "", "config file path (yaml)")
	f.StringVarP(&preset, "preset", "p", "", "scene preset")
	f.Float64Var(&young, "young", config.DefaultYoung, "Young's modulus (Pa)")
	f.Float64Var(&poisson, "poisson", config.DefaultPoisson, "Poisson ratio")
	f.BoolVar(&nonlinear, "nonlinear", false, "use Green strain")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration")
	f.StringVar(&integrator, "integrator", "symplectic", "integrator")
	f.StringVar(&backend, "backend", "cpu", "compute backend (cpu, serial)")
	f.IntVar(&workers, "workers", 0, "cpu backend workers (0 = all CPUs)")
	f.IntVar(&reorderEvery, "reorder", 0, "reorder particles every n steps")
}

// resolveConfig builds the scene config: a preset of the named scene or a
// config file, then any flags set on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	var cfg *config.Config
	name := "custom"
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if len(args) > 0 {
			name = args[0]
		}
	case len(args) > 0:
		name = args[0]
		presets := config.ListPresets(name)
		if len(presets) == 0 {
			return nil, "", fmt.Errorf("unknown scene: %s (available: %v)", name, config.Scenes())
		}
		p := preset
		if p == "" {
			p = presets[0]
		}
		cfg = config.GetPreset(name, p)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", p, presets)
		}
	default:
		cfg = config.DefaultConfig()
	}

	f := cmd.Flags()
	if f.Changed("young") {
		cfg.Material.Young = young
	}
	if f.Changed("poisson") {
		cfg.Material.Poisson = poisson
	}
	if f.Changed("nonlinear") {
		cfg.Material.Nonlinear = nonlinear
	}
	if f.Changed("dt") {
		cfg.Run.Dt = dt
	}
	if f.Changed("time") {
		cfg.Run.Duration = duration
	}
	if f.Changed("integrator") {
		cfg.Run.Integrator = integrator
	}
	if f.Changed("backend") {
		cfg.Solver.Backend = backend
	}
	if f.Changed("workers") {
		cfg.Solver.Workers = workers
	}
	if f.Changed("reorder") {
		cfg.Run.ReorderEvery = reorderEvery
	}
	return cfg, name, cfg.Validate()
}
