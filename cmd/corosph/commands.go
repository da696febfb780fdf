package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/profile"
	"github.com/san-kum/corosph/internal/analysis"
	"github.com/san-kum/corosph/internal/experiment"
	"github.com/san-kum/corosph/internal/export"
	"github.com/san-kum/corosph/internal/optim"
	"github.com/san-kum/corosph/internal/sim"
	"github.com/san-kum/corosph/internal/storage"
	"github.com/san-kum/corosph/internal/viz"
	"github.com/spf13/cobra"
)

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func printMetrics(w io.Writer, m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, m[name])
	}
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, slog.Default())
	if err != nil {
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("running %s (%d particles, %s)...\n", name, exp.Body().Len(), cfg.Run.Integrator)
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}

	runID, err := st.Save(name, cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("reorders: %d\n", result.Reorders)
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, result.Metrics)
	return runErr
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, _, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	jobs := make([]sim.Job, 0, len(args)-1)
	for _, name := range args[1:] {
		cfg := base.Clone()
		cfg.Run.Integrator = name
		exp, err := experiment.New(cfg, slog.Default())
		if err != nil {
			return err
		}
		jobs = append(jobs, sim.Job{
			Name:   name,
			Build:  func() (*sim.Simulator, error) { return exp.Simulator(), nil },
			Config: exp.SimConfig(),
		})
	}

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("comparing integrators for %s (dt=%g, duration=%gs)\n\n", args[0], base.Run.Dt, base.Run.Duration)
	results, err := sim.RunEnsemble(ctx, jobs, 0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tSTEPS\tKINETIC\tSTRAIN\tTIP\tTIME")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%d\t%.4g\t%.4g\t%.4g\t%v\n",
			jobs[i].Name,
			res.StepsTaken,
			res.Metrics["kinetic_energy"],
			res.Metrics["strain_energy"],
			res.Metrics["tip_displacement"],
			res.Elapsed.Round(time.Millisecond),
		)
	}
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
	fmt.Fprintln(w, "ID\tSHAPE\tPARTICLES\tTIME\tDURATION\tDT\tINTEG\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s/%dd\t%d\t%s\t%gs\t%gs\t%s\t%d\n",
			run.ID,
			run.Shape,
			run.Dim,
			run.Particles,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Steps,
		)
	}
	return w.Flush()
}

func seriesOf(frames []sim.Frame, name string) ([]float64, error) {
	data := sim.Series(frames, name)
	if data == nil {
		return nil, fmt.Errorf("unknown series: %s (available: %v)", name, sim.SeriesNames())
	}
	return data, nil
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
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s, %d particles\n", meta.Name, meta.Particles)
	fmt.Printf("samples: %d\n\n", len(frames))

	for _, name := range series {
		data, err := seriesOf(frames, name)
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(strings.ReplaceAll(name, "_", " ")+" vs time"),
		))
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "json":
		return st.ExportJSON(w, runID)
	case "csv":
		return st.ExportCSV(w, runID)
	case "svg":
		particles, err := st.LoadParticles(runID)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, export.ParticlesToSVG(particles, 800, 600))
		return err
	}
	return fmt.Errorf("unknown format: %s (json, csv, svg)", format)
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
	if len(frames) < 2 {
		return fmt.Errorf("no data")
	}
	interval := frames[1].Time - frames[0].Time

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("samples: %d every %gs\n\n", len(frames), interval)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tMEAN\tSTD\tMIN\tMAX\tMEDIAN\tPEAKS\tFREQ")
	var first []float64
	for _, name := range series {
		data, err := seriesOf(frames, name)
		if err != nil {
			return err
		}
		if first == nil {
			first = data
		}
		s := analysis.Summarize(data)
		freq := "-"
		if f, err := analysis.DominantFrequency(data, interval); err == nil {
			freq = fmt.Sprintf("%.3f Hz", f)
		}
		fmt.Fprintf(w, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%d\t%s\n", name, s.Mean, s.StdDev, s.Min, s.Max, s.Median, len(analysis.Peaks(data)), freq)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if ps := analysis.PowerSpectrum(first); len(ps) > 2 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[1:],
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", series[0])),
		))
	}
	return nil
}

func benchScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("time") {
		cfg.Run.Duration = 200 * cfg.Run.Dt
	}
	if cpuProfile != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.Quiet).Stop()
	}

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	fmt.Printf("benchmarking %s\n\n", name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tWORKERS\tPARTICLES\tSTEPS\tTIME\tSTEPS/SEC")

	for _, b := range []string{"serial", "cpu"} {
		c := cfg.Clone()
		c.Solver.Backend = b
		exp, err := experiment.New(c, quiet)
		if err != nil {
			return err
		}
		result, err := exp.Run(context.Background())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%.0f\n",
			b,
			exp.Solver().Backend().Workers(),
			exp.Body().Len(),
			result.StepsTaken,
			result.Elapsed.Round(time.Millisecond),
			float64(result.StepsTaken)/result.Elapsed.Seconds(),
		)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	// slog output would tear the alternate screen.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	build := func() (*sim.Simulator, sim.Config, error) {
		exp, err := experiment.New(cfg.Clone(), quiet)
		if err != nil {
			return nil, sim.Config{}, err
		}
		return exp.Simulator(), exp.SimConfig(), nil
	}

	m, err := viz.NewModel(name, build, substeps)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func sweepScene(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(axes) == 0 {
		return fmt.Errorf("no --axis given (parameters: %v)", optim.ParamNames())
	}

	names := make([]string, 0, len(axes))
	ranges := make([][]float64, 0, len(axes))
	for _, a := range axes {
		n, values, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		names = append(names, n)
		ranges = append(ranges, values)
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}
	g.SetLogger(slog.Default())

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("sweeping %s over %d points\n\n", name, len(g.Points()))
	points, err := g.Run(ctx, cfg, jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName)+"\tSTATUS")
	for _, p := range points {
		var row []string
		for _, n := range names {
			row = append(row, fmt.Sprintf("%g", p.Params[n]))
		}
		status := "ok"
		if p.Err != nil {
			status = p.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\n", strings.Join(row, "\t"), p.Metrics[metricName], status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := optim.Best(points, metricName, maximize); ok {
		fmt.Printf("\nbest %s = %.6g at %v\n", metricName, best.Metrics[metricName], best.Params)
	}
	return nil
}
