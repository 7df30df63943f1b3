package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/san-kum/nbody/internal/analysis"
	"github.com/san-kum/nbody/internal/config"
	"github.com/san-kum/nbody/internal/dynamo"
	"github.com/san-kum/nbody/internal/export"
	"github.com/san-kum/nbody/internal/metrics"
	"github.com/san-kum/nbody/internal/physics"
	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/storage"
	"github.com/san-kum/nbody/internal/viz"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

const rootLong = `Integrates the sun and the four outer planets with a fixed time step and
prints the total energy before and after. Flags can also be set through
NBODY_* environment variables.`

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "nbody [steps]",
		Short:        "five-body jovian planet integrator",
		Long:         rootLong,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runSimulation,
	}

	rootCmd.PersistentFlags().String("data", config.DefaultDataDir, "data directory for saved runs")
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run [steps]",
		Short: "run the integrator and report energy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure integration throughput",
		Args:  cobra.NoArgs,
		RunE:  benchmark,
	}
	benchCmd.Flags().IntSlice("counts", []int{1_000, 10_000, 100_000, 1_000_000}, "step counts to time")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the energy trace of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().String("body", "", "also plot this body's x coordinate")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "energy statistics and orbital period of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().String("body", "jupiter", "body whose orbital period is estimated")

	orbitsCmd := &cobra.Command{
		Use:   "orbits [run_id]",
		Short: "draw the x-y paths of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  orbitPlot,
	}
	orbitsCmd.Flags().Int("width", 72, "plot width")
	orbitsCmd.Flags().Int("height", 28, "plot height")
	orbitsCmd.Flags().String("svg", "", "also write the paths to this SVG file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch the planets move in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	liveCmd.Flags().String("reference", config.DefaultReference, "body that absorbs the momentum offset")
	liveCmd.Flags().Int("speed", 20, "integration steps per frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, benchCmd, listCmd, plotCmd, exportCmd, analyzeCmd, orbitsCmd, liveCmd, presetsCmd)
	return rootCmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "start from a preset (see 'presets')")
	cmd.Flags().String("config", "", "config file path (yaml)")
	cmd.Flags().Int("sample-every", 0, "record a trace sample every n steps (0: endpoints only)")
	cmd.Flags().String("reference", config.DefaultReference, "body that absorbs the momentum offset")
	cmd.Flags().Bool("validate", false, "fail the run if any body becomes non-finite")
	cmd.Flags().Bool("save", false, "save the run under the data directory")
	cmd.Flags().Bool("summary", false, "print a styled summary after the report")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(v, args)
	if err != nil {
		return err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s := sim.New()
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	result, err := s.Run(ctx, simCfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := sim.WriteReport(out, result); err != nil {
		return err
	}

	var runID string
	if v.GetBool("save") {
		st := storage.New(cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		if runID, err = st.Save(simCfg, result); err != nil {
			return err
		}
	}

	if v.GetBool("summary") {
		printSummary(out, cfg, result, runID)
	} else if runID != "" {
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	return nil
}

func printSummary(w io.Writer, cfg *config.Config, result *sim.Result, runID string) {
	drift := result.Drift()
	fmt.Fprintln(w)
	fmt.Fprintln(w, viz.Title.Render("SUMMARY"))
	fmt.Fprintln(w, viz.Row("Steps", fmt.Sprintf("%d", result.StepsTaken)))
	fmt.Fprintln(w, viz.Row("Years", fmt.Sprintf("%.2f", float64(result.StepsTaken)*physics.Dt)))
	fmt.Fprintln(w, viz.Row("Reference", cfg.Reference))
	fmt.Fprintln(w, viz.MetricLabel.Render("Drift")+viz.DriftStyle(drift).Render(fmt.Sprintf("%.3e", drift)))
	fmt.Fprintln(w, viz.Row("Elapsed", result.Elapsed.Round(time.Microsecond).String()))
	fmt.Fprintln(w, viz.Row("Steps/sec", fmt.Sprintf("%.0f", result.StepsPerSecond())))
	if runID != "" {
		fmt.Fprintln(w, viz.Row("Run", runID))
	}
	if len(result.Metrics) > 0 {
		fmt.Fprintln(w, viz.Separator(36))
		names := make([]string, 0, len(result.Metrics))
		for name := range result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintln(w, viz.Row(name, fmt.Sprintf("%.6g", result.Metrics[name])))
		}
	}
}

func benchmark(cmd *cobra.Command, args []string) error {
	counts, err := cmd.Flags().GetIntSlice("counts")
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "benchmarking five-body advance")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEPS\tTIME\tSTEPS/SEC\tDRIFT")
	for _, n := range counts {
		cfg := dynamo.DefaultConfig()
		cfg.Steps = n

		result, err := sim.New().Run(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		p.Fprintf(w, "%d\t%v\t%.0f\t%.3e\n",
			result.StepsTaken, result.Elapsed.Round(time.Microsecond), result.StepsPerSecond(), result.Drift())
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	dir, err := dataDir(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(dir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTEPS\tREF\tENERGY BEFORE\tENERGY AFTER\tDRIFT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%.9f\t%.9f\t%.3e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Reference,
			run.EnergyBefore,
			run.EnergyAfter,
			run.Drift,
		)
	}
	return w.Flush()
}

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []dynamo.Sample, error) {
	dir, err := dataDir(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(dir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, trace, nil
}

func bodyIndex(name string) (int, error) {
	idx, ok := physics.IndexOf(strings.ToLower(name))
	if !ok {
		return 0, fmt.Errorf("%w: unknown body %q (available: %v)", dynamo.ErrInvalidConfig, name, physics.Names)
	}
	return idx, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "samples: %d\n\n", len(trace))

	graph := asciigraph.Plot(analysis.EnergySeries(trace),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Precision(9),
		asciigraph.Caption("total energy"),
	)
	fmt.Fprintln(out, graph)

	if name, _ := cmd.Flags().GetString("body"); name != "" {
		idx, err := bodyIndex(name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(analysis.CoordinateSeries(trace, idx, 0),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(physics.Names[idx]+" x (AU)"),
		)
		fmt.Fprintln(out)
		fmt.Fprintln(out, graph)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	dir, err := dataDir(cmd)
	if err != nil {
		return err
	}
	return storage.New(dir).ExportJSON(cmd.OutOrStdout(), args[0])
}

// uniformTrace drops a trailing sample that was recorded off the sampling
// grid because the step count was not a multiple of the interval.
func uniformTrace(trace []dynamo.Sample, every int) []dynamo.Sample {
	n := len(trace)
	if n > 2 && trace[n-1].Step-trace[n-2].Step != every {
		return trace[:n-1]
	}
	return trace
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("body")
	idx, err := bodyIndex(name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "analysis for run: %s\n", meta.ID)
	fmt.Fprintf(out, "steps: %d, samples: %d\n\n", meta.Steps, len(trace))

	sum := analysis.Summarize(analysis.EnergySeries(trace))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ENERGY\t")
	fmt.Fprintf(w, "  mean\t%.9f\n", sum.Mean)
	fmt.Fprintf(w, "  stddev\t%.3e\n", sum.StdDev)
	fmt.Fprintf(w, "  min\t%.9f\n", sum.Min)
	fmt.Fprintf(w, "  max\t%.9f\n", sum.Max)
	fmt.Fprintf(w, "  max drift\t%.3e\n", sum.MaxDrift)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if meta.SampleEvery <= 0 {
		fmt.Fprintln(out, "period: n/a (run was saved without --sample-every)")
		return nil
	}
	spacing := float64(meta.SampleEvery) * meta.Dt
	xs := analysis.CoordinateSeries(uniformTrace(trace, meta.SampleEvery), idx, 0)
	period, err := analysis.DominantPeriod(xs, spacing)
	if errors.Is(err, dynamo.ErrNoData) {
		fmt.Fprintf(out, "period: n/a (%v)\n", err)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s orbital period: %.2f years (%.0f days)\n", physics.Names[idx], period, period*physics.DaysPerYear)
	return nil
}

func orbitPlot(cmd *cobra.Command, args []string) error {
	meta, trace, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "orbits for run: %s (%d samples)\n\n", meta.ID, len(trace))
	portrait := analysis.NewOrbitPortrait(trace)
	fmt.Fprint(out, portrait.ASCII(width, height))
	fmt.Fprintln(out, "\nlegend: ☉ sun, j jupiter, s saturn, u uranus, n neptune, · path")

	path, _ := cmd.Flags().GetString("svg")
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.OrbitsSVG(f, portrait, 800, 800); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(out, "svg written to %s\n", path)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	v, err := newViper(cmd)
	if err != nil {
		return err
	}
	ref, err := bodyIndex(v.GetString("reference"))
	if err != nil {
		return err
	}

	sys := physics.Jovian()
	sys.OffsetMomentumAt(ref)

	p := tea.NewProgram(viz.NewModel(sys, physics.Dt, v.GetInt("speed")), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tSAMPLE EVERY\tREFERENCE\tVALIDATE")
	p := message.NewPrinter(language.English)
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		p.Fprintf(w, "%s\t%d\t%d\t%s\t%t\n", name, cfg.Steps, cfg.SampleEvery, cfg.Reference, cfg.ValidateState)
	}
	return w.Flush()
}
