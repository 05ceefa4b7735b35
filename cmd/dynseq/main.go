package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/san-kum/dynseq/internal/analysis"
	"github.com/san-kum/dynseq/internal/config"
	"github.com/san-kum/dynseq/internal/logging"
	"github.com/san-kum/dynseq/internal/script"
	"github.com/san-kum/dynseq/internal/seq"
	"github.com/san-kum/dynseq/internal/storage"
	"github.com/san-kum/dynseq/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string
	runAll     bool
	noSave     bool
	appends    int
	limit      int
	initialCap int
	outPath    string
)

// main registers the dynseq commands and flags and executes the root command.
// It exits the process with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "dynseq",
		Short:         "dynamic sequence lab",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml) or preset name")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, off)")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scenario and save its trace",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "run a built-in scenario")
	runCmd.Flags().BoolVar(&runAll, "all", false, "run every built-in scenario")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the trace")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list built-in scenarios",
		RunE:  listScenarios,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the step trace of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot size and capacity of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run steps to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	growthCmd := &cobra.Command{
		Use:   "growth",
		Short: "plot capacity growth over appends",
		RunE:  plotGrowth,
	}
	growthCmd.Flags().IntVar(&appends, "n", config.DefaultGrowthN, "number of appends")
	growthCmd.Flags().IntVar(&limit, "limit", 0, "capacity limit")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark appends with and without reserve",
		RunE:  benchAppends,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive buffer viewer",
		RunE:  runLive,
	}
	liveCmd.Flags().IntVar(&initialCap, "cap", 0, "initial capacity")
	liveCmd.Flags().IntVar(&limit, "limit", 0, "capacity limit")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list config presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	rootCmd.AddCommand(runCmd, scenariosCmd, listCmd, showCmd, plotCmd, exportJSONCmd, exportCSVCmd, growthCmd, benchCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the config file or preset, then applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		if p := config.GetPreset(configFile); p != nil {
			cfg = p
		} else {
			loaded, err := config.Load(configFile)
			if err != nil {
				return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
		}
	}
	if cmd.Flags().Changed("data") {
		cfg.DataDir = dataDir
	}
	if cmd.Flags().Changed("n") {
		cfg.Growth.Appends = appends
	}
	if cmd.Flags().Changed("limit") {
		cfg.Vector.Limit = limit
	}
	if cmd.Flags().Changed("cap") {
		cfg.Vector.InitialCapacity = initialCap
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), err
	}

	lc := logging.DefaultConfig()
	if lvl, ok := logging.ParseLevel(cfg.LogLevel); ok {
		lc.Level = lvl
	}
	flagLevel := ""
	if cmd.Flags().Changed("log-level") {
		flagLevel = logLevel
	}
	log := logging.New(lc, flagLevel)
	return cfg, log, nil
}

func vectorOptions(cfg *config.Config, log zerolog.Logger) []seq.Option[int] {
	return []seq.Option[int]{
		seq.WithLimit[int](cfg.Vector.Limit),
		seq.WithLogger[int](log),
	}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var scenarios []*script.Scenario
	switch {
	case runAll:
		for _, name := range script.ListBuiltin() {
			scenarios = append(scenarios, script.GetBuiltin(name))
		}
	case preset != "":
		sc := script.GetBuiltin(preset)
		if sc == nil {
			return fmt.Errorf("unknown scenario: %s (available: %v)", preset, script.ListBuiltin())
		}
		scenarios = append(scenarios, sc)
	case len(args) == 1:
		sc, err := script.LoadScenario(args[0])
		if err != nil {
			return err
		}
		scenarios = append(scenarios, sc)
	default:
		return fmt.Errorf("give a scenario file, --preset or --all")
	}

	start := time.Now()
	traces, runErr := script.RunAll(context.Background(), scenarios, log)
	elapsed := time.Since(start)

	st := storage.New(cfg.DataDir)
	if !noSave {
		if err := st.Init(); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTEPS\tSIZE\tCAP\tREALLOCS\tRUN ID")
	for _, trace := range traces {
		if trace == nil {
			continue
		}
		runID := "-"
		if !noSave {
			id, err := st.Save(trace)
			if err != nil {
				return err
			}
			runID = id
		}
		final := trace.Final()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
			trace.Scenario, len(trace.Snapshots), final.Size, final.Capacity, trace.Stats.Reallocations, runID)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", elapsed)

	return runErr
}

func listScenarios(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tDESCRIPTION")
	for _, name := range script.ListBuiltin() {
		sc := script.GetBuiltin(name)
		fmt.Fprintf(w, "%s\t%d\t%s\n", sc.Name, len(sc.Steps), sc.Description)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSTEPS\tFAILED\tSIZE\tCAP\tREALLOCS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Steps,
			run.Failures,
			run.FinalSize,
			run.FinalCapacity,
			run.Reallocations,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	snaps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("reallocations: %d, transferred: %d, peak capacity: %d\n\n",
		meta.Reallocations, meta.Transferred, meta.PeakCapacity)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tOP\tSIZE\tCAP\tVALUES\tERROR")
	for _, s := range snaps {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%v\t%s\n", s.Step, s.Op, s.Size, s.Capacity, s.Values, s.Err)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	snaps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	sizes := make([]float64, len(snaps))
	caps := make([]float64, len(snaps))
	for i, s := range snaps {
		sizes[i] = float64(s.Size)
		caps[i] = float64(s.Capacity)
	}

	graph := asciigraph.PlotMany([][]float64{caps, sizes},
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("capacity (blue) and size (green) per step"),
	)
	fmt.Println(graph)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	if outPath != "" {
		return st.ExportJSON(args[0], outPath)
	}
	return st.WriteJSON(args[0], os.Stdout)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	snaps, err := st.LoadSteps(args[0])
	if err != nil {
		return err
	}

	if len(snaps) == 0 {
		return fmt.Errorf("no data to export")
	}

	return writeStepsCSV(os.Stdout, snaps)
}

// writeStepsCSV writes one row per step, including reserve slack.
func writeStepsCSV(out io.Writer, snaps []script.Snapshot) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"step", "op", "size", "capacity", "slack", "error"}); err != nil {
		return err
	}
	for _, s := range snaps {
		row := []string{
			strconv.Itoa(s.Step),
			s.Op,
			strconv.Itoa(s.Size),
			strconv.Itoa(s.Capacity),
			strconv.Itoa(s.Capacity - s.Size),
			s.Err,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func plotGrowth(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	p, err := analysis.NewProfile(cfg.Growth.Appends, cfg.Vector.InitialCapacity, vectorOptions(cfg, log))
	if p == nil {
		return err
	}
	if err != nil {
		log.Warn().Err(err).Int("appends", p.Appends).Msg("profile stopped early")
	}
	if p.Appends == 0 {
		return fmt.Errorf("no appends recorded")
	}

	graph := asciigraph.Plot(p.Series(),
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("capacity over %d appends", p.Appends)),
	)
	fmt.Println(graph)
	fmt.Println()

	points := make([]string, len(p.Reallocations))
	for i, at := range p.Reallocations {
		points[i] = strconv.Itoa(at + 1)
	}
	fmt.Printf("reallocations: %d (at appends %s)\n", p.Stats.Reallocations, strings.Join(points, ", "))
	fmt.Printf("transferred: %d elements, amortized %.3f per append\n", p.Stats.Transferred, p.Amortized())
	fmt.Printf("doubling: %v\n", p.Doubling())
	return nil
}

func benchAppends(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking appends (%d rounds)\n\n", cfg.Bench.Rounds)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "N\tMODE\tREALLOCS\tTIME\tAPPENDS/SEC")

	for _, n := range cfg.Bench.Sizes {
		for _, reserved := range []bool{false, true} {
			var total time.Duration
			var stats seq.Stats
			for r := 0; r < cfg.Bench.Rounds; r++ {
				v := seq.New[int]()
				start := time.Now()
				if reserved {
					if err := v.Reserve(n); err != nil {
						return err
					}
				}
				for i := 0; i < n; i++ {
					if err := v.Append(i); err != nil {
						return err
					}
				}
				total += time.Since(start)
				stats = v.Stats()
			}

			mode := "grow"
			if reserved {
				mode = "reserve"
			}
			avg := total / time.Duration(cfg.Bench.Rounds)
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%.0f\n", n, mode, stats.Reallocations, avg, float64(n)/avg.Seconds())
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The viewer owns the terminal; keep log output off it.
	v, err := seq.NewWithCapacity(cfg.Vector.InitialCapacity, vectorOptions(cfg, zerolog.Nop())...)
	if err != nil {
		return err
	}
	return viz.Run(v, cfg.Viewer.Width)
}
