package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/vortshed/internal/analysis"
	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/config"
	"github.com/san-kum/vortshed/internal/export"
	"github.com/san-kum/vortshed/internal/kutta"
	"github.com/san-kum/vortshed/internal/metrics"
	"github.com/san-kum/vortshed/internal/server"
	"github.com/san-kum/vortshed/internal/sim"
	"github.com/san-kum/vortshed/internal/storage"
	"github.com/san-kum/vortshed/internal/tui"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	delta      float64
	incidence  float64
	scheme     string
	sample     float64
	// serve
	addr string
	// svg output
	outFile   string
	svgWidth  int
	svgHeight int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vortshed",
		Short: "vortex shedding simulation via conformal mapping",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".vortshed", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a shedding simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().Float64Var(&delta, "delta", 0, "blob regularization radius override")
	runCmd.Flags().Float64Var(&incidence, "angle", math.NaN(), "incidence in degrees override")
	runCmd.Flags().StringVar(&scheme, "scheme", "", "time scheme override (euler, midpoint)")
	runCmd.Flags().Float64Var(&sample, "sample", 0, "sample interval override")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot impulse and circulation history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "force and shedding frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "dump run history as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "dump run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	wakeCmd := &cobra.Command{
		Use:   "wake [run_id]",
		Short: "render the final wake to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  wakeSVG,
	}
	wakeCmd.Flags().StringVar(&outFile, "out", "wake.svg", "output file")
	wakeCmd.Flags().IntVar(&svgWidth, "width", 1000, "image width")
	wakeCmd.Flags().IntVar(&svgHeight, "height", 700, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.PresetNames() {
				fmt.Println(name)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	serveCmd := &cobra.Command{
		Use:   "serve [preset]",
		Short: "stream runs over websockets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serveRuns,
	}
	serveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd,
		exportJSONCmd, wakeCmd, presetsCmd, liveCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset name, config file, and flag overrides, in
// that order of increasing precedence.
func loadConfig(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	name := "impulsive20"
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return "", nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		name = "custom"
	} else {
		preset, err := config.Preset(name)
		if err != nil {
			return "", nil, err
		}
		cfg = preset
	}

	if cmd.Flags().Changed("dt") {
		cfg.Numerics.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Numerics.Duration = duration
	}
	if cmd.Flags().Changed("delta") {
		cfg.Numerics.Delta = delta
	}
	if cmd.Flags().Changed("angle") {
		cfg.Shape.Incidence = incidence
	}
	if cmd.Flags().Changed("scheme") {
		cfg.Numerics.Scheme = scheme
	}
	if cmd.Flags().Changed("sample") {
		cfg.Numerics.SampleInterval = sample
	}
	return name, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	b, err := cfg.BuildBody()
	if err != nil {
		return err
	}
	edges := cfg.BuildEdges()
	simCfg := cfg.BuildSim()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	marcher := sim.New(b, edges)
	marcher.AddMetric(metrics.NewCirculationDrift())
	marcher.AddMetric(metrics.NewImpulseJump())
	targets := make([]float64, len(edges))
	for i, e := range edges {
		targets[i] = e.Suction
	}
	marcher.AddMetric(metrics.NewEdgeResidual(targets))

	fmt.Printf("running %s...\n", name)
	start := time.Now()

	result, err := marcher.Run(context.Background(), simCfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(name, simCfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d  blobs: %d\n", result.StepsTaken, result.FinalWakeSize())
	fmt.Println("\nmetrics:")
	for mname, val := range result.Metrics {
		fmt.Printf("  %s: %.6g\n", mname, val)
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
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tSCHEME\tBLOBS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3fs\t%.4fs\t%s\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Scheme,
			run.NumBlobs,
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
	rows, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("not enough samples to plot")
	}

	fmt.Printf("run: %s\npreset: %s\nsamples: %d\n\n", meta.ID, meta.Preset, len(rows))

	traces := []struct {
		caption string
		value   func(storage.HistoryRow) float64
	}{
		{"impulse x", func(r storage.HistoryRow) float64 { return real(r.Impulse) }},
		{"impulse y", func(r storage.HistoryRow) float64 { return imag(r.Impulse) }},
		{"wake circulation", func(r storage.HistoryRow) float64 { return r.WakeCirculation }},
		{"blob count", func(r storage.HistoryRow) float64 { return float64(r.NumBlobs) }},
	}
	for _, trace := range traces {
		data := make([]float64, len(rows))
		for i, row := range rows {
			data[i] = trace.value(row)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(trace.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	rows, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(rows) < 4 {
		return fmt.Errorf("not enough samples to analyze")
	}

	result := &sim.Result{
		Times:    make([]float64, len(rows)),
		Impulses: make([]complex128, len(rows)),
	}
	for i, row := range rows {
		result.Times[i] = row.Time
		result.Impulses[i] = row.Impulse
	}

	forces, err := analysis.ForceHistory(result)
	if err != nil {
		return err
	}

	// body velocity reconstructed from the stored positions
	vels := make([]complex128, len(rows))
	for i := 1; i < len(rows)-1; i++ {
		dtS := rows[i+1].Time - rows[i-1].Time
		if dtS > 0 {
			vels[i] = (rows[i+1].BodyPos - rows[i-1].BodyPos) / complex(dtS, 0)
		}
	}
	vels[0] = vels[1]
	vels[len(vels)-1] = vels[len(vels)-2]

	lift, drag, err := analysis.LiftDrag(forces, vels)
	if err != nil {
		return err
	}

	meanLift, meanDrag := 0.0, 0.0
	for i := range lift {
		meanLift += lift[i]
		meanDrag += drag[i]
	}
	meanLift /= float64(len(lift))
	meanDrag /= float64(len(drag))
	fmt.Printf("samples: %d\n", len(rows))
	fmt.Printf("mean lift: %.6f\nmean drag: %.6f\n", meanLift, meanDrag)

	sampleDt := (rows[len(rows)-1].Time - rows[0].Time) / float64(len(rows)-1)
	if freq, err := analysis.DominantFrequency(lift, sampleDt); err == nil {
		fmt.Printf("dominant lift frequency: %.4f\n", freq)
	}

	graph := asciigraph.Plot(lift,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("lift"),
	)
	fmt.Println()
	fmt.Println(graph)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	rows, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	fmt.Println("time,body_x,body_y,body_angle,impulse_x,impulse_y,wake_circulation,bound_circulation,n_blobs")
	for _, row := range rows {
		fmt.Printf("%g,%g,%g,%g,%g,%g,%g,%g,%d\n",
			row.Time,
			real(row.BodyPos), imag(row.BodyPos), row.BodyAngle,
			real(row.Impulse), imag(row.Impulse),
			row.WakeCirculation, row.BoundCirculation, row.NumBlobs)
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
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func wakeSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	blobs, err := st.LoadWake(runID)
	if err != nil {
		return err
	}
	rows, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("run has no history")
	}
	last := rows[len(rows)-1]

	// the body outline is only recoverable for preset-backed runs
	var outline []complex128
	if cfg, perr := config.Preset(meta.Preset); perr == nil {
		if b, berr := cfg.BuildBody(); berr == nil {
			b.Pos = last.BodyPos
			b.Angle = last.BodyAngle
			for _, zeta := range b.Shape.Boundary() {
				outline = append(outline, b.Transform(zeta))
			}
		}
	}

	snap := sim.Snapshot{
		Time:      last.Time,
		BodyPos:   last.BodyPos,
		BodyAngle: last.BodyAngle,
		Blobs:     blobs,
	}
	svg := export.WakeToSVG(snap, outline, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("nothing to render")
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d blobs)\n", outFile, len(blobs))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	b, err := cfg.BuildBody()
	if err != nil {
		return err
	}
	return tui.Live(name, b, cfg.BuildEdges(), cfg.BuildSim())
}

func serveRuns(cmd *cobra.Command, args []string) error {
	name, cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	builder := func() (*body.Body, []kutta.Edge, sim.Config, error) {
		b, err := cfg.BuildBody()
		if err != nil {
			return nil, nil, sim.Config{}, err
		}
		return b, cfg.BuildEdges(), cfg.BuildSim(), nil
	}
	return server.New(name, builder, nil).ListenAndServe(addr)
}
