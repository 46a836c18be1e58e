package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/knapviz/internal/config"
	"github.com/san-kum/knapviz/internal/export"
	"github.com/san-kum/knapviz/internal/grid"
	"github.com/san-kum/knapviz/internal/knapsack"
	"github.com/san-kum/knapviz/internal/storage"
	"github.com/san-kum/knapviz/internal/tui"
	"github.com/san-kum/knapviz/internal/viz"
	"github.com/san-kum/knapviz/internal/web"
)

var (
	dataDir    string
	configFile string
	preset     string
	capacity   int
	weights    string
	prices     string
	delayMS    int
	theme      string
	debug      bool
	// run
	frameRate int
	save      bool
	// serve
	addr  string
	watch bool
	// render
	width  float64
	height float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "knapviz",
		Short: "animated 0/1 knapsack dynamic programming",
		RunE:  runTUI,
	}

	addProblemFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "animate the table on a plain terminal",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&frameRate, "fps", 30, "maximum redraws per second")
	runCmd.Flags().BoolVar(&save, "save", false, "store the finished run")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the browser visualization",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().BoolVar(&watch, "watch", false, "reload open pages when the config file changes")

	renderCmd := &cobra.Command{
		Use:   "render [file.png|file.svg]",
		Short: "render the solved grid to an image",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().Float64Var(&width, "width", 800, "container width in pixels")
	renderCmd.Flags().Float64Var(&height, "height", 600, "container height in pixels")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [file]",
		Short: "write the solved table as CSV (stdout when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [file]",
		Short: "write the solved problem as JSON (stdout when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runExportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list problem presets",
		RunE:  listPresets,
	}

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(runCmd, serveCmd, renderCmd, exportCSVCmd, exportJSONCmd, presetsCmd, runsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&dataDir, "data", "./runs", "data directory")
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml)")
	cmd.PersistentFlags().StringVarP(&preset, "preset", "p", "", "problem preset")
	cmd.PersistentFlags().IntVar(&capacity, "capacity", config.DefaultCapacity, "bag capacity")
	cmd.PersistentFlags().StringVar(&weights, "weights", "", "comma separated item weights")
	cmd.PersistentFlags().StringVar(&prices, "prices", "", "comma separated item prices")
	cmd.PersistentFlags().IntVar(&delayMS, "delay", config.DefaultDelayMS, "delay between steps in milliseconds")
	cmd.PersistentFlags().StringVar(&theme, "theme", config.DefaultTheme,
		"color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "log to knapviz-debug.log")
}

// resolveConfig layers defaults, the preset, the config file and finally
// any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("capacity") {
		if capacity < 0 {
			return nil, fmt.Errorf("invalid capacity %d: must not be negative", capacity)
		}
		cfg.Capacity = capacity
	}
	if flags.Changed("weights") {
		w, err := config.ParseList("weights", weights)
		if err != nil {
			return nil, err
		}
		cfg.Weights = w
	}
	if flags.Changed("prices") {
		p, err := config.ParseList("prices", prices)
		if err != nil {
			return nil, err
		}
		cfg.Prices = p
	}
	if flags.Changed("delay") {
		cfg.DelayMS = max(0, delayMS)
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if err := knapsack.Validate(cfg.Capacity, cfg.Weights, cfg.Prices); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if debug {
		f, err := tea.LogToFile("knapviz-debug.log", "knapviz")
		if err != nil {
			return err
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	p := tea.NewProgram(viz.NewModel(cfg, logger, preset != ""), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := tui.NewLiveRenderer(os.Stdout, frameRate, viz.GetTheme(cfg.Theme))
	vp := grid.NewViewport(viz.ViewportSize(80, 24))

	finished := make(chan error, 1)
	session := knapsack.NewSession(knapsack.SessionConfig{
		Container:   vp,
		Stylesheet:  cfg.Stylesheet,
		GridOptions: []grid.Option{grid.WithGap(viz.TerminalGap), grid.WithMeasurer(viz.TerminalMeasurer)},
		Pacer:       knapsack.NewDelay(cfg.Delay()),
		Highlight:   true,
		OnGrid:      r.Bind,
		OnStatus:    r.OnStatus,
		OnFinish:    func(_ *knapsack.Animator, err error) { finished <- err },
		Logger:      logger,
	})
	defer session.Close()

	r.Start()
	defer r.Stop()

	a, err := session.Start(cfg.Capacity, cfg.Weights, cfg.Prices)
	if err != nil {
		return err
	}

	select {
	case err = <-finished:
	case <-ctx.Done():
		session.Cancel()
		err = <-finished
	}
	r.Flush()
	r.Summary(a)
	if err != nil {
		return err
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(export.NewResult(cfg.Capacity, cfg.Weights, cfg.Prices, a.Table()), cfg.DelayMS)
		if err != nil {
			return err
		}
		fmt.Printf("\n  saved run %s\n", id)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") || cfg.Serve.Addr == "" {
		cfg.Serve.Addr = addr
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(cfg, logger)
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		go func() {
			err := web.WatchConfig(ctx, configFile, logger, func(next *config.Config) {
				if err := knapsack.Validate(next.Capacity, next.Weights, next.Prices); err != nil {
					logger.Warn("ignoring config", "path", configFile, "err", err)
					return
				}
				srv.Reload(next)
			})
			if err != nil {
				logger.Error("config watch stopped", "err", err)
			}
		}()
	}

	fmt.Printf("knapviz listening on http://%s\n", cfg.Serve.Addr)
	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	path := args[0]

	m, err := grid.NewFaceMeasurer(nil)
	if err != nil {
		return err
	}
	snap, _, err := export.Solved(cfg.Capacity, cfg.Weights, cfg.Prices, width, height,
		grid.WithGap(cfg.Gap), grid.WithMeasurer(m), grid.WithLogger(newLogger()))
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = export.SavePNG(path, snap, m, export.DefaultPalette)
	case ".svg":
		err = os.WriteFile(path, []byte(export.GridToSVG(snap, export.DefaultPalette)), 0644)
	default:
		return fmt.Errorf("unsupported image format %q (use .png or .svg)", filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	fmt.Printf("rendered %dx%d grid to %s\n", snap.Rows, snap.Columns, path)
	return nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	t, err := knapsack.Solve(cfg.Capacity, cfg.Weights, cfg.Prices)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return export.WriteCSV(os.Stdout, t)
	}

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteCSV(f, t); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[0])
	return nil
}

func runExportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	t, err := knapsack.Solve(cfg.Capacity, cfg.Weights, cfg.Prices)
	if err != nil {
		return err
	}
	r := export.NewResult(cfg.Capacity, cfg.Weights, cfg.Prices, t)
	if len(args) == 0 {
		return export.WriteJSON(os.Stdout, r)
	}
	if err := export.ExportJSON(args[0], r); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCAPACITY\tWEIGHTS\tPRICES")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%v\t%v\n", name, cfg.Capacity, cfg.Weights, cfg.Prices)
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
	fmt.Fprintln(w, "ID\tTIME\tCAPACITY\tITEMS\tANSWER\tSELECTION")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Capacity,
			len(run.Weights),
			run.Answer,
			run.Selection,
		)
	}

	return w.Flush()
}
