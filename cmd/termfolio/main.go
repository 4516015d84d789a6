package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/termfolio/internal/audio"
	"github.com/san-kum/termfolio/internal/boot"
	"github.com/san-kum/termfolio/internal/config"
	"github.com/san-kum/termfolio/internal/content"
	"github.com/san-kum/termfolio/internal/export"
	"github.com/san-kum/termfolio/internal/field"
	"github.com/san-kum/termfolio/internal/gui"
	"github.com/san-kum/termfolio/internal/logging"
	"github.com/san-kum/termfolio/internal/server"
	"github.com/san-kum/termfolio/internal/telemetry"
	"github.com/san-kum/termfolio/internal/tui"
	"github.com/san-kum/termfolio/internal/viz"
)

var (
	configFile  string
	dataDir     string
	contentFile string
	logLevel    string

	addr    string
	width   int
	height  int
	frames  int
	seed    int64
	preset  string
	svgOut  string
	brOut   string
	jsonOut string
	csvOut  string
	format  string
	recent  int
	skip    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "termfolio",
		Short:        "animated portfolio for the terminal",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", "", "content document (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level")
	rootCmd.Flags().BoolVar(&skip, "skip", false, "skip the boot intro (silent)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the portfolio in a window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&skip, "skip", false, "skip the boot intro (silent)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the portfolio over http",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "run the particle field headless",
		RunE:  runField,
	}
	fieldCmd.Flags().IntVar(&width, "width", server.DefaultWidth, "viewport width in pixels")
	fieldCmd.Flags().IntVar(&height, "height", 0, "viewport height in pixels (default 16:9)")
	fieldCmd.Flags().IntVar(&frames, "frames", 120, "frames to simulate")
	fieldCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	fieldCmd.Flags().StringVar(&preset, "preset", "", "viewport preset (overrides --width)")
	fieldCmd.Flags().StringVar(&svgOut, "svg", "", "write the last frame as svg")
	fieldCmd.Flags().StringVar(&brOut, "braille", "", "write the last frame as the terminal draws it, as svg")
	fieldCmd.Flags().StringVar(&jsonOut, "json", "", "write the run as json")
	fieldCmd.Flags().StringVar(&csvOut, "csv", "", "write per-frame stats as csv")

	contentCmd := &cobra.Command{
		Use:   "content",
		Short: "print the content document",
		RunE:  runContent,
	}
	contentCmd.Flags().StringVar(&format, "format", "text", "text, yaml or json")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list viewport presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tWIDTH\tLAYOUT\tNODES\tTHRESHOLD")
			for _, name := range config.ListPresets() {
				px := config.Presets[name]
				s := field.Configure(px)
				layout := "full"
				if s.Compact {
					layout = "compact"
				}
				fmt.Fprintf(w, "%s\t%dpx\t%s\t%d\t%.1f\n", name, px, layout, s.NodeCount, s.Threshold)
			}
			return w.Flush()
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "show recorded boot and visit counts",
		RunE:  runStats,
	}
	statsCmd.Flags().IntVar(&recent, "recent", 10, "recent events to list")

	rootCmd.AddCommand(guiCmd, serveCmd, fieldCmd, contentCmd, presetsCmd, statsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, .env, TERMFOLIO_* variables
// and finally flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("content") {
		cfg.Content = contentFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Lookup("skip") != nil && flags.Changed("skip") {
		cfg.Boot.Skip = skip
	}
	return cfg, cfg.Validate()
}

// interactiveLogger keeps log output off the terminal the front end draws
// on.
func interactiveLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	lc := cfg.Log
	switch lc.Output {
	case "", "stderr", "stdout":
		lc.Output = "file"
		if lc.FilePath == "" {
			lc.FilePath = cfg.DataPath("termfolio.log")
		}
	}
	return logging.Init(lc)
}

func openRecorder(cfg *config.Config, log zerolog.Logger) (telemetry.Recorder, func()) {
	if !cfg.Telemetry.Enabled {
		return telemetry.Nop{}, func() {}
	}
	store, err := telemetry.Open(cfg.DataPath(cfg.Telemetry.Path))
	if err != nil {
		log.Warn().Err(err).Msg("telemetry disabled")
		return telemetry.Nop{}, func() {}
	}
	return store, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close telemetry")
		}
	}
}

func audioFactory(cfg *config.Config, log zerolog.Logger) boot.AudioFactory {
	return func() (boot.Player, error) {
		e, err := audio.Open(cfg.Audio, log)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

func loadContent(cfg *config.Config) (*content.Document, error) {
	doc, err := content.Load(cfg.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}
	return doc, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := interactiveLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	doc, err := loadContent(cfg)
	if err != nil {
		return err
	}
	rec, closeRec := openRecorder(cfg, log)
	defer closeRec()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("theme", cfg.Theme).Bool("skip", cfg.Boot.Skip).Msg("starting terminal")
	return tui.Run(ctx, tui.Deps{
		Config:   cfg,
		Content:  doc,
		Audio:    audioFactory(cfg, log),
		Recorder: rec,
		Logger:   log,
	})
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := interactiveLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	doc, err := loadContent(cfg)
	if err != nil {
		return err
	}
	rec, closeRec := openRecorder(cfg, log)
	defer closeRec()

	log.Info().Str("theme", cfg.Theme).Msg("starting window")
	return gui.Run(gui.Deps{
		Config:   cfg,
		Content:  doc,
		Audio:    audioFactory(cfg, log),
		Recorder: rec,
		Logger:   log,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := logging.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	doc, err := loadContent(cfg)
	if err != nil {
		return err
	}
	rec, closeRec := openRecorder(cfg, log)
	defer closeRec()

	if addr == "" {
		addr = cfg.Server.Addr
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Content:  doc,
		Recorder: rec,
		Salt:     cfg.Telemetry.Salt,
		Theme:    viz.GetTheme(cfg.Theme),
		Mode:     cfg.Server.Mode,
		Logger:   log,
	})
	return srv.Run(ctx, addr)
}

func runField(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, closer, err := logging.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	if preset != "" {
		w, err := config.GetPreset(preset)
		if err != nil {
			return fmt.Errorf("%w: %s (available: %v)", err, preset, config.ListPresets())
		}
		width = w
	}
	if width <= 0 {
		return fmt.Errorf("width must be positive")
	}
	if frames <= 0 {
		return fmt.Errorf("frames must be positive")
	}

	start := time.Now()
	run, err := export.Simulate(export.SimOptions{
		Width:  width,
		Height: height,
		Seed:   seed,
		Frames: frames,
		FPS:    cfg.Field.FPS,
		Logger: log,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	s := run.Settings
	fmt.Printf("simulated %d frames in %v\n", len(run.Frames), elapsed)
	fmt.Printf("width: %dpx  compact: %v  nodes: %d  threshold: %.1f  spread: %.0f\n\n",
		run.Width, s.Compact, s.NodeCount, s.Threshold, s.Spread)

	graph := asciigraph.Plot(run.EdgeSeries(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("edges per frame"),
	)
	fmt.Println(graph)
	fmt.Println()

	h := height
	if h <= 0 {
		h = width * 9 / 16
	}
	theme := viz.GetTheme(cfg.Theme)
	if svgOut != "" {
		if err := export.ToFile(svgOut, func(w io.Writer) error {
			return export.FrameToSVG(w, run.Last, width, h, theme)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}
	if brOut != "" {
		cw, ch := cfg.Viewport.CellWidth, cfg.Viewport.CellHeight
		if err := export.ToFile(brOut, func(w io.Writer) error {
			return export.FrameToBrailleSVG(w, run.Last, width, h, cw, ch, theme)
		}); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", brOut)
	}
	if jsonOut != "" {
		if err := export.ToFile(jsonOut, func(w io.Writer) error { return export.WriteJSON(w, run) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonOut)
	}
	if csvOut != "" {
		if err := export.ToFile(csvOut, func(w io.Writer) error { return export.WriteCSV(w, run) }); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvOut)
	}
	return nil
}

func runContent(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc, err := loadContent(cfg)
	if err != nil {
		return err
	}

	switch format {
	case "text":
		return content.RenderPlain(os.Stdout, doc)
	case "yaml":
		data, err := doc.Marshal()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format: %s (available: text, yaml, json)", format)
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := telemetry.Open(cfg.DataPath(cfg.Telemetry.Path))
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	visitors, err := store.UniqueVisitors(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "EVENT\tCOUNT")
	for _, k := range []telemetry.Kind{telemetry.BootStarted, telemetry.BootSkipped, telemetry.BootRevealed, telemetry.Visit} {
		fmt.Fprintf(w, "%s\t%d\n", k, counts[k])
	}
	fmt.Fprintf(w, "unique visitors\t%d\n", visitors)
	if err := w.Flush(); err != nil {
		return err
	}

	if recent <= 0 {
		return nil
	}
	events, err := store.Recent(ctx, recent)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}
	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tEVENT\tDETAIL\tPATH")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.At.Format(time.DateTime), e.Kind, e.Detail, e.Path)
	}
	return w.Flush()
}
