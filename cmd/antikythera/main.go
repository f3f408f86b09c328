// Command antikythera is a terminal sky map: the Sun, Moon and naked-eye
// planets on the dome above an observer, in real time or time-warped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/antikythera/internal/astro"
	"github.com/litescript/antikythera/internal/config"
	"github.com/litescript/antikythera/internal/logging"
	"github.com/litescript/antikythera/internal/metrics"
	"github.com/litescript/antikythera/internal/sky"
	"github.com/litescript/antikythera/internal/state"
	"github.com/litescript/antikythera/internal/ui"
	"github.com/litescript/antikythera/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	snapshotPath  string
	miniSkyMode   bool
	passesMode    bool
	watchInterval time.Duration
	atTime        string
)

func main() {
	configPath := flag.String("config", "", "TOML config file (default $ANTIKYTHERA_CONFIG or <resources>/antikythera.toml)")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees (north positive)")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees (east positive)")
	rate := flag.Float64("rate", 1, "Playback rate (simulated seconds per second)")
	projection := flag.String("projection", "equidistant", "Dome projection (equidistant, stereographic)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Append logs to file (TUI logs are discarded otherwise)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus /metrics on this address (e.g., :9090)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON frame to file (use - for stdout)")
	flag.BoolVar(&miniSkyMode, "mini-sky", false, "Show ASCII mini sky view")
	flag.BoolVar(&passesMode, "passes", false, "Print rise, transit and set times for the next 24h")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 30s)")
	flag.StringVar(&atTime, "at", "", "Start epoch as RFC 3339 time (default now)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("antikythera %s\n", version.Version)
		return
	}

	cfg, err := config.Load(*configPath, os.Getenv)
	if err != nil {
		fatal(err)
	}

	// Flags given on the command line win over the file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			cfg.Latitude = *lat
		case "lon":
			cfg.Longitude = *lon
		case "rate":
			cfg.Rate = *rate
		case "projection":
			cfg.Projection = *projection
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	start, err := parseAt(atTime)
	if err != nil {
		fatal(err)
	}

	headless := summaryMode || snapshotPath != "" || miniSkyMode || passesMode

	// Set up logging. The TUI owns the terminal, so it only logs to a file.
	logger := logging.New(cfg.Level())
	if !headless {
		logger.SetOutput(io.Discard)
	}
	if cfg.LogFile != "" {
		closer, err := logger.OpenFile(cfg.LogFile)
		if err != nil {
			fatal(err)
		}
		defer closer.Close()
	}
	if cfg.Path != "" {
		logger.Debug("config loaded from %s", cfg.Path)
	}

	// A bad body table or calibration is a build defect; refuse to start.
	engine, err := sky.NewDefaultEngine()
	if err != nil {
		fatal(fmt.Errorf("body table: %w", err))
	}

	stateCfg := state.DefaultConfig()
	stateCfg.Latitude = astro.DegToRad(cfg.Latitude)
	stateCfg.Longitude = astro.DegToRad(cfg.Longitude)
	stateCfg.Rate = cfg.Rate
	stateCfg.MaxEvents = cfg.MaxEvents
	stateCfg.Start = start
	session, err := state.NewSession(stateCfg)
	if err != nil {
		fatal(err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, logger)
	}

	if headless {
		if err := runHeadless(ctx, engine, session, cfg, logger); err != nil {
			fatal(err)
		}
		return
	}

	theme, err := config.LoadTheme(cfg)
	if err != nil {
		fatal(err)
	}

	model := ui.New(session, engine, ui.Options{
		Theme:      theme,
		Projection: cfg.ProjectionKind(),
		Logger:     logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// parseAt parses the -at flag. An empty value means now.
func parseAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid -at time %q (want RFC 3339, e.g. 2024-06-21T12:00:00Z)", s)
}

func serveMetrics(ctx context.Context, addr string, logger *logging.Logger) {
	log := logger.Component("metrics")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving /metrics on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("metrics server: %v", err)
	}
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, engine *sky.Engine, session *state.Session, cfg config.Config, logger *logging.Logger) error {
	miniCfg := sky.DefaultMiniSkyConfig()
	miniCfg.Projection = cfg.ProjectionKind()
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			miniCfg = fitMiniSky(miniCfg, w, h)
		}
	}

	outputOnce := func() error {
		snap := session.Snapshot()
		frame := engine.Compute(snap.Epoch, snap.Observer)
		logger.Debug("frame at %s: %d of %d bodies visible",
			frame.Time().Format(time.RFC3339), frame.VisibleCount(), len(frame.Bodies))

		// Export JSON if requested
		if snapshotPath != "" {
			export := sky.Export(frame)
			if snapshotPath == "-" {
				if err := export.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else {
				f, err := os.Create(snapshotPath)
				if err != nil {
					return fmt.Errorf("create snapshot file: %w", err)
				}
				defer f.Close()
				if err := export.WriteJSON(f); err != nil {
					return fmt.Errorf("write JSON to file: %w", err)
				}
			}
		}

		// Print summary table if requested
		if summaryMode {
			sky.WriteSummaryTable(os.Stdout, frame)
		}

		// Mini sky view
		if miniSkyMode {
			fmt.Println()
			sky.WriteMiniSky(os.Stdout, frame, miniCfg)
		}

		if passesMode {
			fmt.Println()
			plan := engine.PassPlan(snap.Epoch, snap.Observer, sky.PassWindowDuration, sky.PassSampleInterval)
			sky.WritePassTable(os.Stdout, plan)
		}
		return nil
	}

	// Single run
	if watchInterval == 0 {
		return outputOnce()
	}

	// Watch mode: the clock runs at the playback rate between outputs
	if err := outputOnce(); err != nil {
		logger.Error("%v", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			session.Tick(now.Sub(last))
			last = now
			fmt.Println()
			if err := outputOnce(); err != nil {
				logger.Error("%v", err)
			}
		}
	}
}

// fitMiniSky sizes the dome to the terminal, keeping room for the border
// and the legend below it.
func fitMiniSky(cfg sky.MiniSkyConfig, width, height int) sky.MiniSkyConfig {
	const legend = 10
	h := height - legend - 2
	if 2*h+1 > width-2 {
		h = (width - 3) / 2
	}
	if h%2 == 0 {
		h--
	}
	if h < cfg.Height {
		return cfg
	}
	cfg.Height = h
	cfg.Width = 2*h + 1
	return cfg
}
