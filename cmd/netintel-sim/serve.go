package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"netintel-sim/internal/admin"
	"netintel-sim/internal/api"
	"netintel-sim/internal/compose"
	"netintel-sim/internal/config"
	"netintel-sim/internal/jobs"
	"netintel-sim/internal/logging"
	"netintel-sim/internal/scenario"
	"netintel-sim/internal/sim"
	"netintel-sim/internal/telemetry"
)

var (
	serveConfigPath string
	serveSchemaPath string
	serveAddr       string
	serveTick       time.Duration
	serveSeed       int64
	serveLogFile    string
	servePrintOnly  bool
	serveTUI        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the simulator and serve the API",
	Long:  "serve starts the network simulator and exposes the network intelligence API, the simulation admin routes and Prometheus metrics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		catalog, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		tui := serveTUI && term.IsTerminal(int(os.Stdout.Fd()))
		log := slog.Default()
		if tui {
			// The dashboard owns the terminal.
			log = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		writer, cleanup, err := newWriters(cfg, catalog, servePrintOnly, tui, serveLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		seed := cfg.Simulation.Seed
		simulator := sim.NewSimulator(cfg, writer)
		store := simulator.Store()
		tracker := jobs.NewTracker(cfg.Jobs, rand.New(rand.NewSource(seed+1)), utcNow)
		wireHealing(simulator, tracker, log)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := api.NewMetrics(reg)
		simulator.AddListener(func(_ context.Context, snap telemetry.Snapshot) {
			tracker.Advance(snap.Tick)
			metrics.ObserveJobs(tracker.List(""))
		})
		simulator.AddListener(metrics.ObserveTick)

		composer := compose.New(store, catalog, tracker, rand.New(rand.NewSource(seed+2)),
			compose.WithTickInterval(simulator.TickInterval()))
		handler := api.NewServer(composer, api.Options{
			Admin:   admin.NewServer(simulator),
			Clock:   store,
			Metrics: metrics,
			Logger:  log,
			Latency: cfg.Latency,
			Seed:    seed + 3,
		})

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go simulator.Run(ctx)

		errCh := make(chan error, 1)
		go func() {
			log.Info("serving api", "addr", cfg.Server.Addr, "regions", len(store.RegionIDs()), "components", len(store.ComponentIDs()))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			if err != nil {
				return err
			}
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

// utcNow is the wall clock shared by job timestamps; the simulator and the
// composer report UTC as well.
func utcNow() time.Time { return time.Now().UTC() }

// loadConfig layers file, environment and flags in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if serveConfigPath != "" {
		loaded, err := config.Load(serveConfigPath, serveSchemaPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = serveAddr
	}
	if flags.Changed("tick") {
		cfg.Simulation.TickInterval = serveTick
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = serveSeed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadCatalog(cfg *config.Config) (*scenario.Catalog, error) {
	if cfg.ScenariosFile == "" {
		return scenario.BuiltIn(), nil
	}
	return scenario.Load(cfg.ScenariosFile)
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a YAML config (defaults to the built-in network)")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "", "Path to a CUE schema (defaults to the embedded schema)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
	serveCmd.Flags().DurationVar(&serveTick, "tick", 5*time.Second, "Simulation tick interval")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 1, "Random seed")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Write snapshots to this JSONL file and events to <file>.events")
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print snapshots to STDOUT instead of GreptimeDB")
	serveCmd.Flags().BoolVar(&serveTUI, "tui", false, "Show the terminal dashboard when STDOUT is a terminal")
}
