package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/structmon/fbg-telemetry/internal/fbg"
	"github.com/structmon/fbg-telemetry/internal/metrics"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg := fbg.ConfigFromEnv()

	var showVersion, verbose bool
	flag.BoolVar(&showVersion, "version", false, "show version and exit")
	flag.BoolVar(&verbose, "verbose", false, "verbose mode - show debug logs")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "http listen port (env: PORT)")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "address to listen on for prometheus metrics (env: METRICS_ADDR)")
	flag.StringVar(&cfg.CalibrationPath, "calibration", cfg.CalibrationPath, "path to a YAML calibration override file (env: FBG_CALIBRATION_FILE)")
	flag.Parse()

	if showVersion {
		fmt.Printf("version: %s, commit: %s, date: %s\n", version, commit, date)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := newLogger(verbose)

	cal := fbg.DefaultCalibration()
	if cfg.CalibrationPath != "" {
		var err error
		cal, err = fbg.LoadCalibration(cfg.CalibrationPath)
		if err != nil {
			return fmt.Errorf("failed to load calibration: %w", err)
		}
		log.Info("loaded calibration overrides", "path", cfg.CalibrationPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := fbg.NewPostgresStore(connectCtx, cfg, log)
	connectCancel()
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer store.Close()

	app, err := fbg.NewApp(
		fbg.WithStore(store),
		fbg.WithCalcRegistry(fbg.NewCalcRegistry(cal)),
		fbg.WithAppLogger(log),
	)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	// Prometheus metrics server
	if cfg.MetricsAddr != "" {
		metrics.BuildInfo.WithLabelValues(version, commit, date).Set(1)
		go func() {
			listener, err := net.Listen("tcp", cfg.MetricsAddr)
			if err != nil {
				log.Error("failed to start prometheus metrics listener", "error", err)
				os.Exit(1)
			}
			log.Info("prometheus metrics server listening", "address", listener.Addr().String())
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.Serve(listener, mux); err != nil {
				log.Error("prometheus metrics server failed", "error", err)
				os.Exit(1)
			}
		}()
	}

	mux := http.NewServeMux()
	for _, zone := range fbg.Zones() {
		mux.HandleFunc("GET /fbg/"+string(zone)+"/{$}", app.HandleZone(zone))
	}
	mux.HandleFunc("/healthz", app.HandleHealthz)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("starting FBG data server",
		"port", cfg.Port,
		"postgres", cfg.PostgresHost,
		"database", cfg.PostgresDB,
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				t := a.Value.Time().UTC()
				a.Value = slog.StringValue(formatRFC3339Millis(t))
			}
			return a
		},
	}))
}

func formatRFC3339Millis(t time.Time) string {
	t = t.UTC()
	base := t.Format("2006-01-02T15:04:05")
	ms := t.Nanosecond() / 1_000_000
	return fmt.Sprintf("%s.%03dZ", base, ms)
}
