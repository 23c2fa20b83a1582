package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gnsrivastava/ProjectScripts/internal/adapters/tabular"
	app "github.com/gnsrivastava/ProjectScripts/internal/app"
	"github.com/gnsrivastava/ProjectScripts/internal/config"
	"github.com/gnsrivastava/ProjectScripts/internal/domain/merge"
	"github.com/gnsrivastava/ProjectScripts/pkg/logger"
	"github.com/gnsrivastava/ProjectScripts/pkg/metrics"
)

// HTTP server timeout constants for the metrics listener.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("groupsim: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	// Initialize logging
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.MetricsAddr != "" {
		startMetricsListener(ctx, cfg.MetricsAddr)
	}

	mergeMode, err := merge.ParseMode(cfg.MergeMode)
	if err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithWorkerCount(cfg.Workers),
		app.WithBatchSizes(cfg.RowBatch, cfg.ColBatch),
		app.WithMergeMode(mergeMode),
		app.WithFilters(cfg.EMax, cfg.LengthMin),
		app.WithPairsThreshold(cfg.PairsThreshold),
		app.WithAlignerBinary(cfg.AlignBinary),
	)

	switch cfg.Mode {
	case config.ModeMatrix:
		return runMatrix(ctx, svc, cfg)
	case config.ModeGroups:
		return runGroups(ctx, svc, cfg)
	default:
		// Unreachable: config.Load validates the mode.
		return fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// runMatrix computes the all-vs-all entity similarity matrix.
func runMatrix(ctx context.Context, svc *app.Service, cfg *config.Config) error {
	entities, err := tabular.ReadCompounds(cfg.CompoundsPath)
	if err != nil {
		return fmt.Errorf("read compounds: %w", err)
	}

	outPairs := ""
	if cfg.OutPairs != "" {
		outPairs = filepath.Join(cfg.OutDir, cfg.OutPairs)
	}
	_, err = svc.RunSimilarityMatrix(ctx, entities, filepath.Join(cfg.OutDir, cfg.OutMatrix), outPairs)
	return err
}

// runGroups optionally aligns the proteomes, then merges, assigns and
// aggregates the directional hit tables into the group matrix.
func runGroups(ctx context.Context, svc *app.Service, cfg *config.Config) error {
	if cfg.AlignBinary != "" {
		if err := svc.RunAlignments(ctx, cfg.QueryDir, cfg.DBDir, cfg.HitsDir); err != nil {
			return fmt.Errorf("run alignments: %w", err)
		}
	}
	_, err := svc.RunGroupAggregation(ctx, cfg.HitsDir, cfg.GroupCountsPath,
		filepath.Join(cfg.OutDir, cfg.OutGroupMatrix), cfg.OutDir)
	return err
}

// startMetricsListener serves the Prometheus registry in the background
// for the lifetime of the run.
func startMetricsListener(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Get().Info(ctx, "starting metrics listener", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Error(ctx, "metrics listener failed", logger.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
}
