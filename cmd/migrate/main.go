// Package main populates the city and department fields of stored postings
// from their raw location text, once or on a fixed interval.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"freework-ingest/internal/api"
	"freework-ingest/internal/config"
	"freework-ingest/internal/logging"
	"freework-ingest/internal/metrics"
	"freework-ingest/internal/migrate"
	"freework-ingest/internal/scheduler"
	"freework-ingest/internal/store"
)

func main() {
	cfgPath := pflag.String("config", "", "Path to config file")
	apply := pflag.Bool("apply", false, "Apply updates (default is dry-run)")
	fullScan := pflag.Bool("full-scan", false, "Re-validate every row against the French department set")
	everyHour := pflag.Bool("every-hour", false, "Run the migration continuously on a fixed interval")
	intervalSeconds := pflag.Int("interval-seconds", 0, "Interval for repeated mode (overrides config, default 3600)")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if *intervalSeconds > 0 {
		cfg.Migration.IntervalSeconds = *intervalSeconds
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	opts := migrate.Options{Apply: *apply, FullScan: *fullScan}

	if !*everyHour {
		if err := runOnce(ctx, cfg, opts, logger); err != nil {
			logger.Fatal("migration failed", zap.Error(err))
		}
		return
	}

	logger.Info("starting repeated mode",
		zap.Duration("interval", cfg.Migration.Interval()),
		zap.Bool("apply", *apply),
	)

	srv := api.NewServer(cfg.Metrics.Addr, logger)
	go func() {
		if err := srv.Run(ctx); err != nil {
			logger.Warn("http server stopped", zap.Error(err))
		}
	}()

	// First pass runs immediately; the scheduler covers the repeats. Each
	// pass opens a fresh store so a database restart never wedges the loop.
	pass := func(ctx context.Context) error {
		return runOnce(ctx, cfg, opts, logger)
	}
	if err := pass(ctx); err != nil {
		logger.Warn("run failed", zap.Error(err))
	}

	sched := scheduler.New(pass, cfg.Migration.Interval(), logger)
	if err := sched.Start(ctx); err != nil {
		logger.Fatal("start scheduler", zap.Error(err))
	}
	<-ctx.Done()
	sched.Stop()
	logger.Info("stopped by signal")
}

func runOnce(ctx context.Context, cfg config.Config, opts migrate.Options, logger *zap.Logger) error {
	openCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	st, err := store.NewJobStore(openCtx, store.Config{
		DSN:      cfg.Database.DSN,
		Table:    cfg.Database.Table,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		return fmt.Errorf("connect store: %w", err)
	}
	defer st.Close()

	res, err := migrate.NewMigrator(st, logger).Run(ctx, opts)
	if err != nil {
		return err
	}
	logger.Info("pass complete",
		zap.Int("scanned", res.Scanned),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
	)
	return nil
}
