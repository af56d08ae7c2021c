// Package main runs one ingestion pass against the job-postings feed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"freework-ingest/internal/api"
	"freework-ingest/internal/config"
	"freework-ingest/internal/feed"
	"freework-ingest/internal/ingest"
	"freework-ingest/internal/logging"
	"freework-ingest/internal/metrics"
	"freework-ingest/internal/store"
)

func main() {
	cfgPath := pflag.String("config", "", "Path to config file")
	allPages := pflag.Bool("all", false, "Scrape all pages (default: first page only, small page size)")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
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

	// Full runs take minutes (page cap x inter-page delay plus retries), so
	// expose /metrics and /healthz for their duration.
	if *allPages {
		srv := api.NewServer(cfg.Metrics.Addr, logger)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Warn("http server stopped", zap.Error(err))
			}
		}()
	}

	st, err := store.NewJobStore(ctx, store.Config{
		DSN:      cfg.Database.DSN,
		Table:    cfg.Database.Table,
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		logger.Fatal("connect store", zap.Error(err))
	}
	defer st.Close()

	fetcher := feed.NewCollyFetcher(cfg.Feed.Timeout())
	client := feed.NewClient(cfg.Feed, fetcher, logger)
	runner := ingest.NewRunner(client, st, cfg.Feed, logger)

	summary, err := runner.Run(ctx, *allPages)
	if err != nil {
		logger.Fatal("ingestion failed",
			zap.Int("pages", summary.Pages),
			zap.Int("upserted", summary.Upserted),
			zap.Error(err),
		)
	}
	logger.Info("ingestion complete",
		zap.Int("pages", summary.Pages),
		zap.Int("upserted", summary.Upserted),
		zap.Int("skipped", summary.Skipped),
	)
}
