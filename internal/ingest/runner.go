// Package ingest drives the sequential fetch, normalize, classify and upsert
// pipeline over the paginated listings feed.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freework-ingest/internal/config"
	"freework-ingest/internal/feed"
	"freework-ingest/internal/location"
	"freework-ingest/internal/metrics"
)

// PageFetcher fetches one decoded envelope page.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (*feed.Envelope, error)
}

// Store persists normalized postings.
type Store interface {
	Upsert(ctx context.Context, rec feed.JobPosting) error
}

// Summary reports what a run did.
type Summary struct {
	Pages    int
	Upserted int
	Skipped  int
}

// Runner executes ingestion runs. Pages and records are processed strictly in
// sequence; there is no fetch fan-out and no parallel upsert.
type Runner struct {
	client PageFetcher
	store  Store
	cfg    config.FeedConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewRunner constructs a Runner.
func NewRunner(client PageFetcher, store Store, cfg config.FeedConfig, logger *zap.Logger) *Runner {
	return &Runner{
		client: client,
		store:  store,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Run ingests either all pages up to the configured cap (large page size) or a
// single smaller first page. In paged mode a fetch failure stops pagination
// and the partial run is reported without error; in single-page mode it aborts
// the run. A record-level upsert failure is fatal for the run either way.
func (r *Runner) Run(ctx context.Context, allPages bool) (Summary, error) {
	log := r.logger.With(zap.String("run_id", uuid.NewString()))
	ingestionDate := r.now().Format("2006-01-02")

	var summary Summary
	if !allPages {
		pageURL := feed.PageURL(r.cfg.BaseURL, 1, r.cfg.SinglePageItems)
		env, err := r.client.FetchPage(ctx, pageURL)
		if err != nil {
			metrics.ObservePage("error")
			return summary, fmt.Errorf("fetch page 1: %w", err)
		}
		if err := r.processPage(ctx, log, env, ingestionDate, 1, &summary); err != nil {
			return summary, err
		}
		log.Info("ingest finished",
			zap.Int("pages", summary.Pages),
			zap.Int("upserted", summary.Upserted),
			zap.Int("skipped", summary.Skipped),
		)
		return summary, nil
	}

	pageURL := feed.PageURL(r.cfg.BaseURL, 1, r.cfg.ItemsPerPage)
	for page := 1; page <= r.cfg.MaxPages; page++ {
		log.Info("fetching page", zap.Int("page", page), zap.String("url", pageURL))
		env, err := r.client.FetchPage(ctx, pageURL)
		if err != nil {
			metrics.ObservePage("error")
			log.Warn("stopping pagination after fetch failure",
				zap.Int("page", page), zap.Error(err))
			break
		}
		if err := r.processPage(ctx, log, env, ingestionDate, page, &summary); err != nil {
			return summary, err
		}

		next, ok := feed.NextPageURL(env, r.cfg.BaseURL)
		if !ok || page == r.cfg.MaxPages {
			break
		}
		pageURL = next

		// Pause between pages to respect upstream rate limits.
		if err := sleepContext(ctx, r.cfg.PageDelay()); err != nil {
			return summary, err
		}
	}

	log.Info("ingest finished",
		zap.Int("pages", summary.Pages),
		zap.Int("upserted", summary.Upserted),
		zap.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (r *Runner) processPage(
	ctx context.Context,
	log *zap.Logger,
	env *feed.Envelope,
	ingestionDate string,
	page int,
	summary *Summary,
) error {
	summary.Pages++
	upserted := 0
	for _, raw := range env.Members {
		if raw.ID == 0 {
			summary.Skipped++
			metrics.ObserveSkippedRecord()
			log.Warn("skipping listing without id", zap.String("title", raw.Title))
			continue
		}
		rec := feed.Normalize(raw, ingestionDate)
		rec.City, rec.Department = location.Classify(rawLocation(raw))

		if err := r.store.Upsert(ctx, rec); err != nil {
			metrics.ObservePage("error")
			return fmt.Errorf("page %d: %w", page, err)
		}
		metrics.ObserveUpsert()
		upserted++
	}
	summary.Upserted += upserted
	metrics.ObservePage("ok")
	log.Info("page processed",
		zap.Int("page", page),
		zap.Int("records", len(env.Members)),
		zap.Int("upserted", upserted),
	)
	return nil
}

func rawLocation(raw feed.RawListing) string {
	if raw.Location == nil {
		return ""
	}
	return raw.Location.Label
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
