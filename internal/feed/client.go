// Package feed implements the free-work.com job-postings API client: a
// retry-fetch engine with a fixed backoff, the hydra pagination driver, and
// the record normalizer.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"freework-ingest/internal/config"
	"freework-ingest/internal/metrics"
)

// ErrAttemptsExhausted is returned once every retry attempt has failed.
// Callers treat it as "stop pagination" in paged mode and "abort run" in
// single-page mode.
var ErrAttemptsExhausted = errors.New("fetch attempts exhausted")

var errEmptyResponse = errors.New("empty response body")

// Attempt failure reasons, used in logs and metrics labels.
const (
	reasonRedirect  = "redirect"
	reasonStatus    = "http_status"
	reasonEmptyBody = "empty_body"
	reasonBadJSON   = "bad_json"
	reasonTransport = "transport"
)

const bodyExcerptLimit = 100

// Client fetches envelope pages with retry semantics: each transient failure
// (redirect, non-200, empty body, malformed JSON, transport error) is retried
// after a fixed backoff, up to MaxRetries attempts. No exponential backoff and
// no jitter; request volume is at most a handful of pages per run.
type Client struct {
	fetcher    Fetcher
	headers    http.Header
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewClient builds a Client from the feed configuration.
func NewClient(cfg config.FeedConfig, fetcher Fetcher, logger *zap.Logger) *Client {
	return &Client{
		fetcher:    fetcher,
		headers:    browserHeaders(cfg),
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff(),
		logger:     logger,
	}
}

// browserHeaders is the fixed header set mimicking a browser XHR session.
// Without these the API answers with a redirect to the HTML site.
func browserHeaders(cfg config.FeedConfig) http.Header {
	h := http.Header{}
	h.Set("User-Agent", cfg.UserAgent)
	h.Set("Accept", "application/ld+json")
	h.Set("Accept-Language", "fr")
	h.Set("Referer", cfg.BaseURL+"/fr/tech-it/jobs")
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-origin")
	return h
}

// FetchPage fetches and decodes one envelope page, retrying transient
// failures with the fixed backoff. The first successful parse returns
// immediately.
func (c *Client) FetchPage(ctx context.Context, url string) (*Envelope, error) {
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		env, reason, err := c.attempt(ctx, url)
		if err == nil {
			return env, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		metrics.ObserveRetry(reason)
		c.logger.Warn("fetch attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.maxRetries),
			zap.String("reason", reason),
			zap.Error(err),
		)
		if attempt < c.maxRetries {
			if serr := sleepContext(ctx, c.backoff); serr != nil {
				return nil, serr
			}
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %s", ErrAttemptsExhausted, c.maxRetries, url)
}

// attempt runs a single fetch and classifies the outcome.
func (c *Client) attempt(ctx context.Context, url string) (*Envelope, string, error) {
	res, err := c.fetcher.Fetch(ctx, url, c.headers)
	if err != nil {
		return nil, reasonTransport, err
	}

	if res.StatusCode == http.StatusFound {
		target := res.RedirectLocation
		if target == "" {
			target = "unknown"
		}
		return nil, reasonRedirect, fmt.Errorf("http 302 redirect to %s", target)
	}
	if res.StatusCode != http.StatusOK {
		return nil, reasonStatus, fmt.Errorf("http %d: %s", res.StatusCode, excerpt(res.Body))
	}
	if len(bytes.TrimSpace(res.Body)) == 0 {
		return nil, reasonEmptyBody, errEmptyResponse
	}

	var env Envelope
	if err := json.Unmarshal(res.Body, &env); err != nil {
		return nil, reasonBadJSON, fmt.Errorf("decode envelope: %w (body: %s)", err, excerpt(res.Body))
	}
	return &env, "", nil
}

// excerpt truncates a response body to a short diagnostic snippet.
func excerpt(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= bodyExcerptLimit {
		return s
	}
	return s[:bodyExcerptLimit] + "..."
}

// sleepContext waits for the given duration or until the context finishes.
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
