// Package metrics exposes Prometheus collectors for the ingest and migration
// tools.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ingestPagesTotal     *prometheus.CounterVec
	fetchRetriesTotal    *prometheus.CounterVec
	recordsUpsertedTotal prometheus.Counter
	recordsSkippedTotal  prometheus.Counter
	migrationRowsTotal   *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus collectors. It is safe to call multiple
// times; the Observe helpers call it implicitly.
func Init() {
	once.Do(func() {
		ingestPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freework_ingest_pages_total",
				Help: "Total number of listing pages processed, labeled by outcome.",
			},
			[]string{"status"},
		)

		fetchRetriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freework_fetch_retries_total",
				Help: "Total number of failed fetch attempts, labeled by failure reason.",
			},
			[]string{"reason"},
		)

		recordsUpsertedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "freework_records_upserted_total",
				Help: "Total number of job postings upserted.",
			},
		)

		recordsSkippedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "freework_records_skipped_total",
				Help: "Total number of listings skipped (no business key).",
			},
		)

		migrationRowsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "freework_migration_rows_total",
				Help: "Total number of rows touched by the location migration, labeled by result.",
			},
			[]string{"result"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage increments the page counter for the given outcome.
func ObservePage(status string) {
	Init()
	ingestPagesTotal.WithLabelValues(status).Inc()
}

// ObserveRetry increments the failed-attempt counter for the given reason.
func ObserveRetry(reason string) {
	Init()
	fetchRetriesTotal.WithLabelValues(reason).Inc()
}

// ObserveUpsert increments the upserted-records counter.
func ObserveUpsert() {
	Init()
	recordsUpsertedTotal.Inc()
}

// ObserveSkippedRecord increments the skipped-records counter.
func ObserveSkippedRecord() {
	Init()
	recordsSkippedTotal.Inc()
}

// ObserveMigrationRow increments the migration counter for the given result
// ("updated", "skipped" or "error").
func ObserveMigrationRow(result string) {
	Init()
	migrationRowsTotal.WithLabelValues(result).Inc()
}
