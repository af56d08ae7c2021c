// Package migrate re-derives the city and department of stored postings from
// their raw location text.
package migrate

import (
	"context"

	"go.uber.org/zap"

	"freework-ingest/internal/location"
	"freework-ingest/internal/metrics"
	"freework-ingest/internal/store"
)

// Store is the persistence surface the migration needs.
type Store interface {
	MissingLocationRows(ctx context.Context) ([]store.LocationRow, error)
	AllLocationRows(ctx context.Context) ([]store.LocationRow, error)
	UpdateLocation(ctx context.Context, id int64, city, department *string) error
}

// Options selects the scan scope and whether changes are written.
type Options struct {
	// Apply writes changes; the default is a dry run that only reports them.
	Apply bool
	// FullScan visits every row and re-validates departments against the
	// closed French set instead of only filling gaps.
	FullScan bool
}

// Result counts what one pass did. Updated includes dry-run intended changes.
type Result struct {
	Scanned int
	Updated int
	Skipped int
}

// Migrator runs location migration passes.
type Migrator struct {
	store  Store
	logger *zap.Logger
}

// NewMigrator constructs a Migrator.
func NewMigrator(st Store, logger *zap.Logger) *Migrator {
	return &Migrator{store: st, logger: logger}
}

// Run executes one migration pass. Rows that already carry the computed
// values are skipped; a failed write is logged and the scan continues. Running
// the same pass twice in apply mode updates nothing the second time.
func (m *Migrator) Run(ctx context.Context, opts Options) (Result, error) {
	var (
		rows []store.LocationRow
		err  error
	)
	if opts.FullScan {
		rows, err = m.store.AllLocationRows(ctx)
	} else {
		rows, err = m.store.MissingLocationRows(ctx)
	}
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Scanned++

		newCity, newDepartment := m.compute(row, opts.FullScan)
		if ptrEqual(newCity, row.City) && ptrEqual(newDepartment, row.Department) {
			res.Skipped++
			metrics.ObserveMigrationRow("skipped")
			continue
		}

		fields := []zap.Field{
			zap.Int64("id", row.ID),
			zap.String("location", row.Location),
			zap.Stringp("city", newCity),
			zap.Stringp("department", newDepartment),
		}
		if !opts.Apply {
			m.logger.Info("dry-run: would update location", fields...)
			res.Updated++
			metrics.ObserveMigrationRow("updated")
			continue
		}
		if err := m.store.UpdateLocation(ctx, row.ID, newCity, newDepartment); err != nil {
			m.logger.Warn("location update failed", zap.Int64("id", row.ID), zap.Error(err))
			metrics.ObserveMigrationRow("error")
			continue
		}
		m.logger.Info("location updated", fields...)
		res.Updated++
		metrics.ObserveMigrationRow("updated")
	}

	m.logger.Info("migration finished",
		zap.Int("scanned", res.Scanned),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
		zap.Bool("apply", opts.Apply),
		zap.Bool("full_scan", opts.FullScan),
	)
	return res, nil
}

// compute derives the target (city, department) for one row. Existing
// non-empty values win over freshly derived ones, with two exceptions: values
// that look like country names are rederived, and full-scan mode forces
// unrecognized departments to the international marker.
func (m *Migrator) compute(row store.LocationRow, fullScan bool) (*string, *string) {
	var derivedCity, derivedDepartment *string
	if fullScan {
		derivedCity, derivedDepartment = location.ClassifyStrict(row.Location)
	} else {
		derivedCity, derivedDepartment = location.Classify(row.Location)
	}

	newCity := normalizePtr(row.City)
	if newCity == nil || location.MatchesInternational(*newCity) {
		newCity = derivedCity
	}
	newDepartment := normalizePtr(row.Department)
	if newDepartment == nil ||
		(*newDepartment != location.International && location.MatchesInternational(*newDepartment)) {
		newDepartment = derivedDepartment
	}
	if fullScan {
		newDepartment = location.StrictDepartment(newDepartment)
	}
	return newCity, newDepartment
}

func normalizePtr(value *string) *string {
	if value == nil {
		return nil
	}
	return location.Normalize(*value)
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
