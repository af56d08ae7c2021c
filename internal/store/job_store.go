// Package store provides the Postgres-backed persistence layer for job
// postings.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"freework-ingest/internal/feed"
	"freework-ingest/internal/location"
)

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// PgxPool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// JobStore persists job postings keyed by their external listing id.
type JobStore struct {
	pool  PgxPool
	table string
}

// LocationRow is the projection used by the location migration.
type LocationRow struct {
	ID         int64
	Location   string
	City       *string
	Department *string
}

// NewJobStore connects to Postgres, pings the pool and ensures the postings
// table exists. A failed ping is a fatal connectivity error for the caller.
func NewJobStore(ctx context.Context, cfg Config) (*JobStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "freework_jobs"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &JobStore{pool: pool, table: table}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewJobStoreWithPool constructs a store from an existing pool (primarily for
// testing).
func NewJobStoreWithPool(pool PgxPool, table string) (*JobStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "freework_jobs"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &JobStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *JobStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *JobStore) ensureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id BIGINT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	city TEXT,
	department TEXT,
	company TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	candidate_profile TEXT NOT NULL DEFAULT '',
	skills JSONB NOT NULL DEFAULT '[]',
	experience_level TEXT NOT NULL DEFAULT '',
	duration TEXT NOT NULL DEFAULT '',
	remote_mode TEXT NOT NULL DEFAULT '',
	daily_salary TEXT NOT NULL DEFAULT '',
	starts_at TEXT NOT NULL DEFAULT '',
	expired_at TEXT NOT NULL DEFAULT '',
	published_at TEXT NOT NULL DEFAULT '',
	contracts JSONB NOT NULL DEFAULT '[]',
	source TEXT NOT NULL DEFAULT '',
	date TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	scraping BOOLEAN NOT NULL DEFAULT FALSE
)`, s.table)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Upsert inserts the record or fully replaces the existing row with the same
// id. City and department are the exception: once a stored row carries a
// non-empty classification it is kept, so re-ingestion never blanks out a
// location fixed by the migration pass.
func (s *JobStore) Upsert(ctx context.Context, rec feed.JobPosting) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("job store is not configured")
	}
	if rec.ID == 0 {
		return fmt.Errorf("record id is required")
	}

	skills := rec.Skills
	if skills == nil {
		skills = []feed.Skill{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}
	contracts := rec.Contracts
	if contracts == nil {
		contracts = []string{}
	}
	contractsJSON, err := json.Marshal(contracts)
	if err != nil {
		return fmt.Errorf("marshal contracts: %w", err)
	}

	query := fmt.Sprintf(`
INSERT INTO %s AS j (
	id, title, location, city, department, company, description,
	candidate_profile, skills, experience_level, duration, remote_mode,
	daily_salary, starts_at, expired_at, published_at, contracts, source,
	date, url, scraping
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21
)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	location = EXCLUDED.location,
	city = COALESCE(NULLIF(j.city, ''), EXCLUDED.city),
	department = COALESCE(NULLIF(j.department, ''), EXCLUDED.department),
	company = EXCLUDED.company,
	description = EXCLUDED.description,
	candidate_profile = EXCLUDED.candidate_profile,
	skills = EXCLUDED.skills,
	experience_level = EXCLUDED.experience_level,
	duration = EXCLUDED.duration,
	remote_mode = EXCLUDED.remote_mode,
	daily_salary = EXCLUDED.daily_salary,
	starts_at = EXCLUDED.starts_at,
	expired_at = EXCLUDED.expired_at,
	published_at = EXCLUDED.published_at,
	contracts = EXCLUDED.contracts,
	source = EXCLUDED.source,
	date = EXCLUDED.date,
	url = EXCLUDED.url,
	scraping = EXCLUDED.scraping`, s.table)

	args := []any{
		rec.ID,
		rec.Title,
		rec.Location,
		rec.City,
		rec.Department,
		rec.Company,
		rec.Description,
		rec.CandidateProfile,
		skillsJSON,
		rec.ExperienceLevel,
		rec.Duration,
		rec.RemoteMode,
		rec.DailySalary,
		rec.StartsAt,
		rec.ExpiredAt,
		rec.PublishedAt,
		contractsJSON,
		rec.Source,
		rec.Date,
		rec.URL,
		rec.Scraping,
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert posting %d: %w", rec.ID, err)
	}
	return nil
}

// MissingLocationRows returns the default migration scope: rows missing both
// city and department, plus rows whose stored city or department textually
// matches an international keyword (mislabeled legacy data). The stored text
// is folded to the keywords' canonical form before matching, so spellings
// like "Pays-Bas" or "États-Unis" are still caught.
func (s *JobStore) MissingLocationRows(ctx context.Context) ([]LocationRow, error) {
	query := fmt.Sprintf(`
SELECT id, COALESCE(location, ''), city, department
FROM %s
WHERE ((city IS NULL OR city = '') AND (department IS NULL OR department = ''))
	OR %s LIKE ANY($1)
	OR %s LIKE ANY($1)
ORDER BY id`, s.table, foldSQL("city"), foldSQL("department"))
	return s.locationRows(ctx, query, internationalPatterns())
}

// foldSQL rewrites a column into the canonical matching form used by the
// location classifier: lowercased, common French accents stripped, hyphens
// and apostrophes turned into spaces. Plain translate() so the unaccent
// extension is not required.
func foldSQL(column string) string {
	return fmt.Sprintf(`translate(lower(%s), 'àâäéèêëïîôöùûüç''’-', 'aaaeeeeiioouuuc   ')`, column)
}

// AllLocationRows returns every row, for the full-scan migration mode.
func (s *JobStore) AllLocationRows(ctx context.Context) ([]LocationRow, error) {
	query := fmt.Sprintf(`
SELECT id, COALESCE(location, ''), city, department
FROM %s
ORDER BY id`, s.table)
	return s.locationRows(ctx, query)
}

func (s *JobStore) locationRows(ctx context.Context, query string, args ...any) ([]LocationRow, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query location rows: %w", err)
	}
	defer rows.Close()

	var out []LocationRow
	for rows.Next() {
		var row LocationRow
		if err := rows.Scan(&row.ID, &row.Location, &row.City, &row.Department); err != nil {
			return nil, fmt.Errorf("scan location row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate location rows: %w", err)
	}
	return out, nil
}

// UpdateLocation rewrites the derived city and department of one row.
func (s *JobStore) UpdateLocation(ctx context.Context, id int64, city, department *string) error {
	query := fmt.Sprintf(`UPDATE %s SET city = $2, department = $3 WHERE id = $1`, s.table)
	if _, err := s.pool.Exec(ctx, query, id, city, department); err != nil {
		return fmt.Errorf("update location for %d: %w", id, err)
	}
	return nil
}

func internationalPatterns() []string {
	patterns := make([]string, 0, len(location.InternationalKeywords))
	for _, kw := range location.InternationalKeywords {
		patterns = append(patterns, "%"+kw+"%")
	}
	return patterns
}
