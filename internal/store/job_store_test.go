package store

import (
	"context"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"freework-ingest/internal/feed"
)

func newMockStore(t *testing.T) (pgxmock.PgxPoolIface, *JobStore) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	s, err := NewJobStoreWithPool(mock, "freework_jobs")
	require.NoError(t, err)
	return mock, s
}

func samplePosting() feed.JobPosting {
	return feed.JobPosting{
		ID:               123,
		Title:            "Data Engineer",
		Location:         "Lyon, Rhône",
		Company:          "Acme",
		Description:      "Pipelines",
		CandidateProfile: "N/A",
		Skills:           []feed.Skill{{Slug: "python", Descriptions: []string{"N/A"}}},
		ExperienceLevel:  "senior",
		Duration:         "6 months",
		RemoteMode:       "partial",
		DailySalary:      "500-650 €",
		StartsAt:         "N/A",
		ExpiredAt:        "N/A",
		PublishedAt:      "2026-08-01T09:00:00+02:00",
		Contracts:        []string{"contractor"},
		Source:           "freework",
		Date:             "2026-08-29",
		URL:              "https://www.free-work.com/fr/tech-it/data-engineer/job-mission/123",
	}
}

func TestUpsertExecutesInsertOnConflict(t *testing.T) {
	mock, s := newMockStore(t)
	rec := samplePosting()

	mock.ExpectExec("INSERT INTO freework_jobs").
		WithArgs(
			rec.ID,
			rec.Title,
			rec.Location,
			rec.City,
			rec.Department,
			rec.Company,
			rec.Description,
			rec.CandidateProfile,
			[]byte(`[{"slug":"python","descriptions":["N/A"]}]`),
			rec.ExperienceLevel,
			rec.Duration,
			rec.RemoteMode,
			rec.DailySalary,
			rec.StartsAt,
			rec.ExpiredAt,
			rec.PublishedAt,
			[]byte(`["contractor"]`),
			rec.Source,
			rec.Date,
			rec.URL,
			rec.Scraping,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Upsert(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRequiresBusinessKey(t *testing.T) {
	_, s := newMockStore(t)

	err := s.Upsert(context.Background(), feed.JobPosting{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "record id is required")
}

func TestUpsertMarshalsEmptyCollections(t *testing.T) {
	mock, s := newMockStore(t)
	rec := samplePosting()
	rec.Skills = nil
	rec.Contracts = nil

	mock.ExpectExec("INSERT INTO freework_jobs").
		WithArgs(
			rec.ID, rec.Title, rec.Location, rec.City, rec.Department,
			rec.Company, rec.Description, rec.CandidateProfile,
			[]byte(`[]`),
			rec.ExperienceLevel, rec.Duration, rec.RemoteMode, rec.DailySalary,
			rec.StartsAt, rec.ExpiredAt, rec.PublishedAt,
			[]byte(`[]`),
			rec.Source, rec.Date, rec.URL, rec.Scraping,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Upsert(context.Background(), rec))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingLocationRows(t *testing.T) {
	mock, s := newMockStore(t)

	rows := pgxmock.NewRows([]string{"id", "location", "city", "department"}).
		AddRow(int64(1), "Lyon, Rhône", nil, nil).
		AddRow(int64(2), "Londres, Angleterre", nil, nil)

	mock.ExpectQuery("SELECT id, COALESCE").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(rows)

	got, err := s.MissingLocationRows(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, "Lyon, Rhône", got[0].Location)
	require.Nil(t, got[0].City)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingLocationRowsFoldsStoredText(t *testing.T) {
	mock, s := newMockStore(t)

	dept := "Pays-Bas"
	rows := pgxmock.NewRows([]string{"id", "location", "city", "department"}).
		AddRow(int64(3), "Amsterdam, Pays-Bas", nil, &dept)

	// The stored columns must be folded in SQL before the keyword match, or
	// hyphenated and accented spellings never enter the scope.
	mock.ExpectQuery(`(?s)translate\(lower\(city\).*LIKE ANY\(\$1\).*translate\(lower\(department\).*LIKE ANY\(\$1\)`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(rows)

	got, err := s.MissingLocationRows(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Pays-Bas", *got[0].Department)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInternationalPatternsAreCanonical(t *testing.T) {
	patterns := internationalPatterns()
	require.Contains(t, patterns, "%pays bas%")
	require.Contains(t, patterns, "%royaume uni%")
	require.Contains(t, patterns, "%etats unis%")
	for _, p := range patterns {
		require.Equal(t, strings.ToLower(p), p, "pattern %q must match folded text", p)
	}
}

func TestAllLocationRows(t *testing.T) {
	mock, s := newMockStore(t)

	city := "Paris"
	rows := pgxmock.NewRows([]string{"id", "location", "city", "department"}).
		AddRow(int64(9), "Paris", &city, nil)

	mock.ExpectQuery("SELECT id, COALESCE").WillReturnRows(rows)

	got, err := s.AllLocationRows(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Paris", *got[0].City)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLocation(t *testing.T) {
	mock, s := newMockStore(t)

	city := "Lyon"
	department := "Rhone"
	mock.ExpectExec("UPDATE freework_jobs SET city").
		WithArgs(int64(7), &city, &department).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, s.UpdateLocation(context.Background(), 7, &city, &department))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewJobStoreWithPoolValidatesTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = NewJobStoreWithPool(mock, "drop table; --")
	require.Error(t, err)

	_, err = NewJobStoreWithPool(nil, "freework_jobs")
	require.Error(t, err)
}
