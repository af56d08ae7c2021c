package migrate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"freework-ingest/internal/store"
)

type fakeStore struct {
	missing []store.LocationRow
	all     []store.LocationRow
	updates map[int64][2]*string
	failOn  int64
}

func (s *fakeStore) MissingLocationRows(context.Context) ([]store.LocationRow, error) {
	return s.missing, nil
}

func (s *fakeStore) AllLocationRows(context.Context) ([]store.LocationRow, error) {
	return s.all, nil
}

func (s *fakeStore) UpdateLocation(_ context.Context, id int64, city, department *string) error {
	if s.failOn != 0 && id == s.failOn {
		return errors.New("write refused")
	}
	if s.updates == nil {
		s.updates = map[int64][2]*string{}
	}
	s.updates[id] = [2]*string{city, department}
	// Mirror the write so a second pass sees the stored state.
	for _, rows := range [][]store.LocationRow{s.missing, s.all} {
		for i := range rows {
			if rows[i].ID == id {
				rows[i].City = city
				rows[i].Department = department
			}
		}
	}
	return nil
}

func sp(s string) *string { return &s }

func TestRunFillsMissingLocations(t *testing.T) {
	st := &fakeStore{missing: []store.LocationRow{
		{ID: 1, Location: "Lyon, Rhône"},
		{ID: 2, Location: "Paris"},
		{ID: 3, Location: ""},
	}}
	m := NewMigrator(st, zap.NewNop())

	res, err := m.Run(context.Background(), Options{Apply: true})
	require.NoError(t, err)
	require.Equal(t, Result{Scanned: 3, Updated: 2, Skipped: 1}, res)

	require.Equal(t, "Lyon", *st.updates[1][0])
	require.Equal(t, "Rhone", *st.updates[1][1])
	require.Equal(t, "Paris", *st.updates[2][0])
	require.Nil(t, st.updates[2][1])
	require.NotContains(t, st.updates, int64(3)) // nothing derivable, nothing written
}

func TestRunKeepsExistingValues(t *testing.T) {
	st := &fakeStore{missing: []store.LocationRow{
		{ID: 4, Location: "Lyon, Rhône", City: sp("Villeurbanne"), Department: sp("Rhone")},
	}}
	m := NewMigrator(st, zap.NewNop())

	res, err := m.Run(context.Background(), Options{Apply: true})
	require.NoError(t, err)
	require.Equal(t, Result{Scanned: 1, Skipped: 1}, res)
	require.Empty(t, st.updates)
}

func TestRunRewritesInternationalLookingValues(t *testing.T) {
	st := &fakeStore{missing: []store.LocationRow{
		{ID: 5, Location: "Londres, Angleterre", City: sp("Londres"), Department: sp("Angleterre")},
	}}
	m := NewMigrator(st, zap.NewNop())

	res, err := m.Run(context.Background(), Options{Apply: true})
	require.NoError(t, err)
	require.Equal(t, Result{Scanned: 1, Updated: 1}, res)

	got := st.updates[5]
	require.Nil(t, got[0])
	require.Equal(t, "international", *got[1])
}

func TestRunRewritesHyphenatedCountryDepartment(t *testing.T) {
	st := &fakeStore{missing: []store.LocationRow{
		{ID: 14, Location: "Amsterdam, Pays-Bas", City: sp("Amsterdam"), Department: sp("Pays-Bas")},
	}}
	m := NewMigrator(st, zap.NewNop())

	res, err := m.Run(context.Background(), Options{Apply: true})
	require.NoError(t, err)
	require.Equal(t, Result{Scanned: 1, Updated: 1}, res)

	got := st.updates[14]
	require.Nil(t, got[0]) // a foreign city is not a city either
	require.Equal(t, "international", *got[1])
}

func TestRunFullScanForcesStrictDepartments(t *testing.T) {
	st := &fakeStore{all: []store.LocationRow{
		{ID: 6, Location: "Nantes, Centre ville", City: sp("Nantes"), Department: sp("Centre ville")},
		{ID: 7, Location: "Lyon, Rhône", City: sp("Lyon"), Department: sp("Rhone")},
	}}
	m := NewMigrator(st, zap.NewNop())

	res, err := m.Run(context.Background(), Options{Apply: true, FullScan: true})
	require.NoError(t, err)
	require.Equal(t, Result{Scanned: 2, Updated: 1, Skipped: 1}, res)

	require.Equal(t, "international", *st.updates[6][1])
	require.NotContains(t, st.updates, int64(7)) // Rhone is a valid department
}

func TestRunDryRunReportsWithoutWriting(t *testing.T) {
	st := &fakeStore{missing: []store.LocationRow{{ID: 8, Location: "Paris"}}}
	m := NewMigrator(st, zap.NewNop())

	res, err := m.Run(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, Result{Scanned: 1, Updated: 1}, res)
	require.Empty(t, st.updates)
}

func TestRunSecondApplyPassUpdatesNothing(t *testing.T) {
	st := &fakeStore{missing: []store.LocationRow{
		{ID: 9, Location: "Lyon, Rhône"},
		{ID: 10, Location: "Londres, Angleterre"},
	}}
	m := NewMigrator(st, zap.NewNop())

	first, err := m.Run(context.Background(), Options{Apply: true})
	require.NoError(t, err)
	require.Equal(t, 2, first.Updated)

	second, err := m.Run(context.Background(), Options{Apply: true})
	require.NoError(t, err)
	require.Equal(t, 0, second.Updated)
	require.Equal(t, 2, second.Skipped)
}

func TestRunContinuesAfterWriteFailure(t *testing.T) {
	st := &fakeStore{
		missing: []store.LocationRow{
			{ID: 11, Location: "Paris"},
			{ID: 12, Location: "Nantes"},
		},
		failOn: 11,
	}
	m := NewMigrator(st, zap.NewNop())

	res, err := m.Run(context.Background(), Options{Apply: true})
	require.NoError(t, err)
	require.Equal(t, 1, res.Updated) // the failed row is neither updated nor skipped
	require.Contains(t, st.updates, int64(12))
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := &fakeStore{missing: []store.LocationRow{{ID: 13, Location: "Paris"}}}
	_, err := NewMigrator(st, zap.NewNop()).Run(ctx, Options{})
	require.ErrorIs(t, err, context.Canceled)
}
