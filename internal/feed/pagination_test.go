package feed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const base = "https://www.free-work.com"

func TestNextPageURLCanonicalizes(t *testing.T) {
	env := &Envelope{View: &View{Next: "/api/job_postings?order=date&page=2&itemsPerPage=1000&foo=bar"}}

	got, ok := NextPageURL(env, base)
	require.True(t, ok)
	// extra parameters dropped, remaining ones re-serialized deterministically
	require.Equal(t, "https://www.free-work.com/api/job_postings?itemsPerPage=1000&page=2", got)
}

func TestNextPageURLDefaultsItemsPerPage(t *testing.T) {
	env := &Envelope{View: &View{Next: "/api/job_postings?page=3"}}

	got, ok := NextPageURL(env, base)
	require.True(t, ok)
	require.Equal(t, "https://www.free-work.com/api/job_postings?itemsPerPage=1000&page=3", got)
}

func TestNextPageURLEndsPagination(t *testing.T) {
	cases := []struct {
		name string
		env  *Envelope
	}{
		{"nil envelope", nil},
		{"no view", &Envelope{}},
		{"empty next", &Envelope{View: &View{}}},
		{"missing page param", &Envelope{View: &View{Next: "/api/job_postings?itemsPerPage=1000"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := NextPageURL(tc.env, base)
			require.False(t, ok)
		})
	}
}

func TestPageURL(t *testing.T) {
	require.Equal(t,
		"https://www.free-work.com/api/job_postings?page=1&itemsPerPage=100",
		PageURL(base, 1, 100),
	)
}
