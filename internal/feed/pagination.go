package feed

import (
	"fmt"
	"net/url"
)

const (
	listingsPath        = "/api/job_postings"
	defaultItemsPerPage = "1000"
)

// PageURL builds the request URL for a given page and page size.
func PageURL(base string, page, itemsPerPage int) string {
	return fmt.Sprintf("%s%s?page=%d&itemsPerPage=%d", base, listingsPath, page, itemsPerPage)
}

// NextPageURL extracts the next-page link from the envelope and canonicalizes
// it: only the page and itemsPerPage parameters are kept (the latter defaults
// to 1000 when missing), so extra or reordered upstream parameters cannot
// cause URL drift across runs. Returns false when pagination ends.
func NextPageURL(env *Envelope, base string) (string, bool) {
	if env == nil || env.View == nil || env.View.Next == "" {
		return "", false
	}
	next, err := url.Parse(env.View.Next)
	if err != nil {
		return "", false
	}
	q := next.Query()
	page := q.Get("page")
	if page == "" {
		return "", false
	}
	items := q.Get("itemsPerPage")
	if items == "" {
		items = defaultItemsPerPage
	}

	canonical := url.Values{}
	canonical.Set("page", page)
	canonical.Set("itemsPerPage", items)
	return base + listingsPath + "?" + canonical.Encode(), true
}
