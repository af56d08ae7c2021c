package feed

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// FetchResult captures the outcome of one HTTP attempt.
type FetchResult struct {
	StatusCode int
	Body       []byte
	// RedirectLocation holds the Location header when the server answered
	// with a redirect (redirects are not followed).
	RedirectLocation string
}

// Fetcher issues a single GET request. Retrying is the caller's concern.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers http.Header) (FetchResult, error)
}

// CollyFetcher implements Fetcher using the Colly collector.
type CollyFetcher struct {
	baseCollector *colly.Collector
	transport     http.RoundTripper
	timeout       time.Duration
}

// NewCollyFetcher builds a CollyFetcher with a pooled transport.
func NewCollyFetcher(timeout time.Duration) *CollyFetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	c := colly.NewCollector(colly.Async(false))
	transport := newHTTPTransport()
	c.WithTransport(transport)
	return &CollyFetcher{
		baseCollector: c,
		transport:     transport,
		timeout:       timeout,
	}
}

// Fetch executes a single HTTP GET using a cloned collector. Non-200 statuses
// are returned as a FetchResult, not an error; redirects are surfaced with
// their Location target instead of being followed.
func (f *CollyFetcher) Fetch(ctx context.Context, url string, headers http.Header) (FetchResult, error) {
	collector := f.baseCollector.Clone()
	collector.AllowURLRevisit = true
	collector.ParseHTTPErrorResponse = true
	collector.SetRequestTimeout(f.timeout)
	collector.WithTransport(f.transport)
	collector.SetRedirectHandler(func(_ *http.Request, _ []*http.Request) error {
		return http.ErrUseLastResponse
	})

	var (
		result   FetchResult
		fetchErr error
	)

	collector.OnRequest(func(r *colly.Request) {
		for key, values := range headers {
			for _, v := range values {
				r.Headers.Add(key, v)
			}
		}
	})
	collector.OnResponse(func(r *colly.Response) {
		result = FetchResult{
			StatusCode:       r.StatusCode,
			Body:             append([]byte(nil), r.Body...),
			RedirectLocation: r.Headers.Get("Location"),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			result.StatusCode = r.StatusCode
			result.Body = append([]byte(nil), r.Body...)
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return FetchResult{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return FetchResult{}, fmt.Errorf("visit %s: %w", url, err)
		}
		if fetchErr != nil {
			return FetchResult{}, fmt.Errorf("fetch %s: %w", url, fetchErr)
		}
		return result, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
