package crawler

import (
	"context"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent identifies seoscan requests to crawled servers.
const DefaultUserAgent = "SEO-Bot/1.0 (+https://github.com/nao1215/seoscan)"

// Fetcher retrieves pages over HTTP with a bounded timeout.
//
// Design decision: Fetch reports success with a boolean rather than an
// error because the crawl treats every kind of failure the same way: the
// page contributes no content and no links, and the traversal moves on.
// Collapsing transport errors, timeouts, and bad status codes into a single
// "not available" signal keeps that policy in one place.
type Fetcher struct {
	// client performs the requests. Built from timeout unless an
	// external client is supplied.
	client *http.Client

	// timeout bounds each request end to end.
	timeout time.Duration

	// userAgent is sent as the User-Agent header.
	userAgent string

	// maxBodySize limits how many response bytes are read.
	maxBodySize int64
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithHTTPClient replaces the HTTP client entirely.
// The supplied client's own timeout wins over WithTimeout.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// NewFetcher creates a Fetcher with a 5 second timeout, the seoscan
// User-Agent, and a 10MB body cap.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		timeout:     5 * time.Second,
		userAgent:   DefaultUserAgent,
		maxBodySize: 10 * 1024 * 1024, // 10MB
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}

	return f
}

// Fetch performs a GET request and returns the response body.
// The second return value is false when the page could not be retrieved
// for any reason: connection failure, timeout, a status other than 200,
// or an unreadable body.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false
	}
	defer resp.Body.Close()

	// Only a plain 200 counts. Redirects are already followed by the
	// client, so anything else left here carries no crawlable content.
	if resp.StatusCode != http.StatusOK {
		return nil, false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, false
	}

	return body, true
}
