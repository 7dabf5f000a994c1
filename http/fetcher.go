// Package http provides the static-fetch implementation of
// convoprint.Fetcher: one unauthenticated GET with browser-like headers,
// suitable for pages whose transcript is server-rendered or embedded as
// a structured payload.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/convoprint/convoprint"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with the rod navigation default (10s).
const DefaultFetchTimeout = 10 * time.Second

// Browser-like request headers. Share-link hosts serve a reduced or
// blocked page to clients that do not look like a browser.
const (
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	accept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	language  = "en-US,en;q=0.9"
)

// Ensure Fetcher implements convoprint.Fetcher at compile time.
var _ convoprint.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw markup over plain HTTP. It does not execute
// JavaScript and never retries; a failure simply advances the pipeline
// to the rendering fallback.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch issues one GET for the URL and returns the raw markup. Network
// errors and non-success statuses are reported as EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*convoprint.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, convoprint.Errorf(convoprint.EINVALID, "invalid request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", language)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, convoprint.Errorf(convoprint.EUNAVAILABLE, "fetch failed for %s: %v", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, convoprint.Errorf(convoprint.EUNAVAILABLE, "reading response body for %s: %v", url, err)
	}

	result := &convoprint.FetchResult{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		HTML:        string(body),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, convoprint.Errorf(convoprint.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}

	return result, nil
}
