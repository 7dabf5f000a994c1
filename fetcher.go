package convoprint

import "context"

// FetchResult holds the raw outcome of a static page fetch.
type FetchResult struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// ContentType is the response Content-Type header, if any.
	ContentType string

	// HTML is the raw response body.
	HTML string
}

// Fetcher retrieves raw markup from URLs with a single unauthenticated
// GET. Implementations never retry; a failed fetch is reported so the
// pipeline can advance to the rendering fallback.
type Fetcher interface {
	// Fetch issues one GET for the URL and returns the raw markup.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}
