// Package mock provides function-field mock implementations of the
// domain interfaces for use in tests.
package mock

import (
	"context"

	"github.com/convoprint/convoprint"
)

var _ convoprint.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of convoprint.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*convoprint.FetchResult, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*convoprint.FetchResult, error) {
	return f.FetchFn(ctx, url)
}
