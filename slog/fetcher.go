// Package slog provides logging decorators for the domain interfaces.
// Each decorator delegates to a wrapped implementation and logs the
// operation, its duration, and its outcome.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/convoprint/convoprint"
)

// Ensure LoggingFetcher implements convoprint.Fetcher.
var _ convoprint.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   convoprint.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next convoprint.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *convoprint.FetchResult, err error) {
	defer func(begin time.Time) {
		var status, bytes int
		if res != nil {
			status = res.StatusCode
			bytes = len(res.HTML)
		}
		f.logger.Info("fetch",
			"url", url,
			"status", status,
			"bytes", bytes,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}
