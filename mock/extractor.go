package mock

import (
	"context"

	"github.com/convoprint/convoprint"
)

var (
	_ convoprint.Extractor         = (*Extractor)(nil)
	_ convoprint.RenderedExtractor = (*RenderedExtractor)(nil)
)

// Extractor is a mock implementation of convoprint.Extractor.
type Extractor struct {
	ExtractFn func(html string, sourceURL string) (*convoprint.Conversation, error)
}

func (e *Extractor) Extract(html string, sourceURL string) (*convoprint.Conversation, error) {
	return e.ExtractFn(html, sourceURL)
}

// RenderedExtractor is a mock implementation of convoprint.RenderedExtractor.
type RenderedExtractor struct {
	ExtractRenderedFn func(ctx context.Context, url string) (*convoprint.Conversation, error)
}

func (e *RenderedExtractor) ExtractRendered(ctx context.Context, url string) (*convoprint.Conversation, error) {
	return e.ExtractRenderedFn(ctx, url)
}
