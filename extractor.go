package convoprint

import "context"

// Markers that identify transcript content inside a page. Both the
// static extractors and the rendered-readiness checks key off these.
const (
	// TurnRoleAttr marks an element as one conversation turn; its value
	// is the author role.
	TurnRoleAttr = "data-turn-role"

	// StructuredPayloadSelector matches the embedded structured-data
	// script: the hydration payload by identifier, or any JSON-typed
	// script as a fallback. First match in document order wins.
	StructuredPayloadSelector = `script#__NEXT_DATA__, script[type="application/json"]`
)

// Extractor recovers a conversation from raw markup without executing
// any page logic. Implementations are pure: identical markup yields
// identical turns. Extractors return EUNPROCESSABLE when the markup
// holds no recognizable transcript; the pipeline records the reason
// and moves to the next strategy.
type Extractor interface {
	// Extract parses html fetched from sourceURL into a conversation.
	Extract(html string, sourceURL string) (*Conversation, error)
}

// RenderedExtractor recovers a conversation by fully executing the page
// inside a managed rendering session. It is the last extraction stage;
// its failures are terminal for the call.
type RenderedExtractor interface {
	// ExtractRendered navigates to the URL, waits for the page to
	// hydrate, and parses the rendered document.
	ExtractRendered(ctx context.Context, url string) (*Conversation, error)
}

// ConversationService is the extraction entry point.
type ConversationService interface {
	// Extract resolves a share link into a normalized conversation.
	// Returns EINVALID for non-allow-listed hosts, EUNPROCESSABLE when
	// every strategy is exhausted, and ETIMEOUT/EINTERNAL when the
	// rendering fallback itself fails.
	Extract(ctx context.Context, url string) (*Conversation, error)
}

// PDFService renders a conversation title and its turns to a printable
// PDF document.
type PDFService interface {
	// RenderPDF builds a styled document and prints it to PDF bytes.
	// An empty turn slice is valid and produces a document containing
	// only the title and export timestamp.
	RenderPDF(ctx context.Context, title string, turns []Turn) ([]byte, error)
}
