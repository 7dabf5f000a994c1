// Package pipeline orchestrates the extraction strategies: a static
// fetch parsed for an embedded structured payload, then for role-tagged
// markup, then a full browser render when the static strategies come up
// empty. Each stage is attempted once per call; stage failures are
// recorded, never silently discarded, and only the final outcome is
// surfaced.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/convoprint/convoprint"
)

// sampleBytes is how much of a fetched body is included in debug detail.
const sampleBytes = 256

// Ensure Pipeline implements convoprint.ConversationService at compile time.
var _ convoprint.ConversationService = (*Pipeline)(nil)

// Pipeline resolves share links into normalized conversations.
type Pipeline struct {
	fetcher  convoprint.Fetcher
	static   []convoprint.Extractor
	rendered convoprint.RenderedExtractor
	cfg      convoprint.Config
}

// New creates a Pipeline. Static extractors run in the given order
// against the fetched markup; rendered is the terminal fallback.
func New(fetcher convoprint.Fetcher, static []convoprint.Extractor, rendered convoprint.RenderedExtractor, cfg convoprint.Config) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		static:   static,
		rendered: rendered,
		cfg:      cfg,
	}
}

// Extract resolves a share link into a conversation. The URL must be on
// an allow-listed host; rejection happens before any network access.
// Fetch and static-parse failures advance to the next strategy; a
// rendering failure is terminal because no further fallback exists.
func (p *Pipeline) Extract(ctx context.Context, url string) (*convoprint.Conversation, error) {
	if !convoprint.IsAllowedHost(url) {
		return nil, convoprint.Errorf(convoprint.EINVALID, "URL host is not an allowed share-link host")
	}

	if p.cfg.SkipExtraction {
		return smokeConversation(url), nil
	}

	var reasons []string
	var fetched *convoprint.FetchResult

	if p.cfg.ForceRender {
		reasons = append(reasons, "static fetch skipped: rendering forced")
	} else {
		res, err := p.fetcher.Fetch(ctx, url)
		fetched = res
		if err != nil {
			reasons = append(reasons, "fetch: "+convoprint.ErrorMessage(err))
		} else {
			for _, extractor := range p.static {
				conv, extractErr := extractor.Extract(res.HTML, url)
				if extractErr != nil {
					reasons = append(reasons, "static: "+convoprint.ErrorMessage(extractErr))
					continue
				}
				return conv, nil
			}
		}
	}

	conv, err := p.rendered.ExtractRendered(ctx, url)
	if err != nil {
		if convoprint.ErrorCode(err) == convoprint.EUNPROCESSABLE {
			reasons = append(reasons, "rendered: "+convoprint.ErrorMessage(err))
			return nil, p.parseFailed(reasons, fetched)
		}
		return nil, err
	}
	return conv, nil
}

// parseFailed builds the terminal ParseFailed error. Diagnostic detail
// is attached only when debug diagnostics are enabled, so fetched
// content never leaks into error payloads by default.
func (p *Pipeline) parseFailed(reasons []string, fetched *convoprint.FetchResult) error {
	err := convoprint.Errorf(convoprint.EUNPROCESSABLE, "no extraction strategy produced any turns")
	if !p.cfg.Debug {
		return err
	}
	return convoprint.WithDetail(err, debugDetail(reasons, fetched))
}

// debugDetail summarizes what each strategy saw: the per-stage failure
// reasons plus the shape of the fetched body (content type, length,
// hash, and a short sample).
func debugDetail(reasons []string, fetched *convoprint.FetchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "stages: %s", strings.Join(reasons, "; "))
	if fetched != nil {
		sample := fetched.HTML
		if len(sample) > sampleBytes {
			sample = sample[:sampleBytes]
		}
		fmt.Fprintf(&b, "; status=%d content-type=%q bytes=%d body-hash=%016x sample=%q",
			fetched.StatusCode, fetched.ContentType, len(fetched.HTML),
			xxhash.Sum64String(fetched.HTML), sample)
	}
	return b.String()
}

// smokeConversation is the canned result returned when extraction is
// short-circuited for smoke-testing a deployment.
func smokeConversation(url string) *convoprint.Conversation {
	return &convoprint.Conversation{
		Title:        "Smoke Test",
		SourceURL:    url,
		CanonicalURL: url,
		FetchedAt:    time.Now().UTC(),
		Turns: []convoprint.Turn{
			{Role: convoprint.RoleAssistant, Content: "Extraction skipped: smoke-test mode is enabled.", Ord: 0},
		},
	}
}
