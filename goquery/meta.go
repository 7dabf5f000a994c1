// Package goquery provides the static extraction strategies: recovering
// conversations from an embedded structured payload or from role-tagged
// markup, without executing any page logic. Both extractors are pure
// functions of their input markup.
package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/convoprint/convoprint"
)

// DefaultTitle is used when neither the social-preview meta tag nor the
// document title carries a usable value.
const DefaultTitle = "Conversation"

// newConversation builds a conversation shell with title, model, and
// canonical URL resolved from page metadata. Turns are appended by the
// caller.
func newConversation(doc *goquery.Document, sourceURL string) *convoprint.Conversation {
	return &convoprint.Conversation{
		Title:        pageTitle(doc),
		Model:        metaContent(doc, `meta[name="model"]`),
		SourceURL:    sourceURL,
		CanonicalURL: canonicalURL(doc, sourceURL),
		FetchedAt:    time.Now().UTC(),
	}
}

// pageTitle resolves the conversation title: social-preview meta tag,
// then document title, then DefaultTitle.
func pageTitle(doc *goquery.Document) string {
	if t := metaContent(doc, `meta[property="og:title"]`); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return DefaultTitle
}

// canonicalURL resolves the canonical share URL from the og:url meta
// tag, falling back to the source URL.
func canonicalURL(doc *goquery.Document, sourceURL string) string {
	if u := metaContent(doc, `meta[property="og:url"]`); u != "" {
		return u
	}
	return sourceURL
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
