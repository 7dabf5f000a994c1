package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/convoprint/convoprint"
	"golang.org/x/net/html"
)

// Ensure DOMExtractor implements convoprint.Extractor at compile time.
var _ convoprint.Extractor = (*DOMExtractor)(nil)

// DOMExtractor recovers conversations by scanning markup for elements
// tagged with a turn-role marker, in document order. It works on both
// server-rendered and browser-rendered snapshots.
type DOMExtractor struct{}

// NewDOMExtractor creates a new DOMExtractor.
func NewDOMExtractor() *DOMExtractor {
	return &DOMExtractor{}
}

// Extract parses html and returns one turn per role-tagged element.
// Elements whose flattened text is empty are dropped; an element with
// an empty marker value defaults to the assistant role.
func (e *DOMExtractor) Extract(htmlSrc string, sourceURL string) (*convoprint.Conversation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, convoprint.Errorf(convoprint.EINVALID, "failed to parse HTML: %v", err)
	}

	conv := newConversation(doc, sourceURL)

	doc.Find("[" + convoprint.TurnRoleAttr + "]").Each(func(_ int, sel *goquery.Selection) {
		role := convoprint.ParseRole(sel.AttrOr(convoprint.TurnRoleAttr, ""))
		if role == "" {
			role = convoprint.RoleAssistant
		}
		conv.AppendTurn(role, flattenWithFences(sel))
	})

	if len(conv.Turns) == 0 {
		return nil, convoprint.Errorf(convoprint.EUNPROCESSABLE, "no turn-role markers found")
	}
	return conv, nil
}

// flattenWithFences extracts the plain text of a selection, replacing
// every preformatted descendant with a fenced code block so the
// flattened text still signals code boundaries.
func flattenWithFences(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeNodeText(&b, n)
	}
	return b.String()
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && n.Data == "pre" {
		b.WriteString("\n```\n")
		b.WriteString(nodeText(n))
		b.WriteString("\n```\n")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(b, c)
	}
}

// nodeText returns the concatenated text content of a node subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
