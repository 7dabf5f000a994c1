package goquery

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/convoprint/convoprint"
)

// schemaProbe names one known path to a turn collection inside the
// structured payload. Probes are tried in fixed priority order; the
// first probe that is present and yields at least one valid turn wins,
// and later probes are not consulted even if present.
type schemaProbe struct {
	name string
	path []string
}

var schemaProbes = []schemaProbe{
	{"server-response-messages", []string{"props", "pageProps", "serverResponse", "messages"}},
	{"server-response-linear", []string{"props", "pageProps", "serverResponse", "data", "linear_conversation"}},
	{"server-response-mapping", []string{"props", "pageProps", "serverResponse", "data", "mapping"}},
	{"state-conversation-messages", []string{"state", "conversation", "messages"}},
	{"messages", []string{"messages"}},
	{"turns", []string{"turns"}},
}

// Ensure StructuredExtractor implements convoprint.Extractor at compile time.
var _ convoprint.Extractor = (*StructuredExtractor)(nil)

// StructuredExtractor recovers conversations from a machine-readable
// payload embedded in the page, probing a fixed list of known schema
// shapes.
type StructuredExtractor struct{}

// NewStructuredExtractor creates a new StructuredExtractor.
func NewStructuredExtractor() *StructuredExtractor {
	return &StructuredExtractor{}
}

// Extract locates the embedded payload and applies the schema probes
// in priority order.
func (e *StructuredExtractor) Extract(htmlSrc string, sourceURL string) (*convoprint.Conversation, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, convoprint.Errorf(convoprint.EINVALID, "failed to parse HTML: %v", err)
	}

	payload := strings.TrimSpace(doc.Find(convoprint.StructuredPayloadSelector).First().Text())
	if payload == "" {
		return nil, convoprint.Errorf(convoprint.EUNPROCESSABLE, "no structured payload found")
	}

	var root json.RawMessage
	if err := json.Unmarshal([]byte(payload), &root); err != nil {
		return nil, convoprint.Errorf(convoprint.EUNPROCESSABLE, "structured payload is not valid JSON: %v", err)
	}

	for _, probe := range schemaProbes {
		raw, ok := walkPath(root, probe.path)
		if !ok {
			continue
		}
		conv := newConversation(doc, sourceURL)
		appendProbeTurns(conv, raw)
		if len(conv.Turns) > 0 {
			return conv, nil
		}
	}

	return nil, convoprint.Errorf(convoprint.EUNPROCESSABLE, "no schema probe matched the structured payload")
}

// walkPath descends through nested JSON objects along path. Returns
// false if any step is missing or not an object.
func walkPath(raw json.RawMessage, path []string) (json.RawMessage, bool) {
	cur := raw
	for _, key := range path {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(cur, &obj); err != nil {
			return nil, false
		}
		next, ok := obj[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// appendProbeTurns resolves a probe result into turns. The result is
// either an ordered list of message nodes or a keyed mapping whose
// values each wrap a message node one level down. Elements whose
// resolved role or text is empty are dropped.
func appendProbeTurns(conv *convoprint.Conversation, raw json.RawMessage) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		var ok bool
		list, ok = orderedObjectValues(raw)
		if !ok {
			return
		}
	}

	for _, item := range list {
		role, text, ok := resolveTurn(item)
		if !ok {
			continue
		}
		conv.AppendTurn(role, text)
	}
}

// orderedObjectValues decodes a JSON object into its values in document
// order. A plain map would randomize ordering, which breaks the
// turn-order invariant for keyed-mapping payloads.
func orderedObjectValues(raw json.RawMessage) ([]json.RawMessage, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil, false
	}

	var values []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil, false
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// messageNode mirrors the fields a turn may carry across the known
// payload shapes.
type messageNode struct {
	Author *struct {
		Role string `json:"role"`
	} `json:"author"`
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
	Text    string          `json:"text"`
	Message json.RawMessage `json:"message"`
}

// resolveTurn reads the role and text of one message node. Mapping
// values wrap the message object one level down; when a nested message
// is present it is resolved instead of the wrapper.
func resolveTurn(raw json.RawMessage) (convoprint.Role, string, bool) {
	var node messageNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return "", "", false
	}

	if len(node.Message) > 0 && !bytes.Equal(node.Message, []byte("null")) {
		return resolveTurn(node.Message)
	}

	rawRole := node.Role
	if node.Author != nil && node.Author.Role != "" {
		rawRole = node.Author.Role
	}
	role := convoprint.ParseRole(rawRole)
	if role == "" {
		return "", "", false
	}

	text := resolveText(node)
	if strings.TrimSpace(text) == "" {
		return "", "", false
	}
	return role, text, true
}

// resolveText reads the message text: a parts-list join, then singular
// text/content fields, in that fallback order.
func resolveText(node messageNode) string {
	if len(node.Content) > 0 {
		var content struct {
			Parts []json.RawMessage `json:"parts"`
			Text  string            `json:"text"`
		}
		if err := json.Unmarshal(node.Content, &content); err == nil {
			if len(content.Parts) > 0 {
				if joined := joinParts(content.Parts); joined != "" {
					return joined
				}
			}
			if content.Text != "" {
				return content.Text
			}
		}
		var s string
		if err := json.Unmarshal(node.Content, &s); err == nil && s != "" {
			return s
		}
	}
	return node.Text
}

// joinParts joins the string members of a parts list with newlines.
// Non-string parts (tool payloads, images) are skipped.
func joinParts(parts []json.RawMessage) string {
	var out []string
	for _, p := range parts {
		var s string
		if err := json.Unmarshal(p, &s); err == nil && s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "\n")
}
