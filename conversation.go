package convoprint

import (
	"strings"
	"time"
)

// Role identifies the author of a conversation turn.
type Role string

// Known turn roles. Source documents occasionally carry roles outside
// this set; those are preserved as RoleUnknown rather than dropped.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
	RoleUnknown   Role = "unknown"
)

// ParseRole maps a raw role string from a source document onto a known
// Role. Unrecognized non-empty values map to RoleUnknown; the empty
// string maps to the empty Role so callers can apply their own default.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser
	case "assistant":
		return RoleAssistant
	case "system":
		return RoleSystem
	case "tool":
		return RoleTool
	case "":
		return Role("")
	}
	return RoleUnknown
}

// Turn is one message attributed to a role within a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Ord     int    `json:"ord"`
}

// Conversation is a normalized chat transcript extracted from a share link.
// Turns preserve source order; they are never reordered or deduplicated.
type Conversation struct {
	Title        string    `json:"title"`
	Model        string    `json:"model,omitempty"`
	SourceURL    string    `json:"source"`
	CanonicalURL string    `json:"canonical_url"`
	FetchedAt    time.Time `json:"fetched_at"`
	Turns        []Turn    `json:"turns"`
}

// Validate returns an error if the conversation violates its invariants:
// a source URL is required, ord values must equal the turn's index, and
// turn content must be non-empty.
func (c *Conversation) Validate() error {
	if c.SourceURL == "" {
		return Errorf(EINVALID, "conversation source URL required")
	}
	for i, turn := range c.Turns {
		if turn.Ord != i {
			return Errorf(EINVALID, "turn %d has ord %d", i, turn.Ord)
		}
		if turn.Content == "" {
			return Errorf(EINVALID, "turn %d has empty content", i)
		}
	}
	return nil
}

// AppendTurn normalizes content and appends a turn with the next ord.
// Whitespace-only content is dropped before a turn is constructed, so
// the append is a no-op in that case.
func (c *Conversation) AppendTurn(role Role, content string) {
	content = NormalizeContent(content)
	if content == "" {
		return
	}
	c.Turns = append(c.Turns, Turn{Role: role, Content: content, Ord: len(c.Turns)})
}

// NormalizeContent converts non-breaking spaces to regular spaces and
// trims surrounding whitespace. Code fences inside the content are left
// untouched.
func NormalizeContent(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}
