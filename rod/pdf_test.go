package rod_test

import (
	"strings"
	"testing"
	"time"

	"github.com/convoprint/convoprint"
	"github.com/convoprint/convoprint/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDocument(t *testing.T) {
	t.Parallel()

	exportedAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("escapes user-supplied text", func(t *testing.T) {
		t.Parallel()

		turns := []convoprint.Turn{
			{Role: convoprint.RoleUser, Content: `<script>alert("x")</script>`, Ord: 0},
		}

		doc := rod.BuildDocument(`Title <&> "quoted"`, turns, exportedAt)

		assert.NotContains(t, doc, "<script>alert")
		assert.Contains(t, doc, "&lt;script&gt;")
		assert.Contains(t, doc, "Title &lt;&amp;&gt;")
	})

	t.Run("empty turn list is a valid document", func(t *testing.T) {
		t.Parallel()

		doc := rod.BuildDocument("Empty Chat", nil, exportedAt)

		assert.Contains(t, doc, "<h1>Empty Chat</h1>")
		assert.Contains(t, doc, "Exported 2025-03-14 09:30 UTC")
		assert.NotContains(t, doc, `class="turn"`)
	})

	t.Run("fenced segments become preformatted blocks", func(t *testing.T) {
		t.Parallel()

		turns := []convoprint.Turn{
			{Role: convoprint.RoleAssistant, Content: "Before\n```\nx := <1>\n```\nAfter", Ord: 0},
		}

		doc := rod.BuildDocument("Chat", turns, exportedAt)

		assert.Contains(t, doc, "<pre>x := &lt;1&gt;</pre>")
		assert.Contains(t, doc, "Before<br>")
		assert.Contains(t, doc, "<br>After")
	})

	t.Run("newlines outside fences become line breaks", func(t *testing.T) {
		t.Parallel()

		turns := []convoprint.Turn{
			{Role: convoprint.RoleUser, Content: "line one\nline two", Ord: 0},
		}

		doc := rod.BuildDocument("Chat", turns, exportedAt)

		assert.Contains(t, doc, "line one<br>line two")
	})

	t.Run("role labels are uppercased", func(t *testing.T) {
		t.Parallel()

		turns := []convoprint.Turn{
			{Role: convoprint.RoleAssistant, Content: "hi", Ord: 0},
		}

		doc := rod.BuildDocument("Chat", turns, exportedAt)

		assert.Contains(t, doc, `<div class="role">ASSISTANT</div>`)
	})

	t.Run("turns appear in order", func(t *testing.T) {
		t.Parallel()

		turns := []convoprint.Turn{
			{Role: convoprint.RoleUser, Content: "first", Ord: 0},
			{Role: convoprint.RoleAssistant, Content: "second", Ord: 1},
		}

		doc := rod.BuildDocument("Chat", turns, exportedAt)

		require.Less(t, strings.Index(doc, "first"), strings.Index(doc, "second"))
	})
}

func TestSuggestFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world.pdf"},
		{"  Mixed CASE  Title!  ", "mixed-case-title.pdf"},
		{"C++ & Go: a comparison", "c-go-a-comparison.pdf"},
		{"---", "conversation.pdf"},
		{"", "conversation.pdf"},
		{"русский текст", "conversation.pdf"},
		{"already-slugged", "already-slugged.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, rod.SuggestFilename(tt.title), "SuggestFilename(%q)", tt.title)
	}
}
