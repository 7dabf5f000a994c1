//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/convoprint/convoprint"
	"github.com/convoprint/convoprint/goquery"
	"github.com/convoprint/convoprint/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRenderedExtractor(t *testing.T) (*rod.Extractor, *rod.Pool) {
	t.Helper()
	pool := rod.NewPool(rod.WithLimit(1))
	t.Cleanup(func() { pool.Shutdown() })
	extractor := rod.NewExtractor(
		pool,
		goquery.NewStructuredExtractor(),
		goquery.NewDOMExtractor(),
		rod.WithReadyTimeout(2*time.Second),
	)
	return extractor, pool
}

func TestExtractor_ExtractRendered_StructuredPayload(t *testing.T) {
	t.Parallel()

	srv := servePage(t, `<!DOCTYPE html><html><head><title>Shared Chat</title></head><body>
<script id="__NEXT_DATA__" type="application/json">{"messages":[
{"author":{"role":"user"},"content":{"parts":["Hi"]}},
{"author":{"role":"assistant"},"content":{"parts":["Hello"]}}
]}</script>
</body></html>`)

	extractor, pool := newRenderedExtractor(t)

	conv, err := extractor.ExtractRendered(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, "Hi", conv.Turns[0].Content)
	assert.Equal(t, "Hello", conv.Turns[1].Content)
	assert.Zero(t, pool.InUse(), "session must be released after extraction")
}

func TestExtractor_ExtractRendered_ScriptInjectedMarkers(t *testing.T) {
	t.Parallel()

	// Turn markers appear only after client-side script runs, which is
	// exactly the case the rendering fallback exists for.
	srv := servePage(t, `<!DOCTYPE html><html><head><title>Shared Chat</title></head><body>
<div id="root"></div>
<script>
document.getElementById("root").innerHTML =
  '<div data-turn-role="user">Question</div><div data-turn-role="assistant">Answer</div>';
</script>
</body></html>`)

	extractor, pool := newRenderedExtractor(t)

	conv, err := extractor.ExtractRendered(context.Background(), srv.URL)

	require.NoError(t, err)
	require.Len(t, conv.Turns, 2)
	assert.Equal(t, convoprint.RoleUser, conv.Turns[0].Role)
	assert.Equal(t, "Question", conv.Turns[0].Content)
	assert.Equal(t, "Answer", conv.Turns[1].Content)
	assert.Zero(t, pool.InUse())
}

func TestExtractor_ExtractRendered_NoTurnsAnywhere(t *testing.T) {
	t.Parallel()

	srv := servePage(t, `<!DOCTYPE html><html><body><p>nothing to extract</p></body></html>`)

	extractor, pool := newRenderedExtractor(t)

	_, err := extractor.ExtractRendered(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Equal(t, convoprint.EUNPROCESSABLE, convoprint.ErrorCode(err))
	assert.Zero(t, pool.InUse(), "session must be released on failure paths too")
}
