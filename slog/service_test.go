package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/convoprint/convoprint"
	convoslog "github.com/convoprint/convoprint/slog"
	"github.com/convoprint/convoprint/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingConversationService_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs url and turn count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ConversationService{
			ExtractFn: func(ctx context.Context, url string) (*convoprint.Conversation, error) {
				return &convoprint.Conversation{
					SourceURL: url,
					Turns: []convoprint.Turn{
						{Role: convoprint.RoleUser, Content: "Hi", Ord: 0},
						{Role: convoprint.RoleAssistant, Content: "Hello", Ord: 1},
					},
				}, nil
			},
		}

		svc := convoslog.NewLoggingConversationService(inner, logger)
		conv, err := svc.Extract(context.Background(), "https://chatgpt.com/share/abc")

		require.NoError(t, err)
		assert.Len(t, conv.Turns, 2)
		output := buf.String()
		assert.Contains(t, output, "extract")
		assert.Contains(t, output, "url=https://chatgpt.com/share/abc")
		assert.Contains(t, output, "turns=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error with zero turns", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.ConversationService{
			ExtractFn: func(ctx context.Context, url string) (*convoprint.Conversation, error) {
				return nil, convoprint.Errorf(convoprint.EUNPROCESSABLE, "no extraction strategy produced any turns")
			},
		}

		svc := convoslog.NewLoggingConversationService(inner, logger)
		_, err := svc.Extract(context.Background(), "https://chatgpt.com/share/abc")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "turns=0")
		assert.Contains(t, output, "no extraction strategy produced any turns")
	})
}

func TestLoggingPDFService_RenderPDF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	inner := &mock.PDFService{
		RenderPDFFn: func(ctx context.Context, title string, turns []convoprint.Turn) ([]byte, error) {
			return []byte("%PDF-1.4 fake"), nil
		},
	}

	svc := convoslog.NewLoggingPDFService(inner, logger)
	pdf, err := svc.RenderPDF(context.Background(), "Shared Chat", []convoprint.Turn{
		{Role: convoprint.RoleUser, Content: "Hi", Ord: 0},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	output := buf.String()
	assert.Contains(t, output, "render pdf")
	assert.Contains(t, output, "title=\"Shared Chat\"")
	assert.Contains(t, output, "turns=1")
	assert.Contains(t, output, "bytes=13")
	assert.Contains(t, output, "duration=")
}
