package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/convoprint/convoprint"
)

// Ensure decorators implement their domain interfaces.
var (
	_ convoprint.ConversationService = (*LoggingConversationService)(nil)
	_ convoprint.PDFService          = (*LoggingPDFService)(nil)
)

// LoggingConversationService wraps a ConversationService with logging.
type LoggingConversationService struct {
	next   convoprint.ConversationService
	logger *slog.Logger
}

// NewLoggingConversationService creates a new LoggingConversationService.
func NewLoggingConversationService(next convoprint.ConversationService, logger *slog.Logger) *LoggingConversationService {
	return &LoggingConversationService{next: next, logger: logger}
}

// Extract delegates to the wrapped service and logs the operation.
func (s *LoggingConversationService) Extract(ctx context.Context, url string) (conv *convoprint.Conversation, err error) {
	defer func(begin time.Time) {
		var turns int
		if conv != nil {
			turns = len(conv.Turns)
		}
		s.logger.Info("extract",
			"url", url,
			"turns", turns,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Extract(ctx, url)
}

// LoggingPDFService wraps a PDFService with logging.
type LoggingPDFService struct {
	next   convoprint.PDFService
	logger *slog.Logger
}

// NewLoggingPDFService creates a new LoggingPDFService.
func NewLoggingPDFService(next convoprint.PDFService, logger *slog.Logger) *LoggingPDFService {
	return &LoggingPDFService{next: next, logger: logger}
}

// RenderPDF delegates to the wrapped service and logs the operation.
func (s *LoggingPDFService) RenderPDF(ctx context.Context, title string, turns []convoprint.Turn) (pdf []byte, err error) {
	defer func(begin time.Time) {
		s.logger.Info("render pdf",
			"title", title,
			"turns", len(turns),
			"bytes", len(pdf),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RenderPDF(ctx, title, turns)
}
