package mock

import (
	"context"

	"github.com/convoprint/convoprint"
)

var (
	_ convoprint.ConversationService = (*ConversationService)(nil)
	_ convoprint.PDFService          = (*PDFService)(nil)
)

// ConversationService is a mock implementation of convoprint.ConversationService.
type ConversationService struct {
	ExtractFn func(ctx context.Context, url string) (*convoprint.Conversation, error)
}

func (s *ConversationService) Extract(ctx context.Context, url string) (*convoprint.Conversation, error) {
	return s.ExtractFn(ctx, url)
}

// PDFService is a mock implementation of convoprint.PDFService.
type PDFService struct {
	RenderPDFFn func(ctx context.Context, title string, turns []convoprint.Turn) ([]byte, error)
}

func (s *PDFService) RenderPDF(ctx context.Context, title string, turns []convoprint.Turn) ([]byte, error) {
	return s.RenderPDFFn(ctx, title, turns)
}
