package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/convoprint/convoprint"
	convorod "github.com/convoprint/convoprint/rod"
)

// Dependencies holds all services for command execution.
type Dependencies struct {
	Pool          *convorod.Pool
	Conversations convoprint.ConversationService
	PDFs          convoprint.PDFService
}

// ExtractCmd resolves a share link and prints the conversation as JSON.
type ExtractCmd struct {
	URL string `arg:"" help:"Share link URL"`
}

// Run executes the extract command.
func (c *ExtractCmd) Run(ctx context.Context, deps *Dependencies, stdout io.Writer) error {
	conv, err := deps.Conversations.Extract(ctx, c.URL)
	if err != nil {
		return describeError(err)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(conv)
}

// PdfCmd resolves a share link and renders it to a PDF file.
type PdfCmd struct {
	URL    string `arg:"" help:"Share link URL"`
	Output string `short:"o" help:"Output path (default: derived from the conversation title)"`
}

// Run executes the pdf command.
func (c *PdfCmd) Run(ctx context.Context, deps *Dependencies, stdout io.Writer) error {
	conv, err := deps.Conversations.Extract(ctx, c.URL)
	if err != nil {
		return describeError(err)
	}

	pdf, err := deps.PDFs.RenderPDF(ctx, conv.Title, conv.Turns)
	if err != nil {
		return describeError(err)
	}

	path := c.Output
	if path == "" {
		path = convorod.SuggestFilename(conv.Title)
	}
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(stdout, "wrote %s (%d bytes, %d turns)\n", path, len(pdf), len(conv.Turns))
	return nil
}

// describeError renders an application error with its code and, when
// debug diagnostics were enabled, its diagnostic detail.
func describeError(err error) error {
	msg := fmt.Sprintf("%s: %s", convoprint.ErrorCode(err), convoprint.ErrorMessage(err))
	if detail := convoprint.ErrorDetail(err); detail != "" {
		msg += "\n  detail: " + detail
	}
	return fmt.Errorf("%s", msg)
}
