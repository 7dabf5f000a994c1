package rod

import (
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/convoprint/convoprint"
	"github.com/go-rod/rod/lib/proto"
)

// PDF page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// DefaultPrintTimeout bounds loading the generated markup and printing it.
const DefaultPrintTimeout = 30 * time.Second

// Ensure PDFRenderer implements convoprint.PDFService at compile time.
var _ convoprint.PDFService = (*PDFRenderer)(nil)

// PDFRenderer prints a conversation to a paginated PDF document using a
// pooled rendering session.
type PDFRenderer struct {
	pool    *Pool
	timeout time.Duration
}

// PDFOption configures a PDFRenderer.
type PDFOption func(*PDFRenderer)

// WithPrintTimeout sets the budget for loading and printing the document.
// Defaults to DefaultPrintTimeout if not specified.
func WithPrintTimeout(d time.Duration) PDFOption {
	return func(r *PDFRenderer) {
		r.timeout = d
	}
}

// NewPDFRenderer creates a PDFRenderer backed by pool.
func NewPDFRenderer(pool *Pool, opts ...PDFOption) *PDFRenderer {
	r := &PDFRenderer{
		pool:    pool,
		timeout: DefaultPrintTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderPDF builds the styled document for the title and turns and
// prints it. An empty turn slice is valid and produces a document
// containing only the title and export timestamp.
func (r *PDFRenderer) RenderPDF(ctx context.Context, title string, turns []convoprint.Turn) ([]byte, error) {
	if strings.TrimSpace(title) == "" {
		return nil, convoprint.Errorf(convoprint.EINVALID, "document title required")
	}

	markup := BuildDocument(title, turns, time.Now().UTC())

	session, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.pool.Release(session)

	page := session.Page().Context(ctx).Timeout(r.timeout)

	if err := page.SetDocumentContent(markup); err != nil {
		return nil, convoprint.Errorf(convoprint.EINTERNAL, "PDF generation failed: loading markup: %v", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, convoprint.Errorf(convoprint.EINTERNAL, "PDF generation failed: waiting for layout: %v", err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, convoprint.Errorf(convoprint.EINTERNAL, "PDF generation failed: %v", err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, convoprint.Errorf(convoprint.EINTERNAL, "PDF generation failed: reading stream: %v", err)
	}
	return data, nil
}

// documentStyle keeps the printed transcript readable on paper: a serif
// body, role labels set off in small caps, and code blocks in a bordered
// monospace box that survives page breaks.
const documentStyle = `
body { font-family: Georgia, "Times New Roman", serif; margin: 0; color: #1a1a1a; }
h1 { font-size: 20pt; margin-bottom: 2pt; }
.exported { color: #666; font-size: 9pt; margin-bottom: 18pt; }
.turn { margin-bottom: 14pt; page-break-inside: avoid; }
.role { font-size: 9pt; font-weight: bold; letter-spacing: 1px; color: #444; margin-bottom: 4pt; }
.content { font-size: 11pt; line-height: 1.5; }
pre { font-family: "SF Mono", Menlo, Consolas, monospace; font-size: 9pt; background: #f5f5f5; border: 1px solid #ddd; border-radius: 4px; padding: 8px; white-space: pre-wrap; word-wrap: break-word; }
`

// BuildDocument renders the printable markup for a conversation. All
// user-supplied text is HTML-escaped before embedding; code fences in
// turn content become preformatted blocks and newlines become line
// breaks.
func BuildDocument(title string, turns []convoprint.Turn, exportedAt time.Time) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<style>%s</style>\n", documentStyle)
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(&b, "<div class=\"exported\">Exported %s</div>\n", exportedAt.Format("2006-01-02 15:04 MST"))

	for _, turn := range turns {
		b.WriteString("<div class=\"turn\">\n")
		fmt.Fprintf(&b, "<div class=\"role\">%s</div>\n", html.EscapeString(strings.ToUpper(string(turn.Role))))
		fmt.Fprintf(&b, "<div class=\"content\">%s</div>\n", renderContent(turn.Content))
		b.WriteString("</div>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// renderContent converts normalized turn content to safe HTML: segments
// between triple-backtick fences become <pre> blocks, everything else is
// escaped with newlines as <br>.
func renderContent(content string) string {
	segments := strings.Split(content, "```")
	var b strings.Builder
	for i, segment := range segments {
		if i%2 == 1 {
			// Inside a fence. The fence delimiters contribute the
			// surrounding newlines; strip them so the block holds only
			// the original code text.
			code := strings.Trim(segment, "\n")
			fmt.Fprintf(&b, "<pre>%s</pre>", html.EscapeString(code))
			continue
		}
		text := html.EscapeString(segment)
		text = strings.ReplaceAll(text, "\n", "<br>")
		b.WriteString(text)
	}
	return b.String()
}

// slugRuns matches runs of characters that cannot appear in a filename slug.
var slugRuns = regexp.MustCompile(`[^a-z0-9]+`)

// SuggestFilename derives an attachment filename from the conversation
// title: lowercased, non-alphanumeric runs collapsed to single hyphens,
// leading/trailing hyphens trimmed, with "conversation" as the fallback
// when nothing survives slugification.
func SuggestFilename(title string) string {
	slug := strings.ToLower(title)
	slug = slugRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "conversation"
	}
	return slug + ".pdf"
}

func floatPtr(f float64) *float64 { return &f }
