package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/convoprint/convoprint"
	"github.com/convoprint/convoprint/goquery"
	convohttp "github.com/convoprint/convoprint/http"
	"github.com/convoprint/convoprint/pipeline"
	convorod "github.com/convoprint/convoprint/rod"
	convoslog "github.com/convoprint/convoprint/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("convoprint"),
		kong.Description("Extract shared chat transcripts and export them to PDF"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg := convoprint.DefaultConfig()
	if cli.Timeout > 0 {
		cfg.Timeout = cli.Timeout
	}
	if cli.Concurrency > 0 {
		cfg.RenderConcurrency = cli.Concurrency
	}
	cfg.ForceRender = cli.ForceRender
	cfg.SkipExtraction = cli.Smoke
	cfg.Debug = cli.Debug
	cfg.WarmStart = cli.Warm

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	deps, err := wire(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return err
	}
	defer deps.Pool.Shutdown()

	switch kongCtx.Command() {
	case "extract <url>":
		return cli.Extract.Run(ctx, deps, stdout)
	case "pdf <url>":
		return cli.Pdf.Run(ctx, deps, stdout)
	}
	return fmt.Errorf("unknown command %q", kongCtx.Command())
}

// wire builds the extraction pipeline and the PDF service around a
// shared session pool.
func wire(ctx context.Context, cfg convoprint.Config, logger *slog.Logger) (*Dependencies, error) {
	pool := convorod.NewPool(convorod.WithLimit(cfg.RenderConcurrency))
	if cfg.WarmStart {
		if err := pool.EnsureReady(ctx); err != nil {
			return nil, err
		}
	}

	structured := goquery.NewStructuredExtractor()
	dom := goquery.NewDOMExtractor()

	var fetcher convoprint.Fetcher = convohttp.NewFetcher(convohttp.WithTimeout(cfg.Timeout))
	fetcher = convoslog.NewLoggingFetcher(fetcher, logger)

	rendered := convorod.NewExtractor(pool, structured, dom,
		convorod.WithNavigateTimeout(cfg.Timeout),
	)

	var conversations convoprint.ConversationService = pipeline.New(
		fetcher,
		[]convoprint.Extractor{structured, dom},
		rendered,
		cfg,
	)
	conversations = convoslog.NewLoggingConversationService(conversations, logger)

	var pdfs convoprint.PDFService = convorod.NewPDFRenderer(pool, convorod.WithPrintTimeout(cfg.Timeout))
	pdfs = convoslog.NewLoggingPDFService(pdfs, logger)

	return &Dependencies{
		Pool:          pool,
		Conversations: conversations,
		PDFs:          pdfs,
	}, nil
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout     time.Duration `short:"t" default:"10s" help:"Timeout per network or render operation"`
	Concurrency int           `short:"c" default:"2" help:"Concurrent rendering session limit"`
	ForceRender bool          `help:"Skip the static fetch and always render in the browser"`
	Smoke       bool          `help:"Short-circuit extraction with a canned conversation (deployment smoke test)"`
	Debug       bool          `help:"Attach diagnostic detail to terminal extraction errors"`
	Warm        bool          `help:"Launch the browser at startup instead of on first use"`
	Verbose     bool          `short:"v" help:"Log pipeline operations to stderr"`

	Extract ExtractCmd `cmd:"" help:"Extract a share link and print the conversation as JSON"`
	Pdf     PdfCmd     `cmd:"" help:"Extract a share link and render it to a PDF file"`
}
