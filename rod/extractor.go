package rod

import (
	"context"
	"errors"
	"time"

	"github.com/convoprint/convoprint"
	"github.com/go-rod/rod"
)

// Timeouts for the rendering fallback.
const (
	// NavigateTimeoutFloor is the minimum navigation budget. Rendering
	// is the last extraction stage, so it gets at least this much time
	// even when the configured global timeout is shorter.
	NavigateTimeoutFloor = 30 * time.Second

	// DefaultReadyTimeout bounds each readiness wait independently.
	DefaultReadyTimeout = 5 * time.Second
)

// readiness signals raced after navigation.
const (
	signalStructured = "structured"
	signalDOM        = "dom"
)

// Ensure Extractor implements convoprint.RenderedExtractor at compile time.
var _ convoprint.RenderedExtractor = (*Extractor)(nil)

// Extractor is the rendering fallback: it fully executes the page in a
// pooled session, waits for whichever transcript marker hydrates first,
// and re-applies the static extractors to the rendered snapshot.
type Extractor struct {
	pool         *Pool
	structured   convoprint.Extractor
	dom          convoprint.Extractor
	navTimeout   time.Duration
	readyTimeout time.Duration
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithNavigateTimeout sets the navigation budget. Values below
// NavigateTimeoutFloor are raised to the floor.
func WithNavigateTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.navTimeout = d
	}
}

// WithReadyTimeout sets the per-signal readiness budget.
// Defaults to DefaultReadyTimeout if not specified.
func WithReadyTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.readyTimeout = d
	}
}

// NewExtractor creates an Extractor that renders pages through pool and
// parses snapshots with the given static extractors.
func NewExtractor(pool *Pool, structured, dom convoprint.Extractor, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		pool:         pool,
		structured:   structured,
		dom:          dom,
		navTimeout:   NavigateTimeoutFloor,
		readyTimeout: DefaultReadyTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.navTimeout < NavigateTimeoutFloor {
		e.navTimeout = NavigateTimeoutFloor
	}
	return e
}

// ExtractRendered navigates to the URL in a pooled session, races the
// two readiness signals, and parses the rendered snapshot. The session
// is released on every path. Failures here are terminal for the
// extraction call; there is no further fallback.
func (e *Extractor) ExtractRendered(ctx context.Context, url string) (*convoprint.Conversation, error) {
	session, err := e.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.pool.Release(session)

	page := session.Page().Context(ctx)

	if err := page.Timeout(e.navTimeout).Navigate(url); err != nil {
		return nil, renderError(err)
	}
	if err := page.Timeout(e.navTimeout).WaitLoad(); err != nil {
		return nil, renderError(err)
	}

	// A timeout on one signal is not fatal as long as the other
	// resolves; if neither resolves the navigation still counts as
	// complete and the final snapshot goes through both extractors.
	winner := e.raceReadiness(page)

	html, err := page.HTML()
	if err != nil {
		return nil, renderError(err)
	}

	order := []convoprint.Extractor{e.structured, e.dom}
	if winner == signalDOM {
		order = []convoprint.Extractor{e.dom, e.structured}
	}
	for _, extractor := range order {
		if conv, err := extractor.Extract(html, url); err == nil {
			return conv, nil
		}
	}
	return nil, convoprint.Errorf(convoprint.EUNPROCESSABLE, "rendered document yielded no turns")
}

// raceReadiness waits for the structured-payload script and the
// turn-role marker concurrently, each under its own budget, and returns
// whichever signal resolves first, or "" if neither does.
func (e *Extractor) raceReadiness(page *rod.Page) string {
	type outcome struct {
		signal string
		err    error
	}
	results := make(chan outcome, 2)

	wait := func(signal, selector string) {
		_, err := page.Timeout(e.readyTimeout).Element(selector)
		results <- outcome{signal: signal, err: err}
	}
	go wait(signalStructured, convoprint.StructuredPayloadSelector)
	go wait(signalDOM, "["+convoprint.TurnRoleAttr+"]")

	for i := 0; i < 2; i++ {
		if o := <-results; o.err == nil {
			return o.signal
		}
	}
	return ""
}

// renderError maps a browser failure onto the error taxonomy: deadline
// expiry is a render timeout, anything else a render crash.
func renderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return convoprint.Errorf(convoprint.ETIMEOUT, "render timeout: %v", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return convoprint.Errorf(convoprint.EINTERNAL, "render crashed: %v", err)
}
