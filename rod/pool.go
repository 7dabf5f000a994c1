// Package rod provides the headless-browser components: the rendering
// session pool, the rendered-page extraction fallback, and the PDF
// printer. The browser process is a process-wide resource owned by a
// single Pool and shared through explicitly acquired sessions.
package rod

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/convoprint/convoprint"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// State is the lifecycle state of a Pool.
type State string

// Pool lifecycle states. Transitions run strictly forward:
// Unstarted → Starting → Ready → ShuttingDown → Closed.
const (
	StateUnstarted    State = "unstarted"
	StateStarting     State = "starting"
	StateReady        State = "ready"
	StateShuttingDown State = "shutting_down"
	StateClosed       State = "closed"
)

// Default pool settings.
const (
	// DefaultLimit is the default number of concurrently open sessions.
	DefaultLimit = 2

	// pollInterval is how often a waiting caller re-checks the
	// admission gate. The gate is a bounded counter checked by short
	// cooperative polling; there is no wait queue, so ordering across
	// waiters is not guaranteed.
	pollInterval = 25 * time.Millisecond
)

// Session is an ephemeral handle to one isolated browsing context.
// It is owned exclusively by the call that acquired it and must be
// released exactly once, on every path, via Pool.Release.
type Session struct {
	id       string
	page     *rod.Page
	released atomic.Bool
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Page returns the browser page backing this session.
func (s *Session) Page() *rod.Page { return s.page }

// Pool owns a single lazily-started headless-browser process and hands
// out isolated rendering sessions under a bounded concurrency limit.
// Pool is safe for concurrent use.
type Pool struct {
	limit      int
	browserBin string
	noSandbox  bool

	start singleflight.Group

	mu       sync.Mutex
	state    State
	startErr error
	browser  *rod.Browser
	launcher *launcher.Launcher
	inUse    int
}

// Option configures a Pool.
type Option func(*Pool)

// WithLimit sets the maximum number of concurrently open sessions.
// Defaults to DefaultLimit if not specified or non-positive.
func WithLimit(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.limit = n
		}
	}
}

// WithBrowserBin points the launcher at a pre-installed browser binary
// instead of letting rod download one (Docker/CI environments).
func WithBrowserBin(path string) Option {
	return func(p *Pool) {
		p.browserBin = path
	}
}

// WithNoSandbox disables the Chromium sandbox. Required in most
// containerized environments.
func WithNoSandbox(enabled bool) Option {
	return func(p *Pool) {
		p.noSandbox = enabled
	}
}

// NewPool creates a Pool. The browser process is not launched until the
// first session request; call EnsureReady eagerly for a warm start.
// Shutdown must be called when the Pool is no longer needed.
func NewPool(opts ...Option) *Pool {
	p := &Pool{
		limit: DefaultLimit,
		state: StateUnstarted,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Pool) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// InUse returns the number of sessions currently checked out.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// EnsureReady launches the browser process if it has not been launched
// yet. Concurrent callers during startup are coalesced onto the same
// in-flight launch, so exactly one browser process is ever started. A
// failed launch is fatal: the error is recorded and returned to every
// subsequent caller without retrying.
func (p *Pool) EnsureReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	switch {
	case p.state == StateReady:
		p.mu.Unlock()
		return nil
	case p.state == StateShuttingDown || p.state == StateClosed:
		p.mu.Unlock()
		return convoprint.Errorf(convoprint.EINTERNAL, "browser pool is shut down")
	case p.startErr != nil:
		err := p.startErr
		p.mu.Unlock()
		return err
	}
	p.mu.Unlock()

	_, err, _ := p.start.Do("launch", func() (any, error) {
		return nil, p.launch()
	})
	return err
}

// launch performs the Unstarted → Starting → Ready transition.
func (p *Pool) launch() error {
	p.mu.Lock()
	if p.state == StateReady {
		p.mu.Unlock()
		return nil
	}
	if p.state == StateShuttingDown || p.state == StateClosed {
		p.mu.Unlock()
		return convoprint.Errorf(convoprint.EINTERNAL, "browser pool is shut down")
	}
	if p.startErr != nil {
		err := p.startErr
		p.mu.Unlock()
		return err
	}
	p.state = StateStarting
	p.mu.Unlock()

	browser, lnchr, err := launchBrowser(p.browserBin, p.noSandbox)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.state = StateUnstarted
		p.startErr = convoprint.Errorf(convoprint.EINTERNAL, "starting browser: %v", err)
		return p.startErr
	}
	if p.state == StateShuttingDown || p.state == StateClosed {
		_ = browser.Close()
		lnchr.Kill()
		return convoprint.Errorf(convoprint.EINTERNAL, "browser pool is shut down")
	}
	p.browser = browser
	p.launcher = lnchr
	p.state = StateReady
	return nil
}

// Acquire blocks until a session slot is available under the
// concurrency limit, then opens a fresh page and returns it as a
// Session. The wait is cooperative: the gate counter is re-checked on a
// short interval and the context cancels the wait. There is no fairness
// guarantee between concurrent waiters.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	if err := p.EnsureReady(ctx); err != nil {
		return nil, err
	}

	for {
		p.mu.Lock()
		if p.state != StateReady {
			p.mu.Unlock()
			return nil, convoprint.Errorf(convoprint.EINTERNAL, "browser pool is shut down")
		}
		if p.inUse < p.limit {
			p.inUse++
			browser := p.browser
			p.mu.Unlock()

			page, err := browser.Page(proto.TargetCreateTarget{})
			if err != nil {
				p.decrement()
				return nil, convoprint.Errorf(convoprint.EINTERNAL, "creating rendering session: %v", err)
			}
			return &Session{id: uuid.NewString(), page: page}, nil
		}
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Release closes the session's page and frees its slot. Release is
// idempotent per session, so deferred cleanup on error paths cannot
// double-free a slot.
func (p *Pool) Release(s *Session) {
	if s == nil || !s.released.CompareAndSwap(false, true) {
		return
	}
	_ = s.page.Close()
	p.decrement()
}

func (p *Pool) decrement() {
	p.mu.Lock()
	if p.inUse > 0 {
		p.inUse--
	}
	p.mu.Unlock()
}

// Shutdown terminates the browser process and closes the pool.
// Shutdown is safe to call multiple times; subsequent calls are no-ops.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	if p.state == StateShuttingDown || p.state == StateClosed {
		p.mu.Unlock()
		return nil
	}
	p.state = StateShuttingDown
	browser := p.browser
	lnchr := p.launcher
	p.browser = nil
	p.launcher = nil
	p.mu.Unlock()

	var err error
	if browser != nil {
		err = browser.Close()
	}
	if lnchr != nil {
		lnchr.Kill()
	}

	p.mu.Lock()
	p.state = StateClosed
	p.mu.Unlock()
	return err
}

// launchBrowser starts a headless browser with stability flags and
// connects to it.
func launchBrowser(bin string, noSandbox bool) (*rod.Browser, *launcher.Launcher, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		lnchr = lnchr.Bin(bin)
	}
	if noSandbox || os.Getenv("CI") == "true" {
		lnchr = lnchr.NoSandbox(true)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, nil, err
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, nil, err
	}
	return browser, lnchr, nil
}
