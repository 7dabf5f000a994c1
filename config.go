package convoprint

import "time"

// Default configuration values shared by the pipeline and the session pool.
const (
	// DefaultTimeout bounds each remote operation (fetch, navigation).
	DefaultTimeout = 10 * time.Second

	// DefaultRenderConcurrency is the number of rendering sessions that
	// may be open at once.
	DefaultRenderConcurrency = 2
)

// Config is the configuration surface consumed by the extraction core.
// It is populated by the process entry point; configuration loading
// itself lives outside this module's scope.
type Config struct {
	// Timeout bounds network fetches and browser navigations.
	Timeout time.Duration

	// RenderConcurrency limits concurrently open rendering sessions.
	RenderConcurrency int

	// ForceRender skips the static fetch and goes straight to the
	// rendering fallback, even when a plain fetch might succeed.
	ForceRender bool

	// SkipExtraction short-circuits extraction with a canned
	// conversation. Used for smoke-testing deployments without
	// exercising the network or the browser.
	SkipExtraction bool

	// Debug attaches diagnostic detail (content type, byte length,
	// body sample) to terminal extraction errors. Off by default so
	// fetched content is never leaked into error payloads.
	Debug bool

	// WarmStart launches the browser eagerly at process start instead
	// of on the first session request.
	WarmStart bool
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:           DefaultTimeout,
		RenderConcurrency: DefaultRenderConcurrency,
	}
}
