package browser

import "time"

// Config controls one browsing context. Zero values get sensible defaults in
// applyDefaults; precedence is flags > environment > config file.
type Config struct {
	// UserAgent is sent on every request.
	UserAgent string
	// RequestTimeout bounds each fetch attempt.
	RequestTimeout time.Duration
	// MaxAttempts includes the initial attempt.
	MaxAttempts int
	// RedirectMaxHops caps redirect following.
	RedirectMaxHops int
	// MaxBodyBytes caps fetched response bodies.
	MaxBodyBytes int64
	// HostRPS throttles requests per host; zero disables the limiter.
	HostRPS float64
	// MaxConcurrent limits in-flight requests for Prefetch; zero means 4.
	MaxConcurrent int

	// CacheDir is the on-disk HTTP cache location; empty disables caching.
	CacheDir string
	// CacheMaxAge purges entries older than this on startup; zero disables.
	CacheMaxAge time.Duration
	// CacheClear empties the cache directory on startup.
	CacheClear bool

	// HistoryDir is where the visit log database lives; empty defaults to
	// ~/.vulpes unless DisableHistory is set.
	HistoryDir string
	// DisableHistory turns off the persistent visit log.
	DisableHistory bool

	Verbose bool
}

const (
	defaultUserAgent      = "vulpes/0.1 (+https://github.com/vulpeslabs/vulpes)"
	defaultRequestTimeout = 30 * time.Second
	defaultMaxAttempts    = 2
	defaultConcurrency    = 4
)

func (c *Config) applyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultConcurrency
	}
}
