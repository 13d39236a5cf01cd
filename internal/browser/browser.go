package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vulpeslabs/vulpes/internal/cache"
	"github.com/vulpeslabs/vulpes/internal/extract"
	"github.com/vulpeslabs/vulpes/internal/fetch"
	"github.com/vulpeslabs/vulpes/internal/history"
)

// Page is the result of one navigation: the fetched document reduced to
// plain text with embedded newline boundaries, ready for line-based display.
type Page struct {
	URL         string
	FinalURL    string
	Status      int
	ContentType string
	Text        string
	FetchedAt   time.Time
}

// Context is an isolated browsing session with its own cookie store, HTTP
// cache and visit history. Contexts are independent; multiple can exist at
// once for multi-tab style use.
type Context struct {
	ID string

	cfg       Config
	client    *fetch.Client
	extractor extract.Extractor
	hist      *history.Store

	mu    sync.Mutex
	stack []*Page // back/forward navigation stack
	pos   int     // index of the current page in stack; -1 when empty
}

// NewContext builds a browsing context from cfg. The caller owns the context
// and must Close it to release the history database.
func NewContext(cfg Config) (*Context, error) {
	cfg.applyDefaults()

	var httpCache *cache.HTTPCache
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("cache clear failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err == nil && n > 0 {
				log.Debug().Int("removed", n).Msg("purged expired cache entries")
			}
		}
		httpCache = &cache.HTTPCache{Dir: cfg.CacheDir}
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	var limiter *fetch.HostLimiter
	if cfg.HostRPS > 0 {
		limiter = fetch.NewHostLimiter(cfg.HostRPS)
	}

	client := &fetch.Client{
		HTTPClient:        &http.Client{Jar: jar},
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.MaxAttempts,
		PerRequestTimeout: cfg.RequestTimeout,
		Cache:             httpCache,
		RedirectMaxHops:   cfg.RedirectMaxHops,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		Limiter:           limiter,
		MaxConcurrent:     cfg.MaxConcurrent,
	}

	var hist *history.Store
	if !cfg.DisableHistory {
		hist, err = history.Open(cfg.HistoryDir)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
	}

	return &Context{
		ID:        uuid.NewString(),
		cfg:       cfg,
		client:    client,
		extractor: extract.StreamExtractor{},
		hist:      hist,
		pos:       -1,
	}, nil
}

// Close releases resources held by the context.
func (c *Context) Close() error {
	if c.hist != nil {
		return c.hist.Close()
	}
	return nil
}

// Navigate fetches rawURL, extracts its text and pushes the page onto the
// navigation stack, discarding any forward entries.
func (c *Context) Navigate(ctx context.Context, rawURL string) (*Page, error) {
	resp, err := c.client.Get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	body := fetch.DecodeToUTF8(resp.Body, resp.ContentType)

	var text string
	if isPlainText(resp.ContentType) {
		// Plain text documents are shown as-is; only HTML goes through the
		// extraction scanner.
		text = strings.TrimSpace(string(body))
	} else {
		text = string(c.extractor.Extract(body))
	}

	page := &Page{
		URL:         rawURL,
		FinalURL:    resp.FinalURL,
		Status:      resp.Status,
		ContentType: resp.ContentType,
		Text:        text,
		FetchedAt:   time.Now().UTC(),
	}

	if c.hist != nil {
		if _, err := c.hist.Record(ctx, rawURL, resp.Status, int64(len(resp.Body))); err != nil {
			log.Warn().Err(err).Str("url", rawURL).Msg("history record failed")
		}
	}

	c.mu.Lock()
	c.stack = append(c.stack[:c.pos+1], page)
	c.pos = len(c.stack) - 1
	c.mu.Unlock()

	log.Debug().Str("url", rawURL).Int("status", page.Status).Int("chars", len(text)).Msg("navigated")
	return page, nil
}

// Current returns the page at the current stack position, or nil.
func (c *Context) Current() *Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pos < 0 || c.pos >= len(c.stack) {
		return nil
	}
	return c.stack[c.pos]
}

// Back moves one entry back in the navigation stack and returns the page
// there, or nil when already at the oldest entry.
func (c *Context) Back() *Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pos <= 0 {
		return nil
	}
	c.pos--
	return c.stack[c.pos]
}

// Forward moves one entry forward in the navigation stack and returns the
// page there, or nil when already at the newest entry.
func (c *Context) Forward() *Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pos < 0 || c.pos >= len(c.stack)-1 {
		return nil
	}
	c.pos++
	return c.stack[c.pos]
}

// History returns the persistent visit store, or nil when history is off.
func (c *Context) History() *history.Store {
	return c.hist
}

// Prefetch warms the HTTP cache for urls without touching the navigation
// stack or visit history. Failures are logged and counted, not fatal; the
// returned count is the number of successful fetches.
func (c *Context) Prefetch(ctx context.Context, urls []string) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.MaxConcurrent)

	var fetched atomic.Int64
	for _, u := range urls {
		g.Go(func() error {
			if _, err := c.client.Get(gctx, u); err != nil {
				log.Warn().Err(err).Str("url", u).Msg("prefetch failed")
				return nil
			}
			fetched.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(fetched.Load()), err
	}
	return int(fetched.Load()), nil
}

func isPlainText(ct string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), "text/plain")
}
