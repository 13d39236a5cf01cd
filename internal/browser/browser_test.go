package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestContext(t *testing.T, cfg Config) *Context {
	t.Helper()
	if cfg.HistoryDir == "" {
		cfg.HistoryDir = filepath.Join(t.TempDir(), "hist")
	}
	c, err := NewContext(cfg)
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestNavigate_ExtractsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><head><title>T</title></head><body><h1>Title</h1><p>Hello <b>World</b>!</p></body></html>"))
	}))
	defer srv.Close()

	c := newTestContext(t, Config{})
	page, err := c.Navigate(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if page.Text != "Title\nHello World!" {
		t.Fatalf("unexpected text: %q", page.Text)
	}
	if page.Status != 200 {
		t.Fatalf("unexpected status: %d", page.Status)
	}
	if cur := c.Current(); cur == nil || cur.URL != srv.URL {
		t.Fatalf("expected current page for %s", srv.URL)
	}
}

func TestNavigate_PlainTextPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("a < b & c > d\n"))
	}))
	defer srv.Close()

	c := newTestContext(t, Config{})
	page, err := c.Navigate(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if page.Text != "a < b & c > d" {
		t.Fatalf("expected plain text untouched, got %q", page.Text)
	}
}

func TestNavigate_RecordsHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>x</p>"))
	}))
	defer srv.Close()

	c := newTestContext(t, Config{})
	if _, err := c.Navigate(context.Background(), srv.URL); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	visits, err := c.History().Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(visits) != 1 || visits[0].URL != srv.URL {
		t.Fatalf("expected one visit for %s, got %+v", srv.URL, visits)
	}
}

func TestNavigate_HistoryDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>x</p>"))
	}))
	defer srv.Close()

	c := newTestContext(t, Config{DisableHistory: true})
	if _, err := c.Navigate(context.Background(), srv.URL); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if c.History() != nil {
		t.Fatalf("expected nil history store")
	}
}

func TestBackForward(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>" + r.URL.Path + "</p>"))
	}))
	defer srv.Close()

	c := newTestContext(t, Config{DisableHistory: true})
	ctx := context.Background()
	if _, err := c.Navigate(ctx, srv.URL+"/one"); err != nil {
		t.Fatalf("navigate one: %v", err)
	}
	if _, err := c.Navigate(ctx, srv.URL+"/two"); err != nil {
		t.Fatalf("navigate two: %v", err)
	}

	back := c.Back()
	if back == nil || !strings.HasSuffix(back.URL, "/one") {
		t.Fatalf("expected back to /one, got %+v", back)
	}
	if c.Back() != nil {
		t.Fatalf("expected nil at oldest entry")
	}
	fwd := c.Forward()
	if fwd == nil || !strings.HasSuffix(fwd.URL, "/two") {
		t.Fatalf("expected forward to /two, got %+v", fwd)
	}
	if c.Forward() != nil {
		t.Fatalf("expected nil at newest entry")
	}

	// Navigating from the middle of the stack drops forward entries.
	c.Back()
	if _, err := c.Navigate(ctx, srv.URL+"/three"); err != nil {
		t.Fatalf("navigate three: %v", err)
	}
	if c.Forward() != nil {
		t.Fatalf("expected forward entries discarded after navigate")
	}
	if back := c.Back(); back == nil || !strings.HasSuffix(back.URL, "/one") {
		t.Fatalf("expected back to /one after truncation, got %+v", back)
	}
}

func TestPrefetch_WarmsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>" + r.URL.Path + "</p>"))
	}))
	defer srv.Close()

	cacheDir := filepath.Join(t.TempDir(), "cache")
	c := newTestContext(t, Config{DisableHistory: true, CacheDir: cacheDir})
	urls := []string{srv.URL + "/a", srv.URL + "/b", srv.URL + "/c"}
	n, err := c.Prefetch(context.Background(), urls)
	if err != nil {
		t.Fatalf("prefetch: %v", err)
	}
	if n != len(urls) {
		t.Fatalf("expected %d fetched, got %d", len(urls), n)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected cache populated, err=%v entries=%d", err, len(entries))
	}
}

func TestPrefetch_ToleratesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer srv.Close()

	c := newTestContext(t, Config{DisableHistory: true})
	n, err := c.Prefetch(context.Background(), []string{srv.URL + "/good", srv.URL + "/bad"})
	if err != nil {
		t.Fatalf("prefetch: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 successful fetch, got %d", n)
	}
}

func TestContext_HasUniqueID(t *testing.T) {
	a := newTestContext(t, Config{DisableHistory: true})
	b := newTestContext(t, Config{DisableHistory: true})
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected distinct non-empty context IDs, got %q and %q", a.ID, b.ID)
	}
}
