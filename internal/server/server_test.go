package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlind/docview/internal/augment"
	"github.com/mlind/docview/internal/config"
	"github.com/mlind/docview/internal/content"
	"github.com/mlind/docview/internal/markup"
	"github.com/mlind/docview/internal/nav"
	"github.com/mlind/docview/internal/view"
)

type stubFetcher struct {
	docs map[string]string
}

func (f *stubFetcher) Fetch(_ context.Context, path string) (string, error) {
	doc, ok := f.docs[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", content.ErrRetrieval, path)
	}
	return doc, nil
}

func newTestServer(t *testing.T, docs map[string]string) *Server {
	t.Helper()
	cfg := config.Default()
	co := content.NewCoordinator(&stubFetcher{docs: docs}, markup.New(markup.Options{}), content.Options{
		ContentBase: ".",
		BuildNav:    nav.Build,
		Augment:     augment.Apply,
	})
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	return New(cfg, co, renderer, Options{Logger: slog.New(slog.DiscardHandler)})
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestViewRendersPage(t *testing.T) {
	s := newTestServer(t, map[string]string{
		"guide/intro.md": "## Getting Started\n\nHello **world**.",
	})

	res, body := get(t, s.Handler(), "/view/guide/intro.md")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `<h2 id="getting-started">Getting Started</h2>`)
	assert.Contains(t, body, `data-md-src="guide/intro.md"`)
	assert.Contains(t, body, `<nav id="sidebar-nav"`)
	assert.Contains(t, body, `href="#getting-started"`)
}

func TestViewWithoutAutoNavOmitsNavRegion(t *testing.T) {
	s := newTestServer(t, map[string]string{"a.md": "## One"})
	off := false
	s.cfg.AutoNav = &off

	_, body := get(t, s.Handler(), "/view/a.md")
	assert.NotContains(t, body, "<nav")
}

func TestFragmentReturnsRenderedMarkup(t *testing.T) {
	s := newTestServer(t, map[string]string{"a.md": "# Title\n\nBody."})

	res, body := get(t, s.Handler(), "/fragment/a.md")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "success", res.Header.Get("X-Docview-Result"))
	assert.Contains(t, body, `<h1 id="title">Title</h1>`)
	assert.NotContains(t, body, "<html")
}

func TestFragmentFallbackOnRetrievalFailure(t *testing.T) {
	s := newTestServer(t, nil)

	res, body := get(t, s.Handler(), "/fragment/missing.md")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "fallback", res.Header.Get("X-Docview-Result"))
	assert.Contains(t, body, "content-fallback")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, nil)
	res, body := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)
}

func TestMetricsServedWhenRegistrySet(t *testing.T) {
	s := newTestServer(t, nil)
	s.opts.Registry = prometheus.NewRegistry()

	res, _ := get(t, s.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestStaticStylesheet(t *testing.T) {
	s := newTestServer(t, nil)
	res, body := get(t, s.Handler(), "/static/docview.css")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, ".progress-bar")
}

func TestCacheServesSecondRequestAndInvalidateClears(t *testing.T) {
	docs := map[string]string{"a.md": "# One"}
	cfg := config.Default()
	fetcher := &stubFetcher{docs: docs}
	co := content.NewCoordinator(fetcher, markup.New(markup.Options{}), content.Options{ContentBase: "."})
	renderer, err := view.NewRenderer()
	require.NoError(t, err)
	s := New(cfg, co, renderer, Options{Logger: slog.New(slog.DiscardHandler)})
	h := s.Handler()

	_, first := get(t, h, "/fragment/a.md")
	assert.Contains(t, first, "One")

	// A cached container survives the source disappearing.
	docs["a.md"] = ""
	delete(docs, "a.md")
	res, second := get(t, h, "/fragment/a.md")
	assert.Equal(t, "success", res.Header.Get("X-Docview-Result"))
	assert.Contains(t, second, "One")

	// After invalidation the failure becomes visible as fallback.
	s.Invalidate()
	res, _ = get(t, h, "/fragment/a.md")
	assert.Equal(t, "fallback", res.Header.Get("X-Docview-Result"))
}

func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	h := chain(logger, nil, http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
