// Package server exposes the viewer over HTTP: full pages, rendered
// fragments, health, and metrics.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mlind/docview/internal/config"
	"github.com/mlind/docview/internal/content"
	"github.com/mlind/docview/internal/metrics"
	"github.com/mlind/docview/internal/view"
)

//go:embed static
var staticFS embed.FS

const shutdownTimeout = 5 * time.Second

// fallbackMarkup is shown when a page is requested for a source that cannot
// be retrieved and no prior content exists.
const fallbackMarkup = `<p class="content-fallback">Content could not be loaded.</p>`

// Options carries optional server collaborators.
type Options struct {
	// Registry serves /metrics when set.
	Registry *prometheus.Registry
	// Metrics receives request and container observations.
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// Server serves rendered documents.
type Server struct {
	cfg      *config.Config
	co       *content.Coordinator
	renderer *view.Renderer
	logger   *slog.Logger
	opts     Options

	httpSrv *http.Server

	mu    sync.RWMutex
	cache map[string]*content.Container
}

// New constructs the viewer server.
func New(cfg *config.Config, co *content.Coordinator, renderer *view.Renderer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	return &Server{
		cfg:      cfg,
		co:       co,
		renderer: renderer,
		logger:   logger,
		opts:     opts,
		cache:    make(map[string]*content.Container),
	}
}

// Invalidate drops all cached containers so the next request re-renders.
// The content watcher calls this after local files change.
func (s *Server) Invalidate() {
	s.mu.Lock()
	s.cache = make(map[string]*content.Container)
	s.mu.Unlock()
	s.opts.Metrics.SetActiveContainers(0)
	s.logger.Debug("container cache invalidated")
}

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /view/{source...}", s.handleView)
	mux.HandleFunc("GET /fragment/{source...}", s.handleFragment)
	mux.Handle("GET /static/", http.FileServer(http.FS(staticFS)))
	if s.opts.Registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.opts.Registry))
	}
	return chain(s.logger, s.opts.Metrics, mux)
}

// Start pre-binds the listen address, serves until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Listen)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Server.Listen, err)
	}

	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("viewer server listening", "addr", ln.Addr().String())
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// load returns the rendered container for the requested source, serving
// from cache when a prior request already rendered it.
func (s *Server) load(r *http.Request) (*content.Container, error) {
	source := r.PathValue("source")
	if source == "" {
		return nil, errors.New("missing source")
	}

	s.mu.RLock()
	cached, ok := s.cache[source]
	s.mu.RUnlock()
	if ok && cached.HasSnapshot() {
		return cached, nil
	}

	c := &content.Container{SourceID: source, Fallback: fallbackMarkup}
	if err := s.co.Load(r.Context(), c); err != nil {
		return nil, err
	}
	if c.HasSnapshot() {
		s.mu.Lock()
		s.cache[source] = c
		n := len(s.cache)
		s.mu.Unlock()
		s.opts.Metrics.SetActiveContainers(n)
	}
	return c, nil
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	c, err := s.load(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	data := view.PageData{
		Title:           s.cfg.Server.Title,
		ContainerID:     s.cfg.DefaultContainer,
		SourceID:        c.SourceID,
		Body:            template.HTML(c.HTML),
		HeaderClearance: s.cfg.HeaderClearance,
	}
	if s.cfg.NavEnabled() {
		data.NavTarget = s.cfg.NavTarget
		data.Nav = template.HTML(c.Nav)
	}

	page, err := s.renderer.Render(data)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

// handleFragment returns the rendered container markup without the page
// shell. The result header tells callers whether the fallback was served.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	c, err := s.load(r)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	result := string(metrics.ResultSuccess)
	if !c.HasSnapshot() {
		result = string(metrics.ResultFallback)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Docview-Result", result)
	_, _ = w.Write([]byte(c.HTML))
}
