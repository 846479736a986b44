package content

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mlind/docview/internal/logfields"
	"github.com/mlind/docview/internal/markup"
	"github.com/mlind/docview/internal/metrics"
)

// LoadingMarkup is the transient indicator shown while retrieval is in
// flight.
const LoadingMarkup = `<div class="loading-indicator">Loading content&hellip;</div>`

// DefaultContentBase is prefixed to relative source identifiers.
const DefaultContentBase = "../content/"

// defaultAttemptTimeout bounds a single retrieval attempt so a hung
// retrieval cannot pin a container in its loading state forever.
const defaultAttemptTimeout = 10 * time.Second

// NavBuilder derives a navigation list from rendered container HTML.
// ok is false when the document has no navigable headings.
type NavBuilder func(rendered string) (nav string, ok bool)

// Augmenter applies the post-render interactive upgrades (galleries, zoom
// marks, reveal marks) to container HTML.
type Augmenter func(rendered string) string

// Options configures a Coordinator.
type Options struct {
	// ContentBase is prefixed to relative source identifiers; absolute URLs
	// pass through unchanged. Empty means DefaultContentBase. Use "." to
	// disable prefixing (local-file fetchers resolve against their own root).
	ContentBase string
	// AttemptTimeout bounds one retrieval attempt. Zero means the default.
	AttemptTimeout time.Duration
	// BuildNav, when set, populates Container.Nav after a successful render.
	BuildNav NavBuilder
	// Augment, when set, post-processes container HTML on every path,
	// including fallback content.
	Augment Augmenter
	// Metrics receives retrieval and transform observations.
	Metrics metrics.Recorder
}

// Coordinator loads documents into containers: retrieval with fallback,
// transformation, navigation and augmentation, strictly ordered per
// container. Containers are independent; the only shared collaborator is
// the stateless transformer.
type Coordinator struct {
	fetcher     Fetcher
	transformer *markup.Transformer
	opts        Options
}

// NewCoordinator creates a Coordinator. A nil fetcher means retrieval is
// unavailable (local page context): containers keep their fallback content
// and are still augmented.
func NewCoordinator(fetcher Fetcher, transformer *markup.Transformer, opts Options) *Coordinator {
	if opts.ContentBase == "" {
		opts.ContentBase = DefaultContentBase
	}
	if opts.ContentBase == "." {
		opts.ContentBase = ""
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = defaultAttemptTimeout
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	return &Coordinator{fetcher: fetcher, transformer: transformer, opts: opts}
}

// Load retrieves, transforms and renders the container's document. A failed
// retrieval restores the fallback content and is reported through logs and
// metrics only; the page remains usable. The returned error is non-nil only
// when the context was canceled.
func (co *Coordinator) Load(ctx context.Context, c *Container) error {
	loadID := uuid.NewString()

	if co.fetcher == nil {
		// No retrieval capability: keep the pre-existing content, but the
		// interactive upgrades still apply.
		c.HTML = co.augment(c.Fallback)
		slog.Debug("retrieval unavailable, keeping fallback content",
			logfields.Source(c.SourceID), logfields.LoadID(loadID))
		return nil
	}

	// Preserve whatever is currently displayed as the fallback for this
	// attempt, then show the transient loading state.
	fallback := c.HTML
	if fallback == "" {
		fallback = c.Fallback
	}
	c.Fallback = fallback
	c.HTML = LoadingMarkup

	path := co.resolvePath(c.SourceID)

	attemptCtx, cancel := context.WithTimeout(ctx, co.opts.AttemptTimeout)
	defer cancel()

	start := time.Now()
	raw, err := co.fetcher.Fetch(attemptCtx, path)
	co.opts.Metrics.ObserveRetrievalDuration(c.SourceID, time.Since(start), err == nil)

	if err != nil {
		c.HTML = co.augment(fallback)
		if ctx.Err() != nil {
			co.opts.Metrics.IncRetrievalResult(metrics.ResultCanceled)
			return ctx.Err()
		}
		co.opts.Metrics.IncRetrievalResult(metrics.ResultFallback)
		slog.Warn("document retrieval failed, showing fallback content",
			logfields.Source(c.SourceID), logfields.Path(path),
			logfields.LoadID(loadID), logfields.Error(err))
		return nil
	}

	transformStart := time.Now()
	rendered := co.transformer.Transform(raw)
	co.opts.Metrics.ObserveTransformDuration(time.Since(transformStart))

	c.HTML = rendered
	c.Snapshot = snippet(rendered)

	if co.opts.BuildNav != nil {
		if nav, ok := co.opts.BuildNav(rendered); ok {
			c.Nav = nav
		} else {
			c.Nav = ""
		}
	}
	c.HTML = co.augment(c.HTML)

	co.opts.Metrics.IncRetrievalResult(metrics.ResultSuccess)
	slog.Debug("document rendered",
		logfields.Source(c.SourceID), logfields.LoadID(loadID), logfields.Bytes(len(raw)))
	return nil
}

func (co *Coordinator) augment(html string) string {
	if co.opts.Augment == nil {
		return html
	}
	return co.opts.Augment(html)
}

// resolvePath passes absolute URLs through and prefixes everything else with
// the configured content base.
func (co *Coordinator) resolvePath(sourceID string) string {
	if strings.HasPrefix(sourceID, "http://") || strings.HasPrefix(sourceID, "https://") {
		return sourceID
	}
	return co.opts.ContentBase + sourceID
}
