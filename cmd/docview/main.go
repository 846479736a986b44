package main

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mlind/docview/internal/augment"
	"github.com/mlind/docview/internal/config"
	"github.com/mlind/docview/internal/content"
	"github.com/mlind/docview/internal/markup"
	"github.com/mlind/docview/internal/metrics"
	"github.com/mlind/docview/internal/nav"
	"github.com/mlind/docview/internal/retry"
	"github.com/mlind/docview/internal/server"
	"github.com/mlind/docview/internal/view"
	"github.com/mlind/docview/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"docview.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Listen string `short:"l" help:"Override the configured listen address"`
	} `cmd:"" help:"Serve rendered documents over HTTP"`

	Render struct {
		Source string `arg:"" help:"Document source identifier (path or URL)"`
		Page   bool   `short:"p" help:"Wrap the output in the full page shell"`
	} `cmd:"" help:"Render a single document to stdout"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "serve":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if CLI.Serve.Listen != "" {
			cfg.Server.Listen = CLI.Serve.Listen
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "render <source>":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runRender(cfg, CLI.Render.Source, CLI.Render.Page); err != nil {
			slog.Error("Render failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration file created", "path", CLI.Config)
	}
}

// newCoordinator wires the retrieval pipeline from configuration: fetcher,
// transformer, navigation, augmentation, and metrics.
func newCoordinator(cfg *config.Config, recorder metrics.Recorder) *content.Coordinator {
	transformer := markup.New(markup.Options{ImageBase: cfg.ImageBase})

	var fetcher content.Fetcher
	contentBase := cfg.ContentBase
	if cfg.Local.Enabled {
		// Local files resolve against the fetcher's own root.
		fetcher = content.NewFileFetcher(cfg.Local.Dir)
		contentBase = "."
	} else {
		fetcher = content.NewHTTPFetcher(0)
	}

	opts := content.Options{
		ContentBase: contentBase,
		Augment:     augment.Apply,
		Metrics:     recorder,
	}
	if cfg.NavEnabled() {
		opts.BuildNav = nav.Build
	}
	return content.NewCoordinator(fetcher, transformer, opts)
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	co := newCoordinator(cfg, recorder)

	renderer, err := view.NewRenderer()
	if err != nil {
		return err
	}

	srv := server.New(cfg, co, renderer, server.Options{Registry: registry, Metrics: recorder})

	if cfg.Local.Enabled && cfg.Local.Watch {
		w, err := watch.New(cfg.Local.Dir, func() {
			slog.Info("content changed, re-rendering on next request")
			srv.Invalidate()
		})
		if err != nil {
			return fmt.Errorf("content watcher: %w", err)
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				slog.Warn("content watcher stopped", "error", err)
			}
		}()
	}

	return srv.Start(ctx)
}

// runRender loads one document, retrying per the configured policy when the
// first attempt fails, and prints the result to stdout.
func runRender(cfg *config.Config, source string, page bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	co := newCoordinator(cfg, metrics.NoopRecorder{})

	c := &content.Container{SourceID: source}
	if err := co.Load(ctx, c); err != nil {
		return err
	}

	if !c.HasSnapshot() {
		policy := retry.NewPolicy(retry.BackoffFixed, cfg.Retry.Interval, 0, cfg.Retry.MaxAttempts)
		schedule := co.NewRetrySchedule([]*content.Container{c}, policy)
		if err := schedule.Start(ctx); err != nil {
			return err
		}
		defer schedule.Stop()

		for !c.HasSnapshot() && !schedule.Exhausted() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(100 * time.Millisecond):
			}
		}
	}

	if !c.HasSnapshot() {
		return fmt.Errorf("could not retrieve %s after %d attempts", source, cfg.Retry.MaxAttempts)
	}

	out := c.HTML
	if page {
		renderer, err := view.NewRenderer()
		if err != nil {
			return err
		}
		out, err = renderer.Render(view.PageData{
			Title:           cfg.Server.Title,
			ContainerID:     cfg.DefaultContainer,
			SourceID:        c.SourceID,
			NavTarget:       navTarget(cfg),
			Body:            template.HTML(c.HTML),
			Nav:             template.HTML(c.Nav),
			HeaderClearance: cfg.HeaderClearance,
		})
		if err != nil {
			return err
		}
	}
	fmt.Println(out)
	return nil
}

func navTarget(cfg *config.Config) string {
	if cfg.NavEnabled() {
		return cfg.NavTarget
	}
	return ""
}
