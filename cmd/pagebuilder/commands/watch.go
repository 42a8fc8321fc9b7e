package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/config"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/pages"
	"git.home.luguber.info/inful/pagebuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	BuildCmd `embed:""`

	Debounce      time.Duration `help:"Quiet period after the last change before rebuilding (default 300ms)"`
	Schedule      string        `help:"Cron expression for periodic rebuilds"`
	MetricsListen string        `name:"metrics-listen" help:"Serve Prometheus metrics on this address, e.g. :9102"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	w.apply(cfg)
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce.String()
	}
	if w.Schedule != "" {
		cfg.Watch.Schedule = w.Schedule
	}
	if w.MetricsListen != "" {
		cfg.Metrics.Listen = w.MetricsListen
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if info, err := os.Stat(cfg.Content); err != nil || !info.IsDir() {
		return ferrors.WrapError(build.ErrContentRootMissing, ferrors.CategoryStructure, "content root not found").
			WithContext("path", cfg.Content).
			Fatal().
			Build()
	}

	ctx := g.ctx()
	logger := g.logger()
	out := g.stdout()

	var registry *prom.Registry
	if cfg.Metrics.Listen != "" {
		registry = prom.NewRegistry()
		stop := serveMetrics(ctx, cfg.Metrics.Listen, registry, logger)
		defer stop()
	}

	p, err := newPipeline(cfg, registry, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	watcher := watch.New(watch.Options{
		Root:     cfg.Content,
		Debounce: cfg.Watch.DebounceDuration(),
		Schedule: cfg.Watch.Schedule,
		Exclude:  outputExclusions(cfg),
	}, func(ctx context.Context) error {
		report, err := p.builder.Run(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, report.Summary())
		return nil
	}, logger)

	_, _ = fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", cfg.Content)
	return watcher.Run(ctx)
}

// outputExclusions lists the paths a build writes inside the content root,
// so the build's own writes do not retrigger it. An output directory nested
// in the root is excluded whole; when output is the root itself only the
// generated files are.
func outputExclusions(cfg *config.Config) []string {
	content, err := filepath.Abs(cfg.Content)
	if err != nil {
		return nil
	}
	inside := func(path string) bool {
		rel, err := filepath.Rel(content, path)
		return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
	}

	var excluded []string
	if output, err := filepath.Abs(cfg.Output); err == nil && inside(output) {
		if output == content {
			for _, f := range pages.Files() {
				excluded = append(excluded, filepath.Join(output, f))
			}
			if cfg.Build.Marker != "" {
				excluded = append(excluded, filepath.Join(output, cfg.Build.Marker))
			}
		} else {
			excluded = append(excluded, output)
		}
	}
	for _, path := range []string{cfg.Build.Manifest, cfg.Metrics.Textfile} {
		if path == "" {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil && inside(abs) {
			excluded = append(excluded, abs)
		}
	}
	return excluded
}

// serveMetrics serves registry on addr until the returned stop is called.
func serveMetrics(ctx context.Context, addr string, registry *prom.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(registry))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Serving metrics", logfields.URL("http://"+addr+"/metrics"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", logfields.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
