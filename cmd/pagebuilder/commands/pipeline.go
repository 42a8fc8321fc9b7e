package commands

import (
	"context"
	"fmt"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/deploy"
	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/linkverify"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/notify"
	"git.home.luguber.info/inful/pagebuilder/internal/pages"
	"git.home.luguber.info/inful/pagebuilder/internal/shell"
	"git.home.luguber.info/inful/pagebuilder/internal/version"
)

// pipeline is a configured Builder plus the resources its after-steps hold.
type pipeline struct {
	builder  *build.Builder
	registry *prom.Registry
	closers  []func()
}

func (p *pipeline) Close() {
	for _, c := range p.closers {
		c()
	}
}

// newPipeline wires a Builder from cfg. registry may be nil; it is created
// when metrics are configured.
func newPipeline(cfg *config.Config, registry *prom.Registry, logger *slog.Logger) (*pipeline, error) {
	table, err := cfg.AliasTable()
	if err != nil {
		return nil, err
	}

	repo := deploy.NewResolver(cfg.Deploy.Repository, cfg.Deploy.RepositoryEnv, cfg.Content)
	env := pages.NewEnv(cfg.Content, table, repo, logger)
	env.ContentPath = cfg.Deploy.ContentPath
	env.Branch = cfg.Deploy.Branch

	shellOpts := []shell.Option{shell.WithTemplateFile(cfg.Theme.Template)}
	if cfg.Theme.Color != "" {
		shellOpts = append(shellOpts, shell.WithThemeColor(cfg.Theme.Color))
	}
	renderer, err := shell.NewRenderer(shellOpts...)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to load page layout").
			WithContext("path", cfg.Theme.Template).
			Build()
	}

	p := &pipeline{registry: registry}
	p.builder = build.NewBuilder(build.Options{
		OutputDir:    cfg.Output,
		Marker:       cfg.Build.Marker,
		Strict:       cfg.Build.Strict,
		ManifestPath: cfg.Build.Manifest,
		Version:      version.Version,
	}, env, renderer)

	if p.registry == nil && cfg.Metrics.Textfile != "" {
		p.registry = prom.NewRegistry()
	}
	if p.registry != nil {
		p.builder.WithRecorder(metrics.NewPrometheusRecorder(p.registry))
	}
	if cfg.Metrics.Textfile != "" {
		path := cfg.Metrics.Textfile
		p.builder.WithAfterStep("metrics-textfile", func(context.Context, *build.Report) error {
			return metrics.WriteTextfile(p.registry, path)
		})
	}

	if cfg.Build.VerifyLinks {
		p.builder.WithAfterStep("verify-links", func(ctx context.Context, report *build.Report) error {
			_, err := verifyLinks(ctx, report.OutputDir, report.Written(), logger)
			return err
		})
	}

	if cfg.Notify.Enabled() {
		n, err := notify.Connect(notify.Config{
			URL:       cfg.Notify.URL,
			Subject:   cfg.Notify.Subject,
			JetStream: cfg.Notify.JetStream,
			Timeout:   cfg.Notify.TimeoutDuration(),
		}, logger)
		if err != nil {
			// Notifications never decide the build result.
			logger.Warn("Build notifications disabled", logfields.Error(err))
		} else {
			p.closers = append(p.closers, n.Close)
			p.builder.WithAfterStep("notify", n.Notify)
		}
	}

	return p, nil
}

// verifyLinks checks files inside dir and turns broken links into an error.
func verifyLinks(ctx context.Context, dir string, files []string, logger *slog.Logger) (*linkverify.Result, error) {
	result, err := linkverify.NewVerifier(dir, logger).Verify(ctx, files)
	if err != nil {
		return result, err
	}
	if !result.OK() {
		return result, ferrors.ValidationError(fmt.Sprintf("%d broken internal links", len(result.Broken))).
			WithCause(linkverify.ErrBrokenLinks).
			WithContext("dir", dir).
			Build()
	}
	return result, nil
}
