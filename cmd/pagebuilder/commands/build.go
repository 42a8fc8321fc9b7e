package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/config"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output          string `short:"o" help:"Output directory for the pages (default from config, else .)"`
	Content         string `help:"Content root directory (default from config, else schemas)"`
	Repository      string `help:"Repository identifier owner/name used for raw file links"`
	Strict          bool   `help:"Fail when no page could be written"`
	Manifest        string `help:"Write a JSON build manifest to this path"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics to this textfile after the build"`
	VerifyLinks     bool   `name:"verify-links" help:"Check internal links of the written pages"`
}

// apply lets flags override the configuration.
func (b *BuildCmd) apply(cfg *config.Config) {
	if b.Output != "" {
		cfg.Output = b.Output
	}
	if b.Content != "" {
		cfg.Content = b.Content
	}
	if b.Repository != "" {
		cfg.Deploy.Repository = b.Repository
	}
	if b.Strict {
		cfg.Build.Strict = true
	}
	if b.Manifest != "" {
		cfg.Build.Manifest = b.Manifest
	}
	if b.MetricsTextfile != "" {
		cfg.Metrics.Textfile = b.MetricsTextfile
	}
	if b.VerifyLinks {
		cfg.Build.VerifyLinks = true
	}
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig(g)
	if err != nil {
		return err
	}
	b.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err = RunBuild(g.ctx(), cfg, g)
	return err
}

// RunBuild runs one build with cfg and prints progress lines to stdout.
func RunBuild(ctx context.Context, cfg *config.Config, g *Global) (*build.Report, error) {
	out := g.stdout()
	logger := g.logger()

	// Friendly user-facing messages on stdout.
	_, _ = fmt.Fprintln(out, "Starting PageBuilder build")
	logger.Info("Starting build",
		logfields.Dir(cfg.Content), slog.String("output", cfg.Output))

	p, err := newPipeline(cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	report, err := p.builder.Run(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(out, "Build failed")
		return report, err
	}
	printReport(out, report)
	_, _ = fmt.Fprintln(out, "Build completed")
	return report, nil
}

func printReport(out io.Writer, report *build.Report) {
	for _, p := range report.Pages {
		line := fmt.Sprintf("  %-18s %s", p.Page.File, p.Status)
		if p.Err != nil {
			line += ": " + p.Err.Error()
		}
		_, _ = fmt.Fprintln(out, line)
	}
	_, _ = fmt.Fprintln(out, report.Summary())
}
