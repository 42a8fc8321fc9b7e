package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/pages"
	"git.home.luguber.info/inful/pagebuilder/internal/shell"
)

// DefaultMarker tells static hosts to serve the output as plain files.
const DefaultMarker = ".nojekyll"

// Options controls one build.
type Options struct {
	// OutputDir receives the pages and the marker file. Defaults to ".".
	OutputDir string
	// Marker is the marker file name. Defaults to DefaultMarker.
	Marker string
	// Strict turns "no page written" into an error.
	Strict bool
	// ManifestPath, when set, receives a JSON build manifest.
	ManifestPath string
	// Version is recorded in the manifest.
	Version string
}

// AfterStep runs once the pages are written. Its failure is logged and
// never changes the build result.
type AfterStep struct {
	Name string
	Run  func(ctx context.Context, report *Report) error
}

// Builder runs builds. A Builder may be reused; it keeps no state between runs.
type Builder struct {
	opts       Options
	env        *pages.Env
	shell      *shell.Renderer
	assemblers []pages.Assembler
	recorder   metrics.Recorder
	logger     *slog.Logger
	after      []AfterStep
	now        func() time.Time
}

// NewBuilder creates a Builder that reads through env and renders with r.
func NewBuilder(opts Options, env *pages.Env, r *shell.Renderer) *Builder {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	if opts.Marker == "" {
		opts.Marker = DefaultMarker
	}
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		opts:       opts,
		env:        env,
		shell:      r,
		assemblers: pages.Assemblers(),
		recorder:   metrics.NoopRecorder{},
		logger:     logger,
		now:        time.Now,
	}
}

// WithRecorder sets the metrics recorder.
func (b *Builder) WithRecorder(rec metrics.Recorder) *Builder {
	if rec != nil {
		b.recorder = rec
	}
	return b
}

// WithAssemblers replaces the page assemblers (for testing).
func (b *Builder) WithAssemblers(as ...pages.Assembler) *Builder {
	b.assemblers = as
	return b
}

// WithAfterStep appends a step to run after the pages are written.
func (b *Builder) WithAfterStep(name string, run func(ctx context.Context, report *Report) error) *Builder {
	b.after = append(b.after, AfterStep{Name: name, Run: run})
	return b
}

// WithClock sets the clock used for report timestamps.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Options returns the effective build options.
func (b *Builder) Options() Options {
	return b.opts
}

// Run executes one full build. The returned error is non-nil only when the
// content root is missing, the output directory cannot be created, ctx is
// cancelled, or Strict is set and no page was written. The report is
// returned in every case.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:          uuid.NewString(),
		Start:       b.now(),
		ContentRoot: b.env.Root,
		OutputDir:   b.opts.OutputDir,
	}
	logger := b.logger.With(logfields.BuildID(report.ID))

	if err := b.init(); err != nil {
		return b.finish(report, metrics.OutcomeFailed), err
	}

	report.Removed = b.clean(logger)
	if err := writeFileAtomic(filepath.Join(b.opts.OutputDir, b.opts.Marker), nil); err != nil {
		logger.Warn("Failed to write marker file", logfields.File(b.opts.Marker), logfields.Error(err))
	} else {
		report.Marker = b.opts.Marker
	}

	if b.env.Repo != nil {
		if repo, err := b.env.Repo.Repository(ctx); err == nil {
			report.Repository = repo
		}
	}
	report.Brand = b.env.Brand.Discover(ctx)

	for _, a := range b.assemblers {
		if err := ctx.Err(); err != nil {
			logger.Warn("Build cancelled", logfields.Error(err))
			return b.finish(report, metrics.OutcomeFailed), err
		}
		report.Pages = append(report.Pages, b.runPage(ctx, logger, a))
	}

	var err error
	outcome := metrics.OutcomeSuccess
	if report.Succeeded() == 0 {
		logger.Warn("No pages generated, check the content directories", logfields.Dir(b.env.Root))
		outcome = metrics.OutcomeWarning
		if b.opts.Strict {
			outcome = metrics.OutcomeFailed
			err = ferrors.RenderError("no pages generated").WithCause(ErrNoPages).
				WithContext("content_root", b.env.Root).
				Build()
		}
	}
	b.finish(report, outcome)
	logger.Info("Build completed",
		logfields.Count(report.Succeeded()),
		logfields.DurationMS(float64(report.Duration().Milliseconds())),
		logfields.Status(string(outcome)))

	b.runAfterSteps(ctx, logger, report)
	return report, err
}

func (b *Builder) init() error {
	root := b.env.Root
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		builder := ferrors.StructureError("content root not found").
			WithCause(ErrContentRootMissing).
			WithContext("path", root)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			builder = builder.WithContext("stat_error", err.Error())
		}
		return builder.Build()
	}

	if err := os.MkdirAll(b.opts.OutputDir, 0o750); err != nil {
		return ferrors.FileSystemError("cannot create output directory").WithCause(err).
			WithContext("path", b.opts.OutputDir).
			Fatal().
			Build()
	}
	return nil
}

// clean removes every page file of a previous build so that pages that fail
// this time are absent rather than stale.
func (b *Builder) clean(logger *slog.Logger) []string {
	var removed []string
	for _, name := range pages.Files() {
		path := filepath.Join(b.opts.OutputDir, name)
		err := os.Remove(path)
		switch {
		case err == nil:
			removed = append(removed, name)
			logger.Debug("Removed previous page", logfields.File(name))
		case errors.Is(err, fs.ErrNotExist):
		default:
			logger.Warn("Failed to remove previous page", logfields.File(name), logfields.Error(err))
		}
	}
	return removed
}

func (b *Builder) runPage(ctx context.Context, logger *slog.Logger, a pages.Assembler) PageResult {
	page := a.Page()
	result := PageResult{Page: page}

	step := Step{Name: page.Name, Run: func(ctx context.Context) error {
		return b.buildPage(ctx, a, &result)
	}}
	step = Chain(step,
		WithLogging(logger.With(logfields.Page(page.File))),
		WithTiming(b.recorder, func(_ string, d time.Duration, _ error) { result.Duration = d }),
		WithRecover(),
	)

	if err := step.Run(ctx); err != nil {
		result.Status = StatusFailed
		result.Err = err
		b.recorder.IncStepResult(page.Name, metrics.ResultFailed)
		return result
	}

	label := metrics.ResultGenerated
	if result.Status == StatusPlaceholder {
		label = metrics.ResultPlaceholder
	}
	b.recorder.IncStepResult(page.Name, label)
	b.recorder.ObservePageItems(page.Name, result.Items)
	return result
}

func (b *Builder) buildPage(ctx context.Context, a pages.Assembler, result *PageResult) error {
	page := a.Page()

	frag, err := a.Assemble(ctx, b.env)
	if err != nil {
		return err
	}

	meta := b.env.Brand.Discover(ctx)
	doc, err := b.shell.Render(shell.PageData{
		Brand:          meta.Name,
		Title:          frag.Title,
		Favicon:        meta.Favicon,
		File:           page.File,
		Content:        frag.HTML,
		StructuredData: frag.StructuredData,
	})
	if err != nil {
		return ferrors.RenderError("failed to render page").WithCause(err).
			WithContext("page", page.File).
			Build()
	}

	if err := writeFileAtomic(filepath.Join(b.opts.OutputDir, page.File), doc); err != nil {
		return ferrors.FileSystemError("failed to write page").WithCause(err).
			WithContext("page", page.File).
			Build()
	}

	result.Title = frag.Title
	result.Items = frag.Items
	result.Fingerprint = fingerprint(frag)
	result.Status = StatusGenerated
	if frag.Placeholder {
		result.Status = StatusPlaceholder
	}
	return nil
}

func (b *Builder) finish(report *Report, outcome metrics.BuildOutcome) *Report {
	report.End = b.now()
	report.Outcome = outcome
	b.recorder.IncBuildOutcome(outcome)
	b.recorder.ObserveBuildDuration(report.Duration())
	return report
}

func (b *Builder) runAfterSteps(ctx context.Context, logger *slog.Logger, report *Report) {
	steps := b.after
	if b.opts.ManifestPath != "" {
		steps = append([]AfterStep{{Name: "manifest", Run: b.writeManifest}}, steps...)
	}

	for _, s := range steps {
		step := Step{Name: s.Name, Run: func(ctx context.Context) error {
			return s.Run(ctx, report)
		}}
		step = Chain(step, WithLogging(logger), WithRecover())
		// Failures are already logged by WithLogging.
		_ = step.Run(ctx)
	}
}

func (b *Builder) writeManifest(_ context.Context, report *Report) error {
	inputs, err := collectInputs(b.env.Root)
	if err != nil {
		return fmt.Errorf("collect manifest inputs: %w", err)
	}
	inputs.Repository = report.Repository
	inputs.Brand = report.Brand.Name
	inputs.BrandSource = string(report.Brand.Source)
	inputs.AliasFields = len(b.env.Resolver.Table().Fields())

	m := report.Manifest(b.opts.Version, inputs)
	if err := m.WriteFile(b.opts.ManifestPath); err != nil {
		return ferrors.FileSystemError("failed to write build manifest").WithCause(err).
			WithContext("path", b.opts.ManifestPath).
			Build()
	}
	return nil
}
