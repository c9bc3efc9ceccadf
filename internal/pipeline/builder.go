// Package pipeline drives a full library build: navigation, per-document
// rendering over a worker pool, and a validation pass over the output.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"git.home.luguber.info/inful/knowledgelib/internal/buildstore"
	"git.home.luguber.info/inful/knowledgelib/internal/cache"
	"git.home.luguber.info/inful/knowledgelib/internal/content"
	"git.home.luguber.info/inful/knowledgelib/internal/foundation/errors"
	"git.home.luguber.info/inful/knowledgelib/internal/logfields"
	"git.home.luguber.info/inful/knowledgelib/internal/metrics"
	"git.home.luguber.info/inful/knowledgelib/internal/render"
)

// Placeholder is the page content of a document without a README.
const Placeholder = "<p>Content coming soon.</p>"

// History receives the record of every finished build.
type History interface {
	RecordBuild(ctx context.Context, rec buildstore.BuildRecord) error
}

// Options configures a Builder. Paths may be relative to the working directory.
type Options struct {
	Root           string
	OutputDir      string
	StaticDir      string // copied to <output>/static when present
	MetadataPath   string
	NavigationPath string
	Clean          bool

	Workers            int
	PageExtension      string
	HighlightStyle     string
	MinContentLength   int
	RequiredSections   []string
	ResourceExtensions []string
	Site               render.Site

	Cache    *cache.Cache[content.Rendered] // shared across builds, nil disables
	Recorder metrics.Recorder
	History  History
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Builder runs builds. Build must not be called concurrently on one Builder.
type Builder struct {
	opts     Options
	renderer *render.Renderer
	logger   *slog.Logger
	recorder metrics.Recorder
	clock    func() time.Time
}

// New validates opts and prepares the page renderer.
func New(opts Options) (*Builder, error) {
	if opts.Root == "" {
		return nil, errors.ConfigError("library root is required").Build()
	}
	if opts.OutputDir == "" {
		return nil, errors.ConfigError("output directory is required").Build()
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve library root").Build()
	}
	out, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "resolve output directory").Build()
	}
	opts.Root, opts.OutputDir = root, out
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.PageExtension == "" {
		opts.PageExtension = content.DefaultPageExtension
	}

	r, err := render.New(opts.Site)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "load page templates").Build()
	}
	b := &Builder{opts: opts, renderer: r, logger: opts.Logger, recorder: opts.Recorder, clock: opts.Clock}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.recorder == nil {
		b.recorder = metrics.NoopRecorder{}
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	return b, nil
}

// OutputDir returns the absolute output directory.
func (b *Builder) OutputDir() string { return b.opts.OutputDir }

// Root returns the absolute library root.
func (b *Builder) Root() string { return b.opts.Root }

// Build runs every stage. Per-document failures end up in the report; the
// returned error is reserved for fatal corpus problems and cancellation.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	bs := newBuildState(b)
	b.logger.Info("Starting build", bs.logAttrs()...)

	for _, st := range b.stages() {
		if err := ctx.Err(); err != nil {
			return b.finish(ctx, bs, canceled(st.name, err))
		}
		start := time.Now()
		err := st.run(ctx, bs)
		d := time.Since(start)
		b.recorder.ObserveStageDuration(st.name, d)
		b.logger.Debug("Stage finished", append(bs.logAttrs(), stageAttrs(st.name, d)...)...)
		if err != nil {
			return b.finish(ctx, bs, err)
		}
	}
	return b.finish(ctx, bs, nil)
}

func (b *Builder) finish(ctx context.Context, bs *buildState, err error) (*Report, error) {
	rep := bs.report
	rep.Duration = time.Since(bs.started)
	rep.Findings = bs.collector.Findings()

	b.recorder.ObserveBuildDuration(rep.Duration)
	switch {
	case err != nil && errors.HasCategory(err, errors.CategoryRuntime):
		b.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
	case err != nil:
		b.recorder.IncBuildOutcome(metrics.OutcomeFailed)
	default:
		b.recorder.IncBuildOutcome(outcomeFor(rep.Status()))
		b.recorder.AddValidationIssues("error", rep.ErrorCount())
		b.recorder.AddValidationIssues("warning", rep.WarningCount())
	}

	if err != nil {
		b.logger.Error("Build failed", append(bs.logAttrs(), logfields.Error(err))...)
		return rep, err
	}

	if b.opts.History != nil {
		// the finished build is recorded even if ctx was canceled meanwhile
		if herr := b.opts.History.RecordBuild(context.WithoutCancel(ctx), rep.Record()); herr != nil {
			b.logger.Warn("Failed to record build history", append(bs.logAttrs(), logfields.Error(herr))...)
		}
	}
	b.logger.Info("Build complete", append(bs.logAttrs(), rep.logAttrs()...)...)
	return rep, nil
}

func outcomeFor(s buildstore.Status) metrics.Outcome {
	switch s {
	case buildstore.StatusFailed:
		return metrics.OutcomeFailed
	case buildstore.StatusWarning:
		return metrics.OutcomeWarning
	default:
		return metrics.OutcomeSuccess
	}
}

func canceled(stage string, err error) error {
	return errors.WrapError(err, errors.CategoryRuntime, "build canceled").WithContext("stage", stage).Build()
}
