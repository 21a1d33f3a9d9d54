package site

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mAKEkr/blog-advance/internal/blog"
	"github.com/mAKEkr/blog-advance/internal/config"
	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/markdown"
	"github.com/mAKEkr/blog-advance/internal/metrics"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/plugin"
)

// Builder runs full site builds for one configuration.
type Builder struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	extra    []plugin.Plugin
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder. Defaults to metrics.NoopRecorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithPlugins registers extra plugins after the blog plugin.
func WithPlugins(pl ...plugin.Plugin) Option {
	return func(b *Builder) { b.extra = append(b.extra, pl...) }
}

// NewBuilder returns a builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, logger: slog.Default(), recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// buildState carries one build through the stages.
type buildState struct {
	cfg      *config.Config
	site     *Site
	registry *plugin.Registry
	blog     *blog.Plugin
	pc       *plugin.Context
	modules  []plugin.Module

	logger   *slog.Logger
	recorder metrics.Recorder
	report   *Report
}

// Build runs one complete build. The report is returned even when the build
// fails.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	bs, err := b.run(ctx, true)
	if bs == nil {
		return nil, err
	}
	return bs.report, err
}

// Plan loads and classifies the site and injects the taxonomy pages without
// writing anything. It returns the resulting page set.
func (b *Builder) Plan(ctx context.Context) ([]*page.Page, *Report, error) {
	bs, err := b.run(ctx, false)
	if bs == nil {
		return nil, nil, err
	}
	return bs.site.Pages(), bs.report, err
}

func (b *Builder) run(ctx context.Context, write bool) (*buildState, error) {
	registry := plugin.NewRegistry()
	bp := blog.New(BlogOptions(b.cfg), markdown.NewRenderer(markdown.Options{Unsafe: true}))
	for _, pl := range append([]plugin.Plugin{bp}, b.extra...) {
		if err := registry.Register(pl); err != nil {
			return nil, err
		}
	}

	st := New(b.cfg, registry, b.logger)
	pc := plugin.NewContext(b.logger, st, "")
	bs := &buildState{
		cfg:      b.cfg,
		site:     st,
		registry: registry,
		blog:     bp,
		pc:       pc,
		logger:   pc.Logger,
		recorder: b.recorder,
		report:   newReport(pc.BuildID),
	}

	bs.logger.Info("Build started",
		logfields.Path(b.cfg.SourceDir),
		slog.String("output", b.cfg.OutputDir),
		slog.Bool("production", b.cfg.Production),
		slog.Bool("write", write))

	stages := NewPipeline().
		Add(StageLoad, stageLoad).
		Add(StageClassify, stageClassify).
		Add(StagePermalinks, stagePermalinks).
		Add(StageReady, stageReady).
		AddIf(write, StageModules, stageModules).
		AddIf(write, StageManifest, stageManifest).
		AddIf(write, StageGenerated, stageGenerated).
		Build()

	err := runStages(ctx, bs, stages)
	b.finish(bs, err)
	if err != nil {
		return bs, ferrors.WrapError(err, ferrors.CategoryBuild, "build failed").
			WithContext("build_id", bs.report.BuildID).
			Build()
	}
	return bs, nil
}

func (b *Builder) finish(bs *buildState, err error) {
	r := bs.report
	r.End = time.Now()

	for _, p := range bs.site.Pages() {
		r.Pages[p.Type]++
		if p.Synthetic {
			r.Synthetic++
		}
	}
	br := bs.blog.Report()
	r.Tags, r.Categories, r.Authors = br.Tags, br.Categories, br.Authors
	r.FeedEntries, r.ExtrasCopied = br.FeedEntries, br.ExtrasCopied

	var se *StageError
	switch {
	case err == nil:
		r.Outcome = metrics.BuildOutcomeSuccess
	case errors.As(err, &se) && se.Kind == StageErrorCanceled:
		r.Outcome = metrics.BuildOutcomeCanceled
	default:
		r.Outcome = metrics.BuildOutcomeFailed
	}

	rec := bs.recorder
	rec.ObserveBuildDuration(r.Duration())
	rec.IncBuildOutcome(r.Outcome)
	for t, n := range r.Pages {
		rec.SetPages(string(t), n)
	}
	rec.SetTaxonomyTerms(string(blog.ScopeTag), r.Tags)
	rec.SetTaxonomyTerms(string(blog.ScopeCategory), r.Categories)
	rec.SetTaxonomyTerms(string(blog.ScopeAuthor), r.Authors)
	rec.SetFeedEntries(r.FeedEntries)

	attrs := []any{
		slog.String("outcome", string(r.Outcome)),
		logfields.Count(r.TotalPages()),
		logfields.DurationMS(msec(r.Duration())),
	}
	if err != nil {
		bs.logger.Error("Build finished", append(attrs, logfields.Error(err))...)
		return
	}
	bs.logger.Info("Build finished", attrs...)
}

func stageLoad(_ context.Context, bs *buildState) error {
	if err := bs.site.Load(); err != nil {
		return err
	}
	bs.logger.Info("Loaded pages",
		logfields.Count(len(bs.site.Pages())),
		slog.Int("layouts", len(bs.site.Layouts())))
	return nil
}

func stageClassify(_ context.Context, bs *buildState) error {
	bs.site.Classify(bs.pc)
	return nil
}

func stagePermalinks(_ context.Context, bs *buildState) error {
	return bs.site.ResolvePermalinks()
}

func stageReady(ctx context.Context, bs *buildState) error {
	return bs.registry.Ready(ctx, bs.pc)
}

func stageModules(ctx context.Context, bs *buildState) error {
	mods, err := bs.registry.ClientDynamicModules(ctx, bs.pc)
	if err != nil {
		return err
	}
	bs.modules = mods

	written, err := WriteModules(bs.dataDir(), mods)
	if err != nil {
		return err
	}
	bs.report.ModuleWrites = written
	bs.report.ModulesKept = len(mods) - written
	bs.logger.Info("Wrote data modules",
		logfields.Path(bs.dataDir()),
		logfields.Count(written),
		slog.Int("unchanged", len(mods)-written))
	return nil
}

func stageManifest(_ context.Context, bs *buildState) error {
	entries, err := BuildManifest(bs.site.Pages())
	if err != nil {
		return err
	}
	data, err := MarshalManifest(entries)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode manifest").Build()
	}
	if _, err := writeIfChanged(filepath.Join(bs.dataDir(), ManifestFile), data); err != nil {
		return err
	}
	bs.report.ManifestPages = len(entries)
	return nil
}

func stageGenerated(ctx context.Context, bs *buildState) error {
	if err := os.MkdirAll(bs.cfg.OutputDir, 0o750); err != nil {
		return outputError(err, bs.cfg.OutputDir)
	}
	return bs.registry.Generated(ctx, bs.pc)
}

func (bs *buildState) dataDir() string {
	dir := bs.cfg.Blog.DataDir
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(bs.cfg.OutputDir, dir)
}
