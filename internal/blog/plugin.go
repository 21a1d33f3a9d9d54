package blog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cast"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/plugin"
	"github.com/mAKEkr/blog-advance/internal/version"
)

// PluginName is the registry name of the blog plugin.
const PluginName = "blog"

// Report summarizes what the plugin produced in the last build.
type Report struct {
	Tags          int
	Categories    int
	Authors       int
	InjectedPages int
	FeedEntries   int
	ExtrasCopied  int
}

// Plugin wires the blog components into the host lifecycle.
//
// Ready builds the taxonomy index and hands it forward; the later hooks read
// that value instead of rescanning pages.
type Plugin struct {
	plugin.BasePlugin

	opts       Options
	renderer   HTMLRenderer
	classifier *Classifier
	classHost  plugin.Host

	index  Index
	report Report
}

// New returns the blog plugin. renderer may be nil, in which case feed entries
// carry no content and no excerpt.
func New(opts Options, renderer HTMLRenderer) *Plugin {
	opts = opts.withDefaults()
	return &Plugin{opts: opts, renderer: renderer, index: NewIndex()}
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.Metadata {
	caps := []plugin.Capability{plugin.CapabilityTaxonomy, plugin.CapabilityClientData, plugin.CapabilityExtras}
	if !p.opts.Feed.Disabled {
		caps = append(caps, plugin.CapabilityFeed)
	}
	return plugin.Metadata{
		Name:         PluginName,
		Version:      version.Version,
		Type:         plugin.TypeContent,
		Description:  "Blog page classification, taxonomies and Atom feed",
		Capabilities: caps,
	}
}

// Validate checks plugin settings passed as a loose map.
func (p *Plugin) Validate(config map[string]any) error {
	if raw, ok := config["merge_policy"]; ok {
		s, err := cast.ToStringE(raw)
		if err != nil {
			return ferrors.ConfigError("merge_policy must be a string").WithContext("value", raw).Build()
		}
		if _, err := ParseMergePolicy(s); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid merge_policy").Build()
		}
	}
	if raw, ok := config["feed_limit"]; ok {
		n, err := cast.ToIntE(raw)
		if err != nil || n < 0 {
			return ferrors.ConfigError("feed_limit must be a non-negative integer").WithContext("value", raw).Build()
		}
	}
	return nil
}

// Options returns the effective options.
func (p *Plugin) Options() Options { return p.opts }

// Index returns the index built by the last Ready call.
func (p *Plugin) Index() Index { return p.index }

// Report returns the summary of the last build.
func (p *Plugin) Report() Report { return p.report }

// ExtendPageData classifies one page.
func (p *Plugin) ExtendPageData(pc *plugin.Context, pg *page.Page) {
	if p.classifier == nil || p.classHost != pc.Host {
		p.classifier = NewClassifier(DefaultRules(p.opts), p.opts.MergePolicy, pc.Host)
		p.classHost = pc.Host
	}
	p.classifier.Classify(pg)
	pc.Logger.Debug("Classified page",
		logfields.Page(pg.Key),
		logfields.Path(pg.RegularPath),
		logfields.Layout(pg.Layout()),
		logfields.PageType(pg.Type.String()))
}

// Ready indexes the host's pages and injects the taxonomy pages.
func (p *Plugin) Ready(ctx context.Context, pc *plugin.Context) error {
	p.report = Report{}
	idx := BuildIndex(pc.Host.Pages(), p.opts.DraftsDir)

	added, err := Inject(ctx, pc.Host, idx, p.opts)
	if err != nil {
		return err
	}
	p.index = idx
	p.report.Tags = idx.Tags.Len()
	p.report.Categories = idx.Categories.Len()
	p.report.Authors = idx.Authors.Len()
	p.report.InjectedPages = added

	for _, m := range idx.Maps() {
		pc.Logger.Info("Indexed taxonomy", logfields.Scope(string(m.Scope())), logfields.Count(m.Len()))
	}
	return nil
}

// ClientDynamicModules exports the index built by Ready.
func (p *Plugin) ClientDynamicModules(_ context.Context, _ *plugin.Context) ([]plugin.Module, error) {
	return ClientModules(p.index)
}

// Generated writes the feed and copies the extras folder.
func (p *Plugin) Generated(ctx context.Context, pc *plugin.Context) error {
	host := pc.Host

	if !p.opts.Feed.Disabled {
		builder := &FeedBuilder{
			Site:     host.Site(),
			Options:  p.opts.Feed,
			Renderer: p.renderer,
			Logger:   pc.Logger,
		}
		data, n, err := builder.RenderFeed(host.Pages())
		if err != nil {
			return err
		}
		if err := WriteFeed(host.OutputDir(), p.opts.Feed.File, data); err != nil {
			return err
		}
		p.report.FeedEntries = n
		pc.Logger.Info("Wrote feed", logfields.File(p.opts.Feed.File), logfields.Count(n))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	src := p.opts.ExtrasDir
	if !filepath.IsAbs(src) {
		src = filepath.Join(host.SourceDir(), src)
	}
	copied, err := CopyExtras(src, host.OutputDir())
	if err != nil {
		return err
	}
	p.report.ExtrasCopied = copied
	if copied > 0 {
		pc.Logger.Info("Copied blog extras", logfields.Path(src), logfields.Count(copied))
	}
	return nil
}

// String implements fmt.Stringer.
func (p *Plugin) String() string {
	return fmt.Sprintf("%s (%s)", p.Metadata(), p.opts.MergePolicy)
}
