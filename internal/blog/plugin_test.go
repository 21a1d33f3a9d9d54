package blog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mAKEkr/blog-advance/internal/markdown"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/plugin"
)

// runPipeline drives every hook of a fresh plugin over a fresh host holding
// copies of pages, the way the site builder does.
func runPipeline(t *testing.T, opts Options, pages func() []*page.Page) (*Plugin, *fakeHost, []plugin.Module) {
	t.Helper()

	host := newFakeHost(allLayouts()...)
	host.sourceDir = t.TempDir()
	host.outputDir = t.TempDir()

	opts.Feed.Now = fixedNow
	p := New(opts, markdown.NewRenderer(markdown.Options{}))
	pc := plugin.NewContext(nil, host, "test-build")
	host.onAdd = func(pg *page.Page) { p.ExtendPageData(pc, pg) }

	for _, pg := range pages() {
		p.ExtendPageData(pc, pg)
		host.pages = append(host.pages, pg)
	}

	ctx := context.Background()
	require.NoError(t, p.Ready(ctx, pc))
	mods, err := p.ClientDynamicModules(ctx, pc)
	require.NoError(t, err)
	require.NoError(t, p.Generated(ctx, pc))
	return p, host, mods
}

func fixturePages() []*page.Page {
	mk := func(key, regular string, fm map[string]any) *page.Page {
		p := newPage(key, regular, fm)
		p.Title = p.Field(page.KeyTitle)
		return p
	}
	return []*page.Page{
		mk("v-root", "/", nil),
		mk("v-about", "/about.html", map[string]any{page.KeyTitle: "About"}),
		mk("v-p1", "/_posts/2020-01-02-first.html", map[string]any{
			page.KeyTitle:      "First",
			page.KeyDate:       "2020-01-02",
			page.KeyTags:       []any{"go", "blog"},
			page.KeyCategories: []any{"dev"},
			page.KeyAuthor:     "jane",
		}),
		mk("v-p2", "/_posts/2021-06-07-second.html", map[string]any{
			page.KeyTitle:    "Second",
			page.KeySubtitle: "More",
			page.KeyDate:     time.Date(2021, 6, 7, 0, 0, 0, 0, time.UTC),
			page.KeyTag:      "go",
			page.KeyCategory: "life",
		}),
		mk("v-d1", "/_drafts/unfinished.html", map[string]any{
			page.KeyTitle: "Unfinished",
			page.KeyTags:  []any{"secret"},
		}),
	}
}

func TestPlugin_FullPipeline(t *testing.T) {
	p, host, mods := runPipeline(t, Options{}, fixturePages)

	byPath := map[string]*page.Page{}
	for _, pg := range host.pages {
		byPath[pg.Path] = pg
	}

	require.Equal(t, LayoutDefault, byPath["/"].Layout())
	require.Equal(t, LayoutPage, byPath["/about.html"].Layout())
	require.Equal(t, page.TypePost, byPath["/_posts/2020-01-02-first.html"].Type)
	require.Equal(t, page.TypePostDraft, byPath["/_drafts/unfinished.html"].Type)

	// Injected pages went through classification too.
	require.Equal(t, LayoutTags, byPath["/tag/"].Layout())
	require.Equal(t, LayoutTag, byPath["/tag/go.html"].Layout())
	require.Equal(t, LayoutCategories, byPath["/category/"].Layout())
	require.Equal(t, LayoutCategory, byPath["/category/life.html"].Layout())
	require.Equal(t, LayoutAuthor, byPath["/author/jane.html"].Layout())
	require.NotContains(t, byPath, "/tag/secret.html")

	idx := p.Index()
	require.Equal(t, []string{"go", "blog"}, idx.Tags.Terms())
	goEntry, _ := idx.Tags.Get("go")
	require.Equal(t, []string{"v-p1", "v-p2"}, goEntry.PageKeys)

	report := p.Report()
	require.Equal(t, 2, report.Tags)
	require.Equal(t, 2, report.Categories)
	require.Equal(t, 1, report.Authors)
	require.Equal(t, 7, report.InjectedPages)
	require.Equal(t, 2, report.FeedEntries)

	require.Len(t, mods, 3)
	require.Equal(t, "tag.js", mods[0].Name)

	feed, err := os.ReadFile(filepath.Join(host.outputDir, DefaultFeedFile))
	require.NoError(t, err)
	doc := decodeFeed(t, feed)
	require.Len(t, doc.Entries, 2)
	require.Equal(t, "Second", doc.Entries[0].Title)
	require.Equal(t, "First", doc.Entries[1].Title)
}

func TestPlugin_ProductionDraftsAreNotFound(t *testing.T) {
	_, host, _ := runPipeline(t, Options{Production: true}, fixturePages)
	for _, pg := range host.pages {
		if pg.Key == "v-d1" {
			require.Equal(t, LayoutNotFound, pg.Layout())
			return
		}
	}
	t.Fatal("draft page missing")
}

func TestPlugin_RepeatedRunsAreIdentical(t *testing.T) {
	p1, host1, mods1 := runPipeline(t, Options{}, fixturePages)
	p2, host2, mods2 := runPipeline(t, Options{}, fixturePages)

	j1, err := json.Marshal(p1.Index().Maps())
	require.NoError(t, err)
	j2, err := json.Marshal(p2.Index().Maps())
	require.NoError(t, err)
	require.Equal(t, string(j1), string(j2))
	require.Equal(t, mods1, mods2)

	f1, err := os.ReadFile(filepath.Join(host1.outputDir, DefaultFeedFile))
	require.NoError(t, err)
	f2, err := os.ReadFile(filepath.Join(host2.outputDir, DefaultFeedFile))
	require.NoError(t, err)
	require.Equal(t, string(f1), string(f2))
}

func TestPlugin_CopiesExtrasAndHonoursDisabledFeed(t *testing.T) {
	host := newFakeHost(allLayouts()...)
	host.sourceDir = t.TempDir()
	host.outputDir = t.TempDir()
	writeFile(t, filepath.Join(host.sourceDir, DefaultExtrasDir, "robots.txt"), "User-agent: *")

	p := New(Options{Feed: FeedOptions{Disabled: true}}, nil)
	pc := plugin.NewContext(nil, host, "")
	require.NoError(t, p.Ready(context.Background(), pc))
	require.NoError(t, p.Generated(context.Background(), pc))

	require.FileExists(t, filepath.Join(host.outputDir, "robots.txt"))
	require.NoFileExists(t, filepath.Join(host.outputDir, DefaultFeedFile))
	require.Equal(t, 1, p.Report().ExtrasCopied)
	require.False(t, p.Metadata().HasCapability(plugin.CapabilityFeed))
}

func TestPlugin_Validate(t *testing.T) {
	p := New(Options{}, nil)
	require.NoError(t, p.Validate(map[string]any{"merge_policy": "overwrite", "feed_limit": "10"}))
	require.Error(t, p.Validate(map[string]any{"merge_policy": "deep"}))
	require.Error(t, p.Validate(map[string]any{"feed_limit": -1}))
	require.Error(t, p.Validate(map[string]any{"feed_limit": "many"}))
}

func TestPlugin_RegistersWithRegistry(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, r.Register(New(Options{}, nil)))
	require.True(t, r.Has(PluginName))
}
