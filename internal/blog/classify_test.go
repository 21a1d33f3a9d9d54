package blog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mAKEkr/blog-advance/internal/page"
)

func classify(t *testing.T, opts Options, host *fakeHost, p *page.Page) *page.Page {
	t.Helper()
	NewClassifier(DefaultRules(opts), opts.MergePolicy, host).Classify(p)
	return p
}

func TestClassify_DefaultTable(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		production bool
		wantLayout string
		wantType   page.Type
		permalink  bool
	}{
		{"root", "/", false, LayoutDefault, page.TypePage, false},
		{"direct child", "/about.html", false, LayoutPage, page.TypePage, false},
		{"post", "/_posts/2020-01-02-hello.html", false, LayoutPost, page.TypePost, true},
		{"draft preview", "/_drafts/wip.html", false, LayoutPost, page.TypePostDraft, false},
		{"draft production", "/_drafts/wip.html", true, LayoutNotFound, page.TypePostDraft, false},
		{"tag index", "/tag/", false, LayoutTags, page.TypePage, false},
		{"tag page", "/tag/go.html", false, LayoutTag, page.TypeNone, false},
		{"category index", "/category/", false, LayoutCategories, page.TypePage, false},
		{"category page", "/category/news.html", false, LayoutCategory, page.TypeNone, false},
		{"author page", "/author/jane.html", false, LayoutAuthor, page.TypeNone, false},
		{"nested page", "/docs/guide/setup.html", false, "", page.TypeNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := newFakeHost(allLayouts()...)
			p := classify(t, Options{Production: tt.production}, host, newPage("k", tt.path, nil))

			require.Equal(t, tt.wantLayout, p.Layout())
			require.Equal(t, tt.wantType, p.Type)
			if tt.permalink {
				require.Equal(t, DefaultPermalink, p.Field(page.KeyPermalink))
			} else {
				require.NotContains(t, p.Frontmatter, page.KeyPermalink)
			}
		})
	}
}

func TestClassify_FallbackLayouts(t *testing.T) {
	host := newFakeHost()

	post := classify(t, Options{}, host, newPage("p", "/_posts/a.html", nil))
	require.Equal(t, LayoutPage, post.Layout())
	require.Equal(t, page.TypePost, post.Type)

	tags := classify(t, Options{}, host, newPage("t", "/tag/", nil))
	require.Equal(t, LayoutPage, tags.Layout())

	// Root has no fallback of its own; the direct-child rule supplies one.
	root := classify(t, Options{}, host, newPage("r", "/", nil))
	require.Equal(t, LayoutDefault, root.Layout())
}

func TestClassify_MissingLayoutWithoutFallbackUsesDefault(t *testing.T) {
	host := newFakeHost(LayoutDefault, LayoutPage)

	notes := PrefixRule("notes", "/notes/")
	notes.Layout = "Note"

	p := classify(t, Options{ExtraRules: []Rule{notes}}, host, newPage("n", "/notes/a.html", nil))
	require.Equal(t, LayoutDefault, p.Layout())
}

func TestRule_NoFallbackLeavesLayoutUnset(t *testing.T) {
	r := ExactRule("root", "/")
	r.Layout = LayoutDefault
	r.NoFallback = true

	require.NotContains(t, r.Patch(newFakeHost()), page.KeyLayout)
	require.Equal(t, LayoutDefault, r.Patch(newFakeHost(LayoutDefault))[page.KeyLayout])
}

func TestClassify_FillMissingKeepsAuthorFrontmatter(t *testing.T) {
	host := newFakeHost(allLayouts()...)
	p := classify(t, Options{}, host, newPage("p", "/_posts/a.html", map[string]any{
		page.KeyLayout:    "Custom",
		page.KeyPermalink: "/custom/",
	}))

	require.Equal(t, "Custom", p.Layout())
	require.Equal(t, "/custom/", p.Field(page.KeyPermalink))
	require.Equal(t, page.TypePost, p.Type)
}

func TestClassify_FillMissingTreatsEmptyAsUnset(t *testing.T) {
	host := newFakeHost(allLayouts()...)
	p := classify(t, Options{}, host, newPage("p", "/_posts/a.html", map[string]any{
		page.KeyLayout: "",
	}))
	require.Equal(t, LayoutPost, p.Layout())
}

func TestClassify_OverwriteLaterRulesWin(t *testing.T) {
	host := newFakeHost(allLayouts()...)
	opts := Options{MergePolicy: MergeOverwrite}

	p := classify(t, opts, host, newPage("p", "/_posts/a.html", map[string]any{page.KeyLayout: "Custom"}))
	require.Equal(t, LayoutPost, p.Layout())

	// The direct-child catch-all runs last and overrides the index layout.
	tags := classify(t, opts, host, newPage("t", "/tag/", nil))
	require.Equal(t, LayoutPage, tags.Layout())
	require.Equal(t, page.TypePage, tags.Type)
}

func TestClassify_CustomIndexPaths(t *testing.T) {
	host := newFakeHost(allLayouts()...)
	opts := Options{TagIndex: "/tags.html", CategoryIndex: "/categories.html"}

	require.Equal(t, LayoutTags, classify(t, opts, host, newPage("a", "/tags.html", nil)).Layout())
	require.Equal(t, LayoutCategories, classify(t, opts, host, newPage("b", "/categories.html", nil)).Layout())

	// With the index moved, /tag/ itself is just another tag-prefixed page.
	require.Equal(t, LayoutTag, classify(t, opts, host, newPage("c", "/tag/", nil)).Layout())
}

func TestClassify_ExtraRulesRunBeforeCatchAll(t *testing.T) {
	host := newFakeHost(append(allLayouts(), "Note")...)

	notes := PrefixRule("notes", "/notes/")
	notes.Layout = "Note"
	notes.Fallback = LayoutPage
	notes.Frontmatter = map[string]any{"sidebar": false}

	landing := ExactRule("landing", "/landing.html")
	landing.Layout = "Missing"
	landing.Fallback = LayoutDefault
	landing.Type = page.TypePost

	opts := Options{ExtraRules: []Rule{notes, landing}}

	n := classify(t, opts, host, newPage("n", "/notes/one.html", nil))
	require.Equal(t, "Note", n.Layout())
	require.Equal(t, false, n.Frontmatter["sidebar"])

	l := classify(t, opts, host, newPage("l", "/landing.html", nil))
	require.Equal(t, LayoutDefault, l.Layout())
	require.Equal(t, page.TypePost, l.Type)
}

func TestClassify_CustomFolders(t *testing.T) {
	host := newFakeHost(allLayouts()...)
	opts := Options{PostsDir: "articles", DraftsDir: "/wip/", Permalink: "/:slug.html"}

	p := classify(t, opts, host, newPage("p", "/articles/a.html", nil))
	require.Equal(t, page.TypePost, p.Type)
	require.Equal(t, "/:slug.html", p.Field(page.KeyPermalink))

	d := classify(t, opts, host, newPage("d", "/wip/b.html", nil))
	require.Equal(t, page.TypePostDraft, d.Type)

	legacy := classify(t, opts, host, newPage("x", "/_posts/c.html", nil))
	require.Equal(t, page.TypeNone, legacy.Type)
}

func TestParseMergePolicy(t *testing.T) {
	p, err := ParseMergePolicy("")
	require.NoError(t, err)
	require.Equal(t, MergeFillMissing, p)

	p, err = ParseMergePolicy("Overwrite")
	require.NoError(t, err)
	require.Equal(t, MergeOverwrite, p)

	p, err = ParseMergePolicy("fill_missing")
	require.NoError(t, err)
	require.Equal(t, MergeFillMissing, p)

	_, err = ParseMergePolicy("merge-deep")
	require.Error(t, err)
}
