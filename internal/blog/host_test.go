package blog

import (
	"context"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/plugin"
)

// fakeHost is an in-memory plugin.Host.
type fakeHost struct {
	pages      []*page.Page
	layouts    map[string]bool
	production bool
	site       plugin.SiteInfo
	sourceDir  string
	outputDir  string

	// onAdd runs for every registered page, like a host re-running
	// ExtendPageData for added pages.
	onAdd func(p *page.Page)
}

func newFakeHost(layouts ...string) *fakeHost {
	h := &fakeHost{
		layouts: map[string]bool{},
		site:    plugin.SiteInfo{Title: "My Blog", URL: "https://example.com", Base: "/", Author: "Jane"},
	}
	for _, l := range layouts {
		h.layouts[l] = true
	}
	return h
}

func allLayouts() []string {
	return []string{
		LayoutDefault, LayoutPage, LayoutPost, LayoutTag, LayoutTags,
		LayoutCategory, LayoutCategories, LayoutAuthor, LayoutNotFound,
	}
}

func (h *fakeHost) Pages() []*page.Page        { return h.pages }
func (h *fakeHost) HasLayout(name string) bool { return h.layouts[name] }
func (h *fakeHost) Production() bool           { return h.production }
func (h *fakeHost) Site() plugin.SiteInfo      { return h.site }
func (h *fakeHost) SourceDir() string          { return h.sourceDir }
func (h *fakeHost) OutputDir() string          { return h.outputDir }

func (h *fakeHost) AddPage(_ context.Context, p *page.Page) error {
	for _, existing := range h.pages {
		if existing.Path == p.Path {
			return ferrors.AlreadyExistsError("page path already registered").
				WithContext("path", p.Path).
				Build()
		}
	}
	if p.Key == "" {
		p.Key = "synthetic:" + p.Path
	}
	if h.onAdd != nil {
		h.onAdd(p)
	}
	h.pages = append(h.pages, p)
	return nil
}

func newPage(key, regularPath string, fm map[string]any) *page.Page {
	p := page.New(key, regularPath)
	for k, v := range fm {
		p.Frontmatter[k] = v
	}
	return p
}
