// Package blog adds blog conventions to a site build.
//
// It classifies pages through an ordered rule table, indexes tags, categories
// and authors, injects an index page per term, exports the indexes as client
// data modules and writes an Atom feed of the newest posts.
package blog

import (
	"strings"

	"github.com/mAKEkr/blog-advance/internal/foundation/normalization"
	"github.com/mAKEkr/blog-advance/internal/page"
)

// Layout names the rule table assigns.
const (
	LayoutDefault    = "Layout"
	LayoutPage       = "Page"
	LayoutPost       = "Post"
	LayoutTag        = "Tag"
	LayoutTags       = "Tags"
	LayoutCategory   = "Category"
	LayoutCategories = "Categories"
	LayoutAuthor     = "Author"
	LayoutNotFound   = "NotFound"
)

// Defaults for Options.
const (
	DefaultPostsDir      = "_posts"
	DefaultDraftsDir     = "_drafts"
	DefaultCategoryIndex = "/category/"
	DefaultTagIndex      = "/tag/"
	DefaultAuthorIndex   = "/author/"
	DefaultPermalink     = "/:year/:month/:day/:slug"
)

// MergePolicy decides how a matching rule's patch combines with what a page
// already has.
type MergePolicy string

const (
	// MergeFillMissing only sets keys that are unset. The first matching rule
	// wins per key, and the page's own frontmatter always wins.
	MergeFillMissing MergePolicy = "fill-missing"

	// MergeOverwrite sets every key of every matching rule; later rules win.
	MergeOverwrite MergePolicy = "overwrite"
)

var mergePolicies = normalization.NewNormalizer(map[string]MergePolicy{
	"fill-missing": MergeFillMissing,
	"overwrite":    MergeOverwrite,
}, MergeFillMissing)

// ParseMergePolicy parses a configured policy name. Empty means fill-missing.
func ParseMergePolicy(raw string) (MergePolicy, error) {
	return mergePolicies.NormalizeWithError(raw)
}

// LayoutLookup reports which layouts the host has registered.
type LayoutLookup interface {
	HasLayout(name string) bool
}

// Rule is one row of the classification table.
type Rule struct {
	Name string

	// When selects the pages the rule applies to.
	When func(p *page.Page) bool

	// Layout is assigned when registered; otherwise Fallback is, and an empty
	// Fallback means LayoutDefault. NoFallback leaves the layout alone when
	// Layout is not registered.
	Layout     string
	Fallback   string
	NoFallback bool

	// Frontmatter is merged into the page's frontmatter.
	Frontmatter map[string]any

	// Type is the page type to tag matching pages with, if any.
	Type page.Type
}

// Patch returns the frontmatter the rule contributes, with the layout resolved
// against the host's registered layouts.
func (r Rule) Patch(layouts LayoutLookup) map[string]any {
	patch := make(map[string]any, len(r.Frontmatter)+1)
	for k, v := range r.Frontmatter {
		patch[k] = v
	}
	if layout := r.resolveLayout(layouts); layout != "" {
		patch[page.KeyLayout] = layout
	}
	return patch
}

// Matches reports whether the rule applies to p.
func (r Rule) Matches(p *page.Page) bool {
	return r.When != nil && r.When(p)
}

// resolveLayout returns Layout if registered, else the fallback. It never fails.
func (r Rule) resolveLayout(layouts LayoutLookup) string {
	if r.Layout == "" {
		return ""
	}
	if layouts != nil && layouts.HasLayout(r.Layout) {
		return r.Layout
	}
	if r.NoFallback {
		return ""
	}
	if r.Fallback == "" {
		return LayoutDefault
	}
	return r.Fallback
}

// PrefixRule builds a rule matching regular paths under prefix.
func PrefixRule(name, prefix string) Rule {
	return Rule{
		Name: name,
		When: func(p *page.Page) bool { return strings.HasPrefix(p.RegularPath, prefix) },
	}
}

// ExactRule builds a rule matching one regular path.
func ExactRule(name, path string) Rule {
	return Rule{
		Name: name,
		When: func(p *page.Page) bool { return p.RegularPath == path },
	}
}

// DefaultRules returns the rule table for opts, extra rules included.
func DefaultRules(opts Options) []Rule {
	opts = opts.withDefaults()

	categoryPrefix := page.FolderPrefix("category")
	tagPrefix := page.FolderPrefix("tag")

	draftLayout := LayoutPost
	if opts.Production {
		draftLayout = LayoutNotFound
	}

	rules := []Rule{
		{
			Name:   "root",
			When:       func(p *page.Page) bool { return p.RegularPath == "/" },
			Layout:     LayoutDefault,
			NoFallback: true,
		},
		{
			Name: "category",
			When: func(p *page.Page) bool {
				return strings.HasPrefix(p.RegularPath, categoryPrefix) && p.RegularPath != opts.CategoryIndex
			},
			Layout:   LayoutCategory,
			Fallback: LayoutPage,
		},
		{
			Name:     "category-index",
			When:     func(p *page.Page) bool { return p.RegularPath == opts.CategoryIndex },
			Layout:   LayoutCategories,
			Fallback: LayoutPage,
		},
		{
			Name: "tag",
			When: func(p *page.Page) bool {
				return strings.HasPrefix(p.RegularPath, tagPrefix) && p.RegularPath != opts.TagIndex
			},
			Layout:   LayoutTag,
			Fallback: LayoutPage,
		},
		{
			Name:     "tag-index",
			When:     func(p *page.Page) bool { return p.RegularPath == opts.TagIndex },
			Layout:   LayoutTags,
			Fallback: LayoutPage,
		},
		{
			Name:     "author",
			When:     func(p *page.Page) bool { return p.HasPrefix("author") },
			Layout:   LayoutAuthor,
			Fallback: LayoutPage,
		},
		{
			Name:     "draft",
			When:     func(p *page.Page) bool { return p.HasPrefix(opts.DraftsDir) },
			Layout:   draftLayout,
			Fallback: LayoutPage,
			Type:     page.TypePostDraft,
		},
		{
			Name:        "post",
			When:        func(p *page.Page) bool { return p.HasPrefix(opts.PostsDir) },
			Layout:      LayoutPost,
			Fallback:    LayoutPage,
			Frontmatter: map[string]any{page.KeyPermalink: opts.Permalink},
			Type:        page.TypePost,
		},
	}

	rules = append(rules, opts.ExtraRules...)

	return append(rules, Rule{
		Name:     "direct-child",
		When:     (*page.Page).IsDirectChild,
		Layout:   LayoutPage,
		Fallback: LayoutDefault,
		Type:     page.TypePage,
	})
}
