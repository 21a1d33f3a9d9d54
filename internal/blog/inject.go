package blog

import (
	"context"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/page"
)

// Meta keys carried by synthetic taxonomy pages.
const (
	MetaTagName      = "tagName"
	MetaCategoryName = "categoryName"
	MetaAuthorName   = "authorName"
)

// PageAdder registers pages with the host.
type PageAdder interface {
	AddPage(ctx context.Context, p *page.Page) error
}

// SyntheticPages returns the pages to inject for idx, in registration order:
// tag index, category index, then one page per tag, category and author.
func SyntheticPages(idx Index, opts Options) []*page.Page {
	opts = opts.withDefaults()

	pages := []*page.Page{
		syntheticPage(opts.TagIndex, "Tags", "", ""),
		syntheticPage(opts.CategoryIndex, "Categories", "", ""),
	}

	scopes := []struct {
		m       *TaxonomyMap
		suffix  string
		metaKey string
	}{
		{idx.Tags, "Tag", MetaTagName},
		{idx.Categories, "Category", MetaCategoryName},
		{idx.Authors, "Author", MetaAuthorName},
	}
	for _, s := range scopes {
		if s.m == nil {
			continue
		}
		for _, term := range s.m.Terms() {
			entry, _ := s.m.Get(term)
			pages = append(pages, syntheticPage(entry.Path, term+" | "+s.suffix, s.metaKey, term))
		}
	}
	return pages
}

func syntheticPage(permalink, title, metaKey, term string) *page.Page {
	p := page.New("", permalink)
	p.Title = title
	p.Synthetic = true
	p.Frontmatter[page.KeyTitle] = title
	p.Frontmatter[page.KeyPermalink] = permalink
	if metaKey != "" {
		p.Meta = map[string]any{metaKey: term}
	}
	return p
}

// Inject registers the synthetic pages for idx one at a time and stops at the
// first rejection.
func Inject(ctx context.Context, host PageAdder, idx Index, opts Options) (int, error) {
	added := 0
	for _, p := range SyntheticPages(idx, opts) {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		if err := host.AddPage(ctx, p); err != nil {
			return added, ferrors.WrapError(err, ferrors.CategoryBuild, "failed to inject taxonomy page").
				WithContext("path", p.Path).
				Build()
		}
		added++
	}
	return added, nil
}
