package blog

import (
	"bytes"
	"encoding/xml"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/markdown"
	"github.com/mAKEkr/blog-advance/internal/page"
	"github.com/mAKEkr/blog-advance/internal/plugin"
)

const (
	atomNamespace = "http://www.w3.org/2005/Atom"
	generatorName = "blog-advance"
	generatorURI  = "https://github.com/mAKEkr/blog-advance"
)

// HTMLRenderer turns a markdown body into HTML.
type HTMLRenderer interface {
	Render(body []byte) ([]byte, error)
}

// FeedEntry is the feed view of one post.
type FeedEntry struct {
	ID         string
	Title      string
	Summary    string
	Link       string
	Content    string
	Categories []string
	Updated    time.Time
}

// SelectPosts returns the pages typed as posts, newest first, at most limit of
// them. Posts without a usable date sort last; ties keep page order.
func SelectPosts(pages []*page.Page, limit int) []*page.Page {
	type dated struct {
		p *page.Page
		t time.Time
	}
	var posts []dated
	for _, p := range pages {
		if p.Type != page.TypePost {
			continue
		}
		t, _ := page.Time(p.Frontmatter[page.KeyDate])
		posts = append(posts, dated{p: p, t: t})
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].t.After(posts[j].t)
	})

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	out := make([]*page.Page, len(posts))
	for i, d := range posts {
		out[i] = d.p
	}
	return out
}

// FeedBuilder converts posts into feed entries and renders the document.
type FeedBuilder struct {
	Site     plugin.SiteInfo
	Options  FeedOptions
	Renderer HTMLRenderer
	Logger   *slog.Logger
}

// Entries builds one entry per post. Missing fields are left empty and logged.
func (b *FeedBuilder) Entries(posts []*page.Page) []FeedEntry {
	opts := b.Options.withDefaults()
	logger := b.logger()

	entries := make([]FeedEntry, 0, len(posts))
	for _, p := range posts {
		link := b.absoluteURL(p.Path)
		e := FeedEntry{
			ID:         link,
			Link:       link,
			Title:      p.Title,
			Summary:    p.Field(page.KeySubtitle),
			Categories: categoryTerms(p),
		}
		if e.Title == "" {
			e.Title = p.Field(page.KeyTitle)
		}

		var rendered []byte
		if b.Renderer != nil && len(p.Content) > 0 {
			html, err := b.Renderer.Render(p.Content)
			if err != nil {
				logger.Warn("Failed to render post content for feed", logfields.Page(p.Key), logfields.Error(err))
			} else {
				rendered = html
			}
		}
		if opts.Content {
			e.Content = string(rendered)
		}
		if e.Summary == "" && len(rendered) > 0 {
			if excerpt, err := markdown.Excerpt(rendered, opts.SummaryRunes); err == nil {
				e.Summary = excerpt
			}
		}

		if t, ok := page.Time(p.Frontmatter[page.KeyDate]); ok {
			e.Updated = t
		}

		var missing []string
		if e.Title == "" {
			missing = append(missing, page.KeyTitle)
		}
		if e.Summary == "" {
			missing = append(missing, page.KeySubtitle)
		}
		if e.Updated.IsZero() {
			missing = append(missing, page.KeyDate)
		}
		if len(missing) > 0 {
			logger.Warn("Feed entry has missing fields",
				logfields.Page(p.Key),
				logfields.Path(p.Path),
				slog.String("missing", strings.Join(missing, ",")))
		}

		entries = append(entries, e)
	}
	return entries
}

// Render produces the Atom document for entries.
func (b *FeedBuilder) Render(entries []FeedEntry) ([]byte, error) {
	opts := b.Options.withDefaults()

	doc := atomFeed{
		ID:     strings.TrimSuffix(b.Site.URL, "/") + normalizeBase(b.Site.Base),
		Title:  b.Site.Title,
		Author: atomPerson{Name: b.Site.Author},
		Links: []atomLink{{
			Href: strings.TrimSuffix(b.Site.URL, "/") + "/" + opts.File,
			Rel:  "self",
			Type: "application/atom+xml",
		}},
		Updated:   formatTime(opts.Now()),
		Generator: atomGenerator{URI: generatorURI, Name: generatorName},
	}

	for _, e := range entries {
		entry := atomEntry{
			ID:      e.ID,
			Title:   e.Title,
			Summary: e.Summary,
			Link:    atomLink{Href: e.Link},
			Updated: formatTime(e.Updated),
		}
		if e.Content != "" {
			entry.Content = &atomContent{Type: "html", Body: e.Content}
		}
		for _, c := range e.Categories {
			entry.Categories = append(entry.Categories, atomCategory{Term: c})
		}
		doc.Entries = append(doc.Entries, entry)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryBuild, "failed to encode feed").Build()
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// RenderFeed selects the newest posts from pages and renders the feed.
func (b *FeedBuilder) RenderFeed(pages []*page.Page) ([]byte, int, error) {
	opts := b.Options.withDefaults()
	entries := b.Entries(SelectPosts(pages, opts.Limit))
	data, err := b.Render(entries)
	return data, len(entries), err
}

// WriteFeed writes data to outputDir/file.
func WriteFeed(outputDir, file string, data []byte) error {
	target := filepath.Join(outputDir, filepath.FromSlash(file))
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create feed directory").
			WithContext("path", target).
			Build()
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write feed").
			WithContext("path", target).
			Build()
	}
	return nil
}

func (b *FeedBuilder) absoluteURL(p string) string {
	base := strings.TrimSuffix(normalizeBase(b.Site.Base), "/")
	return strings.TrimSuffix(b.Site.URL, "/") + base + p
}

func (b *FeedBuilder) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}

func normalizeBase(base string) string {
	base = strings.Trim(base, "/")
	if base == "" {
		return "/"
	}
	return "/" + base + "/"
}

func categoryTerms(p *page.Page) []string {
	terms := page.Terms(p.Frontmatter[page.KeyCategory])
	return append(terms, page.Terms(p.Frontmatter[page.KeyCategories])...)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

type atomFeed struct {
	XMLName   xml.Name      `xml:"http://www.w3.org/2005/Atom feed"`
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Author    atomPerson    `xml:"author"`
	Links     []atomLink    `xml:"link"`
	Updated   string        `xml:"updated"`
	Generator atomGenerator `xml:"generator"`
	Entries   []atomEntry   `xml:"entry"`
}

type atomPerson struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomGenerator struct {
	URI  string `xml:"uri,attr"`
	Name string `xml:",chardata"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Link       atomLink       `xml:"link"`
	Content    *atomContent   `xml:"content,omitempty"`
	Categories []atomCategory `xml:"category"`
	Updated    string         `xml:"updated"`
}

type atomContent struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}
