// Package page defines the page model shared by the site host and the blog plugin.
//
// A Page is owned by the host. Plugins may mutate Frontmatter and Type; everything
// else is set by the loader or by permalink resolution.
package page

import (
	"path"
	"strings"
)

// Type classifies a page for layout selection and feed inclusion.
type Type string

const (
	TypeNone      Type = ""
	TypePage      Type = "page"
	TypePost      Type = "post"
	TypePostDraft Type = "post-draft"
)

// String returns the string representation of the page type.
func (t Type) String() string {
	return string(t)
}

// Well-known frontmatter keys.
const (
	KeyTitle      = "title"
	KeySubtitle   = "subtitle"
	KeyLayout     = "layout"
	KeyPermalink  = "permalink"
	KeyDate       = "date"
	KeyTag        = "tag"
	KeyTags       = "tags"
	KeyCategory   = "category"
	KeyCategories = "categories"
	KeyAuthor     = "author"
	KeyAuthors    = "authors"
)

// Page is a single routable document in the site.
type Page struct {
	// Key uniquely identifies the page within a build.
	Key string `json:"key"`

	// RegularPath is the source-relative route before permalink rewriting,
	// e.g. "/_posts/2020-01-02-hello.html" or "/tag/".
	RegularPath string `json:"regularPath"`

	// Path is the final route. It equals RegularPath unless a permalink applies.
	Path string `json:"path"`

	Title       string         `json:"title"`
	Type        Type           `json:"type,omitempty"`
	Frontmatter map[string]any `json:"frontmatter"`

	// Meta carries host-facing data for synthetic pages (e.g. tagName).
	Meta map[string]any `json:"meta,omitempty"`

	// Synthetic marks pages registered by a plugin rather than loaded from disk.
	Synthetic bool `json:"synthetic,omitempty"`

	SourceFile string `json:"sourceFile,omitempty"`
	Content    []byte `json:"-"`
}

// New returns a page with initialized maps and Path defaulting to regularPath.
func New(key, regularPath string) *Page {
	return &Page{
		Key:         key,
		RegularPath: regularPath,
		Path:        regularPath,
		Frontmatter: map[string]any{},
	}
}

// Field returns the frontmatter value for key if it is a string.
func (p *Page) Field(key string) string {
	if p == nil || p.Frontmatter == nil {
		return ""
	}
	s, _ := p.Frontmatter[key].(string)
	return s
}

// Layout returns the layout assigned in frontmatter.
func (p *Page) Layout() string {
	return p.Field(KeyLayout)
}

// HasPrefix reports whether the regular path lives under the given folder.
// folder may be given with or without surrounding slashes.
func (p *Page) HasPrefix(folder string) bool {
	return strings.HasPrefix(p.RegularPath, FolderPrefix(folder))
}

// IsDirectChild reports whether the regular path has a single segment below the
// root ("/about.html", "/tag/", and "/" itself).
func (p *Page) IsDirectChild() bool {
	trimmed := strings.TrimSuffix(p.RegularPath, "/")
	if trimmed == "" {
		return true
	}
	return path.Dir(trimmed) == "/"
}

// FolderPrefix normalizes a folder name into a "/name/" route prefix.
func FolderPrefix(folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return "/"
	}
	return "/" + folder + "/"
}
