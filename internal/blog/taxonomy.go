package blog

import (
	"bytes"
	"encoding/json"

	"github.com/mAKEkr/blog-advance/internal/page"
)

// Scope names a taxonomy.
type Scope string

const (
	ScopeTag      Scope = "tag"
	ScopeCategory Scope = "category"
	ScopeAuthor   Scope = "author"
)

// EntryPath is the route of the index page for term in scope.
func EntryPath(scope Scope, term string) string {
	return "/" + string(scope) + "/" + term + ".html"
}

// Entry is one taxonomy bucket.
type Entry struct {
	Path     string   `json:"path"`
	PageKeys []string `json:"pageKeys"`
}

// TaxonomyMap maps terms to entries, remembering the order terms were first seen.
type TaxonomyMap struct {
	scope   Scope
	terms   []string
	entries map[string]*Entry
}

// NewTaxonomyMap returns an empty map for scope.
func NewTaxonomyMap(scope Scope) *TaxonomyMap {
	return &TaxonomyMap{scope: scope, entries: make(map[string]*Entry)}
}

// Scope returns the map's scope.
func (m *TaxonomyMap) Scope() Scope { return m.scope }

// Len returns the number of terms.
func (m *TaxonomyMap) Len() int { return len(m.terms) }

// Terms returns terms in first-seen order.
func (m *TaxonomyMap) Terms() []string {
	out := make([]string, len(m.terms))
	copy(out, m.terms)
	return out
}

// Get returns a copy of the entry for term.
func (m *TaxonomyMap) Get(term string) (Entry, bool) {
	e, ok := m.entries[term]
	if !ok {
		return Entry{}, false
	}
	return Entry{Path: e.Path, PageKeys: append([]string(nil), e.PageKeys...)}, true
}

// Add appends pageKey to term's bucket, creating the bucket on first sight.
// Empty terms are ignored. A key is not appended twice in a row, so a page
// naming the same term in both the singular and plural field is listed once.
func (m *TaxonomyMap) Add(term, pageKey string) {
	if term == "" {
		return
	}
	e, ok := m.entries[term]
	if !ok {
		e = &Entry{Path: EntryPath(m.scope, term)}
		m.entries[term] = e
		m.terms = append(m.terms, term)
	}
	if n := len(e.PageKeys); n > 0 && e.PageKeys[n-1] == pageKey {
		return
	}
	e.PageKeys = append(e.PageKeys, pageKey)
}

// MarshalJSON encodes the map as a JSON object with keys in first-seen order.
func (m *TaxonomyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, term := range m.terms {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalUnescaped(term)
		if err != nil {
			return nil, err
		}
		v, err := marshalUnescaped(m.entries[term])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Index holds the three taxonomies of one build.
type Index struct {
	Tags       *TaxonomyMap
	Categories *TaxonomyMap
	Authors    *TaxonomyMap
}

// NewIndex returns an empty index.
func NewIndex() Index {
	return Index{
		Tags:       NewTaxonomyMap(ScopeTag),
		Categories: NewTaxonomyMap(ScopeCategory),
		Authors:    NewTaxonomyMap(ScopeAuthor),
	}
}

// Maps returns the taxonomies in injection order.
func (idx Index) Maps() []*TaxonomyMap {
	return []*TaxonomyMap{idx.Tags, idx.Categories, idx.Authors}
}

// BuildIndex scans pages in order and groups their keys by tag, category and
// author. Pages under draftsDir and synthetic pages are skipped.
func BuildIndex(pages []*page.Page, draftsDir string) Index {
	if draftsDir == "" {
		draftsDir = DefaultDraftsDir
	}
	idx := NewIndex()

	for _, p := range pages {
		if p.Synthetic || p.HasPrefix(draftsDir) {
			continue
		}
		fm := p.Frontmatter
		addTerms(idx.Tags, p.Key, fm[page.KeyTag], fm[page.KeyTags])
		addTerms(idx.Categories, p.Key, fm[page.KeyCategory], fm[page.KeyCategories])
		addTerms(idx.Authors, p.Key, fm[page.KeyAuthor], fm[page.KeyAuthors])
	}
	return idx
}

func addTerms(m *TaxonomyMap, key string, values ...any) {
	for _, v := range values {
		for _, term := range page.Terms(v) {
			m.Add(term, key)
		}
	}
}
