package blog

import (
	"github.com/mAKEkr/blog-advance/internal/page"
)

// Classifier applies a rule table to pages.
type Classifier struct {
	rules   []Rule
	policy  MergePolicy
	layouts LayoutLookup
}

// NewClassifier returns a classifier for rules. An empty policy means
// MergeFillMissing.
func NewClassifier(rules []Rule, policy MergePolicy, layouts LayoutLookup) *Classifier {
	if policy == "" {
		policy = MergeFillMissing
	}
	return &Classifier{rules: rules, policy: policy, layouts: layouts}
}

// Classify applies every matching rule to p in table order, mutating its
// frontmatter and type in place.
func (c *Classifier) Classify(p *page.Page) {
	if p.Frontmatter == nil {
		p.Frontmatter = map[string]any{}
	}
	for _, rule := range c.rules {
		if !rule.Matches(p) {
			continue
		}
		c.apply(p, rule)
	}
}

func (c *Classifier) apply(p *page.Page, rule Rule) {
	for k, v := range rule.Patch(c.layouts) {
		if c.policy == MergeFillMissing && !page.IsUnset(p.Frontmatter[k]) {
			continue
		}
		p.Frontmatter[k] = v
	}

	if rule.Type == page.TypeNone {
		return
	}
	if c.policy == MergeFillMissing && p.Type != page.TypeNone {
		return
	}
	p.Type = rule.Type
}

// Rules returns the classifier's rule table.
func (c *Classifier) Rules() []Rule {
	return c.rules
}
