package config

import (
	"fmt"
	"net/url"
	"strings"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/foundation/normalization"
)

var (
	mergePolicyNormalizer = normalization.NewNormalizer(map[string]string{
		"fill-missing": "fill-missing",
		"overwrite":    "overwrite",
	}, DefaultMergePolicy)

	pageTypeNormalizer = normalization.NewNormalizer(map[string]string{
		"page":       "page",
		"post":       "post",
		"post-draft": "post-draft",
	}, "")

	logLevelNormalizer = normalization.NewNormalizer(map[string]string{
		"debug": "debug",
		"info":  "info",
		"warn":  "warn",
		"error": "error",
	}, DefaultLogLevel)

	logFormatNormalizer = normalization.NewNormalizer(map[string]string{
		"text": "text",
		"json": "json",
	}, DefaultLogFormat)
)

// Validate checks a defaulted configuration and normalizes enum-like fields
// in place.
func Validate(cfg *Config) error {
	if err := normalizeField(&cfg.Blog.MergePolicy, mergePolicyNormalizer, "blog.merge_policy"); err != nil {
		return err
	}
	if err := normalizeField(&cfg.Logging.Level, logLevelNormalizer, "logging.level"); err != nil {
		return err
	}
	if err := normalizeField(&cfg.Logging.Format, logFormatNormalizer, "logging.format"); err != nil {
		return err
	}

	if cfg.Feed.Limit < 0 {
		return invalid("feed.limit", cfg.Feed.Limit, "must not be negative")
	}
	if cfg.Feed.SummaryRunes < 0 {
		return invalid("feed.summary_runes", cfg.Feed.SummaryRunes, "must not be negative")
	}
	if strings.ContainsAny(cfg.Feed.File, `/\`) {
		return invalid("feed.file", cfg.Feed.File, "must be a file name")
	}

	if cfg.Site.URL != "" {
		u, perr := url.Parse(cfg.Site.URL)
		if perr != nil || u.Scheme == "" || u.Host == "" {
			return invalid("site.url", cfg.Site.URL, "must be an absolute URL")
		}
	}
	if cfg.Site.Base != "" && !strings.HasPrefix(cfg.Site.Base, "/") {
		return invalid("site.base", cfg.Site.Base, "must start with /")
	}

	for _, idx := range []struct{ field, value string }{
		{"blog.category_index", cfg.Blog.CategoryIndex},
		{"blog.tag_index", cfg.Blog.TagIndex},
	} {
		if !strings.HasPrefix(idx.value, "/") || !strings.HasSuffix(idx.value, "/") {
			return invalid(idx.field, idx.value, "must start and end with /")
		}
	}

	seen := make(map[string]bool, len(cfg.Blog.Rules))
	for i := range cfg.Blog.Rules {
		if err := validateRule(i, &cfg.Blog.Rules[i], seen); err != nil {
			return err
		}
	}
	return nil
}

func validateRule(i int, r *RuleConfig, seen map[string]bool) error {
	field := fmt.Sprintf("blog.rules[%d]", i)
	if r.Name == "" {
		r.Name = fmt.Sprintf("rule-%d", i)
	}
	if seen[r.Name] {
		return invalid(field+".name", r.Name, "duplicate rule name")
	}
	seen[r.Name] = true

	if (r.Prefix == "") == (r.Exact == "") {
		return invalid(field, r.Name, "exactly one of prefix and exact must be set")
	}
	if r.Layout == "" && r.Fallback == "" && len(r.Frontmatter) == 0 && r.Type == "" {
		return invalid(field, r.Name, "rule has no effect")
	}
	if r.Fallback != "" && r.Layout == "" {
		return invalid(field+".fallback", r.Name, "fallback requires layout")
	}
	if r.Type != "" {
		if err := normalizeField(&r.Type, pageTypeNormalizer, field+".type"); err != nil {
			return err
		}
	}
	return nil
}

func normalizeField(v *string, n *normalization.Normalizer[string], field string) error {
	out, err := n.NormalizeWithError(*v)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration: "+field).
			WithContext("field", field).
			WithContext("value", *v).
			Build()
	}
	*v = out
	return nil
}

func invalid(field string, value any, reason string) error {
	return ferrors.ConfigError("invalid configuration: "+field+" "+reason).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
