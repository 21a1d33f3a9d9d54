package site

import (
	"github.com/mAKEkr/blog-advance/internal/blog"
	"github.com/mAKEkr/blog-advance/internal/config"
	"github.com/mAKEkr/blog-advance/internal/page"
)

// BlogOptions converts the blog-related configuration into plugin options.
func BlogOptions(cfg *config.Config) blog.Options {
	policy, err := blog.ParseMergePolicy(cfg.Blog.MergePolicy)
	if err != nil {
		policy = blog.MergeFillMissing
	}

	opts := blog.Options{
		PostsDir:      cfg.Blog.PostsDir,
		DraftsDir:     cfg.Blog.DraftsDir,
		CategoryIndex: cfg.Blog.CategoryIndex,
		TagIndex:      cfg.Blog.TagIndex,
		Permalink:     cfg.Blog.Permalink,
		Production:    cfg.Production,
		MergePolicy:   policy,
		ExtrasDir:     cfg.Blog.ExtrasDir,
		Feed: blog.FeedOptions{
			Disabled:     !cfg.Feed.IsEnabled(),
			File:         cfg.Feed.File,
			Limit:        cfg.Feed.Limit,
			Content:      cfg.Feed.IncludesContent(),
			SummaryRunes: cfg.Feed.SummaryRunes,
		},
	}
	for _, rc := range cfg.Blog.Rules {
		opts.ExtraRules = append(opts.ExtraRules, ruleFromConfig(rc))
	}
	return opts
}

func ruleFromConfig(rc config.RuleConfig) blog.Rule {
	var r blog.Rule
	if rc.Exact != "" {
		r = blog.ExactRule(rc.Name, rc.Exact)
	} else {
		r = blog.PrefixRule(rc.Name, page.FolderPrefix(rc.Prefix))
	}
	r.Layout = rc.Layout
	r.Fallback = rc.Fallback
	r.Type = page.Type(rc.Type)
	if len(rc.Frontmatter) > 0 {
		r.Frontmatter = make(map[string]any, len(rc.Frontmatter))
		for k, v := range rc.Frontmatter {
			r.Frontmatter[k] = v
		}
	}
	return r
}
