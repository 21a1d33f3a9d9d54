package config

import (
	"os"
	"strings"
)

// Defaults for fields left empty in the file.
const (
	DefaultSourceDir     = "docs"
	DefaultOutputDir     = "dist"
	DefaultDataDir       = "data"
	DefaultPostsDir      = "_posts"
	DefaultDraftsDir     = "_drafts"
	DefaultCategoryIndex = "/category/"
	DefaultTagIndex      = "/tag/"
	DefaultPermalink     = "/:year/:month/:day/:slug"
	DefaultMergePolicy   = "fill-missing"
	DefaultExtrasDir     = ".blog-extras"
	DefaultFeedFile      = "feed.xml"
	DefaultFeedLimit     = 19
	DefaultSummaryRunes  = 200
	DefaultSchedule      = "0 * * * *"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

func applyDefaults(cfg *Config) {
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if strings.EqualFold(os.Getenv(EnvProduction), "production") {
		cfg.Production = true
	}

	b := &cfg.Blog
	if b.PostsDir == "" {
		b.PostsDir = DefaultPostsDir
	}
	if b.DraftsDir == "" {
		b.DraftsDir = DefaultDraftsDir
	}
	if b.CategoryIndex == "" {
		b.CategoryIndex = DefaultCategoryIndex
	}
	if b.TagIndex == "" {
		b.TagIndex = DefaultTagIndex
	}
	if b.Permalink == "" {
		b.Permalink = DefaultPermalink
	}
	if b.MergePolicy == "" {
		b.MergePolicy = DefaultMergePolicy
	}
	if b.DataDir == "" {
		b.DataDir = DefaultDataDir
	}
	if b.ExtrasDir == "" {
		b.ExtrasDir = DefaultExtrasDir
	}

	f := &cfg.Feed
	if f.File == "" {
		f.File = DefaultFeedFile
	}
	if f.Limit == 0 {
		f.Limit = DefaultFeedLimit
	}
	if f.SummaryRunes == 0 {
		f.SummaryRunes = DefaultSummaryRunes
	}

	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
