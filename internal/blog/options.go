package blog

import "time"

// Options configures the blog plugin. Zero values take the package defaults.
type Options struct {
	PostsDir      string
	DraftsDir     string
	CategoryIndex string
	TagIndex      string
	Permalink     string

	// Production switches drafts to the NotFound layout.
	Production bool

	MergePolicy MergePolicy

	// ExtraRules are evaluated after the built-in post rule and before the
	// direct-child catch-all.
	ExtraRules []Rule

	// ExtrasDir is copied verbatim into the output directory when present.
	// It is resolved against the host's source directory.
	ExtrasDir string

	Feed FeedOptions
}

// FeedOptions configures the Atom feed.
type FeedOptions struct {
	Disabled bool
	File     string
	Limit    int

	// Content embeds the rendered post body in each entry.
	Content bool

	// SummaryRunes bounds the excerpt used when a post has no subtitle.
	SummaryRunes int

	// Now stamps the feed's updated element. Defaults to time.Now.
	Now func() time.Time
}

// Feed defaults.
const (
	DefaultFeedFile     = "feed.xml"
	DefaultFeedLimit    = 19
	DefaultSummaryRunes = 200
	DefaultExtrasDir    = ".blog-extras"
)

func (o Options) withDefaults() Options {
	if o.PostsDir == "" {
		o.PostsDir = DefaultPostsDir
	}
	if o.DraftsDir == "" {
		o.DraftsDir = DefaultDraftsDir
	}
	if o.CategoryIndex == "" {
		o.CategoryIndex = DefaultCategoryIndex
	}
	if o.TagIndex == "" {
		o.TagIndex = DefaultTagIndex
	}
	if o.Permalink == "" {
		o.Permalink = DefaultPermalink
	}
	if o.MergePolicy == "" {
		o.MergePolicy = MergeFillMissing
	}
	if o.ExtrasDir == "" {
		o.ExtrasDir = DefaultExtrasDir
	}
	o.Feed = o.Feed.withDefaults()
	return o
}

func (f FeedOptions) withDefaults() FeedOptions {
	if f.File == "" {
		f.File = DefaultFeedFile
	}
	if f.Limit <= 0 {
		f.Limit = DefaultFeedLimit
	}
	if f.SummaryRunes <= 0 {
		f.SummaryRunes = DefaultSummaryRunes
	}
	if f.Now == nil {
		f.Now = time.Now
	}
	return f
}
