package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	enabled := true
	return Config{
		Site: SiteConfig{
			Title:  "My Blog",
			URL:    "https://blog.example.com",
			Base:   "/",
			Author: "${BLOG_AUTHOR}",
		},
		SourceDir:  DefaultSourceDir,
		OutputDir:  DefaultOutputDir,
		Layouts:    []string{"Layout", "Page", "Post", "Tag", "Tags", "Category", "Categories", "Author", "NotFound"},
		LayoutsDir: "layouts",
		Blog: BlogConfig{
			PostsDir:      DefaultPostsDir,
			DraftsDir:     DefaultDraftsDir,
			CategoryIndex: DefaultCategoryIndex,
			TagIndex:      DefaultTagIndex,
			Permalink:     DefaultPermalink,
			MergePolicy:   DefaultMergePolicy,
			DataDir:       DefaultDataDir,
			ExtrasDir:     DefaultExtrasDir,
			Rules: []RuleConfig{
				{
					Name:        "notes",
					Prefix:      "notes",
					Layout:      "Note",
					Fallback:    "Page",
					Type:        "page",
					Frontmatter: map[string]any{"sidebar": false},
				},
			},
		},
		Feed: FeedConfig{
			Enabled:      &enabled,
			Content:      &enabled,
			File:         DefaultFeedFile,
			Limit:        DefaultFeedLimit,
			SummaryRunes: DefaultSummaryRunes,
		},
		Schedule:    DefaultSchedule,
		MetricsFile: "",
		Logging:     LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Init writes an example configuration file. The format follows the file
// extension. An existing file is only replaced when force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.AlreadyExistsError("configuration file already exists (use --force to overwrite)").
			WithContext("path", path).
			Build()
	}

	example := Example()
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(&example)
		data = buf.Bytes()
	} else {
		data, err = yaml.Marshal(&example)
	}
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal example config").Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}
