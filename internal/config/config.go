// Package config loads blogadvance configuration from YAML (or TOML) files.
//
// Loading order: .env files are read into the environment (existing variables
// win), ${VAR} references in the file are expanded, the document is decoded,
// defaults are applied and the result is validated.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	ferrors "github.com/mAKEkr/blog-advance/internal/foundation/errors"
	"github.com/mAKEkr/blog-advance/internal/logfields"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "blogadvance.yaml"

// EnvProduction switches production mode on when set to "production".
const EnvProduction = "BLOGADVANCE_ENV"

// Config is the root configuration.
type Config struct {
	Site       SiteConfig `yaml:"site" toml:"site"`
	SourceDir  string     `yaml:"source_dir" toml:"source_dir"`
	OutputDir  string     `yaml:"output_dir" toml:"output_dir"`
	Layouts    []string   `yaml:"layouts" toml:"layouts"`
	LayoutsDir string     `yaml:"layouts_dir" toml:"layouts_dir"`
	Production bool       `yaml:"production" toml:"production"`

	Blog    BlogConfig    `yaml:"blog" toml:"blog"`
	Feed    FeedConfig    `yaml:"feed" toml:"feed"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`

	// Schedule is the cron expression used by the schedule command.
	Schedule string `yaml:"schedule" toml:"schedule"`

	// MetricsFile, when set, receives a Prometheus textfile after each build.
	MetricsFile string `yaml:"metrics_file" toml:"metrics_file"`
}

// SiteConfig is the site metadata exposed to plugins and the feed.
type SiteConfig struct {
	Title  string `yaml:"title" toml:"title"`
	URL    string `yaml:"url" toml:"url"`
	Base   string `yaml:"base" toml:"base"`
	Author string `yaml:"author" toml:"author"`
}

// BlogConfig configures classification, taxonomies and output folders.
type BlogConfig struct {
	PostsDir      string       `yaml:"posts_dir" toml:"posts_dir"`
	DraftsDir     string       `yaml:"drafts_dir" toml:"drafts_dir"`
	CategoryIndex string       `yaml:"category_index" toml:"category_index"`
	TagIndex      string       `yaml:"tag_index" toml:"tag_index"`
	Permalink     string       `yaml:"permalink" toml:"permalink"`
	MergePolicy   string       `yaml:"merge_policy" toml:"merge_policy"`
	DataDir       string       `yaml:"data_dir" toml:"data_dir"`
	ExtrasDir     string       `yaml:"extras_dir" toml:"extras_dir"`
	Rules         []RuleConfig `yaml:"rules" toml:"rules"`
}

// RuleConfig is an extra classification rule. Exactly one of Prefix and Exact
// must be set.
type RuleConfig struct {
	Name        string         `yaml:"name" toml:"name"`
	Prefix      string         `yaml:"prefix" toml:"prefix"`
	Exact       string         `yaml:"exact" toml:"exact"`
	Layout      string         `yaml:"layout" toml:"layout"`
	Fallback    string         `yaml:"fallback" toml:"fallback"`
	Type        string         `yaml:"type" toml:"type"`
	Frontmatter map[string]any `yaml:"frontmatter" toml:"frontmatter"`
}

// FeedConfig configures the Atom feed.
type FeedConfig struct {
	// Enabled and Content default to true when omitted.
	Enabled      *bool  `yaml:"enabled" toml:"enabled"`
	File         string `yaml:"file" toml:"file"`
	Limit        int    `yaml:"limit" toml:"limit"`
	Content      *bool  `yaml:"content" toml:"content"`
	SummaryRunes int    `yaml:"summary_runes" toml:"summary_runes"`
}

// IsEnabled reports whether the feed should be written.
func (f FeedConfig) IsEnabled() bool {
	return f.Enabled == nil || *f.Enabled
}

// IncludesContent reports whether entries carry the rendered post body.
func (f FeedConfig) IncludesContent() bool {
	return f.Content == nil || *f.Content
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Load reads, expands, decodes, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", path).
			Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes data as YAML, or as TOML when name ends in .toml, then applies
// defaults and validates. ${VAR} references are expanded first.
func Parse(name string, data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(name), ".toml") {
		meta, err := toml.Decode(expanded, &cfg)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to decode TOML config").
				WithContext("path", name).
				Build()
		}
		for _, key := range meta.Undecoded() {
			slog.Warn("Unknown configuration key", slog.String("key", key.String()), logfields.File(name))
		}
	} else if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to decode YAML config").
			WithContext("path", name).
			Build()
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFiles reads .env and .env.local next to the config file. Existing
// environment variables are not overwritten, and missing files are fine.
func loadEnvFiles(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			slog.Warn("Failed to load env file", logfields.File(p), logfields.Error(err))
			continue
		}
		slog.Debug("Loaded environment file", logfields.File(p))
	}
}

// resolvePaths makes relative directories relative to the config file.
func (c *Config) resolvePaths(base string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.SourceDir = resolve(c.SourceDir)
	c.OutputDir = resolve(c.OutputDir)
	c.LayoutsDir = resolve(c.LayoutsDir)
}

// String returns a short description for logs.
func (c *Config) String() string {
	return fmt.Sprintf("source=%s output=%s production=%t", c.SourceDir, c.OutputDir, c.Production)
}
