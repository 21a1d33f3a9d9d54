package plugin

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mAKEkr/blog-advance/internal/logfields"
	"github.com/mAKEkr/blog-advance/internal/page"
)

// SiteInfo is the site-level metadata a host exposes to plugins.
type SiteInfo struct {
	Title  string
	URL    string
	Base   string
	Author string
}

// Host is the subset of the site build that plugins may use.
type Host interface {
	// Pages returns the current page set in load order.
	Pages() []*page.Page

	// HasLayout reports whether a layout with the given name is registered.
	HasLayout(name string) bool

	// AddPage registers a synthetic page. Duplicate paths are rejected.
	AddPage(ctx context.Context, p *page.Page) error

	// Production reports whether the build targets production.
	Production() bool

	Site() SiteInfo
	SourceDir() string
	OutputDir() string
}

// Context provides plugins with access to host services for one build.
type Context struct {
	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	Host Host

	// BuildID uniquely identifies this build.
	BuildID string

	// Data is a map for plugins to share data during one build.
	Data map[string]any
}

// NewContext creates a plugin context. An empty buildID gets a fresh UUID.
func NewContext(logger *slog.Logger, host Host, buildID string) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	if buildID == "" {
		buildID = uuid.NewString()
	}
	return &Context{
		Logger:  logger.With(logfields.BuildID(buildID)),
		Host:    host,
		BuildID: buildID,
		Data:    make(map[string]any),
	}
}

// WithValue returns a copy of the context with the given key-value pair in Data.
func (pc *Context) WithValue(key string, value any) *Context {
	newData := make(map[string]any, len(pc.Data)+1)
	for k, v := range pc.Data {
		newData[k] = v
	}
	newData[key] = value

	return &Context{
		Logger:  pc.Logger,
		Host:    pc.Host,
		BuildID: pc.BuildID,
		Data:    newData,
	}
}

// GetValue retrieves a value from the plugin data map.
// Returns nil if the key doesn't exist.
func (pc *Context) GetValue(key string) any {
	return pc.Data[key]
}

// GetString retrieves a string value from the plugin data map.
func (pc *Context) GetString(key string) string {
	if v, ok := pc.Data[key].(string); ok {
		return v
	}
	return ""
}

// ForPlugin returns a copy whose logger is tagged with the plugin name.
func (pc *Context) ForPlugin(name string) *Context {
	cp := *pc
	cp.Logger = pc.Logger.With(logfields.Plugin(name))
	return &cp
}
