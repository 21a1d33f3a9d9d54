// Package plugin defines how site plugins hook into a build.
//
// A plugin implements Plugin plus any subset of the lifecycle hook interfaces
// (PageExtender, ReadyHook, ClientModuleProvider, GeneratedHook). The host runs
// the hooks of every registered plugin in registration order.
package plugin

import (
	"context"
	"fmt"

	"github.com/mAKEkr/blog-advance/internal/page"
)

// Plugin represents a site plugin with metadata and configuration validation.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, type, capabilities).
	Metadata() Metadata

	// Validate checks if the plugin can run with the given configuration.
	Validate(config map[string]any) error
}

// PageExtender is called once per loaded page, before permalinks are resolved.
// Implementations mutate the page in place.
type PageExtender interface {
	Plugin
	ExtendPageData(pc *Context, p *page.Page)
}

// ReadyHook is called once after every page has been loaded and extended.
type ReadyHook interface {
	Plugin
	Ready(ctx context.Context, pc *Context) error
}

// ClientModuleProvider contributes generated client-side modules.
type ClientModuleProvider interface {
	Plugin
	ClientDynamicModules(ctx context.Context, pc *Context) ([]Module, error)
}

// GeneratedHook is called once after pages and modules have been emitted.
type GeneratedHook interface {
	Plugin
	Generated(ctx context.Context, pc *Context) error
}

// Module is a generated client-side file, written under the host's data directory.
type Module struct {
	Name    string
	Content []byte
}

// Metadata describes a plugin's identity and capabilities.
type Metadata struct {
	// Name is the unique plugin identifier (e.g., "blog").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	Type        Type
	Description string

	// Capabilities lists optional features this plugin provides.
	Capabilities []Capability
}

// String returns a human-readable representation of the plugin metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}

// HasCapability reports whether the plugin advertises c.
func (m Metadata) HasCapability(c Capability) bool {
	for _, have := range m.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// BasePlugin provides a permissive Validate. Plugins can embed it.
type BasePlugin struct{}

// Validate accepts any configuration.
func (BasePlugin) Validate(map[string]any) error {
	return nil
}
