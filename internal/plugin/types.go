package plugin

import "fmt"

// Type identifies the category of plugin.
type Type string

const (
	// TypeContent classifies pages and derives data from them.
	TypeContent Type = "content"

	// TypeTheme provides layouts.
	TypeTheme Type = "theme"

	// TypeGenerator emits extra output files.
	TypeGenerator Type = "generator"
)

// IsValid returns true if the plugin type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case TypeContent, TypeTheme, TypeGenerator:
		return true
	default:
		return false
	}
}

// String returns the string representation of the plugin type.
func (t Type) String() string {
	return string(t)
}

// Capability describes optional features a plugin may provide.
type Capability string

const (
	CapabilityLayouts    Capability = "layouts"
	CapabilityTaxonomy   Capability = "taxonomy"
	CapabilityClientData Capability = "client-data"
	CapabilityFeed       Capability = "feed"
	CapabilityExtras     Capability = "extras"
)

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// Error represents an error that occurred within a plugin hook.
type Error struct {
	// PluginName identifies which plugin failed.
	PluginName string

	// Hook is the lifecycle hook that was running.
	Hook string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("plugin %s failed during %s: %v", e.PluginName, e.Hook, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new plugin error.
func NewError(pluginName, hook string, err error) *Error {
	return &Error{
		PluginName: pluginName,
		Hook:       hook,
		Err:        err,
	}
}
