package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyLayout     = "layout"
	KeyPageType   = "page_type"
	KeyScope      = "scope"
	KeyTerm       = "term"
	KeyCount      = "count"
	KeyPlugin     = "plugin"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Page(key string) slog.Attr        { return slog.String(KeyPage, key) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Layout(name string) slog.Attr     { return slog.String(KeyLayout, name) }
func PageType(t string) slog.Attr      { return slog.String(KeyPageType, t) }
func Scope(s string) slog.Attr         { return slog.String(KeyScope, s) }
func Term(t string) slog.Attr          { return slog.String(KeyTerm, t) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Plugin(name string) slog.Attr     { return slog.String(KeyPlugin, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
