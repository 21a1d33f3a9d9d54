// Package errors provides the classified error primitives used across blogadvance.
//
// Most of the blog pipeline is lenient by contract: missing taxonomy fields are
// skipped and unknown layouts fall back to defaults. The errors that do surface
// (bad configuration, duplicate permalinks, file-system failures) are wrapped in a
// ClassifiedError so the CLI can pick an exit code and log level.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryAlreadyExists, "duplicate permalink").
//		WithContext("path", p.Path).
//		Build()
package errors
