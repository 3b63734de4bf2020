// Package domain defines the core types shared by the loader, the theme resolver
// and the content matcher.
package domain

import (
	"path/filepath"
	"strings"
)

// Format represents the source format of a configuration file.
type Format string

// Supported configuration formats.
const (
	FormatJavaScript Format = "javascript"
	FormatJSON       Format = "json"
	FormatTypeScript Format = "typescript"
	FormatYAML       Format = "yaml"
	FormatUnknown    Format = ""
)

// FormatFromPath infers the configuration format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs", ".mjs":
		return FormatJavaScript
	case ".ts", ".cts", ".mts":
		return FormatTypeScript
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}
