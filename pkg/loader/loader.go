// Package loader reads Tailwind configuration files into domain.Config.
//
// JavaScript and TypeScript sources are parsed with tree-sitter and evaluated
// statically; nothing is executed. JSON and YAML are read with yaml.v3.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specvital/twconfig/pkg/domain"
)

// Load reads and validates the configuration file at path.
func Load(ctx context.Context, path string) (*domain.Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &domain.OpError{Op: "loader.load", Kind: domain.KindNotFound, Path: path, Err: err}
	}

	format := domain.FormatFromPath(abs)
	if format == domain.FormatUnknown {
		return nil, &domain.OpError{
			Op:   "loader.load",
			Kind: domain.KindUnsupported,
			Path: abs,
			Err:  fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(abs)),
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := os.ReadFile(abs)
	if err != nil {
		return nil, &domain.OpError{Op: "loader.load", Kind: domain.KindNotFound, Path: abs, Err: err}
	}

	raw, err := Parse(ctx, format, source)
	if err != nil {
		return nil, err
	}

	cfg, err := Decode(abs, raw)
	if err != nil {
		return nil, err
	}
	cfg.Format = format
	return cfg, nil
}

// Parse turns configuration source of the given format into a raw Value.
func Parse(ctx context.Context, format domain.Format, source []byte) (*domain.Value, error) {
	switch format {
	case domain.FormatJavaScript, domain.FormatTypeScript:
		return parseScript(ctx, format, source)
	case domain.FormatJSON, domain.FormatYAML:
		return parseData(source)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
	}
}
