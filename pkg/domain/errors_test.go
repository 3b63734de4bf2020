package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigShapeError(t *testing.T) {
	err := fmt.Errorf("resolve theme: %w",
		NewShapeError("theme.extend.fontFamily.sans", "expected array of strings, got %s", String("Inter").Describe()))

	if !errors.Is(err, ErrConfigShape) {
		t.Fatalf("expected errors.Is to match ErrConfigShape")
	}

	var shapeErr *ConfigShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected errors.As to match ConfigShapeError")
	}
	if shapeErr.Path != "theme.extend.fontFamily.sans" {
		t.Errorf("unexpected path %q", shapeErr.Path)
	}
	want := `invalid config at theme.extend.fontFamily.sans: expected array of strings, got string "Inter"`
	if shapeErr.Error() != want {
		t.Errorf("got %q, want %q", shapeErr.Error(), want)
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "no match warning", err: NoMatchWarning{Path: "content[0]", Pattern: "x/*.html"}, want: false},
		{name: "invalid pattern", err: &InvalidPatternError{Path: "content[0]", Pattern: "["}, want: true},
		{name: "shape", err: NewShapeError("theme", "expected object"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	root := errors.New("root")
	err := &OpError{Op: "loader.load", Kind: KindNotFound, Path: "tailwind.config.js", Err: root}

	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}
	if !IsKind(err, KindNotFound) {
		t.Fatalf("expected IsKind to match")
	}
	if IsKind(err, KindInvalidConfig) {
		t.Fatalf("unexpected kind match")
	}
}

func TestFormatFromPath(t *testing.T) {
	cases := map[string]Format{
		"tailwind.config.js":   FormatJavaScript,
		"tailwind.config.CJS":  FormatJavaScript,
		"tailwind.config.ts":   FormatTypeScript,
		"tailwind.config.json": FormatJSON,
		"tailwind.config.yml":  FormatYAML,
		"tailwind.config.toml": FormatUnknown,
	}
	for path, want := range cases {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
