package loader_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/twconfig/pkg/domain"
	"github.com/specvital/twconfig/pkg/loader"
)

func TestLoad_CommonJS(t *testing.T) {
	t.Parallel()

	cfg, err := loader.Load(context.Background(), filepath.Join("testdata", "tailwind.config.js"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(cfg.Path))
	assert.Equal(t, domain.FormatJavaScript, cfg.Format)
	assert.Equal(t, []string{"./web/templates/**/*.html"}, cfg.Content.Files)
	assert.Equal(t, "content", cfg.Content.Key)
	assert.False(t, cfg.Content.Relative)
	assert.Empty(t, cfg.Plugins)
	require.NotNil(t, cfg.Theme)

	extend, ok := cfg.Theme.Get("extend")
	require.True(t, ok)
	fontFamily, ok := extend.Get("fontFamily")
	require.True(t, ok)
	sans, ok := fontFamily.Get("sans")
	require.True(t, ok)
	assert.Equal(t, domain.Strings("Inter", "system-ui", "-apple-system", "sans-serif"), sans)

	screens, ok := cfg.Theme.Get("screens")
	require.True(t, ok)
	assert.Equal(t, domain.Map(domain.F("xs", domain.String("306px"))), screens)
}

func TestLoad_ESModule(t *testing.T) {
	t.Parallel()

	cfg, err := loader.Load(context.Background(), filepath.Join("testdata", "esm.config.mjs"))
	require.NoError(t, err)

	assert.Equal(t, []string{"./src/**/*.{html,js}", "!./src/vendor/**"}, cfg.Content.Files)
	assert.Equal(t, "content.files", cfg.Content.Key)
	assert.True(t, cfg.Content.Relative)
	assert.Equal(t, "class", cfg.DarkMode)
	assert.Equal(t, "tw-", cfg.Prefix)

	require.Len(t, cfg.Plugins, 2)
	assert.Equal(t, "@tailwindcss/forms", cfg.Plugins[0].Name)
	assert.Equal(t, "forms({ strategy: 'class' })", cfg.Plugins[0].Source)
	assert.Equal(t, "@tailwindcss/typography", cfg.Plugins[1].Name)

	extend, _ := cfg.Theme.Get("extend")
	fontFamily, _ := extend.Get("fontFamily")
	sans, ok := fontFamily.Get("sans")
	require.True(t, ok)
	require.Len(t, sans.Items, 2)
	assert.Equal(t, domain.String(`"Inter var"`), sans.Items[0])
	assert.Equal(t, domain.ValueRef, sans.Items[1].Kind)
	assert.Equal(t, []string{"fontFamily", "sans"}, sans.Items[1].Ref)
	assert.True(t, sans.Items[1].Spread)

	mono, _ := fontFamily.Get("mono")
	assert.Equal(t, domain.Ref("fontFamily", "mono"), mono)

	colors, _ := extend.Get("colors")
	brand, ok := colors.Get("brand")
	require.True(t, ok)
	accent, ok := brand.Get("accent")
	require.True(t, ok)
	dark, _ := accent.Get("dark")
	assert.Equal(t, domain.String("#b45309"), dark)
}

func TestLoad_TypeScript(t *testing.T) {
	t.Parallel()

	cfg, err := loader.Load(context.Background(), filepath.Join("testdata", "tailwind.config.ts"))
	require.NoError(t, err)

	assert.Equal(t, domain.FormatTypeScript, cfg.Format)
	assert.Equal(t, []string{"./app/**/*.tsx"}, cfg.Content.Files)
	assert.Equal(t, "#app", cfg.Important)

	screens, _ := cfg.Theme.Get("screens")
	assert.Len(t, screens.Fields, 2)

	extend, _ := cfg.Theme.Get("extend")
	fontFamily, _ := extend.Get("fontFamily")
	display, _ := fontFamily.Get("display")
	require.Len(t, display.Items, 2)
	assert.Equal(t, []string{"fontFamily", "sans"}, display.Items[1].Ref)
}

func TestLoad_DataFormats(t *testing.T) {
	t.Parallel()

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		cfg, err := loader.Load(context.Background(), filepath.Join("testdata", "tailwind.config.yaml"))
		require.NoError(t, err)

		assert.Equal(t, domain.FormatYAML, cfg.Format)
		assert.Equal(t, []string{"./templates/**/*.html", "./static/js/*.js"}, cfg.Content.Files)
		assert.Equal(t, []string{"bg-red-500", "text-3xl"}, cfg.Safelist)
		assert.Equal(t, []domain.Plugin{{Name: "@tailwindcss/forms", Source: "@tailwindcss/forms"}}, cfg.Plugins)

		extend, _ := cfg.Theme.Get("extend")
		spacing, _ := extend.Get("spacing")
		require.Len(t, spacing.Fields, 2)
		assert.Equal(t, "128", spacing.Fields[0].Key)
		assert.Equal(t, "144", spacing.Fields[1].Key)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		cfg, err := loader.Load(context.Background(), filepath.Join("testdata", "tailwind.config.json"))
		require.NoError(t, err)

		assert.Equal(t, domain.FormatJSON, cfg.Format)
		assert.Equal(t, []string{"./index.html", "./src/**/*.vue"}, cfg.Content.Files)
		assert.Equal(t, "true", cfg.Important)
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := loader.Load(context.Background(), filepath.Join("testdata", "nope.config.js"))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindNotFound))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		t.Parallel()
		_, err := loader.Load(context.Background(), filepath.Join("testdata", "tailwind.config.toml"))
		require.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.KindUnsupported))
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "tailwind.config.js")
		require.NoError(t, os.WriteFile(path, []byte("module.exports = {\n  content: [\n}\n"), 0o644))

		_, err := loader.Load(context.Background(), path)
		var shapeErr *domain.ConfigShapeError
		require.True(t, errors.As(err, &shapeErr), "got %v", err)
		assert.Empty(t, shapeErr.Path)
		assert.Contains(t, shapeErr.Msg, "syntax error")
	})
}

func TestParse_Script(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format domain.Format
		source string
		want   *domain.Value
	}{
		{
			name:   "module.exports object",
			format: domain.FormatJavaScript,
			source: `module.exports = { content: ['a.html'], prefix: "tw-" }`,
			want: domain.Map(
				domain.F("content", domain.Strings("a.html")),
				domain.F("prefix", domain.String("tw-")),
			),
		},
		{
			name:   "defineConfig wrapper",
			format: domain.FormatJavaScript,
			source: `export default defineConfig({ content: ['a.html'] })`,
			want:   domain.Map(domain.F("content", domain.Strings("a.html"))),
		},
		{
			name:   "parenthesized export",
			format: domain.FormatJavaScript,
			source: `module.exports = ({ important: true })`,
			want:   domain.Map(domain.F("important", domain.Bool(true))),
		},
		{
			name:   "literals",
			format: domain.FormatJavaScript,
			source: "module.exports = { a: 1.5, b: -2, c: null, d: undefined, e: `tpl`, 'f-g': false }",
			want: domain.Map(
				domain.F("a", domain.Number("1.5")),
				domain.F("b", domain.Number("-2")),
				domain.F("c", domain.Null()),
				domain.F("d", domain.Null()),
				domain.F("e", domain.String("tpl")),
				domain.F("f-g", domain.Bool(false)),
			),
		},
		{
			name:   "escape sequences",
			format: domain.FormatJavaScript,
			source: `module.exports = { a: 'it\'s', b: "tab\tstop" }`,
			want: domain.Map(
				domain.F("a", domain.String("it's")),
				domain.F("b", domain.String("tab\tstop")),
			),
		},
		{
			name:   "object spread of local binding",
			format: domain.FormatJavaScript,
			source: "const base = { a: '1' }\nmodule.exports = { ...base, b: '2' }",
			want: domain.Map(
				domain.F("a", domain.String("1")),
				domain.F("b", domain.String("2")),
			),
		},
		{
			name:   "destructured default theme",
			format: domain.FormatJavaScript,
			source: "const { screens: bp } = require('tailwindcss/defaultTheme')\nmodule.exports = { theme: { screens: { ...bp } } }",
			want: domain.Map(
				domain.F("theme", domain.Map(
					domain.F("screens", domain.Map(domain.Field{Spread: true, Value: domain.Ref("screens")})),
				)),
			),
		},
		{
			name:   "subscript reference",
			format: domain.FormatJavaScript,
			source: "const dt = require('tailwindcss/defaultTheme')\nmodule.exports = { x: dt['fontFamily']['serif'] }",
			want:   domain.Map(domain.F("x", domain.Ref("fontFamily", "serif"))),
		},
		{
			name:   "opaque expression",
			format: domain.FormatJavaScript,
			source: "module.exports = { x: 1 + 2 }",
			want:   domain.Map(domain.F("x", domain.Opaque("1 + 2"))),
		},
		{
			name:   "typescript as cast",
			format: domain.FormatTypeScript,
			source: "export default { content: ['a.tsx'] } as Config",
			want:   domain.Map(domain.F("content", domain.Strings("a.tsx"))),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := loader.Parse(context.Background(), tt.format, []byte(tt.source))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_ScriptErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantPath string
	}{
		{name: "no export", source: "const x = { content: [] }", wantPath: ""},
		{name: "computed key", source: "module.exports = { theme: { [name]: {} } }", wantPath: "theme"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loader.Parse(context.Background(), domain.FormatJavaScript, []byte(tt.source))
			var shapeErr *domain.ConfigShapeError
			require.True(t, errors.As(err, &shapeErr), "got %v", err)
			assert.Equal(t, tt.wantPath, shapeErr.Path)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	content := domain.F("content", domain.Strings("a.html"))

	tests := []struct {
		name     string
		raw      *domain.Value
		wantPath string
	}{
		{name: "root not a map", raw: domain.Strings("a"), wantPath: ""},
		{name: "content missing", raw: domain.Map(), wantPath: "content"},
		{name: "content empty", raw: domain.Map(domain.F("content", domain.List())), wantPath: "content"},
		{name: "content wrong type", raw: domain.Map(domain.F("content", domain.String("a.html"))), wantPath: "content"},
		{
			name:     "content raw entry",
			raw:      domain.Map(domain.F("content", domain.List(domain.String("a.html"), domain.Map(domain.F("raw", domain.String("<div>")))))),
			wantPath: "content[1]",
		},
		{
			name:     "content.files missing",
			raw:      domain.Map(domain.F("content", domain.Map(domain.F("relative", domain.Bool(true))))),
			wantPath: "content.files",
		},
		{
			name:     "content.relative not bool",
			raw:      domain.Map(domain.F("content", domain.Map(domain.F("files", domain.Strings("a")), domain.F("relative", domain.String("yes"))))),
			wantPath: "content.relative",
		},
		{name: "plugins not a list", raw: domain.Map(content, domain.F("plugins", domain.String("forms"))), wantPath: "plugins"},
		{name: "plugin number", raw: domain.Map(content, domain.F("plugins", domain.List(domain.Number("1")))), wantPath: "plugins[0]"},
		{name: "prefix", raw: domain.Map(content, domain.F("prefix", domain.Bool(true))), wantPath: "prefix"},
		{name: "separator", raw: domain.Map(content, domain.F("separator", domain.Number("1"))), wantPath: "separator"},
		{name: "important", raw: domain.Map(content, domain.F("important", domain.Number("1"))), wantPath: "important"},
		{name: "darkMode empty list", raw: domain.Map(content, domain.F("darkMode", domain.List())), wantPath: "darkMode[0]"},
		{name: "darkMode bool", raw: domain.Map(content, domain.F("darkMode", domain.Bool(true))), wantPath: "darkMode"},
		{name: "safelist entry", raw: domain.Map(content, domain.F("safelist", domain.List(domain.String("a"), domain.Map()))), wantPath: "safelist[1]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := loader.Decode("/p/tailwind.config.js", tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrConfigShape)

			var shapeErr *domain.ConfigShapeError
			require.True(t, errors.As(err, &shapeErr))
			assert.Equal(t, tt.wantPath, shapeErr.Path)
		})
	}
}

func TestDecode_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := loader.Decode("/p/tailwind.config.json", domain.Map(
		domain.F("content", domain.Strings("a.html")),
		domain.F("theme", domain.Null()),
	))
	require.NoError(t, err)

	assert.Nil(t, cfg.Theme)
	assert.NotNil(t, cfg.Plugins)
	assert.Empty(t, cfg.Plugins)
	assert.Empty(t, cfg.Prefix)
	assert.Empty(t, cfg.Important)
	assert.Equal(t, domain.FormatJSON, cfg.Format)
}
