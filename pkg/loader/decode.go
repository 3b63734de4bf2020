package loader

import (
	"github.com/specvital/twconfig/pkg/domain"
)

// Decode validates the top-level shape of a configuration tree and builds a Config.
// path is recorded as Config.Path; it is not read.
func Decode(path string, v *domain.Value) (*domain.Config, error) {
	if v == nil || v.Kind != domain.ValueMap {
		return nil, domain.NewShapeError("", "configuration must be an object, got %s", v.Describe())
	}

	cfg := &domain.Config{
		Path:    path,
		Format:  domain.FormatFromPath(path),
		Plugins: []domain.Plugin{},
	}

	content, err := decodeContent(v)
	if err != nil {
		return nil, err
	}
	cfg.Content = content

	if theme, ok := v.Get("theme"); ok && !theme.IsNull() {
		cfg.Theme = theme
	}

	if plugins, ok := v.Get("plugins"); ok && !plugins.IsNull() {
		if cfg.Plugins, err = decodePlugins(plugins); err != nil {
			return nil, err
		}
	}

	if cfg.Prefix, err = optionalString(v, "prefix"); err != nil {
		return nil, err
	}
	if cfg.Separator, err = optionalString(v, "separator"); err != nil {
		return nil, err
	}
	if cfg.Important, err = decodeImportant(v); err != nil {
		return nil, err
	}
	if cfg.DarkMode, err = decodeDarkMode(v); err != nil {
		return nil, err
	}
	if cfg.Safelist, err = decodeSafelist(v); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeContent(root *domain.Value) (domain.ContentConfig, error) {
	raw, ok := root.Get("content")
	if !ok || raw.IsNull() {
		return domain.ContentConfig{}, domain.NewShapeError("content", "content is required")
	}

	switch raw.Kind {
	case domain.ValueList:
		files, err := patternList(raw, "content")
		if err != nil {
			return domain.ContentConfig{}, err
		}
		return domain.ContentConfig{Files: files, Key: "content"}, nil

	case domain.ValueMap:
		filesRaw, ok := raw.Get("files")
		if !ok || filesRaw.Kind != domain.ValueList {
			return domain.ContentConfig{}, domain.NewShapeError("content.files", "expected an array of glob patterns, got %s", filesRaw.Describe())
		}
		files, err := patternList(filesRaw, "content.files")
		if err != nil {
			return domain.ContentConfig{}, err
		}

		cc := domain.ContentConfig{Files: files, Key: "content.files"}
		if rel, ok := raw.Get("relative"); ok && !rel.IsNull() {
			if rel.Kind != domain.ValueBool {
				return domain.ContentConfig{}, domain.NewShapeError("content.relative", "expected a boolean, got %s", rel.Describe())
			}
			cc.Relative = rel.Bool
		}
		return cc, nil

	default:
		return domain.ContentConfig{}, domain.NewShapeError("content", "expected an array of glob patterns, got %s", raw.Describe())
	}
}

// patternList accepts string entries only; raw {raw: "..."} content is not supported.
func patternList(list *domain.Value, key string) ([]string, error) {
	if len(list.Items) == 0 {
		return nil, domain.NewShapeError(key, "at least one glob pattern is required")
	}

	files := make([]string, 0, len(list.Items))
	for i, item := range list.Items {
		if item.Kind != domain.ValueString || item.Spread {
			return nil, domain.NewShapeError(domain.IndexPath(key, i), "expected a glob pattern string, got %s", item.Describe())
		}
		files = append(files, item.Text)
	}
	return files, nil
}

func decodePlugins(raw *domain.Value) ([]domain.Plugin, error) {
	if raw.Kind != domain.ValueList {
		return nil, domain.NewShapeError("plugins", "expected an array, got %s", raw.Describe())
	}

	plugins := make([]domain.Plugin, 0, len(raw.Items))
	for i, item := range raw.Items {
		switch item.Kind {
		case domain.ValueString:
			plugins = append(plugins, domain.Plugin{Name: item.Text, Source: item.Text})
		case domain.ValueOpaque:
			plugins = append(plugins, domain.Plugin{Name: item.Module, Source: item.Text})
		case domain.ValueMap:
			// Inline plugin objects ({handler, config}) pass through without a name.
			plugins = append(plugins, domain.Plugin{Source: item.Describe()})
		default:
			return nil, domain.NewShapeError(domain.IndexPath("plugins", i), "expected a plugin, got %s", item.Describe())
		}
	}
	return plugins, nil
}

func optionalString(root *domain.Value, key string) (string, error) {
	v, ok := root.Get(key)
	if !ok || v.IsNull() {
		return "", nil
	}
	if v.Kind != domain.ValueString {
		return "", domain.NewShapeError(key, "expected a string, got %s", v.Describe())
	}
	return v.Text, nil
}

// decodeImportant accepts true/false or a selector string such as "#app".
func decodeImportant(root *domain.Value) (string, error) {
	v, ok := root.Get("important")
	if !ok || v.IsNull() {
		return "", nil
	}
	switch v.Kind {
	case domain.ValueBool:
		if v.Bool {
			return "true", nil
		}
		return "", nil
	case domain.ValueString:
		return v.Text, nil
	default:
		return "", domain.NewShapeError("important", "expected a boolean or selector string, got %s", v.Describe())
	}
}

// decodeDarkMode accepts "media", "class" or ["class", ".dark-selector"].
func decodeDarkMode(root *domain.Value) (string, error) {
	v, ok := root.Get("darkMode")
	if !ok || v.IsNull() {
		return "", nil
	}
	switch v.Kind {
	case domain.ValueString:
		return v.Text, nil
	case domain.ValueList:
		if len(v.Items) == 0 || v.Items[0].Kind != domain.ValueString {
			return "", domain.NewShapeError("darkMode[0]", "expected a strategy string")
		}
		return v.Items[0].Text, nil
	default:
		return "", domain.NewShapeError("darkMode", "expected a string or array, got %s", v.Describe())
	}
}

func decodeSafelist(root *domain.Value) ([]string, error) {
	v, ok := root.Get("safelist")
	if !ok || v.IsNull() {
		return nil, nil
	}
	if v.Kind != domain.ValueList {
		return nil, domain.NewShapeError("safelist", "expected an array of class names, got %s", v.Describe())
	}

	out := make([]string, 0, len(v.Items))
	for i, item := range v.Items {
		if item.Kind != domain.ValueString {
			return nil, domain.NewShapeError(domain.IndexPath("safelist", i), "expected a class name string, got %s", item.Describe())
		}
		out = append(out, item.Text)
	}
	return out, nil
}
