// Package theme resolves a configuration's theme block against a base theme.
//
// Keys written directly under theme replace the base category wholesale.
// Keys written under theme.extend merge into the category, the extend value
// winning on a name collision. Both paths are represented as one tagged
// Override and applied by a single merge function.
package theme

import (
	"github.com/specvital/twconfig/pkg/domain"
)

const extendKey = "extend"

// Mode selects how an override combines with the base category.
type Mode int

const (
	// ModeReplace discards the base category and uses the override entries only.
	ModeReplace Mode = iota
	// ModeExtend merges the override entries into the category.
	ModeExtend
)

func (m Mode) String() string {
	if m == ModeExtend {
		return "extend"
	}
	return "replace"
}

// Override is one category-level change from the theme block.
type Override struct {
	Mode     Mode
	Category string
	// Path is the configuration path of Source, e.g. "theme.extend.fontFamily".
	Path   string
	Source *domain.Value
}

// Config is the parsed theme block.
type Config struct {
	Overrides []Override
}

// IsEmpty reports whether the config changes nothing.
func (c Config) IsEmpty() bool {
	return len(c.Overrides) == 0
}

// Replace returns a replace override for category.
func Replace(category string, source *domain.Value) Override {
	return Override{Mode: ModeReplace, Category: category, Path: domain.JoinPath("theme", category), Source: source}
}

// Extend returns an extend override for category.
func Extend(category string, source *domain.Value) Override {
	return Override{Mode: ModeExtend, Category: category, Path: "theme.extend." + category, Source: source}
}

// ParseConfig splits a raw theme block into overrides.
// A nil or null block yields an empty Config.
func ParseConfig(raw *domain.Value) (Config, error) {
	if raw.IsNull() {
		return Config{}, nil
	}
	if raw.Kind != domain.ValueMap {
		return Config{}, domain.NewShapeError("theme", "expected object, got %s", raw.Describe())
	}

	replaces := newOverrideSet()
	extends := newOverrideSet()

	for _, f := range raw.Fields {
		if f.Spread {
			return Config{}, domain.NewShapeError("theme", "spread is not supported at the theme root")
		}
		if f.Key == extendKey {
			if err := parseExtend(f.Value, extends); err != nil {
				return Config{}, err
			}
			continue
		}
		o := Replace(f.Key, f.Value)
		if err := checkCategorySource(o); err != nil {
			return Config{}, err
		}
		replaces.add(o)
	}

	cfg := Config{}
	cfg.Overrides = append(cfg.Overrides, replaces.items...)
	cfg.Overrides = append(cfg.Overrides, extends.items...)
	return cfg, nil
}

func parseExtend(v *domain.Value, extends *overrideSet) error {
	if v.IsNull() {
		return nil
	}
	if v.Kind != domain.ValueMap {
		return domain.NewShapeError("theme.extend", "expected object, got %s", v.Describe())
	}
	for _, f := range v.Fields {
		if f.Spread {
			return domain.NewShapeError("theme.extend", "spread is not supported at the extend root")
		}
		o := Extend(f.Key, f.Value)
		if err := checkCategorySource(o); err != nil {
			return err
		}
		extends.add(o)
	}
	return nil
}

func checkCategorySource(o Override) error {
	switch {
	case o.Source == nil || o.Source.Kind == domain.ValueNull:
		return domain.NewShapeError(o.Path, "category value is undefined")
	case o.Source.Kind == domain.ValueMap:
		return nil
	case o.Source.Kind == domain.ValueRef && len(o.Source.Ref) == 1:
		return nil
	default:
		return domain.NewShapeError(o.Path, "expected object, got %s", o.Source.Describe())
	}
}

// overrideSet keeps the last override per category at the position of the first,
// as a repeated object key does.
type overrideSet struct {
	items []Override
	index map[string]int
}

func newOverrideSet() *overrideSet {
	return &overrideSet{index: make(map[string]int)}
}

func (s *overrideSet) add(o Override) {
	if i, ok := s.index[o.Category]; ok {
		s.items[i] = o
		return
	}
	s.index[o.Category] = len(s.items)
	s.items = append(s.items, o)
}
