package theme

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/specvital/twconfig/pkg/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var (
	defaultOnce  sync.Once
	defaultTable *domain.ThemeTable
	defaultErr   error
)

// DefaultTheme returns the built-in theme. Every call returns a fresh copy.
func DefaultTheme() *domain.ThemeTable {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = ParseTable(defaultsYAML)
	})
	if defaultErr != nil {
		// The document is embedded at build time; a failure is a programming error.
		panic(fmt.Sprintf("theme: invalid embedded defaults: %v", defaultErr))
	}
	return defaultTable.Clone()
}

// ParseTable builds a ThemeTable from a YAML (or JSON) document mapping
// categories to tokens. A category whose values are all sequences holds
// fallback stacks; otherwise it holds strings. Nested objects flatten the
// same way they do in a theme block.
func ParseTable(data []byte) (*domain.ThemeTable, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse theme table: %w", err)
	}
	raw, err := domain.ValueFromYAML(&node)
	if err != nil {
		return nil, err
	}
	return TableFromValue(raw)
}

// TableFromValue builds a ThemeTable from an ordered category → tokens mapping.
func TableFromValue(raw *domain.Value) (*domain.ThemeTable, error) {
	table := domain.NewThemeTable()
	if raw.IsNull() {
		return table, nil
	}
	if raw.Kind != domain.ValueMap {
		return nil, domain.NewShapeError("", "expected object of categories, got %s", raw.Describe())
	}

	for _, f := range raw.Fields {
		if f.Spread || f.Value == nil || f.Value.Kind != domain.ValueMap {
			return nil, domain.NewShapeError(f.Key, "expected object of tokens")
		}
		acc := domain.NewCategory(f.Key, domain.TokenKindAny)
		for _, tf := range f.Value.Fields {
			if err := flatten(table, acc, tf.Key, tf.Value, domain.JoinPath(f.Key, tf.Key), domain.TokenKindAny, 0); err != nil {
				return nil, err
			}
		}
		acc.Kind = inferKind(acc)
		table.Put(acc)
	}
	return table, nil
}

func inferKind(c *domain.Category) domain.TokenKind {
	if c.Len() == 0 {
		return domain.TokenKindAny
	}
	stacks := 0
	for _, t := range c.Tokens() {
		if t.Value.IsStack() {
			stacks++
		}
	}
	switch stacks {
	case 0:
		return domain.TokenKindString
	case c.Len():
		return domain.TokenKindStack
	default:
		return domain.TokenKindAny
	}
}
