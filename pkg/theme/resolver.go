package theme

import (
	"strings"

	"github.com/specvital/twconfig/pkg/domain"
)

const defaultKey = "DEFAULT"

// maxNesting bounds recursion into nested token objects such as color palettes.
const maxNesting = 32

// Resolver resolves theme blocks against an injected base theme.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	base *domain.ThemeTable
}

// NewResolver creates a resolver over base. A nil base uses DefaultTheme.
// The base is copied, so later changes to the argument are not observed.
func NewResolver(base *domain.ThemeTable) *Resolver {
	if base == nil {
		base = DefaultTheme()
	} else {
		base = base.Clone()
	}
	return &Resolver{base: base}
}

// Base returns a copy of the resolver's base theme.
func (r *Resolver) Base() *domain.ThemeTable {
	return r.base.Clone()
}

// Resolve parses and resolves a raw theme block.
func (r *Resolver) Resolve(raw *domain.Value) (*domain.ThemeTable, error) {
	return ResolveValue(r.base, raw)
}

// ResolveValue parses raw with ParseConfig and resolves it against base.
func ResolveValue(base *domain.ThemeTable, raw *domain.Value) (*domain.ThemeTable, error) {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	return Resolve(base, cfg)
}

// Resolve produces the effective theme. It is a pure function of its inputs:
// base is never modified and the result shares no state with it.
//
// Replace overrides are applied first, then extend overrides merge into the
// possibly replaced categories. Every base category is present in the result.
func Resolve(base *domain.ThemeTable, cfg Config) (*domain.ThemeTable, error) {
	if base == nil {
		base = domain.NewThemeTable()
	}
	out := base.Clone()

	for _, mode := range []Mode{ModeReplace, ModeExtend} {
		for _, o := range cfg.Overrides {
			if o.Mode != mode {
				continue
			}
			if err := apply(base, out, o); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func apply(base, out *domain.ThemeTable, o Override) error {
	kind := categoryKind(base, o.Category)

	entries, err := evaluateCategory(base, o, kind)
	if err != nil {
		return err
	}

	switch o.Mode {
	case ModeReplace:
		out.Put(domain.NewCategory(o.Category, kind, entries...))
	case ModeExtend:
		target, ok := out.Category(o.Category)
		if !ok {
			target = domain.NewCategory(o.Category, kind)
			out.Put(target)
		}
		for _, e := range entries {
			target.Set(e.Name, e.Value)
		}
	}
	return nil
}

func categoryKind(base *domain.ThemeTable, name string) domain.TokenKind {
	if c, ok := base.Category(name); ok && c.Kind != "" {
		return c.Kind
	}
	return domain.TokenKindAny
}

func evaluateCategory(base *domain.ThemeTable, o Override, kind domain.TokenKind) ([]domain.Token, error) {
	src := o.Source
	if src == nil {
		return nil, domain.NewShapeError(o.Path, "category value is undefined")
	}

	if src.Kind == domain.ValueRef {
		c, err := refCategory(base, src, o.Path)
		if err != nil {
			return nil, err
		}
		if err := checkTokens(c, o.Path, kind); err != nil {
			return nil, err
		}
		return c.Tokens(), nil
	}

	if src.Kind != domain.ValueMap {
		return nil, domain.NewShapeError(o.Path, "expected object, got %s", src.Describe())
	}

	acc := domain.NewCategory(o.Category, kind)
	for _, f := range src.Fields {
		if f.Spread {
			c, err := refCategory(base, f.Value, o.Path)
			if err != nil {
				return nil, err
			}
			if err := checkTokens(c, o.Path, kind); err != nil {
				return nil, err
			}
			for _, t := range c.Tokens() {
				acc.Set(t.Name, t.Value)
			}
			continue
		}
		if err := flatten(base, acc, f.Key, f.Value, domain.JoinPath(o.Path, f.Key), kind, 0); err != nil {
			return nil, err
		}
	}
	return acc.Tokens(), nil
}

// flatten writes nested token objects as dash-joined names; a DEFAULT key
// names the parent itself.
func flatten(base *domain.ThemeTable, acc *domain.Category, name string, v *domain.Value, path string, kind domain.TokenKind, depth int) error {
	if depth > maxNesting {
		return domain.NewShapeError(path, "nesting exceeds %d levels", maxNesting)
	}

	if v != nil && v.Kind == domain.ValueMap {
		for _, f := range v.Fields {
			if f.Spread {
				return domain.NewShapeError(path, "spread is only supported directly under a category")
			}
			child := name + "-" + f.Key
			if f.Key == defaultKey {
				child = name
			}
			if err := flatten(base, acc, child, f.Value, domain.JoinPath(path, f.Key), kind, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	if group := refGroup(base, v); len(group) > 0 {
		for _, t := range group {
			child := name
			if t.Name != "" {
				child = name + "-" + t.Name
			}
			if kind != domain.TokenKindAny && t.Value.Kind() != kind {
				return domain.NewShapeError(path, "expected %s, got %s %s", describeKind(kind), describeKind(t.Value.Kind()), v.Describe())
			}
			acc.Set(child, t.Value)
		}
		return nil
	}

	tv, err := tokenValue(base, v, path)
	if err != nil {
		return err
	}
	if kind != domain.TokenKindAny && tv.Kind() != kind {
		return domain.NewShapeError(path, "expected %s, got %s", describeKind(kind), v.Describe())
	}
	acc.Set(name, tv)
	return nil
}

// checkTokens rejects copied base tokens whose kind differs from the target category.
func checkTokens(src *domain.Category, path string, kind domain.TokenKind) error {
	if kind == domain.TokenKindAny {
		return nil
	}
	for _, t := range src.Tokens() {
		if t.Value.Kind() != kind {
			return domain.NewShapeError(domain.JoinPath(path, t.Name), "expected %s, got %s from defaultTheme.%s", describeKind(kind), describeKind(t.Value.Kind()), src.Name)
		}
	}
	return nil
}

// refGroup resolves defaultTheme.<category>.<prefix> against flattened names:
// defaultTheme.colors.gray yields the gray-* tokens with the prefix removed.
// It is empty when an exact token exists.
func refGroup(base *domain.ThemeTable, v *domain.Value) []domain.Token {
	if v == nil || v.Kind != domain.ValueRef || v.Spread || len(v.Ref) != 2 {
		return nil
	}
	c, ok := base.Category(v.Ref[0])
	if !ok {
		return nil
	}
	if _, exact := c.Get(v.Ref[1]); exact {
		return nil
	}

	prefix := v.Ref[1] + "-"
	var group []domain.Token
	for _, t := range c.Tokens() {
		if strings.HasPrefix(t.Name, prefix) {
			group = append(group, domain.Token{Name: strings.TrimPrefix(t.Name, prefix), Value: t.Value})
		}
	}
	return group
}

func tokenValue(base *domain.ThemeTable, v *domain.Value, path string) (domain.TokenValue, error) {
	if v == nil {
		return domain.TokenValue{}, domain.NewShapeError(path, "value is undefined")
	}

	switch v.Kind {
	case domain.ValueString, domain.ValueNumber:
		return domain.StringValue(v.Text), nil

	case domain.ValueRef:
		return refToken(base, v, path)

	case domain.ValueList:
		stack := make([]string, 0, len(v.Items))
		for i, item := range v.Items {
			itemPath := domain.IndexPath(path, i)
			if item == nil {
				return domain.TokenValue{}, domain.NewShapeError(itemPath, "value is undefined")
			}
			switch item.Kind {
			case domain.ValueString, domain.ValueNumber:
				stack = append(stack, item.Text)
			case domain.ValueRef:
				tv, err := refToken(base, item, itemPath)
				if err != nil {
					return domain.TokenValue{}, err
				}
				if tv.IsStack() && !item.Spread {
					return domain.TokenValue{}, domain.NewShapeError(itemPath, "%s is a fallback stack and must be spread with ...", item.Describe())
				}
				stack = append(stack, tv.Stack()...)
			default:
				return domain.TokenValue{}, domain.NewShapeError(itemPath, "expected string, got %s", item.Describe())
			}
		}
		if len(stack) == 0 {
			return domain.TokenValue{}, domain.NewShapeError(path, "fallback stack is empty")
		}
		return domain.StackValue(stack...), nil

	case domain.ValueNull:
		return domain.TokenValue{}, domain.NewShapeError(path, "value is undefined")

	default:
		return domain.TokenValue{}, domain.NewShapeError(path, "expected string or array of strings, got %s", v.Describe())
	}
}

func refCategory(base *domain.ThemeTable, v *domain.Value, path string) (*domain.Category, error) {
	if v == nil || v.Kind != domain.ValueRef || len(v.Ref) != 1 {
		return nil, domain.NewShapeError(path, "only defaultTheme.<category> can be spread here, got %s", v.Describe())
	}
	c, ok := base.Category(v.Ref[0])
	if !ok {
		return nil, domain.NewShapeError(path, "unknown %s", v.Describe())
	}
	return c, nil
}

func refToken(base *domain.ThemeTable, v *domain.Value, path string) (domain.TokenValue, error) {
	if len(v.Ref) != 2 {
		return domain.TokenValue{}, domain.NewShapeError(path, "expected defaultTheme.<category>.<name>, got %s", v.Describe())
	}
	tv, ok := base.Lookup(v.Ref[0], v.Ref[1])
	if !ok {
		return domain.TokenValue{}, domain.NewShapeError(path, "unknown %s", v.Describe())
	}
	return tv, nil
}

func describeKind(kind domain.TokenKind) string {
	if kind == domain.TokenKindStack {
		return "array of strings"
	}
	return "string"
}
