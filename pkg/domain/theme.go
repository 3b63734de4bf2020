package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// TokenKind describes the value shape a theme category holds.
type TokenKind string

const (
	// TokenKindString is a category of plain string tokens (screens, colors, spacing).
	TokenKindString TokenKind = "string"
	// TokenKindStack is a category of ordered fallback stacks (fontFamily).
	TokenKindStack TokenKind = "stack"
	// TokenKindAny is a category the default theme does not know; values are not kind-checked.
	TokenKindAny TokenKind = "any"
)

// TokenValue is a single theme token value: a string or an ordered fallback stack.
type TokenValue struct {
	scalar string
	stack  []string
}

// StringValue returns a string-valued token.
func StringValue(s string) TokenValue {
	return TokenValue{scalar: s}
}

// StackValue returns a stack-valued token. The items are copied.
func StackValue(items ...string) TokenValue {
	stack := make([]string, len(items))
	copy(stack, items)
	return TokenValue{stack: stack}
}

// Kind reports whether the value is a string or a stack.
func (v TokenValue) Kind() TokenKind {
	if v.stack != nil {
		return TokenKindStack
	}
	return TokenKindString
}

// IsStack reports whether the value is an ordered fallback stack.
func (v TokenValue) IsStack() bool {
	return v.stack != nil
}

// String returns the scalar value, or the stack joined the way CSS writes it.
func (v TokenValue) String() string {
	if v.stack == nil {
		return v.scalar
	}
	return joinStack(v.stack)
}

// Stack returns a copy of the stack items, or a single-item slice for a string value.
func (v TokenValue) Stack() []string {
	if v.stack == nil {
		return []string{v.scalar}
	}
	out := make([]string, len(v.stack))
	copy(out, v.stack)
	return out
}

// Equal reports whether two values have the same kind and content.
func (v TokenValue) Equal(o TokenValue) bool {
	if v.IsStack() != o.IsStack() {
		return false
	}
	if v.IsStack() {
		return slices.Equal(v.stack, o.stack)
	}
	return v.scalar == o.scalar
}

func (v TokenValue) MarshalJSON() ([]byte, error) {
	if v.stack != nil {
		return json.Marshal(v.stack)
	}
	return json.Marshal(v.scalar)
}

func (v TokenValue) yamlNode() *yaml.Node {
	if v.stack == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.scalar}
	}
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, item := range v.stack {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
	}
	return seq
}

// Token is a named theme value.
type Token struct {
	Name  string
	Value TokenValue
}

// Category is an ordered set of uniquely named tokens.
// Setting an existing name keeps its position; new names are appended.
type Category struct {
	Name string
	Kind TokenKind

	tokens []Token
	index  map[string]int
}

// NewCategory creates a category with the given tokens in order.
// A repeated name overwrites the earlier value in place.
func NewCategory(name string, kind TokenKind, tokens ...Token) *Category {
	c := &Category{
		Name:   name,
		Kind:   kind,
		index:  make(map[string]int, len(tokens)),
		tokens: make([]Token, 0, len(tokens)),
	}
	for _, t := range tokens {
		c.Set(t.Name, t.Value)
	}
	return c
}

// Set inserts or overwrites a token.
func (c *Category) Set(name string, value TokenValue) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[name]; ok {
		c.tokens[i].Value = value
		return
	}
	c.index[name] = len(c.tokens)
	c.tokens = append(c.tokens, Token{Name: name, Value: value})
}

// Get returns the token value for name.
func (c *Category) Get(name string) (TokenValue, bool) {
	if c == nil {
		return TokenValue{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return TokenValue{}, false
	}
	return c.tokens[i].Value, true
}

// Len returns the number of tokens.
func (c *Category) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tokens)
}

// Names returns token names in insertion order.
func (c *Category) Names() []string {
	names := make([]string, len(c.tokens))
	for i, t := range c.tokens {
		names[i] = t.Name
	}
	return names
}

// Tokens returns a copy of the tokens in insertion order.
func (c *Category) Tokens() []Token {
	out := make([]Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Clone returns an independent copy of the category.
func (c *Category) Clone() *Category {
	return NewCategory(c.Name, c.Kind, c.tokens...)
}

// Equal reports whether two categories hold the same tokens in the same order.
// Kind is not compared.
func (c *Category) Equal(o *Category) bool {
	if c.Len() != o.Len() {
		return false
	}
	if c.Len() == 0 {
		return true
	}
	for i, t := range c.tokens {
		if t.Name != o.tokens[i].Name || !t.Value.Equal(o.tokens[i].Value) {
			return false
		}
	}
	return true
}

func (c *Category) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, t := range c.tokens {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		val, err := t.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Category) yamlNode() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, t := range c.tokens {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t.Name},
			t.Value.yamlNode(),
		)
	}
	return m
}

// ThemeTable is the ordered set of theme categories consumed by class generation.
// A resolved table must be treated as read-only; use Clone to derive a new one.
type ThemeTable struct {
	categories []*Category
	index      map[string]int
}

// NewThemeTable creates a table from categories in order.
// A repeated category name replaces the earlier one in place.
func NewThemeTable(categories ...*Category) *ThemeTable {
	t := &ThemeTable{index: make(map[string]int, len(categories))}
	for _, c := range categories {
		t.Put(c)
	}
	return t
}

// Put inserts or replaces a whole category.
func (t *ThemeTable) Put(c *Category) {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if i, ok := t.index[c.Name]; ok {
		t.categories[i] = c
		return
	}
	t.index[c.Name] = len(t.categories)
	t.categories = append(t.categories, c)
}

// Category returns the named category. Callers must not modify it.
func (t *ThemeTable) Category(name string) (*Category, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.categories[i], true
}

// Lookup returns a single token value.
func (t *ThemeTable) Lookup(category, name string) (TokenValue, bool) {
	c, ok := t.Category(category)
	if !ok {
		return TokenValue{}, false
	}
	return c.Get(name)
}

// Categories returns category names in order.
func (t *ThemeTable) Categories() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of categories.
func (t *ThemeTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.categories)
}

// Clone returns a deep copy of the table.
func (t *ThemeTable) Clone() *ThemeTable {
	out := &ThemeTable{
		categories: make([]*Category, 0, len(t.categories)),
		index:      make(map[string]int, len(t.categories)),
	}
	for _, c := range t.categories {
		out.Put(c.Clone())
	}
	return out
}

// Equal reports whether both tables hold equal categories in the same order.
func (t *ThemeTable) Equal(o *ThemeTable) bool {
	if t.Len() != o.Len() {
		return false
	}
	if t.Len() == 0 {
		return true
	}
	for i, c := range t.categories {
		oc := o.categories[i]
		if c.Name != oc.Name || !c.Equal(oc) {
			return false
		}
	}
	return true
}

func (t *ThemeTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range t.categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name)
		if err != nil {
			return nil, err
		}
		val, err := c.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("category %s: %w", c.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML keeps category and token order.
func (t *ThemeTable) MarshalYAML() (interface{}, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, c := range t.categories {
		m.Content = append(m.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.Name},
			c.yamlNode(),
		)
	}
	return m, nil
}

func joinStack(items []string) string {
	var buf bytes.Buffer
	for i, item := range items {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(item)
	}
	return buf.String()
}
