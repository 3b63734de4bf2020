package domain

import (
	"fmt"
	"strings"
)

// ValueKind identifies the shape of a raw configuration value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueString
	ValueNumber
	ValueBool
	ValueList
	ValueMap
	// ValueRef is a reference into the default theme, e.g. defaultTheme.fontFamily.sans.
	ValueRef
	// ValueOpaque is an expression kept as source text (plugin calls, functions).
	ValueOpaque
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueString:
		return "string"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "boolean"
	case ValueList:
		return "array"
	case ValueMap:
		return "object"
	case ValueRef:
		return "reference"
	case ValueOpaque:
		return "expression"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is an ordered configuration tree produced by every loader format.
type Value struct {
	Kind ValueKind

	// Text holds the string contents, the number literal, or the source of an opaque expression.
	Text string
	Bool bool

	Items  []*Value
	Fields []Field

	// Ref is the path below the default theme root for ValueRef.
	Ref []string
	// Module names the package an opaque value was required or imported from.
	Module string
	// Spread marks a list item written as ...expr.
	Spread bool
}

// Field is a map entry. Spread fields have an empty Key.
type Field struct {
	Key    string
	Value  *Value
	Spread bool
}

// String creates a string value.
func String(s string) *Value {
	return &Value{Kind: ValueString, Text: s}
}

// Number creates a number value from its literal text.
func Number(text string) *Value {
	return &Value{Kind: ValueNumber, Text: text}
}

// Bool creates a boolean value.
func Bool(b bool) *Value {
	return &Value{Kind: ValueBool, Bool: b}
}

// Null creates a null value.
func Null() *Value {
	return &Value{Kind: ValueNull}
}

// List creates a list value.
func List(items ...*Value) *Value {
	return &Value{Kind: ValueList, Items: items}
}

// Map creates a map value from fields in order.
func Map(fields ...Field) *Value {
	return &Value{Kind: ValueMap, Fields: fields}
}

// Ref creates a default-theme reference.
func Ref(path ...string) *Value {
	return &Value{Kind: ValueRef, Ref: path}
}

// Opaque creates an expression value kept as source text.
func Opaque(source string) *Value {
	return &Value{Kind: ValueOpaque, Text: source}
}

// Strings creates a list of string values.
func Strings(items ...string) *Value {
	v := &Value{Kind: ValueList, Items: make([]*Value, len(items))}
	for i, s := range items {
		v.Items[i] = String(s)
	}
	return v
}

// F is shorthand for a keyed field.
func F(key string, value *Value) Field {
	return Field{Key: key, Value: value}
}

// Get returns the last field with the given key, matching how a later
// object key overrides an earlier one.
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.Kind != ValueMap {
		return nil, false
	}
	for i := len(v.Fields) - 1; i >= 0; i-- {
		f := v.Fields[i]
		if !f.Spread && f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// IsNull reports whether v is absent or null.
func (v *Value) IsNull() bool {
	return v == nil || v.Kind == ValueNull
}

// Describe returns a short human-readable description of the value for error messages.
func (v *Value) Describe() string {
	if v == nil {
		return "undefined"
	}
	switch v.Kind {
	case ValueString:
		return fmt.Sprintf("string %q", v.Text)
	case ValueNumber:
		return "number " + v.Text
	case ValueRef:
		return "reference defaultTheme." + strings.Join(v.Ref, ".")
	case ValueOpaque:
		return "expression " + v.Text
	default:
		return v.Kind.String()
	}
}

// JoinPath appends a key to a dotted configuration path.
func JoinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

// IndexPath appends a list index to a configuration path.
func IndexPath(base string, i int) string {
	return fmt.Sprintf("%s[%d]", base, i)
}
