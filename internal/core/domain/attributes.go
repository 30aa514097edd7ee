package domain

import (
	"encoding/json"
	"fmt"
)

const AttrFriendlyName = "friendly_name"

// Attributes is the hub's attribute bag for one entity. Values are plain
// JSON values (string, float64, bool, nil, []any, map[string]any).
type Attributes map[string]any

func (a Attributes) FriendlyName() string {
	return a.String(AttrFriendlyName)
}

func (a Attributes) String(key string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return ""
}

func (a Attributes) OptionalString(key string) *string {
	if v, ok := a[key].(string); ok {
		return &v
	}
	return nil
}

func (a Attributes) Float(key string) float64 {
	if v := a.OptionalFloat(key); v != nil {
		return *v
	}
	return 0
}

func (a Attributes) OptionalFloat(key string) *float64 {
	switch v := a[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
	}
	return nil
}

func (a Attributes) Bool(key string) bool {
	if v := a.OptionalBool(key); v != nil {
		return *v
	}
	return false
}

func (a Attributes) OptionalBool(key string) *bool {
	if v, ok := a[key].(bool); ok {
		return &v
	}
	return nil
}

// Clone returns a shallow copy, nil stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// DecodeAttributes maps a raw attribute bag onto a typed attribute shape
// using its json tags.
func DecodeAttributes[A any](bag Attributes) (A, error) {
	var out A
	if bag == nil {
		return out, nil
	}
	if direct, ok := any(bag).(A); ok {
		return direct, nil
	}
	raw, err := json.Marshal(bag)
	if err != nil {
		return out, fmt.Errorf("encode attributes: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode attributes: %w", err)
	}
	return out, nil
}

// EncodeAttributes is the inverse of DecodeAttributes.
func EncodeAttributes(v any) (Attributes, error) {
	if bag, ok := v.(Attributes); ok {
		return bag.Clone(), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	var bag Attributes
	if err := json.Unmarshal(raw, &bag); err != nil {
		return nil, fmt.Errorf("encode attributes: %w", err)
	}
	return bag, nil
}
