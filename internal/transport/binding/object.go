// Package binding turns loosely typed input objects from REST bodies and
// GraphQL arguments into typed service inputs.
package binding

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

// Object reads typed fields out of a raw input map and collects a field
// error for every value of the wrong shape. Keys that no getter asked for
// are reported as unknown by Err.
type Object struct {
	raw  map[string]any
	seen map[string]bool
	errs []domain.FieldError
}

// NewObject wraps raw. A nil map behaves like an empty object.
func NewObject(raw map[string]any) *Object {
	return &Object{raw: raw, seen: make(map[string]bool, len(raw))}
}

func (o *Object) lookup(key string) (any, bool) {
	o.seen[key] = true
	v, ok := o.raw[key]
	return v, ok
}

func (o *Object) fail(key, msg string) {
	o.errs = append(o.errs, domain.FieldError{Field: key, Message: msg})
}

// String returns the string at key, or "" when absent or null.
func (o *Object) String(key string) string {
	if p := o.OptString(key); p != nil {
		return *p
	}
	return ""
}

// OptString returns nil when key is absent. An explicit null reads as the
// empty string, so it clears optional text fields.
func (o *Object) OptString(key string) *string {
	v, ok := o.lookup(key)
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case nil:
		empty := ""
		return &empty
	case string:
		return &s
	}
	o.fail(key, "must be a string")
	return nil
}

// Int returns the integer at key, or 0 when absent or null.
func (o *Object) Int(key string) int {
	if p := o.OptInt(key); p != nil {
		return *p
	}
	return 0
}

// OptInt returns nil when key is absent or null.
func (o *Object) OptInt(key string) *int {
	v, ok := o.lookup(key)
	if !ok || v == nil {
		return nil
	}
	n, ok := toInt(v)
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		o.fail(key, "must be an integer")
		return nil
	}
	i := int(n)
	return &i
}

// Time returns nil when key is absent or null. Strings must be RFC 3339;
// YAML fixtures hand over already decoded time.Time values.
func (o *Object) Time(key string) *time.Time {
	v, ok := o.lookup(key)
	if !ok || v == nil {
		return nil
	}
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case string:
		parsed, err := time.Parse(time.RFC3339, tv)
		if err != nil {
			o.fail(key, "must be an RFC 3339 timestamp")
			return nil
		}
		t = parsed
	default:
		o.fail(key, "must be an RFC 3339 timestamp")
		return nil
	}
	t = t.UTC()
	return &t
}

// Strings returns the string list at key. present is false when key is
// absent; an explicit null reads as an empty list.
func (o *Object) Strings(key string) (list []string, present bool) {
	v, ok := o.lookup(key)
	if !ok {
		return nil, false
	}
	if v == nil {
		return []string{}, true
	}
	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]string); ok {
			return typed, true
		}
		o.fail(key, "must be a list of strings")
		return nil, true
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			o.fail(key, "must be a list of strings")
			return nil, true
		}
		out = append(out, s)
	}
	return out, true
}

// Err returns a *domain.ValidationError listing every shape error and every
// unknown key, or nil.
func (o *Object) Err() error {
	errs := o.errs
	var unknown []string
	for k := range o.raw {
		if !o.seen[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		errs = append(errs, domain.FieldError{Field: k, Message: "unknown field"})
	}
	if len(errs) == 0 {
		return nil
	}
	return domain.NewValidationErrors(errs)
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return toInt(f)
	}
	return 0, false
}
