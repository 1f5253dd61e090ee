package goschema

import (
	"fmt"
	"reflect"
	"strings"
)

// GetValue reads key from obj, returning def when it is absent. A dotted key
// ("address.city") walks nested values one segment at a time. Mapping-like
// values are consulted first; otherwise an exported struct field of the same
// name (case-insensitive) is used.
func GetValue(obj any, key string, def any) any {
	if strings.Contains(key, ".") {
		cur := obj
		for _, part := range strings.Split(key, ".") {
			cur = getValueForKey(cur, part, def)
		}
		return cur
	}
	return getValueForKey(obj, key, def)
}

func getValueForKey(obj any, key string, def any) any {
	if m, ok := AsKeyed(obj); ok {
		if v, ok := m.Lookup(key); ok {
			return v
		}
		return def
	}
	return attr(obj, key, def)
}

func attr(obj any, key string, def any) any {
	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return def
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return def
	}
	f := rv.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, key) })
	if !f.IsValid() || !f.CanInterface() {
		return def
	}
	return f.Interface()
}

// SetValue stores value in dst under key. A dotted key writes into nested maps,
// creating intermediate levels as needed. It fails when an intermediate level
// already holds a non-map value.
func SetValue(dst map[string]any, key string, value any) error {
	head, rest, nested := strings.Cut(key, ".")
	if !nested {
		dst[key] = value
		return nil
	}
	cur, ok := dst[head]
	if !ok {
		cur = map[string]any{}
		dst[head] = cur
	}
	target, ok := cur.(map[string]any)
	if !ok {
		return Errorf(CodeInvalidSchema, fmt.Sprintf("cannot set %s in %s due to existing value: %v", key, head, cur))
	}
	return SetValue(target, rest, value)
}

func toText(v any) string { return fmt.Sprint(v) }
