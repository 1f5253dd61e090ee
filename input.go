package goschema

import (
	"fmt"
	"reflect"
	"sort"
)

// KeyedReadable is the mapping-like input capability: key lookup, membership
// and iteration over keys.
type KeyedReadable interface {
	Lookup(key string) (any, bool)
	Keys() []string
}

// OrderedIterable is the sequence-like input capability. Textual values never
// satisfy it.
type OrderedIterable interface {
	Len() int
	At(i int) any
}

// Map adapts map[string]any to KeyedReadable.
type Map map[string]any

func (m Map) Lookup(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the keys in ascending order for deterministic iteration.
func (m Map) Keys() []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Seq adapts []any to OrderedIterable.
type Seq []any

func (s Seq) Len() int     { return len(s) }
func (s Seq) At(i int) any { return s[i] }

// AsKeyed reports whether v is mapping-like and returns the adapter.
// map[string]any, map[any]any and any map with string-kinded keys qualify, as
// do values that implement KeyedReadable themselves.
func AsKeyed(v any) (KeyedReadable, bool) {
	switch t := v.(type) {
	case KeyedReadable:
		return t, true
	case map[string]any:
		return Map(t), true
	case map[any]any:
		m := make(Map, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = val
		}
		return m, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	return reflectMap{rv: rv}, true
}

// AsSequence reports whether v is a non-textual, non-mapping sequence and
// returns the adapter.
func AsSequence(v any) (OrderedIterable, bool) {
	switch t := v.(type) {
	case OrderedIterable:
		return t, true
	case []any:
		return Seq(t), true
	case string, []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false // textual bytes
		}
		return reflectSeq{rv: rv}, true
	}
	return nil, false
}

type reflectMap struct{ rv reflect.Value }

func (m reflectMap) Lookup(key string) (any, bool) {
	val := m.rv.MapIndex(reflect.ValueOf(key).Convert(m.rv.Type().Key()))
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}

func (m reflectMap) Keys() []string {
	ks := make([]string, 0, m.rv.Len())
	for _, k := range m.rv.MapKeys() {
		ks = append(ks, k.String())
	}
	sort.Strings(ks)
	return ks
}

type reflectSeq struct{ rv reflect.Value }

func (s reflectSeq) Len() int     { return s.rv.Len() }
func (s reflectSeq) At(i int) any { return s.rv.Index(i).Interface() }
