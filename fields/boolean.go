package fields

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	goschema "github.com/reoring/goschema"
)

var (
	truthy = map[string]struct{}{"T": {}, "TRUE": {}, "Y": {}, "YES": {}, "1": {}}
	falsy  = map[string]struct{}{"F": {}, "FALSE": {}, "N": {}, "NO": {}, "0": {}}
)

// BooleanField produces bool values.
type BooleanField struct {
	goschema.FieldCore
}

// Boolean accepts bools, the numbers 1 and 0, and the case-insensitive words
// T, TRUE, Y, YES, 1 and F, FALSE, N, NO, 0.
func Boolean(opts ...Option) *BooleanField {
	return &BooleanField{FieldCore: build(opts).core()}
}

func (f *BooleanField) Coerce(_ context.Context, value any, _ any) (any, error) {
	switch t := value.(type) {
	case bool:
		return t, nil
	case string:
		return word(t)
	case json.Number:
		if fl, err := t.Float64(); err == nil {
			return number(fl)
		}
		return nil, typeError("boolean")
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return number(rv.Float())
	}
	return nil, typeError("boolean")
}

func (f *BooleanField) Clone() goschema.Field {
	return &BooleanField{FieldCore: f.CloneCore()}
}

func word(s string) (any, error) {
	up := strings.ToUpper(s)
	if _, ok := truthy[up]; ok {
		return true, nil
	}
	if _, ok := falsy[up]; ok {
		return false, nil
	}
	return nil, typeError("boolean")
}

func number(n float64) (any, error) {
	switch n {
	case 1:
		return true, nil
	case 0:
		return false, nil
	}
	return nil, typeError("boolean")
}
