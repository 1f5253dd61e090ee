package fields

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	goschema "github.com/reoring/goschema"
)

// IntegerField produces int64 values.
type IntegerField struct {
	goschema.FieldCore
}

// Integer accepts integers of any Go width, whole floats, json.Number and
// decimal strings. Values outside the int64 range fail with an overflow
// error.
func Integer(opts ...Option) *IntegerField {
	return &IntegerField{FieldCore: build(opts).core()}
}

func (f *IntegerField) Coerce(_ context.Context, value any, _ any) (any, error) {
	switch t := value.(type) {
	case json.Number:
		n, err := parseInt(string(t))
		if errors.Is(err, goschema.ErrType) {
			// 1.0 and 1e3 as decoded from JSON text
			if fl, ferr := strconv.ParseFloat(string(t), 64); ferr == nil || errors.Is(ferr, strconv.ErrRange) {
				return wholeInt(fl)
			}
		}
		return n, err
	case string:
		return parseInt(strings.TrimSpace(t))
	case bool:
		return nil, typeError("integer")
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, overflow("integer")
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return wholeInt(rv.Float())
	}
	return nil, typeError("integer")
}

func wholeInt(fl float64) (any, error) {
	if math.IsInf(fl, 0) {
		return nil, overflow("integer")
	}
	if math.IsNaN(fl) || fl != math.Trunc(fl) {
		return nil, typeError("integer")
	}
	if fl < math.MinInt64 || fl >= math.MaxInt64 {
		return nil, overflow("integer")
	}
	return int64(fl), nil
}

func (f *IntegerField) Clone() goschema.Field {
	return &IntegerField{FieldCore: f.CloneCore()}
}

func parseInt(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return nil, overflow("integer")
	}
	return nil, typeError("integer")
}

// FloatField produces float64 values.
type FloatField struct {
	goschema.FieldCore
}

// Float accepts any Go number, json.Number and numeric strings. Values that
// do not fit a float64 fail with an overflow error.
func Float(opts ...Option) *FloatField {
	return &FloatField{FieldCore: build(opts).core()}
}

func (f *FloatField) Coerce(_ context.Context, value any, _ any) (any, error) {
	switch t := value.(type) {
	case json.Number:
		return parseFloat(string(t))
	case string:
		return parseFloat(strings.TrimSpace(t))
	case bool:
		return nil, typeError("number")
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, typeError("number")
}

func (f *FloatField) Clone() goschema.Field {
	return &FloatField{FieldCore: f.CloneCore()}
}

func parseFloat(s string) (any, error) {
	n, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) && !math.IsInf(n, 0) {
		// underflow rounds to zero
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return nil, overflow("number")
	}
	return nil, typeError("number")
}

func typeError(expected string) *goschema.Error {
	return goschema.NewError(goschema.CodeInvalidType, map[string]any{"expected": expected})
}

func overflow(expected string) *goschema.Error {
	return goschema.NewError(goschema.CodeOverflow, map[string]any{"expected": expected})
}
