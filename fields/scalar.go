package fields

import (
	"context"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/validate"
)

// RawField passes values through without coercion.
type RawField struct {
	goschema.FieldCore
}

// Raw returns a field that accepts any present value as-is.
func Raw(opts ...Option) *RawField {
	return &RawField{FieldCore: build(opts).core()}
}

func (f *RawField) Coerce(_ context.Context, value any, _ any) (any, error) { return value, nil }

func (f *RawField) Clone() goschema.Field {
	return &RawField{FieldCore: f.CloneCore()}
}

// StringField accepts text and UTF-8 byte slices.
type StringField struct {
	goschema.FieldCore
	Upper bool
}

// String returns a text field.
func String(opts ...Option) *StringField {
	o := build(opts)
	return &StringField{FieldCore: o.core(), Upper: o.upper}
}

// Email returns a String field whose chain starts with validate.Email.
func Email(opts ...Option) *StringField {
	o := build(opts)
	return &StringField{FieldCore: o.core(validate.Email()), Upper: o.upper}
}

// URL returns a String field whose chain starts with validate.URL for the
// given schemes (http, https, ftp and ftps when none are given).
func URL(schemes []string, opts ...Option) *StringField {
	o := build(opts)
	v := validate.URL()
	v.Schemes = schemes
	return &StringField{FieldCore: o.core(v), Upper: o.upper}
}

// Password returns a String field whose chain starts with validate.Password.
func Password(opts ...Option) *StringField {
	o := build(opts)
	return &StringField{FieldCore: o.core(validate.Password()), Upper: o.upper}
}

func (f *StringField) Coerce(_ context.Context, value any, _ any) (any, error) {
	s, err := text(value)
	if err != nil {
		return nil, err
	}
	if f.Upper {
		// a Caser is stateful; one per call
		s = cases.Upper(language.Und).String(s)
	}
	return s, nil
}

func (f *StringField) Clone() goschema.Field {
	return &StringField{FieldCore: f.CloneCore(), Upper: f.Upper}
}

func text(value any) (string, error) {
	switch t := value.(type) {
	case string:
		return t, nil
	case []byte:
		if !utf8.Valid(t) {
			return "", goschema.NewError(goschema.CodeInvalidType, map[string]any{"expected": "utf-8 text"})
		}
		return string(t), nil
	}
	return "", goschema.NewError(goschema.CodeInvalidType, map[string]any{"expected": "string"})
}

// UUIDField parses text into a uuid.UUID.
type UUIDField struct {
	goschema.FieldCore
}

// UUID returns a field producing uuid.UUID values. uuid.UUID inputs are
// accepted unchanged.
func UUID(opts ...Option) *UUIDField {
	return &UUIDField{FieldCore: build(opts).core()}
}

func (f *UUIDField) Coerce(_ context.Context, value any, _ any) (any, error) {
	if u, ok := value.(uuid.UUID); ok {
		return u, nil
	}
	s, err := text(value)
	if err != nil {
		return nil, err
	}
	u, err := uuid.Parse(s)
	if err != nil {
		ve := goschema.NewValidation("uuid", map[string]any{"input": s})
		ve.Cause = err
		return nil, ve
	}
	return u, nil
}

func (f *UUIDField) Clone() goschema.Field {
	return &UUIDField{FieldCore: f.CloneCore()}
}
