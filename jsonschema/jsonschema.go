// Package jsonschema exports schema types as JSON Schema (draft 2020-12)
// documents. Nested schema types become entries of $defs keyed by their
// fully-qualified name, so recursive types export as recursive references.
package jsonschema

import (
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/fields"
	"github.com/reoring/goschema/validate"
)

// Draft is the dialect written to $schema.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Schema is the subset of JSON Schema the exporter produces. Properties keep
// the field declaration order.
type Schema struct {
	Schema string `json:"$schema,omitempty"`
	Ref    string `json:"$ref,omitempty"`
	Title  string `json:"title,omitempty"`

	// Core
	Type    string  `json:"type,omitempty"`
	Format  string  `json:"format,omitempty"`
	Default any     `json:"default,omitempty"`
	Enum    []any   `json:"enum,omitempty"`
	Not     *Schema `json:"not,omitempty"`

	// Number
	Minimum          any `json:"minimum,omitempty"`
	Maximum          any `json:"maximum,omitempty"`
	ExclusiveMinimum any `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum any `json:"exclusiveMaximum,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Object
	Properties *orderedmap.OrderedMap[string, *Schema] `json:"properties,omitempty"`
	Required   []string                                `json:"required,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// ForType exports t. Nested references are resolved, so an unresolvable
// reference is reported here rather than on the first load.
func ForType(t *goschema.SchemaType) (*Schema, error) { return For(t.New()) }

// For exports the schema instance s. A many instance exports as an array of
// its objects.
func For(s *goschema.Schema) (*Schema, error) {
	g := &generator{defs: map[string]*Schema{}}
	obj, err := g.object(s)
	if err != nil {
		return nil, err
	}
	out := obj
	if s.Many() {
		out = &Schema{Type: "array", Items: obj}
	}
	out.Schema = Draft
	out.Title = s.Type().FullName()
	if len(g.defs) > 0 {
		out.Defs = g.defs
	}
	return out, nil
}

type generator struct {
	defs map[string]*Schema
}

func (g *generator) object(s *goschema.Schema) (*Schema, error) {
	out := &Schema{Type: "object", Properties: orderedmap.New[string, *Schema]()}
	for _, d := range s.Fields() {
		p, err := g.field(d.Field)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Name, err)
		}
		out.Properties.Set(d.Name, p)
		if d.Field.Core().Required {
			out.Required = append(out.Required, d.Name)
		}
	}
	return out, nil
}

// ref returns a reference to the definition of s, building it on first use.
// The entry is reserved before its fields are walked so self references stop.
func (g *generator) ref(s *goschema.Schema) (*Schema, error) {
	key := s.Type().FullName()
	if _, ok := g.defs[key]; !ok {
		slot := &Schema{}
		g.defs[key] = slot
		obj, err := g.object(s)
		if err != nil {
			delete(g.defs, key)
			return nil, err
		}
		*slot = *obj
	}
	return &Schema{Ref: "#/$defs/" + key}, nil
}

func (g *generator) field(f goschema.Field) (*Schema, error) {
	var out *Schema
	switch f := f.(type) {
	case *fields.StringField:
		out = &Schema{Type: "string"}
	case *fields.UUIDField:
		out = &Schema{Type: "string", Format: "uuid"}
	case *fields.IntegerField:
		out = &Schema{Type: "integer"}
	case *fields.FloatField:
		out = &Schema{Type: "number"}
	case *fields.BooleanField:
		out = &Schema{Type: "boolean"}
	case *fields.DateTimeField:
		out = &Schema{Type: "string"}
		switch {
		case f.Layout != "":
		case f.DateOnly():
			out.Format = "date"
		default:
			out.Format = "date-time"
		}
	case *fields.ListField:
		items, err := g.field(f.Inner())
		if err != nil {
			return nil, err
		}
		out = &Schema{Type: "array", Items: items}
	case *fields.NestedField:
		s, err := f.Schema()
		if err != nil {
			return nil, err
		}
		ref, err := g.ref(s)
		if err != nil {
			return nil, err
		}
		if s.Many() || f.Many() {
			out = &Schema{Type: "array", Items: ref}
		} else {
			out = ref
		}
	default:
		out = &Schema{}
	}
	core := f.Core()
	if v, ok := core.StaticDefault(); ok {
		out.Default = v
	}
	for _, v := range core.Validators {
		constrain(out, v)
	}
	return out, nil
}

// constrain maps the validators that have a JSON Schema equivalent. The rest
// (expressions, enums that rewrite their input, custom functions) are only
// enforced on load.
func constrain(s *Schema, v goschema.Validator) {
	switch v := v.(type) {
	case goschema.Chain:
		for _, inner := range v {
			constrain(s, inner)
		}
	case validate.EmailValidator:
		s.Format = "email"
	case validate.URLValidator:
		if v.Relative {
			s.Format = "uri-reference"
		} else {
			s.Format = "uri"
		}
	case validate.PasswordValidator:
		if v.MinLength > 0 {
			s.MinLength = intPtr(v.MinLength)
		}
	case validate.Range:
		if v.Min != nil {
			if v.ExclusiveMin {
				s.ExclusiveMinimum = v.Min
			} else {
				s.Minimum = v.Min
			}
		}
		if v.Max != nil {
			if v.ExclusiveMax {
				s.ExclusiveMaximum = v.Max
			} else {
				s.Maximum = v.Max
			}
		}
	case validate.Length:
		lo, hi := v.Min, v.Max
		if v.Equal > 0 {
			lo, hi = v.Equal, v.Equal
		}
		if s.Type == "array" {
			if lo > 0 {
				s.MinItems = intPtr(lo)
			}
			if hi > 0 {
				s.MaxItems = intPtr(hi)
			}
			return
		}
		if lo > 0 {
			s.MinLength = intPtr(lo)
		}
		if hi > 0 {
			s.MaxLength = intPtr(hi)
		}
	case validate.OneOfValidator:
		s.Enum = v.Choices()
	case validate.NoneOfValidator:
		s.Not = &Schema{Enum: v.Values()}
	case validate.RegexpValidator:
		s.Pattern = "^(?:" + v.Pattern() + ")"
	}
}

func intPtr(n int) *int { return &n }
