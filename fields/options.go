// Package fields provides the field kinds used in schema declarations.
//
//	user := goschema.MustDefine("User", []goschema.Decl{
//		goschema.F("name", fields.String(fields.Required())),
//		goschema.F("age", fields.Integer(fields.Validate(validate.Range{Min: 0}))),
//		goschema.F("tags", fields.List(fields.String())),
//		goschema.F("manager", fields.Nested("User")),
//	})
//
// Every constructor returns an unbound template. Schema instances clone and
// bind templates, so a template may be shared by any number of types.
package fields

import goschema "github.com/reoring/goschema"

// Option configures a field at construction.
type Option func(*options)

type options struct {
	required   bool
	def        any
	hasDefault bool
	validators []goschema.Validator
	upper      bool
	many       bool
	format     string
	registry   *goschema.Registry
}

// Required makes a missing, nil or empty value fail unless a default is set.
func Required() Option { return func(o *options) { o.required = true } }

// Default sets the value used for missing input. A func() any is called on
// every use.
func Default(v any) Option {
	return func(o *options) {
		o.def = v
		o.hasDefault = true
	}
}

// Validate appends validators to the field's chain.
func Validate(vs ...goschema.Validator) Option {
	return func(o *options) { o.validators = append(o.validators, vs...) }
}

// UpperCase folds String values to upper case.
func UpperCase() Option { return func(o *options) { o.upper = true } }

// Many makes a Nested field expect a sequence of objects.
func Many() Option { return func(o *options) { o.many = true } }

// Format sets a time layout (see time.Parse) for DateTime and Date instead of
// the ISO 8601 profile.
func Format(layout string) Option { return func(o *options) { o.format = layout } }

// Registry sets where a Nested field resolves schema names.
func Registry(r *goschema.Registry) Option { return func(o *options) { o.registry = r } }

func build(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) core(leading ...goschema.Validator) goschema.FieldCore {
	c := goschema.FieldCore{Required: o.required}
	if len(leading)+len(o.validators) > 0 {
		c.Validators = append(append([]goschema.Validator(nil), leading...), o.validators...)
	}
	if o.hasDefault {
		c.SetDefault(o.def)
	}
	return c
}
