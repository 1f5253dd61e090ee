package fields

import (
	"context"
	"fmt"
	"sync"

	goschema "github.com/reoring/goschema"
)

type resolveState uint8

const (
	unresolved resolveState = iota
	resolved
)

// NestedField validates its value with another schema. The target may be a
// *goschema.Schema, a *goschema.SchemaType, a func() *goschema.Schema or the
// (simple or fully-qualified) name of a registered type.
//
// The target is resolved on first use and cached for the life of the field.
// Names are therefore looked up lazily, which is what makes forward and
// circular references work. Failed resolutions are not cached.
type NestedField struct {
	goschema.FieldCore
	ref      any
	many     bool
	registry *goschema.Registry

	mu     sync.Mutex
	state  resolveState
	schema *goschema.Schema
}

// Nested returns a field referring to ref.
func Nested(ref any, opts ...Option) *NestedField {
	o := build(opts)
	return &NestedField{FieldCore: o.core(), ref: ref, many: o.many, registry: o.registry}
}

// Ref returns the unresolved reference.
func (f *NestedField) Ref() any { return f.ref }

// Many reports whether the field was declared with the Many option. The
// target schema's own setting also makes a load expect a sequence.
func (f *NestedField) Many() bool { return f.many }

// Schema resolves (once) and returns the nested schema instance.
func (f *NestedField) Schema() (*goschema.Schema, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == resolved {
		return f.schema, nil
	}
	s, err := f.resolve()
	if err != nil {
		return nil, err
	}
	f.schema, f.state = s, resolved
	return s, nil
}

func (f *NestedField) resolve() (*goschema.Schema, error) {
	switch ref := f.ref.(type) {
	case *goschema.Schema:
		return ref.Clone(), nil
	case *goschema.SchemaType:
		return goschema.New(ref, goschema.Many(f.many)), nil
	case func() *goschema.Schema:
		s := ref()
		if s == nil {
			return nil, goschema.Errorf(goschema.CodeInvalidSchema, fmt.Sprintf("field %s: schema factory returned nil", f.Name()))
		}
		return s.Clone(), nil
	case string:
		t, err := f.lookupRegistry().Resolve(ref)
		if err != nil {
			return nil, err
		}
		f.logResolved(ref, t)
		return goschema.New(t, goschema.Many(f.many)), nil
	}
	return nil, goschema.Errorf(goschema.CodeInvalidSchema, fmt.Sprintf("field %s: unsupported nested reference %T", f.Name(), f.ref))
}

// lookupRegistry prefers the Registry option, then the registry of the
// schema type the field is bound into, then the default registry.
func (f *NestedField) lookupRegistry() *goschema.Registry {
	if f.registry != nil {
		return f.registry
	}
	if root := f.Root(); root != nil {
		if r := root.Type().Registry(); r != nil {
			return r
		}
	}
	return goschema.DefaultRegistry()
}

func (f *NestedField) Coerce(ctx context.Context, value any, _ any) (any, error) {
	s, err := f.Schema()
	if err != nil {
		return nil, err
	}
	many := s.Many() || f.many
	mode := goschema.ManyOff
	if many {
		if _, ok := goschema.AsSequence(value); !ok {
			return nil, typeError("array")
		}
		mode = goschema.ManyOn
	}
	return s.Load(ctx, value, goschema.LoadOpt{Many: mode})
}

func (f *NestedField) Clone() goschema.Field {
	return &NestedField{FieldCore: f.CloneCore(), ref: f.ref, many: f.many, registry: f.registry}
}

func (f *NestedField) logResolved(name string, t *goschema.SchemaType) {
	goschema.Logger().Debug().Str("field", f.Name()).Str("ref", name).Str("fqn", t.FullName()).Msg("nested schema resolved")
}
