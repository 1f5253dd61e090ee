package fields

import (
	"context"

	goschema "github.com/reoring/goschema"
)

// ListField deserializes every element of a sequence with an inner field.
type ListField struct {
	goschema.FieldCore
	inner goschema.Field
}

// List returns a sequence field whose elements are handled by inner. Strings
// and mappings are rejected.
func List(inner goschema.Field, opts ...Option) *ListField {
	return &ListField{FieldCore: build(opts).core(), inner: inner}
}

// Inner returns the element field. Once the list is bound this is the list's
// private, bound copy.
func (f *ListField) Inner() goschema.Field { return f.inner }

// Bind binds the list and then a private copy of the inner field, with the
// list as its parent. Later calls are no-ops.
func (f *ListField) Bind(name string, parent goschema.Owner) {
	if f.Bound() {
		return
	}
	f.FieldCore.Bind(name, parent)
	f.inner = f.inner.Clone()
	f.inner.Bind(name, f)
}

func (f *ListField) Coerce(ctx context.Context, value any, data any) (any, error) {
	seq, ok := goschema.AsSequence(value)
	if !ok {
		return nil, typeError("list")
	}
	out := make([]any, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		v, err := goschema.Deserialize(ctx, f.inner, seq.At(i), "", data)
		if err != nil {
			e, ok := goschema.AsError(err)
			if !ok {
				return nil, err
			}
			return nil, e.WithPrefix(goschema.Path{{Index: i + 1}})
		}
		if goschema.IsMissing(v) {
			v = nil
		}
		out[i] = v
	}
	return out, nil
}

func (f *ListField) Clone() goschema.Field {
	return &ListField{FieldCore: f.CloneCore(), inner: f.inner.Clone()}
}
