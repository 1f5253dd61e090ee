package goschema

import "context"

// Owner is what a field is bound to: a schema instance or an enclosing field.
type Owner interface {
	// OwnerRoot returns the topmost schema reachable through parents.
	OwnerRoot() *Schema
}

// Field is one named slot of a schema. Templates live on a SchemaType and are
// never bound; every Schema instance binds its own Clone of each template.
//
// Concrete kinds embed FieldCore and implement Coerce and Clone. Kinds that
// own inner fields also override Bind.
type Field interface {
	Owner
	Core() *FieldCore
	// Coerce converts a present, non-empty value. data is the enclosing input.
	Coerce(ctx context.Context, value any, data any) (any, error)
	Bind(name string, parent Owner)
	Clone() Field
}

// FieldCore holds the state shared by every field kind.
type FieldCore struct {
	Required   bool
	Validators []Validator

	def        any
	hasDefault bool

	name   string
	parent Owner
	root   *Schema
}

func (c *FieldCore) Core() *FieldCore { return c }

// SetDefault sets the value used when input is missing. A func() any is
// treated as a producer and invoked on every use.
func (c *FieldCore) SetDefault(v any) {
	c.def = v
	c.hasDefault = true
}

// HasDefault reports whether a default was configured.
func (c *FieldCore) HasDefault() bool { return c.hasDefault }

// DefaultValue returns the configured default (invoking producers), or Missing.
func (c *FieldCore) DefaultValue() any {
	if !c.hasDefault {
		return Missing
	}
	if fn, ok := c.def.(func() any); ok {
		return fn()
	}
	return c.def
}

// StaticDefault returns the default unless it is missing or a producer.
func (c *FieldCore) StaticDefault() (any, bool) {
	if !c.hasDefault {
		return nil, false
	}
	if _, ok := c.def.(func() any); ok {
		return nil, false
	}
	return c.def, true
}

// Bind attaches the field to its parent. Each of name, parent and root is
// assigned only once; later calls leave them untouched.
func (c *FieldCore) Bind(name string, parent Owner) {
	if c.parent == nil {
		c.parent = parent
	}
	if c.name == "" {
		c.name = name
	}
	if c.root == nil && c.parent != nil {
		c.root = c.parent.OwnerRoot()
	}
}

func (c *FieldCore) Name() string       { return c.name }
func (c *FieldCore) Parent() Owner      { return c.parent }
func (c *FieldCore) Root() *Schema      { return c.root }
func (c *FieldCore) OwnerRoot() *Schema { return c.root }

// Bound reports whether Bind has attached the field to a parent.
func (c *FieldCore) Bound() bool { return c.parent != nil }

// CloneCore returns an unbound, unshared copy of the core for use in
// Field.Clone.
func (c *FieldCore) CloneCore() FieldCore {
	cp := *c
	if c.Validators != nil {
		cp.Validators = append([]Validator(nil), c.Validators...)
	}
	cp.name, cp.parent, cp.root = "", nil, nil
	return cp
}

// Deserialize runs the field contract for one value:
//
//	missing/empty + required without default -> required failure
//	missing/empty otherwise                   -> the default (or Missing)
//	present                                   -> Coerce, then the validator chain
//
// Failures are rebased under name. An empty name leaves paths relative, which
// is how List reports element failures by position.
func Deserialize(ctx context.Context, f Field, value any, name string, data any) (any, error) {
	c := f.Core()
	label := name
	if label == "" {
		label = c.name
	}
	var prefix Path
	if name != "" {
		prefix = Path{{Key: name}}
	}
	if isEmpty(value) {
		if c.Required && !c.hasDefault {
			return nil, NewError(CodeRequired, map[string]any{"field": label}).WithPrefix(prefix)
		}
		return c.DefaultValue(), nil
	}
	out, err := f.Coerce(ctx, value, data)
	if err != nil {
		return nil, asFieldError(err).WithPrefix(prefix)
	}
	if len(c.Validators) > 0 {
		out, err = And(c.Validators...).Validate(out, label)
		if err != nil {
			return nil, asFieldError(err).WithPrefix(prefix)
		}
	}
	return out, nil
}
