package goschema

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Decl declares one named field of a schema type.
type Decl struct {
	Name  string
	Field Field
}

// F is shorthand for Decl{Name: name, Field: f}.
func F(name string, f Field) Decl { return Decl{Name: name, Field: f} }

// SchemaType is an immutable schema definition: a name, its bases and the
// declared-field table computed once by CollectDeclaredFields.
type SchemaType struct {
	name     string
	pkg      string
	fullName string
	bases    []*SchemaType
	own      []Decl
	declared *fieldTable
	registry *Registry
}

type defineConfig struct {
	bases    []*SchemaType
	pkg      string
	registry *Registry
	noReg    bool
}

// DefineOption configures Define.
type DefineOption func(*defineConfig)

// Extends lists the bases of the new type, nearest first. Fields declared by
// several bases are merged in C3 order.
func Extends(bases ...*SchemaType) DefineOption {
	return func(c *defineConfig) { c.bases = append(c.bases, bases...) }
}

// InPackage sets the defining package. It defaults to the package that calls
// Define and, together with the name, forms the fully-qualified name.
func InPackage(pkg string) DefineOption {
	return func(c *defineConfig) { c.pkg = pkg }
}

// WithRegistry registers the new type in r instead of the default registry.
func WithRegistry(r *Registry) DefineOption {
	return func(c *defineConfig) { c.registry = r }
}

// Unregistered skips registration. Such types cannot be referenced by name.
func Unregistered() DefineOption {
	return func(c *defineConfig) { c.noReg = true }
}

// Define builds a schema type from its own declarations and bases, computes
// its declared-field table and registers it.
func Define(name string, decls []Decl, opts ...DefineOption) (*SchemaType, error) {
	return define(name, decls, callerPackage(2), opts)
}

// MustDefine is like Define but panics on error. Intended for package-level
// schema variables.
func MustDefine(name string, decls []Decl, opts ...DefineOption) *SchemaType {
	t, err := define(name, decls, callerPackage(2), opts)
	if err != nil {
		panic(err)
	}
	return t
}

func define(name string, decls []Decl, caller string, opts []DefineOption) (*SchemaType, error) {
	cfg := defineConfig{pkg: caller, registry: defaultRegistry}
	for _, o := range opts {
		o(&cfg)
	}
	if name == "" || strings.Contains(name, ".") {
		return nil, Errorf(CodeInvalidSchema, fmt.Sprintf("invalid schema name %q", name))
	}
	if cfg.pkg == "" {
		cfg.pkg = "main"
	}
	for _, d := range decls {
		if d.Name == "" || d.Field == nil {
			return nil, Errorf(CodeInvalidSchema, fmt.Sprintf("schema %s: field declarations need a name and a field", name))
		}
	}
	for _, b := range cfg.bases {
		if b == nil {
			return nil, Errorf(CodeInvalidSchema, fmt.Sprintf("schema %s: nil base", name))
		}
	}
	t := &SchemaType{
		name:     name,
		pkg:      cfg.pkg,
		fullName: cfg.pkg + "." + name,
		bases:    append([]*SchemaType(nil), cfg.bases...),
		own:      append([]Decl(nil), decls...),
	}
	declared, err := CollectDeclaredFields(t)
	if err != nil {
		return nil, err
	}
	t.declared = declared
	logger().Debug().Str("fqn", t.fullName).Int("fields", declared.Len()).Int("bases", len(t.bases)).Msg("schema type defined")
	if !cfg.noReg && cfg.registry != nil {
		t.registry = cfg.registry
		cfg.registry.Register(name, t)
	}
	return t, nil
}

// callerPackage returns the import path of the function skip frames up.
func callerPackage(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	name := fn.Name()
	slash := strings.LastIndex(name, "/")
	dot := strings.Index(name[slash+1:], ".")
	if dot < 0 {
		return name
	}
	return name[:slash+1+dot]
}

func (t *SchemaType) Name() string     { return t.name }
func (t *SchemaType) Package() string  { return t.pkg }
func (t *SchemaType) FullName() string { return t.fullName }
func (t *SchemaType) String() string   { return t.fullName }

// Registry returns the registry t was registered in, or nil for unregistered
// types.
func (t *SchemaType) Registry() *Registry { return t.registry }

// Bases returns the direct bases in declaration order.
func (t *SchemaType) Bases() []*SchemaType { return append([]*SchemaType(nil), t.bases...) }

// DeclaredFields returns the declared-field table in order. The fields are the
// shared templates and must not be bound or mutated.
func (t *SchemaType) DeclaredFields() []Decl {
	out := make([]Decl, 0, t.declared.Len())
	for p := t.declared.Oldest(); p != nil; p = p.Next() {
		out = append(out, Decl{Name: p.Key, Field: p.Value})
	}
	return out
}

// New builds a load-ready instance of t.
func (t *SchemaType) New(opts ...SchemaOption) *Schema { return New(t, opts...) }

// Observer receives one call per Load.
type Observer interface {
	ObserveLoad(schema string, many bool, elapsed time.Duration, err error)
}

// Schema is a load-ready binding of a SchemaType. It owns a bound clone of
// every declared field, so instances never share field state.
type Schema struct {
	typ      *SchemaType
	many     bool
	fields   *fieldTable
	observer Observer
}

// SchemaOption configures New.
type SchemaOption func(*Schema)

// Many makes the instance load a sequence of objects by default.
func Many(many bool) SchemaOption { return func(s *Schema) { s.many = many } }

// WithObserver reports every Load of the instance to o.
func WithObserver(o Observer) SchemaOption { return func(s *Schema) { s.observer = o } }

// New clones and binds every declared field of t.
func New(t *SchemaType, opts ...SchemaOption) *Schema {
	s := &Schema{typ: t}
	for _, o := range opts {
		o(s)
	}
	s.fields = orderedmap.New[string, Field](orderedmap.WithCapacity[string, Field](t.declared.Len()))
	for p := t.declared.Oldest(); p != nil; p = p.Next() {
		f := p.Value.Clone()
		f.Bind(p.Key, s)
		s.fields.Set(p.Key, f)
	}
	return s
}

// Clone returns a fresh instance of the same type and options.
func (s *Schema) Clone() *Schema {
	return New(s.typ, Many(s.many), WithObserver(s.observer))
}

func (s *Schema) OwnerRoot() *Schema { return s }
func (s *Schema) Type() *SchemaType  { return s.typ }
func (s *Schema) Many() bool         { return s.many }

// Field returns the bound field name, if declared.
func (s *Schema) Field(name string) (Field, bool) { return s.fields.Get(name) }

// Fields returns the bound fields in declaration order.
func (s *Schema) Fields() []Decl {
	out := make([]Decl, 0, s.fields.Len())
	for p := s.fields.Oldest(); p != nil; p = p.Next() {
		out = append(out, Decl{Name: p.Key, Field: p.Value})
	}
	return out
}

// ManyMode overrides the instance's many setting for one Load.
type ManyMode int

const (
	ManyDefault ManyMode = iota // Use the instance setting.
	ManyOn                      // Expect a sequence of objects.
	ManyOff                     // Expect a single object.
)

// LoadOpt bundles per-call options.
type LoadOpt struct {
	Many ManyMode
}

// Load validates and coerces data. A single object yields map[string]any; a
// sequence (many) yields []any of such maps. Fields run in declaration order
// and the first failing field aborts the walk.
func (s *Schema) Load(ctx context.Context, data any, opts ...LoadOpt) (any, error) {
	many := s.many
	if len(opts) > 0 {
		switch opts[len(opts)-1].Many {
		case ManyOn:
			many = true
		case ManyOff:
			many = false
		}
	}
	start := time.Now()
	out, err := s.deserialize(ctx, data, many)
	if s.observer != nil {
		s.observer.ObserveLoad(s.typ.fullName, many, time.Since(start), err)
	}
	if err != nil {
		loggerFrom(ctx).Debug().Str("schema", s.typ.fullName).Err(err).Msg("load failed")
		return nil, err
	}
	return out, nil
}

func (s *Schema) deserialize(ctx context.Context, data any, many bool) (any, error) {
	if many {
		seq, ok := AsSequence(data)
		if !ok {
			return nil, NewError(CodeInvalidType, map[string]any{"expected": "array"})
		}
		out := make([]any, seq.Len())
		for i := 0; i < seq.Len(); i++ {
			v, err := s.deserializeOne(ctx, seq.At(i))
			if err != nil {
				return nil, asFieldError(err).WithPrefix(Path{{Index: i + 1}})
			}
			out[i] = v
		}
		return out, nil
	}
	return s.deserializeOne(ctx, data)
}

func (s *Schema) deserializeOne(ctx context.Context, data any) (map[string]any, error) {
	src, ok := AsKeyed(data)
	if !ok {
		return nil, NewError(CodeInvalidType, map[string]any{"expected": "object"})
	}
	out := make(map[string]any, s.fields.Len())
	for p := s.fields.Oldest(); p != nil; p = p.Next() {
		raw, present := src.Lookup(p.Key)
		if !present {
			raw = Missing
		}
		v, err := Deserialize(ctx, p.Value, raw, p.Key, data)
		if err != nil {
			return nil, err
		}
		if IsMissing(v) {
			continue
		}
		if err := SetValue(out, p.Key, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}
