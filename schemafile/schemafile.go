// Package schemafile defines schema types from declarative documents.
//
//	package: app/users
//	schemas:
//	  - name: User
//	    extends: [Stamped]
//	    fields:
//	      - {name: id, type: integer, required: true}
//	      - name: email
//	        type: email
//	      - name: tags
//	        type: list
//	        items: {type: string, validate: [{length: {max: 16}}]}
//	      - {name: manager, type: nested, ref: User}
//
// Nested references are plain names resolved on first use, so a document may
// refer to schemas it defines later, to itself, or to schemas defined in Go.
package schemafile

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/fields"
	"github.com/reoring/goschema/source"
)

// DefaultPackage is used when a document does not name its package.
const DefaultPackage = "defs"

// Document is a parsed definition file.
type Document struct {
	Package string      `mapstructure:"package"`
	Schemas []SchemaDef `mapstructure:"schemas"`
}

// SchemaDef declares one schema type.
type SchemaDef struct {
	Name    string     `mapstructure:"name"`
	Extends []string   `mapstructure:"extends"`
	Fields  []FieldDef `mapstructure:"fields"`
}

// FieldDef declares one field. Items is the element field of a list; Ref
// names the target of a nested field.
type FieldDef struct {
	Name      string           `mapstructure:"name"`
	Type      string           `mapstructure:"type"`
	Required  bool             `mapstructure:"required"`
	Default   any              `mapstructure:"default"`
	UpperCase bool             `mapstructure:"upper_case"`
	Format    string           `mapstructure:"format"`
	Ref       string           `mapstructure:"ref"`
	Many      bool             `mapstructure:"many"`
	Schemes   []string         `mapstructure:"schemes"`
	Items     *FieldDef        `mapstructure:"items"`
	Validate  []map[string]any `mapstructure:"validate"`
}

// Parse decodes a document. Unknown keys are rejected.
func Parse(b []byte, format source.Format) (*Document, error) {
	raw, err := source.Decode(b, format)
	if err != nil {
		return nil, invalid(err, "parse")
	}
	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, invalid(err, "decode")
	}
	if doc.Package == "" {
		doc.Package = DefaultPackage
	}
	return &doc, nil
}

// LoadFile parses the file at path (format from its extension) and defines
// its schemas in reg.
func LoadFile(path string, reg *goschema.Registry) ([]*goschema.SchemaType, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	doc, err := Parse(b, source.FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	types, err := doc.Define(reg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return types, nil
}

// Define builds and registers every schema of d in reg, returning them in
// document order. A base may be defined later in the same document or already
// be registered in reg.
func (d *Document) Define(reg *goschema.Registry) ([]*goschema.SchemaType, error) {
	local := make(map[string]*goschema.SchemaType, len(d.Schemas))
	pending := make([]int, 0, len(d.Schemas))
	seen := map[string]bool{}
	for i, s := range d.Schemas {
		if seen[s.Name] {
			return nil, goschema.Errorf(goschema.CodeInvalidSchema, fmt.Sprintf("schemafile: schema %s defined twice", s.Name))
		}
		seen[s.Name] = true
		pending = append(pending, i)
	}
	for len(pending) > 0 {
		var next []int
		for _, i := range pending {
			def := d.Schemas[i]
			bases, ready, err := d.bases(def, local, reg)
			if err != nil {
				return nil, err
			}
			if !ready {
				next = append(next, i)
				continue
			}
			t, err := d.define(def, bases, reg)
			if err != nil {
				return nil, err
			}
			local[def.Name] = t
		}
		if len(next) == len(pending) {
			names := make([]string, len(next))
			for k, i := range next {
				names[k] = d.Schemas[i].Name
			}
			return nil, goschema.Errorf(goschema.CodeInvalidSchema,
				fmt.Sprintf("schemafile: cannot resolve bases of %s", strings.Join(names, ", ")))
		}
		pending = next
	}
	out := make([]*goschema.SchemaType, len(d.Schemas))
	for i, s := range d.Schemas {
		out[i] = local[s.Name]
	}
	return out, nil
}

// bases reports ready=false while a base is a not yet defined schema of the
// same document.
func (d *Document) bases(def SchemaDef, local map[string]*goschema.SchemaType, reg *goschema.Registry) ([]*goschema.SchemaType, bool, error) {
	out := make([]*goschema.SchemaType, 0, len(def.Extends))
	for _, name := range def.Extends {
		if t, ok := local[name]; ok {
			out = append(out, t)
			continue
		}
		if d.declares(name) {
			return nil, false, nil
		}
		t, err := reg.Resolve(name)
		if err != nil {
			return nil, false, fmt.Errorf("schemafile: %s extends %s: %w", def.Name, name, err)
		}
		out = append(out, t)
	}
	return out, true, nil
}

func (d *Document) declares(name string) bool {
	for _, s := range d.Schemas {
		if s.Name == name {
			return true
		}
	}
	return false
}

func (d *Document) define(def SchemaDef, bases []*goschema.SchemaType, reg *goschema.Registry) (*goschema.SchemaType, error) {
	decls := make([]goschema.Decl, 0, len(def.Fields))
	for _, fd := range def.Fields {
		f, err := buildField(fd, reg)
		if err != nil {
			return nil, fmt.Errorf("schemafile: %s.%s: %w", def.Name, fd.Name, err)
		}
		decls = append(decls, goschema.F(fd.Name, f))
	}
	return goschema.Define(def.Name, decls,
		goschema.InPackage(d.Package),
		goschema.WithRegistry(reg),
		goschema.Extends(bases...),
	)
}

func buildField(fd FieldDef, reg *goschema.Registry) (goschema.Field, error) {
	var opts []fields.Option
	if fd.Required {
		opts = append(opts, fields.Required())
	}
	if fd.Default != nil {
		opts = append(opts, fields.Default(fd.Default))
	}
	if fd.UpperCase {
		opts = append(opts, fields.UpperCase())
	}
	if fd.Format != "" {
		opts = append(opts, fields.Format(fd.Format))
	}
	if fd.Many {
		opts = append(opts, fields.Many())
	}
	if len(fd.Validate) > 0 {
		vs, err := buildValidators(fd.Validate)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fields.Validate(vs...))
	}

	switch strings.ToLower(fd.Type) {
	case "", "raw":
		return fields.Raw(opts...), nil
	case "string":
		return fields.String(opts...), nil
	case "uuid":
		return fields.UUID(opts...), nil
	case "email":
		return fields.Email(opts...), nil
	case "url":
		return fields.URL(fd.Schemes, opts...), nil
	case "password":
		return fields.Password(opts...), nil
	case "integer", "int":
		return fields.Integer(opts...), nil
	case "float", "number":
		return fields.Float(opts...), nil
	case "boolean", "bool":
		return fields.Boolean(opts...), nil
	case "datetime":
		return fields.DateTime(opts...), nil
	case "date":
		return fields.Date(opts...), nil
	case "list":
		if fd.Items == nil {
			return nil, goschema.Errorf(goschema.CodeInvalidSchema, "list field needs items")
		}
		inner, err := buildField(*fd.Items, reg)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		return fields.List(inner, opts...), nil
	case "nested":
		if fd.Ref == "" {
			return nil, goschema.Errorf(goschema.CodeInvalidSchema, "nested field needs ref")
		}
		return fields.Nested(fd.Ref, append(opts, fields.Registry(reg))...), nil
	}
	return nil, goschema.Errorf(goschema.CodeInvalidSchema, fmt.Sprintf("unknown field type %q", fd.Type))
}

func invalid(err error, stage string) error {
	return &goschema.Error{
		Kind:   goschema.CodeInvalidSchema,
		Detail: fmt.Sprintf("schemafile: %s: %v", stage, err),
		Cause:  err,
	}
}
