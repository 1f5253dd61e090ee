// Package goschema declares schema types as ordered field tables, validates
// and deserializes untyped data (decoded JSON or YAML) through them, and
// reports the first failure with a dotted path.
//
// Schema types may extend several bases; inherited fields are merged in C3
// order and a subclass override keeps the position of the field it replaces.
// Every defined type is registered under its simple and fully-qualified name,
// so nested fields may refer to a schema by name before it exists.
//
// Typical usage:
//
//	var User = goschema.MustDefine("User", []goschema.Decl{
//	    goschema.F("id", fields.Integer(fields.Required())),
//	    goschema.F("email", fields.Email()),
//	    goschema.F("manager", fields.Nested("User")),
//	})
//
//	out, err := User.New().Load(ctx, data)
//	if errors.Is(err, goschema.ErrRequired) { ... }
//
// Field kinds live in package fields, reusable validators in package
// validate, input decoding in package source and declarative definition files
// in package schemafile.
package goschema

// Version is the release of this module.
const Version = "0.3.0"
