package goschema_test

import (
	"context"
	"errors"
	"fmt"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/fields"
	"github.com/reoring/goschema/validate"
)

func Example() {
	reg := goschema.NewRegistry()
	user := goschema.MustDefine("User", []goschema.Decl{
		goschema.F("age", fields.Integer(fields.Validate(validate.Range{Min: 0}))),
		goschema.F("address", fields.Nested("Address")),
	}, goschema.WithRegistry(reg), goschema.InPackage("example"))
	// Defined after User: nested names resolve on first load.
	goschema.MustDefine("Address", []goschema.Decl{
		goschema.F("city", fields.String(fields.Required())),
	}, goschema.WithRegistry(reg), goschema.InPackage("example"))

	s := user.New()
	out, err := s.Load(context.Background(), map[string]any{
		"age":     "42",
		"address": map[string]any{"city": "Kyoto"},
	})
	fmt.Println(out, err)

	_, err = s.Load(context.Background(), map[string]any{"address": map[string]any{}})
	fmt.Println(err, errors.Is(err, goschema.ErrRequired))
	// Output:
	// map[address:map[city:Kyoto] age:42] <nil>
	// address.city: required property missing true
}

func ExampleRegistry_Resolve() {
	reg := goschema.NewRegistry()
	goschema.MustDefine("Item", nil, goschema.WithRegistry(reg), goschema.InPackage("shop"))
	goschema.MustDefine("Item", nil, goschema.WithRegistry(reg), goschema.InPackage("stock"))

	_, err := reg.Resolve("Item")
	fmt.Println(errors.Is(err, goschema.ErrAmbiguousName))

	t, _ := reg.Resolve("stock.Item")
	fmt.Println(t.FullName())
	// Output:
	// true
	// stock.Item
}

func ExampleDefine_extends() {
	reg := goschema.NewRegistry()
	stamped := goschema.MustDefine("Stamped", []goschema.Decl{
		goschema.F("created", fields.Date()),
		goschema.F("note", fields.String()),
	}, goschema.WithRegistry(reg), goschema.InPackage("example"))
	post := goschema.MustDefine("Post", []goschema.Decl{
		goschema.F("title", fields.String(fields.Required())),
		goschema.F("note", fields.String(fields.UpperCase())),
	}, goschema.WithRegistry(reg), goschema.InPackage("example"), goschema.Extends(stamped))

	for _, d := range post.New().Fields() {
		fmt.Println(d.Name)
	}
	// Output:
	// created
	// note
	// title
}
