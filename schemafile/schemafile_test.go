package schemafile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/schemafile"
	"github.com/reoring/goschema/source"
)

const shopYAML = `
package: shop
schemas:
  - name: Order
    extends: [Stamped]
    fields:
      - {name: id, type: integer, required: true, validate: [{range: {min: 1}}]}
      - name: status
        type: string
        upper_case: true
        default: NEW
        validate:
          - one_of: [NEW, PAID]
      - name: items
        type: list
        required: true
        items: {type: nested, ref: Item}
      - {name: customer, type: nested, ref: Customer}
  - name: Item
    fields:
      - {name: sku, type: string, required: true, validate: [{regexp: "sku-[0-9]+"}]}
      - {name: qty, type: integer, validate: [{expr: "value > 0"}]}
  - name: Stamped
    fields:
      - {name: created, type: date, format: "2006/01/02"}
  - name: Customer
    fields:
      - {name: email, type: email, required: true}
      - {name: referrer, type: nested, ref: Customer}
`

func defineShop(t *testing.T) *goschema.Registry {
	t.Helper()
	doc, err := schemafile.Parse([]byte(shopYAML), source.FormatYAML)
	require.NoError(t, err)
	reg := goschema.NewRegistry()
	types, err := doc.Define(reg)
	require.NoError(t, err)
	require.Len(t, types, 4)
	assert.Equal(t, "shop.Order", types[0].FullName())
	return reg
}

func TestDocument_DefineAndLoad(t *testing.T) {
	reg := defineShop(t)
	order, err := reg.Resolve("Order")
	require.NoError(t, err)

	var names []string
	for _, d := range order.DeclaredFields() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"created", "id", "status", "items", "customer"}, names)

	in, err := source.JSON([]byte(`{
		"id": "7",
		"status": "paid",
		"created": "2024/02/01",
		"items": [{"sku": "sku-1", "qty": 2}],
		"customer": {"email": "a@example.com", "referrer": {"email": "b@example.com"}}
	}`))
	require.NoError(t, err)

	out, err := order.New().Load(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":      int64(7),
		"status":  "PAID",
		"created": time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		"items":   []any{map[string]any{"sku": "sku-1", "qty": int64(2)}},
		"customer": map[string]any{
			"email":    "a@example.com",
			"referrer": map[string]any{"email": "b@example.com"},
		},
	}, out)
}

func TestDocument_LoadFailures(t *testing.T) {
	reg := defineShop(t)
	order, err := reg.Resolve("shop.Order")
	require.NoError(t, err)
	s := order.New()

	cases := []struct {
		in   string
		kind error
		msg  string
	}{
		{`{"items": []}`, goschema.ErrRequired, "id: required property missing"},
		{`{"id": 0, "items": []}`, goschema.ErrValidation, "id: must be greater than or equal to 1"},
		{`{"id": 99999999999999999999, "items": []}`, goschema.ErrOverflow, "id: number is too large for integer"},
		{`{"id": 1, "status": "lost", "items": []}`, goschema.ErrValidation, "status: must be one of: NEW, PAID"},
		{`{"id": 1, "items": [{"sku": "sku-1"}, {"sku": "x"}]}`, goschema.ErrValidation, "items[2].sku: does not match expected pattern"},
		{`{"id": 1, "items": [{"sku": "sku-1", "qty": 0}]}`, goschema.ErrValidation, "items[1].qty: does not satisfy value > 0"},
		{`{"id": 1, "items": [], "customer": {"email": "a@example.com", "referrer": {}}}`, goschema.ErrRequired, "customer.referrer.email: required property missing"},
	}
	for _, c := range cases {
		in, err := source.JSON([]byte(c.in))
		require.NoError(t, err)
		_, err = s.Load(context.Background(), in)
		require.Error(t, err, c.in)
		assert.True(t, errors.Is(err, c.kind), "%s: %v", c.in, err)
		assert.Equal(t, c.msg, err.Error())
	}

	out, err := s.Load(context.Background(), map[string]any{"id": 1, "items": []any{}})
	require.NoError(t, err)
	assert.Equal(t, "NEW", out.(map[string]any)["status"])
}

func TestParse_Errors(t *testing.T) {
	_, err := schemafile.Parse([]byte("schemas: [{name: A, colour: red}]"), source.FormatYAML)
	assert.True(t, errors.Is(err, goschema.ErrInvalidSchema))

	_, err = schemafile.Parse([]byte("{"), source.FormatJSON)
	assert.True(t, errors.Is(err, goschema.ErrInvalidSchema))

	bad := []string{
		"schemas: [{name: A, fields: [{name: f, type: widget}]}]",
		"schemas: [{name: A, fields: [{name: f, type: list}]}]",
		"schemas: [{name: A, fields: [{name: f, type: nested}]}]",
		"schemas: [{name: A, fields: [{name: f, validate: [{bogus: 1}]}]}]",
		"schemas: [{name: A, fields: [{name: f, validate: [{range: {min: 1}, length: {max: 2}}]}]}]",
		"schemas: [{name: A, fields: [{name: f, validate: [{regexp: '('}]}]}]",
		"schemas: [{name: A, extends: [B]}, {name: B, extends: [A]}]",
		"schemas: [{name: A, extends: [Missing]}]",
		"schemas: [{name: A}, {name: A}]",
	}
	for _, src := range bad {
		doc, err := schemafile.Parse([]byte(src), source.FormatYAML)
		require.NoError(t, err, src)
		_, err = doc.Define(goschema.NewRegistry())
		assert.Error(t, err, src)
		assert.True(t, goschema.IsConfigError(err), "%s: %v", src, err)
	}
}

func TestDocument_ExtendsRegisteredType(t *testing.T) {
	reg := goschema.NewRegistry()
	_, err := goschema.Define("Base", nil, goschema.WithRegistry(reg), goschema.InPackage("core"))
	require.NoError(t, err)
	doc, err := schemafile.Parse([]byte(`{"package": "app", "schemas": [{"name": "Child", "extends": ["core.Base"]}]}`), source.FormatJSON)
	require.NoError(t, err)
	types, err := doc.Define(reg)
	require.NoError(t, err)
	assert.Equal(t, "app.Child", types[0].FullName())
	assert.Equal(t, "core.Base", types[0].Bases()[0].FullName())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defs.yml")
	require.NoError(t, os.WriteFile(path, []byte("schemas:\n  - name: P\n    fields: [{name: n, type: float, required: true}]\n"), 0o600))

	reg := goschema.NewRegistry()
	types, err := schemafile.LoadFile(path, reg)
	require.NoError(t, err)
	assert.Equal(t, "defs.P", types[0].FullName())

	_, err = schemafile.LoadFile(filepath.Join(dir, "missing.yaml"), reg)
	assert.Error(t, err)
}
