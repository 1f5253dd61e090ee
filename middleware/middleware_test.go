package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/fields"
	"github.com/reoring/goschema/middleware"
)

func itemSchema(t *testing.T) *goschema.Schema {
	t.Helper()
	st, err := goschema.Define("Item", []goschema.Decl{
		goschema.F("sku", fields.String(fields.Required(), fields.UpperCase())),
		goschema.F("qty", fields.Integer()),
	}, goschema.WithRegistry(goschema.NewRegistry()), goschema.InPackage("mw"))
	require.NoError(t, err)
	return st.New()
}

func serve(h http.Handler, ctype, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func echo(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v, ok := middleware.Loaded(r.Context())
		require.True(t, ok)
		_ = json.NewEncoder(w).Encode(v)
	})
}

func TestLoad(t *testing.T) {
	h := middleware.Load(itemSchema(t))(echo(t))

	rec := serve(h, "application/json", `{"sku":"ab-1","qty":"2"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sku":"AB-1","qty":2}`, rec.Body.String())

	rec = serve(h, "application/yaml", "sku: x\n")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sku":"X"}`, rec.Body.String())
}

func TestLoad_Failures(t *testing.T) {
	h := middleware.Load(itemSchema(t))(echo(t))

	rec := serve(h, "application/json", `{"qty":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"sku: required property missing","kind":"required","path":"sku"}`, rec.Body.String())

	rec = serve(h, "application/json", `{"sku":"a","sku":"b"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h, "application/json", `[{"sku":"a"}]`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"invalid_type"`)
}

func TestLoad_UnresolvedNestedIsServerError(t *testing.T) {
	st, err := goschema.Define("Order", []goschema.Decl{
		goschema.F("line", fields.Nested("Line")),
	}, goschema.WithRegistry(goschema.NewRegistry()), goschema.InPackage("mw"))
	require.NoError(t, err)
	h := middleware.Load(st.New())(echo(t))

	rec := serve(h, "application/json", `{"line":{"sku":"a"}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"not_found"`)
}

func TestLoad_Options(t *testing.T) {
	var status int
	h := middleware.Load(itemSchema(t),
		middleware.Many(goschema.ManyOn),
		middleware.AllowDuplicateKeys(),
		middleware.OnError(func(w http.ResponseWriter, _ *http.Request, s int, _ error) {
			status = s
			w.WriteHeader(http.StatusTeapot)
		}),
	)(echo(t))

	rec := serve(h, "application/json", `[{"sku":"a","sku":"b"}]`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"sku":"B"}]`, rec.Body.String())

	rec = serve(h, "application/json", `[{"sku":"a"},{}]`)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestLoaded_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.Loaded(req.Context())
	assert.False(t, ok)
}
