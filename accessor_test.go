package goschema_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goschema "github.com/reoring/goschema"
)

type address struct {
	City string
}

type person struct {
	Name    string
	Address *address
	secret  string
}

func TestGetValue(t *testing.T) {
	data := map[string]any{
		"name":    "ada",
		"address": map[string]any{"city": "London"},
		"typed":   map[string]int{"n": 3},
	}
	assert.Equal(t, "ada", goschema.GetValue(data, "name", nil))
	assert.Equal(t, "London", goschema.GetValue(data, "address.city", nil))
	assert.Equal(t, 3, goschema.GetValue(data, "typed.n", nil))
	assert.True(t, goschema.IsMissing(goschema.GetValue(data, "age", goschema.Missing)))
	assert.True(t, goschema.IsMissing(goschema.GetValue(data, "address.zip", goschema.Missing)))
}

func TestGetValue_StructFallback(t *testing.T) {
	p := &person{Name: "bob", Address: &address{City: "Oslo"}, secret: "x"}
	assert.Equal(t, "bob", goschema.GetValue(p, "name", nil))
	assert.Equal(t, "Oslo", goschema.GetValue(p, "address.city", nil))
	assert.Equal(t, "dflt", goschema.GetValue(p, "secret", "dflt"))
	assert.Equal(t, "dflt", goschema.GetValue((*person)(nil), "name", "dflt"))
}

func TestSetValue(t *testing.T) {
	out := map[string]any{}
	require.NoError(t, goschema.SetValue(out, "a", 1))
	require.NoError(t, goschema.SetValue(out, "b.c.d", 2))
	require.NoError(t, goschema.SetValue(out, "b.c.e", 3))
	assert.Equal(t, map[string]any{"a": 1, "b": map[string]any{"c": map[string]any{"d": 2, "e": 3}}}, out)

	err := goschema.SetValue(out, "a.x", 4)
	assert.True(t, errors.Is(err, goschema.ErrInvalidSchema))
}

func TestAsKeyedAndSequence(t *testing.T) {
	_, ok := goschema.AsKeyed(map[string]string{"a": "b"})
	assert.True(t, ok)
	k, ok := goschema.AsKeyed(map[any]any{1: "x"})
	require.True(t, ok)
	v, _ := k.Lookup("1")
	assert.Equal(t, "x", v)
	_, ok = goschema.AsKeyed([]any{})
	assert.False(t, ok)

	for _, in := range []any{"abc", []byte("abc"), map[string]any{}, 3, nil} {
		_, ok := goschema.AsSequence(in)
		assert.False(t, ok, "%T", in)
	}
	s, ok := goschema.AsSequence([]string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "b", s.At(1))
	_, ok = goschema.AsSequence([2]int{1, 2})
	assert.True(t, ok)
}
