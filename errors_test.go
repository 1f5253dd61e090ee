package goschema_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	goschema "github.com/reoring/goschema"
)

func TestPathString(t *testing.T) {
	cases := []struct {
		path goschema.Path
		want string
	}{
		{nil, ""},
		{goschema.Path{}.Key("child").Key("name"), "child.name"},
		{goschema.Path{}.Key("tags").Index(3), "tags[3]"},
		{goschema.Path{}.Index(2).Key("items").Index(1).Key("sku"), "[2].items[1].sku"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.path.String())
	}
}

func TestError_IsAndPrefix(t *testing.T) {
	e := goschema.NewError(goschema.CodeOverflow, map[string]any{"expected": "integer"})
	assert.Equal(t, "number is too large for integer", e.Error())

	p := e.WithPrefix(goschema.Path{{Key: "n"}})
	assert.Equal(t, "n: number is too large for integer", p.Error())
	assert.Empty(t, e.Path, "WithPrefix must not mutate the receiver")

	wrapped := fmt.Errorf("outer: %w", p)
	assert.True(t, errors.Is(wrapped, goschema.ErrOverflow))
	assert.False(t, errors.Is(wrapped, goschema.ErrType))
	got, ok := goschema.AsError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "n", got.Field())
}

func TestError_CauseUnwraps(t *testing.T) {
	cause := errors.New("boom")
	e := &goschema.Error{Kind: goschema.CodeValidation, Cause: cause}
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, "invalid value", e.Error())
}

func TestSentinels_RenderWithoutParams(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{goschema.ErrType, "invalid type"},
		{goschema.ErrOverflow, "number is too large"},
		{goschema.ErrRequired, "required property missing"},
		{goschema.ErrNotFound, "schema was not found"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Error())
	}
}
