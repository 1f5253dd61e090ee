package goschema_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/fields"
)

func TestChain_ThreadsValuesAndStopsAtFirstFailure(t *testing.T) {
	var seen []any
	trim := goschema.ValidatorFunc(func(v any, _ string) (any, error) {
		seen = append(seen, v)
		return strings.TrimSpace(v.(string)), nil
	})
	nonEmpty := goschema.Predicate(func(v any) bool { return v.(string) != "" })
	never := goschema.ValidatorFunc(func(v any, _ string) (any, error) {
		t.Fatal("validator after a failure must not run")
		return v, nil
	})

	out, err := goschema.And(trim, nonEmpty).Validate("  x ", "f")
	require.NoError(t, err)
	assert.Equal(t, "x", out)

	_, err = goschema.And(trim, nonEmpty, never).Validate("   ", "f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, goschema.ErrValidation))
	assert.Equal(t, []any{"  x ", "   "}, seen)
}

func TestChain_WrapsForeignErrors(t *testing.T) {
	cause := errors.New("not allowed")
	_, err := goschema.And(nil, goschema.ValidatorFunc(func(any, string) (any, error) { return nil, cause })).Validate(1, "f")
	require.Error(t, err)
	assert.True(t, errors.Is(err, goschema.ErrValidation))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "not allowed", err.Error())
}

func TestDeserialize_ValidatorFailureCarriesFieldPath(t *testing.T) {
	reg := goschema.NewRegistry()
	odd := goschema.Predicate(func(v any) bool { return v.(int64)%2 == 1 })
	st := define(t, reg, "Odd", goschema.F("n", fields.Integer(fields.Validate(odd))))

	_, err := st.New().Load(context.Background(), map[string]any{"n": 4})
	require.Error(t, err)
	assert.Equal(t, "n: invalid value", err.Error())

	// validators never see missing values
	out, err := st.New().Load(context.Background(), map[string]any{"n": nil})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, out)
}
