package source

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON_PreservesNumbers(t *testing.T) {
	v, err := JSON([]byte(`{"id": 12345678901234567890, "ratio": 0.5, "tags": ["a", null, true], "nested": {"x": {}}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"id":     json.Number("12345678901234567890"),
		"ratio":  json.Number("0.5"),
		"tags":   []any{"a", nil, true},
		"nested": map[string]any{"x": map[string]any{}},
	}, v)
}

func TestJSON_Scalars(t *testing.T) {
	v, err := JSON([]byte(`"x"`))
	require.NoError(t, err)
	assert.Equal(t, "x", v)
	v, err = JSON([]byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, []any{}, v)
}

func TestJSON_DuplicateKeys(t *testing.T) {
	_, err := JSON([]byte(`{"a": [1, {"k": 1, "k": 2}]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateKey))
	assert.Contains(t, err.Error(), `"k" at a[2]`)

	v, err := JSON([]byte(`{"k": 1, "k": 2}`), AllowDuplicateKeys())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": json.Number("2")}, v)
}

func TestJSON_Malformed(t *testing.T) {
	for _, in := range []string{``, `{"a":`, `{"a": 1} {}`} {
		_, err := JSON([]byte(in))
		assert.Error(t, err, in)
	}
}

func TestYAML(t *testing.T) {
	v, err := YAML([]byte("name: ada\nage: 36\ntags: [x, y]\n1: one\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "ada", "age": 36, "tags": []any{"x", "y"}, "1": "one"}, v)

	docs, err := YAMLDocuments([]byte("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = YAML([]byte("a: 1\na: 2\n"))
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("toml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	assert.Equal(t, FormatYAML, FormatFromPath("defs.yaml"))
	assert.Equal(t, FormatJSON, FormatFromPath("in.json"))

	v, err := DecodeReader(strings.NewReader(`{"a": 1}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, v)
	v, err = DecodeReader(strings.NewReader("a: 1"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, v)
	_, err = Decode(nil, Format("xml"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}
