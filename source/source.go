// Package source turns wire bytes into the generic values schemas load:
// map[string]any for objects, []any for arrays and scalars otherwise.
//
// JSON numbers are kept as json.Number so that integer fields can tell a
// value that is too large from one that is malformed.
package source

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format names an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrDuplicateKey is returned in strict mode when an object repeats a key.
var ErrDuplicateKey = errors.New("duplicate key")

// ErrUnknownFormat is returned for a Format other than json or yaml.
var ErrUnknownFormat = errors.New("unknown format")

// Option configures decoding.
type Option func(*config)

type config struct {
	allowDuplicates bool
}

// AllowDuplicateKeys lets a repeated JSON key overwrite the earlier value
// instead of failing. YAML documents always reject duplicates.
func AllowDuplicateKeys() Option { return func(c *config) { c.allowDuplicates = true } }

func newConfig(opts []Option) config {
	var c config
	for _, o := range opts {
		o(&c)
	}
	return c
}

// ParseFormat accepts "json", "yaml" and "yml" in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath guesses the format from a file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode parses b in the given format.
func Decode(b []byte, format Format, opts ...Option) (any, error) {
	switch format {
	case FormatJSON:
		return JSON(b, opts...)
	case FormatYAML:
		return YAML(b)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
}

// DecodeReader reads r to the end and parses it in the given format.
func DecodeReader(r io.Reader, format Format, opts ...Option) (any, error) {
	if format == FormatJSON {
		return JSONReader(r, opts...)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("source: read: %w", err)
	}
	return Decode(b, format, opts...)
}
