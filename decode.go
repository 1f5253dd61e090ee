package goschema

import (
	"context"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// LoadInto loads data with s and decodes the result into out, which must be a
// pointer to a struct (or a slice of structs for many loads). Struct keys
// follow the json tag, falling back to the field name. String outputs decode
// into time.Time (RFC 3339) and time.Duration targets.
func LoadInto(ctx context.Context, s *Schema, data any, out any, opts ...LoadOpt) error {
	v, err := s.Load(ctx, data, opts...)
	if err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: false,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return fmt.Errorf("goschema: decoder: %w", err)
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("goschema: decode %s: %w", s.typ.fullName, err)
	}
	return nil
}
