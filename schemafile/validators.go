package schemafile

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	goschema "github.com/reoring/goschema"
	"github.com/reoring/goschema/validate"
)

// Each validate entry is a single-key mapping:
//
//	- range: {min: 0, max: 10, exclusive_max: true}
//	- length: {max: 64}
//	- one_of: [a, b]
//	- none_of: [root]
//	- regexp: "[a-z]+"          # or {pattern: ..., message: ...}
//	- email: {}
//	- url: {schemes: [https], relative: false, require_tld: true}
//	- password: {min_length: 12, require_special: true}
//	- one_of_enum: {active: 1, disabled: 2}
//	- expr: "value % 2 == 0"    # or {expr: ..., message: ...}
func buildValidators(entries []map[string]any) ([]goschema.Validator, error) {
	out := make([]goschema.Validator, 0, len(entries))
	for i, e := range entries {
		if len(e) != 1 {
			keys := make([]string, 0, len(e))
			for k := range e {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			return nil, goschema.Errorf(goschema.CodeInvalidSchema,
				fmt.Sprintf("validator %d must have exactly one key, got %v", i+1, keys))
		}
		for name, arg := range e {
			v, err := buildValidator(name, arg)
			if err != nil {
				if _, ok := goschema.AsError(err); !ok {
					err = invalid(err, name)
				}
				return nil, fmt.Errorf("validator %s: %w", name, err)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

type rangeArgs struct {
	Min          any    `mapstructure:"min"`
	Max          any    `mapstructure:"max"`
	ExclusiveMin bool   `mapstructure:"exclusive_min"`
	ExclusiveMax bool   `mapstructure:"exclusive_max"`
	Message      string `mapstructure:"message"`
}

type lengthArgs struct {
	Min     int    `mapstructure:"min"`
	Max     int    `mapstructure:"max"`
	Equal   int    `mapstructure:"equal"`
	Message string `mapstructure:"message"`
}

type patternArgs struct {
	Pattern string `mapstructure:"pattern"`
	Expr    string `mapstructure:"expr"`
	Message string `mapstructure:"message"`
}

type urlArgs struct {
	Schemes    []string `mapstructure:"schemes"`
	Relative   bool     `mapstructure:"relative"`
	RequireTLD *bool    `mapstructure:"require_tld"`
}

type passwordArgs struct {
	MinLength        *int  `mapstructure:"min_length"`
	RequireNumber    *bool `mapstructure:"require_number"`
	RequireUppercase bool  `mapstructure:"require_uppercase"`
	RequireSpecial   bool  `mapstructure:"require_special"`
}

func buildValidator(name string, arg any) (goschema.Validator, error) {
	switch name {
	case "range":
		var a rangeArgs
		if err := decodeArgs(arg, &a); err != nil {
			return nil, err
		}
		return validate.Range{Min: a.Min, Max: a.Max, ExclusiveMin: a.ExclusiveMin, ExclusiveMax: a.ExclusiveMax, Message: a.Message}, nil
	case "length":
		var a lengthArgs
		if err := decodeArgs(arg, &a); err != nil {
			return nil, err
		}
		return validate.Length{Min: a.Min, Max: a.Max, Equal: a.Equal, Message: a.Message}, nil
	case "one_of", "none_of":
		var choices []any
		if err := decodeArgs(arg, &choices); err != nil {
			return nil, err
		}
		if name == "one_of" {
			return validate.OneOf(choices...), nil
		}
		return validate.NoneOf(choices...), nil
	case "regexp":
		a, err := patternOrString(arg, "pattern")
		if err != nil {
			return nil, err
		}
		v, err := validate.Regexp(a.Pattern)
		if err != nil {
			return nil, err
		}
		return v.WithMessage(a.Message), nil
	case "expr":
		a, err := patternOrString(arg, "expr")
		if err != nil {
			return nil, err
		}
		v, err := validate.Expr(a.Expr)
		if err != nil {
			return nil, err
		}
		return v.WithMessage(a.Message), nil
	case "email":
		return validate.Email(), nil
	case "url":
		a := urlArgs{}
		if err := decodeArgs(arg, &a); err != nil {
			return nil, err
		}
		v := validate.URL()
		v.Schemes, v.Relative = a.Schemes, a.Relative
		if a.RequireTLD != nil {
			v.RequireTLD = *a.RequireTLD
		}
		return v, nil
	case "password":
		a := passwordArgs{}
		if err := decodeArgs(arg, &a); err != nil {
			return nil, err
		}
		v := validate.Password()
		if a.MinLength != nil {
			v.MinLength = *a.MinLength
		}
		if a.RequireNumber != nil {
			v.RequireNumber = *a.RequireNumber
		}
		v.RequireUppercase, v.RequireSpecial = a.RequireUppercase, a.RequireSpecial
		return v, nil
	case "one_of_enum":
		var members map[string]any
		if err := decodeArgs(arg, &members); err != nil {
			return nil, err
		}
		return validate.OneOfEnum(members), nil
	}
	return nil, goschema.Errorf(goschema.CodeInvalidSchema, fmt.Sprintf("unknown validator %q", name))
}

// patternOrString accepts either a bare string or a mapping with key and an
// optional message.
func patternOrString(arg any, key string) (patternArgs, error) {
	var a patternArgs
	if s, ok := arg.(string); ok {
		if key == "expr" {
			a.Expr = s
		} else {
			a.Pattern = s
		}
		return a, nil
	}
	err := decodeArgs(arg, &a)
	return a, err
}

func decodeArgs(arg any, out any) error {
	if arg == nil {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      out,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(arg); err != nil {
		return &goschema.Error{Kind: goschema.CodeInvalidSchema, Detail: err.Error(), Cause: err}
	}
	return nil
}
