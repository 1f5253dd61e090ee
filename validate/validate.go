// Package validate provides validators for field chains. Every validator
// implements goschema.Validator and reports failures as validation errors.
//
//	fields.Integer(fields.Validate(validate.Range{Min: 0, Max: 150}))
//	fields.String(fields.Validate(validate.Length{Max: 64}, validate.OneOf("a", "b")))
package validate

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	goschema "github.com/reoring/goschema"
)

// Range checks that a number (or time.Time) lies within [Min, Max]. A nil
// bound is not checked. Bounds are inclusive unless the Exclusive flags are
// set.
type Range struct {
	Min, Max     any
	ExclusiveMin bool
	ExclusiveMax bool
	// Message overrides the default text; {input}, {min} and {max} are
	// substituted.
	Message string
}

func (r Range) Validate(value any, field string) (any, error) {
	if r.Min != nil {
		c, ok := compare(value, r.Min)
		if !ok || c < 0 || (r.ExclusiveMin && c == 0) {
			return nil, r.fail(value)
		}
	}
	if r.Max != nil {
		c, ok := compare(value, r.Max)
		if !ok || c > 0 || (r.ExclusiveMax && c == 0) {
			return nil, r.fail(value)
		}
	}
	return value, nil
}

func (r Range) fail(value any) error {
	params := map[string]any{"input": value, "min": r.Min, "max": r.Max}
	if r.Message != "" {
		return &goschema.Error{Kind: goschema.CodeValidation, Detail: substitute(r.Message, params), Params: params}
	}
	minOp, maxOp := "greater than or equal to", "less than or equal to"
	if r.ExclusiveMin {
		minOp = "greater than"
	}
	if r.ExclusiveMax {
		maxOp = "less than"
	}
	switch {
	case r.Min != nil && r.Max != nil:
		params["min_op"], params["max_op"] = minOp, maxOp
		return goschema.NewValidation("out_of_range", params)
	case r.Min != nil:
		params["op"] = minOp
		return goschema.NewValidation("too_small", params)
	default:
		params["op"] = maxOp
		return goschema.NewValidation("too_big", params)
	}
}

// Length checks the length of a string (in runes), sequence or mapping. Zero
// bounds are not checked; Equal, when positive, replaces Min and Max.
type Length struct {
	Min, Max int
	Equal    int
	Message  string
}

func (l Length) Validate(value any, field string) (any, error) {
	n, ok := lengthOf(value)
	if !ok {
		return nil, goschema.NewError(goschema.CodeInvalidType, map[string]any{"expected": "sized value"})
	}
	params := map[string]any{"input": value, "min": l.Min, "max": l.Max, "equal": l.Equal}
	key := ""
	switch {
	case l.Equal > 0:
		if n != l.Equal {
			key = "length_equal"
		}
	case l.Min > 0 && n < l.Min:
		key = "too_short"
		if l.Max > 0 {
			key = "length_between"
		}
	case l.Max > 0 && n > l.Max:
		key = "too_long"
		if l.Min > 0 {
			key = "length_between"
		}
	}
	if key == "" {
		return value, nil
	}
	if l.Message != "" {
		return nil, &goschema.Error{Kind: goschema.CodeValidation, Detail: substitute(l.Message, params), Params: params}
	}
	return nil, goschema.NewValidation(key, params)
}

func lengthOf(v any) (int, bool) {
	switch t := v.(type) {
	case string:
		return utf8.RuneCountInString(t), true
	case []byte:
		return utf8.RuneCount(t), true
	}
	if s, ok := goschema.AsSequence(v); ok {
		return s.Len(), true
	}
	if m, ok := goschema.AsKeyed(v); ok {
		return len(m.Keys()), true
	}
	return 0, false
}

// OneOfValidator accepts only the listed choices.
type OneOfValidator struct {
	choices []any
}

// OneOf accepts values equal to one of choices.
func OneOf(choices ...any) OneOfValidator { return OneOfValidator{choices: choices} }

func (o OneOfValidator) Choices() []any { return append([]any(nil), o.choices...) }

func (o OneOfValidator) Validate(value any, field string) (any, error) {
	for _, c := range o.choices {
		if equal(value, c) {
			return value, nil
		}
	}
	return nil, goschema.NewValidation("one_of", map[string]any{"choices": joinValues(o.choices), "input": value})
}

// NoneOfValidator rejects the listed values.
type NoneOfValidator struct {
	values []any
}

// NoneOf rejects values equal to one of values.
func NoneOf(values ...any) NoneOfValidator { return NoneOfValidator{values: values} }

func (n NoneOfValidator) Values() []any { return append([]any(nil), n.values...) }

func (n NoneOfValidator) Validate(value any, field string) (any, error) {
	for _, c := range n.values {
		if equal(value, c) {
			return nil, goschema.NewValidation("none_of", map[string]any{"values": joinValues(n.values), "input": value})
		}
	}
	return value, nil
}

// RegexpValidator matches a string against a pattern anchored at the start.
type RegexpValidator struct {
	re      *regexp.Regexp
	pattern string
	message string
}

// Regexp compiles pattern; the match must begin at the first character.
func Regexp(pattern string) (RegexpValidator, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return RegexpValidator{}, fmt.Errorf("validate: regexp %q: %w", pattern, err)
	}
	return RegexpValidator{re: re, pattern: pattern}, nil
}

// MustRegexp is like Regexp but panics on a bad pattern.
func MustRegexp(pattern string) RegexpValidator {
	v, err := Regexp(pattern)
	if err != nil {
		panic(err)
	}
	return v
}

// WithMessage overrides the failure text; {input} and {regex} are substituted.
func (r RegexpValidator) WithMessage(msg string) RegexpValidator {
	r.message = msg
	return r
}

// Pattern returns the pattern as given, without the anchor.
func (r RegexpValidator) Pattern() string { return r.pattern }

func (r RegexpValidator) Validate(value any, field string) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, goschema.NewError(goschema.CodeInvalidType, map[string]any{"expected": "string"})
	}
	if r.re.MatchString(s) {
		return value, nil
	}
	params := map[string]any{"input": s, "regex": r.re.String()}
	if r.message != "" {
		return nil, &goschema.Error{Kind: goschema.CodeValidation, Detail: substitute(r.message, params), Params: params}
	}
	return nil, goschema.NewValidation("pattern", params)
}

// OneOfEnumValidator matches names case-insensitively and returns the member
// value, so "active" loads as the canonical member.
type OneOfEnumValidator struct {
	members map[string]any
	names   []string
}

// OneOfEnum builds an enum validator from name -> member value pairs. Names
// are compared upper-cased; member values are accepted as-is.
func OneOfEnum(members map[string]any) OneOfEnumValidator {
	v := OneOfEnumValidator{members: make(map[string]any, len(members))}
	for k, m := range members {
		up := strings.ToUpper(k)
		v.members[up] = m
		v.names = append(v.names, up)
	}
	sort.Strings(v.names)
	return v
}

// Names returns the upper-cased member names in sorted order.
func (e OneOfEnumValidator) Names() []string { return append([]string(nil), e.names...) }

func (e OneOfEnumValidator) Validate(value any, field string) (any, error) {
	if s, ok := value.(string); ok {
		if m, ok := e.members[strings.ToUpper(s)]; ok {
			return m, nil
		}
	}
	for _, name := range e.names {
		if equal(value, e.members[name]) {
			return value, nil
		}
	}
	return nil, goschema.NewValidation("one_of", map[string]any{"choices": strings.Join(e.names, ", "), "input": value})
}

func substitute(msg string, params map[string]any) string {
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
