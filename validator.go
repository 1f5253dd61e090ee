package goschema

// Validator accepts or rejects an already coerced value. It may return a
// replacement value, which later validators and the output receive.
type Validator interface {
	Validate(value any, field string) (any, error)
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(value any, field string) (any, error)

func (f ValidatorFunc) Validate(value any, field string) (any, error) { return f(value, field) }

// Predicate adapts a boolean check. A false result fails with a validation
// error.
type Predicate func(value any) bool

func (p Predicate) Validate(value any, field string) (any, error) {
	if !p(value) {
		return nil, NewError(CodeValidation, map[string]any{"field": field})
	}
	return value, nil
}

// Chain runs validators in order, threading each result into the next one. The
// first failure stops the chain.
type Chain []Validator

// And composes validators into a Chain. Nil entries are skipped.
func And(validators ...Validator) Chain {
	out := make(Chain, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func (c Chain) Validate(value any, field string) (any, error) {
	for _, v := range c {
		next, err := v.Validate(value, field)
		if err != nil {
			return nil, asFieldError(err)
		}
		value = next
	}
	return value, nil
}
